package schedule

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда сохраненного расписания на дату нет
	ErrScheduleNotFound = errors.New("schedule.repository: day schedule not found")

	// ErrVersionConflict возвращается, когда расписание изменили параллельно
	ErrVersionConflict = errors.New("schedule.repository: version conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")

	// ErrEncode возвращается при ошибке сериализации слотов
	ErrEncode = errors.New("schedule.repository: failed to encode time slots")
)
