package export_schedule

import "errors"

var (
	// ErrEmployeeNotFound возвращается, когда сотрудник не найден
	ErrEmployeeNotFound = errors.New("export_schedule: employee not found")

	// ErrInvalidWorkingHours возвращается, когда у сотрудника битая строка рабочих часов
	ErrInvalidWorkingHours = errors.New("export_schedule: invalid employee working hours")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("export_schedule: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("export_schedule: internal error")
)
