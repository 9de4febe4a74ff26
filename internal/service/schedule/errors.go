package schedule

import "errors"

var (
	// ErrEmployeeNotFound возвращается, когда сотрудник не найден
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrSlotNotFound возвращается, когда слот не существует или его нельзя освободить
	ErrSlotNotFound = errors.New("slot not found")

	// ErrSlotConflict возвращается, когда слот уже занят
	ErrSlotConflict = errors.New("slot is not available")

	// ErrConcurrentModification возвращается, когда расписание изменили параллельно
	ErrConcurrentModification = errors.New("schedule was modified concurrently")

	// ErrInvalidWorkingHours возвращается, когда у сотрудника битая строка рабочих часов
	ErrInvalidWorkingHours = errors.New("invalid employee working hours")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
