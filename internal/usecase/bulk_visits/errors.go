package bulk_visits

import "errors"

var (
	// ErrInvalidInput возвращается при некорректном запросе целиком (операция, список ID)
	ErrInvalidInput = errors.New("bulk_visits: invalid input data")

	// ErrInternal возвращается при ошибке хранилища; пакет не применяется частично
	ErrInternal = errors.New("bulk_visits: internal error")
)

// Сообщения об ошибках по отдельному визиту
const (
	msgVisitNotFound = "visit not found"
)

// Коды ошибок по отдельному визиту
const (
	codeNotFound          = "not_found"
	codeInvalidTransition = "invalid_transition"
	codeValidation        = "validation"
)
