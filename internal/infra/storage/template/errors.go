package template

import "errors"

var (
	// ErrTemplateNotFound возвращается, когда шаблон недели не найден
	ErrTemplateNotFound = errors.New("template.repository: template not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("template.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("template.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("template.repository: failed to scan row")

	// ErrEncode возвращается при ошибке сериализации JSONB полей
	ErrEncode = errors.New("template.repository: failed to encode intervals")
)
