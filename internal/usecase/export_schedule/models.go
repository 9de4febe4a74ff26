package export_schedule

import "time"

// ContentType MIME тип выгрузки
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Request запрос на выгрузку расписания за период [From, To]
type Request struct {
	EmployeeID string
	From       time.Time
	To         time.Time
}

// Response готовая книга xlsx
type Response struct {
	FileName string
	Content  []byte
}
