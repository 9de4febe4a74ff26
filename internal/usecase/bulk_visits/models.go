package bulk_visits

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// Request запрос на массовую операцию
type Request struct {
	Operation   string        `json:"operation"`
	VisitIDs    []string      `json:"visitIds"`
	Data        OperationData `json:"operationData"`
	PerformedBy string        `json:"-"` // из заголовка X-User-ID
}

// OperationData параметры операции; нужные поля зависят от операции
type OperationData struct {
	TechnicianID   string `json:"technicianId,omitempty"`
	TechnicianName string `json:"technicianName,omitempty"`
	NewDate        string `json:"newDate,omitempty"` // "2025-12-01"
	NewTime        string `json:"newTime,omitempty"` // "10:00"
	NewStatus      string `json:"newStatus,omitempty"`
	Reason         string `json:"reason,omitempty"`
	Note           string `json:"note,omitempty"`
}

// Response результат массовой операции. Ошибки по визитам не прерывают пакет.
type Response struct {
	Success        bool          `json:"success"`
	Operation      string        `json:"operation"`
	RequestedCount int           `json:"requestedCount"` // без повторов visitIds
	UpdatedCount   int           `json:"updatedCount"`
	UpdatedVisits  []VisitResult `json:"updatedVisits"`
	Errors         []VisitError  `json:"errors"`
	Message        string        `json:"message"`
}

// VisitError ошибка по отдельному визиту
type VisitError struct {
	VisitID string `json:"visitId"`
	Code    string `json:"code"`
	Error   string `json:"error"`
}

// PreviousScheduleResult снимок даты и времени до переноса
type PreviousScheduleResult struct {
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	RescheduledAt time.Time `json:"rescheduledAt"`
}

// AdminNoteResult заметка администратора
type AdminNoteResult struct {
	ID      string    `json:"id"`
	Text    string    `json:"text"`
	AddedBy string    `json:"addedBy"`
	AddedAt time.Time `json:"addedAt"`
}

// VisitResult визит после применения операции
type VisitResult struct {
	VisitID          string                  `json:"visitId"`
	OrderID          string                  `json:"orderId"`
	OrderNumber      string                  `json:"orderNumber,omitempty"`
	VisitNumber      int                     `json:"visitNumber"`
	Type             string                  `json:"type"`
	Status           string                  `json:"status"`
	ScheduledDate    string                  `json:"scheduledDate"`
	ScheduledTime    string                  `json:"scheduledTime,omitempty"`
	TechnicianID     string                  `json:"technicianId,omitempty"`
	TechnicianName   string                  `json:"technicianName,omitempty"`
	PreviousSchedule *PreviousScheduleResult `json:"previousSchedule,omitempty"`
	AdminNotes       []AdminNoteResult       `json:"adminNotes,omitempty"`
	CancelReason     string                  `json:"cancelReason,omitempty"`
	CancelledBy      string                  `json:"cancelledBy,omitempty"`
	CancelledAt      *time.Time              `json:"cancelledAt,omitempty"`
	CompletedAt      *time.Time              `json:"completedAt,omitempty"`
	StatusChangedAt  *time.Time              `json:"statusChangedAt,omitempty"`
	StatusChangedBy  string                  `json:"statusChangedBy,omitempty"`
	UpdatedAt        time.Time               `json:"updatedAt"`
	LastModifiedBy   string                  `json:"lastModifiedBy,omitempty"`
}

func toVisitResult(v *domain.Visit) VisitResult {
	result := VisitResult{
		VisitID:         v.ID,
		OrderID:         v.OrderID,
		OrderNumber:     v.OrderNumber,
		VisitNumber:     v.VisitNumber,
		Type:            string(v.Type),
		Status:          string(v.Status),
		ScheduledDate:   v.ScheduledDate.Format(domain.DateFormat),
		ScheduledTime:   v.ScheduledTime.String(),
		TechnicianID:    v.TechnicianID,
		TechnicianName:  v.TechnicianName,
		CancelReason:    v.CancelReason,
		CancelledBy:     v.CancelledBy,
		CancelledAt:     v.CancelledAt,
		CompletedAt:     v.CompletedAt,
		StatusChangedAt: v.StatusChangedAt,
		StatusChangedBy: v.StatusChangedBy,
		UpdatedAt:       v.UpdatedAt,
		LastModifiedBy:  v.LastModifiedBy,
	}

	if v.PreviousSchedule != nil {
		result.PreviousSchedule = &PreviousScheduleResult{
			Date:          v.PreviousSchedule.Date,
			Time:          v.PreviousSchedule.Time.String(),
			RescheduledAt: v.PreviousSchedule.RescheduledAt,
		}
	}

	for _, n := range v.AdminNotes {
		result.AdminNotes = append(result.AdminNotes, AdminNoteResult{
			ID:      n.ID,
			Text:    n.Text,
			AddedBy: n.AddedBy,
			AddedAt: n.AddedAt,
		})
	}

	return result
}
