package visit

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	pkgtypes "github.com/m04kA/SMC-ScheduleService/pkg/types"
)

var visitColumns = []string{
	"v.id",
	"v.order_id",
	"o.order_number",
	"v.visit_number",
	"v.type",
	"v.scheduled_date",
	"v.scheduled_time",
	"v.estimated_duration",
	"v.status",
	"v.technician_id",
	"v.technician_name",
	"v.assigned_to",
	"v.notes",
	"v.admin_notes",
	"v.previous_schedule",
	"v.completed_at",
	"v.cancelled_at",
	"v.cancelled_by",
	"v.cancel_reason",
	"v.status_changed_at",
	"v.status_changed_by",
	"v.updated_at",
	"v.last_modified_by",
	"v.version",
}

type visitRow struct {
	ID                string              `db:"id"`
	OrderID           string              `db:"order_id"`
	OrderNumber       string              `db:"order_number"`
	VisitNumber       int                 `db:"visit_number"`
	Type              string              `db:"type"`
	ScheduledDate     time.Time           `db:"scheduled_date"`
	ScheduledTime     pkgtypes.TimeString `db:"scheduled_time"`
	EstimatedDuration int                 `db:"estimated_duration"`
	Status            string              `db:"status"`
	TechnicianID      sql.NullString      `db:"technician_id"`
	TechnicianName    sql.NullString      `db:"technician_name"`
	AssignedTo        sql.NullString      `db:"assigned_to"`
	Notes             sql.NullString      `db:"notes"`
	AdminNotes        types.JSONText      `db:"admin_notes"`
	PreviousSchedule  types.NullJSONText  `db:"previous_schedule"`
	CompletedAt       sql.NullTime        `db:"completed_at"`
	CancelledAt       sql.NullTime        `db:"cancelled_at"`
	CancelledBy       sql.NullString      `db:"cancelled_by"`
	CancelReason      sql.NullString      `db:"cancel_reason"`
	StatusChangedAt   sql.NullTime        `db:"status_changed_at"`
	StatusChangedBy   sql.NullString      `db:"status_changed_by"`
	UpdatedAt         time.Time           `db:"updated_at"`
	LastModifiedBy    sql.NullString      `db:"last_modified_by"`
	Version           int64               `db:"version"`
}

type adminNoteRecord struct {
	ID      string    `json:"id"`
	Text    string    `json:"text"`
	AddedBy string    `json:"addedBy"`
	AddedAt time.Time `json:"addedAt"`
}

type previousScheduleRecord struct {
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	RescheduledAt time.Time `json:"rescheduledAt"`
	RescheduledBy string    `json:"rescheduledBy,omitempty"`
}

func (r *visitRow) toDomain() (*domain.Visit, error) {
	var notes []adminNoteRecord
	if len(r.AdminNotes) > 0 {
		if err := r.AdminNotes.Unmarshal(&notes); err != nil {
			return nil, err
		}
	}

	v := &domain.Visit{
		ID:                r.ID,
		OrderID:           r.OrderID,
		OrderNumber:       r.OrderNumber,
		VisitNumber:       r.VisitNumber,
		Type:              domain.VisitType(r.Type),
		ScheduledDate:     domain.DateOnly(r.ScheduledDate),
		ScheduledTime:     r.ScheduledTime,
		EstimatedDuration: r.EstimatedDuration,
		Status:            domain.VisitStatus(r.Status),
		TechnicianID:      r.TechnicianID.String,
		TechnicianName:    r.TechnicianName.String,
		AssignedTo:        r.AssignedTo.String,
		Notes:             r.Notes.String,
		AdminNotes:        make([]domain.AdminNote, 0, len(notes)),
		CompletedAt:       nullTimePtr(r.CompletedAt),
		CancelledAt:       nullTimePtr(r.CancelledAt),
		CancelledBy:       r.CancelledBy.String,
		CancelReason:      r.CancelReason.String,
		StatusChangedAt:   nullTimePtr(r.StatusChangedAt),
		StatusChangedBy:   r.StatusChangedBy.String,
		UpdatedAt:         r.UpdatedAt,
		LastModifiedBy:    r.LastModifiedBy.String,
		Version:           r.Version,
	}

	for _, n := range notes {
		v.AdminNotes = append(v.AdminNotes, domain.AdminNote(n))
	}

	if r.PreviousSchedule.Valid {
		var prev previousScheduleRecord
		if err := r.PreviousSchedule.Unmarshal(&prev); err != nil {
			return nil, err
		}
		v.PreviousSchedule = &domain.PreviousSchedule{
			Date:          prev.Date,
			Time:          pkgtypes.TimeString(prev.Time),
			RescheduledAt: prev.RescheduledAt,
			RescheduledBy: prev.RescheduledBy,
		}
	}

	return v, nil
}

func encodeAdminNotes(notes []domain.AdminNote) (types.JSONText, error) {
	records := make([]adminNoteRecord, 0, len(notes))
	for _, n := range notes {
		records = append(records, adminNoteRecord(n))
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	return types.JSONText(data), nil
}

func encodePreviousSchedule(prev *domain.PreviousSchedule) (types.NullJSONText, error) {
	if prev == nil {
		return types.NullJSONText{}, nil
	}
	data, err := json.Marshal(previousScheduleRecord{
		Date:          prev.Date,
		Time:          prev.Time.String(),
		RescheduledAt: prev.RescheduledAt,
		RescheduledBy: prev.RescheduledBy,
	})
	if err != nil {
		return types.NullJSONText{}, err
	}
	return types.NullJSONText{JSONText: types.JSONText(data), Valid: true}, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func timePtrToNull(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func stringToNull(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
