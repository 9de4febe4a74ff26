package schedule

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	pkgtypes "github.com/m04kA/SMC-ScheduleService/pkg/types"
)

var scheduleColumns = []string{
	"employee_id",
	"schedule_date",
	"time_slots",
	"source_system",
	"is_day_off",
	"version",
	"updated_at",
}

type scheduleRow struct {
	EmployeeID   string         `db:"employee_id"`
	Date         time.Time      `db:"schedule_date"`
	TimeSlots    types.JSONText `db:"time_slots"`
	SourceSystem string         `db:"source_system"`
	IsDayOff     bool           `db:"is_day_off"`
	Version      int64          `db:"version"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// slotRecord формат элемента time_slots в JSONB
type slotRecord struct {
	Time          string     `json:"time"`
	Status        string     `json:"status"`
	Duration      int        `json:"duration"`
	Activity      string     `json:"activity,omitempty"`
	Location      string     `json:"location,omitempty"`
	CanBeModified bool       `json:"canBeModified"`
	LastUpdated   *time.Time `json:"lastUpdated,omitempty"`
	UpdatedBy     string     `json:"updatedBy,omitempty"`
}

func encodeSlots(slots []domain.TimeSlot) (types.JSONText, error) {
	records := make([]slotRecord, 0, len(slots))
	for _, s := range slots {
		records = append(records, slotRecord{
			Time:          s.Time.String(),
			Status:        string(s.Status),
			Duration:      s.Duration,
			Activity:      s.Activity,
			Location:      s.Location,
			CanBeModified: s.CanBeModified,
			LastUpdated:   s.LastUpdated,
			UpdatedBy:     s.UpdatedBy,
		})
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	return types.JSONText(data), nil
}

func decodeSlots(raw types.JSONText) ([]domain.TimeSlot, error) {
	var records []slotRecord
	if len(raw) > 0 {
		if err := raw.Unmarshal(&records); err != nil {
			return nil, err
		}
	}

	slots := make([]domain.TimeSlot, 0, len(records))
	for _, r := range records {
		status, err := domain.ParseSlotStatus(r.Status)
		if err != nil {
			return nil, err
		}
		slots = append(slots, domain.TimeSlot{
			Time:          pkgtypes.TimeString(r.Time),
			Status:        status,
			Duration:      r.Duration,
			Activity:      r.Activity,
			Location:      r.Location,
			CanBeModified: r.CanBeModified,
			LastUpdated:   r.LastUpdated,
			UpdatedBy:     r.UpdatedBy,
		})
	}
	return slots, nil
}

func (r *scheduleRow) toDomain() (*domain.DaySchedule, error) {
	slots, err := decodeSlots(r.TimeSlots)
	if err != nil {
		return nil, err
	}

	updatedAt := r.UpdatedAt
	return &domain.DaySchedule{
		EmployeeID:   r.EmployeeID,
		Date:         domain.DateOnly(r.Date),
		TimeSlots:    slots,
		SourceSystem: domain.SourceSystem(r.SourceSystem),
		IsDayOff:     r.IsDayOff,
		Persisted:    true,
		Version:      r.Version,
		UpdatedAt:    &updatedAt,
	}, nil
}
