package template

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	pkgtypes "github.com/m04kA/SMC-ScheduleService/pkg/types"
)

type templateRow struct {
	EmployeeID string         `db:"employee_id"`
	WeekStart  time.Time      `db:"week_start"`
	WorkBlocks types.JSONText `db:"work_blocks"`
	Breaks     types.JSONText `db:"breaks"`
	UpdatedBy  string         `db:"updated_by"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

// intervalRecord формат элемента work_blocks / breaks в JSONB
type intervalRecord struct {
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func encodeIntervals(intervals []domain.DayInterval) (types.JSONText, error) {
	records := make([]intervalRecord, 0, len(intervals))
	for _, i := range intervals {
		records = append(records, intervalRecord{
			DayOfWeek: int(i.DayOfWeek),
			StartTime: i.StartTime.String(),
			EndTime:   i.EndTime.String(),
		})
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	return types.JSONText(data), nil
}

func decodeIntervals(raw types.JSONText) ([]domain.DayInterval, error) {
	var records []intervalRecord
	if len(raw) > 0 {
		if err := raw.Unmarshal(&records); err != nil {
			return nil, err
		}
	}

	intervals := make([]domain.DayInterval, 0, len(records))
	for _, r := range records {
		intervals = append(intervals, domain.DayInterval{
			DayOfWeek: time.Weekday(r.DayOfWeek),
			StartTime: pkgtypes.TimeString(r.StartTime),
			EndTime:   pkgtypes.TimeString(r.EndTime),
		})
	}
	return intervals, nil
}

func (r *templateRow) toDomain() (*domain.WorkTemplate, error) {
	blocks, err := decodeIntervals(r.WorkBlocks)
	if err != nil {
		return nil, err
	}
	breaks, err := decodeIntervals(r.Breaks)
	if err != nil {
		return nil, err
	}

	return &domain.WorkTemplate{
		EmployeeID: r.EmployeeID,
		WeekStart:  domain.DateOnly(r.WeekStart),
		WorkBlocks: blocks,
		Breaks:     breaks,
		UpdatedBy:  r.UpdatedBy,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}, nil
}
