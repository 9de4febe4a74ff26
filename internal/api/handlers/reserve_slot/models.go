package reserve_slot

import (
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedule/models"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// ReserveSlotRequest HTTP request model
type ReserveSlotRequest struct {
	Date            string `json:"date"` // "2025-11-17"
	Time            string `json:"time"` // "10:00"
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	Kind            string `json:"kind,omitempty"` // busy | travel
	Activity        string `json:"activity,omitempty"`
	Location        string `json:"location,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *ReserveSlotRequest) ToServiceRequest(employeeID, userID string) (*models.ReserveSlotRequest, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	t, err := types.NewTimeStringFromString(r.Time)
	if err != nil {
		return nil, fmt.Errorf("time: %w", err)
	}

	kind := domain.SlotBusy
	if r.Kind != "" {
		kind = domain.SlotStatus(r.Kind)
	}

	return &models.ReserveSlotRequest{
		EmployeeID:      employeeID,
		Date:            date,
		Time:            t,
		DurationMinutes: r.DurationMinutes,
		Kind:            kind,
		Activity:        r.Activity,
		Location:        r.Location,
		UpdatedBy:       userID,
	}, nil
}
