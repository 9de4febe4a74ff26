package release_slot

import (
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedule/models"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// ReleaseSlotRequest HTTP request model
type ReleaseSlotRequest struct {
	Date            string `json:"date"`
	Time            string `json:"time"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *ReleaseSlotRequest) ToServiceRequest(employeeID, userID string) (*models.ReleaseSlotRequest, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	t, err := types.NewTimeStringFromString(r.Time)
	if err != nil {
		return nil, fmt.Errorf("time: %w", err)
	}

	return &models.ReleaseSlotRequest{
		EmployeeID:      employeeID,
		Date:            date,
		Time:            t,
		DurationMinutes: r.DurationMinutes,
		UpdatedBy:       userID,
	}, nil
}
