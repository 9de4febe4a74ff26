package upsert_template

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/service/templates/models"
)

// UpsertTemplateRequest HTTP request model
type UpsertTemplateRequest struct {
	WorkBlocks []models.IntervalDTO `json:"workBlocks"`
	Breaks     []models.IntervalDTO `json:"breaks"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpsertTemplateRequest) ToServiceRequest(employeeID string, weekStart time.Time, userID string) *models.UpsertTemplateRequest {
	return &models.UpsertTemplateRequest{
		EmployeeID: employeeID,
		WeekStart:  weekStart,
		WorkBlocks: r.WorkBlocks,
		Breaks:     r.Breaks,
		UpdatedBy:  userID,
	}
}
