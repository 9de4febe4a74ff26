package get_template

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/service/templates/models"
)

type TemplateService interface {
	Get(ctx context.Context, employeeID string, weekStart time.Time) (*models.TemplateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
