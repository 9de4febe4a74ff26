package upsert_template

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/service/templates/models"
)

type TemplateService interface {
	Upsert(ctx context.Context, req *models.UpsertTemplateRequest) (*models.TemplateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
