package export_schedule

import (
	"context"

	exportSchedule "github.com/m04kA/SMC-ScheduleService/internal/usecase/export_schedule"
)

type ExportScheduleUseCase interface {
	Execute(ctx context.Context, req *exportSchedule.Request) (*exportSchedule.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
