package bulk_visits

import (
	"context"

	bulkVisits "github.com/m04kA/SMC-ScheduleService/internal/usecase/bulk_visits"
)

type BulkVisitsUseCase interface {
	Execute(ctx context.Context, req *bulkVisits.Request) (*bulkVisits.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
