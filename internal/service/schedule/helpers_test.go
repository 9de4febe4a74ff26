package schedule

import (
	"github.com/prometheus/client_golang/prometheus/testutil"

	scheduleRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-ScheduleService/pkg/metrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

func typesTime(s string) types.TimeString {
	return types.TimeString(s)
}

func testutilCounter(m *metrics.Metrics, operation, result string) float64 {
	return testutil.ToFloat64(m.SlotOperations.WithLabelValues(operation, result))
}

func errVersionConflict() error {
	return scheduleRepo.ErrVersionConflict
}
