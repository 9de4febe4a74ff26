package export_schedule

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// validateRequest проверяет сотрудника и границы периода
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.EmployeeID) == "" {
		return fmt.Errorf("%w: employeeId is required", ErrInvalidInput)
	}

	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}

	from := domain.DateOnly(req.From)
	to := domain.DateOnly(req.To)
	if to.Before(from) {
		return fmt.Errorf("%w: to must not be before from", ErrInvalidInput)
	}

	days := int(to.Sub(from).Hours()/24) + 1
	if days > domain.MaxExportRangeDays {
		return fmt.Errorf("%w: period is limited to %d days", ErrInvalidInput, domain.MaxExportRangeDays)
	}

	return nil
}
