package schedule

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedule/models"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

func validateEmployeeAndDate(employeeID string, date interface{ IsZero() bool }) error {
	if strings.TrimSpace(employeeID) == "" {
		return fmt.Errorf("%w: employeeId is required", ErrInvalidInput)
	}
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

func (s *Service) validateDuration(duration int) error {
	if duration < 0 {
		return fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidInput)
	}
	if duration%s.granularity != 0 {
		return fmt.Errorf("%w: durationMinutes must be a multiple of %d", ErrInvalidInput, s.granularity)
	}
	return nil
}

func (s *Service) validateReserveRequest(req *models.ReserveSlotRequest) error {
	if err := validateEmployeeAndDate(req.EmployeeID, req.Date); err != nil {
		return err
	}
	if err := req.Time.Validate(); err != nil {
		return fmt.Errorf("%w: time: %v", ErrInvalidInput, err)
	}
	if err := s.validateDuration(req.DurationMinutes); err != nil {
		return err
	}
	if req.Kind != "" && !req.Kind.IsReserved() {
		return fmt.Errorf("%w: kind must be %q or %q", ErrInvalidInput, domain.SlotBusy, domain.SlotTravel)
	}
	if len(req.Activity) > domain.MaxActivityLength {
		return fmt.Errorf("%w: activity is too long", ErrInvalidInput)
	}
	return nil
}

func (s *Service) validateReleaseRequest(req *models.ReleaseSlotRequest) error {
	if err := validateEmployeeAndDate(req.EmployeeID, req.Date); err != nil {
		return err
	}
	if err := req.Time.Validate(); err != nil {
		return fmt.Errorf("%w: time: %v", ErrInvalidInput, err)
	}
	return s.validateDuration(req.DurationMinutes)
}

func validateRange(from, to types.TimeString) error {
	if err := from.Validate(); err != nil {
		return fmt.Errorf("%w: from: %v", ErrInvalidInput, err)
	}
	if err := to.Validate(); err != nil {
		return fmt.Errorf("%w: to: %v", ErrInvalidInput, err)
	}
	if !from.IsBefore(to) {
		return fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}
	return nil
}
