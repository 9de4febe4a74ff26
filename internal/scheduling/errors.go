package scheduling

import "errors"

var (
	// ErrInvalidWorkingHours returned when a working-hours string is not "HH:MM-HH:MM"
	ErrInvalidWorkingHours = errors.New("invalid working hours")

	// ErrInvalidInterval returned when an interval is malformed or empty
	ErrInvalidInterval = errors.New("invalid interval")

	// ErrInvalidGranularity returned when slot granularity is out of range
	ErrInvalidGranularity = errors.New("invalid slot granularity")

	// ErrBreakOutsideBlock returned when a break does not fall within a work block of the same day
	ErrBreakOutsideBlock = errors.New("break outside of work block")

	// ErrInvalidWeekStart returned when a template week does not start on Monday
	ErrInvalidWeekStart = errors.New("week start must be a Monday")
)
