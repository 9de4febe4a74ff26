package domain

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// DayInterval is a [StartTime, EndTime) interval bound to a day of week
type DayInterval struct {
	DayOfWeek time.Weekday
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Contains returns true if other lies within the interval on the same day
func (i DayInterval) Contains(other DayInterval) bool {
	return i.DayOfWeek == other.DayOfWeek &&
		!other.StartTime.IsBefore(i.StartTime) &&
		!other.EndTime.IsAfter(i.EndTime)
}

// WorkTemplate represents a technician's recurring weekly availability.
// Work blocks on the same day are not merged: overlapping blocks produce duplicate slots.
type WorkTemplate struct {
	EmployeeID string
	WeekStart  time.Time // Monday
	WorkBlocks []DayInterval
	Breaks     []DayInterval
	UpdatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BlocksFor returns work blocks of the given weekday in template order
func (t *WorkTemplate) BlocksFor(day time.Weekday) []DayInterval {
	return filterByDay(t.WorkBlocks, day)
}

// BreaksFor returns breaks of the given weekday in template order
func (t *WorkTemplate) BreaksFor(day time.Weekday) []DayInterval {
	return filterByDay(t.Breaks, day)
}

func filterByDay(intervals []DayInterval, day time.Weekday) []DayInterval {
	result := make([]DayInterval, 0)
	for _, i := range intervals {
		if i.DayOfWeek == day {
			result = append(result, i)
		}
	}
	return result
}
