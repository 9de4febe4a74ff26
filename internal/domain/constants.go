package domain

import "time"

// Scheduling defaults
const (
	DefaultSlotGranularityMinutes = 15
	MinSlotGranularityMinutes     = 5
	MaxSlotGranularityMinutes     = 120
)

// Business validation constants
const (
	MaxNoteLength         = 2000
	MaxCancelReasonLength = 500
	MaxActivityLength     = 200
	MaxBulkVisitIDs       = 500
	MaxExportRangeDays    = 62
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DefaultWorkingDays дни недели, когда действует fallback workingHours сотрудника
var DefaultWorkingDays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
}

// DateOnly обрезает время, оставляя полночь той же даты в UTC
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart возвращает понедельник недели, содержащей дату
func WeekStart(date time.Time) time.Time {
	d := DateOnly(date)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -offset)
}
