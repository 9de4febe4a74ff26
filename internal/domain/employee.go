package domain

import "time"

// Employee represents a technician that owns a calendar
type Employee struct {
	ID           string
	Name         string
	WorkingHours string // fallback "HH:MM-HH:MM" used when no WorkTemplate exists
	WorkingDays  []time.Weekday
	IsActive     bool
}

// WorksOn returns true if the fallback working hours apply on the given weekday
func (e *Employee) WorksOn(day time.Weekday) bool {
	days := e.WorkingDays
	if len(days) == 0 {
		days = DefaultWorkingDays
	}
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

// HasWorkingHours returns true if a fallback working-hours string is configured
func (e *Employee) HasWorkingHours() bool {
	return e.WorkingHours != ""
}
