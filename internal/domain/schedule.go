package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// SlotStatus represents the status of a calendar slot
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBusy      SlotStatus = "busy"
	SlotBreak     SlotStatus = "break"
	SlotTravel    SlotStatus = "travel"
)

// ParseSlotStatus converts a string into a SlotStatus
func ParseSlotStatus(s string) (SlotStatus, error) {
	switch SlotStatus(s) {
	case SlotAvailable, SlotBusy, SlotBreak, SlotTravel:
		return SlotStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSlotStatus, s)
	}
}

// IsReserved returns true for statuses set by a reservation
func (s SlotStatus) IsReserved() bool {
	return s == SlotBusy || s == SlotTravel
}

// SourceSystem tags where a DaySchedule came from
type SourceSystem string

const (
	SourceTemplate     SourceSystem = "template"
	SourceWorkingHours SourceSystem = "working_hours"
	SourceManual       SourceSystem = "manual"
	SourceNone         SourceSystem = "none"
)

// TimeSlot is a fixed-duration unit of a technician's day
type TimeSlot struct {
	Time          types.TimeString
	Status        SlotStatus
	Duration      int // minutes
	Activity      string
	Location      string
	CanBeModified bool
	LastUpdated   *time.Time
	UpdatedBy     string
}

// StartMinutes returns minutes since midnight
func (s *TimeSlot) StartMinutes() int {
	return s.Time.Minutes()
}

// EndMinutes returns the exclusive end of the slot in minutes since midnight
func (s *TimeSlot) EndMinutes() int {
	return s.Time.Minutes() + s.Duration
}

// Overlaps returns true if the slot intersects [from, to) (minutes since midnight)
func (s *TimeSlot) Overlaps(from, to int) bool {
	return s.StartMinutes() < to && s.EndMinutes() > from
}

// DaySchedule is the materialized slot sequence for one employee on one date
type DaySchedule struct {
	EmployeeID   string
	Date         time.Time
	TimeSlots    []TimeSlot
	SourceSystem SourceSystem
	IsDayOff     bool

	// Persisted is false for schedules derived on the fly from a template
	Persisted bool
	Version   int64
	UpdatedAt *time.Time
}

// FindSlot returns the index of the slot starting at t
func (d *DaySchedule) FindSlot(t types.TimeString) (int, bool) {
	for i := range d.TimeSlots {
		if d.TimeSlots[i].Time.Equal(t) {
			return i, true
		}
	}
	return -1, false
}

// SlotsInRange returns indexes of slots overlapping [from, to)
func (d *DaySchedule) SlotsInRange(from, to int) []int {
	result := make([]int, 0)
	for i := range d.TimeSlots {
		if d.TimeSlots[i].Overlaps(from, to) {
			result = append(result, i)
		}
	}
	return result
}

// Clone returns a deep copy so callers can mutate without touching the original
func (d *DaySchedule) Clone() *DaySchedule {
	c := *d
	c.TimeSlots = make([]TimeSlot, len(d.TimeSlots))
	copy(c.TimeSlots, d.TimeSlots)
	return &c
}

// ScheduleStatistics aggregates slot minutes per status
type ScheduleStatistics struct {
	AvailableMinutes      int
	UsedMinutes           int
	BreaksMinutes         int
	TravelMinutes         int
	TotalMinutes          int
	UtilizationPercentage int
}
