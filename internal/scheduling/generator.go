package scheduling

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// Interval is a [Start, End) range within one day
type Interval struct {
	Start types.TimeString
	End   types.TimeString
}

// Validate checks both bounds and that Start < End
func (i Interval) Validate() error {
	if err := i.Start.Validate(); err != nil {
		return fmt.Errorf("%w: start %q: %v", ErrInvalidInterval, i.Start, err)
	}
	if err := i.End.Validate(); err != nil {
		return fmt.Errorf("%w: end %q: %v", ErrInvalidInterval, i.End, err)
	}
	if !i.Start.IsBefore(i.End) {
		return fmt.Errorf("%w: %s-%s is empty", ErrInvalidInterval, i.Start, i.End)
	}
	return nil
}

// contains reports whether minute m lies in [Start, End)
func (i Interval) contains(m int) bool {
	return m >= i.Start.Minutes() && m < i.End.Minutes()
}

// IntervalsFor extracts the intervals of one weekday
func IntervalsFor(intervals []domain.DayInterval, day time.Weekday) []Interval {
	result := make([]Interval, 0)
	for _, di := range intervals {
		if di.DayOfWeek == day {
			result = append(result, Interval{Start: di.StartTime, End: di.EndTime})
		}
	}
	return result
}

// ParseWorkingHours parses the employee fallback "HH:MM-HH:MM"
func ParseWorkingHours(s string) (Interval, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return Interval{}, fmt.Errorf("%w: %q: expected HH:MM-HH:MM", ErrInvalidWorkingHours, s)
	}

	start, err := types.NewTimeStringFromString(parts[0])
	if err != nil {
		return Interval{}, fmt.Errorf("%w: %q: %v", ErrInvalidWorkingHours, s, err)
	}
	end, err := types.NewTimeStringFromString(parts[1])
	if err != nil {
		return Interval{}, fmt.Errorf("%w: %q: %v", ErrInvalidWorkingHours, s, err)
	}

	interval := Interval{Start: start, End: end}
	if err := interval.Validate(); err != nil {
		return Interval{}, fmt.Errorf("%w: %q: %v", ErrInvalidWorkingHours, s, err)
	}
	return interval, nil
}

// GenerateSlots expands work blocks into fixed-size slots.
// Blocks are walked in start order; overlapping blocks yield duplicate slots.
// A slot whose start falls inside any break is marked as break.
func GenerateSlots(blocks, breaks []Interval, granularity int) ([]domain.TimeSlot, error) {
	if granularity < domain.MinSlotGranularityMinutes || granularity > domain.MaxSlotGranularityMinutes {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGranularity, granularity)
	}

	for _, b := range blocks {
		if err := b.Validate(); err != nil {
			return nil, err
		}
	}
	for _, br := range breaks {
		if err := br.Validate(); err != nil {
			return nil, err
		}
	}

	ordered := make([]Interval, len(blocks))
	copy(ordered, blocks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start.IsBefore(ordered[j].Start)
	})

	slots := make([]domain.TimeSlot, 0)
	for _, block := range ordered {
		end := block.End.Minutes()
		for m := block.Start.Minutes(); m < end; m += granularity {
			t, err := types.NewTimeStringFromMinutes(m)
			if err != nil {
				return nil, err
			}

			status := domain.SlotAvailable
			if inAny(breaks, m) {
				status = domain.SlotBreak
			}

			slots = append(slots, domain.TimeSlot{
				Time:          t,
				Status:        status,
				Duration:      granularity,
				CanBeModified: status == domain.SlotAvailable,
			})
		}
	}

	return slots, nil
}

func inAny(intervals []Interval, m int) bool {
	for _, i := range intervals {
		if i.contains(m) {
			return true
		}
	}
	return false
}

// BuildDaySchedule derives a non-persisted schedule for the date.
// Template blocks take precedence; without a template the employee working hours apply
// on working days; otherwise the day is off.
func BuildDaySchedule(employee *domain.Employee, template *domain.WorkTemplate, date time.Time, granularity int) (*domain.DaySchedule, error) {
	day := domain.DateOnly(date)
	weekday := day.Weekday()

	schedule := &domain.DaySchedule{
		EmployeeID:   employee.ID,
		Date:         day,
		TimeSlots:    make([]domain.TimeSlot, 0),
		SourceSystem: domain.SourceNone,
	}

	var (
		blocks []Interval
		breaks []Interval
	)

	switch {
	case template != nil:
		blocks = IntervalsFor(template.WorkBlocks, weekday)
		breaks = IntervalsFor(template.Breaks, weekday)
		schedule.SourceSystem = domain.SourceTemplate
	case employee.HasWorkingHours():
		// битая строка не должна превращаться в выходной
		interval, err := ParseWorkingHours(employee.WorkingHours)
		if err != nil {
			return nil, err
		}
		if employee.WorksOn(weekday) {
			blocks = []Interval{interval}
			schedule.SourceSystem = domain.SourceWorkingHours
		}
	}

	if len(blocks) == 0 {
		schedule.IsDayOff = true
		return schedule, nil
	}

	slots, err := GenerateSlots(blocks, breaks, granularity)
	if err != nil {
		return nil, err
	}
	schedule.TimeSlots = slots

	return schedule, nil
}

// ValidateTemplate checks template intervals, weekdays and that each break lies inside a work block of its day
func ValidateTemplate(t *domain.WorkTemplate) error {
	if t.WeekStart.Weekday() != time.Monday {
		return fmt.Errorf("%w: %s is %s", ErrInvalidWeekStart, t.WeekStart.Format(domain.DateFormat), t.WeekStart.Weekday())
	}

	for _, b := range t.WorkBlocks {
		if err := validateDayInterval(b); err != nil {
			return err
		}
	}

	for _, br := range t.Breaks {
		if err := validateDayInterval(br); err != nil {
			return err
		}

		inside := false
		for _, b := range t.WorkBlocks {
			if b.Contains(br) {
				inside = true
				break
			}
		}
		if !inside {
			return fmt.Errorf("%w: %s %s-%s", ErrBreakOutsideBlock, br.DayOfWeek, br.StartTime, br.EndTime)
		}
	}

	return nil
}

func validateDayInterval(di domain.DayInterval) error {
	if di.DayOfWeek < time.Sunday || di.DayOfWeek > time.Saturday {
		return fmt.Errorf("%w: dayOfWeek %d", ErrInvalidInterval, di.DayOfWeek)
	}
	return Interval{Start: di.StartTime, End: di.EndTime}.Validate()
}
