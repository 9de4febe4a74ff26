package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

func interval(start, end string) Interval {
	return Interval{Start: types.TimeString(start), End: types.TimeString(end)}
}

func TestGenerateSlots(t *testing.T) {
	tests := []struct {
		name          string
		blocks        []Interval
		breaks        []Interval
		granularity   int
		expectedCount int
		breakTimes    []string
	}{
		{
			name:          "day with lunch break",
			blocks:        []Interval{interval("08:00", "16:00")},
			breaks:        []Interval{interval("12:00", "12:30")},
			granularity:   15,
			expectedCount: 32,
			breakTimes:    []string{"12:00", "12:15"},
		},
		{
			name:          "no breaks",
			blocks:        []Interval{interval("10:00", "12:00")},
			granularity:   30,
			expectedCount: 4,
		},
		{
			name:          "split shift",
			blocks:        []Interval{interval("14:00", "15:00"), interval("08:00", "09:00")},
			granularity:   15,
			expectedCount: 8,
		},
		{
			name:          "overlapping blocks are not merged",
			blocks:        []Interval{interval("08:00", "09:00"), interval("08:30", "09:00")},
			granularity:   15,
			expectedCount: 6,
		},
		{
			name:          "empty day",
			granularity:   15,
			expectedCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := GenerateSlots(tt.blocks, tt.breaks, tt.granularity)
			require.NoError(t, err)
			assert.Len(t, slots, tt.expectedCount)

			breaks := map[string]bool{}
			for _, bt := range tt.breakTimes {
				breaks[bt] = true
			}
			for _, s := range slots {
				assert.Equal(t, tt.granularity, s.Duration)
				if breaks[s.Time.String()] {
					assert.Equal(t, domain.SlotBreak, s.Status, "slot %s", s.Time)
					assert.False(t, s.CanBeModified)
				} else {
					assert.Equal(t, domain.SlotAvailable, s.Status, "slot %s", s.Time)
				}
			}
		})
	}
}

func TestGenerateSlots_TimesIncreaseByGranularity(t *testing.T) {
	slots, err := GenerateSlots([]Interval{interval("08:00", "16:00")}, nil, 15)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	assert.Equal(t, types.TimeString("08:00"), slots[0].Time)
	assert.Equal(t, types.TimeString("15:45"), slots[len(slots)-1].Time)
	for i := 1; i < len(slots); i++ {
		assert.Equal(t, 15, slots[i].Time.Minutes()-slots[i-1].Time.Minutes())
	}
}

func TestGenerateSlots_InvalidInput(t *testing.T) {
	_, err := GenerateSlots([]Interval{interval("08:00", "16:00")}, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidGranularity)

	_, err = GenerateSlots([]Interval{interval("16:00", "08:00")}, nil, 15)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = GenerateSlots([]Interval{interval("8am", "16:00")}, nil, 15)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestParseWorkingHours(t *testing.T) {
	got, err := ParseWorkingHours("8:00-16:00")
	require.NoError(t, err)
	assert.Equal(t, interval("08:00", "16:00"), got)

	for _, bad := range []string{"", "08:00", "08:00 16:00", "16:00-08:00", "08:00-16:00-18:00", "aa-bb"} {
		_, err := ParseWorkingHours(bad)
		assert.ErrorIs(t, err, ErrInvalidWorkingHours, "input %q", bad)
	}
}

func monday() time.Time {
	return time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC)
}

func TestBuildDaySchedule(t *testing.T) {
	template := &domain.WorkTemplate{
		EmployeeID: "EMP001",
		WeekStart:  monday(),
		WorkBlocks: []domain.DayInterval{
			{DayOfWeek: time.Monday, StartTime: "08:00", EndTime: "16:00"},
		},
		Breaks: []domain.DayInterval{
			{DayOfWeek: time.Monday, StartTime: "12:00", EndTime: "12:30"},
		},
	}
	employee := &domain.Employee{ID: "EMP001", WorkingHours: "09:00-17:00"}

	t.Run("template day", func(t *testing.T) {
		s, err := BuildDaySchedule(employee, template, monday(), 15)
		require.NoError(t, err)
		assert.False(t, s.IsDayOff)
		assert.False(t, s.Persisted)
		assert.Equal(t, domain.SourceTemplate, s.SourceSystem)
		assert.Len(t, s.TimeSlots, 32)
	})

	t.Run("template without blocks for the day is a day off", func(t *testing.T) {
		s, err := BuildDaySchedule(employee, template, monday().AddDate(0, 0, 1), 15)
		require.NoError(t, err)
		assert.True(t, s.IsDayOff)
		assert.Empty(t, s.TimeSlots)
		assert.NotNil(t, s.TimeSlots)
	})

	t.Run("working hours fallback", func(t *testing.T) {
		s, err := BuildDaySchedule(employee, nil, monday().AddDate(0, 0, 2), 15)
		require.NoError(t, err)
		assert.Equal(t, domain.SourceWorkingHours, s.SourceSystem)
		assert.Len(t, s.TimeSlots, 32)
	})

	t.Run("working hours fallback on weekend", func(t *testing.T) {
		s, err := BuildDaySchedule(employee, nil, monday().AddDate(0, 0, 5), 15)
		require.NoError(t, err)
		assert.True(t, s.IsDayOff)
	})

	t.Run("no template and no working hours", func(t *testing.T) {
		s, err := BuildDaySchedule(&domain.Employee{ID: "EMP002"}, nil, monday(), 15)
		require.NoError(t, err)
		assert.True(t, s.IsDayOff)
		assert.Equal(t, domain.SourceNone, s.SourceSystem)
	})

	t.Run("malformed working hours is not a day off", func(t *testing.T) {
		_, err := BuildDaySchedule(&domain.Employee{ID: "EMP003", WorkingHours: "0800"}, nil, monday(), 15)
		assert.ErrorIs(t, err, ErrInvalidWorkingHours)
	})
}

func TestValidateTemplate(t *testing.T) {
	valid := domain.WorkTemplate{
		WeekStart: monday(),
		WorkBlocks: []domain.DayInterval{
			{DayOfWeek: time.Monday, StartTime: "08:00", EndTime: "16:00"},
		},
		Breaks: []domain.DayInterval{
			{DayOfWeek: time.Monday, StartTime: "12:00", EndTime: "12:30"},
		},
	}
	require.NoError(t, ValidateTemplate(&valid))

	notMonday := valid
	notMonday.WeekStart = monday().AddDate(0, 0, 1)
	assert.ErrorIs(t, ValidateTemplate(&notMonday), ErrInvalidWeekStart)

	wrongDay := valid
	wrongDay.Breaks = []domain.DayInterval{{DayOfWeek: time.Tuesday, StartTime: "12:00", EndTime: "12:30"}}
	assert.ErrorIs(t, ValidateTemplate(&wrongDay), ErrBreakOutsideBlock)

	outside := valid
	outside.Breaks = []domain.DayInterval{{DayOfWeek: time.Monday, StartTime: "15:45", EndTime: "16:15"}}
	assert.ErrorIs(t, ValidateTemplate(&outside), ErrBreakOutsideBlock)

	badDay := valid
	badDay.WorkBlocks = []domain.DayInterval{{DayOfWeek: 7, StartTime: "08:00", EndTime: "16:00"}}
	assert.ErrorIs(t, ValidateTemplate(&badDay), ErrInvalidInterval)
}
