package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

func slot(tm string, status domain.SlotStatus) domain.TimeSlot {
	return domain.TimeSlot{Time: types.TimeString(tm), Status: status, Duration: 15}
}

func TestComputeStatistics(t *testing.T) {
	slots := []domain.TimeSlot{
		slot("08:00", domain.SlotBusy),
		slot("08:15", domain.SlotBusy),
		slot("08:30", domain.SlotTravel),
		slot("08:45", domain.SlotBreak),
		slot("09:00", domain.SlotAvailable),
		slot("09:15", domain.SlotAvailable),
	}

	stats := ComputeStatistics(slots)
	assert.Equal(t, domain.ScheduleStatistics{
		AvailableMinutes:      30,
		UsedMinutes:           30,
		BreaksMinutes:         15,
		TravelMinutes:         15,
		TotalMinutes:          90,
		UtilizationPercentage: 33,
	}, stats)
}

func TestComputeStatistics_Empty(t *testing.T) {
	stats := ComputeStatistics(nil)
	assert.Zero(t, stats.TotalMinutes)
	assert.Zero(t, stats.UtilizationPercentage)
}

func TestComputeStatistics_SumMatchesTotal(t *testing.T) {
	slots, err := GenerateSlots([]Interval{interval("08:00", "16:00")}, []Interval{interval("12:00", "12:30")}, 15)
	if !assert.NoError(t, err) {
		return
	}
	slots[0].Status = domain.SlotBusy
	slots[1].Status = domain.SlotTravel

	stats := ComputeStatistics(slots)
	assert.Equal(t, stats.TotalMinutes, stats.AvailableMinutes+stats.UsedMinutes+stats.BreaksMinutes+stats.TravelMinutes)
	assert.Equal(t, 32*15, stats.TotalMinutes)
	assert.Equal(t, 3, stats.UtilizationPercentage) // 15 / 480
}

func TestRangeAvailable(t *testing.T) {
	schedule := &domain.DaySchedule{
		TimeSlots: []domain.TimeSlot{
			slot("08:00", domain.SlotAvailable),
			slot("08:15", domain.SlotAvailable),
			slot("08:30", domain.SlotBusy),
			slot("08:45", domain.SlotAvailable),
		},
	}

	tests := []struct {
		name     string
		from, to int
		want     bool
	}{
		{name: "all available", from: 480, to: 510, want: true},
		{name: "partial overlap with busy", from: 500, to: 520, want: false},
		{name: "single available slot", from: 525, to: 540, want: true},
		{name: "outside of schedule", from: 600, to: 660, want: false},
		{name: "empty range", from: 480, to: 480, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RangeAvailable(schedule, tt.from, tt.to))
		})
	}

	assert.False(t, RangeAvailable(&domain.DaySchedule{IsDayOff: true}, 0, 1440))
}
