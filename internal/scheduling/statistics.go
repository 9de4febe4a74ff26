package scheduling

import (
	"math"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// ComputeStatistics sums slot durations per status.
// Utilization is busy minutes over all slot minutes, 0 for an empty schedule.
func ComputeStatistics(slots []domain.TimeSlot) domain.ScheduleStatistics {
	var stats domain.ScheduleStatistics

	for _, s := range slots {
		stats.TotalMinutes += s.Duration
		switch s.Status {
		case domain.SlotAvailable:
			stats.AvailableMinutes += s.Duration
		case domain.SlotBusy:
			stats.UsedMinutes += s.Duration
		case domain.SlotBreak:
			stats.BreaksMinutes += s.Duration
		case domain.SlotTravel:
			stats.TravelMinutes += s.Duration
		}
	}

	if stats.TotalMinutes > 0 {
		stats.UtilizationPercentage = int(math.Round(float64(stats.UsedMinutes) / float64(stats.TotalMinutes) * 100))
	}

	return stats
}

// RangeAvailable reports whether every slot overlapping [from, to) is available.
// A range with no overlapping slots is not available.
func RangeAvailable(schedule *domain.DaySchedule, from, to int) bool {
	if schedule == nil || schedule.IsDayOff || from >= to {
		return false
	}

	idx := schedule.SlotsInRange(from, to)
	if len(idx) == 0 {
		return false
	}

	for _, i := range idx {
		if schedule.TimeSlots[i].Status != domain.SlotAvailable {
			return false
		}
	}
	return true
}
