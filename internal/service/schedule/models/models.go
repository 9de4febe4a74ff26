package models

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// Request модели

// ReserveSlotRequest запрос на резервирование слотов
type ReserveSlotRequest struct {
	EmployeeID      string
	Date            time.Time
	Time            types.TimeString
	DurationMinutes int // 0 - один слот
	Kind            domain.SlotStatus
	Activity        string
	Location        string
	UpdatedBy       string
}

// ReleaseSlotRequest запрос на освобождение слотов
type ReleaseSlotRequest struct {
	EmployeeID      string
	Date            time.Time
	Time            types.TimeString
	DurationMinutes int // 0 - один слот
	UpdatedBy       string
}

// CheckAvailabilityRequest запрос на проверку свободного интервала
type CheckAvailabilityRequest struct {
	EmployeeID string
	Date       time.Time
	From       types.TimeString
	To         types.TimeString
}

// Response модели

// TimeSlotResponse слот расписания
type TimeSlotResponse struct {
	Time          string     `json:"time"`
	Status        string     `json:"status"`
	Duration      int        `json:"duration"`
	Activity      string     `json:"activity,omitempty"`
	Location      string     `json:"location,omitempty"`
	CanBeModified bool       `json:"canBeModified"`
	LastUpdated   *time.Time `json:"lastUpdated,omitempty"`
	UpdatedBy     string     `json:"updatedBy,omitempty"`
}

// StatisticsResponse сводка минут по статусам слотов
type StatisticsResponse struct {
	AvailableMinutes      int `json:"availableMinutes"`
	UsedMinutes           int `json:"usedMinutes"`
	BreaksMinutes         int `json:"breaksMinutes"`
	TravelMinutes         int `json:"travelMinutes"`
	TotalMinutes          int `json:"totalMinutes"`
	UtilizationPercentage int `json:"utilizationPercentage"`
}

// DayScheduleResponse расписание сотрудника на день
type DayScheduleResponse struct {
	EmployeeID   string             `json:"employeeId"`
	Date         string             `json:"date"` // "2025-11-17"
	TimeSlots    []TimeSlotResponse `json:"timeSlots"`
	SourceSystem string             `json:"sourceSystem"`
	IsDayOff     bool               `json:"isDayOff"`
	Persisted    bool               `json:"persisted"`
	Version      int64              `json:"version,omitempty"`
	UpdatedAt    *time.Time         `json:"updatedAt,omitempty"`
	Statistics   StatisticsResponse `json:"statistics"`
}

// AvailabilityResponse ответ на проверку интервала
type AvailabilityResponse struct {
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
	From       string `json:"from"`
	To         string `json:"to"`
	Available  bool   `json:"available"`
}

// Методы конвертации

// FromDomainStatistics конвертирует статистику в DTO
func FromDomainStatistics(s domain.ScheduleStatistics) StatisticsResponse {
	return StatisticsResponse{
		AvailableMinutes:      s.AvailableMinutes,
		UsedMinutes:           s.UsedMinutes,
		BreaksMinutes:         s.BreaksMinutes,
		TravelMinutes:         s.TravelMinutes,
		TotalMinutes:          s.TotalMinutes,
		UtilizationPercentage: s.UtilizationPercentage,
	}
}

// FromDomainSchedule конвертирует domain модель в DTO
func FromDomainSchedule(s *domain.DaySchedule, stats domain.ScheduleStatistics) *DayScheduleResponse {
	if s == nil {
		return nil
	}

	resp := &DayScheduleResponse{
		EmployeeID:   s.EmployeeID,
		Date:         s.Date.Format(domain.DateFormat),
		TimeSlots:    make([]TimeSlotResponse, len(s.TimeSlots)),
		SourceSystem: string(s.SourceSystem),
		IsDayOff:     s.IsDayOff,
		Persisted:    s.Persisted,
		Version:      s.Version,
		UpdatedAt:    s.UpdatedAt,
		Statistics:   FromDomainStatistics(stats),
	}

	for i, slot := range s.TimeSlots {
		resp.TimeSlots[i] = TimeSlotResponse{
			Time:          slot.Time.String(),
			Status:        string(slot.Status),
			Duration:      slot.Duration,
			Activity:      slot.Activity,
			Location:      slot.Location,
			CanBeModified: slot.CanBeModified,
			LastUpdated:   slot.LastUpdated,
			UpdatedBy:     slot.UpdatedBy,
		}
	}

	return resp
}
