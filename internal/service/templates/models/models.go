package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// IntervalDTO интервал рабочего блока или перерыва
type IntervalDTO struct {
	DayOfWeek int    `json:"dayOfWeek" yaml:"dayOfWeek"` // 0 - воскресенье
	StartTime string `json:"startTime" yaml:"startTime"`
	EndTime   string `json:"endTime" yaml:"endTime"`
}

// Request модели

// UpsertTemplateRequest запрос на создание или замену шаблона недели
type UpsertTemplateRequest struct {
	EmployeeID string
	WeekStart  time.Time
	WorkBlocks []IntervalDTO
	Breaks     []IntervalDTO
	UpdatedBy  string
}

// ToDomain конвертирует запрос в domain модель с нормализацией времени ("9:00" -> "09:00")
func (r *UpsertTemplateRequest) ToDomain() (*domain.WorkTemplate, error) {
	blocks, err := toDomainIntervals(r.WorkBlocks)
	if err != nil {
		return nil, fmt.Errorf("workBlocks: %w", err)
	}
	breaks, err := toDomainIntervals(r.Breaks)
	if err != nil {
		return nil, fmt.Errorf("breaks: %w", err)
	}

	return &domain.WorkTemplate{
		EmployeeID: r.EmployeeID,
		WeekStart:  domain.DateOnly(r.WeekStart),
		WorkBlocks: blocks,
		Breaks:     breaks,
		UpdatedBy:  r.UpdatedBy,
	}, nil
}

func toDomainIntervals(dtos []IntervalDTO) ([]domain.DayInterval, error) {
	result := make([]domain.DayInterval, 0, len(dtos))
	for i, dto := range dtos {
		start, err := types.NewTimeStringFromString(dto.StartTime)
		if err != nil {
			return nil, fmt.Errorf("[%d].startTime: %w", i, err)
		}
		end, err := types.NewTimeStringFromString(dto.EndTime)
		if err != nil {
			return nil, fmt.Errorf("[%d].endTime: %w", i, err)
		}
		result = append(result, domain.DayInterval{
			DayOfWeek: time.Weekday(dto.DayOfWeek),
			StartTime: start,
			EndTime:   end,
		})
	}
	return result, nil
}

// Response модели

// TemplateResponse шаблон недели
type TemplateResponse struct {
	EmployeeID string        `json:"employeeId"`
	WeekStart  string        `json:"weekStart"` // "2025-11-17"
	WorkBlocks []IntervalDTO `json:"workBlocks"`
	Breaks     []IntervalDTO `json:"breaks"`
	UpdatedBy  string        `json:"updatedBy,omitempty"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// FromDomainTemplate конвертирует domain модель в DTO
func FromDomainTemplate(t *domain.WorkTemplate) *TemplateResponse {
	if t == nil {
		return nil
	}

	return &TemplateResponse{
		EmployeeID: t.EmployeeID,
		WeekStart:  t.WeekStart.Format(domain.DateFormat),
		WorkBlocks: fromDomainIntervals(t.WorkBlocks),
		Breaks:     fromDomainIntervals(t.Breaks),
		UpdatedBy:  t.UpdatedBy,
		UpdatedAt:  t.UpdatedAt,
	}
}

func fromDomainIntervals(intervals []domain.DayInterval) []IntervalDTO {
	result := make([]IntervalDTO, len(intervals))
	for i, di := range intervals {
		result[i] = IntervalDTO{
			DayOfWeek: int(di.DayOfWeek),
			StartTime: di.StartTime.String(),
			EndTime:   di.EndTime.String(),
		}
	}
	return result
}
