package export_schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/scheduling"
	scheduleService "github.com/m04kA/SMC-ScheduleService/internal/service/schedule"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

var (
	summaryColumns = []string{
		"Date", "Weekday", "Source", "Day off",
		"Available (min)", "Busy (min)", "Break (min)", "Travel (min)", "Total (min)",
		"Utilization (%)", "Visits",
	}
	slotColumns  = []string{"Date", "Time", "End", "Status", "Duration (min)", "Activity", "Location", "Updated by"}
	visitColumns = []string{"Date", "Time", "Visit ID", "Order", "Visit #", "Type", "Status", "Duration (min)"}
)

// UseCase use case выгрузки расписания сотрудника в xlsx
type UseCase struct {
	scheduleResolver ScheduleResolver
	visitRepo        VisitRepository
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(scheduleResolver ScheduleResolver, visitRepo VisitRepository, logger Logger) *UseCase {
	return &UseCase{
		scheduleResolver: scheduleResolver,
		visitRepo:        visitRepo,
		logger:           logger,
	}
}

// Execute строит книгу: сводка по дням, строка на каждый слот и визиты техника за период
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ExportSchedule: employee=%s, from=%s, to=%s",
		req.EmployeeID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ExportSchedule: validation failed: %v", err)
		return nil, err
	}

	from := domain.DateOnly(req.From)
	to := domain.DateOnly(req.To)

	// 2. Расписания по дням
	var schedules []*domain.DaySchedule
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		schedule, err := uc.scheduleResolver.Resolve(ctx, req.EmployeeID, day)
		if err != nil {
			return nil, uc.mapResolveError(req.EmployeeID, day.Format(domain.DateFormat), err)
		}
		schedules = append(schedules, schedule)
	}

	// 3. Визиты техника за период
	visits, err := uc.visitRepo.ListByTechnician(ctx, req.EmployeeID, from, to)
	if err != nil {
		uc.logger.Error("ExportSchedule: failed to list visits employee=%s: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: Execute - list visits: %v", ErrInternal, err)
	}

	// 4. Собираем книгу
	content, err := buildWorkbook(schedules, visits)
	if err != nil {
		uc.logger.Error("ExportSchedule: failed to build workbook employee=%s: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: Execute - build workbook: %v", ErrInternal, err)
	}

	uc.logger.Info("ExportSchedule: employee=%s, days=%d, visits=%d, size=%d bytes",
		req.EmployeeID, len(schedules), len(visits), len(content))

	return &Response{
		FileName: fmt.Sprintf("schedule_%s_%s_%s.xlsx",
			req.EmployeeID, from.Format(domain.DateFormat), to.Format(domain.DateFormat)),
		Content: content,
	}, nil
}

func (uc *UseCase) mapResolveError(employeeID, date string, err error) error {
	switch {
	case errors.Is(err, scheduleService.ErrEmployeeNotFound):
		uc.logger.Warn("ExportSchedule: employee=%s not found", employeeID)
		return ErrEmployeeNotFound
	case errors.Is(err, scheduleService.ErrInvalidWorkingHours):
		uc.logger.Warn("ExportSchedule: employee=%s has malformed working hours", employeeID)
		return fmt.Errorf("%w: %v", ErrInvalidWorkingHours, err)
	default:
		uc.logger.Error("ExportSchedule: failed to resolve schedule employee=%s, date=%s: %v", employeeID, date, err)
		return fmt.Errorf("%w: Execute - resolve schedule %s: %v", ErrInternal, date, err)
	}
}

func buildWorkbook(schedules []*domain.DaySchedule, visits []*domain.Visit) ([]byte, error) {
	wb, err := newWorkbook()
	if err != nil {
		return nil, err
	}
	defer wb.close()

	visitsPerDay := make(map[string]int, len(schedules))
	for _, v := range visits {
		visitsPerDay[v.ScheduledDate.Format(domain.DateFormat)]++
	}

	// Сводка
	if err := wb.addSheet(sheetSummary, summaryColumns); err != nil {
		return nil, err
	}
	for _, s := range schedules {
		date := s.Date.Format(domain.DateFormat)
		stats := scheduling.ComputeStatistics(s.TimeSlots)
		row := []interface{}{
			date, s.Date.Weekday().String(), string(s.SourceSystem), yesNo(s.IsDayOff),
			stats.AvailableMinutes, stats.UsedMinutes, stats.BreaksMinutes, stats.TravelMinutes, stats.TotalMinutes,
			stats.UtilizationPercentage, visitsPerDay[date],
		}
		if err := wb.writeRow(row); err != nil {
			return nil, err
		}
	}

	// Слоты
	if err := wb.addSheet(sheetSlots, slotColumns); err != nil {
		return nil, err
	}
	for _, s := range schedules {
		date := s.Date.Format(domain.DateFormat)
		for _, slot := range s.TimeSlots {
			// последний слот блока может заканчиваться после 24:00
			end, err := types.NewTimeStringFromMinutes(min(slot.Time.Minutes()+slot.Duration, types.MinutesPerDay))
			if err != nil {
				return nil, fmt.Errorf("slot %s %s: %w", date, slot.Time, err)
			}
			row := []interface{}{
				date, slot.Time.String(), end.String(), string(slot.Status), slot.Duration,
				slot.Activity, slot.Location, slot.UpdatedBy,
			}
			if err := wb.writeRow(row); err != nil {
				return nil, err
			}
		}
	}

	// Визиты
	if err := wb.addSheet(sheetVisits, visitColumns); err != nil {
		return nil, err
	}
	for _, v := range visits {
		row := []interface{}{
			v.ScheduledDate.Format(domain.DateFormat), v.ScheduledTime.String(), v.ID, v.OrderNumber,
			v.VisitNumber, string(v.Type), string(v.Status), v.EstimatedDuration,
		}
		if err := wb.writeRow(row); err != nil {
			return nil, err
		}
	}

	wb.file.SetActiveSheet(0)

	return wb.bytes()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
