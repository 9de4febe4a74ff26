package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/lock"
	employeeRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/employee"
	scheduleRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/schedule"
	templateRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/template"
	"github.com/m04kA/SMC-ScheduleService/internal/scheduling"
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedule/models"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// Результаты операций для метрик
const (
	resultSuccess  = "success"
	resultConflict = "conflict"
	resultNotFound = "not_found"
	resultError    = "error"
)

// Service хранилище слотов: расписание сотрудника на дату, резервирование и освобождение
type Service struct {
	employeeRepo EmployeeRepository
	templateRepo TemplateRepository
	scheduleRepo ScheduleRepository
	locker       Locker
	metrics      Metrics
	timeProvider TimeProvider
	granularity  int
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	employeeRepo EmployeeRepository,
	templateRepo TemplateRepository,
	scheduleRepo ScheduleRepository,
	locker Locker,
	metrics Metrics,
	granularity int,
	logger Logger,
) *Service {
	if granularity <= 0 {
		granularity = domain.DefaultSlotGranularityMinutes
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Service{
		employeeRepo: employeeRepo,
		templateRepo: templateRepo,
		scheduleRepo: scheduleRepo,
		locker:       locker,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		granularity:  granularity,
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Granularity шаг слотов в минутах
func (s *Service) Granularity() int {
	return s.granularity
}

// LockKey ключ блокировки расписания сотрудника на дату
func LockKey(employeeID string, date time.Time) string {
	return fmt.Sprintf("schedule:%s:%s", employeeID, date.Format(domain.DateFormat))
}

// GetSchedule возвращает расписание на дату. Результат никогда не nil:
// без шаблона и рабочих часов возвращается выходной день.
func (s *Service) GetSchedule(ctx context.Context, employeeID string, date time.Time) (*models.DayScheduleResponse, error) {
	s.logger.Info("GetSchedule: employee=%s, date=%s", employeeID, date.Format(domain.DateFormat))

	if err := validateEmployeeAndDate(employeeID, date); err != nil {
		return nil, err
	}

	schedule, err := s.Resolve(ctx, employeeID, date)
	if err != nil {
		return nil, err
	}

	stats := scheduling.ComputeStatistics(schedule.TimeSlots)
	s.logger.Info("GetSchedule: employee=%s, date=%s, source=%s, slots=%d, persisted=%t",
		employeeID, date.Format(domain.DateFormat), schedule.SourceSystem, len(schedule.TimeSlots), schedule.Persisted)

	return models.FromDomainSchedule(schedule, stats), nil
}

// Resolve определяет расписание на дату:
// 1) сохраненное расписание; 2) шаблон недели; 3) рабочие часы сотрудника; 4) выходной.
func (s *Service) Resolve(ctx context.Context, employeeID string, date time.Time) (*domain.DaySchedule, error) {
	day := domain.DateOnly(date)

	employee, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employeeRepo.ErrEmployeeNotFound) {
			s.logger.Warn("Resolve: employee=%s not found", employeeID)
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("Resolve: failed to get employee=%s: %v", employeeID, err)
		return nil, fmt.Errorf("%w: Resolve - get employee: %v", ErrInternal, err)
	}

	persisted, err := s.scheduleRepo.Get(ctx, employeeID, day)
	if err == nil {
		return persisted, nil
	}
	if !errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
		s.logger.Error("Resolve: failed to get schedule employee=%s, date=%s: %v", employeeID, day.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: Resolve - get schedule: %v", ErrInternal, err)
	}

	template, err := s.templateRepo.Get(ctx, employeeID, domain.WeekStart(day))
	if err != nil {
		if !errors.Is(err, templateRepo.ErrTemplateNotFound) {
			s.logger.Error("Resolve: failed to get template employee=%s, week=%s: %v",
				employeeID, domain.WeekStart(day).Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: Resolve - get template: %v", ErrInternal, err)
		}
		template = nil
	}

	schedule, err := scheduling.BuildDaySchedule(employee, template, day, s.granularity)
	if err != nil {
		if errors.Is(err, scheduling.ErrInvalidWorkingHours) {
			s.logger.Warn("Resolve: employee=%s has malformed working hours %q", employeeID, employee.WorkingHours)
			return nil, fmt.Errorf("%w: %v", ErrInvalidWorkingHours, err)
		}
		s.logger.Error("Resolve: failed to generate slots employee=%s: %v", employeeID, err)
		return nil, fmt.Errorf("%w: Resolve - generate slots: %v", ErrInternal, err)
	}

	return schedule, nil
}

// GetStatistics возвращает сводку минут по статусам на дату
func (s *Service) GetStatistics(ctx context.Context, employeeID string, date time.Time) (*models.StatisticsResponse, error) {
	if err := validateEmployeeAndDate(employeeID, date); err != nil {
		return nil, err
	}

	schedule, err := s.Resolve(ctx, employeeID, date)
	if err != nil {
		return nil, err
	}

	stats := models.FromDomainStatistics(scheduling.ComputeStatistics(schedule.TimeSlots))
	return &stats, nil
}

// CheckAvailability true, если все слоты, пересекающие [from, to), свободны.
// Интервал без слотов (в том числе в выходной) считается занятым.
func (s *Service) CheckAvailability(ctx context.Context, req *models.CheckAvailabilityRequest) (*models.AvailabilityResponse, error) {
	if err := validateEmployeeAndDate(req.EmployeeID, req.Date); err != nil {
		return nil, err
	}
	if err := validateRange(req.From, req.To); err != nil {
		return nil, err
	}

	schedule, err := s.Resolve(ctx, req.EmployeeID, req.Date)
	if err != nil {
		return nil, err
	}

	available := scheduling.RangeAvailable(schedule, req.From.Minutes(), req.To.Minutes())
	s.logger.Info("CheckAvailability: employee=%s, date=%s, range=%s-%s, available=%t",
		req.EmployeeID, req.Date.Format(domain.DateFormat), req.From, req.To, available)

	return &models.AvailabilityResponse{
		EmployeeID: req.EmployeeID,
		Date:       req.Date.Format(domain.DateFormat),
		From:       req.From.String(),
		To:         req.To.String(),
		Available:  available,
	}, nil
}

// ReserveSlot переводит слоты [time, time+duration) из available в busy/travel.
// Либо резервируются все слоты интервала, либо ни один.
func (s *Service) ReserveSlot(ctx context.Context, req *models.ReserveSlotRequest) (*models.DayScheduleResponse, error) {
	s.logger.Info("ReserveSlot: employee=%s, date=%s, time=%s, duration=%d, kind=%s, by=%s",
		req.EmployeeID, req.Date.Format(domain.DateFormat), req.Time, req.DurationMinutes, req.Kind, req.UpdatedBy)

	// 1. Валидация входных данных
	if err := s.validateReserveRequest(req); err != nil {
		s.logger.Warn("ReserveSlot: validation failed: %v", err)
		return nil, err
	}

	kind := req.Kind
	if kind == "" {
		kind = domain.SlotBusy
	}

	// 2. Изменяем расписание под блокировкой
	result, err := s.mutate(ctx, req.EmployeeID, req.Date, "reserve", func(schedule *domain.DaySchedule) error {
		idx, err := s.coveredSlots(schedule, req.Time, req.DurationMinutes, ErrSlotConflict)
		if err != nil {
			return err
		}

		for _, i := range idx {
			if schedule.TimeSlots[i].Status != domain.SlotAvailable {
				return fmt.Errorf("%w: %s is %s", ErrSlotConflict, schedule.TimeSlots[i].Time, schedule.TimeSlots[i].Status)
			}
		}

		now := s.timeProvider.Now()
		for _, i := range idx {
			slot := &schedule.TimeSlots[i]
			slot.Status = kind
			slot.Activity = req.Activity
			slot.Location = req.Location
			slot.CanBeModified = true
			slot.LastUpdated = ptr.Ptr(now)
			slot.UpdatedBy = req.UpdatedBy
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ReserveSlot: reserved employee=%s, date=%s, time=%s, version=%d",
		req.EmployeeID, req.Date.Format(domain.DateFormat), req.Time, result.Version)
	return models.FromDomainSchedule(result, scheduling.ComputeStatistics(result.TimeSlots)), nil
}

// ReleaseSlot возвращает слоты busy/travel в available.
// Слоты перерыва освободить нельзя.
func (s *Service) ReleaseSlot(ctx context.Context, req *models.ReleaseSlotRequest) (*models.DayScheduleResponse, error) {
	s.logger.Info("ReleaseSlot: employee=%s, date=%s, time=%s, duration=%d, by=%s",
		req.EmployeeID, req.Date.Format(domain.DateFormat), req.Time, req.DurationMinutes, req.UpdatedBy)

	if err := s.validateReleaseRequest(req); err != nil {
		s.logger.Warn("ReleaseSlot: validation failed: %v", err)
		return nil, err
	}

	result, err := s.mutate(ctx, req.EmployeeID, req.Date, "release", func(schedule *domain.DaySchedule) error {
		idx, err := s.coveredSlots(schedule, req.Time, req.DurationMinutes, ErrSlotNotFound)
		if err != nil {
			return err
		}

		for _, i := range idx {
			if !schedule.TimeSlots[i].Status.IsReserved() {
				return fmt.Errorf("%w: %s is %s", ErrSlotNotFound, schedule.TimeSlots[i].Time, schedule.TimeSlots[i].Status)
			}
		}

		now := s.timeProvider.Now()
		for _, i := range idx {
			slot := &schedule.TimeSlots[i]
			slot.Status = domain.SlotAvailable
			slot.Activity = ""
			slot.Location = ""
			slot.CanBeModified = true
			slot.LastUpdated = ptr.Ptr(now)
			slot.UpdatedBy = req.UpdatedBy
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ReleaseSlot: released employee=%s, date=%s, time=%s, version=%d",
		req.EmployeeID, req.Date.Format(domain.DateFormat), req.Time, result.Version)
	return models.FromDomainSchedule(result, scheduling.ComputeStatistics(result.TimeSlots)), nil
}

// ResetSchedule удаляет сохраненное расписание и возвращает заново сгенерированное
func (s *Service) ResetSchedule(ctx context.Context, employeeID string, date time.Time, by string) (*models.DayScheduleResponse, error) {
	s.logger.Info("ResetSchedule: employee=%s, date=%s, by=%s", employeeID, date.Format(domain.DateFormat), by)

	if err := validateEmployeeAndDate(employeeID, date); err != nil {
		return nil, err
	}
	day := domain.DateOnly(date)

	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, employeeRepo.ErrEmployeeNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("%w: ResetSchedule - get employee: %v", ErrInternal, err)
	}

	release, err := s.locker.Lock(ctx, LockKey(employeeID, day))
	if err != nil {
		s.logger.Error("ResetSchedule: failed to lock employee=%s, date=%s: %v", employeeID, day.Format(domain.DateFormat), err)
		return nil, s.lockError("reset", err)
	}
	deleted, err := s.scheduleRepo.Delete(ctx, employeeID, day)
	release()
	if err != nil {
		s.logger.Error("ResetSchedule: failed to delete schedule: %v", err)
		s.metrics.IncSlotOperation("reset", resultError)
		return nil, fmt.Errorf("%w: ResetSchedule - delete: %v", ErrInternal, err)
	}
	s.metrics.IncSlotOperation("reset", resultSuccess)
	s.logger.Info("ResetSchedule: employee=%s, date=%s, override removed=%t", employeeID, day.Format(domain.DateFormat), deleted)

	return s.GetSchedule(ctx, employeeID, day)
}

// lockError отделяет занятый ключ (409) от отказа хранилища блокировок (500)
func (s *Service) lockError(operation string, err error) error {
	if errors.Is(err, lock.ErrLockTimeout) {
		s.metrics.IncSlotOperation(operation, resultConflict)
		return fmt.Errorf("%w: %v", ErrConcurrentModification, err)
	}
	s.metrics.IncSlotOperation(operation, resultError)
	return fmt.Errorf("%w: acquire lock: %v", ErrInternal, err)
}

// mutate загружает расписание, применяет fn к копии и сохраняет с CAS по версии
func (s *Service) mutate(
	ctx context.Context,
	employeeID string,
	date time.Time,
	operation string,
	fn func(schedule *domain.DaySchedule) error,
) (*domain.DaySchedule, error) {
	day := domain.DateOnly(date)

	release, err := s.locker.Lock(ctx, LockKey(employeeID, day))
	if err != nil {
		s.logger.Error("%s: failed to lock employee=%s, date=%s: %v", operation, employeeID, day.Format(domain.DateFormat), err)
		return nil, s.lockError(operation, err)
	}
	defer release()

	current, err := s.Resolve(ctx, employeeID, day)
	if err != nil {
		s.metrics.IncSlotOperation(operation, resultOf(err))
		return nil, err
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		s.logger.Warn("%s: employee=%s, date=%s: %v", operation, employeeID, day.Format(domain.DateFormat), err)
		s.metrics.IncSlotOperation(operation, resultOf(err))
		return nil, err
	}

	// первое изменение производного расписания сохраняет его (version = 1)
	if next.Persisted {
		err = s.scheduleRepo.Update(ctx, next)
	} else {
		err = s.scheduleRepo.Create(ctx, next)
	}
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrVersionConflict) {
			s.logger.Warn("%s: version conflict employee=%s, date=%s", operation, employeeID, day.Format(domain.DateFormat))
			s.metrics.IncSlotOperation(operation, resultConflict)
			return nil, ErrConcurrentModification
		}
		s.logger.Error("%s: failed to save schedule employee=%s, date=%s: %v", operation, employeeID, day.Format(domain.DateFormat), err)
		s.metrics.IncSlotOperation(operation, resultError)
		return nil, fmt.Errorf("%w: %s - save schedule: %v", ErrInternal, operation, err)
	}

	s.metrics.IncSlotOperation(operation, resultSuccess)
	return next, nil
}

// coveredSlots находит подряд идущие слоты, покрывающие [start, start+duration).
// duration = 0 означает один слот. missingErr возвращается, если покрыть интервал нельзя.
func (s *Service) coveredSlots(schedule *domain.DaySchedule, start types.TimeString, duration int, missingErr error) ([]int, error) {
	first, ok := schedule.FindSlot(start)
	if !ok {
		return nil, fmt.Errorf("%w: no slot at %s", ErrSlotNotFound, start)
	}

	if duration == 0 {
		duration = schedule.TimeSlots[first].Duration
	}

	idx := []int{first}
	covered := schedule.TimeSlots[first].Duration
	end := schedule.TimeSlots[first].EndMinutes()

	for i := first + 1; covered < duration; i++ {
		if i >= len(schedule.TimeSlots) || schedule.TimeSlots[i].StartMinutes() != end {
			return nil, fmt.Errorf("%w: %d minutes from %s exceed the working block", missingErr, duration, start)
		}
		idx = append(idx, i)
		covered += schedule.TimeSlots[i].Duration
		end = schedule.TimeSlots[i].EndMinutes()
	}

	return idx, nil
}

type nopMetrics struct{}

func (nopMetrics) IncSlotOperation(string, string) {}

func resultOf(err error) string {
	switch {
	case errors.Is(err, ErrSlotConflict), errors.Is(err, ErrConcurrentModification):
		return resultConflict
	case errors.Is(err, ErrSlotNotFound), errors.Is(err, ErrEmployeeNotFound):
		return resultNotFound
	default:
		return resultError
	}
}
