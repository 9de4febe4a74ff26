package templates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	employeeRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/employee"
	templateRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/template"
	"github.com/m04kA/SMC-ScheduleService/internal/scheduling"
	"github.com/m04kA/SMC-ScheduleService/internal/service/templates/models"
)

// Service сервис недельных шаблонов рабочего времени
type Service struct {
	employeeRepo EmployeeRepository
	templateRepo TemplateRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса шаблонов
func NewService(employeeRepo EmployeeRepository, templateRepo TemplateRepository, logger Logger) *Service {
	return &Service{
		employeeRepo: employeeRepo,
		templateRepo: templateRepo,
		logger:       logger,
	}
}

// Get получает шаблон сотрудника на неделю
func (s *Service) Get(ctx context.Context, employeeID string, weekStart time.Time) (*models.TemplateResponse, error) {
	s.logger.Info("GetTemplate: employee=%s, week=%s", employeeID, weekStart.Format(domain.DateFormat))

	if weekStart.Weekday() != time.Monday {
		return nil, fmt.Errorf("%w: weekStart must be a Monday", ErrInvalidInput)
	}

	if err := s.ensureEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	template, err := s.templateRepo.Get(ctx, employeeID, domain.DateOnly(weekStart))
	if err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			s.logger.Warn("GetTemplate: no template for employee=%s, week=%s", employeeID, weekStart.Format(domain.DateFormat))
			return nil, ErrTemplateNotFound
		}
		s.logger.Error("GetTemplate: repository error: %v", err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainTemplate(template), nil
}

// Upsert создает или полностью заменяет шаблон недели.
// Каждый перерыв должен лежать внутри рабочего блока того же дня.
// Уже сохраненные расписания на дни этой недели не пересчитываются.
func (s *Service) Upsert(ctx context.Context, req *models.UpsertTemplateRequest) (*models.TemplateResponse, error) {
	s.logger.Info("UpsertTemplate: employee=%s, week=%s, blocks=%d, breaks=%d, by=%s",
		req.EmployeeID, req.WeekStart.Format(domain.DateFormat), len(req.WorkBlocks), len(req.Breaks), req.UpdatedBy)

	// 1. Конвертация и валидация
	template, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("UpsertTemplate: invalid request: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := scheduling.ValidateTemplate(template); err != nil {
		s.logger.Warn("UpsertTemplate: invalid template: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Сотрудник должен существовать
	if err := s.ensureEmployee(ctx, req.EmployeeID); err != nil {
		return nil, err
	}

	// 3. Сохраняем
	saved, err := s.templateRepo.Upsert(ctx, template)
	if err != nil {
		s.logger.Error("UpsertTemplate: repository error: %v", err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertTemplate: saved template employee=%s, week=%s", saved.EmployeeID, saved.WeekStart.Format(domain.DateFormat))
	return models.FromDomainTemplate(saved), nil
}

func (s *Service) ensureEmployee(ctx context.Context, employeeID string) error {
	if employeeID == "" {
		return fmt.Errorf("%w: employeeId is required", ErrInvalidInput)
	}

	_, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employeeRepo.ErrEmployeeNotFound) {
			s.logger.Warn("Templates: employee=%s not found", employeeID)
			return ErrEmployeeNotFound
		}
		s.logger.Error("Templates: failed to get employee=%s: %v", employeeID, err)
		return fmt.Errorf("%w: get employee: %v", ErrInternal, err)
	}
	return nil
}
