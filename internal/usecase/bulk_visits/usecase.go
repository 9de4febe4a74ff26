package bulk_visits

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// OrdersLockKey ключ блокировки, под которым выполняются массовые операции над визитами
const OrdersLockKey = "orders"

// Результаты для метрик
const (
	resultUpdated = "updated"
	resultFailed  = "failed"
)

// UseCase use case массовой операции над визитами
type UseCase struct {
	visitRepo    VisitRepository
	txManager    TransactionManager
	locker       Locker
	metrics      Metrics
	idGenerator  IDGenerator
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	visitRepo VisitRepository,
	txManager TransactionManager,
	locker Locker,
	metrics Metrics,
	logger Logger,
) *UseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &UseCase{
		visitRepo:    visitRepo,
		txManager:    txManager,
		locker:       locker,
		metrics:      metrics,
		idGenerator:  uuidGenerator{},
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// WithIDGenerator подменяет генератор ID заметок
func (uc *UseCase) WithIDGenerator(g IDGenerator) *UseCase {
	uc.idGenerator = g
	return uc
}

// Execute применяет операцию ко всем визитам из списка.
// Ошибка одного визита попадает в Errors и не прерывает остальные.
// Ошибка хранилища откатывает весь пакет.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BulkVisits: operation=%s, visits=%d, by=%s", req.Operation, len(req.VisitIDs), req.PerformedBy)

	// 1. Валидация запроса целиком
	op, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("BulkVisits: validation failed: %v", err)
		return nil, err
	}

	ids := uniqueIDs(req.VisitIDs)
	now := uc.timeProvider.Now()

	// 2. Готовим переход один раз; ошибка параметров станет ошибкой каждого найденного визита
	apply := uc.prepare(op, req.Data, req.PerformedBy, now)

	// 3. Один писатель на все заказы
	release, err := uc.locker.Lock(ctx, OrdersLockKey)
	if err != nil {
		uc.logger.Error("BulkVisits: failed to acquire lock: %v", err)
		return nil, fmt.Errorf("%w: acquire lock: %v", ErrInternal, err)
	}
	defer release()

	var (
		updated   []VisitResult
		visitErrs []VisitError
	)

	// 4. Все изменения одной транзакцией
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		updated = make([]VisitResult, 0, len(ids))
		visitErrs = make([]VisitError, 0)

		visits, err := uc.visitRepo.GetByIDsForUpdate(txCtx, ids)
		if err != nil {
			return fmt.Errorf("load visits: %w", err)
		}

		byID := make(map[string]*domain.Visit, len(visits))
		for _, v := range visits {
			byID[v.ID] = v
		}

		for _, id := range ids {
			visit, ok := byID[id]
			if !ok {
				visitErrs = append(visitErrs, VisitError{VisitID: id, Code: codeNotFound, Error: msgVisitNotFound})
				continue
			}

			// переход применяется к копии: при ошибке визит не меняется
			next := cloneVisit(visit)
			if err := apply(next); err != nil {
				visitErrs = append(visitErrs, VisitError{VisitID: id, Code: errorCode(err), Error: err.Error()})
				continue
			}

			if err := uc.visitRepo.Update(txCtx, next); err != nil {
				return fmt.Errorf("update visit %s: %w", id, err)
			}
			updated = append(updated, toVisitResult(next))
		}

		return nil
	})
	if err != nil {
		uc.logger.Error("BulkVisits: operation=%s aborted: %v", op, err)
		uc.metrics.AddBulkVisitItems(string(op), resultFailed, len(ids))
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.metrics.AddBulkVisitItems(string(op), resultUpdated, len(updated))
	uc.metrics.AddBulkVisitItems(string(op), resultFailed, len(visitErrs))

	resp := &Response{
		Success:        len(visitErrs) == 0,
		Operation:      string(op),
		RequestedCount: len(ids),
		UpdatedCount:   len(updated),
		UpdatedVisits:  updated,
		Errors:         visitErrs,
		Message:        summary(op, len(updated), len(ids), len(visitErrs)),
	}

	uc.logger.Info("BulkVisits: operation=%s, updated=%d, failed=%d", op, resp.UpdatedCount, len(resp.Errors))
	return resp, nil
}

// prepare разбирает параметры операции и возвращает переход для одного визита
func (uc *UseCase) prepare(op domain.BulkOperation, data OperationData, by string, now time.Time) func(v *domain.Visit) error {
	fail := func(err error) func(v *domain.Visit) error {
		return func(*domain.Visit) error { return err }
	}

	switch op {
	case domain.BulkAssign:
		return func(v *domain.Visit) error {
			return v.Assign(data.TechnicianID, data.TechnicianName, by, now)
		}

	case domain.BulkReschedule:
		if data.NewDate == "" {
			return fail(fmt.Errorf("%w: newDate is required", domain.ErrMissingField))
		}
		newDate, err := time.Parse(domain.DateFormat, data.NewDate)
		if err != nil {
			return fail(fmt.Errorf("%w: newDate must be YYYY-MM-DD", domain.ErrInvalidField))
		}
		var newTime types.TimeString
		if data.NewTime != "" {
			newTime, err = types.NewTimeStringFromString(data.NewTime)
			if err != nil {
				return fail(fmt.Errorf("%w: newTime must be HH:MM", domain.ErrInvalidField))
			}
		}
		return func(v *domain.Visit) error {
			return v.Reschedule(newDate, newTime, by, now)
		}

	case domain.BulkCancel:
		if len(data.Reason) > domain.MaxCancelReasonLength {
			return fail(fmt.Errorf("%w: reason is too long", domain.ErrInvalidField))
		}
		return func(v *domain.Visit) error {
			return v.Cancel(data.Reason, by, now)
		}

	case domain.BulkUpdateStatus:
		status := domain.VisitStatus(data.NewStatus)
		return func(v *domain.Visit) error {
			return v.SetStatus(status, by, now)
		}

	case domain.BulkAddNote:
		if len(data.Note) > domain.MaxNoteLength {
			return fail(fmt.Errorf("%w: note is too long", domain.ErrInvalidField))
		}
		return func(v *domain.Visit) error {
			return v.AddNote(domain.AdminNote{
				ID:      uc.idGenerator.NewID(),
				Text:    data.Note,
				AddedBy: by,
				AddedAt: now,
			})
		}
	}

	return fail(fmt.Errorf("%w: %s", domain.ErrUnknownBulkOperation, op))
}

func cloneVisit(v *domain.Visit) *domain.Visit {
	c := *v
	c.AdminNotes = append([]domain.AdminNote(nil), v.AdminNotes...)
	if v.PreviousSchedule != nil {
		prev := *v.PreviousSchedule
		c.PreviousSchedule = &prev
	}
	return &c
}

func errorCode(err error) string {
	if errors.Is(err, domain.ErrInvalidTransition) {
		return codeInvalidTransition
	}
	return codeValidation
}

func summary(op domain.BulkOperation, updated, requested, failed int) string {
	msg := fmt.Sprintf("%d of %d visits %s", updated, requested, op.SummaryVerb())
	if failed > 0 {
		msg += fmt.Sprintf(", %d failed", failed)
	}
	return msg
}

type uuidGenerator struct{}

func (uuidGenerator) NewID() string {
	return uuid.NewString()
}

type nopMetrics struct{}

func (nopMetrics) AddBulkVisitItems(string, string, int) {}
