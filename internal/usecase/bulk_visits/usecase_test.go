package bulk_visits

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/lock"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
	"github.com/m04kA/SMC-ScheduleService/pkg/metrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

var now = time.Date(2025, 11, 18, 9, 30, 0, 0, time.UTC)

// fakeVisitRepo хранилище визитов в памяти
type fakeVisitRepo struct {
	mu       sync.Mutex
	visits   map[string]*domain.Visit
	failOnID string
}

func (r *fakeVisitRepo) GetByIDsForUpdate(_ context.Context, ids []string) ([]*domain.Visit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*domain.Visit, 0, len(ids))
	for _, id := range ids {
		if v, ok := r.visits[id]; ok {
			result = append(result, cloneVisit(v))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeVisitRepo) Update(_ context.Context, v *domain.Visit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v.ID == r.failOnID {
		return errors.New("connection reset by peer")
	}
	v.Version++
	r.visits[v.ID] = cloneVisit(v)
	return nil
}

func (r *fakeVisitRepo) get(id string) *domain.Visit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visits[id]
}

// fakeTxManager откатывает изменения репозитория, если fn вернула ошибку
type fakeTxManager struct {
	repo *fakeVisitRepo
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.repo.mu.Lock()
	snapshot := make(map[string]*domain.Visit, len(m.repo.visits))
	for id, v := range m.repo.visits {
		snapshot[id] = cloneVisit(v)
	}
	m.repo.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.repo.mu.Lock()
		m.repo.visits = snapshot
		m.repo.mu.Unlock()
		return err
	}
	return nil
}

type fixedTime struct{}

func (fixedTime) Now() time.Time { return now }

type seqIDs struct {
	n int
}

func (g *seqIDs) NewID() string {
	g.n++
	return fmt.Sprintf("note-%d", g.n)
}

func newVisit(id string, status domain.VisitStatus) *domain.Visit {
	return &domain.Visit{
		ID:            id,
		OrderID:       "ORD-" + id,
		OrderNumber:   "2025/11/" + id,
		VisitNumber:   1,
		Type:          domain.VisitTypeRepair,
		ScheduledDate: time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC),
		ScheduledTime: "10:00",
		Status:        status,
		Version:       1,
	}
}

type env struct {
	uc      *UseCase
	repo    *fakeVisitRepo
	metrics *metrics.Metrics
}

func newEnv(visits ...*domain.Visit) *env {
	repo := &fakeVisitRepo{visits: make(map[string]*domain.Visit)}
	for _, v := range visits {
		repo.visits[v.ID] = v
	}
	m := metrics.New("test_bulk")

	uc := NewUseCase(repo, &fakeTxManager{repo: repo}, lock.NewLocalLocker(), m, logger.NewNop()).
		WithTimeProvider(fixedTime{}).
		WithIDGenerator(&seqIDs{})

	return &env{uc: uc, repo: repo, metrics: m}
}

func TestExecute_MixedBatch(t *testing.T) {
	e := newEnv(newVisit("VIS001", domain.VisitStatusScheduled), newVisit("VIS002", domain.VisitStatusPending))

	resp, err := e.uc.Execute(context.Background(), &Request{
		Operation:   "assign",
		VisitIDs:    []string{"VIS001", "VIS404", "VIS002"},
		Data:        OperationData{TechnicianID: "EMP001", TechnicianName: "Jan Kowalski"},
		PerformedBy: "admin",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.RequestedCount)
	assert.Equal(t, 2, resp.UpdatedCount)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, VisitError{VisitID: "VIS404", Code: codeNotFound, Error: "visit not found"}, resp.Errors[0])
	assert.False(t, resp.Success)
	assert.Equal(t, "2 of 3 visits assigned, 1 failed", resp.Message)

	for _, id := range []string{"VIS001", "VIS002"} {
		v := e.repo.get(id)
		assert.Equal(t, "EMP001", v.TechnicianID)
		assert.Equal(t, "EMP001", v.AssignedTo)
		assert.Equal(t, "admin", v.LastModifiedBy)
		assert.Equal(t, now, v.UpdatedAt)
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(e.metrics.BulkVisitItems.WithLabelValues("assign", "updated")))
	assert.Equal(t, float64(1), testutil.ToFloat64(e.metrics.BulkVisitItems.WithLabelValues("assign", "failed")))
}

func TestExecute_CancelCompletedVisit(t *testing.T) {
	completed := newVisit("VIS001", domain.VisitStatusCompleted)
	e := newEnv(completed, newVisit("VIS002", domain.VisitStatusScheduled))

	resp, err := e.uc.Execute(context.Background(), &Request{
		Operation:   "cancel",
		VisitIDs:    []string{"VIS001", "VIS002"},
		Data:        OperationData{Reason: "client cancelled"},
		PerformedBy: "admin",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.UpdatedCount)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "VIS001", resp.Errors[0].VisitID)
	assert.Equal(t, codeInvalidTransition, resp.Errors[0].Code)
	assert.Contains(t, resp.Errors[0].Error, "cannot cancel completed visit")

	v1 := e.repo.get("VIS001")
	assert.Equal(t, domain.VisitStatusCompleted, v1.Status)
	assert.Nil(t, v1.CancelledAt)
	assert.Equal(t, int64(1), v1.Version)

	v2 := e.repo.get("VIS002")
	assert.Equal(t, domain.VisitStatusCancelled, v2.Status)
	assert.Equal(t, "client cancelled", v2.CancelReason)
	assert.Equal(t, "admin", v2.CancelledBy)

	require.Len(t, resp.UpdatedVisits, 1)
	require.NotNil(t, resp.UpdatedVisits[0].CancelledAt)
	assert.Equal(t, now, *resp.UpdatedVisits[0].CancelledAt)
}

func TestExecute_Reschedule(t *testing.T) {
	e := newEnv(newVisit("VIS001", domain.VisitStatusScheduled))

	resp, err := e.uc.Execute(context.Background(), &Request{
		Operation:   "reschedule",
		VisitIDs:    []string{"VIS001"},
		Data:        OperationData{NewDate: "2025-12-01"},
		PerformedBy: "admin",
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.UpdatedCount)

	got := resp.UpdatedVisits[0]
	assert.Equal(t, "2025-12-01", got.ScheduledDate)
	assert.Equal(t, "10:00", got.ScheduledTime)
	assert.Equal(t, "rescheduled", got.Status)
	require.NotNil(t, got.PreviousSchedule)
	assert.Equal(t, PreviousScheduleResult{Date: "2025-11-20", Time: "10:00", RescheduledAt: now}, *got.PreviousSchedule)

	stored := e.repo.get("VIS001")
	assert.Equal(t, "2025-12-01", stored.ScheduledDate.Format(domain.DateFormat))
	assert.Equal(t, types.TimeString("10:00"), stored.PreviousSchedule.Time)
}

func TestExecute_RescheduleWithNewTime(t *testing.T) {
	e := newEnv(newVisit("VIS001", domain.VisitStatusCompleted))

	resp, err := e.uc.Execute(context.Background(), &Request{
		Operation:   "reschedule",
		VisitIDs:    []string{"VIS001"},
		Data:        OperationData{NewDate: "2025-12-01", NewTime: "8:30"},
		PerformedBy: "admin",
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.UpdatedCount)
	assert.Equal(t, "08:30", resp.UpdatedVisits[0].ScheduledTime)
	assert.Equal(t, "completed", resp.UpdatedVisits[0].Status)
}

func TestExecute_MissingOperationData(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		data      OperationData
	}{
		{name: "assign without technician", operation: "assign", data: OperationData{TechnicianID: "EMP001"}},
		{name: "reschedule without date", operation: "reschedule"},
		{name: "reschedule with bad date", operation: "reschedule", data: OperationData{NewDate: "01.12.2025"}},
		{name: "update-status without status", operation: "update-status"},
		{name: "update-status with unknown status", operation: "update-status", data: OperationData{NewStatus: "archived"}},
		{name: "add-note without note", operation: "add-note"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(newVisit("VIS001", domain.VisitStatusScheduled), newVisit("VIS002", domain.VisitStatusScheduled))

			resp, err := e.uc.Execute(context.Background(), &Request{
				Operation:   tt.operation,
				VisitIDs:    []string{"VIS001", "VIS002", "VIS404"},
				Data:        tt.data,
				PerformedBy: "admin",
			})
			require.NoError(t, err)
			assert.Equal(t, 0, resp.UpdatedCount)
			require.Len(t, resp.Errors, 3)
			assert.Equal(t, codeValidation, resp.Errors[0].Code)
			assert.Equal(t, codeNotFound, resp.Errors[2].Code)
			assert.Equal(t, int64(1), e.repo.get("VIS001").Version)
		})
	}
}

func TestExecute_UpdateStatus(t *testing.T) {
	e := newEnv(newVisit("VIS001", domain.VisitStatusScheduled), newVisit("VIS002", domain.VisitStatusCompleted))

	resp, err := e.uc.Execute(context.Background(), &Request{
		Operation:   "update-status",
		VisitIDs:    []string{"VIS001", "VIS002"},
		Data:        OperationData{NewStatus: "cancelled"},
		PerformedBy: "dispatcher",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.UpdatedCount)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "VIS002", resp.Errors[0].VisitID)
	assert.Equal(t, codeInvalidTransition, resp.Errors[0].Code)

	resp, err = e.uc.Execute(context.Background(), &Request{
		Operation:   "update-status",
		VisitIDs:    []string{"VIS001"},
		Data:        OperationData{NewStatus: "completed"},
		PerformedBy: "dispatcher",
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.UpdatedCount)
	assert.Equal(t, "completed", resp.UpdatedVisits[0].Status)
	require.NotNil(t, resp.UpdatedVisits[0].CompletedAt)
	assert.Equal(t, now, *resp.UpdatedVisits[0].CompletedAt)
	assert.Equal(t, "dispatcher", resp.UpdatedVisits[0].StatusChangedBy)
}

func TestExecute_AddNote(t *testing.T) {
	e := newEnv(newVisit("VIS001", domain.VisitStatusScheduled), newVisit("VIS002", domain.VisitStatusScheduled))

	resp, err := e.uc.Execute(context.Background(), &Request{
		Operation:   "add-note",
		VisitIDs:    []string{"VIS001", "VIS002"},
		Data:        OperationData{Note: "Klient prosi o telefon"},
		PerformedBy: "admin",
	})
	require.NoError(t, err)
	require.Equal(t, 2, resp.UpdatedCount)
	assert.True(t, resp.Success)
	assert.Equal(t, "2 of 2 visits annotated", resp.Message)

	notes := e.repo.get("VIS001").AdminNotes
	require.Len(t, notes, 1)
	assert.Equal(t, domain.AdminNote{ID: "note-1", Text: "Klient prosi o telefon", AddedBy: "admin", AddedAt: now}, notes[0])
	assert.Equal(t, "note-2", e.repo.get("VIS002").AdminNotes[0].ID)
}

func TestExecute_DuplicateIDs(t *testing.T) {
	e := newEnv(newVisit("VIS001", domain.VisitStatusScheduled))

	resp, err := e.uc.Execute(context.Background(), &Request{
		Operation:   "add-note",
		VisitIDs:    []string{"VIS001", "VIS001"},
		Data:        OperationData{Note: "once"},
		PerformedBy: "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.RequestedCount)
	assert.Equal(t, 1, resp.UpdatedCount)
	assert.Equal(t, "1 of 1 visits annotated", resp.Message)
	assert.Len(t, e.repo.get("VIS001").AdminNotes, 1)
}

func TestExecute_StorageFailureAbortsBatch(t *testing.T) {
	e := newEnv(newVisit("VIS001", domain.VisitStatusScheduled), newVisit("VIS002", domain.VisitStatusScheduled))
	e.repo.failOnID = "VIS002"

	_, err := e.uc.Execute(context.Background(), &Request{
		Operation:   "cancel",
		VisitIDs:    []string{"VIS001", "VIS002"},
		PerformedBy: "admin",
	})
	assert.ErrorIs(t, err, ErrInternal)

	// VIS001 был обновлен внутри транзакции, но откатился
	assert.Equal(t, domain.VisitStatusScheduled, e.repo.get("VIS001").Status)
	assert.Equal(t, int64(1), e.repo.get("VIS001").Version)
}

func TestExecute_InvalidRequest(t *testing.T) {
	e := newEnv(newVisit("VIS001", domain.VisitStatusScheduled))

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "unknown operation", req: &Request{Operation: "delete", VisitIDs: []string{"VIS001"}, PerformedBy: "admin"}},
		{name: "empty ids", req: &Request{Operation: "cancel", PerformedBy: "admin"}},
		{name: "blank id", req: &Request{Operation: "cancel", VisitIDs: []string{" "}, PerformedBy: "admin"}},
		{name: "no author", req: &Request{Operation: "cancel", VisitIDs: []string{"VIS001"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	assert.Equal(t, domain.VisitStatusScheduled, e.repo.get("VIS001").Status)
}
