package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/lock"
	employeeRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/employee"
	scheduleRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/schedule"
	templateRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/template"
)

type fakeEmployees struct {
	items map[string]*domain.Employee
}

func (f *fakeEmployees) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	e, ok := f.items[id]
	if !ok {
		return nil, employeeRepo.ErrEmployeeNotFound
	}
	return e, nil
}

type fakeTemplates struct {
	items map[string]*domain.WorkTemplate
}

func templateKey(employeeID string, weekStart time.Time) string {
	return employeeID + "|" + weekStart.Format(domain.DateFormat)
}

func (f *fakeTemplates) Get(_ context.Context, employeeID string, weekStart time.Time) (*domain.WorkTemplate, error) {
	t, ok := f.items[templateKey(employeeID, weekStart)]
	if !ok {
		return nil, templateRepo.ErrTemplateNotFound
	}
	return t, nil
}

// fakeSchedules хранит копии и проверяет версию так же, как репозиторий
type fakeSchedules struct {
	mu    sync.Mutex
	items map[string]*domain.DaySchedule
	now   time.Time
}

func newFakeSchedules() *fakeSchedules {
	return &fakeSchedules{items: make(map[string]*domain.DaySchedule)}
}

func (f *fakeSchedules) Get(_ context.Context, employeeID string, date time.Time) (*domain.DaySchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.items[templateKey(employeeID, date)]
	if !ok {
		return nil, scheduleRepo.ErrScheduleNotFound
	}
	return s.Clone(), nil
}

func (f *fakeSchedules) Create(_ context.Context, s *domain.DaySchedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := templateKey(s.EmployeeID, s.Date)
	if _, ok := f.items[key]; ok {
		return scheduleRepo.ErrVersionConflict
	}
	s.Version = 1
	s.Persisted = true
	s.UpdatedAt = &f.now
	f.items[key] = s.Clone()
	return nil
}

func (f *fakeSchedules) Update(_ context.Context, s *domain.DaySchedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := templateKey(s.EmployeeID, s.Date)
	current, ok := f.items[key]
	if !ok || current.Version != s.Version {
		return scheduleRepo.ErrVersionConflict
	}
	s.Version++
	s.UpdatedAt = &f.now
	f.items[key] = s.Clone()
	return nil
}

func (f *fakeSchedules) Delete(_ context.Context, employeeID string, date time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := templateKey(employeeID, date)
	_, ok := f.items[key]
	delete(f.items, key)
	return ok, nil
}

// mockScheduleRepo для сценариев с ошибками хранилища
type mockScheduleRepo struct {
	mock.Mock
}

func (m *mockScheduleRepo) Get(ctx context.Context, employeeID string, date time.Time) (*domain.DaySchedule, error) {
	args := m.Called(ctx, employeeID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DaySchedule), args.Error(1)
}

func (m *mockScheduleRepo) Create(ctx context.Context, s *domain.DaySchedule) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockScheduleRepo) Update(ctx context.Context, s *domain.DaySchedule) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockScheduleRepo) Delete(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	args := m.Called(ctx, employeeID, date)
	return args.Bool(0), args.Error(1)
}

type fixedTime struct {
	t time.Time
}

func (f fixedTime) Now() time.Time {
	return f.t
}

// failingLocker всегда возвращает заданную ошибку
type failingLocker struct {
	err error
}

func (l failingLocker) Lock(_ context.Context, _ string) (lock.Release, error) {
	return nil, l.err
}
