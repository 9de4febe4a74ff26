package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/lock"
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedule/models"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
	"github.com/m04kA/SMC-ScheduleService/pkg/metrics"
)

var (
	monday = time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC)
	now    = time.Date(2025, 11, 16, 18, 0, 0, 0, time.UTC)
)

type env struct {
	service   *Service
	schedules *fakeSchedules
	metrics   *metrics.Metrics
}

func newEnv(t *testing.T) *env {
	t.Helper()

	employees := &fakeEmployees{items: map[string]*domain.Employee{
		"EMP001": {ID: "EMP001", Name: "Jan Kowalski", WorkingHours: "09:00-17:00", IsActive: true},
		"EMP002": {ID: "EMP002", Name: "Piotr Nowak", IsActive: true},
		"EMP003": {ID: "EMP003", Name: "Broken Hours", WorkingHours: "0900", IsActive: true},
	}}
	templates := &fakeTemplates{items: map[string]*domain.WorkTemplate{
		templateKey("EMP001", monday): {
			EmployeeID: "EMP001",
			WeekStart:  monday,
			WorkBlocks: []domain.DayInterval{
				{DayOfWeek: time.Monday, StartTime: "08:00", EndTime: "16:00"},
			},
			Breaks: []domain.DayInterval{
				{DayOfWeek: time.Monday, StartTime: "12:00", EndTime: "12:30"},
			},
		},
	}}
	schedules := newFakeSchedules()
	schedules.now = now
	m := metrics.New("test_schedule")

	svc := NewService(employees, templates, schedules, lock.NewLocalLocker(), m, 15, logger.NewNop()).
		WithTimeProvider(fixedTime{t: now})

	return &env{service: svc, schedules: schedules, metrics: m}
}

func reserve(tm string, duration int) *models.ReserveSlotRequest {
	return &models.ReserveSlotRequest{
		EmployeeID:      "EMP001",
		Date:            monday,
		Time:            typesTime(tm),
		DurationMinutes: duration,
		Activity:        "Naprawa pralki",
		Location:        "Warszawa",
		UpdatedBy:       "admin",
	}
}

func TestService_GetSchedule_FromTemplate(t *testing.T) {
	e := newEnv(t)

	resp, err := e.service.GetSchedule(context.Background(), "EMP001", monday)
	require.NoError(t, err)

	assert.Equal(t, "2025-11-17", resp.Date)
	assert.Equal(t, "template", resp.SourceSystem)
	assert.False(t, resp.Persisted)
	assert.False(t, resp.IsDayOff)
	require.Len(t, resp.TimeSlots, 32)

	for _, slot := range resp.TimeSlots {
		if slot.Time == "12:00" || slot.Time == "12:15" {
			assert.Equal(t, "break", slot.Status)
		} else {
			assert.Equal(t, "available", slot.Status)
		}
	}
	assert.Equal(t, 450, resp.Statistics.AvailableMinutes)
	assert.Equal(t, 30, resp.Statistics.BreaksMinutes)
	assert.Equal(t, 0, resp.Statistics.UtilizationPercentage)
}

func TestService_GetSchedule_Resolution(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// шаблон на неделю есть, но во вторник блоков нет
	resp, err := e.service.GetSchedule(ctx, "EMP001", monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.True(t, resp.IsDayOff)
	assert.NotNil(t, resp.TimeSlots)

	// на следующей неделе шаблона нет, работают рабочие часы
	resp, err = e.service.GetSchedule(ctx, "EMP001", monday.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Equal(t, "working_hours", resp.SourceSystem)
	assert.Len(t, resp.TimeSlots, 32)

	resp, err = e.service.GetSchedule(ctx, "EMP002", monday)
	require.NoError(t, err)
	assert.True(t, resp.IsDayOff)

	_, err = e.service.GetSchedule(ctx, "EMP003", monday)
	assert.ErrorIs(t, err, ErrInvalidWorkingHours)

	_, err = e.service.GetSchedule(ctx, "EMP404", monday)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	_, err = e.service.GetSchedule(ctx, "", monday)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ReserveSlot(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	resp, err := e.service.ReserveSlot(ctx, reserve("10:00", 30))
	require.NoError(t, err)
	assert.True(t, resp.Persisted)
	assert.Equal(t, int64(1), resp.Version)

	var busy []string
	for _, s := range resp.TimeSlots {
		if s.Status == "busy" {
			busy = append(busy, s.Time)
			assert.Equal(t, "admin", s.UpdatedBy)
			assert.Equal(t, "Naprawa pralki", s.Activity)
			require.NotNil(t, s.LastUpdated)
			assert.Equal(t, now, *s.LastUpdated)
		}
	}
	assert.Equal(t, []string{"10:00", "10:15"}, busy)
	assert.Equal(t, 30, resp.Statistics.UsedMinutes)

	// повторное чтение отдает сохраненное расписание
	got, err := e.service.GetSchedule(ctx, "EMP001", monday)
	require.NoError(t, err)
	assert.True(t, got.Persisted)
	assert.Equal(t, 30, got.Statistics.UsedMinutes)

	// второе резервирование обновляет версию
	req := reserve("14:00", 0)
	req.Kind = domain.SlotTravel
	resp, err = e.service.ReserveSlot(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Version)
	assert.Equal(t, 15, resp.Statistics.TravelMinutes)

	assert.Equal(t, float64(2), testutilCounter(e.metrics, "reserve", "success"))
}

func TestService_ReserveSlot_Conflicts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.service.ReserveSlot(ctx, reserve("10:15", 0))
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     *models.ReserveSlotRequest
		wantErr error
	}{
		{name: "already busy", req: reserve("10:15", 0), wantErr: ErrSlotConflict},
		{name: "range hits busy slot", req: reserve("10:00", 30), wantErr: ErrSlotConflict},
		{name: "break slot", req: reserve("12:00", 0), wantErr: ErrSlotConflict},
		{name: "past end of block", req: reserve("15:45", 30), wantErr: ErrSlotConflict},
		{name: "no such slot", req: reserve("18:00", 0), wantErr: ErrSlotNotFound},
		{name: "bad duration", req: reserve("09:00", 20), wantErr: ErrInvalidInput},
		{name: "bad time", req: reserve("9am", 0), wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.service.ReserveSlot(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// ни одна неудачная попытка ничего не изменила
	got, err := e.service.GetSchedule(ctx, "EMP001", monday)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, 15, got.Statistics.UsedMinutes)
}

func TestService_ReserveSlot_InvalidKind(t *testing.T) {
	e := newEnv(t)

	req := reserve("10:00", 0)
	req.Kind = domain.SlotBreak
	_, err := e.service.ReserveSlot(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ReleaseSlot(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.service.ReserveSlot(ctx, reserve("10:00", 30))
	require.NoError(t, err)

	// свободный слот освободить нельзя
	_, err = e.service.ReleaseSlot(ctx, &models.ReleaseSlotRequest{EmployeeID: "EMP001", Date: monday, Time: "09:00", UpdatedBy: "admin"})
	assert.ErrorIs(t, err, ErrSlotNotFound)

	// перерыв освободить нельзя
	_, err = e.service.ReleaseSlot(ctx, &models.ReleaseSlotRequest{EmployeeID: "EMP001", Date: monday, Time: "12:00", UpdatedBy: "admin"})
	assert.ErrorIs(t, err, ErrSlotNotFound)

	// интервал захватывает свободный слот
	_, err = e.service.ReleaseSlot(ctx, &models.ReleaseSlotRequest{EmployeeID: "EMP001", Date: monday, Time: "10:00", DurationMinutes: 45, UpdatedBy: "admin"})
	assert.ErrorIs(t, err, ErrSlotNotFound)

	resp, err := e.service.ReleaseSlot(ctx, &models.ReleaseSlotRequest{EmployeeID: "EMP001", Date: monday, Time: "10:00", DurationMinutes: 30, UpdatedBy: "dispatcher"})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Statistics.UsedMinutes)
	assert.Equal(t, int64(2), resp.Version)

	for _, s := range resp.TimeSlots {
		if s.Time == "10:00" {
			assert.Equal(t, "available", s.Status)
			assert.Empty(t, s.Activity)
			assert.Equal(t, "dispatcher", s.UpdatedBy)
		}
	}
}

func TestService_ReleaseSlot_DerivedSchedule(t *testing.T) {
	e := newEnv(t)

	_, err := e.service.ReleaseSlot(context.Background(), &models.ReleaseSlotRequest{EmployeeID: "EMP001", Date: monday, Time: "10:00"})
	assert.ErrorIs(t, err, ErrSlotNotFound)
	assert.Empty(t, e.schedules.items)
}

func TestService_CheckAvailability(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.service.ReserveSlot(ctx, reserve("10:00", 0))
	require.NoError(t, err)

	tests := []struct {
		name     string
		date     time.Time
		from, to string
		want     bool
	}{
		{name: "free morning", date: monday, from: "08:00", to: "10:00", want: true},
		{name: "touches busy slot", date: monday, from: "09:30", to: "10:05", want: false},
		{name: "right after busy slot", date: monday, from: "10:15", to: "11:00", want: true},
		{name: "covers break", date: monday, from: "11:30", to: "12:30", want: false},
		{name: "after working hours", date: monday, from: "17:00", to: "18:00", want: false},
		{name: "day off", date: monday.AddDate(0, 0, 1), from: "08:00", to: "10:00", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := e.service.CheckAvailability(ctx, &models.CheckAvailabilityRequest{
				EmployeeID: "EMP001",
				Date:       tt.date,
				From:       typesTime(tt.from),
				To:         typesTime(tt.to),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Available)
		})
	}

	_, err = e.service.CheckAvailability(ctx, &models.CheckAvailabilityRequest{EmployeeID: "EMP001", Date: monday, From: "10:00", To: "09:00"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ResetSchedule(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.service.ReserveSlot(ctx, reserve("10:00", 0))
	require.NoError(t, err)

	resp, err := e.service.ResetSchedule(ctx, "EMP001", monday, "admin")
	require.NoError(t, err)
	assert.False(t, resp.Persisted)
	assert.Equal(t, 0, resp.Statistics.UsedMinutes)
	assert.Empty(t, e.schedules.items)

	_, err = e.service.ResetSchedule(ctx, "EMP404", monday, "admin")
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestService_GetStatistics(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.service.ReserveSlot(ctx, reserve("08:00", 120))
	require.NoError(t, err)

	stats, err := e.service.GetStatistics(ctx, "EMP001", monday)
	require.NoError(t, err)
	assert.Equal(t, 120, stats.UsedMinutes)
	assert.Equal(t, 480, stats.TotalMinutes)
	assert.Equal(t, 25, stats.UtilizationPercentage)
}

func TestService_ConcurrentReservations(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.service.ReserveSlot(ctx, reserve("10:00", 0))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrSlotConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 9, conflicts)
}

func TestService_VersionConflict(t *testing.T) {
	repo := &mockScheduleRepo{}
	employees := &fakeEmployees{items: map[string]*domain.Employee{
		"EMP001": {ID: "EMP001", WorkingHours: "08:00-16:00"},
	}}

	persisted := &domain.DaySchedule{
		EmployeeID:   "EMP001",
		Date:         monday,
		SourceSystem: domain.SourceWorkingHours,
		Persisted:    true,
		Version:      3,
		TimeSlots: []domain.TimeSlot{
			{Time: "08:00", Status: domain.SlotAvailable, Duration: 15, CanBeModified: true},
		},
	}
	repo.On("Get", mock.Anything, "EMP001", monday).Return(persisted, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(s *domain.DaySchedule) bool {
		return s.Version == 3 && s.TimeSlots[0].Status == domain.SlotBusy
	})).Return(errVersionConflict())

	svc := NewService(employees, &fakeTemplates{}, repo, lock.NewLocalLocker(), nil, 15, logger.NewNop())

	_, err := svc.ReserveSlot(context.Background(), &models.ReserveSlotRequest{
		EmployeeID: "EMP001", Date: monday, Time: "08:00", UpdatedBy: "admin",
	})
	assert.ErrorIs(t, err, ErrConcurrentModification)
	assert.Equal(t, domain.SlotAvailable, persisted.TimeSlots[0].Status)
	repo.AssertExpectations(t)
}

func TestService_StorageFailure(t *testing.T) {
	repo := &mockScheduleRepo{}
	employees := &fakeEmployees{items: map[string]*domain.Employee{"EMP001": {ID: "EMP001"}}}
	repo.On("Get", mock.Anything, "EMP001", monday).Return(nil, errors.New("connection refused"))

	svc := NewService(employees, &fakeTemplates{}, repo, lock.NewLocalLocker(), nil, 15, logger.NewNop())

	_, err := svc.GetSchedule(context.Background(), "EMP001", monday)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_LockFailures(t *testing.T) {
	tests := []struct {
		name       string
		lockErr    error
		wantErr    error
		wantResult string
	}{
		{
			name:       "key is busy",
			lockErr:    fmt.Errorf("%w: schedule:EMP001:2025-11-17: context deadline exceeded", lock.ErrLockTimeout),
			wantErr:    ErrConcurrentModification,
			wantResult: resultConflict,
		},
		{
			name:       "redis is down",
			lockErr:    fmt.Errorf("%w: Lock - setnx: dial tcp: connection refused", lock.ErrLockBackend),
			wantErr:    ErrInternal,
			wantResult: resultError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			employees := &fakeEmployees{items: map[string]*domain.Employee{
				"EMP001": {ID: "EMP001", WorkingHours: "09:00-17:00", IsActive: true},
			}}
			m := metrics.New("test_schedule_lock")
			svc := NewService(employees, &fakeTemplates{}, newFakeSchedules(), failingLocker{err: tt.lockErr}, m, 15, logger.NewNop())

			_, err := svc.ReserveSlot(context.Background(), reserve("10:00", 15))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, float64(1), testutilCounter(m, "reserve", tt.wantResult))

			_, err = svc.ResetSchedule(context.Background(), "EMP001", monday, "admin")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, float64(1), testutilCounter(m, "reset", tt.wantResult))
		})
	}
}
