package check_availability

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ScheduleService/internal/service/schedule"
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedule/models"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) CheckAvailability(ctx context.Context, req *models.CheckAvailabilityRequest) (*models.AvailabilityResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AvailabilityResponse), args.Error(1)
}

func call(h *Handler, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees/EMP001/availability"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"employeeId": "EMP001"})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Available(t *testing.T) {
	svc := new(mockService)
	svc.On("CheckAvailability", mock.Anything, mock.MatchedBy(func(req *models.CheckAvailabilityRequest) bool {
		return req.EmployeeID == "EMP001" && req.From == types.TimeString("08:00") && req.To == types.TimeString("09:00")
	})).Return(&models.AvailabilityResponse{
		EmployeeID: "EMP001", Date: "2025-11-17", From: "08:00", To: "09:00", Available: true,
	}, nil)

	rec := call(NewHandler(svc, logger.NewNop()), "?date=2025-11-17&from=8:00&to=09:00")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"employeeId":"EMP001","date":"2025-11-17","from":"08:00","to":"09:00","available":true}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestHandle_BadRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "no date", query: "?from=08:00&to=09:00"},
		{name: "no from", query: "?date=2025-11-17&to=09:00"},
		{name: "bad to", query: "?date=2025-11-17&from=08:00&to=25:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			rec := call(NewHandler(svc, logger.NewNop()), tt.query)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			svc.AssertNotCalled(t, "CheckAvailability", mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_ServiceErrors(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{err: fmt.Errorf("%w: from must be before to", schedule.ErrInvalidInput), wantStatus: http.StatusBadRequest},
		{err: schedule.ErrEmployeeNotFound, wantStatus: http.StatusNotFound},
		{err: schedule.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			svc := new(mockService)
			svc.On("CheckAvailability", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := call(NewHandler(svc, logger.NewNop()), "?date=2025-11-17&from=09:00&to=08:00")
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
