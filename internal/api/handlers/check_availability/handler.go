package check_availability

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedule"
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedule/models"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

const (
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime         = "некорректный формат времени, ожидается HH:MM"
	msgInvalidParams       = "некорректные параметры запроса"
	msgEmployeeNotFound    = "сотрудник не найден"
	msgInvalidWorkingHours = "у сотрудника некорректно заданы рабочие часы"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/employees/{employeeId}/availability?date=YYYY-MM-DD&from=HH:MM&to=HH:MM
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	employeeID := mux.Vars(r)["employeeId"]
	query := r.URL.Query()

	date, err := handlers.ParseDate(query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /employees/{id}/availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	from, err := types.NewTimeStringFromString(query.Get("from"))
	if err != nil {
		h.logger.Warn("GET /employees/{id}/availability - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}
	to, err := types.NewTimeStringFromString(query.Get("to"))
	if err != nil {
		h.logger.Warn("GET /employees/{id}/availability - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.service.CheckAvailability(r.Context(), &models.CheckAvailabilityRequest{
		EmployeeID: employeeID,
		Date:       date,
		From:       from,
		To:         to,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("GET /employees/{id}/availability - Invalid params: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, schedule.ErrInvalidWorkingHours):
			handlers.RespondBadRequest(w, msgInvalidWorkingHours)

		case errors.Is(err, schedule.ErrEmployeeNotFound):
			h.logger.Warn("GET /employees/{id}/availability - Employee not found: employee_id=%s", employeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		default:
			h.logger.Error("GET /employees/{id}/availability - Failed to check availability: employee_id=%s, error=%v", employeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
