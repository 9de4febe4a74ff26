package upsert_template

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/service/templates"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidWeekStart   = "некорректная дата начала недели, ожидается YYYY-MM-DD"
	msgInvalidTemplate    = "некорректный шаблон: проверьте понедельник, дни недели, интервалы и перерывы"
	msgEmployeeNotFound   = "сотрудник не найден"
)

type Handler struct {
	service TemplateService
	logger  Logger
}

func NewHandler(service TemplateService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/employees/{employeeId}/templates/{weekStart}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	employeeID := vars["employeeId"]
	userID := handlers.UserID(r)

	weekStart, err := handlers.ParseDate(vars["weekStart"])
	if err != nil {
		h.logger.Warn("PUT /employees/{id}/templates/{weekStart} - Invalid week start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWeekStart)
		return
	}

	var req UpsertTemplateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /employees/{id}/templates/{weekStart} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Upsert(r.Context(), req.ToServiceRequest(employeeID, weekStart, userID))
	if err != nil {
		switch {
		case errors.Is(err, templates.ErrInvalidInput):
			h.logger.Warn("PUT /employees/{id}/templates/{weekStart} - Invalid template: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTemplate)

		case errors.Is(err, templates.ErrEmployeeNotFound):
			h.logger.Warn("PUT /employees/{id}/templates/{weekStart} - Employee not found: employee_id=%s", employeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		default:
			h.logger.Error("PUT /employees/{id}/templates/{weekStart} - Failed to save template: employee_id=%s, error=%v", employeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /employees/{id}/templates/{weekStart} - Template saved: employee_id=%s, week_start=%s, by=%s",
		employeeID, result.WeekStart, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
