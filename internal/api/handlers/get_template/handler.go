package get_template

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/service/templates"
)

const (
	msgInvalidWeekStart = "некорректная дата начала недели, ожидается YYYY-MM-DD"
	msgInvalidParams    = "некорректные параметры запроса"
	msgEmployeeNotFound = "сотрудник не найден"
	msgTemplateNotFound = "шаблон на эту неделю не найден"
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

// Handle GET /api/v1/employees/{employeeId}/templates/{weekStart}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	employeeID := vars["employeeId"]

	weekStart, err := handlers.ParseDate(vars["weekStart"])
	if err != nil {
		h.logger.Warn("GET /employees/{id}/templates/{weekStart} - Invalid week start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWeekStart)
		return
	}

	result, err := h.service.Get(r.Context(), employeeID, weekStart)
	if err != nil {
		switch {
		case errors.Is(err, templates.ErrInvalidInput):
			h.logger.Warn("GET /employees/{id}/templates/{weekStart} - Invalid params: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, templates.ErrEmployeeNotFound):
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, templates.ErrTemplateNotFound):
			handlers.RespondNotFound(w, msgTemplateNotFound)

		default:
			h.logger.Error("GET /employees/{id}/templates/{weekStart} - Failed to get template: employee_id=%s, error=%v", employeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
