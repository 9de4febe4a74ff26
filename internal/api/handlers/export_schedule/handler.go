package export_schedule

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	exportSchedule "github.com/m04kA/SMC-ScheduleService/internal/usecase/export_schedule"
)

const (
	msgInvalidPeriod       = "некорректный период, ожидаются from и to в формате YYYY-MM-DD"
	msgInvalidParams       = "некорректные параметры выгрузки"
	msgEmployeeNotFound    = "сотрудник не найден"
	msgInvalidWorkingHours = "у сотрудника некорректно заданы рабочие часы"
)

type Handler struct {
	useCase ExportScheduleUseCase
	logger  Logger
}

func NewHandler(useCase ExportScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/employees/{employeeId}/schedule/export?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	employeeID := mux.Vars(r)["employeeId"]
	query := r.URL.Query()

	from, err := handlers.ParseDate(query.Get("from"))
	if err != nil {
		h.logger.Warn("GET /employees/{id}/schedule/export - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}
	to, err := handlers.ParseDate(query.Get("to"))
	if err != nil {
		h.logger.Warn("GET /employees/{id}/schedule/export - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &exportSchedule.Request{
		EmployeeID: employeeID,
		From:       from,
		To:         to,
	})
	if err != nil {
		switch {
		case errors.Is(err, exportSchedule.ErrInvalidInput):
			h.logger.Warn("GET /employees/{id}/schedule/export - Invalid params: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, exportSchedule.ErrInvalidWorkingHours):
			handlers.RespondBadRequest(w, msgInvalidWorkingHours)

		case errors.Is(err, exportSchedule.ErrEmployeeNotFound):
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		default:
			h.logger.Error("GET /employees/{id}/schedule/export - Failed to export schedule: employee_id=%s, error=%v", employeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondFile(w, exportSchedule.ContentType, result.FileName, result.Content)
}
