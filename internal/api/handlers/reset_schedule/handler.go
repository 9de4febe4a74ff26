package reset_schedule

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedule"
)

const (
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidParams       = "некорректные параметры запроса"
	msgEmployeeNotFound    = "сотрудник не найден"
	msgInvalidWorkingHours = "у сотрудника некорректно заданы рабочие часы"
	msgConcurrentModified  = "расписание изменено параллельно, повторите запрос"
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

// Handle DELETE /api/v1/employees/{employeeId}/schedule?date=YYYY-MM-DD
// Удаляет ручные изменения дня, расписание снова строится из шаблона.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	employeeID := mux.Vars(r)["employeeId"]
	userID := handlers.UserID(r)

	date, err := handlers.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("DELETE /employees/{id}/schedule - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.ResetSchedule(r.Context(), employeeID, date, userID)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, schedule.ErrInvalidWorkingHours):
			handlers.RespondBadRequest(w, msgInvalidWorkingHours)

		case errors.Is(err, schedule.ErrEmployeeNotFound):
			h.logger.Warn("DELETE /employees/{id}/schedule - Employee not found: employee_id=%s", employeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, schedule.ErrConcurrentModification):
			h.logger.Warn("DELETE /employees/{id}/schedule - Concurrent modification: employee_id=%s", employeeID)
			handlers.RespondConflict(w, msgConcurrentModified)

		default:
			h.logger.Error("DELETE /employees/{id}/schedule - Failed to reset schedule: employee_id=%s, error=%v", employeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /employees/{id}/schedule - Schedule reset: employee_id=%s, date=%s, by=%s",
		employeeID, result.Date, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
