package reserve_slot

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedule"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDateTime     = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgInvalidParams       = "некорректные параметры запроса"
	msgEmployeeNotFound    = "сотрудник не найден"
	msgSlotNotFound        = "слот не найден"
	msgSlotConflict        = "слот уже занят или недоступен"
	msgConcurrentModified  = "расписание изменено параллельно, повторите запрос"
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

// Handle POST /api/v1/employees/{employeeId}/slots/reserve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	employeeID := mux.Vars(r)["employeeId"]
	userID := handlers.UserID(r)

	var req ReserveSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /employees/{id}/slots/reserve - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(employeeID, userID)
	if err != nil {
		h.logger.Warn("POST /employees/{id}/slots/reserve - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.service.ReserveSlot(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /employees/{id}/slots/reserve - Invalid params: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, schedule.ErrInvalidWorkingHours):
			handlers.RespondBadRequest(w, msgInvalidWorkingHours)

		case errors.Is(err, schedule.ErrEmployeeNotFound):
			h.logger.Warn("POST /employees/{id}/slots/reserve - Employee not found: employee_id=%s", employeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, schedule.ErrSlotNotFound):
			h.logger.Warn("POST /employees/{id}/slots/reserve - Slot not found: employee_id=%s, date=%s, time=%s",
				employeeID, req.Date, req.Time)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, schedule.ErrSlotConflict):
			h.logger.Warn("POST /employees/{id}/slots/reserve - Slot conflict: employee_id=%s, date=%s, time=%s",
				employeeID, req.Date, req.Time)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, schedule.ErrConcurrentModification):
			h.logger.Warn("POST /employees/{id}/slots/reserve - Concurrent modification: employee_id=%s", employeeID)
			handlers.RespondConflict(w, msgConcurrentModified)

		default:
			h.logger.Error("POST /employees/{id}/slots/reserve - Failed to reserve slot: employee_id=%s, error=%v", employeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /employees/{id}/slots/reserve - Slot reserved: employee_id=%s, date=%s, time=%s, by=%s",
		employeeID, req.Date, req.Time, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
