package bulk_visits

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	bulkVisits "github.com/m04kA/SMC-ScheduleService/internal/usecase/bulk_visits"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidOperation   = "некорректная операция или пустой список визитов"
)

type Handler struct {
	useCase BulkVisitsUseCase
	logger  Logger
}

func NewHandler(useCase BulkVisitsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/visits/bulk
// Ошибки отдельных визитов возвращаются в errors[] со статусом 200.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req bulkVisits.Request
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /visits/bulk - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.PerformedBy = handlers.UserID(r)

	result, err := h.useCase.Execute(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, bulkVisits.ErrInvalidInput):
			h.logger.Warn("POST /visits/bulk - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidOperation)

		default:
			h.logger.Error("POST /visits/bulk - Failed to apply operation=%s: error=%v", req.Operation, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /visits/bulk - Operation applied: operation=%s, updated=%d, failed=%d, by=%s",
		result.Operation, result.UpdatedCount, len(result.Errors), req.PerformedBy)
	handlers.RespondJSON(w, http.StatusOK, result)
}
