package bulk_visits

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// validateRequest проверяет запрос целиком: операцию, список ID и автора
func validateRequest(req *Request) (domain.BulkOperation, error) {
	op, err := domain.ParseBulkOperation(req.Operation)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if len(req.VisitIDs) == 0 {
		return "", fmt.Errorf("%w: visitIds must not be empty", ErrInvalidInput)
	}
	if len(req.VisitIDs) > domain.MaxBulkVisitIDs {
		return "", fmt.Errorf("%w: at most %d visitIds per request", ErrInvalidInput, domain.MaxBulkVisitIDs)
	}
	for i, id := range req.VisitIDs {
		if strings.TrimSpace(id) == "" {
			return "", fmt.Errorf("%w: visitIds[%d] is empty", ErrInvalidInput, i)
		}
	}

	if strings.TrimSpace(req.PerformedBy) == "" {
		return "", fmt.Errorf("%w: performedBy is required", ErrInvalidInput)
	}

	return op, nil
}

// uniqueIDs убирает повторы, сохраняя порядок первого вхождения
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
