package domain

import "fmt"

// BulkOperation is one of the fixed transitions applicable to a batch of visits
type BulkOperation string

const (
	BulkAssign       BulkOperation = "assign"
	BulkReschedule   BulkOperation = "reschedule"
	BulkCancel       BulkOperation = "cancel"
	BulkUpdateStatus BulkOperation = "update-status"
	BulkAddNote      BulkOperation = "add-note"
)

// ParseBulkOperation converts a string into a BulkOperation
func ParseBulkOperation(s string) (BulkOperation, error) {
	switch BulkOperation(s) {
	case BulkAssign, BulkReschedule, BulkCancel, BulkUpdateStatus, BulkAddNote:
		return BulkOperation(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBulkOperation, s)
	}
}

// SummaryVerb is the past-tense word used in the human-readable bulk summary
func (o BulkOperation) SummaryVerb() string {
	switch o {
	case BulkAssign:
		return "assigned"
	case BulkReschedule:
		return "rescheduled"
	case BulkCancel:
		return "cancelled"
	case BulkUpdateStatus:
		return "updated"
	case BulkAddNote:
		return "annotated"
	default:
		return "processed"
	}
}
