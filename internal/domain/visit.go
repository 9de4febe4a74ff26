package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// VisitStatus represents the lifecycle status of a visit
type VisitStatus string

const (
	VisitStatusPending     VisitStatus = "pending"
	VisitStatusScheduled   VisitStatus = "scheduled"
	VisitStatusRescheduled VisitStatus = "rescheduled"
	VisitStatusCancelled   VisitStatus = "cancelled"
	VisitStatusCompleted   VisitStatus = "completed"
)

// ParseVisitStatus converts a string into a VisitStatus
func ParseVisitStatus(s string) (VisitStatus, error) {
	switch VisitStatus(s) {
	case VisitStatusPending, VisitStatusScheduled, VisitStatusRescheduled,
		VisitStatusCancelled, VisitStatusCompleted:
		return VisitStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVisitStatus, s)
	}
}

// VisitType represents the kind of appointment
type VisitType string

const (
	VisitTypeDiagnosis VisitType = "diagnosis"
	VisitTypeRepair    VisitType = "repair"
	VisitTypeControl   VisitType = "control"
)

// PreviousSchedule is the snapshot kept on reschedule
type PreviousSchedule struct {
	Date          string // YYYY-MM-DD
	Time          types.TimeString
	RescheduledAt time.Time
	RescheduledBy string
}

// AdminNote is an annotation appended by an administrator
type AdminNote struct {
	ID      string
	Text    string
	AddedBy string
	AddedAt time.Time
}

// Visit is a single scheduled appointment owned by an order
type Visit struct {
	ID                string
	OrderID           string
	OrderNumber       string
	VisitNumber       int
	Type              VisitType
	ScheduledDate     time.Time
	ScheduledTime     types.TimeString
	EstimatedDuration int // minutes
	Status            VisitStatus

	TechnicianID   string
	TechnicianName string
	AssignedTo     string

	Notes            string
	AdminNotes       []AdminNote
	PreviousSchedule *PreviousSchedule

	CompletedAt     *time.Time
	CancelledAt     *time.Time
	CancelledBy     string
	CancelReason    string
	StatusChangedAt *time.Time
	StatusChangedBy string

	UpdatedAt      time.Time
	LastModifiedBy string
	Version        int64
}

// Assign sets the technician of the visit
func (v *Visit) Assign(technicianID, technicianName, by string, now time.Time) error {
	if technicianID == "" || technicianName == "" {
		return fmt.Errorf("%w: technicianId and technicianName are required", ErrMissingField)
	}

	v.TechnicianID = technicianID
	v.TechnicianName = technicianName
	v.AssignedTo = technicianID
	v.touch(by, now)
	return nil
}

// Reschedule moves the visit to a new date, keeping the old date and time in PreviousSchedule.
// When newTime is zero the current time of day is kept.
func (v *Visit) Reschedule(newDate time.Time, newTime types.TimeString, by string, now time.Time) error {
	if newDate.IsZero() {
		return fmt.Errorf("%w: newDate is required", ErrMissingField)
	}

	v.PreviousSchedule = &PreviousSchedule{
		Date:          v.ScheduledDate.Format(DateFormat),
		Time:          v.ScheduledTime,
		RescheduledAt: now,
		RescheduledBy: by,
	}

	v.ScheduledDate = DateOnly(newDate)
	if !newTime.IsZero() {
		v.ScheduledTime = newTime
	}
	if v.Status != VisitStatusCompleted {
		v.Status = VisitStatusRescheduled
	}
	v.touch(by, now)
	return nil
}

// Cancel marks the visit cancelled. A completed visit cannot be cancelled.
func (v *Visit) Cancel(reason, by string, now time.Time) error {
	if v.Status == VisitStatusCompleted {
		return fmt.Errorf("%w: cannot cancel completed visit", ErrInvalidTransition)
	}

	v.Status = VisitStatusCancelled
	v.CancelledAt = &now
	v.CancelledBy = by
	v.CancelReason = reason
	v.touch(by, now)
	return nil
}

// SetStatus moves the visit to the given status
func (v *Visit) SetStatus(status VisitStatus, by string, now time.Time) error {
	if status == "" {
		return fmt.Errorf("%w: newStatus is required", ErrMissingField)
	}
	if _, err := ParseVisitStatus(string(status)); err != nil {
		return err
	}
	if v.Status == VisitStatusCompleted && status == VisitStatusCancelled {
		return fmt.Errorf("%w: cannot cancel completed visit", ErrInvalidTransition)
	}

	v.Status = status
	v.StatusChangedAt = &now
	v.StatusChangedBy = by
	if status == VisitStatusCompleted {
		v.CompletedAt = &now
	}
	v.touch(by, now)
	return nil
}

// AddNote appends an admin note
func (v *Visit) AddNote(note AdminNote) error {
	if note.Text == "" {
		return fmt.Errorf("%w: note is required", ErrMissingField)
	}

	v.AdminNotes = append(v.AdminNotes, note)
	v.touch(note.AddedBy, note.AddedAt)
	return nil
}

func (v *Visit) touch(by string, now time.Time) {
	v.UpdatedAt = now
	v.LastModifiedBy = by
}
