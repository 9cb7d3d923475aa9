package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrLockUnavailable means another request holds the per-schedule lock.
// Callers should retry; the service never queues behind the holder.
var ErrLockUnavailable = errors.New("class booking is temporarily unavailable due to high demand, please retry")

type NotFoundError struct {
	Resource string
	ID       int32
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// InvalidStateError covers transitions rejected because of the current state
// of a schedule or booking: class not open for booking, booking already
// cancelled or checked in, check-in attempted outside its window.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	return e.Reason
}

type NoSuitablePackageError struct {
	Region          string
	RequiredCredits int32
}

func (e *NoSuitablePackageError) Error() string {
	return fmt.Sprintf("no active package for %s with at least %d credits", e.Region, e.RequiredCredits)
}

type ConflictingBookingError struct {
	BookingID int32
	ClassName string
	StartTime time.Time
	EndTime   time.Time
}

func (e *ConflictingBookingError) Error() string {
	return fmt.Sprintf("conflicting booking %d (%s) between %s and %s",
		e.BookingID, e.ClassName, e.StartTime.Format(time.RFC3339), e.EndTime.Format(time.RFC3339))
}

// InsufficientCreditsError should be unreachable when callers re-validate the
// entry under the schedule lock; any occurrence is an invariant violation and
// is logged as such rather than surfaced to members.
type InsufficientCreditsError struct {
	EntryID   int32
	Required  int32
	Available int32
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("ledger entry %d has %d credits, %d required", e.EntryID, e.Available, e.Required)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsInvalidState(err error) bool {
	var is *InvalidStateError
	return errors.As(err, &is)
}
