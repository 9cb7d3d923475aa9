package domain

import "time"

type BookingStatus string

const (
	BookingStatusBooked     BookingStatus = "BOOKED"
	BookingStatusWaitlisted BookingStatus = "WAITLISTED"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
	BookingStatusCheckedIn  BookingStatus = "CHECKED_IN"
	BookingStatusNoShow     BookingStatus = "NO_SHOW"
)

// Booking ties a member, a class schedule and the ledger entry charged for it.
// WaitlistPosition is set only while WAITLISTED and is a dense 1-based rank
// per schedule. At most one of CancellationTime/CheckInTime is ever set.
type Booking struct {
	ID               int32         `json:"id"`
	MemberID         int32         `json:"member_id"`
	ScheduleID       int32         `json:"schedule_id"`
	LedgerEntryID    int32         `json:"ledger_entry_id"`
	Status           BookingStatus `json:"status"`
	BookingTime      time.Time     `json:"booking_time"`
	CancellationTime *time.Time    `json:"cancellation_time,omitempty"`
	CheckInTime      *time.Time    `json:"check_in_time,omitempty"`
	WaitlistPosition *int32        `json:"waitlist_position,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// BookingView is the booking plus the schedule fields callers display.
type BookingView struct {
	Booking
	ClassName  string    `json:"class_name"`
	Instructor string    `json:"instructor"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Location   string    `json:"location,omitempty"`
}
