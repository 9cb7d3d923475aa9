package repository

import (
	"context"
	"time"

	"classbook-backend/internal/domain"
)

type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id int32) (*domain.Member, error)
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
}

type PackageRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.CreditPackage, error)
	ListByRegion(ctx context.Context, region string, status domain.PackageStatus) ([]domain.CreditPackage, error)
}

type LedgerRepository interface {
	Create(ctx context.Context, entry *domain.LedgerEntry) error
	GetByID(ctx context.Context, id int32) (*domain.LedgerEntry, error)
	ListByMember(ctx context.Context, memberID int32) ([]domain.LedgerEntry, error)

	// FindUsableEntry returns the ACTIVE, unexpired, region-matching entry
	// with the earliest expiry date and at least requiredCredits remaining,
	// or nil when the member has none.
	FindUsableEntry(ctx context.Context, memberID int32, region string, requiredCredits int32, now time.Time) (*domain.LedgerEntry, error)

	// Debit subtracts amount atomically, flipping the entry to USED_UP when
	// the balance reaches zero. Returns InsufficientCreditsError when the
	// balance is too low; the row is left untouched in that case.
	Debit(ctx context.Context, entryID int32, amount int32) error

	// Credit adds amount back, reviving a USED_UP entry to ACTIVE when it has
	// not expired. EXPIRED entries keep their status but accept the balance.
	Credit(ctx context.Context, entryID int32, amount int32) error

	ListExpiredActive(ctx context.Context, now time.Time) ([]domain.LedgerEntry, error)

	// MarkExpired transitions ACTIVE to EXPIRED once past due; a no-op for
	// entries in any other state, so the sweeper can re-run safely.
	MarkExpired(ctx context.Context, entryID int32, now time.Time) error
}

type ScheduleRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.ClassSchedule, error)
	ListAvailable(ctx context.Context, region string) ([]domain.ScheduleAvailability, error)
	ListEndedScheduled(ctx context.Context, now time.Time) ([]domain.ClassSchedule, error)
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]domain.ClassSchedule, error)
	ListWithWaitlistOver(ctx context.Context, threshold int32) ([]domain.ScheduleAvailability, error)
	UpdateStatus(ctx context.Context, id int32, status domain.ClassStatus) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
	ListByMember(ctx context.Context, memberID int32) ([]domain.BookingView, error)

	// ListActiveByMember returns the member's BOOKED and CHECKED_IN bookings
	// joined with their schedule windows, for overlap checks.
	ListActiveByMember(ctx context.Context, memberID int32) ([]domain.BookingView, error)

	ListByScheduleAndStatus(ctx context.Context, scheduleID int32, status domain.BookingStatus) ([]domain.Booking, error)
	CountByScheduleAndStatus(ctx context.Context, scheduleID int32, status domain.BookingStatus) (int32, error)
	MaxWaitlistPosition(ctx context.Context, scheduleID int32) (int32, error)
	FirstWaitlisted(ctx context.Context, scheduleID int32) (*domain.Booking, error)

	// CompactWaitlist closes the gap left at removedPosition by decrementing
	// every waitlist position above it, keeping the ranking dense. A
	// removedPosition of zero or less is a no-op.
	CompactWaitlist(ctx context.Context, scheduleID int32, removedPosition int32) error

	ListFutureByLedgerEntry(ctx context.Context, entryID int32, after time.Time) ([]domain.Booking, error)
	CountOldTerminal(ctx context.Context, before time.Time) (int32, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, memberID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, memberID int32) error
}
