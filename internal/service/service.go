package service

import (
	"context"
	"time"

	"classbook-backend/internal/domain"
)

// BookingService drives every booking state transition. All decisions are made
// against the injected clock so the cutoff rules are testable.
type BookingService interface {
	Reserve(ctx context.Context, memberID, scheduleID int32) (*domain.Booking, error)
	Cancel(ctx context.Context, memberID, bookingID int32) (*domain.Booking, error)
	CheckIn(ctx context.Context, memberID, bookingID int32) (*domain.Booking, error)
	ListBookings(ctx context.Context, memberID int32) ([]domain.BookingView, error)
	ListClasses(ctx context.Context, region string) ([]domain.ScheduleAvailability, error)

	// CompleteFinishedClasses finalizes every SCHEDULED class whose end time
	// has passed and returns the number of classes processed.
	CompleteFinishedClasses(ctx context.Context) (int, error)

	// CancelBookingsForExpiredEntry cancels the entry's future bookings without
	// refund and backfills any seats that open up from the waitlist.
	CancelBookingsForExpiredEntry(ctx context.Context, entry *domain.LedgerEntry) error
}

type PackageService interface {
	ListPackages(ctx context.Context, region string) ([]domain.CreditPackage, error)
	ListMemberPackages(ctx context.Context, memberID int32) ([]domain.LedgerEntry, error)
	Purchase(ctx context.Context, memberID, packageID int32, paymentMethodID string) (*domain.LedgerEntry, error)

	// ExpireLapsedEntries flips past-due ACTIVE entries to EXPIRED, cascading
	// into their future bookings. Returns the number of entries expired.
	ExpireLapsedEntries(ctx context.Context) (int, error)
}

type AuthService interface {
	Register(ctx context.Context, email, name, phone, password string) (*domain.Member, string, error)
	Login(ctx context.Context, email, password string) (*domain.Member, string, error)
	ChangePassword(ctx context.Context, memberID int32, oldPassword, newPassword string) error
}

type MemberService interface {
	GetProfile(ctx context.Context, memberID int32) (*domain.Member, error)
	UpdateProfile(ctx context.Context, memberID int32, name, phone string) (*domain.Member, error)
}

type NotificationService interface {
	List(ctx context.Context, memberID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, memberID, notificationID int32) error
}

// EmailService sends member-facing emails. Send failures are logged by
// callers and never fail the triggering operation.
type EmailService interface {
	SendBookingConfirmation(ctx context.Context, to, name, className string, startTime time.Time) error
	SendWaitlistNotification(ctx context.Context, to, name, className string, position int32) error
	SendPromotionNotification(ctx context.Context, to, name, className string, startTime time.Time) error
	SendCancellationNotification(ctx context.Context, to, name, className string, refunded bool) error
	SendClassReminder(ctx context.Context, to, name, className string, startTime time.Time, location string) error
	SendPurchaseReceipt(ctx context.Context, to, name, packageName string, credits int32, expiryDate time.Time) error
}

// PaymentGateway charges the member's stored payment method. The returned
// reference identifies the charge with the processor.
type PaymentGateway interface {
	Charge(ctx context.Context, memberID int32, paymentMethodID string, amountCents int64, description string) (string, error)
}
