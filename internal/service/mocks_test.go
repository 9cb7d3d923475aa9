package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"classbook-backend/internal/domain"
)

// MockMemberRepo
type MockMemberRepo struct {
	mock.Mock
}

func (m *MockMemberRepo) Create(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}
func (m *MockMemberRepo) GetByID(ctx context.Context, id int32) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberRepo) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberRepo) Update(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

// MockPackageRepo
type MockPackageRepo struct {
	mock.Mock
}

func (m *MockPackageRepo) GetByID(ctx context.Context, id int32) (*domain.CreditPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditPackage), args.Error(1)
}
func (m *MockPackageRepo) ListByRegion(ctx context.Context, region string, status domain.PackageStatus) ([]domain.CreditPackage, error) {
	args := m.Called(ctx, region, status)
	return args.Get(0).([]domain.CreditPackage), args.Error(1)
}

// MockLedgerRepo
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) Create(ctx context.Context, entry *domain.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockLedgerRepo) GetByID(ctx context.Context, id int32) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}
func (m *MockLedgerRepo) ListByMember(ctx context.Context, memberID int32) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}
func (m *MockLedgerRepo) FindUsableEntry(ctx context.Context, memberID int32, region string, requiredCredits int32, now time.Time) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, memberID, region, requiredCredits, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}
func (m *MockLedgerRepo) Debit(ctx context.Context, entryID int32, amount int32) error {
	args := m.Called(ctx, entryID, amount)
	return args.Error(0)
}
func (m *MockLedgerRepo) Credit(ctx context.Context, entryID int32, amount int32) error {
	args := m.Called(ctx, entryID, amount)
	return args.Error(0)
}
func (m *MockLedgerRepo) ListExpiredActive(ctx context.Context, now time.Time) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}
func (m *MockLedgerRepo) MarkExpired(ctx context.Context, entryID int32, now time.Time) error {
	args := m.Called(ctx, entryID, now)
	return args.Error(0)
}

// MockScheduleRepo
type MockScheduleRepo struct {
	mock.Mock
}

func (m *MockScheduleRepo) GetByID(ctx context.Context, id int32) (*domain.ClassSchedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClassSchedule), args.Error(1)
}
func (m *MockScheduleRepo) ListAvailable(ctx context.Context, region string) ([]domain.ScheduleAvailability, error) {
	args := m.Called(ctx, region)
	return args.Get(0).([]domain.ScheduleAvailability), args.Error(1)
}
func (m *MockScheduleRepo) ListEndedScheduled(ctx context.Context, now time.Time) ([]domain.ClassSchedule, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.ClassSchedule), args.Error(1)
}
func (m *MockScheduleRepo) ListStartingBetween(ctx context.Context, from, to time.Time) ([]domain.ClassSchedule, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.ClassSchedule), args.Error(1)
}
func (m *MockScheduleRepo) ListWithWaitlistOver(ctx context.Context, threshold int32) ([]domain.ScheduleAvailability, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).([]domain.ScheduleAvailability), args.Error(1)
}
func (m *MockScheduleRepo) UpdateStatus(ctx context.Context, id int32, status domain.ClassStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) Update(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepo) ListByMember(ctx context.Context, memberID int32) ([]domain.BookingView, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]domain.BookingView), args.Error(1)
}
func (m *MockBookingRepo) ListActiveByMember(ctx context.Context, memberID int32) ([]domain.BookingView, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]domain.BookingView), args.Error(1)
}
func (m *MockBookingRepo) ListByScheduleAndStatus(ctx context.Context, scheduleID int32, status domain.BookingStatus) ([]domain.Booking, error) {
	args := m.Called(ctx, scheduleID, status)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) CountByScheduleAndStatus(ctx context.Context, scheduleID int32, status domain.BookingStatus) (int32, error) {
	args := m.Called(ctx, scheduleID, status)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockBookingRepo) MaxWaitlistPosition(ctx context.Context, scheduleID int32) (int32, error) {
	args := m.Called(ctx, scheduleID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockBookingRepo) FirstWaitlisted(ctx context.Context, scheduleID int32) (*domain.Booking, error) {
	args := m.Called(ctx, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) CompactWaitlist(ctx context.Context, scheduleID int32, removedPosition int32) error {
	args := m.Called(ctx, scheduleID, removedPosition)
	return args.Error(0)
}
func (m *MockBookingRepo) ListFutureByLedgerEntry(ctx context.Context, entryID int32, after time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, entryID, after)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) CountOldTerminal(ctx context.Context, before time.Time) (int32, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int32), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, memberID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, memberID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, memberID int32) error {
	args := m.Called(ctx, id, memberID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingConfirmation(ctx context.Context, to, name, className string, startTime time.Time) error {
	args := m.Called(ctx, to, name, className, startTime)
	return args.Error(0)
}
func (m *MockEmailService) SendWaitlistNotification(ctx context.Context, to, name, className string, position int32) error {
	args := m.Called(ctx, to, name, className, position)
	return args.Error(0)
}
func (m *MockEmailService) SendPromotionNotification(ctx context.Context, to, name, className string, startTime time.Time) error {
	args := m.Called(ctx, to, name, className, startTime)
	return args.Error(0)
}
func (m *MockEmailService) SendCancellationNotification(ctx context.Context, to, name, className string, refunded bool) error {
	args := m.Called(ctx, to, name, className, refunded)
	return args.Error(0)
}
func (m *MockEmailService) SendClassReminder(ctx context.Context, to, name, className string, startTime time.Time, location string) error {
	args := m.Called(ctx, to, name, className, startTime, location)
	return args.Error(0)
}
func (m *MockEmailService) SendPurchaseReceipt(ctx context.Context, to, name, packageName string, credits int32, expiryDate time.Time) error {
	args := m.Called(ctx, to, name, packageName, credits, expiryDate)
	return args.Error(0)
}

// MockPaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) Charge(ctx context.Context, memberID int32, paymentMethodID string, amountCents int64, description string) (string, error) {
	args := m.Called(ctx, memberID, paymentMethodID, amountCents, description)
	return args.String(0), args.Error(1)
}

// MockBookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Reserve(ctx context.Context, memberID, scheduleID int32) (*domain.Booking, error) {
	args := m.Called(ctx, memberID, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) Cancel(ctx context.Context, memberID, bookingID int32) (*domain.Booking, error) {
	args := m.Called(ctx, memberID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) CheckIn(ctx context.Context, memberID, bookingID int32) (*domain.Booking, error) {
	args := m.Called(ctx, memberID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) ListBookings(ctx context.Context, memberID int32) ([]domain.BookingView, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]domain.BookingView), args.Error(1)
}
func (m *MockBookingService) ListClasses(ctx context.Context, region string) ([]domain.ScheduleAvailability, error) {
	args := m.Called(ctx, region)
	return args.Get(0).([]domain.ScheduleAvailability), args.Error(1)
}
func (m *MockBookingService) CompleteFinishedClasses(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *MockBookingService) CancelBookingsForExpiredEntry(ctx context.Context, entry *domain.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
