package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"classbook-backend/internal/domain"
)

type packageFixture struct {
	packageRepo *MockPackageRepo
	ledgerRepo  *MockLedgerRepo
	memberRepo  *MockMemberRepo
	noteRepo    *MockNotificationRepo
	bookingSvc  *MockBookingService
	emailSvc    *MockEmailService
	gateway     *MockPaymentGateway
	svc         *packageService
}

func newPackageFixture(now time.Time) *packageFixture {
	f := &packageFixture{
		packageRepo: new(MockPackageRepo),
		ledgerRepo:  new(MockLedgerRepo),
		memberRepo:  new(MockMemberRepo),
		noteRepo:    new(MockNotificationRepo),
		bookingSvc:  new(MockBookingService),
		emailSvc:    new(MockEmailService),
		gateway:     new(MockPaymentGateway),
	}
	f.svc = NewPackageService(
		f.packageRepo, f.ledgerRepo, f.memberRepo, f.noteRepo,
		f.bookingSvc, f.emailSvc, f.gateway,
	).(*packageService)
	f.svc.now = func() time.Time { return now }
	return f
}

func TestPackageService_Purchase(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	pkg := &domain.CreditPackage{
		ID: 5, Name: "10-Class Pass", Credits: 20, PriceCents: 12000,
		ValidityDays: 90, Region: "downtown", Status: domain.PackageStatusActive,
	}

	t.Run("charges and opens a ledger entry", func(t *testing.T) {
		f := newPackageFixture(now)
		f.memberRepo.On("GetByID", ctx, int32(1)).Return(testMember(1), nil)
		f.packageRepo.On("GetByID", ctx, int32(5)).Return(pkg, nil)
		f.gateway.On("Charge", ctx, int32(1), "pm_123", int64(12000), "10-Class Pass (20 credits)").
			Return("chg_abc", nil)
		f.ledgerRepo.On("Create", ctx, mock.AnythingOfType("*domain.LedgerEntry")).Return(nil)
		f.emailSvc.On("SendPurchaseReceipt", ctx, "member@test.com", "Alex", "10-Class Pass", int32(20), now.AddDate(0, 0, 90)).Return(nil)
		f.noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		entry, err := f.svc.Purchase(ctx, 1, 5, "pm_123")
		assert.NoError(t, err)
		assert.Equal(t, int32(20), entry.RemainingCredits)
		assert.Equal(t, now, entry.PurchaseDate)
		assert.Equal(t, now.AddDate(0, 0, 90), entry.ExpiryDate)
		assert.Equal(t, domain.LedgerEntryStatusActive, entry.Status)
		assert.Equal(t, "downtown", entry.Region)
	})

	t.Run("rejects an inactive package without charging", func(t *testing.T) {
		f := newPackageFixture(now)
		retired := *pkg
		retired.Status = domain.PackageStatusInactive

		f.memberRepo.On("GetByID", ctx, int32(1)).Return(testMember(1), nil)
		f.packageRepo.On("GetByID", ctx, int32(5)).Return(&retired, nil)

		entry, err := f.svc.Purchase(ctx, 1, 5, "pm_123")
		assert.Nil(t, entry)
		assert.True(t, domain.IsInvalidState(err))
		f.gateway.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("does not open an entry when the charge fails", func(t *testing.T) {
		f := newPackageFixture(now)
		f.memberRepo.On("GetByID", ctx, int32(1)).Return(testMember(1), nil)
		f.packageRepo.On("GetByID", ctx, int32(5)).Return(pkg, nil)
		f.gateway.On("Charge", ctx, int32(1), "pm_123", int64(12000), mock.Anything).
			Return("", errors.New("card declined"))

		entry, err := f.svc.Purchase(ctx, 1, 5, "pm_123")
		assert.Nil(t, entry)
		assert.Error(t, err)
		f.ledgerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestPackageService_ListMemberPackages(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	f := newPackageFixture(now)

	entries := []domain.LedgerEntry{
		{ID: 1, Status: domain.LedgerEntryStatusActive, ExpiryDate: now.AddDate(0, 0, 30)},
		{ID: 2, Status: domain.LedgerEntryStatusActive, ExpiryDate: now.Add(-time.Hour)},
		{ID: 3, Status: domain.LedgerEntryStatusUsedUp, ExpiryDate: now.AddDate(0, 0, 10)},
	}
	f.ledgerRepo.On("ListByMember", ctx, int32(1)).Return(entries, nil)

	got, err := f.svc.ListMemberPackages(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, domain.LedgerEntryStatusActive, got[0].Status)
	// Past-due entries read as EXPIRED even before the sweeper runs.
	assert.Equal(t, domain.LedgerEntryStatusExpired, got[1].Status)
	assert.Equal(t, domain.LedgerEntryStatusUsedUp, got[2].Status)
}

func TestPackageService_ExpireLapsedEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 2, 0, 0, 0, time.UTC)

	t.Run("marks entries expired and cascades into bookings", func(t *testing.T) {
		f := newPackageFixture(now)
		lapsed := []domain.LedgerEntry{
			{ID: 1, MemberID: 10, RemainingCredits: 3, ExpiryDate: now.Add(-time.Hour)},
			{ID: 2, MemberID: 11, RemainingCredits: 0, ExpiryDate: now.Add(-2 * time.Hour)},
		}

		f.ledgerRepo.On("ListExpiredActive", ctx, now).Return(lapsed, nil)
		f.ledgerRepo.On("MarkExpired", ctx, int32(1), now).Return(nil)
		f.ledgerRepo.On("MarkExpired", ctx, int32(2), now).Return(nil)
		f.bookingSvc.On("CancelBookingsForExpiredEntry", ctx, mock.AnythingOfType("*domain.LedgerEntry")).Return(nil)

		count, err := f.svc.ExpireLapsedEntries(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 2, count)
		f.bookingSvc.AssertNumberOfCalls(t, "CancelBookingsForExpiredEntry", 2)
	})

	t.Run("keeps sweeping past a failing entry", func(t *testing.T) {
		f := newPackageFixture(now)
		lapsed := []domain.LedgerEntry{
			{ID: 1, MemberID: 10, ExpiryDate: now.Add(-time.Hour)},
			{ID: 2, MemberID: 11, ExpiryDate: now.Add(-2 * time.Hour)},
		}

		f.ledgerRepo.On("ListExpiredActive", ctx, now).Return(lapsed, nil)
		f.ledgerRepo.On("MarkExpired", ctx, int32(1), now).Return(errors.New("deadlock"))
		f.ledgerRepo.On("MarkExpired", ctx, int32(2), now).Return(nil)
		f.bookingSvc.On("CancelBookingsForExpiredEntry", ctx, mock.AnythingOfType("*domain.LedgerEntry")).Return(nil)

		count, err := f.svc.ExpireLapsedEntries(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, count)
		f.bookingSvc.AssertNumberOfCalls(t, "CancelBookingsForExpiredEntry", 1)
	})
}
