package service

import (
	"context"
	"fmt"
	"time"

	"classbook-backend/internal/domain"
	"classbook-backend/internal/logger"
	"classbook-backend/internal/repository"
)

type packageService struct {
	packageRepo repository.PackageRepository
	ledgerRepo  repository.LedgerRepository
	memberRepo  repository.MemberRepository
	noteRepo    repository.NotificationRepository
	bookingSvc  BookingService
	emailSvc    EmailService
	gateway     PaymentGateway
	now         func() time.Time
}

func NewPackageService(
	packageRepo repository.PackageRepository,
	ledgerRepo repository.LedgerRepository,
	memberRepo repository.MemberRepository,
	noteRepo repository.NotificationRepository,
	bookingSvc BookingService,
	emailSvc EmailService,
	gateway PaymentGateway,
) PackageService {
	return &packageService{
		packageRepo: packageRepo,
		ledgerRepo:  ledgerRepo,
		memberRepo:  memberRepo,
		noteRepo:    noteRepo,
		bookingSvc:  bookingSvc,
		emailSvc:    emailSvc,
		gateway:     gateway,
		now:         time.Now,
	}
}

func (s *packageService) ListPackages(ctx context.Context, region string) ([]domain.CreditPackage, error) {
	return s.packageRepo.ListByRegion(ctx, region, domain.PackageStatusActive)
}

// ListMemberPackages returns the member's ledger entries with past-due ACTIVE
// entries shown as EXPIRED, so the view is accurate between sweeper runs.
func (s *packageService) ListMemberPackages(ctx context.Context, memberID int32) ([]domain.LedgerEntry, error) {
	entries, err := s.ledgerRepo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range entries {
		if entries[i].Status == domain.LedgerEntryStatusActive && entries[i].IsExpired(now) {
			entries[i].Status = domain.LedgerEntryStatusExpired
		}
	}
	return entries, nil
}

// Purchase charges the member and opens a fresh ledger entry. The validity
// clock starts at purchase time, not first use.
func (s *packageService) Purchase(ctx context.Context, memberID, packageID int32, paymentMethodID string) (*domain.LedgerEntry, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	pkg, err := s.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg.Status != domain.PackageStatusActive {
		return nil, &domain.InvalidStateError{Reason: fmt.Sprintf("package %s is no longer available", pkg.Name)}
	}

	description := fmt.Sprintf("%s (%d credits)", pkg.Name, pkg.Credits)
	chargeRef, err := s.gateway.Charge(ctx, memberID, paymentMethodID, pkg.PriceCents, description)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entry := &domain.LedgerEntry{
		MemberID:         memberID,
		PackageID:        pkg.ID,
		Region:           pkg.Region,
		RemainingCredits: pkg.Credits,
		PurchaseDate:     now,
		ExpiryDate:       now.AddDate(0, 0, int(pkg.ValidityDays)),
		PaidCents:        pkg.PriceCents,
		Status:           domain.LedgerEntryStatusActive,
	}
	if err := s.ledgerRepo.Create(ctx, entry); err != nil {
		// The charge went through but the entry did not. Surface loudly so
		// support can reconcile against the processor reference.
		logger.Error("charge succeeded but ledger entry creation failed",
			"member_id", memberID, "package_id", packageID, "charge_ref", chargeRef, "error", err)
		return nil, err
	}

	logger.Info("package purchased",
		"member_id", memberID, "package_id", pkg.ID, "entry_id", entry.ID, "charge_ref", chargeRef)

	_ = s.emailSvc.SendPurchaseReceipt(ctx, member.Email, member.Name, pkg.Name, pkg.Credits, entry.ExpiryDate)
	note := &domain.Notification{
		MemberID: memberID,
		Title:    "Package Purchased",
		Message:  fmt.Sprintf("%s is active with %d credits, valid until %s", pkg.Name, pkg.Credits, entry.ExpiryDate.Format("Jan 2, 2006")),
		Attributes: map[string]string{
			"type":     "PACKAGE_PURCHASED",
			"entry_id": fmt.Sprintf("%d", entry.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("failed to create purchase notification", "member_id", memberID, "error", err)
	}

	return entry, nil
}

// ExpireLapsedEntries is the daily expiry sweep. Each past-due ACTIVE entry
// is marked EXPIRED and its future bookings are cancelled without refund; the
// remaining balance is forfeited. One bad entry never stops the sweep.
func (s *packageService) ExpireLapsedEntries(ctx context.Context) (int, error) {
	now := s.now()

	entries, err := s.ledgerRepo.ListExpiredActive(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range entries {
		entry := &entries[i]
		if err := s.ledgerRepo.MarkExpired(ctx, entry.ID, now); err != nil {
			logger.Error("failed to mark ledger entry expired", "entry_id", entry.ID, "error", err)
			continue
		}
		if err := s.bookingSvc.CancelBookingsForExpiredEntry(ctx, entry); err != nil {
			logger.Error("failed to cancel bookings for expired entry", "entry_id", entry.ID, "error", err)
		}
		logger.Info("ledger entry expired",
			"entry_id", entry.ID, "member_id", entry.MemberID, "forfeited_credits", entry.RemainingCredits)
		expired++
	}
	return expired, nil
}
