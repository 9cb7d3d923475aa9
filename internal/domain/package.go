package domain

import "time"

type PackageStatus string

const (
	PackageStatusActive   PackageStatus = "ACTIVE"
	PackageStatusInactive PackageStatus = "INACTIVE"
)

// CreditPackage is the purchasable template. Immutable once referenced by a
// purchase; deactivation only hides it from the catalog.
type CreditPackage struct {
	ID           int32         `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Credits      int32         `json:"credits"`
	PriceCents   int64         `json:"price_cents"`
	ValidityDays int32         `json:"validity_days"`
	Region       string        `json:"region"`
	Status       PackageStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type LedgerEntryStatus string

const (
	LedgerEntryStatusActive  LedgerEntryStatus = "ACTIVE"
	LedgerEntryStatusExpired LedgerEntryStatus = "EXPIRED"
	LedgerEntryStatusUsedUp  LedgerEntryStatus = "USED_UP"
)

// LedgerEntry is a member's purchased credit balance with its own expiry.
// Entries are never deleted; debits and refunds mutate the balance and the
// sweeper flips lapsed entries to EXPIRED.
type LedgerEntry struct {
	ID               int32             `json:"id"`
	MemberID         int32             `json:"member_id"`
	PackageID        int32             `json:"package_id"`
	Region           string            `json:"region"`
	RemainingCredits int32             `json:"remaining_credits"`
	PurchaseDate     time.Time         `json:"purchase_date"`
	ExpiryDate       time.Time         `json:"expiry_date"`
	PaidCents        int64             `json:"paid_cents"`
	Status           LedgerEntryStatus `json:"status"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

func (e *LedgerEntry) IsExpired(now time.Time) bool {
	return !now.Before(e.ExpiryDate)
}

// Usable reports whether the entry can back a new booking of the given cost.
// An EXPIRED entry is never usable regardless of its balance.
func (e *LedgerEntry) Usable(now time.Time, requiredCredits int32) bool {
	return e.Status == LedgerEntryStatusActive &&
		!e.IsExpired(now) &&
		e.RemainingCredits >= requiredCredits
}
