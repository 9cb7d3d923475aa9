package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"classbook-backend/internal/domain"
	"classbook-backend/internal/repository"
)

type ledgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

const ledgerColumns = `id, member_id, package_id, region, remaining_credits, purchase_date, expiry_date, paid_cents, status, created_at, updated_at`

func scanLedgerEntry(row interface{ Scan(...any) error }) (*domain.LedgerEntry, error) {
	e := &domain.LedgerEntry{}
	err := row.Scan(&e.ID, &e.MemberID, &e.PackageID, &e.Region, &e.RemainingCredits,
		&e.PurchaseDate, &e.ExpiryDate, &e.PaidCents, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *ledgerRepository) Create(ctx context.Context, e *domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (member_id, package_id, region, remaining_credits, purchase_date, expiry_date, paid_cents, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, e.MemberID, e.PackageID, e.Region, e.RemainingCredits,
		e.PurchaseDate, e.ExpiryDate, e.PaidCents, e.Status, now, now).Scan(&e.ID)
}

func (r *ledgerRepository) GetByID(ctx context.Context, id int32) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE id = $1`
	e, err := scanLedgerEntry(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "ledger entry", ID: id}
	}
	return e, err
}

func (r *ledgerRepository) ListByMember(ctx context.Context, memberID int32) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE member_id = $1 ORDER BY purchase_date DESC`
	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Earliest expiry first so credits that would otherwise lapse get spent first.
func (r *ledgerRepository) FindUsableEntry(ctx context.Context, memberID int32, region string, requiredCredits int32, now time.Time) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries
	          WHERE member_id = $1 AND region = $2 AND status = 'ACTIVE'
	            AND expiry_date > $3 AND remaining_credits >= $4
	          ORDER BY expiry_date ASC LIMIT 1`
	e, err := scanLedgerEntry(r.db.QueryRowContext(ctx, query, memberID, region, now, requiredCredits))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// The balance guard lives in the WHERE clause so a concurrent debit can never
// drive remaining_credits negative.
func (r *ledgerRepository) Debit(ctx context.Context, entryID int32, amount int32) error {
	query := `UPDATE ledger_entries
	          SET remaining_credits = remaining_credits - $2,
	              status = CASE WHEN remaining_credits - $2 <= 0 THEN 'USED_UP' ELSE status END,
	              updated_at = NOW()
	          WHERE id = $1 AND remaining_credits >= $2`
	res, err := r.db.ExecContext(ctx, query, entryID, amount)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		entry, err := r.GetByID(ctx, entryID)
		if err != nil {
			return err
		}
		return &domain.InsufficientCreditsError{EntryID: entryID, Required: amount, Available: entry.RemainingCredits}
	}
	return nil
}

func (r *ledgerRepository) Credit(ctx context.Context, entryID int32, amount int32) error {
	query := `UPDATE ledger_entries
	          SET remaining_credits = remaining_credits + $2,
	              status = CASE WHEN status = 'USED_UP' AND expiry_date > $3 THEN 'ACTIVE' ELSE status END,
	              updated_at = NOW()
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, entryID, amount, time.Now())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.NotFoundError{Resource: "ledger entry", ID: entryID}
	}
	return nil
}

func (r *ledgerRepository) ListExpiredActive(ctx context.Context, now time.Time) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE status = 'ACTIVE' AND expiry_date < $1`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (r *ledgerRepository) MarkExpired(ctx context.Context, entryID int32, now time.Time) error {
	query := `UPDATE ledger_entries SET status = 'EXPIRED', updated_at = NOW()
	          WHERE id = $1 AND status = 'ACTIVE' AND expiry_date <= $2`
	_, err := r.db.ExecContext(ctx, query, entryID, now)
	return err
}
