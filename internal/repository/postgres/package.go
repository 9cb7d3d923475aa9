package postgres

import (
	"context"
	"database/sql"
	"errors"

	"classbook-backend/internal/domain"
	"classbook-backend/internal/repository"
)

type packageRepository struct {
	db *sql.DB
}

func NewPackageRepository(db *sql.DB) repository.PackageRepository {
	return &packageRepository{db: db}
}

const packageColumns = `id, name, COALESCE(description, ''), credits, price_cents, validity_days, region, status, created_at, updated_at`

func (r *packageRepository) GetByID(ctx context.Context, id int32) (*domain.CreditPackage, error) {
	p := &domain.CreditPackage{}
	query := `SELECT ` + packageColumns + ` FROM credit_packages WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Credits, &p.PriceCents, &p.ValidityDays, &p.Region, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "package", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *packageRepository) ListByRegion(ctx context.Context, region string, status domain.PackageStatus) ([]domain.CreditPackage, error) {
	query := `SELECT ` + packageColumns + ` FROM credit_packages WHERE region = $1 AND status = $2 ORDER BY price_cents ASC`
	rows, err := r.db.QueryContext(ctx, query, region, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var packages []domain.CreditPackage
	for rows.Next() {
		var p domain.CreditPackage
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Credits, &p.PriceCents, &p.ValidityDays, &p.Region, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		packages = append(packages, p)
	}
	return packages, rows.Err()
}
