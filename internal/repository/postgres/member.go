package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"classbook-backend/internal/domain"
	"classbook-backend/internal/repository"
)

type memberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) repository.MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, m *domain.Member) error {
	query := `INSERT INTO members (email, name, phone, password_hash, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, m.Email, m.Name, m.Phone, m.PasswordHash, now, now).Scan(&m.ID)
}

func (r *memberRepository) GetByID(ctx context.Context, id int32) (*domain.Member, error) {
	m := &domain.Member{}
	query := `SELECT id, email, name, COALESCE(phone, ''), password_hash, created_at, updated_at FROM members WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.Email, &m.Name, &m.Phone, &m.PasswordHash, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "member", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *memberRepository) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	m := &domain.Member{}
	query := `SELECT id, email, name, COALESCE(phone, ''), password_hash, created_at, updated_at FROM members WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&m.ID, &m.Email, &m.Name, &m.Phone, &m.PasswordHash, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "member", ID: 0}
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *memberRepository) Update(ctx context.Context, m *domain.Member) error {
	query := `UPDATE members SET email=$1, name=$2, phone=$3, password_hash=$4, updated_at=$5 WHERE id=$6`
	_, err := r.db.ExecContext(ctx, query, m.Email, m.Name, m.Phone, m.PasswordHash, time.Now(), m.ID)
	return err
}
