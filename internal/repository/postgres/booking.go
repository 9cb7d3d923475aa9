package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"classbook-backend/internal/domain"
	"classbook-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, member_id, schedule_id, ledger_entry_id, status, booking_time, cancellation_time, check_in_time, waitlist_position, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(&b.ID, &b.MemberID, &b.ScheduleID, &b.LedgerEntryID, &b.Status, &b.BookingTime,
		&b.CancellationTime, &b.CheckInTime, &b.WaitlistPosition, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (member_id, schedule_id, ledger_entry_id, status, booking_time, waitlist_position, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, b.MemberID, b.ScheduleID, b.LedgerEntryID, b.Status,
		b.BookingTime, b.WaitlistPosition, now, now).Scan(&b.ID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "booking", ID: id}
	}
	return b, err
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `UPDATE bookings SET status=$1, cancellation_time=$2, check_in_time=$3, waitlist_position=$4, updated_at=$5 WHERE id=$6`
	_, err := r.db.ExecContext(ctx, query, b.Status, b.CancellationTime, b.CheckInTime, b.WaitlistPosition, time.Now(), b.ID)
	return err
}

const bookingViewColumns = `b.id, b.member_id, b.schedule_id, b.ledger_entry_id, b.status, b.booking_time,
	       b.cancellation_time, b.check_in_time, b.waitlist_position, b.created_at, b.updated_at,
	       s.name, s.instructor, s.start_time, s.end_time, COALESCE(s.location, '')`

func scanBookingViews(rows *sql.Rows) ([]domain.BookingView, error) {
	var views []domain.BookingView
	for rows.Next() {
		var v domain.BookingView
		if err := rows.Scan(&v.ID, &v.MemberID, &v.ScheduleID, &v.LedgerEntryID, &v.Status, &v.BookingTime,
			&v.CancellationTime, &v.CheckInTime, &v.WaitlistPosition, &v.CreatedAt, &v.UpdatedAt,
			&v.ClassName, &v.Instructor, &v.StartTime, &v.EndTime, &v.Location); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func (r *bookingRepository) ListByMember(ctx context.Context, memberID int32) ([]domain.BookingView, error) {
	query := `SELECT ` + bookingViewColumns + `
	          FROM bookings b JOIN class_schedules s ON s.id = b.schedule_id
	          WHERE b.member_id = $1 ORDER BY b.booking_time DESC`
	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookingViews(rows)
}

func (r *bookingRepository) ListActiveByMember(ctx context.Context, memberID int32) ([]domain.BookingView, error) {
	query := `SELECT ` + bookingViewColumns + `
	          FROM bookings b JOIN class_schedules s ON s.id = b.schedule_id
	          WHERE b.member_id = $1 AND b.status IN ('BOOKED', 'CHECKED_IN')`
	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookingViews(rows)
}

func (r *bookingRepository) ListByScheduleAndStatus(ctx context.Context, scheduleID int32, status domain.BookingStatus) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE schedule_id = $1 AND status = $2 ORDER BY booking_time ASC`
	rows, err := r.db.QueryContext(ctx, query, scheduleID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) CountByScheduleAndStatus(ctx context.Context, scheduleID int32, status domain.BookingStatus) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM bookings WHERE schedule_id = $1 AND status = $2`
	err := r.db.QueryRowContext(ctx, query, scheduleID, status).Scan(&count)
	return count, err
}

func (r *bookingRepository) MaxWaitlistPosition(ctx context.Context, scheduleID int32) (int32, error) {
	var max int32
	query := `SELECT COALESCE(MAX(waitlist_position), 0) FROM bookings WHERE schedule_id = $1 AND status = 'WAITLISTED'`
	err := r.db.QueryRowContext(ctx, query, scheduleID).Scan(&max)
	return max, err
}

func (r *bookingRepository) FirstWaitlisted(ctx context.Context, scheduleID int32) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE schedule_id = $1 AND status = 'WAITLISTED'
	          ORDER BY waitlist_position ASC LIMIT 1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, scheduleID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func (r *bookingRepository) CompactWaitlist(ctx context.Context, scheduleID int32, removedPosition int32) error {
	// Positions are 1-based; a zero means the removed booking held no
	// position, so there is no gap to close.
	if removedPosition <= 0 {
		return nil
	}
	query := `UPDATE bookings SET waitlist_position = waitlist_position - 1, updated_at = NOW()
	          WHERE schedule_id = $1 AND status = 'WAITLISTED' AND waitlist_position > $2`
	_, err := r.db.ExecContext(ctx, query, scheduleID, removedPosition)
	return err
}

func (r *bookingRepository) ListFutureByLedgerEntry(ctx context.Context, entryID int32, after time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b
	          WHERE b.ledger_entry_id = $1 AND b.status IN ('BOOKED', 'WAITLISTED')
	            AND EXISTS (SELECT 1 FROM class_schedules s WHERE s.id = b.schedule_id AND s.start_time > $2)`
	rows, err := r.db.QueryContext(ctx, query, entryID, after)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) CountOldTerminal(ctx context.Context, before time.Time) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM bookings WHERE status IN ('CANCELLED', 'NO_SHOW') AND booking_time < $1`
	err := r.db.QueryRowContext(ctx, query, before).Scan(&count)
	return count, err
}
