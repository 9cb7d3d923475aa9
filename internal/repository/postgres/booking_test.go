package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"classbook-backend/internal/domain"
)

func bookingRows(bookings ...domain.Booking) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "member_id", "schedule_id", "ledger_entry_id", "status", "booking_time",
		"cancellation_time", "check_in_time", "waitlist_position", "created_at", "updated_at",
	})
	for _, b := range bookings {
		rows.AddRow(b.ID, b.MemberID, b.ScheduleID, b.LedgerEntryID, b.Status, b.BookingTime,
			b.CancellationTime, b.CheckInTime, b.WaitlistPosition, b.CreatedAt, b.UpdatedAt)
	}
	return rows
}

func TestBookingRepository_FirstWaitlisted(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("returns the lowest position", func(t *testing.T) {
		pos := int32(1)
		head := domain.Booking{
			ID: 40, MemberID: 2, ScheduleID: 20, LedgerEntryID: 8,
			Status: domain.BookingStatusWaitlisted, BookingTime: now,
			WaitlistPosition: &pos, CreatedAt: now, UpdatedAt: now,
		}

		mock.ExpectQuery("SELECT (.+) FROM bookings").
			WithArgs(int32(20)).
			WillReturnRows(bookingRows(head))

		got, err := repo.FirstWaitlisted(ctx, 20)
		assert.NoError(t, err)
		assert.Equal(t, int32(40), got.ID)
		assert.Equal(t, int32(1), *got.WaitlistPosition)
	})

	t.Run("empty waitlist returns nil", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM bookings").
			WithArgs(int32(20)).
			WillReturnRows(bookingRows())

		got, err := repo.FirstWaitlisted(ctx, 20)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestBookingRepository_CompactWaitlist(t *testing.T) {
	t.Run("decrements positions above the removed one", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()

		repo := NewBookingRepository(db)
		ctx := context.Background()

		mock.ExpectExec("UPDATE bookings SET waitlist_position = waitlist_position - 1").
			WithArgs(int32(20), int32(2)).
			WillReturnResult(sqlmock.NewResult(0, 3))

		assert.NoError(t, repo.CompactWaitlist(ctx, 20, 2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("does nothing when the removed booking held no position", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()

		repo := NewBookingRepository(db)
		ctx := context.Background()

		assert.NoError(t, repo.CompactWaitlist(ctx, 20, 0))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_MaxWaitlistPosition(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	ctx := context.Background()

	t.Run("existing waitlist", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COALESCE\(MAX\(waitlist_position\), 0\) FROM bookings`).
			WithArgs(int32(20)).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(4))

		max, err := repo.MaxWaitlistPosition(ctx, 20)
		assert.NoError(t, err)
		assert.Equal(t, int32(4), max)
	})

	t.Run("no waitlist yet", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COALESCE\(MAX\(waitlist_position\), 0\) FROM bookings`).
			WithArgs(int32(20)).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

		max, err := repo.MaxWaitlistPosition(ctx, 20)
		assert.NoError(t, err)
		assert.Equal(t, int32(0), max)
	})
}

func TestBookingRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
		WithArgs(int32(404)).
		WillReturnRows(bookingRows())

	got, err := repo.GetByID(context.Background(), 404)
	assert.Nil(t, got)
	assert.True(t, domain.IsNotFound(err))
}
