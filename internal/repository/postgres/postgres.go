package postgres

import (
	"database/sql"

	"classbook-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.MemberRepository
	repository.PackageRepository
	repository.LedgerRepository
	repository.ScheduleRepository
	repository.BookingRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		MemberRepository:       NewMemberRepository(db),
		PackageRepository:      NewPackageRepository(db),
		LedgerRepository:       NewLedgerRepository(db),
		ScheduleRepository:     NewScheduleRepository(db),
		BookingRepository:      NewBookingRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
