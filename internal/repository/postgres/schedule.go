package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"classbook-backend/internal/domain"
	"classbook-backend/internal/repository"
)

type scheduleRepository struct {
	db *sql.DB
}

func NewScheduleRepository(db *sql.DB) repository.ScheduleRepository {
	return &scheduleRepository{db: db}
}

const scheduleColumns = `id, name, COALESCE(description, ''), instructor, start_time, end_time, max_capacity, required_credits, region, COALESCE(location, ''), COALESCE(class_type, ''), status, created_at, updated_at`

func scanSchedule(row interface{ Scan(...any) error }) (*domain.ClassSchedule, error) {
	s := &domain.ClassSchedule{}
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Instructor, &s.StartTime, &s.EndTime,
		&s.MaxCapacity, &s.RequiredCredits, &s.Region, &s.Location, &s.ClassType, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, id int32) (*domain.ClassSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM class_schedules WHERE id = $1`
	s, err := scanSchedule(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "class schedule", ID: id}
	}
	return s, err
}

func (r *scheduleRepository) ListAvailable(ctx context.Context, region string) ([]domain.ScheduleAvailability, error) {
	query := `SELECT s.id, s.name, COALESCE(s.description, ''), s.instructor, s.start_time, s.end_time,
	                 s.max_capacity, s.required_credits, s.region, COALESCE(s.location, ''), COALESCE(s.class_type, ''),
	                 s.status, s.created_at, s.updated_at,
	                 (SELECT count(*) FROM bookings b WHERE b.schedule_id = s.id AND b.status = 'BOOKED') AS booked_count,
	                 (SELECT count(*) FROM bookings b WHERE b.schedule_id = s.id AND b.status = 'WAITLISTED') AS waitlist_count
	          FROM class_schedules s
	          WHERE s.region = $1 AND s.status = 'SCHEDULED'
	          ORDER BY s.start_time ASC`
	rows, err := r.db.QueryContext(ctx, query, region)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAvailabilityRows(rows)
}

func (r *scheduleRepository) ListEndedScheduled(ctx context.Context, now time.Time) ([]domain.ClassSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM class_schedules WHERE status = 'SCHEDULED' AND end_time < $1`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []domain.ClassSchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, *s)
	}
	return schedules, rows.Err()
}

func (r *scheduleRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]domain.ClassSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM class_schedules
	          WHERE status = 'SCHEDULED' AND start_time >= $1 AND start_time <= $2
	          ORDER BY start_time ASC`
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []domain.ClassSchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, *s)
	}
	return schedules, rows.Err()
}

func (r *scheduleRepository) ListWithWaitlistOver(ctx context.Context, threshold int32) ([]domain.ScheduleAvailability, error) {
	query := `SELECT s.id, s.name, COALESCE(s.description, ''), s.instructor, s.start_time, s.end_time,
	                 s.max_capacity, s.required_credits, s.region, COALESCE(s.location, ''), COALESCE(s.class_type, ''),
	                 s.status, s.created_at, s.updated_at,
	                 (SELECT count(*) FROM bookings b WHERE b.schedule_id = s.id AND b.status = 'BOOKED') AS booked_count,
	                 w.waitlist_count
	          FROM class_schedules s
	          JOIN (SELECT schedule_id, count(*) AS waitlist_count FROM bookings
	                WHERE status = 'WAITLISTED' GROUP BY schedule_id) w ON w.schedule_id = s.id
	          WHERE s.status = 'SCHEDULED' AND w.waitlist_count > $1`
	rows, err := r.db.QueryContext(ctx, query, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAvailabilityRows(rows)
}

func (r *scheduleRepository) UpdateStatus(ctx context.Context, id int32, status domain.ClassStatus) error {
	query := `UPDATE class_schedules SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, status, id)
	return err
}

func scanAvailabilityRows(rows *sql.Rows) ([]domain.ScheduleAvailability, error) {
	var results []domain.ScheduleAvailability
	for rows.Next() {
		var a domain.ScheduleAvailability
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Instructor, &a.StartTime, &a.EndTime,
			&a.MaxCapacity, &a.RequiredCredits, &a.Region, &a.Location, &a.ClassType,
			&a.Status, &a.CreatedAt, &a.UpdatedAt, &a.BookedCount, &a.WaitlistCount); err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}
