package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"classbook-backend/internal/config"
	"classbook-backend/internal/domain"
	"classbook-backend/internal/lock"
	"classbook-backend/internal/logger"
	"classbook-backend/internal/repository"
)

type bookingService struct {
	bookingRepo  repository.BookingRepository
	scheduleRepo repository.ScheduleRepository
	ledgerRepo   repository.LedgerRepository
	memberRepo   repository.MemberRepository
	noteRepo     repository.NotificationRepository
	emailSvc     EmailService
	locks        lock.Locker
	cfg          config.BookingConfig
	now          func() time.Time
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	scheduleRepo repository.ScheduleRepository,
	ledgerRepo repository.LedgerRepository,
	memberRepo repository.MemberRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	locks lock.Locker,
	cfg config.BookingConfig,
) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		ledgerRepo:   ledgerRepo,
		memberRepo:   memberRepo,
		noteRepo:     noteRepo,
		emailSvc:     emailSvc,
		locks:        locks,
		cfg:          cfg,
		now:          time.Now,
	}
}

func scheduleLockKey(scheduleID int32) string {
	return fmt.Sprintf("class-booking:%d", scheduleID)
}

// Reserve books the member into the class, or waitlists them when the class
// is full. The seat count is re-read under the per-schedule lock and the
// credit debit itself is guarded, so two concurrent requests can never
// oversell a seat or overspend an entry.
func (s *bookingService) Reserve(ctx context.Context, memberID, scheduleID int32) (*domain.Booking, error) {
	now := s.now()

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	schedule, err := s.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	if schedule.Status != domain.ClassStatusScheduled {
		return nil, &domain.InvalidStateError{
			Reason: fmt.Sprintf("class %s is %s and not open for booking", schedule.Name, schedule.Status),
		}
	}

	cutoff := schedule.StartTime.Add(-time.Duration(s.cfg.PreBookingCutoffMinutes) * time.Minute)
	if !now.Before(cutoff) {
		return nil, &domain.InvalidStateError{
			Reason: fmt.Sprintf("booking for %s closed %d minutes before class start", schedule.Name, s.cfg.PreBookingCutoffMinutes),
		}
	}

	active, err := s.bookingRepo.ListActiveByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	for i := range active {
		other := &domain.ClassSchedule{StartTime: active[i].StartTime, EndTime: active[i].EndTime}
		if schedule.Overlaps(other) {
			return nil, &domain.ConflictingBookingError{
				BookingID: active[i].ID,
				ClassName: active[i].ClassName,
				StartTime: active[i].StartTime,
				EndTime:   active[i].EndTime,
			}
		}
	}

	entry, err := s.ledgerRepo.FindUsableEntry(ctx, memberID, schedule.Region, schedule.RequiredCredits, now)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, &domain.NoSuitablePackageError{Region: schedule.Region, RequiredCredits: schedule.RequiredCredits}
	}

	key := scheduleLockKey(scheduleID)
	token, ok := s.locks.Acquire(key, time.Duration(s.cfg.LockTTLSeconds)*time.Second)
	if !ok {
		return nil, domain.ErrLockUnavailable
	}

	booking, err := s.admit(ctx, schedule, entry, memberID, now)
	// The admission is committed; release before the notification I/O so a
	// slow email never serializes other Reserve calls on this class.
	s.locks.Release(key, token)
	if err != nil {
		return nil, err
	}

	if booking.Status == domain.BookingStatusBooked {
		s.notifyBookingConfirmed(ctx, member, schedule)
	} else {
		s.notifyWaitlisted(ctx, member, schedule, *booking.WaitlistPosition)
	}
	return booking, nil
}

// admit makes the seat-or-waitlist decision and commits the booking row.
// Callers must hold the schedule lock: the seat count is re-read here because
// the pre-lock reads may be stale.
func (s *bookingService) admit(ctx context.Context, schedule *domain.ClassSchedule, entry *domain.LedgerEntry, memberID int32, now time.Time) (*domain.Booking, error) {
	bookedCount, err := s.bookingRepo.CountByScheduleAndStatus(ctx, schedule.ID, domain.BookingStatusBooked)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		MemberID:      memberID,
		ScheduleID:    schedule.ID,
		LedgerEntryID: entry.ID,
		BookingTime:   now,
	}

	if bookedCount < schedule.MaxCapacity {
		if err := s.ledgerRepo.Debit(ctx, entry.ID, schedule.RequiredCredits); err != nil {
			var insufficient *domain.InsufficientCreditsError
			if errors.As(err, &insufficient) {
				logger.Error("usable ledger entry rejected the debit",
					"entry_id", entry.ID, "required", insufficient.Required, "available", insufficient.Available)
				return nil, &domain.NoSuitablePackageError{Region: schedule.Region, RequiredCredits: schedule.RequiredCredits}
			}
			return nil, err
		}
		booking.Status = domain.BookingStatusBooked
		if err := s.bookingRepo.Create(ctx, booking); err != nil {
			if creditErr := s.ledgerRepo.Credit(ctx, entry.ID, schedule.RequiredCredits); creditErr != nil {
				logger.Error("failed to refund debit after booking create failure",
					"entry_id", entry.ID, "error", creditErr)
			}
			return nil, err
		}
		return booking, nil
	}

	maxPos, err := s.bookingRepo.MaxWaitlistPosition(ctx, schedule.ID)
	if err != nil {
		return nil, err
	}
	position := maxPos + 1
	booking.Status = domain.BookingStatusWaitlisted
	booking.WaitlistPosition = &position
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// Cancel releases the member's booking. A confirmed seat cancelled before the
// refund cutoff gets its credits back; a waitlisted spot just leaves the
// queue. Either way, anyone behind moves up.
func (s *bookingService) Cancel(ctx context.Context, memberID, bookingID int32) (*domain.Booking, error) {
	now := s.now()

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.MemberID != memberID {
		return nil, &domain.NotFoundError{Resource: "booking", ID: bookingID}
	}
	switch booking.Status {
	case domain.BookingStatusCancelled:
		return nil, &domain.InvalidStateError{Reason: "booking is already cancelled"}
	case domain.BookingStatusCheckedIn:
		return nil, &domain.InvalidStateError{Reason: "cannot cancel a booking after check-in"}
	}

	schedule, err := s.scheduleRepo.GetByID(ctx, booking.ScheduleID)
	if err != nil {
		return nil, err
	}

	priorStatus := booking.Status
	var removedPosition int32
	if booking.WaitlistPosition != nil {
		removedPosition = *booking.WaitlistPosition
	}

	booking.Status = domain.BookingStatusCancelled
	booking.CancellationTime = &now
	booking.WaitlistPosition = nil
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	refunded := false
	switch priorStatus {
	case domain.BookingStatusBooked:
		refundCutoff := schedule.StartTime.Add(-time.Duration(s.cfg.CancellationCutoffHours) * time.Hour)
		if now.Before(refundCutoff) {
			if err := s.ledgerRepo.Credit(ctx, booking.LedgerEntryID, schedule.RequiredCredits); err != nil {
				return nil, err
			}
			refunded = true
		} else {
			logger.Info("late cancellation, credits forfeited",
				"booking_id", booking.ID, "schedule_id", schedule.ID, "cutoff_hours", s.cfg.CancellationCutoffHours)
		}
		s.promoteFromWaitlist(ctx, schedule, now)
	case domain.BookingStatusWaitlisted:
		if err := s.bookingRepo.CompactWaitlist(ctx, schedule.ID, removedPosition); err != nil {
			return nil, err
		}
	}

	s.notifyCancelled(ctx, booking.MemberID, schedule, refunded)
	return booking, nil
}

// CheckIn marks attendance. It is only valid for a confirmed booking inside
// the window around the class start time.
func (s *bookingService) CheckIn(ctx context.Context, memberID, bookingID int32) (*domain.Booking, error) {
	now := s.now()

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.MemberID != memberID {
		return nil, &domain.NotFoundError{Resource: "booking", ID: bookingID}
	}
	if booking.Status != domain.BookingStatusBooked {
		return nil, &domain.InvalidStateError{
			Reason: fmt.Sprintf("only confirmed bookings can check in, booking is %s", booking.Status),
		}
	}
	if booking.CheckInTime != nil {
		return nil, &domain.InvalidStateError{Reason: "booking is already checked in"}
	}

	schedule, err := s.scheduleRepo.GetByID(ctx, booking.ScheduleID)
	if err != nil {
		return nil, err
	}

	opensAt := schedule.StartTime.Add(-time.Duration(s.cfg.CheckInBeforeMinutes) * time.Minute)
	closesAt := schedule.StartTime.Add(time.Duration(s.cfg.CheckInAfterMinutes) * time.Minute)
	if now.Before(opensAt) {
		return nil, &domain.InvalidStateError{
			Reason: fmt.Sprintf("check-in opens %d minutes before class start", s.cfg.CheckInBeforeMinutes),
		}
	}
	if now.After(closesAt) {
		return nil, &domain.InvalidStateError{
			Reason: fmt.Sprintf("check-in closed %d minutes after class start", s.cfg.CheckInAfterMinutes),
		}
	}

	booking.Status = domain.BookingStatusCheckedIn
	booking.CheckInTime = &now
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context, memberID int32) ([]domain.BookingView, error) {
	return s.bookingRepo.ListByMember(ctx, memberID)
}

func (s *bookingService) ListClasses(ctx context.Context, region string) ([]domain.ScheduleAvailability, error) {
	return s.scheduleRepo.ListAvailable(ctx, region)
}

// promoteFromWaitlist fills one freed seat. It walks the waitlist in position
// order, cancelling entries whose backing package has lapsed, until someone
// can pay for the seat or the list is exhausted. Promotion failures are
// logged, never propagated: the cancellation that freed the seat has already
// committed.
func (s *bookingService) promoteFromWaitlist(ctx context.Context, schedule *domain.ClassSchedule, now time.Time) {
	for {
		next, err := s.bookingRepo.FirstWaitlisted(ctx, schedule.ID)
		if err != nil {
			logger.Error("failed to read waitlist head", "schedule_id", schedule.ID, "error", err)
			return
		}
		if next == nil {
			return
		}

		var position int32
		if next.WaitlistPosition != nil {
			position = *next.WaitlistPosition
		}

		entry, err := s.ledgerRepo.GetByID(ctx, next.LedgerEntryID)
		if err != nil {
			logger.Error("failed to load ledger entry for promotion",
				"booking_id", next.ID, "entry_id", next.LedgerEntryID, "error", err)
			return
		}

		if entry.Usable(now, schedule.RequiredCredits) {
			err := s.ledgerRepo.Debit(ctx, entry.ID, schedule.RequiredCredits)
			if err == nil {
				next.Status = domain.BookingStatusBooked
				next.WaitlistPosition = nil
				if err := s.bookingRepo.Update(ctx, next); err != nil {
					logger.Error("failed to promote waitlisted booking", "booking_id", next.ID, "error", err)
					if creditErr := s.ledgerRepo.Credit(ctx, entry.ID, schedule.RequiredCredits); creditErr != nil {
						logger.Error("failed to refund promotion debit", "entry_id", entry.ID, "error", creditErr)
					}
					return
				}
				if err := s.bookingRepo.CompactWaitlist(ctx, schedule.ID, position); err != nil {
					logger.Error("failed to compact waitlist after promotion", "schedule_id", schedule.ID, "error", err)
				}
				s.notifyPromoted(ctx, next.MemberID, schedule)
				return
			}
			var insufficient *domain.InsufficientCreditsError
			if !errors.As(err, &insufficient) {
				logger.Error("failed to debit ledger entry during promotion", "entry_id", entry.ID, "error", err)
				return
			}
			logger.Error("ledger entry passed usability check but rejected the debit",
				"entry_id", entry.ID, "required", insufficient.Required, "available", insufficient.Available)
		}

		// Cannot pay for the seat anymore. Cancel and try the next in line.
		next.Status = domain.BookingStatusCancelled
		next.CancellationTime = &now
		next.WaitlistPosition = nil
		if err := s.bookingRepo.Update(ctx, next); err != nil {
			logger.Error("failed to cancel lapsed waitlist booking", "booking_id", next.ID, "error", err)
			return
		}
		if err := s.bookingRepo.CompactWaitlist(ctx, schedule.ID, position); err != nil {
			logger.Error("failed to compact waitlist after lapse", "schedule_id", schedule.ID, "error", err)
			return
		}
		s.notifyCancelled(ctx, next.MemberID, schedule, false)
	}
}

// CompleteFinishedClasses is the completion sweep: still-waitlisted members
// are released, confirmed members who never checked in become no-shows, and
// the class closes. Neither transition refunds credits. A failure on one
// class is logged and the sweep moves on.
func (s *bookingService) CompleteFinishedClasses(ctx context.Context) (int, error) {
	now := s.now()

	schedules, err := s.scheduleRepo.ListEndedScheduled(ctx, now)
	if err != nil {
		return 0, err
	}

	processed := 0
	for i := range schedules {
		schedule := &schedules[i]
		if err := s.finalizeClass(ctx, schedule, now); err != nil {
			logger.Error("failed to finalize class", "schedule_id", schedule.ID, "error", err)
			continue
		}
		processed++
	}
	return processed, nil
}

func (s *bookingService) finalizeClass(ctx context.Context, schedule *domain.ClassSchedule, now time.Time) error {
	waitlisted, err := s.bookingRepo.ListByScheduleAndStatus(ctx, schedule.ID, domain.BookingStatusWaitlisted)
	if err != nil {
		return err
	}
	for i := range waitlisted {
		b := waitlisted[i]
		b.Status = domain.BookingStatusCancelled
		b.CancellationTime = &now
		b.WaitlistPosition = nil
		if err := s.bookingRepo.Update(ctx, &b); err != nil {
			logger.Error("failed to release waitlisted booking", "booking_id", b.ID, "error", err)
		}
	}

	booked, err := s.bookingRepo.ListByScheduleAndStatus(ctx, schedule.ID, domain.BookingStatusBooked)
	if err != nil {
		return err
	}
	for i := range booked {
		b := booked[i]
		b.Status = domain.BookingStatusNoShow
		if err := s.bookingRepo.Update(ctx, &b); err != nil {
			logger.Error("failed to mark booking as no-show", "booking_id", b.ID, "error", err)
		}
	}

	if err := s.scheduleRepo.UpdateStatus(ctx, schedule.ID, domain.ClassStatusCompleted); err != nil {
		return err
	}
	logger.Info("class finalized",
		"schedule_id", schedule.ID, "released_waitlist", len(waitlisted), "no_shows", len(booked))
	return nil
}

// CancelBookingsForExpiredEntry handles the booking side of package expiry.
// Future bookings paid from the lapsed entry are cancelled without refund,
// and each freed confirmed seat is offered to that schedule's waitlist.
func (s *bookingService) CancelBookingsForExpiredEntry(ctx context.Context, entry *domain.LedgerEntry) error {
	now := s.now()

	bookings, err := s.bookingRepo.ListFutureByLedgerEntry(ctx, entry.ID, now)
	if err != nil {
		return err
	}

	for i := range bookings {
		b := bookings[i]
		priorStatus := b.Status
		var removedPosition int32
		if b.WaitlistPosition != nil {
			removedPosition = *b.WaitlistPosition
		}

		b.Status = domain.BookingStatusCancelled
		b.CancellationTime = &now
		b.WaitlistPosition = nil
		if err := s.bookingRepo.Update(ctx, &b); err != nil {
			logger.Error("failed to cancel booking for expired entry",
				"booking_id", b.ID, "entry_id", entry.ID, "error", err)
			continue
		}

		schedule, err := s.scheduleRepo.GetByID(ctx, b.ScheduleID)
		if err != nil {
			logger.Error("failed to load schedule for expired-entry cancellation",
				"booking_id", b.ID, "schedule_id", b.ScheduleID, "error", err)
			continue
		}

		switch priorStatus {
		case domain.BookingStatusBooked:
			s.promoteFromWaitlist(ctx, schedule, now)
		case domain.BookingStatusWaitlisted:
			if err := s.bookingRepo.CompactWaitlist(ctx, schedule.ID, removedPosition); err != nil {
				logger.Error("failed to compact waitlist after expiry cancellation",
					"schedule_id", schedule.ID, "error", err)
			}
		}
		s.notifyCancelled(ctx, b.MemberID, schedule, false)
	}
	return nil
}

func (s *bookingService) notifyBookingConfirmed(ctx context.Context, member *domain.Member, schedule *domain.ClassSchedule) {
	_ = s.emailSvc.SendBookingConfirmation(ctx, member.Email, member.Name, schedule.Name, schedule.StartTime)
	s.createNotification(ctx, member.ID, "Booking Confirmed",
		fmt.Sprintf("You are booked into %s on %s", schedule.Name, schedule.StartTime.Format("Mon Jan 2 15:04")),
		"BOOKING_CONFIRMED", schedule.ID)
}

func (s *bookingService) notifyWaitlisted(ctx context.Context, member *domain.Member, schedule *domain.ClassSchedule, position int32) {
	_ = s.emailSvc.SendWaitlistNotification(ctx, member.Email, member.Name, schedule.Name, position)
	s.createNotification(ctx, member.ID, "Added to Waitlist",
		fmt.Sprintf("%s is full, you are number %d on the waitlist", schedule.Name, position),
		"WAITLISTED", schedule.ID)
}

func (s *bookingService) notifyPromoted(ctx context.Context, memberID int32, schedule *domain.ClassSchedule) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		logger.Error("failed to load member for promotion notification", "member_id", memberID, "error", err)
		return
	}
	_ = s.emailSvc.SendPromotionNotification(ctx, member.Email, member.Name, schedule.Name, schedule.StartTime)
	s.createNotification(ctx, member.ID, "Promoted from Waitlist",
		fmt.Sprintf("A spot opened up, you are now booked into %s on %s", schedule.Name, schedule.StartTime.Format("Mon Jan 2 15:04")),
		"PROMOTED", schedule.ID)
}

func (s *bookingService) notifyCancelled(ctx context.Context, memberID int32, schedule *domain.ClassSchedule, refunded bool) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		logger.Error("failed to load member for cancellation notification", "member_id", memberID, "error", err)
		return
	}
	_ = s.emailSvc.SendCancellationNotification(ctx, member.Email, member.Name, schedule.Name, refunded)
	msg := fmt.Sprintf("Your booking for %s has been cancelled", schedule.Name)
	if refunded {
		msg += " and your credits refunded"
	}
	s.createNotification(ctx, member.ID, "Booking Cancelled", msg, "CANCELLED", schedule.ID)
}

func (s *bookingService) createNotification(ctx context.Context, memberID int32, title, message, noteType string, scheduleID int32) {
	note := &domain.Notification{
		MemberID: memberID,
		Title:    title,
		Message:  message,
		Attributes: map[string]string{
			"type":        noteType,
			"schedule_id": fmt.Sprintf("%d", scheduleID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("failed to create notification", "member_id", memberID, "type", noteType, "error", err)
	}
}
