package jobs

import (
	"context"
	"time"

	"classbook-backend/internal/domain"
	"classbook-backend/internal/logger"
)

// CompleteFinishedClasses finalizes classes whose end time has passed:
// lingering waitlists are released, absent members become no-shows.
func (jr *JobRunner) CompleteFinishedClasses() {
	jr.runWithRecovery("CompleteFinishedClasses", func() {
		ctx := context.Background()

		count, err := jr.services.Booking.CompleteFinishedClasses(ctx)
		if err != nil {
			logger.Error("Failed to complete finished classes", "error", err)
			return
		}
		logger.Info("Completed finished classes", "count", count)
	})
}

// SendClassReminders emails confirmed members about upcoming classes. The job
// runs hourly and looks at a one-hour slice at the far edge of the reminder
// window, so each class is picked up exactly once.
func (jr *JobRunner) SendClassReminders() {
	jr.runWithRecovery("SendClassReminders", func() {
		ctx := context.Background()
		now := time.Now().UTC()

		window := time.Duration(jr.config.Booking.ReminderWindowHours) * time.Hour
		from := now.Add(window - time.Hour)
		to := now.Add(window)

		schedules, err := jr.store.ScheduleRepository.ListStartingBetween(ctx, from, to)
		if err != nil {
			logger.Error("Failed to list upcoming classes", "error", err)
			return
		}

		sent := 0
		for i := range schedules {
			schedule := &schedules[i]
			bookings, err := jr.store.BookingRepository.ListByScheduleAndStatus(ctx, schedule.ID, domain.BookingStatusBooked)
			if err != nil {
				logger.Error("Failed to list bookings for reminder", "schedule_id", schedule.ID, "error", err)
				continue
			}
			for j := range bookings {
				member, err := jr.store.MemberRepository.GetByID(ctx, bookings[j].MemberID)
				if err != nil {
					logger.Error("Failed to load member for reminder", "member_id", bookings[j].MemberID, "error", err)
					continue
				}
				if err := jr.services.Email.SendClassReminder(ctx, member.Email, member.Name, schedule.Name, schedule.StartTime, schedule.Location); err != nil {
					logger.Error("Failed to send class reminder", "member_id", member.ID, "schedule_id", schedule.ID, "error", err)
					continue
				}
				sent++
			}
		}
		logger.Info("Sent class reminders", "classes", len(schedules), "reminders", sent)
	})
}

// CheckWaitlistHealth flags classes whose waitlist has grown past the
// configured threshold, a signal to the studio to add capacity.
func (jr *JobRunner) CheckWaitlistHealth() {
	jr.runWithRecovery("CheckWaitlistHealth", func() {
		ctx := context.Background()

		threshold := int32(jr.config.Booking.HighWaitlistThreshold)
		schedules, err := jr.store.ScheduleRepository.ListWithWaitlistOver(ctx, threshold)
		if err != nil {
			logger.Error("Failed to check waitlist health", "error", err)
			return
		}

		for i := range schedules {
			s := &schedules[i]
			logger.Warn("Class waitlist over threshold",
				"schedule_id", s.ID, "class", s.Name, "start_time", s.StartTime,
				"capacity", s.MaxCapacity, "waitlist", s.WaitlistCount, "threshold", threshold)
		}
		logger.Info("Checked waitlist health", "flagged", len(schedules))
	})
}

// CleanupOldBookings reports how many terminal bookings have aged past the
// retention window. Rows are kept for audit; this only surfaces the count.
func (jr *JobRunner) CleanupOldBookings() {
	jr.runWithRecovery("CleanupOldBookings", func() {
		ctx := context.Background()
		cutoff := time.Now().UTC().AddDate(0, -6, 0)

		count, err := jr.store.BookingRepository.CountOldTerminal(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to count old terminal bookings", "error", err)
			return
		}
		logger.Info("Old terminal bookings past retention", "count", count, "cutoff", cutoff.Format("2006-01-02"))
	})
}
