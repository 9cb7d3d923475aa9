package jobs

import (
	"context"

	"classbook-backend/internal/logger"
)

// ExpirePackages flips past-due ledger entries to EXPIRED and cancels the
// future bookings they were paying for.
func (jr *JobRunner) ExpirePackages() {
	jr.runWithRecovery("ExpirePackages", func() {
		ctx := context.Background()

		count, err := jr.services.Package.ExpireLapsedEntries(ctx)
		if err != nil {
			logger.Error("Failed to expire lapsed packages", "error", err)
			return
		}
		logger.Info("Expired lapsed packages", "count", count)
	})
}
