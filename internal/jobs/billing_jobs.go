package jobs

import (
	"context"

	"scooter-rent-backend/internal/logger"
)

// ReconcilePostponements closes every open postponement whose original and
// rescheduled payments are both paid. Payments confirmed outside the API
// (manual database edits, imports) are picked up here.
func (jr *JobRunner) ReconcilePostponements() {
	jr.runWithRecovery("ReconcilePostponements", func(ctx context.Context) {
		closed, err := jr.services.Postponement.ReconcileAll(ctx)
		if err != nil {
			// Failures are per scooter; the rest were still processed.
			logger.Error("Some postponements failed to reconcile", "closed", closed, "error", err)
			return
		}
		logger.Info("Reconciled postponements", "closed", closed)
	})
}

// ExpireConfirmations deletes pending "I paid" confirmations past their TTL.
func (jr *JobRunner) ExpireConfirmations() {
	jr.runWithRecovery("ExpireConfirmations", func(ctx context.Context) {
		n, err := jr.services.Confirmation.PurgeExpired(ctx)
		if err != nil {
			logger.Error("Failed to purge expired confirmations", "error", err)
			return
		}
		logger.Info("Purged expired confirmations", "count", n)
	})
}
