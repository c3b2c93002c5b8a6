package jobs

import (
	"context"

	"relief-coordination-backend/internal/logger"
)

// ReconcileCounters compares every capacity counter against the ledger and
// rewrites the ones that drifted. The ledger is authoritative: mirrors and
// counters are best-effort denormalizations, so after a crash between a
// ledger write and its counter update this job is what restores agreement.
func (jr *JobRunner) ReconcileCounters() {
	jr.runWithRecovery("ReconcileCounters", func() {
		ctx := context.Background()

		opportunities, err := jr.opportunities.List(ctx)
		if err != nil {
			logger.Error("Failed to list opportunities", "error", err)
			return
		}

		drifted := 0
		for _, o := range opportunities {
			key := o.Ref.Key()
			count, err := jr.registrations.CountByOpportunity(ctx, key)
			if err != nil {
				logger.Error("Failed to count registrations", "opportunity", key, "error", err)
				continue
			}
			if count == o.Registered {
				continue
			}

			logger.Anomaly("counter drifted from ledger",
				"opportunity", key, "counter", o.Registered, "ledger", count)
			if err := jr.opportunities.Reconcile(ctx, o.Ref, count); err != nil {
				logger.Error("Failed to reconcile counter", "opportunity", key, "error", err)
				continue
			}
			drifted++
		}

		logger.Info("Counter reconciliation complete",
			"opportunities", len(opportunities), "repaired", drifted)
	})
}
