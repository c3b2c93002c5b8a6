package jobs

import (
	"context"

	"relief-coordination-backend/internal/logger"
)

// SendDonationDigest mails the coordination team a summary of donation
// progress across all situations still accepting donations.
func (jr *JobRunner) SendDonationDigest() {
	jr.runWithRecovery("SendDonationDigest", func() {
		ctx := context.Background()

		adminEmail := jr.config.Email.AdminEmail
		if adminEmail == "" {
			logger.Info("No admin email configured, skipping donation digest")
			return
		}

		situations, err := jr.situations.List(ctx)
		if err != nil {
			logger.Error("Failed to list situations", "error", err)
			return
		}

		accepting := 0
		for _, rs := range situations {
			if rs.AcceptsDonations {
				accepting++
			}
		}
		if accepting == 0 {
			logger.Info("No situations accepting donations, skipping digest")
			return
		}

		if err := jr.email.SendDonationDigest(ctx, adminEmail, situations); err != nil {
			logger.Error("Failed to send donation digest", "error", err)
			return
		}
		logger.Info("Donation digest sent", "situations", accepting)
	})
}
