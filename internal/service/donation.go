package service

import (
	"context"
	"fmt"

	"relief-coordination-backend/internal/domain"
	"relief-coordination-backend/internal/repository"
)

type donationService struct {
	situations repository.RiskSituationRepository
}

func NewDonationService(situations repository.RiskSituationRepository) DonationService {
	return &donationService{situations: situations}
}

// Donate records a pledge against a donation item. Donations are open to
// anyone and are never capacity-gated; the received amount may exceed the
// item's target.
func (s *donationService) Donate(ctx context.Context, situationID, itemID string, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: donation amount must be positive", domain.ErrInvalidState)
	}
	rs, err := s.situations.GetByID(ctx, situationID)
	if err != nil {
		return err
	}
	if !rs.AcceptsDonations {
		return fmt.Errorf("%w: situation does not accept donations", domain.ErrInvalidState)
	}
	return s.situations.AddDonation(ctx, situationID, itemID, amount)
}
