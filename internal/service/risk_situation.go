package service

import (
	"context"
	"fmt"
	"time"

	"relief-coordination-backend/internal/domain"
	"relief-coordination-backend/internal/repository"
)

type riskSituationService struct {
	situations    repository.RiskSituationRepository
	registrations repository.RegistrationRepository
}

func NewRiskSituationService(
	situations repository.RiskSituationRepository,
	registrations repository.RegistrationRepository,
) RiskSituationService {
	return &riskSituationService{situations: situations, registrations: registrations}
}

func validateSituation(rs *domain.RiskSituation) error {
	if rs.Name == "" {
		return fmt.Errorf("%w: situation name is required", domain.ErrInvalidState)
	}
	if rs.Brigade.Enabled && rs.Brigade.Capacity < 0 {
		return fmt.Errorf("%w: negative brigade capacity", domain.ErrInvalidState)
	}
	if rs.Nursing.Enabled && rs.Nursing.Capacity < 0 {
		return fmt.Errorf("%w: negative nursing capacity", domain.ErrInvalidState)
	}
	for _, rt := range rs.TransportRoutes {
		if rt.Capacity < 0 {
			return fmt.Errorf("%w: negative capacity on route %s", domain.ErrInvalidState, rt.ID)
		}
	}
	return nil
}

func (s *riskSituationService) Create(ctx context.Context, session domain.Session, rs *domain.RiskSituation) error {
	if !session.IsAdmin() {
		return domain.ErrPermissionDenied
	}
	if err := validateSituation(rs); err != nil {
		return err
	}
	// Counters start from zero regardless of what the caller sent.
	rs.Brigade.Registered = 0
	rs.Nursing.Registered = 0
	for i := range rs.TransportRoutes {
		rs.TransportRoutes[i].Registered = 0
	}
	rs.CreatedOn = time.Now().Format("2006-01-02")
	return s.situations.Create(ctx, rs)
}

func (s *riskSituationService) Get(ctx context.Context, id string) (*domain.RiskSituation, error) {
	return s.situations.GetByID(ctx, id)
}

func (s *riskSituationService) List(ctx context.Context) ([]domain.RiskSituation, error) {
	return s.situations.List(ctx)
}

func (s *riskSituationService) Update(ctx context.Context, session domain.Session, rs *domain.RiskSituation) error {
	if !session.IsAdmin() {
		return domain.ErrPermissionDenied
	}
	if err := validateSituation(rs); err != nil {
		return err
	}
	// The store carries the live counters forward atomically with the write
	// and rejects any capacity shrunk below them.
	return s.situations.Update(ctx, rs)
}

func (s *riskSituationService) Delete(ctx context.Context, session domain.Session, id string) error {
	if !session.IsAdmin() {
		return domain.ErrPermissionDenied
	}
	existing, err := s.situations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	// Refuse to delete under volunteers still holding registrations.
	for _, o := range existing.Opportunities() {
		count, err := s.registrations.CountByOpportunity(ctx, o.Ref.Key())
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrHasRegistrations
		}
	}
	return s.situations.Delete(ctx, id)
}

func (s *riskSituationService) ListPredefinedItems(ctx context.Context) ([]domain.DonationItem, error) {
	return s.situations.ListPredefinedItems(ctx)
}

func (s *riskSituationService) CreatePredefinedItem(ctx context.Context, session domain.Session, item *domain.DonationItem) error {
	if !session.IsAdmin() {
		return domain.ErrPermissionDenied
	}
	if item.Name == "" {
		return fmt.Errorf("%w: item name is required", domain.ErrInvalidState)
	}
	return s.situations.CreatePredefinedItem(ctx, item)
}
