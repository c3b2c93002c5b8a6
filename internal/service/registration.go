package service

import (
	"context"
	"errors"
	"time"

	"relief-coordination-backend/internal/domain"
	"relief-coordination-backend/internal/logger"
	"relief-coordination-backend/internal/repository"
)

// admitAttempts bounds retries when concurrent registrations conflict on
// the same counter. Each attempt backs off a little longer than the last.
const (
	admitAttempts = 3
	admitBackoff  = 50 * time.Millisecond
)

type registrationService struct {
	opportunities repository.OpportunityRepository
	registrations repository.RegistrationRepository
	profiles      repository.ProfileRepository
	emailSvc      EmailService
}

func NewRegistrationService(
	opportunities repository.OpportunityRepository,
	registrations repository.RegistrationRepository,
	profiles repository.ProfileRepository,
	emailSvc EmailService,
) RegistrationService {
	return &registrationService{
		opportunities: opportunities,
		registrations: registrations,
		profiles:      profiles,
		emailSvc:      emailSvc,
	}
}

func (s *registrationService) Register(ctx context.Context, session domain.Session, ref domain.OpportunityRef) (*domain.Registration, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	key := ref.Key()

	exists, err := s.registrations.Exists(ctx, session.UID, key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrAlreadyRegistered
	}

	// Take the slot first. The counter mutation carries the capacity check,
	// so two concurrent registrations can never both squeeze past a single
	// remaining slot.
	if err := s.admitWithRetry(ctx, ref); err != nil {
		return nil, err
	}

	reg := &domain.Registration{
		UserID:         session.UID,
		UserEmail:      session.Email,
		Opportunity:    ref,
		OpportunityKey: key,
		RegisteredAt:   time.Now().UTC(),
	}
	if p, err := s.profiles.GetByUID(ctx, session.UID); err == nil {
		reg.UserName = p.Name
		if reg.UserEmail == "" {
			reg.UserEmail = p.Email
		}
	}

	if err := s.registrations.Create(ctx, reg); err != nil {
		// The slot was already taken; give it back before reporting.
		if werr := s.opportunities.Withdraw(ctx, ref); werr != nil {
			logger.Anomaly("compensating withdraw failed",
				"user_id", session.UID, "opportunity", key, "error", werr)
		}
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, err
	}

	s.sendConfirmation(ctx, reg, ref)
	return reg, nil
}

func (s *registrationService) admitWithRetry(ctx context.Context, ref domain.OpportunityRef) error {
	var err error
	for attempt := 0; attempt < admitAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * admitBackoff):
			}
		}
		err = s.opportunities.Admit(ctx, ref)
		if !errors.Is(err, domain.ErrContention) {
			return err
		}
		logger.Debug("admit conflicted, retrying", "opportunity", ref.Key(), "attempt", attempt+1)
	}
	return domain.ErrContention
}

func (s *registrationService) sendConfirmation(ctx context.Context, reg *domain.Registration, ref domain.OpportunityRef) {
	if s.emailSvc == nil || reg.UserEmail == "" {
		return
	}
	title := reg.OpportunityKey
	if o, err := s.opportunities.Get(ctx, ref); err == nil {
		title = o.Title
	}
	if err := s.emailSvc.SendRegistrationConfirmation(ctx, reg.UserEmail, reg.UserName, title); err != nil {
		logger.Warn("registration confirmation email failed",
			"user_id", reg.UserID, "opportunity", reg.OpportunityKey, "error", err)
	}
}

func (s *registrationService) Withdraw(ctx context.Context, session domain.Session, ref domain.OpportunityRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	key := ref.Key()

	// The ledger record is authoritative, so it goes first. Once it is
	// gone the withdrawal has happened; a failed counter decrement is an
	// anomaly for the reconciliation job, not an error for the caller.
	if err := s.registrations.Delete(ctx, session.UID, key); err != nil {
		return err
	}
	if err := s.opportunities.Withdraw(ctx, ref); err != nil {
		logger.Anomaly("counter decrement failed after ledger delete",
			"user_id", session.UID, "opportunity", key, "error", err)
	}

	if s.emailSvc != nil && session.Email != "" {
		title := key
		if o, err := s.opportunities.Get(ctx, ref); err == nil {
			title = o.Title
		}
		if err := s.emailSvc.SendWithdrawalConfirmation(ctx, session.Email, "", title); err != nil {
			logger.Warn("withdrawal confirmation email failed",
				"user_id", session.UID, "opportunity", key, "error", err)
		}
	}
	return nil
}

func (s *registrationService) IsRegistered(ctx context.Context, session domain.Session, ref domain.OpportunityRef) (bool, error) {
	if err := ref.Validate(); err != nil {
		return false, err
	}
	return s.registrations.Exists(ctx, session.UID, ref.Key())
}

func (s *registrationService) MyRegistrations(ctx context.Context, session domain.Session) ([]domain.Registration, error) {
	return s.registrations.ListByUser(ctx, session.UID)
}
