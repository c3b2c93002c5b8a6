package service

import (
	"context"
	"fmt"
	"time"

	"relief-coordination-backend/internal/domain"
	"relief-coordination-backend/internal/repository"
)

type activityService struct {
	activities    repository.ActivityRepository
	registrations repository.RegistrationRepository
}

func NewActivityService(
	activities repository.ActivityRepository,
	registrations repository.RegistrationRepository,
) ActivityService {
	return &activityService{activities: activities, registrations: registrations}
}

func (s *activityService) Create(ctx context.Context, session domain.Session, a *domain.Activity) error {
	if !session.IsAdmin() {
		return domain.ErrPermissionDenied
	}
	if a.Title == "" {
		return fmt.Errorf("%w: activity title is required", domain.ErrInvalidState)
	}
	if a.Capacity < 0 {
		return fmt.Errorf("%w: negative activity capacity", domain.ErrInvalidState)
	}
	a.Registered = 0
	a.CreatedOn = time.Now().Format("2006-01-02")
	return s.activities.Create(ctx, a)
}

func (s *activityService) Get(ctx context.Context, id string) (*domain.Activity, error) {
	return s.activities.GetByID(ctx, id)
}

func (s *activityService) List(ctx context.Context) ([]domain.Activity, error) {
	return s.activities.List(ctx)
}

func (s *activityService) Update(ctx context.Context, session domain.Session, a *domain.Activity) error {
	if !session.IsAdmin() {
		return domain.ErrPermissionDenied
	}
	if a.Capacity < 0 {
		return fmt.Errorf("%w: negative activity capacity", domain.ErrInvalidState)
	}
	// The store carries the live counter forward atomically with the write
	// and rejects a capacity shrunk below it.
	return s.activities.Update(ctx, a)
}

func (s *activityService) Delete(ctx context.Context, session domain.Session, id string) error {
	if !session.IsAdmin() {
		return domain.ErrPermissionDenied
	}
	existing, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.registrations.CountByOpportunity(ctx, existing.Opportunity().Ref.Key())
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrHasRegistrations
	}
	return s.activities.Delete(ctx, id)
}
