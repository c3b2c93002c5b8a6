package service

import (
	"context"
	"fmt"
	"time"

	"relief-coordination-backend/internal/domain"
	"relief-coordination-backend/internal/repository"
)

type profileService struct {
	profiles repository.ProfileRepository
}

func NewProfileService(profiles repository.ProfileRepository) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) Upsert(ctx context.Context, session domain.Session, p *domain.Profile) error {
	if p.UID == "" {
		p.UID = session.UID
	}
	if p.UID != session.UID && !session.IsAdmin() {
		return domain.ErrPermissionDenied
	}
	if p.Name == "" {
		return fmt.Errorf("%w: profile name is required", domain.ErrInvalidState)
	}
	// Role is assigned out of band, never through profile writes.
	existing, err := s.profiles.GetByUID(ctx, p.UID)
	if err == nil {
		p.Role = existing.Role
		p.CreatedOn = existing.CreatedOn
	} else {
		p.Role = domain.RoleUser
		p.CreatedOn = time.Now().Format("2006-01-02")
	}
	return s.profiles.Put(ctx, p)
}

func (s *profileService) Get(ctx context.Context, session domain.Session, uid string) (*domain.Profile, error) {
	if uid != session.UID && !session.IsAdmin() {
		return nil, domain.ErrPermissionDenied
	}
	return s.profiles.GetByUID(ctx, uid)
}
