package firestore

import (
	"context"

	"cloud.google.com/go/firestore"

	"relief-coordination-backend/internal/domain"
)

type profileRepository struct {
	client *firestore.Client
}

func (r *profileRepository) Put(ctx context.Context, p *domain.Profile) error {
	_, err := r.client.Collection(profilesCollection).Doc(p.UID).Set(ctx, p)
	return mapErr(err)
}

func (r *profileRepository) GetByUID(ctx context.Context, uid string) (*domain.Profile, error) {
	snap, err := r.client.Collection(profilesCollection).Doc(uid).Get(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	var p domain.Profile
	if err := snap.DataTo(&p); err != nil {
		return nil, err
	}
	p.UID = snap.Ref.ID
	return &p, nil
}
