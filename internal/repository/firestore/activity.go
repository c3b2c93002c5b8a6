package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"relief-coordination-backend/internal/domain"
	"relief-coordination-backend/internal/logger"
)

type activityRepository struct {
	client *firestore.Client
}

func (r *activityRepository) Create(ctx context.Context, a *domain.Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	logger.StoreCall("activity.create", a.ID)
	_, err := r.client.Collection(activitiesCollection).Doc(a.ID).Create(ctx, a)
	return mapErr(err)
}

func (r *activityRepository) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	snap, err := r.client.Collection(activitiesCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	var a domain.Activity
	if err := snap.DataTo(&a); err != nil {
		return nil, err
	}
	a.ID = snap.Ref.ID
	return &a, nil
}

func (r *activityRepository) List(ctx context.Context) ([]domain.Activity, error) {
	iter := r.client.Collection(activitiesCollection).Documents(ctx)
	defer iter.Stop()

	var out []domain.Activity
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, mapErr(err)
		}
		var a domain.Activity
		if err := snap.DataTo(&a); err != nil {
			return nil, err
		}
		a.ID = snap.Ref.ID
		out = append(out, a)
	}
	return out, nil
}

// Update rewrites the activity document, carrying the live counter into a
// inside the transaction so concurrent admits are never erased.
func (r *activityRepository) Update(ctx context.Context, a *domain.Activity) error {
	logger.StoreCall("activity.update", a.ID)
	doc := r.client.Collection(activitiesCollection).Doc(a.ID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(doc)
		if err != nil {
			return err
		}
		var stored domain.Activity
		if err := snap.DataTo(&stored); err != nil {
			return err
		}
		if err := a.CarryCounters(&stored); err != nil {
			return err
		}
		return tx.Set(doc, a)
	}, firestore.MaxAttempts(maxTxAttempts))
	return mapErr(err)
}

func (r *activityRepository) Delete(ctx context.Context, id string) error {
	logger.StoreCall("activity.delete", id)
	_, err := r.client.Collection(activitiesCollection).Doc(id).Delete(ctx, firestore.Exists)
	return mapErr(err)
}
