package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"relief-coordination-backend/internal/domain"
	"relief-coordination-backend/internal/logger"
)

type riskSituationRepository struct {
	client *firestore.Client
}

func (r *riskSituationRepository) Create(ctx context.Context, rs *domain.RiskSituation) error {
	if rs.ID == "" {
		rs.ID = uuid.NewString()
	}
	for i := range rs.TransportRoutes {
		if rs.TransportRoutes[i].ID == "" {
			rs.TransportRoutes[i].ID = uuid.NewString()
		}
	}
	logger.StoreCall("situation.create", rs.ID)
	_, err := r.client.Collection(situationsCollection).Doc(rs.ID).Create(ctx, rs)
	return mapErr(err)
}

func (r *riskSituationRepository) GetByID(ctx context.Context, id string) (*domain.RiskSituation, error) {
	snap, err := r.client.Collection(situationsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	var rs domain.RiskSituation
	if err := snap.DataTo(&rs); err != nil {
		return nil, err
	}
	rs.ID = snap.Ref.ID
	return &rs, nil
}

func (r *riskSituationRepository) List(ctx context.Context) ([]domain.RiskSituation, error) {
	iter := r.client.Collection(situationsCollection).Documents(ctx)
	defer iter.Stop()

	var out []domain.RiskSituation
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, mapErr(err)
		}
		var rs domain.RiskSituation
		if err := snap.DataTo(&rs); err != nil {
			return nil, err
		}
		rs.ID = snap.Ref.ID
		out = append(out, rs)
	}
	return out, nil
}

// Update rewrites the situation document. The live counters are re-read and
// carried into rs inside the transaction, so admits committing concurrently
// are never erased by the Set.
func (r *riskSituationRepository) Update(ctx context.Context, rs *domain.RiskSituation) error {
	logger.StoreCall("situation.update", rs.ID)
	doc := r.client.Collection(situationsCollection).Doc(rs.ID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(doc)
		if err != nil {
			return err
		}
		var stored domain.RiskSituation
		if err := snap.DataTo(&stored); err != nil {
			return err
		}
		if err := rs.CarryCounters(&stored); err != nil {
			return err
		}
		return tx.Set(doc, rs)
	}, firestore.MaxAttempts(maxTxAttempts))
	return mapErr(err)
}

func (r *riskSituationRepository) Delete(ctx context.Context, id string) error {
	logger.StoreCall("situation.delete", id)
	_, err := r.client.Collection(situationsCollection).Doc(id).Delete(ctx, firestore.Exists)
	return mapErr(err)
}

// AddDonation increments the matched item's received amount inside a
// transaction. There is deliberately no upper bound check: donations may
// exceed their target.
func (r *riskSituationRepository) AddDonation(ctx context.Context, situationID, itemID string, amount int) error {
	doc := r.client.Collection(situationsCollection).Doc(situationID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(doc)
		if err != nil {
			return err
		}
		var rs domain.RiskSituation
		if err := snap.DataTo(&rs); err != nil {
			return err
		}
		for _, field := range []struct {
			path  string
			items []domain.DonationItem
		}{
			{"essential_items", rs.EssentialItems},
			{"emergency_items", rs.EmergencyItems},
			{"in_kind_items", rs.InKindItems},
		} {
			for i := range field.items {
				if field.items[i].ID == itemID {
					field.items[i].Current += amount
					return tx.Update(doc, []firestore.Update{{Path: field.path, Value: field.items}})
				}
			}
		}
		return domain.ErrNotFound
	}, firestore.MaxAttempts(maxTxAttempts))
	return mapErr(err)
}

func (r *riskSituationRepository) ListPredefinedItems(ctx context.Context) ([]domain.DonationItem, error) {
	iter := r.client.Collection(predefinedItemsCollection).Documents(ctx)
	defer iter.Stop()

	var out []domain.DonationItem
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, mapErr(err)
		}
		var item domain.DonationItem
		if err := snap.DataTo(&item); err != nil {
			return nil, err
		}
		item.ID = snap.Ref.ID
		out = append(out, item)
	}
	return out, nil
}

func (r *riskSituationRepository) CreatePredefinedItem(ctx context.Context, item *domain.DonationItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	_, err := r.client.Collection(predefinedItemsCollection).Doc(item.ID).Create(ctx, item)
	return mapErr(err)
}
