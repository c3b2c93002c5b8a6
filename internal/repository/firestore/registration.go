package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"relief-coordination-backend/internal/domain"
	"relief-coordination-backend/internal/logger"
)

type registrationRepository struct {
	client *firestore.Client
}

// regDocID derives the ledger document ID from the (user, opportunity)
// pair. The deterministic ID makes Create an atomic uniqueness check.
func regDocID(userID, opportunityKey string) string {
	return userID + "_" + opportunityKey
}

func (r *registrationRepository) ledgerDoc(userID, opportunityKey string) *firestore.DocumentRef {
	return r.client.Collection(registrationsCollection).Doc(regDocID(userID, opportunityKey))
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	reg.ID = regDocID(reg.UserID, reg.OpportunityKey)
	logger.StoreCall("registration.create", reg.ID)

	if _, err := r.ledgerDoc(reg.UserID, reg.OpportunityKey).Create(ctx, reg); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.ErrAlreadyRegistered
		}
		return mapErr(err)
	}

	r.writeMirrors(ctx, reg)
	return nil
}

// writeMirrors denormalizes the ledger record onto the user profile and the
// opportunity registrant list. The ledger is authoritative; a mirror
// failure is logged and never propagated, the nightly reconciliation picks
// up the drift.
func (r *registrationRepository) writeMirrors(ctx context.Context, reg *domain.Registration) {
	userMirror := r.client.Collection(profilesCollection).
		Doc(reg.UserID).Collection(userRegistrationsSub).Doc(reg.ID)
	if _, err := userMirror.Set(ctx, reg); err != nil {
		logger.Warn("user registration mirror write failed",
			"user_id", reg.UserID, "opportunity", reg.OpportunityKey, "error", err)
	}

	oppMirror := r.client.Collection(registrantsCollection).
		Doc(reg.OpportunityKey).Collection(registrantUsersSub).Doc(reg.UserID)
	if _, err := oppMirror.Set(ctx, map[string]interface{}{
		"user_id":       reg.UserID,
		"user_name":     reg.UserName,
		"user_email":    reg.UserEmail,
		"registered_at": reg.RegisteredAt,
	}); err != nil {
		logger.Warn("opportunity registrant mirror write failed",
			"user_id", reg.UserID, "opportunity", reg.OpportunityKey, "error", err)
	}
}

func (r *registrationRepository) Delete(ctx context.Context, userID, opportunityKey string) error {
	logger.StoreCall("registration.delete", regDocID(userID, opportunityKey))

	if _, err := r.ledgerDoc(userID, opportunityKey).Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound || status.Code(err) == codes.FailedPrecondition {
			return domain.ErrNotRegistered
		}
		return mapErr(err)
	}

	r.deleteMirrors(ctx, userID, opportunityKey)
	return nil
}

func (r *registrationRepository) deleteMirrors(ctx context.Context, userID, opportunityKey string) {
	userMirror := r.client.Collection(profilesCollection).
		Doc(userID).Collection(userRegistrationsSub).Doc(regDocID(userID, opportunityKey))
	if _, err := userMirror.Delete(ctx); err != nil {
		logger.Warn("user registration mirror delete failed",
			"user_id", userID, "opportunity", opportunityKey, "error", err)
	}

	oppMirror := r.client.Collection(registrantsCollection).
		Doc(opportunityKey).Collection(registrantUsersSub).Doc(userID)
	if _, err := oppMirror.Delete(ctx); err != nil {
		logger.Warn("opportunity registrant mirror delete failed",
			"user_id", userID, "opportunity", opportunityKey, "error", err)
	}
}

func (r *registrationRepository) Exists(ctx context.Context, userID, opportunityKey string) (bool, error) {
	_, err := r.ledgerDoc(userID, opportunityKey).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, mapErr(err)
	}
	return true, nil
}

func (r *registrationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Registration, error) {
	iter := r.client.Collection(registrationsCollection).
		Where("user_id", "==", userID).
		OrderBy("registered_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var out []domain.Registration
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, mapErr(err)
		}
		var reg domain.Registration
		if err := snap.DataTo(&reg); err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	return out, nil
}

func (r *registrationRepository) CountByOpportunity(ctx context.Context, opportunityKey string) (int, error) {
	iter := r.client.Collection(registrationsCollection).
		Where("opportunity_key", "==", opportunityKey).
		Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, mapErr(err)
		}
		count++
	}
	return count, nil
}
