// Package firestore implements the document-store repositories on Cloud
// Firestore. Capacity counters are mutated inside RunTransaction so the
// capacity check and the increment commit atomically; Firestore aborts one
// side of a conflicting pair and the client retries up to maxTxAttempts
// before the conflict surfaces as domain.ErrContention.
package firestore

import (
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"relief-coordination-backend/internal/domain"
	"relief-coordination-backend/internal/repository"
)

const (
	situationsCollection      = "riskSituations"
	activitiesCollection      = "activities"
	registrationsCollection   = "registrations"
	profilesCollection        = "users"
	registrantsCollection     = "opportunityRegistrants"
	predefinedItemsCollection = "predefinedDonationItems"

	// userRegistrationsSub is the per-user mirror subcollection.
	userRegistrationsSub = "registrations"
	// registrantUsersSub is the per-opportunity mirror subcollection.
	registrantUsersSub = "users"
)

// maxTxAttempts bounds transaction retries on write conflicts. Exhausting
// it returns domain.ErrContention, which callers treat as retryable.
const maxTxAttempts = 3

// Store bundles the Firestore repositories over one shared client.
type Store struct {
	repository.OpportunityRepository
	repository.RegistrationRepository
	repository.RiskSituationRepository
	repository.ActivityRepository
	repository.ProfileRepository
}

func NewStore(client *firestore.Client) *Store {
	return &Store{
		OpportunityRepository:   &opportunityRepository{client: client},
		RegistrationRepository:  &registrationRepository{client: client},
		RiskSituationRepository: &riskSituationRepository{client: client},
		ActivityRepository:      &activityRepository{client: client},
		ProfileRepository:       &profileRepository{client: client},
	}
}

// mapErr translates Firestore status codes into domain sentinels. Domain
// errors returned from inside a transaction pass through untouched.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrCapacityExceeded) ||
		errors.Is(err, domain.ErrAlreadyRegistered) ||
		errors.Is(err, domain.ErrNotRegistered) ||
		errors.Is(err, domain.ErrInvalidState) {
		return err
	}
	switch status.Code(err) {
	case codes.NotFound:
		return domain.ErrNotFound
	case codes.AlreadyExists:
		return domain.ErrAlreadyRegistered
	case codes.Aborted:
		return domain.ErrContention
	}
	return err
}

// situationCounter locates the capacity and registered fields addressed by
// ref inside an already-loaded situation document.
func situationCounter(rs *domain.RiskSituation, ref domain.OpportunityRef) (capacity, registered *int, err error) {
	switch ref.Kind {
	case domain.OpportunityBrigade, domain.OpportunityNursing:
		group := &rs.Brigade
		if ref.Kind == domain.OpportunityNursing {
			group = &rs.Nursing
		}
		if !group.Enabled {
			return nil, nil, domain.ErrNotFound
		}
		return &group.Capacity, &group.Registered, nil
	case domain.OpportunityTransport:
		for i := range rs.TransportRoutes {
			if rs.TransportRoutes[i].ID == ref.RouteID {
				return &rs.TransportRoutes[i].Capacity, &rs.TransportRoutes[i].Registered, nil
			}
		}
		return nil, nil, domain.ErrNotFound
	default:
		return nil, nil, domain.ErrNotFound
	}
}

// counterUpdate maps ref onto the single top-level field whose counter
// changed, so a transaction only rewrites that field.
func counterUpdate(rs *domain.RiskSituation, ref domain.OpportunityRef) firestore.Update {
	switch ref.Kind {
	case domain.OpportunityBrigade:
		return firestore.Update{Path: "brigade", Value: rs.Brigade}
	case domain.OpportunityNursing:
		return firestore.Update{Path: "nursing", Value: rs.Nursing}
	default:
		return firestore.Update{Path: "transport_routes", Value: rs.TransportRoutes}
	}
}
