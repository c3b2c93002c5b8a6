package repository

import (
	"context"

	"relief-coordination-backend/internal/domain"
)

// OpportunityRepository owns every read and write of the capacity counters.
// No other component touches a counter field directly; admin document
// rewrites preserve them via domain.CarryCounters inside the same
// transactional hold that writes the document.
type OpportunityRepository interface {
	// Admit applies a capacity-checked +1 to the counter behind ref. The
	// check happens at the point of mutation inside the store's
	// transactional primitive, so concurrent admits from independent
	// clients can never push the counter past capacity. Conflicting
	// transactions are retried a bounded number of times before
	// domain.ErrContention surfaces.
	Admit(ctx context.Context, ref domain.OpportunityRef) error

	// Withdraw applies -1, floored at zero. A withdraw at zero is a no-op
	// and a logged anomaly.
	Withdraw(ctx context.Context, ref domain.OpportunityRef) error

	Get(ctx context.Context, ref domain.OpportunityRef) (*domain.Opportunity, error)
	List(ctx context.Context) ([]domain.Opportunity, error)

	// Watch streams full catalog snapshots on every change. The error
	// channel reports stream failures; the catalog service handles
	// resubscription with bounded backoff.
	Watch(ctx context.Context) (<-chan []domain.Opportunity, <-chan error)

	// Reconcile overwrites the counter with the ledger-derived count,
	// bypassing the capacity check. Only the reconciliation job calls it.
	Reconcile(ctx context.Context, ref domain.OpportunityRef, registered int) error
}

// RegistrationRepository is the registration ledger. The ledger record is
// authoritative; implementations may mirror it onto the user profile and
// the opportunity for display, but a mirror failure never fails the call.
type RegistrationRepository interface {
	// Create persists the ledger record, failing with
	// domain.ErrAlreadyRegistered when the (user, opportunity) pair exists.
	Create(ctx context.Context, reg *domain.Registration) error

	// Delete removes the ledger record and its mirrors, failing with
	// domain.ErrNotRegistered when the pair does not exist.
	Delete(ctx context.Context, userID, opportunityKey string) error

	Exists(ctx context.Context, userID, opportunityKey string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Registration, error)
	CountByOpportunity(ctx context.Context, opportunityKey string) (int, error)
}

type RiskSituationRepository interface {
	Create(ctx context.Context, rs *domain.RiskSituation) error
	GetByID(ctx context.Context, id string) (*domain.RiskSituation, error)
	List(ctx context.Context) ([]domain.RiskSituation, error)

	// Update rewrites the document, carrying the live counters into rs
	// atomically with the write (domain.CarryCounters under the store's
	// transactional primitive). Fails with domain.ErrInvalidState when a
	// capacity would fall below its live registered count.
	Update(ctx context.Context, rs *domain.RiskSituation) error
	Delete(ctx context.Context, id string) error

	// AddDonation increments a donation item's received amount. Donations
	// are deliberately not capacity-gated; over-collection is allowed.
	AddDonation(ctx context.Context, situationID, itemID string, amount int) error

	ListPredefinedItems(ctx context.Context) ([]domain.DonationItem, error)
	CreatePredefinedItem(ctx context.Context, item *domain.DonationItem) error
}

type ActivityRepository interface {
	Create(ctx context.Context, a *domain.Activity) error
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	List(ctx context.Context) ([]domain.Activity, error)

	// Update carries the live counter into a atomically with the write,
	// like RiskSituationRepository.Update.
	Update(ctx context.Context, a *domain.Activity) error
	Delete(ctx context.Context, id string) error
}

type ProfileRepository interface {
	Put(ctx context.Context, p *domain.Profile) error
	GetByUID(ctx context.Context, uid string) (*domain.Profile, error)
}

// AccountRepository backs the minimal relational user API.
type AccountRepository interface {
	Create(ctx context.Context, a *domain.Account) error
	GetByID(ctx context.Context, id int32) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
}
