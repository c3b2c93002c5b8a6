package service

import (
	"context"

	"relief-coordination-backend/internal/domain"
)

// RegistrationService owns the registration ledger flow: admit against the
// capacity counter first, then persist the ledger record, compensating the
// counter when the record cannot be written.
type RegistrationService interface {
	Register(ctx context.Context, session domain.Session, ref domain.OpportunityRef) (*domain.Registration, error)
	Withdraw(ctx context.Context, session domain.Session, ref domain.OpportunityRef) error
	IsRegistered(ctx context.Context, session domain.Session, ref domain.OpportunityRef) (bool, error)
	MyRegistrations(ctx context.Context, session domain.Session) ([]domain.Registration, error)
}

// CatalogService serves the opportunity catalog from a push-updated cache.
// Run consumes the store's change feed until ctx is cancelled.
type CatalogService interface {
	Run(ctx context.Context)
	Opportunities(ctx context.Context) ([]domain.Opportunity, error)
	Opportunity(ctx context.Context, ref domain.OpportunityRef) (*domain.Opportunity, error)
}

type RiskSituationService interface {
	Create(ctx context.Context, session domain.Session, rs *domain.RiskSituation) error
	Get(ctx context.Context, id string) (*domain.RiskSituation, error)
	List(ctx context.Context) ([]domain.RiskSituation, error)
	Update(ctx context.Context, session domain.Session, rs *domain.RiskSituation) error
	Delete(ctx context.Context, session domain.Session, id string) error
	ListPredefinedItems(ctx context.Context) ([]domain.DonationItem, error)
	CreatePredefinedItem(ctx context.Context, session domain.Session, item *domain.DonationItem) error
}

type ActivityService interface {
	Create(ctx context.Context, session domain.Session, a *domain.Activity) error
	Get(ctx context.Context, id string) (*domain.Activity, error)
	List(ctx context.Context) ([]domain.Activity, error)
	Update(ctx context.Context, session domain.Session, a *domain.Activity) error
	Delete(ctx context.Context, session domain.Session, id string) error
}

type DonationService interface {
	Donate(ctx context.Context, situationID, itemID string, amount int) error
}

type ProfileService interface {
	Upsert(ctx context.Context, session domain.Session, p *domain.Profile) error
	Get(ctx context.Context, session domain.Session, uid string) (*domain.Profile, error)
}

// AccountService backs the minimal relational user API.
type AccountService interface {
	Register(ctx context.Context, name, email, password, birthDate string) (*domain.Account, error)
	Get(ctx context.Context, id int32) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
}

type EmailService interface {
	SendRegistrationConfirmation(ctx context.Context, email, name, opportunityTitle string) error
	SendWithdrawalConfirmation(ctx context.Context, email, name, opportunityTitle string) error
	SendDonationDigest(ctx context.Context, email string, situations []domain.RiskSituation) error
}
