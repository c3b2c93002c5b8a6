package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"relief-coordination-backend/internal/domain"
)

type MockOpportunityRepo struct{ mock.Mock }

func (m *MockOpportunityRepo) Admit(ctx context.Context, ref domain.OpportunityRef) error {
	return m.Called(ctx, ref).Error(0)
}

func (m *MockOpportunityRepo) Withdraw(ctx context.Context, ref domain.OpportunityRef) error {
	return m.Called(ctx, ref).Error(0)
}

func (m *MockOpportunityRepo) Reconcile(ctx context.Context, ref domain.OpportunityRef, registered int) error {
	return m.Called(ctx, ref, registered).Error(0)
}

func (m *MockOpportunityRepo) Get(ctx context.Context, ref domain.OpportunityRef) (*domain.Opportunity, error) {
	args := m.Called(ctx, ref)
	if o := args.Get(0); o != nil {
		return o.(*domain.Opportunity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOpportunityRepo) List(ctx context.Context) ([]domain.Opportunity, error) {
	args := m.Called(ctx)
	if o := args.Get(0); o != nil {
		return o.([]domain.Opportunity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOpportunityRepo) Watch(ctx context.Context) (<-chan []domain.Opportunity, <-chan error) {
	args := m.Called(ctx)
	return args.Get(0).(<-chan []domain.Opportunity), args.Get(1).(<-chan error)
}

type MockRegistrationRepo struct{ mock.Mock }

func (m *MockRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	return m.Called(ctx, reg).Error(0)
}

func (m *MockRegistrationRepo) Delete(ctx context.Context, userID, opportunityKey string) error {
	return m.Called(ctx, userID, opportunityKey).Error(0)
}

func (m *MockRegistrationRepo) Exists(ctx context.Context, userID, opportunityKey string) (bool, error) {
	args := m.Called(ctx, userID, opportunityKey)
	return args.Bool(0), args.Error(1)
}

func (m *MockRegistrationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Registration, error) {
	args := m.Called(ctx, userID)
	if r := args.Get(0); r != nil {
		return r.([]domain.Registration), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRegistrationRepo) CountByOpportunity(ctx context.Context, opportunityKey string) (int, error) {
	args := m.Called(ctx, opportunityKey)
	return args.Int(0), args.Error(1)
}

type MockProfileRepo struct{ mock.Mock }

func (m *MockProfileRepo) Put(ctx context.Context, p *domain.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileRepo) GetByUID(ctx context.Context, uid string) (*domain.Profile, error) {
	args := m.Called(ctx, uid)
	if p := args.Get(0); p != nil {
		return p.(*domain.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockRiskSituationRepo struct{ mock.Mock }

func (m *MockRiskSituationRepo) Create(ctx context.Context, rs *domain.RiskSituation) error {
	return m.Called(ctx, rs).Error(0)
}

func (m *MockRiskSituationRepo) GetByID(ctx context.Context, id string) (*domain.RiskSituation, error) {
	args := m.Called(ctx, id)
	if rs := args.Get(0); rs != nil {
		return rs.(*domain.RiskSituation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRiskSituationRepo) List(ctx context.Context) ([]domain.RiskSituation, error) {
	args := m.Called(ctx)
	if rs := args.Get(0); rs != nil {
		return rs.([]domain.RiskSituation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRiskSituationRepo) Update(ctx context.Context, rs *domain.RiskSituation) error {
	return m.Called(ctx, rs).Error(0)
}

func (m *MockRiskSituationRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRiskSituationRepo) AddDonation(ctx context.Context, situationID, itemID string, amount int) error {
	return m.Called(ctx, situationID, itemID, amount).Error(0)
}

func (m *MockRiskSituationRepo) ListPredefinedItems(ctx context.Context) ([]domain.DonationItem, error) {
	args := m.Called(ctx)
	if items := args.Get(0); items != nil {
		return items.([]domain.DonationItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRiskSituationRepo) CreatePredefinedItem(ctx context.Context, item *domain.DonationItem) error {
	return m.Called(ctx, item).Error(0)
}

type MockActivityRepo struct{ mock.Mock }

func (m *MockActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockActivityRepo) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*domain.Activity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockActivityRepo) List(ctx context.Context) ([]domain.Activity, error) {
	args := m.Called(ctx)
	if a := args.Get(0); a != nil {
		return a.([]domain.Activity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockActivityRepo) Update(ctx context.Context, a *domain.Activity) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockActivityRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockAccountRepo struct{ mock.Mock }

func (m *MockAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAccountRepo) GetByID(ctx context.Context, id int32) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*domain.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountRepo) List(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if a := args.Get(0); a != nil {
		return a.([]domain.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockEmailService struct{ mock.Mock }

func (m *MockEmailService) SendRegistrationConfirmation(ctx context.Context, email, name, opportunityTitle string) error {
	return m.Called(ctx, email, name, opportunityTitle).Error(0)
}

func (m *MockEmailService) SendWithdrawalConfirmation(ctx context.Context, email, name, opportunityTitle string) error {
	return m.Called(ctx, email, name, opportunityTitle).Error(0)
}

func (m *MockEmailService) SendDonationDigest(ctx context.Context, email string, situations []domain.RiskSituation) error {
	return m.Called(ctx, email, situations).Error(0)
}
