package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"relief-coordination-backend/internal/domain"
	"relief-coordination-backend/internal/repository/memory"
)

var (
	testSession = domain.Session{UID: "user-1", Email: "u1@test.com", Role: domain.RoleUser}
	brigadeRef  = domain.OpportunityRef{Kind: domain.OpportunityBrigade, SituationID: "sit-1"}
)

func newRegistrationFixture() (*MockOpportunityRepo, *MockRegistrationRepo, *MockProfileRepo, *MockEmailService, RegistrationService) {
	oppRepo := new(MockOpportunityRepo)
	regRepo := new(MockRegistrationRepo)
	profRepo := new(MockProfileRepo)
	emailSvc := new(MockEmailService)
	svc := NewRegistrationService(oppRepo, regRepo, profRepo, emailSvc)
	return oppRepo, regRepo, profRepo, emailSvc, svc
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	key := brigadeRef.Key()

	t.Run("happy path", func(t *testing.T) {
		oppRepo, regRepo, profRepo, emailSvc, svc := newRegistrationFixture()

		regRepo.On("Exists", ctx, "user-1", key).Return(false, nil).Once()
		oppRepo.On("Admit", ctx, brigadeRef).Return(nil).Once()
		profRepo.On("GetByUID", ctx, "user-1").Return(&domain.Profile{UID: "user-1", Name: "User One"}, nil).Once()
		regRepo.On("Create", ctx, mock.MatchedBy(func(reg *domain.Registration) bool {
			return reg.UserID == "user-1" && reg.OpportunityKey == key && reg.UserName == "User One"
		})).Return(nil).Once()
		oppRepo.On("Get", ctx, brigadeRef).Return(&domain.Opportunity{Ref: brigadeRef, Title: "Flood Relief"}, nil).Once()
		emailSvc.On("SendRegistrationConfirmation", ctx, "u1@test.com", "User One", "Flood Relief").Return(nil).Once()

		reg, err := svc.Register(ctx, testSession, brigadeRef)
		require.NoError(t, err)
		assert.Equal(t, key, reg.OpportunityKey)
		assert.False(t, reg.RegisteredAt.IsZero())

		oppRepo.AssertExpectations(t)
		regRepo.AssertExpectations(t)
		emailSvc.AssertExpectations(t)
	})

	t.Run("duplicate detected before admit", func(t *testing.T) {
		oppRepo, regRepo, _, _, svc := newRegistrationFixture()

		regRepo.On("Exists", ctx, "user-1", key).Return(true, nil).Once()

		_, err := svc.Register(ctx, testSession, brigadeRef)
		assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)
		oppRepo.AssertNotCalled(t, "Admit", mock.Anything, mock.Anything)
	})

	t.Run("capacity exceeded", func(t *testing.T) {
		oppRepo, regRepo, _, _, svc := newRegistrationFixture()

		regRepo.On("Exists", ctx, "user-1", key).Return(false, nil).Once()
		oppRepo.On("Admit", ctx, brigadeRef).Return(domain.ErrCapacityExceeded).Once()

		_, err := svc.Register(ctx, testSession, brigadeRef)
		assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
		regRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("contention retried then succeeds", func(t *testing.T) {
		oppRepo, regRepo, profRepo, emailSvc, svc := newRegistrationFixture()

		regRepo.On("Exists", ctx, "user-1", key).Return(false, nil).Once()
		oppRepo.On("Admit", ctx, brigadeRef).Return(domain.ErrContention).Twice()
		oppRepo.On("Admit", ctx, brigadeRef).Return(nil).Once()
		profRepo.On("GetByUID", ctx, "user-1").Return(nil, domain.ErrNotFound).Once()
		regRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		oppRepo.On("Get", ctx, brigadeRef).Return(&domain.Opportunity{Ref: brigadeRef, Title: "Flood Relief"}, nil).Once()
		emailSvc.On("SendRegistrationConfirmation", ctx, "u1@test.com", "", "Flood Relief").Return(nil).Once()

		_, err := svc.Register(ctx, testSession, brigadeRef)
		require.NoError(t, err)
		oppRepo.AssertExpectations(t)
	})

	t.Run("contention budget exhausted", func(t *testing.T) {
		oppRepo, regRepo, _, _, svc := newRegistrationFixture()

		regRepo.On("Exists", ctx, "user-1", key).Return(false, nil).Once()
		oppRepo.On("Admit", ctx, brigadeRef).Return(domain.ErrContention).Times(admitAttempts)

		_, err := svc.Register(ctx, testSession, brigadeRef)
		assert.ErrorIs(t, err, domain.ErrContention)
		regRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate race compensates the counter", func(t *testing.T) {
		oppRepo, regRepo, profRepo, _, svc := newRegistrationFixture()

		regRepo.On("Exists", ctx, "user-1", key).Return(false, nil).Once()
		oppRepo.On("Admit", ctx, brigadeRef).Return(nil).Once()
		profRepo.On("GetByUID", ctx, "user-1").Return(nil, domain.ErrNotFound).Once()
		regRepo.On("Create", ctx, mock.Anything).Return(domain.ErrAlreadyRegistered).Once()
		oppRepo.On("Withdraw", ctx, brigadeRef).Return(nil).Once()

		_, err := svc.Register(ctx, testSession, brigadeRef)
		assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)
		oppRepo.AssertExpectations(t)
	})

	t.Run("ledger write failure compensates the counter", func(t *testing.T) {
		oppRepo, regRepo, profRepo, _, svc := newRegistrationFixture()

		storeDown := errors.New("store unavailable")
		regRepo.On("Exists", ctx, "user-1", key).Return(false, nil).Once()
		oppRepo.On("Admit", ctx, brigadeRef).Return(nil).Once()
		profRepo.On("GetByUID", ctx, "user-1").Return(nil, domain.ErrNotFound).Once()
		regRepo.On("Create", ctx, mock.Anything).Return(storeDown).Once()
		oppRepo.On("Withdraw", ctx, brigadeRef).Return(nil).Once()

		_, err := svc.Register(ctx, testSession, brigadeRef)
		assert.ErrorIs(t, err, storeDown)
		oppRepo.AssertExpectations(t)
	})

	t.Run("invalid ref", func(t *testing.T) {
		_, _, _, _, svc := newRegistrationFixture()
		_, err := svc.Register(ctx, testSession, domain.OpportunityRef{Kind: domain.OpportunityBrigade})
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("email failure does not fail registration", func(t *testing.T) {
		oppRepo, regRepo, profRepo, emailSvc, svc := newRegistrationFixture()

		regRepo.On("Exists", ctx, "user-1", key).Return(false, nil).Once()
		oppRepo.On("Admit", ctx, brigadeRef).Return(nil).Once()
		profRepo.On("GetByUID", ctx, "user-1").Return(nil, domain.ErrNotFound).Once()
		regRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		oppRepo.On("Get", ctx, brigadeRef).Return(&domain.Opportunity{Ref: brigadeRef, Title: "Flood Relief"}, nil).Once()
		emailSvc.On("SendRegistrationConfirmation", ctx, "u1@test.com", "", "Flood Relief").Return(errors.New("smtp down")).Once()

		_, err := svc.Register(ctx, testSession, brigadeRef)
		assert.NoError(t, err)
	})
}

func TestWithdraw(t *testing.T) {
	ctx := context.Background()
	key := brigadeRef.Key()

	t.Run("happy path", func(t *testing.T) {
		oppRepo, regRepo, _, _, svc := newRegistrationFixture()

		regRepo.On("Delete", ctx, "user-1", key).Return(nil).Once()
		oppRepo.On("Withdraw", ctx, brigadeRef).Return(nil).Once()

		err := svc.Withdraw(ctx, domain.Session{UID: "user-1"}, brigadeRef)
		assert.NoError(t, err)
		oppRepo.AssertExpectations(t)
	})

	t.Run("not registered", func(t *testing.T) {
		oppRepo, regRepo, _, _, svc := newRegistrationFixture()

		regRepo.On("Delete", ctx, "user-1", key).Return(domain.ErrNotRegistered).Once()

		err := svc.Withdraw(ctx, domain.Session{UID: "user-1"}, brigadeRef)
		assert.ErrorIs(t, err, domain.ErrNotRegistered)
		oppRepo.AssertNotCalled(t, "Withdraw", mock.Anything, mock.Anything)
	})

	t.Run("counter failure is tolerated", func(t *testing.T) {
		oppRepo, regRepo, _, _, svc := newRegistrationFixture()

		regRepo.On("Delete", ctx, "user-1", key).Return(nil).Once()
		oppRepo.On("Withdraw", ctx, brigadeRef).Return(errors.New("store unavailable")).Once()

		// The ledger record is gone, so the withdrawal stands.
		err := svc.Withdraw(ctx, domain.Session{UID: "user-1"}, brigadeRef)
		assert.NoError(t, err)
	})
}

func TestIsRegistered(t *testing.T) {
	ctx := context.Background()
	key := brigadeRef.Key()

	_, regRepo, _, _, svc := newRegistrationFixture()
	regRepo.On("Exists", ctx, "user-1", key).Return(true, nil).Once()

	registered, err := svc.IsRegistered(ctx, testSession, brigadeRef)
	require.NoError(t, err)
	assert.True(t, registered)

	_, err = svc.IsRegistered(ctx, testSession, domain.OpportunityRef{Kind: domain.OpportunityBrigade})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// TestConcurrentRegistrationsThroughService drives the full service flow
// against the real in-memory store: more contenders than slots, every
// winner gets a ledger record, and the counter lands exactly on capacity.
func TestConcurrentRegistrationsThroughService(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewRegistrationService(
		store.OpportunityRepository,
		store.RegistrationRepository,
		store.ProfileRepository,
		nil,
	)

	const capacity = 5
	const contenders = 25

	rs := &domain.RiskSituation{
		Name:    "Flood Relief",
		Brigade: domain.VolunteerGroup{Enabled: true, Capacity: capacity},
	}
	require.NoError(t, store.RiskSituationRepository.Create(ctx, rs))
	ref := domain.OpportunityRef{Kind: domain.OpportunityBrigade, SituationID: rs.ID}

	var wg sync.WaitGroup
	results := make(chan error, contenders)
	for i := 0; i < contenders; i++ {
		session := domain.Session{UID: fmt.Sprintf("user-%d", i)}
		wg.Add(1)
		go func(s domain.Session) {
			defer wg.Done()
			_, err := svc.Register(ctx, s, ref)
			results <- err
		}(session)
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
		}
	}
	assert.Equal(t, capacity, succeeded)

	o, err := store.OpportunityRepository.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, capacity, o.Registered)

	count, err := store.RegistrationRepository.CountByOpportunity(ctx, ref.Key())
	require.NoError(t, err)
	assert.Equal(t, capacity, count)
}
