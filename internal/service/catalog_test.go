package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relief-coordination-backend/internal/domain"
	"relief-coordination-backend/internal/repository/memory"
)

func TestCatalogFollowsStoreChanges(t *testing.T) {
	store := memory.NewStore()
	svc := NewCatalogService(store.OpportunityRepository)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Run(ctx)

	rs := &domain.RiskSituation{
		Name:    "Flood Relief",
		Brigade: domain.VolunteerGroup{Enabled: true, Capacity: 10},
	}
	require.NoError(t, store.RiskSituationRepository.Create(context.Background(), rs))
	ref := domain.OpportunityRef{Kind: domain.OpportunityBrigade, SituationID: rs.ID}

	waitFor(t, func() bool {
		opportunities, err := svc.Opportunities(ctx)
		if err != nil {
			return false
		}
		for _, o := range opportunities {
			if o.Ref == ref {
				return true
			}
		}
		return false
	}, "created situation never reached the catalog")

	require.NoError(t, store.OpportunityRepository.Admit(context.Background(), ref))

	waitFor(t, func() bool {
		o, err := svc.Opportunity(ctx, ref)
		return err == nil && o.Registered == 1
	}, "admit never reached the catalog")
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if cond() {
			return
		}
		select {
		case <-deadline:
			t.Fatal(msg)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestCatalogColdStartReadsThrough(t *testing.T) {
	oppRepo := new(MockOpportunityRepo)
	svc := NewCatalogService(oppRepo)
	ctx := context.Background()

	listed := []domain.Opportunity{{Ref: brigadeRef, Title: "Flood Relief", Capacity: 10}}
	oppRepo.On("List", ctx).Return(listed, nil).Once()

	// Run has not delivered a snapshot yet; the read falls through to the
	// store instead of serving nothing.
	opportunities, err := svc.Opportunities(ctx)
	require.NoError(t, err)
	assert.Equal(t, listed, opportunities)
	oppRepo.AssertExpectations(t)
}

func TestCatalogDegradesAfterRepeatedFailures(t *testing.T) {
	svc := NewCatalogService(new(MockOpportunityRepo)).(*catalogService)
	ctx := context.Background()

	svc.store([]domain.Opportunity{{Ref: brigadeRef}})
	for i := 0; i < catalogDegradedAfter; i++ {
		svc.recordFailure()
	}

	_, err := svc.Opportunities(ctx)
	assert.ErrorIs(t, err, domain.ErrSubscriptionDown)

	// A fresh snapshot clears the degraded state.
	svc.store([]domain.Opportunity{{Ref: brigadeRef, Registered: 2}})
	opportunities, err := svc.Opportunities(ctx)
	require.NoError(t, err)
	require.Len(t, opportunities, 1)
	assert.Equal(t, 2, opportunities[0].Registered)
}
