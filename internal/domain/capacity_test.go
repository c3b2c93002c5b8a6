package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanAdmit(t *testing.T) {
	tests := []struct {
		name       string
		capacity   int
		registered int
		want       bool
		wantErr    bool
	}{
		{"open slot", 10, 4, true, false},
		{"last slot", 10, 9, true, false},
		{"full", 10, 10, false, false},
		{"over capacity", 10, 11, false, false},
		{"zero capacity", 0, 0, false, false},
		{"negative capacity", -1, 0, false, true},
		{"negative registered", 5, -1, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanAdmit(tt.capacity, tt.registered)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidState)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpportunityState(t *testing.T) {
	o := Opportunity{Capacity: 2, Registered: 1}
	assert.Equal(t, 1, o.Available())
	assert.Equal(t, OpportunityOpen, o.State())

	o.Registered = 2
	assert.Equal(t, 0, o.Available())
	assert.Equal(t, OpportunityFull, o.State())

	// A drifted counter above capacity still reads as full, never negative.
	o.Registered = 5
	assert.Equal(t, 0, o.Available())
	assert.Equal(t, OpportunityFull, o.State())
}

func TestOpportunityKeyRoundTrip(t *testing.T) {
	refs := []OpportunityRef{
		{Kind: OpportunityBrigade, SituationID: "sit-1"},
		{Kind: OpportunityNursing, SituationID: "sit-1"},
		{Kind: OpportunityTransport, SituationID: "sit-1", RouteID: "route-9"},
		{Kind: OpportunityActivity, ActivityID: "act-3"},
	}
	for _, ref := range refs {
		t.Run(ref.Key(), func(t *testing.T) {
			parsed, err := ParseOpportunityKey(ref.Key())
			assert.NoError(t, err)
			assert.Equal(t, ref, parsed)
		})
	}
}

func TestParseOpportunityKeyRejectsMalformed(t *testing.T) {
	for _, key := range []string{"", "BRIGADE", "UNKNOWN:sit-1", "TRANSPORT:sit-1", "ACTIVITY:"} {
		_, err := ParseOpportunityKey(key)
		assert.ErrorIs(t, err, ErrInvalidState, "key %q", key)
	}
}

func TestCarryCounters(t *testing.T) {
	stored := &RiskSituation{
		ID:      "sit-1",
		Brigade: VolunteerGroup{Enabled: true, Capacity: 10, Registered: 6},
		Nursing: VolunteerGroup{Enabled: true, Capacity: 5, Registered: 2},
		TransportRoutes: []TransportRoute{
			{ID: "r1", Capacity: 4, Registered: 3},
		},
		CreatedOn: "2026-08-01",
	}

	t.Run("live values win over caller values", func(t *testing.T) {
		rs := &RiskSituation{
			ID:      "sit-1",
			Brigade: VolunteerGroup{Enabled: true, Capacity: 12, Registered: 99},
			Nursing: VolunteerGroup{Enabled: true, Capacity: 5},
			TransportRoutes: []TransportRoute{
				{ID: "r1", Capacity: 4, Registered: 0},
			},
		}
		assert.NoError(t, rs.CarryCounters(stored))
		assert.Equal(t, 6, rs.Brigade.Registered)
		assert.Equal(t, 2, rs.Nursing.Registered)
		assert.Equal(t, 3, rs.TransportRoutes[0].Registered)
		assert.Equal(t, "2026-08-01", rs.CreatedOn)
	})

	t.Run("unknown routes start at zero", func(t *testing.T) {
		rs := &RiskSituation{
			ID:      "sit-1",
			Brigade: VolunteerGroup{Enabled: true, Capacity: 10},
			Nursing: VolunteerGroup{Enabled: true, Capacity: 5},
			TransportRoutes: []TransportRoute{
				{ID: "r2", Capacity: 2, Registered: 9},
			},
		}
		assert.NoError(t, rs.CarryCounters(stored))
		assert.Equal(t, 0, rs.TransportRoutes[0].Registered)
	})

	t.Run("capacity below live count is rejected", func(t *testing.T) {
		rs := &RiskSituation{
			ID:      "sit-1",
			Brigade: VolunteerGroup{Enabled: true, Capacity: 3},
			Nursing: VolunteerGroup{Enabled: true, Capacity: 5},
		}
		assert.ErrorIs(t, rs.CarryCounters(stored), ErrInvalidState)

		rs = &RiskSituation{
			ID:      "sit-1",
			Brigade: VolunteerGroup{Enabled: true, Capacity: 10},
			Nursing: VolunteerGroup{Enabled: true, Capacity: 5},
			TransportRoutes: []TransportRoute{
				{ID: "r1", Capacity: 1},
			},
		}
		assert.ErrorIs(t, rs.CarryCounters(stored), ErrInvalidState)
	})
}

func TestCloneSharesNothing(t *testing.T) {
	rs := &RiskSituation{
		ID:              "sit-1",
		EssentialItems:  []DonationItem{{ID: "water", Current: 1}},
		TransportRoutes: []TransportRoute{{ID: "r1", Registered: 1}},
	}
	cp := rs.Clone()
	cp.EssentialItems[0].Current = 100
	cp.TransportRoutes[0].Registered = 100
	assert.Equal(t, 1, rs.EssentialItems[0].Current)
	assert.Equal(t, 1, rs.TransportRoutes[0].Registered)
}

func TestOpportunitiesExpansion(t *testing.T) {
	rs := RiskSituation{
		ID:   "sit-1",
		Name: "Flood Relief",
		Brigade: VolunteerGroup{
			Enabled: true, Capacity: 20, Registered: 3, Location: "North shelter",
		},
		Nursing: VolunteerGroup{Enabled: false, Capacity: 10},
		TransportRoutes: []TransportRoute{
			{ID: "r1", PointA: "Downtown", PointB: "Shelter", Capacity: 4, Registered: 4},
			{ID: "r2", PointA: "Airport", PointB: "Shelter", Capacity: 8},
		},
	}
	opportunities := rs.Opportunities()
	assert.Len(t, opportunities, 3)

	assert.Equal(t, OpportunityBrigade, opportunities[0].Ref.Kind)
	assert.Equal(t, 20, opportunities[0].Capacity)

	// Disabled nursing group is not an opportunity.
	for _, o := range opportunities {
		assert.NotEqual(t, OpportunityNursing, o.Ref.Kind)
	}

	assert.Equal(t, "r1", opportunities[1].Ref.RouteID)
	assert.Equal(t, OpportunityFull, opportunities[1].State())
	assert.Equal(t, "r2", opportunities[2].Ref.RouteID)
	assert.Equal(t, OpportunityOpen, opportunities[2].State())
}
