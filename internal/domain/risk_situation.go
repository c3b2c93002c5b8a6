package domain

import "fmt"

type DonationCategory string

const (
	DonationEssentials DonationCategory = "ESSENTIALS"
	DonationEmergency  DonationCategory = "EMERGENCY"
	DonationInKind     DonationCategory = "IN_KIND"
)

// DonationItem is a requested donation category. Quantifiable items track a
// received amount against an optional limit; over-collection is allowed, so
// Current may legitimately exceed Limit. Non-quantifiable items only toggle
// Active.
type DonationItem struct {
	ID           string           `json:"id" firestore:"id"`
	Name         string           `json:"name" firestore:"name"`
	Category     DonationCategory `json:"category" firestore:"category"`
	Quantifiable bool             `json:"quantifiable" firestore:"quantifiable"`
	Unit         string           `json:"unit,omitempty" firestore:"unit,omitempty"`
	Limit        int              `json:"limit,omitempty" firestore:"limit,omitempty"`
	Current      int              `json:"current" firestore:"current"`
	Active       bool             `json:"active" firestore:"active"`
}

// VolunteerGroup is an embedded capacity-bounded group (brigade or nursing).
type VolunteerGroup struct {
	Enabled    bool   `json:"enabled" firestore:"enabled"`
	Capacity   int    `json:"capacity" firestore:"capacity"`
	Registered int    `json:"registered" firestore:"registered"`
	Location   string `json:"location,omitempty" firestore:"location,omitempty"`
}

// TransportRoute is one independent transport slot group. Each route keeps
// its own counter; admits on one route never touch another.
type TransportRoute struct {
	ID         string `json:"id" firestore:"id"`
	PointA     string `json:"point_a" firestore:"point_a"`
	PointB     string `json:"point_b" firestore:"point_b"`
	Capacity   int    `json:"capacity" firestore:"capacity"`
	Registered int    `json:"registered" firestore:"registered"`
}

// RiskSituation is the admin-authored root entity: a disaster event with its
// volunteer groups, transport routes and donation campaigns.
type RiskSituation struct {
	ID                string           `json:"id" firestore:"id"`
	Name              string           `json:"name" firestore:"name"`
	DisasterType      string           `json:"disaster_type" firestore:"disaster_type"`
	AcceptsDonations  bool             `json:"accepts_donations" firestore:"accepts_donations"`
	AcceptsVolunteers bool             `json:"accepts_volunteers" firestore:"accepts_volunteers"`
	MoneyInstructions string           `json:"money_instructions,omitempty" firestore:"money_instructions,omitempty"`
	EssentialItems    []DonationItem   `json:"essential_items,omitempty" firestore:"essential_items,omitempty"`
	EmergencyItems    []DonationItem   `json:"emergency_items,omitempty" firestore:"emergency_items,omitempty"`
	InKindItems       []DonationItem   `json:"in_kind_items,omitempty" firestore:"in_kind_items,omitempty"`
	Brigade           VolunteerGroup   `json:"brigade" firestore:"brigade"`
	Nursing           VolunteerGroup   `json:"nursing" firestore:"nursing"`
	TransportRoutes   []TransportRoute `json:"transport_routes,omitempty" firestore:"transport_routes,omitempty"`
	CreatedOn         string           `json:"created_on" firestore:"created_on"`
}

// CarryCounters overwrites the counters in rs with the live values from
// stored. Counters and the creation stamp belong to the registration flow,
// never to an admin edit: routes stored does not know start at zero, and a
// capacity now below its live count is rejected. Stores call this inside the
// same transactional hold that writes the document, so an edit can never
// land a stale counter.
func (rs *RiskSituation) CarryCounters(stored *RiskSituation) error {
	rs.Brigade.Registered = stored.Brigade.Registered
	rs.Nursing.Registered = stored.Nursing.Registered
	if rs.Brigade.Enabled && rs.Brigade.Capacity < rs.Brigade.Registered {
		return fmt.Errorf("%w: brigade capacity below current registrations", ErrInvalidState)
	}
	if rs.Nursing.Enabled && rs.Nursing.Capacity < rs.Nursing.Registered {
		return fmt.Errorf("%w: nursing capacity below current registrations", ErrInvalidState)
	}
	for i := range rs.TransportRoutes {
		rs.TransportRoutes[i].Registered = 0
		for _, old := range stored.TransportRoutes {
			if old.ID == rs.TransportRoutes[i].ID {
				rs.TransportRoutes[i].Registered = old.Registered
				break
			}
		}
		if rs.TransportRoutes[i].Capacity < rs.TransportRoutes[i].Registered {
			return fmt.Errorf("%w: route capacity below current registrations", ErrInvalidState)
		}
	}
	rs.CreatedOn = stored.CreatedOn
	return nil
}

// Clone returns a deep copy whose slices share nothing with rs.
func (rs *RiskSituation) Clone() *RiskSituation {
	cp := *rs
	cp.EssentialItems = append([]DonationItem(nil), rs.EssentialItems...)
	cp.EmergencyItems = append([]DonationItem(nil), rs.EmergencyItems...)
	cp.InKindItems = append([]DonationItem(nil), rs.InKindItems...)
	cp.TransportRoutes = append([]TransportRoute(nil), rs.TransportRoutes...)
	return &cp
}

// Opportunities expands the situation into its individual slot groups.
func (rs *RiskSituation) Opportunities() []Opportunity {
	var out []Opportunity
	if rs.Brigade.Enabled {
		out = append(out, Opportunity{
			Ref:        OpportunityRef{Kind: OpportunityBrigade, SituationID: rs.ID},
			Title:      rs.Name,
			Location:   rs.Brigade.Location,
			Capacity:   rs.Brigade.Capacity,
			Registered: rs.Brigade.Registered,
		})
	}
	if rs.Nursing.Enabled {
		out = append(out, Opportunity{
			Ref:        OpportunityRef{Kind: OpportunityNursing, SituationID: rs.ID},
			Title:      rs.Name,
			Location:   rs.Nursing.Location,
			Capacity:   rs.Nursing.Capacity,
			Registered: rs.Nursing.Registered,
		})
	}
	for _, rt := range rs.TransportRoutes {
		out = append(out, Opportunity{
			Ref:        OpportunityRef{Kind: OpportunityTransport, SituationID: rs.ID, RouteID: rt.ID},
			Title:      rs.Name,
			Location:   rt.PointA + " - " + rt.PointB,
			Capacity:   rt.Capacity,
			Registered: rt.Registered,
		})
	}
	return out
}
