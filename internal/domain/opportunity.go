package domain

import (
	"fmt"
	"strings"
)

type OpportunityKind string

const (
	OpportunityBrigade   OpportunityKind = "BRIGADE"
	OpportunityNursing   OpportunityKind = "NURSING"
	OpportunityTransport OpportunityKind = "TRANSPORT"
	OpportunityActivity  OpportunityKind = "ACTIVITY"
)

// OpportunityRef addresses a single capacity-bounded slot group. Brigade and
// nursing groups are embedded in a risk situation, transport routes are
// sub-resources of one, and activities stand alone. Each ref owns exactly
// one counter; refs never share counters.
type OpportunityRef struct {
	Kind        OpportunityKind `json:"kind"`
	SituationID string          `json:"situation_id,omitempty"`
	RouteID     string          `json:"route_id,omitempty"`
	ActivityID  string          `json:"activity_id,omitempty"`
}

// Key returns the stable identity used to key registrations.
func (r OpportunityRef) Key() string {
	switch r.Kind {
	case OpportunityTransport:
		return fmt.Sprintf("%s:%s:%s", r.Kind, r.SituationID, r.RouteID)
	case OpportunityActivity:
		return fmt.Sprintf("%s:%s", r.Kind, r.ActivityID)
	default:
		return fmt.Sprintf("%s:%s", r.Kind, r.SituationID)
	}
}

func (r OpportunityRef) Validate() error {
	switch r.Kind {
	case OpportunityBrigade, OpportunityNursing:
		if r.SituationID == "" {
			return fmt.Errorf("%w: %s ref requires situation_id", ErrInvalidState, r.Kind)
		}
	case OpportunityTransport:
		if r.SituationID == "" || r.RouteID == "" {
			return fmt.Errorf("%w: transport ref requires situation_id and route_id", ErrInvalidState)
		}
	case OpportunityActivity:
		if r.ActivityID == "" {
			return fmt.Errorf("%w: activity ref requires activity_id", ErrInvalidState)
		}
	default:
		return fmt.Errorf("%w: unknown opportunity kind %q", ErrInvalidState, r.Kind)
	}
	return nil
}

// ParseOpportunityKey is the inverse of Key.
func ParseOpportunityKey(key string) (OpportunityRef, error) {
	parts := strings.Split(key, ":")
	var ref OpportunityRef
	switch {
	case len(parts) == 3 && parts[0] == string(OpportunityTransport):
		ref = OpportunityRef{Kind: OpportunityTransport, SituationID: parts[1], RouteID: parts[2]}
	case len(parts) == 2 && parts[0] == string(OpportunityActivity):
		ref = OpportunityRef{Kind: OpportunityActivity, ActivityID: parts[1]}
	case len(parts) == 2:
		ref = OpportunityRef{Kind: OpportunityKind(parts[0]), SituationID: parts[1]}
	default:
		return OpportunityRef{}, fmt.Errorf("%w: malformed opportunity key %q", ErrInvalidState, key)
	}
	if err := ref.Validate(); err != nil {
		return OpportunityRef{}, err
	}
	return ref, nil
}

type OpportunityState string

const (
	OpportunityOpen OpportunityState = "OPEN"
	OpportunityFull OpportunityState = "FULL"
)

// Opportunity is the read-side view of one slot group. State is derived
// from the counters on every read, never persisted.
type Opportunity struct {
	Ref        OpportunityRef `json:"ref"`
	Title      string         `json:"title"`
	Location   string         `json:"location,omitempty"`
	Capacity   int            `json:"capacity"`
	Registered int            `json:"registered"`
}

func (o Opportunity) Available() int {
	if n := o.Capacity - o.Registered; n > 0 {
		return n
	}
	return 0
}

func (o Opportunity) State() OpportunityState {
	if o.Available() > 0 {
		return OpportunityOpen
	}
	return OpportunityFull
}
