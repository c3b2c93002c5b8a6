// Package memory is an in-process implementation of the document-store
// repositories. It backs local development and tests; production uses the
// firestore package. All mutations happen under one mutex, which gives the
// same per-document serialization guarantee the real store provides.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"relief-coordination-backend/internal/domain"
	"relief-coordination-backend/internal/logger"
)

// db is the shared in-memory state behind all repositories.
type db struct {
	mu sync.Mutex

	situations      map[string]*domain.RiskSituation
	activities      map[string]*domain.Activity
	registrations   map[string]*domain.Registration // keyed userID + "/" + opportunityKey
	profiles        map[string]*domain.Profile
	predefinedItems []domain.DonationItem

	watchers map[int]chan []domain.Opportunity
	watchSeq int
}

func regKey(userID, opportunityKey string) string {
	return userID + "/" + opportunityKey
}

// counter returns pointers to the capacity and registered fields addressed
// by ref. Callers must hold d.mu.
func (d *db) counter(ref domain.OpportunityRef) (capacity, registered *int, err error) {
	switch ref.Kind {
	case domain.OpportunityBrigade, domain.OpportunityNursing:
		rs, ok := d.situations[ref.SituationID]
		if !ok {
			return nil, nil, domain.ErrNotFound
		}
		group := &rs.Brigade
		if ref.Kind == domain.OpportunityNursing {
			group = &rs.Nursing
		}
		if !group.Enabled {
			return nil, nil, domain.ErrNotFound
		}
		return &group.Capacity, &group.Registered, nil
	case domain.OpportunityTransport:
		rs, ok := d.situations[ref.SituationID]
		if !ok {
			return nil, nil, domain.ErrNotFound
		}
		for i := range rs.TransportRoutes {
			if rs.TransportRoutes[i].ID == ref.RouteID {
				return &rs.TransportRoutes[i].Capacity, &rs.TransportRoutes[i].Registered, nil
			}
		}
		return nil, nil, domain.ErrNotFound
	case domain.OpportunityActivity:
		a, ok := d.activities[ref.ActivityID]
		if !ok {
			return nil, nil, domain.ErrNotFound
		}
		return &a.Capacity, &a.Registered, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidState, ref.Kind)
	}
}

func (d *db) opportunitiesLocked() []domain.Opportunity {
	var out []domain.Opportunity
	ids := make([]string, 0, len(d.situations))
	for id := range d.situations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		out = append(out, d.situations[id].Opportunities()...)
	}
	ids = ids[:0]
	for id := range d.activities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		out = append(out, d.activities[id].Opportunity())
	}
	return out
}

func (d *db) broadcastLocked() {
	snapshot := d.opportunitiesLocked()
	for _, ch := range d.watchers {
		select {
		case ch <- snapshot:
		default:
			// Slow subscriber: drop this update, the next one carries the
			// full snapshot anyway.
		}
	}
}

// --- opportunityRepository ---

type opportunityRepository struct{ d *db }

func (r *opportunityRepository) Admit(ctx context.Context, ref domain.OpportunityRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	capacity, registered, err := r.d.counter(ref)
	if err != nil {
		return err
	}
	ok, err := domain.CanAdmit(*capacity, *registered)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrCapacityExceeded
	}
	*registered++
	r.d.broadcastLocked()
	return nil
}

func (r *opportunityRepository) Withdraw(ctx context.Context, ref domain.OpportunityRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	_, registered, err := r.d.counter(ref)
	if err != nil {
		return err
	}
	if *registered <= 0 {
		logger.Anomaly("withdraw on non-positive counter", "opportunity", ref.Key(), "registered", *registered)
		return nil
	}
	*registered--
	r.d.broadcastLocked()
	return nil
}

func (r *opportunityRepository) Reconcile(ctx context.Context, ref domain.OpportunityRef, registered int) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	if registered < 0 {
		return domain.ErrInvalidState
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	_, current, err := r.d.counter(ref)
	if err != nil {
		return err
	}
	if *current == registered {
		return nil
	}
	*current = registered
	r.d.broadcastLocked()
	return nil
}

func (r *opportunityRepository) Get(ctx context.Context, ref domain.OpportunityRef) (*domain.Opportunity, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	for _, o := range r.d.opportunitiesLocked() {
		if o.Ref == ref {
			out := o
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *opportunityRepository) List(ctx context.Context) ([]domain.Opportunity, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	return r.d.opportunitiesLocked(), nil
}

func (r *opportunityRepository) Watch(ctx context.Context) (<-chan []domain.Opportunity, <-chan error) {
	updates := make(chan []domain.Opportunity, 8)
	errs := make(chan error, 1)

	r.d.mu.Lock()
	id := r.d.watchSeq
	r.d.watchSeq++
	r.d.watchers[id] = updates
	// Initial snapshot so subscribers render immediately.
	updates <- r.d.opportunitiesLocked()
	r.d.mu.Unlock()

	go func() {
		<-ctx.Done()
		r.d.mu.Lock()
		delete(r.d.watchers, id)
		r.d.mu.Unlock()
		close(updates)
		close(errs)
	}()

	return updates, errs
}

// --- registrationRepository ---

type registrationRepository struct{ d *db }

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	key := regKey(reg.UserID, reg.OpportunityKey)
	if _, exists := r.d.registrations[key]; exists {
		return domain.ErrAlreadyRegistered
	}
	cp := *reg
	r.d.registrations[key] = &cp
	return nil
}

func (r *registrationRepository) Delete(ctx context.Context, userID, opportunityKey string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	key := regKey(userID, opportunityKey)
	if _, exists := r.d.registrations[key]; !exists {
		return domain.ErrNotRegistered
	}
	delete(r.d.registrations, key)
	return nil
}

func (r *registrationRepository) Exists(ctx context.Context, userID, opportunityKey string) (bool, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	_, exists := r.d.registrations[regKey(userID, opportunityKey)]
	return exists, nil
}

func (r *registrationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Registration, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	var out []domain.Registration
	for _, reg := range r.d.registrations {
		if reg.UserID == userID {
			out = append(out, *reg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegisteredAt.Before(out[j].RegisteredAt) })
	return out, nil
}

func (r *registrationRepository) CountByOpportunity(ctx context.Context, opportunityKey string) (int, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	count := 0
	for _, reg := range r.d.registrations {
		if reg.OpportunityKey == opportunityKey {
			count++
		}
	}
	return count, nil
}
