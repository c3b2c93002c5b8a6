package memory

import (
	"context"
	"sort"

	"relief-coordination-backend/internal/domain"
	"relief-coordination-backend/internal/repository"

	"github.com/google/uuid"
)

// Store bundles the in-memory repositories over one shared state.
type Store struct {
	repository.OpportunityRepository
	repository.RegistrationRepository
	repository.RiskSituationRepository
	repository.ActivityRepository
	repository.ProfileRepository
}

func NewStore() *Store {
	d := &db{
		situations:    make(map[string]*domain.RiskSituation),
		activities:    make(map[string]*domain.Activity),
		registrations: make(map[string]*domain.Registration),
		profiles:      make(map[string]*domain.Profile),
		watchers:      make(map[int]chan []domain.Opportunity),
	}
	return &Store{
		OpportunityRepository:   &opportunityRepository{d: d},
		RegistrationRepository:  &registrationRepository{d: d},
		RiskSituationRepository: &riskSituationRepository{d: d},
		ActivityRepository:      &activityRepository{d: d},
		ProfileRepository:       &profileRepository{d: d},
	}
}

// --- riskSituationRepository ---

type riskSituationRepository struct{ d *db }

func (r *riskSituationRepository) Create(ctx context.Context, rs *domain.RiskSituation) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if rs.ID == "" {
		rs.ID = uuid.NewString()
	}
	for i := range rs.TransportRoutes {
		if rs.TransportRoutes[i].ID == "" {
			rs.TransportRoutes[i].ID = uuid.NewString()
		}
	}
	r.d.situations[rs.ID] = rs.Clone()
	r.d.broadcastLocked()
	return nil
}

func (r *riskSituationRepository) GetByID(ctx context.Context, id string) (*domain.RiskSituation, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	rs, ok := r.d.situations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rs.Clone(), nil
}

func (r *riskSituationRepository) List(ctx context.Context) ([]domain.RiskSituation, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	ids := make([]string, 0, len(r.d.situations))
	for id := range r.d.situations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]domain.RiskSituation, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.d.situations[id].Clone())
	}
	return out, nil
}

// Update rewrites the situation. The live counters are carried into rs under
// the same lock hold as the write, so admits committing concurrently are
// never erased.
func (r *riskSituationRepository) Update(ctx context.Context, rs *domain.RiskSituation) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	stored, ok := r.d.situations[rs.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if err := rs.CarryCounters(stored); err != nil {
		return err
	}
	r.d.situations[rs.ID] = rs.Clone()
	r.d.broadcastLocked()
	return nil
}

func (r *riskSituationRepository) Delete(ctx context.Context, id string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.situations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.d.situations, id)
	r.d.broadcastLocked()
	return nil
}

func (r *riskSituationRepository) AddDonation(ctx context.Context, situationID, itemID string, amount int) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	rs, ok := r.d.situations[situationID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, items := range [][]domain.DonationItem{rs.EssentialItems, rs.EmergencyItems, rs.InKindItems} {
		for i := range items {
			if items[i].ID == itemID {
				items[i].Current += amount
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (r *riskSituationRepository) ListPredefinedItems(ctx context.Context) ([]domain.DonationItem, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	out := make([]domain.DonationItem, len(r.d.predefinedItems))
	copy(out, r.d.predefinedItems)
	return out, nil
}

func (r *riskSituationRepository) CreatePredefinedItem(ctx context.Context, item *domain.DonationItem) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	r.d.predefinedItems = append(r.d.predefinedItems, *item)
	return nil
}

// --- activityRepository ---

type activityRepository struct{ d *db }

func (r *activityRepository) Create(ctx context.Context, a *domain.Activity) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	cp := *a
	r.d.activities[a.ID] = &cp
	r.d.broadcastLocked()
	return nil
}

func (r *activityRepository) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	a, ok := r.d.activities[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *activityRepository) List(ctx context.Context) ([]domain.Activity, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	ids := make([]string, 0, len(r.d.activities))
	for id := range r.d.activities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]domain.Activity, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.d.activities[id])
	}
	return out, nil
}

// Update rewrites the activity, carrying the live counter into a under the
// same lock hold as the write.
func (r *activityRepository) Update(ctx context.Context, a *domain.Activity) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	stored, ok := r.d.activities[a.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if err := a.CarryCounters(stored); err != nil {
		return err
	}
	cp := *a
	r.d.activities[a.ID] = &cp
	r.d.broadcastLocked()
	return nil
}

func (r *activityRepository) Delete(ctx context.Context, id string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.activities[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.d.activities, id)
	r.d.broadcastLocked()
	return nil
}

// --- profileRepository ---

type profileRepository struct{ d *db }

func (r *profileRepository) Put(ctx context.Context, p *domain.Profile) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	cp := *p
	r.d.profiles[p.UID] = &cp
	return nil
}

func (r *profileRepository) GetByUID(ctx context.Context, uid string) (*domain.Profile, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	p, ok := r.d.profiles[uid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}
