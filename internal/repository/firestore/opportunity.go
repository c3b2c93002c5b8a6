package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"relief-coordination-backend/internal/domain"
	"relief-coordination-backend/internal/logger"
)

type opportunityRepository struct {
	client *firestore.Client
}

func (r *opportunityRepository) Admit(ctx context.Context, ref domain.OpportunityRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	logger.StoreCall("admit", ref.Key())
	if ref.Kind == domain.OpportunityActivity {
		return mapErr(r.admitActivity(ctx, ref))
	}
	return mapErr(r.admitSituation(ctx, ref))
}

func (r *opportunityRepository) admitSituation(ctx context.Context, ref domain.OpportunityRef) error {
	doc := r.client.Collection(situationsCollection).Doc(ref.SituationID)
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(doc)
		if err != nil {
			return err
		}
		var rs domain.RiskSituation
		if err := snap.DataTo(&rs); err != nil {
			return err
		}
		capacity, registered, err := situationCounter(&rs, ref)
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
		return tx.Update(doc, []firestore.Update{counterUpdate(&rs, ref)})
	}, firestore.MaxAttempts(maxTxAttempts))
}

func (r *opportunityRepository) admitActivity(ctx context.Context, ref domain.OpportunityRef) error {
	doc := r.client.Collection(activitiesCollection).Doc(ref.ActivityID)
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(doc)
		if err != nil {
			return err
		}
		var a domain.Activity
		if err := snap.DataTo(&a); err != nil {
			return err
		}
		ok, err := domain.CanAdmit(a.Capacity, a.Registered)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrCapacityExceeded
		}
		return tx.Update(doc, []firestore.Update{{Path: "registered", Value: a.Registered + 1}})
	}, firestore.MaxAttempts(maxTxAttempts))
}

func (r *opportunityRepository) Withdraw(ctx context.Context, ref domain.OpportunityRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	logger.StoreCall("withdraw", ref.Key())
	if ref.Kind == domain.OpportunityActivity {
		return mapErr(r.withdrawActivity(ctx, ref))
	}
	return mapErr(r.withdrawSituation(ctx, ref))
}

func (r *opportunityRepository) withdrawSituation(ctx context.Context, ref domain.OpportunityRef) error {
	doc := r.client.Collection(situationsCollection).Doc(ref.SituationID)
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(doc)
		if err != nil {
			return err
		}
		var rs domain.RiskSituation
		if err := snap.DataTo(&rs); err != nil {
			return err
		}
		_, registered, err := situationCounter(&rs, ref)
		if err != nil {
			return err
		}
		if *registered <= 0 {
			logger.Anomaly("withdraw on non-positive counter", "opportunity", ref.Key(), "registered", *registered)
			return nil
		}
		*registered--
		return tx.Update(doc, []firestore.Update{counterUpdate(&rs, ref)})
	}, firestore.MaxAttempts(maxTxAttempts))
}

func (r *opportunityRepository) withdrawActivity(ctx context.Context, ref domain.OpportunityRef) error {
	doc := r.client.Collection(activitiesCollection).Doc(ref.ActivityID)
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(doc)
		if err != nil {
			return err
		}
		var a domain.Activity
		if err := snap.DataTo(&a); err != nil {
			return err
		}
		if a.Registered <= 0 {
			logger.Anomaly("withdraw on non-positive counter", "opportunity", ref.Key(), "registered", a.Registered)
			return nil
		}
		return tx.Update(doc, []firestore.Update{{Path: "registered", Value: a.Registered - 1}})
	}, firestore.MaxAttempts(maxTxAttempts))
}

func (r *opportunityRepository) Reconcile(ctx context.Context, ref domain.OpportunityRef, registered int) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	if registered < 0 {
		return domain.ErrInvalidState
	}
	logger.StoreCall("reconcile", ref.Key())

	if ref.Kind == domain.OpportunityActivity {
		doc := r.client.Collection(activitiesCollection).Doc(ref.ActivityID)
		err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
			if _, err := tx.Get(doc); err != nil {
				return err
			}
			return tx.Update(doc, []firestore.Update{{Path: "registered", Value: registered}})
		}, firestore.MaxAttempts(maxTxAttempts))
		return mapErr(err)
	}

	doc := r.client.Collection(situationsCollection).Doc(ref.SituationID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(doc)
		if err != nil {
			return err
		}
		var rs domain.RiskSituation
		if err := snap.DataTo(&rs); err != nil {
			return err
		}
		_, current, err := situationCounter(&rs, ref)
		if err != nil {
			return err
		}
		*current = registered
		return tx.Update(doc, []firestore.Update{counterUpdate(&rs, ref)})
	}, firestore.MaxAttempts(maxTxAttempts))
	return mapErr(err)
}

func (r *opportunityRepository) Get(ctx context.Context, ref domain.OpportunityRef) (*domain.Opportunity, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if ref.Kind == domain.OpportunityActivity {
		snap, err := r.client.Collection(activitiesCollection).Doc(ref.ActivityID).Get(ctx)
		if err != nil {
			return nil, mapErr(err)
		}
		var a domain.Activity
		if err := snap.DataTo(&a); err != nil {
			return nil, err
		}
		o := a.Opportunity()
		return &o, nil
	}

	snap, err := r.client.Collection(situationsCollection).Doc(ref.SituationID).Get(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	var rs domain.RiskSituation
	if err := snap.DataTo(&rs); err != nil {
		return nil, err
	}
	for _, o := range rs.Opportunities() {
		if o.Ref == ref {
			out := o
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *opportunityRepository) List(ctx context.Context) ([]domain.Opportunity, error) {
	var out []domain.Opportunity

	iter := r.client.Collection(situationsCollection).Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, mapErr(err)
		}
		var rs domain.RiskSituation
		if err := snap.DataTo(&rs); err != nil {
			return nil, err
		}
		out = append(out, rs.Opportunities()...)
	}

	actIter := r.client.Collection(activitiesCollection).Documents(ctx)
	defer actIter.Stop()
	for {
		snap, err := actIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, mapErr(err)
		}
		var a domain.Activity
		if err := snap.DataTo(&a); err != nil {
			return nil, err
		}
		out = append(out, a.Opportunity())
	}
	return out, nil
}

// watchEvent carries one decoded collection snapshot from a listener
// goroutine to the merger.
type watchEvent struct {
	situations []domain.RiskSituation
	activities []domain.Activity
	fromActs   bool
	err        error
}

// Watch merges the change feeds of both backing collections into a single
// snapshot stream. The first combined snapshot is emitted once both
// listeners have delivered their initial state.
func (r *opportunityRepository) Watch(ctx context.Context) (<-chan []domain.Opportunity, <-chan error) {
	updates := make(chan []domain.Opportunity, 8)
	errs := make(chan error, 1)

	events := make(chan watchEvent)
	go r.pumpSituations(ctx, events)
	go r.pumpActivities(ctx, events)

	go func() {
		defer close(updates)
		defer close(errs)

		var (
			situations []domain.RiskSituation
			activities []domain.Activity
			haveSits   bool
			haveActs   bool
		)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-events:
				if ev.err != nil {
					select {
					case errs <- ev.err:
					default:
					}
					return
				}
				if ev.fromActs {
					activities, haveActs = ev.activities, true
				} else {
					situations, haveSits = ev.situations, true
				}
				if !haveSits || !haveActs {
					continue
				}
				var snapshot []domain.Opportunity
				for i := range situations {
					snapshot = append(snapshot, situations[i].Opportunities()...)
				}
				for i := range activities {
					snapshot = append(snapshot, activities[i].Opportunity())
				}
				select {
				case updates <- snapshot:
				default:
					// Slow subscriber: drop this update, the next one
					// carries the full snapshot anyway.
				}
			}
		}
	}()

	return updates, errs
}

func (r *opportunityRepository) pumpSituations(ctx context.Context, events chan<- watchEvent) {
	snaps := r.client.Collection(situationsCollection).Snapshots(ctx)
	defer snaps.Stop()
	for {
		qs, err := snaps.Next()
		if err != nil {
			if status.Code(err) == codes.Canceled || ctx.Err() != nil {
				return
			}
			select {
			case events <- watchEvent{err: err}:
			case <-ctx.Done():
			}
			return
		}
		docs, err := qs.Documents.GetAll()
		if err != nil {
			select {
			case events <- watchEvent{err: err}:
			case <-ctx.Done():
			}
			return
		}
		var situations []domain.RiskSituation
		for _, docSnap := range docs {
			var rs domain.RiskSituation
			if err := docSnap.DataTo(&rs); err != nil {
				logger.Anomaly("undecodable situation document", "doc", docSnap.Ref.ID, "error", err)
				continue
			}
			situations = append(situations, rs)
		}
		select {
		case events <- watchEvent{situations: situations}:
		case <-ctx.Done():
			return
		}
	}
}

func (r *opportunityRepository) pumpActivities(ctx context.Context, events chan<- watchEvent) {
	snaps := r.client.Collection(activitiesCollection).Snapshots(ctx)
	defer snaps.Stop()
	for {
		qs, err := snaps.Next()
		if err != nil {
			if status.Code(err) == codes.Canceled || ctx.Err() != nil {
				return
			}
			select {
			case events <- watchEvent{err: err}:
			case <-ctx.Done():
			}
			return
		}
		docs, err := qs.Documents.GetAll()
		if err != nil {
			select {
			case events <- watchEvent{err: err}:
			case <-ctx.Done():
			}
			return
		}
		var activities []domain.Activity
		for _, docSnap := range docs {
			var a domain.Activity
			if err := docSnap.DataTo(&a); err != nil {
				logger.Anomaly("undecodable activity document", "doc", docSnap.Ref.ID, "error", err)
				continue
			}
			activities = append(activities, a)
		}
		select {
		case events <- watchEvent{activities: activities, fromActs: true}:
		case <-ctx.Done():
			return
		}
	}
}
