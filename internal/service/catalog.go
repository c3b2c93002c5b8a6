package service

import (
	"context"
	"sync"
	"time"

	"relief-coordination-backend/internal/domain"
	"relief-coordination-backend/internal/logger"
	"relief-coordination-backend/internal/repository"
)

const (
	// resubscribe backoff grows from initial to max, doubling each failure.
	catalogBackoffInitial = time.Second
	catalogBackoffMax     = 30 * time.Second
	// After this many consecutive failures the catalog reports itself
	// degraded instead of serving an arbitrarily stale cache.
	catalogDegradedAfter = 5
)

type catalogService struct {
	repo repository.OpportunityRepository

	mu       sync.RWMutex
	snapshot []domain.Opportunity
	primed   bool
	failures int
}

func NewCatalogService(repo repository.OpportunityRepository) CatalogService {
	return &catalogService{repo: repo}
}

// Run consumes the store's change feed and keeps the cached snapshot
// current, resubscribing with bounded backoff when the stream drops. It
// blocks until ctx is cancelled.
func (s *catalogService) Run(ctx context.Context) {
	backoff := catalogBackoffInitial
	for {
		if ctx.Err() != nil {
			return
		}

		streamCtx, cancel := context.WithCancel(ctx)
		updates, errs := s.repo.Watch(streamCtx)

	consume:
		for {
			select {
			case <-ctx.Done():
				cancel()
				return
			case snapshot, ok := <-updates:
				if !ok {
					break consume
				}
				s.store(snapshot)
				backoff = catalogBackoffInitial
			case err, ok := <-errs:
				if ok && err != nil {
					logger.Warn("catalog subscription failed", "error", err)
				}
				break consume
			}
		}
		cancel()

		s.recordFailure()
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff *= 2; backoff > catalogBackoffMax {
			backoff = catalogBackoffMax
		}
	}
}

func (s *catalogService) store(snapshot []domain.Opportunity) {
	s.mu.Lock()
	s.snapshot = snapshot
	s.primed = true
	s.failures = 0
	s.mu.Unlock()
}

func (s *catalogService) recordFailure() {
	s.mu.Lock()
	s.failures++
	if s.failures == catalogDegradedAfter {
		logger.Error("catalog subscription degraded", "failures", s.failures)
	}
	s.mu.Unlock()
}

func (s *catalogService) Opportunities(ctx context.Context) ([]domain.Opportunity, error) {
	s.mu.RLock()
	primed, failures := s.primed, s.failures
	snapshot := s.snapshot
	s.mu.RUnlock()

	if failures >= catalogDegradedAfter {
		return nil, domain.ErrSubscriptionDown
	}
	if !primed {
		// Cold start: the feed has not delivered yet, read through.
		return s.repo.List(ctx)
	}
	out := make([]domain.Opportunity, len(snapshot))
	copy(out, snapshot)
	return out, nil
}

func (s *catalogService) Opportunity(ctx context.Context, ref domain.OpportunityRef) (*domain.Opportunity, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	all, err := s.Opportunities(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range all {
		if o.Ref == ref {
			out := o
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}
