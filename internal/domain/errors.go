package domain

import "errors"

var (
	// ErrAlreadyRegistered is returned when a user registers twice for the
	// same opportunity.
	ErrAlreadyRegistered = errors.New("already registered for this opportunity")

	// ErrNotRegistered is returned when withdrawing without a registration.
	ErrNotRegistered = errors.New("no registration found for this opportunity")

	// ErrCapacityExceeded is returned when an opportunity has no free slots.
	ErrCapacityExceeded = errors.New("opportunity is at full capacity")

	// ErrContention is returned after the bounded retry budget for
	// conflicting concurrent writes is exhausted. Callers may retry.
	ErrContention = errors.New("concurrent update conflict, retry later")

	// ErrInvalidState signals a precondition violation such as a negative
	// capacity. It indicates a programming error, not user input.
	ErrInvalidState = errors.New("invalid state")

	// ErrSubscriptionDown is returned by the catalog when its change feed
	// has degraded past the resubscribe budget.
	ErrSubscriptionDown = errors.New("catalog subscription degraded")

	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")

	// ErrHasRegistrations guards deletion of entities that still have
	// active registrations referencing them.
	ErrHasRegistrations = errors.New("entity still has active registrations")
)
