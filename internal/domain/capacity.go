package domain

import "fmt"

// CanAdmit reports whether one more participant fits under capacity.
// Zero capacity always rejects. Equality rejects: a counter already at
// capacity means the opportunity is full. Negative inputs are a caller bug
// and surface as ErrInvalidState rather than being clamped.
func CanAdmit(capacity, registered int) (bool, error) {
	if capacity < 0 || registered < 0 {
		return false, fmt.Errorf("%w: capacity=%d registered=%d", ErrInvalidState, capacity, registered)
	}
	return registered < capacity, nil
}
