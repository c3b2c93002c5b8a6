package domain

import "time"

// Registration joins a user to an opportunity. At most one exists per
// (user, opportunity) pair. The ledger copy is authoritative; the mirrors on
// the user profile and on the opportunity are audit copies.
type Registration struct {
	ID             string         `json:"id" firestore:"id"`
	UserID         string         `json:"user_id" firestore:"user_id"`
	UserName       string         `json:"user_name,omitempty" firestore:"user_name,omitempty"`
	UserEmail      string         `json:"user_email,omitempty" firestore:"user_email,omitempty"`
	Opportunity    OpportunityRef `json:"opportunity" firestore:"opportunity"`
	OpportunityKey string         `json:"opportunity_key" firestore:"opportunity_key"`
	RegisteredAt   time.Time      `json:"registered_at" firestore:"registered_at"`
}
