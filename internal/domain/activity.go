package domain

import "fmt"

// Activity is a standalone joinable event outside any risk situation.
type Activity struct {
	ID           string `json:"id" firestore:"id"`
	Title        string `json:"title" firestore:"title"`
	Location     string `json:"location" firestore:"location"`
	LocationLink string `json:"location_link,omitempty" firestore:"location_link,omitempty"`
	Date         string `json:"date,omitempty" firestore:"date,omitempty"`
	Time         string `json:"time,omitempty" firestore:"time,omitempty"`
	Capacity     int    `json:"capacity" firestore:"capacity"`
	Registered   int    `json:"registered" firestore:"registered"`
	ImageName    string `json:"image_name,omitempty" firestore:"image_name,omitempty"`
	CreatedOn    string `json:"created_on" firestore:"created_on"`
}

// CarryCounters overwrites the counter in a with the live value from stored,
// rejecting a capacity now below it. Stores call this inside the same
// transactional hold that writes the document.
func (a *Activity) CarryCounters(stored *Activity) error {
	a.Registered = stored.Registered
	if a.Capacity < a.Registered {
		return fmt.Errorf("%w: activity capacity below current registrations", ErrInvalidState)
	}
	a.CreatedOn = stored.CreatedOn
	return nil
}

func (a *Activity) Opportunity() Opportunity {
	return Opportunity{
		Ref:        OpportunityRef{Kind: OpportunityActivity, ActivityID: a.ID},
		Title:      a.Title,
		Location:   a.Location,
		Capacity:   a.Capacity,
		Registered: a.Registered,
	}
}
