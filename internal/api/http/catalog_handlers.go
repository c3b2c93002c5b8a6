package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"relief-coordination-backend/internal/domain"
)

// opportunityView decorates the raw opportunity with its derived state so
// clients need no slot arithmetic of their own.
type opportunityView struct {
	domain.Opportunity
	Key       string                  `json:"key"`
	Available int                     `json:"available"`
	State     domain.OpportunityState `json:"state"`
}

func viewOf(o domain.Opportunity) opportunityView {
	return opportunityView{
		Opportunity: o,
		Key:         o.Ref.Key(),
		Available:   o.Available(),
		State:       o.State(),
	}
}

func (s *Server) handleListOpportunities(w http.ResponseWriter, r *http.Request) {
	opportunities, err := s.catalog.Opportunities(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	views := make([]opportunityView, 0, len(opportunities))
	for _, o := range opportunities {
		views = append(views, viewOf(o))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetOpportunity(w http.ResponseWriter, r *http.Request) {
	ref, err := domain.ParseOpportunityKey(mux.Vars(r)["key"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	o, err := s.catalog.Opportunity(r.Context(), ref)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(*o))
}
