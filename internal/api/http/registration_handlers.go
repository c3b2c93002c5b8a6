package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"relief-coordination-backend/internal/domain"
)

type registerRequest struct {
	Kind        domain.OpportunityKind `json:"kind"`
	SituationID string                 `json:"situation_id,omitempty"`
	RouteID     string                 `json:"route_id,omitempty"`
	ActivityID  string                 `json:"activity_id,omitempty"`
}

func (req registerRequest) ref() domain.OpportunityRef {
	return domain.OpportunityRef{
		Kind:        req.Kind,
		SituationID: req.SituationID,
		RouteID:     req.RouteID,
		ActivityID:  req.ActivityID,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	reg, err := s.registrations.Register(r.Context(), sessionFrom(r), req.ref())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reg)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	ref, err := domain.ParseOpportunityKey(mux.Vars(r)["key"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := s.registrations.Withdraw(r.Context(), sessionFrom(r), ref); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "withdrawn"})
}

func (s *Server) handleIsRegistered(w http.ResponseWriter, r *http.Request) {
	ref, err := domain.ParseOpportunityKey(mux.Vars(r)["key"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	registered, err := s.registrations.IsRegistered(r.Context(), sessionFrom(r), ref)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"registered": registered})
}

func (s *Server) handleMyRegistrations(w http.ResponseWriter, r *http.Request) {
	regs, err := s.registrations.MyRegistrations(r.Context(), sessionFrom(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if regs == nil {
		regs = []domain.Registration{}
	}
	writeJSON(w, http.StatusOK, regs)
}
