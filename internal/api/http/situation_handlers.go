package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"relief-coordination-backend/internal/domain"
)

func (s *Server) handleListSituations(w http.ResponseWriter, r *http.Request) {
	situations, err := s.situations.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if situations == nil {
		situations = []domain.RiskSituation{}
	}
	writeJSON(w, http.StatusOK, situations)
}

func (s *Server) handleGetSituation(w http.ResponseWriter, r *http.Request) {
	rs, err := s.situations.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

func (s *Server) handleCreateSituation(w http.ResponseWriter, r *http.Request) {
	var rs domain.RiskSituation
	if !decodeBody(w, r, &rs) {
		return
	}
	if err := s.situations.Create(r.Context(), sessionFrom(r), &rs); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rs)
}

func (s *Server) handleUpdateSituation(w http.ResponseWriter, r *http.Request) {
	var rs domain.RiskSituation
	if !decodeBody(w, r, &rs) {
		return
	}
	rs.ID = mux.Vars(r)["id"]
	if err := s.situations.Update(r.Context(), sessionFrom(r), &rs); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

func (s *Server) handleDeleteSituation(w http.ResponseWriter, r *http.Request) {
	if err := s.situations.Delete(r.Context(), sessionFrom(r), mux.Vars(r)["id"]); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type donateRequest struct {
	Amount int `json:"amount"`
}

func (s *Server) handleDonate(w http.ResponseWriter, r *http.Request) {
	var req donateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	if err := s.donations.Donate(r.Context(), vars["id"], vars["itemID"], req.Amount); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (s *Server) handleListPredefinedItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.situations.ListPredefinedItems(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if items == nil {
		items = []domain.DonationItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreatePredefinedItem(w http.ResponseWriter, r *http.Request) {
	var item domain.DonationItem
	if !decodeBody(w, r, &item) {
		return
	}
	if err := s.situations.CreatePredefinedItem(r.Context(), sessionFrom(r), &item); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}
