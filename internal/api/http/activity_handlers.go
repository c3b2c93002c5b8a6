package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"relief-coordination-backend/internal/domain"
)

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := s.activities.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if activities == nil {
		activities = []domain.Activity{}
	}
	writeJSON(w, http.StatusOK, activities)
}

func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	a, err := s.activities.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	var a domain.Activity
	if !decodeBody(w, r, &a) {
		return
	}
	if err := s.activities.Create(r.Context(), sessionFrom(r), &a); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	var a domain.Activity
	if !decodeBody(w, r, &a) {
		return
	}
	a.ID = mux.Vars(r)["id"]
	if err := s.activities.Update(r.Context(), sessionFrom(r), &a); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	if err := s.activities.Delete(r.Context(), sessionFrom(r), mux.Vars(r)["id"]); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
