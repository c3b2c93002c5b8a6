package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"relief-coordination-backend/internal/domain"
)

func (s *Server) handleGetOwnProfile(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	p, err := s.profiles.Get(r.Context(), session, session.UID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	var p domain.Profile
	if !decodeBody(w, r, &p) {
		return
	}
	if err := s.profiles.Upsert(r.Context(), sessionFrom(r), &p); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.Get(r.Context(), sessionFrom(r), mux.Vars(r)["uid"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
