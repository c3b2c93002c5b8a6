package http

import (
	"net/http"
)

type createSessionRequest struct {
	IDToken string `json:"id_token"`
}

type createSessionResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.IDToken == "" {
		writeError(w, http.StatusBadRequest, "id_token is required")
		return
	}
	session, err := s.verifier.Verify(r.Context(), req.IDToken)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid identity token")
		return
	}
	token, err := s.tokens.GenerateSessionToken(session.UID, session.Email, session.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue session token")
		return
	}
	writeJSON(w, http.StatusOK, createSessionResponse{Token: token})
}
