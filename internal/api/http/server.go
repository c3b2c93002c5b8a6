// Package http exposes the coordination backend over a JSON REST API.
package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"relief-coordination-backend/internal/security"
	"relief-coordination-backend/internal/service"
)

type Server struct {
	registrations service.RegistrationService
	catalog       service.CatalogService
	situations    service.RiskSituationService
	activities    service.ActivityService
	donations     service.DonationService
	profiles      service.ProfileService
	accounts      service.AccountService
	verifier      security.IdentityVerifier
	tokens        security.TokenManager
}

func NewServer(
	registrations service.RegistrationService,
	catalog service.CatalogService,
	situations service.RiskSituationService,
	activities service.ActivityService,
	donations service.DonationService,
	profiles service.ProfileService,
	accounts service.AccountService,
	verifier security.IdentityVerifier,
	tokens security.TokenManager,
) *Server {
	return &Server{
		registrations: registrations,
		catalog:       catalog,
		situations:    situations,
		activities:    activities,
		donations:     donations,
		profiles:      profiles,
		accounts:      accounts,
		verifier:      verifier,
		tokens:        tokens,
	}
}

func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(requestLogging)

	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)

	// Exchanges an identity token for a short-lived session token, so
	// request handling never re-verifies against the identity provider.
	r.HandleFunc("/api/session", s.handleCreateSession).Methods(http.MethodPost)

	// Public catalog and donation reads.
	r.HandleFunc("/api/opportunities", s.handleListOpportunities).Methods(http.MethodGet)
	r.HandleFunc("/api/opportunities/{key}", s.handleGetOpportunity).Methods(http.MethodGet)
	r.HandleFunc("/api/situations", s.handleListSituations).Methods(http.MethodGet)
	r.HandleFunc("/api/situations/{id}", s.handleGetSituation).Methods(http.MethodGet)
	r.HandleFunc("/api/activities", s.handleListActivities).Methods(http.MethodGet)
	r.HandleFunc("/api/activities/{id}", s.handleGetActivity).Methods(http.MethodGet)
	r.HandleFunc("/api/donation-items", s.handleListPredefinedItems).Methods(http.MethodGet)

	// Donating needs no account either.
	r.HandleFunc("/api/situations/{id}/donations/{itemID}", s.handleDonate).Methods(http.MethodPost)

	// Registration ledger, authenticated.
	auth := r.NewRoute().Subrouter()
	auth.Use(s.authenticate)
	auth.HandleFunc("/api/registrations", s.handleRegister).Methods(http.MethodPost)
	auth.HandleFunc("/api/registrations", s.handleMyRegistrations).Methods(http.MethodGet)
	auth.HandleFunc("/api/registrations/{key}", s.handleIsRegistered).Methods(http.MethodGet)
	auth.HandleFunc("/api/registrations/{key}", s.handleWithdraw).Methods(http.MethodDelete)

	auth.HandleFunc("/api/profile", s.handleGetOwnProfile).Methods(http.MethodGet)
	auth.HandleFunc("/api/profile", s.handleUpsertProfile).Methods(http.MethodPut)
	auth.HandleFunc("/api/profiles/{uid}", s.handleGetProfile).Methods(http.MethodGet)

	// Admin surface; the services enforce the role themselves.
	auth.HandleFunc("/api/situations", s.handleCreateSituation).Methods(http.MethodPost)
	auth.HandleFunc("/api/situations/{id}", s.handleUpdateSituation).Methods(http.MethodPut)
	auth.HandleFunc("/api/situations/{id}", s.handleDeleteSituation).Methods(http.MethodDelete)
	auth.HandleFunc("/api/activities", s.handleCreateActivity).Methods(http.MethodPost)
	auth.HandleFunc("/api/activities/{id}", s.handleUpdateActivity).Methods(http.MethodPut)
	auth.HandleFunc("/api/activities/{id}", s.handleDeleteActivity).Methods(http.MethodDelete)
	auth.HandleFunc("/api/donation-items", s.handleCreatePredefinedItem).Methods(http.MethodPost)

	// Minimal relational account API.
	r.HandleFunc("/api/register", s.handleRegisterAccount).Methods(http.MethodPost)
	r.HandleFunc("/api/users", s.handleListAccounts).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{id}", s.handleGetAccount).Methods(http.MethodGet)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
