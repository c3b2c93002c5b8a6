package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	httpapi "relief-coordination-backend/internal/api/http"
	"relief-coordination-backend/internal/config"
	"relief-coordination-backend/internal/logger"
	"relief-coordination-backend/internal/repository"
	firestorerepo "relief-coordination-backend/internal/repository/firestore"
	"relief-coordination-backend/internal/repository/memory"
	"relief-coordination-backend/internal/repository/postgres"
	"relief-coordination-backend/internal/security"
	"relief-coordination-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Relief Coordination Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Store configuration", "type", cfg.Store.Type)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize relational database for the account API
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")
	pgStore := postgres.NewStore(db)

	// Initialize the document store and identity verifier
	var (
		oppRepo  repository.OpportunityRepository
		regRepo  repository.RegistrationRepository
		sitRepo  repository.RiskSituationRepository
		actRepo  repository.ActivityRepository
		profRepo repository.ProfileRepository
		verifier security.IdentityVerifier
	)
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	switch cfg.Store.Type {
	case "firestore":
		var opts []option.ClientOption
		if cfg.Firebase.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
		}
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, opts...)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase app: %v", err)
		}
		client, err := app.Firestore(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize Firestore client: %v", err)
		}
		defer client.Close()
		authClient, err := app.Auth(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase auth: %v", err)
		}
		fs := firestorerepo.NewStore(client)
		oppRepo, regRepo, sitRepo = fs.OpportunityRepository, fs.RegistrationRepository, fs.RiskSituationRepository
		actRepo, profRepo = fs.ActivityRepository, fs.ProfileRepository
		verifier = security.NewFirebaseVerifier(authClient)
		logger.Info("Using Firestore document store", "project_id", cfg.Firebase.ProjectID)
	default:
		ms := memory.NewStore()
		oppRepo, regRepo, sitRepo = ms.OpportunityRepository, ms.RegistrationRepository, ms.RiskSituationRepository
		actRepo, profRepo = ms.ActivityRepository, ms.ProfileRepository
		verifier = security.NewLocalVerifier(tokenManager)
		logger.Info("Using in-memory document store")
	}

	// Initialize Email Service
	var emailSvc service.EmailService
	if cfg.Email.APIKey != "" {
		emailSvc = service.NewEmailService(cfg.Email.APIKey, cfg.Email.From, cfg.Email.FromName)
	} else {
		logger.Info("No email API key configured, outbound mail disabled")
		emailSvc = service.NewNoopEmailService()
	}

	// Initialize Services
	registrationSvc := service.NewRegistrationService(oppRepo, regRepo, profRepo, emailSvc)
	catalogSvc := service.NewCatalogService(oppRepo)
	situationSvc := service.NewRiskSituationService(sitRepo, regRepo)
	activitySvc := service.NewActivityService(actRepo, regRepo)
	donationSvc := service.NewDonationService(sitRepo)
	profileSvc := service.NewProfileService(profRepo)
	accountSvc := service.NewAccountService(pgStore.AccountRepository)

	// The catalog keeps itself current from the store's change feed.
	go catalogSvc.Run(ctx)

	server := httpapi.NewServer(
		registrationSvc,
		catalogSvc,
		situationSvc,
		activitySvc,
		donationSvc,
		profileSvc,
		accountSvc,
		verifier,
		tokenManager,
	)

	httpServer := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
