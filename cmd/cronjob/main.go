package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"relief-coordination-backend/internal/config"
	"relief-coordination-backend/internal/jobs"
	"relief-coordination-backend/internal/logger"
	"relief-coordination-backend/internal/repository"
	firestorerepo "relief-coordination-backend/internal/repository/firestore"
	"relief-coordination-backend/internal/repository/memory"
	"relief-coordination-backend/internal/scheduler"
	"relief-coordination-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'reconcile-counters', 'send-donation-digest', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Relief Coordination Cronjob Runner...", "log_level", cfg.Log.Level)

	ctx := context.Background()

	// Initialize the document store
	var (
		oppRepo repository.OpportunityRepository
		regRepo repository.RegistrationRepository
		sitRepo repository.RiskSituationRepository
	)
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
		fs := firestorerepo.NewStore(client)
		oppRepo, regRepo, sitRepo = fs.OpportunityRepository, fs.RegistrationRepository, fs.RiskSituationRepository
		logger.Info("Using Firestore document store", "project_id", cfg.Firebase.ProjectID)
	default:
		// Jobs against the in-memory store only make sense for local
		// smoke runs; every invocation starts from an empty store.
		ms := memory.NewStore()
		oppRepo, regRepo, sitRepo = ms.OpportunityRepository, ms.RegistrationRepository, ms.RiskSituationRepository
		logger.Warn("Using in-memory document store, jobs will see no data")
	}

	// Initialize Email Service
	var emailSvc service.EmailService
	if cfg.Email.APIKey != "" {
		emailSvc = service.NewEmailService(cfg.Email.APIKey, cfg.Email.From, cfg.Email.FromName)
	} else {
		logger.Info("No email API key configured, outbound mail disabled")
		emailSvc = service.NewNoopEmailService()
	}

	jobRunner := jobs.NewJobRunner(oppRepo, regRepo, sitRepo, emailSvc, cfg)

	// Run-once mode for manual invocation and container jobs
	if *runOnce != "" {
		switch *runOnce {
		case "reconcile-counters":
			jobRunner.ReconcileCounters()
		case "send-donation-digest":
			jobRunner.SendDonationDigest()
		case "all":
			jobRunner.ReconcileCounters()
			jobRunner.SendDonationDigest()
		default:
			log.Fatalf("Unknown job: %s", *runOnce)
		}
		logger.Info("Run-once complete", "job", *runOnce)
		return
	}

	// Scheduled mode
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info("Shutting down cronjob runner...")
}
