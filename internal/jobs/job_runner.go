package jobs

import (
	"relief-coordination-backend/internal/config"
	"relief-coordination-backend/internal/logger"
	"relief-coordination-backend/internal/repository"
	"relief-coordination-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	opportunities repository.OpportunityRepository
	registrations repository.RegistrationRepository
	situations    repository.RiskSituationRepository
	email         service.EmailService
	config        *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(
	opportunities repository.OpportunityRepository,
	registrations repository.RegistrationRepository,
	situations repository.RiskSituationRepository,
	email service.EmailService,
	cfg *config.Config,
) *JobRunner {
	return &JobRunner{
		opportunities: opportunities,
		registrations: registrations,
		situations:    situations,
		email:         email,
		config:        cfg,
	}
}

// Config exposes the configuration for the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Finished job", "job", jobName)
}
