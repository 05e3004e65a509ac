package integrity

import (
	"context"
	"errors"

	"reconciler/core/staging"
	"reconciler/feature/integrity/checks"
	"reconciler/feature/reconciliation"
	"reconciler/feature/reconciliation/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// schemaModels are the tables the schema check compares against the database.
var schemaModels = []any{models.Ruleset{}, models.RulesetField{}, models.Job{}, models.Result{}}

// Service handles integrity checks.
type Service struct {
	db     *gorm.DB
	repo   reconciliation.Repository
	stager staging.Stager
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(db *gorm.DB, repo reconciliation.Repository, stager staging.Stager, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		repo:   repo,
		stager: stager,
		logger: logger,
	}
}

// CheckSchema compares the reconciliation tables with their models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, schemaModels...)
}

// CheckStaging returns the staged jobs whose inputs can be removed.
func (s *Service) CheckStaging(ctx context.Context) (*checks.StagingReport, error) {
	return checks.CheckStaging(ctx, s.stager, s.lookupJob)
}

// FixStaging removes the staged inputs of orphaned jobs.
func (s *Service) FixStaging(ctx context.Context, orphaned []string) error {
	return checks.FixStaging(ctx, s.stager, s.logger, orphaned)
}

// lookupJob keeps the inputs of jobs that may still run and of failed jobs,
// which stay staged for inspection.
func (s *Service) lookupJob(ctx context.Context, jobID string) (bool, bool, error) {
	job, err := s.repo.GetJob(ctx, jobID)
	if errors.Is(err, reconciliation.ErrJobNotFound) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return true, job.Status != models.StatusCompleted, nil
}
