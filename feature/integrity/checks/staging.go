package checks

import (
	"context"
	"fmt"
	"sort"

	"reconciler/core/staging"

	"go.uber.org/zap"
)

// JobLookup reports whether jobID exists and whether its staged inputs are
// still needed.
type JobLookup func(ctx context.Context, jobID string) (exists, keepInputs bool, err error)

// StagingReport strictly types the result of a staging integrity check.
type StagingReport struct {
	StagedJobs int      `json:"staged_jobs"`
	Orphaned   []string `json:"orphaned"`
}

// CheckStaging lists the staged jobs whose inputs are no longer needed: jobs
// that no longer exist, and jobs for which lookup reports keepInputs false.
func CheckStaging(ctx context.Context, stager staging.Stager, lookup JobLookup) (*StagingReport, error) {
	ids, err := stager.Jobs(ctx)
	if err != nil {
		return nil, err
	}

	report := &StagingReport{StagedJobs: len(ids), Orphaned: []string{}}
	for _, id := range ids {
		exists, keep, err := lookup(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to look up job %s: %w", id, err)
		}
		if !exists || !keep {
			report.Orphaned = append(report.Orphaned, id)
		}
	}
	sort.Strings(report.Orphaned)
	return report, nil
}

// FixStaging removes the staged inputs of the given jobs.
func FixStaging(ctx context.Context, stager staging.Stager, logger *zap.Logger, orphaned []string) error {
	for _, id := range orphaned {
		if err := stager.Cleanup(ctx, id); err != nil {
			logger.Error("Failed to remove staged inputs", zap.String("job_id", id), zap.Error(err))
			return err
		}
		logger.Info("Removed orphaned staged inputs", zap.String("job_id", id))
	}
	return nil
}
