package reconciliation

import (
	"context"
	"fmt"
	"time"

	"reconciler/core/metrics"
	"reconciler/core/queue"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper periodically reports jobs stuck in processing. It never changes them;
// requeueing a stale job is left to an operator.
type Sweeper struct {
	repo       Repository
	metrics    *metrics.Metrics
	logger     *zap.Logger
	staleAfter time.Duration
	schedule   string
	cron       *cron.Cron
	now        func() time.Time
}

// NewSweeper creates a sweeper using the stale threshold and schedule of cfg.
func NewSweeper(repo Repository, m *metrics.Metrics, logger *zap.Logger, cfg queue.Config) *Sweeper {
	cfg = cfg.WithDefaults()
	return &Sweeper{
		repo:       repo,
		metrics:    m,
		logger:     logger,
		staleAfter: cfg.StaleAfter,
		schedule:   cfg.SweepSchedule,
		now:        time.Now,
	}
}

// Start schedules the sweep. An empty schedule disables it.
func (s *Sweeper) Start() error {
	if s.schedule == "" {
		s.logger.Info("Stale job sweeper disabled")
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(s.schedule, func() {
		if _, err := s.Sweep(context.Background()); err != nil {
			s.logger.Error("Stale job sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}

	s.cron = c
	c.Start()
	s.logger.Info("Stale job sweeper started", zap.String("schedule", s.schedule), zap.Duration("stale_after", s.staleAfter))
	return nil
}

// Stop stops the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.cron = nil
}

// Sweep logs every stale job and returns how many were found.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	jobs, err := s.repo.ListStaleJobs(ctx, s.now().Add(-s.staleAfter))
	if err != nil {
		return 0, err
	}

	for _, job := range jobs {
		s.logger.Warn("Job stuck in processing",
			zap.String("job_id", job.ID),
			zap.Time("updated_at", job.UpdatedAt),
			zap.Duration("stale_for", s.now().Sub(job.UpdatedAt)))
	}
	s.metrics.StaleJobs.Set(float64(len(jobs)))
	return len(jobs), nil
}
