package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"reconciler/core/dataset"
	"reconciler/core/logger"
	"reconciler/core/metrics"
	"reconciler/core/queue"
	"reconciler/core/reconcile"
	"reconciler/core/staging"
	"reconciler/feature/reconciliation/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Processor is the single background worker draining the job queue. Jobs run
// one at a time, in submission order.
type Processor struct {
	repo    Repository
	queue   *queue.Queue
	stager  staging.Stager
	metrics *metrics.Metrics
	logger  *zap.Logger
	cfg     queue.Config

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewProcessor creates a stopped processor.
func NewProcessor(repo Repository, q *queue.Queue, stager staging.Stager, m *metrics.Metrics, logger *zap.Logger, cfg queue.Config) *Processor {
	return &Processor{
		repo:    repo,
		queue:   q,
		stager:  stager,
		metrics: m,
		logger:  logger,
		cfg:     cfg.WithDefaults(),
	}
}

// Start launches the worker goroutine. Starting a running processor is a no-op.
func (p *Processor) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != nil {
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	go p.run(ctx, p.done)
	p.logger.Info("Job processor started")
}

// Stop signals the worker and waits up to the configured stop timeout for it
// to exit. A job in flight is allowed to finish; no new job is started.
// After a timeout the processor still counts as running until the worker
// exits, so Start cannot launch a second one. Stopping a stopped processor is
// a no-op.
func (p *Processor) Stop() error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	if done == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
	case <-time.After(p.cfg.StopTimeout):
		return fmt.Errorf("job processor did not stop within %s", p.cfg.StopTimeout)
	}

	p.mu.Lock()
	if p.done == done {
		p.cancel, p.done = nil, nil
	}
	p.mu.Unlock()
	return nil
}

// Running reports whether the worker has been started and not stopped.
func (p *Processor) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done != nil
}

func (p *Processor) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for ctx.Err() == nil {
		if err := p.next(ctx); err != nil {
			p.logger.Error("Job processor loop error", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(p.cfg.ErrorBackoff):
			}
		}
	}
	p.logger.Info("Job processor stopped")
}

// next waits for one job id and processes it. Cancellation of ctx stops the
// wait but never a job already dequeued.
func (p *Processor) next(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered panic: %v", r)
		}
	}()

	id, ok := p.queue.Dequeue(ctx, p.cfg.PollTimeout)
	if !ok {
		return nil
	}
	defer p.queue.MarkDone()
	p.metrics.QueueDepth.Set(float64(p.queue.Len()))

	p.Process(context.WithoutCancel(ctx), id)
	return nil
}

// Process runs one job to completion. Failures are recorded on the job and
// never returned.
func (p *Processor) Process(ctx context.Context, jobID string) {
	l := logger.WithJob(p.logger, jobID)
	start := time.Now()

	job, err := p.repo.GetJob(ctx, jobID)
	if errors.Is(err, ErrJobNotFound) {
		l.Error("Job not found, discarding")
		return
	}
	if err != nil {
		p.fail(ctx, l, jobID, err, start)
		return
	}

	moved, err := p.repo.TransitionJob(ctx, jobID, models.StatusProcessing, models.StatusPending, models.StatusQueued)
	if err != nil {
		p.fail(ctx, l, jobID, err, start)
		return
	}
	if !moved {
		l.Warn("Job is not runnable, skipping", zap.String("status", string(job.Status)))
		return
	}
	l.Info("Processing job", zap.String("source", job.SourceFileName), zap.String("target", job.TargetFileName))

	summary, err := p.execute(ctx, l, job)
	if err == nil {
		err = p.repo.CompleteJob(ctx, jobID, summary)
	}
	if err != nil {
		p.fail(ctx, l, jobID, err, start)
		return
	}

	elapsed := time.Since(start)
	p.metrics.JobsProcessed.WithLabelValues(string(models.StatusCompleted)).Inc()
	p.metrics.JobDuration.Observe(elapsed.Seconds())
	l.Info("Job completed",
		zap.Int("matched", summary.MatchedRecords),
		zap.Int("unmatched_source", summary.UnmatchedSourceRecords),
		zap.Int("unmatched_target", summary.UnmatchedTargetRecords),
		zap.Float64("match_percentage", summary.MatchPercentage),
		zap.Duration("duration", elapsed))

	if err := p.stager.Cleanup(ctx, jobID); err != nil {
		l.Warn("Failed to clean up staged inputs", zap.Error(err))
	}
}

// execute reads, validates and reconciles the job inputs and stores the
// result rows. A panic is reported as an error so the job still fails cleanly.
func (p *Processor) execute(ctx context.Context, l *zap.Logger, job *models.Job) (summary reconcile.Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected error while processing job: %v", r)
		}
	}()

	source, target, err := p.readInputs(ctx, job)
	if err != nil {
		return summary, err
	}
	l.Debug("Inputs loaded", zap.Int("source_rows", len(source)), zap.Int("target_rows", len(target)))

	var schema *reconcile.Schema
	if job.Ruleset != nil {
		if schema, err = job.Ruleset.Schema(); err != nil {
			return summary, err
		}
	}

	if issues := reconcile.ValidateDataset(source, target, schema); len(issues) > 0 {
		p.metrics.ValidationIssues.Add(float64(countIssues(issues)))
		return summary, &reconcile.ValidationError{Issues: issues}
	}

	outcome, err := reconcile.Reconcile(source, target, schema)
	if err != nil {
		return summary, err
	}

	if err := p.repo.SaveResults(ctx, models.ResultsFromOutcome(job.ID, outcome)); err != nil {
		return summary, err
	}
	return reconcile.Summarize(job.SourceRecordCount, job.TargetRecordCount, outcome), nil
}

// readInputs loads both staged files concurrently.
func (p *Processor) readInputs(ctx context.Context, job *models.Job) (source, target []reconcile.Row, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := p.readInput(gctx, job.SourceFilePath, "source")
		source = rows
		return err
	})
	g.Go(func() error {
		rows, err := p.readInput(gctx, job.TargetFilePath, "target")
		target = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read input files: %v", reconcile.ErrInputRead, err)
	}
	return source, target, nil
}

func (p *Processor) readInput(ctx context.Context, path, side string) ([]reconcile.Row, error) {
	if path == "" {
		return nil, fmt.Errorf("%s file was not staged", side)
	}
	rc, err := p.stager.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	table, err := dataset.ReadNamed(rc, path)
	if err != nil {
		return nil, fmt.Errorf("%s file: %w", side, err)
	}
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("%s file has no data rows", side)
	}
	return table.Rows, nil
}

// fail records cause on the job. Errors while recording are only logged.
func (p *Processor) fail(ctx context.Context, l *zap.Logger, jobID string, cause error, start time.Time) {
	elapsed := time.Since(start)
	l.Error("Job failed", zap.Error(cause), zap.Duration("duration", elapsed))
	p.metrics.JobsProcessed.WithLabelValues(string(models.StatusFailed)).Inc()
	p.metrics.JobDuration.Observe(elapsed.Seconds())

	if err := p.repo.FailJob(ctx, jobID, cause.Error()); err != nil {
		l.Error("Failed to record job failure", zap.Error(err))
	}
}

func countIssues(issues []reconcile.ValidationIssue) int {
	n := 0
	for _, issue := range issues {
		if !issue.Truncated {
			n++
		}
	}
	return n
}
