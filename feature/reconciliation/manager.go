package reconciliation

import (
	"context"
	"errors"

	"reconciler/core/logger"
	"reconciler/core/metrics"
	"reconciler/core/queue"
	"reconciler/feature/reconciliation/models"

	"go.uber.org/zap"
)

// QueueStatus describes the state of the job queue.
type QueueStatus struct {
	Size             int  `json:"queue_size"`
	Capacity         int  `json:"capacity"`
	ProcessorRunning bool `json:"processor_running"`
}

// Manager composes the queue and the processor. One instance exists per process.
type Manager struct {
	repo      Repository
	queue     *queue.Queue
	processor *Processor
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewManager creates a manager around an existing queue and processor.
func NewManager(repo Repository, q *queue.Queue, processor *Processor, m *metrics.Metrics, logger *zap.Logger) *Manager {
	return &Manager{
		repo:      repo,
		queue:     q,
		processor: processor,
		metrics:   m,
		logger:    logger,
	}
}

// Start starts the processor.
func (m *Manager) Start(ctx context.Context) {
	m.processor.Start(ctx)
}

// Stop stops the processor. It is safe to call more than once.
func (m *Manager) Stop() error {
	return m.processor.Stop()
}

// Submit enqueues jobID and advances the job from pending to queued. It
// returns false when the queue stayed saturated for the whole submit timeout
// or when the job does not exist; the job status is then left unchanged.
func (m *Manager) Submit(ctx context.Context, jobID string) bool {
	l := logger.WithJob(m.logger, jobID)

	if !m.queue.Submit(ctx, jobID) {
		m.metrics.QueueRejections.Inc()
		l.Warn("Job queue is full, submission rejected", zap.Int("capacity", m.queue.Cap()))
		return false
	}
	m.metrics.QueueDepth.Set(float64(m.queue.Len()))

	moved, err := m.repo.TransitionJob(ctx, jobID, models.StatusQueued, models.StatusPending)
	if err != nil {
		// The id is already queued; the worker accepts pending jobs as well.
		l.Error("Failed to mark job queued", zap.Error(err))
		return true
	}
	if !moved {
		if _, err := m.repo.GetJob(ctx, jobID); errors.Is(err, ErrJobNotFound) {
			l.Warn("Submitted job does not exist")
			return false
		}
	}

	l.Info("Job queued", zap.Int("queue_size", m.queue.Len()))
	return true
}

// Status returns the queue size and capacity and whether the processor runs.
func (m *Manager) Status() QueueStatus {
	return QueueStatus{
		Size:             m.queue.Len(),
		Capacity:         m.queue.Cap(),
		ProcessorRunning: m.processor.Running(),
	}
}
