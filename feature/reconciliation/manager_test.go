package reconciliation

import (
	"context"
	"testing"
	"time"

	"reconciler/core/queue"
	"reconciler/feature/reconciliation/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SubmitQueuesJob(t *testing.T) {
	f := newFixture(t, queue.Config{Capacity: 2})
	job := f.stageJob(t, f.paymentsRuleset(t), paymentsSource, paymentsTarget)

	require.True(t, f.manager.Submit(context.Background(), job.ID))

	assert.Equal(t, models.StatusQueued, f.job(t, job.ID).Status)
	assert.Equal(t, QueueStatus{Size: 1, Capacity: 2, ProcessorRunning: false}, f.manager.Status())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.QueueDepth))
}

// TestManager_SubmitSaturated tests that a full queue rejects after the submit timeout
// and leaves the job status where it was.
func TestManager_SubmitSaturated(t *testing.T) {
	f := newFixture(t, queue.Config{Capacity: 1, SubmitTimeout: 10 * time.Millisecond})
	rs := f.paymentsRuleset(t)
	first := f.stageJob(t, rs, paymentsSource, paymentsTarget)
	second := f.stageJob(t, rs, paymentsSource, paymentsTarget)

	require.True(t, f.manager.Submit(context.Background(), first.ID))
	assert.False(t, f.manager.Submit(context.Background(), second.ID))

	assert.Equal(t, models.StatusPending, f.job(t, second.ID).Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.QueueRejections))
	assert.Equal(t, 1, f.manager.Status().Size)
}

func TestManager_SubmitUnknownJob(t *testing.T) {
	f := newFixture(t, queue.Config{})
	assert.False(t, f.manager.Submit(context.Background(), "missing"))
}

// TestManager_SubmitDoesNotRegressAdvancedJob tests that a job the worker already
// picked up is not moved back to queued.
func TestManager_SubmitDoesNotRegressAdvancedJob(t *testing.T) {
	f := newFixture(t, queue.Config{})
	job := f.stageJob(t, f.paymentsRuleset(t), paymentsSource, paymentsTarget)
	_, err := f.repo.TransitionJob(context.Background(), job.ID, models.StatusProcessing, models.StatusPending)
	require.NoError(t, err)

	assert.True(t, f.manager.Submit(context.Background(), job.ID))
	assert.Equal(t, models.StatusProcessing, f.job(t, job.ID).Status)
}
