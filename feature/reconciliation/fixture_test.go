package reconciliation

import (
	"context"
	"strings"
	"testing"

	"reconciler/core/database"
	"reconciler/core/metrics"
	"reconciler/core/queue"
	"reconciler/core/staging"
	"reconciler/feature/reconciliation/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	repo      *GormRepository
	queue     *queue.Queue
	stager    *staging.LocalStager
	metrics   *metrics.Metrics
	processor *Processor
	manager   *Manager
	service   *Service
	cfg       queue.Config
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func newFixture(t *testing.T, cfg queue.Config) *fixture {
	return newFixtureWithLogger(t, cfg, zap.NewNop())
}

func newFixtureWithLogger(t *testing.T, cfg queue.Config, l *zap.Logger) *fixture {
	t.Helper()
	cfg = cfg.WithDefaults()
	db := newTestDB(t)
	f := &fixture{
		db:      db,
		repo:    NewRepository(db),
		queue:   queue.NewFromConfig(cfg),
		stager:  staging.NewLocalStager(t.TempDir()),
		metrics: metrics.NewWithRegistry(prometheus.NewRegistry()),
		cfg:     cfg,
	}
	f.processor = NewProcessor(f.repo, f.queue, f.stager, f.metrics, l, cfg)
	f.manager = NewManager(f.repo, f.queue, f.processor, f.metrics, l)
	f.service = NewService(f.repo, f.manager, f.stager, l)
	t.Cleanup(func() { _ = f.processor.Stop() })
	return f
}

// paymentsRuleset is keyed on id with a required float amount and an
// optional boolean active flag.
func (f *fixture) paymentsRuleset(t *testing.T) *models.Ruleset {
	t.Helper()
	rs := &models.Ruleset{
		Name:     "payments",
		MatchKey: "id",
		Fields: []models.RulesetField{
			{FieldName: "id", DataType: "string", IsRequired: true},
			{FieldName: "amount", DataType: "float", IsRequired: true},
			{FieldName: "active", DataType: "boolean"},
		},
	}
	require.NoError(t, f.repo.CreateRuleset(context.Background(), rs))
	return rs
}

// stageJob stages two CSV inputs and creates a pending job over them.
func (f *fixture) stageJob(t *testing.T, rs *models.Ruleset, source, target string) *models.Job {
	t.Helper()
	ctx := context.Background()
	job := &models.Job{
		Status:            models.StatusPending,
		SourceFileName:    "source.csv",
		TargetFileName:    "target.csv",
		SourceRecordCount: intPtr(strings.Count(strings.TrimSpace(source), "\n")),
		TargetRecordCount: intPtr(strings.Count(strings.TrimSpace(target), "\n")),
	}
	require.NoError(t, f.repo.CreateJob(ctx, job))
	if rs != nil {
		require.NoError(t, f.db.Model(job).Update("ruleset_id", rs.ID).Error)
	}

	var err error
	job.SourceFilePath, err = f.stager.Stage(ctx, job.ID, "source.csv", strings.NewReader(source))
	require.NoError(t, err)
	job.TargetFilePath, err = f.stager.Stage(ctx, job.ID, "target.csv", strings.NewReader(target))
	require.NoError(t, err)
	require.NoError(t, f.db.Model(job).Updates(map[string]any{
		"source_file_path": job.SourceFilePath,
		"target_file_path": job.TargetFilePath,
	}).Error)
	return job
}

func (f *fixture) job(t *testing.T, id string) *models.Job {
	t.Helper()
	job, err := f.repo.GetJob(context.Background(), id)
	require.NoError(t, err)
	return job
}

func (f *fixture) resultCount(t *testing.T, jobID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.Result{}).Where("job_id = ?", jobID).Count(&n).Error)
	return n
}

const (
	paymentsSource = "id,amount,active\nA1,\"$1,234.56\",yes\nA2,10,no\n"
	paymentsTarget = "id,amount,active\nA1,1234.56,true\nB7,5,yes\n"
)
