package reconciliation

import (
	"context"
	"errors"
	"testing"

	"reconciler/core/database"
	"reconciler/core/queue"
	"reconciler/core/reconcile"
	"reconciler/feature/reconciliation/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestRepository_RulesetLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	rs := &models.Ruleset{
		Name:     "payments",
		MatchKey: "id",
		Fields: []models.RulesetField{
			{FieldName: "id", DataType: "string", IsRequired: true},
			{FieldName: "amount", DataType: "float"},
		},
	}
	require.NoError(t, repo.CreateRuleset(ctx, rs))
	require.NotEmpty(t, rs.ID)

	got, err := repo.GetRuleset(ctx, rs.ID)
	require.NoError(t, err)
	require.Len(t, got.Fields, 2)
	assert.Equal(t, "id", got.Fields[0].FieldName)
	assert.Equal(t, "amount", got.Fields[1].FieldName)

	dup := &models.Ruleset{Name: "payments", MatchKey: "ref"}
	assert.ErrorIs(t, repo.CreateRuleset(ctx, dup), ErrRulesetExists)

	replacement := &models.Ruleset{
		ID:       rs.ID,
		Name:     "payments v2",
		MatchKey: "ref",
		Fields: []models.RulesetField{
			{FieldName: "ref", DataType: "integer", IsRequired: true},
			{FieldName: "paid", DataType: "boolean"},
			{FieldName: "note", DataType: "string"},
		},
	}
	require.NoError(t, repo.ReplaceRuleset(ctx, replacement))

	got, err = repo.GetRuleset(ctx, rs.ID)
	require.NoError(t, err)
	assert.Equal(t, "payments v2", got.Name)
	assert.Equal(t, "ref", got.MatchKey)
	require.Len(t, got.Fields, 3)
	assert.Equal(t, []string{"ref", "paid", "note"}, []string{got.Fields[0].FieldName, got.Fields[1].FieldName, got.Fields[2].FieldName})

	list, err := repo.ListRulesets(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Fields, 3)

	require.NoError(t, repo.DeleteRuleset(ctx, rs.ID))
	_, err = repo.GetRuleset(ctx, rs.ID)
	assert.ErrorIs(t, err, ErrRulesetNotFound)
	assert.ErrorIs(t, repo.DeleteRuleset(ctx, rs.ID), ErrRulesetNotFound)
	assert.ErrorIs(t, repo.ReplaceRuleset(ctx, replacement), ErrRulesetNotFound)

	var fieldCount int64
	require.NoError(t, repo.db.Model(&models.RulesetField{}).Count(&fieldCount).Error)
	assert.Zero(t, fieldCount)
}

func TestRepository_ReplaceRulesetNameConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	a := &models.Ruleset{Name: "a", MatchKey: "id"}
	b := &models.Ruleset{Name: "b", MatchKey: "id"}
	require.NoError(t, repo.CreateRuleset(ctx, a))
	require.NoError(t, repo.CreateRuleset(ctx, b))

	assert.ErrorIs(t, repo.ReplaceRuleset(ctx, &models.Ruleset{ID: b.ID, Name: "a", MatchKey: "id"}), ErrRulesetExists)
	assert.NoError(t, repo.ReplaceRuleset(ctx, &models.Ruleset{ID: b.ID, Name: "b", MatchKey: "key"}))
}

// TestRepository_DeleteRulesetKeepsJobs tests that jobs outlive their ruleset.
func TestRepository_DeleteRulesetKeepsJobs(t *testing.T) {
	f := newFixture(t, queue.Config{})
	rs := f.paymentsRuleset(t)
	job := f.stageJob(t, rs, paymentsSource, paymentsTarget)

	require.NoError(t, f.repo.DeleteRuleset(context.Background(), rs.ID))

	got := f.job(t, job.ID)
	assert.Nil(t, got.RulesetID)
	assert.Nil(t, got.Ruleset)
}

func TestRepository_TransitionJobIsConditional(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, queue.Config{})
	job := f.stageJob(t, nil, paymentsSource, paymentsTarget)

	moved, err := f.repo.TransitionJob(ctx, job.ID, models.StatusQueued, models.StatusPending)
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = f.repo.TransitionJob(ctx, job.ID, models.StatusQueued, models.StatusPending)
	require.NoError(t, err)
	assert.False(t, moved)

	moved, err = f.repo.TransitionJob(ctx, job.ID, models.StatusProcessing, models.StatusPending, models.StatusQueued)
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = f.repo.TransitionJob(ctx, job.ID, models.StatusQueued, models.StatusPending)
	require.NoError(t, err)
	assert.False(t, moved, "a late pending to queued write cannot regress the job")
	assert.Equal(t, models.StatusProcessing, f.job(t, job.ID).Status)

	moved, err = f.repo.TransitionJob(ctx, "missing", models.StatusQueued, models.StatusPending)
	require.NoError(t, err)
	assert.False(t, moved)
}

func TestRepository_CompleteAndFailJob(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, queue.Config{})
	job := f.stageJob(t, nil, paymentsSource, paymentsTarget)

	assert.Error(t, f.repo.CompleteJob(ctx, job.ID, reconcile.Summary{}), "only processing jobs complete")

	_, err := f.repo.TransitionJob(ctx, job.ID, models.StatusProcessing, models.StatusPending)
	require.NoError(t, err)
	require.NoError(t, f.repo.CompleteJob(ctx, job.ID, reconcile.Summary{MatchedRecords: 4, MatchPercentage: 80}))

	got := f.job(t, job.ID)
	assert.Equal(t, models.StatusCompleted, got.Status)
	require.NotNil(t, got.ResultSummary)
	assert.Equal(t, 4, got.ResultSummary.MatchedRecords)
	assert.Equal(t, 80.0, got.ResultSummary.MatchPercentage)

	require.NoError(t, f.repo.FailJob(ctx, job.ID, "too late"))
	assert.Equal(t, models.StatusCompleted, f.job(t, job.ID).Status, "finished jobs are not failed afterwards")

	assert.ErrorIs(t, f.repo.FailJob(ctx, "missing", "boom"), ErrJobNotFound)
}

func TestRepository_GetJobNotFound(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	_, err := repo.GetJob(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestRepository_ListResults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, queue.Config{})
	job := f.stageJob(t, nil, paymentsSource, paymentsTarget)
	other := f.stageJob(t, nil, paymentsSource, paymentsTarget)

	results := []models.Result{
		{JobID: job.ID, ResultType: models.ResultMatched, MatchKey: "a"},
		{JobID: job.ID, ResultType: models.ResultUnmatchedSource, MatchKey: "b"},
		{JobID: job.ID, ResultType: models.ResultMatched, MatchKey: "c"},
		{JobID: other.ID, ResultType: models.ResultMatched, MatchKey: "z"},
	}
	require.NoError(t, f.repo.SaveResults(ctx, results))
	require.NoError(t, f.repo.SaveResults(ctx, nil))

	page, total, err := f.repo.ListResults(ctx, ResultQuery{JobID: job.ID, Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "c", page[0].MatchKey)

	page, total, err = f.repo.ListResults(ctx, ResultQuery{JobID: job.ID, Type: models.ResultMatched, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, []string{"a", "c"}, []string{page[0].MatchKey, page[1].MatchKey})
}

func TestRepository_ListJobs(t *testing.T) {
	f := newFixture(t, queue.Config{})
	rs := f.paymentsRuleset(t)
	f.stageJob(t, rs, paymentsSource, paymentsTarget)
	f.stageJob(t, nil, paymentsSource, paymentsTarget)

	jobs, err := f.repo.ListJobs(context.Background())
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
}

func TestRepository_QueryFailures(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection reset"))
	_, err := repo.GetJob(ctx, "job-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrJobNotFound)
	assert.Contains(t, err.Error(), "failed to load job: connection reset")

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection reset"))
	_, err = repo.ListStaleJobs(ctx, db.NowFunc())
	assert.ErrorContains(t, err, "failed to list stale jobs")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE").WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()
	moved, err := repo.TransitionJob(ctx, "job-1", models.StatusQueued, models.StatusPending)
	assert.False(t, moved)
	assert.ErrorContains(t, err, "failed to update job status: deadlock")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate(t *testing.T) {
	db := newTestDB(t)

	for _, table := range []string{"reconciliation_rulesets", "reconciliation_ruleset_fields", "reconciliation_jobs", "reconciliation_results"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	missing, err := database.MissingColumns(db, "reconciliation_jobs", models.JobColumns)
	require.NoError(t, err)
	assert.Empty(t, missing)
}
