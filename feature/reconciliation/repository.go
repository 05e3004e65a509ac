package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reconciler/core/database"
	"reconciler/core/reconcile"
	"reconciler/feature/reconciliation/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrJobNotFound is returned when no job has the requested id.
	ErrJobNotFound = errors.New("job not found")

	// ErrRulesetNotFound is returned when no ruleset has the requested id.
	ErrRulesetNotFound = errors.New("ruleset not found")

	// ErrRulesetExists is returned when another ruleset already uses the name.
	ErrRulesetExists = errors.New("ruleset name already exists")
)

// ResultQuery selects one page of a job's results.
type ResultQuery struct {
	JobID    string
	Type     models.ResultType // empty selects every type
	Page     int               // 1-based
	PageSize int
}

// Repository persists rulesets, jobs and result rows.
type Repository interface {
	CreateRuleset(ctx context.Context, rs *models.Ruleset) error
	ReplaceRuleset(ctx context.Context, rs *models.Ruleset) error
	DeleteRuleset(ctx context.Context, id string) error
	GetRuleset(ctx context.Context, id string) (*models.Ruleset, error)
	ListRulesets(ctx context.Context) ([]models.Ruleset, error)

	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id string) (*models.Job, error)
	ListJobs(ctx context.Context) ([]models.Job, error)
	// TransitionJob moves the job to status to only when its current status is
	// one of from. It reports whether a row changed.
	TransitionJob(ctx context.Context, id string, to models.JobStatus, from ...models.JobStatus) (bool, error)
	CompleteJob(ctx context.Context, id string, summary reconcile.Summary) error
	FailJob(ctx context.Context, id, message string) error
	ListStaleJobs(ctx context.Context, updatedBefore time.Time) ([]models.Job, error)

	SaveResults(ctx context.Context, results []models.Result) error
	ListResults(ctx context.Context, q ResultQuery) ([]models.Result, int64, error)
}

const resultBatchSize = 500

// GormRepository implements Repository on gorm.
type GormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm backed repository.
func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Migrate creates or updates the reconciliation tables and verifies that the
// job and result tables expose every column the models need.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Ruleset{}, &models.RulesetField{}, &models.Job{}, &models.Result{}); err != nil {
		return fmt.Errorf("failed to migrate reconciliation tables: %w", err)
	}

	expected := map[string][]string{
		models.Job{}.TableName():    models.JobColumns,
		models.Result{}.TableName(): models.ResultColumns,
	}
	for table, columns := range expected {
		missing, err := database.MissingColumns(db, table, columns)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return fmt.Errorf("table %s is missing columns %v", table, missing)
		}
	}
	return nil
}

func orderedFields(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, id ASC")
}

func positionFields(rulesetID string, fields []models.RulesetField) {
	for i := range fields {
		fields[i].ID = 0
		fields[i].RulesetID = rulesetID
		fields[i].Position = i
	}
}

func nameTaken(tx *gorm.DB, name, exceptID string) (bool, error) {
	var count int64
	q := tx.Model(&models.Ruleset{}).Where("name = ?", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check ruleset name: %w", err)
	}
	return count > 0, nil
}

// CreateRuleset inserts rs with its fields, assigning an id when unset.
func (r *GormRepository) CreateRuleset(ctx context.Context, rs *models.Ruleset) error {
	if rs.ID == "" {
		rs.ID = uuid.NewString()
	}
	positionFields(rs.ID, rs.Fields)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := nameTaken(tx, rs.Name, "")
		if err != nil {
			return err
		}
		if taken {
			return ErrRulesetExists
		}
		if err := tx.Create(rs).Error; err != nil {
			return fmt.Errorf("failed to create ruleset: %w", err)
		}
		return nil
	})
}

// ReplaceRuleset overwrites the ruleset attributes and replaces its whole
// field list.
func (r *GormRepository) ReplaceRuleset(ctx context.Context, rs *models.Ruleset) error {
	positionFields(rs.ID, rs.Fields)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Ruleset
		if err := tx.Select("id").First(&existing, "id = ?", rs.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRulesetNotFound
			}
			return fmt.Errorf("failed to load ruleset: %w", err)
		}

		taken, err := nameTaken(tx, rs.Name, rs.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrRulesetExists
		}

		err = tx.Model(&models.Ruleset{ID: rs.ID}).Updates(map[string]any{
			"name":        rs.Name,
			"description": rs.Description,
			"match_key":   rs.MatchKey,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update ruleset: %w", err)
		}

		if err := tx.Where("ruleset_id = ?", rs.ID).Delete(&models.RulesetField{}).Error; err != nil {
			return fmt.Errorf("failed to remove ruleset fields: %w", err)
		}
		if len(rs.Fields) > 0 {
			if err := tx.Create(&rs.Fields).Error; err != nil {
				return fmt.Errorf("failed to create ruleset fields: %w", err)
			}
		}
		return nil
	})
}

// DeleteRuleset removes the ruleset and its fields. Jobs that used it keep
// their history with no ruleset.
func (r *GormRepository) DeleteRuleset(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Job{}).Where("ruleset_id = ?", id).Update("ruleset_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach jobs from ruleset: %w", err)
		}
		if err := tx.Where("ruleset_id = ?", id).Delete(&models.RulesetField{}).Error; err != nil {
			return fmt.Errorf("failed to remove ruleset fields: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Ruleset{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete ruleset: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrRulesetNotFound
		}
		return nil
	})
}

// GetRuleset loads a ruleset with its fields in declaration order.
func (r *GormRepository) GetRuleset(ctx context.Context, id string) (*models.Ruleset, error) {
	var rs models.Ruleset
	err := r.db.WithContext(ctx).Preload("Fields", orderedFields).First(&rs, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRulesetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ruleset: %w", err)
	}
	return &rs, nil
}

// ListRulesets returns every ruleset ordered by name.
func (r *GormRepository) ListRulesets(ctx context.Context) ([]models.Ruleset, error) {
	var list []models.Ruleset
	if err := r.db.WithContext(ctx).Preload("Fields", orderedFields).Order("name").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list rulesets: %w", err)
	}
	return list, nil
}

// CreateJob inserts job without touching its ruleset.
func (r *GormRepository) CreateJob(ctx context.Context, job *models.Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.StatusPending
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// GetJob loads a job together with its ruleset and fields.
func (r *GormRepository) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).
		Preload("Ruleset").
		Preload("Ruleset.Fields", orderedFields).
		First(&job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	return &job, nil
}

// ListJobs returns every job, newest first, with its ruleset.
func (r *GormRepository) ListJobs(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	if err := r.db.WithContext(ctx).Preload("Ruleset").Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// TransitionJob implements Repository.
func (r *GormRepository) TransitionJob(ctx context.Context, id string, to models.JobStatus, from ...models.JobStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update job status: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CompleteJob stores the summary of a processing job and marks it completed.
func (r *GormRepository) CompleteJob(ctx context.Context, id string, summary reconcile.Summary) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ? AND status = ?", id, models.StatusProcessing).
		Updates(models.Job{
			Status:        models.StatusCompleted,
			ResultSummary: &summary,
			CompletedAt:   &now,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to complete job: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("job %s is no longer processing", id)
	}
	return nil
}

// FailJob marks a job that has not finished yet as failed with message.
// Jobs that already completed or failed are left untouched.
func (r *GormRepository) FailJob(ctx context.Context, id, message string) error {
	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ? AND status IN ?", id, []models.JobStatus{models.StatusPending, models.StatusQueued, models.StatusProcessing}).
		Updates(map[string]any{
			"status":        models.StatusFailed,
			"error_message": message,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to mark job failed: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Job{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to load job: %w", err)
	}
	if count == 0 {
		return ErrJobNotFound
	}
	return nil
}

// ListStaleJobs returns jobs still processing whose last update is older than
// updatedBefore.
func (r *GormRepository) ListStaleJobs(ctx context.Context, updatedBefore time.Time) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", models.StatusProcessing, updatedBefore).
		Order("updated_at").
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stale jobs: %w", err)
	}
	return jobs, nil
}

// SaveResults bulk inserts results in batches.
func (r *GormRepository) SaveResults(ctx context.Context, results []models.Result) error {
	if len(results) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(results, resultBatchSize).Error; err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}
	return nil
}

// ListResults returns one page of results ordered by id, and the number of
// results matching the query across all pages.
func (r *GormRepository) ListResults(ctx context.Context, q ResultQuery) ([]models.Result, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("job_id = ?", q.JobID)
		if q.Type != "" {
			db = db.Where("result_type = ?", q.Type)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Result{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count results: %w", err)
	}

	page, size := max(q.Page, 1), max(q.PageSize, 1)
	var results []models.Result
	err := r.db.WithContext(ctx).Scopes(scope).
		Order("id").
		Offset((page - 1) * size).
		Limit(size).
		Find(&results).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list results: %w", err)
	}
	return results, total, nil
}
