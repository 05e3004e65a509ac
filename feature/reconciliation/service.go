package reconciliation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"reconciler/core/dataset"
	"reconciler/core/logger"
	"reconciler/core/reconcile"
	"reconciler/core/staging"
	"reconciler/feature/reconciliation/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100

	// SubmitFailedMessage is recorded on a job the queue refused.
	SubmitFailedMessage = "Failed to submit job to queue"
)

// ErrQueueFull is returned when a created job could not be queued.
var ErrQueueFull = errors.New("failed to submit job to processing queue")

// RequestError is returned for uploads and payloads the service rejects.
type RequestError struct {
	Message string
	Details map[string]string
}

func (e *RequestError) Error() string {
	return e.Message
}

func badRequest(format string, args ...any) error {
	return &RequestError{Message: fmt.Sprintf(format, args...)}
}

// Service implements job submission, job queries and ruleset management.
type Service struct {
	repo     Repository
	manager  *Manager
	stager   staging.Stager
	logger   *zap.Logger
	validate *validator.Validate
}

// NewService creates the reconciliation service.
func NewService(repo Repository, manager *Manager, stager staging.Stager, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		manager:  manager,
		stager:   stager,
		logger:   logger,
		validate: newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("fieldtype", func(fl validator.FieldLevel) bool {
		_, err := reconcile.ParseFieldType(fl.Field().String())
		return err == nil
	})
	return v
}

// SubmitJob checks the uploaded files against the ruleset, stages them,
// creates a pending job and submits it to the queue.
func (s *Service) SubmitJob(ctx context.Context, rulesetID string, source, target InputFile) (*SubmitResult, error) {
	if rulesetID == "" {
		return nil, badRequest("ruleset_id is required")
	}
	for _, f := range []InputFile{source, target} {
		if _, err := dataset.FormatFromName(f.Name); err != nil {
			return nil, badRequest("both files must be CSV or XLSX files")
		}
	}

	rs, err := s.repo.GetRuleset(ctx, rulesetID)
	if errors.Is(err, ErrRulesetNotFound) {
		return nil, badRequest("ruleset not found")
	}
	if err != nil {
		return nil, err
	}

	sourceTable, err := dataset.ReadNamed(bytes.NewReader(source.Content), source.Name)
	if err != nil {
		return nil, badRequest("failed to read source file: %v", err)
	}
	targetTable, err := dataset.ReadNamed(bytes.NewReader(target.Content), target.Name)
	if err != nil {
		return nil, badRequest("failed to read target file: %v", err)
	}

	validation, err := checkHeaders(rs, sourceTable, targetTable)
	if err != nil {
		return nil, err
	}
	for _, w := range validation.Warnings {
		s.logger.Warn("Upload header warning", zap.String("ruleset", rs.Name), zap.String("warning", w))
	}

	jobID := uuid.NewString()
	l := logger.WithJob(s.logger, jobID)

	job := &models.Job{
		ID:                jobID,
		RulesetID:         &rs.ID,
		Status:            models.StatusPending,
		SourceFileName:    source.Name,
		TargetFileName:    target.Name,
		SourceRecordCount: intPtr(len(sourceTable.Rows)),
		TargetRecordCount: intPtr(len(targetTable.Rows)),
	}
	if err := s.stageAndCreate(ctx, job, source, target); err != nil {
		s.discardStaged(ctx, l, jobID)
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	l.Info("Job created",
		zap.String("ruleset", rs.Name),
		zap.Int("source_records", len(sourceTable.Rows)),
		zap.Int("target_records", len(targetTable.Rows)))

	if !s.manager.Submit(ctx, jobID) {
		if err := s.repo.FailJob(ctx, jobID, SubmitFailedMessage); err != nil {
			l.Error("Failed to record submission failure", zap.Error(err))
		}
		s.discardStaged(ctx, l, jobID)
		return nil, ErrQueueFull
	}

	status := models.StatusQueued
	if job, err := s.repo.GetJob(ctx, jobID); err == nil {
		status = job.Status
	}

	return &SubmitResult{
		JobID:             jobID,
		RulesetID:         rs.ID,
		RulesetName:       rs.Name,
		Status:            status,
		SourceRecordCount: len(sourceTable.Rows),
		TargetRecordCount: len(targetTable.Rows),
		Validation:        *validation,
		Message:           "Job queued for processing",
	}, nil
}

// stageAndCreate stages both inputs under the job id and inserts the job with
// the staged paths.
func (s *Service) stageAndCreate(ctx context.Context, job *models.Job, source, target InputFile) error {
	var err error
	job.SourceFilePath, err = s.stager.Stage(ctx, job.ID, stagedName("source", source.Name), bytes.NewReader(source.Content))
	if err != nil {
		return err
	}
	job.TargetFilePath, err = s.stager.Stage(ctx, job.ID, stagedName("target", target.Name), bytes.NewReader(target.Content))
	if err != nil {
		return err
	}
	return s.repo.CreateJob(ctx, job)
}

func (s *Service) discardStaged(ctx context.Context, l *zap.Logger, jobID string) {
	if err := s.stager.Cleanup(ctx, jobID); err != nil {
		l.Warn("Failed to clean up staged inputs", zap.Error(err))
	}
}

// stagedName keeps the extension of the uploaded name so the reader can pick
// the format, and avoids collisions between same-named uploads.
func stagedName(side, uploaded string) string {
	return side + strings.ToLower(filepath.Ext(uploaded))
}

func intPtr(n int) *int {
	return &n
}

// checkHeaders applies the upload header rules of rs to both tables.
func checkHeaders(rs *models.Ruleset, source, target *dataset.Table) (*UploadValidation, error) {
	if len(source.Rows) == 0 {
		return nil, badRequest("source file is empty or invalid")
	}
	if len(target.Rows) == 0 {
		return nil, badRequest("target file is empty or invalid")
	}

	sourceHeaders := toSet(source.Headers)
	targetHeaders := toSet(target.Headers)
	if _, ok := sourceHeaders[rs.MatchKey]; !ok {
		return nil, badRequest("match key '%s' not found in source file headers", rs.MatchKey)
	}
	if _, ok := targetHeaders[rs.MatchKey]; !ok {
		return nil, badRequest("match key '%s' not found in target file headers", rs.MatchKey)
	}

	expected := make(map[string]struct{}, len(rs.Fields))
	var required []string
	for _, f := range rs.Fields {
		expected[f.FieldName] = struct{}{}
		if f.IsRequired {
			required = append(required, f.FieldName)
		}
	}

	var problems []string
	if missing := missingFrom(required, sourceHeaders); len(missing) > 0 {
		problems = append(problems, "source file missing required fields: "+strings.Join(missing, ", "))
	}
	if missing := missingFrom(required, targetHeaders); len(missing) > 0 {
		problems = append(problems, "target file missing required fields: "+strings.Join(missing, ", "))
	}
	if len(problems) > 0 {
		return nil, badRequest("%s", strings.Join(problems, "; "))
	}

	warnings := []string{}
	if extra := missingFrom(source.Headers, expected); len(extra) > 0 {
		warnings = append(warnings, "source file has unexpected fields: "+strings.Join(extra, ", "))
	}
	if extra := missingFrom(target.Headers, expected); len(extra) > 0 {
		warnings = append(warnings, "target file has unexpected fields: "+strings.Join(extra, ", "))
	}

	return &UploadValidation{
		RulesetName:    rs.Name,
		MatchKey:       rs.MatchKey,
		ExpectedFields: sortedSet(expected),
		RequiredFields: sortedCopy(required),
		SourceHeaders:  sortedCopy(source.Headers),
		TargetHeaders:  sortedCopy(target.Headers),
		Warnings:       warnings,
	}, nil
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// missingFrom returns the sorted names not present in set.
func missingFrom(names []string, set map[string]struct{}) []string {
	var out []string
	for _, n := range names {
		if _, ok := set[n]; !ok {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func sortedCopy(names []string) []string {
	out := append([]string{}, names...)
	sort.Strings(out)
	return out
}

// ListJobs returns every job, newest first.
func (s *Service) ListJobs(ctx context.Context) ([]JobView, error) {
	jobs, err := s.repo.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]JobView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, newJobView(job))
	}
	return views, nil
}

// GetJob returns one job.
func (s *Service) GetJob(ctx context.Context, id string) (*JobView, error) {
	job, err := s.repo.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	view := newJobView(*job)
	return &view, nil
}

// ListResults returns one page of a job's results. The page size defaults to
// 50 and is capped at 100. An unknown result type selects every type.
func (s *Service) ListResults(ctx context.Context, jobID string, page, pageSize int, resultType string) (*ResultsPage, error) {
	if _, err := s.repo.GetJob(ctx, jobID); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	pageSize = min(pageSize, maxPageSize)
	rt, _ := models.ParseResultType(resultType)

	results, total, err := s.repo.ListResults(ctx, ResultQuery{JobID: jobID, Type: rt, Page: page, PageSize: pageSize})
	if err != nil {
		return nil, err
	}
	return &ResultsPage{Count: total, Page: page, PageSize: pageSize, Results: results}, nil
}

// QueueStatus reports the queue and processor state.
func (s *Service) QueueStatus() QueueStatus {
	return s.manager.Status()
}

// ListRulesets returns every ruleset with its field count.
func (s *Service) ListRulesets(ctx context.Context) ([]RulesetSummary, error) {
	list, err := s.repo.ListRulesets(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RulesetSummary, 0, len(list))
	for _, rs := range list {
		out = append(out, RulesetSummary{
			ID:          rs.ID,
			Name:        rs.Name,
			Description: rs.Description,
			MatchKey:    rs.MatchKey,
			FieldsCount: len(rs.Fields),
			CreatedAt:   rs.CreatedAt,
			UpdatedAt:   rs.UpdatedAt,
		})
	}
	return out, nil
}

// GetRuleset returns one ruleset with its fields.
func (s *Service) GetRuleset(ctx context.Context, id string) (*models.Ruleset, error) {
	return s.repo.GetRuleset(ctx, id)
}

// CreateRuleset validates req and stores it as a new ruleset.
func (s *Service) CreateRuleset(ctx context.Context, req RulesetRequest) (*models.Ruleset, error) {
	rs, err := s.rulesetFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateRuleset(ctx, rs); err != nil {
		return nil, err
	}
	s.logger.Info("Ruleset created", zap.String("ruleset_id", rs.ID), zap.String("name", rs.Name))
	return s.repo.GetRuleset(ctx, rs.ID)
}

// ReplaceRuleset overwrites the ruleset id with req, fields included.
func (s *Service) ReplaceRuleset(ctx context.Context, id string, req RulesetRequest) (*models.Ruleset, error) {
	rs, err := s.rulesetFromRequest(req)
	if err != nil {
		return nil, err
	}
	rs.ID = id
	if err := s.repo.ReplaceRuleset(ctx, rs); err != nil {
		return nil, err
	}
	s.logger.Info("Ruleset replaced", zap.String("ruleset_id", id), zap.String("name", rs.Name))
	return s.repo.GetRuleset(ctx, id)
}

// DeleteRuleset removes a ruleset and its fields.
func (s *Service) DeleteRuleset(ctx context.Context, id string) error {
	if err := s.repo.DeleteRuleset(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Ruleset deleted", zap.String("ruleset_id", id))
	return nil
}

func (s *Service) rulesetFromRequest(req RulesetRequest) (*models.Ruleset, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationDetails(err)
	}

	rs := &models.Ruleset{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		MatchKey:    strings.TrimSpace(req.MatchKey),
		Fields:      make([]models.RulesetField, 0, len(req.Fields)),
	}
	for _, f := range req.Fields {
		ft := reconcile.FieldString
		if f.DataType != "" {
			ft, _ = reconcile.ParseFieldType(f.DataType)
		}
		rs.Fields = append(rs.Fields, models.RulesetField{
			FieldName:   strings.TrimSpace(f.FieldName),
			DataType:    ft.String(),
			IsRequired:  f.IsRequired,
			Description: f.Description,
		})
	}
	return rs, nil
}

// validationDetails maps validator failures to a field -> tag report.
func validationDetails(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return badRequest("invalid ruleset: %v", err)
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		details[field] = fe.Tag()
	}
	return &RequestError{Message: "invalid ruleset", Details: details}
}
