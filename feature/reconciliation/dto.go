package reconciliation

import (
	"time"

	"reconciler/feature/reconciliation/models"
)

// RulesetFieldRequest declares one field of a ruleset payload.
type RulesetFieldRequest struct {
	FieldName   string `json:"field_name" validate:"required,max=255"`
	DataType    string `json:"data_type" validate:"omitempty,fieldtype"`
	IsRequired  bool   `json:"is_required"`
	Description string `json:"description"`
}

// RulesetRequest is the payload of ruleset create and replace calls.
type RulesetRequest struct {
	Name        string                `json:"name" validate:"required,max=255"`
	Description string                `json:"description"`
	MatchKey    string                `json:"match_key" validate:"required,max=255"`
	Fields      []RulesetFieldRequest `json:"fields" validate:"required,min=1,unique=FieldName,dive"`
}

// RulesetSummary is the list representation of a ruleset.
type RulesetSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	MatchKey    string    `json:"match_key"`
	FieldsCount int       `json:"fields_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// JobView is a job with the name and match key of its ruleset.
type JobView struct {
	models.Job
	RulesetName string `json:"ruleset_name,omitempty"`
	MatchKey    string `json:"match_key,omitempty"`
}

func newJobView(job models.Job) JobView {
	view := JobView{Job: job}
	if job.Ruleset != nil {
		view.RulesetName = job.Ruleset.Name
		view.MatchKey = job.Ruleset.MatchKey
	}
	return view
}

// ResultsPage is one page of job results.
type ResultsPage struct {
	Count    int64           `json:"count"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Results  []models.Result `json:"results"`
}

// UploadValidation reports the header checks of an accepted upload.
type UploadValidation struct {
	RulesetName    string   `json:"ruleset_name"`
	MatchKey       string   `json:"match_key"`
	ExpectedFields []string `json:"expected_fields"`
	RequiredFields []string `json:"required_fields"`
	SourceHeaders  []string `json:"source_headers"`
	TargetHeaders  []string `json:"target_headers"`
	Warnings       []string `json:"warnings"`
}

// SubmitResult describes a job accepted for processing.
type SubmitResult struct {
	JobID             string           `json:"job_id"`
	RulesetID         string           `json:"ruleset_id"`
	RulesetName       string           `json:"ruleset_name"`
	Status            models.JobStatus `json:"status"`
	SourceRecordCount int              `json:"source_record_count"`
	TargetRecordCount int              `json:"target_record_count"`
	Validation        UploadValidation `json:"validation"`
	Message           string           `json:"message"`
}

// InputFile is an uploaded dataset held in memory.
type InputFile struct {
	Name    string
	Content []byte
}
