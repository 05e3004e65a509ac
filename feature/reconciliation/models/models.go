package models

import (
	"fmt"
	"time"

	"reconciler/core/reconcile"
)

// JobStatus is the lifecycle state of a reconciliation job.
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further transition leaves s.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ResultType tags a persisted result row with its outcome bucket.
type ResultType string

const (
	ResultMatched         ResultType = "matched"
	ResultUnmatchedSource ResultType = "unmatched_source"
	ResultUnmatchedTarget ResultType = "unmatched_target"
	// ResultDuplicate is reserved. Duplicate keys resolve last-row-wins and
	// never produce rows of this type.
	ResultDuplicate ResultType = "duplicate"
)

// ResultTypes lists every result type accepted as a filter.
func ResultTypes() []ResultType {
	return []ResultType{ResultMatched, ResultUnmatchedSource, ResultUnmatchedTarget, ResultDuplicate}
}

// ParseResultType validates a result_type filter value.
func ParseResultType(s string) (ResultType, bool) {
	for _, t := range ResultTypes() {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Ruleset is a named schema of typed fields and the match key correlating rows.
type Ruleset struct {
	ID          string         `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Name        string         `gorm:"column:name;type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string         `gorm:"column:description;type:text" json:"description"`
	MatchKey    string         `gorm:"column:match_key;type:varchar(255);not null" json:"match_key"`
	Fields      []RulesetField `gorm:"foreignKey:RulesetID;constraint:OnDelete:CASCADE" json:"fields"`
	CreatedAt   time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name.
func (Ruleset) TableName() string {
	return "reconciliation_rulesets"
}

// Schema converts the ruleset into the engine schema, preserving field order.
func (r *Ruleset) Schema() (*reconcile.Schema, error) {
	schema := &reconcile.Schema{
		Name:     r.Name,
		MatchKey: r.MatchKey,
		Fields:   make([]reconcile.FieldDefinition, 0, len(r.Fields)),
	}
	for _, f := range r.Fields {
		ft, err := reconcile.ParseFieldType(f.DataType)
		if err != nil {
			return nil, fmt.Errorf("%w: field '%s': %v", reconcile.ErrSchema, f.FieldName, err)
		}
		schema.Fields = append(schema.Fields, reconcile.FieldDefinition{
			Name:     f.FieldName,
			Type:     ft,
			Required: f.IsRequired,
		})
	}
	return schema, nil
}

// RulesetField declares one typed field of a ruleset.
type RulesetField struct {
	ID          uint   `gorm:"column:id;primaryKey" json:"-"`
	RulesetID   string `gorm:"column:ruleset_id;type:varchar(36);not null;uniqueIndex:idx_ruleset_field" json:"-"`
	FieldName   string `gorm:"column:field_name;type:varchar(255);not null;uniqueIndex:idx_ruleset_field" json:"field_name"`
	DataType    string `gorm:"column:data_type;type:varchar(20);not null;default:string" json:"data_type"`
	IsRequired  bool   `gorm:"column:is_required;not null;default:false" json:"is_required"`
	Description string `gorm:"column:description;type:text" json:"description"`
	Position    int    `gorm:"column:position;not null;default:0" json:"-"` // declaration order
}

// TableName overrides the table name.
func (RulesetField) TableName() string {
	return "reconciliation_ruleset_fields"
}

// Job is one reconciliation run over a staged source/target file pair.
type Job struct {
	ID                string             `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	RulesetID         *string            `gorm:"column:ruleset_id;type:varchar(36);index" json:"ruleset_id"`
	Ruleset           *Ruleset           `gorm:"foreignKey:RulesetID;constraint:OnDelete:SET NULL" json:"-"`
	Status            JobStatus          `gorm:"column:status;type:varchar(20);not null;default:pending;index" json:"status"`
	SourceFileName    string             `gorm:"column:source_file_name;type:varchar(255)" json:"source_file_name"`
	TargetFileName    string             `gorm:"column:target_file_name;type:varchar(255)" json:"target_file_name"`
	SourceFilePath    string             `gorm:"column:source_file_path;type:varchar(1024)" json:"-"`
	TargetFilePath    string             `gorm:"column:target_file_path;type:varchar(1024)" json:"-"`
	SourceRecordCount *int               `gorm:"column:source_record_count" json:"source_record_count"`
	TargetRecordCount *int               `gorm:"column:target_record_count" json:"target_record_count"`
	ResultSummary     *reconcile.Summary `gorm:"column:result_summary;type:text;serializer:json" json:"result_summary"`
	ErrorMessage      string             `gorm:"column:error_message;type:text" json:"error_message,omitempty"`
	CreatedAt         time.Time          `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt         time.Time          `gorm:"column:updated_at" json:"updated_at"`
	CompletedAt       *time.Time         `gorm:"column:completed_at" json:"completed_at"`
}

// TableName overrides the table name.
func (Job) TableName() string {
	return "reconciliation_jobs"
}

// JobColumns are the columns a migrated jobs table must expose.
var JobColumns = []string{
	"id", "ruleset_id", "status", "source_file_name", "target_file_name",
	"source_file_path", "target_file_path", "source_record_count", "target_record_count",
	"result_summary", "error_message", "created_at", "updated_at", "completed_at",
}

// Result is one persisted entry of a reconciliation outcome bucket.
type Result struct {
	ID            uint                            `gorm:"column:id;primaryKey" json:"id"`
	JobID         string                          `gorm:"column:job_id;type:varchar(36);not null;index:idx_result_job_type" json:"job_id"`
	ResultType    ResultType                      `gorm:"column:result_type;type:varchar(20);not null;index:idx_result_job_type" json:"result_type"`
	SourceRowData reconcile.Row                   `gorm:"column:source_row_data;type:text;serializer:json" json:"source_row_data"`
	TargetRowData reconcile.Row                   `gorm:"column:target_row_data;type:text;serializer:json" json:"target_row_data"`
	MatchKey      string                          `gorm:"column:match_key;type:varchar(255);index" json:"match_key"`
	Differences   map[string]reconcile.Difference `gorm:"column:differences;type:text;serializer:json" json:"differences"`
	CreatedAt     time.Time                       `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name.
func (Result) TableName() string {
	return "reconciliation_results"
}

// ResultColumns are the columns a migrated results table must expose.
var ResultColumns = []string{
	"id", "job_id", "result_type", "source_row_data", "target_row_data",
	"match_key", "differences", "created_at",
}

// ResultsFromOutcome flattens an outcome into result rows for jobID, matched
// entries first.
func ResultsFromOutcome(jobID string, o *reconcile.Outcome) []Result {
	results := make([]Result, 0, len(o.Matched)+len(o.UnmatchedSource)+len(o.UnmatchedTarget))
	for _, m := range o.Matched {
		results = append(results, Result{
			JobID:         jobID,
			ResultType:    ResultMatched,
			SourceRowData: m.SourceRow,
			TargetRowData: m.TargetRow,
			MatchKey:      m.MatchKey,
			Differences:   m.Differences,
		})
	}
	for _, u := range o.UnmatchedSource {
		results = append(results, Result{JobID: jobID, ResultType: ResultUnmatchedSource, SourceRowData: u.Row, MatchKey: u.MatchKey})
	}
	for _, u := range o.UnmatchedTarget {
		results = append(results, Result{JobID: jobID, ResultType: ResultUnmatchedTarget, TargetRowData: u.Row, MatchKey: u.MatchKey})
	}
	return results
}
