package reconcile

// Row is one record of a source or target dataset, keyed by header name.
// A field missing from the map and a field holding "" are treated alike.
type Row map[string]string

// Get returns the raw value of field, or "" when the row does not carry it.
func (r Row) Get(field string) string {
	return r[field]
}

// FieldDefinition declares one field of a ruleset.
type FieldDefinition struct {
	// Name is the header name the field is read from.
	Name string `json:"name" mapstructure:"name"`

	// Type selects the normalizer and validator applied to the field.
	Type FieldType `json:"data_type" mapstructure:"data_type"`

	// Required marks fields that must appear in both header sets at upload time.
	Required bool `json:"required" mapstructure:"required"`
}

// Schema is the engine view of a ruleset: its match key and typed fields.
type Schema struct {
	// Name is the ruleset name, used for logging only.
	Name string `json:"name" mapstructure:"name"`

	// MatchKey is the field whose normalized value correlates source and target rows.
	MatchKey string `json:"match_key" mapstructure:"match_key"`

	// Fields holds the declared fields in ruleset order. Names are unique.
	Fields []FieldDefinition `json:"fields" mapstructure:"fields"`
}

// TypeMap returns the declared type of every field, keyed by field name.
func (s *Schema) TypeMap() map[string]FieldType {
	types := make(map[string]FieldType, len(s.Fields))
	for _, f := range s.Fields {
		types[f.Name] = f.Type
	}
	return types
}

// RequiredFields returns the names of required fields in declaration order.
func (s *Schema) RequiredFields() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// Difference holds the raw values of a field whose normalized values disagree.
type Difference struct {
	SourceValue string `json:"source_value"`
	TargetValue string `json:"target_value"`
}

// MatchedRecord pairs a source and target row sharing a normalized match key.
type MatchedRecord struct {
	SourceRow Row    `json:"source_row"`
	TargetRow Row    `json:"target_row"`
	MatchKey  string `json:"match_key"`

	// Differences is nil when every field normalizes equal.
	Differences map[string]Difference `json:"differences"`
}

// UnmatchedRecord is a row whose normalized match key exists on one side only.
type UnmatchedRecord struct {
	Row      Row    `json:"row"`
	MatchKey string `json:"match_key"`
}

// Outcome is the result of a reconciliation pass.
// Each bucket is sorted by match key.
type Outcome struct {
	Matched         []MatchedRecord   `json:"matched"`
	UnmatchedSource []UnmatchedRecord `json:"unmatched_source"`
	UnmatchedTarget []UnmatchedRecord `json:"unmatched_target"`
}

// Summary provides aggregate statistics for a reconciliation outcome.
type Summary struct {
	// TotalSourceRecords is the source record count known for the job, if any.
	TotalSourceRecords *int `json:"total_source_records"`

	// TotalTargetRecords is the target record count known for the job, if any.
	TotalTargetRecords *int `json:"total_target_records"`

	MatchedRecords         int `json:"matched_records"`
	UnmatchedSourceRecords int `json:"unmatched_source_records"`
	UnmatchedTargetRecords int `json:"unmatched_target_records"`

	// MatchPercentage is matched / max(source, target) * 100, rounded to 2 decimals.
	MatchPercentage float64 `json:"match_percentage"`
}
