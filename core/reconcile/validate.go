package reconcile

import (
	"fmt"
	"regexp"
)

// MaxValidationIssues caps the issues collected by ValidateDataset.
const MaxValidationIssues = 100

// Where values for ValidationIssue.
const (
	WhereSource = "source file"
	WhereTarget = "target file"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[\+]?[1-9]?[\d\s\-\(\)\.]{7,15}$`)
	digitsOnly   = regexp.MustCompile(`^\d+$`)
	urlPattern   = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)
)

// ValidationIssue describes one value that does not conform to its declared type.
type ValidationIssue struct {
	// Row is the 1-based data row number within its file.
	Row             int    `json:"row"`
	Field           string `json:"field"`
	Error           string `json:"error"`
	OriginalValue   string `json:"original_value"`
	NormalizedValue string `json:"normalized_value"`
	Where           string `json:"where"`

	// Truncated marks the trailing entry appended when more issues exist than were collected.
	Truncated bool `json:"truncated,omitempty"`
}

// String renders the issue as one line of a job error message.
func (i ValidationIssue) String() string {
	if i.Truncated {
		return i.Error
	}
	return fmt.Sprintf("%s row %d, field '%s': %s", i.Where, i.Row, i.Field, i.Error)
}

type validateFunc func(v Value, t FieldType) error

var validators = [numFieldTypes]validateFunc{
	FieldString:   validateAny,
	FieldInteger:  validateNumber,
	FieldFloat:    validateNumber,
	FieldBoolean:  validateBoolean,
	FieldDate:     validateTime,
	FieldDateTime: validateTime,
	FieldEmail:    validatePattern(emailPattern, "invalid email format '%s'"),
	FieldPhone:    validatePhone,
	FieldURL:      validatePattern(urlPattern, "invalid URL format '%s'"),
}

// Validate checks a normalized value against its declared type.
// Empty values are always valid; presence is checked elsewhere.
func Validate(v Value, t FieldType) error {
	if v.IsEmpty() {
		return nil
	}
	if !t.Valid() {
		t = FieldString
	}
	return validators[t](v, t)
}

func validateAny(Value, FieldType) error {
	return nil
}

func validateNumber(v Value, t FieldType) error {
	if v.Kind != KindNumber {
		return fmt.Errorf("%w: invalid %s value '%s'", ErrInvalidValue, t, v)
	}
	return nil
}

func validateBoolean(v Value, _ FieldType) error {
	if v.Kind != KindBool || v.Truth == TruthUnknown {
		return fmt.Errorf("%w: invalid boolean '%s'", ErrInvalidValue, v)
	}
	return nil
}

func validateTime(v Value, _ FieldType) error {
	if v.Kind != KindTime {
		return fmt.Errorf("%w: invalid datetime format '%s'", ErrInvalidValue, v)
	}
	return nil
}

func validatePhone(v Value, _ FieldType) error {
	s := v.String()
	if digitsOnly.MatchString(s) || phonePattern.MatchString(s) {
		return nil
	}
	return fmt.Errorf("%w: invalid phone format '%s' (should contain only digits after normalization)", ErrInvalidValue, s)
}

func validatePattern(pattern *regexp.Regexp, format string) validateFunc {
	return func(v Value, _ FieldType) error {
		s := v.String()
		if !pattern.MatchString(s) {
			return fmt.Errorf("%w: "+format, ErrInvalidValue, s)
		}
		return nil
	}
}

// ValidateDataset normalizes and validates every declared field of every source
// row, then every target row. Fields the schema does not declare are skipped; a
// nil schema declares nothing and yields no issues.
//
// At most MaxValidationIssues issues are collected. When a further issue is
// found, a Truncated entry is appended and scanning stops, so target rows are
// not inspected once the source rows alone exceed the cap.
func ValidateDataset(source, target []Row, schema *Schema) []ValidationIssue {
	if schema == nil {
		return nil
	}

	var issues []ValidationIssue
	scan := func(rows []Row, where string) bool {
		for i, row := range rows {
			for _, field := range schema.Fields {
				raw, ok := row[field.Name]
				if !ok {
					continue
				}
				normalized := Normalize(raw, field.Type)
				err := Validate(normalized, field.Type)
				if err == nil {
					continue
				}
				if len(issues) >= MaxValidationIssues {
					issues = append(issues, ValidationIssue{
						Error:     fmt.Sprintf("... and more errors (showing first %d)", MaxValidationIssues),
						Truncated: true,
					})
					return false
				}
				issues = append(issues, ValidationIssue{
					Row:             i + 1,
					Field:           field.Name,
					Error:           errorText(err),
					OriginalValue:   raw,
					NormalizedValue: normalized.String(),
					Where:           where,
				})
			}
		}
		return true
	}

	if scan(source, WhereSource) {
		scan(target, WhereTarget)
	}
	return issues
}

// errorText drops the ErrInvalidValue prefix from a validator error.
func errorText(err error) string {
	msg := err.Error()
	prefix := ErrInvalidValue.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}
