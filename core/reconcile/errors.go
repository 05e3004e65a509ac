package reconcile

import (
	"errors"
	"strings"
)

var (
	// ErrInputRead marks input files that are missing, unreadable or empty.
	ErrInputRead = errors.New("input read error")

	// ErrSchema marks a missing ruleset or a match key absent from a header set.
	ErrSchema = errors.New("schema error")

	// ErrValidation marks datasets whose values do not conform to the ruleset.
	ErrValidation = errors.New("validation error")

	// ErrReconciliation marks datasets that cannot be reconciled, such as empty ones.
	ErrReconciliation = errors.New("reconciliation error")

	// ErrInvalidValue is wrapped by every error Validate returns.
	ErrInvalidValue = errors.New("invalid value")
)

// ValidationError aggregates the issues found by ValidateDataset.
type ValidationError struct {
	Issues []ValidationIssue
}

// Error concatenates every issue message.
func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, issue.String())
	}
	return "data validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
