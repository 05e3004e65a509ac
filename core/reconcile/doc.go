// Package reconcile is the reconciliation engine: it normalizes raw field values,
// validates them against a ruleset and matches two datasets on a key.
//
// # Normalization
//
// Normalize turns a raw string into a canonical Value for a declared FieldType.
// It is total: input that does not parse as the declared type degrades to text
// instead of failing, so it can always run before comparison. Whether a value
// is well formed is a separate question answered by Validate.
//
//	v := reconcile.Normalize("$1,234.56", reconcile.FieldFloat) // 1234.56
//	err := reconcile.Validate(v, reconcile.FieldFloat)          // nil
//
// Normalizing the String form of a Value again with the same type yields an
// equal Value.
//
// # Validation
//
// ValidateDataset checks every declared field of every row, source rows first,
// and collects at most MaxValidationIssues issues.
//
// # Matching
//
// Reconcile indexes both sides by normalized match key, walks the union of keys
// in sorted order and places each key in exactly one bucket: matched,
// unmatched source or unmatched target. Matched pairs carry the fields whose
// normalized values disagree, or nil when none do.
//
//	outcome, err := reconcile.Reconcile(source, target, schema)
//	summary := reconcile.Summarize(&sourceCount, &targetCount, outcome)
package reconcile
