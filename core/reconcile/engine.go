package reconcile

import (
	"fmt"
	"sort"
)

// Reconcile matches source rows to target rows on the schema's match key and
// computes field differences for every matched pair.
//
// Preconditions are checked before any work is done: both datasets must be
// non-empty, schema must be set and the match key must appear in the header set
// (keys of the first row) of both datasets. Rows sharing a normalized key on the
// same side collapse to the last one read.
func Reconcile(source, target []Row, schema *Schema) (*Outcome, error) {
	if len(source) == 0 || len(target) == 0 {
		return nil, fmt.Errorf("%w: empty data sets", ErrReconciliation)
	}
	if schema == nil {
		return nil, fmt.Errorf("%w: job doesn't have a specified ruleset", ErrSchema)
	}

	sourceHeaders := HeaderSet(source)
	targetHeaders := HeaderSet(target)
	if _, ok := sourceHeaders[schema.MatchKey]; !ok {
		return nil, fmt.Errorf("%w: match key '%s' not found in source data", ErrSchema, schema.MatchKey)
	}
	if _, ok := targetHeaders[schema.MatchKey]; !ok {
		return nil, fmt.Errorf("%w: match key '%s' not found in target data", ErrSchema, schema.MatchKey)
	}

	types := schema.TypeMap()
	sourceIndex := buildIndex(source, schema.MatchKey, types)
	targetIndex := buildIndex(target, schema.MatchKey, types)
	fields := unionFields(sourceHeaders, targetHeaders)

	outcome := &Outcome{
		Matched:         []MatchedRecord{},
		UnmatchedSource: []UnmatchedRecord{},
		UnmatchedTarget: []UnmatchedRecord{},
	}
	for _, key := range unionKeys(sourceIndex, targetIndex) {
		sourceRow, inSource := sourceIndex[key]
		targetRow, inTarget := targetIndex[key]

		switch {
		case inSource && inTarget:
			outcome.Matched = append(outcome.Matched, MatchedRecord{
				SourceRow:   sourceRow,
				TargetRow:   targetRow,
				MatchKey:    key,
				Differences: CompareRows(sourceRow, targetRow, fields, types),
			})
		case inSource:
			outcome.UnmatchedSource = append(outcome.UnmatchedSource, UnmatchedRecord{Row: sourceRow, MatchKey: key})
		default:
			outcome.UnmatchedTarget = append(outcome.UnmatchedTarget, UnmatchedRecord{Row: targetRow, MatchKey: key})
		}
	}

	return outcome, nil
}

// CompareRows normalizes every field in fields on both rows and returns the
// raw values of the fields that disagree. Missing fields compare as "". The
// result is nil when nothing differs.
func CompareRows(source, target Row, fields []string, types map[string]FieldType) map[string]Difference {
	var diffs map[string]Difference
	for _, field := range fields {
		sourceRaw, targetRaw := source.Get(field), target.Get(field)
		if NormalizeField(sourceRaw, field, types).Equal(NormalizeField(targetRaw, field, types)) {
			continue
		}
		if diffs == nil {
			diffs = make(map[string]Difference)
		}
		diffs[field] = Difference{SourceValue: sourceRaw, TargetValue: targetRaw}
	}
	return diffs
}

// HeaderSet returns the field names of the first row. Datasets are assumed
// rectangular, so this stands for the header row of the whole file.
func HeaderSet(rows []Row) map[string]struct{} {
	headers := make(map[string]struct{})
	if len(rows) == 0 {
		return headers
	}
	for name := range rows[0] {
		headers[name] = struct{}{}
	}
	return headers
}

// buildIndex maps each normalized match key to its row; later rows win.
func buildIndex(rows []Row, matchKey string, types map[string]FieldType) map[string]Row {
	index := make(map[string]Row, len(rows))
	for _, row := range rows {
		key := NormalizeField(row.Get(matchKey), matchKey, types).String()
		index[key] = row
	}
	return index
}

// unionKeys returns the keys of both indices, sorted.
func unionKeys(source, target map[string]Row) []string {
	union := make(map[string]struct{}, len(source)+len(target))
	for key := range source {
		union[key] = struct{}{}
	}
	for key := range target {
		union[key] = struct{}{}
	}
	return sortedKeys(union)
}

// unionFields returns the names present in either header set, sorted.
func unionFields(source, target map[string]struct{}) []string {
	union := make(map[string]struct{}, len(source)+len(target))
	for name := range source {
		union[name] = struct{}{}
	}
	for name := range target {
		union[name] = struct{}{}
	}
	return sortedKeys(union)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
