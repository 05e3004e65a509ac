package reconcile

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReconcile_EquivalentValuesMatch tests that differently formatted but equal values
// produce a matched record without differences.
func TestReconcile_EquivalentValuesMatch(t *testing.T) {
	source := []Row{{"id": "A1", "amount": "$1,234.56", "active": "yes"}}
	target := []Row{{"id": "A1", "amount": "1234.56", "active": "true"}}

	outcome, err := Reconcile(source, target, testSchema())
	require.NoError(t, err)

	require.Len(t, outcome.Matched, 1)
	assert.Equal(t, "a1", outcome.Matched[0].MatchKey)
	assert.Nil(t, outcome.Matched[0].Differences)
	assert.Equal(t, source[0], outcome.Matched[0].SourceRow)
	assert.Equal(t, target[0], outcome.Matched[0].TargetRow)
	assert.Empty(t, outcome.UnmatchedSource)
	assert.Empty(t, outcome.UnmatchedTarget)
}

func TestReconcile_UnmatchedSource(t *testing.T) {
	source := []Row{{"id": "A2", "amount": "10"}}
	target := []Row{{"id": "B7", "amount": "10"}}

	outcome, err := Reconcile(source, target, testSchema())
	require.NoError(t, err)

	assert.Empty(t, outcome.Matched)
	require.Len(t, outcome.UnmatchedSource, 1)
	assert.Equal(t, "a2", outcome.UnmatchedSource[0].MatchKey)
	assert.Equal(t, source[0], outcome.UnmatchedSource[0].Row)
	require.Len(t, outcome.UnmatchedTarget, 1)
	assert.Equal(t, "b7", outcome.UnmatchedTarget[0].MatchKey)
}

func TestReconcile_Differences(t *testing.T) {
	source := []Row{{"id": "A1", "amount": "10.00", "active": "yes", "note": "Paid  in full"}}
	target := []Row{{"id": "a1", "amount": "12", "active": "no"}}

	outcome, err := Reconcile(source, target, testSchema())
	require.NoError(t, err)
	require.Len(t, outcome.Matched, 1)

	assert.Equal(t, map[string]Difference{
		"amount": {SourceValue: "10.00", TargetValue: "12"},
		"active": {SourceValue: "yes", TargetValue: "no"},
		"note":   {SourceValue: "Paid  in full", TargetValue: ""},
	}, outcome.Matched[0].Differences)
}

// TestReconcile_UndeclaredFieldsCompareAsStrings tests the string fallback for fields outside the schema.
func TestReconcile_UndeclaredFieldsCompareAsStrings(t *testing.T) {
	source := []Row{{"id": "1", "city": "  New   York "}}
	target := []Row{{"id": "1", "city": "new york"}}

	outcome, err := Reconcile(source, target, testSchema())
	require.NoError(t, err)
	require.Len(t, outcome.Matched, 1)
	assert.Nil(t, outcome.Matched[0].Differences)
}

// TestReconcile_DuplicateKeysLastWins tests that later rows replace earlier ones sharing a key.
func TestReconcile_DuplicateKeysLastWins(t *testing.T) {
	source := []Row{
		{"id": "A1", "amount": "1"},
		{"id": " a1 ", "amount": "2"},
	}
	target := []Row{{"id": "A1", "amount": "2"}}

	outcome, err := Reconcile(source, target, testSchema())
	require.NoError(t, err)
	require.Len(t, outcome.Matched, 1)
	assert.Equal(t, "2", outcome.Matched[0].SourceRow["amount"])
	assert.Nil(t, outcome.Matched[0].Differences)
}

// TestReconcile_HugeExponents tests that extreme exponents in values and keys
// compare as text instead of expanding into enormous integers.
func TestReconcile_HugeExponents(t *testing.T) {
	schema := &Schema{MatchKey: "ref", Fields: []FieldDefinition{
		{Name: "ref", Type: FieldFloat},
		{Name: "amount", Type: FieldFloat},
	}}
	source := []Row{{"ref": "1e-999999999", "amount": "1e999999999"}}
	target := []Row{{"ref": "1e-999999999", "amount": "1"}}

	done := make(chan struct{})
	var outcome *Outcome
	var err error
	go func() {
		defer close(done)
		outcome, err = Reconcile(source, target, schema)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("reconcile did not return")
	}
	require.NoError(t, err)
	assert.Empty(t, outcome.UnmatchedSource)
	require.Len(t, outcome.Matched, 1)
	assert.Equal(t, map[string]Difference{
		"amount": {SourceValue: "1e999999999", TargetValue: "1"},
	}, outcome.Matched[0].Differences)
}

func TestReconcile_TypedMatchKey(t *testing.T) {
	schema := &Schema{MatchKey: "ref", Fields: []FieldDefinition{{Name: "ref", Type: FieldInteger}}}
	source := []Row{{"ref": "1,000"}}
	target := []Row{{"ref": "1000.0"}}

	outcome, err := Reconcile(source, target, schema)
	require.NoError(t, err)
	require.Len(t, outcome.Matched, 1)
	assert.Equal(t, "1000", outcome.Matched[0].MatchKey)
}

// TestReconcile_Completeness tests that every key lands in exactly one bucket, in sorted order.
func TestReconcile_Completeness(t *testing.T) {
	var source, target []Row
	for i := 0; i < 50; i++ {
		if i%3 != 0 {
			source = append(source, Row{"id": fmt.Sprintf("K%02d", i), "amount": fmt.Sprint(i)})
		}
		if i%2 == 0 {
			target = append(target, Row{"id": fmt.Sprintf("k%02d", i), "amount": fmt.Sprint(i)})
		}
	}

	outcome, err := Reconcile(source, target, testSchema())
	require.NoError(t, err)

	seen := make(map[string]int)
	var order []string
	for _, m := range outcome.Matched {
		seen[m.MatchKey]++
	}
	for _, u := range outcome.UnmatchedSource {
		seen[u.MatchKey]++
		order = append(order, u.MatchKey)
	}
	for _, u := range outcome.UnmatchedTarget {
		seen[u.MatchKey]++
	}

	// Keys that are odd multiples of 3 appear on neither side.
	assert.Len(t, seen, 42)
	for key, count := range seen {
		assert.Equal(t, 1, count, key)
	}
	assert.IsNonDecreasing(t, order)

	// Keys present on both sides are those divisible by 2 but not by 3.
	assert.Len(t, outcome.Matched, 16)
	assert.Len(t, outcome.UnmatchedSource, 17)
	assert.Len(t, outcome.UnmatchedTarget, 9)
}

func TestReconcile_Preconditions(t *testing.T) {
	rows := []Row{{"id": "1"}}
	other := []Row{{"ref": "1"}}

	tests := []struct {
		name    string
		source  []Row
		target  []Row
		schema  *Schema
		kind    error
		message string
	}{
		{"empty source", nil, rows, testSchema(), ErrReconciliation, "empty data sets"},
		{"empty target", rows, []Row{}, testSchema(), ErrReconciliation, "empty data sets"},
		{"no ruleset", rows, rows, nil, ErrSchema, "job doesn't have a specified ruleset"},
		{"key missing in source", other, rows, testSchema(), ErrSchema, "match key 'id' not found in source data"},
		{"key missing in target", rows, other, testSchema(), ErrSchema, "match key 'id' not found in target data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := Reconcile(tt.source, tt.target, tt.schema)
			assert.Nil(t, outcome)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestSummarize(t *testing.T) {
	intPtr := func(n int) *int { return &n }
	outcome := &Outcome{
		Matched:         make([]MatchedRecord, 3),
		UnmatchedSource: make([]UnmatchedRecord, 1),
		UnmatchedTarget: make([]UnmatchedRecord, 2),
	}

	tests := []struct {
		name       string
		source     *int
		target     *int
		percentage float64
	}{
		{"uses larger side", intPtr(4), intPtr(5), 60},
		{"rounds to two decimals", intPtr(9), intPtr(3), 33.33},
		{"missing source count", nil, intPtr(5), 0},
		{"missing target count", intPtr(5), nil, 0},
		{"zero count", intPtr(0), intPtr(5), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(tt.source, tt.target, outcome)
			assert.Equal(t, 3, s.MatchedRecords)
			assert.Equal(t, 1, s.UnmatchedSourceRecords)
			assert.Equal(t, 2, s.UnmatchedTargetRecords)
			assert.Equal(t, tt.percentage, s.MatchPercentage)
			assert.Equal(t, tt.source, s.TotalSourceRecords)
		})
	}
}

// TestCompareRows_UnknownBooleans tests that two unrecognized boolean tokens
// are treated alike, while an unrecognized token still differs from a known one.
func TestCompareRows_UnknownBooleans(t *testing.T) {
	types := map[string]FieldType{"active": FieldBoolean}
	fields := []string{"active"}

	assert.Nil(t, CompareRows(Row{"active": "maybe"}, Row{"active": "perhaps"}, fields, types))
	assert.Equal(t, map[string]Difference{
		"active": {SourceValue: "maybe", TargetValue: "no"},
	}, CompareRows(Row{"active": "maybe"}, Row{"active": "no"}, fields, types))
}
