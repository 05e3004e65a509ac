package reconcile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleInputs exercises every normalizer with well-formed and malformed input.
var sampleInputs = []string{
	"", "   ", "hello", "  Hello\nWorld  ", "A\r\nB", "MiXeD   Case\tText",
	"42", "-7", "12.7", "-12.7", "$1,234.56", "1.234,56", "1 234,5", "(1,234.50)", "12%",
	"€ 99,99", "1e3", "1e999999999", "1,234", "0.1.2", "-", "abc",
	"yes", "No", "TRUE", "maybe", "0", "1",
	"2024-01-15", "2024/01/15", "01/02/2024", "15/01/2024", "20240115", "15.01.2024",
	"15-01-2024", "2024-01-15 10:30:00", "15-01-2024 10:30:00", "2024-01-15T10:30:00",
	"2024-01-15 10:30:00.123456", "2024-13-45", " 2024-1-5 ",
	"John.Doe@Example.COM", "not-an-email", "+1 (555) 123-4567", "555.123.4567",
	"HTTPS://Example.com/Path", "ftp://example.com", "日本語 テキスト",
}

// TestNormalize_Idempotent tests that normalizing a canonical rendering yields the same value.
func TestNormalize_Idempotent(t *testing.T) {
	for _, ft := range FieldTypes() {
		for _, raw := range sampleInputs {
			t.Run(ft.String()+"/"+raw, func(t *testing.T) {
				once := Normalize(raw, ft)
				twice := Normalize(once.String(), ft)
				assert.True(t, once.Equal(twice), "%q: %v != %v", raw, once, twice)
				assert.Equal(t, once.String(), twice.String())
			})
		}
	}
}

// TestNormalize_Total tests that no supported type panics on arbitrary input.
func TestNormalize_Total(t *testing.T) {
	inputs := append([]string{"\x00", "((((", "$$$", "..,,", " ", "9999999999999999999999999999.99"}, sampleInputs...)
	for _, ft := range append(FieldTypes(), FieldType(200)) {
		for _, raw := range inputs {
			assert.NotPanics(t, func() { Normalize(raw, ft) }, "%s %q", ft, raw)
		}
	}
}

// TestNormalize_ValidStaysValid tests that accepted values remain accepted after renormalization.
func TestNormalize_ValidStaysValid(t *testing.T) {
	for _, ft := range FieldTypes() {
		for _, raw := range sampleInputs {
			v := Normalize(raw, ft)
			if Validate(v, ft) != nil {
				continue
			}
			assert.NoError(t, Validate(Normalize(v.String(), ft), ft), "%s %q", ft, raw)
		}
	}
}

func TestNormalize_Empty(t *testing.T) {
	for _, ft := range FieldTypes() {
		assert.True(t, Normalize("", ft).IsEmpty(), ft.String())
		assert.True(t, Normalize("  ", ft).IsEmpty(), ft.String())
	}
}

// TestNormalize_Text tests string, email, url and phone folding.
func TestNormalize_Text(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		typ      FieldType
		expected string
	}{
		{"string folds case and whitespace", "  Hello \n  World  ", FieldString, "hello world"},
		{"string strips carriage returns", "A\r\nB", FieldString, "a b"},
		{"email lowercases", " John.Doe@Example.COM ", FieldEmail, "john.doe@example.com"},
		{"url lowercases", "HTTPS://Example.com/Path", FieldURL, "https://example.com/path"},
		{"phone keeps digits", "+1 (555) 123-4567", FieldPhone, "15551234567"},
		{"phone drops dots", "555.123.4567", FieldPhone, "5551234567"},
		{"unknown type behaves as string", " ABC  Def ", FieldType(99), "abc def"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.raw, tt.typ).String())
		})
	}
}

func TestNormalize_Numbers(t *testing.T) {
	tests := []struct {
		raw      string
		typ      FieldType
		expected string
	}{
		{"$1,234.56", FieldFloat, "1234.56"},
		{"1234.56", FieldFloat, "1234.56"},
		{"1.234,56", FieldFloat, "1234.56"},
		{"1 234,5", FieldFloat, "1234.5"},
		{"1,234", FieldFloat, "1234"},
		{"1.234.567", FieldFloat, "1234567"},
		{"(1,234.50)", FieldFloat, "-1234.5"},
		{"-$12.5", FieldFloat, "-12.5"},
		{"€ 99,99", FieldFloat, "99.99"},
		{"12%", FieldFloat, "12"},
		{"1e3", FieldFloat, "1000"},
		{"12.7", FieldInteger, "12"},
		{"-12.7", FieldInteger, "-12"},
		{"$1,000", FieldInteger, "1000"},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String()+" "+tt.raw, func(t *testing.T) {
			v := Normalize(tt.raw, tt.typ)
			require.Equal(t, KindNumber, v.Kind)
			assert.True(t, v.Number.Equal(decimal.RequireFromString(tt.expected)), "got %s", v)
		})
	}
}

// TestNormalize_NumberFallback tests that unparseable numbers pass through as trimmed text.
func TestNormalize_NumberFallback(t *testing.T) {
	v := Normalize("  N/A ", FieldFloat)
	assert.Equal(t, KindText, v.Kind)
	assert.Equal(t, "N/A", v.String())
}

// TestNormalize_HugeExponentsStayText tests that extreme exponents are not
// accepted as numbers, so comparing and validating them stays cheap.
func TestNormalize_HugeExponentsStayText(t *testing.T) {
	for _, ft := range []FieldType{FieldFloat, FieldInteger} {
		for _, raw := range []string{"1e999999999", "1e-999999999", "-2.5E+1001"} {
			t.Run(ft.String()+"/"+raw, func(t *testing.T) {
				v := Normalize(raw, ft)
				assert.Equal(t, KindText, v.Kind)
				assert.Equal(t, raw, v.String())
				assert.False(t, v.Equal(Normalize("1", ft)))
				assert.Error(t, Validate(v, ft))
			})
		}
	}

	assert.Equal(t, KindNumber, Normalize("1e1000", FieldFloat).Kind)
	assert.Equal(t, KindNumber, Normalize("1e-1000", FieldFloat).Kind)
}

func TestNormalize_NumbersCompareExactly(t *testing.T) {
	assert.True(t, Normalize("10.50", FieldFloat).Equal(Normalize("10.5", FieldFloat)))
	assert.True(t, Normalize("0.3", FieldFloat).Equal(Normalize("0.30", FieldFloat)))
	assert.False(t, Normalize("10.5", FieldFloat).Equal(Normalize("10.51", FieldFloat)))
	assert.False(t, Normalize("10", FieldFloat).Equal(Normalize("10", FieldString)))
}

// TestNormalize_BooleanSynonyms tests both vocabularies and the indeterminate state.
func TestNormalize_BooleanSynonyms(t *testing.T) {
	assert.Len(t, TrueTokens(), 25)
	assert.Len(t, FalseTokens(), 24)

	for _, token := range TrueTokens() {
		v := Normalize(token, FieldBoolean)
		assert.Equal(t, TruthTrue, v.Truth, token)
		assert.Equal(t, TruthTrue, Normalize(" "+token+" ", FieldBoolean).Truth, token)
	}
	for _, token := range FalseTokens() {
		assert.Equal(t, TruthFalse, Normalize(token, FieldBoolean).Truth, token)
	}

	maybe := Normalize("Maybe", FieldBoolean)
	assert.Equal(t, KindBool, maybe.Kind)
	assert.Equal(t, TruthUnknown, maybe.Truth)
	assert.Error(t, Validate(maybe, FieldBoolean))

	assert.True(t, Normalize("YES", FieldBoolean).Equal(Normalize("approved", FieldBoolean)))
	assert.True(t, Normalize("maybe", FieldBoolean).Equal(Normalize("perhaps", FieldBoolean)))
	assert.False(t, Normalize("maybe", FieldBoolean).Equal(Normalize("no", FieldBoolean)))
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		raw      string
		expected time.Time
	}{
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2024/01/15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"01/02/2024", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"15/01/2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"20240115", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"15.01.2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"15-01-2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-01-15 10:30:00", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"15-01-2024 10:30:00", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"2024-01-15T10:30:00", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"2024-01-15 10:30:00.123456", time.Date(2024, 1, 15, 10, 30, 0, 123456000, time.UTC)},
		{" 2024-1-5 ", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			parsed, ok := ParseDateTime(tt.raw)
			require.True(t, ok)
			assert.True(t, tt.expected.Equal(parsed), "got %s", parsed)
		})
	}

	_, ok := ParseDateTime("2024-13-45")
	assert.False(t, ok)
}

// TestNormalize_DatesCompareAsInstants tests that different layouts of one date are equal.
func TestNormalize_DatesCompareAsInstants(t *testing.T) {
	a := Normalize("2024-01-15", FieldDate)
	b := Normalize("15.01.2024", FieldDate)
	assert.Equal(t, KindTime, a.Kind)
	assert.True(t, a.Equal(b))
	assert.Equal(t, "2024-01-15 00:00:00", a.String())
}

func TestParseFieldType(t *testing.T) {
	for _, ft := range FieldTypes() {
		parsed, err := ParseFieldType(ft.String())
		require.NoError(t, err)
		assert.Equal(t, ft, parsed)
	}

	parsed, err := ParseFieldType(" URL ")
	require.NoError(t, err)
	assert.Equal(t, FieldURL, parsed)

	_, err = ParseFieldType("money")
	assert.Error(t, err)

	var ft FieldType
	require.NoError(t, ft.UnmarshalText([]byte("datetime")))
	assert.Equal(t, FieldDateTime, ft)

	_, err = FieldType(42).MarshalText()
	assert.Error(t, err)
}
