package reconcile

import (
	"strings"
	"unicode"
)

type normalizeFunc func(raw string) Value

var normalizers = [numFieldTypes]normalizeFunc{
	FieldString:   normalizeText,
	FieldInteger:  normalizeInteger,
	FieldFloat:    normalizeFloat,
	FieldBoolean:  normalizeBoolean,
	FieldDate:     normalizeTime,
	FieldDateTime: normalizeTime,
	FieldEmail:    normalizeEmail,
	FieldPhone:    normalizePhone,
	FieldURL:      normalizeText,
}

// Normalize converts a raw field value into its canonical form for type t.
// It never fails: input a typed normalizer cannot parse degrades to text, and
// callers that care about well-formedness must run Validate on the result.
// Unknown types normalize as FieldString.
func Normalize(raw string, t FieldType) Value {
	if raw == "" {
		return Value{}
	}
	if !t.Valid() {
		t = FieldString
	}
	return normalizers[t](raw)
}

// NormalizeField normalizes the value of field using its declared type in types,
// falling back to FieldString for undeclared fields.
func NormalizeField(raw, field string, types map[string]FieldType) Value {
	t, ok := types[field]
	if !ok {
		t = FieldString
	}
	return Normalize(raw, t)
}

// foldText removes line breaks, lower-cases and trims.
func foldText(raw string) string {
	s := strings.ReplaceAll(raw, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return strings.TrimSpace(strings.ToLower(s))
}

func normalizeText(raw string) Value {
	return textValue(strings.Join(strings.Fields(foldText(raw)), " "))
}

func normalizeEmail(raw string) Value {
	return textValue(foldText(raw))
}

// normalizePhone drops whitespace and the punctuation commonly used to format numbers.
func normalizePhone(raw string) Value {
	return textValue(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		switch r {
		case '-', '(', ')', '.', '+':
			return -1
		}
		return r
	}, foldText(raw)))
}
