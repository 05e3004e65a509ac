package reconcile

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValueKind identifies which representation a Value carries.
type ValueKind uint8

const (
	// KindEmpty is an absent or blank value.
	KindEmpty ValueKind = iota
	// KindText is a case-folded string, or a raw value a typed normalizer could not parse.
	KindText
	// KindNumber is an exact decimal.
	KindNumber
	// KindBool is a tri-state boolean.
	KindBool
	// KindTime is a parsed date or datetime.
	KindTime
)

// Truth is the tri-state result of boolean normalization.
type Truth uint8

const (
	TruthUnknown Truth = iota
	TruthTrue
	TruthFalse
)

// canonicalTimeLayout renders times in a form the datetime normalizer accepts again.
const canonicalTimeLayout = "2006-01-02 15:04:05.999999"

// Value is the canonical, comparable form of a raw field value.
type Value struct {
	Kind   ValueKind
	Text   string
	Number decimal.Decimal
	Truth  Truth
	Time   time.Time
}

// IsEmpty reports whether the value is absent.
func (v Value) IsEmpty() bool {
	return v.Kind == KindEmpty
}

// Equal reports whether two canonical values compare equal.
// Values of different kinds are never equal.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindEmpty:
		return true
	case KindNumber:
		return v.Number.Equal(other.Number)
	case KindBool:
		// Every unrecognized token is the same indeterminate value.
		return v.Truth == other.Truth
	case KindTime:
		return v.Time.Equal(other.Time)
	default:
		return v.Text == other.Text
	}
}

// String renders the canonical form. Normalizing the rendering again with the
// same field type yields an equal Value.
func (v Value) String() string {
	switch v.Kind {
	case KindEmpty:
		return ""
	case KindNumber:
		return v.Number.String()
	case KindBool:
		switch v.Truth {
		case TruthTrue:
			return "true"
		case TruthFalse:
			return "false"
		}
		return v.Text
	case KindTime:
		return v.Time.Format(canonicalTimeLayout)
	default:
		return v.Text
	}
}

func textValue(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{Kind: KindText, Text: s}
}
