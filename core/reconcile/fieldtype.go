package reconcile

import (
	"fmt"
	"strings"
)

// FieldType is the declared data type of a ruleset field.
// It is a closed set; dispatch tables in this package are indexed by it.
type FieldType uint8

const (
	// FieldString is free text. It is also the type used for fields a ruleset does not declare.
	FieldString FieldType = iota
	FieldInteger
	FieldFloat
	FieldBoolean
	FieldDate
	FieldDateTime
	FieldEmail
	FieldPhone
	FieldURL

	numFieldTypes
)

var fieldTypeNames = [numFieldTypes]string{
	FieldString:   "string",
	FieldInteger:  "integer",
	FieldFloat:    "float",
	FieldBoolean:  "boolean",
	FieldDate:     "date",
	FieldDateTime: "datetime",
	FieldEmail:    "email",
	FieldPhone:    "phone",
	FieldURL:      "url",
}

// FieldTypes returns every supported field type in declaration order.
func FieldTypes() []FieldType {
	types := make([]FieldType, 0, numFieldTypes)
	for t := FieldString; t < numFieldTypes; t++ {
		types = append(types, t)
	}
	return types
}

// ParseFieldType resolves a data type name such as "integer" or "URL".
func ParseFieldType(name string) (FieldType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range fieldTypeNames {
		if n == name {
			return FieldType(t), nil
		}
	}
	return FieldString, fmt.Errorf("unknown data type %q", name)
}

// String returns the data type name as stored in rulesets.
func (t FieldType) String() string {
	if t >= numFieldTypes {
		return fmt.Sprintf("FieldType(%d)", uint8(t))
	}
	return fieldTypeNames[t]
}

// Valid reports whether t is one of the supported field types.
func (t FieldType) Valid() bool {
	return t < numFieldTypes
}

// MarshalText implements encoding.TextMarshaler.
func (t FieldType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid field type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *FieldType) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
