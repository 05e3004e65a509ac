package reconcile

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// currencySymbols are stripped by the fallback numeric parser, together with '%'.
const currencySymbols = "$£€¥₹₽¢₩₪₨₦₡"

var (
	// numberToken finds the first digit run, including grouping and decimal separators.
	numberToken = regexp.MustCompile(`\d[\d.,'\s\x{00A0}]*`)

	// decimalSeparator matches a trailing separator followed by 1-2 or 4+ digits.
	// Exactly three digits after a separator reads as thousands grouping.
	decimalSeparator = regexp.MustCompile(`([.,])(?:\d{1,2}|\d{4,})$`)

	groupingChars = strings.NewReplacer(" ", "", "'", "", "\u00a0", "", "\t", "", "\n", "", "\r", "")
)

// Decimals outside these bounds are kept as text. Comparing them would rescale
// the coefficient to a power of ten as large as the exponent.
const (
	maxExponent        = 1000
	maxCoefficientBits = 4096
)

func normalizeInteger(raw string) Value {
	return normalizeNumber(raw, true)
}

func normalizeFloat(raw string) Value {
	return normalizeNumber(raw, false)
}

// normalizeNumber parses raw as a decimal. Integers truncate toward zero.
// Unparseable input is returned trimmed, as text.
func normalizeNumber(raw string, integer bool) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Value{}
	}
	d, ok := parseNumber(s)
	if !ok {
		return textValue(s)
	}
	if integer {
		d = d.Truncate(0)
	}
	return Value{Kind: KindNumber, Number: d}
}

// parseNumber tries a plain decimal (including exponent notation) first, then a
// locale-tolerant amount parse, then a symbol-stripping parse. A plain decimal
// out of bounds is rejected outright rather than reparsed leniently.
func parseNumber(s string) (decimal.Decimal, bool) {
	if d, err := decimal.NewFromString(s); err == nil {
		return d, bounded(d)
	}
	if d, ok := parseAmount(s); ok {
		return d, bounded(d)
	}
	d, ok := parseStripped(s)
	return d, ok && bounded(d)
}

func bounded(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= -maxExponent && exp <= maxExponent && d.Coefficient().BitLen() <= maxCoefficientBits
}

// parseAmount extracts the first number in s, resolving which of '.' and ','
// is the decimal separator. A leading '-' or accounting parentheses negate.
func parseAmount(s string) (decimal.Decimal, bool) {
	loc := numberToken.FindStringIndex(s)
	if loc == nil {
		return decimal.Zero, false
	}
	token := strings.TrimRight(s[loc[0]:loc[1]], ".,' \t\u00a0")
	token = groupingChars.Replace(token)

	switch sep := decimalSeparatorOf(token); sep {
	case ".":
		token = strings.ReplaceAll(token, ",", "")
	case ",":
		token = strings.ReplaceAll(token, ".", "")
		token = strings.ReplaceAll(token, ",", ".")
	default:
		token = strings.ReplaceAll(token, ".", "")
		token = strings.ReplaceAll(token, ",", "")
	}

	d, err := decimal.NewFromString(token)
	if err != nil {
		return decimal.Zero, false
	}

	prefix := s[:loc[0]]
	if strings.Contains(prefix, "-") || (strings.Contains(prefix, "(") && strings.Contains(s[loc[1]:], ")")) {
		d = d.Neg()
	}
	return d, true
}

func decimalSeparatorOf(token string) string {
	m := decimalSeparator.FindStringSubmatch(token)
	if m == nil {
		return ""
	}
	return m[1]
}

func parseStripped(s string) (decimal.Decimal, bool) {
	stripped := strings.Map(func(r rune) rune {
		if r == '%' || r == ' ' || strings.ContainsRune(currencySymbols, r) {
			return -1
		}
		return r
	}, s)
	d, err := decimal.NewFromString(stripped)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
