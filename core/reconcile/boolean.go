package reconcile

import "strings"

var trueTokens = map[string]struct{}{
	"true": {}, "t": {}, "yes": {}, "y": {}, "1": {}, "on": {}, "enable": {}, "enabled": {},
	"active": {}, "positive": {}, "ok": {}, "okay": {}, "correct": {}, "right": {},
	"valid": {}, "good": {}, "success": {}, "pass": {}, "passed": {}, "approve": {},
	"approved": {}, "accept": {}, "accepted": {}, "confirm": {}, "confirmed": {},
}

var falseTokens = map[string]struct{}{
	"false": {}, "f": {}, "no": {}, "n": {}, "0": {}, "off": {}, "disable": {}, "disabled": {},
	"inactive": {}, "negative": {}, "wrong": {}, "incorrect": {}, "invalid": {},
	"bad": {}, "fail": {}, "failed": {}, "failure": {}, "error": {}, "reject": {},
	"rejected": {}, "deny": {}, "denied": {}, "cancel": {}, "cancelled": {},
}

// TrueTokens returns the vocabulary that normalizes to TruthTrue.
func TrueTokens() []string {
	return tokenList(trueTokens)
}

// FalseTokens returns the vocabulary that normalizes to TruthFalse.
func FalseTokens() []string {
	return tokenList(falseTokens)
}

func tokenList(set map[string]struct{}) []string {
	tokens := make([]string, 0, len(set))
	for t := range set {
		tokens = append(tokens, t)
	}
	return tokens
}

// normalizeBoolean maps a token onto the tri-state. Unrecognized tokens keep
// their folded text so that distinct unknown tokens still compare unequal.
func normalizeBoolean(raw string) Value {
	token := strings.ToLower(strings.TrimSpace(raw))
	if token == "" {
		return Value{}
	}
	if _, ok := trueTokens[token]; ok {
		return Value{Kind: KindBool, Truth: TruthTrue}
	}
	if _, ok := falseTokens[token]; ok {
		return Value{Kind: KindBool, Truth: TruthFalse}
	}
	return Value{Kind: KindBool, Truth: TruthUnknown, Text: token}
}
