// Package audience owns the canonical audience shape: coercion of
// heterogeneous numeric-like input, normalization of loosely-shaped
// admin/legacy payloads into one persisted form, and the tolerant
// read-side projection into display values.
package audience

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var numeralRe = regexp.MustCompile(`-?\d+(\.\d+)?`)

// ToPercent coerces any value into an integer percent in [0,100].
// Numbers are rounded then clamped; strings contribute their first signed
// decimal numeral ("31%" -> 31); everything else is 0. Never fails.
func ToPercent(v interface{}) int {
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		m := numeralRe.FindString(x)
		if m == "" {
			return 0
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0
		}
		return clampPercent(f)
	default:
		if f, ok := toNumber(v); ok {
			return clampPercent(f)
		}
		return 0
	}
}

// ClampPercent clamps an already-numeric value into [0,100]
func ClampPercent(f float64) int {
	return clampPercent(f)
}

func clampPercent(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	n := int(math.Round(f))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// ToCount parses a count out of any value by stripping every non-digit
// character from its string form. Empty or unparseable input is nil,
// which is distinct from zero: nil means no count has been entered.
func ToCount(v interface{}) *int64 {
	s := stringify(v)
	if s == "" {
		return nil
	}
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return nil
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// ToFloat parses a non-negative decimal out of any value, keeping digits
// and dots only. Nil on empty or unparseable input.
func ToFloat(v interface{}) *float64 {
	s := stringify(v)
	if s == "" {
		return nil
	}
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func stringify(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	default:
		if f, ok := toNumber(v); ok {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return ""
			}
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return ""
	}
}

// toNumber widens any numeric kind to float64
func toNumber(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case *int64:
		if x == nil {
			return 0, false
		}
		return float64(*x), true
	case *float64:
		if x == nil {
			return 0, false
		}
		return *x, true
	}
	return 0, false
}
