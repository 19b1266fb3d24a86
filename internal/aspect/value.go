package aspect

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxValueLength is the maximum number of characters in an aspect value.
const MaxValueLength = 1000

// Value is a validated aspect payload. It carries no type tag; numeric,
// boolean, and duration readings are inferred on demand from the raw text.
// The zero value is invalid; construct one via NewValue.
type Value struct {
	value string
}

// NewValue validates s as an aspect value: 1-1000 characters and not blank.
// Interior and exterior whitespace are preserved; only the blank check uses
// the trimmed text.
func NewValue(s string) (Value, error) {
	if strings.TrimSpace(s) == "" {
		return Value{}, fmt.Errorf("aspect value must not be blank")
	}
	if len(s) > MaxValueLength {
		return Value{}, fmt.Errorf("aspect value exceeds %d characters", MaxValueLength)
	}
	return Value{value: s}, nil
}

// String returns the raw value text.
func (v Value) String() string { return v.value }

// IsNumeric reports whether the value parses as a 64-bit float literal.
func (v Value) IsNumeric() bool {
	_, err := strconv.ParseFloat(v.value, 64)
	return err == nil
}

// Float64 returns the numeric reading of the value.
func (v Value) Float64() (float64, bool) {
	f, err := strconv.ParseFloat(v.value, 64)
	return f, err == nil
}

// Boolean alias sets. Matching is case-insensitive and exact.
var (
	trueAliases  = map[string]bool{"true": true, "yes": true, "1": true}
	falseAliases = map[string]bool{"false": true, "no": true, "0": true}
)

// IsBool reports whether the value is one of the boolean aliases
// true/yes/1 or false/no/0, case-insensitively.
func (v Value) IsBool() bool {
	_, ok := v.Bool()
	return ok
}

// Bool returns the boolean reading of the value.
func (v Value) Bool() (bool, bool) {
	s := strings.ToLower(v.value)
	if trueAliases[s] {
		return true, true
	}
	if falseAliases[s] {
		return false, true
	}
	return false, false
}

// IsDuration reports whether the value is a syntactically valid duration
// expression. Note that a valid expression may still carry no value: see
// Duration.
func (v Value) IsDuration() bool {
	_, valid := parseISODuration(v.value)
	return valid
}

// Duration returns the duration reading of the value, truncated to
// millisecond resolution. A syntactically valid expression whose components
// all truncate to zero milliseconds (e.g. "PT0H") reports ok == false even
// though IsDuration is true.
func (v Value) Duration() (time.Duration, bool) {
	ms, valid := parseISODuration(v.value)
	if !valid || ms == 0 {
		return 0, false
	}
	return time.Duration(ms) * time.Millisecond, true
}

// Compare orders two values: both numeric compare as floats, both boolean
// compare by truth value (false < true), anything else falls back to
// bytewise comparison of the raw text. Mixed-type pairs never partially
// coerce; they take the bytewise path.
func (v Value) Compare(o Value) int {
	if a, aok := v.Float64(); aok {
		if b, bok := o.Float64(); bok {
			switch {
			case a < b:
				return -1
			case a > b:
				return 1
			default:
				return 0
			}
		}
	}
	if a, aok := v.Bool(); aok {
		if b, bok := o.Bool(); bok {
			switch {
			case a == b:
				return 0
			case !a:
				return -1
			default:
				return 1
			}
		}
	}
	return strings.Compare(v.value, o.value)
}

// parseISODuration scans the restricted ISO-8601 duration subset:
//
//	P<n>W                                  weeks, exclusively
//	P[<n>D][T[<n>H][<n>M][<n>S]]           with at least one component,
//	                                       and at least one of H/M/S after T
//
// Components accept fractional values; the fractional remainder cascades
// into smaller units and the total truncates to whole milliseconds.
// Calendar years/months and negative components are not part of the subset.
// Returns the total in milliseconds and whether the expression is valid.
func parseISODuration(s string) (int64, bool) {
	if len(s) < 2 || s[0] != 'P' {
		return 0, false
	}
	i := 1

	num := func() (float64, bool) {
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == start {
			return 0, false
		}
		if i < len(s) && s[i] == '.' {
			i++
			fracStart := i
			for i < len(s) && s[i] >= '0' && s[i] <= '9' {
				i++
			}
			if i == fracStart {
				return 0, false
			}
		}
		f, err := strconv.ParseFloat(s[start:i], 64)
		return f, err == nil
	}

	var totalMS float64

	// Week form: P<n>W with nothing else.
	if j := strings.IndexByte(s, 'W'); j >= 0 {
		n, ok := num()
		if !ok || i != j || j != len(s)-1 {
			return 0, false
		}
		totalMS = n * 7 * 24 * 60 * 60 * 1000
		return truncMS(totalMS), true
	}

	seen := false

	// Optional date part: <n>D.
	if i < len(s) && s[i] != 'T' {
		n, ok := num()
		if !ok || i >= len(s) || s[i] != 'D' {
			return 0, false
		}
		i++
		totalMS += n * 24 * 60 * 60 * 1000
		seen = true
	}

	// Optional time part: T then an ordered subset of <n>H <n>M <n>S.
	if i < len(s) {
		if s[i] != 'T' {
			return 0, false
		}
		i++
		timeSeen := false
		for _, unit := range []struct {
			suffix byte
			ms     float64
		}{
			{'H', 60 * 60 * 1000},
			{'M', 60 * 1000},
			{'S', 1000},
		} {
			if i >= len(s) {
				break
			}
			mark := i
			n, ok := num()
			if !ok {
				return 0, false
			}
			if i >= len(s) || s[i] != unit.suffix {
				// Not this unit; rewind and try the next smaller one.
				i = mark
				continue
			}
			i++
			totalMS += n * unit.ms
			timeSeen = true
		}
		if !timeSeen || i != len(s) {
			return 0, false
		}
		seen = true
	}

	if !seen {
		return 0, false
	}
	return truncMS(totalMS), true
}

// truncMS truncates a millisecond total to a whole count. The epsilon
// absorbs binary float error on decimal fractions (0.29s is 289.999...97
// in float64) without letting genuine sub-millisecond remainders round up.
func truncMS(ms float64) int64 {
	return int64(ms + 1e-6)
}
