// Package scoring reduces judge score values into bounded numbers: a normalizer
// that coerces and clamps single values, and an aggregator that computes the
// weighted mean of a stage's values.
package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// MinScore and MaxScore bound every normalized score value.
	MinScore = 0.0
	MaxScore = 5.0

	// DefaultScore replaces values that cannot be read as numbers.
	DefaultScore = 3.0
)

// ErrNotNumeric is returned by [ToFloat] for values that have no numeric reading.
var ErrNotNumeric = errors.New("value is not numeric")

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ToFloat coerces a judge-supplied value into a float64. Numbers of any Go
// kind, json.Number and decimal strings are accepted. Booleans, nil, NaN and
// infinities are rejected with an error wrapping [ErrNotNumeric]. That covers
// strings such as "inf" and "1e400" that parse to an infinity: they are not
// clamped to MaxScore.
func ToFloat(raw any) (float64, error) {
	var v float64

	switch n := raw.(type) {
	case float64:
		v = n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int8:
		v = float64(n)
	case int16:
		v = float64(n)
	case int32:
		v = float64(n)
	case int64:
		v = float64(n)
	case uint:
		v = float64(n)
	case uint8:
		v = float64(n)
	case uint16:
		v = float64(n)
	case uint32:
		v = float64(n)
	case uint64:
		v = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotNumeric, n.String())
		}
		v = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotNumeric, n)
		}
		v = f
	default:
		return 0, fmt.Errorf("%w: %T", ErrNotNumeric, raw)
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v is not finite", ErrNotNumeric, v)
	}

	return v, nil
}

// Normalizer turns an arbitrary value into a score within [MinScore, MaxScore].
type Normalizer struct {
	// Default is returned for values that cannot be coerced.
	Default float64
}

// NewNormalizer returns a Normalizer that falls back to def.
func NewNormalizer(def float64) Normalizer {
	return Normalizer{Default: def}
}

// Normalize coerces raw with [ToFloat] and clamps it. It never fails: values
// without a numeric reading yield n.Default unchanged.
func (n Normalizer) Normalize(raw any) float64 {
	v, err := ToFloat(raw)
	if err != nil {
		return n.Default
	}
	return Clamp(v, MinScore, MaxScore)
}
