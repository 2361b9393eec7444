package judgment

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/llmrec/recjudge/internal/scoring"
)

// maxNesting is how many levels of nested mappings below a record are walked.
const maxNesting = 1

// ParseError describes a recognized key whose value could not be read as a number.
type ParseError struct {
	Key   string
	Value any
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("judge value for %q: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Result is the outcome of reading one recognized key: either a value or an error.
type Result struct {
	Key    string
	Metric Metric
	Value  float64
	Err    error
}

// OK reports whether the value was read.
func (r Result) OK() bool { return r.Err == nil }

// MetricScore is a successfully read value of a recognized metric. Value is
// not clamped.
type MetricScore struct {
	Key    string
	Metric Metric
	Value  float64
}

// Coerce reads a single judge value as a number.
func Coerce(key string, value any) (float64, error) {
	v, err := scoring.ToFloat(value)
	if err != nil {
		return 0, &ParseError{Key: key, Value: value, Err: err}
	}
	return v, nil
}

// ExtractResults walks every record of p and returns one Result per key
// registered in ks. Keys within a record are visited in sorted order. A
// mapping-valued field is walked as a nested record, one level deep at most;
// keys outside ks are ignored.
func ExtractResults(p Payload, ks KeySet) []Result {
	var out []Result
	for _, rec := range p.Records() {
		out = walkRecord(out, rec, ks, 0)
	}
	return out
}

// ExtractMetrics returns the values of ExtractResults that were read
// successfully, and how many recognized values could not be read. Failed
// values are logged and dropped one at a time.
func ExtractMetrics(p Payload, ks KeySet) (metrics []MetricScore, dropped int) {
	results := ExtractResults(p, ks)
	metrics = make([]MetricScore, 0, len(results))
	for _, r := range results {
		if !r.OK() {
			slog.Debug("dropping judge value", "stage", ks.Name(), "key", r.Key, "error", r.Err)
			dropped++
			continue
		}
		metrics = append(metrics, MetricScore{Key: r.Key, Metric: r.Metric, Value: r.Value})
	}
	return metrics, dropped
}

// Extract returns the numeric values of every recognized key in p. It never
// fails; an empty or unreadable payload yields an empty slice.
//
// Values come record by record, in payload order. Within a record, keys are
// visited in sorted order rather than the order the judge wrote them, since
// decoded JSON objects do not keep it: {"Relevance":5,"Clarity":3} yields
// [3 5].
func Extract(p Payload, ks KeySet) []float64 {
	metrics, _ := ExtractMetrics(p, ks)
	out := make([]float64, len(metrics))
	for i, m := range metrics {
		out[i] = m.Value
	}
	return out
}

func walkRecord(out []Result, rec map[string]any, ks KeySet, depth int) []Result {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := rec[key]
		if nested, ok := val.(map[string]any); ok {
			if depth < maxNesting {
				out = walkRecord(out, nested, ks, depth+1)
			}
			continue
		}

		metric, ok := ks.Lookup(key)
		if !ok {
			continue
		}

		v, err := Coerce(key, val)
		out = append(out, Result{Key: key, Metric: metric, Value: v, Err: err})
	}
	return out
}
