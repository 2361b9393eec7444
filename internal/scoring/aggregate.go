package scoring

import (
	"math"
	"sort"
)

// Entry is one named score value. A stage may hold several entries with the
// same key, one per judged record.
type Entry struct {
	Key   string
	Value any
}

// Aggregator computes the weighted mean of normalized entries.
type Aggregator struct {
	Normalizer Normalizer
}

// NewAggregator returns an Aggregator whose default and fallback score is def.
func NewAggregator(def float64) Aggregator {
	return Aggregator{Normalizer: NewNormalizer(def)}
}

// Default is the value returned when there is nothing to aggregate.
func (a Aggregator) Default() float64 {
	return a.Normalizer.Default
}

// Aggregate returns sum(w*v) / sum(w) over entries, where v is the normalized
// entry value and w its weight. A nil weights map weighs every entry 1.0;
// keys absent from weights also weigh 1.0, and weight keys without entries are
// ignored. Negative or non-finite weights count as zero. Empty input, or a
// zero total weight, returns the default.
func (a Aggregator) Aggregate(entries []Entry, weights map[string]float64) float64 {
	mean, ok := a.Weighted(entries, weights)
	if !ok {
		return a.Default()
	}
	return mean
}

// Weighted is like Aggregate but reports, instead of substituting the default,
// whether any entry carried weight.
func (a Aggregator) Weighted(entries []Entry, weights map[string]float64) (float64, bool) {
	var sum, total float64
	for _, e := range entries {
		w := weightFor(weights, e.Key)
		if w == 0 {
			continue
		}
		sum += w * a.Normalizer.Normalize(e.Value)
		total += w
	}

	if total == 0 {
		return 0, false
	}
	return sum / total, true
}

// AggregateMap is [Aggregator.Aggregate] over a mapping of key to value. Keys
// are visited in sorted order so the floating-point sum is reproducible.
func (a Aggregator) AggregateMap(scores map[string]any, weights map[string]float64) float64 {
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, Entry{Key: k, Value: scores[k]})
	}
	return a.Aggregate(entries, weights)
}

func weightFor(weights map[string]float64, key string) float64 {
	w, ok := weights[key]
	if !ok {
		return 1.0
	}
	if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return 0
	}
	return w
}
