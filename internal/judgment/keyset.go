package judgment

import (
	"sort"
	"strings"
)

// Direction tells how a metric's raw value relates to quality.
type Direction int

const (
	// DirectionPlain metrics are scored high-is-good on the display scale.
	DirectionPlain Direction = iota
	// DirectionRisk metrics are scored low-is-good (0 means no risk).
	DirectionRisk
	// DirectionValidity metrics are scored high-is-good and pooled with risk metrics.
	DirectionValidity
)

func (d Direction) String() string {
	switch d {
	case DirectionRisk:
		return "risk"
	case DirectionValidity:
		return "validity"
	default:
		return "plain"
	}
}

// Metric is a canonical judge metric.
type Metric struct {
	Name      string
	Direction Direction
}

// Canonical metric names as the judges are prompted to emit them.
var (
	MetricRelevance      = Metric{Name: "Relevance"}
	MetricClarity        = Metric{Name: "Clarity"}
	MetricPersuasiveness = Metric{Name: "Persuasiveness"}

	MetricContentMatching = Metric{Name: "Content-Matching"}
	MetricLogicClarity    = Metric{Name: "Logic-Clarity"}

	MetricHallucinationRisk   = Metric{Name: "Hallucination-Risk", Direction: DirectionRisk}
	MetricExplanatoryValidity = Metric{Name: "Explanatory Validity", Direction: DirectionValidity}

	// MetricGeneric is the generic fallback key accepted by every key set.
	MetricGeneric = Metric{Name: "score"}
)

// The three stage key sets.
var (
	SubjectiveKeys    = NewKeySet("subjective", MetricRelevance, MetricClarity, MetricPersuasiveness, MetricGeneric)
	LogicKeys         = NewKeySet("logic", MetricContentMatching, MetricLogicClarity, MetricGeneric)
	HallucinationKeys = NewKeySet("hallucination", MetricHallucinationRisk, MetricExplanatoryValidity, MetricGeneric)
)

// KeySet maps the accepted spellings of a stage's metrics to the metric.
// Lookups are exact: a key must already be in one of the registered forms.
type KeySet struct {
	name    string
	aliases map[string]Metric
}

// NewKeySet registers, for each metric, its canonical spelling and its
// lowercase form, each with hyphen, underscore and space word separators.
func NewKeySet(name string, metrics ...Metric) KeySet {
	ks := KeySet{name: name, aliases: make(map[string]Metric)}
	for _, m := range metrics {
		for _, alias := range aliasesOf(m.Name) {
			ks.aliases[alias] = m
		}
	}
	return ks
}

// Name returns the stage name the key set was built for.
func (ks KeySet) Name() string { return ks.name }

// Lookup returns the metric registered under key.
func (ks KeySet) Lookup(key string) (Metric, bool) {
	m, ok := ks.aliases[key]
	return m, ok
}

// Contains reports whether key is a registered alias.
func (ks KeySet) Contains(key string) bool {
	_, ok := ks.aliases[key]
	return ok
}

// Aliases returns every registered spelling, sorted.
func (ks KeySet) Aliases() []string {
	out := make([]string, 0, len(ks.aliases))
	for a := range ks.aliases {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Metrics returns the distinct metrics of the set, sorted by name.
func (ks KeySet) Metrics() []Metric {
	seen := make(map[string]Metric)
	for _, m := range ks.aliases {
		seen[m.Name] = m
	}
	out := make([]Metric, 0, len(seen))
	for _, m := range seen {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func aliasesOf(name string) []string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	if len(words) == 0 {
		return nil
	}

	forms := []string{name, strings.ToLower(name)}
	for _, sep := range []string{"-", "_", " "} {
		joined := strings.Join(words, sep)
		forms = append(forms, joined, strings.ToLower(joined))
	}
	return forms
}
