package graders

import (
	"github.com/llmrec/recjudge/internal/judgment"
	"github.com/llmrec/recjudge/internal/models"
	"github.com/llmrec/recjudge/internal/scoring"
)

// meanGrader scores a stage as the weighted mean of its metric values.
type meanGrader struct {
	kind    models.StageKind
	keys    judgment.KeySet
	agg     scoring.Aggregator
	weights map[string]float64
}

func newMeanGrader(kind models.StageKind, keys judgment.KeySet, opts Options) *meanGrader {
	return &meanGrader{
		kind:    kind,
		keys:    keys,
		agg:     scoring.NewAggregator(opts.DefaultScore),
		weights: opts.MetricWeights,
	}
}

func (g *meanGrader) Name() string           { return g.kind.String() }
func (g *meanGrader) Kind() models.StageKind { return g.kind }

func (g *meanGrader) Grade(p judgment.Payload) models.StageResult {
	metrics, dropped := judgment.ExtractMetrics(p, g.keys)

	entries := make([]scoring.Entry, 0, len(metrics))
	for _, m := range metrics {
		entries = append(entries, scoring.Entry{Key: m.Metric.Name, Value: m.Value})
	}

	mean, ok := g.agg.Weighted(entries, g.weights)
	if !ok {
		return defaulted(g.kind, g.agg.Default(), dropped)
	}

	return models.StageResult{
		Kind:      g.kind,
		Score:     scoring.Clamp(mean, MinStageScore, MaxStageScore),
		Extracted: len(entries),
		Dropped:   dropped,
	}
}
