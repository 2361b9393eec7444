package graders

import (
	"github.com/llmrec/recjudge/internal/judgment"
	"github.com/llmrec/recjudge/internal/models"
	"github.com/llmrec/recjudge/internal/scoring"
)

// hallucinationGrader pools risk and validity metrics on a [0, 1] quality
// scale and rescales the mean back to the display range.
type hallucinationGrader struct {
	agg     scoring.Aggregator
	weights map[string]float64
}

func newHallucinationGrader(opts Options) *hallucinationGrader {
	return &hallucinationGrader{
		agg:     scoring.NewAggregator(opts.DefaultScore),
		weights: opts.MetricWeights,
	}
}

func (g *hallucinationGrader) Name() string           { return models.StageHallucination.String() }
func (g *hallucinationGrader) Kind() models.StageKind { return models.StageHallucination }

func (g *hallucinationGrader) Grade(p judgment.Payload) models.StageResult {
	metrics, dropped := judgment.ExtractMetrics(p, judgment.HallucinationKeys)

	entries := make([]scoring.Entry, 0, len(metrics))
	for _, m := range metrics {
		q, ok := Quality(m.Metric, m.Value)
		if !ok {
			continue
		}
		entries = append(entries, scoring.Entry{Key: m.Metric.Name, Value: q})
	}

	mean, ok := g.agg.Weighted(entries, g.weights)
	if !ok {
		return defaulted(models.StageHallucination, g.agg.Default(), dropped)
	}

	return models.StageResult{
		Kind:      models.StageHallucination,
		Score:     scoring.Clamp(mean*scoring.MaxScore, MinStageScore, MaxStageScore),
		Extracted: len(entries),
		Dropped:   dropped,
	}
}

// Quality maps a hallucination-stage value onto [0, 1], higher is better.
// Risk values are inverted (1 - v/5) and validity values scaled (v/5), both
// after clamping v into [0, 5]. Plain metrics, such as the generic score key,
// have no quality reading in this stage.
func Quality(m judgment.Metric, v float64) (float64, bool) {
	c := scoring.Clamp(v, scoring.MinScore, scoring.MaxScore) / scoring.MaxScore
	switch m.Direction {
	case judgment.DirectionRisk:
		return 1 - c, true
	case judgment.DirectionValidity:
		return c, true
	default:
		return 0, false
	}
}
