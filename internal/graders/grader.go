package graders

import (
	"fmt"

	"github.com/llmrec/recjudge/internal/judgment"
	"github.com/llmrec/recjudge/internal/models"
	"github.com/llmrec/recjudge/internal/scoring"
)

// Stage scores are clamped into [MinStageScore, MaxStageScore].
const (
	MinStageScore = 1.0
	MaxStageScore = 5.0
)

// Grader reduces one judge payload to a stage score.
type Grader interface {
	// Name returns the grader name
	Name() string

	// Kind returns the stage the grader scores
	Kind() models.StageKind

	// Grade never fails; a payload with nothing usable yields the default score.
	Grade(p judgment.Payload) models.StageResult
}

// Options configures a stage grader.
type Options struct {
	// DefaultScore is used for unreadable values and for stages with no values.
	DefaultScore float64

	// MetricWeights weighs values by canonical metric name (see judgment.Metric).
	// Metrics without an entry weigh 1.0.
	MetricWeights map[string]float64
}

// DefaultOptions returns unweighted options with the standard default score.
func DefaultOptions() Options {
	return Options{DefaultScore: scoring.DefaultScore}
}

// Create creates the grader for a stage.
func Create(kind models.StageKind, opts Options) (Grader, error) {
	switch kind {
	case models.StageSubjective:
		return newMeanGrader(kind, judgment.SubjectiveKeys, opts), nil
	case models.StageLogic:
		return newMeanGrader(kind, judgment.LogicKeys, opts), nil
	case models.StageHallucination:
		return newHallucinationGrader(opts), nil
	default:
		return nil, fmt.Errorf("'%s' is not a valid stage", kind)
	}
}

// CreateAll creates the three stage graders in blend order.
func CreateAll(opts Options) ([]Grader, error) {
	out := make([]Grader, 0, len(models.StageKinds))
	for _, kind := range models.StageKinds {
		g, err := Create(kind, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func defaulted(kind models.StageKind, def float64, dropped int) models.StageResult {
	return models.StageResult{
		Kind:      kind,
		Score:     scoring.Clamp(def, MinStageScore, MaxStageScore),
		Dropped:   dropped,
		Defaulted: true,
	}
}
