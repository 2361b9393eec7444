package models

import (
	"fmt"
	"math"
)

// Default blend weights.
const (
	DefaultSubjectiveWeight    = 0.4
	DefaultLogicWeight         = 0.3
	DefaultHallucinationWeight = 0.3
)

// WeightVector holds the blend weights of the three stages.
type WeightVector struct {
	Subjective    float64 `json:"subjective" yaml:"subjective"`
	Logic         float64 `json:"logic" yaml:"logic"`
	Hallucination float64 `json:"hallucination" yaml:"hallucination"`
}

// DefaultWeights returns the 0.4 / 0.3 / 0.3 vector.
func DefaultWeights() WeightVector {
	return WeightVector{
		Subjective:    DefaultSubjectiveWeight,
		Logic:         DefaultLogicWeight,
		Hallucination: DefaultHallucinationWeight,
	}
}

// Validate returns an error if any component is negative, NaN or infinite.
func (w WeightVector) Validate() error {
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"subjective", w.Subjective},
		{"logic", w.Logic},
		{"hallucination", w.Hallucination},
	} {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return fmt.Errorf("weight %s is not a finite number", c.name)
		}
		if c.v < 0 {
			return fmt.Errorf("weight %s must be non-negative, got %g", c.name, c.v)
		}
	}
	return nil
}

// IsZero reports whether all three components are zero.
func (w WeightVector) IsZero() bool {
	return w.Subjective == 0 && w.Logic == 0 && w.Hallucination == 0
}

// Sum returns the total weight.
func (w WeightVector) Sum() float64 {
	return w.Subjective + w.Logic + w.Hallucination
}

// For returns the weight of the given stage.
func (w WeightVector) For(kind StageKind) float64 {
	switch kind {
	case StageSubjective:
		return w.Subjective
	case StageLogic:
		return w.Logic
	case StageHallucination:
		return w.Hallucination
	default:
		return 0
	}
}

func (w WeightVector) String() string {
	return fmt.Sprintf("subjective=%.2f logic=%.2f hallucination=%.2f", w.Subjective, w.Logic, w.Hallucination)
}
