// Package weights tunes the reward weight vector from reviewer feedback and
// persists it.
package weights

import (
	"fmt"
	"strings"

	"github.com/llmrec/recjudge/internal/models"
	"github.com/llmrec/recjudge/internal/scoring"
)

// FeedbackCategory is the reason a reviewer disagreed with a reward.
type FeedbackCategory string

const (
	// CategoryMismatch: the recommended movie was the wrong kind for the user.
	CategoryMismatch FeedbackCategory = "category"
	// CategoryLogic: the explanation did not hold together.
	CategoryLogic FeedbackCategory = "logic"
	// CategoryHallucination: the recommendation invented facts.
	CategoryHallucination FeedbackCategory = "hallucination"
)

// FeedbackCategories lists the valid categories.
var FeedbackCategories = []FeedbackCategory{CategoryMismatch, CategoryLogic, CategoryHallucination}

// Step sizes of a single adjustment.
const (
	RaiseStep = 0.1
	LowerStep = 0.05
)

// ParseFeedbackCategory parses a category name, ignoring case and surrounding space.
func ParseFeedbackCategory(s string) (FeedbackCategory, error) {
	c := FeedbackCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range FeedbackCategories {
		if c == valid {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown feedback category %q (valid: category, logic, hallucination)", s)
}

// Stage is the stage whose weight the category raises.
func (c FeedbackCategory) Stage() (models.StageKind, bool) {
	switch c {
	case CategoryMismatch:
		return models.StageSubjective, true
	case CategoryLogic:
		return models.StageLogic, true
	case CategoryHallucination:
		return models.StageHallucination, true
	default:
		return "", false
	}
}

// Adjust raises the weight of the stage the category points at by RaiseStep
// and lowers the other two by LowerStep. Every component is clamped to [0, 1].
// An unknown category returns w unchanged.
func Adjust(w models.WeightVector, c FeedbackCategory) models.WeightVector {
	target, ok := c.Stage()
	if !ok {
		return w
	}

	step := func(kind models.StageKind, v float64) float64 {
		if kind == target {
			v += RaiseStep
		} else {
			v -= LowerStep
		}
		return scoring.Clamp(v, 0, 1)
	}

	return models.WeightVector{
		Subjective:    step(models.StageSubjective, w.Subjective),
		Logic:         step(models.StageLogic, w.Logic),
		Hallucination: step(models.StageHallucination, w.Hallucination),
	}
}
