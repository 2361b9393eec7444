package models

// StageKind identifies one of the three judgment categories.
type StageKind string

const (
	StageSubjective    StageKind = "subjective"
	StageLogic         StageKind = "logic"
	StageHallucination StageKind = "hallucination"
)

// StageKinds lists the stages in blend order.
var StageKinds = []StageKind{StageSubjective, StageLogic, StageHallucination}

func (k StageKind) String() string {
	return string(k)
}

// StageResult is the reduced score for one judgment category.
type StageResult struct {
	Kind StageKind `json:"kind"`
	// Score is always within [1, 5].
	Score float64 `json:"score"`
	// Extracted is the number of recognized values that contributed to Score.
	Extracted int `json:"extracted"`
	// Dropped counts recognized keys whose values could not be read as numbers.
	Dropped int `json:"dropped,omitempty"`
	// Defaulted is set when nothing usable was extracted and Score is the stage default.
	Defaulted bool `json:"defaulted,omitempty"`
}

// RewardResult is the composite reward for one (user, movie) pair.
type RewardResult struct {
	Subjective    StageResult  `json:"subjective"`
	Logic         StageResult  `json:"logic"`
	Hallucination StageResult  `json:"hallucination"`
	Weights       WeightVector `json:"weights"`
	// Weighted is the blend before the final clamp.
	Weighted float64 `json:"weighted"`
	// Reward is Weighted clamped to [1, 5].
	Reward float64 `json:"reward"`
}

// Stage returns the result for kind.
func (r RewardResult) Stage(kind StageKind) StageResult {
	switch kind {
	case StageSubjective:
		return r.Subjective
	case StageLogic:
		return r.Logic
	default:
		return r.Hallucination
	}
}
