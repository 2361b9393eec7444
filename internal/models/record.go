package models

import (
	"time"

	"github.com/llmrec/recjudge/internal/statistics"
)

// UserProfile identifies the user a recommendation was generated for.
type UserProfile struct {
	UID         string `json:"uid" mapstructure:"uid"`
	Description string `json:"description,omitempty" mapstructure:"description"`
}

// Evaluation holds the three judge outputs collected for one user's recommendation.
// The *Result fields are either the raw judge text or an already-decoded structure.
type Evaluation struct {
	User                UserProfile `json:"user" mapstructure:"user"`
	Recommendation      string      `json:"rec,omitempty" mapstructure:"rec"`
	Recommendations     []string    `json:"recommendations,omitempty" mapstructure:"recommendations"`
	SubjectiveResult    any         `json:"subjective_result" mapstructure:"subjective_result"`
	LogicResult         any         `json:"logic_result" mapstructure:"logic_result"`
	HallucinationResult any         `json:"hallucination_result" mapstructure:"hallucination_result"`
}

// Rating is a ground-truth user rating for a recommended movie.
type Rating struct {
	UserID  string  `json:"user_id" mapstructure:"user_id"`
	Movie   string  `json:"movie" mapstructure:"movie"`
	MovieID int     `json:"movie_id,omitempty" mapstructure:"movie_id"`
	Rating  float64 `json:"rating" mapstructure:"rating"`
}

// RewardRecord is one scored (user, movie) pair.
type RewardRecord struct {
	UserID     string       `json:"user_id"`
	MovieID    int          `json:"movie_id,omitempty"`
	MovieName  string       `json:"movie_name"`
	Reward     float64      `json:"reward"`
	UserRating float64      `json:"user_rating"`
	Result     RewardResult `json:"stages"`
}

// Residual returns UserRating - Reward.
func (r RewardRecord) Residual() float64 {
	return r.UserRating - r.Reward
}

// SkippedRating records a rating that could not be scored and why.
type SkippedRating struct {
	Rating Rating `json:"rating"`
	Reason string `json:"reason"`
}

// RunSummary is the output of a batch scoring run.
type RunSummary struct {
	RunID     string                         `json:"run_id"`
	Timestamp time.Time                      `json:"timestamp"`
	Weights   WeightVector                   `json:"weights"`
	Records   []RewardRecord                 `json:"records"`
	Skipped   []SkippedRating                `json:"skipped,omitempty"`
	MAE       float64                        `json:"mae"`
	StdDev    float64                        `json:"std"`
	MeanError float64                        `json:"mean_error"`
	ErrorCI   *statistics.ConfidenceInterval `json:"mean_error_ci,omitempty"`
}
