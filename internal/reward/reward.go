// Package reward blends the three stage scores of a recommendation into one
// bounded reward.
package reward

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/llmrec/recjudge/internal/graders"
	"github.com/llmrec/recjudge/internal/judgment"
	"github.com/llmrec/recjudge/internal/models"
	"github.com/llmrec/recjudge/internal/scoring"
)

// Options configures a Composer. The zero value is usable: weights default to
// 0.4/0.3/0.3 and the default score to 3.0.
type Options struct {
	Weights       models.WeightVector
	MetricWeights map[string]float64

	// DefaultScore is the stage score used when a judge payload has no
	// usable values. Nil means scoring.DefaultScore; zero is a real value.
	DefaultScore *float64

	// Verbose writes a breakdown of every computation to Report.
	Verbose bool
	Report  io.Writer
}

// Composer computes rewards. It is immutable after New and safe for
// concurrent use, apart from interleaving of verbose output.
type Composer struct {
	weights models.WeightVector
	graders []graders.Grader
	verbose bool
	report  io.Writer
}

// New creates a Composer. Invalid or all-zero weights fall back to the defaults.
func New(opts Options) (*Composer, error) {
	w := opts.Weights
	if w.IsZero() {
		w = models.DefaultWeights()
	} else if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("invalid reward weights: %w", err)
	}

	def := scoring.DefaultScore
	if opts.DefaultScore != nil {
		def = *opts.DefaultScore
	}

	gs, err := graders.CreateAll(graders.Options{DefaultScore: def, MetricWeights: opts.MetricWeights})
	if err != nil {
		return nil, err
	}

	report := opts.Report
	if report == nil {
		report = os.Stdout
	}

	return &Composer{weights: w, graders: gs, verbose: opts.Verbose, report: report}, nil
}

// Default returns a Composer with the default weights and default score.
func Default() *Composer {
	c, err := New(Options{})
	if err != nil {
		panic(err)
	}
	return c
}

// Weights returns the weight vector used for blending.
func (c *Composer) Weights() models.WeightVector { return c.weights }

// Compute grades the three payloads and blends the stage scores. It never fails:
// unusable payloads grade at the default score.
func (c *Composer) Compute(subjective, logic, hallucination judgment.Payload) models.RewardResult {
	payloads := map[models.StageKind]judgment.Payload{
		models.StageSubjective:    subjective,
		models.StageLogic:         logic,
		models.StageHallucination: hallucination,
	}

	res := models.RewardResult{Weights: c.weights}
	var sum float64
	for _, g := range c.graders {
		sr := g.Grade(payloads[g.Kind()])
		if sr.Defaulted {
			slog.Debug("stage defaulted", "stage", g.Name(), "score", sr.Score, "dropped", sr.Dropped)
		}

		switch g.Kind() {
		case models.StageSubjective:
			res.Subjective = sr
		case models.StageLogic:
			res.Logic = sr
		case models.StageHallucination:
			res.Hallucination = sr
		}
		sum += sr.Score * c.weights.For(g.Kind())
	}

	// not renormalized: weights that do not sum to 1 scale the reward before the clamp
	res.Weighted = sum
	res.Reward = scoring.Clamp(res.Weighted, graders.MinStageScore, graders.MaxStageScore)

	if c.verbose {
		WriteBreakdown(c.report, res)
	}
	return res
}

// ComputeReward is Compute over raw payloads: judge text, or already decoded
// JSON structures. See judgment.FromValue.
func (c *Composer) ComputeReward(subjective, logic, hallucination any) float64 {
	return c.Compute(
		judgment.FromValue(subjective),
		judgment.FromValue(logic),
		judgment.FromValue(hallucination),
	).Reward
}

// WriteBreakdown writes the intermediate scores of a reward.
func WriteBreakdown(w io.Writer, res models.RewardResult) {
	fmt.Fprintln(w, "=== Reward breakdown ===")
	for _, kind := range models.StageKinds {
		sr := res.Stage(kind)
		line := fmt.Sprintf("%-14s %.2f (weight %.0f%%)", kind.String()+":", sr.Score, res.Weights.For(kind)*100)
		if sr.Defaulted {
			line += " [no usable scores, default used]"
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "%-14s %.2f\n", "weighted:", res.Weighted)
	fmt.Fprintf(w, "%-14s %.2f\n", "reward:", res.Reward)
}

// Round2 rounds to two decimals for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
