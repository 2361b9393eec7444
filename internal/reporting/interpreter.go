package reporting

import (
	"fmt"
	"math"
	"strings"

	"github.com/llmrec/recjudge/internal/models"
	"github.com/llmrec/recjudge/internal/statistics"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer formats counts with thousands separators.
var printer = message.NewPrinter(language.English)

// InterpretMAE returns a plain-language label for a mean absolute error on the
// 1-5 rating scale.
func InterpretMAE(mae float64) string {
	switch {
	case mae < 0.5:
		return "Close (<0.5 stars)"
	case mae < 1:
		return "Fair (0.5-1 stars)"
	case mae < 2:
		return "Off (1-2 stars)"
	default:
		return "Far off (>=2 stars)"
	}
}

// InterpretBias explains whether rewards run above or below the user ratings.
// meanError is the mean of rating - reward.
func InterpretBias(meanError float64, ci *statistics.ConfidenceInterval) string {
	if ci != nil && !statistics.IsSignificant(*ci) {
		return fmt.Sprintf("No consistent bias: the %.0f%% interval of the mean error [%.2f, %.2f] includes zero.",
			ci.ConfidenceLevel*100, ci.Lower, ci.Upper)
	}

	direction := "below"
	if meanError < 0 {
		direction = "above"
	}
	msg := fmt.Sprintf("Rewards run %.2f stars %s user ratings on average.", math.Abs(meanError), direction)
	if ci != nil {
		msg += fmt.Sprintf(" (%.0f%% CI [%.2f, %.2f])", ci.ConfidenceLevel*100, ci.Lower, ci.Upper)
	}
	return msg
}

// InterpretReward returns a plain-language label for a reward in [1, 5].
func InterpretReward(reward float64) string {
	switch {
	case reward >= 4.5:
		return "Strong"
	case reward >= 3.5:
		return "Good"
	case reward >= 2.5:
		return "Mixed"
	default:
		return "Weak"
	}
}

// FormatSummaryReport produces a full plain-language report from a RunSummary.
func FormatSummaryReport(summary *models.RunSummary) string {
	var b strings.Builder

	b.WriteString("=== Interpretation ===\n\n")
	b.WriteString(printer.Sprintf("Ratings:       %d scored, %d skipped\n", len(summary.Records), len(summary.Skipped)))
	b.WriteString(fmt.Sprintf("Weights:       %s\n", summary.Weights))

	if len(summary.Records) == 0 {
		b.WriteString("\nNo ratings could be scored.\n")
	} else {
		b.WriteString(fmt.Sprintf("MAE:           %.3f — %s\n", summary.MAE, InterpretMAE(summary.MAE)))
		b.WriteString(fmt.Sprintf("STD:           %.3f\n", summary.StdDev))
		b.WriteString(fmt.Sprintf("Bias:          %s\n", InterpretBias(summary.MeanError, summary.ErrorCI)))

		b.WriteString("\nPer-Movie Comparison:\n")
		b.WriteString(FormatRecordTable(summary.Records))
	}

	if len(summary.Skipped) > 0 {
		b.WriteString("\nSkipped:\n")
		for _, s := range summary.Skipped {
			b.WriteString(fmt.Sprintf("  - user %s, %s: %s\n", s.Rating.UserID, s.Rating.Movie, s.Reason))
		}
	}

	return b.String()
}
