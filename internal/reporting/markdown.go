package reporting

import (
	"fmt"
	"math"
	"strings"

	"github.com/llmrec/recjudge/internal/models"
)

// FormatMarkdown formats a RunSummary as a markdown comment for GitHub PRs.
// Records further than maxError from the user rating are marked and listed
// with their stage scores.
func FormatMarkdown(summary *models.RunSummary, maxError float64) string {
	var b strings.Builder

	b.WriteString("## 🎬 recjudge Reward Results\n\n")

	over := 0
	for _, r := range summary.Records {
		if math.Abs(r.Residual()) > maxError {
			over++
		}
	}
	statusIcon := "✅ Within tolerance"
	if over > 0 {
		statusIcon = fmt.Sprintf("❌ %d over ±%.2f", over, maxError)
	}

	if len(summary.Records) == 0 {
		b.WriteString("**Status:** ⚠️ No ratings could be scored\n\n")
	} else {
		b.WriteString(fmt.Sprintf("**Status:** %s | **MAE:** %.3f (%s) | **STD:** %.3f\n\n",
			statusIcon, summary.MAE, InterpretMAE(summary.MAE), summary.StdDev))
	}

	b.WriteString(printer.Sprintf("- **Ratings:** %d scored, %d skipped\n", len(summary.Records), len(summary.Skipped)))
	b.WriteString(fmt.Sprintf("- **Weights:** %s\n", summary.Weights))
	if len(summary.Records) > 0 {
		b.WriteString(fmt.Sprintf("- **Bias:** %s\n", InterpretBias(summary.MeanError, summary.ErrorCI)))
	}
	b.WriteString("\n")

	if len(summary.Records) > 0 {
		b.WriteString("### Per-Movie Comparison\n\n")
		b.WriteString("| User | Movie | Rating | Reward | Error | |\n")
		b.WriteString("|------|-------|--------|--------|-------|---|\n")
		for _, r := range summary.Records {
			icon := "✅"
			if math.Abs(r.Residual()) > maxError {
				icon = "❌"
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %.1f | %.2f | %+.2f | %s |\n",
				r.UserID, escapeCell(r.MovieName), r.UserRating, r.Reward, r.Residual(), icon))
		}
		b.WriteString("\n")
	}

	if over > 0 {
		b.WriteString("### Largest Disagreements\n\n")
		for _, r := range summary.Records {
			if math.Abs(r.Residual()) <= maxError {
				continue
			}
			b.WriteString(fmt.Sprintf("#### %s (user %s)\n\n", escapeCell(r.MovieName), r.UserID))
			for _, kind := range models.StageKinds {
				sr := r.Result.Stage(kind)
				note := ""
				if sr.Defaulted {
					note = " _(default used)_"
				}
				b.WriteString(fmt.Sprintf("- **%s** %.2f × %.2f%s\n", kind, sr.Score, r.Result.Weights.For(kind), note))
			}
			b.WriteString("\n")
		}
	}

	if len(summary.Skipped) > 0 {
		b.WriteString("<details><summary>Skipped ratings</summary>\n\n")
		for _, s := range summary.Skipped {
			b.WriteString(fmt.Sprintf("- user %s, %s: %s\n", s.Rating.UserID, escapeCell(s.Rating.Movie), s.Reason))
		}
		b.WriteString("\n</details>\n\n")
	}

	b.WriteString("---\n\n")
	b.WriteString(fmt.Sprintf("**Run:** %s | **Time:** %s\n", summary.RunID, summary.Timestamp.Format("2006-01-02 15:04 MST")))

	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
