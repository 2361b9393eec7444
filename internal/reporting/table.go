package reporting

import (
	"fmt"
	"strings"

	"github.com/llmrec/recjudge/internal/models"
	"github.com/mattn/go-runewidth"
)

const maxTitleWidth = 40

// FormatRecordTable renders one line per reward record, aligning titles by
// terminal display width so wide (CJK) titles line up.
func FormatRecordTable(records []models.RewardRecord) string {
	titleWidth := len("Movie")
	for _, r := range records {
		titleWidth = max(titleWidth, runewidth.StringWidth(truncateName(r.MovieName, maxTitleWidth)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  %-8s %s  %6s  %6s  %6s  %s\n", "User", padRight("Movie", titleWidth), "Rating", "Reward", "Error", "")
	for _, r := range records {
		note := InterpretReward(r.Reward)
		if defaulted := defaultedStages(r.Result); defaulted != "" {
			note += " (default: " + defaulted + ")"
		}
		fmt.Fprintf(&b, "  %-8s %s  %6.1f  %6.2f  %+6.2f  %s\n",
			r.UserID,
			padRight(truncateName(r.MovieName, maxTitleWidth), titleWidth),
			r.UserRating,
			r.Reward,
			r.Residual(),
			note,
		)
	}
	return b.String()
}

func defaultedStages(res models.RewardResult) string {
	var names []string
	for _, kind := range models.StageKinds {
		if res.Stage(kind).Defaulted {
			names = append(names, kind.String())
		}
	}
	return strings.Join(names, ", ")
}

// truncateName shortens a name to maxLen display columns, replacing the tail with "…" if needed.
func truncateName(name string, maxLen int) string {
	if runewidth.StringWidth(name) <= maxLen {
		return name
	}
	return runewidth.Truncate(name, maxLen, "…")
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
