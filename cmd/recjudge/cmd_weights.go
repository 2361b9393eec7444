package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/llmrec/recjudge/internal/models"
	"github.com/llmrec/recjudge/internal/weights"
	"github.com/spf13/cobra"
)

var (
	weightsStoreDir string
	weightsFormat   string

	feedbackCategory string
	feedbackUser     string
	feedbackMovie    string
	feedbackScore    float64
	feedbackNote     string
)

func newWeightsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weights",
		Short: "Show or tune the reward blend weights",
		Long: `Show or tune the reward blend weights.

Tuned weights are kept in a local store (store.dir in .recjudge.yaml, default
.recjudge) together with the feedback that produced them. score and run use the
tuned weights unless --weights is given.`,
	}

	cmd.PersistentFlags().StringVar(&weightsStoreDir, "store", "", "Weight store directory (default from .recjudge.yaml)")

	cmd.AddCommand(newWeightsShowCommand())
	cmd.AddCommand(newWeightsFeedbackCommand())

	return cmd
}

func newWeightsShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current weights and the feedback history",
		Args:  cobra.NoArgs,
		RunE:  weightsShowCommandE,
	}
	cmd.Flags().StringVarP(&weightsFormat, "format", "f", "text", "Output format: text or json")
	return cmd
}

func newWeightsFeedbackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Adjust the weights from reviewer feedback",
		Long: `Adjust the weights from a reviewer's disagreement with a reward.

The category names what the judges missed:
  category       the recommended movies do not fit the user (raises subjective)
  logic          the recommendation reasoning is inconsistent (raises logic)
  hallucination  the recommendation mentions things that do not exist (raises hallucination)

The named weight is raised by 0.1 and the other two lowered by 0.05, each kept
within [0, 1].`,
		Args: cobra.NoArgs,
		RunE: weightsFeedbackCommandE,
	}

	cmd.Flags().StringVarP(&feedbackCategory, "category", "c", "", "Feedback category: category, logic or hallucination")
	cmd.Flags().StringVar(&feedbackUser, "user", "", "User the recommendation was made for")
	cmd.Flags().StringVar(&feedbackMovie, "movie", "", "Movie the feedback refers to")
	cmd.Flags().Float64Var(&feedbackScore, "score", 0, "Reviewer's own score for the recommendation (0-5)")
	cmd.Flags().StringVar(&feedbackNote, "note", "", "Free-form note")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

type weightsReport struct {
	Source   string              `json:"source"`
	Weights  models.WeightVector `json:"weights"`
	Sum      float64             `json:"sum"`
	Feedback []weights.Feedback  `json:"feedback"`
}

func weightsShowCommandE(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(weightsFormat); err != nil {
		return err
	}

	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}

	report := weightsReport{Source: "config", Weights: configuredWeights(cfg), Feedback: []weights.Feedback{}}

	dir := resolveStoreDir(cfg, weightsStoreDir)
	if _, err := os.Stat(dir); err == nil {
		store, err := weights.OpenBadgerStore(dir)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		w, err := store.Load(ctx)
		switch {
		case err == nil:
			report.Source = "store"
			report.Weights = w
		case !errors.Is(err, weights.ErrNotFound):
			return fmt.Errorf("loading weights: %w", err)
		}

		history, err := store.Feedback(ctx)
		if err != nil {
			return fmt.Errorf("loading feedback history: %w", err)
		}
		report.Feedback = history
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking weight store: %w", err)
	}
	report.Sum = report.Weights.Sum()

	out := cmd.OutOrStdout()
	if weightsFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printWeightsReport(out, report)
	return nil
}

func printWeightsReport(w io.Writer, r weightsReport) {
	fmt.Fprintf(w, "Weights (%s): %s\n", r.Source, r.Weights)
	fmt.Fprintf(w, "Sum:           %.2f\n", r.Sum)
	if len(r.Feedback) == 0 {
		fmt.Fprintln(w, "No feedback recorded.")
		return
	}

	fmt.Fprintf(w, "\nFeedback history (%d):\n", len(r.Feedback))
	for _, fb := range r.Feedback {
		line := fmt.Sprintf("  %s  %-13s", fb.Timestamp.Local().Format(time.DateTime), fb.Category)
		if fb.UserID != "" {
			line += " user " + fb.UserID
		}
		if fb.Movie != "" {
			line += fmt.Sprintf(" %q", fb.Movie)
		}
		if fb.Score != nil {
			line += fmt.Sprintf(" score %.1f", *fb.Score)
		}
		fmt.Fprintln(w, line)
		fmt.Fprintf(w, "      %s\n   -> %s\n", fb.Before, fb.After)
		if fb.Note != "" {
			fmt.Fprintf(w, "      note: %s\n", fb.Note)
		}
	}
}

func weightsFeedbackCommandE(cmd *cobra.Command, _ []string) error {
	category, err := weights.ParseFeedbackCategory(feedbackCategory)
	if err != nil {
		return err
	}

	fb := weights.Feedback{
		Category: category,
		UserID:   feedbackUser,
		Movie:    feedbackMovie,
		Note:     feedbackNote,
	}
	if cmd.Flags().Changed("score") {
		if feedbackScore < 0 || feedbackScore > 5 {
			return fmt.Errorf("--score must be between 0 and 5, got %g", feedbackScore)
		}
		score := feedbackScore
		fb.Score = &score
	}

	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}

	store, err := weights.OpenBadgerStore(resolveStoreDir(cfg, weightsStoreDir))
	if err != nil {
		return err
	}
	defer store.Close()

	applied, err := weights.NewTuner(store, configuredWeights(cfg)).Apply(cmd.Context(), fb)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Weights updated (%s):\n", applied.Category)
	fmt.Fprintf(out, "  before: %s\n", applied.Before)
	fmt.Fprintf(out, "  after:  %s\n", applied.After)
	return nil
}
