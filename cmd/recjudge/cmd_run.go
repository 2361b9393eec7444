package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sync/atomic"

	"github.com/llmrec/recjudge/internal/models"
	"github.com/llmrec/recjudge/internal/orchestration"
	"github.com/llmrec/recjudge/internal/reporting"
	"github.com/llmrec/recjudge/internal/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	runResultsPath string
	runRatingsPath string
	runOutputPath  string
	runWorkers     int
	runMovies      []string
	runFormat      string
	runJUnitPath   string
	runMaxError    float64
	runSeed        int64
	runWeights     string
	runStoreDir    string
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Score collected judge results against user ratings",
		Long: `Score collected judge results against ground-truth user ratings.

--results holds one record per user with the three judge outputs; --ratings holds
the ratings users gave to recommended movies. Every rating whose movie has both a
subjective and a logic judgment is scored, and the rewards are compared with the
ratings (MAE, standard deviation, bias). Files ending in .gz are gzip compressed.

The reward records are written to --output. With --max-error, any reward further
than that from its rating makes the command exit with code 1.`,
		Args: cobra.NoArgs,
		RunE: runCommandE,
	}

	cmd.Flags().StringVar(&runResultsPath, "results", "", "Judge results file (JSON, optionally .gz)")
	cmd.Flags().StringVar(&runRatingsPath, "ratings", "", "User ratings file (JSON, optionally .gz)")
	cmd.Flags().StringVarP(&runOutputPath, "output", "o", "", "Reward records output file (default from .recjudge.yaml)")
	cmd.Flags().IntVarP(&runWorkers, "workers", "w", 0, "Number of ratings scored concurrently (default from .recjudge.yaml)")
	cmd.Flags().StringArrayVar(&runMovies, "movie", nil, "Only score movies whose title or ID matches this glob (repeatable)")
	cmd.Flags().StringVarP(&runFormat, "format", "f", "text", "Output format: text, json or markdown")
	cmd.Flags().StringVar(&runJUnitPath, "junit", "", "Write a JUnit XML report to this file")
	cmd.Flags().Float64Var(&runMaxError, "max-error", reporting.DefaultMaxError, "Largest accepted |rating - reward|")
	cmd.Flags().Int64Var(&runSeed, "seed", 0, "Seed for the bootstrap confidence interval")
	cmd.Flags().StringVar(&runWeights, "weights", "", "Blend weights as subjective,logic,hallucination (overrides stored and configured weights)")
	cmd.Flags().StringVar(&runStoreDir, "store", "", "Weight store directory (default from .recjudge.yaml)")

	_ = cmd.MarkFlagRequired("results")
	_ = cmd.MarkFlagRequired("ratings")

	return cmd
}

func runCommandE(cmd *cobra.Command, _ []string) error {
	if runFormat != "text" && runFormat != "json" && runFormat != "markdown" {
		return fmt.Errorf("unsupported format %q: must be text, json or markdown", runFormat)
	}
	if runMaxError < 0 || math.IsNaN(runMaxError) {
		return fmt.Errorf("--max-error must be non-negative, got %g", runMaxError)
	}
	if runWorkers < 0 {
		return fmt.Errorf("--workers must be non-negative, got %d", runWorkers)
	}

	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}

	evals, err := orchestration.LoadEvaluations(runResultsPath)
	if err != nil {
		return err
	}
	ratings, err := orchestration.LoadRatings(runRatingsPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	w, err := resolveWeights(ctx, cfg, runWeights, resolveStoreDir(cfg, runStoreDir))
	if err != nil {
		return err
	}
	composer, err := newComposer(cfg, w, false, nil)
	if err != nil {
		return err
	}

	workers := runWorkers
	if workers == 0 {
		workers = cfg.Run.Workers
	}
	opts := []orchestration.RunnerOption{
		orchestration.WithWorkers(workers),
		orchestration.WithMovieFilters(runMovies...),
	}
	if cmd.Flags().Changed("seed") {
		opts = append(opts, orchestration.WithSeed(runSeed))
	}

	runner := orchestration.NewRunner(composer, opts...)

	var progress *spinner.Spinner
	if isTerminal(cmd.ErrOrStderr()) {
		progress = spinner.Start(cmd.ErrOrStderr(), "Scoring ratings...")
	}
	runner.OnProgress(progressReporter(progress))

	summary, err := runner.Run(ctx, evals, ratings)
	if progress != nil {
		progress.Stop()
	}
	if err != nil {
		return err
	}

	output := runOutputPath
	if output == "" {
		output = cfg.Run.Output
	}
	if err := orchestration.WriteJSON(output, summary); err != nil {
		return err
	}
	slog.Debug("wrote reward records", "path", output, "records", len(summary.Records))

	if runJUnitPath != "" {
		if err := reporting.WriteJUnitXML(summary, runMaxError, runJUnitPath); err != nil {
			return fmt.Errorf("failed to write JUnit report: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	switch runFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return err
		}
	case "markdown":
		fmt.Fprint(out, reporting.FormatMarkdown(summary, runMaxError))
	default:
		fmt.Fprint(out, reporting.FormatSummaryReport(summary))
		fmt.Fprintf(out, "\nReward records written to %s\n", output)
	}

	if cmd.Flags().Changed("max-error") {
		if n := countOverMaxError(summary, runMaxError); n > 0 {
			return &CheckFailureError{
				Message: fmt.Sprintf("%d of %d rewards differ from the user rating by more than %.2f", n, len(summary.Records), runMaxError),
			}
		}
	}
	return nil
}

func countOverMaxError(summary *models.RunSummary, maxError float64) int {
	n := 0
	for _, r := range summary.Records {
		if math.Abs(r.Residual()) > maxError {
			n++
		}
	}
	return n
}

// progressReporter logs every event and, with a spinner, shows how many
// ratings have been handled.
func progressReporter(s *spinner.Spinner) orchestration.ProgressListener {
	var handled atomic.Int64
	return func(event orchestration.ProgressEvent) {
		logProgress(event)
		if s == nil {
			return
		}
		switch event.EventType {
		case orchestration.EventRunStart:
			s.Update(fmt.Sprintf("Scoring ratings 0/%d", event.Total))
		case orchestration.EventRecordComplete, orchestration.EventRecordSkipped:
			s.Update(fmt.Sprintf("Scoring ratings %d/%d", handled.Add(1), event.Total))
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func logProgress(event orchestration.ProgressEvent) {
	switch event.EventType {
	case orchestration.EventRunStart:
		slog.Debug("run started", "ratings", event.Total)
	case orchestration.EventRecordComplete:
		slog.Debug("scored", "user", event.UserID, "movie", event.Movie, "reward", event.Reward, "num", event.Num, "total", event.Total)
	case orchestration.EventRecordSkipped:
		slog.Debug("skipped", "user", event.UserID, "movie", event.Movie, "reason", event.Reason)
	case orchestration.EventRunComplete:
		slog.Debug("run complete", "total", event.Total)
	}
}
