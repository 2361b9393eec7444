package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/llmrec/recjudge/internal/judgment"
	"github.com/llmrec/recjudge/internal/reporting"
	"github.com/llmrec/recjudge/internal/reward"
	"github.com/spf13/cobra"
)

var (
	scoreSubjectivePath    string
	scoreLogicPath         string
	scoreHallucinationPath string
	scoreWeights           string
	scoreVerbose           bool
	scoreFormat            string
	scoreStoreDir          string
)

func newScoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the reward for one recommendation",
		Long: `Compute the reward for one recommendation from its three judge outputs.

Each judge output is read from a file, or from stdin when the path is "-".
The text may be wrapped in a markdown code fence. A judge that is omitted or
whose output cannot be read contributes the default stage score.`,
		Args: cobra.NoArgs,
		RunE: scoreCommandE,
	}

	cmd.Flags().StringVar(&scoreSubjectivePath, "subjective", "", "Subjective judge output file, or - for stdin")
	cmd.Flags().StringVar(&scoreLogicPath, "logic", "", "Logic judge output file, or - for stdin")
	cmd.Flags().StringVar(&scoreHallucinationPath, "hallucination", "", "Hallucination judge output file, or - for stdin")
	cmd.Flags().StringVar(&scoreWeights, "weights", "", "Blend weights as subjective,logic,hallucination (overrides stored and configured weights)")
	cmd.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "Print the per-stage breakdown")
	cmd.Flags().StringVarP(&scoreFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().StringVar(&scoreStoreDir, "store", "", "Weight store directory (default from .recjudge.yaml)")

	return cmd
}

func scoreCommandE(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(scoreFormat); err != nil {
		return err
	}

	paths := []string{scoreSubjectivePath, scoreLogicPath, scoreHallucinationPath}
	stdin := 0
	given := 0
	for _, p := range paths {
		if p == "-" {
			stdin++
		}
		if p != "" {
			given++
		}
	}
	if given == 0 {
		return errors.New("at least one of --subjective, --logic or --hallucination is required")
	}
	if stdin > 1 {
		return errors.New("only one judge output can be read from stdin")
	}

	payloads := make([]judgment.Payload, len(paths))
	for i, p := range paths {
		payload, err := readPayload(cmd.InOrStdin(), p)
		if err != nil {
			return err
		}
		payloads[i] = payload
	}

	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}

	w, err := resolveWeights(cmd.Context(), cfg, scoreWeights, resolveStoreDir(cfg, scoreStoreDir))
	if err != nil {
		return err
	}

	verbose := scoreVerbose || (cfg.Run.Verbose != nil && *cfg.Run.Verbose)
	report := cmd.OutOrStdout()
	if scoreFormat == "json" {
		report = cmd.ErrOrStderr()
	}

	composer, err := newComposer(cfg, w, verbose, report)
	if err != nil {
		return err
	}

	res := composer.Compute(payloads[0], payloads[1], payloads[2])

	out := cmd.OutOrStdout()
	if scoreFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(out, "Reward: %.2f (%s)\n", reward.Round2(res.Reward), reporting.InterpretReward(res.Reward))
	return nil
}

// readPayload reads one judge output. An empty path is an omitted judge.
func readPayload(stdin io.Reader, path string) (judgment.Payload, error) {
	if path == "" {
		return judgment.Empty(), nil
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return judgment.Payload{}, fmt.Errorf("failed to read judge output %s: %w", path, err)
	}

	p := judgment.FromText(string(data))
	if p.Err() != nil {
		slog.Debug("judge output could not be decoded", "path", path, "error", p.Err())
	}
	return p, nil
}
