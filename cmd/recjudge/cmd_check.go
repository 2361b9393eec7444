package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/llmrec/recjudge/internal/models"
	"github.com/llmrec/recjudge/internal/orchestration"
	"github.com/llmrec/recjudge/internal/validation"
	"github.com/spf13/cobra"
)

var (
	checkResultsPath  string
	checkOutputFormat string
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [FILE...]",
		Short: "Validate judge outputs against the judgment schema",
		Long: `Validate judge outputs against the embedded judgment schema.

Each FILE holds the output of one judge. With --results, every judge output of
every collected record is validated as well. Scoring never rejects a payload;
check reports which outputs would contribute nothing or be partly ignored.

Exits with code 1 if any output fails validation.`,
		RunE: checkCommandE,
	}

	cmd.Flags().StringVar(&checkResultsPath, "results", "", "Also validate every record of this judge results file")
	cmd.Flags().StringVarP(&checkOutputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

type checkedPayload struct {
	Source string   `json:"source"`
	Stage  string   `json:"stage,omitempty"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

func checkCommandE(cmd *cobra.Command, args []string) error {
	if err := checkFormat(checkOutputFormat); err != nil {
		return err
	}
	if len(args) == 0 && checkResultsPath == "" {
		return errors.New("nothing to check: pass judge output files or --results")
	}

	var checked []checkedPayload
	for _, path := range args {
		errs, err := validation.ValidatePayloadFile(path)
		if err != nil {
			return err
		}
		checked = append(checked, checkedPayload{Source: path, Valid: len(errs) == 0, Errors: errs})
	}

	if checkResultsPath != "" {
		evals, err := orchestration.LoadEvaluations(checkResultsPath)
		if err != nil {
			return err
		}
		checked = append(checked, checkEvaluations(checkResultsPath, evals)...)
	}

	out := cmd.OutOrStdout()
	if checkOutputFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(checked); err != nil {
			return err
		}
	} else {
		printChecked(out, checked)
	}

	failed := 0
	for _, c := range checked {
		if !c.Valid {
			failed++
		}
	}
	if failed > 0 {
		return &CheckFailureError{
			Message: fmt.Sprintf("%d of %d judge outputs failed validation", failed, len(checked)),
		}
	}
	return nil
}

// checkEvaluations validates the three judge outputs of every record.
func checkEvaluations(source string, evals []models.Evaluation) []checkedPayload {
	var checked []checkedPayload
	for i, e := range evals {
		label := fmt.Sprintf("%s[%d] user %s", source, i, e.User.UID)
		errsByStage := validation.ValidateEvaluation(e)
		for _, kind := range models.StageKinds {
			errs := errsByStage[kind.String()]
			sort.Strings(errs)
			checked = append(checked, checkedPayload{
				Source: label,
				Stage:  kind.String(),
				Valid:  len(errs) == 0,
				Errors: errs,
			})
		}
	}
	return checked
}

func printChecked(w io.Writer, checked []checkedPayload) {
	for _, c := range checked {
		status := "✅"
		if !c.Valid {
			status = "❌"
		}
		name := c.Source
		if c.Stage != "" {
			name += " (" + c.Stage + ")"
		}
		fmt.Fprintf(w, "%s %s\n", status, name)
		for _, e := range c.Errors {
			fmt.Fprintf(w, "   - %s\n", e)
		}
	}
}
