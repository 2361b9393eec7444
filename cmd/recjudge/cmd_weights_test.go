package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/llmrec/recjudge/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightsShow_NoStore(t *testing.T) {
	storeDir := filepath.Join(t.TempDir(), "store")

	out, err := executeCommand(t, nil, "weights", "show", "--store", storeDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Weights (config): subjective=0.40 logic=0.30 hallucination=0.30")
	assert.Contains(t, out, "No feedback recorded.")
	assert.NoDirExists(t, storeDir, "show must not create the store")
}

func TestWeightsFeedback_ThenShow(t *testing.T) {
	storeDir := filepath.Join(t.TempDir(), "store")

	out, err := executeCommand(t, nil, "weights", "feedback", "--store", storeDir,
		"--category", "Category", "--user", "42", "--movie", "Heat (1995)", "--score", "2", "--note", "not a thriller fan")
	require.NoError(t, err)
	assert.Contains(t, out, "Weights updated (category):")
	assert.Contains(t, out, "before: subjective=0.40 logic=0.30 hallucination=0.30")
	assert.Contains(t, out, "after:  subjective=0.50 logic=0.25 hallucination=0.25")

	_, err = executeCommand(t, nil, "weights", "feedback", "--store", storeDir, "-c", "hallucination")
	require.NoError(t, err)

	out, err = executeCommand(t, nil, "weights", "show", "--store", storeDir, "--format", "json")
	require.NoError(t, err)

	var report weightsReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "store", report.Source)
	assert.InDelta(t, 0.45, report.Weights.Subjective, 1e-9)
	assert.InDelta(t, 0.2, report.Weights.Logic, 1e-9)
	assert.InDelta(t, 0.35, report.Weights.Hallucination, 1e-9)
	assert.InDelta(t, 1.0, report.Sum, 1e-9)

	require.Len(t, report.Feedback, 2)
	first := report.Feedback[0]
	assert.Equal(t, "42", first.UserID)
	assert.Equal(t, "Heat (1995)", first.Movie)
	require.NotNil(t, first.Score)
	assert.Equal(t, 2.0, *first.Score)
	assert.Equal(t, models.DefaultWeights(), first.Before)
	assert.Nil(t, report.Feedback[1].Score)

	out, err = executeCommand(t, nil, "weights", "show", "--store", storeDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Feedback history (2):")
	assert.Contains(t, out, "note: not a thriller fan")
}

func TestWeightsFeedback_StoredWeightsDriveScore(t *testing.T) {
	dir, subj, logic, halluc := judgeFiles(t)
	storeDir := filepath.Join(dir, "store")

	_, err := executeCommand(t, nil, "weights", "feedback", "--store", storeDir, "--category", "logic")
	require.NoError(t, err)

	out, err := executeCommand(t, nil, "score",
		"--subjective", subj, "--logic", logic, "--hallucination", halluc, "--store", storeDir, "-f", "json")
	require.NoError(t, err)

	var res models.RewardResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDelta(t, 0.35, res.Weights.Subjective, 1e-9)
	assert.InDelta(t, 0.4, res.Weights.Logic, 1e-9)
	assert.InDelta(t, 0.25, res.Weights.Hallucination, 1e-9)
}

func TestWeightsFeedback_Errors(t *testing.T) {
	storeDir := filepath.Join(t.TempDir(), "store")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing category", []string{}, `required flag(s) "category" not set`},
		{"unknown category", []string{"--category", "boring"}, `unknown feedback category "boring"`},
		{"score out of range", []string{"--category", "logic", "--score", "9"}, "--score must be between 0 and 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"weights", "feedback", "--store", storeDir}, tt.args...)
			_, err := executeCommand(t, nil, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
	assert.NoDirExists(t, storeDir, "rejected feedback must not create the store")
}
