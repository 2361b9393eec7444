package reward

import (
	"bytes"
	"sync"
	"testing"

	"github.com/llmrec/recjudge/internal/judgment"
	"github.com/llmrec/recjudge/internal/models"
	"github.com/stretchr/testify/require"
)

const (
	subjectiveText    = `[{"Relevance":5,"Clarity":4,"Persuasiveness":5}]`
	logicText         = `[{"Content-Matching":4,"Logic-Clarity":4}]`
	hallucinationText = `[{"Hallucination-Risk":0,"Explanatory Validity":5}]`
)

func TestCompute_EndToEnd(t *testing.T) {
	c := Default()

	res := c.Compute(judgment.FromText(subjectiveText), judgment.FromText(logicText), judgment.FromText(hallucinationText))

	require.InDelta(t, 4.67, Round2(res.Subjective.Score), 1e-9)
	require.InDelta(t, 4.0, res.Logic.Score, 1e-9)
	require.InDelta(t, 5.0, res.Hallucination.Score, 1e-9)
	require.InDelta(t, 4.5667, res.Weighted, 1e-4)
	require.Equal(t, 4.57, Round2(res.Reward))
	require.Equal(t, models.DefaultWeights(), res.Weights)
}

func TestComputeReward_RawPayloads(t *testing.T) {
	c := Default()

	fromText := c.ComputeReward(subjectiveText, logicText, hallucinationText)
	fromValues := c.ComputeReward(
		[]any{map[string]any{"Relevance": 5, "Clarity": 4, "Persuasiveness": 5}},
		map[string]any{"Content-Matching": 4, "Logic-Clarity": 4},
		[]map[string]any{{"Hallucination-Risk": 0, "Explanatory Validity": 5}},
	)
	require.Equal(t, fromText, fromValues)
}

func TestCompute_AllEmptyIsDefault(t *testing.T) {
	c := Default()

	for _, in := range []any{nil, "", "not json", 42, []any{}} {
		require.InDelta(t, 3.0, c.ComputeReward(in, in, in), 1e-12)
	}

	res := c.Compute(judgment.Empty(), judgment.Empty(), judgment.Empty())
	require.True(t, res.Subjective.Defaulted)
	require.True(t, res.Logic.Defaulted)
	require.True(t, res.Hallucination.Defaulted)
}

func TestCompute_Bounds(t *testing.T) {
	testCases := []struct {
		name    string
		weights models.WeightVector
		subj    string
		want    float64
	}{
		{"overweight clamps to ceiling", models.WeightVector{Subjective: 1, Logic: 1, Hallucination: 1}, `{"Relevance":5}`, 5},
		{"underweight clamps to floor", models.WeightVector{Subjective: 0.1, Logic: 0.05, Hallucination: 0.05}, `{"Relevance":1}`, 1},
		{"subjective only", models.WeightVector{Subjective: 1}, `{"Relevance":2,"Clarity":4}`, 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New(Options{Weights: tc.weights})
			require.NoError(t, err)
			require.InDelta(t, tc.want, c.ComputeReward(tc.subj, `{"Logic-Clarity":1}`, `{"Hallucination-Risk":5}`), 1e-9)
		})
	}
}

func TestNew(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)
	require.Equal(t, models.DefaultWeights(), c.Weights())

	_, err = New(Options{Weights: models.WeightVector{Subjective: -1, Logic: 1}})
	require.ErrorContains(t, err, "invalid reward weights")

	two := 2.0
	c, err = New(Options{DefaultScore: &two})
	require.NoError(t, err)
	require.InDelta(t, 2.0, c.ComputeReward("", "", ""), 1e-9)
}

func TestNew_ZeroDefaultScoreIsNotReplaced(t *testing.T) {
	zero := 0.0
	c, err := New(Options{DefaultScore: &zero})
	require.NoError(t, err)
	// defaulted stages clamp 0 up to the stage floor instead of using 3
	require.InDelta(t, 1.0, c.ComputeReward("", "", ""), 1e-9)

	c, err = New(Options{})
	require.NoError(t, err)
	require.InDelta(t, 3.0, c.ComputeReward("", "", ""), 1e-9)
}

func TestCompute_Verbose(t *testing.T) {
	var buf bytes.Buffer
	c, err := New(Options{Verbose: true, Report: &buf})
	require.NoError(t, err)

	c.ComputeReward(subjectiveText, logicText, "")

	out := buf.String()
	require.Contains(t, out, "=== Reward breakdown ===")
	require.Contains(t, out, "subjective:    4.67 (weight 40%)")
	require.Contains(t, out, "logic:         4.00 (weight 30%)")
	require.Contains(t, out, "hallucination: 3.00 (weight 30%) [no usable scores, default used]")
	require.Contains(t, out, "reward:        3.97")
}

func TestCompute_Idempotent(t *testing.T) {
	c := Default()
	first := c.ComputeReward(subjectiveText, logicText, hallucinationText)
	require.Equal(t, first, c.ComputeReward(subjectiveText, logicText, hallucinationText))
}

func TestCompute_Concurrent(t *testing.T) {
	c := Default()
	want := c.ComputeReward(subjectiveText, logicText, hallucinationText)

	var wg sync.WaitGroup
	results := make([]float64, 32)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.ComputeReward(subjectiveText, logicText, hallucinationText)
		}()
	}
	wg.Wait()

	for _, got := range results {
		require.Equal(t, want, got)
	}
}

func TestRound2(t *testing.T) {
	require.Equal(t, 4.57, Round2(4.566))
	require.Equal(t, 4.47, Round2(4.468))
	require.Equal(t, 3.0, Round2(3))
}
