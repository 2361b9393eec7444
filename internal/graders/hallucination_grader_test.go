package graders

import (
	"testing"

	"github.com/llmrec/recjudge/internal/judgment"
	"github.com/llmrec/recjudge/internal/models"
	"github.com/stretchr/testify/require"
)

func TestQuality(t *testing.T) {
	testCases := []struct {
		name   string
		metric judgment.Metric
		value  float64
		want   float64
		ok     bool
	}{
		{"no risk is best", judgment.MetricHallucinationRisk, 0, 1, true},
		{"full risk is worst", judgment.MetricHallucinationRisk, 5, 0, true},
		{"risk above range clamps", judgment.MetricHallucinationRisk, 9, 0, true},
		{"risk below range clamps", judgment.MetricHallucinationRisk, -2, 1, true},
		{"full validity is best", judgment.MetricExplanatoryValidity, 5, 1, true},
		{"partial validity", judgment.MetricExplanatoryValidity, 2, 0.4, true},
		{"generic score has no reading", judgment.MetricGeneric, 4, 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Quality(tc.metric, tc.value)
			require.Equal(t, tc.ok, ok)
			require.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestHallucinationGrader(t *testing.T) {
	testCases := []struct {
		name      string
		payload   judgment.Payload
		score     float64
		extracted int
		defaulted bool
	}{
		{
			name:      "best case",
			payload:   judgment.FromText(`[{"Hallucination-Risk":0,"Explanatory Validity":5}]`),
			score:     5,
			extracted: 2,
		},
		{
			name:      "worst case clamps to floor",
			payload:   judgment.FromText(`[{"Hallucination-Risk":5,"Explanatory Validity":0}]`),
			score:     1,
			extracted: 2,
		},
		{
			name:      "risk and validity pool into one mean",
			payload:   judgment.FromText(`{"Hallucination-Risk":1,"Explanatory Validity":4}`),
			score:     4, // (0.8 + 0.8) / 2 * 5
			extracted: 2,
		},
		{
			name: "pooled across movies",
			payload: judgment.FromText(`[
				{"Movie":"Heat (1995)","hallucination_risk":0},
				{"Movie":"Fargo (1996)","hallucination_risk":5,"explanatory validity":5}
			]`),
			score:     5 * 2.0 / 3,
			extracted: 3,
		},
		{
			name:      "generic score is ignored",
			payload:   judgment.FromValue(map[string]any{"score": 1}),
			score:     3,
			defaulted: true,
		},
		{
			name:      "unparseable text",
			payload:   judgment.FromText("The recommendation looks fine."),
			score:     3,
			defaulted: true,
		},
	}

	g, err := Create(models.StageHallucination, DefaultOptions())
	require.NoError(t, err)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := g.Grade(tc.payload)
			require.Equal(t, models.StageHallucination, res.Kind)
			require.InDelta(t, tc.score, res.Score, 1e-9)
			require.Equal(t, tc.extracted, res.Extracted)
			require.Equal(t, tc.defaulted, res.Defaulted)
		})
	}
}

func TestHallucinationGrader_DefaultIsNotRescaled(t *testing.T) {
	g, err := Create(models.StageHallucination, Options{DefaultScore: 3})
	require.NoError(t, err)

	res := g.Grade(judgment.Empty())
	require.True(t, res.Defaulted)
	require.Equal(t, 3.0, res.Score)
}

func TestHallucinationGrader_MetricWeights(t *testing.T) {
	g, err := Create(models.StageHallucination, Options{
		DefaultScore:  3,
		MetricWeights: map[string]float64{"Hallucination-Risk": 3, "Explanatory Validity": 1},
	})
	require.NoError(t, err)

	// risk 5 -> 0.0 weighted 3, validity 5 -> 1.0 weighted 1
	res := g.Grade(judgment.FromValue(map[string]any{"Hallucination-Risk": 5, "Explanatory Validity": 5}))
	require.InDelta(t, 1.25, res.Score, 1e-9)
}
