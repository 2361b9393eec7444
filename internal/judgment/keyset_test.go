package judgment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeySet_RegisteredForms(t *testing.T) {
	tests := []struct {
		ks   KeySet
		key  string
		want Metric
	}{
		{SubjectiveKeys, "Relevance", MetricRelevance},
		{SubjectiveKeys, "relevance", MetricRelevance},
		{SubjectiveKeys, "Persuasiveness", MetricPersuasiveness},
		{LogicKeys, "Logic-Clarity", MetricLogicClarity},
		{LogicKeys, "logic-clarity", MetricLogicClarity},
		{LogicKeys, "logic_clarity", MetricLogicClarity},
		{LogicKeys, "Content Matching", MetricContentMatching},
		{HallucinationKeys, "Hallucination-Risk", MetricHallucinationRisk},
		{HallucinationKeys, "hallucination_risk", MetricHallucinationRisk},
		{HallucinationKeys, "Explanatory Validity", MetricExplanatoryValidity},
		{HallucinationKeys, "explanatory validity", MetricExplanatoryValidity},
		{HallucinationKeys, "Explanatory-Validity", MetricExplanatoryValidity},
	}

	for _, tt := range tests {
		t.Run(tt.ks.Name()+"/"+tt.key, func(t *testing.T) {
			got, ok := tt.ks.Lookup(tt.key)
			require.True(t, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestKeySet_ExactMatchOnly(t *testing.T) {
	for _, key := range []string{"RELEVANCE", "relevance ", "Relevancy", "LOGIC-CLARITY", "Logic-clarity", "Score"} {
		t.Run(key, func(t *testing.T) {
			require.False(t, SubjectiveKeys.Contains(key))
			require.False(t, LogicKeys.Contains(key))
		})
	}
}

func TestKeySet_ScoreInEverySet(t *testing.T) {
	for _, ks := range []KeySet{SubjectiveKeys, LogicKeys, HallucinationKeys} {
		m, ok := ks.Lookup("score")
		require.True(t, ok, ks.Name())
		require.Equal(t, DirectionPlain, m.Direction)
	}
}

func TestKeySet_Disjoint(t *testing.T) {
	sets := []KeySet{SubjectiveKeys, LogicKeys, HallucinationKeys}
	for i, a := range sets {
		for j, b := range sets {
			if i == j {
				continue
			}
			for _, alias := range a.Aliases() {
				if alias == "score" {
					continue
				}
				require.False(t, b.Contains(alias), "%q is in both %s and %s", alias, a.Name(), b.Name())
			}
		}
	}
}

func TestKeySet_Metrics(t *testing.T) {
	require.Equal(t, []Metric{MetricExplanatoryValidity, MetricHallucinationRisk, MetricGeneric}, HallucinationKeys.Metrics())
	require.Equal(t, DirectionRisk, MetricHallucinationRisk.Direction)
	require.Equal(t, "validity", MetricExplanatoryValidity.Direction.String())
}
