package validation

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/llmrec/recjudge/internal/judgment"
	"github.com/llmrec/recjudge/internal/models"
	"github.com/stretchr/testify/require"
)

const validPayload = "```json\n" + `[
  {"Movie": "Heat (1995)", "Explanation": "tense heist", "Relevance": 5, "Clarity": "4", "Persuasiveness": 4.5},
  {"Movie": "Fargo (1996)", "relevance": 3, "score": 3}
]` + "\n```"

const invalidPayload = `[
  {"Movie": "Heat (1995)", "Relevance": 7, "Clarity": "great"},
  "not a record"
]`

func TestValidatePayloadBytes_Valid(t *testing.T) {
	errs := ValidatePayloadBytes([]byte(validPayload))
	require.Empty(t, errs, "valid payload should have no errors")

	errs = ValidatePayloadBytes([]byte(`{"Heat (1995)": {"Logic-Clarity": 4}, "score": "3.5"}`))
	require.Empty(t, errs, "title-keyed records are valid")
}

func TestValidatePayloadBytes_Invalid(t *testing.T) {
	errs := ValidatePayloadBytes([]byte(invalidPayload))
	require.NotEmpty(t, errs, "invalid payload should have errors")

	joined := joinErrs(errs)
	require.Contains(t, joined, "/0/Relevance")
	require.Contains(t, joined, "/0/Clarity")
	require.Contains(t, joined, "/1")
}

func TestValidatePayloadBytes_NestedRecord(t *testing.T) {
	errs := ValidatePayloadBytes([]byte(`{"Heat (1995)": {"Hallucination-Risk": -1}}`))
	require.NotEmpty(t, errs)
	require.Contains(t, joinErrs(errs), "/Heat (1995)/Hallucination-Risk")
}

func TestValidatePayloadBytes_NotJSON(t *testing.T) {
	errs := ValidatePayloadBytes([]byte("The movies are all great."))
	require.Len(t, errs, 1)
	require.True(t, strings.HasPrefix(errs[0], "JSON parse error"))

	errs = ValidatePayloadBytes([]byte("5"))
	require.NotEmpty(t, errs, "a bare number is not a payload")
}

func TestSchemaCoversEveryAlias(t *testing.T) {
	for _, ks := range []judgment.KeySet{judgment.SubjectiveKeys, judgment.LogicKeys, judgment.HallucinationKeys} {
		for _, alias := range ks.Aliases() {
			t.Run(ks.Name()+"/"+alias, func(t *testing.T) {
				require.Empty(t, ValidatePayload(map[string]any{alias: json.Number("3")}))
				require.NotEmpty(t, ValidatePayload(map[string]any{alias: "n/a"}), "alias %q is not checked by the schema", alias)
			})
		}
	}
}

func TestValidatePayloadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subjective.json")
	require.NoError(t, os.WriteFile(path, []byte(validPayload), 0o644))

	errs, err := ValidatePayloadFile(path)
	require.NoError(t, err)
	require.Empty(t, errs)

	_, err = ValidatePayloadFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func TestValidateEvaluation(t *testing.T) {
	e := models.Evaluation{
		SubjectiveResult:    validPayload,
		LogicResult:         []any{map[string]any{"Movie": "Heat (1995)", "Logic-Clarity": 9.0}},
		HallucinationResult: nil,
	}

	errs := ValidateEvaluation(e)
	require.NotContains(t, errs, "subjective")
	require.Contains(t, joinErrs(errs["logic"]), "/0/Logic-Clarity")
	require.Equal(t, []string{"/: payload is missing"}, errs["hallucination"])
}

func joinErrs(errs []string) string {
	result := ""
	for _, e := range errs {
		result += e + "\n"
	}
	return result
}
