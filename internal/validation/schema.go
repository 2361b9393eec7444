// Package validation checks judge payloads against the embedded JSON schema.
// The reward engine itself never rejects a payload; these checks exist to
// find judge prompts that produce output the engine can only partly use.
package validation

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/llmrec/recjudge/internal/judgment"
	"github.com/llmrec/recjudge/internal/models"
	"github.com/llmrec/recjudge/schemas"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

// judgmentSchema is the compiled JSON Schema for judge payloads.
var judgmentSchema *jsonschema.Schema

func init() {
	judgmentSchema = mustCompileSchema(schemas.JudgmentSchemaJSON, "judgment.schema.json")
}

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	var schemaDoc any
	if err := json.Unmarshal([]byte(raw), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// ValidatePayloadFile validates the judge payload stored in the file at path.
func ValidatePayloadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading payload file: %w", err)
	}
	return ValidatePayloadBytes(data), nil
}

// ValidatePayloadBytes validates judge text, which may be wrapped in a
// markdown code fence.
func ValidatePayloadBytes(data []byte) []string {
	v, err := judgment.Decode(string(data))
	if err != nil {
		return []string{fmt.Sprintf("JSON parse error: %v", err)}
	}
	return ValidatePayload(v)
}

// ValidatePayload validates an already decoded judge payload.
func ValidatePayload(v any) []string {
	return validateAgainstSchema(judgmentSchema, v)
}

func validateAgainstSchema(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}

// ValidateEvaluation validates the three judge payloads of a collected
// evaluation. The result maps stage name to its errors; stages without
// errors are omitted.
func ValidateEvaluation(e models.Evaluation) map[string][]string {
	out := make(map[string][]string)
	for stage, raw := range map[models.StageKind]any{
		models.StageSubjective:    e.SubjectiveResult,
		models.StageLogic:         e.LogicResult,
		models.StageHallucination: e.HallucinationResult,
	} {
		var errs []string
		switch v := raw.(type) {
		case nil:
			errs = []string{"/: payload is missing"}
		case string:
			errs = ValidatePayloadBytes([]byte(v))
		default:
			errs = ValidatePayload(v)
		}
		if len(errs) > 0 {
			out[stage.String()] = errs
		}
	}
	return out
}
