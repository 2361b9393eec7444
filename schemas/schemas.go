// Package schemas embeds the JSON schemas used by recjudge check.
package schemas

import _ "embed"

// JudgmentSchemaJSON describes one judge payload: a record or a list of records.
//
//go:embed judgment.schema.json
var JudgmentSchemaJSON string
