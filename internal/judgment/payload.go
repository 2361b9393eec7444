// Package judgment reads the score fields out of judge payloads: free-form
// JSON text, or structures already decoded from it, shaped as a list of
// per-movie records or a single (optionally one-level nested) mapping.
package judgment

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Kind discriminates the shapes a payload can take once resolved.
type Kind int

const (
	KindEmpty Kind = iota
	KindList
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindMapping:
		return "mapping"
	default:
		return "empty"
	}
}

// Payload is a judge output resolved to one of its shapes. The zero value is
// an empty payload. Payloads are never modified after construction and can be
// shared between goroutines.
type Payload struct {
	kind    Kind
	list    []any
	mapping map[string]any

	// decodeErr records why text failed to decode.
	decodeErr error
}

// Empty returns a payload with nothing to extract.
func Empty() Payload {
	return Payload{}
}

// List returns a payload holding a sequence of records.
func List(records []any) Payload {
	if records == nil {
		return Payload{}
	}
	return Payload{kind: KindList, list: records}
}

// Mapping returns a payload holding a single record.
func Mapping(record map[string]any) Payload {
	if record == nil {
		return Payload{}
	}
	return Payload{kind: KindMapping, mapping: record}
}

// FromText decodes judge text. Surrounding markdown code fences are removed
// first. Text that is blank, fails to decode, or decodes to a scalar yields
// an empty payload; the failure is logged and kept in [Payload.Err].
func FromText(text string) Payload {
	v, err := Decode(text)
	if errors.Is(err, ErrBlankText) {
		return Payload{decodeErr: err}
	}
	if err != nil {
		slog.Debug("judge payload is not valid JSON, treating it as empty", "error", err, "length", len(text))
		return Payload{decodeErr: err}
	}

	p := FromValue(v)
	if p.kind == KindEmpty && p.decodeErr == nil {
		p.decodeErr = fmt.Errorf("%w: decoded to %T", ErrUnsupportedShape, v)
	}
	return p
}

// FromValue resolves an arbitrary value into a payload: strings and byte
// slices are decoded as text, slices become lists, string-keyed maps become
// mappings and everything else is empty.
func FromValue(v any) Payload {
	switch val := v.(type) {
	case nil:
		return Payload{}
	case Payload:
		return val
	case *Payload:
		if val == nil {
			return Payload{}
		}
		return *val
	case string:
		return FromText(val)
	case []byte:
		return FromText(string(val))
	case json.RawMessage:
		return FromText(string(val))
	case []any:
		return List(val)
	case []map[string]any:
		records := make([]any, len(val))
		for i, r := range val {
			records[i] = r
		}
		return List(records)
	case map[string]any:
		return Mapping(val)
	default:
		slog.Debug("unsupported judge payload type, treating it as empty", "type", fmt.Sprintf("%T", v))
		return Payload{decodeErr: fmt.Errorf("%w: %T", ErrUnsupportedShape, v)}
	}
}

// Kind returns the resolved shape.
func (p Payload) Kind() Kind { return p.kind }

// IsEmpty reports whether the payload has nothing to extract.
func (p Payload) IsEmpty() bool { return p.kind == KindEmpty }

// Err returns the reason a payload resolved to empty, if any. It is
// informational only; an empty payload is always safe to extract from.
func (p Payload) Err() error { return p.decodeErr }

// Records returns the payload's records: every mapping element of a list,
// or the single mapping.
func (p Payload) Records() []map[string]any {
	switch p.kind {
	case KindList:
		out := make([]map[string]any, 0, len(p.list))
		for _, item := range p.list {
			if rec, ok := item.(map[string]any); ok {
				out = append(out, rec)
			}
		}
		return out
	case KindMapping:
		return []map[string]any{p.mapping}
	default:
		return nil
	}
}

var (
	// ErrBlankText is recorded for text payloads with no content.
	ErrBlankText = errors.New("judge text is blank")
	// ErrUnsupportedShape is recorded for values that are neither a list nor a mapping.
	ErrUnsupportedShape = errors.New("unsupported judge payload shape")
)

// Decode strips code fences from judge text and decodes the JSON value it
// holds. Numbers decode as json.Number.
func Decode(text string) (any, error) {
	body := stripFences(text)
	if body == "" {
		return nil, ErrBlankText
	}
	return decodeJSON(body)
}

// stripFences removes whitespace and a surrounding ``` or ```json fence.
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(strings.TrimPrefix(s, "```"), "json")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func decodeJSON(body string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return v, nil
}
