package extract

import (
	"encoding/json"
	"strings"

	"github.com/ppiankov/neurograph/internal/model"
	"github.com/ppiankov/neurograph/internal/util"
)

// ParseResult is the tagged outcome of decoding capability output: either a
// list of triples or the raw text that resisted repair. Tolerance and repair
// live here, isolated from the rest of the pipeline.
type ParseResult struct {
	Triples   []model.RawTriple
	Malformed string // Set when the output could not be repaired into triples
}

// OK reports whether decoding produced usable triples.
func (r ParseResult) OK() bool {
	return r.Malformed == ""
}

// Decode turns raw capability output into triples, repairing near-valid
// structured output first: code fences, leading/trailing commentary, and
// minor key drift are tolerated. An empty triple list is a valid outcome.
func Decode(raw string, defaultConfidence float64) ParseResult {
	payload := util.JSONPayload(raw)
	if payload == "" {
		return ParseResult{Malformed: raw}
	}

	var value interface{}
	if err := json.Unmarshal([]byte(payload), &value); err != nil {
		return ParseResult{Malformed: raw}
	}

	items, ok := tripleItems(value)
	if !ok {
		return ParseResult{Malformed: raw}
	}

	triples := make([]model.RawTriple, 0, len(items))
	for _, item := range items {
		fields, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if triple, ok := coerceTriple(fields, defaultConfidence); ok {
			triples = append(triples, triple)
		}
	}

	return ParseResult{Triples: triples}
}

// tripleItems locates the triple list inside the decoded JSON value.
// Accepts a bare array or an object with a "triples" (or "relations") list.
func tripleItems(value interface{}) ([]interface{}, bool) {
	switch v := value.(type) {
	case []interface{}:
		return v, true
	case map[string]interface{}:
		for _, key := range []string{"triples", "relations", "facts"} {
			if list, ok := v[key].([]interface{}); ok {
				return list, true
			}
		}
	}
	return nil, false
}

// coerceTriple maps one JSON object to a RawTriple, tolerating the key
// aliases local models drift into (s/p/o, subj/pred/obj).
func coerceTriple(fields map[string]interface{}, defaultConfidence float64) (model.RawTriple, bool) {
	subject := stringField(fields, "subject", "subj", "s", "source")
	predicate := stringField(fields, "predicate", "pred", "p", "relation")
	object := stringField(fields, "object", "obj", "o", "target")

	if subject == "" || predicate == "" || object == "" {
		return model.RawTriple{}, false
	}

	confidence := floatField(fields, "confidence", "certainty", "score")
	if confidence <= 0 || confidence > 1 {
		confidence = defaultConfidence
	}

	return model.RawTriple{
		Subject:     subject,
		SubjectType: stringField(fields, "subject_type", "subjectType", "s_type"),
		Predicate:   predicate,
		Object:      object,
		ObjectType:  stringField(fields, "object_type", "objectType", "o_type"),
		Confidence:  confidence,
	}, true
}

func stringField(fields map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if val, ok := fields[key].(string); ok {
			if trimmed := strings.TrimSpace(val); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func floatField(fields map[string]interface{}, keys ...string) float64 {
	for _, key := range keys {
		if val, ok := fields[key].(float64); ok {
			return val
		}
	}
	return 0
}
