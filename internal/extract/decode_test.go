package extract

import "testing"

func TestDecode_WrappedObject(t *testing.T) {
	raw := `{"triples": [
		{"subject": "Hippocampus", "subject_type": "Anatomy", "predicate": "is part of", "object": "Limbic system", "object_type": "Anatomy", "confidence": 0.9},
		{"subject": "Dopamine", "subject_type": "Molecule", "predicate": "modulates", "object": "Reward learning", "confidence": 0.8}
	]}`

	result := Decode(raw, 0.5)
	if !result.OK() {
		t.Fatalf("expected ok, got malformed: %q", result.Malformed)
	}
	if len(result.Triples) != 2 {
		t.Fatalf("expected 2 triples, got %d", len(result.Triples))
	}
	if result.Triples[0].Subject != "Hippocampus" {
		t.Errorf("unexpected subject: %q", result.Triples[0].Subject)
	}
	if result.Triples[0].Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %f", result.Triples[0].Confidence)
	}
}

func TestDecode_BareArray(t *testing.T) {
	raw := `[{"subject": "A", "predicate": "causes", "object": "B"}]`

	result := Decode(raw, 0.5)
	if !result.OK() {
		t.Fatalf("expected ok, got malformed: %q", result.Malformed)
	}
	if len(result.Triples) != 1 {
		t.Fatalf("expected 1 triple, got %d", len(result.Triples))
	}
	// No self-reported confidence: fixed default applies.
	if result.Triples[0].Confidence != 0.5 {
		t.Errorf("expected default confidence 0.5, got %f", result.Triples[0].Confidence)
	}
}

func TestDecode_RepairsCodeFenceAndCommentary(t *testing.T) {
	raw := "Here are the extracted triples:\n```json\n{\"triples\": [{\"subject\": \"A\", \"predicate\": \"causes\", \"object\": \"B\"}]}\n```\nLet me know if you need more."

	result := Decode(raw, 0.5)
	if !result.OK() {
		t.Fatalf("expected repair to succeed, got malformed: %q", result.Malformed)
	}
	if len(result.Triples) != 1 {
		t.Errorf("expected 1 triple, got %d", len(result.Triples))
	}
}

func TestDecode_TrailingCommentaryAfterJSON(t *testing.T) {
	raw := `{"triples": [{"s": "A", "p": "inhibits", "o": "B"}]} That covers everything in the text.`

	result := Decode(raw, 0.5)
	if !result.OK() {
		t.Fatalf("expected ok, got malformed: %q", result.Malformed)
	}
	if len(result.Triples) != 1 {
		t.Fatalf("expected 1 triple via s/p/o aliases, got %d", len(result.Triples))
	}
	if result.Triples[0].Predicate != "inhibits" {
		t.Errorf("unexpected predicate: %q", result.Triples[0].Predicate)
	}
}

func TestDecode_SkipsIncompleteEntries(t *testing.T) {
	raw := `{"triples": [
		{"subject": "A", "predicate": "causes", "object": "B"},
		{"subject": "A", "predicate": "causes"},
		{"subject": "", "predicate": "causes", "object": "C"}
	]}`

	result := Decode(raw, 0.5)
	if !result.OK() {
		t.Fatalf("expected ok, got malformed: %q", result.Malformed)
	}
	if len(result.Triples) != 1 {
		t.Errorf("expected incomplete entries dropped, got %d triples", len(result.Triples))
	}
}

func TestDecode_OutOfRangeConfidenceGetsDefault(t *testing.T) {
	raw := `{"triples": [{"subject": "A", "predicate": "causes", "object": "B", "confidence": 7.5}]}`

	result := Decode(raw, 0.4)
	if !result.OK() {
		t.Fatal("expected ok")
	}
	if result.Triples[0].Confidence != 0.4 {
		t.Errorf("expected default confidence for out-of-range value, got %f", result.Triples[0].Confidence)
	}
}

func TestDecode_Malformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"I could not find any structured facts in this text.",
		`{"triples": "not a list"}`,
		"{broken json",
	} {
		result := Decode(raw, 0.5)
		if result.OK() {
			t.Errorf("expected malformed for %q", raw)
		}
		if result.Malformed != raw {
			t.Errorf("expected raw output retained for %q", raw)
		}
	}
}

func TestDecode_EmptyListIsValid(t *testing.T) {
	result := Decode(`{"triples": []}`, 0.5)
	if !result.OK() {
		t.Fatal("an empty triple list is a valid outcome, not malformed")
	}
	if len(result.Triples) != 0 {
		t.Errorf("expected 0 triples, got %d", len(result.Triples))
	}
}
