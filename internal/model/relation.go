package model

import (
	"fmt"
	"strings"
	"time"
)

// RelationStatus is the lifecycle state of a relation edge
type RelationStatus string

const (
	StatusProvisional RelationStatus = "PROVISIONAL" // Awaiting human review
	StatusValidated   RelationStatus = "VALIDATED"   // Confirmed by an explicit human action
)

// RelationKey identifies a logical claim: multiple evidence occurrences of
// the same (source, target, predicate) collapse to one edge.
type RelationKey struct {
	Source    ConceptKey `json:"source"`
	Target    ConceptKey `json:"target"`
	Predicate string     `json:"predicate"`
}

// String renders the key for logs and CLI output.
func (k RelationKey) String() string {
	return fmt.Sprintf("(%s)-[%s]->(%s)", k.Source, k.Predicate, k.Target)
}

// ChunkRef points at the evidence chunk a relation was extracted from
type ChunkRef struct {
	DocumentID string `json:"document_id"`
	ChunkID    string `json:"chunk_id"`
}

// Relation is a directed, typed edge between two Concepts carrying a
// lifecycle status and trust provenance.
type Relation struct {
	Source        Concept         `json:"source"`
	Target        Concept         `json:"target"`
	Predicate     string          `json:"predicate"` // Normalized upper-snake
	Status        RelationStatus  `json:"status"`
	Confidence    float64         `json:"confidence"` // Extraction self-reported certainty
	Trust         TrustAssessment `json:"trust"`      // Assessment of the contributing document
	Evidence      ChunkRef        `json:"evidence"`   // Most recent evidence occurrence
	EvidenceCount int             `json:"evidence_count"`
	LastSeen      time.Time       `json:"last_seen"`
}

// Key returns the dedup key of the relation.
func (r Relation) Key() RelationKey {
	return RelationKey{
		Source:    r.Source.Key(),
		Target:    r.Target.Key(),
		Predicate: r.Predicate,
	}
}

// NormalizePredicate converts a free-form predicate to upper-snake form,
// e.g. "is part of" -> "IS_PART_OF".
func NormalizePredicate(predicate string) string {
	return strings.Join(strings.Fields(strings.ToUpper(predicate)), "_")
}

// RawTriple is a candidate (subject, predicate, object) assertion produced
// by the extraction step, before concept resolution and merge.
type RawTriple struct {
	Subject     string  `json:"subject"`
	SubjectType string  `json:"subject_type,omitempty"`
	Predicate   string  `json:"predicate"`
	Object      string  `json:"object"`
	ObjectType  string  `json:"object_type,omitempty"`
	Confidence  float64 `json:"confidence,omitempty"`
}

// Chunk is a unit of extracted document content fed to the extraction step
type Chunk struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Index      int    `json:"index"`           // 0-based position within the document
	Text       string `json:"text"`
	Image      []byte `json:"image,omitempty"` // Optional figure bytes for the vision step
}

// Ref returns the evidence reference for this chunk.
func (c Chunk) Ref() ChunkRef {
	return ChunkRef{DocumentID: c.DocumentID, ChunkID: c.ID}
}
