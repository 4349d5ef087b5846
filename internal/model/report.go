package model

import "time"

// MergeReport summarizes the graph mutations produced by one merge call
type MergeReport struct {
	ConceptsCreated           int `json:"concepts_created"`
	ConceptsEnriched          int `json:"concepts_enriched"`
	RelationsCreated          int `json:"relations_created"`
	RelationsUpdated          int `json:"relations_updated"`
	RelationsSkippedValidated int `json:"relations_skipped_validated"` // Validated edges re-seen but left untouched
}

// Add accumulates another report into this one.
func (m *MergeReport) Add(other MergeReport) {
	m.ConceptsCreated += other.ConceptsCreated
	m.ConceptsEnriched += other.ConceptsEnriched
	m.RelationsCreated += other.RelationsCreated
	m.RelationsUpdated += other.RelationsUpdated
	m.RelationsSkippedValidated += other.RelationsSkippedValidated
}

// IngestReport is the per-document outcome of an ingestion run.
// A document can fail partway and still retain the merges that completed.
type IngestReport struct {
	Document   Document        `json:"document"`
	Trust      TrustAssessment `json:"trust"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`

	ChunksProcessed  int `json:"chunks_processed"`
	ChunksFailed     int `json:"chunks_failed"` // Unparseable output; siblings still contributed
	TriplesExtracted int `json:"triples_extracted"`

	Merge MergeReport `json:"merge"`

	// Error is set when the document failed as a whole (capability or store
	// down). Already-completed merges are retained, never rolled back.
	Error string `json:"error,omitempty"`
}

// Failed reports whether the document hit a document-level failure.
func (r IngestReport) Failed() bool {
	return r.Error != ""
}
