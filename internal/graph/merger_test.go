package graph

import (
	"context"
	"testing"

	"github.com/ppiankov/neurograph/internal/model"
)

func testTrust(score float64) model.TrustAssessment {
	return model.TrustAssessment{
		Score:        score,
		Provenance:   model.ProvenanceLocalHeuristic,
		DocumentType: model.DocTypePreprint,
	}
}

func testEvidence(docID, chunkID string) model.ChunkRef {
	return model.ChunkRef{DocumentID: docID, ChunkID: chunkID}
}

func TestMerge_CreatesConceptsAndProvisionalRelation(t *testing.T) {
	store := NewMemoryStore()
	merger := NewMerger(store)

	triples := []model.RawTriple{{
		Subject: "Hippocampus", SubjectType: "Anatomy",
		Predicate: "supports",
		Object:    "Memory Consolidation", ObjectType: "Other",
		Confidence: 0.8,
	}}

	report, err := merger.Merge(context.Background(), triples, testTrust(0.6), testEvidence("doc-1", "c1"))
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	if report.ConceptsCreated != 2 {
		t.Errorf("concepts created = %d, want 2", report.ConceptsCreated)
	}
	if report.RelationsCreated != 1 {
		t.Errorf("relations created = %d, want 1", report.RelationsCreated)
	}

	key := model.RelationKey{
		Source:    model.Concept{Name: "Hippocampus", Type: model.ConceptAnatomy}.Key(),
		Target:    model.Concept{Name: "Memory Consolidation", Type: model.ConceptOther}.Key(),
		Predicate: "SUPPORTS",
	}
	rel, ok := store.Relation(key)
	if !ok {
		t.Fatal("relation not stored")
	}
	if rel.Status != model.StatusProvisional {
		t.Errorf("status = %s, want PROVISIONAL", rel.Status)
	}
	if rel.Confidence != 0.8 {
		t.Errorf("confidence = %f, want 0.8", rel.Confidence)
	}
	if rel.EvidenceCount != 1 {
		t.Errorf("evidence count = %d, want 1", rel.EvidenceCount)
	}
}

func TestMerge_IsIdempotentOnConcepts(t *testing.T) {
	store := NewMemoryStore()
	merger := NewMerger(store)

	triples := []model.RawTriple{{
		Subject: "Dopamine", SubjectType: "Molecule",
		Predicate: "modulates",
		Object:    "Striatum", ObjectType: "Anatomy",
		Confidence: 0.7,
	}}

	if _, err := merger.Merge(context.Background(), triples, testTrust(0.5), testEvidence("doc-1", "c1")); err != nil {
		t.Fatal(err)
	}
	report, err := merger.Merge(context.Background(), triples, testTrust(0.5), testEvidence("doc-1", "c2"))
	if err != nil {
		t.Fatal(err)
	}

	if store.ConceptCount() != 2 {
		t.Errorf("concept count = %d, want 2 after re-merge", store.ConceptCount())
	}
	if report.ConceptsCreated != 0 {
		t.Errorf("second merge created %d concepts, want 0", report.ConceptsCreated)
	}
	if report.RelationsUpdated != 1 {
		t.Errorf("second merge updated %d relations, want 1", report.RelationsUpdated)
	}
}

func TestMerge_CaseInsensitiveConceptDedup(t *testing.T) {
	store := NewMemoryStore()
	merger := NewMerger(store)

	first := []model.RawTriple{{Subject: "Prefrontal  Cortex", SubjectType: "Anatomy", Predicate: "inhibits", Object: "Amygdala", ObjectType: "Anatomy", Confidence: 0.6}}
	second := []model.RawTriple{{Subject: "prefrontal cortex", SubjectType: "anatomy", Predicate: "regulates", Object: "amygdala", ObjectType: "Anatomy", Confidence: 0.6}}

	if _, err := merger.Merge(context.Background(), first, testTrust(0.5), testEvidence("d", "c1")); err != nil {
		t.Fatal(err)
	}
	if _, err := merger.Merge(context.Background(), second, testTrust(0.5), testEvidence("d", "c2")); err != nil {
		t.Fatal(err)
	}

	if store.ConceptCount() != 2 {
		t.Errorf("concept count = %d, want 2: name variants must collapse", store.ConceptCount())
	}
}

func TestMerge_CrossDocumentConfidenceKeepsMax(t *testing.T) {
	store := NewMemoryStore()
	merger := NewMerger(store)

	triple := model.RawTriple{Subject: "Serotonin", SubjectType: "Molecule", Predicate: "regulates", Object: "Mood", ObjectType: "Other"}

	high := triple
	high.Confidence = 0.9
	if _, err := merger.Merge(context.Background(), []model.RawTriple{high}, testTrust(0.7), testEvidence("doc-a", "c1")); err != nil {
		t.Fatal(err)
	}

	low := triple
	low.Confidence = 0.4
	if _, err := merger.Merge(context.Background(), []model.RawTriple{low}, testTrust(0.3), testEvidence("doc-b", "c1")); err != nil {
		t.Fatal(err)
	}

	key := model.RelationKey{
		Source:    model.Concept{Name: "Serotonin", Type: model.ConceptMolecule}.Key(),
		Target:    model.Concept{Name: "Mood", Type: model.ConceptOther}.Key(),
		Predicate: "REGULATES",
	}
	rel, ok := store.Relation(key)
	if !ok {
		t.Fatal("relation not stored")
	}
	if rel.Confidence != 0.9 {
		t.Errorf("confidence = %f, want max 0.9 across documents", rel.Confidence)
	}
	if rel.EvidenceCount != 2 {
		t.Errorf("evidence count = %d, want 2", rel.EvidenceCount)
	}
	if rel.Evidence.DocumentID != "doc-b" {
		t.Errorf("evidence document = %s, want most recent doc-b", rel.Evidence.DocumentID)
	}
}

func TestMerge_ValidatedRelationIsUntouched(t *testing.T) {
	store := NewMemoryStore()
	merger := NewMerger(store)

	triple := model.RawTriple{Subject: "Acetylcholine", SubjectType: "Molecule", Predicate: "excites", Object: "Motor Neuron", ObjectType: "Anatomy", Confidence: 0.5}
	if _, err := merger.Merge(context.Background(), []model.RawTriple{triple}, testTrust(0.6), testEvidence("doc-a", "c1")); err != nil {
		t.Fatal(err)
	}

	key := model.RelationKey{
		Source:    model.Concept{Name: "Acetylcholine", Type: model.ConceptMolecule}.Key(),
		Target:    model.Concept{Name: "Motor Neuron", Type: model.ConceptAnatomy}.Key(),
		Predicate: "EXCITES",
	}
	if _, err := store.ValidateRelation(context.Background(), key); err != nil {
		t.Fatal(err)
	}

	// Re-ingest with higher confidence and different trust.
	boosted := triple
	boosted.Confidence = 0.99
	report, err := merger.Merge(context.Background(), []model.RawTriple{boosted}, testTrust(0.9), testEvidence("doc-b", "c1"))
	if err != nil {
		t.Fatal(err)
	}

	if report.RelationsSkippedValidated != 1 {
		t.Errorf("skipped validated = %d, want 1", report.RelationsSkippedValidated)
	}

	rel, _ := store.Relation(key)
	if rel.Status != model.StatusValidated {
		t.Errorf("status = %s, want VALIDATED to stick", rel.Status)
	}
	if rel.Confidence != 0.5 {
		t.Errorf("confidence = %f, want original 0.5", rel.Confidence)
	}
	if rel.Trust.Score != 0.6 {
		t.Errorf("trust score = %f, want original 0.6", rel.Trust.Score)
	}
	if rel.EvidenceCount != 2 {
		t.Errorf("evidence count = %d, want 2: bookkeeping still moves", rel.EvidenceCount)
	}
}

func TestMerge_SkipsDegenerateTriples(t *testing.T) {
	store := NewMemoryStore()
	merger := NewMerger(store)

	triples := []model.RawTriple{
		{Subject: "", Predicate: "causes", Object: "X", Confidence: 0.5},
		{Subject: "X", Predicate: "", Object: "Y", Confidence: 0.5},
		{Subject: "Cortex", SubjectType: "Anatomy", Predicate: "contains", Object: "cortex", ObjectType: "Anatomy", Confidence: 0.5},
	}

	report, err := merger.Merge(context.Background(), triples, testTrust(0.5), testEvidence("d", "c"))
	if err != nil {
		t.Fatal(err)
	}
	if report.RelationsCreated != 0 || store.ConceptCount() != 0 {
		t.Errorf("degenerate triples produced mutations: %+v, %d concepts", report, store.ConceptCount())
	}
}
