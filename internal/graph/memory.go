package graph

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ppiankov/neurograph/internal/model"
)

// MemoryStore is an in-process Store used by tests and dry runs. It applies
// the same lifecycle rules as the Neo4j store under a single mutex.
type MemoryStore struct {
	mu        sync.Mutex
	concepts  map[model.ConceptKey]model.Concept
	relations map[model.RelationKey]model.Relation
	documents map[string]model.Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		concepts:  make(map[model.ConceptKey]model.Concept),
		relations: make(map[model.RelationKey]model.Relation),
		documents: make(map[string]model.Document),
	}
}

func (s *MemoryStore) UpsertConcept(ctx context.Context, concept model.Concept) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := concept.Key()
	if _, exists := s.concepts[key]; exists {
		return false, nil
	}
	s.concepts[key] = concept
	return true, nil
}

func (s *MemoryStore) UpsertRelation(ctx context.Context, relation model.Relation) (UpsertOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := relation.Key()
	existing, exists := s.relations[key]
	if !exists {
		relation.Status = model.StatusProvisional
		if relation.EvidenceCount <= 0 {
			relation.EvidenceCount = 1
		}
		if relation.LastSeen.IsZero() {
			relation.LastSeen = time.Now().UTC()
		}
		s.relations[key] = relation
		return OutcomeCreated, nil
	}

	existing.EvidenceCount++
	existing.LastSeen = time.Now().UTC()
	existing.Evidence = relation.Evidence

	if existing.Status == model.StatusValidated {
		s.relations[key] = existing
		return OutcomeSkippedValidated, nil
	}

	if relation.Confidence > existing.Confidence {
		existing.Confidence = relation.Confidence
	}
	existing.Trust = relation.Trust
	s.relations[key] = existing
	return OutcomeUpdated, nil
}

func (s *MemoryStore) ProvisionalRelations(ctx context.Context, limit int) ([]model.Relation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var provisional []model.Relation
	for _, rel := range s.relations {
		if rel.Status == model.StatusProvisional {
			provisional = append(provisional, rel)
		}
	}

	sort.Slice(provisional, func(i, j int) bool {
		if provisional[i].Trust.Score != provisional[j].Trust.Score {
			return provisional[i].Trust.Score > provisional[j].Trust.Score
		}
		if provisional[i].Confidence != provisional[j].Confidence {
			return provisional[i].Confidence > provisional[j].Confidence
		}
		return provisional[i].Key().String() < provisional[j].Key().String()
	})

	if limit > 0 && len(provisional) > limit {
		provisional = provisional[:limit]
	}
	return provisional, nil
}

func (s *MemoryStore) FindRelations(ctx context.Context, subject, predicate, object string) ([]model.Relation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subject = model.NormalizeName(subject)
	object = model.NormalizeName(object)
	predicate = model.NormalizePredicate(predicate)

	var matches []model.Relation
	for _, rel := range s.relations {
		if model.NormalizeName(rel.Source.Name) == subject &&
			model.NormalizeName(rel.Target.Name) == object &&
			rel.Predicate == predicate {
			matches = append(matches, rel)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Key().String() < matches[j].Key().String()
	})
	return matches, nil
}

func (s *MemoryStore) ValidateRelation(ctx context.Context, key model.RelationKey) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.relations[key]
	if !exists {
		return false, fmt.Errorf("relation %s not found", key)
	}
	if !CanTransition(existing.Status, model.StatusValidated) {
		return false, fmt.Errorf("relation %s: cannot transition %s to VALIDATED", key, existing.Status)
	}
	if existing.Status == model.StatusValidated {
		return false, nil
	}

	existing.Status = model.StatusValidated
	s.relations[key] = existing
	return true, nil
}

func (s *MemoryStore) UpsertDocument(ctx context.Context, doc model.Document, trust model.TrustAssessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[doc.ID] = doc
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// Relation returns a stored relation by key, for tests and CLI inspection.
func (s *MemoryStore) Relation(key model.RelationKey) (model.Relation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rel, ok := s.relations[key]
	return rel, ok
}

// ConceptCount reports the number of stored concepts.
func (s *MemoryStore) ConceptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.concepts)
}
