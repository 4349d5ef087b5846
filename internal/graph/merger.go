package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/neurograph/internal/model"
)

// Merger turns raw extraction triples into graph mutations. The store is
// injected; the merger owns only the resolution rules, the store owns
// atomicity.
type Merger struct {
	store Store
}

func NewMerger(store Store) *Merger {
	return &Merger{store: store}
}

// Merge resolves each triple into two concept upserts and one relation
// upsert. A store error aborts the remaining triples; mutations already
// applied stay in place.
func (m *Merger) Merge(ctx context.Context, triples []model.RawTriple, trust model.TrustAssessment, evidence model.ChunkRef) (model.MergeReport, error) {
	var report model.MergeReport

	for _, triple := range triples {
		source, target, ok := resolveConcepts(triple)
		if !ok {
			continue
		}

		for _, concept := range []model.Concept{source, target} {
			created, err := m.store.UpsertConcept(ctx, concept)
			if err != nil {
				return report, fmt.Errorf("upsert concept %q: %w", concept.Name, err)
			}
			if created {
				report.ConceptsCreated++
			} else {
				report.ConceptsEnriched++
			}
		}

		relation := model.Relation{
			Source:     source,
			Target:     target,
			Predicate:  model.NormalizePredicate(triple.Predicate),
			Status:     model.StatusProvisional,
			Confidence: triple.Confidence,
			Trust:      trust,
			Evidence:   evidence,
		}

		outcome, err := m.store.UpsertRelation(ctx, relation)
		if err != nil {
			return report, fmt.Errorf("upsert relation %s: %w", relation.Key(), err)
		}
		switch outcome {
		case OutcomeCreated:
			report.RelationsCreated++
		case OutcomeUpdated:
			report.RelationsUpdated++
		case OutcomeSkippedValidated:
			report.RelationsSkippedValidated++
		}
	}

	return report, nil
}

// resolveConcepts builds the two endpoint concepts from a triple. Triples
// with a blank endpoint or predicate, or that loop a concept onto itself,
// produce nothing.
func resolveConcepts(triple model.RawTriple) (model.Concept, model.Concept, bool) {
	subject := strings.TrimSpace(triple.Subject)
	object := strings.TrimSpace(triple.Object)
	if subject == "" || object == "" || strings.TrimSpace(triple.Predicate) == "" {
		return model.Concept{}, model.Concept{}, false
	}

	source := model.Concept{Name: subject, Type: model.ParseConceptType(triple.SubjectType)}
	target := model.Concept{Name: object, Type: model.ParseConceptType(triple.ObjectType)}
	if source.Key() == target.Key() {
		return model.Concept{}, model.Concept{}, false
	}
	return source, target, true
}
