package review

import (
	"context"
	"testing"

	"github.com/ppiankov/neurograph/internal/graph"
	"github.com/ppiankov/neurograph/internal/model"
)

func seedRelation(t *testing.T, store graph.Store, name string, trust, confidence float64) model.RelationKey {
	t.Helper()
	ctx := context.Background()

	source := model.Concept{Name: name, Type: model.ConceptOther}
	target := model.Concept{Name: name + " target", Type: model.ConceptOther}
	for _, c := range []model.Concept{source, target} {
		if _, err := store.UpsertConcept(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	rel := model.Relation{
		Source: source, Target: target, Predicate: "RELATES_TO",
		Confidence: confidence,
		Trust:      model.TrustAssessment{Score: trust, Provenance: model.ProvenanceLocalHeuristic},
	}
	if _, err := store.UpsertRelation(ctx, rel); err != nil {
		t.Fatal(err)
	}
	return rel.Key()
}

func TestQueue_OrderedAndLimited(t *testing.T) {
	store := graph.NewMemoryStore()
	gateway := NewGateway(store)

	seedRelation(t, store, "weak", 0.2, 0.9)
	strongKey := seedRelation(t, store, "strong", 0.9, 0.5)

	queue, err := gateway.Queue(context.Background(), 1)
	if err != nil {
		t.Fatalf("Queue() error = %v", err)
	}
	if len(queue) != 1 {
		t.Fatalf("queue length = %d, want 1", len(queue))
	}
	if queue[0].Key() != strongKey {
		t.Errorf("head of queue = %s, want highest trust first", queue[0].Key())
	}
}

func TestCommit_PromotesAndIsIdempotent(t *testing.T) {
	store := graph.NewMemoryStore()
	gateway := NewGateway(store)

	key := seedRelation(t, store, "promote me", 0.5, 0.5)

	result, err := gateway.Commit(context.Background(), []model.RelationKey{key})
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if result.Validated != 1 {
		t.Errorf("validated = %d, want 1", result.Validated)
	}

	again, err := gateway.Commit(context.Background(), []model.RelationKey{key})
	if err != nil {
		t.Fatalf("second Commit() error = %v", err)
	}
	if again.Validated != 0 || again.AlreadyDone != 1 {
		t.Errorf("second commit = %+v, want pure no-op", again)
	}

	queue, err := gateway.Queue(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(queue) != 0 {
		t.Errorf("queue length = %d, want 0 after commit", len(queue))
	}
}

func TestResolve_MatchesByNormalizedNames(t *testing.T) {
	store := graph.NewMemoryStore()
	gateway := NewGateway(store)

	key := seedRelation(t, store, "Prefrontal Cortex", 0.5, 0.5)

	relations, err := gateway.Resolve(context.Background(), "  prefrontal   CORTEX ", "relates to", "prefrontal cortex target")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(relations) != 1 || relations[0].Key() != key {
		t.Errorf("relations = %v, want [%s]", relations, key)
	}

	none, err := gateway.Resolve(context.Background(), "prefrontal cortex", "INHIBITS", "prefrontal cortex target")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("predicate mismatch still matched: %v", none)
	}
}

// A relation that has already been validated must still resolve, so that
// committing it again lands as a no-op rather than a lookup failure.
func TestResolve_FindsValidatedRelations(t *testing.T) {
	store := graph.NewMemoryStore()
	gateway := NewGateway(store)

	key := seedRelation(t, store, "Amygdala", 0.6, 0.5)
	if _, err := gateway.Commit(context.Background(), []model.RelationKey{key}); err != nil {
		t.Fatal(err)
	}

	relations, err := gateway.Resolve(context.Background(), "amygdala", "relates to", "amygdala target")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(relations) != 1 || relations[0].Key() != key {
		t.Fatalf("relations = %v, want the validated relation", relations)
	}
	if relations[0].Status != model.StatusValidated {
		t.Errorf("status = %s, want VALIDATED", relations[0].Status)
	}

	result, err := gateway.Commit(context.Background(), []model.RelationKey{relations[0].Key()})
	if err != nil {
		t.Fatalf("re-commit error = %v, want idempotent success", err)
	}
	if result.Validated != 0 || result.AlreadyDone != 1 {
		t.Errorf("re-commit = %+v, want counted no-op", result)
	}
}

func TestCommit_CollectsUnknownKeys(t *testing.T) {
	store := graph.NewMemoryStore()
	gateway := NewGateway(store)

	known := seedRelation(t, store, "known", 0.5, 0.5)
	unknown := model.RelationKey{Source: "ghost|other", Target: "phantom|other", Predicate: "HAUNTS"}

	result, err := gateway.Commit(context.Background(), []model.RelationKey{unknown, known})
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if result.Validated != 1 {
		t.Errorf("validated = %d, want 1: unknown key must not stop the batch", result.Validated)
	}
	if len(result.Missing) != 1 || result.Missing[0] != unknown {
		t.Errorf("missing = %v, want the unknown key", result.Missing)
	}
}
