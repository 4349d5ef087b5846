package graph

import (
	"context"
	"fmt"

	"github.com/ppiankov/neurograph/internal/model"
)

// Store is the persistence boundary for the knowledge graph. Implementations
// must make every upsert atomic per key: two concurrent merges of the same
// concept or relation may not interleave partial writes.
type Store interface {
	// UpsertConcept creates the concept if its key is absent; an existing
	// concept keeps its original display name. Reports whether a node was
	// created.
	UpsertConcept(ctx context.Context, concept model.Concept) (bool, error)

	// UpsertRelation applies the relation lifecycle rules for one candidate
	// edge and reports which branch was taken.
	UpsertRelation(ctx context.Context, relation model.Relation) (UpsertOutcome, error)

	// ProvisionalRelations returns up to limit PROVISIONAL relations ordered
	// by trust score then confidence, both descending. limit <= 0 means all.
	ProvisionalRelations(ctx context.Context, limit int) ([]model.Relation, error)

	// FindRelations resolves endpoint names and a predicate to stored
	// relations, matching by normalized name across all concept types and
	// statuses.
	FindRelations(ctx context.Context, subject, predicate, object string) ([]model.Relation, error)

	// ValidateRelation promotes one relation to VALIDATED. Idempotent:
	// validating an already validated relation reports false with no error.
	// An absent key is an error.
	ValidateRelation(ctx context.Context, key model.RelationKey) (bool, error)

	// UpsertDocument records the document node for provenance queries.
	UpsertDocument(ctx context.Context, doc model.Document, trust model.TrustAssessment) error

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the store's resources.
	Close(ctx context.Context) error
}

// NewStore selects a store implementation from configuration.
func NewStore(ctx context.Context, cfg model.GraphConfig) (Store, error) {
	if cfg.Memory {
		return NewMemoryStore(), nil
	}

	store, err := NewNeo4jStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("graph store: %w", err)
	}
	return store, nil
}
