// Package review is the human validation boundary. Relations only ever
// become VALIDATED through an explicit commit here; nothing in the
// ingestion path promotes automatically.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/neurograph/internal/graph"
	"github.com/ppiankov/neurograph/internal/model"
)

// Gateway exposes the provisional queue and applies reviewer decisions.
type Gateway struct {
	store graph.Store
}

func NewGateway(store graph.Store) *Gateway {
	return &Gateway{store: store}
}

// Queue returns up to limit provisional relations, highest trust first,
// confidence breaking ties. limit <= 0 returns the whole queue.
func (g *Gateway) Queue(ctx context.Context, limit int) ([]model.Relation, error) {
	relations, err := g.store.ProvisionalRelations(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("review queue: %w", err)
	}
	return relations, nil
}

// CommitResult reports what one commit call changed.
type CommitResult struct {
	Validated   int // Relations promoted by this call
	AlreadyDone int // Relations that were VALIDATED before the call
	Missing     []model.RelationKey
}

// Resolve maps reviewer-supplied names to stored relations. Concept types
// are not part of the reviewer's vocabulary, so matching is by normalized
// name and predicate across all types, and across all statuses: an
// already validated relation still resolves so that re-committing it can
// be a no-op instead of a lookup failure. Multiple matches are all
// returned.
func (g *Gateway) Resolve(ctx context.Context, subject, predicate, object string) ([]model.Relation, error) {
	relations, err := g.store.FindRelations(ctx, subject, predicate, object)
	if err != nil {
		return nil, fmt.Errorf("resolve relation: %w", err)
	}
	return relations, nil
}

// Commit promotes the given relations to VALIDATED. Re-committing a
// validated relation is a counted no-op; an unknown key is collected
// rather than failing the batch.
func (g *Gateway) Commit(ctx context.Context, keys []model.RelationKey) (CommitResult, error) {
	var result CommitResult

	for _, key := range keys {
		changed, err := g.store.ValidateRelation(ctx, key)
		if err != nil {
			if errors.Is(err, model.ErrStoreUnavailable) {
				return result, fmt.Errorf("commit %s: %w", key, err)
			}
			result.Missing = append(result.Missing, key)
			continue
		}
		if changed {
			result.Validated++
		} else {
			result.AlreadyDone++
		}
	}

	return result, nil
}
