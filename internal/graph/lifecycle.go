package graph

import "github.com/ppiankov/neurograph/internal/model"

// CanTransition reports whether a relation may move between lifecycle
// states. The machine is monotonic: PROVISIONAL may become VALIDATED,
// nothing ever demotes, and re-validating is allowed as a no-op.
func CanTransition(from, to model.RelationStatus) bool {
	switch {
	case from == to:
		return true
	case from == model.StatusProvisional && to == model.StatusValidated:
		return true
	default:
		return false
	}
}

// UpsertOutcome describes what a relation upsert did to the store.
type UpsertOutcome int

const (
	// OutcomeCreated means a new PROVISIONAL relation was written.
	OutcomeCreated UpsertOutcome = iota

	// OutcomeUpdated means an existing PROVISIONAL relation absorbed new
	// evidence and possibly a higher confidence.
	OutcomeUpdated

	// OutcomeSkippedValidated means the relation is VALIDATED: only its
	// evidence count and last-seen moved, confidence and trust stayed.
	OutcomeSkippedValidated
)

func (o UpsertOutcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeSkippedValidated:
		return "skipped_validated"
	default:
		return "unknown"
	}
}
