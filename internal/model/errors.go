package model

import "errors"

// Failure taxonomy for the ingestion pipeline. Callers branch with errors.Is.
var (
	// ErrNetworkUnavailable marks citation/classification services as
	// unreachable. Recovered locally via the heuristic fallback; never
	// surfaced to the user as a failure.
	ErrNetworkUnavailable = errors.New("remote service unavailable")

	// ErrCapabilityUnparseable marks reasoning/vision output that stayed
	// malformed after repair attempts. Recovered at chunk granularity.
	ErrCapabilityUnparseable = errors.New("capability output unparseable")

	// ErrCapabilityUnreachable marks the reasoning/vision service itself as
	// down. Fatal for the current document's remaining chunks, not the run.
	ErrCapabilityUnreachable = errors.New("capability unreachable")

	// ErrStoreUnavailable marks the graph store as unreachable. The only
	// failure reported to the caller as blocking.
	ErrStoreUnavailable = errors.New("graph store unavailable")
)
