// Package storage defines the persistence contract for conversation turns
// and the query shape shared by the local and remote backends.
package storage

import (
	"context"

	"alisa/core"
)

// DefaultLimit caps Load results when the query does not set its own limit.
const DefaultLimit = 50

// Query selects persisted turns. SessionID takes priority when both
// identifiers are present; exactly one of the two is consulted.
type Query struct {
	SessionID string
	UserName  string
	// Limit caps the number of returned turns. Zero or negative means
	// DefaultLimit.
	Limit int
}

// Backend persists and retrieves conversation turns. Implementations open a
// fresh connection or client per operation and release it before returning;
// no state is held across calls.
//
// Failures are returned as plain errors. The session layer converts them to
// non-fatal warnings: a failed save is treated as a no-op and a failed load
// as an empty result, and the conversation continues either way.
type Backend interface {
	// Save inserts each non-system turn as a new row keyed by sessionID and
	// userName. Atomicity across the batch is backend-specific; see the
	// individual implementations.
	Save(ctx context.Context, sessionID, userName string, turns []core.Turn) error

	// Load returns up to Limit persisted turns matching the query,
	// oldest-first.
	Load(ctx context.Context, q Query) ([]core.Turn, error)
}

// Reverse flips a turn slice in place. Backends retrieve rows newest-first
// (insertion order descending) and reverse to hand out oldest-first.
func Reverse(turns []core.Turn) {
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
}
