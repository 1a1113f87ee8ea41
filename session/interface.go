package session

import (
	"context"

	"github.com/creastat/docstore"
)

// Store defines the interface for session token storage operations.
// Implementations must make Merge atomic per session ID: a concurrent Get
// observes either the token before or after a merge, never a partial one.
type Store interface {
	// Get retrieves a session record by ID.
	// Returns nil if the session is not found (not an error).
	// Returns a *docstore.SessionTokenParseError if the stored token is
	// corrupt.
	Get(ctx context.Context, id string) (*Record, error)

	// Merge joins token into the stored token of the session, creating the
	// record with Version 1 if it does not exist. The stored sequence number
	// of a partition never decreases. Version is incremented only when the
	// stored token changes. Returns the resulting record.
	Merge(ctx context.Context, id string, token docstore.SessionToken) (*Record, error)

	// Delete deletes a session by ID.
	Delete(ctx context.Context, id string) error

	// Close closes the store and releases any resources.
	Close() error
}
