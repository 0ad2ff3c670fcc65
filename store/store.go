package store

import "context"

// Store is the durable record store consumed by the query handlers.
// Records are keyed by an auto-increment id; email is treated as a
// natural key by the callers (first match wins, the store does not
// enforce uniqueness).
type Store interface {
	// Insert persists a new record and returns the store-assigned id.
	Insert(ctx context.Context, rec Record) (int64, error)
	// Update overwrites every mutable field of the record identified
	// by rec.Id. Callers compute merge semantics before calling.
	Update(ctx context.Context, rec Record) error
	// FirstByEmail returns the lowest-id record with the given email,
	// or nil when none exists.
	FirstByEmail(ctx context.Context, email string) (*Record, error)
	// List returns all records scoped to the (user, conversation)
	// pair, ordered by created_at ascending.
	List(ctx context.Context, userId, conversationId string) ([]Record, error)
	// SetConnected updates only the connected_already field of the
	// record identified by id.
	SetConnected(ctx context.Context, id int64, connected string) error
}
