// Package session provides the ephemeral, TTL-bounded per-user storage that
// holds in-progress dialogue data between chat messages. Nothing stored here
// survives the TTL; abandoned dialogues clean themselves up.
package session

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL bounds the lifetime of a user's session data. Every write
// refreshes it.
const DefaultTTL = 10 * time.Minute

// ErrNotFound is returned by Get for a field that was never written or whose
// TTL has expired. Callers treat it as "no data yet" unless documented
// otherwise.
var ErrNotFound = errors.New("session field not found")

// Store is the per-user scratch storage used by the conversation engine.
// All fields of one user share one namespace, so Clear is total.
type Store interface {
	// Put stores a scalar field and refreshes the TTL.
	Put(ctx context.Context, userID int64, field, value string) error

	// Get retrieves a scalar field. Returns ErrNotFound if absent.
	Get(ctx context.Context, userID int64, field string) (string, error)

	// AppendList appends a value to a list field and refreshes the TTL.
	AppendList(ctx context.Context, userID int64, field, value string) error

	// GetList retrieves a list field. A missing field yields an empty list.
	GetList(ctx context.Context, userID int64, field string) ([]string, error)

	// Clear removes every field of the user in one step.
	Clear(ctx context.Context, userID int64) error
}
