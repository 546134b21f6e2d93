package metadata

import (
	"context"
)

// Repository is the client's local key/value storage: the equivalent of the
// browser's localStorage. Values are opaque bytes; callers own the encoding.
type Repository interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is idempotent.
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
	// Apply upserts every pair in set and removes every key in del as one
	// atomic step: either all of it is visible afterwards or none of it.
	Apply(ctx context.Context, set map[string][]byte, del []string) error
}
