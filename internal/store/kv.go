package store

import "context"

// KV is the storage port the session and profile services are built on.
// Documents are flat JSON strings keyed the way the browser prototype keyed
// its local storage, which keeps any backend substitutable.
type KV interface {
	// Get returns the stored document. A missing key is (_, false, nil),
	// not an error.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete is idempotent; deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error
}
