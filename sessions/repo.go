package sessions

import "context"

// Repo is byte level persistence for the session record.
// Implementations report a missing key with errors.ErrNotFound.
type Repo interface {
	// Get returns the stored value for key
	Get(ctx context.Context, key string) ([]byte, error)

	// Put overwrites the value for key
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key, a missing key is not an error
	Delete(ctx context.Context, key string) error
}
