package store

import "context"

// Logical keys for the three persisted collections.
const (
	KeyMessages = "zen_messages"
	KeyMoods    = "zen_moods"
	KeyProfile  = "zen_profile"
)

// KV is the narrow persistence surface the core depends on. Values are
// opaque serialized blobs; the caller owns the encoding.
type KV interface {
	// Get returns the blob for key, with ok=false when the key was never set.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set stores the blob for key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
}
