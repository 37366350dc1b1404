// internal/pkg/keyvalue/keyvalue.go
package keyvalue

import (
	"context"
	"time"
)

// Store is a minimal durable key-value interface. Cart and preference
// persistence go through it so the backing store can be swapped without
// touching domain logic.
type Store interface {
	// Load returns the stored value and whether the key was present.
	Load(ctx context.Context, key string) ([]byte, bool, error)
	// Save stores the value. A zero ttl means no expiration.
	Save(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
