package ports

import (
	"context"
)

// TrackingCache stores rendered public tracking views by tracking code.
type TrackingCache interface {
	// Get returns the cached payload and whether it was found.
	Get(ctx context.Context, code string) ([]byte, bool, error)

	// Set stores the payload with the cache's configured time to live.
	Set(ctx context.Context, code string, payload []byte) error

	// Delete evicts the entry. Evicting a missing entry is not an error.
	Delete(ctx context.Context, code string) error
}
