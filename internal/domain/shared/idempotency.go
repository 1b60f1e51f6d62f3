package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers event IDs that were already delivered so
// handlers do not act on the same event twice.
type IdempotencyStore interface {
	// MarkProcessed records an event ID with a TTL. It returns true when
	// the ID was newly recorded and false when it was already present.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether an event ID was already recorded.
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Close releases the store's resources.
	Close() error
}

// IdempotencyConfig controls duplicate-delivery suppression
type IdempotencyConfig struct {
	// TTL is how long a processed event ID is remembered. After it
	// expires the same ID would be processed again.
	TTL time.Duration

	// Enabled turns the duplicate check on or off
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
