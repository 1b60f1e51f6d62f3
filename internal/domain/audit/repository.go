package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicemonk/backend/internal/domain/shared"
)

// Filter narrows audit queries
type Filter struct {
	shared.Filter
	TenantID   *uuid.UUID
	EventType  *EventType
	EntityType string
	EntityID   *uuid.UUID
	From       *time.Time
	To         *time.Time
}

// Repository persists audit entries. The store is append-only: there are no
// update or delete operations, and implementations must not expose them.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	FindByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	FindAll(ctx context.Context, filter Filter) ([]*Entry, error)
	Count(ctx context.Context, filter Filter) (int64, error)
}
