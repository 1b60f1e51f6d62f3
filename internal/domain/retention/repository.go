package retention

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicemonk/backend/internal/domain/shared"
)

// Repository persists retention policies. Policies are global configuration
// rather than tenant data, so lookups are keyed by jurisdiction and entity
// type only.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Policy, error)
	// FindForScope returns the policy matching the jurisdiction and entity
	// type, or shared.ErrNotFound when none is configured.
	FindForScope(ctx context.Context, jurisdiction, entityType string) (*Policy, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Policy, error)
	Save(ctx context.Context, policy *Policy) error
	Delete(ctx context.Context, id uuid.UUID) error
}
