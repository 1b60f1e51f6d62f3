package directory

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicemonk/backend/internal/domain/shared"
)

// BusinessProfileRepository persists business profiles
type BusinessProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BusinessProfile, error)
	// FindForTenant returns the tenant's single profile, or shared.ErrNotFound
	// when onboarding has not completed.
	FindForTenant(ctx context.Context, tenantID uuid.UUID) (*BusinessProfile, error)
	Save(ctx context.Context, profile *BusinessProfile) error
	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, profile *BusinessProfile) error
}

// ClientFilter narrows client directory queries
type ClientFilter struct {
	shared.Filter
	Status *ClientStatus
	Search string // matches name or email
}

// ClientRepository persists directory clients
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Client, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ClientFilter) ([]*Client, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter ClientFilter) (int64, error)
	Save(ctx context.Context, client *Client) error
	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, client *Client) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
