package document

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter defines filtering options for document list queries
type Filter struct {
	Type       *Type
	Status     *Status
	Statuses   []Status
	ClientID   *uuid.UUID
	BusinessID *uuid.UUID
	FromDate   *time.Time
	ToDate     *time.Time
	Search     string
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}

// Repository defines persistence operations for the Document aggregate
type Repository interface {
	// FindByID finds a document by ID regardless of tenant
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)
	// FindByIDForTenant finds a document by ID scoped to a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Document, error)
	// FindByVerificationID finds a document by its public verification token.
	// This is the only lookup path the unauthenticated verification
	// endpoint is allowed to use.
	FindByVerificationID(ctx context.Context, verificationID string) (*Document, error)
	// FindAllForTenant lists documents for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter Filter) ([]Document, error)
	// CountForTenant counts documents for a tenant with filtering
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter Filter) (int64, error)
	// FindRetentionExpired returns documents whose retention lock is
	// strictly before asOf, up to limit rows
	FindRetentionExpired(ctx context.Context, asOf time.Time, limit int) ([]Document, error)
	// Save creates or updates a document together with its line items
	Save(ctx context.Context, doc *Document) error
	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, doc *Document) error
	// Delete removes a draft document and its line items
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	// HardDeleteCascade permanently removes a document and every dependent
	// row (line items, linked credit notes). Used only by the retention
	// enforcer once the retention lock has elapsed.
	HardDeleteCascade(ctx context.Context, id uuid.UUID) (DeletedCounts, error)
}

// DeletedCounts summarises rows removed by a cascading hard delete
type DeletedCounts struct {
	Documents   int64 `json:"documents"`
	LineItems   int64 `json:"line_items"`
	CreditNotes int64 `json:"credit_notes"`
}

// Add accumulates another set of counts
func (c *DeletedCounts) Add(other DeletedCounts) {
	c.Documents += other.Documents
	c.LineItems += other.LineItems
	c.CreditNotes += other.CreditNotes
}

// SequenceRepository allocates document numbers. NextValue must be atomic:
// two concurrent issuances in the same scope must never observe the same
// value. Implementations serialize allocation per (tenant, type, year) row,
// inside the surrounding issuance transaction.
type SequenceRepository interface {
	NextValue(ctx context.Context, tenantID uuid.UUID, docType Type, year int) (int64, error)
}
