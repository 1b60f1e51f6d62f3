package retention

import (
	"time"

	"github.com/invoicemonk/backend/internal/domain/shared"
)

// DefaultRetentionYears applies when no policy matches the jurisdiction
// and entity type of an issued document.
const DefaultRetentionYears = 10

// Policy defines how long issued records of a given entity type must be
// kept in a jurisdiction. The lock window is computed once at issuance and
// stamped onto the document; later policy changes never shorten or extend
// locks already granted.
type Policy struct {
	shared.BaseAggregateRoot
	Jurisdiction   string `json:"jurisdiction"`
	EntityType     string `json:"entity_type"`
	RetentionYears int    `json:"retention_years"`
}

// NewPolicy creates a retention policy
func NewPolicy(jurisdiction, entityType string, retentionYears int) (*Policy, error) {
	if jurisdiction == "" {
		return nil, shared.NewDomainError("INVALID_JURISDICTION", "Jurisdiction cannot be empty")
	}
	if entityType == "" {
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", "Entity type cannot be empty")
	}
	if retentionYears <= 0 {
		return nil, shared.NewDomainError("INVALID_RETENTION_YEARS", "Retention years must be positive")
	}
	return &Policy{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Jurisdiction:      jurisdiction,
		EntityType:        entityType,
		RetentionYears:    retentionYears,
	}, nil
}

// LockUntil computes the end of the retention window for a record issued
// at the given time.
func (p *Policy) LockUntil(issuedAt time.Time) time.Time {
	return issuedAt.AddDate(p.RetentionYears, 0, 0)
}

// DefaultLockUntil computes the retention window using the fallback period.
func DefaultLockUntil(issuedAt time.Time) time.Time {
	return issuedAt.AddDate(DefaultRetentionYears, 0, 0)
}
