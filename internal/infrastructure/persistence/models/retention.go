package models

import (
	"github.com/invoicemonk/backend/internal/domain/retention"
	"github.com/invoicemonk/backend/internal/domain/shared"
)

// RetentionPolicyModel is the persistence model for retention policies.
// Policies are platform-level configuration, not tenant data.
type RetentionPolicyModel struct {
	AggregateModel
	Jurisdiction   string `gorm:"type:varchar(2);not null;uniqueIndex:idx_retention_scope,priority:1"`
	EntityType     string `gorm:"type:varchar(50);not null;uniqueIndex:idx_retention_scope,priority:2"`
	RetentionYears int    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RetentionPolicyModel) TableName() string {
	return "retention_policies"
}

// ToDomain converts the persistence model to a domain Policy.
func (m *RetentionPolicyModel) ToDomain() *retention.Policy {
	p := &retention.Policy{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Jurisdiction:   m.Jurisdiction,
		EntityType:     m.EntityType,
		RetentionYears: m.RetentionYears,
	}
	p.MarkPersisted()
	return p
}

// FromDomain populates the persistence model from a domain Policy.
func (m *RetentionPolicyModel) FromDomain(p *retention.Policy) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Jurisdiction = p.Jurisdiction
	m.EntityType = p.EntityType
	m.RetentionYears = p.RetentionYears
}

// RetentionPolicyModelFromDomain creates a persistence model from a domain Policy.
func RetentionPolicyModelFromDomain(p *retention.Policy) *RetentionPolicyModel {
	m := &RetentionPolicyModel{}
	m.FromDomain(p)
	return m
}
