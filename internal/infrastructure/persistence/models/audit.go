package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/invoicemonk/backend/internal/domain/audit"
)

// AuditEntryModel is the persistence model for audit log entries.
// The table is append-only: entries are inserted and read, never
// updated or deleted.
type AuditEntryModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID      *uuid.UUID      `gorm:"type:uuid;index"`
	EventType     audit.EventType `gorm:"type:varchar(50);not null;index"`
	EntityType    string          `gorm:"type:varchar(50);not null"`
	EntityID      *uuid.UUID      `gorm:"type:uuid;index"`
	Actor         *uuid.UUID      `gorm:"type:uuid"`
	PreviousState string          `gorm:"type:varchar(50)"`
	NewState      string          `gorm:"type:varchar(50)"`
	Metadata      audit.Metadata  `gorm:"type:jsonb"`
	OccurredAt    time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditEntryModel) TableName() string {
	return "audit_entries"
}

// ToDomain converts the persistence model to a domain audit Entry.
func (m *AuditEntryModel) ToDomain() *audit.Entry {
	return &audit.Entry{
		ID:            m.ID,
		TenantID:      m.TenantID,
		EventType:     m.EventType,
		EntityType:    m.EntityType,
		EntityID:      m.EntityID,
		Actor:         m.Actor,
		PreviousState: m.PreviousState,
		NewState:      m.NewState,
		Metadata:      m.Metadata,
		OccurredAt:    m.OccurredAt,
	}
}

// AuditEntryModelFromDomain creates a persistence model from a domain Entry.
func AuditEntryModelFromDomain(e *audit.Entry) *AuditEntryModel {
	return &AuditEntryModel{
		ID:            e.ID,
		TenantID:      e.TenantID,
		EventType:     e.EventType,
		EntityType:    e.EntityType,
		EntityID:      e.EntityID,
		Actor:         e.Actor,
		PreviousState: e.PreviousState,
		NewState:      e.NewState,
		Metadata:      e.Metadata,
		OccurredAt:    e.OccurredAt,
	}
}
