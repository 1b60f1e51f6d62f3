package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invoicemonk/backend/internal/domain/document"
	"github.com/invoicemonk/backend/internal/domain/shared/valueobject"
)

// DocumentModel is the persistence model for the Document aggregate.
// Line items live in their own table and are loaded with the aggregate.
type DocumentModel struct {
	TenantAggregateModel
	Type       document.Type   `gorm:"type:varchar(20);not null;index"`
	Status     document.Status `gorm:"type:varchar(20);not null;index"`
	BusinessID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClientID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Currency   string          `gorm:"type:varchar(3);not null"`
	Total      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Notes      string          `gorm:"type:text"`

	// Integrity fields. NULL until issuance; the partial unique indexes
	// ignore drafts so multiple unnumbered drafts can coexist.
	DocumentNumber       *string                    `gorm:"type:varchar(30);uniqueIndex:idx_documents_tenant_number,priority:2"`
	VerificationID       *string                    `gorm:"type:varchar(32);uniqueIndex"`
	IssuedAt             *time.Time                 `gorm:"index"`
	DocumentHash         string                     `gorm:"type:varchar(64)"`
	Snapshot             *document.DocumentSnapshot `gorm:"type:jsonb"`
	RetentionLockedUntil *time.Time                 `gorm:"index"`

	// Operational fields, mutable after issuance.
	PaidAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SentAt     *time.Time
	ViewedAt   *time.Time
	PaidAt     *time.Time
	VoidedAt   *time.Time
	VoidedBy   *uuid.UUID `gorm:"type:uuid"`
	VoidReason string     `gorm:"type:text"`

	CreditedDocumentID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts the persistence model to a domain Document. Line items
// are attached separately by the repository.
func (m *DocumentModel) ToDomain() *document.Document {
	d := &document.Document{
		Type:       m.Type,
		Status:     m.Status,
		BusinessID: m.BusinessID,
		ClientID:   m.ClientID,
		Currency:   valueobject.Currency(m.Currency),
		Total:      m.Total,
		Notes:      m.Notes,

		IssuedAt:             m.IssuedAt,
		DocumentHash:         m.DocumentHash,
		Snapshot:             m.Snapshot,
		RetentionLockedUntil: m.RetentionLockedUntil,

		PaidAmount: m.PaidAmount,
		SentAt:     m.SentAt,
		ViewedAt:   m.ViewedAt,
		PaidAt:     m.PaidAt,
		VoidedAt:   m.VoidedAt,
		VoidedBy:   m.VoidedBy,
		VoidReason: m.VoidReason,

		CreditedDocumentID: m.CreditedDocumentID,
	}
	m.PopulateTenantAggregateRoot(&d.TenantAggregateRoot)
	if m.DocumentNumber != nil {
		d.DocumentNumber = *m.DocumentNumber
	}
	if m.VerificationID != nil {
		d.VerificationID = *m.VerificationID
	}
	return d
}

// FromDomain populates the persistence model from a domain Document.
func (m *DocumentModel) FromDomain(d *document.Document) {
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	m.Type = d.Type
	m.Status = d.Status
	m.BusinessID = d.BusinessID
	m.ClientID = d.ClientID
	m.Currency = d.Currency.String()
	m.Total = d.Total
	m.Notes = d.Notes

	m.DocumentNumber = nil
	if d.DocumentNumber != "" {
		number := d.DocumentNumber
		m.DocumentNumber = &number
	}
	m.VerificationID = nil
	if d.VerificationID != "" {
		verificationID := d.VerificationID
		m.VerificationID = &verificationID
	}
	m.IssuedAt = d.IssuedAt
	m.DocumentHash = d.DocumentHash
	m.Snapshot = d.Snapshot
	m.RetentionLockedUntil = d.RetentionLockedUntil

	m.PaidAmount = d.PaidAmount
	m.SentAt = d.SentAt
	m.ViewedAt = d.ViewedAt
	m.PaidAt = d.PaidAt
	m.VoidedAt = d.VoidedAt
	m.VoidedBy = d.VoidedBy
	m.VoidReason = d.VoidReason

	m.CreditedDocumentID = d.CreditedDocumentID
}

// DocumentModelFromDomain creates a new persistence model from a domain Document.
func DocumentModelFromDomain(d *document.Document) *DocumentModel {
	m := &DocumentModel{}
	m.FromDomain(d)
	return m
}

// LineItemModel is the persistence model for a document line item.
// Rows are replaced wholesale on every draft save; position preserves
// the order the lines appear on the document.
type LineItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	DocumentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (LineItemModel) TableName() string {
	return "document_line_items"
}

// ToDomain converts the persistence model to a domain LineItem.
func (m *LineItemModel) ToDomain() document.LineItem {
	return document.LineItem{
		ID:          m.ID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		TaxRate:     m.TaxRate,
		LineTotal:   m.LineTotal,
	}
}

// LineItemModelsFromDomain converts a document's line items to persistence models.
func LineItemModelsFromDomain(documentID uuid.UUID, items []document.LineItem) []LineItemModel {
	lineModels := make([]LineItemModel, len(items))
	for i, li := range items {
		lineModels[i] = LineItemModel{
			ID:          li.ID,
			DocumentID:  documentID,
			Position:    i,
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			TaxRate:     li.TaxRate,
			LineTotal:   li.LineTotal,
		}
	}
	return lineModels
}

// SequenceModel is the persistence model for per-scope document number
// counters. One row per (tenant, type, year); allocation locks the row.
type SequenceModel struct {
	ID           uuid.UUID     `gorm:"type:uuid;primary_key"`
	TenantID     uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_sequences_scope,priority:1"`
	DocType      document.Type `gorm:"type:varchar(20);not null;uniqueIndex:idx_sequences_scope,priority:2"`
	Year         int           `gorm:"not null;uniqueIndex:idx_sequences_scope,priority:3"`
	CurrentValue int64         `gorm:"not null;default:0"`
	CreatedAt    time.Time     `gorm:"not null"`
	UpdatedAt    time.Time     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SequenceModel) TableName() string {
	return "document_sequences"
}
