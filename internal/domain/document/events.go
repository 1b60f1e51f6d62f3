package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicemonk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DocumentCreatedEvent is raised when a new draft document is created
type DocumentCreatedEvent struct {
	shared.BaseDomainEvent
	DocumentID   uuid.UUID `json:"document_id"`
	DocumentType Type      `json:"document_type"`
	BusinessID   uuid.UUID `json:"business_id"`
	ClientID     uuid.UUID `json:"client_id"`
}

// EventType returns the event type name
func (e *DocumentCreatedEvent) EventType() string {
	return "DocumentCreated"
}

// NewDocumentCreatedEvent creates a new DocumentCreatedEvent
func NewDocumentCreatedEvent(d *Document) *DocumentCreatedEvent {
	return &DocumentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("DocumentCreated", "Document", d.ID, d.TenantID),
		DocumentID:      d.ID,
		DocumentType:    d.Type,
		BusinessID:      d.BusinessID,
		ClientID:        d.ClientID,
	}
}

// DocumentIssuedEvent is raised when a draft becomes an immutable issued record
type DocumentIssuedEvent struct {
	shared.BaseDomainEvent
	DocumentID     uuid.UUID       `json:"document_id"`
	DocumentType   Type            `json:"document_type"`
	DocumentNumber string          `json:"document_number"`
	PreviousStatus Status          `json:"previous_status"`
	Total          decimal.Decimal `json:"total"`
	Currency       string          `json:"currency"`
	DocumentHash   string          `json:"document_hash"`
	IssuedAt       time.Time       `json:"issued_at"`
	IssuedBy       uuid.UUID       `json:"issued_by"`
}

// EventType returns the event type name
func (e *DocumentIssuedEvent) EventType() string {
	return "DocumentIssued"
}

// NewDocumentIssuedEvent creates a new DocumentIssuedEvent
func NewDocumentIssuedEvent(d *Document, previousStatus Status, actor uuid.UUID) *DocumentIssuedEvent {
	issuedAt := time.Now()
	if d.IssuedAt != nil {
		issuedAt = *d.IssuedAt
	}
	return &DocumentIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("DocumentIssued", "Document", d.ID, d.TenantID),
		DocumentID:      d.ID,
		DocumentType:    d.Type,
		DocumentNumber:  d.DocumentNumber,
		PreviousStatus:  previousStatus,
		Total:           d.Total,
		Currency:        string(d.Currency),
		DocumentHash:    d.DocumentHash,
		IssuedAt:        issuedAt,
		IssuedBy:        actor,
	}
}

// DocumentVoidedEvent is raised when an issued document is voided
type DocumentVoidedEvent struct {
	shared.BaseDomainEvent
	DocumentID     uuid.UUID `json:"document_id"`
	DocumentNumber string    `json:"document_number"`
	PreviousStatus Status    `json:"previous_status"`
	VoidedBy       uuid.UUID `json:"voided_by"`
	VoidReason     string    `json:"void_reason"`
}

// EventType returns the event type name
func (e *DocumentVoidedEvent) EventType() string {
	return "DocumentVoided"
}

// NewDocumentVoidedEvent creates a new DocumentVoidedEvent
func NewDocumentVoidedEvent(d *Document, previousStatus Status, voidedBy uuid.UUID) *DocumentVoidedEvent {
	return &DocumentVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("DocumentVoided", "Document", d.ID, d.TenantID),
		DocumentID:      d.ID,
		DocumentNumber:  d.DocumentNumber,
		PreviousStatus:  previousStatus,
		VoidedBy:        voidedBy,
		VoidReason:      d.VoidReason,
	}
}

// DocumentCreditedEvent is raised when a credit note is issued against an invoice
type DocumentCreditedEvent struct {
	shared.BaseDomainEvent
	DocumentID     uuid.UUID `json:"document_id"`
	DocumentNumber string    `json:"document_number"`
	PreviousStatus Status    `json:"previous_status"`
	CreditNoteID   uuid.UUID `json:"credit_note_id"`
}

// EventType returns the event type name
func (e *DocumentCreditedEvent) EventType() string {
	return "DocumentCredited"
}

// NewDocumentCreditedEvent creates a new DocumentCreditedEvent
func NewDocumentCreditedEvent(d *Document, previousStatus Status, creditNoteID uuid.UUID) *DocumentCreditedEvent {
	return &DocumentCreditedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("DocumentCredited", "Document", d.ID, d.TenantID),
		DocumentID:      d.ID,
		DocumentNumber:  d.DocumentNumber,
		PreviousStatus:  previousStatus,
		CreditNoteID:    creditNoteID,
	}
}
