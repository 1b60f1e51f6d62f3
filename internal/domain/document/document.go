package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/invoicemonk/backend/internal/domain/shared"
	"github.com/invoicemonk/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Type represents the kind of financial document
type Type string

const (
	TypeInvoice    Type = "INVOICE"
	TypeReceipt    Type = "RECEIPT"
	TypeCreditNote Type = "CREDIT_NOTE"
)

// IsValid checks if the type is a valid document type
func (t Type) IsValid() bool {
	switch t {
	case TypeInvoice, TypeReceipt, TypeCreditNote:
		return true
	}
	return false
}

// String returns the string representation of the document type
func (t Type) String() string {
	return string(t)
}

// NumberPrefix returns the document-number prefix for this type
func (t Type) NumberPrefix() string {
	switch t {
	case TypeInvoice:
		return "INV"
	case TypeReceipt:
		return "RCT"
	case TypeCreditNote:
		return "CRN"
	}
	return "DOC"
}

// Status represents the lifecycle status of a document
type Status string

const (
	StatusDraft    Status = "DRAFT"    // Mutable, not yet a legal record
	StatusIssued   Status = "ISSUED"   // Numbered, snapshotted, hashed
	StatusSent     Status = "SENT"     // Delivered to the counterparty
	StatusViewed   Status = "VIEWED"   // Opened by the counterparty
	StatusPaid     Status = "PAID"     // Settled in full (invoices only)
	StatusVoided   Status = "VOIDED"   // Cancelled after issuance
	StatusCredited Status = "CREDITED" // Corrected by a linked credit note
)

// IsValid checks if the status is a valid document status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusIssued, StatusSent, StatusViewed, StatusPaid, StatusVoided, StatusCredited:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are allowed
func (s Status) IsTerminal() bool {
	return s == StatusVoided || s == StatusCredited
}

// IsVerifiable returns true if the document may be returned by the
// public verification endpoint. Drafts must never leak.
func (s Status) IsVerifiable() bool {
	return s != StatusDraft
}

// allowedFor returns the statuses reachable for a document type.
// Receipts and credit notes use a reduced lifecycle.
func (s Status) allowedFor(t Type) bool {
	if t == TypeInvoice {
		return true
	}
	switch s {
	case StatusDraft, StatusIssued, StatusSent, StatusVoided:
		return true
	}
	return false
}

// FormatNumber renders a document number for a type, year and sequence value,
// e.g. "INV-2026-000042". Numbers are scoped per (tenant, type, year).
func FormatNumber(t Type, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%06d", t.NumberPrefix(), year, seq)
}

// LineItem is a billable line on a document. Line items are embedded in the
// aggregate and are only mutable while the document is a draft.
type LineItem struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"` // percentage, copied not recomputed
	LineTotal   decimal.Decimal `json:"line_total"`
}

// NewLineItem creates a line item, computing the line total
func NewLineItem(description string, quantity, unitPrice, taxRate decimal.Decimal) (LineItem, error) {
	if description == "" {
		return LineItem{}, shared.NewDomainError("INVALID_LINE_ITEM", "Line item description cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return LineItem{}, shared.NewDomainError("INVALID_LINE_ITEM", "Line item quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return LineItem{}, shared.NewDomainError("INVALID_LINE_ITEM", "Line item unit price cannot be negative")
	}
	if taxRate.IsNegative() {
		return LineItem{}, shared.NewDomainError("INVALID_LINE_ITEM", "Line item tax rate cannot be negative")
	}
	net := quantity.Mul(unitPrice)
	total := net.Add(net.Mul(taxRate.Div(decimal.NewFromInt(100)))).Round(2)
	return LineItem{
		ID:          uuid.New(),
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TaxRate:     taxRate,
		LineTotal:   total,
	}, nil
}

// Document is the aggregate root for invoices, receipts and credit notes.
//
// Before issuance a document is an ordinary mutable draft. Issue is the
// one-way transition that allocates the number, embeds the snapshot, stamps
// the hash and retention lock; from that point on the integrity fields
// (DocumentNumber, VerificationID, IssuedAt, DocumentHash, Snapshot,
// RetentionLockedUntil) are never written again.
type Document struct {
	shared.TenantAggregateRoot
	Type       Type                 `json:"type"`
	Status     Status               `json:"status"`
	BusinessID uuid.UUID            `json:"business_id"`
	ClientID   uuid.UUID            `json:"client_id"`
	Currency   valueobject.Currency `json:"currency"`
	LineItems  []LineItem           `json:"line_items"`
	Total      decimal.Decimal      `json:"total"`
	Notes      string               `json:"notes"`

	// Integrity fields, written exactly once at issuance
	DocumentNumber       string            `json:"document_number"`
	VerificationID       string            `json:"verification_id"`
	IssuedAt             *time.Time        `json:"issued_at"`
	DocumentHash         string            `json:"document_hash"`
	Snapshot             *DocumentSnapshot `json:"snapshot"`
	RetentionLockedUntil *time.Time        `json:"retention_locked_until"`

	// Operational fields, mutable after issuance without affecting the hash
	PaidAmount decimal.Decimal `json:"paid_amount"`
	SentAt     *time.Time      `json:"sent_at"`
	ViewedAt   *time.Time      `json:"viewed_at"`
	PaidAt     *time.Time      `json:"paid_at"`
	VoidedAt   *time.Time      `json:"voided_at"`
	VoidedBy   *uuid.UUID      `json:"voided_by"`
	VoidReason string          `json:"void_reason"`

	// CreditedDocumentID links a credit note back to the document it corrects.
	// Corrections never reset an issued document to draft.
	CreditedDocumentID *uuid.UUID `json:"credited_document_id"`
}

// NewDocument creates a new draft document
func NewDocument(
	tenantID uuid.UUID,
	docType Type,
	businessID uuid.UUID,
	clientID uuid.UUID,
	currency valueobject.Currency,
	createdBy uuid.UUID,
) (*Document, error) {
	if !docType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_TYPE", "Document type is not valid")
	}
	if businessID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUSINESS", "Business ID cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency is not supported")
	}

	d := &Document{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, createdBy),
		Type:                docType,
		Status:              StatusDraft,
		BusinessID:          businessID,
		ClientID:            clientID,
		Currency:            currency,
		LineItems:           make([]LineItem, 0),
		Total:               decimal.Zero,
		PaidAmount:          decimal.Zero,
	}

	d.AddDomainEvent(NewDocumentCreatedEvent(d))

	return d, nil
}

// IsDraft returns true if the document has not been issued yet
func (d *Document) IsDraft() bool {
	return d.Status == StatusDraft
}

// IsIssued returns true if the document has left the draft state
func (d *Document) IsIssued() bool {
	return d.Status != StatusDraft
}

// AddLineItem appends a line item to a draft document
func (d *Document) AddLineItem(item LineItem) error {
	if !d.IsDraft() {
		return shared.NewDomainError("DOCUMENT_NOT_DRAFT", "Line items can only be changed on a draft document")
	}
	d.LineItems = append(d.LineItems, item)
	d.recalculateTotal()
	d.Touch()
	d.IncrementVersion()
	return nil
}

// ReplaceLineItems replaces all line items on a draft document
func (d *Document) ReplaceLineItems(items []LineItem) error {
	if !d.IsDraft() {
		return shared.NewDomainError("DOCUMENT_NOT_DRAFT", "Line items can only be changed on a draft document")
	}
	d.LineItems = items
	d.recalculateTotal()
	d.Touch()
	d.IncrementVersion()
	return nil
}

// SetNotes updates the free-form notes on a draft document
func (d *Document) SetNotes(notes string) error {
	if !d.IsDraft() {
		return shared.NewDomainError("DOCUMENT_NOT_DRAFT", "Notes can only be changed on a draft document")
	}
	d.Notes = notes
	d.Touch()
	d.IncrementVersion()
	return nil
}

func (d *Document) recalculateTotal() {
	total := decimal.Zero
	for _, li := range d.LineItems {
		total = total.Add(li.LineTotal)
	}
	d.Total = total.Round(2)
}

// Issue performs the one-way draft→issued transition. The caller supplies the
// allocated document number, the fresh verification id, the built snapshot and
// the computed retention lock; Issue stamps them, computes the content hash
// and raises the issued event. Calling Issue on a non-draft document is a
// state error, never a silent re-issue.
func (d *Document) Issue(
	documentNumber string,
	verificationID string,
	snapshot DocumentSnapshot,
	retentionLockedUntil time.Time,
	issuedAt time.Time,
	actor uuid.UUID,
) error {
	if d.Status != StatusDraft {
		return shared.NewDomainError("ALREADY_ISSUED", fmt.Sprintf("Cannot issue document in %s status", d.Status))
	}
	if documentNumber == "" {
		return shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Document number cannot be empty")
	}
	if !IsValidVerificationID(verificationID) {
		return shared.NewDomainError("INVALID_VERIFICATION_ID", "Verification ID has an invalid shape")
	}
	if len(d.LineItems) == 0 {
		return shared.NewDomainError("EMPTY_DOCUMENT", "Cannot issue a document without line items")
	}
	if issuedAt.IsZero() {
		return shared.NewDomainError("INVALID_ISSUE_TIME", "Issue timestamp is required")
	}

	previousStatus := d.Status
	d.DocumentNumber = documentNumber
	d.VerificationID = verificationID
	d.IssuedAt = &issuedAt
	d.Snapshot = &snapshot
	d.RetentionLockedUntil = &retentionLockedUntil
	d.Status = StatusIssued
	d.DocumentHash = ComputeHash(d)
	d.Touch()
	d.IncrementVersion()

	d.AddDomainEvent(NewDocumentIssuedEvent(d, previousStatus, actor))

	return nil
}

// MarkSent records delivery to the counterparty
func (d *Document) MarkSent(at time.Time) error {
	if d.Status != StatusIssued {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark document in %s status as sent", d.Status))
	}
	d.Status = StatusSent
	d.SentAt = &at
	d.Touch()
	d.IncrementVersion()
	return nil
}

// MarkViewed records that the counterparty opened the document
func (d *Document) MarkViewed(at time.Time) error {
	if !StatusViewed.allowedFor(d.Type) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("%s documents cannot be marked viewed", d.Type))
	}
	switch d.Status {
	case StatusIssued, StatusSent:
		d.Status = StatusViewed
		d.ViewedAt = &at
		d.Touch()
		d.IncrementVersion()
		return nil
	}
	return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark document in %s status as viewed", d.Status))
}

// RecordPayment records a payment against an issued invoice. Payment totals
// are operational state and never participate in the integrity hash.
func (d *Document) RecordPayment(amount valueobject.Money, at time.Time) error {
	if d.Type != TypeInvoice {
		return shared.NewDomainError("INVALID_STATE", "Only invoices accept payments")
	}
	if d.Status.IsTerminal() || d.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record payment on document in %s status", d.Status))
	}
	if amount.Currency() != d.Currency {
		return shared.NewDomainError("CURRENCY_MISMATCH", "Payment currency does not match document currency")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	d.PaidAmount = d.PaidAmount.Add(amount.Amount())
	if d.PaidAmount.GreaterThanOrEqual(d.Total) {
		d.Status = StatusPaid
		d.PaidAt = &at
	}
	d.Touch()
	d.IncrementVersion()
	return nil
}

// Void cancels an issued document. The integrity fields stay intact so the
// voided record remains verifiable.
func (d *Document) Void(voidedBy uuid.UUID, reason string, at time.Time) error {
	if d.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Draft documents are deleted, not voided")
	}
	if d.Status.IsTerminal() || d.Status == StatusPaid {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot void document in %s status", d.Status))
	}
	if voidedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Voiding user ID is required")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}

	previousStatus := d.Status
	d.Status = StatusVoided
	d.VoidedAt = &at
	d.VoidedBy = &voidedBy
	d.VoidReason = reason
	d.Touch()
	d.IncrementVersion()

	d.AddDomainEvent(NewDocumentVoidedEvent(d, previousStatus, voidedBy))

	return nil
}

// MarkCredited records that a credit note was issued against this document
func (d *Document) MarkCredited(creditNoteID uuid.UUID) error {
	if d.Type != TypeInvoice {
		return shared.NewDomainError("INVALID_STATE", "Only invoices can be credited")
	}
	if d.IsDraft() || d.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot credit document in %s status", d.Status))
	}

	previousStatus := d.Status
	d.Status = StatusCredited
	d.Touch()
	d.IncrementVersion()

	d.AddDomainEvent(NewDocumentCreditedEvent(d, previousStatus, creditNoteID))

	return nil
}

// GetTotalMoney returns the document total as Money
func (d *Document) GetTotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(d.Total, d.Currency)
	return m
}

// RetentionExpired returns true if the retention lock has passed as of the
// given time. Documents without a lock (drafts) are never eligible.
func (d *Document) RetentionExpired(asOf time.Time) bool {
	return d.RetentionLockedUntil != nil && d.RetentionLockedUntil.Before(asOf)
}
