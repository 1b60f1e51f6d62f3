package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicemonk/backend/internal/domain/document"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Document DTOs
// =============================================================================

// LineItemRequest represents one billable line in a create/update request
type LineItemRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// CreateDocumentRequest represents a request to create a new draft document
type CreateDocumentRequest struct {
	Type      string            `json:"type" binding:"required,oneof=INVOICE RECEIPT CREDIT_NOTE"`
	ClientID  uuid.UUID         `json:"client_id" binding:"required"`
	Currency  string            `json:"currency" binding:"omitempty,len=3"`
	LineItems []LineItemRequest `json:"line_items" binding:"dive"`
	Notes     string            `json:"notes" binding:"max=2000"`
	CreatedBy *uuid.UUID        `json:"-"` // Set from JWT context, not from request body
}

// UpdateDraftRequest represents a request to update a draft document.
// Only drafts accept updates; issued documents reject all of these fields.
type UpdateDraftRequest struct {
	LineItems *[]LineItemRequest `json:"line_items" binding:"omitempty,dive"`
	Notes     *string            `json:"notes" binding:"omitempty,max=2000"`
}

// VoidDocumentRequest represents a request to void an issued document
type VoidDocumentRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// RecordPaymentRequest represents a payment recorded against an invoice
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ListDocumentsQuery represents list filtering parameters
type ListDocumentsQuery struct {
	Type     string `form:"type" binding:"omitempty,oneof=INVOICE RECEIPT CREDIT_NOTE"`
	Status   string `form:"status" binding:"omitempty,oneof=DRAFT ISSUED SENT VIEWED PAID VOIDED CREDITED"`
	ClientID  string `form:"client_id" binding:"omitempty,uuid"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=created_at issued_at number total"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
	Page      int    `form:"page,default=1" binding:"min=1"`
	PageSize  int    `form:"page_size,default=20" binding:"min=1,max=100"`
}

// LineItemResponse represents a line item in API responses
type LineItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// DocumentResponse represents a document in API responses
type DocumentResponse struct {
	ID                   uuid.UUID                  `json:"id"`
	TenantID             uuid.UUID                  `json:"tenant_id"`
	Type                 string                     `json:"type"`
	Status               string                     `json:"status"`
	BusinessID           uuid.UUID                  `json:"business_id"`
	ClientID             uuid.UUID                  `json:"client_id"`
	Currency             string                     `json:"currency"`
	LineItems            []LineItemResponse         `json:"line_items"`
	Total                decimal.Decimal            `json:"total"`
	Notes                string                     `json:"notes,omitempty"`
	DocumentNumber       string                     `json:"document_number,omitempty"`
	VerificationID       string                     `json:"verification_id,omitempty"`
	IssuedAt             *time.Time                 `json:"issued_at,omitempty"`
	DocumentHash         string                     `json:"document_hash,omitempty"`
	RetentionLockedUntil *time.Time                 `json:"retention_locked_until,omitempty"`
	Snapshot             *document.DocumentSnapshot `json:"snapshot,omitempty"`
	PaidAmount           decimal.Decimal            `json:"paid_amount"`
	SentAt               *time.Time                 `json:"sent_at,omitempty"`
	ViewedAt             *time.Time                 `json:"viewed_at,omitempty"`
	PaidAt               *time.Time                 `json:"paid_at,omitempty"`
	VoidedAt             *time.Time                 `json:"voided_at,omitempty"`
	VoidReason           string                     `json:"void_reason,omitempty"`
	CreditedDocumentID   *uuid.UUID                 `json:"credited_document_id,omitempty"`
	CreatedAt            time.Time                  `json:"created_at"`
	UpdatedAt            time.Time                  `json:"updated_at"`
	Version              int                        `json:"version"`
}

// DocumentListResponse represents a document in list responses
type DocumentListResponse struct {
	ID             uuid.UUID       `json:"id"`
	Type           string          `json:"type"`
	Status         string          `json:"status"`
	ClientID       uuid.UUID       `json:"client_id"`
	Currency       string          `json:"currency"`
	Total          decimal.Decimal `json:"total"`
	DocumentNumber string          `json:"document_number,omitempty"`
	IssuedAt       *time.Time      `json:"issued_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToDocumentResponse converts a document aggregate to a response DTO
func ToDocumentResponse(d *document.Document) *DocumentResponse {
	lines := make([]LineItemResponse, len(d.LineItems))
	for i, li := range d.LineItems {
		lines[i] = LineItemResponse{
			ID:          li.ID,
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			TaxRate:     li.TaxRate,
			LineTotal:   li.LineTotal,
		}
	}
	return &DocumentResponse{
		ID:                   d.ID,
		TenantID:             d.TenantID,
		Type:                 d.Type.String(),
		Status:               d.Status.String(),
		BusinessID:           d.BusinessID,
		ClientID:             d.ClientID,
		Currency:             string(d.Currency),
		LineItems:            lines,
		Total:                d.Total,
		Notes:                d.Notes,
		DocumentNumber:       d.DocumentNumber,
		VerificationID:       d.VerificationID,
		IssuedAt:             d.IssuedAt,
		DocumentHash:         d.DocumentHash,
		RetentionLockedUntil: d.RetentionLockedUntil,
		Snapshot:             d.Snapshot,
		PaidAmount:           d.PaidAmount,
		SentAt:               d.SentAt,
		ViewedAt:             d.ViewedAt,
		PaidAt:               d.PaidAt,
		VoidedAt:             d.VoidedAt,
		VoidReason:           d.VoidReason,
		CreditedDocumentID:   d.CreditedDocumentID,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
		Version:              d.Version,
	}
}

// ToDocumentListResponse converts a document to a list item DTO
func ToDocumentListResponse(d *document.Document) *DocumentListResponse {
	return &DocumentListResponse{
		ID:             d.ID,
		Type:           d.Type.String(),
		Status:         d.Status.String(),
		ClientID:       d.ClientID,
		Currency:       string(d.Currency),
		Total:          d.Total,
		DocumentNumber: d.DocumentNumber,
		IssuedAt:       d.IssuedAt,
		CreatedAt:      d.CreatedAt,
	}
}

// =============================================================================
// Verification DTOs
// =============================================================================

// VerifiedPartyResponse is the issuer or client as shown on the public
// verification page. Internal identifiers are deliberately absent.
type VerifiedPartyResponse struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id,omitempty"`
	Country string `json:"country,omitempty"`
}

// VerifiedLineResponse is a line item as shown on the public verification page
type VerifiedLineResponse struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// VerificationResponse is the public, unauthenticated projection of an issued
// document. It is built from the embedded snapshot and never exposes tenant
// or document identifiers.
type VerificationResponse struct {
	DocumentNumber string                 `json:"document_number"`
	Type           string                 `json:"type"`
	Status         string                 `json:"status"`
	IssuedAt       time.Time              `json:"issued_at"`
	Currency       string                 `json:"currency"`
	Total          decimal.Decimal        `json:"total"`
	Issuer         VerifiedPartyResponse  `json:"issuer"`
	Client         VerifiedPartyResponse  `json:"client"`
	Lines          []VerifiedLineResponse `json:"lines"`
	IntegrityValid bool                   `json:"integrity_valid"`
	VerifiedAt     time.Time              `json:"verified_at"`
}

// =============================================================================
// Issuance DTOs
// =============================================================================

// IssuanceResult is returned by a successful issuance
type IssuanceResult struct {
	Document        *DocumentResponse `json:"document"`
	VerificationURL string            `json:"verification_url"`
}
