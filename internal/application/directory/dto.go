package directory

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicemonk/backend/internal/domain/directory"
)

// =============================================================================
// Business profile DTOs
// =============================================================================

// CreateBusinessProfileRequest represents a request to create the tenant's profile
type CreateBusinessProfileRequest struct {
	LegalName string `json:"legal_name" binding:"required,min=1,max=200"`
	TradeName string `json:"trade_name" binding:"max=200"`
	TaxID     string `json:"tax_id" binding:"required,max=50"`
	Email     string `json:"email" binding:"required,email,max=200"`
	Country   string `json:"country" binding:"required,len=2"`
}

// UpdateBusinessProfileRequest represents a request to update the tenant's profile
type UpdateBusinessProfileRequest struct {
	LegalName           *string `json:"legal_name" binding:"omitempty,min=1,max=200"`
	TradeName           *string `json:"trade_name" binding:"omitempty,max=200"`
	TaxID               *string `json:"tax_id" binding:"omitempty,max=50"`
	Email               *string `json:"email" binding:"omitempty,email,max=200"`
	Phone               *string `json:"phone" binding:"omitempty,max=50"`
	AddressLine1        *string `json:"address_line1" binding:"omitempty,max=200"`
	AddressLine2        *string `json:"address_line2" binding:"omitempty,max=200"`
	City                *string `json:"city" binding:"omitempty,max=100"`
	Region              *string `json:"region" binding:"omitempty,max=100"`
	PostalCode          *string `json:"postal_code" binding:"omitempty,max=20"`
	Country             *string `json:"country" binding:"omitempty,len=2"`
	Jurisdiction        *string `json:"jurisdiction" binding:"omitempty,len=2"`
	PaymentTermsDays    *int    `json:"payment_terms_days" binding:"omitempty,min=0,max=365"`
	PaymentInstructions *string `json:"payment_instructions" binding:"omitempty,max=1000"`
}

// BusinessProfileResponse represents the profile in API responses
type BusinessProfileResponse struct {
	ID                  uuid.UUID `json:"id"`
	TenantID            uuid.UUID `json:"tenant_id"`
	LegalName           string    `json:"legal_name"`
	TradeName           string    `json:"trade_name,omitempty"`
	TaxID               string    `json:"tax_id"`
	Email               string    `json:"email"`
	EmailVerified       bool      `json:"email_verified"`
	Phone               string    `json:"phone,omitempty"`
	AddressLine1        string    `json:"address_line1,omitempty"`
	AddressLine2        string    `json:"address_line2,omitempty"`
	City                string    `json:"city,omitempty"`
	Region              string    `json:"region,omitempty"`
	PostalCode          string    `json:"postal_code,omitempty"`
	Country             string    `json:"country"`
	Jurisdiction        string    `json:"jurisdiction"`
	PaymentTermsDays    int       `json:"payment_terms_days"`
	PaymentInstructions string    `json:"payment_instructions,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	Version             int       `json:"version"`
}

// ToBusinessProfileResponse converts the aggregate to a response DTO
func ToBusinessProfileResponse(b *directory.BusinessProfile) *BusinessProfileResponse {
	return &BusinessProfileResponse{
		ID:                  b.ID,
		TenantID:            b.TenantID,
		LegalName:           b.LegalName,
		TradeName:           b.TradeName,
		TaxID:               b.TaxID,
		Email:               b.Email,
		EmailVerified:       b.EmailVerified,
		Phone:               b.Phone,
		AddressLine1:        b.AddressLine1,
		AddressLine2:        b.AddressLine2,
		City:                b.City,
		Region:              b.Region,
		PostalCode:          b.PostalCode,
		Country:             b.Country,
		Jurisdiction:        b.Jurisdiction,
		PaymentTermsDays:    b.PaymentTermsDays,
		PaymentInstructions: b.PaymentInstructions,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
		Version:             b.Version,
	}
}

// =============================================================================
// Client DTOs
// =============================================================================

// CreateClientRequest represents a request to add a client to the directory
type CreateClientRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=200"`
	Email        string `json:"email" binding:"omitempty,email,max=200"`
	TaxID        string `json:"tax_id" binding:"max=50"`
	Phone        string `json:"phone" binding:"max=50"`
	AddressLine1 string `json:"address_line1" binding:"max=200"`
	AddressLine2 string `json:"address_line2" binding:"max=200"`
	City         string `json:"city" binding:"max=100"`
	Region       string `json:"region" binding:"max=100"`
	PostalCode   string `json:"postal_code" binding:"max=20"`
	Country      string `json:"country" binding:"omitempty,len=2"`
	Notes        string `json:"notes" binding:"max=2000"`
}

// UpdateClientRequest represents a request to update a client
type UpdateClientRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email        *string `json:"email" binding:"omitempty,email,max=200"`
	TaxID        *string `json:"tax_id" binding:"omitempty,max=50"`
	Phone        *string `json:"phone" binding:"omitempty,max=50"`
	AddressLine1 *string `json:"address_line1" binding:"omitempty,max=200"`
	AddressLine2 *string `json:"address_line2" binding:"omitempty,max=200"`
	City         *string `json:"city" binding:"omitempty,max=100"`
	Region       *string `json:"region" binding:"omitempty,max=100"`
	PostalCode   *string `json:"postal_code" binding:"omitempty,max=20"`
	Country      *string `json:"country" binding:"omitempty,len=2"`
	Notes        *string `json:"notes" binding:"omitempty,max=2000"`
}

// ListClientsQuery represents list filtering parameters
type ListClientsQuery struct {
	Status    string `form:"status" binding:"omitempty,oneof=active archived"`
	Search    string `form:"search" binding:"omitempty,max=200"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=name email created_at country"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
	Page      int    `form:"page,default=1" binding:"min=1"`
	PageSize  int    `form:"page_size,default=20" binding:"min=1,max=100"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID           uuid.UUID `json:"id"`
	TenantID     uuid.UUID `json:"tenant_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	TaxID        string    `json:"tax_id,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	AddressLine1 string    `json:"address_line1,omitempty"`
	AddressLine2 string    `json:"address_line2,omitempty"`
	City         string    `json:"city,omitempty"`
	Region       string    `json:"region,omitempty"`
	PostalCode   string    `json:"postal_code,omitempty"`
	Country      string    `json:"country,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

// ToClientResponse converts the aggregate to a response DTO
func ToClientResponse(c *directory.Client) *ClientResponse {
	return &ClientResponse{
		ID:           c.ID,
		TenantID:     c.TenantID,
		Name:         c.Name,
		Email:        c.Email,
		TaxID:        c.TaxID,
		Phone:        c.Phone,
		AddressLine1: c.AddressLine1,
		AddressLine2: c.AddressLine2,
		City:         c.City,
		Region:       c.Region,
		PostalCode:   c.PostalCode,
		Country:      c.Country,
		Notes:        c.Notes,
		Status:       string(c.Status),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		Version:      c.Version,
	}
}
