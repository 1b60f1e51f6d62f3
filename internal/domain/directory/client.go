package directory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicemonk/backend/internal/domain/shared"
)

// ClientStatus represents the status of a client record
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusArchived ClientStatus = "archived" // hidden from pickers, kept for history
)

// Client is a billable counterparty in a tenant's directory. Like the
// business profile, client fields are frozen into document snapshots at
// issuance; archiving or editing a client never touches issued documents.
type Client struct {
	shared.TenantAggregateRoot
	Name         string       `json:"name"`
	Email        string       `json:"email,omitempty"`
	TaxID        string       `json:"tax_id,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	AddressLine1 string       `json:"address_line1,omitempty"`
	AddressLine2 string       `json:"address_line2,omitempty"`
	City         string       `json:"city,omitempty"`
	Region       string       `json:"region,omitempty"`
	PostalCode   string       `json:"postal_code,omitempty"`
	Country      string       `json:"country,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	Status       ClientStatus `json:"status"`
}

// NewClient creates a client in the tenant's directory
func NewClient(tenantID uuid.UUID, name string) (*Client, error) {
	if err := validateName(name, "INVALID_NAME", "Client name"); err != nil {
		return nil, err
	}

	client := &Client{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Status:              ClientStatusActive,
	}

	client.AddDomainEvent(NewClientCreatedEvent(client))

	return client, nil
}

// Update updates the client's identifying information
func (c *Client) Update(name, email, taxID string) error {
	if err := validateName(name, "INVALID_NAME", "Client name"); err != nil {
		return err
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}
	if taxID != "" && len(taxID) > 50 {
		return shared.NewDomainError("INVALID_TAX_ID", "Tax ID cannot exceed 50 characters")
	}

	c.Name = name
	c.Email = strings.ToLower(email)
	c.TaxID = taxID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewClientUpdatedEvent(c))

	return nil
}

// SetAddress updates the client's postal address
func (c *Client) SetAddress(line1, line2, city, region, postalCode, country string) error {
	if len(line1) > 200 || len(line2) > 200 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address lines cannot exceed 200 characters")
	}
	if len(city) > 100 {
		return shared.NewDomainError("INVALID_CITY", "City cannot exceed 100 characters")
	}
	if country != "" {
		if err := validateCountry(country); err != nil {
			return err
		}
		country = strings.ToUpper(country)
	}

	c.AddressLine1 = line1
	c.AddressLine2 = line2
	c.City = city
	c.Region = region
	c.PostalCode = postalCode
	c.Country = country
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetPhone updates the client's phone number
func (c *Client) SetPhone(phone string) error {
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}

	c.Phone = phone
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetNotes sets free-form notes
func (c *Client) SetNotes(notes string) {
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Archive hides the client from new documents without deleting history
func (c *Client) Archive() error {
	if c.Status == ClientStatusArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Client is already archived")
	}

	c.Status = ClientStatusArchived
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewClientArchivedEvent(c))

	return nil
}

// Restore reactivates an archived client
func (c *Client) Restore() error {
	if c.Status == ClientStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Client is already active")
	}

	c.Status = ClientStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// IsActive returns true if the client can be attached to new documents
func (c *Client) IsActive() bool {
	return c.Status == ClientStatusActive
}

// FullAddress returns the formatted postal address
func (c *Client) FullAddress() string {
	parts := []string{}
	for _, p := range []string{c.AddressLine1, c.AddressLine2, c.City, c.Region, c.PostalCode, c.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
