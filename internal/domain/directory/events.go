package directory

import (
	"github.com/google/uuid"
	"github.com/invoicemonk/backend/internal/domain/shared"
)

// BusinessProfileCreatedEvent is raised when a tenant's business profile is created
type BusinessProfileCreatedEvent struct {
	shared.BaseDomainEvent
	ProfileID uuid.UUID `json:"profile_id"`
	LegalName string    `json:"legal_name"`
}

// EventType returns the event type name
func (e *BusinessProfileCreatedEvent) EventType() string {
	return "BusinessProfileCreated"
}

// NewBusinessProfileCreatedEvent creates a new BusinessProfileCreatedEvent
func NewBusinessProfileCreatedEvent(b *BusinessProfile) *BusinessProfileCreatedEvent {
	return &BusinessProfileCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BusinessProfileCreated", "BusinessProfile", b.ID, b.TenantID),
		ProfileID:       b.ID,
		LegalName:       b.LegalName,
	}
}

// BusinessProfileUpdatedEvent is raised when profile information changes
type BusinessProfileUpdatedEvent struct {
	shared.BaseDomainEvent
	ProfileID uuid.UUID `json:"profile_id"`
	LegalName string    `json:"legal_name"`
}

// EventType returns the event type name
func (e *BusinessProfileUpdatedEvent) EventType() string {
	return "BusinessProfileUpdated"
}

// NewBusinessProfileUpdatedEvent creates a new BusinessProfileUpdatedEvent
func NewBusinessProfileUpdatedEvent(b *BusinessProfile) *BusinessProfileUpdatedEvent {
	return &BusinessProfileUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BusinessProfileUpdated", "BusinessProfile", b.ID, b.TenantID),
		ProfileID:       b.ID,
		LegalName:       b.LegalName,
	}
}

// ClientCreatedEvent is raised when a client is added to the directory
type ClientCreatedEvent struct {
	shared.BaseDomainEvent
	ClientID uuid.UUID `json:"client_id"`
	Name     string    `json:"name"`
}

// EventType returns the event type name
func (e *ClientCreatedEvent) EventType() string {
	return "ClientCreated"
}

// NewClientCreatedEvent creates a new ClientCreatedEvent
func NewClientCreatedEvent(c *Client) *ClientCreatedEvent {
	return &ClientCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ClientCreated", "Client", c.ID, c.TenantID),
		ClientID:        c.ID,
		Name:            c.Name,
	}
}

// ClientUpdatedEvent is raised when client information changes
type ClientUpdatedEvent struct {
	shared.BaseDomainEvent
	ClientID uuid.UUID `json:"client_id"`
	Name     string    `json:"name"`
}

// EventType returns the event type name
func (e *ClientUpdatedEvent) EventType() string {
	return "ClientUpdated"
}

// NewClientUpdatedEvent creates a new ClientUpdatedEvent
func NewClientUpdatedEvent(c *Client) *ClientUpdatedEvent {
	return &ClientUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ClientUpdated", "Client", c.ID, c.TenantID),
		ClientID:        c.ID,
		Name:            c.Name,
	}
}

// ClientArchivedEvent is raised when a client is archived
type ClientArchivedEvent struct {
	shared.BaseDomainEvent
	ClientID uuid.UUID `json:"client_id"`
}

// EventType returns the event type name
func (e *ClientArchivedEvent) EventType() string {
	return "ClientArchived"
}

// NewClientArchivedEvent creates a new ClientArchivedEvent
func NewClientArchivedEvent(c *Client) *ClientArchivedEvent {
	return &ClientArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ClientArchived", "Client", c.ID, c.TenantID),
		ClientID:        c.ID,
	}
}
