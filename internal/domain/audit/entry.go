package audit

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/invoicemonk/backend/internal/domain/shared"
)

// EventType identifies what happened. The set is closed on purpose: every
// state-changing operation in the issuance core maps to exactly one type.
type EventType string

const (
	EventDocumentIssued   EventType = "document.issued"
	EventDocumentVoided   EventType = "document.voided"
	EventDocumentCredited EventType = "document.credited"
	EventVerificationView EventType = "verification.viewed"
	EventRetentionSweep   EventType = "retention.sweep"
)

// IsValid checks if the event type is known
func (t EventType) IsValid() bool {
	switch t {
	case EventDocumentIssued, EventDocumentVoided, EventDocumentCredited,
		EventVerificationView, EventRetentionSweep:
		return true
	}
	return false
}

// Metadata is a free-form JSON payload attached to an entry
type Metadata map[string]interface{}

// Value implements driver.Valuer for JSONB persistence
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(Metadata{})
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for Metadata")
	}
	return json.Unmarshal(data, m)
}

// Entry is a single append-only audit record. Entries are never updated or
// deleted by application code; their retention is managed separately from
// the documents they describe.
type Entry struct {
	ID            uuid.UUID  `json:"id"`
	TenantID      *uuid.UUID `json:"tenant_id,omitempty"` // nil for unauthenticated events
	EventType     EventType  `json:"event_type"`
	EntityType    string     `json:"entity_type"`
	EntityID      *uuid.UUID `json:"entity_id,omitempty"`
	Actor         *uuid.UUID `json:"actor,omitempty"` // nil for public callers and system sweeps
	PreviousState string     `json:"previous_state,omitempty"`
	NewState      string     `json:"new_state,omitempty"`
	Metadata      Metadata   `json:"metadata,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

// NewEntry creates an audit entry with a generated ID and timestamp
func NewEntry(eventType EventType, entityType string) (*Entry, error) {
	if !eventType.IsValid() {
		return nil, shared.NewDomainError("INVALID_EVENT_TYPE", "Unknown audit event type")
	}
	if entityType == "" {
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", "Audit entity type cannot be empty")
	}
	return &Entry{
		ID:         uuid.New(),
		EventType:  eventType,
		EntityType: entityType,
		Metadata:   Metadata{},
		OccurredAt: time.Now(),
	}, nil
}

// WithTenant attaches the tenant the event belongs to
func (e *Entry) WithTenant(tenantID uuid.UUID) *Entry {
	e.TenantID = &tenantID
	return e
}

// WithEntity attaches the entity the event concerns
func (e *Entry) WithEntity(id uuid.UUID) *Entry {
	e.EntityID = &id
	return e
}

// WithActor attaches the acting user
func (e *Entry) WithActor(actor uuid.UUID) *Entry {
	e.Actor = &actor
	return e
}

// WithTransition records the state change
func (e *Entry) WithTransition(previous, next string) *Entry {
	e.PreviousState = previous
	e.NewState = next
	return e
}

// WithMetadata merges additional metadata into the entry
func (e *Entry) WithMetadata(kv Metadata) *Entry {
	if e.Metadata == nil {
		e.Metadata = Metadata{}
	}
	for k, v := range kv {
		e.Metadata[k] = v
	}
	return e
}
