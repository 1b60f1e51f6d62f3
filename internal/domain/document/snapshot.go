package document

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotVersion is the current schema version of DocumentSnapshot.
// Already-issued documents keep the version they were snapshotted with,
// so readers must tolerate older versions.
const SnapshotVersion = 1

// IssuerSnapshot is the point-in-time copy of the issuing business profile
type IssuerSnapshot struct {
	LegalName    string `json:"legal_name"`
	TradeName    string `json:"trade_name,omitempty"`
	TaxID        string `json:"tax_id,omitempty"`
	Email        string `json:"email,omitempty"`
	AddressLine1 string `json:"address_line1,omitempty"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Country      string `json:"country,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
}

// ClientSnapshot is the point-in-time copy of the counterparty
type ClientSnapshot struct {
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	TaxID        string `json:"tax_id,omitempty"`
	AddressLine1 string `json:"address_line1,omitempty"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Country      string `json:"country,omitempty"`
}

// LineSnapshot is the point-in-time copy of a billable line. Tax rates are
// copied verbatim from the line item, never recomputed from a current schema.
type LineSnapshot struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// PaymentSnapshot is the point-in-time copy of payment instructions
type PaymentSnapshot struct {
	Terms        string     `json:"terms,omitempty"`
	Instructions string     `json:"instructions,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
}

// DocumentSnapshot is the immutable, embedded copy of every externally-sourced
// field a document needs to be rendered and legally justified. It is written
// exactly once, at issuance, and never updated afterwards — the source
// entities may change freely without affecting issued documents.
type DocumentSnapshot struct {
	Version int             `json:"snapshot_version"`
	TakenAt time.Time       `json:"taken_at"`
	Issuer  IssuerSnapshot  `json:"issuer"`
	Client  ClientSnapshot  `json:"client"`
	Lines   []LineSnapshot  `json:"lines"`
	Payment PaymentSnapshot `json:"payment"`
}

// Value implements driver.Valuer so the snapshot persists as a JSONB column
func (s DocumentSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for reading the snapshot back from JSONB
func (s *DocumentSnapshot) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for DocumentSnapshot")
	}
	return json.Unmarshal(data, s)
}

// SnapshotLines projects the document's line items into line snapshots
func SnapshotLines(items []LineItem) []LineSnapshot {
	lines := make([]LineSnapshot, len(items))
	for i, li := range items {
		lines[i] = LineSnapshot{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			TaxRate:     li.TaxRate,
			LineTotal:   li.LineTotal,
		}
	}
	return lines
}
