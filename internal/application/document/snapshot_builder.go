package document

import (
	"fmt"
	"time"

	"github.com/invoicemonk/backend/internal/domain/directory"
	"github.com/invoicemonk/backend/internal/domain/document"
	"github.com/invoicemonk/backend/internal/domain/shared"
)

// SnapshotBuilder assembles the immutable snapshot embedded into a document
// at issuance. It copies every externally-sourced field the document needs to
// be rendered later — issuer identity, client identity, line items and payment
// terms — so that subsequent edits to the source entities never bleed into
// issued records.
type SnapshotBuilder struct{}

// NewSnapshotBuilder creates a SnapshotBuilder
func NewSnapshotBuilder() *SnapshotBuilder {
	return &SnapshotBuilder{}
}

// Build produces the snapshot for a document about to be issued. The line
// items are projected from the draft as-is; tax rates are copied, never
// recomputed. Invoices get a due date derived from the issuer's payment terms.
func (b *SnapshotBuilder) Build(
	profile *directory.BusinessProfile,
	client *directory.Client,
	doc *document.Document,
	issuedAt time.Time,
) (document.DocumentSnapshot, error) {
	if profile == nil {
		return document.DocumentSnapshot{}, shared.NewDomainError("MISSING_BUSINESS_PROFILE", "Business profile is required for issuance")
	}
	if client == nil {
		return document.DocumentSnapshot{}, shared.NewDomainError("MISSING_CLIENT", "Client is required for issuance")
	}
	if len(doc.LineItems) == 0 {
		return document.DocumentSnapshot{}, shared.NewDomainError("EMPTY_DOCUMENT", "Cannot snapshot a document without line items")
	}

	payment := document.PaymentSnapshot{
		Instructions: profile.PaymentInstructions,
	}
	if doc.Type == document.TypeInvoice {
		due := issuedAt.AddDate(0, 0, profile.PaymentTermsDays)
		payment.DueDate = &due
		payment.Terms = paymentTermsLabel(profile.PaymentTermsDays)
	}

	return document.DocumentSnapshot{
		Version: document.SnapshotVersion,
		TakenAt: issuedAt,
		Issuer: document.IssuerSnapshot{
			LegalName:    profile.LegalName,
			TradeName:    profile.TradeName,
			TaxID:        profile.TaxID,
			Email:        profile.Email,
			AddressLine1: profile.AddressLine1,
			AddressLine2: profile.AddressLine2,
			City:         profile.City,
			PostalCode:   profile.PostalCode,
			Country:      profile.Country,
			Jurisdiction: profile.Jurisdiction,
		},
		Client: document.ClientSnapshot{
			Name:         client.Name,
			Email:        client.Email,
			TaxID:        client.TaxID,
			AddressLine1: client.AddressLine1,
			AddressLine2: client.AddressLine2,
			City:         client.City,
			PostalCode:   client.PostalCode,
			Country:      client.Country,
		},
		Lines:   document.SnapshotLines(doc.LineItems),
		Payment: payment,
	}, nil
}

func paymentTermsLabel(days int) string {
	if days == 0 {
		return "Due on receipt"
	}
	return fmt.Sprintf("Net %d", days)
}
