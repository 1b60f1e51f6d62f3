package document

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// CanonicalString builds the deterministic encoding the integrity digest is
// computed over. The input covers the document number, type, monetary amounts,
// currency, issuance timestamp, entity references and the snapshotted lines —
// all of them immutable after issuance. Rendering templates, operational
// status and payment totals are deliberately excluded: re-rendering a
// document or receiving a payment never invalidates its hash.
func CanonicalString(d *Document) string {
	var issuedAt string
	if d.IssuedAt != nil {
		issuedAt = d.IssuedAt.UTC().Format(time.RFC3339)
	}

	var b strings.Builder
	b.WriteString(d.DocumentNumber)
	b.WriteByte('|')
	b.WriteString(string(d.Type))
	b.WriteByte('|')
	b.WriteString(d.Total.StringFixed(2))
	b.WriteByte('|')
	b.WriteString(string(d.Currency))
	b.WriteByte('|')
	b.WriteString(issuedAt)
	b.WriteByte('|')
	b.WriteString(d.ID.String())
	b.WriteByte('|')
	b.WriteString(d.BusinessID.String())
	b.WriteByte('|')
	b.WriteString(d.ClientID.String())

	if d.Snapshot != nil {
		for _, line := range d.Snapshot.Lines {
			b.WriteByte('|')
			b.WriteString(line.Description)
			b.WriteByte('|')
			b.WriteString(line.Quantity.String())
			b.WriteByte('|')
			b.WriteString(line.UnitPrice.StringFixed(2))
			b.WriteByte('|')
			b.WriteString(line.TaxRate.String())
			b.WriteByte('|')
			b.WriteString(line.LineTotal.StringFixed(2))
		}
	}

	return b.String()
}

// ComputeHash returns the SHA-256 hex digest over the canonical fields.
// The digest is recomputable from persisted fields alone, so verification
// can re-derive it at any later point and compare bit-for-bit.
func ComputeHash(d *Document) string {
	sum := sha256.Sum256([]byte(CanonicalString(d)))
	return hex.EncodeToString(sum[:])
}

// VerifyIntegrity recomputes the digest and compares it to the stored hash.
// A mismatch is a reportable finding, not an error.
func (d *Document) VerifyIntegrity() bool {
	if d.DocumentHash == "" {
		return false
	}
	return ComputeHash(d) == d.DocumentHash
}
