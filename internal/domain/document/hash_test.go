package document

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHashIsDeterministic(t *testing.T) {
	doc := newDraftInvoice(t)
	issueDocument(t, doc)

	first := ComputeHash(doc)
	second := ComputeHash(doc)
	assert.Equal(t, first, second)
	assert.Equal(t, doc.DocumentHash, first)
	assert.Len(t, first, 64)
}

func TestTamperingChangesHash(t *testing.T) {
	doc := newDraftInvoice(t)
	issueDocument(t, doc)
	require.True(t, doc.VerifyIntegrity())

	t.Run("amount tampered", func(t *testing.T) {
		tampered := *doc
		tampered.Total = tampered.Total.Add(decimal.NewFromInt(1))
		assert.NotEqual(t, doc.DocumentHash, ComputeHash(&tampered))
		assert.False(t, tampered.VerifyIntegrity())
	})

	t.Run("number tampered", func(t *testing.T) {
		tampered := *doc
		tampered.DocumentNumber = "INV-2026-999999"
		assert.False(t, tampered.VerifyIntegrity())
	})

	t.Run("snapshot line tampered", func(t *testing.T) {
		tampered := *doc
		snapshot := *doc.Snapshot
		snapshot.Lines = append([]LineSnapshot(nil), doc.Snapshot.Lines...)
		snapshot.Lines[0].UnitPrice = snapshot.Lines[0].UnitPrice.Add(decimal.NewFromInt(5))
		tampered.Snapshot = &snapshot
		assert.False(t, tampered.VerifyIntegrity())
	})

	t.Run("issued timestamp tampered", func(t *testing.T) {
		tampered := *doc
		shifted := doc.IssuedAt.Add(time.Hour)
		tampered.IssuedAt = &shifted
		assert.False(t, tampered.VerifyIntegrity())
	})
}

func TestOperationalFieldsExcludedFromHash(t *testing.T) {
	doc := newDraftInvoice(t)
	issueDocument(t, doc)
	hash := doc.DocumentHash

	modified := *doc
	modified.Status = StatusSent
	modified.PaidAmount = decimal.NewFromInt(50)
	modified.Notes = "rendered with a different template"

	assert.Equal(t, hash, ComputeHash(&modified))
}

func TestVerifyIntegrityWithoutHash(t *testing.T) {
	doc := newDraftInvoice(t)
	assert.False(t, doc.VerifyIntegrity())
}

func TestVerificationIDShape(t *testing.T) {
	id, err := NewVerificationID()
	require.NoError(t, err)
	assert.Len(t, id, VerificationIDLength)
	assert.True(t, IsValidVerificationID(id))

	// ids are unique across generations
	other, err := NewVerificationID()
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestIsValidVerificationID(t *testing.T) {
	valid, err := NewVerificationID()
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"generated token", valid, true},
		{"empty", "", false},
		{"too short", "abc123", false},
		{"too long", valid + "x", false},
		{"invalid characters", "!!invalid-token-with-bad-chars!!", false},
		{"sql injection attempt", "' OR '1'='1;DROP TABLE documents;", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidVerificationID(tt.token))
		})
	}
}
