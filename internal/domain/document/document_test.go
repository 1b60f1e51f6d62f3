package document

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invoicemonk/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraftInvoice(t *testing.T) *Document {
	t.Helper()
	doc, err := NewDocument(uuid.New(), TypeInvoice, uuid.New(), uuid.New(), valueobject.USD, uuid.New())
	require.NoError(t, err)

	item, err := NewLineItem("Consulting services", decimal.NewFromInt(2), decimal.NewFromInt(50), decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, doc.AddLineItem(item))

	return doc
}

func issueDocument(t *testing.T, doc *Document) {
	t.Helper()
	verificationID, err := NewVerificationID()
	require.NoError(t, err)

	snapshot := DocumentSnapshot{
		Version: SnapshotVersion,
		TakenAt: time.Now(),
		Issuer:  IssuerSnapshot{LegalName: "Acme Corp", Jurisdiction: "US"},
		Client:  ClientSnapshot{Name: "Globex"},
		Lines:   SnapshotLines(doc.LineItems),
	}

	err = doc.Issue(
		FormatNumber(doc.Type, 2026, 1),
		verificationID,
		snapshot,
		time.Now().AddDate(10, 0, 0),
		time.Now(),
		uuid.New(),
	)
	require.NoError(t, err)
}

func TestNewDocument(t *testing.T) {
	tenantID := uuid.New()
	doc, err := NewDocument(tenantID, TypeInvoice, uuid.New(), uuid.New(), valueobject.USD, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, doc.Status)
	assert.Equal(t, tenantID, doc.TenantID)
	assert.Empty(t, doc.DocumentNumber)
	assert.Empty(t, doc.VerificationID)
	assert.Nil(t, doc.IssuedAt)
	assert.Nil(t, doc.Snapshot)
	assert.Nil(t, doc.RetentionLockedUntil)
	assert.Len(t, doc.GetDomainEvents(), 1)
}

func TestNewDocumentValidation(t *testing.T) {
	tests := []struct {
		name     string
		docType  Type
		business uuid.UUID
		client   uuid.UUID
		currency valueobject.Currency
	}{
		{"invalid type", Type("BOGUS"), uuid.New(), uuid.New(), valueobject.USD},
		{"missing business", TypeInvoice, uuid.Nil, uuid.New(), valueobject.USD},
		{"missing client", TypeInvoice, uuid.New(), uuid.Nil, valueobject.USD},
		{"invalid currency", TypeInvoice, uuid.New(), uuid.New(), valueobject.Currency("XXX")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDocument(uuid.New(), tt.docType, tt.business, tt.client, tt.currency, uuid.New())
			assert.Error(t, err)
		})
	}
}

func TestLineItemTotals(t *testing.T) {
	item, err := NewLineItem("Widgets", decimal.NewFromInt(3), decimal.NewFromFloat(9.99), decimal.NewFromInt(20))
	require.NoError(t, err)
	// 3 * 9.99 = 29.97, +20% tax = 35.964 rounded to 35.96
	assert.Equal(t, "35.96", item.LineTotal.StringFixed(2))

	doc := newDraftInvoice(t)
	require.NoError(t, doc.AddLineItem(item))
	assert.Equal(t, "135.96", doc.Total.StringFixed(2))
}

func TestIssueTransitionsDraftToIssued(t *testing.T) {
	doc := newDraftInvoice(t)
	issueDocument(t, doc)

	assert.Equal(t, StatusIssued, doc.Status)
	assert.NotEmpty(t, doc.DocumentNumber)
	assert.Len(t, doc.DocumentHash, 64)
	assert.NotNil(t, doc.IssuedAt)
	assert.NotNil(t, doc.Snapshot)
	assert.NotNil(t, doc.RetentionLockedUntil)
	assert.NotEqual(t, doc.ID.String(), doc.VerificationID)
}

func TestIssueTwiceIsRejected(t *testing.T) {
	doc := newDraftInvoice(t)
	issueDocument(t, doc)

	number := doc.DocumentNumber
	hash := doc.DocumentHash
	verificationID := doc.VerificationID

	verification2, err := NewVerificationID()
	require.NoError(t, err)
	err = doc.Issue("INV-2026-000002", verification2, *doc.Snapshot, time.Now().AddDate(10, 0, 0), time.Now(), uuid.New())
	assert.Error(t, err)

	// the rejected call must not have touched any integrity field
	assert.Equal(t, number, doc.DocumentNumber)
	assert.Equal(t, hash, doc.DocumentHash)
	assert.Equal(t, verificationID, doc.VerificationID)
}

func TestIssueRequiresLineItems(t *testing.T) {
	doc, err := NewDocument(uuid.New(), TypeInvoice, uuid.New(), uuid.New(), valueobject.USD, uuid.New())
	require.NoError(t, err)

	verificationID, err := NewVerificationID()
	require.NoError(t, err)
	err = doc.Issue("INV-2026-000001", verificationID, DocumentSnapshot{Version: SnapshotVersion}, time.Now().AddDate(10, 0, 0), time.Now(), uuid.New())
	assert.Error(t, err)
	assert.Equal(t, StatusDraft, doc.Status)
}

func TestDraftMutatorsRejectedAfterIssue(t *testing.T) {
	doc := newDraftInvoice(t)
	issueDocument(t, doc)

	item, err := NewLineItem("Late addition", decimal.NewFromInt(1), decimal.NewFromInt(10), decimal.Zero)
	require.NoError(t, err)

	assert.Error(t, doc.AddLineItem(item))
	assert.Error(t, doc.ReplaceLineItems([]LineItem{item}))
	assert.Error(t, doc.SetNotes("changed"))
}

func TestOperationalTransitionsDoNotAffectHash(t *testing.T) {
	doc := newDraftInvoice(t)
	issueDocument(t, doc)
	hash := doc.DocumentHash

	require.NoError(t, doc.MarkSent(time.Now()))
	require.NoError(t, doc.MarkViewed(time.Now()))
	require.NoError(t, doc.RecordPayment(valueobject.NewMoneyUSD(doc.Total), time.Now()))

	assert.Equal(t, StatusPaid, doc.Status)
	assert.Equal(t, hash, doc.DocumentHash)
	assert.True(t, doc.VerifyIntegrity())
}

func TestPartialPaymentKeepsStatus(t *testing.T) {
	doc := newDraftInvoice(t)
	issueDocument(t, doc)

	require.NoError(t, doc.RecordPayment(valueobject.NewMoneyUSD(decimal.NewFromInt(10)), time.Now()))
	assert.Equal(t, StatusIssued, doc.Status)
	assert.Nil(t, doc.PaidAt)
}

func TestVoid(t *testing.T) {
	t.Run("voids an issued document", func(t *testing.T) {
		doc := newDraftInvoice(t)
		issueDocument(t, doc)

		err := doc.Void(uuid.New(), "duplicate entry", time.Now())
		require.NoError(t, err)
		assert.Equal(t, StatusVoided, doc.Status)
		// voided documents remain verifiable
		assert.True(t, doc.VerifyIntegrity())
	})

	t.Run("rejects voiding a draft", func(t *testing.T) {
		doc := newDraftInvoice(t)
		assert.Error(t, doc.Void(uuid.New(), "nope", time.Now()))
	})

	t.Run("rejects voiding a paid invoice", func(t *testing.T) {
		doc := newDraftInvoice(t)
		issueDocument(t, doc)
		require.NoError(t, doc.RecordPayment(valueobject.NewMoneyUSD(doc.Total), time.Now()))

		assert.Error(t, doc.Void(uuid.New(), "too late", time.Now()))
	})

	t.Run("requires a reason", func(t *testing.T) {
		doc := newDraftInvoice(t)
		issueDocument(t, doc)
		assert.Error(t, doc.Void(uuid.New(), "", time.Now()))
	})
}

func TestMarkCredited(t *testing.T) {
	doc := newDraftInvoice(t)
	issueDocument(t, doc)

	err := doc.MarkCredited(uuid.New())
	require.NoError(t, err)
	assert.Equal(t, StatusCredited, doc.Status)

	// terminal: no further transitions
	assert.Error(t, doc.MarkSent(time.Now()))
	assert.Error(t, doc.Void(uuid.New(), "reason", time.Now()))
}

func TestReceiptReducedLifecycle(t *testing.T) {
	doc, err := NewDocument(uuid.New(), TypeReceipt, uuid.New(), uuid.New(), valueobject.USD, uuid.New())
	require.NoError(t, err)
	item, err := NewLineItem("Payment received", decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, doc.AddLineItem(item))
	issueDocument(t, doc)

	assert.Error(t, doc.MarkViewed(time.Now()))
	assert.Error(t, doc.RecordPayment(valueobject.NewMoneyUSD(decimal.NewFromInt(1)), time.Now()))
	assert.Error(t, doc.MarkCredited(uuid.New()))
}

func TestRetentionExpired(t *testing.T) {
	doc := newDraftInvoice(t)
	assert.False(t, doc.RetentionExpired(time.Now()), "draft has no retention lock")

	issueDocument(t, doc)
	assert.False(t, doc.RetentionExpired(time.Now()), "fresh lock is in the future")

	past := time.Now().AddDate(0, 0, -1)
	doc.RetentionLockedUntil = &past
	assert.True(t, doc.RetentionExpired(time.Now()))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "INV-2026-000042", FormatNumber(TypeInvoice, 2026, 42))
	assert.Equal(t, "RCT-2026-000001", FormatNumber(TypeReceipt, 2026, 1))
	assert.Equal(t, "CRN-2025-001000", FormatNumber(TypeCreditNote, 2025, 1000))
}
