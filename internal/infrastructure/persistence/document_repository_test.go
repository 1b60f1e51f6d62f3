package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/invoicemonk/backend/internal/domain/document"
	"github.com/invoicemonk/backend/internal/domain/shared"
)

// newMockDocumentRepository creates a GormDocumentRepository with a mocked SQL connection
func newMockDocumentRepository(t *testing.T) (*GormDocumentRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormDocumentRepository(gormDB), mock, mockDB
}

func documentRow(id, tenantID uuid.UUID, verificationID string) *sqlmock.Rows {
	issuedAt := time.Now()
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "version", "type", "status", "business_id", "client_id",
		"currency", "total", "document_number", "verification_id", "issued_at", "document_hash",
	}).AddRow(
		id, tenantID, 2, "INVOICE", "ISSUED", uuid.New(), uuid.New(),
		"USD", decimal.NewFromInt(100), "INV-2026-000001", verificationID, issuedAt, "abc123",
	)
}

func lineItemRows(documentID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "document_id", "position", "description", "quantity", "unit_price", "tax_rate", "line_total",
	}).AddRow(
		uuid.New(), documentID, 0, "Consulting", decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.Zero, decimal.NewFromInt(100),
	)
}

func TestGormDocumentRepository_FindByVerificationID(t *testing.T) {
	t.Run("finds document by token", func(t *testing.T) {
		repo, mock, mockDB := newMockDocumentRepository(t)
		defer mockDB.Close()

		documentID := uuid.New()
		tenantID := uuid.New()
		token := "q7hNP2VxwQbDcR5tYmKjL3fZsA8e"

		mock.ExpectQuery(`SELECT \* FROM "documents" WHERE verification_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(token, 1).
			WillReturnRows(documentRow(documentID, tenantID, token))
		mock.ExpectQuery(`SELECT \* FROM "document_line_items" WHERE document_id = \$1 ORDER BY position ASC`).
			WithArgs(documentID).
			WillReturnRows(lineItemRows(documentID))

		doc, err := repo.FindByVerificationID(context.Background(), token)

		require.NoError(t, err)
		assert.Equal(t, documentID, doc.ID)
		assert.Equal(t, token, doc.VerificationID)
		assert.Equal(t, "INV-2026-000001", doc.DocumentNumber)
		assert.Len(t, doc.LineItems, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for unknown token", func(t *testing.T) {
		repo, mock, mockDB := newMockDocumentRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "documents" WHERE verification_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("unknown-token", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		doc, err := repo.FindByVerificationID(context.Background(), "unknown-token")

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, doc)
	})

	t.Run("rejects empty token without querying", func(t *testing.T) {
		repo, mock, mockDB := newMockDocumentRepository(t)
		defer mockDB.Close()

		doc, err := repo.FindByVerificationID(context.Background(), "")

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, doc)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDocumentRepository_FindByIDForTenant(t *testing.T) {
	t.Run("scopes lookup to tenant", func(t *testing.T) {
		repo, mock, mockDB := newMockDocumentRepository(t)
		defer mockDB.Close()

		documentID := uuid.New()
		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "documents" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, documentID, 1).
			WillReturnRows(documentRow(documentID, tenantID, "tok"))
		mock.ExpectQuery(`SELECT \* FROM "document_line_items"`).
			WithArgs(documentID).
			WillReturnRows(lineItemRows(documentID))

		doc, err := repo.FindByIDForTenant(context.Background(), tenantID, documentID)

		require.NoError(t, err)
		assert.Equal(t, tenantID, doc.TenantID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wrong tenant yields not found", func(t *testing.T) {
		repo, mock, mockDB := newMockDocumentRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "documents" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByIDForTenant(context.Background(), uuid.New(), uuid.New())

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormDocumentRepository_FindRetentionExpired(t *testing.T) {
	repo, mock, mockDB := newMockDocumentRepository(t)
	defer mockDB.Close()

	documentID := uuid.New()
	asOf := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "documents" WHERE retention_locked_until IS NOT NULL AND retention_locked_until < \$1 ORDER BY retention_locked_until ASC LIMIT .*`).
		WithArgs(asOf, 500).
		WillReturnRows(documentRow(documentID, uuid.New(), "tok"))
	mock.ExpectQuery(`SELECT \* FROM "document_line_items" WHERE document_id IN \(\$1\)`).
		WithArgs(documentID).
		WillReturnRows(lineItemRows(documentID))

	docs, err := repo.FindRetentionExpired(context.Background(), asOf, 500)

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, documentID, docs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDocumentRepository_SaveWithLock(t *testing.T) {
	t.Run("stale version is rejected", func(t *testing.T) {
		repo, mock, mockDB := newMockDocumentRepository(t)
		defer mockDB.Close()

		doc := &document.Document{}
		doc.ID = uuid.New()
		doc.Version = 3
		doc.Type = document.TypeInvoice
		doc.Status = document.StatusIssued
		doc.Total = decimal.NewFromInt(100)
		doc.PaidAmount = decimal.Zero

		mock.ExpectExec(`UPDATE "documents" SET .* WHERE .*version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), doc)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPTIMISTIC_LOCK_ERROR", domainErr.Code)
	})
}

func TestGormDocumentRepository_HardDeleteCascade(t *testing.T) {
	repo, mock, mockDB := newMockDocumentRepository(t)
	defer mockDB.Close()

	documentID := uuid.New()
	creditNoteID := uuid.New()

	mock.ExpectQuery(`SELECT "id" FROM "documents" WHERE credited_document_id = \$1`).
		WithArgs(documentID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(creditNoteID))
	mock.ExpectExec(`DELETE FROM "document_line_items" WHERE document_id IN \(\$1,\$2\)`).
		WithArgs(documentID, creditNoteID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM "documents" WHERE id IN \(\$1\)`).
		WithArgs(creditNoteID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "documents" WHERE id = \$1`).
		WithArgs(documentID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	counts, err := repo.HardDeleteCascade(context.Background(), documentID)

	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Documents)
	assert.Equal(t, int64(3), counts.LineItems)
	assert.Equal(t, int64(1), counts.CreditNotes)
	assert.NoError(t, mock.ExpectationsWereMet())
}
