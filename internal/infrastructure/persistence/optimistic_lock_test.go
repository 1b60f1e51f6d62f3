package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/invoicemonk/backend/internal/domain/document"
	"github.com/invoicemonk/backend/internal/domain/shared"
	"github.com/invoicemonk/backend/internal/domain/shared/valueobject"
	"github.com/invoicemonk/backend/internal/infrastructure/persistence/models"
)

func newSQLiteDocumentRepository(t *testing.T) *GormDocumentRepository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.DocumentModel{}, &models.LineItemModel{}))

	return NewGormDocumentRepository(db)
}

func newDraftWithLineItem(t *testing.T, tenantID uuid.UUID) *document.Document {
	doc, err := document.NewDocument(
		tenantID,
		document.TypeInvoice,
		uuid.New(),
		uuid.New(),
		valueobject.EUR,
		uuid.New(),
	)
	require.NoError(t, err)

	item, err := document.NewLineItem("Consulting", decimal.NewFromInt(2), decimal.NewFromInt(150), decimal.NewFromInt(19))
	require.NoError(t, err)
	require.NoError(t, doc.AddLineItem(item))

	return doc
}

// A single update request may touch several draft fields, each of which bumps
// the aggregate version. The optimistic lock has to match the row against the
// version the document was loaded with, not against however many bumps the
// request happened to apply.
func TestGormDocumentRepository_SaveWithLock_MultipleMutations(t *testing.T) {
	repo := newSQLiteDocumentRepository(t)
	ctx := context.Background()
	tenantID := uuid.New()

	doc := newDraftWithLineItem(t, tenantID)
	require.NoError(t, repo.Save(ctx, doc))

	loaded, err := repo.FindByIDForTenant(ctx, tenantID, doc.ID)
	require.NoError(t, err)
	loadedVersion := loaded.Version

	replacement, err := document.NewLineItem("Retainer", decimal.NewFromInt(1), decimal.NewFromInt(900), decimal.NewFromInt(19))
	require.NoError(t, err)
	require.NoError(t, loaded.ReplaceLineItems([]document.LineItem{replacement}))
	require.NoError(t, loaded.SetNotes("net 30"))

	require.NoError(t, repo.SaveWithLock(ctx, loaded))

	saved, err := repo.FindByIDForTenant(ctx, tenantID, doc.ID)
	require.NoError(t, err)
	assert.Greater(t, saved.Version, loadedVersion)
	assert.Equal(t, "net 30", saved.Notes)
	require.Len(t, saved.LineItems, 1)
	assert.Equal(t, "Retainer", saved.LineItems[0].Description)
}

func TestGormDocumentRepository_SaveWithLock_NoMutations(t *testing.T) {
	repo := newSQLiteDocumentRepository(t)
	ctx := context.Background()
	tenantID := uuid.New()

	doc := newDraftWithLineItem(t, tenantID)
	require.NoError(t, repo.Save(ctx, doc))

	loaded, err := repo.FindByIDForTenant(ctx, tenantID, doc.ID)
	require.NoError(t, err)

	// Version unchanged since load; the save still matches the stored row.
	require.NoError(t, repo.SaveWithLock(ctx, loaded))
}

func TestGormDocumentRepository_SaveWithLock_ConcurrentModification(t *testing.T) {
	repo := newSQLiteDocumentRepository(t)
	ctx := context.Background()
	tenantID := uuid.New()

	doc := newDraftWithLineItem(t, tenantID)
	require.NoError(t, repo.Save(ctx, doc))

	first, err := repo.FindByIDForTenant(ctx, tenantID, doc.ID)
	require.NoError(t, err)
	second, err := repo.FindByIDForTenant(ctx, tenantID, doc.ID)
	require.NoError(t, err)

	require.NoError(t, first.SetNotes("won the race"))
	require.NoError(t, repo.SaveWithLock(ctx, first))

	require.NoError(t, second.SetNotes("lost the race"))
	err = repo.SaveWithLock(ctx, second)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "OPTIMISTIC_LOCK_ERROR", domainErr.Code)
}

// A repository that saved an aggregate can keep mutating and saving it within
// the same unit of work.
func TestGormDocumentRepository_SaveWithLock_SequentialSaves(t *testing.T) {
	repo := newSQLiteDocumentRepository(t)
	ctx := context.Background()
	tenantID := uuid.New()

	doc := newDraftWithLineItem(t, tenantID)
	require.NoError(t, repo.Save(ctx, doc))

	loaded, err := repo.FindByIDForTenant(ctx, tenantID, doc.ID)
	require.NoError(t, err)

	require.NoError(t, loaded.SetNotes("first pass"))
	require.NoError(t, repo.SaveWithLock(ctx, loaded))

	require.NoError(t, loaded.SetNotes("second pass"))
	require.NoError(t, repo.SaveWithLock(ctx, loaded))

	saved, err := repo.FindByIDForTenant(ctx, tenantID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "second pass", saved.Notes)
}
