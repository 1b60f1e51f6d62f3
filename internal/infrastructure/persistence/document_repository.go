package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invoicemonk/backend/internal/domain/document"
	"github.com/invoicemonk/backend/internal/domain/shared"
	"github.com/invoicemonk/backend/internal/infrastructure/persistence/models"
	"github.com/invoicemonk/backend/internal/infrastructure/persistence/tenant"
)

// GormDocumentRepository implements document.Repository using GORM.
// Every load attaches the document's line items; every save replaces them.
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByID finds a document by its ID regardless of tenant
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	var model models.DocumentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.attachLineItems(ctx, &model)
}

// FindByIDForTenant finds a document by ID within a tenant
func (r *GormDocumentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*document.Document, error) {
	var model models.DocumentModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.attachLineItems(ctx, &model)
}

// FindByVerificationID finds a document by its public verification token.
// The lookup is exact-match only; the token column is uniquely indexed.
func (r *GormDocumentRepository) FindByVerificationID(ctx context.Context, verificationID string) (*document.Document, error) {
	if verificationID == "" {
		return nil, shared.ErrNotFound
	}
	var model models.DocumentModel
	if err := r.db.WithContext(ctx).
		Where("verification_id = ?", verificationID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.attachLineItems(ctx, &model)
}

// FindAllForTenant lists documents for a tenant with filtering
func (r *GormDocumentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter document.Filter) ([]document.Document, error) {
	var documentModels []models.DocumentModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.DocumentModel{}).Scopes(tenant.TenantScope(tenantID)),
		filter,
	)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	sortField := ValidateSortField(filter.SortBy, DocumentSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.SortOrder)
	query = query.Order(sortField + " " + sortOrder)

	if err := query.Find(&documentModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainBatch(ctx, documentModels)
}

// CountForTenant counts documents for a tenant with filtering
func (r *GormDocumentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter document.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.DocumentModel{}).Scopes(tenant.TenantScope(tenantID)),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindRetentionExpired returns documents whose retention lock passed before asOf.
// Oldest locks first, so repeated sweeps make progress even when batches fail.
func (r *GormDocumentRepository) FindRetentionExpired(ctx context.Context, asOf time.Time, limit int) ([]document.Document, error) {
	var documentModels []models.DocumentModel
	query := r.db.WithContext(ctx).
		Where("retention_locked_until IS NOT NULL AND retention_locked_until < ?", asOf).
		Order("retention_locked_until ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&documentModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainBatch(ctx, documentModels)
}

// Save creates or updates a document together with its line items
func (r *GormDocumentRepository) Save(ctx context.Context, doc *document.Document) error {
	model := models.DocumentModelFromDomain(doc)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	return r.replaceLineItems(ctx, doc)
}

// SaveWithLock saves a document with an optimistic version check. The row
// must still hold the version the aggregate was loaded with, regardless of
// how many in-memory mutations bumped the version since.
func (r *GormDocumentRepository) SaveWithLock(ctx context.Context, doc *document.Document) error {
	model := models.DocumentModelFromDomain(doc)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", doc.ID, doc.PersistedVersion()).
		Select("*").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The document has been modified by another transaction")
	}
	doc.MarkPersisted()
	return r.replaceLineItems(ctx, doc)
}

// Delete removes a draft document and its line items
func (r *GormDocumentRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(tenant.TenantScope(tenantID)).Delete(&models.DocumentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return r.db.WithContext(ctx).Delete(&models.LineItemModel{}, "document_id = ?", id).Error
}

// HardDeleteCascade permanently removes a document and every dependent row:
// its line items, any credit notes linked to it, and their line items.
func (r *GormDocumentRepository) HardDeleteCascade(ctx context.Context, id uuid.UUID) (document.DeletedCounts, error) {
	var counts document.DeletedCounts
	db := r.db.WithContext(ctx)

	var creditNoteIDs []uuid.UUID
	if err := db.Model(&models.DocumentModel{}).
		Where("credited_document_id = ?", id).
		Pluck("id", &creditNoteIDs).Error; err != nil {
		return counts, err
	}

	documentIDs := append([]uuid.UUID{id}, creditNoteIDs...)

	lineResult := db.Delete(&models.LineItemModel{}, "document_id IN ?", documentIDs)
	if lineResult.Error != nil {
		return counts, lineResult.Error
	}
	counts.LineItems = lineResult.RowsAffected

	if len(creditNoteIDs) > 0 {
		noteResult := db.Delete(&models.DocumentModel{}, "id IN ?", creditNoteIDs)
		if noteResult.Error != nil {
			return counts, noteResult.Error
		}
		counts.CreditNotes = noteResult.RowsAffected
	}

	docResult := db.Delete(&models.DocumentModel{}, "id = ?", id)
	if docResult.Error != nil {
		return counts, docResult.Error
	}
	counts.Documents = docResult.RowsAffected

	return counts, nil
}

// attachLineItems loads the document's line items and returns the domain aggregate
func (r *GormDocumentRepository) attachLineItems(ctx context.Context, model *models.DocumentModel) (*document.Document, error) {
	var lineModels []models.LineItemModel
	if err := r.db.WithContext(ctx).
		Where("document_id = ?", model.ID).
		Order("position ASC").
		Find(&lineModels).Error; err != nil {
		return nil, err
	}

	doc := model.ToDomain()
	doc.LineItems = make([]document.LineItem, len(lineModels))
	for i := range lineModels {
		doc.LineItems[i] = lineModels[i].ToDomain()
	}
	return doc, nil
}

// toDomainBatch converts a page of models, loading all line items in one query
func (r *GormDocumentRepository) toDomainBatch(ctx context.Context, documentModels []models.DocumentModel) ([]document.Document, error) {
	if len(documentModels) == 0 {
		return []document.Document{}, nil
	}

	ids := make([]uuid.UUID, len(documentModels))
	for i := range documentModels {
		ids[i] = documentModels[i].ID
	}

	var lineModels []models.LineItemModel
	if err := r.db.WithContext(ctx).
		Where("document_id IN ?", ids).
		Order("position ASC").
		Find(&lineModels).Error; err != nil {
		return nil, err
	}

	linesByDoc := make(map[uuid.UUID][]document.LineItem, len(documentModels))
	for i := range lineModels {
		linesByDoc[lineModels[i].DocumentID] = append(linesByDoc[lineModels[i].DocumentID], lineModels[i].ToDomain())
	}

	documents := make([]document.Document, len(documentModels))
	for i := range documentModels {
		doc := documentModels[i].ToDomain()
		doc.LineItems = linesByDoc[doc.ID]
		if doc.LineItems == nil {
			doc.LineItems = []document.LineItem{}
		}
		documents[i] = *doc
	}
	return documents, nil
}

// replaceLineItems rewrites the document's line item rows to match the aggregate
func (r *GormDocumentRepository) replaceLineItems(ctx context.Context, doc *document.Document) error {
	db := r.db.WithContext(ctx)
	if err := db.Delete(&models.LineItemModel{}, "document_id = ?", doc.ID).Error; err != nil {
		return err
	}
	lineModels := models.LineItemModelsFromDomain(doc.ID, doc.LineItems)
	if len(lineModels) == 0 {
		return nil
	}
	return db.Create(&lineModels).Error
}

// applyFilter applies document list filters to the query
func (r *GormDocumentRepository) applyFilter(query *gorm.DB, filter document.Filter) *gorm.DB {
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.BusinessID != nil {
		query = query.Where("business_id = ?", *filter.BusinessID)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("document_number ILIKE ? OR notes ILIKE ?", pattern, pattern)
	}
	return query
}

// Ensure GormDocumentRepository implements document.Repository
var _ document.Repository = (*GormDocumentRepository)(nil)
