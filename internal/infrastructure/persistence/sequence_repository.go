package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/invoicemonk/backend/internal/domain/document"
	"github.com/invoicemonk/backend/internal/infrastructure/persistence/models"
)

// GormSequenceRepository implements document.SequenceRepository.
//
// Allocation locks the counter row with SELECT ... FOR UPDATE: concurrent
// issuances in the same (tenant, type, year) scope serialize on the row
// and never observe the same value. Must run inside the issuance
// transaction so a rollback also rolls back the increment.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// NextValue atomically increments and returns the counter for the scope.
func (r *GormSequenceRepository) NextValue(ctx context.Context, tenantID uuid.UUID, docType document.Type, year int) (int64, error) {
	db := r.db.WithContext(ctx)

	var model models.SequenceModel
	err := db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND doc_type = ? AND year = ?", tenantID, docType, year).
		First(&model).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.createScope(ctx, tenantID, docType, year); err != nil {
			return 0, err
		}
		// Re-read under lock; the row now exists even if a concurrent
		// transaction created it first.
		err = db.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND doc_type = ? AND year = ?", tenantID, docType, year).
			First(&model).Error
	}
	if err != nil {
		return 0, err
	}

	model.CurrentValue++
	model.UpdatedAt = time.Now()
	if err := db.Model(&models.SequenceModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"current_value": model.CurrentValue,
			"updated_at":    model.UpdatedAt,
		}).Error; err != nil {
		return 0, err
	}

	return model.CurrentValue, nil
}

// createScope inserts the counter row for a new (tenant, type, year) scope.
// ON CONFLICT DO NOTHING absorbs the race with a concurrent first issuance.
func (r *GormSequenceRepository) createScope(ctx context.Context, tenantID uuid.UUID, docType document.Type, year int) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "doc_type"}, {Name: "year"}},
			DoNothing: true,
		}).
		Create(&models.SequenceModel{
			ID:           uuid.New(),
			TenantID:     tenantID,
			DocType:      docType,
			Year:         year,
			CurrentValue: 0,
			CreatedAt:    now,
			UpdatedAt:    now,
		}).Error
}

// Ensure GormSequenceRepository implements document.SequenceRepository
var _ document.SequenceRepository = (*GormSequenceRepository)(nil)
