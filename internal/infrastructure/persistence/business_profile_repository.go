package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invoicemonk/backend/internal/domain/directory"
	"github.com/invoicemonk/backend/internal/domain/shared"
	"github.com/invoicemonk/backend/internal/infrastructure/persistence/models"
	"github.com/invoicemonk/backend/internal/infrastructure/persistence/tenant"
)

// GormBusinessProfileRepository implements directory.BusinessProfileRepository using GORM
type GormBusinessProfileRepository struct {
	db *gorm.DB
}

// NewGormBusinessProfileRepository creates a new GormBusinessProfileRepository
func NewGormBusinessProfileRepository(db *gorm.DB) *GormBusinessProfileRepository {
	return &GormBusinessProfileRepository{db: db}
}

// FindByID finds a business profile by its ID
func (r *GormBusinessProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.BusinessProfile, error) {
	var model models.BusinessProfileModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindForTenant finds the tenant's business profile. Each tenant has at most one.
func (r *GormBusinessProfileRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID) (*directory.BusinessProfile, error) {
	var model models.BusinessProfileModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a business profile
func (r *GormBusinessProfileRepository) Save(ctx context.Context, profile *directory.BusinessProfile) error {
	model := models.BusinessProfileModelFromDomain(profile)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a business profile with an optimistic version check
func (r *GormBusinessProfileRepository) SaveWithLock(ctx context.Context, profile *directory.BusinessProfile) error {
	model := models.BusinessProfileModelFromDomain(profile)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", profile.ID, profile.PersistedVersion()).
		Select("*").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The business profile has been modified by another transaction")
	}
	profile.MarkPersisted()
	return nil
}

// Ensure GormBusinessProfileRepository implements directory.BusinessProfileRepository
var _ directory.BusinessProfileRepository = (*GormBusinessProfileRepository)(nil)
