package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invoicemonk/backend/internal/domain/retention"
	"github.com/invoicemonk/backend/internal/domain/shared"
	"github.com/invoicemonk/backend/internal/infrastructure/persistence/models"
)

// GormRetentionPolicyRepository implements retention.Repository using GORM
type GormRetentionPolicyRepository struct {
	db *gorm.DB
}

// NewGormRetentionPolicyRepository creates a new GormRetentionPolicyRepository
func NewGormRetentionPolicyRepository(db *gorm.DB) *GormRetentionPolicyRepository {
	return &GormRetentionPolicyRepository{db: db}
}

// FindByID finds a retention policy by its ID
func (r *GormRetentionPolicyRepository) FindByID(ctx context.Context, id uuid.UUID) (*retention.Policy, error) {
	var model models.RetentionPolicyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindForScope finds the policy for a jurisdiction and entity type
func (r *GormRetentionPolicyRepository) FindForScope(ctx context.Context, jurisdiction, entityType string) (*retention.Policy, error) {
	var model models.RetentionPolicyModel
	if err := r.db.WithContext(ctx).
		Where("jurisdiction = ? AND entity_type = ?", jurisdiction, entityType).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists retention policies
func (r *GormRetentionPolicyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*retention.Policy, error) {
	var policyModels []models.RetentionPolicyModel
	query := r.db.WithContext(ctx).Model(&models.RetentionPolicyModel{})

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	query = query.Order("jurisdiction ASC, entity_type ASC")

	if err := query.Find(&policyModels).Error; err != nil {
		return nil, err
	}

	policies := make([]*retention.Policy, len(policyModels))
	for i := range policyModels {
		policies[i] = policyModels[i].ToDomain()
	}
	return policies, nil
}

// Save creates or updates a retention policy
func (r *GormRetentionPolicyRepository) Save(ctx context.Context, policy *retention.Policy) error {
	model := models.RetentionPolicyModelFromDomain(policy)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a retention policy
func (r *GormRetentionPolicyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RetentionPolicyModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormRetentionPolicyRepository implements retention.Repository
var _ retention.Repository = (*GormRetentionPolicyRepository)(nil)
