package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/document"
	"github.com/stockroom/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAdjustmentRepository implements AdjustmentRepository using GORM
type GormAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormAdjustmentRepository creates a new GormAdjustmentRepository
func NewGormAdjustmentRepository(db *gorm.DB) *GormAdjustmentRepository {
	return &GormAdjustmentRepository{db: db}
}

// FindByIDForTenant loads an adjustment with its lines
func (r *GormAdjustmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*document.Adjustment, error) {
	var adjustment document.Adjustment
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&adjustment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &adjustment, nil
}

// FindAllForTenant lists adjustments with filtering and pagination
func (r *GormAdjustmentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*document.Adjustment, error) {
	var adjustments []*document.Adjustment
	query := r.applyFilters(r.db.WithContext(ctx).Model(&document.Adjustment{}).
		Where("tenant_id = ?", tenantID), filter)
	query = applyOrdering(applyPagination(query, filter), filter, DocumentSortFields)

	if err := query.Preload("Lines").Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// CountForTenant counts adjustments matching the filter
func (r *GormAdjustmentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilters(r.db.WithContext(ctx).Model(&document.Adjustment{}).
		Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists an adjustment together with its lines
func (r *GormAdjustmentRepository) Save(ctx context.Context, adjustment *document.Adjustment) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(adjustment).Error
}

// Delete removes an adjustment and its lines
func (r *GormAdjustmentRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).
			Delete(&document.Adjustment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("adjustment_id = ?", id).
			Delete(&document.AdjustmentLine{}).Error
	})
}

func (r *GormAdjustmentRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "location_id":
			query = query.Where("location_id = ?", value)
		}
	}
	if filter.Search != "" {
		query = query.Where("adjustment_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// Ensure GormAdjustmentRepository implements AdjustmentRepository
var _ document.AdjustmentRepository = (*GormAdjustmentRepository)(nil)
