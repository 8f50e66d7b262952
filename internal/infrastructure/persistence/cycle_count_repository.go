package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCycleCountRepository implements CycleCountRepository using GORM
type GormCycleCountRepository struct {
	db *gorm.DB
}

// NewGormCycleCountRepository creates a new GormCycleCountRepository
func NewGormCycleCountRepository(db *gorm.DB) *GormCycleCountRepository {
	return &GormCycleCountRepository{db: db}
}

// FindByIDForTenant loads a cycle count with its lines
func (r *GormCycleCountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.CycleCount, error) {
	var count inventory.CycleCount
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&count).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &count, nil
}

// FindAllForTenant lists cycle counts with filtering and pagination
func (r *GormCycleCountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.CycleCount, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.CycleCount{}).
		Where("tenant_id = ?", tenantID)

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "location_id":
			query = query.Where("location_id = ?", value)
		}
	}
	if filter.Search != "" {
		query = query.Where("count_number ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var counts []inventory.CycleCount
	query = applyOrdering(applyPagination(query, filter), filter, CycleCountSortFields)
	if err := query.Preload("Lines").Find(&counts).Error; err != nil {
		return nil, 0, err
	}
	return counts, total, nil
}

// Save persists a cycle count together with its lines
func (r *GormCycleCountRepository) Save(ctx context.Context, count *inventory.CycleCount) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(count).Error
}

// Delete removes a cycle count and its lines
func (r *GormCycleCountRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).
			Delete(&inventory.CycleCount{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("count_id = ?", id).
			Delete(&inventory.CycleCountLine{}).Error
	})
}

// Ensure GormCycleCountRepository implements CycleCountRepository
var _ inventory.CycleCountRepository = (*GormCycleCountRepository)(nil)
