package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/document"
	"github.com/stockroom/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormReturnOrderRepository implements ReturnOrderRepository using GORM
type GormReturnOrderRepository struct {
	db *gorm.DB
}

// NewGormReturnOrderRepository creates a new GormReturnOrderRepository
func NewGormReturnOrderRepository(db *gorm.DB) *GormReturnOrderRepository {
	return &GormReturnOrderRepository{db: db}
}

// FindByIDForTenant loads a return order with its lines
func (r *GormReturnOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*document.ReturnOrder, error) {
	var ret document.ReturnOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&ret).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ret, nil
}

// FindAllForTenant lists return orders with filtering and pagination
func (r *GormReturnOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*document.ReturnOrder, error) {
	var returns []*document.ReturnOrder
	query := r.applyFilters(r.db.WithContext(ctx).Model(&document.ReturnOrder{}).
		Where("tenant_id = ?", tenantID), filter)
	query = applyOrdering(applyPagination(query, filter), filter, DocumentSortFields)

	if err := query.Preload("Lines").Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

// CountForTenant counts return orders matching the filter
func (r *GormReturnOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilters(r.db.WithContext(ctx).Model(&document.ReturnOrder{}).
		Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists a return order together with its lines
func (r *GormReturnOrderRepository) Save(ctx context.Context, ret *document.ReturnOrder) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(ret).Error
}

// Delete removes a return order and its lines
func (r *GormReturnOrderRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).
			Delete(&document.ReturnOrder{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("return_id = ?", id).
			Delete(&document.ReturnLine{}).Error
	})
}

func (r *GormReturnOrderRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "direction":
			query = query.Where("direction = ?", value)
		case "location_id":
			query = query.Where("location_id = ?", value)
		}
	}
	if filter.Search != "" {
		query = query.Where("return_number ILIKE ? OR party_name ILIKE ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	return query
}

// Ensure GormReturnOrderRepository implements ReturnOrderRepository
var _ document.ReturnOrderRepository = (*GormReturnOrderRepository)(nil)
