package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/document"
	"github.com/stockroom/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTransferRepository implements TransferRepository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// FindByIDForTenant loads a transfer with its lines
func (r *GormTransferRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*document.Transfer, error) {
	var transfer document.Transfer
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&transfer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// FindAllForTenant lists transfers with filtering and pagination
func (r *GormTransferRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*document.Transfer, error) {
	var transfers []*document.Transfer
	query := r.applyFilters(r.db.WithContext(ctx).Model(&document.Transfer{}).
		Where("tenant_id = ?", tenantID), filter)
	query = applyOrdering(applyPagination(query, filter), filter, DocumentSortFields)

	if err := query.Preload("Lines").Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// CountForTenant counts transfers matching the filter
func (r *GormTransferRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilters(r.db.WithContext(ctx).Model(&document.Transfer{}).
		Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists a transfer together with its lines
func (r *GormTransferRepository) Save(ctx context.Context, transfer *document.Transfer) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(transfer).Error
}

// Delete removes a transfer and its lines
func (r *GormTransferRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).
			Delete(&document.Transfer{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("transfer_id = ?", id).
			Delete(&document.TransferLine{}).Error
	})
}

func (r *GormTransferRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "from_location_id":
			query = query.Where("from_location_id = ?", value)
		case "to_location_id":
			query = query.Where("to_location_id = ?", value)
		}
	}
	if filter.Search != "" {
		query = query.Where("transfer_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// Ensure GormTransferRepository implements TransferRepository
var _ document.TransferRepository = (*GormTransferRepository)(nil)
