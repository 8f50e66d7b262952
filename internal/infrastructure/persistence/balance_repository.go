package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBalanceRepository implements BalanceRepository using GORM
type GormBalanceRepository struct {
	db *gorm.DB
}

// NewGormBalanceRepository creates a new GormBalanceRepository
func NewGormBalanceRepository(db *gorm.DB) *GormBalanceRepository {
	return &GormBalanceRepository{db: db}
}

// lotScope narrows a query to one lot key. The no-lot case is stored as
// an empty lot_number with a NULL expiry_date, so both forms of "no lot"
// resolve to the same row.
func lotScope(query *gorm.DB, lot valueobject.LotKey) *gorm.DB {
	query = query.Where("lot_number = ?", lot.LotNumber())
	if lot.ExpiryDate() == nil {
		return query.Where("expiry_date IS NULL")
	}
	return query.Where("expiry_date = ?", lot.ExpiryDate())
}

// FindByKey locates the balance row for the identifying tuple
func (r *GormBalanceRepository) FindByKey(ctx context.Context, tenantID, productID, locationID uuid.UUID, lot valueobject.LotKey) (*inventory.InventoryBalance, error) {
	return r.findByKey(ctx, r.db, tenantID, productID, locationID, lot)
}

// FindByKeyForUpdate locates the balance row and takes a FOR UPDATE row
// lock so concurrent transitions on the same balance key serialize.
func (r *GormBalanceRepository) FindByKeyForUpdate(ctx context.Context, tenantID, productID, locationID uuid.UUID, lot valueobject.LotKey) (*inventory.InventoryBalance, error) {
	locked := r.db.Clauses(clause.Locking{Strength: "UPDATE"})
	return r.findByKey(ctx, locked, tenantID, productID, locationID, lot)
}

func (r *GormBalanceRepository) findByKey(ctx context.Context, db *gorm.DB, tenantID, productID, locationID uuid.UUID, lot valueobject.LotKey) (*inventory.InventoryBalance, error) {
	var balance inventory.InventoryBalance
	query := db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ? AND location_id = ?", tenantID, productID, locationID)
	query = lotScope(query, lot)

	if err := query.First(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &balance, nil
}

// FindByIDForTenant loads a balance by ID within a tenant
func (r *GormBalanceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryBalance, error) {
	var balance inventory.InventoryBalance
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &balance, nil
}

// FindAllForTenant lists balances with filtering and pagination
func (r *GormBalanceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.InventoryBalance, error) {
	var balances []inventory.InventoryBalance
	query := r.db.WithContext(ctx).Model(&inventory.InventoryBalance{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilters(query, filter)
	query = applyOrdering(applyPagination(query, filter), filter, BalanceSortFields)

	if err := query.Find(&balances).Error; err != nil {
		return nil, err
	}
	return balances, nil
}

// CountForTenant counts balances matching the filter
func (r *GormBalanceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.InventoryBalance{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilters(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByLocation lists balances at a location
func (r *GormBalanceRepository) FindByLocation(ctx context.Context, tenantID, locationID uuid.UUID, filter shared.Filter) ([]inventory.InventoryBalance, error) {
	var balances []inventory.InventoryBalance
	query := r.db.WithContext(ctx).Model(&inventory.InventoryBalance{}).
		Where("tenant_id = ? AND location_id = ?", tenantID, locationID)
	query = r.applyFilters(query, filter)
	query = applyOrdering(applyPagination(query, filter), filter, BalanceSortFields)

	if err := query.Find(&balances).Error; err != nil {
		return nil, err
	}
	return balances, nil
}

// Save persists a balance (insert or update)
func (r *GormBalanceRepository) Save(ctx context.Context, balance *inventory.InventoryBalance) error {
	return r.db.WithContext(ctx).Save(balance).Error
}

// SumValueByLocation returns total on-hand quantity and value per location
func (r *GormBalanceRepository) SumValueByLocation(ctx context.Context, tenantID uuid.UUID) ([]inventory.LocationValuation, error) {
	var rows []inventory.LocationValuation
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryBalance{}).
		Select("location_id, COALESCE(SUM(qty_on_hand), 0) as total_qty, COALESCE(SUM(qty_on_hand * avg_cost), 0) as total_value").
		Where("tenant_id = ?", tenantID).
		Group("location_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormBalanceRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "location_id":
			query = query.Where("location_id = ?", value)
		case "lot_number":
			query = query.Where("lot_number = ?", value)
		case "has_stock":
			if value == true {
				query = query.Where("qty_on_hand > 0")
			}
		}
	}
	return query
}

// Ensure GormBalanceRepository implements BalanceRepository
var _ inventory.BalanceRepository = (*GormBalanceRepository)(nil)
