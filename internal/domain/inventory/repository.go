package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
)

// BalanceRepository provides access to inventory balances. The balance
// locator contract: FindByKey matches the full normalized identifying
// tuple and returns shared.ErrNotFound when no row exists. It has no
// side effects.
type BalanceRepository interface {
	// FindByKey locates the balance row for the identifying tuple
	FindByKey(ctx context.Context, tenantID, productID, locationID uuid.UUID, lot valueobject.LotKey) (*InventoryBalance, error)
	// FindByKeyForUpdate locates the balance row and takes a row lock,
	// serializing concurrent transitions against the same balance
	FindByKeyForUpdate(ctx context.Context, tenantID, productID, locationID uuid.UUID, lot valueobject.LotKey) (*InventoryBalance, error)
	// FindByIDForTenant loads a balance by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*InventoryBalance, error)
	// FindAllForTenant lists balances with filtering and pagination
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]InventoryBalance, error)
	// CountForTenant counts balances matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// FindByLocation lists balances at a location
	FindByLocation(ctx context.Context, tenantID, locationID uuid.UUID, filter shared.Filter) ([]InventoryBalance, error)
	// Save persists a balance (insert or update)
	Save(ctx context.Context, balance *InventoryBalance) error
	// SumValueByLocation returns total inventory value per location
	SumValueByLocation(ctx context.Context, tenantID uuid.UUID) ([]LocationValuation, error)
}

// LocationValuation is a valuation report row
type LocationValuation struct {
	LocationID uuid.UUID       `json:"location_id"`
	TotalQty   decimal.Decimal `json:"total_qty"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// MovementFilter narrows movement ledger queries
type MovementFilter struct {
	ProductID     *uuid.UUID
	LocationID    *uuid.UUID
	MovementType  *MovementType
	ReferenceType *ReferenceType
	ReferenceID   *uuid.UUID
	From          *time.Time
	To            *time.Time
	Page          int
	PageSize      int
}

// MovementRepository is the append-only store for stock movements
type MovementRepository interface {
	// Append inserts a movement row; movements are never updated
	Append(ctx context.Context, movement *StockMovement) error
	// FindForTenant queries the movement ledger
	FindForTenant(ctx context.Context, tenantID uuid.UUID, filter MovementFilter) ([]StockMovement, int64, error)
	// SumByBalanceKey returns the signed quantity sum for a balance key,
	// used by the reconciliation check
	SumByBalanceKey(ctx context.Context, tenantID, productID, locationID uuid.UUID, lot valueobject.LotKey) (decimal.Decimal, error)
}

// CycleCountRepository provides access to cycle count documents
type CycleCountRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CycleCount, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CycleCount, int64, error)
	Save(ctx context.Context, count *CycleCount) error
	// Delete removes a draft count; completed/cancelled counts are kept
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
