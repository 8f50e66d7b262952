package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
)

// costScale is the number of decimal places kept for average cost
const costScale = 4

// InventoryBalance is the aggregate root for the on-hand quantity and
// weighted-average cost basis of a product at a location, optionally
// partitioned by lot/expiry. Exactly one row exists per
// (tenant, product, location, lot, expiry) tuple. Balances are created on
// first receipt and never hard-deleted; a depleted balance stays at zero
// quantity with its last cost basis.
type InventoryBalance struct {
	shared.TenantAggregateRoot
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_balance_key,priority:2"`
	LocationID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_balance_key,priority:3"`
	LotNumber  string          `gorm:"type:varchar(100);not null;default:'';uniqueIndex:idx_balance_key,priority:4"`
	ExpiryDate *time.Time      `gorm:"type:date;uniqueIndex:idx_balance_key,priority:5"`
	QtyOnHand  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AvgCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (InventoryBalance) TableName() string {
	return "inventory_balances"
}

// NewInventoryBalance creates an empty balance for a balance key
func NewInventoryBalance(tenantID, productID, locationID uuid.UUID, lot valueobject.LotKey) (*InventoryBalance, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}

	return &InventoryBalance{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		LocationID:          locationID,
		LotNumber:           lot.LotNumber(),
		ExpiryDate:          lot.ExpiryDate(),
		QtyOnHand:           decimal.Zero,
		AvgCost:             decimal.Zero,
	}, nil
}

// LotKey returns the normalized lot key for this balance
func (b *InventoryBalance) LotKey() valueobject.LotKey {
	return valueobject.NewLotKey(b.LotNumber, b.ExpiryDate)
}

// InventoryValue returns the derived value (quantity * average cost)
func (b *InventoryBalance) InventoryValue() decimal.Decimal {
	return b.QtyOnHand.Mul(b.AvgCost)
}

// Receive merges an incoming quantity and cost into the balance using the
// moving weighted average:
//
//	newCost = (qty0*cost0 + qtyIn*costIn) / (qty0 + qtyIn)
//
// A receipt into an empty balance takes the incoming cost directly.
func (b *InventoryBalance) Receive(quantity, unitCost decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	oldCost := b.AvgCost
	oldQty := b.QtyOnHand

	if oldQty.LessThanOrEqual(decimal.Zero) {
		b.AvgCost = unitCost.Round(costScale)
	} else {
		totalValue := oldQty.Mul(oldCost).Add(quantity.Mul(unitCost))
		b.AvgCost = totalValue.Div(oldQty.Add(quantity)).Round(costScale)
	}

	b.QtyOnHand = b.QtyOnHand.Add(quantity)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	if !oldCost.Equal(b.AvgCost) {
		b.AddDomainEvent(NewBalanceCostChangedEvent(b, oldCost, b.AvgCost))
	}

	return nil
}

// Deduct removes quantity from the balance. The cost basis is carried
// forward unchanged on depletion; the weighted average is never
// recomputed on the way down, which also sidesteps the divide-by-zero
// hazard when a balance reaches zero.
func (b *InventoryBalance) Deduct(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Deduct quantity must be positive")
	}
	if b.QtyOnHand.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}

	b.QtyOnHand = b.QtyOnHand.Sub(quantity)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// SetQuantity forces the on-hand quantity to a counted value, preserving
// the cost basis. Used by cycle-count variance posting and manual
// adjustments that state an absolute quantity.
func (b *InventoryBalance) SetQuantity(counted decimal.Decimal) error {
	if counted.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}

	b.QtyOnHand = counted
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// CanFulfill returns true if the on-hand quantity covers the request
func (b *InventoryBalance) CanFulfill(quantity decimal.Decimal) bool {
	return b.QtyOnHand.GreaterThanOrEqual(quantity)
}

// IsDepleted returns true when the balance holds no stock
func (b *InventoryBalance) IsDepleted() bool {
	return b.QtyOnHand.LessThanOrEqual(decimal.Zero)
}
