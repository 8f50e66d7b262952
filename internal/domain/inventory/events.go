package inventory

import (
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
)

// Event type constants for the inventory context
const (
	EventTypeBalanceCostChanged  = "inventory.balance.cost_changed"
	EventTypeStockMovementPosted = "inventory.movement.posted"
	EventTypeCycleCountCompleted = "inventory.cycle_count.completed"
)

// BalanceCostChangedEvent is emitted when a receipt shifts the weighted
// average cost of a balance.
type BalanceCostChangedEvent struct {
	shared.BaseDomainEvent
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	OldCost    decimal.Decimal `json:"old_cost"`
	NewCost    decimal.Decimal `json:"new_cost"`
}

// NewBalanceCostChangedEvent creates a BalanceCostChangedEvent
func NewBalanceCostChangedEvent(b *InventoryBalance, oldCost, newCost decimal.Decimal) *BalanceCostChangedEvent {
	return &BalanceCostChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBalanceCostChanged, "InventoryBalance", b.ID, b.TenantID),
		ProductID:       b.ProductID.String(),
		LocationID:      b.LocationID.String(),
		OldCost:         oldCost,
		NewCost:         newCost,
	}
}

// StockMovementPostedEvent is emitted after a movement row is appended
type StockMovementPostedEvent struct {
	shared.BaseDomainEvent
	ProductID    string          `json:"product_id"`
	LocationID   string          `json:"location_id"`
	MovementType string          `json:"movement_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
}

// NewStockMovementPostedEvent creates a StockMovementPostedEvent
func NewStockMovementPostedEvent(m *StockMovement) *StockMovementPostedEvent {
	return &StockMovementPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockMovementPosted, "StockMovement", m.ID, m.TenantID),
		ProductID:       m.ProductID.String(),
		LocationID:      m.LocationID.String(),
		MovementType:    m.MovementType.String(),
		Quantity:        m.Quantity,
		UnitCost:        m.UnitCost,
	}
}

// CycleCountCompletedEvent is emitted when a count is posted
type CycleCountCompletedEvent struct {
	shared.BaseDomainEvent
	CountNumber   string `json:"count_number"`
	LocationID    string `json:"location_id"`
	VarianceLines int    `json:"variance_lines"`
}

// NewCycleCountCompletedEvent creates a CycleCountCompletedEvent
func NewCycleCountCompletedEvent(cc *CycleCount) *CycleCountCompletedEvent {
	return &CycleCountCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCycleCountCompleted, "CycleCount", cc.ID, cc.TenantID),
		CountNumber:     cc.CountNumber,
		LocationID:      cc.LocationID.String(),
		VarianceLines:   len(cc.VarianceLines()),
	}
}
