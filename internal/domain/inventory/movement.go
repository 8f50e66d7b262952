package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
)

// MovementType classifies a stock movement by its cause
type MovementType string

const (
	MovementTypeReceive       MovementType = "RECEIVE"
	MovementTypeShip          MovementType = "SHIP"
	MovementTypeTransferOut   MovementType = "TRANSFER_OUT"
	MovementTypeTransferIn    MovementType = "TRANSFER_IN"
	MovementTypeAdjustment    MovementType = "ADJUSTMENT"
	MovementTypeCountVariance MovementType = "COUNT_VARIANCE"
	MovementTypeReturnIn      MovementType = "RETURN_IN"
	MovementTypeReturnOut     MovementType = "RETURN_OUT"
	MovementTypeVoid          MovementType = "VOID"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeReceive, MovementTypeShip, MovementTypeTransferOut,
		MovementTypeTransferIn, MovementTypeAdjustment, MovementTypeCountVariance,
		MovementTypeReturnIn, MovementTypeReturnOut, MovementTypeVoid:
		return true
	}
	return false
}

// ReferenceType identifies the document type that caused a movement
type ReferenceType string

const (
	ReferenceTypePurchaseOrder ReferenceType = "PURCHASE_ORDER"
	ReferenceTypeShipment      ReferenceType = "SHIPMENT"
	ReferenceTypeTransfer      ReferenceType = "TRANSFER"
	ReferenceTypeCycleCount    ReferenceType = "CYCLE_COUNT"
	ReferenceTypeReturn        ReferenceType = "RETURN"
	ReferenceTypeAdjustment    ReferenceType = "ADJUSTMENT"
)

// IsValid returns true if the reference type is known
func (r ReferenceType) IsValid() bool {
	switch r {
	case ReferenceTypePurchaseOrder, ReferenceTypeShipment, ReferenceTypeTransfer,
		ReferenceTypeCycleCount, ReferenceTypeReturn, ReferenceTypeAdjustment:
		return true
	}
	return false
}

// StockMovement is an immutable ledger entry recording one quantity
// change on a balance. Movements are created, never mutated or deleted;
// the sum of signed quantities per balance key must equal the balance's
// current on-hand quantity.
type StockMovement struct {
	shared.BaseEntity
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_tenant_time,priority:1"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_product"`
	LocationID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_location"`
	LotNumber     string          `gorm:"type:varchar(100);not null;default:''"`
	ExpiryDate    *time.Time      `gorm:"type:date"`
	MovementType  MovementType    `gorm:"type:varchar(20);not null;index:idx_movement_type"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // signed: positive in, negative out
	UnitCost      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // cost basis applied to this change
	ReferenceType ReferenceType   `gorm:"type:varchar(20);not null;index:idx_movement_ref,priority:1"`
	ReferenceID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_ref,priority:2"`
	ActorID       *uuid.UUID      `gorm:"type:uuid"`
	MovedAt       time.Time       `gorm:"not null;index:idx_movement_tenant_time,priority:2"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement records a quantity change against a balance key.
// Quantity carries the sign: positive for stock in, negative for stock out.
func NewStockMovement(
	tenantID, productID, locationID uuid.UUID,
	lot valueobject.LotKey,
	movementType MovementType,
	quantity, unitCost decimal.Decimal,
	referenceType ReferenceType,
	referenceID uuid.UUID,
) (*StockMovement, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}
	if quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity cannot be zero")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	if !referenceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_REFERENCE_TYPE", "Invalid reference type")
	}
	if referenceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference ID cannot be empty")
	}

	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      tenantID,
		ProductID:     productID,
		LocationID:    locationID,
		LotNumber:     lot.LotNumber(),
		ExpiryDate:    lot.ExpiryDate(),
		MovementType:  movementType,
		Quantity:      quantity,
		UnitCost:      unitCost,
		ReferenceType: referenceType,
		ReferenceID:   referenceID,
		MovedAt:       time.Now(),
	}, nil
}

// WithActor attaches the acting user to the movement
func (m *StockMovement) WithActor(actorID uuid.UUID) *StockMovement {
	m.ActorID = &actorID
	return m
}

// LotKey returns the normalized lot key for this movement
func (m *StockMovement) LotKey() valueobject.LotKey {
	return valueobject.NewLotKey(m.LotNumber, m.ExpiryDate)
}

// TotalCost returns the signed value of the movement
func (m *StockMovement) TotalCost() decimal.Decimal {
	return m.Quantity.Mul(m.UnitCost)
}

// IsInbound returns true when the movement increases stock
func (m *StockMovement) IsInbound() bool {
	return m.Quantity.IsPositive()
}
