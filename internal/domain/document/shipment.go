package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
)

// ShipmentStatus represents the status of an outbound shipment
type ShipmentStatus string

const (
	ShipmentStatusDraft     ShipmentStatus = "DRAFT"
	ShipmentStatusConfirmed ShipmentStatus = "CONFIRMED"
	ShipmentStatusCompleted ShipmentStatus = "COMPLETED"
	ShipmentStatusCancelled ShipmentStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ShipmentStatus
func (s ShipmentStatus) IsValid() bool {
	switch s {
	case ShipmentStatusDraft, ShipmentStatusConfirmed, ShipmentStatusCompleted, ShipmentStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ShipmentStatus
func (s ShipmentStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ShipmentStatus) CanTransitionTo(target ShipmentStatus) bool {
	switch s {
	case ShipmentStatusDraft:
		return target == ShipmentStatusConfirmed || target == ShipmentStatusCancelled
	case ShipmentStatusConfirmed:
		return target == ShipmentStatusCompleted || target == ShipmentStatusCancelled
	case ShipmentStatusCompleted, ShipmentStatusCancelled:
		return false // Terminal states
	}
	return false
}

// ShipmentLine represents a line item in a shipment. Lot assignment is
// fixed when the line is added so availability checks and the eventual
// deduction target the same balance row.
type ShipmentLine struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	ShipmentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null"`
	LotNumber  string          `gorm:"type:varchar(100);not null;default:''"`
	ExpiryDate *time.Time      `gorm:"type:date"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Remark     string          `gorm:"type:varchar(255)"`
	CreatedAt  time.Time       `gorm:"not null"`
	UpdatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ShipmentLine) TableName() string {
	return "shipment_lines"
}

// LotKey returns the normalized lot identity for the line
func (l *ShipmentLine) LotKey() valueobject.LotKey {
	return valueobject.NewLotKey(l.LotNumber, l.ExpiryDate)
}

// Shipment is the aggregate root for an outbound order. Stock is
// deducted from the source location when the shipment ships; partial
// shipping is not supported, a shipment ships whole or not at all.
type Shipment struct {
	shared.TenantAggregateRoot
	ShipmentNumber string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_shipment_tenant_number,priority:2"`
	CustomerName   string         `gorm:"type:varchar(200);not null"`
	LocationID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Status         ShipmentStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Remark         string         `gorm:"type:text"`
	ConfirmedAt    *time.Time     `gorm:"index"`
	ShippedAt      *time.Time
	CancelledAt    *time.Time
	CancelReason   string         `gorm:"type:varchar(500)"`
	Lines          []ShipmentLine `gorm:"foreignKey:ShipmentID;references:ID"`
}

// TableName returns the table name for GORM
func (Shipment) TableName() string {
	return "shipments"
}

// NewShipment creates a shipment in draft
func NewShipment(tenantID uuid.UUID, shipmentNumber, customerName string, locationID uuid.UUID) (*Shipment, error) {
	if shipmentNumber == "" {
		return nil, shared.NewDomainError("INVALID_SHIPMENT_NUMBER", "Shipment number cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}

	return &Shipment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ShipmentNumber:      shipmentNumber,
		CustomerName:        customerName,
		LocationID:          locationID,
		Status:              ShipmentStatusDraft,
		Lines:               make([]ShipmentLine, 0),
	}, nil
}

// AddLine adds a line to the shipment. Only allowed in draft.
func (s *Shipment) AddLine(productID uuid.UUID, lot valueobject.LotKey, quantity decimal.Decimal) error {
	if s.Status != ShipmentStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot add lines to a non-draft shipment")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	for _, line := range s.Lines {
		if line.ProductID == productID && line.LotKey().Equal(lot) {
			return shared.NewDomainError("DUPLICATE_LINE", "Product and lot already exist in shipment")
		}
	}

	now := time.Now()
	s.Lines = append(s.Lines, ShipmentLine{
		ID:         uuid.New(),
		ShipmentID: s.ID,
		ProductID:  productID,
		LotNumber:  lot.LotNumber(),
		ExpiryDate: lot.ExpiryDate(),
		Quantity:   quantity,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	s.UpdatedAt = now
	s.IncrementVersion()

	return nil
}

// RemoveLine removes a line from a draft shipment
func (s *Shipment) RemoveLine(lineID uuid.UUID) error {
	if s.Status != ShipmentStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove lines from a non-draft shipment")
	}

	for i, line := range s.Lines {
		if line.ID == lineID {
			s.Lines = append(s.Lines[:i], s.Lines[i+1:]...)
			s.UpdatedAt = time.Now()
			s.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Shipment line not found")
}

// Confirm transitions the shipment from draft to confirmed. Stock
// availability is validated by the application service before confirm
// and again at ship time.
func (s *Shipment) Confirm() error {
	if !s.Status.CanTransitionTo(ShipmentStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm shipment in %s status", s.Status))
	}
	if len(s.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot confirm a shipment without lines")
	}

	now := time.Now()
	s.Status = ShipmentStatusConfirmed
	s.ConfirmedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	return nil
}

// Ship completes the shipment. The caller deducts balances for every
// line inside the same transaction.
func (s *Shipment) Ship() error {
	if !s.Status.CanTransitionTo(ShipmentStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot ship in %s status", s.Status))
	}

	now := time.Now()
	s.Status = ShipmentStatusCompleted
	s.ShippedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewShipmentShippedEvent(s))

	return nil
}

// Cancel cancels the shipment before it ships
func (s *Shipment) Cancel(reason string) error {
	if !s.Status.CanTransitionTo(ShipmentStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel shipment in %s status", s.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	s.Status = ShipmentStatusCancelled
	s.CancelledAt = &now
	s.CancelReason = reason
	s.UpdatedAt = now
	s.IncrementVersion()

	return nil
}

// CanModify returns true while lines may be edited
func (s *Shipment) CanModify() bool {
	return s.Status == ShipmentStatusDraft
}

// IsTerminal returns true in completed or cancelled status
func (s *Shipment) IsTerminal() bool {
	return s.Status == ShipmentStatusCompleted || s.Status == ShipmentStatusCancelled
}
