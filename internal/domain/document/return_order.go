package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
)

// ReturnDirection distinguishes customer returns (stock comes back in)
// from supplier returns (stock goes back out)
type ReturnDirection string

const (
	ReturnDirectionCustomer ReturnDirection = "CUSTOMER"
	ReturnDirectionSupplier ReturnDirection = "SUPPLIER"
)

// IsValid checks if the direction is a valid ReturnDirection
func (d ReturnDirection) IsValid() bool {
	return d == ReturnDirectionCustomer || d == ReturnDirectionSupplier
}

// String returns the string representation of ReturnDirection
func (d ReturnDirection) String() string {
	return string(d)
}

// ReturnStatus represents the status of a return order
type ReturnStatus string

const (
	ReturnStatusDraft     ReturnStatus = "DRAFT"
	ReturnStatusCompleted ReturnStatus = "COMPLETED"
	ReturnStatusCancelled ReturnStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ReturnStatus
func (s ReturnStatus) IsValid() bool {
	switch s {
	case ReturnStatusDraft, ReturnStatusCompleted, ReturnStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ReturnStatus
func (s ReturnStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ReturnStatus) CanTransitionTo(target ReturnStatus) bool {
	if s != ReturnStatusDraft {
		return false // Terminal states
	}
	return target == ReturnStatusCompleted || target == ReturnStatusCancelled
}

// ReturnLine represents a line item in a return order. UnitCost is the
// cost basis for customer returns; supplier returns deduct at the
// current balance cost and ignore it.
type ReturnLine struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReturnID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null"`
	LotNumber  string          `gorm:"type:varchar(100);not null;default:''"`
	ExpiryDate *time.Time      `gorm:"type:date"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Reason     string          `gorm:"type:varchar(255)"`
	CreatedAt  time.Time       `gorm:"not null"`
	UpdatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReturnLine) TableName() string {
	return "return_lines"
}

// LotKey returns the normalized lot identity for the line
func (l *ReturnLine) LotKey() valueobject.LotKey {
	return valueobject.NewLotKey(l.LotNumber, l.ExpiryDate)
}

// ReturnOrder is the aggregate root for returned goods in either
// direction. It posts in a single step from draft.
type ReturnOrder struct {
	shared.TenantAggregateRoot
	ReturnNumber string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_return_tenant_number,priority:2"`
	Direction    ReturnDirection `gorm:"type:varchar(20);not null"`
	PartyName    string          `gorm:"type:varchar(200);not null"`
	LocationID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status       ReturnStatus    `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Remark       string          `gorm:"type:text"`
	CompletedAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string       `gorm:"type:varchar(500)"`
	Lines        []ReturnLine `gorm:"foreignKey:ReturnID;references:ID"`
}

// TableName returns the table name for GORM
func (ReturnOrder) TableName() string {
	return "return_orders"
}

// NewReturnOrder creates a return order in draft
func NewReturnOrder(tenantID uuid.UUID, returnNumber string, direction ReturnDirection, partyName string, locationID uuid.UUID) (*ReturnOrder, error) {
	if returnNumber == "" {
		return nil, shared.NewDomainError("INVALID_RETURN_NUMBER", "Return number cannot be empty")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", fmt.Sprintf("Invalid return direction: %s", direction))
	}
	if partyName == "" {
		return nil, shared.NewDomainError("INVALID_PARTY", "Party name cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}

	return &ReturnOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ReturnNumber:        returnNumber,
		Direction:           direction,
		PartyName:           partyName,
		LocationID:          locationID,
		Status:              ReturnStatusDraft,
		Lines:               make([]ReturnLine, 0),
	}, nil
}

// AddLine adds a line to the return. Customer returns require a
// positive unit cost as the basis for putting stock back.
func (r *ReturnOrder) AddLine(productID uuid.UUID, lot valueobject.LotKey, quantity, unitCost decimal.Decimal, reason string) error {
	if r.Status != ReturnStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot add lines to a non-draft return")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	if r.Direction == ReturnDirectionCustomer && unitCost.IsZero() {
		return shared.NewDomainError("INVALID_COST", "Customer return lines require a unit cost")
	}
	for _, line := range r.Lines {
		if line.ProductID == productID && line.LotKey().Equal(lot) {
			return shared.NewDomainError("DUPLICATE_LINE", "Product and lot already exist in return")
		}
	}

	now := time.Now()
	r.Lines = append(r.Lines, ReturnLine{
		ID:         uuid.New(),
		ReturnID:   r.ID,
		ProductID:  productID,
		LotNumber:  lot.LotNumber(),
		ExpiryDate: lot.ExpiryDate(),
		Quantity:   quantity,
		UnitCost:   unitCost,
		Reason:     reason,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// RemoveLine removes a line from a draft return
func (r *ReturnOrder) RemoveLine(lineID uuid.UUID) error {
	if r.Status != ReturnStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove lines from a non-draft return")
	}

	for i, line := range r.Lines {
		if line.ID == lineID {
			r.Lines = append(r.Lines[:i], r.Lines[i+1:]...)
			r.UpdatedAt = time.Now()
			r.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Return line not found")
}

// Complete posts the return. The caller applies the balance updates
// inside the same transaction.
func (r *ReturnOrder) Complete() error {
	if !r.Status.CanTransitionTo(ReturnStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete return in %s status", r.Status))
	}
	if len(r.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot complete a return without lines")
	}

	now := time.Now()
	r.Status = ReturnStatusCompleted
	r.CompletedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReturnCompletedEvent(r))

	return nil
}

// Cancel cancels the return before it posts
func (r *ReturnOrder) Cancel(reason string) error {
	if !r.Status.CanTransitionTo(ReturnStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel return in %s status", r.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	r.Status = ReturnStatusCancelled
	r.CancelledAt = &now
	r.CancelReason = reason
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// IsInbound returns true when the return adds stock back to the location
func (r *ReturnOrder) IsInbound() bool {
	return r.Direction == ReturnDirectionCustomer
}

// CanModify returns true while lines may be edited
func (r *ReturnOrder) CanModify() bool {
	return r.Status == ReturnStatusDraft
}
