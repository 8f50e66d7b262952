package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusConfirmed PurchaseOrderStatus = "CONFIRMED"
	PurchaseOrderStatusPartial   PurchaseOrderStatus = "PARTIAL"
	PurchaseOrderStatusCompleted PurchaseOrderStatus = "COMPLETED"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusConfirmed, PurchaseOrderStatusPartial,
		PurchaseOrderStatusCompleted, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusConfirmed || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusConfirmed:
		return target == PurchaseOrderStatusPartial || target == PurchaseOrderStatusCompleted ||
			target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusPartial:
		return target == PurchaseOrderStatusPartial || target == PurchaseOrderStatusCompleted
	case PurchaseOrderStatusCompleted, PurchaseOrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// CanReceive returns true if receiving goods is allowed in this status
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusConfirmed || s == PurchaseOrderStatusPartial
}

// PurchaseOrderLine represents a line item in a purchase order
type PurchaseOrderLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	OrderedQty  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQty decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Remark      string          `gorm:"type:varchar(255)"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderLine) TableName() string {
	return "purchase_order_lines"
}

// RemainingQty returns the quantity still to be received
func (l *PurchaseOrderLine) RemainingQty() decimal.Decimal {
	remaining := l.OrderedQty.Sub(l.ReceivedQty)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsFullyReceived returns true if all ordered quantity has been received
func (l *PurchaseOrderLine) IsFullyReceived() bool {
	return l.ReceivedQty.GreaterThanOrEqual(l.OrderedQty)
}

// addReceivedQty adds to the received quantity, rejecting over-receipt
func (l *PurchaseOrderLine) addReceivedQty(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be positive")
	}
	newReceived := l.ReceivedQty.Add(quantity)
	if newReceived.GreaterThan(l.OrderedQty) {
		return shared.NewDomainError("QUANTITY_EXCEEDED",
			fmt.Sprintf("Cannot receive %s, only %s remaining", quantity.String(), l.RemainingQty().String()))
	}

	l.ReceivedQty = newReceived
	l.UpdatedAt = time.Now()

	return nil
}

// ReceiveLine describes one line of an incoming receipt
type ReceiveLine struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal // optional: overrides the line cost when non-zero
	Lot       valueobject.LotKey
}

// ReceivedLineInfo reports a line accepted by a receipt, with the cost
// basis the inventory update must use
type ReceivedLineInfo struct {
	LineID    uuid.UUID
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	Lot       valueobject.LotKey
}

// PurchaseOrder is the aggregate root for a supplier order. It receives
// stock into one location; receipts may arrive in several partial calls
// and the order completes when every line is fully received.
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	OrderNumber  string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_po_tenant_number,priority:2"`
	SupplierName string              `gorm:"type:varchar(200);not null"`
	LocationID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	Status       PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	TotalAmount  decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Remark       string              `gorm:"type:text"`
	ConfirmedAt  *time.Time          `gorm:"index"`
	CompletedAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string              `gorm:"type:varchar(500)"`
	Lines        []PurchaseOrderLine `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a purchase order in draft
func NewPurchaseOrder(tenantID uuid.UUID, orderNumber, supplierName string, locationID uuid.UUID) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier name cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}

	return &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		SupplierName:        supplierName,
		LocationID:          locationID,
		Status:              PurchaseOrderStatusDraft,
		TotalAmount:         decimal.Zero,
		Lines:               make([]PurchaseOrderLine, 0),
	}, nil
}

// AddLine adds a line to the order. Only allowed in draft.
func (o *PurchaseOrder) AddLine(productID uuid.UUID, quantity, unitCost decimal.Decimal) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot add lines to a non-draft order")
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
	for _, line := range o.Lines {
		if line.ProductID == productID {
			return shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order, update quantity instead")
		}
	}

	now := time.Now()
	o.Lines = append(o.Lines, PurchaseOrderLine{
		ID:          uuid.New(),
		OrderID:     o.ID,
		ProductID:   productID,
		OrderedQty:  quantity,
		ReceivedQty: decimal.Zero,
		UnitCost:    unitCost,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	o.recalculateTotal()
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// UpdateLineQuantity changes the ordered quantity of a draft line
func (o *PurchaseOrder) UpdateLineQuantity(lineID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update lines on a non-draft order")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	for i := range o.Lines {
		if o.Lines[i].ID == lineID {
			o.Lines[i].OrderedQty = quantity
			o.Lines[i].UpdatedAt = time.Now()
			o.recalculateTotal()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
}

// RemoveLine removes a line from a draft order
func (o *PurchaseOrder) RemoveLine(lineID uuid.UUID) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove lines from a non-draft order")
	}

	for i, line := range o.Lines {
		if line.ID == lineID {
			o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
			o.recalculateTotal()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
}

// Confirm transitions the order from draft to confirmed
func (o *PurchaseOrder) Confirm() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	if len(o.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot confirm an order without lines")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderConfirmedEvent(o))

	return nil
}

// Receive applies a (possibly partial) receipt. It validates every line
// before mutating any of them, so a rejected receipt leaves the order
// untouched. The order moves to PARTIAL until all lines are fully
// received, then to COMPLETED.
func (o *PurchaseOrder) Receive(receiveLines []ReceiveLine) ([]ReceivedLineInfo, error) {
	if !o.Status.CanReceive() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot receive goods in %s status", o.Status))
	}
	if len(receiveLines) == 0 {
		return nil, shared.NewDomainError("NO_LINES", "Receive lines cannot be empty")
	}

	// Validation pass: every receive line must match an order line and
	// stay within the remaining quantity.
	for _, rl := range receiveLines {
		if rl.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_QUANTITY",
				fmt.Sprintf("Receive quantity for product %s must be positive", rl.ProductID))
		}
		line := o.lineByProduct(rl.ProductID)
		if line == nil {
			return nil, shared.NewDomainError("LINE_NOT_FOUND",
				fmt.Sprintf("Product %s not found in order", rl.ProductID))
		}
		if rl.Quantity.GreaterThan(line.RemainingQty()) {
			return nil, shared.NewDomainError("QUANTITY_EXCEEDED",
				fmt.Sprintf("Cannot receive %s of product %s, only %s remaining",
					rl.Quantity.String(), rl.ProductID, line.RemainingQty().String()))
		}
	}

	received := make([]ReceivedLineInfo, 0, len(receiveLines))
	for _, rl := range receiveLines {
		line := o.lineByProduct(rl.ProductID)
		if err := line.addReceivedQty(rl.Quantity); err != nil {
			return nil, err
		}

		unitCost := line.UnitCost
		if !rl.UnitCost.IsZero() {
			unitCost = rl.UnitCost
		}

		received = append(received, ReceivedLineInfo{
			LineID:    line.ID,
			ProductID: rl.ProductID,
			Quantity:  rl.Quantity,
			UnitCost:  unitCost,
			Lot:       rl.Lot,
		})
	}

	now := time.Now()
	if o.isFullyReceived() {
		o.Status = PurchaseOrderStatusCompleted
		o.CompletedAt = &now
	} else {
		o.Status = PurchaseOrderStatusPartial
	}
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o, received))

	return received, nil
}

// Cancel cancels the order; not allowed once any goods were received
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	for _, line := range o.Lines {
		if line.ReceivedQty.GreaterThan(decimal.Zero) {
			return shared.NewDomainError("ALREADY_RECEIVED", "Cannot cancel an order after goods have been received")
		}
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// CanModify returns true while lines may be edited
func (o *PurchaseOrder) CanModify() bool {
	return o.Status == PurchaseOrderStatusDraft
}

// IsTerminal returns true in completed or cancelled status
func (o *PurchaseOrder) IsTerminal() bool {
	return o.Status == PurchaseOrderStatusCompleted || o.Status == PurchaseOrderStatusCancelled
}

func (o *PurchaseOrder) lineByProduct(productID uuid.UUID) *PurchaseOrderLine {
	for i := range o.Lines {
		if o.Lines[i].ProductID == productID {
			return &o.Lines[i]
		}
	}
	return nil
}

func (o *PurchaseOrder) isFullyReceived() bool {
	for _, line := range o.Lines {
		if !line.IsFullyReceived() {
			return false
		}
	}
	return len(o.Lines) > 0
}

func (o *PurchaseOrder) recalculateTotal() {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.OrderedQty.Mul(line.UnitCost))
	}
	o.TotalAmount = total
}
