package document

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
)

const (
	EventTypePurchaseOrderConfirmed = "document.purchase_order.confirmed"
	EventTypePurchaseOrderReceived  = "document.purchase_order.received"
	EventTypeShipmentShipped        = "document.shipment.shipped"
	EventTypeTransferSent           = "document.transfer.sent"
	EventTypeTransferReceived       = "document.transfer.received"
	EventTypeReturnCompleted        = "document.return.completed"
	EventTypeAdjustmentCompleted    = "document.adjustment.completed"
)

// PurchaseOrderConfirmedEvent is raised when a purchase order is confirmed
type PurchaseOrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderNumber  string          `json:"order_number"`
	SupplierName string          `json:"supplier_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// NewPurchaseOrderConfirmedEvent creates a PurchaseOrderConfirmedEvent
func NewPurchaseOrderConfirmedEvent(o *PurchaseOrder) *PurchaseOrderConfirmedEvent {
	return &PurchaseOrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderConfirmed, "PurchaseOrder", o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
		SupplierName:    o.SupplierName,
		TotalAmount:     o.TotalAmount,
	}
}

// ReceivedEventLine is the per-line payload of a receipt event
type ReceivedEventLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	LotNumber string          `json:"lot_number,omitempty"`
}

// PurchaseOrderReceivedEvent is raised on every receipt, partial or final
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string              `json:"order_number"`
	Status      PurchaseOrderStatus `json:"status"`
	Lines       []ReceivedEventLine `json:"lines"`
}

// NewPurchaseOrderReceivedEvent creates a PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(o *PurchaseOrder, received []ReceivedLineInfo) *PurchaseOrderReceivedEvent {
	lines := make([]ReceivedEventLine, 0, len(received))
	for _, r := range received {
		lines = append(lines, ReceivedEventLine{
			ProductID: r.ProductID,
			Quantity:  r.Quantity,
			UnitCost:  r.UnitCost,
			LotNumber: r.Lot.LotNumber(),
		})
	}
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, "PurchaseOrder", o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
		Status:          o.Status,
		Lines:           lines,
	}
}

// ShipmentShippedEvent is raised when a shipment completes
type ShipmentShippedEvent struct {
	shared.BaseDomainEvent
	ShipmentNumber string    `json:"shipment_number"`
	CustomerName   string    `json:"customer_name"`
	LocationID     uuid.UUID `json:"location_id"`
}

// NewShipmentShippedEvent creates a ShipmentShippedEvent
func NewShipmentShippedEvent(s *Shipment) *ShipmentShippedEvent {
	return &ShipmentShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShipmentShipped, "Shipment", s.ID, s.TenantID),
		ShipmentNumber:  s.ShipmentNumber,
		CustomerName:    s.CustomerName,
		LocationID:      s.LocationID,
	}
}

// TransferSentEvent is raised when the send leg of a transfer posts
type TransferSentEvent struct {
	shared.BaseDomainEvent
	TransferNumber string    `json:"transfer_number"`
	FromLocationID uuid.UUID `json:"from_location_id"`
	ToLocationID   uuid.UUID `json:"to_location_id"`
}

// NewTransferSentEvent creates a TransferSentEvent
func NewTransferSentEvent(t *Transfer) *TransferSentEvent {
	return &TransferSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferSent, "Transfer", t.ID, t.TenantID),
		TransferNumber:  t.TransferNumber,
		FromLocationID:  t.FromLocationID,
		ToLocationID:    t.ToLocationID,
	}
}

// TransferReceivedEvent is raised when the receive leg of a transfer posts
type TransferReceivedEvent struct {
	shared.BaseDomainEvent
	TransferNumber string    `json:"transfer_number"`
	FromLocationID uuid.UUID `json:"from_location_id"`
	ToLocationID   uuid.UUID `json:"to_location_id"`
}

// NewTransferReceivedEvent creates a TransferReceivedEvent
func NewTransferReceivedEvent(t *Transfer) *TransferReceivedEvent {
	return &TransferReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferReceived, "Transfer", t.ID, t.TenantID),
		TransferNumber:  t.TransferNumber,
		FromLocationID:  t.FromLocationID,
		ToLocationID:    t.ToLocationID,
	}
}

// ReturnCompletedEvent is raised when a return order posts
type ReturnCompletedEvent struct {
	shared.BaseDomainEvent
	ReturnNumber string          `json:"return_number"`
	Direction    ReturnDirection `json:"direction"`
	LocationID   uuid.UUID       `json:"location_id"`
}

// NewReturnCompletedEvent creates a ReturnCompletedEvent
func NewReturnCompletedEvent(r *ReturnOrder) *ReturnCompletedEvent {
	return &ReturnCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnCompleted, "ReturnOrder", r.ID, r.TenantID),
		ReturnNumber:    r.ReturnNumber,
		Direction:       r.Direction,
		LocationID:      r.LocationID,
	}
}

// AdjustmentCompletedEvent is raised when an adjustment posts
type AdjustmentCompletedEvent struct {
	shared.BaseDomainEvent
	AdjustmentNumber string    `json:"adjustment_number"`
	LocationID       uuid.UUID `json:"location_id"`
}

// NewAdjustmentCompletedEvent creates an AdjustmentCompletedEvent
func NewAdjustmentCompletedEvent(a *Adjustment) *AdjustmentCompletedEvent {
	return &AdjustmentCompletedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeAdjustmentCompleted, "Adjustment", a.ID, a.TenantID),
		AdjustmentNumber: a.AdjustmentNumber,
		LocationID:       a.LocationID,
	}
}
