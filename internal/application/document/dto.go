package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/document"
)

// ===================== Purchase order =====================

// PurchaseOrderLineRequest is one ordered line
type PurchaseOrderLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost  decimal.Decimal `json:"unit_cost" binding:"required"`
}

// CreatePurchaseOrderRequest creates a draft purchase order
type CreatePurchaseOrderRequest struct {
	SupplierName string                     `json:"supplier_name" binding:"required"`
	LocationID   uuid.UUID                  `json:"location_id" binding:"required"`
	Remark       string                     `json:"remark"`
	Lines        []PurchaseOrderLineRequest `json:"lines"`
}

// ReceiveLineRequest is one line of an incoming receipt
type ReceiveLineRequest struct {
	ProductID  uuid.UUID       `json:"product_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	LotNumber  string          `json:"lot_number"`
	ExpiryDate *time.Time      `json:"expiry_date"`
}

// ReceivePurchaseOrderRequest posts a (possibly partial) receipt
type ReceivePurchaseOrderRequest struct {
	Lines []ReceiveLineRequest `json:"lines" binding:"required,min=1"`
}

// CancelRequest carries the mandatory cancellation reason
type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// PurchaseOrderLineResponse is the API representation of an order line
type PurchaseOrderLineResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	OrderedQty   decimal.Decimal `json:"ordered_qty"`
	ReceivedQty  decimal.Decimal `json:"received_qty"`
	RemainingQty decimal.Decimal `json:"remaining_qty"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Remark       string          `json:"remark,omitempty"`
}

// PurchaseOrderResponse is the API representation of a purchase order
type PurchaseOrderResponse struct {
	ID           uuid.UUID                   `json:"id"`
	OrderNumber  string                      `json:"order_number"`
	SupplierName string                      `json:"supplier_name"`
	LocationID   uuid.UUID                   `json:"location_id"`
	Status       string                      `json:"status"`
	TotalAmount  decimal.Decimal             `json:"total_amount"`
	Remark       string                      `json:"remark,omitempty"`
	ConfirmedAt  *time.Time                  `json:"confirmed_at,omitempty"`
	CompletedAt  *time.Time                  `json:"completed_at,omitempty"`
	CancelledAt  *time.Time                  `json:"cancelled_at,omitempty"`
	CancelReason string                      `json:"cancel_reason,omitempty"`
	Lines        []PurchaseOrderLineResponse `json:"lines"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

// ToPurchaseOrderResponse converts a purchase order aggregate
func ToPurchaseOrderResponse(o *document.PurchaseOrder) PurchaseOrderResponse {
	lines := make([]PurchaseOrderLineResponse, 0, len(o.Lines))
	for i := range o.Lines {
		l := &o.Lines[i]
		lines = append(lines, PurchaseOrderLineResponse{
			ID:           l.ID,
			ProductID:    l.ProductID,
			OrderedQty:   l.OrderedQty,
			ReceivedQty:  l.ReceivedQty,
			RemainingQty: l.RemainingQty(),
			UnitCost:     l.UnitCost,
			Remark:       l.Remark,
		})
	}
	return PurchaseOrderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		SupplierName: o.SupplierName,
		LocationID:   o.LocationID,
		Status:       o.Status.String(),
		TotalAmount:  o.TotalAmount,
		Remark:       o.Remark,
		ConfirmedAt:  o.ConfirmedAt,
		CompletedAt:  o.CompletedAt,
		CancelledAt:  o.CancelledAt,
		CancelReason: o.CancelReason,
		Lines:        lines,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// ToPurchaseOrderResponses converts a slice of purchase orders
func ToPurchaseOrderResponses(orders []*document.PurchaseOrder) []PurchaseOrderResponse {
	responses := make([]PurchaseOrderResponse, 0, len(orders))
	for _, o := range orders {
		responses = append(responses, ToPurchaseOrderResponse(o))
	}
	return responses
}

// ===================== Shipment =====================

// ShipmentLineRequest is one line to ship
type ShipmentLineRequest struct {
	ProductID  uuid.UUID       `json:"product_id" binding:"required"`
	LotNumber  string          `json:"lot_number"`
	ExpiryDate *time.Time      `json:"expiry_date"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateShipmentRequest creates a draft shipment
type CreateShipmentRequest struct {
	CustomerName string                `json:"customer_name" binding:"required"`
	LocationID   uuid.UUID             `json:"location_id" binding:"required"`
	Remark       string                `json:"remark"`
	Lines        []ShipmentLineRequest `json:"lines"`
}

// ShipmentLineResponse is the API representation of a shipment line
type ShipmentLineResponse struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	LotNumber  string          `json:"lot_number,omitempty"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	Remark     string          `json:"remark,omitempty"`
}

// ShipmentResponse is the API representation of a shipment
type ShipmentResponse struct {
	ID             uuid.UUID              `json:"id"`
	ShipmentNumber string                 `json:"shipment_number"`
	CustomerName   string                 `json:"customer_name"`
	LocationID     uuid.UUID              `json:"location_id"`
	Status         string                 `json:"status"`
	Remark         string                 `json:"remark,omitempty"`
	ConfirmedAt    *time.Time             `json:"confirmed_at,omitempty"`
	ShippedAt      *time.Time             `json:"shipped_at,omitempty"`
	CancelledAt    *time.Time             `json:"cancelled_at,omitempty"`
	CancelReason   string                 `json:"cancel_reason,omitempty"`
	Lines          []ShipmentLineResponse `json:"lines"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// ToShipmentResponse converts a shipment aggregate
func ToShipmentResponse(s *document.Shipment) ShipmentResponse {
	lines := make([]ShipmentLineResponse, 0, len(s.Lines))
	for i := range s.Lines {
		l := &s.Lines[i]
		lines = append(lines, ShipmentLineResponse{
			ID:         l.ID,
			ProductID:  l.ProductID,
			LotNumber:  l.LotNumber,
			ExpiryDate: l.ExpiryDate,
			Quantity:   l.Quantity,
			Remark:     l.Remark,
		})
	}
	return ShipmentResponse{
		ID:             s.ID,
		ShipmentNumber: s.ShipmentNumber,
		CustomerName:   s.CustomerName,
		LocationID:     s.LocationID,
		Status:         s.Status.String(),
		Remark:         s.Remark,
		ConfirmedAt:    s.ConfirmedAt,
		ShippedAt:      s.ShippedAt,
		CancelledAt:    s.CancelledAt,
		CancelReason:   s.CancelReason,
		Lines:          lines,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// ToShipmentResponses converts a slice of shipments
func ToShipmentResponses(shipments []*document.Shipment) []ShipmentResponse {
	responses := make([]ShipmentResponse, 0, len(shipments))
	for _, s := range shipments {
		responses = append(responses, ToShipmentResponse(s))
	}
	return responses
}

// ===================== Transfer =====================

// TransferLineRequest is one line to transfer
type TransferLineRequest struct {
	ProductID  uuid.UUID       `json:"product_id" binding:"required"`
	LotNumber  string          `json:"lot_number"`
	ExpiryDate *time.Time      `json:"expiry_date"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateTransferRequest creates a draft transfer
type CreateTransferRequest struct {
	FromLocationID uuid.UUID             `json:"from_location_id" binding:"required"`
	ToLocationID   uuid.UUID             `json:"to_location_id" binding:"required"`
	Remark         string                `json:"remark"`
	Lines          []TransferLineRequest `json:"lines"`
}

// TransferLineResponse is the API representation of a transfer line
type TransferLineResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	LotNumber    string          `json:"lot_number,omitempty"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	SentUnitCost decimal.Decimal `json:"sent_unit_cost"`
	Remark       string          `json:"remark,omitempty"`
}

// TransferResponse is the API representation of a transfer
type TransferResponse struct {
	ID             uuid.UUID              `json:"id"`
	TransferNumber string                 `json:"transfer_number"`
	FromLocationID uuid.UUID              `json:"from_location_id"`
	ToLocationID   uuid.UUID              `json:"to_location_id"`
	Status         string                 `json:"status"`
	Remark         string                 `json:"remark,omitempty"`
	SentAt         *time.Time             `json:"sent_at,omitempty"`
	ReceivedAt     *time.Time             `json:"received_at,omitempty"`
	CancelledAt    *time.Time             `json:"cancelled_at,omitempty"`
	CancelReason   string                 `json:"cancel_reason,omitempty"`
	Lines          []TransferLineResponse `json:"lines"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// ToTransferResponse converts a transfer aggregate
func ToTransferResponse(t *document.Transfer) TransferResponse {
	lines := make([]TransferLineResponse, 0, len(t.Lines))
	for i := range t.Lines {
		l := &t.Lines[i]
		lines = append(lines, TransferLineResponse{
			ID:           l.ID,
			ProductID:    l.ProductID,
			LotNumber:    l.LotNumber,
			ExpiryDate:   l.ExpiryDate,
			Quantity:     l.Quantity,
			SentUnitCost: l.SentUnitCost,
			Remark:       l.Remark,
		})
	}
	return TransferResponse{
		ID:             t.ID,
		TransferNumber: t.TransferNumber,
		FromLocationID: t.FromLocationID,
		ToLocationID:   t.ToLocationID,
		Status:         t.Status.String(),
		Remark:         t.Remark,
		SentAt:         t.SentAt,
		ReceivedAt:     t.ReceivedAt,
		CancelledAt:    t.CancelledAt,
		CancelReason:   t.CancelReason,
		Lines:          lines,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// ToTransferResponses converts a slice of transfers
func ToTransferResponses(transfers []*document.Transfer) []TransferResponse {
	responses := make([]TransferResponse, 0, len(transfers))
	for _, t := range transfers {
		responses = append(responses, ToTransferResponse(t))
	}
	return responses
}

// ===================== Return =====================

// ReturnLineRequest is one returned line
type ReturnLineRequest struct {
	ProductID  uuid.UUID       `json:"product_id" binding:"required"`
	LotNumber  string          `json:"lot_number"`
	ExpiryDate *time.Time      `json:"expiry_date"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Reason     string          `json:"reason"`
}

// CreateReturnRequest creates a draft return order
type CreateReturnRequest struct {
	Direction  string              `json:"direction" binding:"required"`
	PartyName  string              `json:"party_name" binding:"required"`
	LocationID uuid.UUID           `json:"location_id" binding:"required"`
	Remark     string              `json:"remark"`
	Lines      []ReturnLineRequest `json:"lines"`
}

// ReturnLineResponse is the API representation of a return line
type ReturnLineResponse struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	LotNumber  string          `json:"lot_number,omitempty"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Reason     string          `json:"reason,omitempty"`
}

// ReturnResponse is the API representation of a return order
type ReturnResponse struct {
	ID           uuid.UUID            `json:"id"`
	ReturnNumber string               `json:"return_number"`
	Direction    string               `json:"direction"`
	PartyName    string               `json:"party_name"`
	LocationID   uuid.UUID            `json:"location_id"`
	Status       string               `json:"status"`
	Remark       string               `json:"remark,omitempty"`
	CompletedAt  *time.Time           `json:"completed_at,omitempty"`
	CancelledAt  *time.Time           `json:"cancelled_at,omitempty"`
	CancelReason string               `json:"cancel_reason,omitempty"`
	Lines        []ReturnLineResponse `json:"lines"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// ToReturnResponse converts a return order aggregate
func ToReturnResponse(r *document.ReturnOrder) ReturnResponse {
	lines := make([]ReturnLineResponse, 0, len(r.Lines))
	for i := range r.Lines {
		l := &r.Lines[i]
		lines = append(lines, ReturnLineResponse{
			ID:         l.ID,
			ProductID:  l.ProductID,
			LotNumber:  l.LotNumber,
			ExpiryDate: l.ExpiryDate,
			Quantity:   l.Quantity,
			UnitCost:   l.UnitCost,
			Reason:     l.Reason,
		})
	}
	return ReturnResponse{
		ID:           r.ID,
		ReturnNumber: r.ReturnNumber,
		Direction:    r.Direction.String(),
		PartyName:    r.PartyName,
		LocationID:   r.LocationID,
		Status:       r.Status.String(),
		Remark:       r.Remark,
		CompletedAt:  r.CompletedAt,
		CancelledAt:  r.CancelledAt,
		CancelReason: r.CancelReason,
		Lines:        lines,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// ToReturnResponses converts a slice of return orders
func ToReturnResponses(returns []*document.ReturnOrder) []ReturnResponse {
	responses := make([]ReturnResponse, 0, len(returns))
	for _, r := range returns {
		responses = append(responses, ToReturnResponse(r))
	}
	return responses
}

// ===================== Adjustment =====================

// AdjustmentLineRequest is one signed adjustment line
type AdjustmentLineRequest struct {
	ProductID     uuid.UUID       `json:"product_id" binding:"required"`
	LotNumber     string          `json:"lot_number"`
	ExpiryDate    *time.Time      `json:"expiry_date"`
	QuantityDelta decimal.Decimal `json:"quantity_delta" binding:"required"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Reason        string          `json:"reason" binding:"required"`
}

// CreateAdjustmentRequest creates a draft adjustment
type CreateAdjustmentRequest struct {
	LocationID uuid.UUID               `json:"location_id" binding:"required"`
	Remark     string                  `json:"remark"`
	Lines      []AdjustmentLineRequest `json:"lines"`
}

// AdjustmentLineResponse is the API representation of an adjustment line
type AdjustmentLineResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	LotNumber     string          `json:"lot_number,omitempty"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	QuantityDelta decimal.Decimal `json:"quantity_delta"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Reason        string          `json:"reason"`
}

// AdjustmentResponse is the API representation of an adjustment
type AdjustmentResponse struct {
	ID               uuid.UUID                `json:"id"`
	AdjustmentNumber string                   `json:"adjustment_number"`
	LocationID       uuid.UUID                `json:"location_id"`
	Status           string                   `json:"status"`
	Remark           string                   `json:"remark,omitempty"`
	CompletedAt      *time.Time               `json:"completed_at,omitempty"`
	CancelledAt      *time.Time               `json:"cancelled_at,omitempty"`
	CancelReason     string                   `json:"cancel_reason,omitempty"`
	Lines            []AdjustmentLineResponse `json:"lines"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

// ToAdjustmentResponse converts an adjustment aggregate
func ToAdjustmentResponse(a *document.Adjustment) AdjustmentResponse {
	lines := make([]AdjustmentLineResponse, 0, len(a.Lines))
	for i := range a.Lines {
		l := &a.Lines[i]
		lines = append(lines, AdjustmentLineResponse{
			ID:            l.ID,
			ProductID:     l.ProductID,
			LotNumber:     l.LotNumber,
			ExpiryDate:    l.ExpiryDate,
			QuantityDelta: l.QuantityDelta,
			UnitCost:      l.UnitCost,
			Reason:        l.Reason,
		})
	}
	return AdjustmentResponse{
		ID:               a.ID,
		AdjustmentNumber: a.AdjustmentNumber,
		LocationID:       a.LocationID,
		Status:           a.Status.String(),
		Remark:           a.Remark,
		CompletedAt:      a.CompletedAt,
		CancelledAt:      a.CancelledAt,
		CancelReason:     a.CancelReason,
		Lines:            lines,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

// ToAdjustmentResponses converts a slice of adjustments
func ToAdjustmentResponses(adjustments []*document.Adjustment) []AdjustmentResponse {
	responses := make([]AdjustmentResponse, 0, len(adjustments))
	for _, a := range adjustments {
		responses = append(responses, ToAdjustmentResponse(a))
	}
	return responses
}
