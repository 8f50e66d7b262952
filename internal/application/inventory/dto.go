package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/inventory"
)

// BalanceResponse is the API representation of an inventory balance
type BalanceResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	LocationID     uuid.UUID       `json:"location_id"`
	LotNumber      string          `json:"lot_number,omitempty"`
	ExpiryDate     *time.Time      `json:"expiry_date,omitempty"`
	QtyOnHand      decimal.Decimal `json:"qty_on_hand"`
	AvgCost        decimal.Decimal `json:"avg_cost"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToBalanceResponse converts a balance aggregate to its response form
func ToBalanceResponse(b *inventory.InventoryBalance) BalanceResponse {
	return BalanceResponse{
		ID:             b.ID,
		ProductID:      b.ProductID,
		LocationID:     b.LocationID,
		LotNumber:      b.LotNumber,
		ExpiryDate:     b.ExpiryDate,
		QtyOnHand:      b.QtyOnHand,
		AvgCost:        b.AvgCost,
		InventoryValue: b.InventoryValue(),
		UpdatedAt:      b.UpdatedAt,
	}
}

// ToBalanceResponses converts a slice of balances
func ToBalanceResponses(balances []inventory.InventoryBalance) []BalanceResponse {
	responses := make([]BalanceResponse, 0, len(balances))
	for i := range balances {
		responses = append(responses, ToBalanceResponse(&balances[i]))
	}
	return responses
}

// MovementResponse is the API representation of a stock movement
type MovementResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	LocationID    uuid.UUID       `json:"location_id"`
	LotNumber     string          `json:"lot_number,omitempty"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	MovementType  string          `json:"movement_type"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   uuid.UUID       `json:"reference_id"`
	ActorID       *uuid.UUID      `json:"actor_id,omitempty"`
	MovedAt       time.Time       `json:"moved_at"`
}

// ToMovementResponse converts a movement to its response form
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		LocationID:    m.LocationID,
		LotNumber:     m.LotNumber,
		ExpiryDate:    m.ExpiryDate,
		MovementType:  m.MovementType.String(),
		Quantity:      m.Quantity,
		UnitCost:      m.UnitCost,
		TotalCost:     m.TotalCost(),
		ReferenceType: string(m.ReferenceType),
		ReferenceID:   m.ReferenceID,
		ActorID:       m.ActorID,
		MovedAt:       m.MovedAt,
	}
}

// ToMovementResponses converts a slice of movements
func ToMovementResponses(movements []inventory.StockMovement) []MovementResponse {
	responses := make([]MovementResponse, 0, len(movements))
	for i := range movements {
		responses = append(responses, ToMovementResponse(&movements[i]))
	}
	return responses
}

// CycleCountLineResponse is the API representation of a count line
type CycleCountLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	LotNumber   string          `json:"lot_number,omitempty"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	SystemQty   decimal.Decimal `json:"system_qty"`
	CountedQty  decimal.Decimal `json:"counted_qty"`
	Variance    decimal.Decimal `json:"variance"`
	Counted     bool            `json:"counted"`
	Remark      string          `json:"remark,omitempty"`
}

// CycleCountResponse is the API representation of a cycle count
type CycleCountResponse struct {
	ID          uuid.UUID                `json:"id"`
	CountNumber string                   `json:"count_number"`
	LocationID  uuid.UUID                `json:"location_id"`
	Status      string                   `json:"status"`
	CountDate   time.Time                `json:"count_date"`
	CompletedAt *time.Time               `json:"completed_at,omitempty"`
	CancelledAt *time.Time               `json:"cancelled_at,omitempty"`
	Remark      string                   `json:"remark,omitempty"`
	Lines       []CycleCountLineResponse `json:"lines"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// ToCycleCountResponse converts a cycle count aggregate to its response form
func ToCycleCountResponse(cc *inventory.CycleCount) CycleCountResponse {
	lines := make([]CycleCountLineResponse, 0, len(cc.Lines))
	for _, l := range cc.Lines {
		lines = append(lines, CycleCountLineResponse{
			ID:         l.ID,
			ProductID:  l.ProductID,
			LotNumber:  l.LotNumber,
			ExpiryDate: l.ExpiryDate,
			SystemQty:  l.SystemQty,
			CountedQty: l.CountedQty,
			Variance:   l.Variance(),
			Counted:    l.Counted,
			Remark:     l.Remark,
		})
	}
	return CycleCountResponse{
		ID:          cc.ID,
		CountNumber: cc.CountNumber,
		LocationID:  cc.LocationID,
		Status:      cc.Status.String(),
		CountDate:   cc.CountDate,
		CompletedAt: cc.CompletedAt,
		CancelledAt: cc.CancelledAt,
		Remark:      cc.Remark,
		Lines:       lines,
		CreatedAt:   cc.CreatedAt,
		UpdatedAt:   cc.UpdatedAt,
	}
}

// ToCycleCountResponses converts a slice of cycle counts
func ToCycleCountResponses(counts []inventory.CycleCount) []CycleCountResponse {
	responses := make([]CycleCountResponse, 0, len(counts))
	for i := range counts {
		responses = append(responses, ToCycleCountResponse(&counts[i]))
	}
	return responses
}

// BalanceQuery identifies one balance by its natural key
type BalanceQuery struct {
	ProductID  uuid.UUID  `form:"product_id" binding:"required"`
	LocationID uuid.UUID  `form:"location_id" binding:"required"`
	LotNumber  string     `form:"lot_number"`
	ExpiryDate *time.Time `form:"expiry_date" time_format:"2006-01-02"`
}

// MovementListFilter filters the movement ledger query
type MovementListFilter struct {
	Page          int        `form:"page"`
	PageSize      int        `form:"page_size"`
	ProductID     *uuid.UUID `form:"product_id"`
	LocationID    *uuid.UUID `form:"location_id"`
	MovementType  string     `form:"movement_type"`
	ReferenceType string     `form:"reference_type"`
	ReferenceID   *uuid.UUID `form:"reference_id"`
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
}

// CreateCycleCountRequest starts a new count at a location
type CreateCycleCountRequest struct {
	LocationID uuid.UUID  `json:"location_id" binding:"required"`
	CountDate  *time.Time `json:"count_date"`
	Remark     string     `json:"remark"`
}

// AddCycleCountLineRequest snapshots one product/lot onto the count sheet
type AddCycleCountLineRequest struct {
	ProductID  uuid.UUID  `json:"product_id" binding:"required"`
	LotNumber  string     `json:"lot_number"`
	ExpiryDate *time.Time `json:"expiry_date"`
}

// RecordCountRequest records the physical count for one line
type RecordCountRequest struct {
	LineID     uuid.UUID       `json:"line_id" binding:"required"`
	CountedQty decimal.Decimal `json:"counted_qty"`
	Remark     string          `json:"remark"`
}
