package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
)

// AdjustmentStatus represents the status of a manual stock adjustment
type AdjustmentStatus string

const (
	AdjustmentStatusDraft     AdjustmentStatus = "DRAFT"
	AdjustmentStatusCompleted AdjustmentStatus = "COMPLETED"
	AdjustmentStatusCancelled AdjustmentStatus = "CANCELLED"
)

// IsValid checks if the status is a valid AdjustmentStatus
func (s AdjustmentStatus) IsValid() bool {
	switch s {
	case AdjustmentStatusDraft, AdjustmentStatusCompleted, AdjustmentStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of AdjustmentStatus
func (s AdjustmentStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s AdjustmentStatus) CanTransitionTo(target AdjustmentStatus) bool {
	if s != AdjustmentStatusDraft {
		return false // Terminal states
	}
	return target == AdjustmentStatusCompleted || target == AdjustmentStatusCancelled
}

// AdjustmentLine represents a line item in an adjustment. QuantityDelta
// is signed; positive deltas add stock at UnitCost, negative deltas
// remove stock at the current balance cost.
type AdjustmentLine struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	AdjustmentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null"`
	LotNumber     string          `gorm:"type:varchar(100);not null;default:''"`
	ExpiryDate    *time.Time      `gorm:"type:date"`
	QuantityDelta decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Reason        string          `gorm:"type:varchar(255);not null"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AdjustmentLine) TableName() string {
	return "adjustment_lines"
}

// LotKey returns the normalized lot identity for the line
func (l *AdjustmentLine) LotKey() valueobject.LotKey {
	return valueobject.NewLotKey(l.LotNumber, l.ExpiryDate)
}

// IsIncrease returns true when the line adds stock
func (l *AdjustmentLine) IsIncrease() bool {
	return l.QuantityDelta.GreaterThan(decimal.Zero)
}

// Adjustment is the aggregate root for manual stock corrections outside
// the cycle count flow (damage, found stock, write-offs).
type Adjustment struct {
	shared.TenantAggregateRoot
	AdjustmentNumber string           `gorm:"type:varchar(50);not null;uniqueIndex:idx_adjustment_tenant_number,priority:2"`
	LocationID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	Status           AdjustmentStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Remark           string           `gorm:"type:text"`
	CompletedAt      *time.Time
	CancelledAt      *time.Time
	CancelReason     string           `gorm:"type:varchar(500)"`
	Lines            []AdjustmentLine `gorm:"foreignKey:AdjustmentID;references:ID"`
}

// TableName returns the table name for GORM
func (Adjustment) TableName() string {
	return "adjustments"
}

// NewAdjustment creates an adjustment in draft
func NewAdjustment(tenantID uuid.UUID, adjustmentNumber string, locationID uuid.UUID) (*Adjustment, error) {
	if adjustmentNumber == "" {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT_NUMBER", "Adjustment number cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}

	return &Adjustment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		AdjustmentNumber:    adjustmentNumber,
		LocationID:          locationID,
		Status:              AdjustmentStatusDraft,
		Lines:               make([]AdjustmentLine, 0),
	}, nil
}

// AddLine adds a signed adjustment line. Increases require a positive
// unit cost; decreases take the cost from the balance when posting.
func (a *Adjustment) AddLine(productID uuid.UUID, lot valueobject.LotKey, quantityDelta, unitCost decimal.Decimal, reason string) error {
	if a.Status != AdjustmentStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot add lines to a non-draft adjustment")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantityDelta.IsZero() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity delta cannot be zero")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Adjustment reason is required")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	if quantityDelta.GreaterThan(decimal.Zero) && unitCost.IsZero() {
		return shared.NewDomainError("INVALID_COST", "Increase lines require a unit cost")
	}
	for _, line := range a.Lines {
		if line.ProductID == productID && line.LotKey().Equal(lot) {
			return shared.NewDomainError("DUPLICATE_LINE", "Product and lot already exist in adjustment")
		}
	}

	now := time.Now()
	a.Lines = append(a.Lines, AdjustmentLine{
		ID:            uuid.New(),
		AdjustmentID:  a.ID,
		ProductID:     productID,
		LotNumber:     lot.LotNumber(),
		ExpiryDate:    lot.ExpiryDate(),
		QuantityDelta: quantityDelta,
		UnitCost:      unitCost,
		Reason:        reason,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	a.UpdatedAt = now
	a.IncrementVersion()

	return nil
}

// RemoveLine removes a line from a draft adjustment
func (a *Adjustment) RemoveLine(lineID uuid.UUID) error {
	if a.Status != AdjustmentStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove lines from a non-draft adjustment")
	}

	for i, line := range a.Lines {
		if line.ID == lineID {
			a.Lines = append(a.Lines[:i], a.Lines[i+1:]...)
			a.UpdatedAt = time.Now()
			a.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Adjustment line not found")
}

// Complete posts the adjustment. The caller applies the balance updates
// inside the same transaction.
func (a *Adjustment) Complete() error {
	if !a.Status.CanTransitionTo(AdjustmentStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete adjustment in %s status", a.Status))
	}
	if len(a.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot complete an adjustment without lines")
	}

	now := time.Now()
	a.Status = AdjustmentStatusCompleted
	a.CompletedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(NewAdjustmentCompletedEvent(a))

	return nil
}

// Cancel cancels the adjustment before it posts
func (a *Adjustment) Cancel(reason string) error {
	if !a.Status.CanTransitionTo(AdjustmentStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel adjustment in %s status", a.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	a.Status = AdjustmentStatusCancelled
	a.CancelledAt = &now
	a.CancelReason = reason
	a.UpdatedAt = now
	a.IncrementVersion()

	return nil
}

// CanModify returns true while lines may be edited
func (a *Adjustment) CanModify() bool {
	return a.Status == AdjustmentStatusDraft
}
