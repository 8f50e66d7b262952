package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
)

// CycleCountStatus represents the status of a cycle count document
type CycleCountStatus string

const (
	CycleCountStatusDraft     CycleCountStatus = "DRAFT"
	CycleCountStatusCompleted CycleCountStatus = "COMPLETED"
	CycleCountStatusCancelled CycleCountStatus = "CANCELLED"
)

// IsValid checks if the status is a valid CycleCountStatus
func (s CycleCountStatus) IsValid() bool {
	switch s {
	case CycleCountStatusDraft, CycleCountStatusCompleted, CycleCountStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of CycleCountStatus
func (s CycleCountStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s CycleCountStatus) CanTransitionTo(target CycleCountStatus) bool {
	switch s {
	case CycleCountStatusDraft:
		return target == CycleCountStatusCompleted || target == CycleCountStatusCancelled
	case CycleCountStatusCompleted, CycleCountStatusCancelled:
		return false // Terminal states
	}
	return false
}

// CycleCountLine represents one counted balance key in a cycle count
type CycleCountLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	CountID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	LotNumber   string          `gorm:"type:varchar(100);not null;default:''"`
	ExpiryDate  *time.Time      `gorm:"type:date"`
	SystemQty   decimal.Decimal `gorm:"type:decimal(18,4);not null"` // on-hand at the time the line was added
	CountedQty  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null"` // cost basis at count time
	Counted     bool            `gorm:"not null;default:false"`
	Remark      string          `gorm:"type:varchar(255)"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CycleCountLine) TableName() string {
	return "cycle_count_lines"
}

// LotKey returns the normalized lot key for this line
func (l *CycleCountLine) LotKey() valueobject.LotKey {
	return valueobject.NewLotKey(l.LotNumber, l.ExpiryDate)
}

// Variance returns counted minus system quantity
func (l *CycleCountLine) Variance() decimal.Decimal {
	return l.CountedQty.Sub(l.SystemQty)
}

// HasVariance returns true when the counted quantity differs from system
func (l *CycleCountLine) HasVariance() bool {
	return l.Counted && !l.Variance().IsZero()
}

// RecordCount records the physical count for this line
func (l *CycleCountLine) RecordCount(counted decimal.Decimal, remark string) error {
	if counted.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}

	l.CountedQty = counted
	l.Counted = true
	l.Remark = remark
	l.UpdatedAt = time.Now()

	return nil
}

// CycleCount is the aggregate root for a physical inventory count at one
// location. Lines capture the system quantity when added as the count
// sheet reference; posting forces each balance to the counted quantity
// and emits COUNT_VARIANCE movements for the deltas against the balance
// at posting time.
type CycleCount struct {
	shared.TenantAggregateRoot
	CountNumber string           `gorm:"type:varchar(50);not null;uniqueIndex:idx_cycle_count_tenant_number,priority:2"`
	LocationID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	Status      CycleCountStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	CountDate   time.Time        `gorm:"type:date;not null"`
	CompletedAt *time.Time
	CancelledAt *time.Time
	Remark      string           `gorm:"type:varchar(500)"`
	Lines       []CycleCountLine `gorm:"foreignKey:CountID;references:ID"`
}

// TableName returns the table name for GORM
func (CycleCount) TableName() string {
	return "cycle_counts"
}

// NewCycleCount creates a cycle count document in draft
func NewCycleCount(tenantID, locationID uuid.UUID, countNumber string, countDate time.Time) (*CycleCount, error) {
	if countNumber == "" {
		return nil, shared.NewDomainError("INVALID_COUNT_NUMBER", "Count number cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}

	cc := &CycleCount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CountNumber:         countNumber,
		LocationID:          locationID,
		Status:              CycleCountStatusDraft,
		CountDate:           countDate,
		Lines:               make([]CycleCountLine, 0),
	}

	return cc, nil
}

// AddLine snapshots a balance key into the count. Only allowed in draft.
func (cc *CycleCount) AddLine(productID uuid.UUID, lot valueobject.LotKey, systemQty, unitCost decimal.Decimal) error {
	if cc.Status != CycleCountStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Can only add lines to a draft count")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	for _, line := range cc.Lines {
		if line.ProductID == productID && line.LotKey().Equal(lot) {
			return shared.NewDomainError("DUPLICATE_LINE", "Balance key already exists in count")
		}
	}

	now := time.Now()
	cc.Lines = append(cc.Lines, CycleCountLine{
		ID:         uuid.New(),
		CountID:    cc.ID,
		ProductID:  productID,
		LotNumber:  lot.LotNumber(),
		ExpiryDate: lot.ExpiryDate(),
		SystemQty:  systemQty,
		UnitCost:   unitCost,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	cc.UpdatedAt = now
	cc.IncrementVersion()

	return nil
}

// RecordCount records the physical count for a line
func (cc *CycleCount) RecordCount(lineID uuid.UUID, counted decimal.Decimal, remark string) error {
	if cc.Status != CycleCountStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Can only record counts on a draft count")
	}

	for i := range cc.Lines {
		if cc.Lines[i].ID == lineID {
			if err := cc.Lines[i].RecordCount(counted, remark); err != nil {
				return err
			}
			cc.UpdatedAt = time.Now()
			cc.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Count line not found")
}

// Complete posts the count. All lines must be counted. Variance handling
// is performed by the application service; this transition only validates
// and flips status.
func (cc *CycleCount) Complete() error {
	if !cc.Status.CanTransitionTo(CycleCountStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete count in %s status", cc.Status))
	}
	if len(cc.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot complete a count without lines")
	}
	for _, line := range cc.Lines {
		if !line.Counted {
			return shared.NewDomainError("INCOMPLETE_COUNT", "All lines must be counted before posting")
		}
	}

	now := time.Now()
	cc.Status = CycleCountStatusCompleted
	cc.CompletedAt = &now
	cc.UpdatedAt = now
	cc.IncrementVersion()

	cc.AddDomainEvent(NewCycleCountCompletedEvent(cc))

	return nil
}

// Cancel cancels a draft count
func (cc *CycleCount) Cancel(reason string) error {
	if !cc.Status.CanTransitionTo(CycleCountStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel count in %s status", cc.Status))
	}

	now := time.Now()
	cc.Status = CycleCountStatusCancelled
	cc.CancelledAt = &now
	cc.Remark = reason
	cc.UpdatedAt = now
	cc.IncrementVersion()

	return nil
}

// VarianceLines returns the counted lines whose quantity differs from system
func (cc *CycleCount) VarianceLines() []CycleCountLine {
	result := make([]CycleCountLine, 0)
	for _, line := range cc.Lines {
		if line.HasVariance() {
			result = append(result, line)
		}
	}
	return result
}

// IsDraft returns true while the count is still being recorded
func (cc *CycleCount) IsDraft() bool {
	return cc.Status == CycleCountStatusDraft
}
