package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
)

// TransferStatus represents the status of an inter-location transfer
type TransferStatus string

const (
	TransferStatusDraft     TransferStatus = "DRAFT"
	TransferStatusSent      TransferStatus = "SENT"
	TransferStatusCompleted TransferStatus = "COMPLETED"
	TransferStatusCancelled TransferStatus = "CANCELLED"
)

// IsValid checks if the status is a valid TransferStatus
func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferStatusDraft, TransferStatusSent, TransferStatusCompleted, TransferStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of TransferStatus
func (s TransferStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s TransferStatus) CanTransitionTo(target TransferStatus) bool {
	switch s {
	case TransferStatusDraft:
		return target == TransferStatusSent || target == TransferStatusCancelled
	case TransferStatusSent:
		return target == TransferStatusCompleted
	case TransferStatusCompleted, TransferStatusCancelled:
		return false // Terminal states
	}
	return false
}

// TransferLine represents a line item in a transfer. SentUnitCost is
// the weighted-average cost at the source at send time; the receive leg
// books the same cost so value is conserved across locations.
type TransferLine struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	TransferID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	LotNumber    string          `gorm:"type:varchar(100);not null;default:''"`
	ExpiryDate   *time.Time      `gorm:"type:date"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SentUnitCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Remark       string          `gorm:"type:varchar(255)"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TransferLine) TableName() string {
	return "transfer_lines"
}

// LotKey returns the normalized lot identity for the line
func (l *TransferLine) LotKey() valueobject.LotKey {
	return valueobject.NewLotKey(l.LotNumber, l.ExpiryDate)
}

// Transfer is the aggregate root for moving stock between two locations
// of the same tenant. The send leg deducts the source, the receive leg
// credits the destination at the cost captured during send.
type Transfer struct {
	shared.TenantAggregateRoot
	TransferNumber string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_transfer_tenant_number,priority:2"`
	FromLocationID uuid.UUID      `gorm:"type:uuid;not null;index"`
	ToLocationID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Status         TransferStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Remark         string         `gorm:"type:text"`
	SentAt         *time.Time     `gorm:"index"`
	ReceivedAt     *time.Time
	CancelledAt    *time.Time
	CancelReason   string         `gorm:"type:varchar(500)"`
	Lines          []TransferLine `gorm:"foreignKey:TransferID;references:ID"`
}

// TableName returns the table name for GORM
func (Transfer) TableName() string {
	return "transfers"
}

// NewTransfer creates a transfer in draft
func NewTransfer(tenantID uuid.UUID, transferNumber string, fromLocationID, toLocationID uuid.UUID) (*Transfer, error) {
	if transferNumber == "" {
		return nil, shared.NewDomainError("INVALID_TRANSFER_NUMBER", "Transfer number cannot be empty")
	}
	if fromLocationID == uuid.Nil || toLocationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Source and destination locations are required")
	}
	if fromLocationID == toLocationID {
		return nil, shared.NewDomainError("SAME_LOCATION", "Source and destination locations must differ")
	}

	return &Transfer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		TransferNumber:      transferNumber,
		FromLocationID:      fromLocationID,
		ToLocationID:        toLocationID,
		Status:              TransferStatusDraft,
		Lines:               make([]TransferLine, 0),
	}, nil
}

// AddLine adds a line to the transfer. Only allowed in draft.
func (t *Transfer) AddLine(productID uuid.UUID, lot valueobject.LotKey, quantity decimal.Decimal) error {
	if t.Status != TransferStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot add lines to a non-draft transfer")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	for _, line := range t.Lines {
		if line.ProductID == productID && line.LotKey().Equal(lot) {
			return shared.NewDomainError("DUPLICATE_LINE", "Product and lot already exist in transfer")
		}
	}

	now := time.Now()
	t.Lines = append(t.Lines, TransferLine{
		ID:         uuid.New(),
		TransferID: t.ID,
		ProductID:  productID,
		LotNumber:  lot.LotNumber(),
		ExpiryDate: lot.ExpiryDate(),
		Quantity:   quantity,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	t.UpdatedAt = now
	t.IncrementVersion()

	return nil
}

// RemoveLine removes a line from a draft transfer
func (t *Transfer) RemoveLine(lineID uuid.UUID) error {
	if t.Status != TransferStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove lines from a non-draft transfer")
	}

	for i, line := range t.Lines {
		if line.ID == lineID {
			t.Lines = append(t.Lines[:i], t.Lines[i+1:]...)
			t.UpdatedAt = time.Now()
			t.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Transfer line not found")
}

// Send deducts stock at the source; sentCosts records the unit cost per
// line ID captured from the source balance so the receive leg books the
// same value. Every line must have a cost.
func (t *Transfer) Send(sentCosts map[uuid.UUID]decimal.Decimal) error {
	if !t.Status.CanTransitionTo(TransferStatusSent) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send transfer in %s status", t.Status))
	}
	if len(t.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot send a transfer without lines")
	}
	for i := range t.Lines {
		cost, ok := sentCosts[t.Lines[i].ID]
		if !ok {
			return shared.NewDomainError("MISSING_COST",
				fmt.Sprintf("No unit cost captured for transfer line %s", t.Lines[i].ID))
		}
		if cost.IsNegative() {
			return shared.NewDomainError("INVALID_COST", "Sent unit cost cannot be negative")
		}
		t.Lines[i].SentUnitCost = cost
		t.Lines[i].UpdatedAt = time.Now()
	}

	now := time.Now()
	t.Status = TransferStatusSent
	t.SentAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferSentEvent(t))

	return nil
}

// Receive completes the transfer. The caller credits the destination
// balances at each line's SentUnitCost inside the same transaction.
func (t *Transfer) Receive() error {
	if !t.Status.CanTransitionTo(TransferStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot receive transfer in %s status", t.Status))
	}

	now := time.Now()
	t.Status = TransferStatusCompleted
	t.ReceivedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferReceivedEvent(t))

	return nil
}

// Cancel cancels the transfer; only allowed before sending
func (t *Transfer) Cancel(reason string) error {
	if !t.Status.CanTransitionTo(TransferStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel transfer in %s status", t.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	t.Status = TransferStatusCancelled
	t.CancelledAt = &now
	t.CancelReason = reason
	t.UpdatedAt = now
	t.IncrementVersion()

	return nil
}

// CanModify returns true while lines may be edited
func (t *Transfer) CanModify() bool {
	return t.Status == TransferStatusDraft
}

// IsTerminal returns true in completed or cancelled status
func (t *Transfer) IsTerminal() bool {
	return t.Status == TransferStatusCompleted || t.Status == TransferStatusCancelled
}
