package document

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	order, err := NewPurchaseOrder(uuid.New(), "PO-2026-0001", "Acme Supplies", uuid.New())
	require.NoError(t, err)
	return order
}

func TestNewPurchaseOrder_Validation(t *testing.T) {
	tenantID := uuid.New()
	locationID := uuid.New()

	_, err := NewPurchaseOrder(tenantID, "", "Acme", locationID)
	assert.Error(t, err)

	_, err = NewPurchaseOrder(tenantID, "PO-1", "", locationID)
	assert.Error(t, err)

	_, err = NewPurchaseOrder(tenantID, "PO-1", "Acme", uuid.Nil)
	assert.Error(t, err)

	order, err := NewPurchaseOrder(tenantID, "PO-1", "Acme", locationID)
	require.NoError(t, err)
	assert.Equal(t, PurchaseOrderStatusDraft, order.Status)
	assert.True(t, order.TotalAmount.IsZero())
}

func TestPurchaseOrder_AddLine(t *testing.T) {
	order := newTestOrder(t)
	productID := uuid.New()

	err := order.AddLine(productID, decimal.NewFromInt(100), decimal.NewFromFloat(2.5))
	require.NoError(t, err)
	assert.Len(t, order.Lines, 1)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(250)))

	// Duplicate product rejected
	err = order.AddLine(productID, decimal.NewFromInt(10), decimal.NewFromFloat(2.5))
	assert.Error(t, err)

	// Invalid inputs
	assert.Error(t, order.AddLine(uuid.Nil, decimal.NewFromInt(1), decimal.Zero))
	assert.Error(t, order.AddLine(uuid.New(), decimal.Zero, decimal.Zero))
	assert.Error(t, order.AddLine(uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(-1)))
}

func TestPurchaseOrder_Confirm(t *testing.T) {
	order := newTestOrder(t)

	// Cannot confirm without lines
	assert.Error(t, order.Confirm())

	require.NoError(t, order.AddLine(uuid.New(), decimal.NewFromInt(10), decimal.NewFromInt(5)))
	require.NoError(t, order.Confirm())
	assert.Equal(t, PurchaseOrderStatusConfirmed, order.Status)
	assert.NotNil(t, order.ConfirmedAt)

	// Double confirm rejected
	assert.Error(t, order.Confirm())

	// No line edits after confirm
	assert.Error(t, order.AddLine(uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(1)))
}

func TestPurchaseOrder_PartialThenCompletedReceipt(t *testing.T) {
	order := newTestOrder(t)
	productID := uuid.New()
	require.NoError(t, order.AddLine(productID, decimal.NewFromInt(100), decimal.NewFromInt(10)))
	require.NoError(t, order.Confirm())

	received, err := order.Receive([]ReceiveLine{
		{ProductID: productID, Quantity: decimal.NewFromInt(60), Lot: valueobject.NoLot()},
	})
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, PurchaseOrderStatusPartial, order.Status)
	assert.True(t, received[0].UnitCost.Equal(decimal.NewFromInt(10)))
	assert.True(t, order.Lines[0].RemainingQty().Equal(decimal.NewFromInt(40)))

	received, err = order.Receive([]ReceiveLine{
		{ProductID: productID, Quantity: decimal.NewFromInt(40), Lot: valueobject.NoLot()},
	})
	require.NoError(t, err)
	assert.Equal(t, PurchaseOrderStatusCompleted, order.Status)
	assert.NotNil(t, order.CompletedAt)
	assert.True(t, order.Lines[0].IsFullyReceived())

	// Terminal: no further receipts
	_, err = order.Receive([]ReceiveLine{
		{ProductID: productID, Quantity: decimal.NewFromInt(1), Lot: valueobject.NoLot()},
	})
	assert.Error(t, err)
}

func TestPurchaseOrder_OverReceiptRejectedWithoutMutation(t *testing.T) {
	order := newTestOrder(t)
	productA := uuid.New()
	productB := uuid.New()
	require.NoError(t, order.AddLine(productA, decimal.NewFromInt(10), decimal.NewFromInt(1)))
	require.NoError(t, order.AddLine(productB, decimal.NewFromInt(10), decimal.NewFromInt(1)))
	require.NoError(t, order.Confirm())

	// Second line exceeds remaining quantity; first line must not move either.
	_, err := order.Receive([]ReceiveLine{
		{ProductID: productA, Quantity: decimal.NewFromInt(5), Lot: valueobject.NoLot()},
		{ProductID: productB, Quantity: decimal.NewFromInt(11), Lot: valueobject.NoLot()},
	})
	require.Error(t, err)
	assert.Equal(t, PurchaseOrderStatusConfirmed, order.Status)
	assert.True(t, order.Lines[0].ReceivedQty.IsZero())
	assert.True(t, order.Lines[1].ReceivedQty.IsZero())
}

func TestPurchaseOrder_ReceiveUnknownProduct(t *testing.T) {
	order := newTestOrder(t)
	require.NoError(t, order.AddLine(uuid.New(), decimal.NewFromInt(10), decimal.NewFromInt(1)))
	require.NoError(t, order.Confirm())

	_, err := order.Receive([]ReceiveLine{
		{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1), Lot: valueobject.NoLot()},
	})
	assert.Error(t, err)
}

func TestPurchaseOrder_ReceiveCostOverride(t *testing.T) {
	order := newTestOrder(t)
	productID := uuid.New()
	require.NoError(t, order.AddLine(productID, decimal.NewFromInt(10), decimal.NewFromInt(5)))
	require.NoError(t, order.Confirm())

	received, err := order.Receive([]ReceiveLine{
		{ProductID: productID, Quantity: decimal.NewFromInt(4), UnitCost: decimal.NewFromFloat(5.5), Lot: valueobject.NoLot()},
	})
	require.NoError(t, err)
	assert.True(t, received[0].UnitCost.Equal(decimal.NewFromFloat(5.5)))
}

func TestPurchaseOrder_Cancel(t *testing.T) {
	order := newTestOrder(t)
	productID := uuid.New()
	require.NoError(t, order.AddLine(productID, decimal.NewFromInt(10), decimal.NewFromInt(1)))

	// Reason required
	assert.Error(t, order.Cancel(""))

	require.NoError(t, order.Cancel("supplier out of stock"))
	assert.Equal(t, PurchaseOrderStatusCancelled, order.Status)
	assert.NotNil(t, order.CancelledAt)

	// Cancel after receipt is blocked
	order2 := newTestOrder(t)
	require.NoError(t, order2.AddLine(productID, decimal.NewFromInt(10), decimal.NewFromInt(1)))
	require.NoError(t, order2.Confirm())
	_, err := order2.Receive([]ReceiveLine{
		{ProductID: productID, Quantity: decimal.NewFromInt(3), Lot: valueobject.NoLot()},
	})
	require.NoError(t, err)
	assert.Error(t, order2.Cancel("changed mind"))
}

func TestPurchaseOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    PurchaseOrderStatus
		to      PurchaseOrderStatus
		allowed bool
	}{
		{PurchaseOrderStatusDraft, PurchaseOrderStatusConfirmed, true},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusCompleted, false},
		{PurchaseOrderStatusConfirmed, PurchaseOrderStatusPartial, true},
		{PurchaseOrderStatusConfirmed, PurchaseOrderStatusCompleted, true},
		{PurchaseOrderStatusPartial, PurchaseOrderStatusCompleted, true},
		{PurchaseOrderStatusPartial, PurchaseOrderStatusCancelled, false},
		{PurchaseOrderStatusCompleted, PurchaseOrderStatusCancelled, false},
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusConfirmed, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}
