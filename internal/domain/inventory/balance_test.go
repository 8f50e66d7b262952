package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
)

func newTestBalance(t *testing.T) *InventoryBalance {
	t.Helper()
	b, err := NewInventoryBalance(uuid.New(), uuid.New(), uuid.New(), valueobject.NoLot())
	require.NoError(t, err)
	return b
}

func TestNewInventoryBalance_Validation(t *testing.T) {
	tenantID := uuid.New()

	_, err := NewInventoryBalance(tenantID, uuid.Nil, uuid.New(), valueobject.NoLot())
	assert.Error(t, err)

	_, err = NewInventoryBalance(tenantID, uuid.New(), uuid.Nil, valueobject.NoLot())
	assert.Error(t, err)

	b, err := NewInventoryBalance(tenantID, uuid.New(), uuid.New(), valueobject.NewLotKey("LOT-1", nil))
	require.NoError(t, err)
	assert.True(t, b.QtyOnHand.IsZero())
	assert.True(t, b.AvgCost.IsZero())
	assert.Equal(t, "LOT-1", b.LotNumber)
}

func TestReceive_FirstReceiptTakesIncomingCost(t *testing.T) {
	b := newTestBalance(t)

	err := b.Receive(decimal.NewFromInt(10), decimal.NewFromFloat(2.5))
	require.NoError(t, err)

	assert.True(t, b.QtyOnHand.Equal(decimal.NewFromInt(10)))
	assert.True(t, b.AvgCost.Equal(decimal.NewFromFloat(2.5)))
}

func TestReceive_WeightedAverageOverSequence(t *testing.T) {
	b := newTestBalance(t)

	receipts := []struct {
		qty  int64
		cost string
	}{
		{100, "10.00"},
		{50, "16.00"},
		{25, "8.00"},
	}

	totalQty := decimal.Zero
	totalValue := decimal.Zero
	for _, r := range receipts {
		cost, _ := decimal.NewFromString(r.cost)
		qty := decimal.NewFromInt(r.qty)
		require.NoError(t, b.Receive(qty, cost))
		totalQty = totalQty.Add(qty)
		totalValue = totalValue.Add(qty.Mul(cost))
	}

	assert.True(t, b.QtyOnHand.Equal(totalQty), "qty_on_hand must equal sum of receipts")
	expected := totalValue.Div(totalQty).Round(4)
	assert.True(t, b.AvgCost.Equal(expected), "avg cost %s, want %s", b.AvgCost, expected)
}

func TestReceive_RejectsNonPositiveQuantityAndNegativeCost(t *testing.T) {
	b := newTestBalance(t)

	assert.Error(t, b.Receive(decimal.Zero, decimal.NewFromInt(1)))
	assert.Error(t, b.Receive(decimal.NewFromInt(-5), decimal.NewFromInt(1)))
	assert.Error(t, b.Receive(decimal.NewFromInt(5), decimal.NewFromInt(-1)))
	assert.True(t, b.QtyOnHand.IsZero(), "failed receive must not mutate")
}

func TestReceive_EmitsCostChangedEvent(t *testing.T) {
	b := newTestBalance(t)

	require.NoError(t, b.Receive(decimal.NewFromInt(10), decimal.NewFromInt(5)))
	events := b.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeBalanceCostChanged, events[0].EventType())

	b.ClearDomainEvents()

	// Same cost again does not move the average
	require.NoError(t, b.Receive(decimal.NewFromInt(10), decimal.NewFromInt(5)))
	assert.Empty(t, b.GetDomainEvents())
}

func TestDeduct_CarriesCostForwardToZero(t *testing.T) {
	b := newTestBalance(t)
	require.NoError(t, b.Receive(decimal.NewFromInt(10), decimal.NewFromFloat(3.75)))

	require.NoError(t, b.Deduct(decimal.NewFromInt(10)))

	assert.True(t, b.QtyOnHand.IsZero())
	assert.True(t, b.AvgCost.Equal(decimal.NewFromFloat(3.75)), "cost basis must survive depletion")
	assert.True(t, b.IsDepleted())
}

func TestDeduct_InsufficientStockRejectedWithoutMutation(t *testing.T) {
	b := newTestBalance(t)
	require.NoError(t, b.Receive(decimal.NewFromInt(5), decimal.NewFromInt(2)))

	err := b.Deduct(decimal.NewFromInt(10))
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.True(t, b.QtyOnHand.Equal(decimal.NewFromInt(5)), "balance must remain unchanged")
}

func TestDeduct_ThenReceiveRestartsAverageFromIncomingCost(t *testing.T) {
	b := newTestBalance(t)
	require.NoError(t, b.Receive(decimal.NewFromInt(10), decimal.NewFromInt(4)))
	require.NoError(t, b.Deduct(decimal.NewFromInt(10)))

	require.NoError(t, b.Receive(decimal.NewFromInt(10), decimal.NewFromInt(7)))
	assert.True(t, b.AvgCost.Equal(decimal.NewFromInt(7)), "empty balance takes incoming cost")
}

func TestSetQuantity_KeepsCostBasis(t *testing.T) {
	b := newTestBalance(t)
	require.NoError(t, b.Receive(decimal.NewFromInt(100), decimal.NewFromInt(2)))

	require.NoError(t, b.SetQuantity(decimal.NewFromInt(97)))
	assert.True(t, b.QtyOnHand.Equal(decimal.NewFromInt(97)))
	assert.True(t, b.AvgCost.Equal(decimal.NewFromInt(2)))

	assert.Error(t, b.SetQuantity(decimal.NewFromInt(-1)))
}

func TestInventoryValue_IsDerived(t *testing.T) {
	b := newTestBalance(t)
	require.NoError(t, b.Receive(decimal.NewFromInt(8), decimal.NewFromFloat(1.25)))

	assert.True(t, b.InventoryValue().Equal(decimal.NewFromInt(10)))
}

func TestCanFulfill(t *testing.T) {
	b := newTestBalance(t)
	require.NoError(t, b.Receive(decimal.NewFromInt(5), decimal.NewFromInt(1)))

	assert.True(t, b.CanFulfill(decimal.NewFromInt(5)))
	assert.False(t, b.CanFulfill(decimal.NewFromInt(6)))
}
