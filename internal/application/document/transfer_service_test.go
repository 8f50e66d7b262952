package document

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/document"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransferService(env *testEnv) *TransferService {
	return NewTransferService(env.transfers, env.scope, env.idemStore, env.recorder, nil)
}

func TestTransferService_RoundTripConservesQuantityAndValue(t *testing.T) {
	env := newTestEnv()
	svc := newTransferService(env)
	ctx := context.Background()
	tenantID := uuid.New()
	fromLocation := uuid.New()
	toLocation := uuid.New()
	productID := uuid.New()

	// Two receipts at different costs give the source a blended average of 2.5
	source := env.seedBalance(tenantID, productID, fromLocation, valueobject.NoLot(),
		decimal.NewFromInt(10), decimal.NewFromInt(2))
	require.NoError(t, source.Receive(decimal.NewFromInt(10), decimal.NewFromInt(3)))
	require.NoError(t, env.balances.Save(ctx, source))
	require.True(t, source.AvgCost.Equal(decimal.NewFromFloat(2.5)))

	created, err := svc.Create(ctx, tenantID, Actor{}, CreateTransferRequest{
		FromLocationID: fromLocation,
		ToLocationID:   toLocation,
		Lines: []TransferLineRequest{
			{ProductID: productID, Quantity: decimal.NewFromInt(8)},
		},
	})
	require.NoError(t, err)

	sent, err := svc.Send(ctx, tenantID, created.ID, Actor{})
	require.NoError(t, err)
	assert.Equal(t, document.TransferStatusSent.String(), sent.Status)
	// The source average cost at send time is frozen on the line
	require.Len(t, sent.Lines, 1)
	assert.True(t, sent.Lines[0].SentUnitCost.Equal(decimal.NewFromFloat(2.5)))

	// Goods in transit: source is down, destination does not exist yet
	fromBalance, err := env.balances.FindByKey(ctx, tenantID, productID, fromLocation, valueobject.NoLot())
	require.NoError(t, err)
	assert.True(t, fromBalance.QtyOnHand.Equal(decimal.NewFromInt(12)))
	_, err = env.balances.FindByKey(ctx, tenantID, productID, toLocation, valueobject.NoLot())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	received, err := svc.Receive(ctx, tenantID, created.ID, Actor{})
	require.NoError(t, err)
	assert.Equal(t, document.TransferStatusCompleted.String(), received.Status)

	// Destination lands at the frozen send cost
	toBalance, err := env.balances.FindByKey(ctx, tenantID, productID, toLocation, valueobject.NoLot())
	require.NoError(t, err)
	assert.True(t, toBalance.QtyOnHand.Equal(decimal.NewFromInt(8)))
	assert.True(t, toBalance.AvgCost.Equal(decimal.NewFromFloat(2.5)))

	// Total quantity and total value across both locations are conserved
	totalQty := fromBalance.QtyOnHand.Add(toBalance.QtyOnHand)
	totalValue := fromBalance.InventoryValue().Add(toBalance.InventoryValue())
	assert.True(t, totalQty.Equal(decimal.NewFromInt(20)))
	assert.True(t, totalValue.Equal(decimal.NewFromInt(50)))

	// The transfer pair nets to zero in the ledger
	movements, _, err := env.movements.FindForTenant(ctx, tenantID, inventory.MovementFilter{})
	require.NoError(t, err)
	transferNet := decimal.Zero
	pairCount := 0
	for _, m := range movements {
		if m.MovementType == inventory.MovementTypeTransferOut || m.MovementType == inventory.MovementTypeTransferIn {
			transferNet = transferNet.Add(m.Quantity)
			pairCount++
		}
	}
	assert.Equal(t, 2, pairCount)
	assert.True(t, transferNet.IsZero())
}

func TestTransferService_SendWithoutStockRejected(t *testing.T) {
	env := newTestEnv()
	svc := newTransferService(env)
	ctx := context.Background()
	tenantID := uuid.New()

	created, err := svc.Create(ctx, tenantID, Actor{}, CreateTransferRequest{
		FromLocationID: uuid.New(),
		ToLocationID:   uuid.New(),
		Lines: []TransferLineRequest{
			{ProductID: uuid.New(), Quantity: decimal.NewFromInt(5)},
		},
	})
	require.NoError(t, err)

	_, err = svc.Send(ctx, tenantID, created.ID, Actor{})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)

	movements, _, err := env.movements.FindForTenant(ctx, tenantID, inventory.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestTransferService_ReceiveBeforeSendRejected(t *testing.T) {
	env := newTestEnv()
	svc := newTransferService(env)
	ctx := context.Background()
	tenantID := uuid.New()
	fromLocation := uuid.New()
	productID := uuid.New()

	env.seedBalance(tenantID, productID, fromLocation, valueobject.NoLot(),
		decimal.NewFromInt(5), decimal.NewFromInt(1))

	created, err := svc.Create(ctx, tenantID, Actor{}, CreateTransferRequest{
		FromLocationID: fromLocation,
		ToLocationID:   uuid.New(),
		Lines: []TransferLineRequest{
			{ProductID: productID, Quantity: decimal.NewFromInt(5)},
		},
	})
	require.NoError(t, err)

	_, err = svc.Receive(ctx, tenantID, created.ID, Actor{})
	assert.Error(t, err)
}

func TestTransferService_CancelOnlyFromDraft(t *testing.T) {
	env := newTestEnv()
	svc := newTransferService(env)
	ctx := context.Background()
	tenantID := uuid.New()
	fromLocation := uuid.New()
	productID := uuid.New()

	env.seedBalance(tenantID, productID, fromLocation, valueobject.NoLot(),
		decimal.NewFromInt(5), decimal.NewFromInt(1))

	created, err := svc.Create(ctx, tenantID, Actor{}, CreateTransferRequest{
		FromLocationID: fromLocation,
		ToLocationID:   uuid.New(),
		Lines: []TransferLineRequest{
			{ProductID: productID, Quantity: decimal.NewFromInt(5)},
		},
	})
	require.NoError(t, err)

	_, err = svc.Send(ctx, tenantID, created.ID, Actor{})
	require.NoError(t, err)

	// Goods already left the source; cancelling now would strand them
	_, err = svc.Cancel(ctx, tenantID, created.ID, Actor{}, "no longer needed")
	assert.Error(t, err)
}
