package document

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdjustmentService(env *testEnv) *AdjustmentService {
	return NewAdjustmentService(env.adjustments, env.scope, env.idemStore, env.recorder, nil)
}

func TestAdjustmentService_SignedLinesPostBothDirections(t *testing.T) {
	env := newTestEnv()
	svc := newAdjustmentService(env)
	ctx := context.Background()
	tenantID := uuid.New()
	locationID := uuid.New()
	foundProduct := uuid.New()
	lostProduct := uuid.New()

	env.seedBalance(tenantID, lostProduct, locationID, valueobject.NoLot(),
		decimal.NewFromInt(10), decimal.NewFromInt(5))

	created, err := svc.Create(ctx, tenantID, Actor{}, CreateAdjustmentRequest{
		LocationID: locationID,
		Lines: []AdjustmentLineRequest{
			{ProductID: foundProduct, QuantityDelta: decimal.NewFromInt(3), UnitCost: decimal.NewFromInt(7), Reason: "found in receiving"},
			{ProductID: lostProduct, QuantityDelta: decimal.NewFromInt(-2), Reason: "breakage"},
		},
	})
	require.NoError(t, err)

	resp, err := svc.Complete(ctx, tenantID, created.ID, Actor{})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", resp.Status)

	found, err := env.balances.FindByKey(ctx, tenantID, foundProduct, locationID, valueobject.NoLot())
	require.NoError(t, err)
	assert.True(t, found.QtyOnHand.Equal(decimal.NewFromInt(3)))
	assert.True(t, found.AvgCost.Equal(decimal.NewFromInt(7)))

	lost, err := env.balances.FindByKey(ctx, tenantID, lostProduct, locationID, valueobject.NoLot())
	require.NoError(t, err)
	assert.True(t, lost.QtyOnHand.Equal(decimal.NewFromInt(8)))
	assert.True(t, lost.AvgCost.Equal(decimal.NewFromInt(5)))

	movements, _, err := env.movements.FindForTenant(ctx, tenantID, inventory.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, movements, 2)
	net := decimal.Zero
	for _, m := range movements {
		assert.Equal(t, inventory.MovementTypeAdjustment, m.MovementType)
		assert.Equal(t, inventory.ReferenceTypeAdjustment, m.ReferenceType)
		net = net.Add(m.Quantity)
	}
	assert.True(t, net.Equal(decimal.NewFromInt(1)))
}

func TestAdjustmentService_DecreaseBelowStockRejected(t *testing.T) {
	env := newTestEnv()
	svc := newAdjustmentService(env)
	ctx := context.Background()
	tenantID := uuid.New()
	locationID := uuid.New()
	productID := uuid.New()

	env.seedBalance(tenantID, productID, locationID, valueobject.NoLot(),
		decimal.NewFromInt(2), decimal.NewFromInt(1))

	created, err := svc.Create(ctx, tenantID, Actor{}, CreateAdjustmentRequest{
		LocationID: locationID,
		Lines: []AdjustmentLineRequest{
			{ProductID: productID, QuantityDelta: decimal.NewFromInt(-5), Reason: "breakage"},
		},
	})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, tenantID, created.ID, Actor{})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)

	balance, err := env.balances.FindByKey(ctx, tenantID, productID, locationID, valueobject.NoLot())
	require.NoError(t, err)
	assert.True(t, balance.QtyOnHand.Equal(decimal.NewFromInt(2)))

	movements, _, err := env.movements.FindForTenant(ctx, tenantID, inventory.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestAdjustmentService_IncreaseWithoutCostRejectedAtDraft(t *testing.T) {
	env := newTestEnv()
	svc := newAdjustmentService(env)
	ctx := context.Background()

	_, err := svc.Create(ctx, uuid.New(), Actor{}, CreateAdjustmentRequest{
		LocationID: uuid.New(),
		Lines: []AdjustmentLineRequest{
			{ProductID: uuid.New(), QuantityDelta: decimal.NewFromInt(3), Reason: "found in receiving"},
		},
	})
	assert.Error(t, err)
}

func TestAdjustmentService_CompleteIsIdempotentPerKey(t *testing.T) {
	env := newTestEnv()
	svc := newAdjustmentService(env)
	ctx := context.Background()
	tenantID := uuid.New()
	locationID := uuid.New()
	productID := uuid.New()

	created, err := svc.Create(ctx, tenantID, Actor{}, CreateAdjustmentRequest{
		LocationID: locationID,
		Lines: []AdjustmentLineRequest{
			{ProductID: productID, QuantityDelta: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(1), Reason: "found in receiving"},
		},
	})
	require.NoError(t, err)

	actor := Actor{IdempotencyKey: "adjust-once"}
	_, err = svc.Complete(ctx, tenantID, created.ID, actor)
	require.NoError(t, err)

	_, err = svc.Complete(ctx, tenantID, created.ID, actor)
	require.ErrorIs(t, err, ErrDuplicateRequest)

	movements, _, err := env.movements.FindForTenant(ctx, tenantID, inventory.MovementFilter{})
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}
