package inventory

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

func newCycleCountService(env *countEnv) *CycleCountService {
	return NewCycleCountService(env.cycleCounts, env.balances, env.scope, env.idemStore, env.recorder, nil)
}

// receiveIntoLedger appends a RECEIVE movement for qty and, when apply is
// set, applies the same receipt to the balance. Seeded balances already
// carry their opening quantity, so the opening movement passes apply=false.
func receiveIntoLedger(t *testing.T, env *countEnv, balance *inventory.InventoryBalance, qty, cost decimal.Decimal, apply bool) {
	t.Helper()
	ctx := context.Background()
	if apply {
		require.NoError(t, balance.Receive(qty, cost))
		require.NoError(t, env.balances.Save(ctx, balance))
	}
	movement, err := inventory.NewStockMovement(
		balance.TenantID, balance.ProductID, balance.LocationID, balance.LotKey(),
		inventory.MovementTypeReceive, qty, cost,
		inventory.ReferenceTypePurchaseOrder, uuid.New(),
	)
	require.NoError(t, err)
	require.NoError(t, env.movements.Append(ctx, movement))
}

func TestCycleCountService_ZeroVarianceProducesNoMovement(t *testing.T) {
	env := newCountEnv()
	svc := newCycleCountService(env)
	ctx := context.Background()
	tenantID := uuid.New()
	locationID := uuid.New()
	productID := uuid.New()

	env.seedBalance(tenantID, productID, locationID, valueobject.NoLot(),
		decimal.NewFromInt(15), decimal.NewFromInt(2))

	created, err := svc.Create(ctx, tenantID, CreateCycleCountRequest{LocationID: locationID})
	require.NoError(t, err)

	withLine, err := svc.AddLine(ctx, tenantID, created.ID, AddCycleCountLineRequest{ProductID: productID})
	require.NoError(t, err)
	require.Len(t, withLine.Lines, 1)
	assert.True(t, withLine.Lines[0].SystemQty.Equal(decimal.NewFromInt(15)))

	_, err = svc.RecordCount(ctx, tenantID, created.ID, RecordCountRequest{
		LineID:     withLine.Lines[0].ID,
		CountedQty: decimal.NewFromInt(15),
	})
	require.NoError(t, err)

	resp, err := svc.Complete(ctx, tenantID, created.ID, nil, "")
	require.NoError(t, err)
	assert.Equal(t, inventory.CycleCountStatusCompleted.String(), resp.Status)

	// Counted exactly what the system said: the ledger stays silent
	movements, _, err := env.movements.FindForTenant(ctx, tenantID, inventory.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movements)

	balance, err := env.balances.FindByKey(ctx, tenantID, productID, locationID, valueobject.NoLot())
	require.NoError(t, err)
	assert.True(t, balance.QtyOnHand.Equal(decimal.NewFromInt(15)))
}

func TestCycleCountService_VariancePostsSignedMovement(t *testing.T) {
	env := newCountEnv()
	svc := newCycleCountService(env)
	ctx := context.Background()
	tenantID := uuid.New()
	locationID := uuid.New()
	productID := uuid.New()

	env.seedBalance(tenantID, productID, locationID, valueobject.NoLot(),
		decimal.NewFromInt(15), decimal.NewFromInt(2))

	created, err := svc.Create(ctx, tenantID, CreateCycleCountRequest{LocationID: locationID})
	require.NoError(t, err)
	withLine, err := svc.AddLine(ctx, tenantID, created.ID, AddCycleCountLineRequest{ProductID: productID})
	require.NoError(t, err)

	// Shelf count came in three short
	_, err = svc.RecordCount(ctx, tenantID, created.ID, RecordCountRequest{
		LineID:     withLine.Lines[0].ID,
		CountedQty: decimal.NewFromInt(12),
	})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, tenantID, created.ID, nil, "")
	require.NoError(t, err)

	balance, err := env.balances.FindByKey(ctx, tenantID, productID, locationID, valueobject.NoLot())
	require.NoError(t, err)
	assert.True(t, balance.QtyOnHand.Equal(decimal.NewFromInt(12)))
	// A count corrects quantity, never the cost basis
	assert.True(t, balance.AvgCost.Equal(decimal.NewFromInt(2)))

	movements, _, err := env.movements.FindForTenant(ctx, tenantID, inventory.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, inventory.MovementTypeCountVariance, movements[0].MovementType)
	assert.True(t, movements[0].Quantity.Equal(decimal.NewFromInt(-3)))
	assert.True(t, movements[0].UnitCost.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, inventory.ReferenceTypeCycleCount, movements[0].ReferenceType)
}

func TestCycleCountService_FoundStockCreatesBalance(t *testing.T) {
	env := newCountEnv()
	svc := newCycleCountService(env)
	ctx := context.Background()
	tenantID := uuid.New()
	locationID := uuid.New()
	productID := uuid.New()

	created, err := svc.Create(ctx, tenantID, CreateCycleCountRequest{LocationID: locationID})
	require.NoError(t, err)

	// No balance row exists: the sheet snapshots zero
	withLine, err := svc.AddLine(ctx, tenantID, created.ID, AddCycleCountLineRequest{
		ProductID: productID,
		LotNumber: "LOT-9",
	})
	require.NoError(t, err)
	assert.True(t, withLine.Lines[0].SystemQty.IsZero())

	_, err = svc.RecordCount(ctx, tenantID, created.ID, RecordCountRequest{
		LineID:     withLine.Lines[0].ID,
		CountedQty: decimal.NewFromInt(7),
	})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, tenantID, created.ID, nil, "")
	require.NoError(t, err)

	balance, err := env.balances.FindByKey(ctx, tenantID, productID, locationID, valueobject.NewLotKey("LOT-9", nil))
	require.NoError(t, err)
	assert.True(t, balance.QtyOnHand.Equal(decimal.NewFromInt(7)))

	movements, _, err := env.movements.FindForTenant(ctx, tenantID, inventory.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.True(t, movements[0].Quantity.Equal(decimal.NewFromInt(7)))
}

func TestCycleCountService_MovementDeltaTracksBalanceAtPostingTime(t *testing.T) {
	env := newCountEnv()
	svc := newCycleCountService(env)
	ctx := context.Background()
	tenantID := uuid.New()
	locationID := uuid.New()
	productID := uuid.New()
	lot := valueobject.NoLot()

	balance := env.seedBalance(tenantID, productID, locationID, lot,
		decimal.NewFromInt(10), decimal.NewFromInt(2))
	receiveIntoLedger(t, env, balance, decimal.NewFromInt(10), decimal.NewFromInt(2), false)

	created, err := svc.Create(ctx, tenantID, CreateCycleCountRequest{LocationID: locationID})
	require.NoError(t, err)
	withLine, err := svc.AddLine(ctx, tenantID, created.ID, AddCycleCountLineRequest{ProductID: productID})
	require.NoError(t, err)
	require.True(t, withLine.Lines[0].SystemQty.Equal(decimal.NewFromInt(10)))

	// A receipt lands after the sheet snapshot but before posting
	receiveIntoLedger(t, env, balance, decimal.NewFromInt(5), decimal.NewFromInt(2), true)

	_, err = svc.RecordCount(ctx, tenantID, created.ID, RecordCountRequest{
		LineID:     withLine.Lines[0].ID,
		CountedQty: decimal.NewFromInt(12),
	})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, tenantID, created.ID, nil, "")
	require.NoError(t, err)

	balance, err = env.balances.FindByKey(ctx, tenantID, productID, locationID, lot)
	require.NoError(t, err)
	assert.True(t, balance.QtyOnHand.Equal(decimal.NewFromInt(12)))

	// The variance is against the 15 on hand at posting, not the 10 snapshotted
	variance := inventory.MovementTypeCountVariance
	movements, _, err := env.movements.FindForTenant(ctx, tenantID, inventory.MovementFilter{MovementType: &variance})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.True(t, movements[0].Quantity.Equal(decimal.NewFromInt(-3)))

	sum, err := env.movements.SumByBalanceKey(ctx, tenantID, productID, locationID, lot)
	require.NoError(t, err)
	assert.True(t, sum.Equal(balance.QtyOnHand))
}

func TestCycleCountService_ZeroSnapshotVarianceStillPostsDrift(t *testing.T) {
	env := newCountEnv()
	svc := newCycleCountService(env)
	ctx := context.Background()
	tenantID := uuid.New()
	locationID := uuid.New()
	productID := uuid.New()
	lot := valueobject.NoLot()

	balance := env.seedBalance(tenantID, productID, locationID, lot,
		decimal.NewFromInt(10), decimal.NewFromInt(2))
	receiveIntoLedger(t, env, balance, decimal.NewFromInt(10), decimal.NewFromInt(2), false)

	created, err := svc.Create(ctx, tenantID, CreateCycleCountRequest{LocationID: locationID})
	require.NoError(t, err)
	withLine, err := svc.AddLine(ctx, tenantID, created.ID, AddCycleCountLineRequest{ProductID: productID})
	require.NoError(t, err)

	receiveIntoLedger(t, env, balance, decimal.NewFromInt(5), decimal.NewFromInt(2), true)

	// Counted matches the snapshot exactly, yet 15 are now on hand
	_, err = svc.RecordCount(ctx, tenantID, created.ID, RecordCountRequest{
		LineID:     withLine.Lines[0].ID,
		CountedQty: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, tenantID, created.ID, nil, "")
	require.NoError(t, err)

	balance, err = env.balances.FindByKey(ctx, tenantID, productID, locationID, lot)
	require.NoError(t, err)
	assert.True(t, balance.QtyOnHand.Equal(decimal.NewFromInt(10)))

	variance := inventory.MovementTypeCountVariance
	movements, _, err := env.movements.FindForTenant(ctx, tenantID, inventory.MovementFilter{MovementType: &variance})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.True(t, movements[0].Quantity.Equal(decimal.NewFromInt(-5)))

	sum, err := env.movements.SumByBalanceKey(ctx, tenantID, productID, locationID, lot)
	require.NoError(t, err)
	assert.True(t, sum.Equal(balance.QtyOnHand))
}

func TestCycleCountService_IdempotencyKeySuppressesReplay(t *testing.T) {
	env := newCountEnv()
	svc := newCycleCountService(env)
	ctx := context.Background()
	tenantID := uuid.New()
	locationID := uuid.New()
	productID := uuid.New()

	env.seedBalance(tenantID, productID, locationID, valueobject.NoLot(),
		decimal.NewFromInt(15), decimal.NewFromInt(2))

	created, err := svc.Create(ctx, tenantID, CreateCycleCountRequest{LocationID: locationID})
	require.NoError(t, err)
	withLine, err := svc.AddLine(ctx, tenantID, created.ID, AddCycleCountLineRequest{ProductID: productID})
	require.NoError(t, err)
	_, err = svc.RecordCount(ctx, tenantID, created.ID, RecordCountRequest{
		LineID:     withLine.Lines[0].ID,
		CountedQty: decimal.NewFromInt(12),
	})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, tenantID, created.ID, nil, "post-once")
	require.NoError(t, err)

	_, err = svc.Complete(ctx, tenantID, created.ID, nil, "post-once")
	require.ErrorIs(t, err, shared.ErrDuplicateRequest)

	movements, _, err := env.movements.FindForTenant(ctx, tenantID, inventory.MovementFilter{})
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}

func TestCycleCountService_FailedCompleteReleasesKey(t *testing.T) {
	env := newCountEnv()
	svc := newCycleCountService(env)
	ctx := context.Background()
	tenantID := uuid.New()
	locationID := uuid.New()

	created, err := svc.Create(ctx, tenantID, CreateCycleCountRequest{LocationID: locationID})
	require.NoError(t, err)
	withLine, err := svc.AddLine(ctx, tenantID, created.ID, AddCycleCountLineRequest{ProductID: uuid.New()})
	require.NoError(t, err)

	// Uncounted line rejects the post; the key must be retryable
	_, err = svc.Complete(ctx, tenantID, created.ID, nil, "retry-me")
	require.Error(t, err)

	_, err = svc.RecordCount(ctx, tenantID, created.ID, RecordCountRequest{
		LineID:     withLine.Lines[0].ID,
		CountedQty: decimal.Zero,
	})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, tenantID, created.ID, nil, "retry-me")
	require.NoError(t, err)
}

func TestCycleCountService_CompleteRequiresAllLinesCounted(t *testing.T) {
	env := newCountEnv()
	svc := newCycleCountService(env)
	ctx := context.Background()
	tenantID := uuid.New()
	locationID := uuid.New()

	created, err := svc.Create(ctx, tenantID, CreateCycleCountRequest{LocationID: locationID})
	require.NoError(t, err)
	_, err = svc.AddLine(ctx, tenantID, created.ID, AddCycleCountLineRequest{ProductID: uuid.New()})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, tenantID, created.ID, nil, "")
	assert.Error(t, err)
}

func TestCycleCountService_DeleteOnlyDraft(t *testing.T) {
	env := newCountEnv()
	svc := newCycleCountService(env)
	ctx := context.Background()
	tenantID := uuid.New()

	created, err := svc.Create(ctx, tenantID, CreateCycleCountRequest{LocationID: uuid.New()})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, tenantID, created.ID, "rescheduled")
	require.NoError(t, err)

	err = svc.Delete(ctx, tenantID, created.ID)
	assert.Error(t, err)
}
