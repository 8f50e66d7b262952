package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupMovementTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&inventory.StockMovement{})
	require.NoError(t, err)

	return db
}

func appendMovement(t *testing.T, repo *GormMovementRepository, tenantID, productID, locationID uuid.UUID, lot valueobject.LotKey, movementType inventory.MovementType, qty int64, referenceType inventory.ReferenceType, referenceID uuid.UUID) *inventory.StockMovement {
	t.Helper()
	movement, err := inventory.NewStockMovement(
		tenantID, productID, locationID, lot,
		movementType, decimal.NewFromInt(qty), decimal.NewFromInt(2),
		referenceType, referenceID,
	)
	require.NoError(t, err)
	require.NoError(t, repo.Append(context.Background(), movement))
	return movement
}

func TestGormMovementRepository_FindForTenant(t *testing.T) {
	db := setupMovementTestDB(t)
	repo := NewGormMovementRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	productID := uuid.New()
	otherProduct := uuid.New()
	locationID := uuid.New()
	orderID := uuid.New()
	shipmentID := uuid.New()

	appendMovement(t, repo, tenantID, productID, locationID, valueobject.NoLot(),
		inventory.MovementTypeReceive, 10, inventory.ReferenceTypePurchaseOrder, orderID)
	appendMovement(t, repo, tenantID, productID, locationID, valueobject.NoLot(),
		inventory.MovementTypeShip, -4, inventory.ReferenceTypeShipment, shipmentID)
	appendMovement(t, repo, tenantID, otherProduct, locationID, valueobject.NoLot(),
		inventory.MovementTypeReceive, 7, inventory.ReferenceTypePurchaseOrder, orderID)

	t.Run("filters by product", func(t *testing.T) {
		movements, total, err := repo.FindForTenant(ctx, tenantID, inventory.MovementFilter{ProductID: &productID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, movements, 2)
		for _, m := range movements {
			assert.Equal(t, productID, m.ProductID)
		}
	})

	t.Run("filters by movement type", func(t *testing.T) {
		shipType := inventory.MovementTypeShip
		movements, total, err := repo.FindForTenant(ctx, tenantID, inventory.MovementFilter{MovementType: &shipType})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, movements, 1)
		assert.True(t, movements[0].Quantity.Equal(decimal.NewFromInt(-4)))
	})

	t.Run("filters by reference", func(t *testing.T) {
		refType := inventory.ReferenceTypePurchaseOrder
		movements, total, err := repo.FindForTenant(ctx, tenantID, inventory.MovementFilter{
			ReferenceType: &refType,
			ReferenceID:   &orderID,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, movements, 2)
	})

	t.Run("paginates results", func(t *testing.T) {
		movements, total, err := repo.FindForTenant(ctx, tenantID, inventory.MovementFilter{Page: 1, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, movements, 2)
	})

	t.Run("time window excludes older movements", func(t *testing.T) {
		future := time.Now().Add(time.Hour)
		movements, total, err := repo.FindForTenant(ctx, tenantID, inventory.MovementFilter{From: &future})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, movements)
	})

	t.Run("scopes to the tenant", func(t *testing.T) {
		_, total, err := repo.FindForTenant(ctx, uuid.New(), inventory.MovementFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})
}

func TestGormMovementRepository_SumByBalanceKey(t *testing.T) {
	db := setupMovementTestDB(t)
	repo := NewGormMovementRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	productID := uuid.New()
	locationID := uuid.New()
	orderID := uuid.New()
	expiry := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
	lot := valueobject.NewLotKey("LOT-9", &expiry)

	appendMovement(t, repo, tenantID, productID, locationID, lot,
		inventory.MovementTypeReceive, 12, inventory.ReferenceTypePurchaseOrder, orderID)
	appendMovement(t, repo, tenantID, productID, locationID, lot,
		inventory.MovementTypeShip, -5, inventory.ReferenceTypeShipment, uuid.New())
	appendMovement(t, repo, tenantID, productID, locationID, valueobject.NoLot(),
		inventory.MovementTypeReceive, 100, inventory.ReferenceTypePurchaseOrder, orderID)

	t.Run("sums signed quantities per lot", func(t *testing.T) {
		sum, err := repo.SumByBalanceKey(ctx, tenantID, productID, locationID, lot)
		require.NoError(t, err)
		assert.True(t, sum.Equal(decimal.NewFromInt(7)), "got %s", sum)
	})

	t.Run("no-lot key excludes lotted movements", func(t *testing.T) {
		sum, err := repo.SumByBalanceKey(ctx, tenantID, productID, locationID, valueobject.NoLot())
		require.NoError(t, err)
		assert.True(t, sum.Equal(decimal.NewFromInt(100)), "got %s", sum)
	})

	t.Run("empty ledger sums to zero", func(t *testing.T) {
		sum, err := repo.SumByBalanceKey(ctx, uuid.New(), productID, locationID, valueobject.NoLot())
		require.NoError(t, err)
		assert.True(t, sum.IsZero())
	})
}
