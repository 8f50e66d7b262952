package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupBalanceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&inventory.InventoryBalance{})
	require.NoError(t, err)

	return db
}

// newMockBalanceRepository creates a GormBalanceRepository with a mocked SQL connection
func newMockBalanceRepository(t *testing.T) (*GormBalanceRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormBalanceRepository(gormDB), mock, mockDB
}

func TestGormBalanceRepository_FindByKey(t *testing.T) {
	db := setupBalanceTestDB(t)
	repo := NewGormBalanceRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	productID := uuid.New()
	locationID := uuid.New()
	expiry := time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)

	noLot, err := inventory.NewInventoryBalance(tenantID, productID, locationID, valueobject.NoLot())
	require.NoError(t, err)
	require.NoError(t, noLot.Receive(decimal.NewFromInt(10), decimal.NewFromInt(5)))
	require.NoError(t, repo.Save(ctx, noLot))

	lotted, err := inventory.NewInventoryBalance(tenantID, productID, locationID, valueobject.NewLotKey("LOT-A", &expiry))
	require.NoError(t, err)
	require.NoError(t, lotted.Receive(decimal.NewFromInt(4), decimal.NewFromInt(7)))
	require.NoError(t, repo.Save(ctx, lotted))

	t.Run("no-lot key resolves to the empty-lot row", func(t *testing.T) {
		found, err := repo.FindByKey(ctx, tenantID, productID, locationID, valueobject.NoLot())
		require.NoError(t, err)
		assert.Equal(t, noLot.ID, found.ID)
		assert.True(t, found.QtyOnHand.Equal(decimal.NewFromInt(10)))
	})

	t.Run("lot key resolves to its own row", func(t *testing.T) {
		found, err := repo.FindByKey(ctx, tenantID, productID, locationID, valueobject.NewLotKey("LOT-A", &expiry))
		require.NoError(t, err)
		assert.Equal(t, lotted.ID, found.ID)
		assert.Equal(t, "LOT-A", found.LotNumber)
	})

	t.Run("repeated lookup returns the same row unchanged", func(t *testing.T) {
		first, err := repo.FindByKey(ctx, tenantID, productID, locationID, valueobject.NoLot())
		require.NoError(t, err)
		second, err := repo.FindByKey(ctx, tenantID, productID, locationID, valueobject.NoLot())
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.True(t, first.QtyOnHand.Equal(second.QtyOnHand))
		assert.True(t, first.AvgCost.Equal(second.AvgCost))
	})

	t.Run("unknown lot returns not found", func(t *testing.T) {
		_, err := repo.FindByKey(ctx, tenantID, productID, locationID, valueobject.NewLotKey("LOT-B", nil))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("different tenant cannot see the balance", func(t *testing.T) {
		_, err := repo.FindByKey(ctx, uuid.New(), productID, locationID, valueobject.NoLot())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormBalanceRepository_FindByKeyForUpdate(t *testing.T) {
	t.Run("locks the row with FOR UPDATE", func(t *testing.T) {
		repo, mock, mockDB := newMockBalanceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		productID := uuid.New()
		locationID := uuid.New()
		balanceID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "tenant_id", "product_id", "location_id",
			"lot_number", "expiry_date", "qty_on_hand", "avg_cost", "version",
		}).AddRow(
			balanceID, tenantID, productID, locationID,
			"", nil, decimal.NewFromInt(25), decimal.NewFromFloat(3.5), 1,
		)

		mock.ExpectQuery(`SELECT \* FROM "inventory_balances" WHERE \(tenant_id = \$1 AND product_id = \$2 AND location_id = \$3\) AND lot_number = \$4 AND expiry_date IS NULL ORDER BY .+ FOR UPDATE`).
			WithArgs(tenantID, productID, locationID, "", 1).
			WillReturnRows(rows)

		balance, err := repo.FindByKeyForUpdate(context.Background(), tenantID, productID, locationID, valueobject.NoLot())

		require.NoError(t, err)
		assert.Equal(t, balanceID, balance.ID)
		assert.True(t, balance.QtyOnHand.Equal(decimal.NewFromInt(25)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps record-not-found", func(t *testing.T) {
		repo, mock, mockDB := newMockBalanceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		productID := uuid.New()
		locationID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "inventory_balances"`).
			WithArgs(tenantID, productID, locationID, "", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		balance, err := repo.FindByKeyForUpdate(context.Background(), tenantID, productID, locationID, valueobject.NoLot())

		assert.Nil(t, balance)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBalanceRepository_FindAllForTenant(t *testing.T) {
	db := setupBalanceTestDB(t)
	repo := NewGormBalanceRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	locationID := uuid.New()
	otherLocation := uuid.New()

	for i, loc := range []uuid.UUID{locationID, locationID, otherLocation} {
		b, err := inventory.NewInventoryBalance(tenantID, uuid.New(), loc, valueobject.NoLot())
		require.NoError(t, err)
		require.NoError(t, b.Receive(decimal.NewFromInt(int64(i+1)), decimal.NewFromInt(2)))
		require.NoError(t, repo.Save(ctx, b))
	}

	t.Run("filters by location", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters = map[string]interface{}{"location_id": locationID}

		balances, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Len(t, balances, 2)

		count, err := repo.CountForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("scopes to the tenant", func(t *testing.T) {
		balances, err := repo.FindAllForTenant(ctx, uuid.New(), shared.DefaultFilter())
		require.NoError(t, err)
		assert.Empty(t, balances)
	})
}

func TestGormBalanceRepository_SumValueByLocation(t *testing.T) {
	db := setupBalanceTestDB(t)
	repo := NewGormBalanceRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	locationID := uuid.New()

	first, err := inventory.NewInventoryBalance(tenantID, uuid.New(), locationID, valueobject.NoLot())
	require.NoError(t, err)
	require.NoError(t, first.Receive(decimal.NewFromInt(10), decimal.NewFromInt(3)))
	require.NoError(t, repo.Save(ctx, first))

	second, err := inventory.NewInventoryBalance(tenantID, uuid.New(), locationID, valueobject.NoLot())
	require.NoError(t, err)
	require.NoError(t, second.Receive(decimal.NewFromInt(5), decimal.NewFromInt(4)))
	require.NoError(t, repo.Save(ctx, second))

	rows, err := repo.SumValueByLocation(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, locationID, rows[0].LocationID)
	assert.True(t, rows[0].TotalQty.Equal(decimal.NewFromInt(15)), "got %s", rows[0].TotalQty)
	assert.True(t, rows[0].TotalValue.Equal(decimal.NewFromInt(50)), "got %s", rows[0].TotalValue)
}
