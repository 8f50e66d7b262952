package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/audit"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
)

func balanceKeyOf(tenantID, productID, locationID uuid.UUID, lot valueobject.LotKey) string {
	return fmt.Sprintf("%s|%s|%s|%s", tenantID, productID, locationID, lot.String())
}

type fakeBalanceRepo struct {
	balances map[string]*inventory.InventoryBalance
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: make(map[string]*inventory.InventoryBalance)}
}

func (r *fakeBalanceRepo) FindByKey(_ context.Context, tenantID, productID, locationID uuid.UUID, lot valueobject.LotKey) (*inventory.InventoryBalance, error) {
	b, ok := r.balances[balanceKeyOf(tenantID, productID, locationID, lot)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return b, nil
}

func (r *fakeBalanceRepo) FindByKeyForUpdate(ctx context.Context, tenantID, productID, locationID uuid.UUID, lot valueobject.LotKey) (*inventory.InventoryBalance, error) {
	return r.FindByKey(ctx, tenantID, productID, locationID, lot)
}

func (r *fakeBalanceRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*inventory.InventoryBalance, error) {
	for _, b := range r.balances {
		if b.TenantID == tenantID && b.ID == id {
			return b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBalanceRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]inventory.InventoryBalance, error) {
	result := make([]inventory.InventoryBalance, 0)
	for _, b := range r.balances {
		if b.TenantID == tenantID {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (r *fakeBalanceRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	all, _ := r.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(all)), nil
}

func (r *fakeBalanceRepo) FindByLocation(_ context.Context, tenantID, locationID uuid.UUID, _ shared.Filter) ([]inventory.InventoryBalance, error) {
	result := make([]inventory.InventoryBalance, 0)
	for _, b := range r.balances {
		if b.TenantID == tenantID && b.LocationID == locationID {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (r *fakeBalanceRepo) Save(_ context.Context, balance *inventory.InventoryBalance) error {
	r.balances[balanceKeyOf(balance.TenantID, balance.ProductID, balance.LocationID, balance.LotKey())] = balance
	return nil
}

func (r *fakeBalanceRepo) SumValueByLocation(_ context.Context, tenantID uuid.UUID) ([]inventory.LocationValuation, error) {
	byLocation := make(map[uuid.UUID]*inventory.LocationValuation)
	for _, b := range r.balances {
		if b.TenantID != tenantID {
			continue
		}
		v, ok := byLocation[b.LocationID]
		if !ok {
			v = &inventory.LocationValuation{LocationID: b.LocationID, TotalQty: decimal.Zero, TotalValue: decimal.Zero}
			byLocation[b.LocationID] = v
		}
		v.TotalQty = v.TotalQty.Add(b.QtyOnHand)
		v.TotalValue = v.TotalValue.Add(b.InventoryValue())
	}
	result := make([]inventory.LocationValuation, 0, len(byLocation))
	for _, v := range byLocation {
		result = append(result, *v)
	}
	return result, nil
}

type fakeMovementRepo struct {
	movements []*inventory.StockMovement
}

func newFakeMovementRepo() *fakeMovementRepo {
	return &fakeMovementRepo{movements: make([]*inventory.StockMovement, 0)}
}

func (r *fakeMovementRepo) Append(_ context.Context, movement *inventory.StockMovement) error {
	r.movements = append(r.movements, movement)
	return nil
}

func (r *fakeMovementRepo) FindForTenant(_ context.Context, tenantID uuid.UUID, filter inventory.MovementFilter) ([]inventory.StockMovement, int64, error) {
	result := make([]inventory.StockMovement, 0)
	for _, m := range r.movements {
		if m.TenantID != tenantID {
			continue
		}
		if filter.ProductID != nil && m.ProductID != *filter.ProductID {
			continue
		}
		if filter.LocationID != nil && m.LocationID != *filter.LocationID {
			continue
		}
		if filter.MovementType != nil && m.MovementType != *filter.MovementType {
			continue
		}
		if filter.ReferenceType != nil && m.ReferenceType != *filter.ReferenceType {
			continue
		}
		if filter.ReferenceID != nil && m.ReferenceID != *filter.ReferenceID {
			continue
		}
		result = append(result, *m)
	}
	return result, int64(len(result)), nil
}

func (r *fakeMovementRepo) SumByBalanceKey(_ context.Context, tenantID, productID, locationID uuid.UUID, lot valueobject.LotKey) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.movements {
		if m.TenantID == tenantID && m.ProductID == productID && m.LocationID == locationID && m.LotKey().Equal(lot) {
			sum = sum.Add(m.Quantity)
		}
	}
	return sum, nil
}

type fakeCycleCountRepo struct {
	counts map[uuid.UUID]*inventory.CycleCount
}

func newFakeCycleCountRepo() *fakeCycleCountRepo {
	return &fakeCycleCountRepo{counts: make(map[uuid.UUID]*inventory.CycleCount)}
}

func (r *fakeCycleCountRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*inventory.CycleCount, error) {
	cc, ok := r.counts[id]
	if !ok || cc.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return cc, nil
}

func (r *fakeCycleCountRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]inventory.CycleCount, int64, error) {
	result := make([]inventory.CycleCount, 0)
	for _, cc := range r.counts {
		if cc.TenantID == tenantID {
			result = append(result, *cc)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeCycleCountRepo) Save(_ context.Context, count *inventory.CycleCount) error {
	r.counts[count.ID] = count
	return nil
}

func (r *fakeCycleCountRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	cc, ok := r.counts[id]
	if !ok || cc.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.counts, id)
	return nil
}

type fakeIdemStore struct {
	keys map[string]bool
}

func newFakeIdemStore() *fakeIdemStore {
	return &fakeIdemStore{keys: make(map[string]bool)}
}

func (s *fakeIdemStore) Reserve(_ context.Context, tenantID uuid.UUID, key string) (bool, error) {
	k := tenantID.String() + ":" + key
	if s.keys[k] {
		return false, nil
	}
	s.keys[k] = true
	return true, nil
}

func (s *fakeIdemStore) Release(_ context.Context, tenantID uuid.UUID, key string) error {
	delete(s.keys, tenantID.String()+":"+key)
	return nil
}

type fakeRecorder struct {
	records []*audit.Record
}

func (r *fakeRecorder) Record(_ context.Context, record *audit.Record) error {
	r.records = append(r.records, record)
	return nil
}

// countEnv bundles the stock fakes behind a no-op transaction scope
type countEnv struct {
	balances    *fakeBalanceRepo
	movements   *fakeMovementRepo
	cycleCounts *fakeCycleCountRepo
	idemStore   *fakeIdemStore
	recorder    *fakeRecorder
	scope       TransactionScope
}

func newCountEnv() *countEnv {
	env := &countEnv{
		balances:    newFakeBalanceRepo(),
		movements:   newFakeMovementRepo(),
		cycleCounts: newFakeCycleCountRepo(),
		idemStore:   newFakeIdemStore(),
		recorder:    &fakeRecorder{},
	}
	env.scope = NewNoOpTransactionScope(
		env.balances, env.movements, env.cycleCounts,
		nil, nil, nil, nil, nil,
	)
	return env
}

func (env *countEnv) seedBalance(tenantID, productID, locationID uuid.UUID, lot valueobject.LotKey, qty, cost decimal.Decimal) *inventory.InventoryBalance {
	balance, err := inventory.NewInventoryBalance(tenantID, productID, locationID, lot)
	if err != nil {
		panic(err)
	}
	if err := balance.Receive(qty, cost); err != nil {
		panic(err)
	}
	if err := env.balances.Save(context.Background(), balance); err != nil {
		panic(err)
	}
	return balance
}
