package document

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appinventory "github.com/stockroom/backend/internal/application/inventory"
	"github.com/stockroom/backend/internal/domain/audit"
	"github.com/stockroom/backend/internal/domain/document"
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

func (r *fakeMovementRepo) FindForTenant(_ context.Context, tenantID uuid.UUID, _ inventory.MovementFilter) ([]inventory.StockMovement, int64, error) {
	result := make([]inventory.StockMovement, 0)
	for _, m := range r.movements {
		if m.TenantID == tenantID {
			result = append(result, *m)
		}
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

type fakePurchaseOrderRepo struct {
	orders map[uuid.UUID]*document.PurchaseOrder
}

func newFakePurchaseOrderRepo() *fakePurchaseOrderRepo {
	return &fakePurchaseOrderRepo{orders: make(map[uuid.UUID]*document.PurchaseOrder)}
}

func (r *fakePurchaseOrderRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*document.PurchaseOrder, error) {
	o, ok := r.orders[id]
	if !ok || o.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (r *fakePurchaseOrderRepo) FindByNumberForTenant(_ context.Context, tenantID uuid.UUID, orderNumber string) (*document.PurchaseOrder, error) {
	for _, o := range r.orders {
		if o.TenantID == tenantID && o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakePurchaseOrderRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]*document.PurchaseOrder, error) {
	result := make([]*document.PurchaseOrder, 0)
	for _, o := range r.orders {
		if o.TenantID == tenantID {
			result = append(result, o)
		}
	}
	return result, nil
}

func (r *fakePurchaseOrderRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	all, _ := r.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(all)), nil
}

func (r *fakePurchaseOrderRepo) Save(_ context.Context, order *document.PurchaseOrder) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakePurchaseOrderRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	o, ok := r.orders[id]
	if !ok || o.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

type fakeShipmentRepo struct {
	shipments map[uuid.UUID]*document.Shipment
}

func newFakeShipmentRepo() *fakeShipmentRepo {
	return &fakeShipmentRepo{shipments: make(map[uuid.UUID]*document.Shipment)}
}

func (r *fakeShipmentRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*document.Shipment, error) {
	s, ok := r.shipments[id]
	if !ok || s.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (r *fakeShipmentRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]*document.Shipment, error) {
	result := make([]*document.Shipment, 0)
	for _, s := range r.shipments {
		if s.TenantID == tenantID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (r *fakeShipmentRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	all, _ := r.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(all)), nil
}

func (r *fakeShipmentRepo) Save(_ context.Context, shipment *document.Shipment) error {
	r.shipments[shipment.ID] = shipment
	return nil
}

func (r *fakeShipmentRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	s, ok := r.shipments[id]
	if !ok || s.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.shipments, id)
	return nil
}

type fakeTransferRepo struct {
	transfers map[uuid.UUID]*document.Transfer
}

func newFakeTransferRepo() *fakeTransferRepo {
	return &fakeTransferRepo{transfers: make(map[uuid.UUID]*document.Transfer)}
}

func (r *fakeTransferRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*document.Transfer, error) {
	t, ok := r.transfers[id]
	if !ok || t.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (r *fakeTransferRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]*document.Transfer, error) {
	result := make([]*document.Transfer, 0)
	for _, t := range r.transfers {
		if t.TenantID == tenantID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (r *fakeTransferRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	all, _ := r.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(all)), nil
}

func (r *fakeTransferRepo) Save(_ context.Context, transfer *document.Transfer) error {
	r.transfers[transfer.ID] = transfer
	return nil
}

func (r *fakeTransferRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	t, ok := r.transfers[id]
	if !ok || t.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.transfers, id)
	return nil
}

type fakeReturnRepo struct {
	returns map[uuid.UUID]*document.ReturnOrder
}

func newFakeReturnRepo() *fakeReturnRepo {
	return &fakeReturnRepo{returns: make(map[uuid.UUID]*document.ReturnOrder)}
}

func (r *fakeReturnRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*document.ReturnOrder, error) {
	ret, ok := r.returns[id]
	if !ok || ret.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return ret, nil
}

func (r *fakeReturnRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]*document.ReturnOrder, error) {
	result := make([]*document.ReturnOrder, 0)
	for _, ret := range r.returns {
		if ret.TenantID == tenantID {
			result = append(result, ret)
		}
	}
	return result, nil
}

func (r *fakeReturnRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	all, _ := r.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(all)), nil
}

func (r *fakeReturnRepo) Save(_ context.Context, ret *document.ReturnOrder) error {
	r.returns[ret.ID] = ret
	return nil
}

func (r *fakeReturnRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	ret, ok := r.returns[id]
	if !ok || ret.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.returns, id)
	return nil
}

type fakeAdjustmentRepo struct {
	adjustments map[uuid.UUID]*document.Adjustment
}

func newFakeAdjustmentRepo() *fakeAdjustmentRepo {
	return &fakeAdjustmentRepo{adjustments: make(map[uuid.UUID]*document.Adjustment)}
}

func (r *fakeAdjustmentRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*document.Adjustment, error) {
	a, ok := r.adjustments[id]
	if !ok || a.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return a, nil
}

func (r *fakeAdjustmentRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]*document.Adjustment, error) {
	result := make([]*document.Adjustment, 0)
	for _, a := range r.adjustments {
		if a.TenantID == tenantID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *fakeAdjustmentRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	all, _ := r.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(all)), nil
}

func (r *fakeAdjustmentRepo) Save(_ context.Context, adjustment *document.Adjustment) error {
	r.adjustments[adjustment.ID] = adjustment
	return nil
}

func (r *fakeAdjustmentRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	a, ok := r.adjustments[id]
	if !ok || a.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.adjustments, id)
	return nil
}

type fakeRecorder struct {
	records []*audit.Record
}

func (r *fakeRecorder) Record(_ context.Context, record *audit.Record) error {
	r.records = append(r.records, record)
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

// testEnv bundles the fakes behind a no-op transaction scope
type testEnv struct {
	balances    *fakeBalanceRepo
	movements   *fakeMovementRepo
	cycleCounts *fakeCycleCountRepo
	orders      *fakePurchaseOrderRepo
	shipments   *fakeShipmentRepo
	transfers   *fakeTransferRepo
	returns     *fakeReturnRepo
	adjustments *fakeAdjustmentRepo
	recorder    *fakeRecorder
	idemStore   *fakeIdemStore
	scope       appinventory.TransactionScope
}

func newTestEnv() *testEnv {
	env := &testEnv{
		balances:    newFakeBalanceRepo(),
		movements:   newFakeMovementRepo(),
		cycleCounts: newFakeCycleCountRepo(),
		orders:      newFakePurchaseOrderRepo(),
		shipments:   newFakeShipmentRepo(),
		transfers:   newFakeTransferRepo(),
		returns:     newFakeReturnRepo(),
		adjustments: newFakeAdjustmentRepo(),
		recorder:    &fakeRecorder{},
		idemStore:   newFakeIdemStore(),
	}
	env.scope = appinventory.NewNoOpTransactionScope(
		env.balances, env.movements, env.cycleCounts,
		env.orders, env.shipments, env.transfers, env.returns, env.adjustments,
	)
	return env
}

// seedBalance creates a balance with the given quantity and cost
func (env *testEnv) seedBalance(tenantID, productID, locationID uuid.UUID, lot valueobject.LotKey, qty, cost decimal.Decimal) *inventory.InventoryBalance {
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
