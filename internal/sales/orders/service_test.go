package orders

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/balcao/balcao/internal/rbac"
	rootshared "github.com/balcao/balcao/internal/shared"
)

// memoryRepo stages writes per transaction and applies them only when the
// callback succeeds.
type memoryRepo struct {
	mu        sync.Mutex
	products  map[uuid.UUID]Product
	customers map[uuid.UUID]bool
	orders    map[uuid.UUID]Order
	lines     map[uuid.UUID][]Line
	failLines error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		products:  map[uuid.UUID]Product{},
		customers: map[uuid.UUID]bool{},
		orders:    map[uuid.UUID]Order{},
		lines:     map[uuid.UUID][]Line{},
	}
}

type memoryTx struct {
	repo   *memoryRepo
	orders []Order
	lines  map[uuid.UUID][]Line
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &memoryTx{repo: m, lines: map[uuid.UUID][]Line{}}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	for _, o := range tx.orders {
		m.orders[o.ID] = o
	}
	for id, l := range tx.lines {
		m.lines[id] = l
	}
	return nil
}

func (t *memoryTx) NextNumber(ctx context.Context) (int, error) {
	max := 0
	for _, o := range t.repo.orders {
		if o.Number > max {
			max = o.Number
		}
	}
	return max + 1, nil
}

func (t *memoryTx) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, ok := t.repo.products[id]
	if !ok {
		return nil, rootshared.ErrNotFound
	}
	return &p, nil
}

func (t *memoryTx) InsertOrder(ctx context.Context, o *Order) error {
	if !t.repo.customers[o.CustomerID] {
		return rootshared.Validation("cliente inexistente", map[string]string{"cliente_id": "cliente não encontrado"})
	}
	for _, existing := range t.repo.orders {
		if existing.Number == o.Number {
			return ErrNumberTaken
		}
	}
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	t.orders = append(t.orders, *o)
	return nil
}

func (t *memoryTx) InsertLines(ctx context.Context, orderID uuid.UUID, lines []Line) error {
	if t.repo.failLines != nil {
		return t.repo.failLines
	}
	for i := range lines {
		lines[i].ID = uuid.New()
		lines[i].OrderID = orderID
	}
	t.lines[orderID] = append([]Line(nil), lines...)
	return nil
}

func (m *memoryRepo) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	o.Lines = append([]Line(nil), m.lines[id]...)
	return &o, nil
}

func (m *memoryRepo) List(ctx context.Context, req ListOrdersRequest) ([]OrderWithDetails, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []OrderWithDetails
	for _, o := range m.orders {
		if req.SellerID != nil && o.SellerID != *req.SellerID {
			continue
		}
		if req.Status != nil && o.Status != *req.Status {
			continue
		}
		out = append(out, OrderWithDetails{Order: o})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number > out[j].Number })
	return out, len(out), nil
}

func (m *memoryRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	o.Status = status
	m.orders[id] = o
	return &o, nil
}

type memoryIdempotency struct {
	keys map[string]bool
}

func (m *memoryIdempotency) CheckAndInsert(ctx context.Context, key, module string) error {
	if m.keys[module+"/"+key] {
		return rootshared.ErrIdempotencyConflict
	}
	m.keys[module+"/"+key] = true
	return nil
}

func (m *memoryIdempotency) Delete(ctx context.Context, key, module string) error {
	delete(m.keys, module+"/"+key)
	return nil
}

type recorder struct {
	created   int
	conflicts map[string]int
	audits    []rootshared.AuditLog
}

func (r *recorder) OrderCreated()             { r.created++ }
func (r *recorder) Conflict(operation string) { r.conflicts[operation]++ }

func (r *recorder) Record(ctx context.Context, log rootshared.AuditLog) error {
	r.audits = append(r.audits, log)
	return nil
}

type fixture struct {
	svc      *Service
	repo     *memoryRepo
	idem     *memoryIdempotency
	rec      *recorder
	customer uuid.UUID
	seller   uuid.UUID
	productA uuid.UUID
	productB uuid.UUID
}

func newFixture() *fixture {
	repo := newMemoryRepo()
	f := &fixture{
		repo:     repo,
		idem:     &memoryIdempotency{keys: map[string]bool{}},
		rec:      &recorder{conflicts: map[string]int{}},
		customer: uuid.New(),
		seller:   uuid.New(),
		productA: uuid.New(),
		productB: uuid.New(),
	}
	repo.customers[f.customer] = true
	repo.products[f.productA] = Product{ID: f.productA, Code: "A1", Name: "Produto A", SalePrice: dec("10.00"), IsActive: true}
	repo.products[f.productB] = Product{ID: f.productB, Code: "B1", Name: "Produto B", SalePrice: dec("5.50"), IsActive: true}
	f.svc = NewService(repo, f.idem, f.rec, f.rec, nil)
	return f
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func (f *fixture) request(items ...CreateLineRequest) CreateOrderRequest {
	return CreateOrderRequest{CustomerID: f.customer, Items: items, PaymentMethod: PaymentPix}
}

func TestCreateOrderComputesTotals(t *testing.T) {
	f := newFixture()
	req := f.request(
		CreateLineRequest{ProductID: f.productA, Quantity: dec("2"), Discount: ptr("1.00")},
		CreateLineRequest{ProductID: f.productB, Quantity: dec("3")},
	)
	req.Discount = ptr("2.50")
	req.Surcharge = ptr("0.00")
	req.Shipping = ptr("1.00")

	order, err := f.svc.Create(context.Background(), req, f.seller, "")
	require.NoError(t, err)
	require.Equal(t, 1, order.Number)
	require.Equal(t, StatusPending, order.Status)
	require.Equal(t, f.seller, order.SellerID)
	require.True(t, dec("35.50").Equal(order.Subtotal), order.Subtotal.String())
	require.True(t, dec("34.00").Equal(order.Total), order.Total.String())
	require.Empty(t, order.Lines)

	stored, err := f.repo.Get(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 2)
	require.Equal(t, 1, stored.Lines[0].Position)
	require.Equal(t, "Produto A", stored.Lines[0].ProductName)
	require.True(t, dec("19.00").Equal(stored.Lines[0].Subtotal))
	require.True(t, dec("16.50").Equal(stored.Lines[1].Subtotal))
	require.Equal(t, 1, f.rec.created)
	require.Len(t, f.rec.audits, 1)
	require.Equal(t, "sales.create", f.rec.audits[0].Action)
}

func TestCreateOrderWithCatalogPrices(t *testing.T) {
	f := newFixture()
	productC := uuid.New()
	f.repo.products[productC] = Product{ID: productC, Code: "C1", Name: "Produto C", SalePrice: dec("5.00"), IsActive: true}
	req := f.request(
		CreateLineRequest{ProductID: f.productA, Quantity: dec("2")},
		CreateLineRequest{ProductID: productC, Quantity: dec("3")},
	)
	req.Discount = ptr("5.00")
	req.Shipping = ptr("2.00")

	order, err := f.svc.Create(context.Background(), req, f.seller, "")
	require.NoError(t, err)
	require.True(t, dec("35.00").Equal(order.Subtotal), order.Subtotal.String())
	require.True(t, dec("32.00").Equal(order.Total), order.Total.String())

	stored, err := f.repo.Get(context.Background(), order.ID)
	require.NoError(t, err)
	require.True(t, dec("20.00").Equal(stored.Lines[0].Subtotal))
	require.True(t, dec("15.00").Equal(stored.Lines[1].Subtotal))
	require.True(t, dec("5.00").Equal(stored.Lines[1].UnitPrice))
}

func TestCreateOrderUsesExplicitUnitPrice(t *testing.T) {
	f := newFixture()
	req := f.request(
		CreateLineRequest{ProductID: f.productA, Quantity: dec("2"), UnitPrice: ptr("17.50")},
	)
	req.Discount = ptr("3.00")

	order, err := f.svc.Create(context.Background(), req, f.seller, "")
	require.NoError(t, err)
	require.True(t, dec("35.00").Equal(order.Subtotal))
	require.True(t, dec("32.00").Equal(order.Total))
}

func TestCreateOrderNumbersAreSequential(t *testing.T) {
	f := newFixture()
	for want := 1; want <= 3; want++ {
		order, err := f.svc.Create(context.Background(), f.request(CreateLineRequest{ProductID: f.productA, Quantity: dec("1")}), f.seller, "")
		require.NoError(t, err)
		require.Equal(t, want, order.Number)
	}
}

func TestCreateOrderRejectsInvalidProducts(t *testing.T) {
	f := newFixture()
	inactive := uuid.New()
	f.repo.products[inactive] = Product{ID: inactive, Code: "X", Name: "Inativo", SalePrice: dec("1"), IsActive: false}

	for name, productID := range map[string]uuid.UUID{"missing": uuid.New(), "inactive": inactive} {
		t.Run(name, func(t *testing.T) {
			req := f.request(
				CreateLineRequest{ProductID: f.productA, Quantity: dec("1")},
				CreateLineRequest{ProductID: productID, Quantity: dec("1")},
			)
			_, err := f.svc.Create(context.Background(), req, f.seller, "")
			require.ErrorIs(t, err, rootshared.ErrValidation)
			var domainErr *rootshared.Error
			require.True(t, errors.As(err, &domainErr))
			require.Equal(t, rootshared.CodeProductNotFound, domainErr.Code)
			require.Contains(t, domainErr.Details, "itens[1].produto_id")
			require.Empty(t, f.repo.orders)
			require.Empty(t, f.repo.lines)
		})
	}
}

func TestCreateOrderRollsBackWhenLinesFail(t *testing.T) {
	f := newFixture()
	f.repo.failLines = errors.New("connection reset")

	_, err := f.svc.Create(context.Background(), f.request(CreateLineRequest{ProductID: f.productA, Quantity: dec("1")}), f.seller, "key-1")
	require.Error(t, err)
	require.Empty(t, f.repo.orders)
	require.Zero(t, f.rec.created)
	require.Empty(t, f.idem.keys)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture()
	cases := map[string]struct {
		mutate func(*CreateOrderRequest)
		field  string
	}{
		"no items":          {func(r *CreateOrderRequest) { r.Items = nil }, "itens"},
		"zero quantity":     {func(r *CreateOrderRequest) { r.Items[0].Quantity = decimal.Zero }, "itens[0].quantidade"},
		"negative quantity": {func(r *CreateOrderRequest) { r.Items[0].Quantity = dec("-1") }, "itens[0].quantidade"},
		"four places":       {func(r *CreateOrderRequest) { r.Items[0].Quantity = dec("1.0005") }, "itens[0].quantidade"},
		"negative price":    {func(r *CreateOrderRequest) { r.Items[0].UnitPrice = ptr("-1") }, "itens[0].preco_unitario"},
		"price places":      {func(r *CreateOrderRequest) { r.Items[0].UnitPrice = ptr("1.001") }, "itens[0].preco_unitario"},
		"negative discount": {func(r *CreateOrderRequest) { r.Discount = ptr("-0.01") }, "desconto"},
		"negative shipping": {func(r *CreateOrderRequest) { r.Shipping = ptr("-5") }, "valor_frete"},
		"payment method":    {func(r *CreateOrderRequest) { r.PaymentMethod = "cheque" }, "forma_pagamento"},
		"missing customer":  {func(r *CreateOrderRequest) { r.CustomerID = uuid.Nil }, "cliente_id"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := f.request(CreateLineRequest{ProductID: f.productA, Quantity: dec("1")})
			tc.mutate(&req)
			_, err := f.svc.Create(context.Background(), req, f.seller, "")
			var domainErr *rootshared.Error
			require.True(t, errors.As(err, &domainErr))
			require.Equal(t, rootshared.CodeValidation, domainErr.Code)
			require.Contains(t, domainErr.Details, tc.field)
		})
	}
	require.Empty(t, f.repo.orders)
}

func TestCreateOrderRejectsNegativeAmounts(t *testing.T) {
	f := newFixture()

	req := f.request(CreateLineRequest{ProductID: f.productA, Quantity: dec("1"), Discount: ptr("10.01")})
	_, err := f.svc.Create(context.Background(), req, f.seller, "")
	require.ErrorIs(t, err, rootshared.ErrValidation)

	req = f.request(CreateLineRequest{ProductID: f.productA, Quantity: dec("1")})
	req.Discount = ptr("10.01")
	_, err = f.svc.Create(context.Background(), req, f.seller, "")
	require.ErrorIs(t, err, rootshared.ErrValidation)
	require.Empty(t, f.repo.orders)
}

func TestCreateOrderUnknownCustomer(t *testing.T) {
	f := newFixture()
	req := f.request(CreateLineRequest{ProductID: f.productA, Quantity: dec("1")})
	req.CustomerID = uuid.New()
	_, err := f.svc.Create(context.Background(), req, f.seller, "")
	require.ErrorIs(t, err, rootshared.ErrValidation)
	require.Empty(t, f.repo.orders)
}

func TestCreateOrderIdempotencyKey(t *testing.T) {
	f := newFixture()
	req := f.request(CreateLineRequest{ProductID: f.productA, Quantity: dec("1")})

	_, err := f.svc.Create(context.Background(), req, f.seller, "abc")
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), req, f.seller, "abc")
	require.ErrorIs(t, err, rootshared.ErrConflict)
	require.Len(t, f.repo.orders, 1)
}

type conflictTx struct{ *memoryRepo }

func (c conflictTx) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return ErrNumberTaken
}

func TestCreateOrderConflictIsCounted(t *testing.T) {
	f := newFixture()
	svc := NewService(conflictTx{f.repo}, nil, nil, f.rec, nil)
	_, err := svc.Create(context.Background(), f.request(CreateLineRequest{ProductID: f.productA, Quantity: dec("1")}), f.seller, "")
	require.ErrorIs(t, err, rootshared.ErrConflict)
	require.Equal(t, 1, f.rec.conflicts["sales.create"])
}

func TestSellerVisibility(t *testing.T) {
	f := newFixture()
	order, err := f.svc.Create(context.Background(), f.request(CreateLineRequest{ProductID: f.productA, Quantity: dec("1")}), f.seller, "")
	require.NoError(t, err)

	owner := rbac.Principal{ID: f.seller, Role: rbac.RoleSeller}
	other := rbac.Principal{ID: uuid.New(), Role: rbac.RoleSeller}
	manager := rbac.Principal{ID: uuid.New(), Role: rbac.RoleManager}

	got, err := f.svc.Get(context.Background(), order.ID, owner)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)

	_, err = f.svc.Get(context.Background(), order.ID, other)
	require.ErrorIs(t, err, rootshared.ErrNotFound)

	_, err = f.svc.Get(context.Background(), order.ID, manager)
	require.NoError(t, err)

	items, total, err := f.svc.List(context.Background(), ListOrdersRequest{}, other)
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, items)

	_, total, err = f.svc.List(context.Background(), ListOrdersRequest{}, manager)
	require.NoError(t, err)
	require.Equal(t, 1, total)
}

func TestUpdateStatusAnyTransition(t *testing.T) {
	f := newFixture()
	order, err := f.svc.Create(context.Background(), f.request(CreateLineRequest{ProductID: f.productA, Quantity: dec("1")}), f.seller, "")
	require.NoError(t, err)
	actor := uuid.New()

	for _, status := range []Status{StatusCancelled, StatusPending, StatusDelivered, StatusConfirmed} {
		updated, err := f.svc.UpdateStatus(context.Background(), order.ID, status, actor)
		require.NoError(t, err)
		require.Equal(t, status, updated.Status)
	}

	_, err = f.svc.UpdateStatus(context.Background(), order.ID, "perdida", actor)
	require.ErrorIs(t, err, rootshared.ErrValidation)

	_, err = f.svc.UpdateStatus(context.Background(), uuid.New(), StatusConfirmed, actor)
	require.ErrorIs(t, err, rootshared.ErrNotFound)

	require.Equal(t, "sales.status", f.rec.audits[len(f.rec.audits)-1].Action)
}
