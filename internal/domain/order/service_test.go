package order

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/uuid"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu        sync.Mutex
	orders    map[string]*Order
	history   []OrderStatusHistory
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[string]*Order)}
}

func (f *fakeRepo) Create(_ context.Context, order *Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	cp := *order
	cp.Items = append([]OrderItem(nil), order.Items...)
	f.orders[order.ID] = &cp
	f.history = append(f.history, order.StatusHistory...)
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeRepo) FindByUser(_ context.Context, userID string) ([]Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeRepo) Transition(_ context.Context, id string, fn TransitionFunc) (*Order, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, false, ErrOrderNotFound
	}
	h, err := fn(o)
	if err != nil {
		return nil, false, err
	}
	if h == nil {
		cp := *o
		return &cp, false, nil
	}
	o.Status = h.Status
	if h.Reference != "" {
		o.PaymentReference = h.Reference
	}
	h.OrderID = id
	f.history = append(f.history, *h)
	cp := *o
	return &cp, true, nil
}

func newTestService() (*Service, *fakeRepo) {
	log, _ := logtest.NewNullLogger()
	repo := newFakeRepo()
	return NewService(repo, log), repo
}

func scenarioLines() []Line {
	return []Line{
		{ProductID: "web-basic", Title: "Basic Website", Quantity: 1, UnitZAR: 1000, UnitUSD: 55},
		{ProductID: "web-standard", Title: "Standard Website", Quantity: 2, UnitZAR: 2500, UnitUSD: 135},
	}
}

func TestCreateOrder(t *testing.T) {
	svc, repo := newTestService()

	order, err := svc.CreateOrder(context.Background(), "user-1", scenarioLines(), PaymentMethodPayFast)
	require.NoError(t, err)

	_, err = uuid.Parse(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Equal(t, int64(6000), order.TotalZAR)
	assert.Equal(t, int64(325), order.TotalUSD)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 1, order.Items[0].Quantity)
	assert.Equal(t, 2, order.Items[1].Quantity)
	assert.Equal(t, int64(5000), order.Items[1].PriceZAR)
	assert.Equal(t, int64(270), order.Items[1].PriceUSD)
	assert.Equal(t, order.ID, order.Items[1].OrderID)

	stored, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
	require.Len(t, repo.history, 1)
	assert.Equal(t, SourceCheckout, repo.history[0].Source)
}

func TestCreateOrderRejectsBadInput(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, "", scenarioLines(), PaymentMethodPayFast)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.CreateOrder(ctx, "user-1", nil, PaymentMethodPayFast)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = svc.CreateOrder(ctx, "user-1", scenarioLines(), PaymentMethod("bitcoin"))
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)

	_, err = svc.CreateOrder(ctx, "user-1", []Line{{ProductID: "web-basic", Quantity: 0}}, PaymentMethodEFT)
	assert.ErrorIs(t, err, ErrInvalidLine)

	assert.Empty(t, repo.orders, "nothing may be persisted for rejected input")
}

func TestCreateOrderRejectsOutOfRangeLines(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	cases := []struct {
		name  string
		lines []Line
	}{
		{"quantity above limit", []Line{{ProductID: "web-standard", Quantity: MaxLineQuantity + 1, UnitZAR: 2500, UnitUSD: 135}}},
		{"overflowing quantity", []Line{{ProductID: "web-standard", Quantity: 4_000_000_000_000_000, UnitZAR: 2500, UnitUSD: 135}}},
		{"negative price", []Line{{ProductID: "web-basic", Quantity: 1, UnitZAR: -1000, UnitUSD: 55}}},
		{"overflowing unit price", []Line{{ProductID: "web-basic", Quantity: 2, UnitZAR: math.MaxInt64 / 2, UnitUSD: 55}}},
		{"overflowing total", []Line{
			{ProductID: "a", Quantity: 2, UnitZAR: math.MaxInt64 / 1000, UnitUSD: 1},
			{ProductID: "b", Quantity: 999, UnitZAR: math.MaxInt64 / 1000, UnitUSD: 1},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateOrder(ctx, "user-1", tc.lines, PaymentMethodPayFast)
			assert.ErrorIs(t, err, ErrInvalidLine)
		})
	}
	assert.Empty(t, repo.orders)

	o, err := svc.CreateOrder(ctx, "user-1", []Line{{ProductID: "web-standard", Quantity: MaxLineQuantity, UnitZAR: 2500, UnitUSD: 135}}, PaymentMethodPayFast)
	require.NoError(t, err)
	assert.Equal(t, int64(MaxLineQuantity*2500), o.TotalZAR)
}

func TestCreateOrderPropagatesRepositoryError(t *testing.T) {
	svc, repo := newTestService()
	repo.createErr = errors.New("tx aborted")

	_, err := svc.CreateOrder(context.Background(), "user-1", scenarioLines(), PaymentMethodEFT)
	assert.EqualError(t, err, "tx aborted")
}

func TestUpdateOrderStatusTransitions(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, "user-1", scenarioLines(), PaymentMethodPayFast)
	require.NoError(t, err)

	updated, changed, err := svc.UpdateOrderStatus(ctx, order.ID, OrderStatusPaymentFailed, "pf-1", SourcePayFastITN)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, OrderStatusPaymentFailed, updated.Status)

	updated, changed, err = svc.UpdateOrderStatus(ctx, order.ID, OrderStatusPaid, "pf-2", SourcePayFastITN)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, OrderStatusPaid, updated.Status)
	assert.Equal(t, "pf-2", updated.PaymentReference)

	_, changed, err = svc.UpdateOrderStatus(ctx, order.ID, OrderStatusPaid, "pf-2", SourcePayFastITN)
	require.NoError(t, err)
	assert.False(t, changed, "duplicate notification must not re-apply")

	_, _, err = svc.UpdateOrderStatus(ctx, order.ID, OrderStatusPaymentFailed, "pf-3", SourcePayFastITN)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusPaid, stored.Status)
	assert.Len(t, repo.history, 3)
}

func TestUpdateOrderStatusUnknownOrder(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.UpdateOrderStatus(context.Background(), "not-a-uuid", OrderStatusPaid, "", SourcePayFastITN)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, _, err = svc.UpdateOrderStatus(context.Background(), uuid.NewString(), OrderStatusPaid, "", SourcePayFastITN)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateOrderStatusRejectsPending(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, "user-1", scenarioLines(), PaymentMethodPayFast)
	require.NoError(t, err)
	_, _, err = svc.UpdateOrderStatus(ctx, order.ID, OrderStatusPaymentFailed, "", SourcePayFastITN)
	require.NoError(t, err)

	_, _, err = svc.UpdateOrderStatus(ctx, order.ID, OrderStatusPending, "", SourcePayFastITN)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestGetUserOrderEnforcesOwnership(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, "user-1", scenarioLines(), PaymentMethodEFT)
	require.NoError(t, err)

	got, err := svc.GetUserOrder(ctx, "user-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = svc.GetUserOrder(ctx, "user-2", order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = svc.GetOrder(ctx, "garbage")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	orders, err := svc.ListUserOrders(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	_, err = svc.ListUserOrders(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestOrderHelpers(t *testing.T) {
	o := &Order{
		ID:     "3f2c9a1e-0000-4000-8000-000000000000",
		Status: OrderStatusPaymentFailed,
		Items:  []OrderItem{{Quantity: 1}, {Quantity: 2}},
	}
	assert.Equal(t, "3F2C9A1E", o.ShortID())
	assert.Equal(t, 3, o.TotalQuantity())
	assert.True(t, o.IsPayable())

	o.Status = OrderStatusPaid
	assert.False(t, o.IsPayable())

	m, err := ParsePaymentMethod(" EFT ")
	require.NoError(t, err)
	assert.True(t, m.IsManual())
	assert.False(t, PaymentMethodPayFast.IsManual())
}
