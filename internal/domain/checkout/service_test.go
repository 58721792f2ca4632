package checkout

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dk-code-insights/storefront/internal/config"
	"github.com/dk-code-insights/storefront/internal/domain/cart"
	"github.com/dk-code-insights/storefront/internal/domain/catalog"
	"github.com/dk-code-insights/storefront/internal/domain/currency"
	"github.com/dk-code-insights/storefront/internal/domain/order"
	"github.com/dk-code-insights/storefront/internal/domain/payment"
)

const testOrderID = "6f1d3c2a-5b4e-4f00-9a8b-7c6d5e4f3a2b"

type fakeCarts struct {
	session *cart.Session
	cleared bool
}

func (f *fakeCarts) GetCart(context.Context, string) (*cart.Session, error) {
	return f.session, nil
}

func (f *fakeCarts) ClearCart(context.Context, string, string) error {
	f.cleared = true
	return nil
}

type fakeOrders struct {
	lines  []order.Line
	method order.PaymentMethod
	err    error
}

func (f *fakeOrders) CreateOrder(_ context.Context, userID string, lines []order.Line, method order.PaymentMethod) (*order.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(lines) == 0 {
		return nil, order.ErrEmptyCart
	}
	f.lines, f.method = lines, method
	o := &order.Order{ID: testOrderID, UserID: userID, PaymentMethod: method, Status: order.OrderStatusPending}
	for _, l := range lines {
		item := order.OrderItem{
			ProductID:    l.ProductID,
			ProductTitle: l.Title,
			Quantity:     l.Quantity,
			PriceZAR:     l.UnitZAR * int64(l.Quantity),
			PriceUSD:     l.UnitUSD * int64(l.Quantity),
		}
		o.Items = append(o.Items, item)
		o.TotalZAR += item.PriceZAR
		o.TotalUSD += item.PriceUSD
	}
	return o, nil
}

type fakePayments struct {
	configured bool
	origin     string
}

func (f *fakePayments) Configured() bool { return f.configured }

func (f *fakePayments) PaymentForOrder(_ context.Context, o *order.Order, origin string) (*payment.PaymentRequest, error) {
	f.origin = origin
	return &payment.PaymentRequest{
		URL: "https://www.payfast.co.za/eng/process",
		Fields: []payment.Field{
			{Name: "m_payment_id", Value: o.ID},
			{Name: "amount", Value: payment.FormatAmount(o.TotalZAR)},
		},
	}, nil
}

func cartSession(code currency.Code, items ...cart.Item) *cart.Session {
	return &cart.Session{SessionID: "sess-1", Currency: code, Items: items}
}

func newTestService(carts *fakeCarts, orders *fakeOrders, payments *fakePayments) *Service {
	log, _ := logtest.NewNullLogger()
	return NewService(carts, catalog.Default(), orders, payments, config.BusinessConfig{WhatsAppNumber: "27660462575"}, log)
}

func standardCart(code currency.Code) *cart.Session {
	return cartSession(code,
		cart.Item{ProductID: "web-basic", Quantity: 1},
		cart.Item{ProductID: "web-standard", Quantity: 2},
	)
}

func TestPlaceOrderPayFast(t *testing.T) {
	carts := &fakeCarts{session: standardCart(currency.ZAR)}
	orders := &fakeOrders{}
	payments := &fakePayments{configured: true}
	svc := newTestService(carts, orders, payments)

	res, err := svc.PlaceOrder(context.Background(), "sess-1", "u-1", "https://shop.example.com", &CheckoutRequest{PaymentMethod: "payfast"})
	require.NoError(t, err)

	assert.Equal(t, testOrderID, res.OrderID)
	assert.Equal(t, order.OrderStatusPending, res.Status)
	assert.Equal(t, int64(6000), res.TotalZAR)
	assert.Equal(t, int64(325), res.TotalUSD)
	assert.Equal(t, "https://www.payfast.co.za/eng/process", res.PaymentURL)
	assert.Equal(t, "6000.00", res.PaymentData["amount"])
	assert.Empty(t, res.WhatsAppURL)
	assert.Equal(t, "https://shop.example.com", payments.origin)
	assert.True(t, carts.cleared)

	require.Len(t, orders.lines, 2)
	assert.Equal(t, order.Line{ProductID: "web-standard", Title: "Standard Website", Quantity: 2, UnitZAR: 2500, UnitUSD: 135}, orders.lines[1])
}

func TestPlaceOrderManualMethodBuildsWhatsAppLink(t *testing.T) {
	carts := &fakeCarts{session: standardCart(currency.USD)}
	svc := newTestService(carts, &fakeOrders{}, &fakePayments{})

	res, err := svc.PlaceOrder(context.Background(), "sess-1", "u-1", "", &CheckoutRequest{PaymentMethod: "EFT"})
	require.NoError(t, err)
	assert.Equal(t, order.PaymentMethodEFT, res.PaymentMethod)
	assert.Empty(t, res.PaymentData)
	assert.True(t, carts.cleared)

	require.True(t, strings.HasPrefix(res.WhatsAppURL, "https://wa.me/27660462575?text="))
	u, err := url.Parse(res.WhatsAppURL)
	require.NoError(t, err)
	text := u.Query().Get("text")
	assert.Contains(t, text, "Order ID: "+testOrderID)
	assert.Contains(t, text, "• Standard Website × 2 - $270")
	assert.Contains(t, text, "*Total: $325.00*")
	assert.Contains(t, text, "Payment Method: EFT")
	assert.NotContains(t, res.WhatsAppURL, "+")
}

func TestPlaceOrderErrors(t *testing.T) {
	cases := []struct {
		name     string
		userID   string
		method   string
		session  *cart.Session
		payments *fakePayments
		orderErr error
		wantErr  error
	}{
		{"anonymous", "", "payfast", standardCart(currency.ZAR), &fakePayments{configured: true}, nil, order.ErrUnauthenticated},
		{"unknown method", "u-1", "bitcoin", standardCart(currency.ZAR), &fakePayments{configured: true}, nil, order.ErrInvalidPaymentMethod},
		{"gateway not configured", "u-1", "payfast", standardCart(currency.ZAR), &fakePayments{}, nil, payment.ErrGatewayNotConfigured},
		{"empty cart", "u-1", "eft", cartSession(currency.ZAR), &fakePayments{}, nil, order.ErrEmptyCart},
		{"store failure", "u-1", "eft", standardCart(currency.ZAR), &fakePayments{}, errors.New("db down"), nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			carts := &fakeCarts{session: tc.session}
			svc := newTestService(carts, &fakeOrders{err: tc.orderErr}, tc.payments)

			_, err := svc.PlaceOrder(context.Background(), "sess-1", tc.userID, "", &CheckoutRequest{PaymentMethod: tc.method})
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
			assert.False(t, carts.cleared)
		})
	}
}

func TestPlaceOrderManualMethodWithoutWhatsApp(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	carts := &fakeCarts{session: standardCart(currency.ZAR)}
	orders := &fakeOrders{}
	svc := NewService(carts, catalog.Default(), orders, &fakePayments{configured: true}, config.BusinessConfig{}, log)

	for _, method := range []string{"eft", "paypal"} {
		_, err := svc.PlaceOrder(context.Background(), "sess-1", "u-1", "", &CheckoutRequest{PaymentMethod: method})
		assert.ErrorIs(t, err, ErrMethodUnavailable)
	}
	assert.Nil(t, orders.lines, "no order may be created")
	assert.False(t, carts.cleared)
}

func TestPlaceOrderSkipsUnknownProducts(t *testing.T) {
	carts := &fakeCarts{session: cartSession(currency.ZAR,
		cart.Item{ProductID: "retired-product", Quantity: 1},
		cart.Item{ProductID: "web-basic", Quantity: 1},
	)}
	orders := &fakeOrders{}
	svc := newTestService(carts, orders, &fakePayments{})

	res, err := svc.PlaceOrder(context.Background(), "sess-1", "u-1", "", &CheckoutRequest{PaymentMethod: "paypal"})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), res.TotalZAR)
	require.Len(t, orders.lines, 1)
	assert.Equal(t, "web-basic", orders.lines[0].ProductID)
}

func TestValidateCheckout(t *testing.T) {
	svc := newTestService(&fakeCarts{session: standardCart(currency.ZAR)}, &fakeOrders{}, &fakePayments{})

	v, err := svc.ValidateCheckout(context.Background(), "sess-1", "eft")
	require.NoError(t, err)
	assert.True(t, v.IsValid)
	assert.Equal(t, int64(6000), v.TotalZAR)
	assert.Equal(t, int64(325), v.TotalUSD)

	v, err = svc.ValidateCheckout(context.Background(), "sess-1", "payfast")
	require.NoError(t, err)
	assert.False(t, v.IsValid)
	assert.Contains(t, v.Errors, "invalid or unavailable payment method")

	empty := newTestService(&fakeCarts{session: cartSession(currency.ZAR, cart.Item{ProductID: "gone", Quantity: 1})}, &fakeOrders{}, &fakePayments{})
	v, err = empty.ValidateCheckout(context.Background(), "sess-1", "eft")
	require.NoError(t, err)
	assert.False(t, v.IsValid)
	assert.Contains(t, v.Errors, "cart is empty")
	assert.Len(t, v.Warnings, 1)
}

func TestPaymentMethods(t *testing.T) {
	svc := newTestService(&fakeCarts{}, &fakeOrders{}, &fakePayments{configured: true})
	methods := svc.PaymentMethods()
	require.Len(t, methods, 3)
	for _, m := range methods {
		assert.True(t, m.Available, m.ID)
	}
}
