package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dk-code-insights/storefront/internal/config"
	"github.com/dk-code-insights/storefront/internal/domain/cart"
	"github.com/dk-code-insights/storefront/internal/domain/catalog"
	"github.com/dk-code-insights/storefront/internal/domain/notification"
	"github.com/dk-code-insights/storefront/internal/domain/order"
	"github.com/dk-code-insights/storefront/internal/domain/payment"
	"github.com/dk-code-insights/storefront/internal/domain/user"
	"github.com/dk-code-insights/storefront/internal/interfaces/http/middleware"
	"github.com/dk-code-insights/storefront/internal/pkg/email"
)

const (
	testSessionID = "3b6f0c1e-8d2a-4b7e-9c5d-1a2b3c4d5e6f"
	testOrderID   = "6f1d3c2a-5b4e-4f00-9a8b-7c6d5e4f3a2b"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() (*logrus.Logger, *logtest.Hook) {
	return logtest.NewNullLogger()
}

// withUser stands in for AuthMiddleware.
func withUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func perform(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set(middleware.HeaderSessionID, testSessionID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

type memCartRepo struct {
	mu    sync.Mutex
	items map[string][]cart.Item
}

func (m *memCartRepo) ListByUser(_ context.Context, userID string) ([]cart.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []cart.CartItem
	for _, it := range m.items[userID] {
		out = append(out, cart.CartItem{UserID: userID, ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out, nil
}

func (m *memCartRepo) ReplaceForUser(_ context.Context, userID string, items []cart.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[userID] = append([]cart.Item(nil), items...)
	return nil
}

func (m *memCartRepo) DeleteForUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, userID)
	return nil
}

func newCartService(t *testing.T) *cart.Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log, _ := testLogger()
	return cart.NewService(
		cart.NewRedisSessionStore(client, time.Hour),
		&memCartRepo{items: make(map[string][]cart.Item)},
		catalog.Default(),
		log,
	)
}

func TestProductHandlers(t *testing.T) {
	r := gin.New()
	products := NewProductHandler(catalog.Default())
	categories := NewCategoryHandler(catalog.Default())
	r.GET("/products", products.ListProducts)
	r.GET("/products/:id", products.GetProduct)
	r.GET("/categories", categories.ListCategories)
	r.GET("/categories/:id/products", categories.GetCategoryProducts)

	w := perform(r, http.MethodGet, "/products/web-basic", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "Basic Website", data["title"])

	w = perform(r, http.MethodGet, "/products/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", decode(t, w)["error"])

	w = perform(r, http.MethodGet, "/products?category=bogus", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodGet, "/categories", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(r, http.MethodGet, "/categories/bogus/products", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartHandler(t *testing.T) {
	h := NewCartHandler(newCartService(t))
	r := gin.New()
	group := r.Group("/cart", middleware.Session(config.SessionConfig{CookieName: "sid", TTL: time.Hour}))
	group.GET("", h.GetCart)
	group.POST("/items", h.AddToCart)
	group.PUT("/items/:product_id", h.UpdateCartItem)
	group.DELETE("/items/:product_id", h.RemoveFromCart)
	group.PUT("/currency", h.SetCurrency)
	group.DELETE("", h.ClearCart)

	w := perform(r, http.MethodPost, "/cart/items", `{"product_id":"web-basic"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, testSessionID, w.Header().Get(middleware.HeaderSessionID))

	w = perform(r, http.MethodPut, "/cart/items/web-basic", `{"quantity":3}`)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	items := data["items"].([]any)
	require.Len(t, items, 1)
	assert.EqualValues(t, 3, items[0].(map[string]any)["quantity"])

	t.Run("unknown product", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/cart/items", `{"product_id":"missing"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing body field", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/cart/items", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request data", decode(t, w)["error"])
	})

	t.Run("quantity above limit", func(t *testing.T) {
		w := perform(r, http.MethodPut, "/cart/items/web-basic", `{"quantity":4000000000000000}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request data", decode(t, w)["error"])
	})

	t.Run("unsupported currency", func(t *testing.T) {
		w := perform(r, http.MethodPut, "/cart/currency", `{"currency":"EUR"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	w = perform(r, http.MethodDelete, "/cart", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(r, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	data = decode(t, w)["data"].(map[string]any)
	assert.Empty(t, data["items"])
}

type stubOrders struct {
	mu       sync.Mutex
	orders   map[string]*order.Order
	statuses []order.OrderStatus
}

func newStubOrders(orders ...*order.Order) *stubOrders {
	s := &stubOrders{orders: make(map[string]*order.Order)}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

func (s *stubOrders) GetOrder(_ context.Context, id string) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *stubOrders) GetUserOrder(ctx context.Context, userID, id string) (*order.Order, error) {
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, order.ErrOrderNotFound
	}
	return o, nil
}

func (s *stubOrders) UpdateOrderStatus(_ context.Context, id string, status order.OrderStatus, _, _ string) (*order.Order, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, false, order.ErrOrderNotFound
	}
	s.statuses = append(s.statuses, status)
	changed := o.Status != status
	o.Status = status
	cp := *o
	return &cp, changed, nil
}

type stubProfiles struct{}

func (stubProfiles) GetProfile(context.Context, string) (*user.User, error) {
	return &user.User{ID: "u-1", Email: "jane@example.com", FirstName: "Jane", LastName: "Doe"}, nil
}

type stubSender struct {
	mu   sync.Mutex
	sent []*email.Email
}

func (s *stubSender) SendEmail(_ context.Context, e *email.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, e)
	return nil
}

func pendingOrder() *order.Order {
	return &order.Order{
		ID:            testOrderID,
		UserID:        "u-1",
		TotalZAR:      6000,
		TotalUSD:      325,
		PaymentMethod: order.PaymentMethodPayFast,
		Status:        order.OrderStatusPending,
		CreatedAt:     time.Now(),
		Items: []order.OrderItem{
			{ProductID: "web-basic", ProductTitle: "Basic Website", Quantity: 1, PriceZAR: 6000, PriceUSD: 325},
		},
	}
}

func newPaymentHandler(orders *stubOrders) (*PaymentHandler, *logtest.Hook) {
	log, hook := testLogger()
	gateway := payment.NewGateway(config.PayFastConfig{
		MerchantID:  "10000100",
		MerchantKey: "46f0cd694581a",
		ProcessURL:  "https://sandbox.payfast.co.za/eng/process",
	}, "https://api.example.com/api/v1/webhooks/payfast")
	svc := payment.NewService(gateway, orders, stubProfiles{}, nil, false, log)
	return NewPaymentHandler(svc, "https://shop.example.com", log), hook
}

func TestPayFastWebhookAlwaysAcknowledges(t *testing.T) {
	orders := newStubOrders(pendingOrder())
	h, hook := newPaymentHandler(orders)
	r := gin.New()
	r.POST("/webhooks/payfast", h.PayFastWebhook)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/payfast", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post("m_payment_id=" + testOrderID + "&pf_payment_id=1089250&payment_status=COMPLETE&amount_gross=6000.00")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	assert.Equal(t, []order.OrderStatus{order.OrderStatusPaid}, orders.statuses)

	hook.Reset()
	w = post("payment_status=COMPLETE")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "PayFast notification rejected", hook.LastEntry().Message)
	assert.Len(t, orders.statuses, 1)
}

func TestCreatePayFastPayment(t *testing.T) {
	h, _ := newPaymentHandler(newStubOrders(pendingOrder()))
	r := gin.New()
	r.POST("/payments/payfast", withUser("u-1"), h.CreatePayFastPayment)
	r.POST("/anon/payments/payfast", h.CreatePayFastPayment)

	w := perform(r, http.MethodPost, "/payments/payfast", `{"order_id":"`+testOrderID+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "https://sandbox.payfast.co.za/eng/process", data["payment_url"])
	fields := data["payment_data"].(map[string]any)
	assert.Equal(t, "6000.00", fields["amount"])
	assert.Equal(t, testOrderID, fields["m_payment_id"])
	assert.NotEmpty(t, fields["signature"])

	w = perform(r, http.MethodPost, "/anon/payments/payfast", `{"order_id":"`+testOrderID+`"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPayFastRedirect(t *testing.T) {
	h, _ := newPaymentHandler(newStubOrders(pendingOrder()))
	r := gin.New()
	r.Use(middleware.SecurityHeaders(false))
	r.GET("/payments/payfast/:order_id/redirect", withUser("u-1"), h.Redirect)

	w := perform(r, http.MethodGet, "/payments/payfast/"+testOrderID+"/redirect?embedded=1", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Empty(t, w.Header().Get("X-Frame-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "form-action https://sandbox.payfast.co.za")
	body := w.Body.String()
	assert.Contains(t, body, `action="https://sandbox.payfast.co.za/eng/process"`)
	assert.Contains(t, body, `target="_blank"`)

	w = perform(r, http.MethodGet, "/payments/payfast/"+testOrderID+"/redirect", "")
	assert.Contains(t, w.Body.String(), `target="_self"`)

	w = perform(r, http.MethodGet, "/payments/payfast/0d7c3e1b-0000-4000-8000-000000000000/redirect", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendOrderEmails(t *testing.T) {
	log, _ := testLogger()
	sender := &stubSender{}
	dispatcher := notification.NewDispatcher(newStubOrders(pendingOrder()), stubProfiles{}, sender,
		config.BusinessConfig{Name: "DK", Email: "orders@example.com", WhatsAppNumber: "27660462575"}, log)
	h := NewNotificationHandler(dispatcher, log)
	r := gin.New()
	r.POST("/internal/order-emails", h.SendOrderEmails)

	w := perform(r, http.MethodPost, "/internal/order-emails", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Order ID required", decode(t, w)["error"])

	w = perform(r, http.MethodPost, "/internal/order-emails", `{"orderId":"0d7c3e1b-0000-4000-8000-000000000000"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Order not found", decode(t, w)["error"])

	w = perform(r, http.MethodPost, "/internal/order-emails", `{"orderId":"`+testOrderID+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["success"])
	assert.Len(t, sender.sent, 2)
}

func TestCheckoutRequiresUser(t *testing.T) {
	h := NewCheckoutHandler(nil, "https://shop.example.com")
	r := gin.New()
	r.POST("/checkout", h.Checkout)

	w := perform(r, http.MethodPost, "/checkout", `{"payment_method":"eft"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRespondErrorUnknown(t *testing.T) {
	r := gin.New()
	r.GET("/boom", func(c *gin.Context) { respondError(c, assert.AnError) })

	w := perform(r, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decode(t, w)["error"])
}
