// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dk-code-insights/storefront/internal/config"
	"github.com/dk-code-insights/storefront/internal/domain/cart"
	"github.com/dk-code-insights/storefront/internal/domain/catalog"
	"github.com/dk-code-insights/storefront/internal/domain/currency"
	"github.com/dk-code-insights/storefront/internal/domain/order"
	"github.com/dk-code-insights/storefront/internal/domain/payment"
)

// ErrMethodUnavailable is returned for a known payment method that cannot be used right now.
var ErrMethodUnavailable = errors.New("payment method is not available")

// Carts is the part of the cart service checkout drives.
type Carts interface {
	GetCart(ctx context.Context, sessionID string) (*cart.Session, error)
	ClearCart(ctx context.Context, sessionID, userID string) error
}

// Catalog resolves cart lines to products.
type Catalog interface {
	GetProduct(id string) (catalog.Product, error)
}

// Orders creates pending orders.
type Orders interface {
	CreateOrder(ctx context.Context, userID string, lines []order.Line, method order.PaymentMethod) (*order.Order, error)
}

// Payments starts gateway payments for new orders.
type Payments interface {
	Configured() bool
	PaymentForOrder(ctx context.Context, o *order.Order, origin string) (*payment.PaymentRequest, error)
}

// PaymentMethod is a checkout option shown to the shopper
type PaymentMethod struct {
	ID          order.PaymentMethod `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Available   bool                `json:"available"`
}

// CheckoutRequest is the body of POST /checkout
type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// CheckoutResult is what the shopper needs to finish paying.
type CheckoutResult struct {
	OrderID       string              `json:"order_id"`
	Status        order.OrderStatus   `json:"status"`
	PaymentMethod order.PaymentMethod `json:"payment_method"`
	TotalZAR      int64               `json:"total_zar"`
	TotalUSD      int64               `json:"total_usd"`
	Currency      currency.Code       `json:"currency"`
	PaymentURL    string              `json:"payment_url,omitempty"`
	PaymentData   map[string]string   `json:"payment_data,omitempty"`
	WhatsAppURL   string              `json:"whatsapp_url,omitempty"`
}

// CheckoutValidation reports whether the session cart can be checked out
type CheckoutValidation struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	TotalZAR int64    `json:"total_zar"`
	TotalUSD int64    `json:"total_usd"`
}

// Service handles checkout business logic
type Service struct {
	carts    Carts
	products Catalog
	orders   Orders
	payments Payments
	business config.BusinessConfig
	log      logrus.FieldLogger
}

// NewService creates a new checkout service
func NewService(carts Carts, products Catalog, orders Orders, payments Payments, business config.BusinessConfig, log logrus.FieldLogger) *Service {
	return &Service{
		carts:    carts,
		products: products,
		orders:   orders,
		payments: payments,
		business: business,
		log:      log,
	}
}

// PaymentMethods lists the checkout options and whether each can be used now.
func (s *Service) PaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		{
			ID:          order.PaymentMethodPayFast,
			Name:        "PayFast",
			Description: "Card, Instant EFT and other South African payment options",
			Available:   s.payments.Configured(),
		},
		{
			ID:          order.PaymentMethodEFT,
			Name:        "EFT / Bank Transfer",
			Description: "Order via WhatsApp for manual payment",
			Available:   s.business.WhatsAppNumber != "",
		},
		{
			ID:          order.PaymentMethodPayPal,
			Name:        "PayPal",
			Description: "Order via WhatsApp for PayPal payment",
			Available:   s.business.WhatsAppNumber != "",
		},
	}
}

// ValidateCheckout checks the session cart and payment method without creating anything.
func (s *Service) ValidateCheckout(ctx context.Context, sessionID, method string) (*CheckoutValidation, error) {
	validation := &CheckoutValidation{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
	}

	sess, err := s.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	lines, skipped := s.resolveLines(sess)
	for _, id := range skipped {
		validation.Warnings = append(validation.Warnings, fmt.Sprintf("%s is no longer available and will be skipped", id))
	}
	if len(lines) == 0 {
		validation.IsValid = false
		validation.Errors = append(validation.Errors, "cart is empty")
	}
	for _, l := range lines {
		validation.TotalZAR += l.UnitZAR * int64(l.Quantity)
		validation.TotalUSD += l.UnitUSD * int64(l.Quantity)
	}

	if !s.methodAvailable(method) {
		validation.IsValid = false
		validation.Errors = append(validation.Errors, "invalid or unavailable payment method")
	}

	return validation, nil
}

// PlaceOrder turns the session cart into a pending order and clears the cart.
// PayFast orders come back with signed payment data; manual methods get a
// WhatsApp link carrying the order message.
func (s *Service) PlaceOrder(ctx context.Context, sessionID, userID, origin string, req *CheckoutRequest) (*CheckoutResult, error) {
	if userID == "" {
		return nil, order.ErrUnauthenticated
	}
	method, err := order.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if method == order.PaymentMethodPayFast && !s.payments.Configured() {
		return nil, payment.ErrGatewayNotConfigured
	}
	if !s.methodAvailable(string(method)) {
		return nil, fmt.Errorf("%w: %s", ErrMethodUnavailable, method)
	}

	sess, err := s.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	lines, skipped := s.resolveLines(sess)
	if len(skipped) > 0 {
		s.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"products":   skipped,
		}).Warn("Skipping unknown products at checkout")
	}

	o, err := s.orders.CreateOrder(ctx, userID, lines, method)
	if err != nil {
		return nil, err
	}

	if err := s.carts.ClearCart(ctx, sessionID, userID); err != nil {
		s.log.WithError(err).WithField("order_id", o.ID).Error("Failed to clear cart after checkout")
	}

	code := sess.Currency
	if !code.Valid() {
		code = currency.Default
	}
	result := &CheckoutResult{
		OrderID:       o.ID,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		TotalZAR:      o.TotalZAR,
		TotalUSD:      o.TotalUSD,
		Currency:      code,
	}

	if method.IsManual() {
		result.WhatsAppURL = s.WhatsAppURL(o, code)
		return result, nil
	}

	pr, err := s.payments.PaymentForOrder(ctx, o, origin)
	if err != nil {
		return nil, fmt.Errorf("order %s created but payment could not start: %w", o.ID, err)
	}
	result.PaymentURL = pr.URL
	result.PaymentData = pr.Map()
	return result, nil
}

// WhatsAppURL builds the wa.me link with the prefilled order message.
func (s *Service) WhatsAppURL(o *order.Order, code currency.Code) string {
	var b strings.Builder
	b.WriteString("Hi! I'd like to place an order:\n\n")
	b.WriteString("Order ID: " + o.ID + "\n\n")
	for i, item := range o.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "• %s × %d - %s", item.ProductTitle, item.Quantity, code.FormatPrice(item.PriceZAR, item.PriceUSD))
	}
	fmt.Fprintf(&b, "\n\n*Total: %s%d.00*\n\n", code.Symbol(), code.Select(o.TotalZAR, o.TotalUSD))
	b.WriteString("Payment Method: " + strings.ToUpper(string(o.PaymentMethod)) + "\n\n")
	b.WriteString("Please confirm availability and send payment details.")

	text := strings.ReplaceAll(url.QueryEscape(b.String()), "+", "%20")
	return "https://wa.me/" + s.business.WhatsAppNumber + "?text=" + text
}

func (s *Service) resolveLines(sess *cart.Session) ([]order.Line, []string) {
	lines := make([]order.Line, 0, len(sess.Items))
	var skipped []string
	for _, item := range sess.Items {
		p, err := s.products.GetProduct(item.ProductID)
		if err != nil {
			if !errors.Is(err, catalog.ErrProductNotFound) {
				s.log.WithError(err).WithField("product_id", item.ProductID).Warn("Product lookup failed")
			}
			skipped = append(skipped, item.ProductID)
			continue
		}
		lines = append(lines, order.Line{
			ProductID: p.ID,
			Title:     p.Title,
			Quantity:  item.Quantity,
			UnitZAR:   p.PriceZAR,
			UnitUSD:   p.PriceUSD,
		})
	}
	return lines, skipped
}

func (s *Service) methodAvailable(method string) bool {
	m, err := order.ParsePaymentMethod(method)
	if err != nil {
		return false
	}
	for _, pm := range s.PaymentMethods() {
		if pm.ID == m {
			return pm.Available
		}
	}
	return false
}
