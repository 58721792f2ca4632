// Package notification emails the customer and the shop owner once an order is paid.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/dk-code-insights/storefront/internal/config"
	"github.com/dk-code-insights/storefront/internal/domain/order"
	"github.com/dk-code-insights/storefront/internal/domain/user"
	"github.com/dk-code-insights/storefront/internal/pkg/email"
)

const (
	defaultDispatchTimeout = 30 * time.Second
	notProvided            = "Not provided"
	defaultCustomerName    = "Customer"
)

var ErrOrderNotFound = errors.New("order not found")

// Orders loads an order with its items.
type Orders interface {
	GetOrder(ctx context.Context, orderID string) (*order.Order, error)
}

// Profiles loads the order owner's contact details.
type Profiles interface {
	GetProfile(ctx context.Context, userID string) (*user.User, error)
}

// Result reports which emails went out.
type Result struct {
	CustomerSent bool `json:"customer_sent"`
	BusinessSent bool `json:"business_sent"`
}

// Dispatcher renders and sends order emails.
type Dispatcher struct {
	orders   Orders
	profiles Profiles
	sender   email.Sender
	business config.BusinessConfig
	timeout  time.Duration
	log      logrus.FieldLogger
	now      func() time.Time

	wg sync.WaitGroup
}

func NewDispatcher(orders Orders, profiles Profiles, sender email.Sender, business config.BusinessConfig, log logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{
		orders:   orders,
		profiles: profiles,
		sender:   sender,
		business: business,
		timeout:  defaultDispatchTimeout,
		log:      log,
		now:      time.Now,
	}
}

// SendOrderEmails sends the customer receipt (when the customer's address is
// known) and the business notification (when BUSINESS_EMAIL is set). Failed
// sends are logged and do not fail the call.
func (d *Dispatcher) SendOrderEmails(ctx context.Context, orderID string) (*Result, error) {
	o, err := d.orders.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	log := d.log.WithField("order_id", o.ID)

	profile, err := d.profiles.GetProfile(ctx, o.UserID)
	if err != nil {
		log.WithError(err).Warn("Failed to load customer profile for order emails")
	}

	data := d.buildData(o, profile)
	result := &Result{}

	if data.CustomerEmail != "" {
		result.CustomerSent = d.send(ctx, log, customerReceiptTemplate, data, &email.Email{
			To:      []string{data.CustomerEmail},
			Subject: fmt.Sprintf("Order Confirmation - %s", o.ID),
			Type:    email.EmailTypeOrderConfirmation,
		})
	}

	if d.business.Email != "" {
		result.BusinessSent = d.send(ctx, log, businessOrderTemplate, data, &email.Email{
			To:      []string{d.business.Email},
			Subject: fmt.Sprintf("New Order - %s - %s", data.TotalZAR, data.CustomerName),
			ReplyTo: data.CustomerEmail,
			Type:    email.EmailTypeNewOrder,
		})
	}

	return result, nil
}

func (d *Dispatcher) send(ctx context.Context, log logrus.FieldLogger, tmpl string, data *OrderEmailData, msg *email.Email) bool {
	html, err := render(tmpl, data)
	if err != nil {
		log.WithError(err).Error("Failed to render order email")
		return false
	}
	msg.HTMLContent = html

	if err := d.sender.SendEmail(ctx, msg); err != nil {
		log.WithError(err).WithField("type", msg.Type).Error("Failed to send order email")
		return false
	}
	return true
}

// DispatchAsync sends order emails on a tracked goroutine with its own deadline.
func (d *Dispatcher) DispatchAsync(orderID string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if _, err := d.SendOrderEmails(ctx, orderID); err != nil {
			d.log.WithError(err).WithField("order_id", orderID).Error("Order email dispatch failed")
		}
	}()
}

// Shutdown waits for in-flight dispatches or gives up when ctx ends.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) buildData(o *order.Order, profile *user.User) *OrderEmailData {
	data := &OrderEmailData{
		BusinessName:     d.business.Name,
		OrderID:          o.ID,
		OrderDate:        o.CreatedAt.Format("2 January 2006"),
		PaymentMethod:    strings.ToUpper(string(o.PaymentMethod)),
		PaymentReference: o.PaymentReference,
		TotalZAR:         money("R", o.TotalZAR),
		TotalUSD:         money("$", o.TotalUSD),
		CustomerName:     defaultCustomerName,
		CustomerPhone:    notProvided,
		CustomerAddress:  notProvided,
		Year:             d.now().Year(),
	}
	if d.business.WhatsAppNumber != "" {
		data.WhatsAppURL = "https://wa.me/" + d.business.WhatsAppNumber
	}

	for _, item := range o.Items {
		data.Items = append(data.Items, ItemLine{
			Title:    item.ProductTitle,
			Quantity: item.Quantity,
			PriceZAR: money("R", item.PriceZAR),
		})
	}

	if profile != nil {
		data.CustomerEmail = strings.TrimSpace(profile.Email)
		if name := profile.FullName(); name != "" {
			data.CustomerName = name
		}
		if phone := strings.TrimSpace(profile.Phone); phone != "" {
			data.CustomerPhone = phone
		}
		if addr := profile.PostalAddress(); addr != "" {
			data.CustomerAddress = addr
		}
	}
	return data
}

func money(symbol string, amount int64) string {
	return symbol + decimal.NewFromInt(amount).StringFixed(2)
}
