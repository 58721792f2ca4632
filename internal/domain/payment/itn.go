// internal/domain/payment/itn.go
package payment

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dk-code-insights/storefront/internal/domain/order"
)

// StatusComplete is the only PayFast payment_status that means the money arrived.
const StatusComplete = "COMPLETE"

var (
	ErrInvalidOrderID   = errors.New("notification has no valid order id")
	ErrInvalidSignature = errors.New("notification signature mismatch")
	ErrMalformedBody    = errors.New("malformed notification body")
	ErrAmountMismatch   = errors.New("notification amount does not match order total")
)

// Notification is a PayFast Instant Transaction Notification.
type Notification struct {
	OrderID       string
	PaymentStatus string
	PfPaymentID   string
	AmountGross   string
	Signature     string

	// fields preserves the posted order, which the ITN signature is computed over.
	fields []Field
}

// ParseNotification decodes a form-encoded ITN body, keeping field order.
func ParseNotification(body []byte) (*Notification, error) {
	n := &Notification{}
	raw := strings.TrimSpace(string(body))
	if raw == "" {
		return n, nil
	}

	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		n.fields = append(n.fields, Field{Name: key, Value: value})

		switch key {
		case "m_payment_id":
			n.OrderID = strings.TrimSpace(value)
		case "payment_status":
			n.PaymentStatus = strings.TrimSpace(value)
		case "pf_payment_id":
			n.PfPaymentID = strings.TrimSpace(value)
		case "amount_gross":
			n.AmountGross = value
		case "signature":
			n.Signature = value
		}
	}
	return n, nil
}

// Status maps the processor status to an order status.
func (n *Notification) Status() order.OrderStatus {
	return MapStatus(n.PaymentStatus)
}

// MapStatus maps COMPLETE to paid and everything else to payment_failed.
func MapStatus(paymentStatus string) order.OrderStatus {
	if paymentStatus == StatusComplete {
		return order.OrderStatusPaid
	}
	return order.OrderStatusPaymentFailed
}

// VerifyNotification checks an ITN signature. PayFast signs the fields in the
// order they were posted, with every field except signature included.
func (g *Gateway) VerifyNotification(n *Notification) bool {
	if n.Signature == "" {
		return false
	}
	pairs := make([]string, 0, len(n.fields)+1)
	for _, f := range n.fields {
		if f.Name == "signature" {
			continue
		}
		pairs = append(pairs, f.Name+"="+encodeValue(f.Value))
	}
	if g.cfg.Passphrase != "" {
		pairs = append(pairs, "passphrase="+encodeValue(g.cfg.Passphrase))
	}
	return strings.EqualFold(md5Hex(strings.Join(pairs, "&")), n.Signature)
}

// PaysFor reports whether amount_gross equals the order total.
func (n *Notification) PaysFor(o *order.Order) bool {
	paid, err := decimal.NewFromString(strings.TrimSpace(n.AmountGross))
	if err != nil {
		return false
	}
	return paid.Equal(decimal.NewFromInt(o.TotalZAR))
}
