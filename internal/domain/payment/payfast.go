// internal/domain/payment/payfast.go
package payment

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/dk-code-insights/storefront/internal/config"
	"github.com/dk-code-insights/storefront/internal/domain/order"
)

const (
	maxItemNameLen        = 100
	maxItemDescriptionLen = 255
	defaultFirstName      = "Customer"
)

var (
	ErrGatewayNotConfigured = errors.New("payment gateway not configured")
	ErrOrderNotPayable      = errors.New("order cannot be paid online")
)

// Field is one name/value pair of the PayFast form, kept in submission order.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PaymentRequest is a signed set of form fields to POST to the PayFast process URL.
type PaymentRequest struct {
	URL    string  `json:"payment_url"`
	Fields []Field `json:"-"`
}

// Map returns the fields keyed by name.
func (r *PaymentRequest) Map() map[string]string {
	m := make(map[string]string, len(r.Fields))
	for _, f := range r.Fields {
		m[f.Name] = f.Value
	}
	return m
}

// Get returns the value of the named field.
func (r *PaymentRequest) Get(name string) string {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// Customer is who PayFast shows on the payment page.
type Customer struct {
	Name  string
	Email string
}

// Gateway builds and verifies PayFast redirect payments.
type Gateway struct {
	cfg       config.PayFastConfig
	notifyURL string
}

func NewGateway(cfg config.PayFastConfig, notifyURL string) *Gateway {
	return &Gateway{cfg: cfg, notifyURL: notifyURL}
}

// Configured reports whether merchant credentials are present.
func (g *Gateway) Configured() bool {
	return g.cfg.Configured()
}

// BuildPaymentRequest assembles and signs the redirect form for an order.
// origin is the storefront origin the shopper returns to.
func (g *Gateway) BuildPaymentRequest(o *order.Order, c Customer, origin string) (*PaymentRequest, error) {
	if !g.Configured() {
		return nil, ErrGatewayNotConfigured
	}
	origin = strings.TrimRight(origin, "/")
	first, last := splitName(c.Name)

	fields := []Field{
		{"merchant_id", g.cfg.MerchantID},
		{"merchant_key", g.cfg.MerchantKey},
		{"return_url", fmt.Sprintf("%s/order-summary?order_id=%s&status=success", origin, o.ID)},
		{"cancel_url", origin + "/checkout?status=cancelled"},
		{"notify_url", g.notifyURL},
		{"name_first", first},
		{"name_last", last},
		{"email_address", strings.TrimSpace(c.Email)},
		{"m_payment_id", o.ID},
		{"amount", FormatAmount(o.TotalZAR)},
		{"item_name", truncate(itemName(o.Items), maxItemNameLen)},
		{"item_description", truncate("Order "+o.ID, maxItemDescriptionLen)},
	}

	kept := fields[:0]
	for _, f := range fields {
		if f.Value != "" {
			kept = append(kept, f)
		}
	}

	values := make(map[string]string, len(kept))
	for _, f := range kept {
		values[f.Name] = f.Value
	}
	kept = append(kept, Field{"signature", Signature(values, g.cfg.Passphrase)})

	return &PaymentRequest{URL: g.cfg.ProcessURL, Fields: kept}, nil
}

// Signature computes the PayFast MD5 signature over values: empty values and the
// signature key are skipped, keys are sorted, values are trimmed and encoded with
// spaces as '+', and the passphrase is appended last when set.
func Signature(values map[string]string, passphrase string) string {
	keys := make([]string, 0, len(values))
	for k, v := range values {
		if k == "signature" || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		pairs = append(pairs, k+"="+encodeValue(values[k]))
	}
	if passphrase != "" {
		pairs = append(pairs, "passphrase="+encodeValue(passphrase))
	}
	return md5Hex(strings.Join(pairs, "&"))
}

// FormatAmount renders whole rand as a two-decimal string, e.g. 6000 -> "6000.00".
func FormatAmount(amount int64) string {
	return decimal.NewFromInt(amount).StringFixed(2)
}

// encodeValue matches JavaScript's encodeURIComponent with %20 rendered as '+'.
var uriComponentUnescaper = strings.NewReplacer("%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*")

func encodeValue(v string) string {
	return uriComponentUnescaper.Replace(url.QueryEscape(strings.TrimSpace(v)))
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func itemName(items []order.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s x%d", item.ProductTitle, item.Quantity))
	}
	return strings.Join(parts, ", ")
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return defaultFirstName, ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
