// internal/domain/order/entity.go
package order

import (
	"fmt"
	"strings"
	"time"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending       OrderStatus = "pending"
	OrderStatusPaid          OrderStatus = "paid"
	OrderStatusPaymentFailed OrderStatus = "payment_failed"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusPaymentFailed:
		return true
	}
	return false
}

// PaymentMethod is how the shopper chose to pay
type PaymentMethod string

const (
	PaymentMethodPayFast PaymentMethod = "payfast"
	PaymentMethodEFT     PaymentMethod = "eft"
	PaymentMethodPayPal  PaymentMethod = "paypal"
)

// ParsePaymentMethod accepts a method name in any case.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case PaymentMethodPayFast, PaymentMethodEFT, PaymentMethodPayPal:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, s)
}

// IsManual reports whether the method is settled outside the payment gateway.
func (m PaymentMethod) IsManual() bool {
	return m == PaymentMethodEFT || m == PaymentMethodPayPal
}

// Order represents the order entity. Totals are whole currency units.
type Order struct {
	ID               string        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           string        `gorm:"type:uuid;not null;index" json:"user_id"`
	TotalZAR         int64         `gorm:"not null" json:"total_zar"`
	TotalUSD         int64         `gorm:"not null" json:"total_usd"`
	PaymentMethod    PaymentMethod `gorm:"size:20;not null" json:"payment_method"`
	Status           OrderStatus   `gorm:"size:20;not null;index" json:"status"`
	PaymentReference string        `gorm:"size:100" json:"payment_reference,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`

	Items         []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// OrderItem is a line snapshot taken when the order was placed. Prices are line totals.
type OrderItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OrderID      string    `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID    string    `gorm:"size:64;not null" json:"product_id"`
	ProductTitle string    `gorm:"size:255;not null" json:"product_title"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	PriceZAR     int64     `gorm:"not null" json:"price_zar"`
	PriceUSD     int64     `gorm:"not null" json:"price_usd"`
	CreatedAt    time.Time `json:"created_at"`
}

// OrderStatusHistory tracks order status changes
type OrderStatusHistory struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	OrderID    string      `gorm:"type:uuid;not null;index" json:"order_id"`
	FromStatus OrderStatus `gorm:"size:20" json:"from_status,omitempty"`
	Status     OrderStatus `gorm:"size:20;not null" json:"status"`
	Source     string      `gorm:"size:50;not null" json:"source"`
	Reference  string      `gorm:"size:100" json:"reference,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string              { return "orders" }
func (OrderItem) TableName() string          { return "order_items" }
func (OrderStatusHistory) TableName() string { return "order_status_history" }

// Line is one cart line handed to CreateOrder, with unit prices.
type Line struct {
	ProductID string
	Title     string
	Quantity  int
	UnitZAR   int64
	UnitUSD   int64
}

// TotalQuantity sums item quantities.
func (o *Order) TotalQuantity() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// IsPayable reports whether the shopper may (re)start a gateway payment.
func (o *Order) IsPayable() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusPaymentFailed
}

// ShortID is the first block of the order id, used in customer-facing text.
func (o *Order) ShortID() string {
	if i := strings.IndexByte(o.ID, '-'); i > 0 {
		return strings.ToUpper(o.ID[:i])
	}
	return strings.ToUpper(o.ID)
}

// canTransition applies the status rules: paid is terminal and the others may move freely.
func canTransition(from, to OrderStatus) bool {
	if !to.Valid() || to == OrderStatusPending {
		return false
	}
	return from != OrderStatusPaid
}
