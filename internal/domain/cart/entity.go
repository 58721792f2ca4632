// internal/domain/cart/entity.go
package cart

import (
	"fmt"
	"time"

	"github.com/dk-code-insights/storefront/internal/domain/currency"
)

// CartItem is the durable mirror of a signed-in user's cart line.
// Rows are always rewritten as a whole set per user, so there is no soft delete.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	ProductID string    `gorm:"size:64;not null" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name
func (CartItem) TableName() string {
	return "cart_items"
}

// Item is one line of the session cart. Quantity is always at least 1.
type Item struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Session is the shopping session stored in Redis: the cart plus the shopper's currency.
type Session struct {
	SessionID string        `json:"session_id"`
	Currency  currency.Code `json:"currency"`
	Items     []Item        `json:"items"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func newSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		SessionID: id,
		Currency:  currency.Default,
		Items:     []Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Snapshot returns a copy of the items in insertion order.
func (s *Session) Snapshot() []Item {
	return append([]Item{}, s.Items...)
}

func (s *Session) indexOf(productID string) int {
	for i, item := range s.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// MaxQuantity caps a single cart line.
const MaxQuantity = 999

func (s *Session) add(productID string) error {
	if i := s.indexOf(productID); i >= 0 {
		if s.Items[i].Quantity >= MaxQuantity {
			return fmt.Errorf("%w: %d", ErrQuantityLimit, MaxQuantity)
		}
		s.Items[i].Quantity++
		return nil
	}
	s.Items = append(s.Items, Item{ProductID: productID, Quantity: 1})
	return nil
}

func (s *Session) remove(productID string) bool {
	i := s.indexOf(productID)
	if i < 0 {
		return false
	}
	s.Items = append(s.Items[:i], s.Items[i+1:]...)
	return true
}

func (s *Session) setQuantity(productID string, quantity int) (bool, error) {
	if quantity <= 0 {
		return s.remove(productID), nil
	}
	if quantity > MaxQuantity {
		return false, fmt.Errorf("%w: %d", ErrQuantityLimit, MaxQuantity)
	}
	i := s.indexOf(productID)
	if i < 0 {
		return false, nil
	}
	s.Items[i].Quantity = quantity
	return true, nil
}

// CartTotals represents calculated cart totals
type CartTotals struct {
	ItemCount     int           `json:"item_count"`
	TotalQuantity int           `json:"total_quantity"`
	TotalZAR      int64         `json:"total_zar"`
	TotalUSD      int64         `json:"total_usd"`
	Currency      currency.Code `json:"currency"`
	Total         int64         `json:"total"`
	Formatted     string        `json:"formatted"`
}

// CartItemResponse is a cart line joined with its catalog entry
type CartItemResponse struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	PriceZAR  int64  `json:"price_zar"`
	PriceUSD  int64  `json:"price_usd"`
	LineZAR   int64  `json:"line_zar"`
	LineUSD   int64  `json:"line_usd"`
}

// CartResponse represents a shopping cart with items and summary
type CartResponse struct {
	SessionID string             `json:"session_id"`
	Items     []CartItemResponse `json:"items"`
	Totals    CartTotals         `json:"totals"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// UpdateCartItemRequest sets a line quantity; zero or less removes the line
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,max=999"`
}

// SetCurrencyRequest switches the session's display currency
type SetCurrencyRequest struct {
	Currency string `json:"currency" binding:"required"`
}
