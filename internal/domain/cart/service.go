// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/dk-code-insights/storefront/internal/domain/catalog"
	"github.com/dk-code-insights/storefront/internal/domain/currency"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidSession  = errors.New("session id is required")
	ErrQuantityLimit   = errors.New("quantity exceeds the per-item limit")
)

// Catalog resolves product ids to catalog entries.
type Catalog interface {
	GetProduct(id string) (catalog.Product, error)
}

// Service handles cart business logic
type Service struct {
	sessions SessionStore
	repo     Repository
	products Catalog
	log      logrus.FieldLogger

	mu        sync.RWMutex
	observers []Observer
}

// NewService creates a new cart service
func NewService(sessions SessionStore, repo Repository, products Catalog, log logrus.FieldLogger) *Service {
	return &Service{
		sessions: sessions,
		repo:     repo,
		products: products,
		log:      log,
	}
}

// Subscribe registers an observer for cart changes of signed-in users.
func (s *Service) Subscribe(o Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

func (s *Service) notify(userID string, items []Item) {
	if userID == "" {
		return
	}
	s.mu.RLock()
	observers := append([]Observer(nil), s.observers...)
	s.mu.RUnlock()

	for _, o := range observers {
		o.CartChanged(userID, items)
	}
}

// GetCart returns the session's cart.
func (s *Service) GetCart(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	return s.sessions.Load(ctx, sessionID)
}

// AddToCart increments the product's quantity, or appends it with quantity 1.
func (s *Service) AddToCart(ctx context.Context, sessionID, userID, productID string) (*Session, error) {
	if _, err := s.products.GetProduct(productID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return s.mutate(ctx, sessionID, userID, func(sess *Session) (bool, error) {
		if err := sess.add(productID); err != nil {
			return false, err
		}
		return true, nil
	})
}

// RemoveFromCart deletes the product's line. Removing an absent product is a no-op.
func (s *Service) RemoveFromCart(ctx context.Context, sessionID, userID, productID string) (*Session, error) {
	return s.mutate(ctx, sessionID, userID, func(sess *Session) (bool, error) {
		return sess.remove(productID), nil
	})
}

// UpdateQuantity sets the product's quantity. Zero or less removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, userID, productID string, quantity int) (*Session, error) {
	return s.mutate(ctx, sessionID, userID, func(sess *Session) (bool, error) {
		return sess.setQuantity(productID, quantity)
	})
}

// ClearCart empties the session cart and, for signed-in users, their durable rows.
func (s *Service) ClearCart(ctx context.Context, sessionID, userID string) error {
	_, err := s.mutate(ctx, sessionID, userID, func(sess *Session) (bool, error) {
		sess.Items = []Item{}
		return true, nil
	})
	return err
}

// SetCurrency stores the shopper's display currency on the session.
func (s *Service) SetCurrency(ctx context.Context, sessionID string, code currency.Code) (*Session, error) {
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	if !code.Valid() {
		return nil, currency.ErrUnsupported
	}
	return s.sessions.Update(ctx, sessionID, func(sess *Session) error {
		sess.Currency = code
		return nil
	})
}

// RestoreFromDurable loads the user's stored cart into the session at sign-in.
// A non-empty durable cart replaces the session items. An empty one leaves them untouched.
func (s *Service) RestoreFromDurable(ctx context.Context, sessionID, userID string) (*Session, error) {
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		if _, err := s.products.GetProduct(row.ProductID); err != nil {
			s.log.WithFields(logrus.Fields{
				"user_id":    userID,
				"product_id": row.ProductID,
			}).Warn("Dropping stored cart item for unknown product")
			continue
		}
		if row.Quantity < 1 {
			continue
		}
		items = append(items, Item{ProductID: row.ProductID, Quantity: min(row.Quantity, MaxQuantity)})
	}

	if len(items) == 0 {
		return s.sessions.Load(ctx, sessionID)
	}
	return s.sessions.Update(ctx, sessionID, func(sess *Session) error {
		sess.Items = items
		return nil
	})
}

func (s *Service) mutate(ctx context.Context, sessionID, userID string, fn func(*Session) (bool, error)) (*Session, error) {
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	changed := false
	sess, err := s.sessions.Update(ctx, sessionID, func(sess *Session) error {
		var err error
		changed, err = fn(sess)
		return err
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.notify(userID, sess.Snapshot())
	}
	return sess, nil
}

// GetTotal sums quantity times unit price in the given currency. Unknown products count as zero.
func (s *Service) GetTotal(items []Item, c currency.Code) int64 {
	var total int64
	for _, item := range items {
		p, err := s.products.GetProduct(item.ProductID)
		if err != nil {
			continue
		}
		total += int64(item.Quantity) * p.Price(c)
	}
	return total
}

// Describe joins the session with catalog data for display.
func (s *Service) Describe(sess *Session) *CartResponse {
	resp := &CartResponse{
		SessionID: sess.SessionID,
		Items:     make([]CartItemResponse, 0, len(sess.Items)),
		UpdatedAt: sess.UpdatedAt,
	}

	code := sess.Currency
	if !code.Valid() {
		code = currency.Default
	}
	totals := CartTotals{Currency: code}

	for _, item := range sess.Items {
		p, err := s.products.GetProduct(item.ProductID)
		if err != nil {
			continue
		}
		line := CartItemResponse{
			ProductID: p.ID,
			Title:     p.Title,
			Quantity:  item.Quantity,
			PriceZAR:  p.PriceZAR,
			PriceUSD:  p.PriceUSD,
			LineZAR:   p.PriceZAR * int64(item.Quantity),
			LineUSD:   p.PriceUSD * int64(item.Quantity),
		}
		resp.Items = append(resp.Items, line)
		totals.ItemCount++
		totals.TotalQuantity += item.Quantity
		totals.TotalZAR += line.LineZAR
		totals.TotalUSD += line.LineUSD
	}

	totals.Total = code.Select(totals.TotalZAR, totals.TotalUSD)
	totals.Formatted = code.Format(totals.Total)
	resp.Totals = totals
	return resp
}
