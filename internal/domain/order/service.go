// internal/domain/order/service.go
package order

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Status change sources recorded in the history table.
const (
	SourceCheckout   = "checkout"
	SourcePayFastITN = "payfast_itn"
)

// Service handles order business logic
type Service struct {
	repo Repository
	log  logrus.FieldLogger
}

// NewService creates a new order service
func NewService(repo Repository, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, log: log}
}

// CreateOrder persists a pending order for the user from a cart snapshot.
// The order row and all of its items are written atomically.
func (s *Service) CreateOrder(ctx context.Context, userID string, lines []Line, method PaymentMethod) (*Order, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if _, err := ParsePaymentMethod(string(method)); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		PaymentMethod: method,
		Status:        OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
		Items:         make([]OrderItem, 0, len(lines)),
	}

	for _, line := range lines {
		if line.ProductID == "" || line.Quantity < 1 || line.Quantity > MaxLineQuantity {
			return nil, fmt.Errorf("%w: %q x%d", ErrInvalidLine, line.ProductID, line.Quantity)
		}
		if line.UnitZAR < 0 || line.UnitUSD < 0 || line.UnitZAR > maxUnitPrice || line.UnitUSD > maxUnitPrice {
			return nil, fmt.Errorf("%w: %q priced out of range", ErrInvalidLine, line.ProductID)
		}
		item := OrderItem{
			OrderID:      order.ID,
			ProductID:    line.ProductID,
			ProductTitle: line.Title,
			Quantity:     line.Quantity,
			PriceZAR:     line.UnitZAR * int64(line.Quantity),
			PriceUSD:     line.UnitUSD * int64(line.Quantity),
			CreatedAt:    now,
		}
		if order.TotalZAR > math.MaxInt64-item.PriceZAR || order.TotalUSD > math.MaxInt64-item.PriceUSD {
			return nil, fmt.Errorf("%w: order total out of range", ErrInvalidLine)
		}
		order.TotalZAR += item.PriceZAR
		order.TotalUSD += item.PriceUSD
		order.Items = append(order.Items, item)
	}

	order.StatusHistory = []OrderStatusHistory{{
		OrderID:   order.ID,
		Status:    OrderStatusPending,
		Source:    SourceCheckout,
		CreatedAt: now,
	}}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id":       order.ID,
		"user_id":        userID,
		"payment_method": method,
		"total_zar":      order.TotalZAR,
		"items":          len(order.Items),
	}).Info("Order created")

	return order, nil
}

// UpdateOrderStatus applies a processor-reported status. It reports whether the
// stored status actually changed. Re-applying the current status is a no-op and
// a paid order never leaves the paid state.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus, reference, source string) (*Order, bool, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, false, ErrOrderNotFound
	}

	order, changed, err := s.repo.Transition(ctx, orderID, func(current *Order) (*OrderStatusHistory, error) {
		if current.Status == status {
			return nil, nil
		}
		if !canTransition(current.Status, status) {
			return nil, fmt.Errorf("%w from %s to %s", ErrInvalidTransition, current.Status, status)
		}
		return &OrderStatusHistory{
			FromStatus: current.Status,
			Status:     status,
			Source:     source,
			Reference:  reference,
		}, nil
	})
	if err != nil {
		return nil, false, err
	}

	if changed {
		s.log.WithFields(logrus.Fields{
			"order_id": orderID,
			"status":   status,
			"source":   source,
		}).Info("Order status updated")
	}
	return order, changed, nil
}

// GetOrder retrieves an order with its items
func (s *Service) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, ErrOrderNotFound
	}
	return s.repo.FindByID(ctx, orderID)
}

// GetUserOrder retrieves an order only if it belongs to the user.
func (s *Service) GetUserOrder(ctx context.Context, userID, orderID string) (*Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListUserOrders returns the user's orders, newest first.
func (s *Service) ListUserOrders(ctx context.Context, userID string) ([]Order, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return s.repo.FindByUser(ctx, userID)
}
