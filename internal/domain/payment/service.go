// internal/domain/payment/service.go
package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dk-code-insights/storefront/internal/domain/order"
	"github.com/dk-code-insights/storefront/internal/domain/user"
)

// Orders is the part of the order service payments need.
type Orders interface {
	GetOrder(ctx context.Context, orderID string) (*order.Order, error)
	GetUserOrder(ctx context.Context, userID, orderID string) (*order.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status order.OrderStatus, reference, source string) (*order.Order, bool, error)
}

// Profiles looks up the paying customer.
type Profiles interface {
	GetProfile(ctx context.Context, userID string) (*user.User, error)
}

// Notifier sends order emails without blocking the caller.
type Notifier interface {
	DispatchAsync(orderID string)
}

// Service runs PayFast payments for orders.
type Service struct {
	gateway         *Gateway
	orders          Orders
	profiles        Profiles
	notifier        Notifier
	verifySignature bool
	log             logrus.FieldLogger
}

func NewService(gateway *Gateway, orders Orders, profiles Profiles, notifier Notifier, verifySignature bool, log logrus.FieldLogger) *Service {
	return &Service{
		gateway:         gateway,
		orders:          orders,
		profiles:        profiles,
		notifier:        notifier,
		verifySignature: verifySignature,
		log:             log,
	}
}

// Configured reports whether online payments can be started.
func (s *Service) Configured() bool {
	return s.gateway.Configured()
}

// CreatePayment builds the signed PayFast request for one of the user's orders.
func (s *Service) CreatePayment(ctx context.Context, userID, orderID, origin string) (*PaymentRequest, error) {
	if !s.gateway.Configured() {
		return nil, ErrGatewayNotConfigured
	}
	o, err := s.orders.GetUserOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return s.PaymentForOrder(ctx, o, origin)
}

// PaymentForOrder builds the signed PayFast request for an already loaded order.
func (s *Service) PaymentForOrder(ctx context.Context, o *order.Order, origin string) (*PaymentRequest, error) {
	if o.PaymentMethod != order.PaymentMethodPayFast || !o.IsPayable() {
		return nil, ErrOrderNotPayable
	}

	customer := Customer{}
	profile, err := s.profiles.GetProfile(ctx, o.UserID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", o.UserID).Warn("Paying without customer profile")
	} else {
		customer = Customer{Name: profile.FullName(), Email: profile.Email}
	}

	req, err := s.gateway.BuildPaymentRequest(o, customer, origin)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id": o.ID,
		"amount":   req.Get("amount"),
	}).Info("PayFast payment created")
	return req, nil
}

// HandleNotification applies an ITN to its order. The caller acknowledges the
// processor whatever this returns; the error only exists to be logged.
func (s *Service) HandleNotification(ctx context.Context, body []byte) error {
	n, err := ParseNotification(body)
	if err != nil {
		return err
	}
	if n.OrderID == "" {
		return ErrInvalidOrderID
	}
	if _, err := uuid.Parse(n.OrderID); err != nil {
		return ErrInvalidOrderID
	}
	if s.verifySignature && !s.gateway.VerifyNotification(n) {
		return ErrInvalidSignature
	}

	status := n.Status()
	log := s.log.WithFields(logrus.Fields{
		"order_id":       n.OrderID,
		"payment_status": n.PaymentStatus,
		"pf_payment_id":  n.PfPaymentID,
	})

	if status == order.OrderStatusPaid {
		o, err := s.orders.GetOrder(ctx, n.OrderID)
		if err != nil {
			return err
		}
		if !n.PaysFor(o) {
			log.WithFields(logrus.Fields{
				"amount_gross": n.AmountGross,
				"expected":     FormatAmount(o.TotalZAR),
			}).Warn("Rejecting notification with wrong amount")
			return ErrAmountMismatch
		}
	}

	_, changed, err := s.orders.UpdateOrderStatus(ctx, n.OrderID, status, n.PfPaymentID, order.SourcePayFastITN)
	if err != nil {
		if errors.Is(err, order.ErrInvalidTransition) {
			log.Warn("Ignoring notification for settled order")
			return nil
		}
		return err
	}

	if !changed {
		log.Debug("Duplicate notification, status unchanged")
		return nil
	}
	log.WithField("status", status).Info("Order payment status updated")

	if status == order.OrderStatusPaid && s.notifier != nil {
		s.notifier.DispatchAsync(n.OrderID)
	}
	return nil
}
