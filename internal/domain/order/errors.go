package order

import (
	"errors"
	"math"
)

// MaxLineQuantity caps the quantity of one order line.
const MaxLineQuantity = 999

// maxUnitPrice keeps quantity times price inside int64.
const maxUnitPrice = math.MaxInt64 / MaxLineQuantity

var (
	ErrUnauthenticated      = errors.New("user must be signed in to place an order")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidLine          = errors.New("invalid order line")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidTransition    = errors.New("invalid status transition")
)
