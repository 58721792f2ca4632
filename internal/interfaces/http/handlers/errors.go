package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dk-code-insights/storefront/internal/domain/cart"
	"github.com/dk-code-insights/storefront/internal/domain/catalog"
	"github.com/dk-code-insights/storefront/internal/domain/checkout"
	"github.com/dk-code-insights/storefront/internal/domain/currency"
	"github.com/dk-code-insights/storefront/internal/domain/notification"
	"github.com/dk-code-insights/storefront/internal/domain/order"
	"github.com/dk-code-insights/storefront/internal/domain/payment"
	"github.com/dk-code-insights/storefront/internal/domain/user"
	"github.com/dk-code-insights/storefront/internal/interfaces/http/middleware"
	"github.com/dk-code-insights/storefront/internal/pkg/auth"
)

type errorMapping struct {
	err     error
	status  int
	message string
}

// Known domain errors and how they surface. An empty message means err.Error().
var errorMappings = []errorMapping{
	{catalog.ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{cart.ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{cart.ErrInvalidSession, http.StatusBadRequest, "Session id is required"},
	{cart.ErrQuantityLimit, http.StatusBadRequest, ""},
	{cart.ErrSessionConflict, http.StatusConflict, "Cart was modified concurrently, please retry"},
	{currency.ErrUnsupported, http.StatusBadRequest, ""},
	{order.ErrUnauthenticated, http.StatusUnauthorized, "Authentication required"},
	{order.ErrEmptyCart, http.StatusBadRequest, "Cart is empty"},
	{order.ErrInvalidPaymentMethod, http.StatusBadRequest, ""},
	{checkout.ErrMethodUnavailable, http.StatusBadRequest, "Payment method is not available"},
	{order.ErrInvalidLine, http.StatusBadRequest, ""},
	{order.ErrOrderNotFound, http.StatusNotFound, "Order not found"},
	{notification.ErrOrderNotFound, http.StatusNotFound, "Order not found"},
	{order.ErrInvalidTransition, http.StatusConflict, ""},
	{payment.ErrGatewayNotConfigured, http.StatusInternalServerError, "Payment gateway is not configured"},
	{payment.ErrOrderNotPayable, http.StatusConflict, "Order cannot be paid online"},
	{user.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{user.ErrEmailTaken, http.StatusConflict, ""},
	{user.ErrInvalidCredentials, http.StatusUnauthorized, ""},
	{auth.ErrWeakPassword, http.StatusBadRequest, ""},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "Request timeout"},
}

// respondError writes the JSON error for err. Unknown errors become a 500 and
// are attached to the context so the request logger records them.
func respondError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			msg := m.message
			if msg == "" {
				msg = err.Error()
			}
			c.JSON(m.status, gin.H{"error": msg})
			return
		}
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"details": err.Error(),
	})
}

// currentUser returns the authenticated user id or writes a 401.
func currentUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return "", false
	}
	return userID, true
}
