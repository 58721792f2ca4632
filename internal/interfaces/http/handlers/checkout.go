// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dk-code-insights/storefront/internal/domain/checkout"
	"github.com/dk-code-insights/storefront/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	siteURL         string
}

// NewCheckoutHandler creates a new checkout handler. siteURL is the storefront
// origin that PayFast returns the shopper to.
func NewCheckoutHandler(checkoutService *checkout.Service, siteURL string) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		siteURL:         siteURL,
	}
}

// GetPaymentMethods handles GET /checkout/payment-methods
func (h *CheckoutHandler) GetPaymentMethods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Payment methods retrieved successfully",
		"data":    h.checkoutService.PaymentMethods(),
	})
}

// ValidateCheckout handles POST /checkout/validate
func (h *CheckoutHandler) ValidateCheckout(c *gin.Context) {
	var req checkout.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	validation, err := h.checkoutService.ValidateCheckout(c.Request.Context(), middleware.GetSessionIDFromContext(c), req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout validation completed",
		"data":    validation,
	})
}

// Checkout handles POST /checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req checkout.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.checkoutService.PlaceOrder(c.Request.Context(), middleware.GetSessionIDFromContext(c), userID, h.siteURL, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"data":    result,
	})
}
