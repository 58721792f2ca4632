// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dk-code-insights/storefront/internal/domain/cart"
	"github.com/dk-code-insights/storefront/internal/domain/currency"
	"github.com/dk-code-insights/storefront/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) respond(c *gin.Context, message string, sess *cart.Session) {
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    h.cartService.Describe(sess),
	})
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sess, err := h.cartService.GetCart(c.Request.Context(), middleware.GetSessionIDFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, "Cart retrieved successfully", sess)
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	sess, err := h.cartService.AddToCart(c.Request.Context(), middleware.GetSessionIDFromContext(c), userID, req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, "Item added to cart successfully", sess)
}

// UpdateCartItem handles PUT /cart/items/:product_id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req cart.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	sess, err := h.cartService.UpdateQuantity(c.Request.Context(), middleware.GetSessionIDFromContext(c), userID, c.Param("product_id"), *req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, "Cart item updated successfully", sess)
}

// RemoveFromCart handles DELETE /cart/items/:product_id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	sess, err := h.cartService.RemoveFromCart(c.Request.Context(), middleware.GetSessionIDFromContext(c), userID, c.Param("product_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, "Item removed from cart successfully", sess)
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	if err := h.cartService.ClearCart(c.Request.Context(), middleware.GetSessionIDFromContext(c), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully"})
}

// SetCurrency handles PUT /cart/currency
func (h *CartHandler) SetCurrency(c *gin.Context) {
	var req cart.SetCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	code, err := currency.Parse(req.Currency)
	if err != nil {
		respondError(c, err)
		return
	}

	sess, err := h.cartService.SetCurrency(c.Request.Context(), middleware.GetSessionIDFromContext(c), code)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, "Currency updated successfully", sess)
}
