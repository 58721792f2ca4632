// internal/interfaces/http/handlers/product.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dk-code-insights/storefront/internal/domain/catalog"
)

// ProductHandler serves the static service catalog
type ProductHandler struct {
	store *catalog.Store
}

// NewProductHandler creates a new product handler
func NewProductHandler(store *catalog.Store) *ProductHandler {
	return &ProductHandler{store: store}
}

// ListProducts handles GET /products?category=
func (h *ProductHandler) ListProducts(c *gin.Context) {
	category := catalog.Category(c.Query("category"))
	if category != "" && !h.store.HasCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	}

	products := h.store.ListProducts(category)
	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    products,
		"count":   len(products),
	})
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.store.GetProduct(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    product,
	})
}
