// internal/interfaces/http/handlers/category.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dk-code-insights/storefront/internal/domain/catalog"
)

// CategoryHandler lists catalog categories
type CategoryHandler struct {
	store *catalog.Store
}

func NewCategoryHandler(store *catalog.Store) *CategoryHandler {
	return &CategoryHandler{store: store}
}

// ListCategories handles GET /categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Categories retrieved successfully",
		"data":    h.store.Categories(),
	})
}

// GetCategoryProducts handles GET /categories/:id/products
func (h *CategoryHandler) GetCategoryProducts(c *gin.Context) {
	category := catalog.Category(c.Param("id"))
	if !h.store.HasCategory(category) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	products := h.store.ListProducts(category)
	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    products,
		"count":   len(products),
	})
}
