// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dk-code-insights/storefront/internal/domain/order"
	"github.com/dk-code-insights/storefront/internal/domain/user"
	"github.com/dk-code-insights/storefront/internal/pkg/pdf"
)

// InvoiceHandler handles invoice generation
type InvoiceHandler struct {
	orderService *order.Service
	userService  *user.Service
	pdfService   *pdf.Service
	log          logrus.FieldLogger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(orderService *order.Service, userService *user.Service, pdfService *pdf.Service, log logrus.FieldLogger) *InvoiceHandler {
	return &InvoiceHandler{
		orderService: orderService,
		userService:  userService,
		pdfService:   pdfService,
		log:          log,
	}
}

// load fetches the caller's order and profile, writing the error response itself.
func (h *InvoiceHandler) load(c *gin.Context) (*order.Order, *user.User, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return nil, nil, false
	}

	o, err := h.orderService.GetUserOrder(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}

	customer, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", userID).Warn("Invoice without customer profile")
	}
	return o, customer, true
}

// GenerateInvoice handles GET /orders/:id/invoice
func (h *InvoiceHandler) GenerateInvoice(c *gin.Context) {
	o, customer, ok := h.load(c)
	if !ok {
		return
	}

	buf, err := h.pdfService.GenerateInvoice(o, customer)
	if err != nil {
		if errors.Is(err, pdf.ErrInvoicesDisabled) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoices are not available"})
			return
		}
		h.log.WithError(err).WithField("order_id", o.ID).Error("Failed to generate invoice")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate invoice"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", o.ShortID()))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// GetInvoiceData handles GET /orders/:id/invoice/data
func (h *InvoiceHandler) GetInvoiceData(c *gin.Context) {
	o, customer, ok := h.load(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invoice data retrieved successfully",
		"data":    h.pdfService.BuildInvoice(o, customer),
	})
}
