// internal/interfaces/http/handlers/notification.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dk-code-insights/storefront/internal/domain/notification"
)

// NotificationHandler exposes order email dispatch to internal callers
type NotificationHandler struct {
	dispatcher *notification.Dispatcher
	log        logrus.FieldLogger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(dispatcher *notification.Dispatcher, log logrus.FieldLogger) *NotificationHandler {
	return &NotificationHandler{dispatcher: dispatcher, log: log}
}

type orderEmailsRequest struct {
	OrderID string `json:"orderId"`
}

// SendOrderEmails handles POST /internal/order-emails
func (h *NotificationHandler) SendOrderEmails(c *gin.Context) {
	var req orderEmailsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order ID required"})
		return
	}

	result, err := h.dispatcher.SendOrderEmails(c.Request.Context(), req.OrderID)
	if err != nil {
		if errors.Is(err, notification.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		h.log.WithError(err).WithField("order_id", req.OrderID).Error("Failed to send order emails")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send emails"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"customer_sent": result.CustomerSent,
		"business_sent": result.BusinessSent,
	})
}
