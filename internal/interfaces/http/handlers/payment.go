// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dk-code-insights/storefront/internal/domain/payment"
)

// PaymentHandler handles PayFast payments and notifications
type PaymentHandler struct {
	paymentService *payment.Service
	siteURL        string
	log            logrus.FieldLogger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *payment.Service, siteURL string, log logrus.FieldLogger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		siteURL:        siteURL,
		log:            log,
	}
}

type createPaymentRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

// CreatePayFastPayment handles POST /payments/payfast
func (h *PaymentHandler) CreatePayFastPayment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	pr, err := h.paymentService.CreatePayment(c.Request.Context(), userID, req.OrderID, h.siteURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment created successfully",
		"data": gin.H{
			"order_id":     req.OrderID,
			"payment_url":  pr.URL,
			"payment_data": pr.Map(),
		},
	})
}

// Redirect handles GET /payments/payfast/:order_id/redirect. It serves a form
// that posts the signed fields to PayFast. With ?embedded=1 the form opens the
// payment page in a new browsing context since PayFast cannot be framed.
func (h *PaymentHandler) Redirect(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	pr, err := h.paymentService.CreatePayment(c.Request.Context(), userID, c.Param("order_id"), h.siteURL)
	if err != nil {
		respondError(c, err)
		return
	}

	target := payment.TargetSelf
	if c.Query("embedded") == "1" {
		target = payment.TargetBlank
	}

	var buf bytes.Buffer
	if err := payment.RenderRedirectForm(&buf, pr, target); err != nil {
		respondError(c, err)
		return
	}

	formAction := "'self'"
	if u, err := url.Parse(pr.URL); err == nil && u.Host != "" {
		formAction = u.Scheme + "://" + u.Host
	}
	c.Writer.Header().Del("X-Frame-Options")
	c.Header("Content-Security-Policy", "default-src 'none'; script-src 'unsafe-inline'; style-src 'unsafe-inline'; form-action "+formAction)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// PayFastWebhook handles POST /webhooks/payfast. PayFast retries anything but a
// 200, so every notification is acknowledged and failures are only logged.
func (h *PaymentHandler) PayFastWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.log.WithError(err).Error("Failed to read PayFast notification")
		c.String(http.StatusOK, "OK")
		return
	}

	if err := h.paymentService.HandleNotification(c.Request.Context(), body); err != nil {
		h.log.WithError(err).WithField("remote_ip", c.ClientIP()).Error("PayFast notification rejected")
	}
	c.String(http.StatusOK, "OK")
}
