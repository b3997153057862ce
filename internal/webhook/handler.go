package webhook

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leiloom/map-service/internal/leiloom"
	"github.com/leiloom/map-service/internal/metrics"
)

// Forwarder delivers approved payments to the internal backend. The
// leiloom client satisfies it.
type Forwarder interface {
	ForwardPaymentWebhook(ctx context.Context, payload leiloom.PaymentForward) error
}

// Handler relays gateway notifications: look the payment up, forward it
// when approved, acknowledge everything else. The gateway retries on
// non-2xx responses, so errors are only surfaced when retrying could
// actually help.
type Handler struct {
	log       *slog.Logger
	gateway   GatewayClient
	forwarder Forwarder
	metrics   *metrics.Metrics
}

// NewHandler creates a webhook relay handler.
func NewHandler(log *slog.Logger, gateway GatewayClient, forwarder Forwarder, appMetrics *metrics.Metrics) *Handler {
	return &Handler{log: log, gateway: gateway, forwarder: forwarder, metrics: appMetrics}
}

// Handle processes one gateway notification. Registered for every
// method so that anything but POST gets an explicit 405.
func (h *Handler) Handle(c *gin.Context) {
	ctx := c.Request.Context()

	if c.Request.Method != http.MethodPost {
		h.metrics.WebhookEvents.WithLabelValues("bad_method").Inc()
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "method not allowed"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		body = nil
	}

	paymentID, ok := ExtractPaymentID(c.Request, body)
	if !ok {
		// Unknown shape: acknowledge so the gateway stops retrying junk,
		// but keep the offending payload in the logs.
		h.metrics.WebhookEvents.WithLabelValues("ignored").Inc()
		h.log.WarnContext(ctx, "Notification without a payment id", "payload", string(body))
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	payment, err := h.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		h.metrics.WebhookEvents.WithLabelValues("gateway_error").Inc()
		h.log.ErrorContext(ctx, "Failed to fetch payment from gateway",
			"payment", paymentID, "error", err, "payload", string(body))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch payment"})
		return
	}

	if payment.Status != StatusApproved {
		h.metrics.WebhookEvents.WithLabelValues("acknowledged").Inc()
		h.log.InfoContext(ctx, "Payment not approved, acknowledging without side effect",
			"payment", paymentID, "status", payment.Status)
		c.JSON(http.StatusOK, gin.H{"status": "acknowledged"})
		return
	}

	forward := leiloom.PaymentForward{
		PaymentID:       payment.ID,
		ExternalID:      payment.ExternalReference,
		GatewayResponse: payment.Raw,
	}
	if err = h.forwarder.ForwardPaymentWebhook(ctx, forward); err != nil {
		h.metrics.WebhookEvents.WithLabelValues("backend_error").Inc()
		h.log.ErrorContext(ctx, "Failed to forward approved payment",
			"payment", paymentID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to forward payment"})
		return
	}

	h.metrics.WebhookEvents.WithLabelValues("forwarded").Inc()
	h.log.InfoContext(ctx, "Approved payment forwarded", "payment", paymentID)
	c.JSON(http.StatusOK, gin.H{"status": "forwarded"})
}
