package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"printshop-backend/internal/service"
)

// SignatureHeader is the provider-supplied signature on each delivery.
const SignatureHeader = "Stripe-Signature"

type WebhookHandler struct {
	webhookService service.WebhookService
}

func NewWebhookHandler(webhookService service.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// HandleStripeWebhook reads the raw body untouched; the service verifies
// the signature over those exact bytes. Any failure answers 400 so the
// provider retries; a processed or safely-ignored delivery is acked.
func (h *WebhookHandler) HandleStripeWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "read body")
	}

	if err := h.webhookService.HandleWebhook(ctx, c.Request().Header.Get(SignatureHeader), body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
