package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/riahunter/backend/internal/app/service/webhook"
	"github.com/riahunter/backend/pkg/logctx"
	"github.com/riahunter/backend/pkg/response"
)

// @Summary      Stripe Webhook
// @Description  Handles Stripe-style billing events. Replayed event ids are acknowledged without reprocessing.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        payload body string true "Stripe event JSON payload"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/webhook/stripe [post]
func ApiStripeWebhook(h *webhook.StripeHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		logctx.FromGin(c, h.Logger).Infow("webhook_stripe_received")

		if err := h.HandleEvent(c); err != nil {
			logctx.FromGin(c, h.Logger).Errorw("webhook_stripe_handle_error", "error", err.Error())
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		logctx.FromGin(c, h.Logger).Infow("webhook_stripe_handled")
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterWebhookRoutes(r gin.IRouter, h *webhook.StripeHandler) {
	r.POST("/stripe", ApiStripeWebhook(h))
}
