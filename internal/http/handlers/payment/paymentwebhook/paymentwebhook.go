// Package paymentwebhook принимает события от платежного провайдера.
//
// Тело запроса не разбирается до проверки HMAC-подписи. События
// неизвестных типов подтверждаются (200) и только логируются.
package paymentwebhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/star-housekeeping/portal/internal/http/response"
	"github.com/star-housekeeping/portal/internal/lib/sl"
	"github.com/star-housekeeping/portal/internal/paymentprovider"
)

// SignatureHeader — заголовок с HMAC-подписью тела вебхука.
const SignatureHeader = "X-Webhook-Signature"

const maxBodySize = 1 << 20

// Verifier проверяет подпись вебхука.
type Verifier interface {
	VerifyWebhookSignature(body []byte, signature string) bool
}

// Service описывает бизнес-логику обработки события провайдера.
type Service interface {
	HandleWebhookEvent(ctx context.Context, event paymentprovider.WebhookEvent) error
}

type Handler struct {
	log      *slog.Logger
	verifier Verifier
	service  Service
}

func New(log *slog.Logger, verifier Verifier, service Service) *Handler {
	return &Handler{
		log:      log,
		verifier: verifier,
		service:  service,
	}
}

// ServeHTTP godoc
// @Summary Payment provider webhook
// @Description Verifies the HMAC signature and applies the event to the matching payment record
// @Tags Payments
// @Accept json
// @Produce json
// @Success 200 {object} response.Response "Event acknowledged"
// @Failure 400 {object} response.ErrorResponse "Invalid signature or body"
// @Router /payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paymentwebhook"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to read body"))
		return
	}

	signature := r.Header.Get(SignatureHeader)
	if !h.verifier.VerifyWebhookSignature(body, signature) {
		log.Error("webhook signature verification failed")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid signature"))
		return
	}

	var event paymentprovider.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Error("failed to decode webhook event", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid event payload"))
		return
	}

	if err := h.service.HandleWebhookEvent(r.Context(), event); err != nil {
		log.Error("failed to handle webhook event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to handle event"))
		return
	}

	log.Info("webhook event processed",
		slog.String("event_id", event.ID),
		slog.String("event_type", event.Type),
	)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"received": true,
	}))
}
