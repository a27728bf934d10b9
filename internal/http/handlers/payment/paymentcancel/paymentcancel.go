// Package paymentcancel отменяет подписку текущего пользователя.
package paymentcancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/star-housekeeping/portal/internal/http/middlewarectx"
	"github.com/star-housekeeping/portal/internal/http/response"
	"github.com/star-housekeeping/portal/internal/lib/sl"
	"github.com/star-housekeeping/portal/internal/models"
	"github.com/star-housekeeping/portal/internal/services/payment"
)

// Service описывает бизнес-логику отмены подписки.
type Service interface {
	CancelSubscription(ctx context.Context, user *models.User) error
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paymentcancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.CancelSubscription(r.Context(), user); err != nil {
		if errors.Is(err, payment.ErrNoActiveSubscription) {
			log.Error("no active subscription", slog.String("user_uid", user.UID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("no active subscription to cancel"))
			return
		}
		log.Error("failed to cancel subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to cancel subscription"))
		return
	}

	log.Info("subscription cancelled", slog.String("user_uid", user.UID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "subscription cancelled",
	}))
}
