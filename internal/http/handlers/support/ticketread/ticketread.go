// Package ticketread отдает один тикет поддержки.
//
// Тикет видят его владелец и персонал поддержки.
package ticketread

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/star-housekeeping/portal/internal/http/middlewarectx"
	"github.com/star-housekeeping/portal/internal/http/response"
	"github.com/star-housekeeping/portal/internal/lib/sl"
	"github.com/star-housekeeping/portal/internal/models"
	"github.com/star-housekeeping/portal/internal/services/support"
	"github.com/star-housekeeping/portal/internal/storage/repository"
)

// Service описывает бизнес-логику чтения тикета.
type Service interface {
	Get(ctx context.Context, user *models.User, id string) (*models.SupportTicket, error)
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
	const op = "handlers.support.ticketread"

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

	id := chi.URLParam(r, "id")
	ticket, err := h.service.Get(r.Context(), user, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("ticket not found", slog.String("ticket_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("ticket not found"))
		case errors.Is(err, support.ErrNotTicketOwner):
			log.Error("access to another user's ticket denied",
				slog.String("user_uid", user.UID),
				slog.String("ticket_id", id),
			)
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		default:
			log.Error("failed to read ticket", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to read ticket"))
		}
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"ticket": ticket,
	}))
}
