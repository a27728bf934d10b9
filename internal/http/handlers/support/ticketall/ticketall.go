// Package ticketall отдает все тикеты с фильтрами и пагинацией.
// Доступно персоналу поддержки.
package ticketall

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/star-housekeeping/portal/internal/http/response"
	"github.com/star-housekeeping/portal/internal/lib/sl"
	"github.com/star-housekeeping/portal/internal/models"
)

// Service описывает бизнес-логику выборки всех тикетов.
type Service interface {
	ListAll(ctx context.Context, filter models.TicketFilter) ([]*models.SupportTicket, int, error)
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
	const op = "handlers.support.ticketall"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	filter := models.TicketFilter{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		Category: q.Get("category"),
		Page:     page,
		Limit:    limit,
	}

	tickets, total, err := h.service.ListAll(r.Context(), filter)
	if err != nil {
		log.Error("failed to list tickets", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list tickets"))
		return
	}

	log.Info("tickets listed", slog.Int("count", len(tickets)), slog.Int("total", total))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"tickets": tickets,
		"total":   total,
	}))
}
