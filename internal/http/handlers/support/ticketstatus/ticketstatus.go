// Package ticketstatus меняет статус тикета. Доступно персоналу поддержки.
package ticketstatus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/star-housekeeping/portal/internal/http/response"
	"github.com/star-housekeeping/portal/internal/lib/sl"
	"github.com/star-housekeeping/portal/internal/models"
	"github.com/star-housekeeping/portal/internal/storage/repository"
)

// Request — входные данные для смены статуса тикета.
type Request struct {
	Status string `json:"status" validate:"required,oneof=open in_progress resolved closed"`
}

// Service описывает бизнес-логику смены статуса.
type Service interface {
	UpdateStatus(ctx context.Context, ticketID, status string) (*models.SupportTicket, error)
}

// Mailer уведомляет владельца тикета о смене статуса.
type Mailer interface {
	SendTicketStatusUpdated(ticket *models.SupportTicket) error
}

type Handler struct {
	log      *slog.Logger
	service  Service
	mailer   Mailer
	validate *validator.Validate
}

func New(log *slog.Logger, service Service, mailer Mailer) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		mailer:   mailer,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.support.ticketstatus"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id := chi.URLParam(r, "id")
	ticket, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("ticket not found", slog.String("ticket_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("ticket not found"))
			return
		}
		log.Error("failed to update ticket status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update ticket status"))
		return
	}

	if err := h.mailer.SendTicketStatusUpdated(ticket); err != nil {
		log.Warn("failed to send status notification", sl.Err(err))
	}

	log.Info("ticket status updated",
		slog.String("ticket_id", id),
		slog.String("status", req.Status),
	)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"ticket": ticket,
	}))
}
