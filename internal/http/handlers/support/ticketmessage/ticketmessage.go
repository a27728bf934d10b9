// Package ticketmessage добавляет сообщение в переписку тикета.
//
// Писать в тикет могут его владелец и персонал поддержки; ответ
// сотрудника на открытый тикет переводит его в работу.
package ticketmessage

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

	"github.com/star-housekeeping/portal/internal/http/middlewarectx"
	"github.com/star-housekeeping/portal/internal/http/response"
	"github.com/star-housekeeping/portal/internal/lib/sl"
	"github.com/star-housekeeping/portal/internal/models"
	"github.com/star-housekeeping/portal/internal/services/support"
	"github.com/star-housekeeping/portal/internal/storage/repository"
)

// Request — входные данные для добавления сообщения.
type Request struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

// Service описывает бизнес-логику добавления сообщения.
type Service interface {
	AddMessage(ctx context.Context, user *models.User, ticketID, text string) (*models.SupportTicket, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.support.ticketmessage"

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
	ticket, err := h.service.AddMessage(r.Context(), user, id, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("ticket not found", slog.String("ticket_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("ticket not found"))
		case errors.Is(err, support.ErrNotTicketOwner):
			log.Error("message to another user's ticket denied",
				slog.String("user_uid", user.UID),
				slog.String("ticket_id", id),
			)
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		default:
			log.Error("failed to add message", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to add message"))
		}
		return
	}

	log.Info("message added",
		slog.String("ticket_id", id),
		slog.String("user_uid", user.UID),
	)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"ticket": ticket,
	}))
}
