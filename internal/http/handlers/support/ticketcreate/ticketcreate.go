// Package ticketcreate создает тикет поддержки от имени текущего пользователя.
package ticketcreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/star-housekeeping/portal/internal/http/middlewarectx"
	"github.com/star-housekeeping/portal/internal/http/response"
	"github.com/star-housekeeping/portal/internal/lib/sl"
	"github.com/star-housekeeping/portal/internal/models"
)

// Request — входные данные для создания тикета.
type Request struct {
	Subject     string `json:"subject" validate:"required,min=5,max=200"`
	Description string `json:"description" validate:"required,min=10,max=2000"`
	Category    string `json:"category" validate:"required,oneof=technical billing account general"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// Service описывает бизнес-логику создания тикета.
type Service interface {
	Create(ctx context.Context, user *models.User, ticket models.SupportTicket) (*models.SupportTicket, error)
}

// Mailer уведомляет поддержку о новом тикете.
type Mailer interface {
	SendTicketCreated(ticket *models.SupportTicket) error
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

// ServeHTTP godoc
// @Summary Create a support ticket
// @Tags Support
// @Accept json
// @Produce json
// @Param request body Request true "Ticket data"
// @Success 201 {object} response.Response "Created ticket"
// @Failure 400 {object} response.ErrorResponse "Validation failed"
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /support [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.support.ticketcreate"

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

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	ticket, err := h.service.Create(r.Context(), user, models.SupportTicket{
		Subject:     req.Subject,
		Description: req.Description,
		Category:    req.Category,
		Priority:    priority,
	})
	if err != nil {
		log.Error("failed to create ticket", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create ticket"))
		return
	}

	if err := h.mailer.SendTicketCreated(ticket); err != nil {
		log.Warn("failed to send ticket notification", sl.Err(err))
	}

	log.Info("ticket created",
		slog.String("ticket_id", ticket.ID),
		slog.String("user_uid", user.UID),
	)
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"ticket": ticket,
	}))
}
