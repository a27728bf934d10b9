// Package feedback принимает отзыв клиента. Отзыв не сохраняется,
// а пересылается по почте команде и подтверждается отправителю.
package feedback

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/star-housekeeping/portal/internal/http/response"
	"github.com/star-housekeeping/portal/internal/lib/sl"
	"github.com/star-housekeeping/portal/internal/models"
)

// Request — входные данные формы отзыва.
type Request struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
	Category string `json:"category" validate:"required,oneof=service website support pricing overall"`
	Message  string `json:"message" validate:"required,min=10,max=1000"`
}

// Service описывает бизнес-логику приема отзыва.
type Service interface {
	SubmitFeedback(ctx context.Context, feedback models.Feedback) error
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
	const op = "handlers.contact.feedback"

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

	err := h.service.SubmitFeedback(r.Context(), models.Feedback{
		Name:     req.Name,
		Email:    req.Email,
		Rating:   req.Rating,
		Category: req.Category,
		Message:  req.Message,
	})
	if err != nil {
		log.Error("failed to submit feedback", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to submit feedback"))
		return
	}

	log.Info("feedback submitted", slog.Int("rating", req.Rating))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "thank you for your feedback",
	}))
}
