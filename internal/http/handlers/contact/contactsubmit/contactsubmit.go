// Package contactsubmit принимает обращение с публичной контактной формы.
//
// Запись сохраняется в хранилище, после чего отправителю уходит
// подтверждение, а копия — в профильный отдел.
package contactsubmit

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

// Request — входные данные контактной формы.
type Request struct {
	Name       string  `json:"name" validate:"required,min=2,max=100"`
	Email      string  `json:"email" validate:"required,email"`
	Subject    string  `json:"subject" validate:"required,min=5,max=200"`
	Message    string  `json:"message" validate:"required,min=10,max=2000"`
	Department string  `json:"department" validate:"required,oneof=sales support billing general"`
	Phone      *string `json:"phone" validate:"omitempty,min=10,max=20"`
}

// Service описывает бизнес-логику приема обращения.
type Service interface {
	Submit(ctx context.Context, inquiry models.ContactInquiry) (*models.ContactInquiry, error)
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

// ServeHTTP godoc
// @Summary Submit a contact form
// @Tags Contact
// @Accept json
// @Produce json
// @Param request body Request true "Inquiry data"
// @Success 201 {object} response.Response "Stored inquiry"
// @Failure 400 {object} response.ErrorResponse "Validation failed"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /contact [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contact.contactsubmit"

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

	inquiry, err := h.service.Submit(r.Context(), models.ContactInquiry{
		Name:       req.Name,
		Email:      req.Email,
		Subject:    req.Subject,
		Message:    req.Message,
		Department: req.Department,
		Phone:      req.Phone,
	})
	if err != nil {
		log.Error("failed to submit inquiry", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to submit inquiry"))
		return
	}

	log.Info("inquiry submitted", slog.String("inquiry_id", inquiry.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"inquiry": inquiry,
		"message": "thank you for contacting us, we will respond within 24 hours",
	}))
}
