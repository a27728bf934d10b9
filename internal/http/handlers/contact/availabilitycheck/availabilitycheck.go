// Package availabilitycheck принимает заявку на проверку доступности
// услуг по адресу. Заявка пересылается в отдел продаж.
package availabilitycheck

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

// Address — адрес обслуживания в заявке.
type Address struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required,numeric,min=5,max=10"`
}

// Request — входные данные заявки на проверку доступности.
type Request struct {
	FirstName       string  `json:"firstName" validate:"required,min=2,max=50"`
	LastName        string  `json:"lastName" validate:"required,min=2,max=50"`
	Email           string  `json:"email" validate:"required,email"`
	Phone           string  `json:"phone" validate:"required,min=10,max=20"`
	Address         Address `json:"address" validate:"required"`
	CurrentProvider string  `json:"currentProvider" validate:"omitempty,max=100"`
	MoveInDate      string  `json:"moveInDate" validate:"omitempty,max=50"`
}

// Service описывает бизнес-логику приема заявки.
type Service interface {
	SubmitAvailabilityCheck(ctx context.Context, req models.AvailabilityRequest) error
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
	const op = "handlers.contact.availabilitycheck"

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

	err := h.service.SubmitAvailabilityCheck(r.Context(), models.AvailabilityRequest{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Street:          req.Address.Street,
		City:            req.Address.City,
		State:           req.Address.State,
		ZipCode:         req.Address.ZipCode,
		CurrentProvider: req.CurrentProvider,
		MoveInDate:      req.MoveInDate,
	})
	if err != nil {
		log.Error("failed to submit availability check", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to submit availability check"))
		return
	}

	log.Info("availability check submitted", slog.String("zip_code", req.Address.ZipCode))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "availability check submitted, we will contact you within 24 hours",
	}))
}
