// Package planupdate обновляет тарифный план. Доступно только администраторам.
package planupdate

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

// Request — входные данные для обновления плана.
type Request struct {
	Name           string   `json:"name" validate:"required,min=2,max=100"`
	Description    string   `json:"description" validate:"required,max=1000"`
	Category       string   `json:"category" validate:"required,oneof=basic standard premium enterprise"`
	Price          float64  `json:"price" validate:"required,gt=0"`
	VisitsPerMonth int      `json:"visitsPerMonth" validate:"required,gte=1"`
	ContractLength int      `json:"contractLength" validate:"required,gte=1"`
	Features       []string `json:"features"`
	Availability   []string `json:"availability" validate:"omitempty,dive,numeric"`
	IsFeatured     bool     `json:"isFeatured"`
	IsAvailable    bool     `json:"isAvailable"`
}

// Service описывает бизнес-логику обновления плана.
type Service interface {
	Update(ctx context.Context, id string, plan models.Plan) error
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
	const op = "handlers.plan.planupdate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

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

	err := h.service.Update(r.Context(), id, models.Plan{
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Price:          req.Price,
		VisitsPerMonth: req.VisitsPerMonth,
		ContractLength: req.ContractLength,
		Features:       req.Features,
		Availability:   req.Availability,
		IsFeatured:     req.IsFeatured,
		IsAvailable:    req.IsAvailable,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("plan not found", slog.String("plan_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("plan not found"))
			return
		}
		log.Error("failed to update plan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update plan"))
		return
	}

	log.Info("plan updated", slog.String("plan_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
