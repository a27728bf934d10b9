// Package plancreate создает тарифный план. Доступно только администраторам.
package plancreate

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

// Request — входные данные для создания плана.
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

// Service описывает бизнес-логику создания плана.
type Service interface {
	Create(ctx context.Context, plan models.Plan) (string, error)
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
// @Summary Create a service plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param request body Request true "Plan data"
// @Success 201 {object} response.Response "Created plan id"
// @Failure 400 {object} response.ErrorResponse "Validation failed"
// @Failure 403 {object} response.ErrorResponse "Admin only"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /plans [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.plancreate"

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

	id, err := h.service.Create(r.Context(), models.Plan{
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
		log.Error("failed to create plan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create plan"))
		return
	}

	log.Info("plan created", slog.String("plan_id", id))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
