// Package planavailability проверяет, какие планы доступны в заданном
// почтовом индексе.
package planavailability

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/star-housekeeping/portal/internal/http/response"
	"github.com/star-housekeeping/portal/internal/lib/sl"
	"github.com/star-housekeeping/portal/internal/models"
)

// Service описывает бизнес-логику проверки зоны обслуживания.
type Service interface {
	CheckAvailability(ctx context.Context, zipCode string) ([]*models.Plan, error)
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
	const op = "handlers.plan.planavailability"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	zipCode := chi.URLParam(r, "zipCode")
	if err := h.validate.Var(zipCode, "required,numeric,min=5,max=10"); err != nil {
		log.Error("invalid zip code", slog.String("zip_code", zipCode))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid zip code"))
		return
	}

	plans, err := h.service.CheckAvailability(r.Context(), zipCode)
	if err != nil {
		log.Error("failed to check availability", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to check availability"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"zipCode":   zipCode,
		"available": len(plans) > 0,
		"plans":     plans,
	}))
}
