// Package planlist отдает каталог тарифных планов.
//
// Поддерживает фильтр по категории и сортировку по цене, числу
// визитов или имени. Неизвестное поле сортировки молча заменяется
// на цену по возрастанию.
package planlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/star-housekeeping/portal/internal/http/response"
	"github.com/star-housekeeping/portal/internal/lib/sl"
	"github.com/star-housekeeping/portal/internal/models"
)

// Service описывает бизнес-логику выборки каталога.
type Service interface {
	List(ctx context.Context, filter models.PlanFilter) ([]*models.Plan, error)
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

// ServeHTTP godoc
// @Summary List service plans
// @Tags Plans
// @Produce json
// @Param category query string false "Filter by plan category"
// @Param sortBy query string false "Sort field: price, visits or name"
// @Param order query string false "Sort order: asc or desc"
// @Success 200 {object} response.Response "Available plans"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.planlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter := models.PlanFilter{
		Category: r.URL.Query().Get("category"),
		SortBy:   r.URL.Query().Get("sortBy"),
		Order:    r.URL.Query().Get("order"),
	}

	plans, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list plans", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list plans"))
		return
	}

	log.Info("plans listed", slog.Int("count", len(plans)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"plans": plans,
		"count": len(plans),
	}))
}
