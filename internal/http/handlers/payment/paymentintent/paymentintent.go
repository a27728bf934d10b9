// Package paymentintent создает платежное намерение у внешнего
// провайдера для выбранного плана и цикла оплаты.
package paymentintent

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/star-housekeeping/portal/internal/http/middlewarectx"
	"github.com/star-housekeeping/portal/internal/http/response"
	"github.com/star-housekeeping/portal/internal/lib/sl"
	"github.com/star-housekeeping/portal/internal/services/payment"
	"github.com/star-housekeeping/portal/internal/storage/repository"
)

// Request — входные данные для создания платежного намерения.
// SetupFee задается клиентом опционально, по умолчанию ноль.
type Request struct {
	PlanID       string  `json:"planId" validate:"required"`
	BillingCycle string  `json:"billingCycle" validate:"required,oneof=monthly yearly"`
	SetupFee     float64 `json:"setupFee" validate:"omitempty,gte=0"`
}

// Service описывает бизнес-логику создания платежного намерения.
type Service interface {
	CreateIntent(ctx context.Context, userUID, planID, billingCycle string, setupFee float64) (*payment.IntentResult, error)
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
// @Summary Create a payment intent
// @Description Creates a payment intent with the external processor for the selected plan
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body Request true "Plan and billing cycle"
// @Success 200 {object} response.Response "Client secret and amount"
// @Failure 400 {object} response.ErrorResponse "Validation failed"
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 404 {object} response.ErrorResponse "Plan not found"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /payments/create-payment-intent [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paymentintent"

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

	result, err := h.service.CreateIntent(r.Context(), user.UID, req.PlanID, req.BillingCycle, req.SetupFee)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("plan not found", slog.String("plan_id", req.PlanID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("plan not found"))
			return
		}
		log.Error("failed to create payment intent", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create payment intent"))
		return
	}

	log.Info("payment intent created",
		slog.String("user_uid", user.UID),
		slog.String("plan_id", req.PlanID),
	)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"clientSecret": result.ClientSecret,
		"amount":       result.Amount,
		"plan":         result.Plan,
	}))
}
