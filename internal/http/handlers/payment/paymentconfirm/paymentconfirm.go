// Package paymentconfirm подтверждает оплату: проверяет статус
// намерения у провайдера, записывает платеж и активирует подписку.
package paymentconfirm

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
	"github.com/star-housekeeping/portal/internal/models"
	"github.com/star-housekeeping/portal/internal/services/payment"
	"github.com/star-housekeeping/portal/internal/storage/repository"
)

// Request — входные данные для подтверждения оплаты.
type Request struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
	PlanID          string `json:"planId" validate:"required"`
	BillingCycle    string `json:"billingCycle" validate:"required,oneof=monthly yearly"`
}

// Service описывает бизнес-логику подтверждения оплаты.
type Service interface {
	Confirm(ctx context.Context, userUID, intentID, planID, billingCycle string) (*models.Payment, *models.Plan, error)
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
// @Summary Confirm a payment
// @Description Verifies the intent status with the processor, records the payment and activates the subscription
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body Request true "Intent, plan and billing cycle"
// @Success 200 {object} response.Response "Recorded payment and activated plan"
// @Failure 400 {object} response.ErrorResponse "Payment not completed"
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 404 {object} response.ErrorResponse "Plan not found"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /payments/confirm [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paymentconfirm"

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

	paymentRecord, plan, err := h.service.Confirm(r.Context(), user.UID, req.PaymentIntentID, req.PlanID, req.BillingCycle)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrPaymentNotCompleted):
			log.Error("payment not completed", slog.String("intent_id", req.PaymentIntentID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("payment has not been completed"))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("plan not found", slog.String("plan_id", req.PlanID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("plan not found"))
		default:
			log.Error("failed to confirm payment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to confirm payment"))
		}
		return
	}

	log.Info("payment confirmed",
		slog.String("user_uid", user.UID),
		slog.String("payment_id", paymentRecord.ID),
	)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"payment": paymentRecord,
		"plan":    plan,
	}))
}
