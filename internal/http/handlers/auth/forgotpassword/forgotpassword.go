// Package forgotpassword обрабатывает запрос на сброс пароля.
//
// Ответ одинаков для существующих и несуществующих адресов, чтобы
// по нему нельзя было перебирать зарегистрированные email.
package forgotpassword

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/star-housekeeping/portal/internal/http/response"
	"github.com/star-housekeeping/portal/internal/lib/sl"
	"github.com/star-housekeeping/portal/internal/models"
	"github.com/star-housekeeping/portal/internal/storage/repository"
)

// Request — входные данные для запроса сброса пароля.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// Service описывает бизнес-логику выпуска токена сброса.
type Service interface {
	ForgotPassword(ctx context.Context, email string) (*models.User, string, error)
}

// Mailer отправляет письмо со ссылкой для сброса пароля.
type Mailer interface {
	SendPasswordReset(user *models.User, resetToken string) error
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

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.forgotpassword"

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

	user, resetToken, err := h.service.ForgotPassword(r.Context(), req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Error("failed to issue reset token", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to process request"))
		return
	}

	if err == nil {
		if err := h.mailer.SendPasswordReset(user, resetToken); err != nil {
			log.Warn("failed to send password reset email", sl.Err(err))
		}
	}

	log.Info("password reset requested", slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "if the email is registered, a reset link has been sent",
	}))
}
