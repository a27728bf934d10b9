// Package register реализует HTTP-обработчик регистрации нового клиента.
//
// Handler валидирует анкету, делегирует создание учетной записи
// бизнес-логике и возвращает профиль вместе с токеном сессии.
// Пароль и его хэш в ответ не попадают.
package register

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
	services "github.com/star-housekeeping/portal/internal/services/auth"
)

// Request — входные данные для регистрации.
type Request struct {
	FullName string `json:"fullName" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"omitempty,min=10,max=20"`
	Address  string `json:"address" validate:"omitempty,max=200"`
	City     string `json:"city" validate:"omitempty,max=100"`
	State    string `json:"state" validate:"omitempty,max=50"`
	ZipCode  string `json:"zipCode" validate:"omitempty,min=5,max=10"`
}

// Service описывает бизнес-логику регистрации.
type Service interface {
	Register(ctx context.Context, user models.User, rawPassword string) (*models.User, string, error)
}

// Mailer отправляет приветственное письмо новому клиенту.
type Mailer interface {
	SendWelcome(user *models.User) error
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

// ServeHTTP godoc
// @Summary Register a new customer account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Registration data"
// @Success 201 {object} response.Response "User profile and session token"
// @Failure 400 {object} response.ErrorResponse "Validation failed or email already registered"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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

	user, token, err := h.service.Register(r.Context(), models.User{
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
		City:     req.City,
		State:    req.State,
		ZipCode:  req.ZipCode,
	}, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			log.Error("email already registered", slog.String("email", req.Email))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("email already registered"))
			return
		}
		log.Error("registration failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to register user"))
		return
	}

	// письмо не критично для регистрации
	if err := h.mailer.SendWelcome(user); err != nil {
		log.Warn("failed to send welcome email", sl.Err(err))
	}

	log.Info("user registered", slog.String("user_uid", user.UID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user":  user,
		"token": token,
	}))
}
