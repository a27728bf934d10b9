// Package middlewarectx содержит HTTP middleware портала: шлюз
// авторизации, проверку ролей, ограничение частоты запросов, CORS и
// метрики.
//
// JWTMiddleware проверяет наличие и валидность JWT токена в заголовке
// Authorization, загружает актуальную запись пользователя и кладёт её
// в контекст запроса. Все проверки прав ниже по цепочке исходят из
// этой записи, а не из claims токена.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/star-housekeeping/portal/internal/http/response"
	"github.com/star-housekeeping/portal/internal/lib/sl"
	"github.com/star-housekeeping/portal/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// User — ключ, под которым в контексте лежит *models.User.
const User Key = "user"

// Service описывает сервис для валидации JWT токена.
type Service interface {
	// ValidateToken проверяет токен и возвращает актуальную запись пользователя.
	ValidateToken(ctx context.Context, token string) (*models.User, error)
}

// JWTMiddleware возвращает HTTP middleware — шлюз авторизации.
//
// Отсутствующий или невалидный токен, как и отсутствующий в базе
// пользователь, дают 401. Заблокированная учетная запись даёт 403
// независимо от роли. В случае успеха пользователь добавляется в
// контекст запроса.
func JWTMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			reqLog := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				reqLog.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			user, err := authService.ValidateToken(r.Context(), tokenStr)
			if err != nil || user == nil {
				reqLog.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			if user.SubscriptionStatus == models.StatusSuspended {
				reqLog.Error("account suspended", slog.String("user_uid", user.UID))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("account suspended"))
				return
			}

			ctx := context.WithValue(r.Context(), User, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext возвращает пользователя, добавленного шлюзом авторизации.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(User).(*models.User)
	return user, ok
}
