package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/star-housekeeping/portal/internal/http/response"
	"github.com/star-housekeeping/portal/internal/models"
)

// RequireRole возвращает middleware, пропускающее только пользователей
// с одной из перечисленных ролей. Применяется после JWTMiddleware.
func RequireRole(log *slog.Logger, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireRole"

			reqLog := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			user, ok := UserFromContext(r.Context())
			if !ok {
				reqLog.Error("user missing from context")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}

			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			reqLog.Error("insufficient role",
				slog.String("user_uid", user.UID),
				slog.String("role", user.Role),
			)
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("insufficient permissions"))
		})
	}
}

// RequireActive пропускает только пользователей с активной подпиской.
// Применяется после JWTMiddleware.
func RequireActive(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireActive"

			reqLog := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			user, ok := UserFromContext(r.Context())
			if !ok {
				reqLog.Error("user missing from context")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}

			if user.SubscriptionStatus != models.StatusActive {
				reqLog.Error("subscription not active",
					slog.String("user_uid", user.UID),
					slog.String("subscription_status", user.SubscriptionStatus),
				)
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("active subscription required to access this feature"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin пропускает только администраторов.
func RequireAdmin(log *slog.Logger) func(http.Handler) http.Handler {
	return RequireRole(log, models.RoleAdmin)
}

// RequireStaff пропускает сотрудников поддержки и администраторов.
func RequireStaff(log *slog.Logger) func(http.Handler) http.Handler {
	return RequireRole(log, models.RoleSupport, models.RoleAdmin)
}
