package portal

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/star-housekeeping/portal/internal/config"
	"github.com/star-housekeeping/portal/internal/http/handlers/auth/forgotpassword"
	"github.com/star-housekeeping/portal/internal/http/handlers/auth/login"
	"github.com/star-housekeeping/portal/internal/http/handlers/auth/logout"
	"github.com/star-housekeeping/portal/internal/http/handlers/auth/profile"
	"github.com/star-housekeeping/portal/internal/http/handlers/auth/register"
	"github.com/star-housekeeping/portal/internal/http/handlers/auth/resetpassword"
	"github.com/star-housekeeping/portal/internal/http/handlers/contact/availabilitycheck"
	"github.com/star-housekeeping/portal/internal/http/handlers/contact/contactsubmit"
	"github.com/star-housekeeping/portal/internal/http/handlers/contact/departments"
	"github.com/star-housekeeping/portal/internal/http/handlers/contact/feedback"
	"github.com/star-housekeeping/portal/internal/http/handlers/health"
	"github.com/star-housekeeping/portal/internal/http/handlers/payment/paymentcancel"
	"github.com/star-housekeeping/portal/internal/http/handlers/payment/paymentconfirm"
	"github.com/star-housekeeping/portal/internal/http/handlers/payment/paymenthistory"
	"github.com/star-housekeeping/portal/internal/http/handlers/payment/paymentintent"
	"github.com/star-housekeeping/portal/internal/http/handlers/payment/paymentread"
	"github.com/star-housekeeping/portal/internal/http/handlers/payment/paymentwebhook"
	"github.com/star-housekeeping/portal/internal/http/handlers/plan/planavailability"
	"github.com/star-housekeeping/portal/internal/http/handlers/plan/plancreate"
	"github.com/star-housekeeping/portal/internal/http/handlers/plan/planfeatured"
	"github.com/star-housekeeping/portal/internal/http/handlers/plan/planlist"
	"github.com/star-housekeeping/portal/internal/http/handlers/plan/planread"
	"github.com/star-housekeeping/portal/internal/http/handlers/plan/planremove"
	"github.com/star-housekeeping/portal/internal/http/handlers/plan/planupdate"
	"github.com/star-housekeeping/portal/internal/http/handlers/support/ticketall"
	"github.com/star-housekeeping/portal/internal/http/handlers/support/ticketcreate"
	"github.com/star-housekeeping/portal/internal/http/handlers/support/ticketlist"
	"github.com/star-housekeeping/portal/internal/http/handlers/support/ticketmessage"
	"github.com/star-housekeeping/portal/internal/http/handlers/support/ticketread"
	"github.com/star-housekeeping/portal/internal/http/handlers/support/ticketstatus"
	"github.com/star-housekeeping/portal/internal/http/handlers/user/changepassword"
	"github.com/star-housekeeping/portal/internal/http/handlers/user/profileget"
	"github.com/star-housekeeping/portal/internal/http/handlers/user/profileupdate"
	"github.com/star-housekeeping/portal/internal/http/handlers/user/subscriptioninfo"
	"github.com/star-housekeeping/portal/internal/http/handlers/user/userlist"
	"github.com/star-housekeeping/portal/internal/http/handlers/user/userread"
	"github.com/star-housekeeping/portal/internal/http/handlers/user/userremove"
	"github.com/star-housekeeping/portal/internal/http/handlers/user/userstatus"
	"github.com/star-housekeeping/portal/internal/http/middlewarectx"
	"github.com/star-housekeeping/portal/internal/paymentprovider"
	authservice "github.com/star-housekeeping/portal/internal/services/auth"
	contactservice "github.com/star-housekeeping/portal/internal/services/contact"
	paymentservice "github.com/star-housekeeping/portal/internal/services/payment"
	planservice "github.com/star-housekeeping/portal/internal/services/plan"
	senderservice "github.com/star-housekeeping/portal/internal/services/sender"
	supportservice "github.com/star-housekeeping/portal/internal/services/support"
	userservice "github.com/star-housekeeping/portal/internal/services/user"
)

// Services собирает бизнес-логику, которую обслуживают маршруты.
type Services struct {
	Auth     *authservice.AuthService
	Plans    *planservice.PlanService
	Payments *paymentservice.PaymentService
	Support  *supportservice.SupportService
	Users    *userservice.UserService
	Contact  *contactservice.ContactService
	Sender   *senderservice.SenderService
	Provider *paymentprovider.Client
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	r.Use(middlewarectx.CORS(cfg.CORSAllowedOrigins))
	r.Use(middlewarectx.Metrics)

	rateLimiter := middlewarectx.NewRateLimiter(cfg.RateLimit)

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimiter.Middleware)

		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, s.Auth, s.Sender).ServeHTTP)
		r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/forgot-password", forgotpassword.New(logger, s.Auth, s.Sender).ServeHTTP)
		r.Post("/auth/reset-password", resetpassword.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/logout", logout.New(logger).ServeHTTP)

		r.Get("/plans", planlist.New(logger, s.Plans).ServeHTTP)
		r.Get("/plans/popular/featured", planfeatured.New(logger, s.Plans).ServeHTTP)
		r.Get("/plans/check-availability/{zipCode}", planavailability.New(logger, s.Plans).ServeHTTP)
		r.Get("/plans/{id}", planread.New(logger, s.Plans).ServeHTTP)

		r.Post("/contact", contactsubmit.New(logger, s.Contact).ServeHTTP)
		r.Post("/contact/feedback", feedback.New(logger, s.Contact).ServeHTTP)
		r.Post("/contact/availability-check", availabilitycheck.New(logger, s.Contact).ServeHTTP)
		r.Get("/contact/departments", departments.New(logger, cfg.Departments).ServeHTTP)

		// Webhook endpoint (подпись вместо токена)
		r.Post("/payments/webhook", paymentwebhook.New(logger, s.Provider, s.Payments).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))

			r.Get("/auth/profile", profile.New(logger).ServeHTTP)

			r.Get("/users/profile", profileget.New(logger, s.Users).ServeHTTP)
			r.Put("/users/profile", profileupdate.New(logger, s.Users).ServeHTTP)
			r.Put("/users/change-password", changepassword.New(logger, s.Users).ServeHTTP)
			r.Get("/users/subscription", subscriptioninfo.New(logger, s.Users).ServeHTTP)

			r.Post("/payments/create-payment-intent", paymentintent.New(logger, s.Payments).ServeHTTP)
			r.Post("/payments/confirm", paymentconfirm.New(logger, s.Payments).ServeHTTP)
			r.Post("/payments/cancel-subscription", paymentcancel.New(logger, s.Payments).ServeHTTP)
			r.Get("/payments/history", paymenthistory.New(logger, s.Payments).ServeHTTP)
			r.Get("/payments/{id}", paymentread.New(logger, s.Payments).ServeHTTP)

			r.Post("/support", ticketcreate.New(logger, s.Support, s.Sender).ServeHTTP)
			r.Get("/support/tickets", ticketlist.New(logger, s.Support).ServeHTTP)
			r.Get("/support/tickets/{id}", ticketread.New(logger, s.Support).ServeHTTP)
			r.Post("/support/tickets/{id}/message", ticketmessage.New(logger, s.Support).ServeHTTP)

			// Персонал поддержки
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireStaff(logger))
				r.Put("/support/tickets/{id}/status", ticketstatus.New(logger, s.Support, s.Sender).ServeHTTP)
				r.Get("/support/all-tickets", ticketall.New(logger, s.Support).ServeHTTP)
			})

			// Только администраторы
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireAdmin(logger))
				r.Post("/plans", plancreate.New(logger, s.Plans).ServeHTTP)
				r.Put("/plans/{id}", planupdate.New(logger, s.Plans).ServeHTTP)
				r.Delete("/plans/{id}", planremove.New(logger, s.Plans).ServeHTTP)

				r.Get("/users", userlist.New(logger, s.Users).ServeHTTP)
				r.Get("/users/{id}", userread.New(logger, s.Users).ServeHTTP)
				r.Put("/users/{id}/status", userstatus.New(logger, s.Users).ServeHTTP)
				r.Delete("/users/{id}", userremove.New(logger, s.Users).ServeHTTP)
			})
		})
	})
}
