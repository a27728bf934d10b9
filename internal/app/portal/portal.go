// Package portal собирает приложение: хранилище, кэш, сервисы,
// маршруты и HTTP-сервер с корректным завершением.
package portal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/star-housekeeping/portal/internal/cache"
	"github.com/star-housekeeping/portal/internal/config"
	"github.com/star-housekeeping/portal/internal/lib/jwt"
	"github.com/star-housekeeping/portal/internal/lib/smtp"
	"github.com/star-housekeeping/portal/internal/migrations"
	"github.com/star-housekeeping/portal/internal/paymentprovider"
	authservice "github.com/star-housekeeping/portal/internal/services/auth"
	contactservice "github.com/star-housekeeping/portal/internal/services/contact"
	paymentservice "github.com/star-housekeeping/portal/internal/services/payment"
	planservice "github.com/star-housekeeping/portal/internal/services/plan"
	senderservice "github.com/star-housekeeping/portal/internal/services/sender"
	supportservice "github.com/star-housekeeping/portal/internal/services/support"
	userservice "github.com/star-housekeeping/portal/internal/services/user"
	"github.com/star-housekeeping/portal/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)
	providerClient := paymentprovider.New(cfg.PaymentProvider)
	mailTransport := smtp.NewTransport(cfg, logger)

	services := &Services{
		Auth:     authservice.NewAuthService(db, jwtMaker),
		Plans:    planservice.NewPlanService(db, cacheRedis, logger),
		Payments: paymentservice.New(db, db, db, providerClient, logger),
		Support:  supportservice.New(db, logger),
		Users:    userservice.New(db, db, logger),
		Sender:   senderservice.NewSenderService(cfg, logger, mailTransport),
		Provider: providerClient,
	}
	services.Contact = contactservice.New(db, services.Sender, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, services)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
