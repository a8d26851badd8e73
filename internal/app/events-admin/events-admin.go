package eventsadmin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/wellness-events/internal/cache"
	"github.com/magabrotheeeer/wellness-events/internal/config"
	"github.com/magabrotheeeer/wellness-events/internal/http/handlers/health"
	"github.com/magabrotheeeer/wellness-events/internal/lib/jwt"
	"github.com/magabrotheeeer/wellness-events/internal/lib/sl"
	"github.com/magabrotheeeer/wellness-events/internal/migrations"
	authservice "github.com/magabrotheeeer/wellness-events/internal/services/auth"
	eventservice "github.com/magabrotheeeer/wellness-events/internal/services/event"
	"github.com/magabrotheeeer/wellness-events/internal/services/formsession"
	"github.com/magabrotheeeer/wellness-events/internal/storage"
)

// App HTTP-приложение событий.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
}

// New подключает хранилище и кеш, применяет миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "eventsadmin.New"

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("%s: jwt secret key is not set", op)
	}
	if cfg.AdminUsername == "" || cfg.AdminPasswordHash == "" {
		logger.Warn("admin account is not configured, login is disabled")
	}

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	eventService := eventservice.New(db, cacheRedis, logger)
	formService := formsession.New(
		cache.NewSessions(cacheRedis, cfg.SessionTTL),
		eventService,
		logger,
		loc,
		cfg.SubmitTimeout,
	)
	authService := authservice.NewAuthService(cfg.AdminUsername, cfg.AdminPasswordHash, jwtMaker)

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Logger: logger,
		Events: eventService,
		Forms:  formService,
		Auth:   authService,
		Tokens: jwtMaker,
		Checkers: map[string]health.Checker{
			"postgres": health.CheckFunc(db.DB.PingContext),
			"redis":    cacheRedis,
		},
		CalendarName: cfg.CalendarName,
		RateLimit:    rate.Limit(cfg.RateLimit),
		RateBurst:    cfg.RateBurst,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP + cfg.SubmitTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает сервер и останавливает его при отмене ctx.
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

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}

	if cerr := a.cache.Close(); cerr != nil {
		a.logger.Error("failed to close redis", sl.Err(cerr))
	}
	if cerr := a.db.Close(); cerr != nil {
		a.logger.Error("failed to close database", sl.Err(cerr))
	}
	return err
}
