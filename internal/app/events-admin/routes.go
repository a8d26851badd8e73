// Package eventsadmin собирает HTTP-приложение публичного расписания и админки событий.
package eventsadmin

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/wellness-events/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/wellness-events/internal/http/handlers/events/calendar"
	"github.com/magabrotheeeer/wellness-events/internal/http/handlers/events/create"
	"github.com/magabrotheeeer/wellness-events/internal/http/handlers/events/list"
	"github.com/magabrotheeeer/wellness-events/internal/http/handlers/events/read"
	"github.com/magabrotheeeer/wellness-events/internal/http/handlers/events/remove"
	"github.com/magabrotheeeer/wellness-events/internal/http/handlers/events/ticker"
	"github.com/magabrotheeeer/wellness-events/internal/http/handlers/events/update"
	"github.com/magabrotheeeer/wellness-events/internal/http/handlers/forms/closeform"
	"github.com/magabrotheeeer/wellness-events/internal/http/handlers/forms/commit"
	"github.com/magabrotheeeer/wellness-events/internal/http/handlers/forms/field"
	"github.com/magabrotheeeer/wellness-events/internal/http/handlers/forms/open"
	"github.com/magabrotheeeer/wellness-events/internal/http/handlers/forms/starttime"
	"github.com/magabrotheeeer/wellness-events/internal/http/handlers/forms/submit"
	"github.com/magabrotheeeer/wellness-events/internal/http/handlers/forms/view"
	"github.com/magabrotheeeer/wellness-events/internal/http/handlers/health"
	"github.com/magabrotheeeer/wellness-events/internal/http/middlewarectx"
	"github.com/magabrotheeeer/wellness-events/internal/lib/jwt"
	"github.com/magabrotheeeer/wellness-events/internal/metrics"
	authservice "github.com/magabrotheeeer/wellness-events/internal/services/auth"
	eventservice "github.com/magabrotheeeer/wellness-events/internal/services/event"
	"github.com/magabrotheeeer/wellness-events/internal/services/formsession"
)

// Deps всё, что нужно маршрутам.
type Deps struct {
	Logger       *slog.Logger
	Events       *eventservice.Service
	Forms        *formsession.Service
	Auth         *authservice.Service
	Tokens       middlewarectx.TokenParser
	Checkers     map[string]health.Checker
	CalendarName string
	RateLimit    rate.Limit
	RateBurst    int
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	logger := d.Logger

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		metrics.HTTPMiddleware,
	)

	limiter := middlewarectx.RateLimitMiddleware(logger, d.RateLimit, d.RateBurst)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.With(limiter).Post("/login", login.New(logger, d.Auth).ServeHTTP)
		r.Get("/events", list.New(logger, d.Events).ServeHTTP)
		r.Get("/events/ticker", ticker.New(logger, d.Events).ServeHTTP)
		r.Get("/events/calendar.ics", calendar.New(logger, d.Events, d.CalendarName).ServeHTTP)
		r.Get("/events/{id}", read.New(logger, d.Events).ServeHTTP)

		// Админка, только с JWT и ролью admin
		r.Route("/admin", func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(d.Tokens, logger))
			r.Use(middlewarectx.RequireRole(jwt.RoleAdmin, logger))

			r.Group(func(r chi.Router) {
				r.Use(limiter)
				r.Post("/events", create.New(logger, d.Forms).ServeHTTP)
				r.Put("/events/{id}", update.New(logger, d.Forms).ServeHTTP)
				r.Delete("/events/{id}", remove.New(logger, d.Events).ServeHTTP)
				r.Post("/forms/{sid}/submit", submit.New(logger, d.Forms).ServeHTTP)
			})

			r.Post("/forms", open.New(logger, d.Forms).ServeHTTP)
			r.Get("/forms/{sid}", view.New(logger, d.Forms).ServeHTTP)
			r.Delete("/forms/{sid}", closeform.New(logger, d.Forms).ServeHTTP)
			r.Patch("/forms/{sid}/fields", field.New(logger, d.Forms).ServeHTTP)
			r.Patch("/forms/{sid}/start-time", starttime.New(logger, d.Forms).ServeHTTP)
			r.Post("/forms/{sid}/start-time/commit", commit.New(logger, d.Forms).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, d.Checkers).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
