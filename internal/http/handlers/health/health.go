// Package health отвечает на проверки готовности сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/wellness-events/internal/http/response"
	"github.com/magabrotheeeer/wellness-events/internal/lib/sl"
)

// Checker проверяет одну зависимость.
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckFunc позволяет использовать функцию как Checker.
type CheckFunc func(ctx context.Context) error

// Ping вызывает f.
func (f CheckFunc) Ping(ctx context.Context) error { return f(ctx) }

type Handler struct {
	log      *slog.Logger
	checkers map[string]Checker
	timeout  time.Duration
}

// New создаёт Handler. checkers содержит зависимости по имени, например postgres и redis.
func New(log *slog.Logger, checkers map[string]Checker) *Handler {
	return &Handler{
		log:      log,
		checkers: checkers,
		timeout:  2 * time.Second,
	}
}

// ServeHTTP godoc
// @Summary Проверка готовности
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checkers))
	for name := range h.checkers {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	checks := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checkers[name].Ping(ctx); err != nil {
			h.log.Error("dependency unavailable", slog.String("op", op), slog.String("dependency", name), sl.Err(err))
			checks[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	w.WriteHeader(status)
	if status != http.StatusOK {
		render.JSON(w, r, response.Rejected("service unavailable", checks, nil))
		return
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
		"checks": checks,
	}))
}
