// Package calendar отдаёт события в формате iCalendar для подписки из календарных приложений.
package calendar

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/wellness-events/internal/calendar"
	"github.com/magabrotheeeer/wellness-events/internal/http/response"
	"github.com/magabrotheeeer/wellness-events/internal/lib/sl"
	"github.com/magabrotheeeer/wellness-events/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
	name    string
	now     func() time.Time
}

type Service interface {
	All(ctx context.Context) ([]*models.Event, error)
}

// New создаёт Handler. name задаёт название календаря в клиенте.
func New(log *slog.Logger, service Service, name string) *Handler {
	return &Handler{
		log:     log,
		service: service,
		name:    name,
		now:     time.Now,
	}
}

// ServeHTTP godoc
// @Summary Календарь событий
// @Description Все события в формате iCalendar (RFC 5545). Статус события передаётся в CATEGORIES.
// @Tags Events
// @Produce text/calendar
// @Success 200 {string} string "VCALENDAR"
// @Failure 500 {object} response.ErrorResponse
// @Router /events/calendar.ics [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.events.calendar"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	events, err := h.service.All(r.Context())
	if err != nil {
		log.Error("failed to load events", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build calendar"))
		return
	}

	body := calendar.Build(h.name, events, h.now())
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="events.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		log.Warn("failed to write calendar", sl.Err(err))
	}
}
