// Package ticker реализует ленту ближайших событий для публичной страницы.
package ticker

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/wellness-events/internal/http/response"
	"github.com/magabrotheeeer/wellness-events/internal/lib/sl"
	"github.com/magabrotheeeer/wellness-events/internal/models"
)

// Handler отдаёт незавершённые события в порядке начала.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает выборку ближайших событий.
type Service interface {
	Ticker(ctx context.Context, limit int) ([]models.EventView, error)
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Лента ближайших событий
// @Description Только события со статусом UPCOMING, по возрастанию времени начала.
// @Tags Events
// @Produce json
// @Param limit query int false "Сколько событий вернуть (1..10)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /events/ticker [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.events.ticker"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			log.Warn("invalid limit", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid limit"))
			return
		}
		limit = v
	}

	events, err := h.service.Ticker(r.Context(), limit)
	if err != nil {
		log.Error("failed to load ticker", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load upcoming events"))
		return
	}
	render.JSON(w, r, response.OKWithData(events))
}
