// Package list реализует HTTP-обработчик постраничного списка событий.
package list

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

// Handler отдаёт список событий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает выборку событий.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]models.EventView, error)
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список событий
// @Description Возвращает события от новых к старым со статусом на текущий момент.
// @Tags Events
// @Produce json
// @Param limit query int false "Размер страницы (1..100)"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /events [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.events.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := queryInt(r, "limit")
	if err != nil {
		log.Warn("invalid limit", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid limit"))
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		log.Warn("invalid offset", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid offset"))
		return
	}

	events, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list events", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list events"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"events": events,
		"count":  len(events),
	}))
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
