// Package read реализует получение одного события.
package read

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/wellness-events/internal/http/httperr"
	"github.com/magabrotheeeer/wellness-events/internal/http/response"
	"github.com/magabrotheeeer/wellness-events/internal/lib/sl"
	"github.com/magabrotheeeer/wellness-events/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	View(ctx context.Context, id int) (models.EventView, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить событие
// @Tags Events
// @Produce json
// @Param id path int true "ID события"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /events/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.events.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Warn("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	event, err := h.service.View(r.Context(), id)
	if err != nil {
		log.Error("failed to read event", sl.EventID(id), sl.Err(err))
		httperr.Write(w, r, err, nil, nil)
		return
	}
	render.JSON(w, r, response.OKWithData(event))
}
