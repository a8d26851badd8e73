// Package closeform закрывает форму без сохранения.
package closeform

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/wellness-events/internal/http/httperr"
	"github.com/magabrotheeeer/wellness-events/internal/http/response"
	"github.com/magabrotheeeer/wellness-events/internal/lib/sl"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Close(ctx context.Context, sid string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Закрыть форму
// @Tags Forms
// @Security BearerAuth
// @Produce json
// @Param sid path string true "ID сессии формы"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/forms/{sid} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.forms.closeform"

	sid := chi.URLParam(r, "sid")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		sl.Session(sid),
	)

	if err := h.service.Close(r.Context(), sid); err != nil {
		log.Warn("failed to close form", sl.Err(err))
		httperr.Write(w, r, err, nil, nil)
		return
	}

	log.Info("form closed")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"closed": sid,
	}))
}
