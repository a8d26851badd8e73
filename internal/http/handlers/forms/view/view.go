// Package view возвращает текущее состояние открытой формы.
package view

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
	"github.com/magabrotheeeer/wellness-events/internal/services/formsession"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	View(ctx context.Context, sid string) (formsession.FormView, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Состояние формы
// @Tags Forms
// @Security BearerAuth
// @Produce json
// @Param sid path string true "ID сессии формы"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/forms/{sid} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.forms.view"

	sid := chi.URLParam(r, "sid")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		sl.Session(sid),
	)

	view, err := h.service.View(r.Context(), sid)
	if err != nil {
		log.Warn("failed to load form", sl.Err(err))
		httperr.Write(w, r, err, nil, nil)
		return
	}
	render.JSON(w, r, response.OKWithData(view))
}
