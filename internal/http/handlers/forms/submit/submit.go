// Package submit реализует отправку открытой формы.
package submit

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
	Submit(ctx context.Context, sid string) (formsession.FormView, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отправить форму
// @Description Проверяет черновик и сохраняет событие. При отказе черновик остаётся в сессии.
// @Tags Forms
// @Security BearerAuth
// @Produce json
// @Param sid path string true "ID сессии формы"
// @Success 200 {object} response.Response "Событие обновлено"
// @Success 201 {object} response.Response "Событие создано"
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 422 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /admin/forms/{sid}/submit [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.forms.submit"

	sid := chi.URLParam(r, "sid")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		sl.Session(sid),
	)

	view, err := h.service.Submit(r.Context(), sid)
	if err != nil {
		log.Warn("form not submitted", sl.Err(err))
		var data any
		if view.Mode != "" {
			data = view
		}
		httperr.Write(w, r, err, data, view.Notifications)
		return
	}

	log.Info("form submitted", slog.String("mode", view.Mode), sl.EventID(view.Saved.ID))
	if view.Mode == formsession.ModeCreate {
		w.WriteHeader(http.StatusCreated)
	}
	render.JSON(w, r, response.OKWithNotifications(view, view.Notifications))
}
