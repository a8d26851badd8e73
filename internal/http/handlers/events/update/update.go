// Package update реализует изменение события одним запросом, без открытой формы.
package update

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
	"github.com/magabrotheeeer/wellness-events/internal/services/formsession"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	SubmitDraft(ctx context.Context, draft models.DraftEvent, eventID *int) (formsession.FormView, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Обновить событие
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "ID события"
// @Param event body models.DraftEvent true "Черновик события"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /admin/events/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.events.update"

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

	var req models.DraftEvent
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	view, err := h.service.SubmitDraft(r.Context(), req, &id)
	if err != nil {
		log.Warn("event not updated", sl.EventID(id), sl.Err(err))
		httperr.Write(w, r, err, view.Draft, view.Notifications)
		return
	}

	log.Info("event updated", sl.EventID(id))
	render.JSON(w, r, response.OKWithNotifications(view.Saved, view.Notifications))
}
