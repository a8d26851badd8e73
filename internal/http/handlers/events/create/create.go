// Package create реализует создание события одним запросом, без открытой формы.
// Черновик проходит те же правила, что и форма администратора.
package create

import (
	"context"
	"log/slog"
	"net/http"

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
// @Summary Создать событие
// @Description Время начала передаётся в локальном формате YYYY-MM-DDTHH:mm часового пояса администратора.
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param event body models.DraftEvent true "Черновик события"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /admin/events [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.events.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DraftEvent
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	view, err := h.service.SubmitDraft(r.Context(), req, nil)
	if err != nil {
		log.Warn("event not created", sl.Err(err))
		httperr.Write(w, r, err, view.Draft, view.Notifications)
		return
	}

	log.Info("event created", sl.EventID(view.Saved.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithNotifications(view.Saved, view.Notifications))
}
