// Package open реализует открытие формы события.
package open

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/wellness-events/internal/http/httperr"
	"github.com/magabrotheeeer/wellness-events/internal/http/response"
	"github.com/magabrotheeeer/wellness-events/internal/lib/sl"
	"github.com/magabrotheeeer/wellness-events/internal/services/formsession"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Service interface {
	Open(ctx context.Context, eventID *int) (formsession.FormView, error)
}

// Request тело запроса. Без event_id форма открывается для создания.
type Request struct {
	EventID *int `json:"event_id,omitempty" validate:"omitempty,min=1"`
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Открыть форму события
// @Description Создаёт сессию формы. С event_id форма заполняется данными события для редактирования.
// @Tags Forms
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body Request false "Событие для редактирования"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/forms [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.forms.open"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	view, err := h.service.Open(r.Context(), req.EventID)
	if err != nil {
		log.Error("failed to open form", sl.Err(err))
		httperr.Write(w, r, err, nil, nil)
		return
	}

	log.Info("form opened", sl.Session(view.SessionID), slog.String("mode", view.Mode))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(view))
}
