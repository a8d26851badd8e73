// Package field реализует изменение поля черновика в открытой форме.
package field

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
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
	SetField(ctx context.Context, sid, name, value string) (formsession.FormView, error)
}

// Request новое значение поля. Пустое значение очищает поле.
type Request struct {
	Name  string `json:"name" validate:"required,oneof=title description startTime durationMinutes"`
	Value string `json:"value"`
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Изменить поле формы
// @Tags Forms
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param sid path string true "ID сессии формы"
// @Param request body Request true "Поле и значение"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /admin/forms/{sid}/fields [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.forms.field"

	sid := chi.URLParam(r, "sid")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		sl.Session(sid),
	)

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	view, err := h.service.SetField(r.Context(), sid, req.Name, req.Value)
	if err != nil {
		log.Warn("failed to change field", slog.String("field", req.Name), sl.Err(err))
		httperr.Write(w, r, err, nil, nil)
		return
	}
	render.JSON(w, r, response.OKWithData(view))
}
