// Package starttime реализует изменение частей составного поля времени начала:
// даты, часа, минут и половины суток.
package starttime

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/wellness-events/internal/datetimeinput"
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
	EditStartTime(ctx context.Context, sid string, field datetimeinput.Field, value string) (formsession.FormView, error)
}

// Request новое значение подполя. Минуты при вводе не проверяются.
type Request struct {
	Field string `json:"field" validate:"required,oneof=date hour minute meridiem"`
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
// @Summary Изменить время начала
// @Description Меняет одно подполе. Пустая дата очищает всё значение.
// @Tags Forms
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param sid path string true "ID сессии формы"
// @Param request body Request true "Подполе и значение"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /admin/forms/{sid}/start-time [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.forms.starttime"

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

	view, err := h.service.EditStartTime(r.Context(), sid, datetimeinput.Field(req.Field), req.Value)
	if err != nil {
		log.Warn("failed to change start time", slog.String("field", req.Field), sl.Err(err))
		httperr.Write(w, r, err, nil, nil)
		return
	}
	render.JSON(w, r, response.OKWithData(view))
}
