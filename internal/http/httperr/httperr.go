// Package httperr сопоставляет ошибки предметной области с HTTP-статусами.
package httperr

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/wellness-events/internal/cache"
	"github.com/magabrotheeeer/wellness-events/internal/datetimeinput"
	"github.com/magabrotheeeer/wellness-events/internal/eventform"
	"github.com/magabrotheeeer/wellness-events/internal/http/response"
	"github.com/magabrotheeeer/wellness-events/internal/notify"
	eventsvc "github.com/magabrotheeeer/wellness-events/internal/services/event"
)

// Status возвращает HTTP-статус и сообщение для клиента.
func Status(err error) (int, string) {
	var (
		verr *eventform.ValidationError
		serr *eventform.SubmitError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, verr.Message
	case errors.Is(err, eventsvc.ErrNotFound):
		return http.StatusNotFound, "event not found"
	case errors.Is(err, cache.ErrSessionNotFound):
		return http.StatusNotFound, "form session not found"
	case errors.Is(err, eventform.ErrBusy):
		return http.StatusConflict, "form is being submitted"
	case errors.Is(err, eventform.ErrClosed):
		return http.StatusConflict, "form is closed"
	case errors.Is(err, eventform.ErrUnknownField), errors.Is(err, datetimeinput.ErrUnknownField):
		return http.StatusUnprocessableEntity, "unknown field"
	case errors.Is(err, eventsvc.ErrInvalidPayload):
		return http.StatusUnprocessableEntity, "invalid event data"
	case errors.As(err, &serr):
		return http.StatusBadGateway, eventform.MsgSubmitFailed
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// Write отвечает ошибкой. data и notifications передаются клиенту как есть.
func Write(w http.ResponseWriter, r *http.Request, err error, data any, notifications []notify.Notification) {
	status, msg := Status(err)
	w.WriteHeader(status)
	render.JSON(w, r, response.Rejected(msg, data, notifications))
}
