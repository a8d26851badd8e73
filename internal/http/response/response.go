// Package response формирует единый JSON-конверт ответов API:
// статус, текст ошибки, данные и уведомления формы.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/wellness-events/internal/notify"
)

// Response стандартный ответ сервера.
type Response struct {
	Status        string                `json:"status"`
	Error         string                `json:"error,omitempty"`
	Data          any                   `json:"data,omitempty"`
	Notifications []notify.Notification `json:"notifications,omitempty"`
}

// ErrorResponse ответ с ошибкой для Swagger-документации.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK успешный ответ.
	StatusOK = "OK"
	// StatusError ответ с ошибкой.
	StatusError = "Error"
)

// OKWithData возвращает успешный ответ с данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// OKWithNotifications возвращает успешный ответ с данными и уведомлениями.
func OKWithNotifications(data any, notifications []notify.Notification) Response {
	return Response{
		Status:        StatusOK,
		Data:          data,
		Notifications: notifications,
	}
}

// Error возвращает ответ с ошибкой.
func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// Rejected возвращает ошибку вместе с текущим состоянием формы и уведомлениями.
func Rejected(msg string, data any, notifications []notify.Notification) Response {
	return Response{
		Status:        StatusError,
		Error:         msg,
		Data:          data,
		Notifications: notifications,
	}
}

// ValidationError собирает ошибки валидации запроса в одну строку.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s", err.Field(), err.Param()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}
