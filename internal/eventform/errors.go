package eventform

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation общая причина всех отказов валидации.
	ErrValidation = errors.New("event form validation failed")
	// ErrBusy форма уже отправляется.
	ErrBusy = errors.New("event form submission already in progress")
	// ErrClosed форма уже закрыта.
	ErrClosed = errors.New("event form is closed")
	// ErrUnknownField изменение неизвестного поля черновика.
	ErrUnknownField = errors.New("unknown event form field")
)

// Rule правило валидации, на котором остановилась проверка.
type Rule string

const (
	RuleRequired          Rule = "required"
	RuleFormat            Rule = "format"
	RuleDateValue         Rule = "date_value"
	RulePast              Rule = "past"
	RuleDescriptionLength Rule = "description_length"
	RuleTitleLength       Rule = "title_length"
)

// Сообщения, которые видит администратор.
const (
	MsgRequired          = "Please fill in all required fields."
	MsgFormat            = "Invalid date or time format."
	MsgDateValue         = "Invalid date value."
	MsgPast              = "Cannot create an event in the past."
	MsgDescriptionLength = "Description must not exceed 300 characters."
	MsgTitleLength       = "Title must not exceed 120 characters."
	MsgSubmitFailed      = "Could not save the event. Please try again."
	MsgCreated           = "Event created."
	MsgUpdated           = "Event updated."
)

// ValidationError отказ одного правила валидации.
type ValidationError struct {
	Rule    Rule
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap позволяет проверять ошибку через errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// SubmitError ошибка хранилища после успешной валидации.
type SubmitError struct {
	Op  string
	Err error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}
