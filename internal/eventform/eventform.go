// Package eventform реализует контроллер формы промо-события администратора:
// он владеет черновиком, проверяет его по цепочке правил и передаёт
// нормализованные данные во внешнее хранилище.
//
// Правила проверяются строго по порядку, первое нарушение прерывает отправку
// и сообщается пользователю одним уведомлением. Черновик при этом не теряется.
package eventform

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/wellness-events/internal/datetimeinput"
	"github.com/magabrotheeeer/wellness-events/internal/lib/sl"
	"github.com/magabrotheeeer/wellness-events/internal/lib/timefields"
	"github.com/magabrotheeeer/wellness-events/internal/metrics"
	"github.com/magabrotheeeer/wellness-events/internal/models"
	"github.com/magabrotheeeer/wellness-events/internal/notify"
)

// Имена полей черновика.
const (
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldStartTime       = "startTime"
	FieldDurationMinutes = "durationMinutes"
)

// DefaultDurationMinutes длительность нового события по умолчанию.
const DefaultDurationMinutes = 90

var startTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}$`)

// State состояние формы.
type State string

const (
	StateIdle             State = "idle"
	StateEditing          State = "editing"
	StateValidating       State = "validating"
	StateValidationFailed State = "validation_failed"
	StateSubmitting       State = "submitting"
	StateClosed           State = "closed"
)

// Persister внешнее хранилище событий.
type Persister interface {
	Create(ctx context.Context, payload models.EventPayload) (*models.Event, error)
	Update(ctx context.Context, id int, payload models.EventPayload) (*models.Event, error)
}

// Controller управляет одной открытой формой.
type Controller struct {
	mu        sync.Mutex
	draft     models.DraftEvent
	eventID   *int
	state     State
	lastError *ValidationError

	persister Persister
	notifier  notify.Notifier
	validate  *validator.Validate
	loc       *time.Location
	now       func() time.Time
	log       *slog.Logger
}

// Option настраивает Controller.
type Option func(*Controller)

// WithLocation задаёт часовой пояс, в котором администратор вводит время.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger задаёт логгер для правок, которые форма не смогла принять.
func WithLogger(log *slog.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// New создаёт закрытую (Idle) форму.
func New(persister Persister, notifier notify.Notifier, opts ...Option) *Controller {
	c := &Controller{
		state:     StateIdle,
		persister: persister,
		notifier:  notifier,
		validate:  validator.New(),
		loc:       time.UTC,
		now:       time.Now,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OpenForCreate открывает форму для нового события.
func (c *Controller) OpenForCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = models.DraftEvent{DurationMinutes: DefaultDurationMinutes}
	c.eventID = nil
	c.lastError = nil
	c.state = StateEditing
}

// OpenForEdit открывает форму с данными существующего события.
// Время начала переводится в локальное время формы.
func (c *Controller) OpenForEdit(e models.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := e.ID
	c.draft = models.DraftEvent{
		Title:           e.Title,
		Description:     e.Description,
		StartTime:       timefields.FormatLocal(e.StartTime, c.loc),
		DurationMinutes: e.DurationMinutes,
	}
	c.eventID = &id
	c.lastError = nil
	c.state = StateEditing
}

// Resume продолжает редактирование ранее сохранённого черновика.
func (c *Controller) Resume(draft models.DraftEvent, eventID *int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = draft
	c.eventID = nil
	if eventID != nil {
		id := *eventID
		c.eventID = &id
	}
	c.lastError = nil
	c.state = StateEditing
}

// OnChange обновляет поле черновика. Длительность берётся из ведущих цифр ввода
// ("90.5" и "90min" дают 90), ввод без цифр превращается в 0 и исправляется при отправке.
func (c *Controller) OnChange(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateIdle || c.state == StateClosed {
		return ErrClosed
	}

	switch name {
	case FieldTitle:
		c.draft.Title = value
	case FieldDescription:
		c.draft.Description = value
	case FieldStartTime:
		c.draft.StartTime = value
	case FieldDurationMinutes:
		c.draft.DurationMinutes = leadingInt(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// StartTimeInput возвращает составное поле времени начала, связанное с черновиком.
// Для нового события нижней границей даты служит текущий момент.
// Закрытая форма правки поля не принимает, отказ пишется в лог.
func (c *Controller) StartTimeInput() datetimeinput.Input {
	c.mu.Lock()
	defer c.mu.Unlock()

	var minValue string
	if c.eventID == nil {
		minValue = timefields.FormatLocal(c.now(), c.loc)
	}

	return datetimeinput.Input{
		Name:     FieldStartTime,
		Value:    c.draft.StartTime,
		Min:      minValue,
		Disabled: c.state == StateSubmitting,
		OnChange: func(name, value string) {
			if err := c.OnChange(name, value); err != nil {
				c.log.Warn("start time edit rejected",
					slog.String("field", name), slog.String("value", value), sl.Err(err))
			}
		},
	}
}

// Validate проверяет черновик и возвращает нормализованные данные.
// При отказе пользователь получает уведомление, черновик остаётся прежним.
func (c *Controller) Validate() (models.EventPayload, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateIdle || c.state == StateClosed {
		return models.EventPayload{}, ErrClosed
	}
	if c.state == StateSubmitting {
		return models.EventPayload{}, ErrBusy
	}
	return c.runValidation()
}

// Submit проверяет черновик и передаёт данные в хранилище.
// Пока запрос выполняется, форма занята, повторная отправка возвращает ErrBusy.
// После завершения форма снова доступна независимо от результата.
func (c *Controller) Submit(ctx context.Context) (*models.Event, error) {
	const op = "eventform.Submit"

	c.mu.Lock()
	switch c.state {
	case StateIdle, StateClosed:
		c.mu.Unlock()
		return nil, ErrClosed
	case StateSubmitting:
		c.mu.Unlock()
		return nil, ErrBusy
	}

	payload, err := c.runValidation()
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}

	c.state = StateSubmitting
	var id *int
	if c.eventID != nil {
		v := *c.eventID
		id = &v
	}
	c.mu.Unlock()

	var (
		saved *models.Event
		mode  = "create"
	)
	if id == nil {
		saved, err = c.persister.Create(ctx, payload)
	} else {
		mode = "update"
		saved, err = c.persister.Update(ctx, *id, payload)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = StateEditing
		metrics.FormSubmissions.WithLabelValues(mode, "error").Inc()
		c.notify(MsgSubmitFailed, notify.KindError)
		return nil, &SubmitError{Op: op, Err: err}
	}

	metrics.FormSubmissions.WithLabelValues(mode, "ok").Inc()
	if id == nil {
		c.notify(MsgCreated, notify.KindSuccess)
	} else {
		c.notify(MsgUpdated, notify.KindSuccess)
	}
	c.state = StateClosed
	return saved, nil
}

// Close закрывает форму без отправки.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateClosed
}

// Draft возвращает копию черновика.
func (c *Controller) Draft() models.DraftEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// EventID возвращает идентификатор редактируемого события или nil для нового.
func (c *Controller) EventID() *int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.eventID == nil {
		return nil
	}
	id := *c.eventID
	return &id
}

// State возвращает текущее состояние формы.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy сообщает, выполняется ли сейчас отправка.
func (c *Controller) Busy() bool {
	return c.State() == StateSubmitting
}

// LastError возвращает последний отказ валидации.
func (c *Controller) LastError() *ValidationError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// SubmitLabel возвращает подпись кнопки отправки.
func (c *Controller) SubmitLabel() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return SubmitLabel(c.eventID != nil, c.state == StateSubmitting)
}

// SubmitLabel возвращает подпись кнопки отправки для режима формы.
func SubmitLabel(editing, busy bool) string {
	switch {
	case busy:
		return "Saving..."
	case editing:
		return "Save changes"
	default:
		return "Create event"
	}
}

// runValidation выполняется под c.mu.
func (c *Controller) runValidation() (models.EventPayload, error) {
	c.state = StateValidating

	payload, verr := c.check()
	if verr != nil {
		c.state = StateValidationFailed
		c.lastError = verr
		metrics.FormRejections.WithLabelValues(string(verr.Rule)).Inc()
		c.notify(verr.Message, notify.KindError)
		c.state = StateEditing
		return models.EventPayload{}, verr
	}

	c.lastError = nil
	c.state = StateEditing
	return payload, nil
}

func (c *Controller) check() (models.EventPayload, *ValidationError) {
	d := c.draft

	if c.validate.Var(strings.TrimSpace(d.Title), "required") != nil ||
		c.validate.Var(strings.TrimSpace(d.StartTime), "required") != nil {
		return models.EventPayload{}, &ValidationError{Rule: RuleRequired, Message: MsgRequired}
	}

	if !startTimePattern.MatchString(d.StartTime) {
		return models.EventPayload{}, &ValidationError{Rule: RuleFormat, Message: MsgFormat}
	}

	start, err := time.ParseInLocation(timefields.LocalLayout, d.StartTime, c.loc)
	if err != nil {
		return models.EventPayload{}, &ValidationError{Rule: RuleDateValue, Message: MsgDateValue}
	}

	if c.eventID == nil && start.Before(c.now()) {
		return models.EventPayload{}, &ValidationError{Rule: RulePast, Message: MsgPast}
	}

	if c.validate.Var(d.Description, "max=300") != nil {
		return models.EventPayload{}, &ValidationError{Rule: RuleDescriptionLength, Message: MsgDescriptionLength}
	}

	if c.validate.Var(d.Title, "max=120") != nil {
		return models.EventPayload{}, &ValidationError{Rule: RuleTitleLength, Message: MsgTitleLength}
	}

	return models.EventPayload{
		Title:           d.Title,
		Description:     d.Description,
		StartTime:       timefields.FormatCanonical(start),
		DurationMinutes: max(d.DurationMinutes, 1),
	}, nil
}

func (c *Controller) notify(message string, kind notify.Kind) {
	if c.notifier != nil {
		c.notifier.Notify(message, kind)
	}
}

// leadingInt разбирает знак и ведущие цифры. Без цифр или при переполнении возвращает 0.
func leadingInt(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
