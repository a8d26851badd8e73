// Package formsession хранит открытые формы событий между HTTP-запросами.
// Каждый запрос восстанавливает контроллер формы из сохранённого черновика,
// применяет действие администратора и записывает черновик обратно.
package formsession

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/wellness-events/internal/cache"
	"github.com/magabrotheeeer/wellness-events/internal/datetimeinput"
	"github.com/magabrotheeeer/wellness-events/internal/eventform"
	"github.com/magabrotheeeer/wellness-events/internal/lib/sl"
	"github.com/magabrotheeeer/wellness-events/internal/models"
	"github.com/magabrotheeeer/wellness-events/internal/notify"
	eventsvc "github.com/magabrotheeeer/wellness-events/internal/services/event"
)

// ErrSessionNotFound возвращается для истёкших и неизвестных сессий.
var ErrSessionNotFound = cache.ErrSessionNotFound

// Режимы формы.
const (
	ModeCreate = "create"
	ModeEdit   = "edit"
)

// Store хранит сессии и отметки занятости.
type Store interface {
	Save(ctx context.Context, fs cache.FormSession) error
	Load(ctx context.Context, id string) (*cache.FormSession, error)
	Delete(ctx context.Context, id string) error
	Acquire(ctx context.Context, id string, lease time.Duration) (bool, error)
	Release(ctx context.Context, id string) error
	IsBusy(ctx context.Context, id string) (bool, error)
}

// Events хранилище событий, в которое отправляется форма.
type Events interface {
	eventform.Persister
	Read(ctx context.Context, id int) (*models.Event, error)
}

// FormView состояние формы, которое видит администратор.
type FormView struct {
	SessionID     string                `json:"session_id,omitempty"`
	Mode          string                `json:"mode"`
	EventID       *int                  `json:"event_id,omitempty"`
	Draft         models.DraftEvent     `json:"draft"`
	StartTime     datetimeinput.View    `json:"start_time"`
	Busy          bool                  `json:"busy"`
	SubmitLabel   string                `json:"submit_label"`
	State         eventform.State       `json:"state"`
	Notifications []notify.Notification `json:"notifications,omitempty"`
	Saved         *models.EventView     `json:"saved,omitempty"`
}

// Service управляет сессиями формы.
type Service struct {
	store         Store
	events        Events
	log           *slog.Logger
	loc           *time.Location
	now           func() time.Time
	submitTimeout time.Duration
}

// New создаёт Service. loc задаёт часовой пояс, в котором администратор вводит время.
func New(store Store, events Events, log *slog.Logger, loc *time.Location, submitTimeout time.Duration) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		store:         store,
		events:        events,
		log:           log,
		loc:           loc,
		now:           time.Now,
		submitTimeout: submitTimeout,
	}
}

// Open открывает новую форму. Если eventID задан, форма заполняется данными события.
func (s *Service) Open(ctx context.Context, eventID *int) (FormView, error) {
	const op = "formsession.Open"
	ctrl, collector := s.controller()

	if eventID != nil {
		e, err := s.events.Read(ctx, *eventID)
		if err != nil {
			return FormView{}, fmt.Errorf("%s: %w", op, err)
		}
		ctrl.OpenForEdit(*e)
	} else {
		ctrl.OpenForCreate()
	}

	fs := cache.FormSession{ID: cache.NewID(), EventID: ctrl.EventID(), Draft: ctrl.Draft()}
	if err := s.store.Save(ctx, fs); err != nil {
		return FormView{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("form opened", sl.Session(fs.ID), slog.String("mode", mode(fs.EventID)))
	return s.view(fs.ID, ctrl, collector, false), nil
}

// View возвращает текущее состояние формы.
func (s *Service) View(ctx context.Context, sid string) (FormView, error) {
	const op = "formsession.View"
	ctrl, collector, busy, err := s.resume(ctx, sid)
	if err != nil {
		return FormView{}, fmt.Errorf("%s: %w", op, err)
	}
	return s.view(sid, ctrl, collector, busy), nil
}

// SetField изменяет поле черновика.
func (s *Service) SetField(ctx context.Context, sid, name, value string) (FormView, error) {
	const op = "formsession.SetField"
	return s.edit(ctx, op, sid, func(ctrl *eventform.Controller) error {
		return ctrl.OnChange(name, value)
	})
}

// EditStartTime изменяет одну часть составного поля времени начала.
func (s *Service) EditStartTime(ctx context.Context, sid string, field datetimeinput.Field, value string) (FormView, error) {
	const op = "formsession.EditStartTime"
	return s.edit(ctx, op, sid, func(ctrl *eventform.Controller) error {
		return ctrl.StartTimeInput().Apply(field, value)
	})
}

// CommitMinute нормализует минуты, как при потере фокуса полем ввода.
func (s *Service) CommitMinute(ctx context.Context, sid string) (FormView, error) {
	const op = "formsession.CommitMinute"
	return s.edit(ctx, op, sid, func(ctrl *eventform.Controller) error {
		ctrl.StartTimeInput().BlurMinute()
		return nil
	})
}

// Submit проверяет и сохраняет форму. При успехе сессия удаляется.
// Ошибка валидации или хранилища возвращается вместе с состоянием формы,
// черновик при этом остаётся в сессии.
func (s *Service) Submit(ctx context.Context, sid string) (FormView, error) {
	const op = "formsession.Submit"
	log := s.log.With(slog.String("op", op), sl.Session(sid))

	acquired, err := s.store.Acquire(ctx, sid, s.submitTimeout+5*time.Second)
	if err != nil {
		return FormView{}, fmt.Errorf("%s: %w", op, err)
	}
	if !acquired {
		return FormView{}, fmt.Errorf("%s: %w", op, eventform.ErrBusy)
	}
	defer func() {
		if err := s.store.Release(context.WithoutCancel(ctx), sid); err != nil {
			log.Warn("failed to release form", sl.Err(err))
		}
	}()

	ctrl, collector, _, err := s.resume(ctx, sid)
	if err != nil {
		return FormView{}, fmt.Errorf("%s: %w", op, err)
	}

	submitCtx := ctx
	if s.submitTimeout > 0 {
		var cancel context.CancelFunc
		submitCtx, cancel = context.WithTimeout(ctx, s.submitTimeout)
		defer cancel()
	}

	saved, err := ctrl.Submit(submitCtx)
	if err != nil {
		if errors.Is(err, eventform.ErrValidation) {
			log.Info("form rejected", slog.String("rule", string(ctrl.LastError().Rule)))
		} else {
			log.Error("failed to save event", sl.Err(err))
		}
		return s.view(sid, ctrl, collector, false), fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.Delete(ctx, sid); err != nil {
		log.Warn("failed to delete submitted form", sl.Err(err))
	}
	v := s.view(sid, ctrl, collector, false)
	savedView := eventsvc.ToView(*saved, s.now())
	v.Saved = &savedView
	return v, nil
}

// SubmitDraft проверяет и сохраняет черновик без открытой сессии.
// Черновик проходит ту же цепочку правил, что и форма.
func (s *Service) SubmitDraft(ctx context.Context, draft models.DraftEvent, eventID *int) (FormView, error) {
	const op = "formsession.SubmitDraft"
	ctrl, collector := s.controller()
	ctrl.Resume(draft, eventID)

	submitCtx := ctx
	if s.submitTimeout > 0 {
		var cancel context.CancelFunc
		submitCtx, cancel = context.WithTimeout(ctx, s.submitTimeout)
		defer cancel()
	}

	saved, err := ctrl.Submit(submitCtx)
	v := s.view("", ctrl, collector, false)
	if err != nil {
		return v, fmt.Errorf("%s: %w", op, err)
	}
	savedView := eventsvc.ToView(*saved, s.now())
	v.Saved = &savedView
	return v, nil
}

// Close закрывает форму без сохранения.
func (s *Service) Close(ctx context.Context, sid string) error {
	const op = "formsession.Close"
	if _, err := s.store.Load(ctx, sid); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.store.Delete(ctx, sid); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) edit(ctx context.Context, op, sid string, apply func(*eventform.Controller) error) (FormView, error) {
	ctrl, collector, busy, err := s.resume(ctx, sid)
	if err != nil {
		return FormView{}, fmt.Errorf("%s: %w", op, err)
	}
	if busy {
		return FormView{}, fmt.Errorf("%s: %w", op, eventform.ErrBusy)
	}
	if err := apply(ctrl); err != nil {
		return FormView{}, fmt.Errorf("%s: %w", op, err)
	}

	fs := cache.FormSession{ID: sid, EventID: ctrl.EventID(), Draft: ctrl.Draft()}
	if err := s.store.Save(ctx, fs); err != nil {
		return FormView{}, fmt.Errorf("%s: %w", op, err)
	}
	return s.view(sid, ctrl, collector, false), nil
}

func (s *Service) resume(ctx context.Context, sid string) (*eventform.Controller, *notify.Collector, bool, error) {
	fs, err := s.store.Load(ctx, sid)
	if err != nil {
		return nil, nil, false, err
	}
	busy, err := s.store.IsBusy(ctx, sid)
	if err != nil {
		return nil, nil, false, err
	}
	ctrl, collector := s.controller()
	ctrl.Resume(fs.Draft, fs.EventID)
	return ctrl, collector, busy, nil
}

func (s *Service) controller() (*eventform.Controller, *notify.Collector) {
	collector := notify.NewCollector()
	ctrl := eventform.New(s.events, notify.Multi{collector, notify.NewLogger(s.log)},
		eventform.WithLocation(s.loc),
		eventform.WithClock(s.now),
		eventform.WithLogger(s.log),
	)
	return ctrl, collector
}

func (s *Service) view(sid string, ctrl *eventform.Controller, collector *notify.Collector, busy bool) FormView {
	eventID := ctrl.EventID()
	state := ctrl.State()
	busy = busy || state == eventform.StateSubmitting

	input := ctrl.StartTimeInput()
	input.Disabled = input.Disabled || busy

	return FormView{
		SessionID:     sid,
		Mode:          mode(eventID),
		EventID:       eventID,
		Draft:         ctrl.Draft(),
		StartTime:     input.Render(),
		Busy:          busy,
		SubmitLabel:   eventform.SubmitLabel(eventID != nil, busy),
		State:         state,
		Notifications: collector.All(),
	}
}

func mode(eventID *int) string {
	if eventID != nil {
		return ModeEdit
	}
	return ModeCreate
}
