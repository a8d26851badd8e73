// Package event содержит бизнес-логику работы с промо-событиями: сохранение
// нормализованных данных формы, чтение с кешированием и выборки для публичной ленты.
package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/wellness-events/internal/lib/eventstatus"
	"github.com/magabrotheeeer/wellness-events/internal/lib/sl"
	"github.com/magabrotheeeer/wellness-events/internal/lib/timefields"
	"github.com/magabrotheeeer/wellness-events/internal/models"
	"github.com/magabrotheeeer/wellness-events/internal/storage"
)

const (
	cacheTTL = time.Hour
	// MaxListLimit ограничивает размер одной страницы выборки.
	MaxListLimit = 100
	// DefaultTickerLimit сколько ближайших событий показывает лента.
	DefaultTickerLimit = 10
	calendarLimit      = 1000
)

var (
	// ErrNotFound возвращается, если события нет.
	ErrNotFound = errors.New("event not found")
	// ErrInvalidPayload возвращается, если данные не прошли нормализацию формы.
	ErrInvalidPayload = errors.New("invalid event payload")
)

// Repository описывает хранилище событий.
type Repository interface {
	CreateEvent(ctx context.Context, e models.Event) (*models.Event, error)
	ReadEvent(ctx context.Context, id int) (*models.Event, error)
	UpdateEvent(ctx context.Context, id int, e models.Event) (*models.Event, error)
	RemoveEvent(ctx context.Context, id int) (int, error)
	ListEvents(ctx context.Context, limit, offset int) ([]*models.Event, error)
	ListUpcomingEvents(ctx context.Context, now time.Time, limit int) ([]*models.Event, error)
}

// Cache описывает кеш событий.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(keys ...string) error
}

// Service реализует операции над событиями.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// New создаёт Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// CacheKey возвращает ключ кеша для события.
func CacheKey(id int) string {
	return fmt.Sprintf("event:%d", id)
}

// Create сохраняет новое событие.
func (s *Service) Create(ctx context.Context, payload models.EventPayload) (*models.Event, error) {
	const op = "event.Create"
	e, err := FromPayload(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	saved, err := s.repo.CreateEvent(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("event created", sl.EventID(saved.ID))
	s.store(saved)
	return saved, nil
}

// Update заменяет данные существующего события.
func (s *Service) Update(ctx context.Context, id int, payload models.EventPayload) (*models.Event, error) {
	const op = "event.Update"
	e, err := FromPayload(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	saved, err := s.repo.UpdateEvent(ctx, id, e)
	if errors.Is(err, storage.ErrEventNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("event updated", sl.EventID(saved.ID))
	s.store(saved)
	return saved, nil
}

// Read возвращает событие по ID, сначала заглядывая в кеш.
func (s *Service) Read(ctx context.Context, id int) (*models.Event, error) {
	const op = "event.Read"
	var cached models.Event
	found, err := s.cache.Get(CacheKey(id), &cached)
	if err != nil {
		s.log.Warn("failed to read event from cache", sl.EventID(id), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	e, err := s.repo.ReadEvent(ctx, id)
	if errors.Is(err, storage.ErrEventNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.store(e)
	return e, nil
}

// Remove удаляет событие.
func (s *Service) Remove(ctx context.Context, id int) error {
	const op = "event.Remove"
	if err := s.cache.Invalidate(CacheKey(id)); err != nil {
		s.log.Warn("failed to remove event from cache", sl.EventID(id), sl.Err(err))
	}

	count, err := s.repo.RemoveEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	s.log.Info("event removed", sl.EventID(id))
	return nil
}

// View возвращает представление события со статусом на текущий момент.
func (s *Service) View(ctx context.Context, id int) (models.EventView, error) {
	e, err := s.Read(ctx, id)
	if err != nil {
		return models.EventView{}, err
	}
	return ToView(*e, s.now()), nil
}

// List возвращает страницу событий со статусами.
func (s *Service) List(ctx context.Context, limit, offset int) ([]models.EventView, error) {
	const op = "event.List"
	limit = clampLimit(limit, MaxListLimit)
	events, err := s.repo.ListEvents(ctx, limit, max(offset, 0))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return toViews(events, s.now()), nil
}

// Ticker возвращает ближайшие незавершённые события в порядке начала.
func (s *Service) Ticker(ctx context.Context, limit int) ([]models.EventView, error) {
	const op = "event.Ticker"
	now := s.now()
	events, err := s.repo.ListUpcomingEvents(ctx, now, clampLimit(limit, DefaultTickerLimit))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return toViews(events, now), nil
}

// All возвращает события для экспорта в календарь.
func (s *Service) All(ctx context.Context) ([]*models.Event, error) {
	const op = "event.All"
	events, err := s.repo.ListEvents(ctx, calendarLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

// FromPayload переводит нормализованные данные формы в событие.
func FromPayload(p models.EventPayload) (models.Event, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return models.Event{}, fmt.Errorf("%w: empty title", ErrInvalidPayload)
	}
	if p.DurationMinutes < 1 {
		return models.Event{}, fmt.Errorf("%w: durationMinutes must be at least 1", ErrInvalidPayload)
	}
	start, err := timefields.ParseCanonical(p.StartTime)
	if err != nil {
		return models.Event{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return models.Event{
		Title:           p.Title,
		Description:     p.Description,
		StartTime:       start,
		DurationMinutes: p.DurationMinutes,
	}, nil
}

// ToView строит представление события на момент now.
func ToView(e models.Event, now time.Time) models.EventView {
	return models.EventView{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		StartTime:       timefields.FormatCanonical(e.StartTime),
		DurationMinutes: e.DurationMinutes,
		Status:          string(eventstatus.For(e, now)),
	}
}

func toViews(events []*models.Event, now time.Time) []models.EventView {
	views := make([]models.EventView, 0, len(events))
	for _, e := range events {
		views = append(views, ToView(*e, now))
	}
	return views
}

func (s *Service) store(e *models.Event) {
	if err := s.cache.Set(CacheKey(e.ID), e, cacheTTL); err != nil {
		s.log.Warn("failed to cache event", sl.EventID(e.ID), sl.Err(err))
	}
}

func clampLimit(limit, upper int) int {
	if limit <= 0 || limit > upper {
		return upper
	}
	return limit
}
