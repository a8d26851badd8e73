// Package scheduler находит события, перешедшие из UPCOMING в COMPLETED,
// и публикует каждый переход в RabbitMQ.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/wellness-events/internal/lib/eventstatus"
	"github.com/magabrotheeeer/wellness-events/internal/lib/sl"
	"github.com/magabrotheeeer/wellness-events/internal/lib/timefields"
	"github.com/magabrotheeeer/wellness-events/internal/metrics"
	"github.com/magabrotheeeer/wellness-events/internal/models"
	"github.com/magabrotheeeer/wellness-events/internal/rabbitmq"
	eventsvc "github.com/magabrotheeeer/wellness-events/internal/services/event"
)

// Repository ищет события, закончившиеся в окне.
type Repository interface {
	FindCompletedBetween(ctx context.Context, from, to time.Time) ([]*models.Event, error)
}

// Cache сбрасывает закешированные события.
type Cache interface {
	Invalidate(keys ...string) error
}

// CompletedMessage сообщение о завершении события.
type CompletedMessage struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Status          string `json:"status"`
}

// Service публикует переходы статуса. Окна проверки идут друг за другом
// без пропусков: (предыдущий запуск, текущий момент].
type Service struct {
	repo    Repository
	cache   Cache
	channel rabbitmq.Channel
	log     *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	lastRun time.Time
}

// NewSchedulerService создаёт Service. Первое окно начинается с момента создания.
func NewSchedulerService(repo Repository, cache Cache, channel rabbitmq.Channel, log *slog.Logger) *Service {
	s := &Service{
		repo:    repo,
		cache:   cache,
		channel: channel,
		log:     log,
		now:     time.Now,
	}
	s.lastRun = s.now()
	return s
}

// Tick проверяет очередное окно и возвращает количество опубликованных переходов.
// При ошибке окно не сдвигается и будет проверено снова на следующем запуске.
func (s *Service) Tick(ctx context.Context) (int, error) {
	const op = "scheduler.Tick"
	s.mu.Lock()
	defer s.mu.Unlock()

	from, to := s.lastRun, s.now()
	if !to.After(from) {
		return 0, nil
	}
	log := s.log.With(slog.String("op", op), slog.Time("from", from), slog.Time("to", to))

	events, err := s.repo.FindCompletedBetween(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	published := 0
	keys := make([]string, 0, len(events))
	for _, e := range events {
		if !eventstatus.CompletedBetween(*e, from, to) {
			continue
		}
		if err := rabbitmq.PublishMessage(s.channel, rabbitmq.EventsExchange, rabbitmq.CompletedRoutingKey, toMessage(*e)); err != nil {
			return published, fmt.Errorf("%s: %w", op, err)
		}
		metrics.StatusTransitions.Inc()
		keys = append(keys, eventsvc.CacheKey(e.ID))
		published++
	}

	if err := s.cache.Invalidate(keys...); err != nil {
		log.Warn("failed to invalidate completed events", sl.Err(err))
	}
	if published > 0 {
		log.Info("published completed events", slog.Int("count", published))
	}
	s.lastRun = to
	return published, nil
}

// Run выполняет Tick и пишет ошибки в лог. Подходит как задание cron.
func (s *Service) Run(ctx context.Context) {
	if _, err := s.Tick(ctx); err != nil {
		s.log.Error("status check failed", sl.Err(err))
	}
}

func toMessage(e models.Event) CompletedMessage {
	return CompletedMessage{
		ID:              e.ID,
		Title:           e.Title,
		StartTime:       timefields.FormatCanonical(e.StartTime),
		EndTime:         timefields.FormatCanonical(e.EndTime()),
		DurationMinutes: e.DurationMinutes,
		Status:          string(eventstatus.Completed),
	}
}
