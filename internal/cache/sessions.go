package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/wellness-events/internal/models"
)

// ErrSessionNotFound возвращается, если сессия формы истекла или не существовала.
var ErrSessionNotFound = errors.New("form session not found")

// FormSession сохранённое состояние открытой формы.
type FormSession struct {
	ID      string            `json:"id"`
	EventID *int              `json:"event_id,omitempty"`
	Draft   models.DraftEvent `json:"draft"`
}

// Sessions хранит сессии формы. Пока идёт отправка, сессия помечается занятой.
type Sessions struct {
	cache *Cache
	ttl   time.Duration
}

// NewSessions создаёт хранилище сессий с заданным временем жизни.
func NewSessions(c *Cache, ttl time.Duration) *Sessions {
	return &Sessions{cache: c, ttl: ttl}
}

func sessionKey(id string) string { return "form:" + id }
func busyKey(id string) string    { return "form:" + id + ":busy" }

// NewID возвращает идентификатор новой сессии.
func NewID() string {
	return uuid.NewString()
}

// Save сохраняет сессию и продлевает её срок жизни.
func (s *Sessions) Save(ctx context.Context, fs FormSession) error {
	const op = "cache.Sessions.Save"
	data, err := json.Marshal(fs)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Db.Set(ctx, sessionKey(fs.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Load читает сессию по идентификатору.
func (s *Sessions) Load(ctx context.Context, id string) (*FormSession, error) {
	const op = "cache.Sessions.Load"
	val, err := s.cache.Db.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var fs FormSession
	if err := json.Unmarshal(val, &fs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &fs, nil
}

// Delete удаляет сессию вместе с отметкой занятости.
func (s *Sessions) Delete(ctx context.Context, id string) error {
	const op = "cache.Sessions.Delete"
	if err := s.cache.Db.Del(ctx, sessionKey(id), busyKey(id)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Acquire помечает сессию занятой. Возвращает false, если отправка уже идёт.
// Отметка снимается сама через lease.
func (s *Sessions) Acquire(ctx context.Context, id string, lease time.Duration) (bool, error) {
	const op = "cache.Sessions.Acquire"
	ok, err := s.cache.Db.SetNX(ctx, busyKey(id), 1, lease).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}

// Release снимает отметку занятости.
func (s *Sessions) Release(ctx context.Context, id string) error {
	const op = "cache.Sessions.Release"
	if err := s.cache.Db.Del(ctx, busyKey(id)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsBusy сообщает, выполняется ли отправка формы.
func (s *Sessions) IsBusy(ctx context.Context, id string) (bool, error) {
	const op = "cache.Sessions.IsBusy"
	n, err := s.cache.Db.Exists(ctx, busyKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}
