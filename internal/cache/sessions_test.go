package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/wellness-events/internal/config"
	"github.com/magabrotheeeer/wellness-events/internal/models"
)

func setupSessions(t *testing.T) (*Sessions, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	c, err := InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	return NewSessions(c, time.Hour), mr
}

func TestSessions_SaveLoadDelete(t *testing.T) {
	s, mr := setupSessions(t)
	ctx := context.Background()

	id := 7
	fs := FormSession{
		ID:      NewID(),
		EventID: &id,
		Draft: models.DraftEvent{
			Title:           "Sound Bath",
			StartTime:       "2030-01-01T02:30",
			DurationMinutes: 90,
		},
	}
	require.NoError(t, s.Save(ctx, fs))
	assert.Equal(t, time.Hour, mr.TTL("form:"+fs.ID))

	loaded, err := s.Load(ctx, fs.ID)
	require.NoError(t, err)
	assert.Equal(t, fs, *loaded)

	require.NoError(t, s.Delete(ctx, fs.ID))
	_, err = s.Load(ctx, fs.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessions_Expire(t *testing.T) {
	s, mr := setupSessions(t)
	ctx := context.Background()

	fs := FormSession{ID: NewID()}
	require.NoError(t, s.Save(ctx, fs))
	mr.FastForward(2 * time.Hour)

	_, err := s.Load(ctx, fs.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessions_BusyLock(t *testing.T) {
	s, mr := setupSessions(t)
	ctx := context.Background()
	id := NewID()

	busy, err := s.IsBusy(ctx, id)
	require.NoError(t, err)
	assert.False(t, busy)

	ok, err := s.Acquire(ctx, id, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Acquire(ctx, id, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second submit must be rejected while the first is in flight")

	busy, err = s.IsBusy(ctx, id)
	require.NoError(t, err)
	assert.True(t, busy)

	require.NoError(t, s.Release(ctx, id))
	ok, err = s.Acquire(ctx, id, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)
	busy, err = s.IsBusy(ctx, id)
	require.NoError(t, err)
	assert.False(t, busy, "lease expires")
}

func TestSessions_LoadCorrupted(t *testing.T) {
	s, mr := setupSessions(t)
	require.NoError(t, mr.Set("form:broken", "{"))

	_, err := s.Load(context.Background(), "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)
}
