package eventstatus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/wellness-events/internal/models"
)

func TestOf(t *testing.T) {
	now := time.Date(2030, 5, 10, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		start    time.Time
		duration int
		want     Status
	}{
		{name: "ещё не началось", start: now.Add(time.Hour), duration: 90, want: Upcoming},
		{name: "идёт сейчас", start: now.Add(-30 * time.Minute), duration: 90, want: Upcoming},
		{name: "ровно на границе", start: now.Add(-90 * time.Minute), duration: 90, want: Completed},
		{name: "за минуту до границы", start: now.Add(-89 * time.Minute), duration: 90, want: Upcoming},
		{name: "давно закончилось", start: now.Add(-48 * time.Hour), duration: 90, want: Completed},
		{name: "нулевая длительность в прошлом", start: now.Add(-time.Second), duration: 0, want: Completed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Of(tt.start, tt.duration, now))
		})
	}
}

func TestFor(t *testing.T) {
	now := time.Date(2030, 5, 10, 18, 0, 0, 0, time.UTC)
	e := models.Event{ID: 1, Title: "Sound Bath", StartTime: now.Add(-90 * time.Minute), DurationMinutes: 90}

	assert.Equal(t, Completed, For(e, now))
	assert.Equal(t, Upcoming, For(e, now.Add(-time.Nanosecond)))
}

func TestCompletedBetween(t *testing.T) {
	from := time.Date(2030, 5, 10, 18, 0, 0, 0, time.UTC)
	to := from.Add(time.Minute)

	endsAt := func(end time.Time) models.Event {
		return models.Event{StartTime: end.Add(-60 * time.Minute), DurationMinutes: 60}
	}

	assert.False(t, CompletedBetween(endsAt(from), from, to), "граница from не входит в окно")
	assert.True(t, CompletedBetween(endsAt(from.Add(30*time.Second)), from, to))
	assert.True(t, CompletedBetween(endsAt(to), from, to), "граница to входит в окно")
	assert.False(t, CompletedBetween(endsAt(to.Add(time.Second)), from, to))
}
