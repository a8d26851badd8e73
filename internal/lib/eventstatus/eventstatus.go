// Package eventstatus вычисляет отображаемый статус события по времени начала и длительности.
package eventstatus

import (
	"time"

	"github.com/magabrotheeeer/wellness-events/internal/models"
)

// Status отображаемый статус события.
type Status string

const (
	// Upcoming событие ещё не закончилось.
	Upcoming Status = "UPCOMING"
	// Completed событие закончилось.
	Completed Status = "COMPLETED"
)

// EndTime возвращает момент окончания события.
func EndTime(start time.Time, durationMinutes int) time.Time {
	return start.Add(time.Duration(durationMinutes) * time.Minute)
}

// Of возвращает Upcoming, если start + durationMinutes строго позже now.
// В момент now == start + duration событие уже Completed.
func Of(start time.Time, durationMinutes int, now time.Time) Status {
	if EndTime(start, durationMinutes).After(now) {
		return Upcoming
	}
	return Completed
}

// For вычисляет статус сохранённого события.
func For(e models.Event, now time.Time) Status {
	return Of(e.StartTime, e.DurationMinutes, now)
}

// CompletedBetween сообщает, закончилось ли событие в полуинтервале (from, to].
func CompletedBetween(e models.Event, from, to time.Time) bool {
	end := e.EndTime()
	return end.After(from) && !end.After(to)
}
