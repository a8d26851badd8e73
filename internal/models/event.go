// Package models содержит доменные структуры промо-событий: сохранённое событие,
// черновик формы администратора и полезную нагрузку, которая уходит в хранилище.
package models

import "time"

// Event событие, сохранённое в хранилище.
// StartTime всегда хранится как UTC-момент с точностью до минуты.
type Event struct {
	ID              int       // Идентификатор записи
	Title           string    // Заголовок, 1..120 символов
	Description     string    // Описание, до 300 символов
	StartTime       time.Time // Момент начала
	DurationMinutes int       // Сколько минут событие остаётся активным, >= 1
}

// DraftEvent черновик события, который редактируется в форме.
// StartTime хранится в локальном формате YYYY-MM-DDTHH:mm без смещения и секунд.
type DraftEvent struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// EventPayload нормализованные данные, передаваемые в хранилище при создании и обновлении.
// StartTime в формате YYYY-MM-DDTHH:mm:ssZ, DurationMinutes не меньше 1.
type EventPayload struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// EventView представление события для клиента.
type EventView struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status,omitempty"`
}

// EndTime возвращает момент, когда событие перестаёт быть активным.
func (e Event) EndTime() time.Time {
	return e.StartTime.Add(time.Duration(e.DurationMinutes) * time.Minute)
}
