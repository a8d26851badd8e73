// Package calendar выгружает события в формате iCalendar, чтобы посетители
// могли подписаться на расписание из своего календаря.
package calendar

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/magabrotheeeer/wellness-events/internal/lib/eventstatus"
	"github.com/magabrotheeeer/wellness-events/internal/models"
)

const productID = "-//wellness-events//events calendar//EN"

// UID возвращает постоянный идентификатор события в календаре.
func UID(id int) string {
	return fmt.Sprintf("event-%d@wellness-events", id)
}

// Build собирает календарь из событий. Статус на момент now попадает в CATEGORIES.
func Build(name string, events []*models.Event, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if name != "" {
		cal.SetName(name)
		cal.SetXWRCalName(name)
	}

	for _, e := range events {
		ve := cal.AddEvent(UID(e.ID))
		ve.SetDtStampTime(now.UTC())
		ve.SetStartAt(e.StartTime.UTC())
		ve.SetEndAt(e.EndTime().UTC())
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		ve.SetProperty(ical.ComponentPropertyCategories, string(eventstatus.For(*e, now)))
	}
	return cal.Serialize()
}
