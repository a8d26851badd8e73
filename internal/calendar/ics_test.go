package calendar

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/wellness-events/internal/models"
)

func TestBuild(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	events := []*models.Event{
		{ID: 1, Title: "Sound Bath", Description: "Gongs", StartTime: time.Date(2030, 1, 2, 9, 30, 0, 0, time.UTC), DurationMinutes: 90},
		{ID: 2, Title: "Morning Yoga", StartTime: time.Date(2029, 12, 31, 7, 0, 0, 0, time.UTC), DurationMinutes: 60},
	}

	out := Build("Studio events", events, now)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "X-WR-CALNAME:Studio events")

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)

	parsed := cal.Events()
	require.Len(t, parsed, 2)

	first := parsed[0]
	assert.Equal(t, UID(1), first.GetProperty(ical.ComponentPropertyUniqueId).Value)
	assert.Equal(t, "Sound Bath", first.GetProperty(ical.ComponentPropertySummary).Value)
	assert.Equal(t, "Gongs", first.GetProperty(ical.ComponentPropertyDescription).Value)
	assert.Equal(t, "UPCOMING", first.GetProperty(ical.ComponentPropertyCategories).Value)

	start, err := first.GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(events[0].StartTime))
	end, err := first.GetEndAt()
	require.NoError(t, err)
	assert.True(t, end.Equal(events[0].StartTime.Add(90*time.Minute)))

	second := parsed[1]
	assert.Nil(t, second.GetProperty(ical.ComponentPropertyDescription))
	assert.Equal(t, "COMPLETED", second.GetProperty(ical.ComponentPropertyCategories).Value)
}

func TestBuild_Empty(t *testing.T) {
	out := Build("", nil, time.Now())
	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	assert.Empty(t, cal.Events())
}
