package formsession

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/wellness-events/internal/cache"
	"github.com/magabrotheeeer/wellness-events/internal/config"
	"github.com/magabrotheeeer/wellness-events/internal/datetimeinput"
	"github.com/magabrotheeeer/wellness-events/internal/eventform"
	"github.com/magabrotheeeer/wellness-events/internal/models"
	"github.com/magabrotheeeer/wellness-events/internal/notify"
	eventsvc "github.com/magabrotheeeer/wellness-events/internal/services/event"
)

type EventsMock struct{ mock.Mock }

func (m *EventsMock) Create(ctx context.Context, payload models.EventPayload) (*models.Event, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *EventsMock) Update(ctx context.Context, id int, payload models.EventPayload) (*models.Event, error) {
	args := m.Called(ctx, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *EventsMock) Read(ctx context.Context, id int) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

var (
	moscow   = time.FixedZone("MSK", 3*60*60)
	fixedNow = time.Date(2029, 6, 1, 9, 0, 0, 0, time.UTC)
)

func setup(t *testing.T) (*Service, *EventsMock, *cache.Sessions) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)

	sessions := cache.NewSessions(c, time.Hour)
	events := new(EventsMock)
	s := New(sessions, events, slog.New(slog.NewTextHandler(io.Discard, nil)), moscow, time.Second)
	s.now = func() time.Time { return fixedNow }
	return s, events, sessions
}

func TestOpen_Create(t *testing.T) {
	s, _, _ := setup(t)

	v, err := s.Open(context.Background(), nil)
	require.NoError(t, err)

	assert.NotEmpty(t, v.SessionID)
	assert.Equal(t, ModeCreate, v.Mode)
	assert.Nil(t, v.EventID)
	assert.Equal(t, eventform.DefaultDurationMinutes, v.Draft.DurationMinutes)
	assert.Equal(t, "2029-06-01", v.StartTime.DateMin)
	assert.Equal(t, "12", v.StartTime.Hour)
	assert.Equal(t, "00", v.StartTime.Minute)
	assert.Equal(t, "AM", v.StartTime.Meridiem)
	assert.Equal(t, "Create event", v.SubmitLabel)
	assert.Equal(t, eventform.StateEditing, v.State)
	assert.False(t, v.Busy)
}

func TestOpen_Edit(t *testing.T) {
	s, events, _ := setup(t)
	events.On("Read", mock.Anything, 4).Return(&models.Event{
		ID:              4,
		Title:           "Sound Bath",
		StartTime:       time.Date(2029, 12, 31, 23, 30, 0, 0, time.UTC),
		DurationMinutes: 60,
	}, nil).Once()

	v, err := s.Open(context.Background(), ptr(4))
	require.NoError(t, err)

	assert.Equal(t, ModeEdit, v.Mode)
	require.NotNil(t, v.EventID)
	assert.Equal(t, 4, *v.EventID)
	assert.Equal(t, "2030-01-01T02:30", v.Draft.StartTime)
	assert.Equal(t, "2", v.StartTime.Hour)
	assert.Equal(t, "30", v.StartTime.Minute)
	assert.Empty(t, v.StartTime.DateMin)
	assert.Equal(t, "Save changes", v.SubmitLabel)
}

func TestOpen_EditMissingEvent(t *testing.T) {
	s, events, _ := setup(t)
	events.On("Read", mock.Anything, 9).Return(nil, fmt.Errorf("event.Read: %w", eventsvc.ErrNotFound)).Once()

	_, err := s.Open(context.Background(), ptr(9))
	assert.ErrorIs(t, err, eventsvc.ErrNotFound)
}

func TestCreateFlow(t *testing.T) {
	s, events, _ := setup(t)
	ctx := context.Background()

	v, err := s.Open(ctx, nil)
	require.NoError(t, err)
	sid := v.SessionID

	_, err = s.SetField(ctx, sid, eventform.FieldTitle, "Sound Bath")
	require.NoError(t, err)
	_, err = s.SetField(ctx, sid, eventform.FieldDurationMinutes, "0")
	require.NoError(t, err)

	_, err = s.EditStartTime(ctx, sid, datetimeinput.FieldDate, "2030-01-01")
	require.NoError(t, err)
	_, err = s.EditStartTime(ctx, sid, datetimeinput.FieldHour, "2")
	require.NoError(t, err)
	v, err = s.EditStartTime(ctx, sid, datetimeinput.FieldMinute, "3")
	require.NoError(t, err)
	assert.Equal(t, "2030-01-01T02:3", v.Draft.StartTime, "intermediate minute is kept verbatim")

	v, err = s.CommitMinute(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, "2030-01-01T02:03", v.Draft.StartTime)

	v, err = s.EditStartTime(ctx, sid, datetimeinput.FieldMinute, "30")
	require.NoError(t, err)
	assert.Equal(t, "2030-01-01T02:30", v.Draft.StartTime)

	want := models.EventPayload{Title: "Sound Bath", StartTime: "2029-12-31T23:30:00Z", DurationMinutes: 1}
	events.On("Create", mock.Anything, want).Return(&models.Event{
		ID:              11,
		Title:           "Sound Bath",
		StartTime:       time.Date(2029, 12, 31, 23, 30, 0, 0, time.UTC),
		DurationMinutes: 1,
	}, nil).Once()

	v, err = s.Submit(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, eventform.StateClosed, v.State)
	require.NotNil(t, v.Saved)
	assert.Equal(t, 11, v.Saved.ID)
	assert.Equal(t, "2029-12-31T23:30:00Z", v.Saved.StartTime)
	assert.Equal(t, "UPCOMING", v.Saved.Status)
	assert.Contains(t, v.Notifications, notify.Notification{Message: eventform.MsgCreated, Kind: notify.KindSuccess})

	_, err = s.View(ctx, sid)
	assert.ErrorIs(t, err, ErrSessionNotFound, "submitted session is removed")
	events.AssertExpectations(t)
}

func TestSubmit_ValidationKeepsDraft(t *testing.T) {
	s, events, _ := setup(t)
	ctx := context.Background()

	v, err := s.Open(ctx, nil)
	require.NoError(t, err)
	_, err = s.SetField(ctx, v.SessionID, eventform.FieldStartTime, "2030-01-01T02:30")
	require.NoError(t, err)

	v, err = s.Submit(ctx, v.SessionID)
	require.Error(t, err)
	assert.ErrorIs(t, err, eventform.ErrValidation)
	assert.Equal(t, []notify.Notification{{Message: eventform.MsgRequired, Kind: notify.KindError}}, v.Notifications)

	again, err := s.View(ctx, v.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "2030-01-01T02:30", again.Draft.StartTime)
	assert.Empty(t, again.Notifications)
	events.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmit_PersistenceFailure(t *testing.T) {
	s, events, _ := setup(t)
	ctx := context.Background()

	v, err := s.Open(ctx, nil)
	require.NoError(t, err)
	_, err = s.SetField(ctx, v.SessionID, eventform.FieldTitle, "Yoga")
	require.NoError(t, err)
	_, err = s.SetField(ctx, v.SessionID, eventform.FieldStartTime, "2030-01-01T09:00")
	require.NoError(t, err)

	events.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

	v, err = s.Submit(ctx, v.SessionID)
	var submitErr *eventform.SubmitError
	require.ErrorAs(t, err, &submitErr)
	assert.Equal(t, eventform.StateEditing, v.State)
	assert.False(t, v.Busy)
	assert.Contains(t, v.Notifications, notify.Notification{Message: eventform.MsgSubmitFailed, Kind: notify.KindError})

	again, err := s.View(ctx, v.SessionID)
	require.NoError(t, err, "failed submit keeps the session")
	assert.Equal(t, "Yoga", again.Draft.Title)
}

func TestSubmit_Busy(t *testing.T) {
	s, _, sessions := setup(t)
	ctx := context.Background()

	v, err := s.Open(ctx, nil)
	require.NoError(t, err)

	ok, err := sessions.Acquire(ctx, v.SessionID, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = s.Submit(ctx, v.SessionID)
	assert.ErrorIs(t, err, eventform.ErrBusy)

	_, err = s.SetField(ctx, v.SessionID, eventform.FieldTitle, "late edit")
	assert.ErrorIs(t, err, eventform.ErrBusy)

	busy, err := s.View(ctx, v.SessionID)
	require.NoError(t, err)
	assert.True(t, busy.Busy)
	assert.True(t, busy.StartTime.Disabled)
	assert.Equal(t, "Saving...", busy.SubmitLabel)
}

func TestEditStartTime_UnknownField(t *testing.T) {
	s, _, _ := setup(t)
	v, err := s.Open(context.Background(), nil)
	require.NoError(t, err)

	_, err = s.EditStartTime(context.Background(), v.SessionID, datetimeinput.Field("second"), "1")
	assert.ErrorIs(t, err, datetimeinput.ErrUnknownField)
}

func TestSetField_UnknownField(t *testing.T) {
	s, _, _ := setup(t)
	v, err := s.Open(context.Background(), nil)
	require.NoError(t, err)

	_, err = s.SetField(context.Background(), v.SessionID, "location", "Room 1")
	assert.ErrorIs(t, err, eventform.ErrUnknownField)
}

func TestClose(t *testing.T) {
	s, _, _ := setup(t)
	ctx := context.Background()
	v, err := s.Open(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, s.Close(ctx, v.SessionID))
	assert.ErrorIs(t, s.Close(ctx, v.SessionID), ErrSessionNotFound)

	_, err = s.SetField(ctx, v.SessionID, eventform.FieldTitle, "x")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func ptr(v int) *int { return &v }

func TestSubmitDraft(t *testing.T) {
	s, events, _ := setup(t)
	ctx := context.Background()

	t.Run("update goes through the rule chain", func(t *testing.T) {
		events.On("Update", mock.Anything, 3, models.EventPayload{
			Title:           "Evening Yoga",
			StartTime:       "2020-01-01T07:00:00Z",
			DurationMinutes: 45,
		}).Return(&models.Event{
			ID:              3,
			Title:           "Evening Yoga",
			StartTime:       time.Date(2020, 1, 1, 7, 0, 0, 0, time.UTC),
			DurationMinutes: 45,
		}, nil).Once()

		v, err := s.SubmitDraft(ctx, models.DraftEvent{
			Title:           "Evening Yoga",
			StartTime:       "2020-01-01T10:00",
			DurationMinutes: 45,
		}, ptr(3))
		require.NoError(t, err, "past start is allowed when editing")
		require.NotNil(t, v.Saved)
		assert.Equal(t, "COMPLETED", v.Saved.Status)
		assert.Contains(t, v.Notifications, notify.Notification{Message: eventform.MsgUpdated, Kind: notify.KindSuccess})
	})

	t.Run("create in the past is rejected", func(t *testing.T) {
		v, err := s.SubmitDraft(ctx, models.DraftEvent{Title: "Late", StartTime: "2020-01-01T10:00"}, nil)
		var verr *eventform.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, eventform.RulePast, verr.Rule)
		assert.Equal(t, eventform.MsgPast, v.Notifications[0].Message)
		assert.Empty(t, v.SessionID)
	})
}
