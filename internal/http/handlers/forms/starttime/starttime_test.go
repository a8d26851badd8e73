package starttime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/wellness-events/internal/datetimeinput"
	"github.com/magabrotheeeer/wellness-events/internal/services/formsession"
)

type MockService struct{ mock.Mock }

func (m *MockService) EditStartTime(ctx context.Context, sid string, field datetimeinput.Field, value string) (formsession.FormView, error) {
	args := m.Called(ctx, sid, field, value)
	return args.Get(0).(formsession.FormView), args.Error(1)
}

func TestStartTimeHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "смена половины суток",
			body: `{"field":"meridiem","value":"PM"}`,
			setupMock: func(m *MockService) {
				m.On("EditStartTime", mock.Anything, "sid-1", datetimeinput.FieldMeridiem, "PM").Return(formsession.FormView{
					StartTime: datetimeinput.View{Value: "2030-01-01T19:30", Hour: "7", Minute: "30", Meridiem: "PM"},
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"value":"2030-01-01T19:30"`,
		},
		{
			name: "минуты без проверки",
			body: `{"field":"minute","value":"7"}`,
			setupMock: func(m *MockService) {
				m.On("EditStartTime", mock.Anything, "sid-1", datetimeinput.FieldMinute, "7").Return(formsession.FormView{
					StartTime: datetimeinput.View{Value: "2030-01-01T10:7", Minute: "7"},
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"minute":"7"`,
		},
		{
			name:           "неизвестное подполе",
			body:           `{"field":"second","value":"1"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Field must be one of`,
		},
		{
			name: "сессия истекла",
			body: `{"field":"date","value":""}`,
			setupMock: func(m *MockService) {
				m.On("EditStartTime", mock.Anything, "sid-1", datetimeinput.FieldDate, "").
					Return(formsession.FormView{}, fmt.Errorf("formsession.EditStartTime: %w", formsession.ErrSessionNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"form session not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPatch, "/admin/forms/sid-1/start-time", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("sid", "sid-1")
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
