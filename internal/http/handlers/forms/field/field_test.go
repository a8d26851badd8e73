package field

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

	"github.com/magabrotheeeer/wellness-events/internal/eventform"
	"github.com/magabrotheeeer/wellness-events/internal/models"
	"github.com/magabrotheeeer/wellness-events/internal/services/formsession"
)

type MockService struct{ mock.Mock }

func (m *MockService) SetField(ctx context.Context, sid, name, value string) (formsession.FormView, error) {
	args := m.Called(ctx, sid, name, value)
	return args.Get(0).(formsession.FormView), args.Error(1)
}

func TestFieldHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "изменение заголовка",
			body: `{"name":"title","value":"Sound Bath"}`,
			setupMock: func(m *MockService) {
				m.On("SetField", mock.Anything, "sid-1", "title", "Sound Bath").Return(formsession.FormView{
					SessionID: "sid-1", Draft: models.DraftEvent{Title: "Sound Bath", DurationMinutes: 90},
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"title":"Sound Bath"`,
		},
		{
			name: "очистка описания",
			body: `{"name":"description","value":""}`,
			setupMock: func(m *MockService) {
				m.On("SetField", mock.Anything, "sid-1", "description", "").
					Return(formsession.FormView{SessionID: "sid-1"}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:           "неизвестное поле",
			body:           `{"name":"location","value":"Hall"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Name must be one of`,
		},
		{
			name: "форма отправляется",
			body: `{"name":"title","value":"X"}`,
			setupMock: func(m *MockService) {
				m.On("SetField", mock.Anything, "sid-1", "title", "X").
					Return(formsession.FormView{}, fmt.Errorf("formsession.SetField: %w", eventform.ErrBusy)).Once()
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"form is being submitted"`,
		},
		{
			name:           "некорректный JSON",
			body:           "[]",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"failed to decode request"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPatch, "/admin/forms/sid-1/fields", strings.NewReader(tt.body))
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
