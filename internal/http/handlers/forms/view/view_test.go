package view

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/wellness-events/internal/services/formsession"
)

type MockService struct{ mock.Mock }

func (m *MockService) View(ctx context.Context, sid string) (formsession.FormView, error) {
	args := m.Called(ctx, sid)
	return args.Get(0).(formsession.FormView), args.Error(1)
}

func TestViewHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		sid            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "форма найдена",
			sid:  "sid-1",
			setupMock: func(m *MockService) {
				m.On("View", mock.Anything, "sid-1").Return(formsession.FormView{
					SessionID: "sid-1", Mode: formsession.ModeCreate, Busy: true, SubmitLabel: "Saving...",
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"busy":true`,
		},
		{
			name: "сессия истекла",
			sid:  "gone",
			setupMock: func(m *MockService) {
				m.On("View", mock.Anything, "gone").
					Return(formsession.FormView{}, fmt.Errorf("formsession.View: %w", formsession.ErrSessionNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"form session not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/admin/forms/"+tt.sid, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("sid", tt.sid)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
