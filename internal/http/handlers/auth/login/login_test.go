package login

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/star-housekeeping/portal/internal/models"
	services "github.com/star-housekeeping/portal/internal/services/auth"
)

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	args := m.Called(ctx, email, rawPassword)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешный вход",
			body: `{"email":"jane@example.com","password":"secret1"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "jane@example.com", "secret1").
					Return(&models.User{UID: "uid-1", Email: "jane@example.com"}, "token-1", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"token":"token-1"`,
		},
		{
			name: "неверный пароль",
			body: `{"email":"jane@example.com","password":"wrong"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "jane@example.com", "wrong").
					Return(nil, "", services.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"invalid email or password"`,
		},
		{
			name: "неизвестный email",
			body: `{"email":"ghost@example.com","password":"secret1"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "ghost@example.com", "secret1").
					Return(nil, "", services.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"invalid email or password"`,
		},
		{
			name:           "email обязателен",
			body:           `{"password":"secret1"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"field":"Email"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			if tt.expectedStatus == http.StatusUnauthorized {
				assert.NotContains(t, w.Body.String(), "token-1")
			}

			mockService.AssertExpectations(t)
		})
	}
}
