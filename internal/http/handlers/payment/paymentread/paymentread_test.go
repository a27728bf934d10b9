package paymentread

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/star-housekeeping/portal/internal/http/middlewarectx"
	"github.com/star-housekeeping/portal/internal/models"
	"github.com/star-housekeeping/portal/internal/storage/repository"
)

// MockService реализует интерфейс paymentread.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Get(ctx context.Context, id string) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestPaymentReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ownerPayment := &models.Payment{ID: "pay-1", UserUID: "owner-1", Amount: 149.99}

	tests := []struct {
		name           string
		user           *models.User
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "владелец читает свой платеж",
			user: &models.User{UID: "owner-1", Role: models.RoleCustomer},
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, "pay-1").Return(ownerPayment, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"pay-1"`,
		},
		{
			name: "администратор читает чужой платеж",
			user: &models.User{UID: "admin-1", Role: models.RoleAdmin},
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, "pay-1").Return(ownerPayment, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"pay-1"`,
		},
		{
			name: "чужой клиент получает отказ",
			user: &models.User{UID: "stranger-1", Role: models.RoleCustomer},
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, "pay-1").Return(ownerPayment, nil)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"access denied"`,
		},
		{
			name: "платеж не найден",
			user: &models.User{UID: "owner-1", Role: models.RoleCustomer},
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, "pay-1").Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"payment not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/api/payments/pay-1", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "pay-1")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.User, tt.user)
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
