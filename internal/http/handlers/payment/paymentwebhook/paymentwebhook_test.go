package paymentwebhook

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

	"github.com/star-housekeeping/portal/internal/paymentprovider"
)

// MockVerifier реализует интерфейс paymentwebhook.Verifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) VerifyWebhookSignature(body []byte, signature string) bool {
	args := m.Called(body, signature)
	return args.Bool(0)
}

// MockService реализует интерфейс paymentwebhook.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) HandleWebhookEvent(ctx context.Context, event paymentprovider.WebhookEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func TestPaymentWebhookHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	eventBody := `{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","status":"succeeded"}}}`

	tests := []struct {
		name           string
		body           string
		signature      string
		setupVerifier  func(*MockVerifier)
		setupService   func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "валидная подпись, событие обработано",
			body:      eventBody,
			signature: "good-sig",
			setupVerifier: func(m *MockVerifier) {
				m.On("VerifyWebhookSignature", []byte(eventBody), "good-sig").Return(true)
			},
			setupService: func(m *MockService) {
				m.On("HandleWebhookEvent", mock.Anything, mock.MatchedBy(func(e paymentprovider.WebhookEvent) bool {
					return e.ID == "evt_1" && e.Type == paymentprovider.EventIntentSucceeded
				})).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"received":true`,
		},
		{
			name:      "невалидная подпись отклоняется до разбора тела",
			body:      eventBody,
			signature: "bad-sig",
			setupVerifier: func(m *MockVerifier) {
				m.On("VerifyWebhookSignature", []byte(eventBody), "bad-sig").Return(false)
			},
			setupService:   func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid signature"`,
		},
		{
			name:      "подписанное, но некорректное тело",
			body:      `not-json`,
			signature: "good-sig",
			setupVerifier: func(m *MockVerifier) {
				m.On("VerifyWebhookSignature", []byte(`not-json`), "good-sig").Return(true)
			},
			setupService:   func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid event payload"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockVerifier := new(MockVerifier)
			mockService := new(MockService)
			tt.setupVerifier(mockVerifier)
			tt.setupService(mockService)

			handler := New(logger, mockVerifier, mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", strings.NewReader(tt.body))
			req.Header.Set(SignatureHeader, tt.signature)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			if tt.expectedStatus == http.StatusBadRequest {
				mockService.AssertNotCalled(t, "HandleWebhookEvent", mock.Anything, mock.Anything)
			}
			mockVerifier.AssertExpectations(t)
			mockService.AssertExpectations(t)
		})
	}
}
