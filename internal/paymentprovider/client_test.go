package paymentprovider

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/star-housekeeping/portal/internal/config"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := New(config.PaymentProvider{
		SecretKey:     "sk_test_123",
		WebhookSecret: "whsec_test",
		APIURL:        srv.URL,
	})
	return client, srv
}

func TestCreateIntent(t *testing.T) {
	var gotIdempotencyKey string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payment_intents", r.URL.Path)

		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "sk_test_123", user)

		gotIdempotencyKey = r.Header.Get("Idempotency-Key")

		var req CreateIntentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(17499), req.Amount)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Intent{
			ID:           "pi_123",
			ClientSecret: "pi_123_secret",
			Amount:       req.Amount,
			Currency:     req.Currency,
			Status:       IntentStatusRequiresPayment,
			Metadata:     req.Metadata,
		})
	}))
	defer srv.Close()

	intent, err := client.CreateIntent(context.Background(), CreateIntentRequest{
		Amount:   17499,
		Currency: "usd",
		Metadata: map[string]string{"plan_id": "plan-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "pi_123_secret", intent.ClientSecret)
	assert.NotEmpty(t, gotIdempotencyKey)
}

func TestRetrieveIntent(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/payment_intents/pi_123", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Intent{ID: "pi_123", Status: IntentStatusSucceeded})
	}))
	defer srv.Close()

	intent, err := client.RetrieveIntent(context.Background(), "pi_123")
	require.NoError(t, err)
	assert.Equal(t, IntentStatusSucceeded, intent.Status)
}

func TestCancelIntent(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payment_intents/pi_123/cancel", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Intent{ID: "pi_123", Status: IntentStatusCanceled})
	}))
	defer srv.Close()

	intent, err := client.CancelIntent(context.Background(), "pi_123")
	require.NoError(t, err)
	assert.Equal(t, IntentStatusCanceled, intent.Status)
}

func TestRetrieveIntent_ErrorStatus(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": "no such intent"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := client.RetrieveIntent(context.Background(), "pi_missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestVerifyWebhookSignature(t *testing.T) {
	client := New(config.PaymentProvider{WebhookSecret: "whsec_test"})

	body := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	mac := hmac.New(sha256.New, []byte("whsec_test"))
	mac.Write(body)
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, client.VerifyWebhookSignature(body, valid))
	assert.False(t, client.VerifyWebhookSignature(body, "deadbeef"))
	assert.False(t, client.VerifyWebhookSignature([]byte(`tampered`), valid))
}
