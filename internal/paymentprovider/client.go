// Package paymentprovider реализует HTTP-клиент платёжного провайдера:
// создание и чтение платёжных интентов, отмена, проверка подписи вебхука.
package paymentprovider

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/star-housekeeping/portal/internal/config"
)

// Client клиент API платёжного провайдера. Аутентификация секретным
// ключом, каждый создающий запрос несёт ключ идемпотентности.
type Client struct {
	httpClient    *http.Client
	apiURL        string
	secretKey     string
	webhookSecret string
}

// New создаёт клиента платёжного провайдера.
func New(cfg config.PaymentProvider) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		apiURL:        cfg.APIURL,
		secretKey:     cfg.SecretKey,
		webhookSecret: cfg.WebhookSecret,
	}
}

// CreateIntent создаёт платёжный интент у провайдера.
func (c *Client) CreateIntent(ctx context.Context, reqBody CreateIntentRequest) (*Intent, error) {
	const op = "paymentprovider.CreateIntent"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiURL+"/payment_intents", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.New().String())
	req.SetBasicAuth(c.secretKey, "")

	return c.do(op, req)
}

// RetrieveIntent читает платёжный интент по его ID.
func (c *Client) RetrieveIntent(ctx context.Context, intentID string) (*Intent, error) {
	const op = "paymentprovider.RetrieveIntent"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.apiURL+"/payment_intents/"+intentID, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.SetBasicAuth(c.secretKey, "")

	return c.do(op, req)
}

// CancelIntent отменяет платёжный интент на стороне провайдера.
func (c *Client) CancelIntent(ctx context.Context, intentID string) (*Intent, error) {
	const op = "paymentprovider.CancelIntent"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiURL+"/payment_intents/"+intentID+"/cancel", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Idempotency-Key", uuid.New().String())
	req.SetBasicAuth(c.secretKey, "")

	return c.do(op, req)
}

func (c *Client) do(op string, req *http.Request) (*Intent, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%s: unexpected status %d: %s", op, resp.StatusCode, body)
	}

	var intent Intent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &intent, nil
}

// VerifyWebhookSignature проверяет HMAC-SHA256 подпись тела вебхука.
// Сравнение выполняется за постоянное время.
func (c *Client) VerifyWebhookSignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
