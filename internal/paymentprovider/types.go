package paymentprovider

import "time"

// Статусы интента на стороне провайдера.
const (
	IntentStatusRequiresPayment = "requires_payment_method"
	IntentStatusProcessing      = "processing"
	IntentStatusSucceeded       = "succeeded"
	IntentStatusCanceled        = "canceled"
)

// CreateIntentRequest представляет запрос на создание платёжного интента.
type CreateIntentRequest struct {
	Amount   int64             `json:"amount"` // сумма в центах
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata,omitempty"` // user_uid, plan_id, billing_cycle
}

// Intent представляет платёжный интент на стороне провайдера.
type Intent struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	Status       string            `json:"status"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// WebhookEvent представляет событие, присылаемое провайдером на вебхук.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"` // например "payment_intent.succeeded"
	Data struct {
		Object Intent `json:"object"`
	} `json:"data"`
}

// Типы событий вебхука, которые обрабатывает портал.
const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.payment_failed"
	EventIntentCanceled  = "payment_intent.canceled"
)
