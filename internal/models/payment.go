package models

import "time"

// Статусы платежа.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Циклы списания.
const (
	BillingCycleMonthly = "monthly"
	BillingCycleYearly  = "yearly"
)

// Payment связывает пользователя и план с подтверждённым платежом.
// Запись создаётся при подтверждении платежа и после этого не изменяется.
type Payment struct {
	ID               string    `json:"id"`
	UserUID          string    `json:"-"`
	PlanID           string    `json:"planId"`
	Amount           float64   `json:"amount"`
	Currency         string    `json:"currency"`
	PaymentMethod    string    `json:"paymentMethod"`
	Status           string    `json:"paymentStatus"`
	ProviderIntentID string    `json:"providerIntentId"`
	BillingCycle     string    `json:"billingCycle"`
	NextBillingDate  time.Time `json:"nextBillingDate"`
	SetupFee         float64   `json:"setupFee"`
	TotalAmount      float64   `json:"totalAmount"`
	CreatedAt        time.Time `json:"createdAt"`
}
