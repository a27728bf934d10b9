// Package payment содержит бизнес-логику платежей: создание и
// подтверждение интентов у внешнего провайдера, история платежей,
// отмена подписки и обработка событий вебхука.
package payment

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/star-housekeeping/portal/internal/models"
	"github.com/star-housekeeping/portal/internal/paymentprovider"
)

// Ошибки бизнес-уровня платежей.
var (
	ErrPaymentNotCompleted  = errors.New("payment not completed")
	ErrNoActiveSubscription = errors.New("no active subscription to cancel")
)

// PaymentRepository определяет методы для работы с платежами в хранилище.
type PaymentRepository interface {
	// CreatePayment добавляет запись о платеже и возвращает её ID.
	CreatePayment(ctx context.Context, payment models.Payment) (string, error)
	// ListPaymentsByUser возвращает платежи пользователя, новые первыми.
	ListPaymentsByUser(ctx context.Context, userUID string) ([]*models.Payment, error)
	// GetPayment возвращает платёж по ID.
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	// UpdatePaymentStatusByIntent обновляет статус платежа по ID интента.
	UpdatePaymentStatusByIntent(ctx context.Context, intentID, status string) (int, error)
}

// PlanRepository определяет доступ к каталогу планов.
type PlanRepository interface {
	// GetPlan возвращает доступный план по ID.
	GetPlan(ctx context.Context, id string) (*models.Plan, error)
}

// UserRepository определяет операции над подпиской пользователя.
type UserRepository interface {
	// UpdateUserSubscription выставляет план и статус подписки пользователя.
	UpdateUserSubscription(ctx context.Context, userUID, planID, status string) (int, error)
	// UpdateUserStatus выставляет статус подписки пользователя.
	UpdateUserStatus(ctx context.Context, userUID, status string) (int, error)
}

// ProviderClient описывает клиента платёжного провайдера.
type ProviderClient interface {
	// CreateIntent создаёт платёжный интент у провайдера.
	CreateIntent(ctx context.Context, req paymentprovider.CreateIntentRequest) (*paymentprovider.Intent, error)
	// RetrieveIntent читает платёжный интент по ID.
	RetrieveIntent(ctx context.Context, intentID string) (*paymentprovider.Intent, error)
	// CancelIntent отменяет платёжный интент.
	CancelIntent(ctx context.Context, intentID string) (*paymentprovider.Intent, error)
}

// IntentResult результат создания платёжного интента для клиента.
type IntentResult struct {
	ClientSecret string
	Amount       float64
	Plan         *models.Plan
}

// PaymentService реализует бизнес-логику платежей.
type PaymentService struct {
	payments PaymentRepository
	plans    PlanRepository
	users    UserRepository
	provider ProviderClient
	log      *slog.Logger
}

// New создает новый экземпляр PaymentService.
func New(payments PaymentRepository, plans PlanRepository, users UserRepository,
	provider ProviderClient, log *slog.Logger) *PaymentService {
	return &PaymentService{
		payments: payments,
		plans:    plans,
		users:    users,
		provider: provider,
		log:      log,
	}
}

// CreateIntent создаёт у провайдера интент на оплату плана.
//
// Сумма — цена плана плюс разовый сбор за подключение; провайдеру
// передаётся в центах.
func (s *PaymentService) CreateIntent(ctx context.Context, userUID, planID, billingCycle string, setupFee float64) (*IntentResult, error) {
	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	totalAmount := plan.Price + setupFee
	intent, err := s.provider.CreateIntent(ctx, paymentprovider.CreateIntentRequest{
		Amount:   int64(math.Round(totalAmount * 100)),
		Currency: "usd",
		Metadata: map[string]string{
			"user_uid":      userUID,
			"plan_id":       planID,
			"billing_cycle": billingCycle,
		},
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("created payment intent",
		slog.String("intent_id", intent.ID),
		slog.String("plan_id", planID))

	return &IntentResult{
		ClientSecret: intent.ClientSecret,
		Amount:       totalAmount,
		Plan:         plan,
	}, nil
}

// Confirm проверяет интент у провайдера и активирует подписку.
//
// Интент должен быть в статусе succeeded, иначе возвращается
// ErrPaymentNotCompleted. Запись о платеже создаётся один раз и
// дальше не меняется; дата следующего списания считается от текущего
// момента: +1 месяц или +1 год.
func (s *PaymentService) Confirm(ctx context.Context, userUID, intentID, planID, billingCycle string) (*models.Payment, *models.Plan, error) {
	intent, err := s.provider.RetrieveIntent(ctx, intentID)
	if err != nil {
		return nil, nil, err
	}
	if intent.Status != paymentprovider.IntentStatusSucceeded {
		return nil, nil, ErrPaymentNotCompleted
	}

	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	nextBillingDate := now.AddDate(0, 1, 0)
	if billingCycle == models.BillingCycleYearly {
		nextBillingDate = now.AddDate(1, 0, 0)
	}

	totalAmount := float64(intent.Amount) / 100
	payment := models.Payment{
		UserUID:          userUID,
		PlanID:           planID,
		Amount:           plan.Price,
		Currency:         "USD",
		PaymentMethod:    "card",
		Status:           models.PaymentStatusCompleted,
		ProviderIntentID: intentID,
		BillingCycle:     billingCycle,
		NextBillingDate:  nextBillingDate,
		SetupFee:         totalAmount - plan.Price,
		TotalAmount:      totalAmount,
	}
	paymentID, err := s.payments.CreatePayment(ctx, payment)
	if err != nil {
		return nil, nil, err
	}
	payment.ID = paymentID
	payment.CreatedAt = now

	if _, err := s.users.UpdateUserSubscription(ctx, userUID, planID, models.StatusActive); err != nil {
		return nil, nil, err
	}

	s.log.Info("confirmed payment",
		slog.String("payment_id", paymentID),
		slog.String("intent_id", intentID))

	return &payment, plan, nil
}

// History возвращает платежи пользователя, новые первыми.
func (s *PaymentService) History(ctx context.Context, userUID string) ([]*models.Payment, error) {
	return s.payments.ListPaymentsByUser(ctx, userUID)
}

// Get возвращает платёж по ID. Проверка владения остаётся за вызывающим.
func (s *PaymentService) Get(ctx context.Context, id string) (*models.Payment, error) {
	return s.payments.GetPayment(ctx, id)
}

// CancelSubscription переводит подписку пользователя в inactive.
// Без привязанного плана отменять нечего.
func (s *PaymentService) CancelSubscription(ctx context.Context, user *models.User) error {
	if user.PlanID == nil {
		return ErrNoActiveSubscription
	}
	_, err := s.users.UpdateUserStatus(ctx, user.UID, models.StatusInactive)
	return err
}

// HandleWebhookEvent обрабатывает событие от платёжного провайдера.
// Неизвестные типы событий логируются и пропускаются.
func (s *PaymentService) HandleWebhookEvent(ctx context.Context, event paymentprovider.WebhookEvent) error {
	intentID := event.Data.Object.ID

	switch event.Type {
	case paymentprovider.EventIntentSucceeded:
		_, err := s.payments.UpdatePaymentStatusByIntent(ctx, intentID, models.PaymentStatusCompleted)
		return err
	case paymentprovider.EventIntentFailed:
		_, err := s.payments.UpdatePaymentStatusByIntent(ctx, intentID, models.PaymentStatusFailed)
		return err
	case paymentprovider.EventIntentCanceled:
		_, err := s.payments.UpdatePaymentStatusByIntent(ctx, intentID, models.PaymentStatusFailed)
		return err
	default:
		s.log.Info("unhandled webhook event type", slog.String("type", event.Type))
		return nil
	}
}
