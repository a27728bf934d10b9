package payment_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/star-housekeeping/portal/internal/models"
	"github.com/star-housekeeping/portal/internal/paymentprovider"
	"github.com/star-housekeeping/portal/internal/services/payment"
)

type PaymentRepoMock struct {
	mock.Mock
}

func (m *PaymentRepoMock) CreatePayment(ctx context.Context, p models.Payment) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *PaymentRepoMock) ListPaymentsByUser(ctx context.Context, userUID string) ([]*models.Payment, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *PaymentRepoMock) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *PaymentRepoMock) UpdatePaymentStatusByIntent(ctx context.Context, intentID, status string) (int, error) {
	args := m.Called(ctx, intentID, status)
	return args.Int(0), args.Error(1)
}

type PlanRepoMock struct {
	mock.Mock
}

func (m *PlanRepoMock) GetPlan(ctx context.Context, id string) (*models.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) UpdateUserSubscription(ctx context.Context, userUID, planID, status string) (int, error) {
	args := m.Called(ctx, userUID, planID, status)
	return args.Int(0), args.Error(1)
}

func (m *UserRepoMock) UpdateUserStatus(ctx context.Context, userUID, status string) (int, error) {
	args := m.Called(ctx, userUID, status)
	return args.Int(0), args.Error(1)
}

type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) CreateIntent(ctx context.Context, req paymentprovider.CreateIntentRequest) (*paymentprovider.Intent, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.Intent), args.Error(1)
}

func (m *ProviderMock) RetrieveIntent(ctx context.Context, intentID string) (*paymentprovider.Intent, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.Intent), args.Error(1)
}

func (m *ProviderMock) CancelIntent(ctx context.Context, intentID string) (*paymentprovider.Intent, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.Intent), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(payments *PaymentRepoMock, plans *PlanRepoMock, users *UserRepoMock, provider *ProviderMock) *payment.PaymentService {
	return payment.New(payments, plans, users, provider, discardLogger())
}

func TestPaymentService_CreateIntent(t *testing.T) {
	plans := new(PlanRepoMock)
	provider := new(ProviderMock)
	plans.On("GetPlan", mock.Anything, "plan-1").Return(&models.Plan{
		ID: "plan-1", Name: "Standard Clean", Price: 149.99,
	}, nil).Once()
	provider.On("CreateIntent", mock.Anything, mock.MatchedBy(func(req paymentprovider.CreateIntentRequest) bool {
		return req.Amount == 17499 && req.Currency == "usd" &&
			req.Metadata["plan_id"] == "plan-1" &&
			req.Metadata["billing_cycle"] == models.BillingCycleMonthly
	})).Return(&paymentprovider.Intent{
		ID: "pi_1", ClientSecret: "pi_1_secret", Amount: 17499,
		Status: paymentprovider.IntentStatusRequiresPayment,
	}, nil).Once()

	svc := newService(new(PaymentRepoMock), plans, new(UserRepoMock), provider)
	result, err := svc.CreateIntent(context.Background(), "uid-1", "plan-1", models.BillingCycleMonthly, 25.00)
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret", result.ClientSecret)
	assert.InDelta(t, 174.99, result.Amount, 0.001)
	assert.Equal(t, "Standard Clean", result.Plan.Name)
	provider.AssertExpectations(t)
}

func TestPaymentService_Confirm(t *testing.T) {
	plan := &models.Plan{ID: "plan-1", Name: "Standard Clean", Price: 149.99}

	t.Run("succeeded intent activates subscription", func(t *testing.T) {
		payments := new(PaymentRepoMock)
		plans := new(PlanRepoMock)
		users := new(UserRepoMock)
		provider := new(ProviderMock)

		provider.On("RetrieveIntent", mock.Anything, "pi_1").Return(&paymentprovider.Intent{
			ID: "pi_1", Amount: 17499, Status: paymentprovider.IntentStatusSucceeded,
		}, nil).Once()
		plans.On("GetPlan", mock.Anything, "plan-1").Return(plan, nil).Once()
		payments.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p models.Payment) bool {
			return p.UserUID == "uid-1" &&
				p.Status == models.PaymentStatusCompleted &&
				p.ProviderIntentID == "pi_1" &&
				p.NextBillingDate.After(time.Now().UTC().AddDate(0, 0, 27))
		})).Return("payment-1", nil).Once()
		users.On("UpdateUserSubscription", mock.Anything, "uid-1", "plan-1", models.StatusActive).
			Return(1, nil).Once()

		svc := newService(payments, plans, users, provider)
		got, gotPlan, err := svc.Confirm(context.Background(), "uid-1", "pi_1", "plan-1", models.BillingCycleMonthly)
		require.NoError(t, err)
		assert.Equal(t, "payment-1", got.ID)
		assert.InDelta(t, 174.99, got.TotalAmount, 0.001)
		assert.Equal(t, "plan-1", gotPlan.ID)
		users.AssertExpectations(t)
	})

	t.Run("not succeeded intent rejected", func(t *testing.T) {
		payments := new(PaymentRepoMock)
		provider := new(ProviderMock)
		provider.On("RetrieveIntent", mock.Anything, "pi_1").Return(&paymentprovider.Intent{
			ID: "pi_1", Status: paymentprovider.IntentStatusProcessing,
		}, nil).Once()

		svc := newService(payments, new(PlanRepoMock), new(UserRepoMock), provider)
		_, _, err := svc.Confirm(context.Background(), "uid-1", "pi_1", "plan-1", models.BillingCycleMonthly)
		require.ErrorIs(t, err, payment.ErrPaymentNotCompleted)
		payments.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
	})

	t.Run("yearly cycle moves next billing a year out", func(t *testing.T) {
		payments := new(PaymentRepoMock)
		plans := new(PlanRepoMock)
		users := new(UserRepoMock)
		provider := new(ProviderMock)

		provider.On("RetrieveIntent", mock.Anything, "pi_1").Return(&paymentprovider.Intent{
			ID: "pi_1", Amount: 17499, Status: paymentprovider.IntentStatusSucceeded,
		}, nil).Once()
		plans.On("GetPlan", mock.Anything, "plan-1").Return(plan, nil).Once()
		payments.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p models.Payment) bool {
			return p.NextBillingDate.After(time.Now().UTC().AddDate(0, 11, 0))
		})).Return("payment-1", nil).Once()
		users.On("UpdateUserSubscription", mock.Anything, "uid-1", "plan-1", models.StatusActive).
			Return(1, nil).Once()

		svc := newService(payments, plans, users, provider)
		_, _, err := svc.Confirm(context.Background(), "uid-1", "pi_1", "plan-1", models.BillingCycleYearly)
		require.NoError(t, err)
	})
}

func TestPaymentService_CancelSubscription(t *testing.T) {
	t.Run("without plan there is nothing to cancel", func(t *testing.T) {
		svc := newService(new(PaymentRepoMock), new(PlanRepoMock), new(UserRepoMock), new(ProviderMock))
		err := svc.CancelSubscription(context.Background(), &models.User{UID: "uid-1"})
		require.ErrorIs(t, err, payment.ErrNoActiveSubscription)
	})

	t.Run("active plan is set inactive", func(t *testing.T) {
		users := new(UserRepoMock)
		users.On("UpdateUserStatus", mock.Anything, "uid-1", models.StatusInactive).Return(1, nil).Once()

		planID := "plan-1"
		svc := newService(new(PaymentRepoMock), new(PlanRepoMock), users, new(ProviderMock))
		err := svc.CancelSubscription(context.Background(), &models.User{UID: "uid-1", PlanID: &planID})
		require.NoError(t, err)
		users.AssertExpectations(t)
	})
}

func TestPaymentService_HandleWebhookEvent(t *testing.T) {
	event := func(eventType string) paymentprovider.WebhookEvent {
		var e paymentprovider.WebhookEvent
		e.ID = "evt_1"
		e.Type = eventType
		e.Data.Object = paymentprovider.Intent{ID: "pi_1"}
		return e
	}

	tests := []struct {
		name       string
		eventType  string
		wantStatus string
	}{
		{name: "succeeded", eventType: paymentprovider.EventIntentSucceeded, wantStatus: models.PaymentStatusCompleted},
		{name: "failed", eventType: paymentprovider.EventIntentFailed, wantStatus: models.PaymentStatusFailed},
		{name: "canceled", eventType: paymentprovider.EventIntentCanceled, wantStatus: models.PaymentStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payments := new(PaymentRepoMock)
			payments.On("UpdatePaymentStatusByIntent", mock.Anything, "pi_1", tt.wantStatus).
				Return(1, nil).Once()

			svc := newService(payments, new(PlanRepoMock), new(UserRepoMock), new(ProviderMock))
			err := svc.HandleWebhookEvent(context.Background(), event(tt.eventType))
			require.NoError(t, err)
			payments.AssertExpectations(t)
		})
	}

	t.Run("unknown event type is ignored", func(t *testing.T) {
		payments := new(PaymentRepoMock)
		svc := newService(payments, new(PlanRepoMock), new(UserRepoMock), new(ProviderMock))
		err := svc.HandleWebhookEvent(context.Background(), event("invoice.created"))
		require.NoError(t, err)
		payments.AssertNotCalled(t, "UpdatePaymentStatusByIntent", mock.Anything, mock.Anything, mock.Anything)
	})
}
