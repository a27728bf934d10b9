package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/star-housekeeping/portal/internal/models"
)

const paymentColumns = `id, user_uid, plan_id, amount, currency, payment_method, status,
			      provider_intent_id, billing_cycle, next_billing_date, setup_fee,
			      total_amount, created_at`

func scanPaymentRow(scan func(dest ...any) error) (*models.Payment, error) {
	p := &models.Payment{}
	if err := scan(&p.ID, &p.UserUID, &p.PlanID, &p.Amount, &p.Currency,
		&p.PaymentMethod, &p.Status, &p.ProviderIntentID, &p.BillingCycle,
		&p.NextBillingDate, &p.SetupFee, &p.TotalAmount, &p.CreatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

// CreatePayment вставляет запись о подтверждённом платеже и возвращает её ID.
func (s *Storage) CreatePayment(ctx context.Context, payment models.Payment) (string, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO payments (user_uid, plan_id, amount, currency, payment_method,
			      status, provider_intent_id, billing_cycle, next_billing_date,
			      setup_fee, total_amount)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		payment.UserUID, payment.PlanID, payment.Amount, payment.Currency,
		payment.PaymentMethod, payment.Status, payment.ProviderIntentID,
		payment.BillingCycle, payment.NextBillingDate, payment.SetupFee,
		payment.TotalAmount).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListPaymentsByUser возвращает платежи пользователя, новые первыми.
func (s *Storage) ListPaymentsByUser(ctx context.Context, userUID string) ([]*models.Payment, error) {
	const op = "storage.ListPaymentsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + paymentColumns + `
			  FROM payments
			  WHERE user_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		p, err := scanPaymentRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetPayment возвращает платёж по его ID.
func (s *Storage) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	const op = "storage.GetPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPaymentRow(s.DB.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// UpdatePaymentStatusByIntent выставляет статус платежа по идентификатору
// платёжного намерения провайдера. Используется обработчиком вебхуков.
func (s *Storage) UpdatePaymentStatusByIntent(ctx context.Context, intentID, status string) (int, error) {
	const op = "storage.UpdatePaymentStatusByIntent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments SET status = $1 WHERE provider_intent_id = $2`
	result, err := s.DB.ExecContext(ctx, query, status, intentID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
