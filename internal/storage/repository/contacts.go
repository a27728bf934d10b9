package repository

import (
	"context"
	"fmt"

	"github.com/star-housekeeping/portal/internal/models"
)

// CreateInquiry сохраняет обращение с контактной формы и возвращает
// созданную запись с выставленными ID, статусом и временем создания.
func (s *Storage) CreateInquiry(ctx context.Context, inquiry models.ContactInquiry) (*models.ContactInquiry, error) {
	const op = "storage.CreateInquiry"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO contact_inquiries (name, email, subject, message, department, phone, status)
			  VALUES ($1, $2, $3, $4, $5, $6, 'new')
			  RETURNING id, status, created_at`
	result := inquiry
	if err := s.DB.QueryRowContext(ctx, query,
		inquiry.Name, inquiry.Email, inquiry.Subject, inquiry.Message,
		inquiry.Department, inquiry.Phone).Scan(&result.ID, &result.Status,
		&result.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}
