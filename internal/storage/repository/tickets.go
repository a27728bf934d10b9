package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/star-housekeeping/portal/internal/models"
)

const ticketColumns = `id, user_uid, user_name, user_email, subject, description,
			      category, priority, status, messages, created_at, updated_at`

func scanTicketRow(scan func(dest ...any) error) (*models.SupportTicket, error) {
	t := &models.SupportTicket{}
	var messages []byte
	if err := scan(&t.ID, &t.UserUID, &t.UserName, &t.UserEmail, &t.Subject,
		&t.Description, &t.Category, &t.Priority, &t.Status, &messages,
		&t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(messages, &t.Messages); err != nil {
		return nil, err
	}
	if t.Messages == nil {
		t.Messages = []models.TicketMessage{}
	}
	return t, nil
}

// CreateTicket вставляет новый тикет поддержки и возвращает его ID.
func (s *Storage) CreateTicket(ctx context.Context, ticket models.SupportTicket) (string, error) {
	const op = "storage.CreateTicket"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO support_tickets (user_uid, user_name, user_email, subject,
			      description, category, priority, status, messages)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, '[]'::jsonb)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		ticket.UserUID, ticket.UserName, ticket.UserEmail, ticket.Subject,
		ticket.Description, ticket.Category, ticket.Priority,
		ticket.Status).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetTicket возвращает тикет по его ID вместе со списком сообщений.
func (s *Storage) GetTicket(ctx context.Context, id string) (*models.SupportTicket, error) {
	const op = "storage.GetTicket"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + ticketColumns + ` FROM support_tickets WHERE id = $1`
	t, err := scanTicketRow(s.DB.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// ListTicketsByUser возвращает тикеты пользователя, недавно обновлённые первыми.
func (s *Storage) ListTicketsByUser(ctx context.Context, userUID string) ([]*models.SupportTicket, error) {
	const op = "storage.ListTicketsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + ticketColumns + `
			  FROM support_tickets
			  WHERE user_uid = $1
			  ORDER BY updated_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SupportTicket
	for rows.Next() {
		t, err := scanTicketRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AppendTicketMessage добавляет сообщение в конец переписки тикета.
func (s *Storage) AppendTicketMessage(ctx context.Context, id string, msg models.TicketMessage) error {
	const op = "storage.AppendTicketMessage"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE support_tickets
			  SET messages = messages || $1::jsonb, updated_at = now()
			  WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, payload, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// UpdateTicketStatus выставляет статус тикета и возвращает количество изменённых строк.
func (s *Storage) UpdateTicketStatus(ctx context.Context, id, status string) (int, error) {
	const op = "storage.UpdateTicketStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE support_tickets SET status = $1, updated_at = now() WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListTickets возвращает страницу тикетов по фильтрам персонала поддержки
// и общее количество подходящих записей.
func (s *Storage) ListTickets(ctx context.Context, filter models.TicketFilter) ([]*models.SupportTicket, int, error) {
	const op = "storage.ListTickets"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	offset := (filter.Page - 1) * filter.Limit
	query := `SELECT ` + ticketColumns + `, count(*) OVER() AS total
			  FROM support_tickets
			  WHERE ($1 = '' OR status = $1)
			    AND ($2 = '' OR priority = $2)
			    AND ($3 = '' OR category = $3)
			  ORDER BY updated_at DESC
			  LIMIT $4 OFFSET $5`
	rows, err := s.DB.QueryContext(ctx, query, filter.Status, filter.Priority,
		filter.Category, filter.Limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SupportTicket
	var total int
	for rows.Next() {
		t := &models.SupportTicket{}
		var messages []byte
		if err := rows.Scan(&t.ID, &t.UserUID, &t.UserName, &t.UserEmail, &t.Subject,
			&t.Description, &t.Category, &t.Priority, &t.Status, &messages,
			&t.CreatedAt, &t.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(messages, &t.Messages); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}
