package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/star-housekeeping/portal/internal/models"
)

const planColumns = `id, name, description, category, price, visits_per_month,
			      contract_length, features, availability, is_featured, is_available,
			      created_at, updated_at`

// Допустимые поля сортировки каталога. Всё остальное откатывается
// к сортировке по возрастанию цены.
var planSortColumns = map[string]string{
	"price":  "price",
	"visits": "visits_per_month",
	"name":   "name",
}

func scanPlanRow(scan func(dest ...any) error) (*models.Plan, error) {
	p := &models.Plan{}
	var features, availability []byte
	if err := scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price,
		&p.VisitsPerMonth, &p.ContractLength, &features, &availability,
		&p.IsFeatured, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(features, &p.Features); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(availability, &p.Availability); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPlans возвращает доступные планы с фильтром по категории и сортировкой.
// Неизвестное поле сортировки заменяется на цену по возрастанию.
func (s *Storage) ListPlans(ctx context.Context, filter models.PlanFilter) ([]*models.Plan, error) {
	const op = "storage.ListPlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	sortColumn, ok := planSortColumns[filter.SortBy]
	order := "ASC"
	if !ok {
		sortColumn = "price"
	} else if filter.Order == "desc" {
		order = "DESC"
	}

	query := `SELECT ` + planColumns + `
			  FROM plans
			  WHERE is_available = true
			    AND ($1 = '' OR category = $1)
			  ORDER BY ` + sortColumn + ` ` + order
	rows, err := s.DB.QueryContext(ctx, query, filter.Category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Plan
	for rows.Next() {
		p, err := scanPlanRow(rows.Scan)
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

// GetPlan возвращает доступный план по его ID.
func (s *Storage) GetPlan(ctx context.Context, id string) (*models.Plan, error) {
	const op = "storage.GetPlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + planColumns + ` FROM plans WHERE id = $1 AND is_available = true`
	row := s.DB.QueryRowContext(ctx, query, id)
	p, err := scanPlanRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListFeaturedPlans возвращает не более limit рекомендуемых планов по возрастанию цены.
func (s *Storage) ListFeaturedPlans(ctx context.Context, limit int) ([]*models.Plan, error) {
	const op = "storage.ListFeaturedPlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + planColumns + `
			  FROM plans
			  WHERE is_available = true AND is_featured = true
			  ORDER BY price ASC
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Plan
	for rows.Next() {
		p, err := scanPlanRow(rows.Scan)
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

// CreatePlan вставляет новый план и возвращает его ID.
func (s *Storage) CreatePlan(ctx context.Context, plan models.Plan) (string, error) {
	const op = "storage.CreatePlan"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	features, err := json.Marshal(plan.Features)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	availability, err := json.Marshal(plan.Availability)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var newID string
	query := `INSERT INTO plans (name, description, category, price, visits_per_month,
			      contract_length, features, availability, is_featured, is_available)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		plan.Name, plan.Description, plan.Category, plan.Price, plan.VisitsPerMonth,
		plan.ContractLength, features, availability, plan.IsFeatured,
		plan.IsAvailable).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdatePlan обновляет план по его ID и возвращает количество изменённых строк.
func (s *Storage) UpdatePlan(ctx context.Context, id string, plan models.Plan) (int, error) {
	const op = "storage.UpdatePlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	features, err := json.Marshal(plan.Features)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	availability, err := json.Marshal(plan.Availability)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE plans
			  SET name = $1, description = $2, category = $3, price = $4,
			      visits_per_month = $5, contract_length = $6, features = $7,
			      availability = $8, is_featured = $9, is_available = $10,
			      updated_at = now()
			  WHERE id = $11`
	result, err := s.DB.ExecContext(ctx, query,
		plan.Name, plan.Description, plan.Category, plan.Price, plan.VisitsPerMonth,
		plan.ContractLength, features, availability, plan.IsFeatured, plan.IsAvailable, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// DeletePlan удаляет план по его ID и возвращает количество удалённых строк.
func (s *Storage) DeletePlan(ctx context.Context, id string) (int, error) {
	const op = "storage.DeletePlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM plans WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
