package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/star-housekeeping/portal/internal/models"
)

// CreateUser сохраняет нового пользователя в базу данных и возвращает его UID.
// Учетные данные (хэш пароля) записываются отдельно через CreateCredentials.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, full_name, phone, address, city, state, zip_code,
			      subscription_status, role)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING uid`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.FullName, user.Phone, user.Address, user.City, user.State,
		user.ZipCode, user.SubscriptionStatus, user.Role).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// CreateCredentials записывает хэш пароля пользователя в таблицу credentials.
// Это второй шаг двухфазной регистрации; при его неуспехе вызывающая сторона
// обязана удалить созданную запись пользователя (компенсирующее действие).
func (s *Storage) CreateCredentials(ctx context.Context, userUID, passwordHash string) error {
	const op = "storage.CreateCredentials"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO credentials (user_uid, password_hash) VALUES ($1, $2)`
	if _, err := s.DB.ExecContext(ctx, query, userUID, passwordHash); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetCredentials возвращает хэш пароля пользователя по его UID.
func (s *Storage) GetCredentials(ctx context.Context, userUID string) (string, error) {
	const op = "storage.GetCredentials"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var hash string
	query := `SELECT password_hash FROM credentials WHERE user_uid = $1`
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return hash, nil
}

// UpdateCredentials заменяет хэш пароля пользователя.
func (s *Storage) UpdateCredentials(ctx context.Context, userUID, passwordHash string) (int, error) {
	const op = "storage.UpdateCredentials"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE credentials SET password_hash = $1, updated_at = now() WHERE user_uid = $2`
	result, err := s.DB.ExecContext(ctx, query, passwordHash, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

const userColumns = `uid, email, full_name, phone, address, city, state, zip_code,
			      plan_id, subscription_status, role, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var planID sql.NullString
	if err := row.Scan(&u.UID, &u.Email, &u.FullName, &u.Phone, &u.Address, &u.City,
		&u.State, &u.ZipCode, &planID, &u.SubscriptionStatus, &u.Role,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if planID.Valid {
		u.PlanID = &planID.String
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по его email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateUserProfile обновляет контактные данные пользователя и возвращает
// обновлённую запись. Пустые значения не затирают существующие поля.
func (s *Storage) UpdateUserProfile(ctx context.Context, userUID string, user models.User) (*models.User, error) {
	const op = "storage.UpdateUserProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET full_name = COALESCE(NULLIF($1, ''), full_name),
			      phone = COALESCE(NULLIF($2, ''), phone),
			      address = COALESCE(NULLIF($3, ''), address),
			      city = COALESCE(NULLIF($4, ''), city),
			      state = COALESCE(NULLIF($5, ''), state),
			      zip_code = COALESCE(NULLIF($6, ''), zip_code),
			      updated_at = now()
			  WHERE uid = $7
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query,
		user.FullName, user.Phone, user.Address, user.City, user.State, user.ZipCode, userUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateUserStatus выставляет статус подписки пользователя и возвращает
// количество изменённых строк.
func (s *Storage) UpdateUserStatus(ctx context.Context, userUID, status string) (int, error) {
	const op = "storage.UpdateUserStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET subscription_status = $1, updated_at = now() WHERE uid = $2`
	result, err := s.DB.ExecContext(ctx, query, status, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateUserSubscription привязывает план к пользователю и выставляет статус подписки.
func (s *Storage) UpdateUserSubscription(ctx context.Context, userUID, planID, status string) (int, error) {
	const op = "storage.UpdateUserSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET plan_id = $1, subscription_status = $2, updated_at = now() WHERE uid = $3`
	result, err := s.DB.ExecContext(ctx, query, planID, status, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// DeleteUser удаляет запись пользователя и возвращает количество удалённых строк.
// Используется только как компенсирующее действие при неуспешной регистрации.
func (s *Storage) DeleteUser(ctx context.Context, userUID string) (int, error) {
	const op = "storage.DeleteUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM users WHERE uid = $1`
	result, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListUsers возвращает страницу пользователей с фильтрами по статусу и роли,
// а также общее количество подходящих записей.
func (s *Storage) ListUsers(ctx context.Context, status, role string, limit, offset int) ([]*models.User, int, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `, count(*) OVER() AS total
			  FROM users
			  WHERE ($1 = '' OR subscription_status = $1)
			    AND ($2 = '' OR role = $2)
			  ORDER BY created_at DESC
			  LIMIT $3 OFFSET $4`
	rows, err := s.DB.QueryContext(ctx, query, status, role, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	var total int
	for rows.Next() {
		u := &models.User{}
		var planID sql.NullString
		if err := rows.Scan(&u.UID, &u.Email, &u.FullName, &u.Phone, &u.Address, &u.City,
			&u.State, &u.ZipCode, &planID, &u.SubscriptionStatus, &u.Role,
			&u.CreatedAt, &u.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		if planID.Valid {
			u.PlanID = &planID.String
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}
