// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/star-housekeeping/portal/internal/lib/jwt"
	"github.com/star-housekeeping/portal/internal/lib/password"
	"github.com/star-housekeeping/portal/internal/models"
	"github.com/star-housekeeping/portal/internal/storage/repository"
)

// Ошибки бизнес-уровня аутентификации.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidResetToken  = errors.New("invalid reset token")
)

// Роль в reset-токене. Такой токен годится только для смены пароля.
const resetRole = "password_reset"

// Время жизни reset-токена. Сессионный TTL здесь не используется:
// ссылка из письма должна протухать быстро.
const resetTokenTTL = time.Hour

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// CreateCredentials записывает хэш пароля нового пользователя.
	CreateCredentials(ctx context.Context, userUID, passwordHash string) error

	// GetCredentials возвращает хэш пароля пользователя.
	GetCredentials(ctx context.Context, userUID string) (string, error)

	// UpdateCredentials заменяет хэш пароля пользователя.
	UpdateCredentials(ctx context.Context, userUID, passwordHash string) (int, error)

	// DeleteUser удаляет пользователя по UID.
	DeleteUser(ctx context.Context, userUID string) (int, error)

	// GetUser возвращает пользователя по UID или ошибку, если не найден.
	GetUser(ctx context.Context, userUID string) (*models.User, error)

	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с дефолтной ролью customer.
//
// Запись выполняется в два шага: сначала строка пользователя, затем
// хэш пароля в credentials. Если второй шаг не удался, строка
// пользователя удаляется и регистрация завершается ошибкой.
func (s *AuthService) Register(ctx context.Context, user models.User, rawPassword string) (*models.User, string, error) {
	_, err := s.users.GetUserByEmail(ctx, user.Email)
	if err == nil {
		return nil, "", ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, "", err
	}

	user.Role = models.RoleCustomer
	user.SubscriptionStatus = models.StatusInactive
	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, "", err
	}

	if err := s.users.CreateCredentials(ctx, uid, hashed); err != nil {
		if _, delErr := s.users.DeleteUser(ctx, uid); delErr != nil {
			return nil, "", fmt.Errorf("store credentials: %w (cleanup failed: %v)", err, delErr)
		}
		return nil, "", fmt.Errorf("store credentials: %w", err)
	}

	created, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtMaker.GenerateToken(created.UID, created.Email, created.Role)
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
//
// Неизвестный email и неверный пароль неразличимы для клиента:
// в обоих случаях возвращается ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	hash, err := s.users.GetCredentials(ctx, user.UID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := password.CompareHash(hash, rawPassword); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtMaker.GenerateToken(user.UID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ValidateToken проверяет JWT и возвращает актуальную запись пользователя.
//
// Пользователь загружается из хранилища заново, так что удалённые и
// заблокированные учетные записи отсекаются, даже если токен еще жив.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	if claims.Role == resetRole {
		return nil, ErrInvalidCredentials
	}
	return s.users.GetUser(ctx, claims.UserUID)
}

// ForgotPassword выпускает токен для сброса пароля по email.
//
// Если email неизвестен, возвращается repository.ErrNotFound; наружу
// этот факт не раскрывается, ответ API одинаков в обоих случаях.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*models.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	token, err := s.jwtMaker.GenerateTokenWithTTL(user.UID, user.Email, resetRole, resetTokenTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ResetPassword принимает reset-токен и устанавливает новый пароль.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return ErrInvalidResetToken
	}
	if claims.Role != resetRole {
		return ErrInvalidResetToken
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return err
	}
	count, err := s.users.UpdateCredentials(ctx, claims.UserUID, hashed)
	if err != nil {
		return err
	}
	if count == 0 {
		return repository.ErrNotFound
	}
	return nil
}
