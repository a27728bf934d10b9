// Package user содержит бизнес-логику профилей и администрирования
// пользователей: обновление профиля, смена пароля, сведения о
// подписке и операции персонала.
package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/star-housekeeping/portal/internal/lib/password"
	"github.com/star-housekeeping/portal/internal/models"
	"github.com/star-housekeeping/portal/internal/storage/repository"
)

// ErrWrongPassword возвращается при несовпадении текущего пароля.
var ErrWrongPassword = errors.New("current password is incorrect")

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// UpdateUserProfile обновляет непустые поля профиля и возвращает свежую запись.
	UpdateUserProfile(ctx context.Context, userUID string, user models.User) (*models.User, error)
	// UpdateUserStatus выставляет статус подписки пользователя.
	UpdateUserStatus(ctx context.Context, userUID, status string) (int, error)
	// GetCredentials возвращает хэш пароля пользователя.
	GetCredentials(ctx context.Context, userUID string) (string, error)
	// UpdateCredentials заменяет хэш пароля пользователя.
	UpdateCredentials(ctx context.Context, userUID, passwordHash string) (int, error)
	// ListUsers возвращает страницу пользователей и общее количество.
	ListUsers(ctx context.Context, status, role string, limit, offset int) ([]*models.User, int, error)
}

// PlanRepository определяет доступ к каталогу планов.
type PlanRepository interface {
	// GetPlan возвращает доступный план по ID.
	GetPlan(ctx context.Context, id string) (*models.Plan, error)
}

// SubscriptionInfo сведения о подписке пользователя для личного кабинета.
type SubscriptionInfo struct {
	Status string       `json:"status"`
	Plan   *models.Plan `json:"plan,omitempty"`
}

// UserService реализует бизнес-логику работы с пользователями.
type UserService struct {
	users UserRepository
	plans PlanRepository
	log   *slog.Logger
}

// New создает новый экземпляр UserService.
func New(users UserRepository, plans PlanRepository, log *slog.Logger) *UserService {
	return &UserService{
		users: users,
		plans: plans,
		log:   log,
	}
}

// Get возвращает пользователя по UID.
func (s *UserService) Get(ctx context.Context, userUID string) (*models.User, error) {
	return s.users.GetUser(ctx, userUID)
}

// UpdateProfile обновляет непустые поля профиля пользователя.
func (s *UserService) UpdateProfile(ctx context.Context, userUID string, update models.User) (*models.User, error) {
	return s.users.UpdateUserProfile(ctx, userUID, update)
}

// ChangePassword проверяет текущий пароль и устанавливает новый.
func (s *UserService) ChangePassword(ctx context.Context, userUID, currentPassword, newPassword string) error {
	hash, err := s.users.GetCredentials(ctx, userUID)
	if err != nil {
		return err
	}
	if err := password.CompareHash(hash, currentPassword); err != nil {
		return ErrWrongPassword
	}

	newHash, err := password.GetHash(newPassword)
	if err != nil {
		return err
	}
	count, err := s.users.UpdateCredentials(ctx, userUID, newHash)
	if err != nil {
		return err
	}
	if count == 0 {
		return repository.ErrNotFound
	}
	s.log.Info("password changed", slog.String("user_uid", userUID))
	return nil
}

// Subscription возвращает статус подписки и текущий план пользователя.
func (s *UserService) Subscription(ctx context.Context, user *models.User) (*SubscriptionInfo, error) {
	info := &SubscriptionInfo{Status: user.SubscriptionStatus}
	if user.PlanID == nil {
		return info, nil
	}

	plan, err := s.plans.GetPlan(ctx, *user.PlanID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return info, nil
		}
		return nil, err
	}
	info.Plan = plan
	return info, nil
}

// List возвращает страницу пользователей для администратора.
func (s *UserService) List(ctx context.Context, status, role string, page, limit int) ([]*models.User, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.users.ListUsers(ctx, status, role, limit, (page-1)*limit)
}

// UpdateStatus выставляет статус подписки пользователя и возвращает
// свежую запись.
func (s *UserService) UpdateStatus(ctx context.Context, userUID, status string) (*models.User, error) {
	count, err := s.users.UpdateUserStatus(ctx, userUID, status)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, repository.ErrNotFound
	}
	return s.users.GetUser(ctx, userUID)
}

// Suspend блокирует учетную запись, не удаляя её данные. Платежи и
// тикеты пользователя сохраняются.
func (s *UserService) Suspend(ctx context.Context, userUID string) error {
	count, err := s.users.UpdateUserStatus(ctx, userUID, models.StatusSuspended)
	if err != nil {
		return err
	}
	if count == 0 {
		return repository.ErrNotFound
	}
	s.log.Info("user suspended", slog.String("user_uid", userUID))
	return nil
}
