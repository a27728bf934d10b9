// Package plan содержит бизнес-логику каталога тарифных планов с кешированием.
package plan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/star-housekeeping/portal/internal/models"
	"github.com/star-housekeeping/portal/internal/storage/repository"
)

// Время жизни кеша каталога.
const cacheTTL = 5 * time.Minute

// PlanRepository определяет методы для работы с планами в хранилище.
type PlanRepository interface {
	// ListPlans возвращает доступные планы по фильтру.
	ListPlans(ctx context.Context, filter models.PlanFilter) ([]*models.Plan, error)
	// GetPlan возвращает доступный план по ID.
	GetPlan(ctx context.Context, id string) (*models.Plan, error)
	// ListFeaturedPlans возвращает не более limit рекомендуемых планов.
	ListFeaturedPlans(ctx context.Context, limit int) ([]*models.Plan, error)
	// CreatePlan добавляет новый план и возвращает его ID.
	CreatePlan(ctx context.Context, plan models.Plan) (string, error)
	// UpdatePlan обновляет план по ID и возвращает количество изменённых записей.
	UpdatePlan(ctx context.Context, id string, plan models.Plan) (int, error)
	// DeletePlan удаляет план по ID и возвращает количество удалённых записей.
	DeletePlan(ctx context.Context, id string) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
	// InvalidatePrefix удаляет все значения с указанным префиксом ключа.
	InvalidatePrefix(prefix string) error
}

// PlanService реализует бизнес-логику каталога планов, включая кеширование.
type PlanService struct {
	repo  PlanRepository
	cache Cache
	log   *slog.Logger
}

// NewPlanService создает новый экземпляр PlanService.
func NewPlanService(repo PlanRepository, cache Cache, log *slog.Logger) *PlanService {
	return &PlanService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// List возвращает доступные планы, используя кеш или репозиторий.
func (s *PlanService) List(ctx context.Context, filter models.PlanFilter) ([]*models.Plan, error) {
	cacheKey := fmt.Sprintf("plans:list:%s:%s:%s", filter.Category, filter.SortBy, filter.Order)

	var cached []*models.Plan
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read plans from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	plans, err := s.repo.ListPlans(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, plans, cacheTTL); err != nil {
		s.log.Warn("failed to cache plans", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return plans, nil
}

// Get возвращает доступный план по ID, используя кеш или репозиторий.
func (s *PlanService) Get(ctx context.Context, id string) (*models.Plan, error) {
	cacheKey := "plans:item:" + id

	var cached *models.Plan
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read plan from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found && cached != nil {
		return cached, nil
	}

	plan, err := s.repo.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, plan, cacheTTL); err != nil {
		s.log.Warn("failed to cache plan", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return plan, nil
}

// Featured возвращает не более трёх рекомендуемых планов по возрастанию цены.
func (s *PlanService) Featured(ctx context.Context) ([]*models.Plan, error) {
	const cacheKey = "plans:featured"

	var cached []*models.Plan
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read featured plans from cache", slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	plans, err := s.repo.ListFeaturedPlans(ctx, 3)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, plans, cacheTTL); err != nil {
		s.log.Warn("failed to cache featured plans", slog.Any("err", err))
	}
	return plans, nil
}

// CheckAvailability возвращает планы, доступные по указанному индексу.
// План с пустым списком зон считается доступным везде. Читает
// напрямую из репозитория: зона обслуживания не сериализуется в JSON
// и через кеш не проходит.
func (s *PlanService) CheckAvailability(ctx context.Context, zipCode string) ([]*models.Plan, error) {
	plans, err := s.repo.ListPlans(ctx, models.PlanFilter{})
	if err != nil {
		return nil, err
	}

	available := make([]*models.Plan, 0, len(plans))
	for _, p := range plans {
		if p.AvailableIn(zipCode) {
			available = append(available, p)
		}
	}
	return available, nil
}

// Create добавляет новый план и возвращает его ID.
func (s *PlanService) Create(ctx context.Context, plan models.Plan) (string, error) {
	id, err := s.repo.CreatePlan(ctx, plan)
	if err != nil {
		return "", err
	}
	s.invalidateCatalog("")
	s.log.Info("created new plan", slog.String("id", id))
	return id, nil
}

// Update обновляет план по ID.
func (s *PlanService) Update(ctx context.Context, id string, plan models.Plan) error {
	count, err := s.repo.UpdatePlan(ctx, id, plan)
	if err != nil {
		return err
	}
	if count == 0 {
		return repository.ErrNotFound
	}
	s.invalidateCatalog(id)
	return nil
}

// Delete удаляет план по ID.
func (s *PlanService) Delete(ctx context.Context, id string) error {
	count, err := s.repo.DeletePlan(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return repository.ErrNotFound
	}
	s.invalidateCatalog(id)
	return nil
}

func (s *PlanService) invalidateCatalog(id string) {
	if err := s.cache.InvalidatePrefix("plans:list:"); err != nil {
		s.log.Warn("failed to invalidate plan list cache", slog.Any("err", err))
	}
	if err := s.cache.Invalidate("plans:featured"); err != nil {
		s.log.Warn("failed to invalidate featured plans cache", slog.Any("err", err))
	}
	if id == "" {
		return
	}
	if err := s.cache.Invalidate("plans:item:" + id); err != nil {
		s.log.Warn("failed to invalidate plan cache", slog.String("id", id), slog.Any("err", err))
	}
}
