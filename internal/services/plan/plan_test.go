package plan_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/star-housekeeping/portal/internal/models"
	"github.com/star-housekeeping/portal/internal/services/plan"
	"github.com/star-housekeeping/portal/internal/storage/repository"
)

type PlanRepoMock struct {
	mock.Mock
}

func (m *PlanRepoMock) ListPlans(ctx context.Context, filter models.PlanFilter) ([]*models.Plan, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Plan), args.Error(1)
}

func (m *PlanRepoMock) GetPlan(ctx context.Context, id string) (*models.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

func (m *PlanRepoMock) ListFeaturedPlans(ctx context.Context, limit int) ([]*models.Plan, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Plan), args.Error(1)
}

func (m *PlanRepoMock) CreatePlan(ctx context.Context, p models.Plan) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *PlanRepoMock) UpdatePlan(ctx context.Context, id string, p models.Plan) (int, error) {
	args := m.Called(ctx, id, p)
	return args.Int(0), args.Error(1)
}

func (m *PlanRepoMock) DeletePlan(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *CacheMock) InvalidatePrefix(prefix string) error {
	args := m.Called(prefix)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func missCache() *CacheMock {
	cache := new(CacheMock)
	cache.On("Get", mock.Anything, mock.Anything).Return(false, nil)
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	cache.On("Invalidate", mock.Anything).Return(nil)
	cache.On("InvalidatePrefix", mock.Anything).Return(nil)
	return cache
}

func TestPlanService_List(t *testing.T) {
	repoMock := new(PlanRepoMock)
	filter := models.PlanFilter{Category: "basic", SortBy: "price", Order: "asc"}
	repoMock.On("ListPlans", mock.Anything, filter).Return([]*models.Plan{
		{ID: "1", Name: "Basic Clean", Price: 89.99},
	}, nil).Once()

	svc := plan.NewPlanService(repoMock, missCache(), discardLogger())
	plans, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Basic Clean", plans[0].Name)
	repoMock.AssertExpectations(t)
}

func TestPlanService_List_CacheFailureFallsThrough(t *testing.T) {
	repoMock := new(PlanRepoMock)
	repoMock.On("ListPlans", mock.Anything, mock.Anything).Return([]*models.Plan{{ID: "1"}}, nil).Once()

	cache := new(CacheMock)
	cache.On("Get", mock.Anything, mock.Anything).Return(false, errors.New("redis down"))
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	svc := plan.NewPlanService(repoMock, cache, discardLogger())
	plans, err := svc.List(context.Background(), models.PlanFilter{})
	require.NoError(t, err)
	assert.Len(t, plans, 1)
}

func TestPlanService_Featured(t *testing.T) {
	repoMock := new(PlanRepoMock)
	repoMock.On("ListFeaturedPlans", mock.Anything, 3).Return([]*models.Plan{
		{ID: "1", Price: 149.99, IsFeatured: true},
		{ID: "2", Price: 249.99, IsFeatured: true},
	}, nil).Once()

	svc := plan.NewPlanService(repoMock, missCache(), discardLogger())
	plans, err := svc.Featured(context.Background())
	require.NoError(t, err)
	assert.Len(t, plans, 2)
	repoMock.AssertExpectations(t)
}

func TestPlanService_CheckAvailability(t *testing.T) {
	repoMock := new(PlanRepoMock)
	repoMock.On("ListPlans", mock.Anything, models.PlanFilter{}).Return([]*models.Plan{
		{ID: "everywhere", Availability: []string{}},
		{ID: "local", Availability: []string{"62701", "62702"}},
		{ID: "elsewhere", Availability: []string{"10001"}},
	}, nil).Once()

	svc := plan.NewPlanService(repoMock, missCache(), discardLogger())
	plans, err := svc.CheckAvailability(context.Background(), "62701")
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "everywhere", plans[0].ID)
	assert.Equal(t, "local", plans[1].ID)
}

func TestPlanService_UpdateNotFound(t *testing.T) {
	repoMock := new(PlanRepoMock)
	repoMock.On("UpdatePlan", mock.Anything, "missing", mock.Anything).Return(0, nil).Once()

	svc := plan.NewPlanService(repoMock, missCache(), discardLogger())
	err := svc.Update(context.Background(), "missing", models.Plan{Name: "X"})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlanService_DeleteInvalidatesCache(t *testing.T) {
	repoMock := new(PlanRepoMock)
	repoMock.On("DeletePlan", mock.Anything, "plan-1").Return(1, nil).Once()

	cache := new(CacheMock)
	cache.On("InvalidatePrefix", "plans:list:").Return(nil).Once()
	cache.On("Invalidate", "plans:featured").Return(nil).Once()
	cache.On("Invalidate", "plans:item:plan-1").Return(nil).Once()

	svc := plan.NewPlanService(repoMock, cache, discardLogger())
	require.NoError(t, svc.Delete(context.Background(), "plan-1"))
	cache.AssertExpectations(t)
}

func TestPlanService_CreateInvalidatesListCache(t *testing.T) {
	repoMock := new(PlanRepoMock)
	repoMock.On("CreatePlan", mock.Anything, mock.Anything).Return("plan-9", nil).Once()

	cache := new(CacheMock)
	cache.On("InvalidatePrefix", "plans:list:").Return(nil).Once()
	cache.On("Invalidate", "plans:featured").Return(nil).Once()

	svc := plan.NewPlanService(repoMock, cache, discardLogger())
	id, err := svc.Create(context.Background(), models.Plan{Name: "Deep Clean", ContractLength: 6})
	require.NoError(t, err)
	assert.Equal(t, "plan-9", id)
	cache.AssertExpectations(t)
}
