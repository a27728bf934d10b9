package user_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/star-housekeeping/portal/internal/lib/password"
	"github.com/star-housekeeping/portal/internal/models"
	"github.com/star-housekeeping/portal/internal/services/user"
	"github.com/star-housekeeping/portal/internal/storage/repository"
)

type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdateUserProfile(ctx context.Context, userUID string, u models.User) (*models.User, error) {
	args := m.Called(ctx, userUID, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdateUserStatus(ctx context.Context, userUID, status string) (int, error) {
	args := m.Called(ctx, userUID, status)
	return args.Int(0), args.Error(1)
}

func (m *UserRepoMock) GetCredentials(ctx context.Context, userUID string) (string, error) {
	args := m.Called(ctx, userUID)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) UpdateCredentials(ctx context.Context, userUID, passwordHash string) (int, error) {
	args := m.Called(ctx, userUID, passwordHash)
	return args.Int(0), args.Error(1)
}

func (m *UserRepoMock) ListUsers(ctx context.Context, status, role string, limit, offset int) ([]*models.User, int, error) {
	args := m.Called(ctx, status, role, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.User), args.Int(1), args.Error(2)
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

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestUserService_ChangePassword(t *testing.T) {
	hash, err := password.GetHash("old-password")
	require.NoError(t, err)

	t.Run("correct current password", func(t *testing.T) {
		repoMock := new(UserRepoMock)
		repoMock.On("GetCredentials", mock.Anything, "uid-1").Return(hash, nil).Once()
		repoMock.On("UpdateCredentials", mock.Anything, "uid-1", mock.MatchedBy(func(newHash string) bool {
			return password.CompareHash(newHash, "new-password") == nil
		})).Return(1, nil).Once()

		svc := user.New(repoMock, new(PlanRepoMock), discardLogger())
		err := svc.ChangePassword(context.Background(), "uid-1", "old-password", "new-password")
		require.NoError(t, err)
		repoMock.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		repoMock := new(UserRepoMock)
		repoMock.On("GetCredentials", mock.Anything, "uid-1").Return(hash, nil).Once()

		svc := user.New(repoMock, new(PlanRepoMock), discardLogger())
		err := svc.ChangePassword(context.Background(), "uid-1", "bad-password", "new-password")
		require.ErrorIs(t, err, user.ErrWrongPassword)
		repoMock.AssertNotCalled(t, "UpdateCredentials", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUserService_Subscription(t *testing.T) {
	t.Run("without plan", func(t *testing.T) {
		svc := user.New(new(UserRepoMock), new(PlanRepoMock), discardLogger())
		info, err := svc.Subscription(context.Background(), &models.User{
			UID: "uid-1", SubscriptionStatus: models.StatusInactive,
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusInactive, info.Status)
		assert.Nil(t, info.Plan)
	})

	t.Run("with plan", func(t *testing.T) {
		plansMock := new(PlanRepoMock)
		plansMock.On("GetPlan", mock.Anything, "plan-1").Return(&models.Plan{
			ID: "plan-1", Name: "Standard Clean",
		}, nil).Once()

		planID := "plan-1"
		svc := user.New(new(UserRepoMock), plansMock, discardLogger())
		info, err := svc.Subscription(context.Background(), &models.User{
			UID: "uid-1", PlanID: &planID, SubscriptionStatus: models.StatusActive,
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusActive, info.Status)
		require.NotNil(t, info.Plan)
		assert.Equal(t, "Standard Clean", info.Plan.Name)
	})

	t.Run("retired plan is not an error", func(t *testing.T) {
		plansMock := new(PlanRepoMock)
		plansMock.On("GetPlan", mock.Anything, "plan-old").Return(nil, repository.ErrNotFound).Once()

		planID := "plan-old"
		svc := user.New(new(UserRepoMock), plansMock, discardLogger())
		info, err := svc.Subscription(context.Background(), &models.User{
			UID: "uid-1", PlanID: &planID, SubscriptionStatus: models.StatusActive,
		})
		require.NoError(t, err)
		assert.Nil(t, info.Plan)
	})
}

func TestUserService_List(t *testing.T) {
	repoMock := new(UserRepoMock)
	repoMock.On("ListUsers", mock.Anything, models.StatusActive, "", 20, 20).
		Return([]*models.User{{UID: "uid-1"}}, 41, nil).Once()

	svc := user.New(repoMock, new(PlanRepoMock), discardLogger())
	users, total, err := svc.List(context.Background(), models.StatusActive, "", 2, 200)
	require.NoError(t, err)
	assert.Equal(t, 41, total)
	assert.Len(t, users, 1)
	repoMock.AssertExpectations(t)
}

func TestUserService_Suspend(t *testing.T) {
	t.Run("existing user", func(t *testing.T) {
		repoMock := new(UserRepoMock)
		repoMock.On("UpdateUserStatus", mock.Anything, "uid-1", models.StatusSuspended).Return(1, nil).Once()

		svc := user.New(repoMock, new(PlanRepoMock), discardLogger())
		require.NoError(t, svc.Suspend(context.Background(), "uid-1"))
	})

	t.Run("missing user", func(t *testing.T) {
		repoMock := new(UserRepoMock)
		repoMock.On("UpdateUserStatus", mock.Anything, "missing", models.StatusSuspended).Return(0, nil).Once()

		svc := user.New(repoMock, new(PlanRepoMock), discardLogger())
		err := svc.Suspend(context.Background(), "missing")
		require.ErrorIs(t, err, repository.ErrNotFound)
	})
}
