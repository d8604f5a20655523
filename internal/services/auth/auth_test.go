package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/techwave/project-manager/internal/lib/jwt"
	"github.com/techwave/project-manager/internal/lib/password"
	"github.com/techwave/project-manager/internal/models"
	"github.com/techwave/project-manager/internal/storage/repository"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByUsernameOrEmail(ctx context.Context, value string) (*models.User, error) {
	args := m.Called(ctx, value)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func testUser(t *testing.T, rawPassword string) *models.User {
	hash, err := password.GetHash(rawPassword)
	require.NoError(t, err)
	return &models.User{
		ID:           1,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
		Role:         models.RoleProjectManager,
		Active:       true,
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	maker := jwt.NewMaker("test-secret", time.Hour)

	t.Run("успешный вход по имени пользователя", func(t *testing.T) {
		repo := new(MockUserRepository)
		user := testUser(t, "correct-password")
		repo.On("FindUserByUsernameOrEmail", ctx, "alice").Return(user, nil)

		svc := NewAuthService(repo, maker)
		token, got, err := svc.Login(ctx, "alice", "correct-password")
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)

		claims, err := maker.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Subject)
		assert.Equal(t, []string{"PROJECT_MANAGER"}, claims.Roles)
		repo.AssertExpectations(t)
	})

	t.Run("вход по email", func(t *testing.T) {
		repo := new(MockUserRepository)
		user := testUser(t, "correct-password")
		repo.On("FindUserByUsernameOrEmail", ctx, "alice@example.com").Return(user, nil)

		svc := NewAuthService(repo, maker)
		_, got, err := svc.Login(ctx, "alice@example.com", "correct-password")
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
	})

	t.Run("неизвестный пользователь", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindUserByUsernameOrEmail", ctx, "nobody").Return(nil, repository.ErrNotFound)

		svc := NewAuthService(repo, maker)
		_, _, err := svc.Login(ctx, "nobody", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("неверный пароль", func(t *testing.T) {
		repo := new(MockUserRepository)
		user := testUser(t, "correct-password")
		repo.On("FindUserByUsernameOrEmail", ctx, "alice").Return(user, nil)

		svc := NewAuthService(repo, maker)
		_, _, err := svc.Login(ctx, "alice", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("деактивированный пользователь получает ту же ошибку", func(t *testing.T) {
		repo := new(MockUserRepository)
		user := testUser(t, "correct-password")
		user.Active = false
		repo.On("FindUserByUsernameOrEmail", ctx, "alice").Return(user, nil)

		svc := NewAuthService(repo, maker)
		_, _, err := svc.Login(ctx, "alice", "correct-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("ошибка хранилища не маскируется", func(t *testing.T) {
		repo := new(MockUserRepository)
		storageErr := errors.New("connection refused")
		repo.On("FindUserByUsernameOrEmail", ctx, "alice").Return(nil, storageErr)

		svc := NewAuthService(repo, maker)
		_, _, err := svc.Login(ctx, "alice", "correct-password")
		assert.ErrorIs(t, err, storageErr)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}
