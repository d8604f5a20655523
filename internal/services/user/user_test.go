package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/techwave/project-manager/internal/lib/password"
	"github.com/techwave/project-manager/internal/models"
)

// MockUserRepository реализует интерфейс UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) GetUser(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user models.User, id int64) (int, error) {
	args := m.Called(ctx, user, id)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) DeactivateUser(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func newTestService(repo *MockUserRepository) *UserService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewUserService(repo, logger)
}

func TestUserService_Create(t *testing.T) {
	t.Run("пароль хэшируется, роль по умолчанию DEVELOPER", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestService(repo)

		var saved models.User
		repo.On("CreateUser", mock.Anything, mock.AnythingOfType("models.User")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(models.User)
			}).
			Return(int64(5), nil)

		id, err := service.Create(context.Background(), models.DummyUser{
			Username:  "newdev",
			Email:     "newdev@example.com",
			Password:  "secret123",
			FirstName: "Новый",
			LastName:  "Разработчик",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(5), id)
		assert.Equal(t, models.RoleDeveloper, saved.Role)
		assert.True(t, saved.Active)
		assert.NotEqual(t, "secret123", saved.PasswordHash)
		assert.NoError(t, password.CompareHash(saved.PasswordHash, "secret123"))
		repo.AssertExpectations(t)
	})

	t.Run("пустой пароль отклоняется", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestService(repo)

		_, err := service.Create(context.Background(), models.DummyUser{
			Username: "nopass",
			Email:    "nopass@example.com",
		})

		assert.ErrorIs(t, err, ErrPasswordRequired)
		repo.AssertNotCalled(t, "CreateUser")
	})

	t.Run("явная роль сохраняется", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestService(repo)

		var saved models.User
		repo.On("CreateUser", mock.Anything, mock.AnythingOfType("models.User")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(models.User)
			}).
			Return(int64(6), nil)

		_, err := service.Create(context.Background(), models.DummyUser{
			Username: "pm",
			Email:    "pm@example.com",
			Password: "secret123",
			Role:     "PROJECT_MANAGER",
		})

		require.NoError(t, err)
		assert.Equal(t, models.RoleProjectManager, saved.Role)
	})
}

func TestUserService_Update(t *testing.T) {
	existing := &models.User{
		ID:           3,
		Username:     "dev1",
		Email:        "dev1@example.com",
		PasswordHash: "$2a$10$knownhashknownhashknownhashknownhashknownhashknownha",
		Role:         models.RoleDeveloper,
		Active:       true,
	}

	t.Run("без пароля хэш не меняется", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestService(repo)

		repo.On("GetUser", mock.Anything, int64(3)).Return(existing, nil)

		var saved models.User
		repo.On("UpdateUser", mock.Anything, mock.AnythingOfType("models.User"), int64(3)).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(models.User)
			}).
			Return(1, nil)

		count, err := service.Update(context.Background(), models.DummyUser{
			Username:  "dev1",
			Email:     "dev1@example.com",
			FirstName: "Обновленное",
		}, 3)

		require.NoError(t, err)
		assert.Equal(t, 1, count)
		assert.Equal(t, existing.PasswordHash, saved.PasswordHash)
		assert.Equal(t, models.RoleDeveloper, saved.Role)
	})

	t.Run("новый пароль перехэшируется", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestService(repo)

		repo.On("GetUser", mock.Anything, int64(3)).Return(existing, nil)

		var saved models.User
		repo.On("UpdateUser", mock.Anything, mock.AnythingOfType("models.User"), int64(3)).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(models.User)
			}).
			Return(1, nil)

		_, err := service.Update(context.Background(), models.DummyUser{
			Username: "dev1",
			Email:    "dev1@example.com",
			Password: "newsecret",
		}, 3)

		require.NoError(t, err)
		assert.NotEqual(t, existing.PasswordHash, saved.PasswordHash)
		assert.NoError(t, password.CompareHash(saved.PasswordHash, "newsecret"))
	})

	t.Run("ошибка чтения пробрасывается", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestService(repo)

		repo.On("GetUser", mock.Anything, int64(3)).Return(nil, errors.New("db error"))

		_, err := service.Update(context.Background(), models.DummyUser{Username: "dev1"}, 3)
		assert.Error(t, err)
		repo.AssertNotCalled(t, "UpdateUser")
	})
}

func TestUserService_Deactivate(t *testing.T) {
	repo := new(MockUserRepository)
	service := newTestService(repo)

	repo.On("DeactivateUser", mock.Anything, int64(9)).Return(1, nil)

	count, err := service.Deactivate(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	repo.AssertExpectations(t)
}
