package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/techwave/project-manager/internal/models"
)

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) CreateTask(ctx context.Context, task models.Task) (int64, error) {
	args := m.Called(ctx, task)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) ReadTask(ctx context.Context, id int64) (*models.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(*models.Task)
	return task, args.Error(1)
}

func (m *MockTaskRepository) ListTasks(ctx context.Context, filter models.TaskFilter, limit, offset int) ([]*models.Task, error) {
	args := m.Called(ctx, filter, limit, offset)
	tasks, _ := args.Get(0).([]*models.Task)
	return tasks, args.Error(1)
}

func (m *MockTaskRepository) UpdateTask(ctx context.Context, task models.Task, id int64) (int, error) {
	args := m.Called(ctx, task, id)
	return args.Int(0), args.Error(1)
}

func (m *MockTaskRepository) RemoveTask(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockTaskRepository) ReadProject(ctx context.Context, id int64) (*models.Project, error) {
	args := m.Called(ctx, id)
	project, _ := args.Get(0).(*models.Project)
	return project, args.Error(1)
}

func (m *MockTaskRepository) GetUser(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishTaskAssigned(event models.TaskAssignedEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("задача без исполнителя не публикует событие", func(t *testing.T) {
		repo := new(MockTaskRepository)
		cache := new(MockCache)
		publisher := new(MockPublisher)

		repo.On("CreateTask", ctx, mock.AnythingOfType("models.Task")).Return(int64(1), nil)

		svc := NewTaskService(repo, cache, publisher, newNoopLogger())
		id, err := svc.Create(ctx, models.DummyTask{
			Name:      "Write docs",
			ProjectID: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
		publisher.AssertNotCalled(t, "PublishTaskAssigned", mock.Anything)
	})

	t.Run("назначенная задача публикует событие", func(t *testing.T) {
		repo := new(MockTaskRepository)
		cache := new(MockCache)
		publisher := new(MockPublisher)

		assigneeID := int64(7)
		repo.On("CreateTask", ctx, mock.AnythingOfType("models.Task")).Return(int64(2), nil)
		repo.On("GetUser", ctx, assigneeID).Return(&models.User{
			ID: assigneeID, Username: "bob", Email: "bob@example.com",
		}, nil)
		repo.On("ReadProject", ctx, int64(10)).Return(&models.Project{
			ID: 10, Name: "Internal Portal",
		}, nil)
		publisher.On("PublishTaskAssigned", models.TaskAssignedEvent{
			TaskID:       2,
			TaskName:     "Fix login page",
			ProjectName:  "Internal Portal",
			AssigneeName: "bob",
			Email:        "bob@example.com",
		}).Return(nil)

		svc := NewTaskService(repo, cache, publisher, newNoopLogger())
		id, err := svc.Create(ctx, models.DummyTask{
			Name:       "Fix login page",
			ProjectID:  10,
			AssigneeID: &assigneeID,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), id)
		publisher.AssertExpectations(t)
	})

	t.Run("некорректный срок выполнения", func(t *testing.T) {
		repo := new(MockTaskRepository)
		cache := new(MockCache)
		publisher := new(MockPublisher)

		svc := NewTaskService(repo, cache, publisher, newNoopLogger())
		_, err := svc.Create(ctx, models.DummyTask{
			Name:      "Broken",
			ProjectID: 10,
			DueDate:   "31-12-2026",
		})
		assert.Error(t, err)
		repo.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything)
	})
}

func TestTaskService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("смена исполнителя публикует событие", func(t *testing.T) {
		repo := new(MockTaskRepository)
		cache := new(MockCache)
		publisher := new(MockPublisher)

		oldAssignee := int64(3)
		newAssignee := int64(7)
		repo.On("ReadTask", ctx, int64(5)).Return(&models.Task{
			ID: 5, Name: "Fix login page", ProjectID: 10, AssigneeID: &oldAssignee,
		}, nil)
		repo.On("UpdateTask", ctx, mock.AnythingOfType("models.Task"), int64(5)).Return(1, nil)
		cache.On("Invalidate", "task:5").Return(nil)
		repo.On("GetUser", ctx, newAssignee).Return(&models.User{
			ID: newAssignee, Username: "bob", Email: "bob@example.com",
		}, nil)
		repo.On("ReadProject", ctx, int64(10)).Return(&models.Project{
			ID: 10, Name: "Internal Portal",
		}, nil)
		publisher.On("PublishTaskAssigned", mock.AnythingOfType("models.TaskAssignedEvent")).Return(nil)

		svc := NewTaskService(repo, cache, publisher, newNoopLogger())
		count, err := svc.Update(ctx, models.DummyTask{
			Name:       "Fix login page",
			ProjectID:  10,
			AssigneeID: &newAssignee,
		}, 5)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		publisher.AssertExpectations(t)
	})

	t.Run("проект задачи не меняется при обновлении", func(t *testing.T) {
		repo := new(MockTaskRepository)
		cache := new(MockCache)
		publisher := new(MockPublisher)

		newAssignee := int64(7)
		repo.On("ReadTask", ctx, int64(5)).Return(&models.Task{
			ID: 5, Name: "Fix login page", ProjectID: 10,
		}, nil)
		var saved models.Task
		repo.On("UpdateTask", ctx, mock.AnythingOfType("models.Task"), int64(5)).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(models.Task)
			}).
			Return(1, nil)
		cache.On("Invalidate", "task:5").Return(nil)
		repo.On("GetUser", ctx, newAssignee).Return(&models.User{
			ID: newAssignee, Username: "bob", Email: "bob@example.com",
		}, nil)
		// Проект для события берется из сохраненной задачи,
		// а не из тела запроса.
		repo.On("ReadProject", ctx, int64(10)).Return(&models.Project{
			ID: 10, Name: "Internal Portal",
		}, nil)
		publisher.On("PublishTaskAssigned", mock.MatchedBy(func(e models.TaskAssignedEvent) bool {
			return e.ProjectName == "Internal Portal"
		})).Return(nil)

		svc := NewTaskService(repo, cache, publisher, newNoopLogger())
		count, err := svc.Update(ctx, models.DummyTask{
			Name:       "Fix login page",
			ProjectID:  99,
			AssigneeID: &newAssignee,
		}, 5)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		assert.Equal(t, int64(10), saved.ProjectID)
		repo.AssertNotCalled(t, "ReadProject", ctx, int64(99))
		publisher.AssertExpectations(t)
	})

	t.Run("прежний исполнитель не получает повторного события", func(t *testing.T) {
		repo := new(MockTaskRepository)
		cache := new(MockCache)
		publisher := new(MockPublisher)

		assignee := int64(3)
		repo.On("ReadTask", ctx, int64(5)).Return(&models.Task{
			ID: 5, Name: "Fix login page", ProjectID: 10, AssigneeID: &assignee,
		}, nil)
		repo.On("UpdateTask", ctx, mock.AnythingOfType("models.Task"), int64(5)).Return(1, nil)
		cache.On("Invalidate", "task:5").Return(nil)

		svc := NewTaskService(repo, cache, publisher, newNoopLogger())
		_, err := svc.Update(ctx, models.DummyTask{
			Name:       "Fix login page",
			ProjectID:  10,
			AssigneeID: &assignee,
		}, 5)
		require.NoError(t, err)
		publisher.AssertNotCalled(t, "PublishTaskAssigned", mock.Anything)
	})
}

func TestTaskService_Read(t *testing.T) {
	ctx := context.Background()

	t.Run("промах кеша идет в репозиторий", func(t *testing.T) {
		repo := new(MockTaskRepository)
		cache := new(MockCache)
		publisher := new(MockPublisher)

		task := &models.Task{ID: 5, Name: "Fix login page", ProjectID: 10}
		cache.On("Get", "task:5", mock.Anything).Return(false, nil)
		repo.On("ReadTask", ctx, int64(5)).Return(task, nil)
		cache.On("Set", "task:5", task, time.Hour).Return(nil)

		svc := NewTaskService(repo, cache, publisher, newNoopLogger())
		got, err := svc.Read(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, task, got)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})
}
