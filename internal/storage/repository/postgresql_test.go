package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techwave/project-manager/internal/models"
)

func TestStorage_Users(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	user := models.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed",
		FirstName:    "Alice",
		LastName:     "Smith",
		Role:         models.RoleProjectManager,
		Active:       true,
	}

	id, err := storage.CreateUser(ctx, user)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	t.Run("поиск по имени пользователя", func(t *testing.T) {
		found, err := storage.FindUserByUsernameOrEmail(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", found.Username)
		assert.Equal(t, models.RoleProjectManager, found.Role)
	})

	t.Run("поиск по email", func(t *testing.T) {
		found, err := storage.FindUserByUsernameOrEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "alice", found.Username)
	})

	t.Run("несуществующий пользователь", func(t *testing.T) {
		_, err := storage.FindUserByUsernameOrEmail(ctx, "nobody")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("деактивация вместо удаления", func(t *testing.T) {
		count, err := storage.DeactivateUser(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		found, err := storage.GetUser(ctx, id)
		require.NoError(t, err)
		assert.False(t, found.Active)
	})
}

func TestStorage_Ownership(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	managerID := factory.CreateUser(t, "manager", "manager@example.com", "PROJECT_MANAGER")
	devID := factory.CreateUser(t, "dev", "dev@example.com", "DEVELOPER")
	projectID := factory.CreateProject(t, "Internal Portal", managerID, time.Now())

	t.Run("менеджер проекта", func(t *testing.T) {
		username, err := storage.FindProjectManager(ctx, projectID)
		require.NoError(t, err)
		assert.Equal(t, "manager", username)
	})

	t.Run("менеджер несуществующего проекта", func(t *testing.T) {
		_, err := storage.FindProjectManager(ctx, projectID+1000)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("владение задачей с исполнителем", func(t *testing.T) {
		taskID := factory.CreateTask(t, "Fix login page", projectID, &devID)

		ownership, err := storage.FindTaskOwnership(ctx, taskID)
		require.NoError(t, err)
		assert.Equal(t, projectID, ownership.ProjectID)
		assert.Equal(t, "manager", ownership.ManagerUsername)
		require.NotNil(t, ownership.AssigneeUsername)
		assert.Equal(t, "dev", *ownership.AssigneeUsername)
	})

	t.Run("владение задачей без исполнителя", func(t *testing.T) {
		taskID := factory.CreateTask(t, "Write docs", projectID, nil)

		ownership, err := storage.FindTaskOwnership(ctx, taskID)
		require.NoError(t, err)
		assert.Nil(t, ownership.AssigneeUsername)
	})

	t.Run("владение несуществующей задачей", func(t *testing.T) {
		_, err := storage.FindTaskOwnership(ctx, 99999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("владение вложением проекта", func(t *testing.T) {
		attachmentID, err := storage.CreateAttachment(ctx, models.Attachment{
			FileName:     "plan.pdf",
			StorageKey:   "key-project",
			UploadedByID: devID,
			ProjectID:    &projectID,
		})
		require.NoError(t, err)

		ownership, err := storage.FindAttachmentOwnership(ctx, attachmentID)
		require.NoError(t, err)
		assert.Equal(t, "dev", ownership.UploaderUsername)
		assert.Equal(t, "manager", ownership.ManagerUsername)
	})

	t.Run("владение вложением задачи", func(t *testing.T) {
		taskID := factory.CreateTask(t, "Attach here", projectID, nil)
		attachmentID, err := storage.CreateAttachment(ctx, models.Attachment{
			FileName:     "log.txt",
			StorageKey:   "key-task",
			UploadedByID: devID,
			TaskID:       &taskID,
		})
		require.NoError(t, err)

		ownership, err := storage.FindAttachmentOwnership(ctx, attachmentID)
		require.NoError(t, err)
		assert.Equal(t, "manager", ownership.ManagerUsername)
	})

	t.Run("владение несуществующим вложением", func(t *testing.T) {
		_, err := storage.FindAttachmentOwnership(ctx, 99999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStorage_Projects(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	managerID := factory.CreateUser(t, "pm", "pm@example.com", "PROJECT_MANAGER")

	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	project := models.Project{
		Name:            "Billing Revamp",
		Description:     "Rework billing pipeline",
		StartDate:       time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		ExpectedEndDate: &end,
		Status:          models.ProjectStatusInProgress,
		Budget:          150000,
		ManagerID:       managerID,
	}

	id, err := storage.CreateProject(ctx, project)
	require.NoError(t, err)

	t.Run("чтение проекта", func(t *testing.T) {
		found, err := storage.ReadProject(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Billing Revamp", found.Name)
		assert.Equal(t, models.ProjectStatusInProgress, found.Status)
		require.NotNil(t, found.ExpectedEndDate)
	})

	t.Run("фильтр по статусу", func(t *testing.T) {
		list, err := storage.ListProjects(ctx, models.ProjectFilter{Status: models.ProjectStatusInProgress}, 10, 0)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("фильтр по имени", func(t *testing.T) {
		list, err := storage.ListProjects(ctx, models.ProjectFilter{Name: "billing"}, 10, 0)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		list, err = storage.ListProjects(ctx, models.ProjectFilter{Name: "nothing"}, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("фильтр по дате начала", func(t *testing.T) {
		before := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		list, err := storage.ListProjects(ctx, models.ProjectFilter{StartDateAfter: &before}, 10, 0)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		after := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		list, err = storage.ListProjects(ctx, models.ProjectFilter{StartDateAfter: &after}, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("обновление проекта", func(t *testing.T) {
		project.Status = models.ProjectStatusCompleted
		count, err := storage.UpdateProject(ctx, project, id)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		found, err := storage.ReadProject(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.ProjectStatusCompleted, found.Status)
	})

	t.Run("удаление проекта", func(t *testing.T) {
		count, err := storage.RemoveProject(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		_, err = storage.ReadProject(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
