// Package services содержит бизнес-логику управления задачами,
// включая кеширование и публикацию событий о назначении.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/techwave/project-manager/internal/models"
)

// TaskRepository определяет методы для работы с задачами в хранилище.
type TaskRepository interface {
	// CreateTask добавляет новую задачу и возвращает её ID.
	CreateTask(ctx context.Context, task models.Task) (int64, error)
	// ReadTask возвращает задачу по ID.
	ReadTask(ctx context.Context, id int64) (*models.Task, error)
	// ListTasks возвращает список задач по фильтру с пагинацией.
	ListTasks(ctx context.Context, filter models.TaskFilter, limit, offset int) ([]*models.Task, error)
	// UpdateTask обновляет данные задачи по ID.
	UpdateTask(ctx context.Context, task models.Task, id int64) (int, error)
	// RemoveTask удаляет задачу и возвращает количество удалённых записей.
	RemoveTask(ctx context.Context, id int64) (int, error)
	// ReadProject возвращает проект по ID (для события о назначении).
	ReadProject(ctx context.Context, id int64) (*models.Project, error)
	// GetUser возвращает пользователя по ID (для события о назначении).
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// EventPublisher публикует событие в брокер сообщений.
type EventPublisher interface {
	PublishTaskAssigned(event models.TaskAssignedEvent) error
}

// TaskService реализует бизнес-логику работы с задачами.
type TaskService struct {
	repo      TaskRepository
	cache     Cache
	publisher EventPublisher
	log       *slog.Logger
}

// NewTaskService создает новый экземпляр TaskService.
func NewTaskService(repo TaskRepository, cache Cache, publisher EventPublisher, log *slog.Logger) *TaskService {
	return &TaskService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

func taskFromRequest(req models.DummyTask) (models.Task, error) {
	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return models.Task{}, fmt.Errorf("invalid due date: %w", err)
		}
		dueDate = &parsed
	}
	status := req.Status
	if status == "" {
		status = models.TaskStatusPending
	}
	priority := req.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	return models.Task{
		Name:        req.Name,
		Description: req.Description,
		DueDate:     dueDate,
		Status:      status,
		Priority:    priority,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
	}, nil
}

// Create создает новую задачу. Если задача сразу назначена исполнителю,
// публикуется событие о назначении.
func (s *TaskService) Create(ctx context.Context, req models.DummyTask) (int64, error) {
	task, err := taskFromRequest(req)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreateTask(ctx, task)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new task", slog.Int64("id", id))

	if task.AssigneeID != nil {
		s.notifyAssignee(ctx, id, task)
	}
	return id, nil
}

// Read возвращает задачу по ID, используя кеш или репозиторий.
func (s *TaskService) Read(ctx context.Context, id int64) (*models.Task, error) {
	var result *models.Task
	cacheKey := fmt.Sprintf("task:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("cache lookup failed", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// List возвращает список задач по фильтру с пагинацией.
func (s *TaskService) List(ctx context.Context, filter models.TaskFilter, limit, offset int) ([]*models.Task, error) {
	return s.repo.ListTasks(ctx, filter, limit, offset)
}

// Update обновляет задачу и инвалидирует кеш. Если у задачи сменился
// исполнитель, новому исполнителю публикуется событие о назначении.
func (s *TaskService) Update(ctx context.Context, req models.DummyTask, id int64) (int, error) {
	task, err := taskFromRequest(req)
	if err != nil {
		return 0, err
	}

	existing, err := s.repo.ReadTask(ctx, id)
	if err != nil {
		return 0, err
	}
	// Задача не переносится между проектами при обновлении.
	task.ProjectID = existing.ProjectID

	count, err := s.repo.UpdateTask(ctx, task, id)
	if err != nil {
		return 0, err
	}

	cacheKey := fmt.Sprintf("task:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	if task.AssigneeID != nil && (existing.AssigneeID == nil || *existing.AssigneeID != *task.AssigneeID) {
		s.notifyAssignee(ctx, id, task)
	}
	return count, nil
}

// Remove удаляет задачу и инвалидирует кеш.
func (s *TaskService) Remove(ctx context.Context, id int64) (int, error) {
	cacheKey := fmt.Sprintf("task:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	count, err := s.repo.RemoveTask(ctx, id)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// notifyAssignee собирает и публикует событие о назначении задачи.
// Ошибка публикации не прерывает операцию: уведомление вторично
// по отношению к сохраненным данным.
func (s *TaskService) notifyAssignee(ctx context.Context, taskID int64, task models.Task) {
	assignee, err := s.repo.GetUser(ctx, *task.AssigneeID)
	if err != nil {
		s.log.Warn("failed to load assignee for notification",
			slog.Int64("task_id", taskID), slog.Any("err", err))
		return
	}
	project, err := s.repo.ReadProject(ctx, task.ProjectID)
	if err != nil {
		s.log.Warn("failed to load project for notification",
			slog.Int64("task_id", taskID), slog.Any("err", err))
		return
	}

	event := models.TaskAssignedEvent{
		TaskID:       taskID,
		TaskName:     task.Name,
		ProjectName:  project.Name,
		AssigneeName: assignee.Username,
		Email:        assignee.Email,
	}
	if err := s.publisher.PublishTaskAssigned(event); err != nil {
		s.log.Error("failed to publish task assigned event",
			slog.Int64("task_id", taskID), slog.Any("err", err))
		return
	}
	s.log.Info("published task assigned event",
		slog.Int64("task_id", taskID), slog.String("assignee", assignee.Username))
}
