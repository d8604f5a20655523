// Package services содержит бизнес-логику управления проектами, включая кеширование.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/techwave/project-manager/internal/models"
)

// ProjectRepository определяет методы для работы с проектами в хранилище.
type ProjectRepository interface {
	// CreateProject добавляет новый проект и возвращает его ID.
	CreateProject(ctx context.Context, project models.Project) (int64, error)
	// ReadProject возвращает проект по ID.
	ReadProject(ctx context.Context, id int64) (*models.Project, error)
	// ListProjects возвращает список проектов по фильтру с пагинацией.
	ListProjects(ctx context.Context, filter models.ProjectFilter, limit, offset int) ([]*models.Project, error)
	// UpdateProject обновляет данные проекта по ID.
	UpdateProject(ctx context.Context, project models.Project, id int64) (int, error)
	// RemoveProject удаляет проект и возвращает количество удалённых записей.
	RemoveProject(ctx context.Context, id int64) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// ProjectService реализует бизнес-логику работы с проектами.
// Кешируются только чтения карточки проекта; проверки владения
// всегда идут напрямую в базу.
type ProjectService struct {
	repo  ProjectRepository
	cache Cache
	log   *slog.Logger
}

// NewProjectService создает новый экземпляр ProjectService.
func NewProjectService(repo ProjectRepository, cache Cache, log *slog.Logger) *ProjectService {
	return &ProjectService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func projectFromRequest(req models.DummyProject) (models.Project, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return models.Project{}, fmt.Errorf("invalid start date: %w", err)
	}
	var expectedEnd *time.Time
	if req.ExpectedEndDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ExpectedEndDate)
		if err != nil {
			return models.Project{}, fmt.Errorf("invalid expected end date: %w", err)
		}
		if parsed.Before(startDate) {
			return models.Project{}, fmt.Errorf("expected end date must not be earlier than start date")
		}
		expectedEnd = &parsed
	}
	status := req.Status
	if status == "" {
		status = models.ProjectStatusPending
	}
	return models.Project{
		Name:            req.Name,
		Description:     req.Description,
		StartDate:       startDate,
		ExpectedEndDate: expectedEnd,
		Status:          status,
		Budget:          req.Budget,
		ManagerID:       req.ManagerID,
	}, nil
}

// Create создает новый проект и возвращает его ID.
func (s *ProjectService) Create(ctx context.Context, req models.DummyProject) (int64, error) {
	project, err := projectFromRequest(req)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreateProject(ctx, project)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new project", slog.Int64("id", id))
	return id, nil
}

// Read возвращает проект по ID, используя кеш или репозиторий.
func (s *ProjectService) Read(ctx context.Context, id int64) (*models.Project, error) {
	var result *models.Project
	cacheKey := fmt.Sprintf("project:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("cache lookup failed", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// List возвращает список проектов по фильтру с пагинацией.
func (s *ProjectService) List(ctx context.Context, filter models.ProjectFilter, limit, offset int) ([]*models.Project, error) {
	return s.repo.ListProjects(ctx, filter, limit, offset)
}

// Update обновляет проект и инвалидирует кеш.
func (s *ProjectService) Update(ctx context.Context, req models.DummyProject, id int64) (int, error) {
	project, err := projectFromRequest(req)
	if err != nil {
		return 0, err
	}

	count, err := s.repo.UpdateProject(ctx, project, id)
	if err != nil {
		return 0, err
	}

	cacheKey := fmt.Sprintf("project:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return count, nil
}

// Remove удаляет проект вместе с задачами и вехами, инвалидирует кеш.
func (s *ProjectService) Remove(ctx context.Context, id int64) (int, error) {
	cacheKey := fmt.Sprintf("project:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	count, err := s.repo.RemoveProject(ctx, id)
	if err != nil {
		return 0, err
	}
	return count, nil
}
