// Package services содержит бизнес-логику управления вехами проектов.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/techwave/project-manager/internal/models"
)

// MilestoneRepository определяет методы для работы с вехами в хранилище.
type MilestoneRepository interface {
	// CreateMilestone добавляет новую веху и возвращает её ID.
	CreateMilestone(ctx context.Context, m models.Milestone) (int64, error)
	// ReadMilestone возвращает веху по ID.
	ReadMilestone(ctx context.Context, id int64) (*models.Milestone, error)
	// ListMilestones возвращает список вех по фильтру с пагинацией.
	ListMilestones(ctx context.Context, filter models.MilestoneFilter, limit, offset int) ([]*models.Milestone, error)
	// UpdateMilestone обновляет данные вехи по ID.
	UpdateMilestone(ctx context.Context, m models.Milestone, id int64) (int, error)
	// RemoveMilestone удаляет веху и возвращает количество удалённых записей.
	RemoveMilestone(ctx context.Context, id int64) (int, error)
}

// MilestoneService реализует бизнес-логику работы с вехами.
type MilestoneService struct {
	repo MilestoneRepository
	log  *slog.Logger
}

// NewMilestoneService создает новый экземпляр MilestoneService.
func NewMilestoneService(repo MilestoneRepository, log *slog.Logger) *MilestoneService {
	return &MilestoneService{repo: repo, log: log}
}

func milestoneFromRequest(req models.DummyMilestone) (models.Milestone, error) {
	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return models.Milestone{}, fmt.Errorf("invalid due date: %w", err)
		}
		dueDate = &parsed
	}
	completed := false
	if req.Completed != nil {
		completed = *req.Completed
	}
	return models.Milestone{
		Name:        req.Name,
		Description: req.Description,
		DueDate:     dueDate,
		Completed:   completed,
		ProjectID:   req.ProjectID,
	}, nil
}

// Create создает новую веху и возвращает её ID.
func (s *MilestoneService) Create(ctx context.Context, req models.DummyMilestone) (int64, error) {
	milestone, err := milestoneFromRequest(req)
	if err != nil {
		return 0, err
	}
	id, err := s.repo.CreateMilestone(ctx, milestone)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new milestone", slog.Int64("id", id))
	return id, nil
}

// Read возвращает веху по ID.
func (s *MilestoneService) Read(ctx context.Context, id int64) (*models.Milestone, error) {
	return s.repo.ReadMilestone(ctx, id)
}

// List возвращает список вех по фильтру с пагинацией.
func (s *MilestoneService) List(ctx context.Context, filter models.MilestoneFilter, limit, offset int) ([]*models.Milestone, error) {
	return s.repo.ListMilestones(ctx, filter, limit, offset)
}

// Update обновляет веху по ID.
func (s *MilestoneService) Update(ctx context.Context, req models.DummyMilestone, id int64) (int, error) {
	milestone, err := milestoneFromRequest(req)
	if err != nil {
		return 0, err
	}
	return s.repo.UpdateMilestone(ctx, milestone, id)
}

// Remove удаляет веху по ID.
func (s *MilestoneService) Remove(ctx context.Context, id int64) (int, error) {
	return s.repo.RemoveMilestone(ctx, id)
}
