// Package services содержит бизнес-логику управления файловыми вложениями.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/techwave/project-manager/internal/models"
)

// ErrTargetRequired возвращается, когда вложение не привязано
// ни к задаче, ни к проекту.
var ErrTargetRequired = errors.New("attachment must reference a task or a project")

// AttachmentRepository определяет методы для работы с вложениями в хранилище.
type AttachmentRepository interface {
	// CreateAttachment сохраняет метаданные вложения и возвращает ID.
	CreateAttachment(ctx context.Context, a models.Attachment) (int64, error)
	// ReadAttachment возвращает вложение по ID.
	ReadAttachment(ctx context.Context, id int64) (*models.Attachment, error)
	// ListAttachments возвращает список вложений по фильтру с пагинацией.
	ListAttachments(ctx context.Context, filter models.AttachmentFilter, limit, offset int) ([]*models.Attachment, error)
	// UpdateAttachment обновляет вложение и возвращает количество изменённых записей.
	UpdateAttachment(ctx context.Context, a models.Attachment, id int64) (int, error)
	// RemoveAttachment удаляет вложение и возвращает количество удалённых записей.
	RemoveAttachment(ctx context.Context, id int64) (int, error)
	// FindUserByUsernameOrEmail возвращает пользователя-загрузчика по имени.
	FindUserByUsernameOrEmail(ctx context.Context, value string) (*models.User, error)
}

// AttachmentService реализует операции над метаданными вложений.
// Ключ во внешнем хранилище генерируется на стороне сервиса.
type AttachmentService struct {
	repo AttachmentRepository
	log  *slog.Logger
}

// NewAttachmentService создает новый экземпляр AttachmentService.
func NewAttachmentService(repo AttachmentRepository, log *slog.Logger) *AttachmentService {
	return &AttachmentService{repo: repo, log: log}
}

// Create сохраняет метаданные вложения от имени указанного пользователя.
func (s *AttachmentService) Create(ctx context.Context, req models.DummyAttachment, username string) (int64, error) {
	if req.TaskID == nil && req.ProjectID == nil {
		return 0, ErrTargetRequired
	}

	uploader, err := s.repo.FindUserByUsernameOrEmail(ctx, username)
	if err != nil {
		return 0, err
	}

	attachment := models.Attachment{
		FileName:     req.FileName,
		ContentType:  req.ContentType,
		StorageKey:   uuid.NewString(),
		SizeBytes:    req.SizeBytes,
		UploadedByID: uploader.ID,
		TaskID:       req.TaskID,
		ProjectID:    req.ProjectID,
	}
	id, err := s.repo.CreateAttachment(ctx, attachment)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new attachment", slog.Int64("id", id))
	return id, nil
}

// Read возвращает вложение по ID.
func (s *AttachmentService) Read(ctx context.Context, id int64) (*models.Attachment, error) {
	return s.repo.ReadAttachment(ctx, id)
}

// List возвращает список вложений по фильтру с пагинацией.
func (s *AttachmentService) List(ctx context.Context, filter models.AttachmentFilter, limit, offset int) ([]*models.Attachment, error) {
	return s.repo.ListAttachments(ctx, filter, limit, offset)
}

// Update обновляет метаданные вложения по ID и возвращает количество
// изменённых записей. Ключ хранилища и автор загрузки не меняются.
func (s *AttachmentService) Update(ctx context.Context, req models.DummyAttachment, id int64) (int, error) {
	if req.TaskID == nil && req.ProjectID == nil {
		return 0, ErrTargetRequired
	}

	attachment := models.Attachment{
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		TaskID:      req.TaskID,
		ProjectID:   req.ProjectID,
	}
	count, err := s.repo.UpdateAttachment(ctx, attachment, id)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated attachment", slog.Int64("id", id))
	return count, nil
}

// Remove удаляет метаданные вложения по ID.
func (s *AttachmentService) Remove(ctx context.Context, id int64) (int, error) {
	return s.repo.RemoveAttachment(ctx, id)
}
