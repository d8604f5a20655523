package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/techwave/project-manager/internal/models"
	"github.com/techwave/project-manager/internal/storage/repository"
)

// OwnershipRepository описывает точечные чтения хранилища,
// необходимые для проверок владения. Результаты не кешируются:
// отношения владения читаются в момент проверки.
type OwnershipRepository interface {
	// FindProjectManager возвращает имя менеджера проекта.
	FindProjectManager(ctx context.Context, projectID int64) (string, error)
	// FindTaskOwnership возвращает проект, менеджера и исполнителя задачи.
	FindTaskOwnership(ctx context.Context, taskID int64) (*models.TaskOwnership, error)
	// FindAttachmentOwnership возвращает загрузившего и менеджера
	// владеющего проекта вложения.
	FindAttachmentOwnership(ctx context.Context, attachmentID int64) (*models.AttachmentOwnership, error)
}

// Policy реализует процедурные проверки владения ресурсами.
//
// Каждая проверка сначала рассматривает роль: ADMIN получает доступ
// без обращения к хранилищу. Отсутствие ресурса трактуется как
// ErrResourceNotFound до любой проверки владения.
type Policy struct {
	repo OwnershipRepository
}

// NewPolicy создает новый экземпляр Policy.
func NewPolicy(repo OwnershipRepository) *Policy {
	return &Policy{repo: repo}
}

// CanManageProject разрешает изменение или удаление проекта:
// ADMIN, либо менеджер этого проекта.
func (p *Policy) CanManageProject(ctx context.Context, ident models.Identity, projectID int64) error {
	const op = "authz.CanManageProject"
	if ident.IsAdmin() {
		return nil
	}
	manager, err := p.repo.FindProjectManager(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResourceNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if manager != ident.Username {
		return ErrAccessDenied
	}
	return nil
}

// CanCreateTask разрешает создание задачи в проекте:
// ADMIN, либо менеджер проекта, в котором создается задача.
func (p *Policy) CanCreateTask(ctx context.Context, ident models.Identity, projectID int64) error {
	return p.CanManageProject(ctx, ident, projectID)
}

// CanUpdateTask разрешает изменение задачи: ADMIN, менеджер проекта
// задачи, либо ее исполнитель.
func (p *Policy) CanUpdateTask(ctx context.Context, ident models.Identity, taskID int64) error {
	const op = "authz.CanUpdateTask"
	if ident.IsAdmin() {
		return nil
	}
	own, err := p.repo.FindTaskOwnership(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResourceNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if own.ManagerUsername == ident.Username {
		return nil
	}
	if own.AssigneeUsername != nil && *own.AssigneeUsername == ident.Username {
		return nil
	}
	return ErrAccessDenied
}

// CanDeleteTask разрешает удаление задачи: ADMIN, либо менеджер
// проекта задачи. Исполнителю удаление не разрешено.
func (p *Policy) CanDeleteTask(ctx context.Context, ident models.Identity, taskID int64) error {
	const op = "authz.CanDeleteTask"
	if ident.IsAdmin() {
		return nil
	}
	own, err := p.repo.FindTaskOwnership(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResourceNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if own.ManagerUsername != ident.Username {
		return ErrAccessDenied
	}
	return nil
}

// CanManageAttachment разрешает изменение и удаление вложения:
// ADMIN, загрузивший пользователь, либо менеджер владеющего проекта.
func (p *Policy) CanManageAttachment(ctx context.Context, ident models.Identity, attachmentID int64) error {
	const op = "authz.CanManageAttachment"
	if ident.IsAdmin() {
		return nil
	}
	own, err := p.repo.FindAttachmentOwnership(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResourceNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if own.UploaderUsername == ident.Username || own.ManagerUsername == ident.Username {
		return nil
	}
	return ErrAccessDenied
}

// CanManageMilestone разрешает создание и изменение вех проекта:
// ADMIN, либо менеджер владеющего проекта.
func (p *Policy) CanManageMilestone(ctx context.Context, ident models.Identity, projectID int64) error {
	return p.CanManageProject(ctx, ident, projectID)
}
