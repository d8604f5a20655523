package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/techwave/project-manager/internal/models"
)

// CreateAttachment сохраняет метаданные вложения и возвращает его ID.
func (s *Storage) CreateAttachment(ctx context.Context, a models.Attachment) (int64, error) {
	const op = "storage.CreateAttachment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO attachments (file_name, content_type, storage_key, size_bytes,
			      uploaded_by_id, task_id, project_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		a.FileName, a.ContentType, a.StorageKey, a.SizeBytes,
		a.UploadedByID, a.TaskID, a.ProjectID).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadAttachment возвращает метаданные вложения по ID.
func (s *Storage) ReadAttachment(ctx context.Context, id int64) (*models.Attachment, error) {
	const op = "storage.ReadAttachment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, file_name, content_type, storage_key, size_bytes,
			      uploaded_by_id, task_id, project_id, uploaded_at
			  FROM attachments
			  WHERE id = $1`
	a := &models.Attachment{}
	row := s.DB.QueryRowContext(ctx, query, id)

	var taskID, projectID sql.NullInt64
	if err := row.Scan(&a.ID, &a.FileName, &a.ContentType, &a.StorageKey, &a.SizeBytes,
		&a.UploadedByID, &taskID, &projectID, &a.UploadedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if taskID.Valid {
		a.TaskID = &taskID.Int64
	}
	if projectID.Valid {
		a.ProjectID = &projectID.Int64
	}
	return a, nil
}

// ListAttachments возвращает список вложений с необязательными фильтрами
// по задаче, проекту и загрузившему пользователю, с пагинацией.
func (s *Storage) ListAttachments(ctx context.Context, filter models.AttachmentFilter, limit, offset int) ([]*models.Attachment, error) {
	const op = "storage.ListAttachments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, file_name, content_type, storage_key, size_bytes,
			      uploaded_by_id, task_id, project_id, uploaded_at
			  FROM attachments
			  WHERE ($1 = 0 OR task_id = $1)
			    AND ($2 = 0 OR project_id = $2)
			    AND ($3 = 0 OR uploaded_by_id = $3)
			  ORDER BY id
			  LIMIT $4 OFFSET $5`
	rows, err := s.DB.QueryContext(ctx, query, filter.TaskID, filter.ProjectID, filter.UploadedByID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Attachment
	for rows.Next() {
		var a models.Attachment
		var taskID, projectID sql.NullInt64
		if err = rows.Scan(&a.ID, &a.FileName, &a.ContentType, &a.StorageKey, &a.SizeBytes,
			&a.UploadedByID, &taskID, &projectID, &a.UploadedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if taskID.Valid {
			a.TaskID = &taskID.Int64
		}
		if projectID.Valid {
			a.ProjectID = &projectID.Int64
		}
		result = append(result, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateAttachment обновляет метаданные вложения по ID и возвращает
// количество измененных записей. Ключ хранилища и автор загрузки
// не меняются.
func (s *Storage) UpdateAttachment(ctx context.Context, a models.Attachment, id int64) (int, error) {
	const op = "storage.UpdateAttachment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE attachments
			  SET file_name = $1, content_type = $2, size_bytes = $3,
			      task_id = $4, project_id = $5
			  WHERE id = $6`
	res, err := s.DB.ExecContext(ctx, query,
		a.FileName, a.ContentType, a.SizeBytes, a.TaskID, a.ProjectID, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// FindAttachmentOwnership возвращает имена загрузившего пользователя и
// менеджера владеющего проекта. Проект берется напрямую из вложения
// либо из задачи, к которой оно прикреплено.
func (s *Storage) FindAttachmentOwnership(ctx context.Context, attachmentID int64) (*models.AttachmentOwnership, error) {
	const op = "storage.FindAttachmentOwnership"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.username, m.username
			  FROM attachments a
			  JOIN users u ON u.id = a.uploaded_by_id
			  LEFT JOIN tasks t ON t.id = a.task_id
			  JOIN projects p ON p.id = COALESCE(a.project_id, t.project_id)
			  JOIN users m ON m.id = p.manager_id
			  WHERE a.id = $1`
	own := &models.AttachmentOwnership{}
	if err := s.DB.QueryRowContext(ctx, query, attachmentID).Scan(
		&own.UploaderUsername, &own.ManagerUsername); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return own, nil
}

// RemoveAttachment удаляет метаданные вложения по ID и возвращает
// количество удаленных записей.
func (s *Storage) RemoveAttachment(ctx context.Context, id int64) (int, error) {
	const op = "storage.RemoveAttachment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}
