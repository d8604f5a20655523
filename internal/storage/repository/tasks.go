package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/techwave/project-manager/internal/models"
)

// CreateTask сохраняет новую задачу и возвращает ее ID.
func (s *Storage) CreateTask(ctx context.Context, task models.Task) (int64, error) {
	const op = "storage.CreateTask"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO tasks (name, description, due_date, status, priority, project_id, assignee_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		task.Name, task.Description, task.DueDate, task.Status, task.Priority,
		task.ProjectID, task.AssigneeID).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadTask возвращает задачу по ID.
func (s *Storage) ReadTask(ctx context.Context, id int64) (*models.Task, error) {
	const op = "storage.ReadTask"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, due_date, status, priority, project_id,
			      assignee_id, created_at, updated_at
			  FROM tasks
			  WHERE id = $1`
	t := &models.Task{}
	row := s.DB.QueryRowContext(ctx, query, id)

	var dueDate sql.NullTime
	var assigneeID sql.NullInt64
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &dueDate, &t.Status, &t.Priority,
		&t.ProjectID, &assigneeID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	if assigneeID.Valid {
		t.AssigneeID = &assigneeID.Int64
	}
	return t, nil
}

// ListTasks возвращает список задач с необязательными фильтрами
// по проекту, исполнителю и статусу, с пагинацией.
func (s *Storage) ListTasks(ctx context.Context, filter models.TaskFilter, limit, offset int) ([]*models.Task, error) {
	const op = "storage.ListTasks"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, due_date, status, priority, project_id,
			      assignee_id, created_at, updated_at
			  FROM tasks
			  WHERE ($1 = 0 OR project_id = $1)
			    AND ($2 = 0 OR assignee_id = $2)
			    AND ($3 = '' OR status = $3)
			  ORDER BY id
			  LIMIT $4 OFFSET $5`
	rows, err := s.DB.QueryContext(ctx, query, filter.ProjectID, filter.AssigneeID, filter.Status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Task
	for rows.Next() {
		var t models.Task
		var dueDate sql.NullTime
		var assigneeID sql.NullInt64
		if err = rows.Scan(&t.ID, &t.Name, &t.Description, &dueDate, &t.Status, &t.Priority,
			&t.ProjectID, &assigneeID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if dueDate.Valid {
			t.DueDate = &dueDate.Time
		}
		if assigneeID.Valid {
			t.AssigneeID = &assigneeID.Int64
		}
		result = append(result, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateTask обновляет данные задачи по ID и возвращает
// количество обновленных записей.
func (s *Storage) UpdateTask(ctx context.Context, task models.Task, id int64) (int, error) {
	const op = "storage.UpdateTask"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE tasks
			  SET name = $1, description = $2, due_date = $3, status = $4,
			      priority = $5, assignee_id = $6, updated_at = NOW()
			  WHERE id = $7`
	res, err := s.DB.ExecContext(ctx, query,
		task.Name, task.Description, task.DueDate, task.Status,
		task.Priority, task.AssigneeID, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// RemoveTask удаляет задачу по ID и возвращает количество удаленных записей.
func (s *Storage) RemoveTask(ctx context.Context, id int64) (int, error) {
	const op = "storage.RemoveTask"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// FindTaskOwnership возвращает проект задачи, имя менеджера этого
// проекта и имя исполнителя. Используется политикой авторизации.
func (s *Storage) FindTaskOwnership(ctx context.Context, taskID int64) (*models.TaskOwnership, error) {
	const op = "storage.FindTaskOwnership"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT t.project_id, m.username, a.username
			  FROM tasks t
			  JOIN projects p ON p.id = t.project_id
			  JOIN users m ON m.id = p.manager_id
			  LEFT JOIN users a ON a.id = t.assignee_id
			  WHERE t.id = $1`
	own := &models.TaskOwnership{}
	var assignee sql.NullString
	if err := s.DB.QueryRowContext(ctx, query, taskID).Scan(&own.ProjectID, &own.ManagerUsername, &assignee); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if assignee.Valid {
		own.AssigneeUsername = &assignee.String
	}
	return own, nil
}
