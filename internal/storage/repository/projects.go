package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/techwave/project-manager/internal/models"
)

// CreateProject сохраняет новый проект и возвращает его ID.
func (s *Storage) CreateProject(ctx context.Context, project models.Project) (int64, error) {
	const op = "storage.CreateProject"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO projects (name, description, start_date, expected_end_date, status, budget, manager_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		project.Name, project.Description, project.StartDate, project.ExpectedEndDate,
		project.Status, project.Budget, project.ManagerID).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadProject возвращает проект по ID.
func (s *Storage) ReadProject(ctx context.Context, id int64) (*models.Project, error) {
	const op = "storage.ReadProject"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, start_date, expected_end_date, status, budget,
			      manager_id, created_at, updated_at
			  FROM projects
			  WHERE id = $1`
	p := &models.Project{}
	row := s.DB.QueryRowContext(ctx, query, id)

	var expectedEndDate sql.NullTime
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.StartDate, &expectedEndDate,
		&p.Status, &p.Budget, &p.ManagerID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if expectedEndDate.Valid {
		p.ExpectedEndDate = &expectedEndDate.Time
	}
	return p, nil
}

// ListProjects возвращает список проектов с необязательными фильтрами
// по названию, статусу, менеджеру и дате начала, с пагинацией.
func (s *Storage) ListProjects(ctx context.Context, filter models.ProjectFilter, limit, offset int) ([]*models.Project, error) {
	const op = "storage.ListProjects"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, start_date, expected_end_date, status, budget,
			      manager_id, created_at, updated_at
			  FROM projects
			  WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
			    AND ($2 = '' OR status = $2)
			    AND ($3 = 0 OR manager_id = $3)
			    AND ($4::date IS NULL OR start_date > $4)
			  ORDER BY id
			  LIMIT $5 OFFSET $6`
	rows, err := s.DB.QueryContext(ctx, query, filter.Name, filter.Status, filter.ManagerID, filter.StartDateAfter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Project
	for rows.Next() {
		var p models.Project
		var expectedEndDate sql.NullTime
		if err = rows.Scan(&p.ID, &p.Name, &p.Description, &p.StartDate, &expectedEndDate,
			&p.Status, &p.Budget, &p.ManagerID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if expectedEndDate.Valid {
			p.ExpectedEndDate = &expectedEndDate.Time
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateProject обновляет данные проекта по ID и возвращает
// количество обновленных записей.
func (s *Storage) UpdateProject(ctx context.Context, project models.Project, id int64) (int, error) {
	const op = "storage.UpdateProject"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE projects
			  SET name = $1, description = $2, start_date = $3, expected_end_date = $4,
			      status = $5, budget = $6, manager_id = $7, updated_at = NOW()
			  WHERE id = $8`
	res, err := s.DB.ExecContext(ctx, query,
		project.Name, project.Description, project.StartDate, project.ExpectedEndDate,
		project.Status, project.Budget, project.ManagerID, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// RemoveProject удаляет проект по ID вместе с задачами, вехами
// и вложениями (каскад в схеме) и возвращает количество удаленных записей.
func (s *Storage) RemoveProject(ctx context.Context, id int64) (int, error) {
	const op = "storage.RemoveProject"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// FindProjectManager возвращает имя менеджера проекта.
// Используется политикой авторизации; результат не кешируется.
func (s *Storage) FindProjectManager(ctx context.Context, projectID int64) (string, error) {
	const op = "storage.FindProjectManager"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.username
			  FROM projects p
			  JOIN users u ON u.id = p.manager_id
			  WHERE p.id = $1`
	var manager string
	if err := s.DB.QueryRowContext(ctx, query, projectID).Scan(&manager); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return manager, nil
}
