package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/techwave/project-manager/internal/models"
)

// CreateMilestone сохраняет новую веху и возвращает ее ID.
func (s *Storage) CreateMilestone(ctx context.Context, m models.Milestone) (int64, error) {
	const op = "storage.CreateMilestone"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO milestones (name, description, due_date, completed, project_id)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		m.Name, m.Description, m.DueDate, m.Completed, m.ProjectID).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadMilestone возвращает веху по ID.
func (s *Storage) ReadMilestone(ctx context.Context, id int64) (*models.Milestone, error) {
	const op = "storage.ReadMilestone"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, due_date, completed, project_id, created_at, updated_at
			  FROM milestones
			  WHERE id = $1`
	m := &models.Milestone{}
	row := s.DB.QueryRowContext(ctx, query, id)

	var dueDate sql.NullTime
	if err := row.Scan(&m.ID, &m.Name, &m.Description, &dueDate, &m.Completed,
		&m.ProjectID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if dueDate.Valid {
		m.DueDate = &dueDate.Time
	}
	return m, nil
}

// ListMilestones возвращает список вех с необязательными фильтрами
// по проекту, признаку достижения и контрольной дате, с пагинацией.
func (s *Storage) ListMilestones(ctx context.Context, filter models.MilestoneFilter, limit, offset int) ([]*models.Milestone, error) {
	const op = "storage.ListMilestones"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, due_date, completed, project_id, created_at, updated_at
			  FROM milestones
			  WHERE ($1 = 0 OR project_id = $1)
			    AND (NOT $2 OR completed = FALSE)
			    AND ($3::DATE IS NULL OR due_date <= $3)
			  ORDER BY id
			  LIMIT $4 OFFSET $5`
	rows, err := s.DB.QueryContext(ctx, query, filter.ProjectID, filter.PendingOnly, filter.DueBefore, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Milestone
	for rows.Next() {
		var m models.Milestone
		var dueDate sql.NullTime
		if err = rows.Scan(&m.ID, &m.Name, &m.Description, &dueDate, &m.Completed,
			&m.ProjectID, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if dueDate.Valid {
			m.DueDate = &dueDate.Time
		}
		result = append(result, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateMilestone обновляет данные вехи по ID и возвращает
// количество обновленных записей.
func (s *Storage) UpdateMilestone(ctx context.Context, m models.Milestone, id int64) (int, error) {
	const op = "storage.UpdateMilestone"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE milestones
			  SET name = $1, description = $2, due_date = $3, completed = $4, updated_at = NOW()
			  WHERE id = $5`
	res, err := s.DB.ExecContext(ctx, query, m.Name, m.Description, m.DueDate, m.Completed, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// RemoveMilestone удаляет веху по ID и возвращает количество удаленных записей.
func (s *Storage) RemoveMilestone(ctx context.Context, id int64) (int, error) {
	const op = "storage.RemoveMilestone"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM milestones WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}
