package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"taskify/internal/common"
	"taskify/internal/domain/model"
	"time"
)

// TaskRepository persists tasks. Every method is scoped by the owner id, so a
// task owned by someone else behaves exactly like a missing one.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	List(ctx context.Context, ownerID string, filter model.TaskFilter) ([]model.Task, int, error)
	FindByID(ctx context.Context, ownerID, taskID string) (*model.Task, error)
	Update(ctx context.Context, ownerID, taskID string, patch model.TaskPatch, updatedAt time.Time) (*model.Task, error)
	Delete(ctx context.Context, ownerID, taskID string) error
}

type sqlTaskRepository struct {
	db *sql.DB
}

func NewSQLTaskRepository(db *sql.DB) TaskRepository {
	return &sqlTaskRepository{db: db}
}

const taskColumns = `id, user_id, title, description, completed, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*model.Task, error) {
	var (
		t           model.Task
		description sql.NullString
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if description.Valid {
		t.Description = &description.String
	}
	return &t, nil
}

func (r *sqlTaskRepository) Create(ctx context.Context, t *model.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.UserID, t.Title, nullString(t.Description), t.Completed, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlTaskRepository.Create: %w", err)
	}
	return nil
}

func (r *sqlTaskRepository) List(ctx context.Context, ownerID string, filter model.TaskFilter) ([]model.Task, int, error) {
	conditions := []string{"user_id = $1"}
	args := []interface{}{ownerID}
	argID := 2

	if filter.Completed != nil {
		conditions = append(conditions, fmt.Sprintf("completed = $%d", argID))
		args = append(args, *filter.Completed)
		argID++
	}
	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`+whereClause, args...).Scan(&total); err != nil {
		if invalidIdentifier(err) {
			return []model.Task{}, 0, nil
		}
		return nil, 0, fmt.Errorf("sqlTaskRepository.List count: %w", err)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks` + whereClause +
		fmt.Sprintf(" ORDER BY created_at ASC, id ASC LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlTaskRepository.List query: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("sqlTaskRepository.List scan: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlTaskRepository.List rows.Err: %w", err)
	}
	return tasks, total, nil
}

func (r *sqlTaskRepository) FindByID(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, taskID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || invalidIdentifier(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("sqlTaskRepository.FindByID: %w", err)
	}
	return t, nil
}

// Update applies patch in a single statement so concurrent partial updates
// never overwrite each other's untouched fields, then reads the row back.
func (r *sqlTaskRepository) Update(ctx context.Context, ownerID, taskID string, patch model.TaskPatch, updatedAt time.Time) (*model.Task, error) {
	query := `UPDATE tasks SET
                title = COALESCE($3, title),
                description = CASE WHEN $4 THEN $5 ELSE description END,
                completed = COALESCE($6, completed),
                updated_at = $7
              WHERE id = $1 AND user_id = $2`

	title := sql.NullString{}
	if patch.Title != nil {
		title = sql.NullString{String: *patch.Title, Valid: true}
	}
	completed := sql.NullBool{}
	if patch.Completed != nil {
		completed = sql.NullBool{Bool: *patch.Completed, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, query,
		taskID, ownerID, title, patch.Description != nil, nullString(patch.Description), completed, updatedAt,
	)
	if err != nil {
		if invalidIdentifier(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("sqlTaskRepository.Update: %w", err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlTaskRepository.Update rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, common.ErrNotFound
	}
	return r.FindByID(ctx, ownerID, taskID)
}

func (r *sqlTaskRepository) Delete(ctx context.Context, ownerID, taskID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, taskID, ownerID)
	if err != nil {
		if invalidIdentifier(err) {
			return common.ErrNotFound
		}
		return fmt.Errorf("sqlTaskRepository.Delete: %w", err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlTaskRepository.Delete rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// nullString maps nil and "" to SQL NULL.
func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
