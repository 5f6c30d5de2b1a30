package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, title, description, status, priority, due_date, tags, is_completed,
	project_id, created_by_id, assigned_to_id, created_at, updated_at`

// PgStore is the PostgreSQL-backed Store. Tags live in a text[] column;
// pgx maps it to []string directly.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore wraps a connected pool.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) Create(ctx context.Context, t Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := s.pool.Exec(ctx, query,
		t.ID, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.Tags, t.IsCompleted,
		t.ProjectID, t.CreatedByID, nullableID(t.AssignedToID), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *PgStore) Get(ctx context.Context, id uuid.UUID) (*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	row := s.pool.QueryRow(ctx, query, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("select task: %w", err)
	}
	return t, nil
}

// ListByUser returns tasks the user created or is assigned to, newest
// first.
func (s *PgStore) ListByUser(ctx context.Context, userID string) ([]Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE created_by_id = $1 OR assigned_to_id = $1
		ORDER BY created_at DESC`

	return s.list(ctx, query, userID)
}

func (s *PgStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE project_id = $1
		ORDER BY created_at DESC`

	return s.list(ctx, query, projectID)
}

func (s *PgStore) Update(ctx context.Context, t Task) error {
	query := `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, priority = $5, due_date = $6,
			tags = $7, is_completed = $8, assigned_to_id = $9, updated_at = $10
		WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query,
		t.ID, t.Title, t.Description, t.Status, t.Priority, t.DueDate,
		t.Tags, t.IsCompleted, nullableID(t.AssignedToID), t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *PgStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *PgStore) list(ctx context.Context, query string, arg any) ([]Task, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	list := make([]Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		list = append(list, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return list, nil
}

func scanTask(row pgx.Row) (*Task, error) {
	var (
		t        Task
		assignee *string
	)
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate, &t.Tags, &t.IsCompleted,
		&t.ProjectID, &t.CreatedByID, &assignee, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if assignee != nil {
		t.AssignedToID = *assignee
	}
	return &t, nil
}

// nullableID maps the empty assignee to NULL.
func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
