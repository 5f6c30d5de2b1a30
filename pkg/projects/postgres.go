package projects

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore is the PostgreSQL-backed Store.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore wraps a connected pool.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) Create(ctx context.Context, p Project) error {
	query := `
		INSERT INTO projects (id, name, description, color, owner_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.pool.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Color, p.OwnerID, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (s *PgStore) Get(ctx context.Context, id uuid.UUID) (*Project, error) {
	query := `
		SELECT id, name, description, color, owner_id, is_active, created_at, updated_at
		FROM projects
		WHERE id = $1`

	var p Project
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Color, &p.OwnerID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("select project: %w", err)
	}
	return &p, nil
}

func (s *PgStore) ListByOwner(ctx context.Context, ownerID string) ([]Project, error) {
	query := `
		SELECT id, name, description, color, owner_id, is_active, created_at, updated_at
		FROM projects
		WHERE owner_id = $1 AND is_active = true
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	list := make([]Project, 0)
	for rows.Next() {
		var p Project
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Color, &p.OwnerID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return list, nil
}

func (s *PgStore) Update(ctx context.Context, p Project) error {
	query := `
		UPDATE projects
		SET name = $2, description = $3, color = $4, is_active = $5, updated_at = $6
		WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Color, p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (s *PgStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}
