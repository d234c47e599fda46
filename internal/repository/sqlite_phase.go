package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stagegate/stagegate/internal/db"
	"github.com/stagegate/stagegate/internal/domain"
)

// SQLitePhaseRepo implements PhaseRepo using a SQLite database.
type SQLitePhaseRepo struct {
	db db.DBTX
}

// NewSQLitePhaseRepo creates a new SQLitePhaseRepo.
func NewSQLitePhaseRepo(conn db.DBTX) *SQLitePhaseRepo {
	return &SQLitePhaseRepo{db: conn}
}

func (r *SQLitePhaseRepo) Create(ctx context.Context, p *domain.Phase) error {
	query := `INSERT INTO phases (id, project_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.ProjectID,
		p.Name,
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting phase: %w", err)
	}
	return nil
}

func (r *SQLitePhaseRepo) GetByID(ctx context.Context, id string) (*domain.Phase, error) {
	query := `SELECT id, project_id, name, created_at, updated_at FROM phases WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var p domain.Phase
	var createdAtStr, updatedAtStr string
	if err := row.Scan(&p.ID, &p.ProjectID, &p.Name, &createdAtStr, &updatedAtStr); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("phase: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning phase: %w", err)
	}
	if err := parseTimestamps(&p.CreatedAt, &p.UpdatedAt, createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByProject returns the project's phases in creation order.
func (r *SQLitePhaseRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Phase, error) {
	query := `SELECT id, project_id, name, created_at, updated_at FROM phases WHERE project_id = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing phases: %w", err)
	}
	defer rows.Close()

	var phases []*domain.Phase
	for rows.Next() {
		var p domain.Phase
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.Name, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning phase row: %w", err)
		}
		if err := parseTimestamps(&p.CreatedAt, &p.UpdatedAt, createdAtStr, updatedAtStr); err != nil {
			return nil, err
		}
		phases = append(phases, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating phases: %w", err)
	}
	return phases, nil
}

func (r *SQLitePhaseRepo) Update(ctx context.Context, p *domain.Phase) error {
	query := `UPDATE phases SET name = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, p.Name, p.UpdatedAt.Format(time.RFC3339), p.ID)
	if err != nil {
		return fmt.Errorf("updating phase: %w", err)
	}
	return nil
}

func (r *SQLitePhaseRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM phases WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting phase: %w", err)
	}
	return nil
}
