package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stagegate/stagegate/internal/db"
	"github.com/stagegate/stagegate/internal/domain"
)

// SQLiteScenarioRepo implements ScenarioRepo using a SQLite database.
type SQLiteScenarioRepo struct {
	db db.DBTX
}

// NewSQLiteScenarioRepo creates a new SQLiteScenarioRepo.
func NewSQLiteScenarioRepo(conn db.DBTX) *SQLiteScenarioRepo {
	return &SQLiteScenarioRepo{db: conn}
}

func (r *SQLiteScenarioRepo) Create(ctx context.Context, s *domain.Scenario) error {
	query := `INSERT INTO scenarios (id, phase_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.PhaseID,
		s.Name,
		s.CreatedAt.Format(time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting scenario: %w", err)
	}
	return nil
}

func (r *SQLiteScenarioRepo) GetByID(ctx context.Context, id string) (*domain.Scenario, error) {
	query := `SELECT id, phase_id, name, created_at, updated_at FROM scenarios WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var s domain.Scenario
	var createdAtStr, updatedAtStr string
	if err := row.Scan(&s.ID, &s.PhaseID, &s.Name, &createdAtStr, &updatedAtStr); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("scenario: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning scenario: %w", err)
	}
	if err := parseTimestamps(&s.CreatedAt, &s.UpdatedAt, createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteScenarioRepo) ListByPhase(ctx context.Context, phaseID string) ([]*domain.Scenario, error) {
	query := `SELECT id, phase_id, name, created_at, updated_at FROM scenarios WHERE phase_id = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, phaseID)
	if err != nil {
		return nil, fmt.Errorf("listing scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []*domain.Scenario
	for rows.Next() {
		var s domain.Scenario
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&s.ID, &s.PhaseID, &s.Name, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning scenario row: %w", err)
		}
		if err := parseTimestamps(&s.CreatedAt, &s.UpdatedAt, createdAtStr, updatedAtStr); err != nil {
			return nil, err
		}
		scenarios = append(scenarios, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scenarios: %w", err)
	}
	return scenarios, nil
}

func (r *SQLiteScenarioRepo) Update(ctx context.Context, s *domain.Scenario) error {
	query := `UPDATE scenarios SET name = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, s.Name, s.UpdatedAt.Format(time.RFC3339), s.ID)
	if err != nil {
		return fmt.Errorf("updating scenario: %w", err)
	}
	return nil
}

func (r *SQLiteScenarioRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM scenarios WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting scenario: %w", err)
	}
	return nil
}
