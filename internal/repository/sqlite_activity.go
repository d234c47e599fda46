package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stagegate/stagegate/internal/db"
	"github.com/stagegate/stagegate/internal/domain"
)

// activityColumns is the canonical SELECT column list for activities.
const activityColumns = `id, scenario_id, sequence_number, description, responsible,
		released_at, completed_at, created_at, updated_at`

// SQLiteActivityRepo implements ActivityRepo using a SQLite database.
type SQLiteActivityRepo struct {
	db db.DBTX
}

// NewSQLiteActivityRepo creates a new SQLiteActivityRepo.
func NewSQLiteActivityRepo(conn db.DBTX) *SQLiteActivityRepo {
	return &SQLiteActivityRepo{db: conn}
}

func (r *SQLiteActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	query := `INSERT INTO activities (` + activityColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.ScenarioID,
		a.SequenceNumber,
		a.Description,
		a.Responsible,
		nullableTimeToString(a.ReleasedAt),
		nullableTimeToString(a.CompletedAt),
		a.CreatedAt.Format(time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting activity: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = ?`
	return r.scanActivity(r.db.QueryRowContext(ctx, query, id))
}

// ListByScenario returns the scenario's activities in ascending sequence
// order (ties broken by creation time).
func (r *SQLiteActivityRepo) ListByScenario(ctx context.Context, scenarioID string) ([]*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities
		WHERE scenario_id = ?
		ORDER BY sequence_number, created_at`
	rows, err := r.db.QueryContext(ctx, query, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()
	return r.scanActivities(rows)
}

func (r *SQLiteActivityRepo) HasReleased(ctx context.Context, scenarioID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM activities WHERE scenario_id = ? AND released_at IS NOT NULL`
	if err := r.db.QueryRowContext(ctx, query, scenarioID).Scan(&count); err != nil {
		return false, fmt.Errorf("counting released activities: %w", err)
	}
	return count > 0, nil
}

func (r *SQLiteActivityRepo) FirstBySequence(ctx context.Context, scenarioID string) (*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities
		WHERE scenario_id = ?
		ORDER BY sequence_number, created_at
		LIMIT 1`
	return r.scanActivity(r.db.QueryRowContext(ctx, query, scenarioID))
}

// NextUnreleasedAfter returns the unreleased activity with the smallest
// sequence number strictly greater than seq, or nil when every later
// activity is already released (or none exists).
func (r *SQLiteActivityRepo) NextUnreleasedAfter(ctx context.Context, scenarioID string, seq int) (*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities
		WHERE scenario_id = ? AND sequence_number > ? AND released_at IS NULL
		ORDER BY sequence_number, created_at
		LIMIT 1`
	a, err := r.scanActivity(r.db.QueryRowContext(ctx, query, scenarioID, seq))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

func (r *SQLiteActivityRepo) Update(ctx context.Context, a *domain.Activity) error {
	query := `UPDATE activities SET scenario_id = ?, sequence_number = ?, description = ?,
		responsible = ?, released_at = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		a.ScenarioID,
		a.SequenceNumber,
		a.Description,
		a.Responsible,
		nullableTimeToString(a.ReleasedAt),
		nullableTimeToString(a.CompletedAt),
		a.UpdatedAt.Format(time.RFC3339),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating activity: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM activities WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting activity: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) scanActivity(row *sql.Row) (*domain.Activity, error) {
	var a domain.Activity
	var releasedAtStr, completedAtStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&a.ID, &a.ScenarioID, &a.SequenceNumber, &a.Description, &a.Responsible,
		&releasedAtStr, &completedAtStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("activity: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning activity: %w", err)
	}

	a.ReleasedAt = parseNullableTime(releasedAtStr)
	a.CompletedAt = parseNullableTime(completedAtStr)
	if err := parseTimestamps(&a.CreatedAt, &a.UpdatedAt, createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *SQLiteActivityRepo) scanActivities(rows *sql.Rows) ([]*domain.Activity, error) {
	var activities []*domain.Activity
	for rows.Next() {
		var a domain.Activity
		var releasedAtStr, completedAtStr sql.NullString
		var createdAtStr, updatedAtStr string

		err := rows.Scan(
			&a.ID, &a.ScenarioID, &a.SequenceNumber, &a.Description, &a.Responsible,
			&releasedAtStr, &completedAtStr, &createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}

		a.ReleasedAt = parseNullableTime(releasedAtStr)
		a.CompletedAt = parseNullableTime(completedAtStr)
		if err := parseTimestamps(&a.CreatedAt, &a.UpdatedAt, createdAtStr, updatedAtStr); err != nil {
			return nil, err
		}
		activities = append(activities, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}
	return activities, nil
}
