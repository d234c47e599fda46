package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stagegate/stagegate/internal/db"
	"github.com/stagegate/stagegate/internal/domain"
)

// lessonColumns is the canonical SELECT column list for lessons.
const lessonColumns = `id, project_id, phase_id, category, type, description,
		root_cause, impact, action_taken, recommendation, responsible, status,
		applicable_future, recorded_at`

// SQLiteLessonRepo implements LessonRepo using a SQLite database.
type SQLiteLessonRepo struct {
	db db.DBTX
}

// NewSQLiteLessonRepo creates a new SQLiteLessonRepo.
func NewSQLiteLessonRepo(conn db.DBTX) *SQLiteLessonRepo {
	return &SQLiteLessonRepo{db: conn}
}

func (r *SQLiteLessonRepo) Create(ctx context.Context, l *domain.Lesson) error {
	query := `INSERT INTO lessons (` + lessonColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.ProjectID,
		nullableString(l.PhaseID),
		l.Category,
		l.Type,
		l.Description,
		l.RootCause,
		l.Impact,
		l.ActionTaken,
		l.Recommendation,
		l.Responsible,
		l.Status,
		boolToInt(l.ApplicableFuture),
		l.RecordedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting lesson: %w", err)
	}
	return nil
}

func (r *SQLiteLessonRepo) GetByID(ctx context.Context, id string) (*domain.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	l, err := scanLesson(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("lesson: %w", ErrNotFound)
		}
		return nil, err
	}
	return l, nil
}

func (r *SQLiteLessonRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE project_id = ? ORDER BY recorded_at`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing lessons: %w", err)
	}
	defer rows.Close()

	var lessons []*domain.Lesson
	for rows.Next() {
		l, err := scanLesson(rows.Scan)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lessons: %w", err)
	}
	return lessons, nil
}

func (r *SQLiteLessonRepo) Update(ctx context.Context, l *domain.Lesson) error {
	query := `UPDATE lessons SET phase_id = ?, category = ?, type = ?, description = ?,
		root_cause = ?, impact = ?, action_taken = ?, recommendation = ?,
		responsible = ?, status = ?, applicable_future = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		nullableString(l.PhaseID),
		l.Category,
		l.Type,
		l.Description,
		l.RootCause,
		l.Impact,
		l.ActionTaken,
		l.Recommendation,
		l.Responsible,
		l.Status,
		boolToInt(l.ApplicableFuture),
		l.ID,
	)
	if err != nil {
		return fmt.Errorf("updating lesson: %w", err)
	}
	return nil
}

func (r *SQLiteLessonRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM lessons WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting lesson: %w", err)
	}
	return nil
}

// scanLesson scans one lesson from either a *sql.Row or *sql.Rows scan func.
func scanLesson(scan func(dest ...any) error) (*domain.Lesson, error) {
	var l domain.Lesson
	var phaseIDStr sql.NullString
	var applicableInt int
	var recordedAtStr string

	err := scan(
		&l.ID, &l.ProjectID, &phaseIDStr, &l.Category, &l.Type, &l.Description,
		&l.RootCause, &l.Impact, &l.ActionTaken, &l.Recommendation,
		&l.Responsible, &l.Status, &applicableInt, &recordedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning lesson: %w", err)
	}

	if phaseIDStr.Valid {
		l.PhaseID = &phaseIDStr.String
	}
	l.ApplicableFuture = intToBool(applicableInt)
	l.RecordedAt, err = time.Parse(time.RFC3339, recordedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing recorded_at: %w", err)
	}
	return &l, nil
}
