package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stagegate/stagegate/internal/db"
	"github.com/stagegate/stagegate/internal/domain"
)

// SQLiteMemberRepo implements MemberRepo using a SQLite database.
type SQLiteMemberRepo struct {
	db db.DBTX
}

// NewSQLiteMemberRepo creates a new SQLiteMemberRepo.
func NewSQLiteMemberRepo(conn db.DBTX) *SQLiteMemberRepo {
	return &SQLiteMemberRepo{db: conn}
}

func (r *SQLiteMemberRepo) Create(ctx context.Context, m *domain.Member) error {
	query := `INSERT INTO members (id, project_id, user_id, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.ProjectID,
		m.UserID,
		m.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting member: %w", err)
	}
	return nil
}

func (r *SQLiteMemberRepo) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	query := `SELECT id, project_id, user_id, created_at FROM members WHERE id = ?`
	return r.scanMember(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteMemberRepo) GetByProjectAndUser(ctx context.Context, projectID, userID string) (*domain.Member, error) {
	query := `SELECT id, project_id, user_id, created_at FROM members WHERE project_id = ? AND user_id = ?`
	return r.scanMember(r.db.QueryRowContext(ctx, query, projectID, userID))
}

func (r *SQLiteMemberRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Member, error) {
	query := `SELECT id, project_id, user_id, created_at FROM members WHERE project_id = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		var m domain.Member
		var createdAtStr string
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.UserID, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning member row: %w", err)
		}
		m.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		members = append(members, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating members: %w", err)
	}
	return members, nil
}

func (r *SQLiteMemberRepo) CountByProject(ctx context.Context, projectID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM members WHERE project_id = ?`
	if err := r.db.QueryRowContext(ctx, query, projectID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting members: %w", err)
	}
	return count, nil
}

func (r *SQLiteMemberRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM members WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}
	return nil
}

func (r *SQLiteMemberRepo) scanMember(row *sql.Row) (*domain.Member, error) {
	var m domain.Member
	var createdAtStr string
	if err := row.Scan(&m.ID, &m.ProjectID, &m.UserID, &createdAtStr); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("member: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning member: %w", err)
	}
	var parseErr error
	m.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	return &m, nil
}
