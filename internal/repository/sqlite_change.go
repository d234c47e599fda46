package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stagegate/stagegate/internal/db"
	"github.com/stagegate/stagegate/internal/domain"
)

// changeRequestColumns is the canonical SELECT column list for change_requests.
const changeRequestColumns = `id, project_id, requested_at, requester, requester_area,
		description, justification, change_type, schedule_impact, cost_impact,
		scope_impact, resource_impact, risk_impact, priority, pm_recommendation,
		status, approver, decided_at, implemented_at, notes`

// SQLiteChangeRequestRepo implements ChangeRequestRepo using a SQLite database.
type SQLiteChangeRequestRepo struct {
	db db.DBTX
}

// NewSQLiteChangeRequestRepo creates a new SQLiteChangeRequestRepo.
func NewSQLiteChangeRequestRepo(conn db.DBTX) *SQLiteChangeRequestRepo {
	return &SQLiteChangeRequestRepo{db: conn}
}

func (r *SQLiteChangeRequestRepo) Create(ctx context.Context, c *domain.ChangeRequest) error {
	query := `INSERT INTO change_requests (` + changeRequestColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.ProjectID,
		c.RequestedAt.Format(time.RFC3339),
		c.Requester,
		c.RequesterArea,
		c.Description,
		c.Justification,
		c.ChangeType,
		c.ScheduleImpact,
		c.CostImpact,
		c.ScopeImpact,
		c.ResourceImpact,
		c.RiskImpact,
		c.Priority,
		c.PMRecommendation,
		c.Status,
		c.Approver,
		nullableTimeToString(c.DecidedAt),
		nullableTimeToString(c.ImplementedAt),
		c.Notes,
	)
	if err != nil {
		return fmt.Errorf("inserting change request: %w", err)
	}
	return nil
}

func (r *SQLiteChangeRequestRepo) GetByID(ctx context.Context, id string) (*domain.ChangeRequest, error) {
	query := `SELECT ` + changeRequestColumns + ` FROM change_requests WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	c, err := scanChangeRequest(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("change request: %w", ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

func (r *SQLiteChangeRequestRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.ChangeRequest, error) {
	query := `SELECT ` + changeRequestColumns + ` FROM change_requests WHERE project_id = ? ORDER BY requested_at`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing change requests: %w", err)
	}
	defer rows.Close()

	var changes []*domain.ChangeRequest
	for rows.Next() {
		c, err := scanChangeRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating change requests: %w", err)
	}
	return changes, nil
}

func (r *SQLiteChangeRequestRepo) Update(ctx context.Context, c *domain.ChangeRequest) error {
	query := `UPDATE change_requests SET requester = ?, requester_area = ?, description = ?,
		justification = ?, change_type = ?, schedule_impact = ?, cost_impact = ?,
		scope_impact = ?, resource_impact = ?, risk_impact = ?, priority = ?,
		pm_recommendation = ?, status = ?, approver = ?, decided_at = ?,
		implemented_at = ?, notes = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		c.Requester,
		c.RequesterArea,
		c.Description,
		c.Justification,
		c.ChangeType,
		c.ScheduleImpact,
		c.CostImpact,
		c.ScopeImpact,
		c.ResourceImpact,
		c.RiskImpact,
		c.Priority,
		c.PMRecommendation,
		c.Status,
		c.Approver,
		nullableTimeToString(c.DecidedAt),
		nullableTimeToString(c.ImplementedAt),
		c.Notes,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating change request: %w", err)
	}
	return nil
}

func (r *SQLiteChangeRequestRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM change_requests WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting change request: %w", err)
	}
	return nil
}

// scanChangeRequest scans one change request via a *sql.Row or *sql.Rows
// scan func.
func scanChangeRequest(scan func(dest ...any) error) (*domain.ChangeRequest, error) {
	var c domain.ChangeRequest
	var requestedAtStr string
	var decidedAtStr, implementedAtStr sql.NullString

	err := scan(
		&c.ID, &c.ProjectID, &requestedAtStr, &c.Requester, &c.RequesterArea,
		&c.Description, &c.Justification, &c.ChangeType, &c.ScheduleImpact,
		&c.CostImpact, &c.ScopeImpact, &c.ResourceImpact, &c.RiskImpact,
		&c.Priority, &c.PMRecommendation, &c.Status, &c.Approver,
		&decidedAtStr, &implementedAtStr, &c.Notes,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning change request: %w", err)
	}

	c.RequestedAt, err = time.Parse(time.RFC3339, requestedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing requested_at: %w", err)
	}
	c.DecidedAt = parseNullableTime(decidedAtStr)
	c.ImplementedAt = parseNullableTime(implementedAtStr)
	return &c, nil
}
