package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stagegate/stagegate/internal/db"
	"github.com/stagegate/stagegate/internal/domain"
)

// profileFlagColumns is the canonical flag column list for profiles. The
// order matches domain.AllCapabilities exactly; scanning relies on it.
const profileFlagColumns = `create_activity, edit_activity, delete_activity,
		complete_any_activity, edit_project, manage_members,
		create_lesson, edit_lesson, delete_lesson,
		create_change, edit_change, delete_change,
		create_incident, edit_incident, delete_incident,
		create_risk, edit_risk, delete_risk`

// profileColumns is the canonical SELECT column list for profiles.
const profileColumns = `id, project_id, name, is_default, ` + profileFlagColumns + `, created_at, updated_at`

// SQLiteProfileRepo implements ProfileRepo using a SQLite database.
type SQLiteProfileRepo struct {
	db db.DBTX
}

// NewSQLiteProfileRepo creates a new SQLiteProfileRepo.
func NewSQLiteProfileRepo(conn db.DBTX) *SQLiteProfileRepo {
	return &SQLiteProfileRepo{db: conn}
}

// flagValues returns the profile's flag values in column order.
func flagValues(p *domain.Profile) []any {
	out := make([]any, 0, len(domain.AllCapabilities))
	for _, c := range domain.AllCapabilities {
		out = append(out, boolToInt(p.Flags[c]))
	}
	return out
}

func (r *SQLiteProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	query := `INSERT INTO profiles (id, project_id, name, is_default, ` + profileFlagColumns + `, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := []any{p.ID, p.ProjectID, p.Name, boolToInt(p.IsDefault)}
	args = append(args, flagValues(p)...)
	args = append(args, p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting profile: %w", err)
	}
	return nil
}

func (r *SQLiteProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ?`
	return r.scanProfile(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteProfileRepo) GetByName(ctx context.Context, projectID, name string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE project_id = ? AND name = ?`
	return r.scanProfile(r.db.QueryRowContext(ctx, query, projectID, name))
}

func (r *SQLiteProfileRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE project_id = ? ORDER BY is_default DESC, name`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*domain.Profile
	for rows.Next() {
		p, err := r.scanProfileRow(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating profiles: %w", err)
	}
	return profiles, nil
}

func (r *SQLiteProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	query := `UPDATE profiles SET name = ?,
		create_activity = ?, edit_activity = ?, delete_activity = ?,
		complete_any_activity = ?, edit_project = ?, manage_members = ?,
		create_lesson = ?, edit_lesson = ?, delete_lesson = ?,
		create_change = ?, edit_change = ?, delete_change = ?,
		create_incident = ?, edit_incident = ?, delete_incident = ?,
		create_risk = ?, edit_risk = ?, delete_risk = ?,
		updated_at = ?
		WHERE id = ?`
	args := []any{p.Name}
	args = append(args, flagValues(p)...)
	args = append(args, p.UpdatedAt.Format(time.RFC3339), p.ID)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	return nil
}

func (r *SQLiteProfileRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM profiles WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	}
	return nil
}

// Assign sets the member's active profile, clearing any prior assignment
// first (replace-not-append).
func (r *SQLiteProfileRepo) Assign(ctx context.Context, memberID, profileID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM member_profiles WHERE member_id = ?`, memberID); err != nil {
		return fmt.Errorf("clearing profile assignment: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO member_profiles (member_id, profile_id) VALUES (?, ?)`, memberID, profileID); err != nil {
		return fmt.Errorf("inserting profile assignment: %w", err)
	}
	return nil
}

// GetAssigned returns the member's active profile, or ErrNotFound if the
// member has no assignment.
func (r *SQLiteProfileRepo) GetAssigned(ctx context.Context, memberID string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumnsAliased + `
		FROM profiles p
		JOIN member_profiles mp ON mp.profile_id = p.id
		WHERE mp.member_id = ?`
	return r.scanProfile(r.db.QueryRowContext(ctx, query, memberID))
}

func (r *SQLiteProfileRepo) CountHolders(ctx context.Context, profileID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM member_profiles WHERE profile_id = ?`
	if err := r.db.QueryRowContext(ctx, query, profileID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting profile holders: %w", err)
	}
	return count, nil
}

// ReassignHolders moves every member assigned to fromProfileID onto
// toProfileID.
func (r *SQLiteProfileRepo) ReassignHolders(ctx context.Context, fromProfileID, toProfileID string) error {
	query := `UPDATE member_profiles SET profile_id = ? WHERE profile_id = ?`
	if _, err := r.db.ExecContext(ctx, query, toProfileID, fromProfileID); err != nil {
		return fmt.Errorf("reassigning profile holders: %w", err)
	}
	return nil
}

// profileColumnsAliased is profileColumns prefixed with "p." for join queries.
const profileColumnsAliased = `p.id, p.project_id, p.name, p.is_default,
		p.create_activity, p.edit_activity, p.delete_activity,
		p.complete_any_activity, p.edit_project, p.manage_members,
		p.create_lesson, p.edit_lesson, p.delete_lesson,
		p.create_change, p.edit_change, p.delete_change,
		p.create_incident, p.edit_incident, p.delete_incident,
		p.create_risk, p.edit_risk, p.delete_risk,
		p.created_at, p.updated_at`

func (r *SQLiteProfileRepo) scanProfile(row *sql.Row) (*domain.Profile, error) {
	var p domain.Profile
	var isDefaultInt int
	var createdAtStr, updatedAtStr string
	flags := make([]int, len(domain.AllCapabilities))

	dest := []any{&p.ID, &p.ProjectID, &p.Name, &isDefaultInt}
	for i := range flags {
		dest = append(dest, &flags[i])
	}
	dest = append(dest, &createdAtStr, &updatedAtStr)

	if err := row.Scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("profile: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning profile: %w", err)
	}
	return r.populateProfile(&p, isDefaultInt, flags, createdAtStr, updatedAtStr)
}

func (r *SQLiteProfileRepo) scanProfileRow(rows *sql.Rows) (*domain.Profile, error) {
	var p domain.Profile
	var isDefaultInt int
	var createdAtStr, updatedAtStr string
	flags := make([]int, len(domain.AllCapabilities))

	dest := []any{&p.ID, &p.ProjectID, &p.Name, &isDefaultInt}
	for i := range flags {
		dest = append(dest, &flags[i])
	}
	dest = append(dest, &createdAtStr, &updatedAtStr)

	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scanning profile row: %w", err)
	}
	return r.populateProfile(&p, isDefaultInt, flags, createdAtStr, updatedAtStr)
}

func (r *SQLiteProfileRepo) populateProfile(p *domain.Profile, isDefaultInt int, flags []int, createdAtStr, updatedAtStr string) (*domain.Profile, error) {
	p.IsDefault = intToBool(isDefaultInt)
	p.Flags = make(domain.CapabilitySet, len(domain.AllCapabilities))
	for i, c := range domain.AllCapabilities {
		p.Flags[c] = intToBool(flags[i])
	}
	if err := parseTimestamps(&p.CreatedAt, &p.UpdatedAt, createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return p, nil
}
