package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent; the list is
// re-run in full on every startup.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		username   TEXT NOT NULL UNIQUE,
		email      TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS members (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TEXT NOT NULL,
		UNIQUE(project_id, user_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_members_project ON members(project_id)`,

	`CREATE TABLE IF NOT EXISTS profiles (
		id                    TEXT PRIMARY KEY,
		project_id            TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name                  TEXT NOT NULL,
		is_default            INTEGER NOT NULL DEFAULT 0,
		create_activity       INTEGER NOT NULL DEFAULT 0,
		edit_activity         INTEGER NOT NULL DEFAULT 0,
		delete_activity       INTEGER NOT NULL DEFAULT 0,
		complete_any_activity INTEGER NOT NULL DEFAULT 0,
		edit_project          INTEGER NOT NULL DEFAULT 0,
		manage_members        INTEGER NOT NULL DEFAULT 0,
		create_lesson         INTEGER NOT NULL DEFAULT 0,
		edit_lesson           INTEGER NOT NULL DEFAULT 0,
		delete_lesson         INTEGER NOT NULL DEFAULT 0,
		create_change         INTEGER NOT NULL DEFAULT 0,
		edit_change           INTEGER NOT NULL DEFAULT 0,
		delete_change         INTEGER NOT NULL DEFAULT 0,
		create_incident       INTEGER NOT NULL DEFAULT 0,
		edit_incident         INTEGER NOT NULL DEFAULT 0,
		delete_incident       INTEGER NOT NULL DEFAULT 0,
		create_risk           INTEGER NOT NULL DEFAULT 0,
		edit_risk             INTEGER NOT NULL DEFAULT 0,
		delete_risk           INTEGER NOT NULL DEFAULT 0,
		created_at            TEXT NOT NULL,
		updated_at            TEXT NOT NULL,
		UNIQUE(project_id, name)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_profiles_project ON profiles(project_id)`,

	`CREATE TABLE IF NOT EXISTS member_profiles (
		member_id  TEXT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		UNIQUE(member_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_member_profiles_profile ON member_profiles(profile_id)`,

	`CREATE TABLE IF NOT EXISTS phases (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_phases_project ON phases(project_id)`,

	`CREATE TABLE IF NOT EXISTS scenarios (
		id         TEXT PRIMARY KEY,
		phase_id   TEXT NOT NULL REFERENCES phases(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_scenarios_phase ON scenarios(phase_id)`,

	`CREATE TABLE IF NOT EXISTS activities (
		id              TEXT PRIMARY KEY,
		scenario_id     TEXT NOT NULL REFERENCES scenarios(id) ON DELETE CASCADE,
		sequence_number INTEGER NOT NULL,
		description     TEXT NOT NULL,
		responsible     TEXT NOT NULL,
		released_at     TEXT,
		completed_at    TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL,
		CHECK(completed_at IS NULL OR released_at IS NOT NULL)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_activities_scenario ON activities(scenario_id)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_scenario_seq ON activities(scenario_id, sequence_number)`,

	`CREATE TABLE IF NOT EXISTS lessons (
		id                TEXT PRIMARY KEY,
		project_id        TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		phase_id          TEXT REFERENCES phases(id) ON DELETE SET NULL,
		category          TEXT NOT NULL DEFAULT '',
		type              TEXT NOT NULL DEFAULT '',
		description       TEXT NOT NULL,
		root_cause        TEXT NOT NULL DEFAULT '',
		impact            TEXT NOT NULL DEFAULT '',
		action_taken      TEXT NOT NULL DEFAULT '',
		recommendation    TEXT NOT NULL DEFAULT '',
		responsible       TEXT NOT NULL DEFAULT '',
		status            TEXT NOT NULL DEFAULT '',
		applicable_future INTEGER NOT NULL DEFAULT 1,
		recorded_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_lessons_project ON lessons(project_id)`,

	`CREATE TABLE IF NOT EXISTS change_requests (
		id                TEXT PRIMARY KEY,
		project_id        TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		requested_at      TEXT NOT NULL,
		requester         TEXT NOT NULL DEFAULT '',
		requester_area    TEXT NOT NULL DEFAULT '',
		description       TEXT NOT NULL,
		justification     TEXT NOT NULL DEFAULT '',
		change_type       TEXT NOT NULL DEFAULT '',
		schedule_impact   TEXT NOT NULL DEFAULT '',
		cost_impact       TEXT NOT NULL DEFAULT '',
		scope_impact      TEXT NOT NULL DEFAULT '',
		resource_impact   TEXT NOT NULL DEFAULT '',
		risk_impact       TEXT NOT NULL DEFAULT '',
		priority          TEXT NOT NULL DEFAULT '',
		pm_recommendation TEXT NOT NULL DEFAULT '',
		status            TEXT NOT NULL DEFAULT '',
		approver          TEXT NOT NULL DEFAULT '',
		decided_at        TEXT,
		implemented_at    TEXT,
		notes             TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_change_requests_project ON change_requests(project_id)`,
}
