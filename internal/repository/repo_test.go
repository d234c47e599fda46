package repository

import (
	"testing"

	"github.com/stagegate/stagegate/internal/testutil"
)

// repoEnv bundles all repositories over one in-memory database.
type repoEnv struct {
	users      *SQLiteUserRepo
	projects   *SQLiteProjectRepo
	members    *SQLiteMemberRepo
	profiles   *SQLiteProfileRepo
	phases     *SQLitePhaseRepo
	scenarios  *SQLiteScenarioRepo
	activities *SQLiteActivityRepo
	lessons    *SQLiteLessonRepo
	changes    *SQLiteChangeRequestRepo
}

func newRepoEnv(t *testing.T) *repoEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &repoEnv{
		users:      NewSQLiteUserRepo(database),
		projects:   NewSQLiteProjectRepo(database),
		members:    NewSQLiteMemberRepo(database),
		profiles:   NewSQLiteProfileRepo(database),
		phases:     NewSQLitePhaseRepo(database),
		scenarios:  NewSQLiteScenarioRepo(database),
		activities: NewSQLiteActivityRepo(database),
		lessons:    NewSQLiteLessonRepo(database),
		changes:    NewSQLiteChangeRequestRepo(database),
	}
}
