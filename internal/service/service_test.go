package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stagegate/stagegate/internal/domain"
	"github.com/stagegate/stagegate/internal/repository"
	"github.com/stagegate/stagegate/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testEnv wires every repository and service against one in-memory database.
type testEnv struct {
	db *sql.DB

	users      *repository.SQLiteUserRepo
	projects   *repository.SQLiteProjectRepo
	members    *repository.SQLiteMemberRepo
	profiles   *repository.SQLiteProfileRepo
	phases     *repository.SQLitePhaseRepo
	scenarios  *repository.SQLiteScenarioRepo
	activities *repository.SQLiteActivityRepo
	lessons    *repository.SQLiteLessonRepo
	changes    *repository.SQLiteChangeRequestRepo

	perms      PermissionService
	userSvc    UserService
	projectSvc ProjectService
	memberSvc  MembershipService
	workflow   WorkflowService
	records    RecordService
	boards     BoardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	env := &testEnv{
		db:         database,
		users:      repository.NewSQLiteUserRepo(database),
		projects:   repository.NewSQLiteProjectRepo(database),
		members:    repository.NewSQLiteMemberRepo(database),
		profiles:   repository.NewSQLiteProfileRepo(database),
		phases:     repository.NewSQLitePhaseRepo(database),
		scenarios:  repository.NewSQLiteScenarioRepo(database),
		activities: repository.NewSQLiteActivityRepo(database),
		lessons:    repository.NewSQLiteLessonRepo(database),
		changes:    repository.NewSQLiteChangeRequestRepo(database),
	}

	env.perms = NewPermissionService(env.members, env.profiles, uow)
	env.userSvc = NewUserService(env.users)
	env.projectSvc = NewProjectService(env.projects, env.phases, env.scenarios, env.members, env.perms, uow)
	env.memberSvc = NewMembershipService(env.members, env.profiles, env.users, env.perms, uow)
	env.workflow = NewWorkflowService(env.activities, env.scenarios, env.phases, env.members, env.users, env.perms, uow)
	env.records = NewRecordService(env.lessons, env.changes, env.perms)
	env.boards = NewBoardService(env.projects, env.phases, env.scenarios, env.activities, env.members, env.profiles, env.users, env.perms)

	return env
}

func (env *testEnv) createUser(t *testing.T, username string) *domain.User {
	t.Helper()
	u := testutil.NewTestUser(username)
	require.NoError(t, env.users.Create(context.Background(), u))
	return u
}

// createProject provisions a project via the service so default profiles and
// assignments exist, then adds one phase and one scenario for workflow tests.
func (env *testEnv) createProject(t *testing.T, creator *domain.User, others ...*domain.User) (*domain.Project, *domain.Scenario) {
	t.Helper()
	ctx := context.Background()

	ids := make([]string, 0, len(others))
	for _, u := range others {
		ids = append(ids, u.ID)
	}
	project, err := env.projectSvc.Create(ctx, "Test Project", creator.ID, ids...)
	require.NoError(t, err)

	phase, err := env.projectSvc.CreatePhase(ctx, project.ID, "Phase 1", creator.ID)
	require.NoError(t, err)
	scenario, err := env.projectSvc.CreateScenario(ctx, phase.ID, "Scenario A", creator.ID)
	require.NoError(t, err)

	return project, scenario
}

func (env *testEnv) memberID(t *testing.T, projectID, userID string) string {
	t.Helper()
	m, err := env.members.GetByProjectAndUser(context.Background(), projectID, userID)
	require.NoError(t, err)
	return m.ID
}

// assignCustomProfile creates a profile with the given flags and assigns it
// to the user, bypassing the service permission checks.
func (env *testEnv) assignCustomProfile(t *testing.T, projectID, userID, name string, flags domain.CapabilitySet) *domain.Profile {
	t.Helper()
	ctx := context.Background()

	p := testutil.NewTestProfile(projectID, name, testutil.WithFlags(flags))
	require.NoError(t, env.profiles.Create(ctx, p))
	require.NoError(t, env.profiles.Assign(ctx, env.memberID(t, projectID, userID), p.ID))
	return p
}
