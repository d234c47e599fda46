package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stagegate/stagegate/internal/domain"
	"github.com/stagegate/stagegate/internal/repository"
	"github.com/stagegate/stagegate/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProject_ProvisionsDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	project, err := env.projectSvc.Create(ctx, "Apollo", creator.ID, bob.ID)
	require.NoError(t, err)

	profiles, err := env.profiles.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	names := map[string]bool{}
	for _, p := range profiles {
		names[p.Name] = p.IsDefault
	}
	assert.True(t, names[domain.AdminProfileName])
	assert.True(t, names[domain.MemberProfileName])

	count, err := env.members.CountByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCreateProject_RollbackLeavesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")

	// Fail partway through provisioning: project row, two profiles, then
	// the membership insert errors. Nothing may remain.
	boom := errors.New("disk full")
	failingUoW := &testutil.FailOnNthExecUoW{DB: env.db, FailOn: 4, Err: boom}
	svc := NewProjectService(env.projects, env.phases, env.scenarios, env.members, env.perms, failingUoW)

	_, err := svc.Create(ctx, "Doomed", creator.ID)
	require.ErrorIs(t, err, boom)

	projects, err := env.projects.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestUpdateProject_RequiresEditCapability(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	member := env.createUser(t, "bob")
	project, _ := env.createProject(t, creator, member)

	project.Name = "Renamed"
	err := env.projectSvc.Update(ctx, project, member.ID)
	assert.ErrorIs(t, err, ErrDenied)

	require.NoError(t, env.projectSvc.Update(ctx, project, creator.ID))
	got, err := env.projects.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
}

func TestDeleteProject_CascadesEverything(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	project, scenario := env.createProject(t, creator)

	a, err := env.workflow.CreateActivity(ctx, scenario.ID, 1, "One", "alice", creator.ID)
	require.NoError(t, err)

	require.NoError(t, env.projectSvc.Delete(ctx, project.ID, creator.ID))

	_, err = env.activities.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = env.members.GetByProjectAndUser(ctx, project.ID, creator.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreatePhase_RequiresMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	outsider := env.createUser(t, "mallory")
	project, _ := env.createProject(t, creator)

	_, err := env.projectSvc.CreatePhase(ctx, project.ID, "Sneaky", outsider.ID)
	assert.ErrorIs(t, err, ErrDenied)
}

func TestBoard_ReflectsTreeAndCaps(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	outsider := env.createUser(t, "mallory")
	project, scenario := env.createProject(t, creator)

	_, err := env.workflow.CreateActivity(ctx, scenario.ID, 1, "One", "alice", creator.ID)
	require.NoError(t, err)
	_, err = env.workflow.CreateActivity(ctx, scenario.ID, 2, "Two", "alice", creator.ID)
	require.NoError(t, err)

	board, err := env.boards.Board(ctx, project.ID, creator.ID)
	require.NoError(t, err)
	require.Len(t, board.Phases, 1)
	require.Len(t, board.Phases[0].Scenarios, 1)
	require.Len(t, board.Phases[0].Scenarios[0].Activities, 2)
	assert.Equal(t, domain.ActivityReleased, board.Phases[0].Scenarios[0].Activities[0].State)
	assert.Equal(t, domain.ActivityUnreleased, board.Phases[0].Scenarios[0].Activities[1].State)
	assert.True(t, board.CallerCaps.Has(domain.CapManageMembers))
	assert.Equal(t, "alice", board.CallerName)
	assert.Equal(t, 1, board.MemberCount)
	assert.Equal(t, 2, board.ProfileCount)

	_, err = env.boards.Board(ctx, project.ID, outsider.ID)
	assert.ErrorIs(t, err, ErrDenied)
}

func TestRecords_CapabilityGating(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	member := env.createUser(t, "bob")
	project, _ := env.createProject(t, creator, member)

	// Default Member grants create and edit for lessons, not delete.
	lesson := &domain.Lesson{ProjectID: project.ID, Category: "process", Type: "negative", Description: "late handoff", Status: "open"}
	require.NoError(t, env.records.CreateLesson(ctx, lesson, member.ID))

	err := env.records.DeleteLesson(ctx, lesson.ID, member.ID)
	assert.ErrorIs(t, err, ErrDenied)
	require.NoError(t, env.records.DeleteLesson(ctx, lesson.ID, creator.ID))

	change := &domain.ChangeRequest{ProjectID: project.ID, Requester: "bob", ChangeType: "scope", Description: "add module", Priority: "high", Status: "pending"}
	require.NoError(t, env.records.CreateChange(ctx, change, member.ID))

	changes, err := env.records.ListChanges(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, changes, 1)
}
