package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stagegate/stagegate/internal/domain"
	"github.com/stagegate/stagegate/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateActivity_FirstIsAutoReleased(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	_, scenario := env.createProject(t, creator)

	a1, err := env.workflow.CreateActivity(ctx, scenario.ID, 10, "Kickoff", "alice", creator.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityReleased, a1.State(), "first activity should be released on creation")

	a2, err := env.workflow.CreateActivity(ctx, scenario.ID, 20, "Draft", "alice", creator.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityUnreleased, a2.State(), "later activities start unreleased")
}

func TestCreateActivity_LowerSequenceDoesNotStealRelease(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	_, scenario := env.createProject(t, creator)

	a1, err := env.workflow.CreateActivity(ctx, scenario.ID, 10, "First", "alice", creator.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ActivityReleased, a1.State())

	// A new activity with a lower sequence number arrives after the scenario
	// already has a released activity. It must stay unreleased.
	a0, err := env.workflow.CreateActivity(ctx, scenario.ID, 5, "Earlier", "alice", creator.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityUnreleased, a0.State())
}

func TestCompleteActivity_CascadesToNearestNext(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	_, scenario := env.createProject(t, creator)

	a1, err := env.workflow.CreateActivity(ctx, scenario.ID, 1, "One", "alice", creator.ID)
	require.NoError(t, err)
	_, err = env.workflow.CreateActivity(ctx, scenario.ID, 2, "Two", "alice", creator.ID)
	require.NoError(t, err)
	a4, err := env.workflow.CreateActivity(ctx, scenario.ID, 4, "Four", "alice", creator.ID)
	require.NoError(t, err)

	// Completing #1 releases #2, the nearest greater sequence, not #4.
	result, err := env.workflow.CompleteActivity(ctx, a1.ID, creator.ID)
	require.NoError(t, err)
	require.NotNil(t, result.ReleasedNext)
	assert.Equal(t, 2, result.ReleasedNext.SequenceNumber)

	got4, err := env.activities.GetByID(ctx, a4.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityUnreleased, got4.State())
}

func TestCompleteActivity_GapInSequenceIsSkipped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	_, scenario := env.createProject(t, creator)

	a1, err := env.workflow.CreateActivity(ctx, scenario.ID, 1, "One", "alice", creator.ID)
	require.NoError(t, err)
	a5, err := env.workflow.CreateActivity(ctx, scenario.ID, 5, "Five", "alice", creator.ID)
	require.NoError(t, err)

	result, err := env.workflow.CompleteActivity(ctx, a1.ID, creator.ID)
	require.NoError(t, err)
	require.NotNil(t, result.ReleasedNext)
	assert.Equal(t, a5.ID, result.ReleasedNext.ID, "cascade jumps the sequence gap")
}

func TestCompleteActivity_LastActivityReleasesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	_, scenario := env.createProject(t, creator)

	a1, err := env.workflow.CreateActivity(ctx, scenario.ID, 1, "Only", "alice", creator.ID)
	require.NoError(t, err)

	result, err := env.workflow.CompleteActivity(ctx, a1.ID, creator.ID)
	require.NoError(t, err)
	assert.Nil(t, result.ReleasedNext)
}

func TestCompleteActivity_UnreleasedIsRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	_, scenario := env.createProject(t, creator)

	_, err := env.workflow.CreateActivity(ctx, scenario.ID, 1, "One", "alice", creator.ID)
	require.NoError(t, err)
	a2, err := env.workflow.CreateActivity(ctx, scenario.ID, 2, "Two", "alice", creator.ID)
	require.NoError(t, err)

	_, err = env.workflow.CompleteActivity(ctx, a2.ID, creator.ID)
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestCompleteActivity_AlreadyCompletedIsRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	_, scenario := env.createProject(t, creator)

	a1, err := env.workflow.CreateActivity(ctx, scenario.ID, 1, "One", "alice", creator.ID)
	require.NoError(t, err)

	_, err = env.workflow.CompleteActivity(ctx, a1.ID, creator.ID)
	require.NoError(t, err)
	_, err = env.workflow.CompleteActivity(ctx, a1.ID, creator.ID)
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestCompleteActivity_ResponsibleMayCompleteOwn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	worker := env.createUser(t, "bob")
	project, scenario := env.createProject(t, creator, worker)

	a1, err := env.workflow.CreateActivity(ctx, scenario.ID, 1, "Bob's task", "bob", creator.ID)
	require.NoError(t, err)
	_ = project

	// Bob holds the default Member profile: no complete-any-activity, but he
	// is the responsible party.
	_, err = env.workflow.CompleteActivity(ctx, a1.ID, worker.ID)
	assert.NoError(t, err)
}

func TestCompleteActivity_NonResponsibleIsDenied(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	worker := env.createUser(t, "bob")
	_, scenario := env.createProject(t, creator, worker)

	a1, err := env.workflow.CreateActivity(ctx, scenario.ID, 1, "Alice's task", "alice", creator.ID)
	require.NoError(t, err)

	_, err = env.workflow.CompleteActivity(ctx, a1.ID, worker.ID)
	assert.ErrorIs(t, err, ErrDenied)
}

func TestCompleteActivity_CompleteAnyOverridesResponsible(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	_, scenario := env.createProject(t, creator)

	// Responsible is someone else entirely; the creator holds Administrator.
	a1, err := env.workflow.CreateActivity(ctx, scenario.ID, 1, "Task", "charlie", creator.ID)
	require.NoError(t, err)

	_, err = env.workflow.CompleteActivity(ctx, a1.ID, creator.ID)
	assert.NoError(t, err)
}

func TestReleaseActivity_IsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	_, scenario := env.createProject(t, creator)

	a1, err := env.workflow.CreateActivity(ctx, scenario.ID, 1, "One", "alice", creator.ID)
	require.NoError(t, err)
	firstReleasedAt := a1.ReleasedAt

	result, err := env.workflow.ReleaseActivity(ctx, a1.ID, creator.ID)
	require.NoError(t, err)
	assert.True(t, result.AlreadyReleased)
	assert.Equal(t, firstReleasedAt.Unix(), result.Activity.ReleasedAt.Unix(), "original release timestamp stands")
}

func TestReleaseActivity_MembershipOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	outsider := env.createUser(t, "mallory")
	_, scenario := env.createProject(t, creator)

	_, err := env.workflow.CreateActivity(ctx, scenario.ID, 1, "One", "alice", creator.ID)
	require.NoError(t, err)
	a2, err := env.workflow.CreateActivity(ctx, scenario.ID, 2, "Two", "alice", creator.ID)
	require.NoError(t, err)

	_, err = env.workflow.ReleaseActivity(ctx, a2.ID, outsider.ID)
	assert.ErrorIs(t, err, ErrDenied)

	result, err := env.workflow.ReleaseActivity(ctx, a2.ID, creator.ID)
	require.NoError(t, err)
	assert.False(t, result.AlreadyReleased)
	assert.Equal(t, domain.ActivityReleased, result.Activity.State())
}

func TestReopenActivity_ClearsCompletionOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	_, scenario := env.createProject(t, creator)

	a1, err := env.workflow.CreateActivity(ctx, scenario.ID, 1, "One", "alice", creator.ID)
	require.NoError(t, err)
	_, err = env.workflow.CompleteActivity(ctx, a1.ID, creator.ID)
	require.NoError(t, err)

	result, err := env.workflow.ReopenActivity(ctx, a1.ID, creator.ID)
	require.NoError(t, err)
	assert.True(t, result.Reopened)
	assert.Equal(t, domain.ActivityReleased, result.Activity.State())
	assert.NotNil(t, result.Activity.ReleasedAt)
	assert.Nil(t, result.Activity.CompletedAt)
}

func TestReopenActivity_NotCompletedIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	_, scenario := env.createProject(t, creator)

	a1, err := env.workflow.CreateActivity(ctx, scenario.ID, 1, "One", "alice", creator.ID)
	require.NoError(t, err)

	result, err := env.workflow.ReopenActivity(ctx, a1.ID, creator.ID)
	require.NoError(t, err)
	assert.False(t, result.Reopened)
	assert.Equal(t, domain.ActivityReleased, result.Activity.State())
}

func TestCreateActivity_RequiresCapability(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	locked := env.createUser(t, "bob")
	project, scenario := env.createProject(t, creator, locked)

	env.assignCustomProfile(t, project.ID, locked.ID, "Observer", domain.DenyAllCapabilitySet())

	_, err := env.workflow.CreateActivity(ctx, scenario.ID, 1, "Task", "bob", locked.ID)
	assert.ErrorIs(t, err, ErrDenied)
}

func TestCompleteActivity_RollbackLeavesCascadeUnapplied(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	_, scenario := env.createProject(t, creator)

	a1, err := env.workflow.CreateActivity(ctx, scenario.ID, 1, "One", "alice", creator.ID)
	require.NoError(t, err)
	a2, err := env.workflow.CreateActivity(ctx, scenario.ID, 2, "Two", "alice", creator.ID)
	require.NoError(t, err)

	// Fail the second write in the transaction: the completion update
	// succeeds, then the cascade release errors. Both must roll back.
	boom := errors.New("disk full")
	failingUoW := &testutil.FailOnNthExecUoW{DB: env.db, FailOn: 2, Err: boom}
	workflow := NewWorkflowService(env.activities, env.scenarios, env.phases, env.members, env.users, env.perms, failingUoW)

	_, err = workflow.CompleteActivity(ctx, a1.ID, creator.ID)
	require.ErrorIs(t, err, boom)

	got1, err := env.activities.GetByID(ctx, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityReleased, got1.State(), "completion must be rolled back")

	got2, err := env.activities.GetByID(ctx, a2.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityUnreleased, got2.State(), "cascade must be rolled back")
}

func TestDeleteActivity_NoRetroactiveRelease(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	_, scenario := env.createProject(t, creator)

	a1, err := env.workflow.CreateActivity(ctx, scenario.ID, 1, "One", "alice", creator.ID)
	require.NoError(t, err)
	a2, err := env.workflow.CreateActivity(ctx, scenario.ID, 2, "Two", "alice", creator.ID)
	require.NoError(t, err)

	require.NoError(t, env.workflow.DeleteActivity(ctx, a1.ID, creator.ID))

	got2, err := env.activities.GetByID(ctx, a2.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityUnreleased, got2.State())
}
