package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stagegate/stagegate/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedScenario inserts the user/project/phase/scenario chain the activity
// foreign keys need.
func seedScenario(t *testing.T, env *repoEnv) string {
	t.Helper()
	ctx := context.Background()

	u := testutil.NewTestUser("alice")
	require.NoError(t, env.users.Create(ctx, u))
	p := testutil.NewTestProject("Apollo")
	require.NoError(t, env.projects.Create(ctx, p))
	phase := testutil.NewTestPhase(p.ID, "Phase 1")
	require.NoError(t, env.phases.Create(ctx, phase))
	sc := testutil.NewTestScenario(phase.ID, "Scenario A")
	require.NoError(t, env.scenarios.Create(ctx, sc))
	return sc.ID
}

func TestActivityRepo_ListOrderedBySequence(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()
	scenarioID := seedScenario(t, env)

	for _, seq := range []int{30, 10, 20} {
		require.NoError(t, env.activities.Create(ctx, testutil.NewTestActivity(scenarioID, seq)))
	}

	list, err := env.activities.ListByScenario(ctx, scenarioID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 10, list[0].SequenceNumber)
	assert.Equal(t, 20, list[1].SequenceNumber)
	assert.Equal(t, 30, list[2].SequenceNumber)
}

func TestActivityRepo_NextUnreleasedAfter(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()
	scenarioID := seedScenario(t, env)

	now := time.Now().UTC()
	released := testutil.NewTestActivity(scenarioID, 2, testutil.WithReleasedAt(now))
	require.NoError(t, env.activities.Create(ctx, released))
	require.NoError(t, env.activities.Create(ctx, testutil.NewTestActivity(scenarioID, 5)))
	require.NoError(t, env.activities.Create(ctx, testutil.NewTestActivity(scenarioID, 9)))

	// Skips the released #2 and lands on the nearest unreleased above 1.
	next, err := env.activities.NextUnreleasedAfter(ctx, scenarioID, 1)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, 5, next.SequenceNumber)

	next, err = env.activities.NextUnreleasedAfter(ctx, scenarioID, 5)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, 9, next.SequenceNumber)

	next, err = env.activities.NextUnreleasedAfter(ctx, scenarioID, 9)
	require.NoError(t, err)
	assert.Nil(t, next, "no successor yields nil, not an error")
}

func TestActivityRepo_HasReleasedAndFirst(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()
	scenarioID := seedScenario(t, env)

	released, err := env.activities.HasReleased(ctx, scenarioID)
	require.NoError(t, err)
	assert.False(t, released)

	require.NoError(t, env.activities.Create(ctx, testutil.NewTestActivity(scenarioID, 20)))
	a10 := testutil.NewTestActivity(scenarioID, 10)
	require.NoError(t, env.activities.Create(ctx, a10))

	first, err := env.activities.FirstBySequence(ctx, scenarioID)
	require.NoError(t, err)
	assert.Equal(t, a10.ID, first.ID)

	now := time.Now().UTC()
	a10.Release(now)
	require.NoError(t, env.activities.Update(ctx, a10))

	released, err = env.activities.HasReleased(ctx, scenarioID)
	require.NoError(t, err)
	assert.True(t, released)
}

func TestActivityRepo_TimestampsRoundTrip(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()
	scenarioID := seedScenario(t, env)

	now := time.Now().UTC().Truncate(time.Second)
	a := testutil.NewTestActivity(scenarioID, 1,
		testutil.WithReleasedAt(now),
		testutil.WithCompletedAt(now.Add(time.Hour)))
	require.NoError(t, env.activities.Create(ctx, a))

	got, err := env.activities.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ReleasedAt)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.ReleasedAt.Equal(now))
	assert.True(t, got.CompletedAt.Equal(now.Add(time.Hour)))
}

func TestActivityRepo_GetMissingIsErrNotFound(t *testing.T) {
	env := newRepoEnv(t)

	_, err := env.activities.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
