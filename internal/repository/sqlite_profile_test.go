package repository

import (
	"context"
	"testing"

	"github.com/stagegate/stagegate/internal/domain"
	"github.com/stagegate/stagegate/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMembership(t *testing.T, env *repoEnv, username string) (projectID, memberID string) {
	t.Helper()
	ctx := context.Background()

	u := testutil.NewTestUser(username)
	require.NoError(t, env.users.Create(ctx, u))
	p := testutil.NewTestProject("Apollo")
	require.NoError(t, env.projects.Create(ctx, p))
	m := testutil.NewTestMember(p.ID, u.ID)
	require.NoError(t, env.members.Create(ctx, m))
	return p.ID, m.ID
}

func TestProfileRepo_FlagsRoundTrip(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()
	projectID, _ := seedMembership(t, env, "alice")

	p := testutil.NewTestProfile(projectID, "Reviewer",
		testutil.WithFlag(domain.CapEditActivity, true),
		testutil.WithFlag(domain.CapDeleteRisk, true))
	require.NoError(t, env.profiles.Create(ctx, p))

	got, err := env.profiles.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Flags.Has(domain.CapEditActivity))
	assert.True(t, got.Flags.Has(domain.CapDeleteRisk))
	assert.False(t, got.Flags.Has(domain.CapManageMembers))
	assert.False(t, got.IsDefault)
}

func TestProfileRepo_GetByName(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()
	projectID, _ := seedMembership(t, env, "alice")

	p := testutil.NewTestProfile(projectID, "Member", testutil.WithDefault())
	require.NoError(t, env.profiles.Create(ctx, p))

	got, err := env.profiles.GetByName(ctx, projectID, "Member")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.True(t, got.IsDefault)

	_, err = env.profiles.GetByName(ctx, projectID, "Ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileRepo_AssignReplaces(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()
	projectID, memberID := seedMembership(t, env, "alice")

	p1 := testutil.NewTestProfile(projectID, "One")
	p2 := testutil.NewTestProfile(projectID, "Two")
	require.NoError(t, env.profiles.Create(ctx, p1))
	require.NoError(t, env.profiles.Create(ctx, p2))

	require.NoError(t, env.profiles.Assign(ctx, memberID, p1.ID))
	require.NoError(t, env.profiles.Assign(ctx, memberID, p2.ID))

	got, err := env.profiles.GetAssigned(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, p2.ID, got.ID)

	holders, err := env.profiles.CountHolders(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, holders, "old assignment must be gone")
}

func TestProfileRepo_GetAssignedMissingIsErrNotFound(t *testing.T) {
	env := newRepoEnv(t)
	_, memberID := seedMembership(t, env, "alice")

	_, err := env.profiles.GetAssigned(context.Background(), memberID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileRepo_ReassignHolders(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()
	projectID, memberID := seedMembership(t, env, "alice")

	from := testutil.NewTestProfile(projectID, "From")
	to := testutil.NewTestProfile(projectID, "To")
	require.NoError(t, env.profiles.Create(ctx, from))
	require.NoError(t, env.profiles.Create(ctx, to))
	require.NoError(t, env.profiles.Assign(ctx, memberID, from.ID))

	require.NoError(t, env.profiles.ReassignHolders(ctx, from.ID, to.ID))

	got, err := env.profiles.GetAssigned(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, to.ID, got.ID)
}

func TestMemberRepo_UniquePerProject(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()
	projectID, _ := seedMembership(t, env, "alice")

	u, err := env.users.GetByUsername(ctx, "alice")
	require.NoError(t, err)

	dup := testutil.NewTestMember(projectID, u.ID)
	assert.Error(t, env.members.Create(ctx, dup), "duplicate membership violates the unique constraint")
}
