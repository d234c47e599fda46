package service

import (
	"context"
	"testing"

	"github.com/stagegate/stagegate/internal/domain"
	"github.com/stagegate/stagegate/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_DefaultProfilesOnCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	other := env.createUser(t, "bob")
	project, _ := env.createProject(t, creator, other)

	adminCaps, err := env.perms.Resolve(ctx, project.ID, creator.ID)
	require.NoError(t, err)
	for _, c := range domain.AllCapabilities {
		assert.True(t, adminCaps.Has(c), "creator should hold %s", c)
	}

	memberCaps, err := env.perms.Resolve(ctx, project.ID, other.ID)
	require.NoError(t, err)
	assert.True(t, memberCaps.Has(domain.CapCreateActivity))
	assert.True(t, memberCaps.Has(domain.CapEditActivity))
	assert.False(t, memberCaps.Has(domain.CapDeleteActivity))
	assert.False(t, memberCaps.Has(domain.CapManageMembers))
	assert.False(t, memberCaps.Has(domain.CapCompleteAnyActivity))
}

func TestResolve_NonMemberIsDenyAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	outsider := env.createUser(t, "mallory")
	project, _ := env.createProject(t, creator)

	caps, err := env.perms.Resolve(ctx, project.ID, outsider.ID)
	require.NoError(t, err, "missing membership resolves, it does not error")
	for _, c := range domain.AllCapabilities {
		assert.False(t, caps.Has(c))
	}
}

func TestResolve_UnassignedMemberIsDenyAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	bare := env.createUser(t, "bob")
	project, _ := env.createProject(t, creator)

	// Insert a membership directly, without any profile assignment.
	m := testutil.NewTestMember(project.ID, bare.ID)
	require.NoError(t, env.members.Create(ctx, m))

	caps, err := env.perms.Resolve(ctx, project.ID, bare.ID)
	require.NoError(t, err)
	for _, c := range domain.AllCapabilities {
		assert.False(t, caps.Has(c))
	}
}

func TestResolve_AdministratorNameBypassesFlags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	locked := env.createUser(t, "bob")
	project, _ := env.createProject(t, creator, locked)

	// A profile named exactly "Administrator" with every flag false still
	// grants everything.
	env.assignCustomProfile(t, project.ID, locked.ID, domain.AdminProfileName, domain.DenyAllCapabilitySet())

	caps, err := env.perms.Resolve(ctx, project.ID, locked.ID)
	require.NoError(t, err)
	for _, c := range domain.AllCapabilities {
		assert.True(t, caps.Has(c), "Administrator name should grant %s regardless of flags", c)
	}
}

func TestResolve_NameMatchIsExact(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	locked := env.createUser(t, "bob")
	project, _ := env.createProject(t, creator, locked)

	env.assignCustomProfile(t, project.ID, locked.ID, "administrator", domain.DenyAllCapabilitySet())

	caps, err := env.perms.Resolve(ctx, project.ID, locked.ID)
	require.NoError(t, err)
	assert.False(t, caps.Has(domain.CapManageMembers), "lowercase name must not trigger the bypass")
}

func TestCreateProfile_RequiresManageMembers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	member := env.createUser(t, "bob")
	project, _ := env.createProject(t, creator, member)

	p := testutil.NewTestProfile(project.ID, "Reviewer")
	err := env.perms.CreateProfile(ctx, p, member.ID)
	assert.ErrorIs(t, err, ErrDenied)

	p2 := testutil.NewTestProfile(project.ID, "Reviewer")
	require.NoError(t, env.perms.CreateProfile(ctx, p2, creator.ID))
	assert.False(t, p2.IsDefault, "service-created profiles are never defaults")
}

func TestUpdateProfile_DefaultIsImmutable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	project, _ := env.createProject(t, creator)

	memberProfile, err := env.profiles.GetByName(ctx, project.ID, domain.MemberProfileName)
	require.NoError(t, err)

	memberProfile.Flags[domain.CapManageMembers] = true
	err = env.perms.UpdateProfile(ctx, memberProfile, creator.ID)
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestDeleteProfile_DefaultIsRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	project, _ := env.createProject(t, creator)

	adminProfile, err := env.profiles.GetByName(ctx, project.ID, domain.AdminProfileName)
	require.NoError(t, err)

	err = env.perms.DeleteProfile(ctx, adminProfile.ID, creator.ID)
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestDeleteProfile_ReassignsHoldersToMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")
	project, _ := env.createProject(t, creator, bob, carol)

	custom := testutil.NewTestProfile(project.ID, "Reviewer",
		testutil.WithFlag(domain.CapEditActivity, true))
	require.NoError(t, env.perms.CreateProfile(ctx, custom, creator.ID))

	require.NoError(t, env.memberSvc.AssignProfile(ctx, project.ID, env.memberID(t, project.ID, bob.ID), custom.ID, creator.ID))
	require.NoError(t, env.memberSvc.AssignProfile(ctx, project.ID, env.memberID(t, project.ID, carol.ID), custom.ID, creator.ID))

	require.NoError(t, env.perms.DeleteProfile(ctx, custom.ID, creator.ID))

	for _, u := range []string{bob.ID, carol.ID} {
		assigned, err := env.profiles.GetAssigned(ctx, env.memberID(t, project.ID, u))
		require.NoError(t, err)
		assert.Equal(t, domain.MemberProfileName, assigned.Name, "holders fall back to the default Member profile")
	}
}
