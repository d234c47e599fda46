package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAdministrator_ExactNameOnly(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"Administrator", true},
		{"administrator", false},
		{"Administrators", false},
		{" Administrator", false},
		{"Member", false},
	}
	for _, tc := range cases {
		p := &Profile{Name: tc.name}
		assert.Equal(t, tc.want, p.IsAdministrator(), "name %q", tc.name)
	}
}

func TestEffectiveFlags_AdministratorIgnoresStoredFlags(t *testing.T) {
	p := &Profile{Name: AdminProfileName, Flags: DenyAllCapabilitySet()}

	caps := p.EffectiveFlags()
	for _, c := range AllCapabilities {
		assert.True(t, caps.Has(c))
	}
}

func TestEffectiveFlags_OtherNamesUseStoredFlags(t *testing.T) {
	flags := DenyAllCapabilitySet()
	flags[CapEditActivity] = true

	p := &Profile{Name: "Reviewer", Flags: flags}
	caps := p.EffectiveFlags()

	assert.True(t, caps.Has(CapEditActivity))
	assert.False(t, caps.Has(CapManageMembers))
}

func TestDefaultMemberFlags_Shape(t *testing.T) {
	flags := DefaultMemberFlags()

	assert.True(t, flags.Has(CapCreateActivity))
	assert.True(t, flags.Has(CapEditActivity))
	assert.True(t, flags.Has(CapCreateLesson))
	assert.True(t, flags.Has(CapEditChange))
	assert.False(t, flags.Has(CapDeleteActivity))
	assert.False(t, flags.Has(CapDeleteLesson))
	assert.False(t, flags.Has(CapCompleteAnyActivity))
	assert.False(t, flags.Has(CapEditProject))
	assert.False(t, flags.Has(CapManageMembers))
}

func TestCapabilitySet_NilDeniesEverything(t *testing.T) {
	var s CapabilitySet
	for _, c := range AllCapabilities {
		assert.False(t, s.Has(c))
	}
}
