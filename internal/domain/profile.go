package domain

import "time"

// Names of the two system-created default profiles.
const (
	AdminProfileName  = "Administrator"
	MemberProfileName = "Member"
)

// Profile is a project-scoped named bundle of capability flags.
type Profile struct {
	ID        string
	ProjectID string
	Name      string
	IsDefault bool
	Flags     CapabilitySet

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdministrator reports whether this profile triggers the administrator
// bypass: a profile named exactly "Administrator" grants every capability
// regardless of its stored flags. The name match is the single place this
// rule lives; callers must not compare the name themselves.
func (p *Profile) IsAdministrator() bool {
	return p.Name == AdminProfileName
}

// EffectiveFlags resolves the capability set this profile grants, applying
// the administrator bypass.
func (p *Profile) EffectiveFlags() CapabilitySet {
	if p.IsAdministrator() {
		return FullCapabilitySet()
	}
	out := make(CapabilitySet, len(AllCapabilities))
	for _, c := range AllCapabilities {
		out[c] = p.Flags[c]
	}
	return out
}

// DefaultAdminFlags returns the flag values of the system "Administrator"
// profile: everything granted.
func DefaultAdminFlags() CapabilitySet {
	return FullCapabilitySet()
}

// DefaultMemberFlags returns the flag values of the system "Member" profile:
// create and edit granted, deletion and administrative actions denied.
func DefaultMemberFlags() CapabilitySet {
	return CapabilitySet{
		CapCreateActivity:      true,
		CapEditActivity:        true,
		CapDeleteActivity:      false,
		CapCompleteAnyActivity: false,
		CapEditProject:         false,
		CapManageMembers:       false,
		CapCreateLesson:        true,
		CapEditLesson:          true,
		CapDeleteLesson:        false,
		CapCreateChange:        true,
		CapEditChange:          true,
		CapDeleteChange:        false,
		CapCreateIncident:      true,
		CapEditIncident:        true,
		CapDeleteIncident:      false,
		CapCreateRisk:          true,
		CapEditRisk:            true,
		CapDeleteRisk:          false,
	}
}
