package domain

// Capability identifies a single named permission flag on a Profile.
type Capability string

const (
	CapCreateActivity      Capability = "create_activity"
	CapEditActivity        Capability = "edit_activity"
	CapDeleteActivity      Capability = "delete_activity"
	CapCompleteAnyActivity Capability = "complete_any_activity"
	CapEditProject         Capability = "edit_project"
	CapManageMembers       Capability = "manage_members"

	CapCreateLesson Capability = "create_lesson"
	CapEditLesson   Capability = "edit_lesson"
	CapDeleteLesson Capability = "delete_lesson"

	CapCreateChange Capability = "create_change"
	CapEditChange   Capability = "edit_change"
	CapDeleteChange Capability = "delete_change"

	CapCreateIncident Capability = "create_incident"
	CapEditIncident   Capability = "edit_incident"
	CapDeleteIncident Capability = "delete_incident"

	CapCreateRisk Capability = "create_risk"
	CapEditRisk   Capability = "edit_risk"
	CapDeleteRisk Capability = "delete_risk"
)

// AllCapabilities is the exhaustive, ordered set of recognized capabilities.
// The order matches the profile table's flag column order.
var AllCapabilities = []Capability{
	CapCreateActivity,
	CapEditActivity,
	CapDeleteActivity,
	CapCompleteAnyActivity,
	CapEditProject,
	CapManageMembers,
	CapCreateLesson,
	CapEditLesson,
	CapDeleteLesson,
	CapCreateChange,
	CapEditChange,
	CapDeleteChange,
	CapCreateIncident,
	CapEditIncident,
	CapDeleteIncident,
	CapCreateRisk,
	CapEditRisk,
	CapDeleteRisk,
}

// CapabilitySet maps each capability to whether it is granted. A nil set
// denies everything.
type CapabilitySet map[Capability]bool

// Has reports whether the capability is granted.
func (s CapabilitySet) Has(c Capability) bool {
	return s[c]
}

// DenyAllCapabilitySet returns a set with every capability false.
func DenyAllCapabilitySet() CapabilitySet {
	s := make(CapabilitySet, len(AllCapabilities))
	for _, c := range AllCapabilities {
		s[c] = false
	}
	return s
}

// FullCapabilitySet returns a set with every capability true.
func FullCapabilitySet() CapabilitySet {
	s := make(CapabilitySet, len(AllCapabilities))
	for _, c := range AllCapabilities {
		s[c] = true
	}
	return s
}
