package domain

import "time"

// Project is the root of the hierarchy. It owns phases, profiles, and
// memberships; deleting a project cascades through all of them.
type Project struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayID returns a short identifier for display, truncating the UUID.
func (p *Project) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// User is an identity known to the system. Credential storage and
// authentication are handled outside the core.
type User struct {
	ID        string
	Username  string
	Email     string
	CreatedAt time.Time
}

// Member associates a user with a project. A project must always retain at
// least one member; removal of the last member is rejected.
type Member struct {
	ID        string
	ProjectID string
	UserID    string
	CreatedAt time.Time
}

// Phase groups scenarios within a project, ordered by creation.
type Phase struct {
	ID        string
	ProjectID string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Scenario groups activities within a phase.
type Scenario struct {
	ID        string
	PhaseID   string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
