package contract

import (
	"time"

	"github.com/stagegate/stagegate/internal/domain"
)

// ActivityView is one activity row on the board with its derived state.
type ActivityView struct {
	ID             string
	SequenceNumber int
	Description    string
	Responsible    string
	State          domain.ActivityState
	ReleasedAt     *time.Time
	CompletedAt    *time.Time
}

// ScenarioView groups a scenario's activities in sequence order.
type ScenarioView struct {
	ID         string
	Name       string
	Activities []ActivityView
}

// PhaseView groups a phase's scenarios in creation order.
type PhaseView struct {
	ID        string
	Name      string
	Scenarios []ScenarioView
}

// BoardResponse is the full phase/scenario/activity tree for one project,
// together with the caller's effective capabilities so the presentation
// layer can enable or hide actions.
type BoardResponse struct {
	ProjectID    string
	ProjectName  string
	CallerCaps   domain.CapabilitySet
	CallerName   string
	Phases       []PhaseView
	MemberCount  int
	ProfileCount int
}
