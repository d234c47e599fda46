package domain

import "time"

// Lesson is a lessons-learned record attached to a project, optionally tied
// to a phase.
type Lesson struct {
	ID               string
	ProjectID        string
	PhaseID          *string
	Category         string
	Type             string
	Description      string
	RootCause        string
	Impact           string
	ActionTaken      string
	Recommendation   string
	Responsible      string
	Status           string
	ApplicableFuture bool
	RecordedAt       time.Time
}

// ChangeRequest is a change-control record attached to a project.
type ChangeRequest struct {
	ID               string
	ProjectID        string
	RequestedAt      time.Time
	Requester        string
	RequesterArea    string
	Description      string
	Justification    string
	ChangeType       string
	ScheduleImpact   string
	CostImpact       string
	ScopeImpact      string
	ResourceImpact   string
	RiskImpact       string
	Priority         string
	PMRecommendation string
	Status           string
	Approver         string
	DecidedAt        *time.Time
	ImplementedAt    *time.Time
	Notes            string
}
