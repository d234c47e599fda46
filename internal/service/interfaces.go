package service

import (
	"context"

	"github.com/stagegate/stagegate/internal/contract"
	"github.com/stagegate/stagegate/internal/domain"
)

type UserService interface {
	Create(ctx context.Context, u *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

type ProjectService interface {
	// Create creates the project together with its two default profiles,
	// assigns the creator to "Administrator" and every other listed user to
	// "Member", all in one transaction.
	Create(ctx context.Context, name, creatorUserID string, memberUserIDs ...string) (*domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project, callerUserID string) error
	Delete(ctx context.Context, id, callerUserID string) error

	CreatePhase(ctx context.Context, projectID, name, callerUserID string) (*domain.Phase, error)
	CreateScenario(ctx context.Context, phaseID, name, callerUserID string) (*domain.Scenario, error)
	DeletePhase(ctx context.Context, phaseID, callerUserID string) error
	DeleteScenario(ctx context.Context, scenarioID, callerUserID string) error
}

// MemberInfo is a joined view of a membership for listing.
type MemberInfo struct {
	Member      *domain.Member
	Username    string
	ProfileName string // empty when the member has no assignment
}

type MembershipService interface {
	AddMember(ctx context.Context, projectID, userID, callerUserID string) (*domain.Member, error)
	RemoveMember(ctx context.Context, memberID, callerUserID string) error
	AssignProfile(ctx context.Context, projectID, memberID, profileID, callerUserID string) error
	List(ctx context.Context, projectID string) ([]MemberInfo, error)
}

type PermissionService interface {
	// Resolve maps a (project, caller) pair to an effective capability set.
	// A missing project, membership, or assignment resolves to deny-all,
	// never an error.
	Resolve(ctx context.Context, projectID, userID string) (domain.CapabilitySet, error)
	HasCapability(ctx context.Context, projectID, userID string, c domain.Capability) (bool, error)

	CreateProfile(ctx context.Context, p *domain.Profile, callerUserID string) error
	UpdateProfile(ctx context.Context, p *domain.Profile, callerUserID string) error
	// DeleteProfile removes a custom profile, reassigning every holder to
	// the project's default "Member" profile in the same transaction.
	DeleteProfile(ctx context.Context, profileID, callerUserID string) error
	ListProfiles(ctx context.Context, projectID string) ([]*domain.Profile, error)
}

// CompletionResult reports a completion and, when the cascade fired, the
// newly released successor.
type CompletionResult struct {
	Activity     *domain.Activity
	ReleasedNext *domain.Activity
}

// ReleaseResult reports a release; AlreadyReleased marks the idempotent
// no-op case.
type ReleaseResult struct {
	Activity        *domain.Activity
	AlreadyReleased bool
}

// ReopenResult reports a reopen; Reopened is false when the activity was
// not completed and nothing changed.
type ReopenResult struct {
	Activity *domain.Activity
	Reopened bool
}

type WorkflowService interface {
	CreateActivity(ctx context.Context, scenarioID string, sequenceNumber int, description, responsible, callerUserID string) (*domain.Activity, error)
	CompleteActivity(ctx context.Context, activityID, callerUserID string) (*CompletionResult, error)
	ReleaseActivity(ctx context.Context, activityID, callerUserID string) (*ReleaseResult, error)
	ReopenActivity(ctx context.Context, activityID, callerUserID string) (*ReopenResult, error)
	DeleteActivity(ctx context.Context, activityID, callerUserID string) error
	ListActivities(ctx context.Context, scenarioID string) ([]*domain.Activity, error)
}

type RecordService interface {
	CreateLesson(ctx context.Context, l *domain.Lesson, callerUserID string) error
	UpdateLesson(ctx context.Context, l *domain.Lesson, callerUserID string) error
	DeleteLesson(ctx context.Context, lessonID, callerUserID string) error
	ListLessons(ctx context.Context, projectID string) ([]*domain.Lesson, error)

	CreateChange(ctx context.Context, c *domain.ChangeRequest, callerUserID string) error
	UpdateChange(ctx context.Context, c *domain.ChangeRequest, callerUserID string) error
	DeleteChange(ctx context.Context, changeID, callerUserID string) error
	ListChanges(ctx context.Context, projectID string) ([]*domain.ChangeRequest, error)
}

type BoardService interface {
	Board(ctx context.Context, projectID, callerUserID string) (*contract.BoardResponse, error)
}
