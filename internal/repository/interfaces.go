package repository

import (
	"context"

	"github.com/stagegate/stagegate/internal/domain"
)

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type MemberRepo interface {
	Create(ctx context.Context, m *domain.Member) error
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	GetByProjectAndUser(ctx context.Context, projectID, userID string) (*domain.Member, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Member, error)
	CountByProject(ctx context.Context, projectID string) (int, error)
	Delete(ctx context.Context, id string) error
}

// ProfileRepo persists capability profiles and the single active profile
// assignment per member (replace-not-append).
type ProfileRepo interface {
	Create(ctx context.Context, p *domain.Profile) error
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	GetByName(ctx context.Context, projectID, name string) (*domain.Profile, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Profile, error)
	Update(ctx context.Context, p *domain.Profile) error
	Delete(ctx context.Context, id string) error

	Assign(ctx context.Context, memberID, profileID string) error
	GetAssigned(ctx context.Context, memberID string) (*domain.Profile, error)
	CountHolders(ctx context.Context, profileID string) (int, error)
	ReassignHolders(ctx context.Context, fromProfileID, toProfileID string) error
}

type PhaseRepo interface {
	Create(ctx context.Context, p *domain.Phase) error
	GetByID(ctx context.Context, id string) (*domain.Phase, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Phase, error)
	Update(ctx context.Context, p *domain.Phase) error
	Delete(ctx context.Context, id string) error
}

type ScenarioRepo interface {
	Create(ctx context.Context, s *domain.Scenario) error
	GetByID(ctx context.Context, id string) (*domain.Scenario, error)
	ListByPhase(ctx context.Context, phaseID string) ([]*domain.Scenario, error)
	Update(ctx context.Context, s *domain.Scenario) error
	Delete(ctx context.Context, id string) error
}

type ActivityRepo interface {
	Create(ctx context.Context, a *domain.Activity) error
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	ListByScenario(ctx context.Context, scenarioID string) ([]*domain.Activity, error)
	// HasReleased reports whether any activity in the scenario has been
	// released.
	HasReleased(ctx context.Context, scenarioID string) (bool, error)
	// FirstBySequence returns the activity with the lowest sequence number
	// in the scenario (ties broken by creation time).
	FirstBySequence(ctx context.Context, scenarioID string) (*domain.Activity, error)
	// NextUnreleasedAfter returns the unreleased activity with the smallest
	// sequence number strictly greater than seq, or nil if there is none.
	NextUnreleasedAfter(ctx context.Context, scenarioID string, seq int) (*domain.Activity, error)
	Update(ctx context.Context, a *domain.Activity) error
	Delete(ctx context.Context, id string) error
}

type LessonRepo interface {
	Create(ctx context.Context, l *domain.Lesson) error
	GetByID(ctx context.Context, id string) (*domain.Lesson, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Lesson, error)
	Update(ctx context.Context, l *domain.Lesson) error
	Delete(ctx context.Context, id string) error
}

type ChangeRequestRepo interface {
	Create(ctx context.Context, c *domain.ChangeRequest) error
	GetByID(ctx context.Context, id string) (*domain.ChangeRequest, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.ChangeRequest, error)
	Update(ctx context.Context, c *domain.ChangeRequest) error
	Delete(ctx context.Context, id string) error
}
