package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/stagegate/stagegate/internal/domain"
)

// User fixtures

type UserOption func(*domain.User)

func WithEmail(email string) UserOption {
	return func(u *domain.User) {
		u.Email = email
	}
}

func NewTestUser(username string, opts ...UserOption) *domain.User {
	u := &domain.User{
		ID:        uuid.New().String(),
		Username:  username,
		Email:     username + "@example.com",
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Project fixtures

func NewTestProject(name string) *domain.Project {
	now := time.Now().UTC()
	return &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewTestMember(projectID, userID string) *domain.Member {
	return &domain.Member{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
}

// Profile fixtures

type ProfileOption func(*domain.Profile)

func WithFlags(flags domain.CapabilitySet) ProfileOption {
	return func(p *domain.Profile) {
		p.Flags = flags
	}
}

func WithFlag(c domain.Capability, granted bool) ProfileOption {
	return func(p *domain.Profile) {
		p.Flags[c] = granted
	}
}

func WithDefault() ProfileOption {
	return func(p *domain.Profile) {
		p.IsDefault = true
	}
}

func NewTestProfile(projectID, name string, opts ...ProfileOption) *domain.Profile {
	now := time.Now().UTC()
	p := &domain.Profile{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		Flags:     domain.DenyAllCapabilitySet(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Structure fixtures

func NewTestPhase(projectID, name string) *domain.Phase {
	now := time.Now().UTC()
	return &domain.Phase{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewTestScenario(phaseID, name string) *domain.Scenario {
	now := time.Now().UTC()
	return &domain.Scenario{
		ID:        uuid.New().String(),
		PhaseID:   phaseID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Activity fixtures

type ActivityOption func(*domain.Activity)

func WithResponsible(username string) ActivityOption {
	return func(a *domain.Activity) {
		a.Responsible = username
	}
}

func WithReleasedAt(t time.Time) ActivityOption {
	return func(a *domain.Activity) {
		a.ReleasedAt = &t
	}
}

func WithCompletedAt(t time.Time) ActivityOption {
	return func(a *domain.Activity) {
		a.CompletedAt = &t
	}
}

func NewTestActivity(scenarioID string, seq int, opts ...ActivityOption) *domain.Activity {
	now := time.Now().UTC()
	a := &domain.Activity{
		ID:             uuid.New().String(),
		ScenarioID:     scenarioID,
		SequenceNumber: seq,
		Description:    "activity",
		Responsible:    "worker",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
