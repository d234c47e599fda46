package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stagegate/stagegate/internal/db"
	"github.com/stagegate/stagegate/internal/domain"
	"github.com/stagegate/stagegate/internal/repository"
)

type projectService struct {
	projects  repository.ProjectRepo
	phases    repository.PhaseRepo
	scenarios repository.ScenarioRepo
	members   repository.MemberRepo
	perms     PermissionService
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

func NewProjectService(
	projects repository.ProjectRepo,
	phases repository.PhaseRepo,
	scenarios repository.ScenarioRepo,
	members repository.MemberRepo,
	perms PermissionService,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ProjectService {
	return &projectService{
		projects:  projects,
		phases:    phases,
		scenarios: scenarios,
		members:   members,
		perms:     perms,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// Create provisions a project as one atomic unit: the project row, its two
// default profiles, a membership for every listed user, the creator
// assigned to "Administrator" and everyone else to "Member". A partial
// project with missing defaults must never be observable.
func (s *projectService) Create(ctx context.Context, name, creatorUserID string, memberUserIDs ...string) (*domain.Project, error) {
	start := time.Now().UTC()

	now := start
	project := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txProfiles := repository.NewSQLiteProfileRepo(tx)
		txMembers := repository.NewSQLiteMemberRepo(tx)

		if err := txProjects.Create(ctx, project); err != nil {
			return err
		}

		admin := &domain.Profile{
			ID:        uuid.New().String(),
			ProjectID: project.ID,
			Name:      domain.AdminProfileName,
			IsDefault: true,
			Flags:     domain.DefaultAdminFlags(),
			CreatedAt: now,
			UpdatedAt: now,
		}
		member := &domain.Profile{
			ID:        uuid.New().String(),
			ProjectID: project.ID,
			Name:      domain.MemberProfileName,
			IsDefault: true,
			Flags:     domain.DefaultMemberFlags(),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := txProfiles.Create(ctx, admin); err != nil {
			return err
		}
		if err := txProfiles.Create(ctx, member); err != nil {
			return err
		}

		enroll := func(userID, profileID string) error {
			m := &domain.Member{
				ID:        uuid.New().String(),
				ProjectID: project.ID,
				UserID:    userID,
				CreatedAt: now,
			}
			if err := txMembers.Create(ctx, m); err != nil {
				return err
			}
			return txProfiles.Assign(ctx, m.ID, profileID)
		}

		if err := enroll(creatorUserID, admin.ID); err != nil {
			return err
		}
		for _, userID := range memberUserIDs {
			if userID == creatorUserID {
				continue
			}
			if err := enroll(userID, member.ID); err != nil {
				return err
			}
		}
		return nil
	})

	s.observe(ctx, "create_project", start, err, map[string]any{
		"project_id": project.ID,
		"members":    1 + len(memberUserIDs),
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project, callerUserID string) error {
	if err := s.requireCapability(ctx, p.ID, callerUserID, domain.CapEditProject, "editing the project"); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()
	return s.projects.Update(ctx, p)
}

// Delete removes a project and, via foreign keys, everything beneath it.
func (s *projectService) Delete(ctx context.Context, id, callerUserID string) error {
	if _, err := s.projects.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.requireCapability(ctx, id, callerUserID, domain.CapEditProject, "deleting the project"); err != nil {
		return err
	}
	return s.projects.Delete(ctx, id)
}

func (s *projectService) CreatePhase(ctx context.Context, projectID, name, callerUserID string) (*domain.Phase, error) {
	if err := s.requireMembership(ctx, projectID, callerUserID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &domain.Phase{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.phases.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) CreateScenario(ctx context.Context, phaseID, name, callerUserID string) (*domain.Scenario, error) {
	phase, err := s.phases.GetByID(ctx, phaseID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, phase.ProjectID, callerUserID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sc := &domain.Scenario{
		ID:        uuid.New().String(),
		PhaseID:   phaseID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.scenarios.Create(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// DeletePhase removes a phase and its scenarios and activities through the
// cascade. Structure deletions need membership, not a specific capability.
func (s *projectService) DeletePhase(ctx context.Context, phaseID, callerUserID string) error {
	phase, err := s.phases.GetByID(ctx, phaseID)
	if err != nil {
		return err
	}
	if err := s.requireMembership(ctx, phase.ProjectID, callerUserID); err != nil {
		return err
	}
	return s.phases.Delete(ctx, phaseID)
}

func (s *projectService) DeleteScenario(ctx context.Context, scenarioID, callerUserID string) error {
	sc, err := s.scenarios.GetByID(ctx, scenarioID)
	if err != nil {
		return err
	}
	phase, err := s.phases.GetByID(ctx, sc.PhaseID)
	if err != nil {
		return err
	}
	if err := s.requireMembership(ctx, phase.ProjectID, callerUserID); err != nil {
		return err
	}
	return s.scenarios.Delete(ctx, scenarioID)
}

func (s *projectService) requireCapability(ctx context.Context, projectID, callerUserID string, c domain.Capability, action string) error {
	ok, err := s.perms.HasCapability(ctx, projectID, callerUserID, c)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s requires the %s capability: %w", action, c, ErrDenied)
	}
	return nil
}

func (s *projectService) requireMembership(ctx context.Context, projectID, callerUserID string) error {
	if _, err := s.members.GetByProjectAndUser(ctx, projectID, callerUserID); err != nil {
		return fmt.Errorf("caller is not a member of the project: %w", ErrDenied)
	}
	return nil
}

func (s *projectService) observe(ctx context.Context, name string, start time.Time, err error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: start,
	})
}
