package service

import (
	"context"
	"fmt"

	"github.com/stagegate/stagegate/internal/contract"
	"github.com/stagegate/stagegate/internal/repository"
)

type boardService struct {
	projects   repository.ProjectRepo
	phases     repository.PhaseRepo
	scenarios  repository.ScenarioRepo
	activities repository.ActivityRepo
	members    repository.MemberRepo
	profiles   repository.ProfileRepo
	users      repository.UserRepo
	perms      PermissionService
}

func NewBoardService(
	projects repository.ProjectRepo,
	phases repository.PhaseRepo,
	scenarios repository.ScenarioRepo,
	activities repository.ActivityRepo,
	members repository.MemberRepo,
	profiles repository.ProfileRepo,
	users repository.UserRepo,
	perms PermissionService,
) BoardService {
	return &boardService{
		projects:   projects,
		phases:     phases,
		scenarios:  scenarios,
		activities: activities,
		members:    members,
		profiles:   profiles,
		users:      users,
		perms:      perms,
	}
}

// Board assembles the full phase/scenario/activity tree for one project.
// Only members may view a board.
func (s *boardService) Board(ctx context.Context, projectID, callerUserID string) (*contract.BoardResponse, error) {
	if _, err := s.members.GetByProjectAndUser(ctx, projectID, callerUserID); err != nil {
		return nil, fmt.Errorf("caller is not a member of the project: %w", ErrDenied)
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	caps, err := s.perms.Resolve(ctx, projectID, callerUserID)
	if err != nil {
		return nil, err
	}

	resp := &contract.BoardResponse{
		ProjectID:   project.ID,
		ProjectName: project.Name,
		CallerCaps:  caps,
	}
	if caller, err := s.users.GetByID(ctx, callerUserID); err == nil {
		resp.CallerName = caller.Username
	}

	phases, err := s.phases.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, phase := range phases {
		pv := contract.PhaseView{ID: phase.ID, Name: phase.Name}

		scenarios, err := s.scenarios.ListByPhase(ctx, phase.ID)
		if err != nil {
			return nil, err
		}
		for _, sc := range scenarios {
			sv := contract.ScenarioView{ID: sc.ID, Name: sc.Name}

			activities, err := s.activities.ListByScenario(ctx, sc.ID)
			if err != nil {
				return nil, err
			}
			for _, a := range activities {
				sv.Activities = append(sv.Activities, contract.ActivityView{
					ID:             a.ID,
					SequenceNumber: a.SequenceNumber,
					Description:    a.Description,
					Responsible:    a.Responsible,
					State:          a.State(),
					ReleasedAt:     a.ReleasedAt,
					CompletedAt:    a.CompletedAt,
				})
			}
			pv.Scenarios = append(pv.Scenarios, sv)
		}
		resp.Phases = append(resp.Phases, pv)
	}

	if n, err := s.members.CountByProject(ctx, projectID); err == nil {
		resp.MemberCount = n
	}
	if profiles, err := s.profiles.ListByProject(ctx, projectID); err == nil {
		resp.ProfileCount = len(profiles)
	}
	return resp, nil
}
