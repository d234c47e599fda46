package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stagegate/stagegate/internal/db"
	"github.com/stagegate/stagegate/internal/domain"
	"github.com/stagegate/stagegate/internal/repository"
)

type membershipService struct {
	members  repository.MemberRepo
	profiles repository.ProfileRepo
	users    repository.UserRepo
	perms    PermissionService
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewMembershipService(
	members repository.MemberRepo,
	profiles repository.ProfileRepo,
	users repository.UserRepo,
	perms PermissionService,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) MembershipService {
	return &membershipService{
		members:  members,
		profiles: profiles,
		users:    users,
		perms:    perms,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// AddMember enrolls a user and immediately assigns the default "Member"
// profile, in one transaction. A membership without an assignment would
// resolve to deny-all, which is not what an invitation means.
func (s *membershipService) AddMember(ctx context.Context, projectID, userID, callerUserID string) (*domain.Member, error) {
	start := time.Now().UTC()

	if err := s.requireManageMembers(ctx, projectID, callerUserID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	m := &domain.Member{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		UserID:    userID,
		CreatedAt: start,
	}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txMembers := repository.NewSQLiteMemberRepo(tx)
		txProfiles := repository.NewSQLiteProfileRepo(tx)

		if err := txMembers.Create(ctx, m); err != nil {
			return err
		}
		fallback, err := txProfiles.GetByName(ctx, projectID, domain.MemberProfileName)
		if err != nil {
			return fmt.Errorf("finding default member profile: %w", err)
		}
		return txProfiles.Assign(ctx, m.ID, fallback.ID)
	})

	s.observe(ctx, "add_member", start, err, map[string]any{
		"project_id": projectID,
		"user_id":    userID,
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RemoveMember deletes a membership. The last member of a project cannot
// be removed; a project with no members would be unreachable by anyone.
func (s *membershipService) RemoveMember(ctx context.Context, memberID, callerUserID string) error {
	start := time.Now().UTC()

	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return err
	}
	if err := s.requireManageMembers(ctx, m.ProjectID, callerUserID); err != nil {
		return err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txMembers := repository.NewSQLiteMemberRepo(tx)

		count, err := txMembers.CountByProject(ctx, m.ProjectID)
		if err != nil {
			return err
		}
		if count <= 1 {
			return fmt.Errorf("cannot remove the last member of a project: %w", ErrInvariant)
		}
		return txMembers.Delete(ctx, memberID)
	})

	s.observe(ctx, "remove_member", start, err, map[string]any{
		"member_id":  memberID,
		"project_id": m.ProjectID,
	})
	return err
}

// AssignProfile replaces the member's active profile. A member holds
// exactly one profile at a time; assignment is replacement, never
// accumulation. The replace runs in one transaction so a failure cannot
// leave the member with no assignment at all.
func (s *membershipService) AssignProfile(ctx context.Context, projectID, memberID, profileID, callerUserID string) error {
	start := time.Now().UTC()

	if err := s.requireManageMembers(ctx, projectID, callerUserID); err != nil {
		return err
	}

	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return err
	}
	if m.ProjectID != projectID {
		return fmt.Errorf("member %s does not belong to project %s: %w", memberID, projectID, ErrPrecondition)
	}
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	if profile.ProjectID != projectID {
		return fmt.Errorf("profile %q belongs to another project: %w", profile.Name, ErrPrecondition)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProfiles := repository.NewSQLiteProfileRepo(tx)
		return txProfiles.Assign(ctx, memberID, profileID)
	})

	s.observe(ctx, "assign_profile", start, err, map[string]any{
		"member_id":  memberID,
		"profile_id": profileID,
	})
	return err
}

func (s *membershipService) List(ctx context.Context, projectID string) ([]MemberInfo, error) {
	members, err := s.members.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	infos := make([]MemberInfo, 0, len(members))
	for _, m := range members {
		info := MemberInfo{Member: m}
		if u, err := s.users.GetByID(ctx, m.UserID); err == nil {
			info.Username = u.Username
		}
		p, err := s.profiles.GetAssigned(ctx, m.ID)
		switch {
		case err == nil:
			info.ProfileName = p.Name
		case errors.Is(err, repository.ErrNotFound):
			// unassigned members are listed with an empty profile name
		default:
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (s *membershipService) requireManageMembers(ctx context.Context, projectID, callerUserID string) error {
	ok, err := s.perms.HasCapability(ctx, projectID, callerUserID, domain.CapManageMembers)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("managing members requires the manage-members capability: %w", ErrDenied)
	}
	return nil
}

func (s *membershipService) observe(ctx context.Context, name string, start time.Time, err error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: start,
	})
}
