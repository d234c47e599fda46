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

type permissionService struct {
	members  repository.MemberRepo
	profiles repository.ProfileRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewPermissionService(members repository.MemberRepo, profiles repository.ProfileRepo, uow db.UnitOfWork, observers ...UseCaseObserver) PermissionService {
	return &permissionService{
		members:  members,
		profiles: profiles,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Resolve looks up the caller's membership and active profile assignment.
// Any gap in the chain (no such project, not a member, no assignment)
// resolves to deny-all rather than an error: absence of permission is not
// an error condition to the caller.
func (s *permissionService) Resolve(ctx context.Context, projectID, userID string) (domain.CapabilitySet, error) {
	member, err := s.members.GetByProjectAndUser(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.DenyAllCapabilitySet(), nil
		}
		return nil, err
	}

	profile, err := s.profiles.GetAssigned(ctx, member.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.DenyAllCapabilitySet(), nil
		}
		return nil, err
	}

	return profile.EffectiveFlags(), nil
}

func (s *permissionService) HasCapability(ctx context.Context, projectID, userID string, c domain.Capability) (bool, error) {
	caps, err := s.Resolve(ctx, projectID, userID)
	if err != nil {
		return false, err
	}
	return caps.Has(c), nil
}

func (s *permissionService) CreateProfile(ctx context.Context, p *domain.Profile, callerUserID string) error {
	if err := s.requireManageMembers(ctx, p.ProjectID, callerUserID); err != nil {
		return err
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.IsDefault = false
	if p.Flags == nil {
		p.Flags = domain.DenyAllCapabilitySet()
	}
	return s.profiles.Create(ctx, p)
}

func (s *permissionService) UpdateProfile(ctx context.Context, p *domain.Profile, callerUserID string) error {
	if err := s.requireManageMembers(ctx, p.ProjectID, callerUserID); err != nil {
		return err
	}

	current, err := s.profiles.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	// Default profiles are immutable regardless of the caller's capability.
	if current.IsDefault {
		return fmt.Errorf("default profile %q cannot be edited: %w", current.Name, ErrInvariant)
	}

	p.UpdatedAt = time.Now().UTC()
	return s.profiles.Update(ctx, p)
}

// DeleteProfile removes a custom profile. Every member currently holding it
// is reassigned to the project's default "Member" profile inside the same
// transaction as the row removal.
func (s *permissionService) DeleteProfile(ctx context.Context, profileID, callerUserID string) error {
	start := time.Now()

	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	if profile.IsDefault {
		return fmt.Errorf("default profile %q cannot be deleted: %w", profile.Name, ErrInvariant)
	}
	if err := s.requireManageMembers(ctx, profile.ProjectID, callerUserID); err != nil {
		return err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProfiles := repository.NewSQLiteProfileRepo(tx)

		fallback, err := txProfiles.GetByName(ctx, profile.ProjectID, domain.MemberProfileName)
		if err != nil {
			return fmt.Errorf("finding default member profile: %w", err)
		}
		if err := txProfiles.ReassignHolders(ctx, profile.ID, fallback.ID); err != nil {
			return err
		}
		return txProfiles.Delete(ctx, profile.ID)
	})

	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "delete_profile",
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		Fields:    map[string]any{"profile_id": profileID, "project_id": profile.ProjectID},
		StartedAt: start,
	})
	return err
}

func (s *permissionService) ListProfiles(ctx context.Context, projectID string) ([]*domain.Profile, error) {
	return s.profiles.ListByProject(ctx, projectID)
}

func (s *permissionService) requireManageMembers(ctx context.Context, projectID, callerUserID string) error {
	ok, err := s.HasCapability(ctx, projectID, callerUserID, domain.CapManageMembers)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("managing profiles requires the manage-members capability: %w", ErrDenied)
	}
	return nil
}
