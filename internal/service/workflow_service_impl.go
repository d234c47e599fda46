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

type workflowService struct {
	activities repository.ActivityRepo
	scenarios  repository.ScenarioRepo
	phases     repository.PhaseRepo
	members    repository.MemberRepo
	users      repository.UserRepo
	perms      PermissionService
	uow        db.UnitOfWork
	observer   UseCaseObserver
}

func NewWorkflowService(
	activities repository.ActivityRepo,
	scenarios repository.ScenarioRepo,
	phases repository.PhaseRepo,
	members repository.MemberRepo,
	users repository.UserRepo,
	perms PermissionService,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) WorkflowService {
	return &workflowService{
		activities: activities,
		scenarios:  scenarios,
		phases:     phases,
		members:    members,
		users:      users,
		perms:      perms,
		uow:        uow,
		observer:   useCaseObserverOrNoop(observers),
	}
}

// CreateActivity inserts a new activity, unreleased, then applies the
// first-activity rule: if the scenario has no released activity and the new
// one holds the lowest sequence number, it is released immediately. Both
// steps run in one transaction so concurrent creations cannot both claim
// the first slot.
func (s *workflowService) CreateActivity(ctx context.Context, scenarioID string, sequenceNumber int, description, responsible, callerUserID string) (*domain.Activity, error) {
	projectID, err := s.projectIDForScenario(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	if err := s.requireCapability(ctx, projectID, callerUserID, domain.CapCreateActivity, "creating activities"); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	a := &domain.Activity{
		ID:             uuid.New().String(),
		ScenarioID:     scenarioID,
		SequenceNumber: sequenceNumber,
		Description:    description,
		Responsible:    responsible,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txActivities := repository.NewSQLiteActivityRepo(tx)

		if err := txActivities.Create(ctx, a); err != nil {
			return err
		}

		released, err := txActivities.HasReleased(ctx, scenarioID)
		if err != nil {
			return err
		}
		if released {
			return nil
		}

		first, err := txActivities.FirstBySequence(ctx, scenarioID)
		if err != nil {
			return err
		}
		if first.ID != a.ID {
			return nil
		}

		a.Release(now)
		return txActivities.Update(ctx, a)
	})

	s.observe(ctx, "create_activity", now, err, map[string]any{
		"scenario_id": scenarioID,
		"activity_id": a.ID,
		"released":    a.Released(),
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CompleteActivity runs the completion transition and its cascade as one
// atomic unit: the completion stamp and the release of the nearest-next
// unreleased sibling commit together or not at all.
func (s *workflowService) CompleteActivity(ctx context.Context, activityID, callerUserID string) (*CompletionResult, error) {
	start := time.Now().UTC()

	a, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	projectID, err := s.projectIDForScenario(ctx, a.ScenarioID)
	if err != nil {
		return nil, err
	}
	if err := s.mayComplete(ctx, projectID, callerUserID, a); err != nil {
		return nil, err
	}

	result := &CompletionResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txActivities := repository.NewSQLiteActivityRepo(tx)

		// Re-read inside the transaction: a concurrent completion of the
		// same activity must be detected, not overwritten.
		current, err := txActivities.GetByID(ctx, activityID)
		if err != nil {
			return err
		}
		if !current.Released() {
			return fmt.Errorf("activity %d is not yet released: %w", current.SequenceNumber, ErrPrecondition)
		}
		if current.Completed() {
			return fmt.Errorf("activity %d is already completed: %w", current.SequenceNumber, ErrPrecondition)
		}

		now := time.Now().UTC()
		current.Complete(now)
		if err := txActivities.Update(ctx, current); err != nil {
			return err
		}

		next, err := txActivities.NextUnreleasedAfter(ctx, current.ScenarioID, current.SequenceNumber)
		if err != nil {
			return err
		}
		if next != nil {
			next.Release(now)
			if err := txActivities.Update(ctx, next); err != nil {
				return err
			}
			result.ReleasedNext = next
		}

		result.Activity = current
		return nil
	})

	s.observe(ctx, "complete_activity", start, err, map[string]any{
		"activity_id": activityID,
		"cascaded":    result.ReleasedNext != nil,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReleaseActivity releases an activity explicitly. Any project member may
// do this; releasing an already-released activity is reported, not failed.
func (s *workflowService) ReleaseActivity(ctx context.Context, activityID, callerUserID string) (*ReleaseResult, error) {
	a, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	projectID, err := s.projectIDForScenario(ctx, a.ScenarioID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, projectID, callerUserID); err != nil {
		return nil, err
	}

	result := &ReleaseResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txActivities := repository.NewSQLiteActivityRepo(tx)

		current, err := txActivities.GetByID(ctx, activityID)
		if err != nil {
			return err
		}
		if current.Released() {
			result.Activity = current
			result.AlreadyReleased = true
			return nil
		}
		current.Release(time.Now().UTC())
		if err := txActivities.Update(ctx, current); err != nil {
			return err
		}
		result.Activity = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReopenActivity clears the completion stamp of a completed activity. The
// release stamp stays. Reopening a non-completed activity changes nothing.
func (s *workflowService) ReopenActivity(ctx context.Context, activityID, callerUserID string) (*ReopenResult, error) {
	start := time.Now().UTC()

	a, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	projectID, err := s.projectIDForScenario(ctx, a.ScenarioID)
	if err != nil {
		return nil, err
	}
	if err := s.requireCapability(ctx, projectID, callerUserID, domain.CapCompleteAnyActivity, "reopening activities"); err != nil {
		return nil, err
	}

	result := &ReopenResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txActivities := repository.NewSQLiteActivityRepo(tx)

		current, err := txActivities.GetByID(ctx, activityID)
		if err != nil {
			return err
		}
		if !current.Completed() {
			result.Activity = current
			return nil
		}
		current.Reopen(time.Now().UTC())
		if err := txActivities.Update(ctx, current); err != nil {
			return err
		}
		result.Activity = current
		result.Reopened = true
		return nil
	})

	s.observe(ctx, "reopen_activity", start, err, map[string]any{
		"activity_id": activityID,
		"reopened":    result.Reopened,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteActivity removes an activity without re-running the release
// cascade: deleting an incomplete predecessor does not retroactively
// release anything.
func (s *workflowService) DeleteActivity(ctx context.Context, activityID, callerUserID string) error {
	a, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		return err
	}
	projectID, err := s.projectIDForScenario(ctx, a.ScenarioID)
	if err != nil {
		return err
	}
	if err := s.requireCapability(ctx, projectID, callerUserID, domain.CapDeleteActivity, "deleting activities"); err != nil {
		return err
	}
	return s.activities.Delete(ctx, activityID)
}

func (s *workflowService) ListActivities(ctx context.Context, scenarioID string) ([]*domain.Activity, error) {
	return s.activities.ListByScenario(ctx, scenarioID)
}

// mayComplete enforces the completion authorization rule: callers without
// complete-any-activity must be the activity's responsible party. The
// comparison is against the caller's username string, matching how the
// responsible field is stored.
func (s *workflowService) mayComplete(ctx context.Context, projectID, callerUserID string, a *domain.Activity) error {
	caps, err := s.perms.Resolve(ctx, projectID, callerUserID)
	if err != nil {
		return err
	}
	if caps.Has(domain.CapCompleteAnyActivity) {
		return nil
	}

	caller, err := s.users.GetByID(ctx, callerUserID)
	if err != nil {
		return err
	}
	if caller.Username != a.Responsible {
		return fmt.Errorf("only %s may complete activity %d: %w", a.Responsible, a.SequenceNumber, ErrDenied)
	}
	return nil
}

func (s *workflowService) requireCapability(ctx context.Context, projectID, callerUserID string, c domain.Capability, action string) error {
	ok, err := s.perms.HasCapability(ctx, projectID, callerUserID, c)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s requires the %s capability: %w", action, c, ErrDenied)
	}
	return nil
}

// requireMembership gates actions that need no specific capability beyond
// belonging to the project.
func (s *workflowService) requireMembership(ctx context.Context, projectID, callerUserID string) error {
	_, err := s.members.GetByProjectAndUser(ctx, projectID, callerUserID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("caller is not a member of the project: %w", ErrDenied)
	}
	return err
}

func (s *workflowService) projectIDForScenario(ctx context.Context, scenarioID string) (string, error) {
	scenario, err := s.scenarios.GetByID(ctx, scenarioID)
	if err != nil {
		return "", err
	}
	phase, err := s.phases.GetByID(ctx, scenario.PhaseID)
	if err != nil {
		return "", err
	}
	return phase.ProjectID, nil
}

func (s *workflowService) observe(ctx context.Context, name string, start time.Time, err error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: start,
	})
}
