package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stagegate/stagegate/internal/domain"
	"github.com/stagegate/stagegate/internal/repository"
)

type recordService struct {
	lessons repository.LessonRepo
	changes repository.ChangeRequestRepo
	perms   PermissionService
}

func NewRecordService(lessons repository.LessonRepo, changes repository.ChangeRequestRepo, perms PermissionService) RecordService {
	return &recordService{lessons: lessons, changes: changes, perms: perms}
}

func (s *recordService) CreateLesson(ctx context.Context, l *domain.Lesson, callerUserID string) error {
	if err := s.requireCapability(ctx, l.ProjectID, callerUserID, domain.CapCreateLesson, "recording lessons"); err != nil {
		return err
	}
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.RecordedAt.IsZero() {
		l.RecordedAt = time.Now().UTC()
	}
	return s.lessons.Create(ctx, l)
}

func (s *recordService) UpdateLesson(ctx context.Context, l *domain.Lesson, callerUserID string) error {
	if err := s.requireCapability(ctx, l.ProjectID, callerUserID, domain.CapEditLesson, "editing lessons"); err != nil {
		return err
	}
	return s.lessons.Update(ctx, l)
}

func (s *recordService) DeleteLesson(ctx context.Context, lessonID, callerUserID string) error {
	l, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return err
	}
	if err := s.requireCapability(ctx, l.ProjectID, callerUserID, domain.CapDeleteLesson, "deleting lessons"); err != nil {
		return err
	}
	return s.lessons.Delete(ctx, lessonID)
}

func (s *recordService) ListLessons(ctx context.Context, projectID string) ([]*domain.Lesson, error) {
	return s.lessons.ListByProject(ctx, projectID)
}

func (s *recordService) CreateChange(ctx context.Context, c *domain.ChangeRequest, callerUserID string) error {
	if err := s.requireCapability(ctx, c.ProjectID, callerUserID, domain.CapCreateChange, "opening change requests"); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.RequestedAt.IsZero() {
		c.RequestedAt = time.Now().UTC()
	}
	return s.changes.Create(ctx, c)
}

func (s *recordService) UpdateChange(ctx context.Context, c *domain.ChangeRequest, callerUserID string) error {
	if err := s.requireCapability(ctx, c.ProjectID, callerUserID, domain.CapEditChange, "editing change requests"); err != nil {
		return err
	}
	return s.changes.Update(ctx, c)
}

func (s *recordService) DeleteChange(ctx context.Context, changeID, callerUserID string) error {
	c, err := s.changes.GetByID(ctx, changeID)
	if err != nil {
		return err
	}
	if err := s.requireCapability(ctx, c.ProjectID, callerUserID, domain.CapDeleteChange, "deleting change requests"); err != nil {
		return err
	}
	return s.changes.Delete(ctx, changeID)
}

func (s *recordService) ListChanges(ctx context.Context, projectID string) ([]*domain.ChangeRequest, error) {
	return s.changes.ListByProject(ctx, projectID)
}

func (s *recordService) requireCapability(ctx context.Context, projectID, callerUserID string, c domain.Capability, action string) error {
	ok, err := s.perms.HasCapability(ctx, projectID, callerUserID, c)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s requires the %s capability: %w", action, c, ErrDenied)
	}
	return nil
}
