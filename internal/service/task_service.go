package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/projecthub/project-hub-backend/internal/logger"
	"github.com/projecthub/project-hub-backend/internal/repository"
	"github.com/projecthub/project-hub-backend/internal/types"
)

// ============================================
// Task Service
// ============================================

type CreateTaskInput struct {
	ProjectID      string
	Title          string
	Description    *string
	Status         string
	Priority       string
	AssigneeID     *string
	EstimatedHours *float64
	ActualHours    *float64
	DueDate        *time.Time
}

// UpdateTaskInput carries optional changes; nil fields are left alone.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Status         *string
	Priority       *string
	AssigneeID     *string
	EstimatedHours *float64
	ActualHours    *float64
	DueDate        *time.Time
}

type TaskService interface {
	Create(ctx context.Context, tenantID, userID string, in CreateTaskInput) (*repository.Task, error)
	Get(ctx context.Context, tenantID, id string) (*repository.Task, error)
	List(ctx context.Context, filter repository.TaskFilter) ([]*repository.Task, int, error)
	Update(ctx context.Context, tenantID, userID, id string, in UpdateTaskInput) (*repository.Task, error)
	UpdateStatus(ctx context.Context, tenantID, userID, id, status string) (*repository.Task, error)
	Delete(ctx context.Context, tenantID, userID, id string) error
}

type taskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	broadcaster Broadcaster
	now         func() time.Time
}

func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	broadcaster Broadcaster,
) TaskService {
	return &taskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		broadcaster: broadcaster,
		now:         time.Now,
	}
}

func (s *taskService) Create(ctx context.Context, tenantID, userID string, in CreateTaskInput) (*repository.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: task title is required", ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = types.StatusTodo
	}
	if in.Priority == "" {
		in.Priority = types.PriorityMedium
	}
	if err := validateTaskFields(&in.Status, &in.Priority, in.EstimatedHours, in.ActualHours); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, tenantID, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: unknown project %s", ErrInvalidInput, in.ProjectID)
	}
	if err := s.checkAssignee(ctx, tenantID, in.AssigneeID); err != nil {
		return nil, err
	}

	task := &repository.Task{
		TenantID:       tenantID,
		ProjectID:      in.ProjectID,
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		Status:         in.Status,
		Priority:       in.Priority,
		AssigneeID:     in.AssigneeID,
		ReporterID:     &userID,
		EstimatedHours: in.EstimatedHours,
		ActualHours:    in.ActualHours,
		DueDate:        in.DueDate,
	}
	if task.Status == types.StatusDone {
		now := s.now()
		task.CompletedAt = &now
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastTaskCreated(tenantID, task.ProjectID, taskEvent(task), userID)
		if task.AssigneeID != nil && *task.AssigneeID != userID {
			s.broadcaster.BroadcastTaskAssigned(*task.AssigneeID, taskEvent(task), userID)
		}
	}
	return task, nil
}

func (s *taskService) Get(ctx context.Context, tenantID, id string) (*repository.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrNotFound
	}
	return task, nil
}

func (s *taskService) List(ctx context.Context, filter repository.TaskFilter) ([]*repository.Task, int, error) {
	if err := validateTaskFields(filter.Status, filter.Priority, nil, nil); err != nil {
		return nil, 0, err
	}
	return s.taskRepo.FindWithFilters(ctx, filter)
}

func (s *taskService) Update(ctx context.Context, tenantID, userID, id string, in UpdateTaskInput) (*repository.Task, error) {
	task, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := validateTaskFields(in.Status, in.Priority, in.EstimatedHours, in.ActualHours); err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, tenantID, in.AssigneeID); err != nil {
		return nil, err
	}

	var changes []string
	oldStatus := task.Status
	prevAssignee := task.AssigneeID

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, fmt.Errorf("%w: task title is required", ErrInvalidInput)
		}
		task.Title = strings.TrimSpace(*in.Title)
		changes = append(changes, "title")
	}
	if in.Description != nil {
		task.Description = in.Description
		changes = append(changes, "description")
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
		changes = append(changes, "priority")
	}
	if in.AssigneeID != nil {
		task.AssigneeID = in.AssigneeID
		changes = append(changes, "assigneeId")
	}
	if in.EstimatedHours != nil {
		task.EstimatedHours = in.EstimatedHours
		changes = append(changes, "estimatedHours")
	}
	if in.ActualHours != nil {
		task.ActualHours = in.ActualHours
		changes = append(changes, "actualHours")
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
		changes = append(changes, "dueDate")
	}
	if in.Status != nil {
		s.applyStatus(task, *in.Status)
		changes = append(changes, "status")
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastTaskUpdated(tenantID, task.ProjectID, taskEvent(task), changes, userID)
		if task.Status != oldStatus {
			s.broadcaster.BroadcastTaskStatusChanged(tenantID, task.ProjectID, taskEvent(task), oldStatus, task.Status, userID)
		}
		if task.AssigneeID != nil && *task.AssigneeID != userID && (prevAssignee == nil || *prevAssignee != *task.AssigneeID) {
			s.broadcaster.BroadcastTaskAssigned(*task.AssigneeID, taskEvent(task), userID)
		}
	}
	return task, nil
}

func (s *taskService) UpdateStatus(ctx context.Context, tenantID, userID, id, status string) (*repository.Task, error) {
	return s.Update(ctx, tenantID, userID, id, UpdateTaskInput{Status: &status})
}

func (s *taskService) Delete(ctx context.Context, tenantID, userID, id string) error {
	task, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.taskRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	logger.Get(ctx).Info().Str("task_id", id).Msg("🗑️ Task deleted")
	if s.broadcaster != nil {
		s.broadcaster.BroadcastTaskDeleted(tenantID, task.ProjectID, id, userID)
	}
	return nil
}

// applyStatus sets the status and keeps completed_at in step with it.
func (s *taskService) applyStatus(task *repository.Task, status string) {
	switch {
	case status == types.StatusDone && task.Status != types.StatusDone:
		now := s.now()
		task.CompletedAt = &now
	case status != types.StatusDone:
		task.CompletedAt = nil
	}
	task.Status = status
}

func (s *taskService) checkAssignee(ctx context.Context, tenantID string, assigneeID *string) error {
	if assigneeID == nil {
		return nil
	}
	u, err := s.userRepo.FindByID(ctx, *assigneeID)
	if err != nil {
		return err
	}
	if u == nil || u.TenantID != tenantID {
		return fmt.Errorf("%w: unknown assignee %s", ErrInvalidInput, *assigneeID)
	}
	return nil
}

func validateTaskFields(status, priority *string, estimated, actual *float64) error {
	if status != nil && !types.IsValidTaskStatus(*status) {
		return fmt.Errorf("%w: unknown task status %q", ErrInvalidInput, *status)
	}
	if priority != nil && !types.IsValidPriority(*priority) {
		return fmt.Errorf("%w: unknown task priority %q", ErrInvalidInput, *priority)
	}
	if estimated != nil && *estimated < 0 {
		return fmt.Errorf("%w: estimated hours must not be negative", ErrInvalidInput)
	}
	if actual != nil && *actual < 0 {
		return fmt.Errorf("%w: actual hours must not be negative", ErrInvalidInput)
	}
	return nil
}

func taskEvent(t *repository.Task) map[string]interface{} {
	return map[string]interface{}{
		"id":         t.ID,
		"projectId":  t.ProjectID,
		"title":      t.Title,
		"status":     t.Status,
		"priority":   t.Priority,
		"assigneeId": t.AssigneeID,
	}
}
