package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/projecthub/project-hub-backend/internal/repository"
	"github.com/projecthub/project-hub-backend/internal/types"
)

// ============================================
// Project Service
// ============================================

type CreateProjectInput struct {
	Name         string
	Description  *string
	Status       string
	ClientID     *string
	EstimationID *string
	TeamMembers  []string
}

// UpdateProjectInput carries optional changes; nil fields are left alone.
type UpdateProjectInput struct {
	Name         *string
	Description  *string
	Status       *string
	ClientID     *string
	EstimationID *string
	TeamMembers  []string
}

type ProjectService interface {
	Create(ctx context.Context, tenantID, userID string, in CreateProjectInput) (*repository.Project, error)
	Get(ctx context.Context, tenantID, id string) (*repository.Project, error)
	List(ctx context.Context, filter repository.ProjectFilter) ([]*repository.Project, int, error)
	Update(ctx context.Context, tenantID, userID, id string, in UpdateProjectInput) (*repository.Project, error)
	Delete(ctx context.Context, tenantID, userID, id string) error
	TeamMembers(ctx context.Context, project *repository.Project) ([]*repository.User, error)
}

type projectService struct {
	projectRepo    repository.ProjectRepository
	userRepo       repository.UserRepository
	estimationRepo repository.EstimationRepository
	broadcaster    Broadcaster
}

func NewProjectService(
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	estimationRepo repository.EstimationRepository,
	broadcaster Broadcaster,
) ProjectService {
	return &projectService{
		projectRepo:    projectRepo,
		userRepo:       userRepo,
		estimationRepo: estimationRepo,
		broadcaster:    broadcaster,
	}
}

func (s *projectService) Create(ctx context.Context, tenantID, userID string, in CreateProjectInput) (*repository.Project, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = types.ProjectActive
	}
	if !types.IsValidProjectStatus(in.Status) {
		return nil, fmt.Errorf("%w: unknown project status %q", ErrInvalidInput, in.Status)
	}
	if err := s.checkReferences(ctx, tenantID, in.ClientID, in.EstimationID, in.TeamMembers); err != nil {
		return nil, err
	}

	project := &repository.Project{
		TenantID:     tenantID,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Status:       in.Status,
		ClientID:     in.ClientID,
		EstimationID: in.EstimationID,
		TeamMembers:  dedupe(in.TeamMembers),
		CreatedBy:    &userID,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastProjectCreated(tenantID, projectEvent(project), userID)
	}
	return project, nil
}

func (s *projectService) Get(ctx context.Context, tenantID, id string) (*repository.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}
	return project, nil
}

func (s *projectService) List(ctx context.Context, filter repository.ProjectFilter) ([]*repository.Project, int, error) {
	if filter.Status != nil && !types.IsValidProjectStatus(*filter.Status) {
		return nil, 0, fmt.Errorf("%w: unknown project status %q", ErrInvalidInput, *filter.Status)
	}
	return s.projectRepo.FindAll(ctx, filter)
}

func (s *projectService) Update(ctx context.Context, tenantID, userID, id string, in UpdateProjectInput) (*repository.Project, error) {
	project, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("%w: project name is required", ErrInvalidInput)
		}
		project.Name = strings.TrimSpace(*in.Name)
	}
	if in.Status != nil {
		if !types.IsValidProjectStatus(*in.Status) {
			return nil, fmt.Errorf("%w: unknown project status %q", ErrInvalidInput, *in.Status)
		}
		project.Status = *in.Status
	}
	if err := s.checkReferences(ctx, tenantID, in.ClientID, in.EstimationID, in.TeamMembers); err != nil {
		return nil, err
	}
	if in.Description != nil {
		project.Description = in.Description
	}
	if in.ClientID != nil {
		project.ClientID = in.ClientID
	}
	if in.EstimationID != nil {
		project.EstimationID = in.EstimationID
	}
	if in.TeamMembers != nil {
		project.TeamMembers = dedupe(in.TeamMembers)
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastProjectUpdated(tenantID, projectEvent(project), userID)
	}
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, tenantID, userID, id string) error {
	if _, err := s.Get(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.projectRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastProjectDeleted(tenantID, id, userID)
	}
	return nil
}

// TeamMembers resolves the project's member ids to users, skipping ids that
// no longer exist.
func (s *projectService) TeamMembers(ctx context.Context, project *repository.Project) ([]*repository.User, error) {
	users := make([]*repository.User, 0, len(project.TeamMembers))
	for _, id := range project.TeamMembers {
		u, err := s.userRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if u != nil && u.TenantID == project.TenantID {
			users = append(users, u)
		}
	}
	return users, nil
}

// checkReferences verifies that referenced users and estimations belong to
// the tenant.
func (s *projectService) checkReferences(ctx context.Context, tenantID string, clientID, estimationID *string, members []string) error {
	userIDs := append([]string{}, members...)
	if clientID != nil {
		userIDs = append(userIDs, *clientID)
	}
	for _, id := range userIDs {
		u, err := s.userRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil || u.TenantID != tenantID {
			return fmt.Errorf("%w: unknown user %s", ErrInvalidInput, id)
		}
	}

	if estimationID != nil {
		e, err := s.estimationRepo.FindByID(ctx, tenantID, *estimationID)
		if err != nil {
			return err
		}
		if e == nil {
			return fmt.Errorf("%w: unknown estimation %s", ErrInvalidInput, *estimationID)
		}
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func projectEvent(p *repository.Project) map[string]interface{} {
	return map[string]interface{}{
		"id":     p.ID,
		"name":   p.Name,
		"status": p.Status,
	}
}
