package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/projecthub/project-hub-backend/internal/repository"
	"github.com/projecthub/project-hub-backend/internal/types"
)

// ============================================
// Documentation Service
// ============================================

const initialDocVersion = "1.0.0"

type CreateDocumentationInput struct {
	ProjectID   string
	Title       string
	Description *string
	Content     string
	Type        string
	Tags        []string
}

// UpdateDocumentationInput carries optional changes; nil fields are left alone.
type UpdateDocumentationInput struct {
	Title       *string
	Description *string
	Content     *string
	Type        *string
	Status      *string
	Tags        []string
}

type DocumentationService interface {
	Create(ctx context.Context, tenantID, authorID string, in CreateDocumentationInput) (*repository.Documentation, error)
	ListByProject(ctx context.Context, tenantID, projectID string) ([]*repository.Documentation, error)
	Get(ctx context.Context, tenantID, id string) (*repository.Documentation, error)
	Update(ctx context.Context, tenantID, userID, id string, in UpdateDocumentationInput) (*repository.Documentation, error)
	Publish(ctx context.Context, tenantID, userID, id string) (*repository.Documentation, error)
	Delete(ctx context.Context, tenantID, userID, id string) error
	ListByType(ctx context.Context, tenantID, docType string) ([]*repository.Documentation, error)
	Search(ctx context.Context, tenantID, query string) ([]*repository.Documentation, error)
	VersionHistory(ctx context.Context, tenantID, id string) ([]*repository.Documentation, error)
}

type documentationService struct {
	docRepo     repository.DocumentationRepository
	projectRepo repository.ProjectRepository
	broadcaster Broadcaster
}

func NewDocumentationService(
	docRepo repository.DocumentationRepository,
	projectRepo repository.ProjectRepository,
	broadcaster Broadcaster,
) DocumentationService {
	return &documentationService{docRepo: docRepo, projectRepo: projectRepo, broadcaster: broadcaster}
}

func (s *documentationService) Create(ctx context.Context, tenantID, authorID string, in CreateDocumentationInput) (*repository.Documentation, error) {
	if strings.TrimSpace(in.Title) == "" || in.Content == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrInvalidInput)
	}
	if in.Type == "" {
		in.Type = types.DocTechnicalSpec
	}
	if !types.IsValidDocType(in.Type) {
		return nil, fmt.Errorf("%w: unknown documentation type %q", ErrInvalidInput, in.Type)
	}

	project, err := s.projectRepo.FindByID(ctx, tenantID, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: unknown project %s", ErrInvalidInput, in.ProjectID)
	}

	doc := &repository.Documentation{
		TenantID:    tenantID,
		ProjectID:   in.ProjectID,
		AuthorID:    authorID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Content:     in.Content,
		Type:        in.Type,
		Status:      types.DocDraft,
		Version:     initialDocVersion,
		Tags:        in.Tags,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentationService) ListByProject(ctx context.Context, tenantID, projectID string) ([]*repository.Documentation, error) {
	return s.docRepo.FindByProject(ctx, tenantID, projectID)
}

func (s *documentationService) Get(ctx context.Context, tenantID, id string) (*repository.Documentation, error) {
	doc, err := s.docRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	return doc, nil
}

// Update applies changes made by the author. Changed content bumps the patch
// version.
func (s *documentationService) Update(ctx context.Context, tenantID, userID, id string, in UpdateDocumentationInput) (*repository.Documentation, error) {
	doc, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if doc.AuthorID != userID {
		return nil, ErrForbidden
	}

	if in.Type != nil && !types.IsValidDocType(*in.Type) {
		return nil, fmt.Errorf("%w: unknown documentation type %q", ErrInvalidInput, *in.Type)
	}
	if in.Status != nil && !types.IsValidDocStatus(*in.Status) {
		return nil, fmt.Errorf("%w: unknown documentation status %q", ErrInvalidInput, *in.Status)
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
		doc.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		doc.Description = in.Description
	}
	if in.Content != nil && *in.Content != doc.Content {
		doc.Content = *in.Content
		doc.Version = bumpPatch(doc.Version)
	}
	if in.Type != nil {
		doc.Type = *in.Type
	}
	if in.Status != nil {
		doc.Status = *in.Status
	}
	if in.Tags != nil {
		doc.Tags = in.Tags
	}

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Publish marks the document approved.
func (s *documentationService) Publish(ctx context.Context, tenantID, userID, id string) (*repository.Documentation, error) {
	doc, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	doc.Status = types.DocApproved
	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastDocumentationPublished(tenantID, doc.ProjectID, map[string]interface{}{
			"id":      doc.ID,
			"title":   doc.Title,
			"version": doc.Version,
			"status":  doc.Status,
		}, userID)
	}
	return doc, nil
}

func (s *documentationService) Delete(ctx context.Context, tenantID, userID, id string) error {
	doc, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if doc.AuthorID != userID {
		return ErrForbidden
	}
	return s.docRepo.Delete(ctx, tenantID, id)
}

func (s *documentationService) ListByType(ctx context.Context, tenantID, docType string) ([]*repository.Documentation, error) {
	if !types.IsValidDocType(docType) {
		return nil, fmt.Errorf("%w: unknown documentation type %q", ErrInvalidInput, docType)
	}
	return s.docRepo.FindByType(ctx, tenantID, docType)
}

func (s *documentationService) Search(ctx context.Context, tenantID, query string) ([]*repository.Documentation, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrInvalidInput)
	}
	return s.docRepo.Search(ctx, tenantID, query)
}

// VersionHistory returns the stored versions of a document. Only the current
// version is kept, so the history has a single entry.
func (s *documentationService) VersionHistory(ctx context.Context, tenantID, id string) ([]*repository.Documentation, error) {
	doc, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return []*repository.Documentation{doc}, nil
}

// bumpPatch increments the last component of a major.minor.patch version.
// Anything else restarts from 1.0.1.
func bumpPatch(version string) string {
	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return "1.0.1"
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return "1.0.1"
		}
		nums[i] = n
	}
	return fmt.Sprintf("%d.%d.%d", nums[0], nums[1], nums[2]+1)
}
