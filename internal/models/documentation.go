package models

import "time"

// ============================================
// Documentation DTOs
// ============================================

type CreateDocumentationRequest struct {
	ProjectID   string   `json:"projectId" binding:"required,uuid"`
	Title       string   `json:"title" binding:"required,max=255"`
	Description *string  `json:"description"`
	Content     string   `json:"content" binding:"required"`
	Type        string   `json:"type"`
	Tags        []string `json:"tags"`
}

type UpdateDocumentationRequest struct {
	Title       *string  `json:"title" binding:"omitempty,max=255"`
	Description *string  `json:"description"`
	Content     *string  `json:"content"`
	Type        *string  `json:"type"`
	Status      *string  `json:"status"`
	Tags        []string `json:"tags"`
}

type DocumentationResponse struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	AuthorID    string    `json:"authorId"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Content     string    `json:"content"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Version     string    `json:"version"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
