package models

import "time"

// ============================================
// Project DTOs
// ============================================

type CreateProjectRequest struct {
	Name         string   `json:"name" binding:"required,max=255"`
	Description  *string  `json:"description"`
	Status       string   `json:"status" binding:"omitempty,oneof=active completed paused archived"`
	ClientID     *string  `json:"clientId" binding:"omitempty,uuid"`
	EstimationID *string  `json:"estimationId" binding:"omitempty,uuid"`
	TeamMembers  []string `json:"teamMembers" binding:"omitempty,dive,uuid"`
}

type UpdateProjectRequest struct {
	Name         *string  `json:"name" binding:"omitempty,max=255"`
	Description  *string  `json:"description"`
	Status       *string  `json:"status" binding:"omitempty,oneof=active completed paused archived"`
	ClientID     *string  `json:"clientId" binding:"omitempty,uuid"`
	EstimationID *string  `json:"estimationId" binding:"omitempty,uuid"`
	TeamMembers  []string `json:"teamMembers" binding:"omitempty,dive,uuid"`
}

type ProjectListQuery struct {
	PageQuery
	Status string `form:"status"`
	Search string `form:"search"`
}

type ProjectResponse struct {
	ID           string         `json:"id"`
	TenantID     string         `json:"tenantId"`
	Name         string         `json:"name"`
	Description  *string        `json:"description,omitempty"`
	Status       string         `json:"status"`
	ClientID     *string        `json:"clientId,omitempty"`
	EstimationID *string        `json:"estimationId,omitempty"`
	TeamMembers  []string       `json:"teamMembers"`
	Team         []UserResponse `json:"team,omitempty"`
	CreatedBy    string         `json:"createdBy"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}
