package models

import "time"

// ============================================
// TASK REQUESTS & RESPONSES
// ============================================

type CreateTaskRequest struct {
	ProjectID      string     `json:"projectId" binding:"required,uuid"`
	Title          string     `json:"title" binding:"required,max=255"`
	Description    *string    `json:"description"`
	Status         string     `json:"status" binding:"omitempty,oneof=todo in_progress review done"`
	Priority       string     `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	AssigneeID     *string    `json:"assigneeId" binding:"omitempty,uuid"`
	EstimatedHours *float64   `json:"estimatedHours" binding:"omitempty,gte=0"`
	ActualHours    *float64   `json:"actualHours" binding:"omitempty,gte=0"`
	DueDate        *time.Time `json:"dueDate"`
}

type UpdateTaskRequest struct {
	Title          *string    `json:"title" binding:"omitempty,max=255"`
	Description    *string    `json:"description"`
	Status         *string    `json:"status" binding:"omitempty,oneof=todo in_progress review done"`
	Priority       *string    `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	AssigneeID     *string    `json:"assigneeId" binding:"omitempty,uuid"`
	EstimatedHours *float64   `json:"estimatedHours" binding:"omitempty,gte=0"`
	ActualHours    *float64   `json:"actualHours" binding:"omitempty,gte=0"`
	DueDate        *time.Time `json:"dueDate"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=todo in_progress review done"`
}

type TaskListQuery struct {
	PageQuery
	ProjectID  string `form:"projectId" binding:"omitempty,uuid"`
	AssigneeID string `form:"assigneeId" binding:"omitempty,uuid"`
	Status     string `form:"status"`
	Priority   string `form:"priority"`
}

type TaskResponse struct {
	ID             string     `json:"id"`
	ProjectID      string     `json:"projectId"`
	Title          string     `json:"title"`
	Description    *string    `json:"description,omitempty"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	AssigneeID     *string    `json:"assigneeId"`
	ReporterID     *string    `json:"reporterId,omitempty"`
	EstimatedHours *float64   `json:"estimatedHours"`
	ActualHours    *float64   `json:"actualHours"`
	DueDate        *time.Time `json:"dueDate"`
	CompletedAt    *time.Time `json:"completedAt"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
