package types

import "slices"

// User roles within a tenant
const (
	RoleAdmin     = "admin"
	RoleDeveloper = "developer"
	RoleClient    = "client"
)

// Project Status values
const (
	ProjectActive    = "active"
	ProjectCompleted = "completed"
	ProjectPaused    = "paused"
	ProjectArchived  = "archived"
)

// Task Status values
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusReview     = "review"
	StatusDone       = "done"
)

// Task Priority values
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Documentation types
const (
	DocRequirements  = "requirements"
	DocTechnicalSpec = "technical_spec"
	DocAPI           = "api_doc"
	DocUserManual    = "user_manual"
	DocProcess       = "process_doc"
)

// Documentation Status values
const (
	DocDraft       = "draft"
	DocUnderReview = "under_review"
	DocApproved    = "approved"
	DocPublished   = "published"
	DocArchived    = "archived"
)

// Valid values for validation
var ValidRoles = []string{RoleAdmin, RoleDeveloper, RoleClient}

var ValidProjectStatuses = []string{
	ProjectActive, ProjectCompleted, ProjectPaused, ProjectArchived,
}

var ValidTaskStatuses = []string{
	StatusTodo, StatusInProgress, StatusReview, StatusDone,
}

var ValidPriorities = []string{
	PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent,
}

var ValidDocTypes = []string{
	DocRequirements, DocTechnicalSpec, DocAPI, DocUserManual, DocProcess,
}

var ValidDocStatuses = []string{
	DocDraft, DocUnderReview, DocApproved, DocPublished, DocArchived,
}

func IsValidRole(role string) bool {
	return slices.Contains(ValidRoles, role)
}

func IsValidProjectStatus(status string) bool {
	return slices.Contains(ValidProjectStatuses, status)
}

func IsValidTaskStatus(status string) bool {
	return slices.Contains(ValidTaskStatuses, status)
}

func IsValidPriority(priority string) bool {
	return slices.Contains(ValidPriorities, priority)
}

func IsValidDocType(docType string) bool {
	return slices.Contains(ValidDocTypes, docType)
}

func IsValidDocStatus(status string) bool {
	return slices.Contains(ValidDocStatuses, status)
}
