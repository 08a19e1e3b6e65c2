package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/projecthub/project-hub-backend/internal/api/middleware"
	"github.com/projecthub/project-hub-backend/internal/models"
	"github.com/projecthub/project-hub-backend/internal/repository"
	"github.com/projecthub/project-hub-backend/internal/service"
)

// ============================================
// TASK HANDLER
// ============================================

type TaskHandler struct {
	taskService service.TaskService
}

// List - Tasks filtered by project, assignee, status and priority
// GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	var q models.TaskListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit, offset := q.Normalize()

	tasks, total, err := h.taskService.List(c.Request.Context(), repository.TaskFilter{
		TenantID:   middleware.GetTenantID(c),
		ProjectID:  optional(q.ProjectID),
		AssigneeID: optional(q.AssigneeID),
		Status:     optional(q.Status),
		Priority:   optional(q.Priority),
		Page:       repository.Page{Limit: limit, Offset: offset},
	})
	if err != nil {
		respondError(c, err, "Failed to fetch tasks")
		return
	}

	response := make([]models.TaskResponse, len(tasks))
	for i, t := range tasks {
		response[i] = toTaskResponse(t)
	}
	c.JSON(http.StatusOK, models.NewPaginatedResponse(response, total, q.Page, q.Limit))
}

// Create - Create a task in a project
// POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), middleware.GetTenantID(c), userID, service.CreateTaskInput{
		ProjectID:      req.ProjectID,
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		AssigneeID:     req.AssigneeID,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
		DueDate:        req.DueDate,
	})
	if err != nil {
		respondError(c, err, "Failed to create task")
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(task))
}

// Get - Get a task by ID
// GET /tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		respondError(c, err, "Failed to fetch task")
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Update - Update a task
// PATCH /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), middleware.GetTenantID(c), userID, id, service.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		AssigneeID:     req.AssigneeID,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
		DueDate:        req.DueDate,
	})
	if err != nil {
		respondError(c, err, "Failed to update task")
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// UpdateStatus - Move a task between columns
// PATCH /tasks/:id/status
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.UpdateStatus(c.Request.Context(), middleware.GetTenantID(c), userID, id, req.Status)
	if err != nil {
		respondError(c, err, "Failed to update task status")
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete - Delete a task
// DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), middleware.GetTenantID(c), userID, id); err != nil {
		respondError(c, err, "Failed to delete task")
		return
	}

	c.Status(http.StatusNoContent)
}
