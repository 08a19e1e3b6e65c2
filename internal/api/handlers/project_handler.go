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
// Project Handler
// ============================================

type ProjectHandler struct {
	projectService service.ProjectService
}

// List - Paginated projects of the company
// GET /projects?page=&limit=&status=&search=
func (h *ProjectHandler) List(c *gin.Context) {
	var q models.ProjectListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit, offset := q.Normalize()

	projects, total, err := h.projectService.List(c.Request.Context(), repository.ProjectFilter{
		TenantID: middleware.GetTenantID(c),
		Status:   optional(q.Status),
		Search:   optional(q.Search),
		Page:     repository.Page{Limit: limit, Offset: offset},
	})
	if err != nil {
		respondError(c, err, "Failed to fetch projects")
		return
	}

	response := make([]models.ProjectResponse, len(projects))
	for i, p := range projects {
		response[i] = toProjectResponse(p)
	}

	c.JSON(http.StatusOK, models.NewPaginatedResponse(response, total, q.Page, q.Limit))
}

// Create - Create a new project
// POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), middleware.GetTenantID(c), userID, service.CreateProjectInput{
		Name:         req.Name,
		Description:  req.Description,
		Status:       req.Status,
		ClientID:     req.ClientID,
		EstimationID: req.EstimationID,
		TeamMembers:  req.TeamMembers,
	})
	if err != nil {
		respondError(c, err, "Failed to create project")
		return
	}

	c.JSON(http.StatusCreated, toProjectResponse(project))
}

// Get - Get a project by ID, with its team resolved
// GET /projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	project, err := h.projectService.Get(ctx, middleware.GetTenantID(c), id)
	if err != nil {
		respondError(c, err, "Failed to fetch project")
		return
	}

	response := toProjectResponse(project)
	team, err := h.projectService.TeamMembers(ctx, project)
	if err != nil {
		respondError(c, err, "Failed to fetch project team")
		return
	}
	for _, u := range team {
		response.Team = append(response.Team, toUserResponse(u))
	}

	c.JSON(http.StatusOK, response)
}

// Update - Update a project
// PATCH /projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), middleware.GetTenantID(c), userID, id, service.UpdateProjectInput{
		Name:         req.Name,
		Description:  req.Description,
		Status:       req.Status,
		ClientID:     req.ClientID,
		EstimationID: req.EstimationID,
		TeamMembers:  req.TeamMembers,
	})
	if err != nil {
		respondError(c, err, "Failed to update project")
		return
	}

	c.JSON(http.StatusOK, toProjectResponse(project))
}

// Delete - Delete a project
// DELETE /projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), middleware.GetTenantID(c), userID, id); err != nil {
		respondError(c, err, "Failed to delete project")
		return
	}

	c.Status(http.StatusNoContent)
}
