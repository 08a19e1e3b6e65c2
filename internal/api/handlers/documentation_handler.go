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
// Documentation Handler
// ============================================

type DocumentationHandler struct {
	docService service.DocumentationService
}

func docList(docs []*repository.Documentation) []models.DocumentationResponse {
	response := make([]models.DocumentationResponse, len(docs))
	for i, d := range docs {
		response[i] = toDocumentationResponse(d)
	}
	return response
}

// Create - Create a draft document in a project
// POST /documentation
func (h *DocumentationHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateDocumentationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.docService.Create(c.Request.Context(), middleware.GetTenantID(c), userID, service.CreateDocumentationInput{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Type:        req.Type,
		Tags:        req.Tags,
	})
	if err != nil {
		respondError(c, err, "Failed to create documentation")
		return
	}

	c.JSON(http.StatusCreated, toDocumentationResponse(doc))
}

// ListByProject - Documents of a project
// GET /documentation/project/:projectId
func (h *DocumentationHandler) ListByProject(c *gin.Context) {
	projectID, ok := paramID(c, "projectId")
	if !ok {
		return
	}

	docs, err := h.docService.ListByProject(c.Request.Context(), middleware.GetTenantID(c), projectID)
	if err != nil {
		respondError(c, err, "Failed to fetch documentation")
		return
	}
	c.JSON(http.StatusOK, docList(docs))
}

// Search - Full text search over title and content
// GET /documentation/search?q=
func (h *DocumentationHandler) Search(c *gin.Context) {
	docs, err := h.docService.Search(c.Request.Context(), middleware.GetTenantID(c), c.Query("q"))
	if err != nil {
		respondError(c, err, "Failed to search documentation")
		return
	}
	c.JSON(http.StatusOK, docList(docs))
}

// ListByType - Documents of one type
// GET /documentation/type/:type
func (h *DocumentationHandler) ListByType(c *gin.Context) {
	docs, err := h.docService.ListByType(c.Request.Context(), middleware.GetTenantID(c), c.Param("type"))
	if err != nil {
		respondError(c, err, "Failed to fetch documentation")
		return
	}
	c.JSON(http.StatusOK, docList(docs))
}

// Get - Get a document by ID
// GET /documentation/:id
func (h *DocumentationHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	doc, err := h.docService.Get(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		respondError(c, err, "Failed to fetch documentation")
		return
	}
	c.JSON(http.StatusOK, toDocumentationResponse(doc))
}

// Versions - Version history of a document
// GET /documentation/:id/versions
func (h *DocumentationHandler) Versions(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	docs, err := h.docService.VersionHistory(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		respondError(c, err, "Failed to fetch versions")
		return
	}
	c.JSON(http.StatusOK, docList(docs))
}

// Update - Edit a document (author only)
// PATCH /documentation/:id
func (h *DocumentationHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateDocumentationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.docService.Update(c.Request.Context(), middleware.GetTenantID(c), userID, id, service.UpdateDocumentationInput{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Type:        req.Type,
		Status:      req.Status,
		Tags:        req.Tags,
	})
	if err != nil {
		respondError(c, err, "Failed to update documentation")
		return
	}
	c.JSON(http.StatusOK, toDocumentationResponse(doc))
}

// Publish - Approve a document
// PATCH /documentation/:id/publish
func (h *DocumentationHandler) Publish(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	doc, err := h.docService.Publish(c.Request.Context(), middleware.GetTenantID(c), userID, id)
	if err != nil {
		respondError(c, err, "Failed to publish documentation")
		return
	}
	c.JSON(http.StatusOK, toDocumentationResponse(doc))
}

// Delete - Delete a document (author only)
// DELETE /documentation/:id
func (h *DocumentationHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.docService.Delete(c.Request.Context(), middleware.GetTenantID(c), userID, id); err != nil {
		respondError(c, err, "Failed to delete documentation")
		return
	}
	c.Status(http.StatusNoContent)
}
