package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/projecthub/project-hub-backend/internal/api/middleware"
	"github.com/projecthub/project-hub-backend/internal/estimation"
	"github.com/projecthub/project-hub-backend/internal/models"
	"github.com/projecthub/project-hub-backend/internal/repository"
	"github.com/projecthub/project-hub-backend/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ============================================
// Estimation Handler
// ============================================

type EstimationHandler struct {
	estimationService service.EstimationService
	exportService     service.ExportService
}

func rate(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := decimal.NewFromFloat(*v)
	return &d
}

// Create - Calculate and store an estimate
// POST /estimations
func (h *EstimationHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateEstimationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e, err := h.estimationService.Calculate(c.Request.Context(), middleware.GetTenantID(c), userID, service.CalculateEstimationInput{
		Name:        req.Name,
		Description: req.Description,
		Request: estimation.Request{
			ProjectType:               estimation.ProjectType(req.ProjectType),
			TechnologyStack:           estimation.TechnologyStack(req.TechnologyStack),
			ComplexityLevel:           estimation.ComplexityLevel(req.ComplexityLevel),
			HasAuthentication:         req.HasAuthentication,
			HasPaymentSystem:          req.HasPaymentSystem,
			HasAdminPanel:             req.HasAdminPanel,
			HasRealTimeFeatures:       req.HasRealTimeFeatures,
			HasThirdPartyIntegrations: req.HasThirdPartyIntegrations,
			NumberOfPages:             req.NumberOfPages,
			NumberOfForms:             req.NumberOfForms,
			NumberOfAPIs:              req.NumberOfAPIs,
			Rates: estimation.RateOverrides{
				Frontend:  rate(req.HourlyRateFrontend),
				Backend:   rate(req.HourlyRateBackend),
				Fullstack: rate(req.HourlyRateFullstack),
				Design:    rate(req.HourlyRateDesign),
				Testing:   rate(req.HourlyRateTesting),
			},
		},
	})
	if err != nil {
		respondError(c, err, "Failed to calculate estimation")
		return
	}

	c.JSON(http.StatusCreated, toEstimationResponse(e))
}

func (h *EstimationHandler) filter(c *gin.Context) (repository.EstimationFilter, bool) {
	var q models.EstimationListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return repository.EstimationFilter{}, false
	}

	f := repository.EstimationFilter{
		TenantID: middleware.GetTenantID(c),
		Since:    q.Since,
		Limit:    q.Limit,
	}
	if q.ProjectType != "" {
		pt := estimation.ProjectType(q.ProjectType)
		f.ProjectType = &pt
	}
	if q.TechnologyStack != "" {
		ts := estimation.TechnologyStack(q.TechnologyStack)
		f.TechnologyStack = &ts
	}
	return f, true
}

// List - Estimates of the company, newest first
// GET /estimations?projectType=&technologyStack=&since=&limit=
func (h *EstimationHandler) List(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}

	estimations, err := h.estimationService.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err, "Failed to fetch estimations")
		return
	}

	response := make([]models.EstimationResponse, len(estimations))
	for i, e := range estimations {
		response[i] = toEstimationResponse(e)
	}
	c.JSON(http.StatusOK, response)
}

// Stats - Aggregate statistics over the company's estimates
// GET /estimations/stats
func (h *EstimationHandler) Stats(c *gin.Context) {
	stats, err := h.estimationService.Stats(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		respondError(c, err, "Failed to compute statistics")
		return
	}
	c.JSON(http.StatusOK, toStatsResponse(stats))
}

// Export - Estimates as an XLSX workbook
// GET /estimations/export
func (h *EstimationHandler) Export(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}

	buf, err := h.exportService.ExportEstimations(c.Request.Context(), f)
	if err != nil {
		respondError(c, err, "Failed to export estimations")
		return
	}

	filename := "estimations-" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Get - Get an estimate by ID
// GET /estimations/:id
func (h *EstimationHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	e, err := h.estimationService.Get(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		respondError(c, err, "Failed to fetch estimation")
		return
	}
	c.JSON(http.StatusOK, toEstimationResponse(e))
}

// Delete - Delete an estimate
// DELETE /estimations/:id
func (h *EstimationHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.estimationService.Delete(c.Request.Context(), middleware.GetTenantID(c), userID, id); err != nil {
		respondError(c, err, "Failed to delete estimation")
		return
	}
	c.Status(http.StatusNoContent)
}
