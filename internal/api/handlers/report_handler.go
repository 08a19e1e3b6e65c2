package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/projecthub/project-hub-backend/internal/api/middleware"
	"github.com/projecthub/project-hub-backend/internal/models"
	"github.com/projecthub/project-hub-backend/internal/service"
)

const defaultReportWindow = 30 * 24 * time.Hour

// ============================================
// Report Handler
// ============================================

type ReportHandler struct {
	reportService service.ReportService
}

// Dashboard - Executive delivery summary
// GET /reports/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.reportService.ExecutiveDashboard(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		respondError(c, err, "Failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// ProjectCosts - Estimated against actual cost per project
// GET /reports/project-costs
func (h *ReportHandler) ProjectCosts(c *gin.Context) {
	costs, err := h.reportService.ProjectCostAnalysis(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		respondError(c, err, "Failed to build cost analysis")
		return
	}
	if costs == nil {
		costs = []service.ProjectCost{}
	}
	c.JSON(http.StatusOK, costs)
}

// dateRange reads startDate/endDate, defaulting to the last 30 days. endDate
// covers its whole day.
func dateRange(c *gin.Context) (service.DateRange, models.ReportRangeQuery, bool) {
	var q models.ReportRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return service.DateRange{}, q, false
	}

	now := time.Now().UTC()
	r := service.DateRange{Start: now.Add(-defaultReportWindow), End: now}
	if q.StartDate != nil {
		r.Start = q.StartDate.UTC()
	}
	if q.EndDate != nil {
		r.End = q.EndDate.UTC().AddDate(0, 0, 1)
	}
	return r, q, true
}

// TeamPerformance - Completed work per team member
// GET /reports/team-performance?startDate=&endDate=
func (h *ReportHandler) TeamPerformance(c *gin.Context) {
	r, _, ok := dateRange(c)
	if !ok {
		return
	}
	members, err := h.reportService.TeamPerformance(c.Request.Context(), middleware.GetTenantID(c), r)
	if err != nil {
		respondError(c, err, "Failed to build team performance")
		return
	}
	c.JSON(http.StatusOK, members)
}

// Timeline - Hours and tasks completed per interval
// GET /reports/timeline?startDate=&endDate=&interval=day|week|month
func (h *ReportHandler) Timeline(c *gin.Context) {
	r, q, ok := dateRange(c)
	if !ok {
		return
	}
	points, err := h.reportService.Timeline(c.Request.Context(), middleware.GetTenantID(c), r, q.Interval)
	if err != nil {
		respondError(c, err, "Failed to build timeline")
		return
	}
	c.JSON(http.StatusOK, points)
}

// TechnologyEfficiency - Estimate figures grouped by stack
// GET /reports/technology-efficiency
func (h *ReportHandler) TechnologyEfficiency(c *gin.Context) {
	techs, err := h.reportService.TechnologyEfficiency(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		respondError(c, err, "Failed to build technology report")
		return
	}
	c.JSON(http.StatusOK, techs)
}

// EstimationStats - Estimate aggregate for reporting
// GET /reports/estimation-stats
func (h *ReportHandler) EstimationStats(c *gin.Context) {
	stats, err := h.reportService.EstimationStats(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		respondError(c, err, "Failed to compute statistics")
		return
	}
	c.JSON(http.StatusOK, toStatsResponse(stats))
}
