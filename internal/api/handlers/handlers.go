package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/projecthub/project-hub-backend/internal/estimation"
	"github.com/projecthub/project-hub-backend/internal/logger"
	"github.com/projecthub/project-hub-backend/internal/models"
	"github.com/projecthub/project-hub-backend/internal/repository"
	"github.com/projecthub/project-hub-backend/internal/service"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth          *AuthHandler
	User          *UserHandler
	Company       *CompanyHandler
	Project       *ProjectHandler
	Task          *TaskHandler
	Documentation *DocumentationHandler
	Estimation    *EstimationHandler
	Report        *ReportHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:          &AuthHandler{authService: services.Auth, userService: services.User},
		User:          &UserHandler{userService: services.User},
		Company:       &CompanyHandler{companyService: services.Company},
		Project:       &ProjectHandler{projectService: services.Project},
		Task:          &TaskHandler{taskService: services.Task},
		Documentation: &DocumentationHandler{docService: services.Documentation},
		Estimation:    &EstimationHandler{estimationService: services.Estimation, exportService: services.Export},
		Report:        &ReportHandler{reportService: services.Report},
	}
}

// ============================================
// Error Mapping
// ============================================

// respondError maps service errors onto HTTP statuses. Anything unknown is
// logged and reported as fallback with a 500.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, estimation.ErrInvalidRequest), errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.FromGin(c).Error().Err(err).Str("path", c.FullPath()).Msg("❌ " + fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// paramID reads a UUID path parameter, answering 400 when it is malformed.
func paramID(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return "", false
	}
	return id, true
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ============================================
// Response Mappers
// ============================================

func toUserResponse(u *repository.User) models.UserResponse {
	return models.UserResponse{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

func toCompanyResponse(c *repository.Company) models.CompanyResponse {
	return models.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Website:   c.Website,
		CreatedAt: c.CreatedAt,
	}
}

func toAuthResponse(r *service.AuthResult, message string) models.AuthResponse {
	resp := models.AuthResponse{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    r.ExpiresIn,
		User:         toUserResponse(r.User),
		Message:      message,
	}
	if r.Company != nil {
		company := toCompanyResponse(r.Company)
		resp.Company = &company
	}
	return resp
}

func toProjectResponse(p *repository.Project) models.ProjectResponse {
	createdBy := ""
	if p.CreatedBy != nil {
		createdBy = *p.CreatedBy
	}
	return models.ProjectResponse{
		ID:           p.ID,
		TenantID:     p.TenantID,
		Name:         p.Name,
		Description:  p.Description,
		Status:       p.Status,
		ClientID:     p.ClientID,
		EstimationID: p.EstimationID,
		TeamMembers:  safeStringSlice(p.TeamMembers),
		CreatedBy:    createdBy,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toTaskResponse(t *repository.Task) models.TaskResponse {
	return models.TaskResponse{
		ID:             t.ID,
		ProjectID:      t.ProjectID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         t.Status,
		Priority:       t.Priority,
		AssigneeID:     t.AssigneeID,
		ReporterID:     t.ReporterID,
		EstimatedHours: t.EstimatedHours,
		ActualHours:    t.ActualHours,
		DueDate:        t.DueDate,
		CompletedAt:    t.CompletedAt,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func toDocumentationResponse(d *repository.Documentation) models.DocumentationResponse {
	return models.DocumentationResponse{
		ID:          d.ID,
		ProjectID:   d.ProjectID,
		AuthorID:    d.AuthorID,
		Title:       d.Title,
		Description: d.Description,
		Content:     d.Content,
		Type:        d.Type,
		Status:      d.Status,
		Version:     d.Version,
		Tags:        safeStringSlice(d.Tags),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toEstimationResponse(e *repository.Estimation) models.EstimationResponse {
	r := e.Result
	return models.EstimationResponse{
		ID:              e.ID,
		Name:            e.Name,
		Description:     e.Description,
		ProjectType:     string(e.ProjectType),
		TechnologyStack: string(e.TechnologyStack),
		ComplexityLevel: string(e.ComplexityLevel),

		HasAuthentication:         e.HasAuthentication,
		HasPaymentSystem:          e.HasPaymentSystem,
		HasAdminPanel:             e.HasAdminPanel,
		HasRealTimeFeatures:       e.HasRealTimeFeatures,
		HasThirdPartyIntegrations: e.HasThirdPartyIntegrations,

		NumberOfPages: r.Pages,
		NumberOfForms: r.Forms,
		NumberOfAPIs:  r.APIs,
		HourlyRates: models.HourlyRatesResponse{
			Frontend:  r.Rates.Frontend.InexactFloat64(),
			Backend:   r.Rates.Backend.InexactFloat64(),
			Fullstack: r.Rates.Fullstack.InexactFloat64(),
			Design:    r.Rates.Design.InexactFloat64(),
			Testing:   r.Rates.Testing.InexactFloat64(),
		},

		EstimatedHours:         r.EstimatedHours,
		FrontendHours:          r.HoursByCategory.Frontend,
		BackendHours:           r.HoursByCategory.Backend,
		TestingHours:           r.HoursByCategory.Testing,
		DesignHours:            r.Distribution.Design,
		DatabaseHours:          r.HoursByCategory.Database,
		DeploymentHours:        r.HoursByCategory.Deployment,
		ProjectManagementHours: r.HoursByCategory.ProjectManagement,

		FrontendDevelopers:  r.Staffing.Frontend,
		BackendDevelopers:   r.Staffing.Backend,
		FullstackDevelopers: r.Staffing.Fullstack,
		UIUXDesigners:       r.Staffing.Designers,
		QATesters:           r.Staffing.Testers,
		ProjectManagers:     r.Staffing.ProjectManagers,
		EstimatedDevelopers: r.EstimatedDevelopers,

		MinimumWeeks:   r.Schedule.MinimumWeeks,
		EstimatedWeeks: r.Schedule.EstimatedWeeks,
		MaximumWeeks:   r.Schedule.MaximumWeeks,

		MinimumCost:   r.Cost.Minimum.InexactFloat64(),
		EstimatedCost: r.Cost.Estimated.InexactFloat64(),
		MaximumCost:   r.Cost.Maximum.InexactFloat64(),

		RiskFactor:                      r.RiskMultiplier,
		BufferPercentage:                r.BufferPercentage,
		TeamEfficiencyMultiplier:        r.TeamEfficiencyMultiplier,
		TechnologyFamiliarityMultiplier: r.TechnologyFamiliarityMultiplier,

		Metadata: models.EstimationMetadataResponse{
			AlgorithmVersion: r.Metadata.AlgorithmVersion,
			Confidence:       r.Metadata.Confidence,
			Factors:          safeStringSlice(r.Metadata.Factors),
			Recommendations:  safeStringSlice(r.Metadata.Recommendations),
		},
		CreatedBy: e.CreatedBy,
		CreatedAt: e.CreatedAt,
	}
}

func toStatsResponse(s *estimation.Stats) models.EstimationStatsResponse {
	out := models.EstimationStatsResponse{
		TotalProjects:      s.TotalProjects,
		AverageHours:       s.AverageHours,
		AverageCost:        s.AverageCost.InexactFloat64(),
		AverageWeeks:       s.AverageWeeks,
		EstimationsByMonth: make(map[string]models.MonthBucketResponse, len(s.EstimationsByMonth)),
	}
	if s.MostCommonTechnology != nil {
		out.MostCommonTechnology = optional(string(*s.MostCommonTechnology))
	}
	if s.MostCommonProjectType != nil {
		out.MostCommonProjectType = optional(string(*s.MostCommonProjectType))
	}
	for month, b := range s.EstimationsByMonth {
		out.EstimationsByMonth[month] = models.MonthBucketResponse{
			Count:      b.Count,
			TotalHours: b.TotalHours,
			TotalCost:  b.TotalCost.InexactFloat64(),
		}
	}
	return out
}

func safeStringSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
