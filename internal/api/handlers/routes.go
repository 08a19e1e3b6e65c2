package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/projecthub/project-hub-backend/internal/api/middleware"
	"github.com/projecthub/project-hub-backend/internal/types"
)

// RegisterRoutes mounts the public auth routes and the protected API on api.
// limiter guards the estimation calculator and may be nil.
func (h *Handlers) RegisterRoutes(api *gin.RouterGroup, validator middleware.TokenValidator, limiter *middleware.RateLimiter) {
	// ============================================
	// Public routes (no auth required)
	// ============================================
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/profile", middleware.AuthMiddleware(validator), h.Auth.Profile)
	}

	// ============================================
	// Protected routes (require auth middleware)
	// ============================================
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(validator))

	users := protected.Group("/users")
	{
		users.GET("", h.User.List)
		users.POST("", middleware.RequireRole(types.RoleAdmin), h.User.Create)
		users.GET("/:id", h.User.Get)
	}

	companies := protected.Group("/companies")
	{
		companies.GET("", h.Company.List)
		companies.GET("/:id", h.Company.Get)
	}

	projects := protected.Group("/projects")
	{
		projects.GET("", h.Project.List)
		projects.POST("", h.Project.Create)
		projects.GET("/:id", h.Project.Get)
		projects.PATCH("/:id", h.Project.Update)
		projects.DELETE("/:id", h.Project.Delete)
	}

	tasks := protected.Group("/tasks")
	{
		tasks.GET("", h.Task.List)
		tasks.POST("", h.Task.Create)
		tasks.GET("/:id", h.Task.Get)
		tasks.PATCH("/:id", h.Task.Update)
		tasks.PATCH("/:id/status", h.Task.UpdateStatus)
		tasks.DELETE("/:id", h.Task.Delete)
	}

	docs := protected.Group("/documentation")
	{
		docs.POST("", h.Documentation.Create)
		docs.GET("/project/:projectId", h.Documentation.ListByProject)
		docs.GET("/search", h.Documentation.Search)
		docs.GET("/type/:type", h.Documentation.ListByType)
		docs.GET("/:id", h.Documentation.Get)
		docs.GET("/:id/versions", h.Documentation.Versions)
		docs.PATCH("/:id", h.Documentation.Update)
		docs.PATCH("/:id/publish", h.Documentation.Publish)
		docs.DELETE("/:id", h.Documentation.Delete)
	}

	estimations := protected.Group("/estimations")
	{
		create := []gin.HandlerFunc{h.Estimation.Create}
		if limiter != nil {
			create = append([]gin.HandlerFunc{limiter.Middleware()}, create...)
		}
		estimations.POST("", create...)
		estimations.GET("", h.Estimation.List)
		estimations.GET("/stats", h.Estimation.Stats)
		estimations.GET("/export", h.Estimation.Export)
		estimations.GET("/:id", h.Estimation.Get)
		estimations.DELETE("/:id", h.Estimation.Delete)
	}

	reports := protected.Group("/reports")
	{
		reports.GET("/dashboard", h.Report.Dashboard)
		reports.GET("/team-performance", h.Report.TeamPerformance)
		reports.GET("/project-costs", h.Report.ProjectCosts)
		reports.GET("/timeline", h.Report.Timeline)
		reports.GET("/technology-efficiency", h.Report.TechnologyEfficiency)
		reports.GET("/estimation-stats", h.Report.EstimationStats)
	}
}
