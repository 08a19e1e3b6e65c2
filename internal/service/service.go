package service

import (
	"context"
	"errors"
	"time"

	"github.com/projecthub/project-hub-backend/internal/config"
	"github.com/projecthub/project-hub-backend/internal/estimation"
	"github.com/projecthub/project-hub-backend/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
)

// StatsCache stores computed aggregates between requests. *db.RedisDB
// satisfies it.
type StatsCache interface {
	GetCache(ctx context.Context, key string, dest interface{}) error
	SetCache(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DeleteCache(ctx context.Context, key string) error
	InvalidateCache(ctx context.Context, pattern string) error
}

// Broadcaster pushes domain events to connected websocket clients.
// *socket.Broadcaster satisfies it.
type Broadcaster interface {
	BroadcastEstimationCreated(tenantID string, estimation map[string]interface{}, excludeUserID string)
	BroadcastEstimationDeleted(tenantID, estimationID, excludeUserID string)

	BroadcastProjectCreated(tenantID string, project map[string]interface{}, excludeUserID string)
	BroadcastProjectUpdated(tenantID string, project map[string]interface{}, excludeUserID string)
	BroadcastProjectDeleted(tenantID, projectID, excludeUserID string)

	BroadcastTaskCreated(tenantID, projectID string, task map[string]interface{}, excludeUserID string)
	BroadcastTaskUpdated(tenantID, projectID string, task map[string]interface{}, changes []string, excludeUserID string)
	BroadcastTaskStatusChanged(tenantID, projectID string, task map[string]interface{}, oldStatus, newStatus, excludeUserID string)
	BroadcastTaskDeleted(tenantID, projectID, taskID, excludeUserID string)
	BroadcastTaskAssigned(assigneeID string, task map[string]interface{}, assignedBy string)

	BroadcastDocumentationPublished(tenantID, projectID string, doc map[string]interface{}, excludeUserID string)
}

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth          AuthService
	User          UserService
	Company       CompanyService
	Project       ProjectService
	Task          TaskService
	Documentation DocumentationService
	Estimation    EstimationService
	Report        ReportService
	Export        ExportService
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config      *config.Config
	Repos       *repository.Repositories
	Cache       StatsCache
	Broadcaster Broadcaster
}

func NewServices(deps *ServiceDeps) *Services {
	engine := estimation.NewEngine(estimation.RateCard{
		Frontend:  deps.Config.RateFrontend,
		Backend:   deps.Config.RateBackend,
		Fullstack: deps.Config.RateFullstack,
		Design:    deps.Config.RateDesign,
		Testing:   deps.Config.RateTesting,
	})

	estimationService := NewEstimationService(
		engine,
		deps.Repos.EstimationRepo,
		deps.Cache,
		deps.Config.StatsCacheTTL,
		deps.Broadcaster,
	)

	return &Services{
		Auth:          NewAuthService(deps.Config, deps.Repos.CompanyRepo, deps.Repos.UserRepo),
		User:          NewUserService(deps.Config, deps.Repos.UserRepo),
		Company:       NewCompanyService(deps.Repos.CompanyRepo),
		Project:       NewProjectService(deps.Repos.ProjectRepo, deps.Repos.UserRepo, deps.Repos.EstimationRepo, deps.Broadcaster),
		Task:          NewTaskService(deps.Repos.TaskRepo, deps.Repos.ProjectRepo, deps.Repos.UserRepo, deps.Broadcaster),
		Documentation: NewDocumentationService(deps.Repos.DocumentationRepo, deps.Repos.ProjectRepo, deps.Broadcaster),
		Estimation:    estimationService,
		Report: NewReportService(
			deps.Repos.ProjectRepo,
			deps.Repos.TaskRepo,
			deps.Repos.UserRepo,
			deps.Repos.EstimationRepo,
			estimationService,
		),
		Export: NewExportService(deps.Repos.EstimationRepo),
	}
}
