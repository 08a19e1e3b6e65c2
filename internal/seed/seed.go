// internal/seed/seed.go
package seed

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/projecthub/project-hub-backend/internal/estimation"
	"github.com/projecthub/project-hub-backend/internal/logger"
	"github.com/projecthub/project-hub-backend/internal/repository"
	"github.com/projecthub/project-hub-backend/internal/types"
)

const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "password"
)

// SeedData creates a demo company for development. It is a no-op when the
// demo admin already exists.
func SeedData(ctx context.Context, repos *repository.Repositories, bcryptCost int) error {
	log := logger.Get(ctx)

	existing, err := repos.UserRepo.FindByEmail(ctx, AdminEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		log.Info().Msg("[Seed] Data already exists, skipping...")
		return nil
	}

	log.Info().Msg("[Seed] 🌱 Creating demo data...")

	// ============================================
	// COMPANY & USERS
	// ============================================
	website := "https://example.com"
	company := &repository.Company{Name: "Demo Company", Website: &website}
	if err := repos.CompanyRepo.Create(ctx, company); err != nil {
		return fmt.Errorf("seed company: %w", err)
	}

	password, err := bcrypt.GenerateFromPassword([]byte(AdminPassword), bcryptCost)
	if err != nil {
		return err
	}

	admin := &repository.User{
		TenantID:     company.ID,
		Email:        AdminEmail,
		PasswordHash: string(password),
		FirstName:    "Demo",
		LastName:     "Admin",
		Role:         types.RoleAdmin,
		IsActive:     true,
	}
	developer := &repository.User{
		TenantID:     company.ID,
		Email:        "developer@example.com",
		PasswordHash: string(password),
		FirstName:    "Dana",
		LastName:     "Developer",
		Role:         types.RoleDeveloper,
		IsActive:     true,
	}
	for _, u := range []*repository.User{admin, developer} {
		if err := repos.UserRepo.Create(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}

	// ============================================
	// ESTIMATION & PROJECT
	// ============================================
	req := estimation.Request{
		ProjectType:       estimation.ProjectWebApp,
		TechnologyStack:   estimation.TechReact,
		ComplexityLevel:   estimation.ComplexityMedium,
		HasAuthentication: true,
		HasAdminPanel:     true,
	}
	result, err := estimation.Calculate(req)
	if err != nil {
		return err
	}
	est := &repository.Estimation{
		TenantID:          company.ID,
		CreatedBy:         &admin.ID,
		Name:              "Customer portal",
		ProjectType:       req.ProjectType,
		TechnologyStack:   req.TechnologyStack,
		ComplexityLevel:   req.ComplexityLevel,
		HasAuthentication: req.HasAuthentication,
		HasAdminPanel:     req.HasAdminPanel,
		Result:            *result,
	}
	if err := repos.EstimationRepo.Insert(ctx, est); err != nil {
		return fmt.Errorf("seed estimation: %w", err)
	}

	description := "Self-service portal for customers to track orders and invoices."
	project := &repository.Project{
		TenantID:     company.ID,
		Name:         "Customer Portal",
		Description:  &description,
		Status:       types.ProjectActive,
		EstimationID: &est.ID,
		TeamMembers:  []string{admin.ID, developer.ID},
		CreatedBy:    &admin.ID,
	}
	if err := repos.ProjectRepo.Create(ctx, project); err != nil {
		return fmt.Errorf("seed project: %w", err)
	}

	// ============================================
	// TASKS
	// ============================================
	now := time.Now()
	tasks := []struct {
		title     string
		status    string
		priority  string
		estimated float64
		actual    float64
		dueIn     time.Duration
	}{
		{"Set up authentication", types.StatusDone, types.PriorityHigh, 16, 14, -72 * time.Hour},
		{"Order history page", types.StatusInProgress, types.PriorityMedium, 24, 10, 96 * time.Hour},
		{"Invoice PDF download", types.StatusTodo, types.PriorityMedium, 12, 0, 240 * time.Hour},
		{"Admin dashboard", types.StatusReview, types.PriorityUrgent, 30, 28, 24 * time.Hour},
	}
	for _, item := range tasks {
		estimated, actual := item.estimated, item.actual
		due := now.Add(item.dueIn)
		task := &repository.Task{
			TenantID:       company.ID,
			ProjectID:      project.ID,
			Title:          item.title,
			Status:         item.status,
			Priority:       item.priority,
			AssigneeID:     &developer.ID,
			ReporterID:     &admin.ID,
			EstimatedHours: &estimated,
			DueDate:        &due,
		}
		if actual > 0 {
			task.ActualHours = &actual
		}
		if item.status == types.StatusDone {
			completed := now.Add(-96 * time.Hour)
			task.CompletedAt = &completed
		}
		if err := repos.TaskRepo.Create(ctx, task); err != nil {
			return fmt.Errorf("seed task %q: %w", item.title, err)
		}
	}

	log.Info().
		Str("tenant_id", company.ID).
		Str("admin", AdminEmail).
		Int("tasks", len(tasks)).
		Msg("[Seed] ✅ Demo data created")
	return nil
}
