package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/projecthub/project-hub-backend/internal/repository"
)

func TestSeedDataIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewMemoryRepositories()

	require.NoError(t, SeedData(ctx, repos, bcrypt.MinCost))
	require.NoError(t, SeedData(ctx, repos, bcrypt.MinCost))

	companies, err := repos.CompanyRepo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	tenantID := companies[0].ID

	admin, err := repos.UserRepo.FindByEmail(ctx, AdminEmail)
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, "admin", admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(AdminPassword)))

	projects, total, err := repos.ProjectRepo.FindAll(ctx, repository.ProjectFilter{TenantID: tenantID})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.NotNil(t, projects[0].EstimationID)

	est, err := repos.EstimationRepo.FindByID(ctx, tenantID, *projects[0].EstimationID)
	require.NoError(t, err)
	require.NotNil(t, est)
	assert.Positive(t, est.Result.EstimatedHours)

	tasks, count, err := repos.TaskRepo.FindWithFilters(ctx, repository.TaskFilter{TenantID: tenantID})
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.Len(t, tasks, 4)
}
