package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecthub/project-hub-backend/internal/estimation"
	"github.com/projecthub/project-hub-backend/internal/repository"
)

func webAppInput() CalculateEstimationInput {
	return CalculateEstimationInput{
		Name: "Customer portal",
		Request: estimation.Request{
			ProjectType:     estimation.ProjectWebApp,
			TechnologyStack: estimation.TechReact,
			ComplexityLevel: estimation.ComplexityMedium,
		},
	}
}

func TestEstimationCalculateStoresAndBroadcasts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	e, err := f.services.Estimation.Calculate(ctx, "tenant-a", "user-1", webAppInput())
	require.NoError(t, err)
	require.NotEmpty(t, e.ID)
	require.NotNil(t, e.CreatedBy)
	assert.Equal(t, "user-1", *e.CreatedBy)
	assert.Equal(t, "Customer portal", e.Name)
	assert.Positive(t, e.Result.EstimatedHours)

	stored, err := f.services.Estimation.Get(ctx, "tenant-a", e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Result.EstimatedHours, stored.Result.EstimatedHours)
	assert.True(t, e.Result.Cost.Estimated.Equal(stored.Result.Cost.Estimated))

	assert.Equal(t, []string{"estimation_created"}, f.broadcaster.names())
}

func TestEstimationCalculateRejectsInvalidRequest(t *testing.T) {
	f := newFixture(t)

	in := webAppInput()
	in.Request.ProjectType = "spaceship"
	_, err := f.services.Estimation.Calculate(context.Background(), "tenant-a", "user-1", in)
	require.ErrorIs(t, err, estimation.ErrInvalidRequest)

	in = webAppInput()
	in.Name = "  "
	_, err = f.services.Estimation.Calculate(context.Background(), "tenant-a", "user-1", in)
	require.ErrorIs(t, err, estimation.ErrInvalidRequest)

	all, err := f.repos.EstimationRepo.FindAll(context.Background(), repository.EstimationFilter{TenantID: "tenant-a"})
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, f.broadcaster.names())
}

func TestEstimationStatsCaching(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	key := statsCacheKey("tenant-a")

	_, err := f.services.Estimation.Calculate(ctx, "tenant-a", "user-1", webAppInput())
	require.NoError(t, err)

	stats, err := f.services.Estimation.Stats(ctx, "tenant-a")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalProjects)
	assert.True(t, f.cache.has(key))
	assert.Equal(t, 1, f.cache.sets)

	cached, err := f.services.Estimation.Stats(ctx, "tenant-a")
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.sets, "second read must be served from cache")
	assert.Equal(t, stats.TotalProjects, cached.TotalProjects)
	assert.True(t, stats.AverageCost.Equal(cached.AverageCost))
	require.NotNil(t, cached.MostCommonTechnology)
	assert.Equal(t, estimation.TechReact, *cached.MostCommonTechnology)

	_, err = f.services.Estimation.Calculate(ctx, "tenant-a", "user-1", webAppInput())
	require.NoError(t, err)
	assert.False(t, f.cache.has(key), "a new estimate invalidates the tenant stats")

	stats, err = f.services.Estimation.Stats(ctx, "tenant-a")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalProjects)
}

func TestEstimationStatsAreTenantScoped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.services.Estimation.Calculate(ctx, "tenant-a", "user-1", webAppInput())
	require.NoError(t, err)

	stats, err := f.services.Estimation.Stats(ctx, "tenant-b")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalProjects)
	assert.Nil(t, stats.MostCommonProjectType)
	assert.NotNil(t, stats.EstimationsByMonth)
	assert.Empty(t, stats.EstimationsByMonth)
}

func TestEstimationDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	e, err := f.services.Estimation.Calculate(ctx, "tenant-a", "user-1", webAppInput())
	require.NoError(t, err)

	err = f.services.Estimation.Delete(ctx, "tenant-b", "user-2", e.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.services.Estimation.Delete(ctx, "tenant-a", "user-1", e.ID))
	_, err = f.services.Estimation.Get(ctx, "tenant-a", e.ID)
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{"estimation_created", "estimation_deleted"}, f.broadcaster.names())
}

func TestEstimationPurgeStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, tenant := range []string{"tenant-a", "tenant-b"} {
		_, err := f.services.Estimation.Stats(ctx, tenant)
		require.NoError(t, err)
		require.True(t, f.cache.has(statsCacheKey(tenant)))
	}
	require.NoError(t, f.cache.SetCache(ctx, "other:key", 1, 0))

	require.NoError(t, f.services.Estimation.PurgeStats(ctx))
	assert.False(t, f.cache.has(statsCacheKey("tenant-a")))
	assert.False(t, f.cache.has(statsCacheKey("tenant-b")))
	assert.True(t, f.cache.has("other:key"))
}
