package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/projecthub/project-hub-backend/internal/db"
	"github.com/projecthub/project-hub-backend/internal/estimation"
	"github.com/projecthub/project-hub-backend/internal/logger"
	"github.com/projecthub/project-hub-backend/internal/repository"
)

// ============================================
// Estimation Service
// ============================================

// CalculateEstimationInput names the estimate and carries the project
// characteristics fed to the engine.
type CalculateEstimationInput struct {
	Name        string
	Description *string
	Request     estimation.Request
}

type EstimationService interface {
	Calculate(ctx context.Context, tenantID, userID string, in CalculateEstimationInput) (*repository.Estimation, error)
	List(ctx context.Context, filter repository.EstimationFilter) ([]*repository.Estimation, error)
	Get(ctx context.Context, tenantID, id string) (*repository.Estimation, error)
	Delete(ctx context.Context, tenantID, userID, id string) error
	Stats(ctx context.Context, tenantID string) (*estimation.Stats, error)
	RefreshStats(ctx context.Context, tenantID string) (*estimation.Stats, error)
	PurgeStats(ctx context.Context) error
}

type estimationService struct {
	engine      *estimation.Engine
	repo        repository.EstimationRepository
	cache       StatsCache
	cacheTTL    time.Duration
	broadcaster Broadcaster
}

// NewEstimationService builds the service. cache and broadcaster may be nil.
func NewEstimationService(
	engine *estimation.Engine,
	repo repository.EstimationRepository,
	cache StatsCache,
	cacheTTL time.Duration,
	broadcaster Broadcaster,
) EstimationService {
	return &estimationService{
		engine:      engine,
		repo:        repo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		broadcaster: broadcaster,
	}
}

const statsCachePrefix = "estimation_stats:"

func statsCacheKey(tenantID string) string {
	return statsCachePrefix + tenantID
}

func (s *estimationService) Calculate(ctx context.Context, tenantID, userID string, in CalculateEstimationInput) (*repository.Estimation, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", estimation.ErrInvalidRequest)
	}
	req := in.Request
	result, err := s.engine.Calculate(req)
	if err != nil {
		return nil, err
	}

	e := &repository.Estimation{
		TenantID:                  tenantID,
		Name:                      name,
		Description:               in.Description,
		ProjectType:               req.ProjectType,
		TechnologyStack:           req.TechnologyStack,
		ComplexityLevel:           req.ComplexityLevel,
		HasAuthentication:         req.HasAuthentication,
		HasPaymentSystem:          req.HasPaymentSystem,
		HasAdminPanel:             req.HasAdminPanel,
		HasRealTimeFeatures:       req.HasRealTimeFeatures,
		HasThirdPartyIntegrations: req.HasThirdPartyIntegrations,
		Result:                    *result,
	}
	if userID != "" {
		e.CreatedBy = &userID
	}

	if err := s.repo.Insert(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to store estimation: %w", err)
	}

	logger.Get(ctx).Info().
		Str("estimation_id", e.ID).
		Str("project_type", string(e.ProjectType)).
		Int("hours", result.EstimatedHours).
		Str("cost", result.Cost.Estimated.String()).
		Msg("📐 Estimation calculated")

	s.invalidateStats(ctx, tenantID)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastEstimationCreated(tenantID, estimationEvent(e), userID)
	}

	return e, nil
}

func (s *estimationService) List(ctx context.Context, filter repository.EstimationFilter) ([]*repository.Estimation, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *estimationService) Get(ctx context.Context, tenantID, id string) (*repository.Estimation, error) {
	e, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNotFound
	}
	return e, nil
}

func (s *estimationService) Delete(ctx context.Context, tenantID, userID, id string) error {
	if _, err := s.Get(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.invalidateStats(ctx, tenantID)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastEstimationDeleted(tenantID, id, userID)
	}
	return nil
}

// Stats returns the tenant aggregate, served from cache when available.
func (s *estimationService) Stats(ctx context.Context, tenantID string) (*estimation.Stats, error) {
	if s.cache != nil {
		var cached estimation.Stats
		err := s.cache.GetCache(ctx, statsCacheKey(tenantID), &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, db.ErrCacheMiss) {
			logger.Get(ctx).Warn().Err(err).Msg("⚠️ Stats cache read failed")
		}
	}
	return s.RefreshStats(ctx, tenantID)
}

// RefreshStats recomputes the aggregate from storage and rewrites the cache.
func (s *estimationService) RefreshStats(ctx context.Context, tenantID string) (*estimation.Stats, error) {
	all, err := s.repo.FindAll(ctx, repository.EstimationFilter{TenantID: tenantID})
	if err != nil {
		return nil, err
	}

	records := make([]estimation.Record, len(all))
	for i, e := range all {
		records[i] = e.Record()
	}
	stats := estimation.Aggregate(records)

	if s.cache != nil {
		if err := s.cache.SetCache(ctx, statsCacheKey(tenantID), stats, s.cacheTTL); err != nil {
			logger.Get(ctx).Warn().Err(err).Msg("⚠️ Stats cache write failed")
		}
	}
	return &stats, nil
}

// PurgeStats drops every cached tenant aggregate, including those of tenants
// that no longer exist.
func (s *estimationService) PurgeStats(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.InvalidateCache(ctx, statsCachePrefix+"*")
}

func (s *estimationService) invalidateStats(ctx context.Context, tenantID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteCache(ctx, statsCacheKey(tenantID)); err != nil {
		logger.Get(ctx).Warn().Err(err).Str("tenant_id", tenantID).Msg("⚠️ Stats cache invalidation failed")
	}
}

func estimationEvent(e *repository.Estimation) map[string]interface{} {
	return map[string]interface{}{
		"id":              e.ID,
		"name":            e.Name,
		"projectType":     e.ProjectType,
		"technologyStack": e.TechnologyStack,
		"complexityLevel": e.ComplexityLevel,
		"estimatedHours":  e.Result.EstimatedHours,
		"estimatedCost":   e.Result.Cost.Estimated,
		"estimatedWeeks":  e.Result.Schedule.EstimatedWeeks,
		"createdAt":       e.CreatedAt,
	}
}
