package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/projecthub/project-hub-backend/internal/logger"
	"github.com/projecthub/project-hub-backend/internal/repository"
	"github.com/projecthub/project-hub-backend/internal/service"
)

// Job names accepted by ManualTrigger.
const (
	JobStatsWarmup   = "stats_warmup"
	JobTokenCleanup  = "token_cleanup"
	JobReportSummary = "report_snapshot"
	JobAll           = "all"
)

const jobTimeout = 5 * time.Minute

// Scheduler handles scheduled tasks
type Scheduler struct {
	cron        *cron.Cron
	services    *service.Services
	companyRepo repository.CompanyRepository
	userRepo    repository.UserRepository
}

// NewScheduler creates a scheduler over the services and the repositories
// it iterates directly.
func NewScheduler(services *service.Services, companyRepo repository.CompanyRepository, userRepo repository.UserRepository) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		services:    services,
		companyRepo: companyRepo,
		userRepo:    userRepo,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	log := logger.Global()

	jobs := []struct {
		spec string
		name string
		run  func(context.Context)
	}{
		// Every hour - keep tenant stats warm in the cache
		{"0 * * * *", JobStatsWarmup, s.warmStatsCache},
		// Every day at 3 AM - purge expired refresh tokens
		{"0 3 * * *", JobTokenCleanup, s.cleanupRefreshTokens},
		// Every Monday at 8 AM - dashboard snapshot per tenant
		{"0 8 * * 1", JobReportSummary, s.snapshotDashboards},
	}

	for _, job := range jobs {
		job := job
		_, err := s.cron.AddFunc(job.spec, func() {
			log.Info().Str("job", job.name).Msg("[Cron] ⏰ Running job")
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			job.run(ctx)
		})
		if err != nil {
			log.Error().Err(err).Str("job", job.name).Msg("[Cron] ❌ Failed to schedule job")
		}
	}

	s.cron.Start()
	log.Info().Msg("[Cron] Scheduler started")
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Global().Info().Msg("[Cron] Scheduler stopped")
}

func (s *Scheduler) forEachTenant(ctx context.Context, job string, fn func(ctx context.Context, tenantID string) error) {
	log := logger.Get(ctx)

	companies, err := s.companyRepo.FindAll(ctx)
	if err != nil {
		log.Error().Err(err).Str("job", job).Msg("[Cron] Error listing companies")
		return
	}

	failed := 0
	for _, company := range companies {
		if ctx.Err() != nil {
			log.Warn().Str("job", job).Msg("[Cron] Job deadline reached, stopping")
			return
		}
		if err := fn(ctx, company.ID); err != nil {
			failed++
			log.Error().Err(err).Str("job", job).Str("tenant_id", company.ID).Msg("[Cron] Tenant job failed")
		}
	}
	log.Info().Str("job", job).Int("tenants", len(companies)).Int("failed", failed).Msg("[Cron] ✅ Job finished")
}

// warmStatsCache drops cached stats and recomputes them for every tenant.
func (s *Scheduler) warmStatsCache(ctx context.Context) {
	if err := s.services.Estimation.PurgeStats(ctx); err != nil {
		logger.Get(ctx).Warn().Err(err).Msg("[Cron] Stats cache purge failed")
	}
	s.forEachTenant(ctx, JobStatsWarmup, func(ctx context.Context, tenantID string) error {
		_, err := s.services.Estimation.RefreshStats(ctx, tenantID)
		return err
	})
}

func (s *Scheduler) cleanupRefreshTokens(ctx context.Context) {
	deleted, err := s.userRepo.DeleteExpiredRefreshTokens(ctx)
	if err != nil {
		logger.Get(ctx).Error().Err(err).Msg("[Cron] Error deleting expired refresh tokens")
		return
	}
	logger.Get(ctx).Info().Int64("deleted", deleted).Msg("[Cron] 🧹 Expired refresh tokens purged")
}

func (s *Scheduler) snapshotDashboards(ctx context.Context) {
	s.forEachTenant(ctx, JobReportSummary, s.services.Report.Snapshot)
}

// ManualTrigger runs a job synchronously (for testing and admin tooling)
func (s *Scheduler) ManualTrigger(ctx context.Context, job string) {
	switch job {
	case JobStatsWarmup:
		s.warmStatsCache(ctx)
	case JobTokenCleanup:
		s.cleanupRefreshTokens(ctx)
	case JobReportSummary:
		s.snapshotDashboards(ctx)
	case JobAll:
		s.warmStatsCache(ctx)
		s.cleanupRefreshTokens(ctx)
		s.snapshotDashboards(ctx)
	default:
		logger.Get(ctx).Warn().Str("job", job).Msg("[Cron] Unknown job")
	}
}
