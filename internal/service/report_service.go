package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/projecthub/project-hub-backend/internal/estimation"
	"github.com/projecthub/project-hub-backend/internal/logger"
	"github.com/projecthub/project-hub-backend/internal/repository"
	"github.com/projecthub/project-hub-backend/internal/types"
)

// ============================================
// Report Service
// ============================================

// ExecutiveDashboard is the tenant-wide delivery summary.
type ExecutiveDashboard struct {
	TotalHoursWorked    float64   `json:"totalHoursWorked"`
	TotalTasks          int       `json:"totalTasks"`
	CompletedTasks      int       `json:"completedTasks"`
	TaskCompletionRate  float64   `json:"taskCompletionRate"`
	ActiveProjects      int       `json:"activeProjects"`
	AverageHoursPerTask float64   `json:"averageHoursPerTask"`
	CompletedLast7Days  int       `json:"completedLast7Days"`
	OnTimeDeliveryRate  float64   `json:"onTimeDeliveryRate"`
	GeneratedAt         time.Time `json:"generatedAt"`
}

// ResourceCosts splits an estimate's cost by role, priced at the estimate's
// own rate card.
type ResourceCosts struct {
	Developers float64 `json:"developers"`
	Designers  float64 `json:"designers"`
	QA         float64 `json:"qa"`
}

// ProjectCost compares a project's linked estimate with the hours booked so far.
type ProjectCost struct {
	ProjectID       string        `json:"projectId"`
	ProjectName     string        `json:"projectName"`
	EstimationID    string        `json:"estimationId"`
	EstimatedHours  int           `json:"estimatedHours"`
	ActualHours     float64       `json:"actualHours"`
	BlendedRate     float64       `json:"blendedRate"`
	EstimatedCost   float64       `json:"estimatedCost"`
	ActualCost      float64       `json:"actualCost"`
	Variance        float64       `json:"variance"`
	VariancePercent float64       `json:"variancePercent"`
	ResourceCosts   ResourceCosts `json:"resourceCosts"`
}

// MemberPerformance is one user's delivery over a date range.
type MemberPerformance struct {
	UserID            string  `json:"userId"`
	UserName          string  `json:"userName"`
	TasksCompleted    int     `json:"tasksCompleted"`
	HoursWorked       float64 `json:"hoursWorked"`
	AverageTaskTime   float64 `json:"averageTaskTime"`
	OnTimeRate        float64 `json:"onTimeRate"`
	ProductivityScore float64 `json:"productivityScore"`
}

// TimelinePoint aggregates completed work in one interval bucket.
type TimelinePoint struct {
	Date           string  `json:"date"`
	HoursWorked    float64 `json:"hoursWorked"`
	TasksCompleted int     `json:"tasksCompleted"`
	Revenue        float64 `json:"revenue"`
	ProjectsActive int     `json:"projectsActive"`
}

// TechnologyEfficiency summarises the estimates made for one stack.
type TechnologyEfficiency struct {
	Technology             string  `json:"technology"`
	ProjectCount           int     `json:"projectCount"`
	TotalEstimatedHours    int     `json:"totalEstimatedHours"`
	TotalEstimatedCost     float64 `json:"totalEstimatedCost"`
	AverageHoursPerProject float64 `json:"averageHoursPerProject"`
	AverageCostPerProject  float64 `json:"averageCostPerProject"`
	AverageWeeksPerProject float64 `json:"averageWeeksPerProject"`
}

// DateRange is a half-open [Start, End) window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Timeline bucket sizes.
const (
	IntervalDay   = "day"
	IntervalWeek  = "week"
	IntervalMonth = "month"
)

const maxTimelineBuckets = 1000

type ReportService interface {
	ExecutiveDashboard(ctx context.Context, tenantID string) (*ExecutiveDashboard, error)
	ProjectCostAnalysis(ctx context.Context, tenantID string) ([]ProjectCost, error)
	TeamPerformance(ctx context.Context, tenantID string, r DateRange) ([]MemberPerformance, error)
	Timeline(ctx context.Context, tenantID string, r DateRange, interval string) ([]TimelinePoint, error)
	TechnologyEfficiency(ctx context.Context, tenantID string) ([]TechnologyEfficiency, error)
	EstimationStats(ctx context.Context, tenantID string) (*estimation.Stats, error)
	Snapshot(ctx context.Context, tenantID string) error
}

type reportService struct {
	projectRepo       repository.ProjectRepository
	taskRepo          repository.TaskRepository
	userRepo          repository.UserRepository
	estimationRepo    repository.EstimationRepository
	estimationService EstimationService
	now               func() time.Time
}

func NewReportService(
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	estimationRepo repository.EstimationRepository,
	estimationService EstimationService,
) ReportService {
	return &reportService{
		projectRepo:       projectRepo,
		taskRepo:          taskRepo,
		userRepo:          userRepo,
		estimationRepo:    estimationRepo,
		estimationService: estimationService,
		now:               time.Now,
	}
}

func (s *reportService) ExecutiveDashboard(ctx context.Context, tenantID string) (*ExecutiveDashboard, error) {
	tasks, _, err := s.taskRepo.FindWithFilters(ctx, repository.TaskFilter{TenantID: tenantID})
	if err != nil {
		return nil, err
	}
	counts, err := s.projectRepo.CountByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	weekAgo := now.AddDate(0, 0, -7)

	d := &ExecutiveDashboard{
		TotalTasks:     len(tasks),
		ActiveProjects: counts[types.ProjectActive],
		GeneratedAt:    now,
	}

	var (
		booked      int
		hours       float64
		withDueDate int
		onTime      int
	)
	for _, t := range tasks {
		if t.ActualHours != nil {
			hours += *t.ActualHours
			booked++
		}
		if t.Status != types.StatusDone {
			continue
		}
		d.CompletedTasks++
		if t.CompletedAt == nil {
			continue
		}
		if !t.CompletedAt.Before(weekAgo) {
			d.CompletedLast7Days++
		}
		if t.DueDate != nil {
			withDueDate++
			if !t.CompletedAt.After(*t.DueDate) {
				onTime++
			}
		}
	}

	d.TotalHoursWorked = round1(hours)
	d.TaskCompletionRate = percent(d.CompletedTasks, d.TotalTasks)
	d.OnTimeDeliveryRate = percent(onTime, withDueDate)
	if booked > 0 {
		d.AverageHoursPerTask = round1(hours / float64(booked))
	}
	return d, nil
}

// ProjectCostAnalysis prices booked hours at the blended rate of each
// project's linked estimate. Projects without an estimate are skipped.
func (s *reportService) ProjectCostAnalysis(ctx context.Context, tenantID string) ([]ProjectCost, error) {
	projects, _, err := s.projectRepo.FindAll(ctx, repository.ProjectFilter{TenantID: tenantID})
	if err != nil {
		return nil, err
	}

	out := []ProjectCost{}
	for _, p := range projects {
		if p.EstimationID == nil {
			continue
		}
		e, err := s.estimationRepo.FindByID(ctx, tenantID, *p.EstimationID)
		if err != nil {
			return nil, err
		}
		if e == nil {
			continue
		}

		projectID := p.ID
		tasks, _, err := s.taskRepo.FindWithFilters(ctx, repository.TaskFilter{TenantID: tenantID, ProjectID: &projectID})
		if err != nil {
			return nil, err
		}
		var actual float64
		for _, t := range tasks {
			if t.ActualHours != nil {
				actual += *t.ActualHours
			}
		}

		out = append(out, costLine(p, e, actual))
	}
	return out, nil
}

func blendedRate(e *repository.Estimation) decimal.Decimal {
	if e.Result.EstimatedHours <= 0 {
		return decimal.Zero
	}
	return e.Result.Cost.Estimated.Div(decimal.NewFromInt(int64(e.Result.EstimatedHours))).Round(2)
}

func resourceCosts(r estimation.Result) ResourceCosts {
	price := func(hours int, rate decimal.Decimal) decimal.Decimal {
		return decimal.NewFromInt(int64(hours)).Mul(rate)
	}
	developers := price(r.Distribution.Frontend, r.Rates.Frontend).Add(price(r.Distribution.Backend, r.Rates.Backend))
	return ResourceCosts{
		Developers: developers.Round(0).InexactFloat64(),
		Designers:  price(r.Distribution.Design, r.Rates.Design).Round(0).InexactFloat64(),
		QA:         price(r.Distribution.Testing, r.Rates.Testing).Round(0).InexactFloat64(),
	}
}

func costLine(p *repository.Project, e *repository.Estimation, actualHours float64) ProjectCost {
	estimated := e.Result.Cost.Estimated
	rate := blendedRate(e)
	actual := rate.Mul(decimal.NewFromFloat(actualHours)).Round(0)
	variance := actual.Sub(estimated)

	var pct float64
	if !estimated.IsZero() {
		pct = variance.Div(estimated).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64()
	}

	return ProjectCost{
		ProjectID:       p.ID,
		ProjectName:     p.Name,
		EstimationID:    e.ID,
		EstimatedHours:  e.Result.EstimatedHours,
		ActualHours:     round1(actualHours),
		BlendedRate:     rate.InexactFloat64(),
		EstimatedCost:   estimated.InexactFloat64(),
		ActualCost:      actual.InexactFloat64(),
		Variance:        variance.InexactFloat64(),
		VariancePercent: pct,
		ResourceCosts:   resourceCosts(e.Result),
	}
}

// completedTasks returns the tenant's done tasks whose completion falls in r.
func (s *reportService) completedTasks(ctx context.Context, tenantID string, r DateRange) ([]*repository.Task, error) {
	done := types.StatusDone
	tasks, _, err := s.taskRepo.FindWithFilters(ctx, repository.TaskFilter{TenantID: tenantID, Status: &done})
	if err != nil {
		return nil, err
	}
	out := tasks[:0]
	for _, t := range tasks {
		if t.CompletedAt != nil && r.contains(*t.CompletedAt) {
			out = append(out, t)
		}
	}
	return out, nil
}

// TeamPerformance reports every tenant user's completed work in r. Hours are
// the actual hours booked on the tasks completed in the range.
func (s *reportService) TeamPerformance(ctx context.Context, tenantID string, r DateRange) ([]MemberPerformance, error) {
	if !r.Start.Before(r.End) {
		return nil, fmt.Errorf("%w: start date must be before end date", ErrInvalidInput)
	}
	users, err := s.userRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.completedTasks(ctx, tenantID, r)
	if err != nil {
		return nil, err
	}

	type tally struct {
		completed, withDue, onTime int
		hours                      float64
	}
	byUser := map[string]*tally{}
	for _, t := range tasks {
		if t.AssigneeID == nil {
			continue
		}
		c := byUser[*t.AssigneeID]
		if c == nil {
			c = &tally{}
			byUser[*t.AssigneeID] = c
		}
		c.completed++
		if t.ActualHours != nil {
			c.hours += *t.ActualHours
		}
		if t.DueDate != nil {
			c.withDue++
			if !t.CompletedAt.After(*t.DueDate) {
				c.onTime++
			}
		}
	}

	out := make([]MemberPerformance, 0, len(users))
	for _, u := range users {
		m := MemberPerformance{UserID: u.ID, UserName: u.FullName()}
		if c := byUser[u.ID]; c != nil {
			m.TasksCompleted = c.completed
			m.HoursWorked = round1(c.hours)
			m.AverageTaskTime = round1(c.hours / float64(c.completed))
			m.OnTimeRate = percent(c.onTime, c.withDue)
			if c.hours > 0 {
				m.ProductivityScore = math.Round(float64(c.completed)/c.hours*100) / 100
			}
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TasksCompleted != out[j].TasksCompleted {
			return out[i].TasksCompleted > out[j].TasksCompleted
		}
		if out[i].HoursWorked != out[j].HoursWorked {
			return out[i].HoursWorked > out[j].HoursWorked
		}
		return out[i].UserName < out[j].UserName
	})
	return out, nil
}

// bucketStart truncates t (in UTC) to the start of its interval. Weeks start
// on Monday.
func bucketStart(t time.Time, interval string) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch interval {
	case IntervalWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case IntervalMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

func nextBucket(t time.Time, interval string) time.Time {
	switch interval {
	case IntervalWeek:
		return t.AddDate(0, 0, 7)
	case IntervalMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// Timeline buckets completed tasks in r by interval. Every bucket in the
// range is present, empty ones included. Revenue prices a task's hours at the
// blended rate of its project's linked estimate.
func (s *reportService) Timeline(ctx context.Context, tenantID string, r DateRange, interval string) ([]TimelinePoint, error) {
	if interval == "" {
		interval = IntervalDay
	}
	switch interval {
	case IntervalDay, IntervalWeek, IntervalMonth:
	default:
		return nil, fmt.Errorf("%w: unknown interval %q", ErrInvalidInput, interval)
	}
	if !r.Start.Before(r.End) {
		return nil, fmt.Errorf("%w: start date must be before end date", ErrInvalidInput)
	}

	var keys []time.Time
	for b := bucketStart(r.Start, interval); b.Before(r.End); b = nextBucket(b, interval) {
		if len(keys) == maxTimelineBuckets {
			return nil, fmt.Errorf("%w: range too large for interval %s", ErrInvalidInput, interval)
		}
		keys = append(keys, b)
	}

	tasks, err := s.completedTasks(ctx, tenantID, r)
	if err != nil {
		return nil, err
	}
	rates, err := s.projectRates(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		hours    float64
		tasks    int
		revenue  decimal.Decimal
		projects map[string]struct{}
	}
	buckets := make(map[time.Time]*bucket, len(keys))
	for _, k := range keys {
		buckets[k] = &bucket{revenue: decimal.Zero, projects: map[string]struct{}{}}
	}

	for _, t := range tasks {
		b := buckets[bucketStart(*t.CompletedAt, interval)]
		if b == nil {
			continue
		}
		b.tasks++
		b.projects[t.ProjectID] = struct{}{}
		if t.ActualHours != nil {
			b.hours += *t.ActualHours
			if rate, ok := rates[t.ProjectID]; ok {
				b.revenue = b.revenue.Add(rate.Mul(decimal.NewFromFloat(*t.ActualHours)))
			}
		}
	}

	out := make([]TimelinePoint, len(keys))
	for i, k := range keys {
		b := buckets[k]
		out[i] = TimelinePoint{
			Date:           k.Format("2006-01-02"),
			HoursWorked:    round1(b.hours),
			TasksCompleted: b.tasks,
			Revenue:        b.revenue.Round(2).InexactFloat64(),
			ProjectsActive: len(b.projects),
		}
	}
	return out, nil
}

// projectRates maps each project with a linked estimate to its blended rate.
func (s *reportService) projectRates(ctx context.Context, tenantID string) (map[string]decimal.Decimal, error) {
	projects, _, err := s.projectRepo.FindAll(ctx, repository.ProjectFilter{TenantID: tenantID})
	if err != nil {
		return nil, err
	}
	rates := map[string]decimal.Decimal{}
	for _, p := range projects {
		if p.EstimationID == nil {
			continue
		}
		e, err := s.estimationRepo.FindByID(ctx, tenantID, *p.EstimationID)
		if err != nil {
			return nil, err
		}
		if e != nil {
			rates[p.ID] = blendedRate(e)
		}
	}
	return rates, nil
}

// TechnologyEfficiency groups the tenant's estimates by technology stack,
// most estimated first.
func (s *reportService) TechnologyEfficiency(ctx context.Context, tenantID string) ([]TechnologyEfficiency, error) {
	all, err := s.estimationRepo.FindAll(ctx, repository.EstimationFilter{TenantID: tenantID})
	if err != nil {
		return nil, err
	}

	type tally struct {
		count int
		hours int
		weeks float64
		cost  decimal.Decimal
	}
	byTech := map[estimation.TechnologyStack]*tally{}
	for _, e := range all {
		c := byTech[e.TechnologyStack]
		if c == nil {
			c = &tally{cost: decimal.Zero}
			byTech[e.TechnologyStack] = c
		}
		c.count++
		c.hours += e.Result.EstimatedHours
		c.weeks += e.Result.Schedule.EstimatedWeeks
		c.cost = c.cost.Add(e.Result.Cost.Estimated)
	}

	out := make([]TechnologyEfficiency, 0, len(byTech))
	for tech, c := range byTech {
		n := float64(c.count)
		out = append(out, TechnologyEfficiency{
			Technology:             string(tech),
			ProjectCount:           c.count,
			TotalEstimatedHours:    c.hours,
			TotalEstimatedCost:     c.cost.InexactFloat64(),
			AverageHoursPerProject: round1(float64(c.hours) / n),
			AverageCostPerProject:  c.cost.Div(decimal.NewFromInt(int64(c.count))).Round(0).InexactFloat64(),
			AverageWeeksPerProject: round1(c.weeks / n),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProjectCount != out[j].ProjectCount {
			return out[i].ProjectCount > out[j].ProjectCount
		}
		return out[i].Technology < out[j].Technology
	})
	return out, nil
}

func (s *reportService) EstimationStats(ctx context.Context, tenantID string) (*estimation.Stats, error) {
	return s.estimationService.Stats(ctx, tenantID)
}

// Snapshot logs the current dashboard figures for a tenant.
func (s *reportService) Snapshot(ctx context.Context, tenantID string) error {
	d, err := s.ExecutiveDashboard(ctx, tenantID)
	if err != nil {
		return err
	}
	logger.Get(ctx).Info().
		Str("tenant_id", tenantID).
		Int("active_projects", d.ActiveProjects).
		Int("total_tasks", d.TotalTasks).
		Float64("completion_rate", d.TaskCompletionRate).
		Float64("hours_worked", d.TotalHoursWorked).
		Float64("on_time_rate", d.OnTimeDeliveryRate).
		Msg("📊 Weekly dashboard snapshot")
	return nil
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round1(float64(part) * 100 / float64(whole))
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
