package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecthub/project-hub-backend/internal/estimation"
	"github.com/projecthub/project-hub-backend/internal/repository"
	"github.com/projecthub/project-hub-backend/internal/types"
)

func hours(v float64) *float64 { return &v }

func at(t time.Time) *time.Time { return &t }

func TestExecutiveDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	reports := f.services.Report.(*reportService)
	reports.now = func() time.Time { return now }

	project := f.project(t, "tenant-a", "Portal")
	f.project(t, "tenant-a", "Billing")
	paused := f.project(t, "tenant-a", "Legacy")
	paused.Status = types.ProjectPaused
	require.NoError(t, f.repos.ProjectRepo.Update(ctx, paused))

	tasks := []*repository.Task{
		// done on time, this week
		{Status: types.StatusDone, ActualHours: hours(10), DueDate: at(now.AddDate(0, 0, 1)), CompletedAt: at(now.AddDate(0, 0, -1))},
		// done late, two weeks ago
		{Status: types.StatusDone, ActualHours: hours(20), DueDate: at(now.AddDate(0, 0, -20)), CompletedAt: at(now.AddDate(0, 0, -14))},
		{Status: types.StatusInProgress, ActualHours: hours(5)},
		{Status: types.StatusTodo},
	}
	for _, task := range tasks {
		task.TenantID = "tenant-a"
		task.ProjectID = project.ID
		task.Title = "task"
		task.Priority = types.PriorityMedium
		require.NoError(t, f.repos.TaskRepo.Create(ctx, task))
	}

	d, err := f.services.Report.ExecutiveDashboard(ctx, "tenant-a")
	require.NoError(t, err)
	assert.Equal(t, 35.0, d.TotalHoursWorked)
	assert.Equal(t, 4, d.TotalTasks)
	assert.Equal(t, 2, d.CompletedTasks)
	assert.Equal(t, 50.0, d.TaskCompletionRate)
	assert.Equal(t, 2, d.ActiveProjects)
	assert.Equal(t, 11.7, d.AverageHoursPerTask)
	assert.Equal(t, 1, d.CompletedLast7Days)
	assert.Equal(t, 50.0, d.OnTimeDeliveryRate)

	empty, err := f.services.Report.ExecutiveDashboard(ctx, "tenant-b")
	require.NoError(t, err)
	assert.Zero(t, empty.TaskCompletionRate)
	assert.Zero(t, empty.AverageHoursPerTask)
}

func TestProjectCostAnalysis(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	e := &repository.Estimation{
		TenantID:        "tenant-a",
		ProjectType:     estimation.ProjectWebApp,
		TechnologyStack: estimation.TechReact,
		ComplexityLevel: estimation.ComplexityMedium,
		Result: estimation.Result{
			EstimatedHours: 100,
			Distribution:   estimation.Distribution{Frontend: 40, Backend: 40, Testing: 10, Design: 10},
			Rates:          estimation.DefaultRates(),
			Cost:           estimation.Cost{Estimated: decimal.NewFromInt(3000)},
		},
	}
	require.NoError(t, f.repos.EstimationRepo.Insert(ctx, e))

	linked := &repository.Project{TenantID: "tenant-a", Name: "Portal", Status: types.ProjectActive, EstimationID: &e.ID}
	require.NoError(t, f.repos.ProjectRepo.Create(ctx, linked))
	f.project(t, "tenant-a", "Unestimated")

	for _, h := range []float64{40, 70} {
		require.NoError(t, f.repos.TaskRepo.Create(ctx, &repository.Task{
			TenantID: "tenant-a", ProjectID: linked.ID, Title: "work",
			Status: types.StatusDone, Priority: types.PriorityLow, ActualHours: hours(h),
		}))
	}

	lines, err := f.services.Report.ProjectCostAnalysis(ctx, "tenant-a")
	require.NoError(t, err)
	require.Len(t, lines, 1)

	line := lines[0]
	assert.Equal(t, linked.ID, line.ProjectID)
	assert.Equal(t, 110.0, line.ActualHours)
	assert.Equal(t, 30.0, line.BlendedRate)
	assert.Equal(t, 3000.0, line.EstimatedCost)
	assert.Equal(t, 3300.0, line.ActualCost)
	assert.Equal(t, 300.0, line.Variance)
	assert.Equal(t, 10.0, line.VariancePercent)
	assert.Equal(t, ResourceCosts{Developers: 2200, Designers: 200, QA: 180}, line.ResourceCosts)
}

type reportFixture struct {
	*fixture
	ctx    context.Context
	portal *repository.Project
}

func (f *reportFixture) done(t *testing.T, assignee string, h float64, completed time.Time, due *time.Time) {
	t.Helper()
	task := &repository.Task{
		TenantID: "tenant-a", ProjectID: f.portal.ID, Title: "work",
		Status: types.StatusDone, Priority: types.PriorityMedium,
		ActualHours: hours(h), CompletedAt: at(completed), DueDate: due,
	}
	if assignee != "" {
		task.AssigneeID = &assignee
	}
	require.NoError(t, f.repos.TaskRepo.Create(f.ctx, task))
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	f := &reportFixture{fixture: newFixture(t), ctx: context.Background()}

	e := &repository.Estimation{
		TenantID:        "tenant-a",
		TechnologyStack: estimation.TechReact,
		Result: estimation.Result{
			EstimatedHours: 100,
			Cost:           estimation.Cost{Estimated: decimal.NewFromInt(2500)},
		},
	}
	require.NoError(t, f.repos.EstimationRepo.Insert(f.ctx, e))
	f.portal = &repository.Project{TenantID: "tenant-a", Name: "Portal", Status: types.ProjectActive, EstimationID: &e.ID}
	require.NoError(t, f.repos.ProjectRepo.Create(f.ctx, f.portal))
	return f
}

func TestTeamPerformance(t *testing.T) {
	f := newReportFixture(t)
	ana := f.user(t, "tenant-a", "ana@acme.test", types.RoleDeveloper)
	bob := f.user(t, "tenant-a", "bob@acme.test", types.RoleDeveloper)
	f.user(t, "tenant-b", "eve@globex.test", types.RoleDeveloper)

	day := time.Date(2025, time.June, 2, 15, 0, 0, 0, time.UTC)
	f.done(t, ana.ID, 6, day, at(day.Add(time.Hour)))
	f.done(t, ana.ID, 4, day.AddDate(0, 0, 1), at(day))
	f.done(t, bob.ID, 8, day, nil)
	f.done(t, bob.ID, 3, day.AddDate(0, 0, -40), nil) // outside the range
	f.done(t, "", 5, day, nil)

	r := DateRange{Start: day.AddDate(0, 0, -7), End: day.AddDate(0, 0, 7)}
	members, err := f.services.Report.TeamPerformance(f.ctx, "tenant-a", r)
	require.NoError(t, err)
	require.Len(t, members, 2)

	assert.Equal(t, ana.ID, members[0].UserID)
	assert.Equal(t, 2, members[0].TasksCompleted)
	assert.Equal(t, 10.0, members[0].HoursWorked)
	assert.Equal(t, 5.0, members[0].AverageTaskTime)
	assert.Equal(t, 50.0, members[0].OnTimeRate)
	assert.Equal(t, 0.2, members[0].ProductivityScore)

	assert.Equal(t, bob.ID, members[1].UserID)
	assert.Equal(t, 1, members[1].TasksCompleted)
	assert.Equal(t, 8.0, members[1].HoursWorked)
	assert.Zero(t, members[1].OnTimeRate)

	_, err = f.services.Report.TeamPerformance(f.ctx, "tenant-a", DateRange{Start: r.End, End: r.Start})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestTimeline(t *testing.T) {
	f := newReportFixture(t)
	other := f.project(t, "tenant-a", "Unestimated")

	monday := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
	f.done(t, "", 4, monday, nil)
	f.done(t, "", 6, monday.Add(3*time.Hour), nil)
	f.done(t, "", 2, monday.AddDate(0, 0, 8), nil)
	require.NoError(t, f.repos.TaskRepo.Create(f.ctx, &repository.Task{
		TenantID: "tenant-a", ProjectID: other.ID, Title: "unpriced",
		Status: types.StatusDone, Priority: types.PriorityLow,
		ActualHours: hours(1), CompletedAt: at(monday.AddDate(0, 0, 2)),
	}))

	r := DateRange{Start: monday, End: monday.AddDate(0, 0, 14)}

	t.Run("daily buckets include empty days", func(t *testing.T) {
		points, err := f.services.Report.Timeline(f.ctx, "tenant-a", r, "")
		require.NoError(t, err)
		require.Len(t, points, 14)
		assert.Equal(t, "2025-06-02", points[0].Date)
		assert.Equal(t, 10.0, points[0].HoursWorked)
		assert.Equal(t, 2, points[0].TasksCompleted)
		assert.Equal(t, 250.0, points[0].Revenue)
		assert.Equal(t, 1, points[0].ProjectsActive)
		assert.Zero(t, points[1].TasksCompleted)
		assert.Equal(t, 1.0, points[2].HoursWorked)
		assert.Zero(t, points[2].Revenue)
	})

	t.Run("weekly buckets start on monday", func(t *testing.T) {
		points, err := f.services.Report.Timeline(f.ctx, "tenant-a", r, IntervalWeek)
		require.NoError(t, err)
		require.Len(t, points, 2)
		assert.Equal(t, "2025-06-02", points[0].Date)
		assert.Equal(t, 11.0, points[0].HoursWorked)
		assert.Equal(t, 3, points[0].TasksCompleted)
		assert.Equal(t, 2, points[0].ProjectsActive)
		assert.Equal(t, "2025-06-09", points[1].Date)
		assert.Equal(t, 2.0, points[1].HoursWorked)
	})

	t.Run("monthly", func(t *testing.T) {
		points, err := f.services.Report.Timeline(f.ctx, "tenant-a", r, IntervalMonth)
		require.NoError(t, err)
		require.Len(t, points, 1)
		assert.Equal(t, "2025-06-01", points[0].Date)
		assert.Equal(t, 4, points[0].TasksCompleted)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := f.services.Report.Timeline(f.ctx, "tenant-a", r, "fortnight")
		require.ErrorIs(t, err, ErrInvalidInput)
		_, err = f.services.Report.Timeline(f.ctx, "tenant-a", DateRange{Start: r.End, End: r.Start}, IntervalDay)
		require.ErrorIs(t, err, ErrInvalidInput)
		long := DateRange{Start: monday, End: monday.AddDate(10, 0, 0)}
		_, err = f.services.Report.Timeline(f.ctx, "tenant-a", long, IntervalDay)
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestTechnologyEfficiency(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	add := func(tech estimation.TechnologyStack, hours int, cost int64, weeks float64) {
		require.NoError(t, f.repos.EstimationRepo.Insert(ctx, &repository.Estimation{
			TenantID:        "tenant-a",
			TechnologyStack: tech,
			Result: estimation.Result{
				EstimatedHours: hours,
				Schedule:       estimation.Schedule{EstimatedWeeks: weeks},
				Cost:           estimation.Cost{Estimated: decimal.NewFromInt(cost)},
			},
		}))
	}
	add(estimation.TechVue, 100, 3000, 2)
	add(estimation.TechReact, 200, 5000, 4)
	add(estimation.TechReact, 101, 2001, 3)
	require.NoError(t, f.repos.EstimationRepo.Insert(ctx, &repository.Estimation{TenantID: "tenant-b", TechnologyStack: estimation.TechPHP}))

	techs, err := f.services.Report.TechnologyEfficiency(ctx, "tenant-a")
	require.NoError(t, err)
	require.Len(t, techs, 2)

	assert.Equal(t, TechnologyEfficiency{
		Technology:             "react",
		ProjectCount:           2,
		TotalEstimatedHours:    301,
		TotalEstimatedCost:     7001,
		AverageHoursPerProject: 150.5,
		AverageCostPerProject:  3501,
		AverageWeeksPerProject: 3.5,
	}, techs[0])
	assert.Equal(t, "vue", techs[1].Technology)

	empty, err := f.services.Report.TechnologyEfficiency(ctx, "tenant-c")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestReportSnapshotAndStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.services.Estimation.Calculate(ctx, "tenant-a", "user-1", webAppInput())
	require.NoError(t, err)

	stats, err := f.services.Report.EstimationStats(ctx, "tenant-a")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalProjects)

	require.NoError(t, f.services.Report.Snapshot(ctx, "tenant-a"))
}
