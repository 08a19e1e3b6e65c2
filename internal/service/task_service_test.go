package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecthub/project-hub-backend/internal/repository"
	"github.com/projecthub/project-hub-backend/internal/types"
)

func TestTaskCompletedAtFollowsStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	fixed := time.Date(2025, time.June, 2, 9, 30, 0, 0, time.UTC)
	f.services.Task.(*taskService).now = func() time.Time { return fixed }

	project := f.project(t, "tenant-a", "Portal")
	task, err := f.services.Task.Create(ctx, "tenant-a", "user-1", CreateTaskInput{
		ProjectID: project.ID,
		Title:     "Build login",
	})
	require.NoError(t, err)
	assert.Equal(t, types.StatusTodo, task.Status)
	assert.Equal(t, types.PriorityMedium, task.Priority)
	assert.Nil(t, task.CompletedAt)

	done, err := f.services.Task.UpdateStatus(ctx, "tenant-a", "user-1", task.ID, types.StatusDone)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, fixed.Equal(*done.CompletedAt))

	reopened, err := f.services.Task.UpdateStatus(ctx, "tenant-a", "user-1", task.ID, types.StatusInProgress)
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt)

	stored, err := f.services.Task.Get(ctx, "tenant-a", task.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CompletedAt)

	assert.Equal(t, []string{
		"task_created",
		"task_updated", "task_status_changed",
		"task_updated", "task_status_changed",
	}, f.broadcaster.names())
}

func TestTaskValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	project := f.project(t, "tenant-a", "Portal")
	outsider := f.user(t, "tenant-b", "eve@other.test", types.RoleDeveloper)

	_, err := f.services.Task.Create(ctx, "tenant-a", "user-1", CreateTaskInput{ProjectID: project.ID, Title: " "})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.services.Task.Create(ctx, "tenant-a", "user-1", CreateTaskInput{
		ProjectID: project.ID, Title: "Task", Priority: "whenever",
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	negative := -1.0
	_, err = f.services.Task.Create(ctx, "tenant-a", "user-1", CreateTaskInput{
		ProjectID: project.ID, Title: "Task", ActualHours: &negative,
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.services.Task.Create(ctx, "tenant-a", "user-1", CreateTaskInput{
		ProjectID: project.ID, Title: "Task", AssigneeID: &outsider.ID,
	})
	require.ErrorIs(t, err, ErrInvalidInput, "assignee must belong to the tenant")

	_, err = f.services.Task.Create(ctx, "tenant-b", "user-1", CreateTaskInput{ProjectID: project.ID, Title: "Task"})
	require.ErrorIs(t, err, ErrInvalidInput, "project must belong to the tenant")
}

func TestTaskAssignmentNotifiesAssignee(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	project := f.project(t, "tenant-a", "Portal")
	dev := f.user(t, "tenant-a", "dev@acme.test", types.RoleDeveloper)

	_, err := f.services.Task.Create(ctx, "tenant-a", "user-1", CreateTaskInput{
		ProjectID: project.ID, Title: "Task", AssigneeID: &dev.ID,
	})
	require.NoError(t, err)

	f.broadcaster.mu.Lock()
	defer f.broadcaster.mu.Unlock()
	require.Len(t, f.broadcaster.events, 2)
	assert.Equal(t, event{Name: "task_assigned", Target: dev.ID}, f.broadcaster.events[1])
}

func TestTaskListFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	project := f.project(t, "tenant-a", "Portal")

	for _, status := range []string{types.StatusTodo, types.StatusDone, types.StatusDone} {
		_, err := f.services.Task.Create(ctx, "tenant-a", "user-1", CreateTaskInput{
			ProjectID: project.ID, Title: "Task " + status, Status: status,
		})
		require.NoError(t, err)
	}

	done := types.StatusDone
	items, total, err := f.services.Task.List(ctx, repository.TaskFilter{TenantID: "tenant-a", Status: &done})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, it := range items {
		assert.NotNil(t, it.CompletedAt, "tasks created as done carry a completion time")
	}

	bogus := "blocked"
	_, _, err = f.services.Task.List(ctx, repository.TaskFilter{TenantID: "tenant-a", Status: &bogus})
	require.ErrorIs(t, err, ErrInvalidInput)
}
