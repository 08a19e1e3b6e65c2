package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

type Task struct {
	ID             string     `db:"id"`
	TenantID       string     `db:"tenant_id"`
	ProjectID      string     `db:"project_id"`
	Title          string     `db:"title"`
	Description    *string    `db:"description"`
	Status         string     `db:"status"`
	Priority       string     `db:"priority"`
	AssigneeID     *string    `db:"assignee_id"`
	ReporterID     *string    `db:"reporter_id"`
	EstimatedHours *float64   `db:"estimated_hours"`
	ActualHours    *float64   `db:"actual_hours"`
	DueDate        *time.Time `db:"due_date"`
	CompletedAt    *time.Time `db:"completed_at"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// TaskFilter narrows FindWithFilters. Nil fields are ignored.
type TaskFilter struct {
	TenantID   string
	ProjectID  *string
	AssigneeID *string
	Status     *string
	Priority   *string
	Page
}

type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, tenantID, id string) (*Task, error)
	FindWithFilters(ctx context.Context, filter TaskFilter) ([]*Task, int, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, tenantID, id string) error
}

type taskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `
	id, tenant_id, project_id, title, description, status, priority, assignee_id, reporter_id,
	estimated_hours, actual_hours, due_date, completed_at, created_at, updated_at`

func (r *taskRepository) Create(ctx context.Context, task *Task) error {
	query, args, err := r.db.BindNamed(`
		INSERT INTO tasks (
			tenant_id, project_id, title, description, status, priority, assignee_id, reporter_id,
			estimated_hours, actual_hours, due_date, completed_at
		) VALUES (
			:tenant_id, :project_id, :title, :description, :status, :priority, :assignee_id, :reporter_id,
			:estimated_hours, :actual_hours, :due_date, :completed_at
		)
		RETURNING id, created_at, updated_at`, task)
	if err != nil {
		return err
	}
	return r.db.QueryRowxContext(ctx, query, args...).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) FindByID(ctx context.Context, tenantID, id string) (*Task, error) {
	t := &Task{}
	err := r.db.GetContext(ctx, t, `SELECT `+taskColumns+` FROM tasks WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *taskRepository) FindWithFilters(ctx context.Context, filter TaskFilter) ([]*Task, int, error) {
	where := ` WHERE tenant_id = $1`
	args := []interface{}{filter.TenantID}

	add := func(column string, value *string) {
		if value != nil {
			args = append(args, *value)
			where += ` AND ` + column + ` = $` + itoa(len(args))
		}
	}
	add("project_id", filter.ProjectID)
	add("assignee_id", filter.AssigneeID)
	add("status", filter.Status)
	add("priority", filter.Priority)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM tasks`+where, args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + taskColumns + ` FROM tasks` + where + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += ` LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))
	}

	var tasks []*Task
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *taskRepository) Update(ctx context.Context, task *Task) error {
	query, args, err := r.db.BindNamed(`
		UPDATE tasks SET
			title = :title, description = :description, status = :status, priority = :priority,
			assignee_id = :assignee_id, estimated_hours = :estimated_hours, actual_hours = :actual_hours,
			due_date = :due_date, completed_at = :completed_at, updated_at = NOW()
		WHERE tenant_id = :tenant_id AND id = :id
		RETURNING updated_at`, task)
	if err != nil {
		return err
	}
	return r.db.QueryRowxContext(ctx, query, args...).Scan(&task.UpdatedAt)
}

func (r *taskRepository) Delete(ctx context.Context, tenantID, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return err
}
