package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Project struct {
	ID           string
	TenantID     string
	Name         string
	Description  *string
	Status       string
	ClientID     *string
	EstimationID *string
	TeamMembers  []string
	CreatedBy    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ProjectFilter struct {
	TenantID string
	Status   *string
	Search   *string
	Page
}

type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, tenantID, id string) (*Project, error)
	FindAll(ctx context.Context, filter ProjectFilter) ([]*Project, int, error)
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, tenantID, id string) error
	CountByStatus(ctx context.Context, tenantID string) (map[string]int, error)
}

type pgProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &pgProjectRepository{pool: pool}
}

const projectColumns = `id, tenant_id, name, description, status, client_id, estimation_id, team_members, created_by, created_at, updated_at`

func scanProject(row pgx.Row) (*Project, error) {
	p := &Project{}
	err := row.Scan(
		&p.ID, &p.TenantID, &p.Name, &p.Description, &p.Status, &p.ClientID,
		&p.EstimationID, &p.TeamMembers, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *pgProjectRepository) Create(ctx context.Context, project *Project) error {
	if project.TeamMembers == nil {
		project.TeamMembers = []string{}
	}
	query := `
		INSERT INTO projects (tenant_id, name, description, status, client_id, estimation_id, team_members, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		project.TenantID, project.Name, project.Description, project.Status,
		project.ClientID, project.EstimationID, project.TeamMembers, project.CreatedBy,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
}

func (r *pgProjectRepository) FindByID(ctx context.Context, tenantID, id string) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE tenant_id = $1 AND id = $2`
	p, err := scanProject(r.pool.QueryRow(ctx, query, tenantID, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *pgProjectRepository) FindAll(ctx context.Context, filter ProjectFilter) ([]*Project, int, error) {
	where := ` WHERE tenant_id = $1`
	args := []interface{}{filter.TenantID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += ` AND status = $` + itoa(len(args))
	}
	if filter.Search != nil && *filter.Search != "" {
		args = append(args, likePattern(*filter.Search))
		n := itoa(len(args))
		where += ` AND (name ILIKE $` + n + ` OR description ILIKE $` + n + `)`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM projects`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + projectColumns + ` FROM projects` + where + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += ` LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		projects = append(projects, p)
	}
	return projects, total, rows.Err()
}

func (r *pgProjectRepository) Update(ctx context.Context, project *Project) error {
	query := `
		UPDATE projects
		SET name = $3, description = $4, status = $5, client_id = $6, estimation_id = $7,
		    team_members = $8, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
		RETURNING updated_at
	`
	return r.pool.QueryRow(ctx, query,
		project.TenantID, project.ID, project.Name, project.Description, project.Status,
		project.ClientID, project.EstimationID, project.TeamMembers,
	).Scan(&project.UpdatedAt)
}

func (r *pgProjectRepository) Delete(ctx context.Context, tenantID, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return err
}

func (r *pgProjectRepository) CountByStatus(ctx context.Context, tenantID string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM projects WHERE tenant_id = $1 GROUP BY status`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
