package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Company is a tenant.
type Company struct {
	ID        string
	Name      string
	Website   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CompanyRepository interface {
	Create(ctx context.Context, company *Company) error
	FindByID(ctx context.Context, id string) (*Company, error)
	FindAll(ctx context.Context) ([]*Company, error)
	Delete(ctx context.Context, id string) error
}

type pgCompanyRepository struct {
	pool *pgxpool.Pool
}

func NewCompanyRepository(pool *pgxpool.Pool) CompanyRepository {
	return &pgCompanyRepository{pool: pool}
}

func (r *pgCompanyRepository) Create(ctx context.Context, company *Company) error {
	query := `
		INSERT INTO companies (name, website)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query, company.Name, company.Website).
		Scan(&company.ID, &company.CreatedAt, &company.UpdatedAt)
}

func (r *pgCompanyRepository) FindByID(ctx context.Context, id string) (*Company, error) {
	query := `SELECT id, name, website, created_at, updated_at FROM companies WHERE id = $1`
	c := &Company{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Website, &c.CreatedAt, &c.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *pgCompanyRepository) FindAll(ctx context.Context) ([]*Company, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, website, created_at, updated_at FROM companies ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*Company
	for rows.Next() {
		c := &Company{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Website, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// Delete removes a company; tenant rows cascade.
func (r *pgCompanyRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	return err
}
