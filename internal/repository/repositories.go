package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	// pgxpool repositories
	CompanyRepo CompanyRepository
	UserRepo    UserRepository
	ProjectRepo ProjectRepository

	// sqlx repositories
	TaskRepo          TaskRepository
	DocumentationRepo DocumentationRepository
	EstimationRepo    EstimationRepository
}

func NewRepositories(pool *pgxpool.Pool, db *sqlx.DB) *Repositories {
	return &Repositories{
		CompanyRepo: NewCompanyRepository(pool),
		UserRepo:    NewUserRepository(pool),
		ProjectRepo: NewProjectRepository(pool),

		TaskRepo:          NewTaskRepository(db),
		DocumentationRepo: NewDocumentationRepository(db),
		EstimationRepo:    NewEstimationRepository(db),
	}
}
