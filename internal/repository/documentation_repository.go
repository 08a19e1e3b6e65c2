package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Documentation struct {
	ID          string    `db:"id"`
	TenantID    string    `db:"tenant_id"`
	ProjectID   string    `db:"project_id"`
	AuthorID    string    `db:"author_id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	Content     string    `db:"content"`
	Type        string    `db:"type"`
	Status      string    `db:"status"`
	Version     string    `db:"version"`
	Tags        []string  `db:"-"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// documentationRow adds the array-typed tags column.
type documentationRow struct {
	Documentation
	Tags pq.StringArray `db:"tags"`
}

func newDocumentationRow(doc *Documentation) *documentationRow {
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	return &documentationRow{Documentation: *doc, Tags: pq.StringArray(doc.Tags)}
}

func (row *documentationRow) toDocumentation() *Documentation {
	d := row.Documentation
	d.Tags = []string(row.Tags)
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return &d
}

type DocumentationRepository interface {
	Create(ctx context.Context, doc *Documentation) error
	FindByID(ctx context.Context, tenantID, id string) (*Documentation, error)
	FindByProject(ctx context.Context, tenantID, projectID string) ([]*Documentation, error)
	FindByType(ctx context.Context, tenantID, docType string) ([]*Documentation, error)
	Search(ctx context.Context, tenantID, query string) ([]*Documentation, error)
	Update(ctx context.Context, doc *Documentation) error
	Delete(ctx context.Context, tenantID, id string) error
}

type documentationRepository struct {
	db *sqlx.DB
}

func NewDocumentationRepository(db *sqlx.DB) DocumentationRepository {
	return &documentationRepository{db: db}
}

const documentationColumns = `
	id, tenant_id, project_id, author_id, title, description, content, type, status, version, tags,
	created_at, updated_at`

func (r *documentationRepository) Create(ctx context.Context, doc *Documentation) error {
	query, args, err := r.db.BindNamed(`
		INSERT INTO documentation (tenant_id, project_id, author_id, title, description, content, type, status, version, tags)
		VALUES (:tenant_id, :project_id, :author_id, :title, :description, :content, :type, :status, :version, :tags)
		RETURNING id, created_at, updated_at`, newDocumentationRow(doc))
	if err != nil {
		return err
	}
	return r.db.QueryRowxContext(ctx, query, args...).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
}

func (r *documentationRepository) FindByID(ctx context.Context, tenantID, id string) (*Documentation, error) {
	var row documentationRow
	query := `SELECT ` + documentationColumns + ` FROM documentation WHERE tenant_id = $1 AND id = $2`
	err := r.db.GetContext(ctx, &row, query, tenantID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toDocumentation(), nil
}

func (r *documentationRepository) FindByProject(ctx context.Context, tenantID, projectID string) ([]*Documentation, error) {
	return r.query(ctx,
		`SELECT `+documentationColumns+` FROM documentation WHERE tenant_id = $1 AND project_id = $2 ORDER BY updated_at DESC`,
		tenantID, projectID)
}

func (r *documentationRepository) FindByType(ctx context.Context, tenantID, docType string) ([]*Documentation, error) {
	return r.query(ctx,
		`SELECT `+documentationColumns+` FROM documentation WHERE tenant_id = $1 AND type = $2 ORDER BY updated_at DESC`,
		tenantID, docType)
}

func (r *documentationRepository) Search(ctx context.Context, tenantID, q string) ([]*Documentation, error) {
	return r.query(ctx,
		`SELECT `+documentationColumns+` FROM documentation
		 WHERE tenant_id = $1 AND (title ILIKE $2 OR content ILIKE $2 OR description ILIKE $2)
		 ORDER BY updated_at DESC`,
		tenantID, likePattern(q))
}

func (r *documentationRepository) Update(ctx context.Context, doc *Documentation) error {
	query, args, err := r.db.BindNamed(`
		UPDATE documentation SET
			title = :title, description = :description, content = :content, type = :type,
			status = :status, version = :version, tags = :tags, updated_at = NOW()
		WHERE tenant_id = :tenant_id AND id = :id
		RETURNING updated_at`, newDocumentationRow(doc))
	if err != nil {
		return err
	}
	return r.db.QueryRowxContext(ctx, query, args...).Scan(&doc.UpdatedAt)
}

func (r *documentationRepository) Delete(ctx context.Context, tenantID, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM documentation WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return err
}

func (r *documentationRepository) query(ctx context.Context, query string, args ...interface{}) ([]*Documentation, error) {
	var rows []documentationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	docs := make([]*Documentation, len(rows))
	for i := range rows {
		docs[i] = rows[i].toDocumentation()
	}
	return docs, nil
}
