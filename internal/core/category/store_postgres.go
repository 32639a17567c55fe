package category

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phamduc/newsdesk/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context) ([]*Category, error) {
	const query = `
		SELECT c.id, c.name, c.slug, c.color, c.description, c.createdat, c.updatedat,
		       COUNT(a.id) FILTER (WHERE a.status = 'published' AND a.deletedat IS NULL) AS article_count
		FROM core.category c
		LEFT JOIN core.article a ON a.categoryid = c.id
		GROUP BY c.id
		ORDER BY c.name ASC`

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		c := &Category{}
		err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Color, &c.Description, &c.CreatedAt, &c.UpdatedAt, &c.ArticleCount)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_categories_rows")
	}

	return categories, nil
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Category, error) {
	const query = `
		SELECT id, name, slug, color, description, createdat, updatedat
		FROM core.category
		WHERE slug = $1`

	c := &Category{}
	err := repository.db.QueryRow(context, query, slug).Scan(
		&c.ID, &c.Name, &c.Slug, &c.Color, &c.Description, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_category_by_slug")
	}

	return c, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, id string) (*Category, error) {
	const query = `
		SELECT id, name, slug, color, description, createdat, updatedat
		FROM core.category
		WHERE id = $1`

	c := &Category{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&c.ID, &c.Name, &c.Slug, &c.Color, &c.Description, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_category_by_id")
	}

	return c, nil
}

func (repository *PostgresRepository) Create(context context.Context, category *Category) error {
	const query = `
		INSERT INTO core.category (id, name, slug, color, description, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		category.ID, category.Name, category.Slug, category.Color, category.Description,
		category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "create_category")
	}

	return nil
}

func (repository *PostgresRepository) Update(context context.Context, id string, patch Patch) error {
	const query = `
		UPDATE core.category
		SET name        = COALESCE($2, name),
		    color       = COALESCE($3, color),
		    description = COALESCE($4, description),
		    updatedat   = $5
		WHERE id = $1`

	tag, err := repository.db.Exec(context, query, id, patch.Name, patch.Color, patch.Description, time.Now())
	if err != nil {
		return dberr.Wrap(err, "update_category")
	}

	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	// core.article.categoryid is ON DELETE SET NULL, so stories survive
	// their section being removed.
	const query = "DELETE FROM core.category WHERE id = $1"

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_category")
	}

	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}
