package article

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phamduc/newsdesk/internal/platform/dberr"
	"github.com/phamduc/newsdesk/pkg/pagination"
)

// PostgresRepository implements [Repository] over core.article.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed article store.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectColumns is the shared projection joined with category and author name.
const selectColumns = `
	a.id, a.title, a.slug, a.summary, a.content, a.coverurl,
	a.categoryid, a.authorid, a.isfeatured, a.status, a.viewcount,
	a.publishedat, a.createdat, a.updatedat,
	c.id, c.name, c.slug, c.color,
	COALESCE(p.fullname, '')`

const fromClause = `
	FROM core.article a
	LEFT JOIN core.category c ON c.id = a.categoryid
	LEFT JOIN users.profile p ON p.userid = a.authorid`

func scanArticle(row pgx.Row) (*Article, error) {
	article := &Article{}
	var categoryID, categoryName, categorySlug, categoryColor *string

	err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Slug,
		&article.Summary,
		&article.Content,
		&article.CoverURL,
		&article.CategoryID,
		&article.AuthorID,
		&article.IsFeatured,
		&article.Status,
		&article.ViewCount,
		&article.PublishedAt,
		&article.CreatedAt,
		&article.UpdatedAt,
		&categoryID,
		&categoryName,
		&categorySlug,
		&categoryColor,
		&article.AuthorName,
	)
	if err != nil {
		return nil, err
	}

	if categoryID != nil {
		article.Category = &CategoryRef{
			ID:    *categoryID,
			Name:  *categoryName,
			Slug:  *categorySlug,
			Color: *categoryColor,
		}
	}

	return article, nil
}

/*
List returns published articles matching the filter, newest first.

Description: Builds a dynamic WHERE clause and uses COUNT(*) OVER() so the
total count ships with the rows in a single round trip.
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, params pagination.Params) ([]*Article, int, error) {

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString("SELECT " + selectColumns + ", COUNT(*) OVER() AS total_count" + fromClause)
	queryBuilder.WriteString(`
		WHERE a.deletedat IS NULL AND a.status = 'published'`)

	if filter.CategorySlug != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.slug = $%d", argID))
		args = append(args, filter.CategorySlug)
		argID++
	}

	if filter.FeaturedOnly {
		queryBuilder.WriteString(" AND a.isfeatured = TRUE")
	}

	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (a.title ILIKE '%%' || $%d || '%%' OR a.summary ILIKE '%%' || $%d || '%%')", argID, argID))
		args = append(args, filter.Query)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY a.publishedat DESC NULLS LAST LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_articles")
	}
	defer rows.Close()

	articles := make([]*Article, 0, params.Limit)
	total := 0

	for rows.Next() {
		article := &Article{}
		var categoryID, categoryName, categorySlug, categoryColor *string

		err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.Slug,
			&article.Summary,
			&article.Content,
			&article.CoverURL,
			&article.CategoryID,
			&article.AuthorID,
			&article.IsFeatured,
			&article.Status,
			&article.ViewCount,
			&article.PublishedAt,
			&article.CreatedAt,
			&article.UpdatedAt,
			&categoryID,
			&categoryName,
			&categorySlug,
			&categoryColor,
			&article.AuthorName,
			&total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_article")
		}

		if categoryID != nil {
			article.Category = &CategoryRef{
				ID:    *categoryID,
				Name:  *categoryName,
				Slug:  *categorySlug,
				Color: *categoryColor,
			}
		}

		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_articles_rows")
	}

	return articles, total, nil
}

// GetBySlug returns a single published article with category and author joined.
func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Article, error) {
	query := "SELECT " + selectColumns + fromClause + `
		WHERE a.deletedat IS NULL AND a.status = 'published' AND a.slug = $1`

	article, err := scanArticle(repository.pool.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "get_article_by_slug")
	}

	return article, nil
}

// GetByID returns an article regardless of status for editorial use.
func (repository *PostgresRepository) GetByID(context context.Context, id string) (*Article, error) {
	query := "SELECT " + selectColumns + fromClause + `
		WHERE a.deletedat IS NULL AND a.id = $1`

	article, err := scanArticle(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_article_by_id")
	}

	return article, nil
}

// ListByAuthor returns drafts and published articles for the editorial console.
func (repository *PostgresRepository) ListByAuthor(context context.Context, authorID string, params pagination.Params) ([]*Article, int, error) {
	query := "SELECT " + selectColumns + ", COUNT(*) OVER() AS total_count" + fromClause + `
		WHERE a.deletedat IS NULL
		  AND ($1 = '' OR a.authorid = $1::uuid)
		ORDER BY a.updatedat DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, authorID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_articles_by_author")
	}
	defer rows.Close()

	articles := make([]*Article, 0, params.Limit)
	total := 0

	for rows.Next() {
		article := &Article{}
		var categoryID, categoryName, categorySlug, categoryColor *string

		err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.Slug,
			&article.Summary,
			&article.Content,
			&article.CoverURL,
			&article.CategoryID,
			&article.AuthorID,
			&article.IsFeatured,
			&article.Status,
			&article.ViewCount,
			&article.PublishedAt,
			&article.CreatedAt,
			&article.UpdatedAt,
			&categoryID,
			&categoryName,
			&categorySlug,
			&categoryColor,
			&article.AuthorName,
			&total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_article")
		}

		if categoryID != nil {
			article.Category = &CategoryRef{
				ID:    *categoryID,
				Name:  *categoryName,
				Slug:  *categorySlug,
				Color: *categoryColor,
			}
		}

		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_articles_by_author_rows")
	}

	return articles, total, nil
}

// Create persists a new article row.
func (repository *PostgresRepository) Create(context context.Context, article *Article) error {
	const query = `
		INSERT INTO core.article (
			id, title, slug, summary, content, coverurl, categoryid,
			authorid, isfeatured, status, viewcount, publishedat, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	now := time.Now()
	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}
	article.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		article.ID,
		article.Title,
		article.Slug,
		article.Summary,
		article.Content,
		article.CoverURL,
		article.CategoryID,
		article.AuthorID,
		article.IsFeatured,
		article.Status,
		article.ViewCount,
		article.PublishedAt,
		article.CreatedAt,
		article.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "create_article")
	}

	return nil
}

/*
Update applies a partial patch to an article.

Description: COALESCE keeps stored values for nil patch fields. The
publishedat timestamp is set exactly once, the first time the status
transitions to published.
*/
func (repository *PostgresRepository) Update(context context.Context, id string, patch Patch) error {
	const query = `
		UPDATE core.article
		SET title       = COALESCE($2, title),
		    summary     = COALESCE($3, summary),
		    content     = COALESCE($4, content),
		    coverurl    = COALESCE($5, coverurl),
		    categoryid  = COALESCE($6, categoryid),
		    status      = COALESCE($7, status),
		    isfeatured  = COALESCE($8, isfeatured),
		    publishedat = CASE
		        WHEN publishedat IS NULL AND COALESCE($7, status) = 'published' THEN NOW()
		        ELSE publishedat
		    END,
		    updatedat   = $9
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := repository.pool.Exec(context, query,
		id,
		patch.Title,
		patch.Summary,
		patch.Content,
		patch.CoverURL,
		patch.CategoryID,
		patch.Status,
		patch.IsFeatured,
		time.Now(),
	)

	if err != nil {
		return dberr.Wrap(err, "update_article")
	}

	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// SoftDelete hides an article from every surface while keeping the row.
func (repository *PostgresRepository) SoftDelete(context context.Context, id string) error {
	const query = "UPDATE core.article SET deletedat = $2 WHERE id = $1 AND deletedat IS NULL"

	tag, err := repository.pool.Exec(context, query, id, time.Now())
	if err != nil {
		return dberr.Wrap(err, "soft_delete_article")
	}

	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// IncrementViews bumps the read counter without touching updatedat.
func (repository *PostgresRepository) IncrementViews(context context.Context, id string) error {
	const query = "UPDATE core.article SET viewcount = viewcount + 1 WHERE id = $1"
	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "increment_article_views")
	}
	return nil
}
