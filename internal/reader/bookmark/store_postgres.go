package bookmark

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phamduc/newsdesk/internal/platform/apperr"
	"github.com/phamduc/newsdesk/internal/platform/dberr"
	"github.com/phamduc/newsdesk/pkg/pagination"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) ListByUser(context context.Context, userID string, params pagination.Params) ([]Listing, int, error) {
	const query = `
		SELECT b.id, b.userid, b.articleid, b.createdat,
		       a.title, a.slug, a.summary, a.coverurl,
		       COALESCE(c.name, ''), COALESCE(c.color, ''),
		       COUNT(*) OVER() AS total_count
		FROM reader.bookmark b
		JOIN core.article a ON a.id = b.articleid AND a.deletedat IS NULL
		LEFT JOIN core.category c ON c.id = a.categoryid
		WHERE b.userid = $1
		ORDER BY b.createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, userID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_bookmarks")
	}
	defer rows.Close()

	listings := make([]Listing, 0, params.Limit)
	total := 0

	for rows.Next() {
		var listing Listing
		err := rows.Scan(
			&listing.ID,
			&listing.UserID,
			&listing.ArticleID,
			&listing.CreatedAt,
			&listing.ArticleTitle,
			&listing.ArticleSlug,
			&listing.ArticleSummary,
			&listing.CoverURL,
			&listing.CategoryName,
			&listing.CategoryColor,
			&total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_bookmark")
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_bookmarks_rows")
	}

	return listings, total, nil
}

func (repository *PostgresRepository) Create(context context.Context, bookmark *Bookmark) error {
	const query = `
		INSERT INTO reader.bookmark (id, userid, articleid, createdat)
		VALUES ($1, $2, $3, $4)`

	if bookmark.CreatedAt.IsZero() {
		bookmark.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		bookmark.ID,
		bookmark.UserID,
		bookmark.ArticleID,
		bookmark.CreatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "create_bookmark")
	}

	return nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Bookmark, error) {
	const query = `
		SELECT id, userid, articleid, createdat
		FROM reader.bookmark
		WHERE id = $1`

	bookmark := &Bookmark{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&bookmark.ID,
		&bookmark.UserID,
		&bookmark.ArticleID,
		&bookmark.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Bookmark")
		}
		return nil, fmt.Errorf("postgres_bookmark_repo_find_failed: %w", err)
	}

	return bookmark, nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM reader.bookmark WHERE id = $1"
	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_bookmark")
	}
	return nil
}
