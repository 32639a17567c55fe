package article

import (
	"context"

	"github.com/phamduc/newsdesk/pkg/pagination"
)

// Repository defines data access for the news catalogue.
type Repository interface {

	// List returns published articles matching the filter, newest first,
	// with the total matching count for pagination.
	List(context context.Context, filter Filter, params pagination.Params) ([]*Article, int, error)

	// GetBySlug returns a single published article with its category joined,
	// or apperr.NotFound.
	GetBySlug(context context.Context, slug string) (*Article, error)

	// GetByID returns an article regardless of status. Editorial use only.
	GetByID(context context.Context, id string) (*Article, error)

	// ListByAuthor returns all of one author's articles including drafts.
	// An empty authorID lists the whole catalogue (admin console view).
	ListByAuthor(context context.Context, authorID string, params pagination.Params) ([]*Article, int, error)

	// Create persists a new article.
	Create(context context.Context, article *Article) error

	// Update applies a partial patch.
	Update(context context.Context, id string, patch Patch) error

	// SoftDelete removes an article from every surface without dropping the row.
	SoftDelete(context context.Context, id string) error

	// IncrementViews bumps the read counter. Best-effort.
	IncrementViews(context context.Context, id string) error
}
