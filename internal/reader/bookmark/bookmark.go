/*
Package bookmark implements the premium reading-list feature.

Bookmarks belong to exactly one reader. The capability gate (premium or
admin) lives in the route guard; this package only enforces ownership.
*/
package bookmark

import (
	"context"
	"time"

	"github.com/phamduc/newsdesk/pkg/pagination"
)

// Bookmark pins one article to one reader's list.
type Bookmark struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ArticleID string    `json:"article_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Listing is a bookmark joined with enough article data to render the
// reading list without extra round trips.
type Listing struct {
	Bookmark
	ArticleTitle   string `json:"article_title"`
	ArticleSlug    string `json:"article_slug"`
	ArticleSummary string `json:"article_summary"`
	CoverURL       string `json:"cover_url"`
	CategoryName   string `json:"category_name,omitempty"`
	CategoryColor  string `json:"category_color,omitempty"`
}

const (
	FieldArticleID = "article_id"
	FieldID        = "id"
)

// Repository defines data access for reading lists.
type Repository interface {

	// ListByUser returns the reader's bookmarks, newest first, with the
	// article join, plus the total count.
	ListByUser(context context.Context, userID string, params pagination.Params) ([]Listing, int, error)

	// Create persists a bookmark. Duplicate (user, article) pairs map to
	// a Conflict via the unique constraint.
	Create(context context.Context, bookmark *Bookmark) error

	// FindByID returns a bookmark for the ownership check.
	FindByID(context context.Context, id string) (*Bookmark, error)

	// Delete removes a bookmark row.
	Delete(context context.Context, id string) error
}
