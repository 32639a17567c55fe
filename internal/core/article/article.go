/*
Package article implements the news catalogue: the articles readers browse
and the editorial operations authors manage through the console.

# Visibility

An article is either a draft or published. The public surface only ever
serves published articles; drafts exist solely inside the editorial
console, where authors see their own work and admins see everything.
*/
package article

import "time"

// # Publication States

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// ValidStatus reports whether s is a member of the closed status set.
func ValidStatus(s string) bool {
	return s == StatusDraft || s == StatusPublished
}

// # Domain Entities

// CategoryRef is the embedded category summary attached to article reads.
// Kept local to avoid coupling the catalogue to the category package.
type CategoryRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color"`
}

// Article represents a single news story.
type Article struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Slug       string       `json:"slug"`
	Summary    string       `json:"summary"`
	Content    string       `json:"content"`
	CoverURL   string       `json:"cover_url"`
	CategoryID *string      `json:"category_id,omitempty"`
	Category   *CategoryRef `json:"category,omitempty"`
	AuthorID   string       `json:"author_id"`
	AuthorName string       `json:"author_name,omitempty"`
	IsFeatured bool         `json:"is_featured"`
	Status     string       `json:"status"`
	ViewCount  int          `json:"view_count"`

	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Filter narrows the public catalogue listing.
type Filter struct {
	// Query is a free-text search over title and summary.
	Query string

	// CategorySlug restricts results to a single category.
	CategorySlug string

	// FeaturedOnly selects the front-page hero carousel.
	FeaturedOnly bool
}

// Patch describes a partial editorial update. Nil fields are untouched.
type Patch struct {
	Title      *string `json:"title"`
	Summary    *string `json:"summary"`
	Content    *string `json:"content"`
	CoverURL   *string `json:"cover_url"`
	CategoryID *string `json:"category_id"`
	Status     *string `json:"status"`

	// IsFeatured is honored for admins only; authors cannot self-promote
	// onto the front page.
	IsFeatured *bool `json:"is_featured"`
}

// # Field Identifiers

const (
	FieldTitle      = "title"
	FieldSummary    = "summary"
	FieldContent    = "content"
	FieldCoverURL   = "cover_url"
	FieldCategoryID = "category_id"
	FieldStatus     = "status"
	FieldSlug       = "slug"
	FieldID         = "id"
)
