package category

import "time"

// Category is a section of the news site (e.g. Politics, Technology).
//
// The color is the hex accent the front end renders section chips with.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Color       string    `json:"color"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`

	// ArticleCount is populated in listing queries only.
	ArticleCount int `json:"article_count,omitempty"`
}

// Patch describes a partial category update. Nil fields are untouched.
type Patch struct {
	Name        *string `json:"name"`
	Color       *string `json:"color"`
	Description *string `json:"description"`
}

const (
	FieldName        = "name"
	FieldColor       = "color"
	FieldDescription = "description"
	FieldSlug        = "slug"
	FieldID          = "id"
)
