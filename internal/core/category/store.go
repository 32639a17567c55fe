package category

import "context"

// Repository defines data access for site sections.
type Repository interface {
	List(context context.Context) ([]*Category, error)
	GetBySlug(context context.Context, slug string) (*Category, error)
	GetByID(context context.Context, id string) (*Category, error)
	Create(context context.Context, category *Category) error
	Update(context context.Context, id string, patch Patch) error
	Delete(context context.Context, id string) error
}
