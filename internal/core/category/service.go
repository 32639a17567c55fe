package category

import (
	"context"
	"log/slog"

	"github.com/phamduc/newsdesk/pkg/slug"
	"github.com/phamduc/newsdesk/pkg/uuidv7"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListCategories(context context.Context) ([]*Category, error) {
	return service.repo.List(context)
}

func (service *Service) GetCategoryBySlug(context context.Context, categorySlug string) (*Category, error) {
	return service.repo.GetBySlug(context, categorySlug)
}

// CreateInput holds the fields for a new site section.
type CreateInput struct {
	Name        string
	Color       string
	Description string
}

func (service *Service) CreateCategory(context context.Context, input CreateInput) (*Category, error) {
	created := &Category{
		ID:          uuidv7.New(),
		Name:        input.Name,
		Slug:        slug.From(input.Name),
		Color:       input.Color,
		Description: input.Description,
	}

	if err := service.repo.Create(context, created); err != nil {
		return nil, err
	}

	service.logger.Info("category_created", slog.String("category_id", created.ID))
	return created, nil
}

// UpdateCategory patches a section. The slug never changes once assigned
// so section links stay stable.
func (service *Service) UpdateCategory(context context.Context, id string, patch Patch) (*Category, error) {
	if err := service.repo.Update(context, id, patch); err != nil {
		return nil, err
	}
	return service.repo.GetByID(context, id)
}

func (service *Service) DeleteCategory(context context.Context, id string) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}
	service.logger.Info("category_deleted", slog.String("category_id", id))
	return nil
}
