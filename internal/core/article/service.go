package article

import (
	"context"
	"log/slog"

	"github.com/phamduc/newsdesk/internal/platform/apperr"
	"github.com/phamduc/newsdesk/internal/platform/sec"
	"github.com/phamduc/newsdesk/pkg/pagination"
	"github.com/phamduc/newsdesk/pkg/slug"
	"github.com/phamduc/newsdesk/pkg/uuidv7"
)

// Service implements catalogue reads and editorial writes.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs an article [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// # Public Catalogue

// ListPublished returns the public catalogue page for the given filter.
func (service *Service) ListPublished(context context.Context, filter Filter, params pagination.Params) ([]*Article, int, error) {
	return service.repository.List(context, filter, params)
}

// GetPublished resolves a slug to a published article and counts the read.
func (service *Service) GetPublished(context context.Context, articleSlug string) (*Article, error) {
	stored, err := service.repository.GetBySlug(context, articleSlug)
	if err != nil {
		return nil, err
	}

	// Best-effort: a failed counter bump never blocks the read.
	if err := service.repository.IncrementViews(context, stored.ID); err != nil {
		service.logger.Warn("article_view_count_failed",
			slog.String("article_id", stored.ID),
			slog.Any("error", err),
		)
	}

	return stored, nil
}

// # Editorial Console

// CreateInput holds the fields an author submits for a new article.
type CreateInput struct {
	Title      string
	Summary    string
	Content    string
	CoverURL   string
	CategoryID *string
	Publish    bool
}

/*
CreateArticle persists a new story for the authenticated author.

Description: The slug derives from the title; on a collision a short
ID-based suffix disambiguates instead of failing the request. New articles
are never featured; front-page placement is a separate admin decision.
*/
func (service *Service) CreateArticle(context context.Context, authorID string, input CreateInput) (*Article, error) {
	status := StatusDraft
	if input.Publish {
		status = StatusPublished
	}

	created := &Article{
		ID:         uuidv7.New(),
		Title:      input.Title,
		Slug:       slug.From(input.Title),
		Summary:    input.Summary,
		Content:    input.Content,
		CoverURL:   input.CoverURL,
		CategoryID: input.CategoryID,
		AuthorID:   authorID,
		Status:     status,
	}

	err := service.repository.Create(context, created)
	if err != nil {
		// Slug collision with an existing title: disambiguate and retry once.
		if appError := apperr.As(err); appError != nil && appError.Code == "CONFLICT" {
			created.Slug = created.Slug + "-" + created.ID[len(created.ID)-8:]
			err = service.repository.Create(context, created)
		}
		if err != nil {
			return nil, err
		}
	}

	service.logger.Info("article_created",
		slog.String("article_id", created.ID),
		slog.String("author_id", authorID),
		slog.String("status", status),
	)

	return service.repository.GetByID(context, created.ID)
}

/*
UpdateArticle applies an editorial patch.

Description: Authors may only touch their own articles; admins may touch
any. The featured flag is an admin-only lever. Slugs are stable once
assigned so published links never break.
*/
func (service *Service) UpdateArticle(context context.Context, actorID string, role sec.Role, id string, patch Patch) (*Article, error) {
	stored, err := service.repository.GetByID(context, id)
	if err != nil {
		return nil, err
	}

	if !role.IsAdmin() && stored.AuthorID != actorID {
		return nil, apperr.Forbidden("You can only edit your own articles")
	}

	if patch.IsFeatured != nil && !role.IsAdmin() {
		return nil, apperr.Forbidden("Only admins can change front-page placement")
	}

	if patch.Status != nil && !ValidStatus(*patch.Status) {
		return nil, apperr.Unprocessable("Unknown article status")
	}

	if err := service.repository.Update(context, id, patch); err != nil {
		return nil, err
	}

	return service.repository.GetByID(context, id)
}

// DeleteArticle soft-deletes a story. Owners and admins only.
func (service *Service) DeleteArticle(context context.Context, actorID string, role sec.Role, id string) error {
	stored, err := service.repository.GetByID(context, id)
	if err != nil {
		return err
	}

	if !role.IsAdmin() && stored.AuthorID != actorID {
		return apperr.Forbidden("You can only delete your own articles")
	}

	if err := service.repository.SoftDelete(context, id); err != nil {
		return err
	}

	service.logger.Info("article_deleted",
		slog.String("article_id", id),
		slog.String("actor_id", actorID),
	)

	return nil
}

// ListEditorial returns the console listing: authors see their own work
// including drafts, admins see the entire catalogue.
func (service *Service) ListEditorial(context context.Context, actorID string, role sec.Role, params pagination.Params) ([]*Article, int, error) {
	scope := actorID
	if role.IsAdmin() {
		scope = ""
	}
	return service.repository.ListByAuthor(context, scope, params)
}
