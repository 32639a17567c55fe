package article_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phamduc/newsdesk/internal/core/article"
	"github.com/phamduc/newsdesk/internal/platform/apperr"
	"github.com/phamduc/newsdesk/internal/platform/sec"
	"github.com/phamduc/newsdesk/pkg/pagination"
)

// fakeRepo is an in-memory Repository.
type fakeRepo struct {
	rows  map[string]*article.Article
	views map[string]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		rows:  make(map[string]*article.Article),
		views: make(map[string]int),
	}
}

func (r *fakeRepo) List(_ context.Context, filter article.Filter, _ pagination.Params) ([]*article.Article, int, error) {
	out := make([]*article.Article, 0)
	for _, row := range r.rows {
		if row.Status != article.StatusPublished {
			continue
		}
		if filter.FeaturedOnly && !row.IsFeatured {
			continue
		}
		out = append(out, row)
	}
	return out, len(out), nil
}

func (r *fakeRepo) GetBySlug(_ context.Context, slug string) (*article.Article, error) {
	for _, row := range r.rows {
		if row.Slug == slug && row.Status == article.StatusPublished {
			return row, nil
		}
	}
	return nil, apperr.NotFound("Article")
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*article.Article, error) {
	if row, ok := r.rows[id]; ok {
		return row, nil
	}
	return nil, apperr.NotFound("Article")
}

func (r *fakeRepo) ListByAuthor(_ context.Context, authorID string, _ pagination.Params) ([]*article.Article, int, error) {
	out := make([]*article.Article, 0)
	for _, row := range r.rows {
		if authorID == "" || row.AuthorID == authorID {
			out = append(out, row)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) Create(_ context.Context, created *article.Article) error {
	for _, row := range r.rows {
		if row.Slug == created.Slug {
			return apperr.Conflict("Resource already exists")
		}
	}
	r.rows[created.ID] = created
	return nil
}

func (r *fakeRepo) Update(_ context.Context, id string, patch article.Patch) error {
	row, ok := r.rows[id]
	if !ok {
		return apperr.NotFound("Article")
	}
	if patch.Title != nil {
		row.Title = *patch.Title
	}
	if patch.Status != nil {
		row.Status = *patch.Status
	}
	if patch.IsFeatured != nil {
		row.IsFeatured = *patch.IsFeatured
	}
	return nil
}

func (r *fakeRepo) SoftDelete(_ context.Context, id string) error {
	if _, ok := r.rows[id]; !ok {
		return apperr.NotFound("Article")
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeRepo) IncrementViews(_ context.Context, id string) error {
	r.views[id]++
	return nil
}

func newService(repo *fakeRepo) *article.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return article.NewService(repo, logger)
}

func TestService_CreateArticle(t *testing.T) {
	repo := newFakeRepo()
	service := newService(repo)

	created, err := service.CreateArticle(context.Background(), "author-1", article.CreateInput{
		Title:   "Markets Rally After Rate Cut",
		Summary: "A summary",
		Content: "Body",
		Publish: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "markets-rally-after-rate-cut", created.Slug)
	assert.Equal(t, article.StatusPublished, created.Status)
	assert.Equal(t, "author-1", created.AuthorID)
	assert.False(t, created.IsFeatured)
}

func TestService_CreateArticle_SlugCollision(t *testing.T) {
	repo := newFakeRepo()
	service := newService(repo)

	first, err := service.CreateArticle(context.Background(), "author-1", article.CreateInput{
		Title: "Same Title", Summary: "s", Content: "c",
	})
	require.NoError(t, err)

	second, err := service.CreateArticle(context.Background(), "author-2", article.CreateInput{
		Title: "Same Title", Summary: "s", Content: "c",
	})
	require.NoError(t, err)

	assert.Equal(t, "same-title", first.Slug)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.Contains(t, second.Slug, "same-title-")
}

func TestService_GetPublished_CountsView(t *testing.T) {
	repo := newFakeRepo()
	service := newService(repo)

	created, err := service.CreateArticle(context.Background(), "author-1", article.CreateInput{
		Title: "Read Me", Summary: "s", Content: "c", Publish: true,
	})
	require.NoError(t, err)

	_, err = service.GetPublished(context.Background(), created.Slug)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.views[created.ID])
}

func TestService_UpdateArticle_Ownership(t *testing.T) {
	repo := newFakeRepo()
	service := newService(repo)

	created, err := service.CreateArticle(context.Background(), "author-1", article.CreateInput{
		Title: "Mine", Summary: "s", Content: "c",
	})
	require.NoError(t, err)

	title := "Hijacked"

	// Another author is refused
	_, err = service.UpdateArticle(context.Background(), "author-2", sec.RoleAuthor, created.ID, article.Patch{Title: &title})
	require.Error(t, err)
	assert.Equal(t, 403, apperr.As(err).HTTPStatus)

	// The owner succeeds
	updated, err := service.UpdateArticle(context.Background(), "author-1", sec.RoleAuthor, created.ID, article.Patch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Hijacked", updated.Title)

	// An admin edits anyone's article
	title = "Admin Edit"
	updated, err = service.UpdateArticle(context.Background(), "admin-1", sec.RoleAdmin, created.ID, article.Patch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Admin Edit", updated.Title)
}

func TestService_UpdateArticle_FeatureIsAdminOnly(t *testing.T) {
	repo := newFakeRepo()
	service := newService(repo)

	created, err := service.CreateArticle(context.Background(), "author-1", article.CreateInput{
		Title: "Promote Me", Summary: "s", Content: "c", Publish: true,
	})
	require.NoError(t, err)

	featured := true

	// The owning author cannot self-promote
	_, err = service.UpdateArticle(context.Background(), "author-1", sec.RoleAuthor, created.ID, article.Patch{IsFeatured: &featured})
	require.Error(t, err)
	assert.Equal(t, 403, apperr.As(err).HTTPStatus)

	// An admin can
	updated, err := service.UpdateArticle(context.Background(), "admin-1", sec.RoleAdmin, created.ID, article.Patch{IsFeatured: &featured})
	require.NoError(t, err)
	assert.True(t, updated.IsFeatured)
}

func TestService_UpdateArticle_UnknownStatus(t *testing.T) {
	repo := newFakeRepo()
	service := newService(repo)

	created, err := service.CreateArticle(context.Background(), "author-1", article.CreateInput{
		Title: "Status Check", Summary: "s", Content: "c",
	})
	require.NoError(t, err)

	bogus := "archived"
	_, err = service.UpdateArticle(context.Background(), "author-1", sec.RoleAuthor, created.ID, article.Patch{Status: &bogus})
	require.Error(t, err)
	assert.Equal(t, 422, apperr.As(err).HTTPStatus)
}

func TestService_DeleteArticle_Ownership(t *testing.T) {
	repo := newFakeRepo()
	service := newService(repo)

	created, err := service.CreateArticle(context.Background(), "author-1", article.CreateInput{
		Title: "Delete Me", Summary: "s", Content: "c",
	})
	require.NoError(t, err)

	err = service.DeleteArticle(context.Background(), "author-2", sec.RoleAuthor, created.ID)
	require.Error(t, err)
	assert.Equal(t, 403, apperr.As(err).HTTPStatus)

	require.NoError(t, service.DeleteArticle(context.Background(), "author-1", sec.RoleAuthor, created.ID))
	assert.NotContains(t, repo.rows, created.ID)
}

func TestService_ListEditorial_Scope(t *testing.T) {
	repo := newFakeRepo()
	service := newService(repo)

	_, err := service.CreateArticle(context.Background(), "author-1", article.CreateInput{Title: "One", Summary: "s", Content: "c"})
	require.NoError(t, err)
	_, err = service.CreateArticle(context.Background(), "author-2", article.CreateInput{Title: "Two", Summary: "s", Content: "c"})
	require.NoError(t, err)

	// Authors see only their own work
	own, _, err := service.ListEditorial(context.Background(), "author-1", sec.RoleAuthor, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, own, 1)

	// Admins see the whole catalogue
	all, _, err := service.ListEditorial(context.Background(), "admin-1", sec.RoleAdmin, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
