package article

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phamduc/newsdesk/internal/platform/middleware"
	requestutil "github.com/phamduc/newsdesk/internal/platform/request"
	"github.com/phamduc/newsdesk/internal/platform/respond"
	"github.com/phamduc/newsdesk/internal/platform/sec"
	"github.com/phamduc/newsdesk/internal/platform/validate"
	"github.com/phamduc/newsdesk/pkg/pagination"
)

// Handler implements catalogue and editorial HTTP endpoints.
type Handler struct {
	articleService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{articleService: service}
}

// Routes returns a [chi.Router] with public catalogue and editorial routes.
//
// # Endpoints
//   - GET    /            : Public catalogue (q, category, featured, pagination).
//   - GET    /{slug}      : Single published article.
//   - GET    /console     : (author+) Own work including drafts; admins see all.
//   - POST   /            : (author+) Create article.
//   - PATCH  /{id}        : (author+) Edit own article; admins edit any.
//   - DELETE /{id}        : (author+) Delete own article; admins delete any.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public catalogue
	router.Get("/", handler.list)

	// Editorial console. Author-or-above already subsumes admin.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuthorOrAbove())
		r.Get("/console", handler.console)
		r.Post("/", handler.create)
		r.Patch("/{id}", handler.update)
		r.Delete("/{id}", handler.remove)
	})

	// Wildcard last so /console wins the static match.
	router.Get("/{slug}", handler.getBySlug)

	return router
}

// # Request Payloads

type createArticleRequest struct {
	Title      string  `json:"title"`
	Summary    string  `json:"summary"`
	Content    string  `json:"content"`
	CoverURL   string  `json:"cover_url"`
	CategoryID *string `json:"category_id"`
	Publish    bool    `json:"publish"`
}

/*
List returns the public catalogue page.

GET /api/v1/articles?q=&category=&featured=&page=&limit=

Response:
  - 200: []Article with pagination metadata
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	query := request.URL.Query()

	filter := Filter{
		Query:        query.Get("q"),
		CategorySlug: query.Get("category"),
		FeaturedOnly: query.Get("featured") == "true",
	}

	articles, total, err := handler.articleService.ListPublished(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, articles, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GetBySlug returns a single published article.

GET /api/v1/articles/{slug}

Response:
  - 200: Article with category and author joined
  - 404: ErrNotFound: Unknown slug, draft, or deleted article
*/
func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	articleSlug := requestutil.Param(request, "slug")

	v := &validate.Validator{}
	v.Required(FieldSlug, articleSlug).Slug(FieldSlug, articleSlug)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	stored, err := handler.articleService.GetPublished(request.Context(), articleSlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stored)
}

/*
Console returns the editorial listing for the authenticated author.

GET /api/v1/articles/console?page=&limit=

Response:
  - 200: []Article including drafts
  - 403: ErrForbidden: Caller lacks editorial access
*/
func (handler *Handler) console(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	role := sec.Role(claims.Role).Normalize()

	articles, total, err := handler.articleService.ListEditorial(request.Context(), claims.UserID, role, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, articles, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Create persists a new article for the authenticated author.

POST /api/v1/articles

Request:
  - Body: createArticleRequest

Response:
  - 201: Article
  - 400: ErrInvalidJSON: Validation failure
  - 422: ErrUnprocessable: Unknown category reference
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createArticleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, 200).
		Required(FieldSummary, input.Summary).
		MaxLen(FieldSummary, input.Summary, 500).
		Required(FieldContent, input.Content)
	if input.CoverURL != "" {
		v.URL(FieldCoverURL, input.CoverURL)
	}
	if input.CategoryID != nil {
		v.UUID(FieldCategoryID, *input.CategoryID)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.articleService.CreateArticle(request.Context(), claims.UserID, CreateInput{
		Title:      input.Title,
		Summary:    input.Summary,
		Content:    input.Content,
		CoverURL:   input.CoverURL,
		CategoryID: input.CategoryID,
		Publish:    input.Publish,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
Update applies an editorial patch to an article.

PATCH /api/v1/articles/{id}

Request:
  - Body: Patch (all fields optional)

Response:
  - 200: Article: Updated article
  - 403: ErrForbidden: Not the owner, or feature toggle without admin
  - 404: ErrNotFound: Unknown article
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id := requestutil.Param(request, "id")

	v := &validate.Validator{}
	v.Required(FieldID, id).UUID(FieldID, id)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var patch Patch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if patch.Title != nil {
		v.Required(FieldTitle, *patch.Title).MaxLen(FieldTitle, *patch.Title, 200)
	}
	if patch.CoverURL != nil && *patch.CoverURL != "" {
		v.URL(FieldCoverURL, *patch.CoverURL)
	}
	if patch.CategoryID != nil {
		v.UUID(FieldCategoryID, *patch.CategoryID)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	role := sec.Role(claims.Role).Normalize()

	updated, err := handler.articleService.UpdateArticle(request.Context(), claims.UserID, role, id, patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
Remove soft-deletes an article.

DELETE /api/v1/articles/{id}

Response:
  - 204: No Content
  - 403: ErrForbidden: Not the owner
  - 404: ErrNotFound: Unknown article
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id := requestutil.Param(request, "id")

	v := &validate.Validator{}
	v.Required(FieldID, id).UUID(FieldID, id)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	role := sec.Role(claims.Role).Normalize()

	if err := handler.articleService.DeleteArticle(request.Context(), claims.UserID, role, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
