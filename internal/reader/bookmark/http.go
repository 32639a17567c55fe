package bookmark

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phamduc/newsdesk/internal/platform/middleware"
	requestutil "github.com/phamduc/newsdesk/internal/platform/request"
	"github.com/phamduc/newsdesk/internal/platform/respond"
	"github.com/phamduc/newsdesk/internal/platform/validate"
	"github.com/phamduc/newsdesk/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the reading-list routes. The whole surface is gated on
// premium-or-above; free readers get a 403 that the front end renders as
// an upgrade prompt.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequirePremiumOrAbove())
	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Delete("/{id}", handler.remove)

	return router
}

type createBookmarkRequest struct {
	ArticleID string `json:"article_id"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	listings, total, err := handler.service.ListBookmarks(request.Context(), userID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, listings, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createBookmarkRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldArticleID, input.ArticleID).UUID(FieldArticleID, input.ArticleID)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.AddBookmark(request.Context(), userID, input.ArticleID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
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

	if err := handler.service.RemoveBookmark(request.Context(), userID, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
