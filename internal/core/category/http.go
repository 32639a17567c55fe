package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phamduc/newsdesk/internal/platform/middleware"
	requestutil "github.com/phamduc/newsdesk/internal/platform/request"
	"github.com/phamduc/newsdesk/internal/platform/respond"
	"github.com/phamduc/newsdesk/internal/platform/validate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns public section reads plus admin-only section management.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{slug}", handler.getBySlug)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin())
		r.Post("/", handler.create)
		r.Patch("/{id}", handler.update)
		r.Delete("/{id}", handler.remove)
	})

	return router
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.ListCategories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	categorySlug := requestutil.Param(request, "slug")

	v := &validate.Validator{}
	v.Required(FieldSlug, categorySlug).Slug(FieldSlug, categorySlug)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	stored, err := handler.service.GetCategoryBySlug(request.Context(), categorySlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stored)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createCategoryRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 80).
		Required(FieldColor, input.Color).
		HexColor(FieldColor, input.Color).
		MaxLen(FieldDescription, input.Description, 300)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.CreateCategory(request.Context(), CreateInput{
		Name:        input.Name,
		Color:       input.Color,
		Description: input.Description,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
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

	if patch.Name != nil {
		v.Required(FieldName, *patch.Name).MaxLen(FieldName, *patch.Name, 80)
	}
	if patch.Color != nil {
		v.HexColor(FieldColor, *patch.Color)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.UpdateCategory(request.Context(), id, patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	v := &validate.Validator{}
	v.Required(FieldID, id).UUID(FieldID, id)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteCategory(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
