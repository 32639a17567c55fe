// Copyright (c) 2026 Newsdesk. All rights reserved.
// Author: duc.phamminh.dev@gmail.com

package profile

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

// Handler implements profile and admin console HTTP endpoints.
type Handler struct {
	profileService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{profileService: service}
}

// Routes returns a [chi.Router] with profile self-service and console routes.
//
// # Endpoints
//   - GET   /me          : Current user's profile.
//   - PATCH /me          : Partial profile update.
//   - POST  /me/upgrade  : Free reader to premium conversion.
//   - GET   /            : (admin) Account listing.
//   - PATCH /{userID}/role : (admin) Role assignment.
//   - DELETE /{userID}   : (admin) Account removal.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Self-service endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
		r.Patch("/me", handler.updateMe)
		r.Post("/me/upgrade", handler.upgrade)
	})

	// Admin console endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin())
		r.Get("/", handler.list)
		r.Patch("/{userID}/role", handler.changeRole)
		r.Delete("/{userID}", handler.remove)
	})

	return router
}

// # Request Payloads

type updateProfileRequest struct {
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

/*
Me returns the authenticated user's profile.

GET /api/v1/users/me

Description: Served through the Redis read-through cache. An identity whose
profile row has not materialized yet receives a least-privilege placeholder
rather than an error.

Response:
  - 200: Profile
  - 401: ErrUnauthorized: Not signed in
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	stored, err := handler.profileService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stored)
}

/*
UpdateMe applies a partial update to the authenticated user's profile.

PATCH /api/v1/users/me

Request:
  - Body: updateProfileRequest (FullName?, AvatarURL?)

Response:
  - 200: Profile: Updated profile
  - 400: ErrInvalidJSON: Validation failure
  - 404: ErrNotFound: Profile row does not exist yet
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	if input.FullName != nil {
		v.Required(FieldFullName, *input.FullName).MaxLen(FieldFullName, *input.FullName, 120)
	}
	if input.AvatarURL != nil && *input.AvatarURL != "" {
		v.URL(FieldAvatarURL, *input.AvatarURL)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.profileService.UpdateProfile(request.Context(), userID, Patch{
		FullName:  input.FullName,
		AvatarURL: input.AvatarURL,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
Upgrade converts the authenticated free reader into a premium reader.

POST /api/v1/users/me/upgrade

Description: The new role becomes effective in the access token on the next
refresh rotation; the response carries the updated profile immediately.

Response:
  - 200: Profile: Upgraded profile
  - 409: ErrConflict: Role cannot upgrade (already premium, or editorial)
*/
func (handler *Handler) upgrade(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	upgraded, err := handler.profileService.UpgradeAccount(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, upgraded)
}

/*
List returns a paginated console view of all accounts.

GET /api/v1/users?page=&limit=&q=

Response:
  - 200: []AdminListing with pagination metadata
  - 403: ErrForbidden: Caller is not an admin
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("q")

	listings, total, err := handler.profileService.ListAccounts(request.Context(), params, search)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, listings, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
ChangeRole assigns a new role to a target account.

PATCH /api/v1/users/{userID}/role

Request:
  - Body: changeRoleRequest (Role)

Response:
  - 204: No Content: Role updated
  - 403: ErrForbidden: Self-change or missing admin capability
  - 422: ErrUnprocessable: Unknown role value
*/
func (handler *Handler) changeRole(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	targetID := requestutil.Param(request, "userID")

	v := &validate.Validator{}
	v.Required(FieldUserID, targetID).UUID(FieldUserID, targetID)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changeRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	err = handler.profileService.ChangeRole(request.Context(), claims.UserID, targetID, sec.Role(input.Role))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
Remove deletes a target account from the console.

DELETE /api/v1/users/{userID}

Response:
  - 204: No Content: Account removed and signed out everywhere
  - 403: ErrForbidden: Self-deletion or missing admin capability
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	targetID := requestutil.Param(request, "userID")

	v := &validate.Validator{}
	v.Required(FieldUserID, targetID).UUID(FieldUserID, targetID)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.profileService.RemoveAccount(request.Context(), claims.UserID, targetID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
