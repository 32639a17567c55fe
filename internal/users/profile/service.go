// Copyright (c) 2026 Newsdesk. All rights reserved.
// Author: duc.phamminh.dev@gmail.com

package profile

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phamduc/newsdesk/internal/platform/apperr"
	"github.com/phamduc/newsdesk/internal/platform/sec"
	"github.com/phamduc/newsdesk/pkg/pagination"
)

// Service implements profile use cases, including the admin user console.
type Service struct {
	repository Repository
	cache      Cache
	sessions   SessionRevoker
	accounts   AccountRemover
	logger     *slog.Logger
}

// NewService constructs a profile [Service] with its dependencies.
func NewService(
	repository Repository,
	cache Cache,
	sessions SessionRevoker,
	accounts AccountRemover,
	logger *slog.Logger,
) *Service {
	return &Service{
		repository: repository,
		cache:      cache,
		sessions:   sessions,
		accounts:   accounts,
		logger:     logger,
	}
}

// # Reads

/*
GetProfile returns the profile for an identity, served through the cache.

Description: Cache hit short-circuits. On a miss the generation counter is
sampled BEFORE the Postgres read and handed to the guarded fill, so a
mutation racing this fetch wins and the stale row is discarded. A missing
profile row synthesizes a least-privilege placeholder instead of erroring;
the placeholder is never cached.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Profile: Stored profile or least-privilege placeholder
  - error: Storage failures (absence is NOT an error)
*/
func (service *Service) GetProfile(context context.Context, userID string) (*Profile, error) {

	// Fast path: cached row
	if cached, err := service.cache.Get(context, userID); err == nil {
		return cached, nil
	}

	// Sample the guard BEFORE the backing read
	generation, err := service.cache.Generation(context, userID)
	if err != nil {
		// Redis trouble degrades to uncached reads, never to a failure.
		service.logger.Warn("profile_cache_generation_failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		generation = ""
	}

	stored, err := service.repository.FindByUserID(context, userID)
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.HTTPStatus == http.StatusNotFound {
			// Valid transient state: identity exists, profile row does not.
			return &Profile{UserID: userID, Role: sec.RoleFree}, nil
		}
		return nil, err
	}

	// Guarded fill. Skipped when the generation sample failed above.
	if generation != "" {
		if err := service.cache.SetIfGeneration(context, userID, stored, generation); err != nil {
			service.logger.Warn("profile_cache_fill_failed",
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
		}
	}

	return stored, nil
}

// RoleOf returns the normalized role for an identity.
//
// Part of the directory contract consumed by the authentication service.
// Any lookup trouble surfaces as an error there, where it degrades to
// least privilege.
func (service *Service) RoleOf(context context.Context, userID string) (sec.Role, error) {
	stored, err := service.GetProfile(context, userID)
	if err != nil {
		return "", err
	}
	return stored.Role.Normalize(), nil
}

// CreateInitial creates the profile row for a freshly registered identity.
//
// Part of the directory contract consumed by the authentication service.
func (service *Service) CreateInitial(context context.Context, userID, fullName string) error {
	return service.repository.Create(context, &Profile{
		UserID:   userID,
		FullName: fullName,
		Role:     sec.RoleFree,
	})
}

// Invalidate drops cached profile state for an identity.
//
// Part of the directory contract consumed by the authentication service.
func (service *Service) Invalidate(context context.Context, userID string) error {
	return service.cache.Invalidate(context, userID)
}

// # Writes

/*
UpdateProfile applies a partial patch to the caller's own profile.

Description: The write goes to Postgres first, then the cache generation is
bumped so concurrent fills of the pre-write row are discarded. The fresh
row is re-read and returned, making the endpoint read-your-writes.

Parameters:
  - context: context.Context
  - userID: string
  - patch: Patch

Returns:
  - *Profile: Updated profile
  - error: apperr.NotFound when no profile row exists, or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, patch Patch) (*Profile, error) {
	if err := service.repository.Update(context, userID, patch); err != nil {
		return nil, err
	}

	if err := service.cache.Invalidate(context, userID); err != nil {
		service.logger.Warn("profile_cache_invalidate_failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}

	return service.repository.FindByUserID(context, userID)
}

/*
UpgradeAccount converts a free reader into a premium reader.

Description: Only the free role may upgrade. Premium and admin are already
there; authors have a distinct capability set and converting them would
silently drop editorial access, so the request is refused.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Profile: Upgraded profile
  - error: Conflict when the role cannot upgrade, or storage failures
*/
func (service *Service) UpgradeAccount(context context.Context, userID string) (*Profile, error) {
	stored, err := service.repository.FindByUserID(context, userID)
	if err != nil {
		return nil, err
	}

	role := stored.Role.Normalize()
	if role.IsPremiumOrAbove() {
		return nil, apperr.Conflict("Account already has premium access")
	}
	if role.IsAuthorOrAbove() {
		return nil, apperr.Conflict("Editorial accounts cannot convert to premium")
	}

	if err := service.repository.UpdateRole(context, userID, sec.RolePremium); err != nil {
		return nil, err
	}

	if err := service.cache.Invalidate(context, userID); err != nil {
		service.logger.Warn("profile_cache_invalidate_failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}

	service.logger.Info("account_upgraded", slog.String("user_id", userID))

	return service.repository.FindByUserID(context, userID)
}

// # Admin Console

/*
ListAccounts returns a console page of all live accounts.

Parameters:
  - context: context.Context
  - params: pagination.Params
  - search: string (matches email or full name, empty for all)

Returns:
  - []AdminListing: Console rows
  - int: Total matching accounts
  - error: Query failures
*/
func (service *Service) ListAccounts(context context.Context, params pagination.Params, search string) ([]AdminListing, int, error) {
	return service.repository.List(context, params, search)
}

/*
ChangeRole assigns a new role to a target account.

Description: The role must be a member of the closed enumeration, and an
admin may never change their own role (prevents locking the last admin
out). The cached profile is invalidated; active access tokens keep their
old role snapshot until the next refresh rotation.

Parameters:
  - context: context.Context
  - actorID: string (authenticated admin)
  - targetID: string
  - role: sec.Role

Returns:
  - error: Validation, Forbidden, NotFound, or storage failures
*/
func (service *Service) ChangeRole(context context.Context, actorID, targetID string, role sec.Role) error {
	if !role.Valid() {
		return apperr.Unprocessable("Unknown role")
	}

	if actorID == targetID {
		return apperr.Forbidden("You cannot change your own role")
	}

	if err := service.repository.UpdateRole(context, targetID, role); err != nil {
		return err
	}

	if err := service.cache.Invalidate(context, targetID); err != nil {
		service.logger.Warn("profile_cache_invalidate_failed",
			slog.String("user_id", targetID),
			slog.Any("error", err),
		)
	}

	service.logger.Info("role_changed",
		slog.String("actor_id", actorID),
		slog.String("target_id", targetID),
		slog.String("role", string(role)),
	)

	return nil
}

/*
RemoveAccount deletes a target account from the console.

Description: Soft-deletes the identity, revokes every session so the user
is signed out everywhere, removes the profile row, and drops cached state.
Self-deletion is refused for the same lockout reason as self-demotion.

Parameters:
  - context: context.Context
  - actorID: string (authenticated admin)
  - targetID: string

Returns:
  - error: Forbidden or storage failures
*/
func (service *Service) RemoveAccount(context context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return apperr.Forbidden("You cannot delete your own account")
	}

	if err := service.accounts.SoftDelete(context, targetID); err != nil {
		return fmt.Errorf("profile_service_remove_account_failed: %w", err)
	}

	// Sign the user out everywhere. Log-only: the identity is already gone
	// and sessions die with their expiry at worst.
	if err := service.sessions.RevokeAll(context, targetID); err != nil {
		service.logger.Warn("profile_session_revoke_failed",
			slog.String("user_id", targetID),
			slog.Any("error", err),
		)
	}

	if err := service.repository.Delete(context, targetID); err != nil {
		service.logger.Warn("profile_row_delete_failed",
			slog.String("user_id", targetID),
			slog.Any("error", err),
		)
	}

	if err := service.cache.Invalidate(context, targetID); err != nil {
		service.logger.Warn("profile_cache_invalidate_failed",
			slog.String("user_id", targetID),
			slog.Any("error", err),
		)
	}

	service.logger.Info("account_removed",
		slog.String("actor_id", actorID),
		slog.String("target_id", targetID),
	)

	return nil
}
