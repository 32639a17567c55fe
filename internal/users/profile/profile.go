// Copyright (c) 2026 Newsdesk. All rights reserved.
// Author: duc.phamminh.dev@gmail.com

/*
Package profile manages the application-level profile extension of an identity.

A profile carries the attributes the reading front end displays (full name,
avatar) and the authorization role that drives every capability check. The
profile row is created alongside registration but its absence is a valid
transient state: every consumer must degrade to least privilege when the
row is missing, never fail.

# Caching

Profiles are read on almost every personalized request, so they are served
through a Redis read-through cache. A per-user generation counter guards
cache fills: any mutation bumps the counter, and a fill started before the
bump is discarded instead of overwriting fresher state with a stale row.
*/
package profile

import (
	"context"
	"time"

	"github.com/phamduc/newsdesk/internal/platform/sec"
	"github.com/phamduc/newsdesk/pkg/pagination"
)

// # Domain Entities

// Profile is the application-level extension of a registered identity.
type Profile struct {
	UserID    string    `json:"user_id"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	Role      sec.Role  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdminListing is the console view of a profile, joined with identity fields.
type AdminListing struct {
	Profile
	Email      string `json:"email"`
	IsVerified bool   `json:"is_verified"`
}

// Patch describes a partial profile update. Nil fields are left untouched.
type Patch struct {
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

// # Field Identifiers

const (
	FieldFullName  = "full_name"
	FieldAvatarURL = "avatar_url"
	FieldRole      = "role"
	FieldUserID    = "user_id"
)

// # Cache Tuning

const (
	// CacheTTL bounds how long a cached profile may serve reads without a
	// round trip to Postgres. Mutations invalidate eagerly, so this only
	// matters for writes that bypass the service (manual SQL).
	CacheTTL = 10 * time.Minute

	// GenerationTTL bounds how long an idle user's fill-guard counter is
	// retained. It must comfortably exceed CacheTTL: a fill guarded by a
	// counter sampled while a cache entry was still live must find that
	// counter present when it completes. An expired counter reads as "0",
	// which discards the fill rather than corrupting anything.
	GenerationTTL = 24 * time.Hour
)

// # Data Access Contracts

// Repository defines persistent storage for profile rows.
type Repository interface {

	// FindByUserID returns the profile row, or apperr.NotFound when the
	// identity has no profile yet.
	FindByUserID(context context.Context, userID string) (*Profile, error)

	// Create persists the initial profile row for a fresh identity.
	Create(context context.Context, profile *Profile) error

	// Update applies a partial patch to the profile's display attributes.
	Update(context context.Context, userID string, patch Patch) error

	// UpdateRole replaces the authorization role.
	UpdateRole(context context.Context, userID string, role sec.Role) error

	// Delete removes the profile row entirely.
	Delete(context context.Context, userID string) error

	// List returns the admin console page of profiles joined with identity
	// fields, plus the total row count for pagination.
	List(context context.Context, params pagination.Params, search string) ([]AdminListing, int, error)
}

// Cache defines the volatile read-through store for profiles.
//
// # Generation Guard
//
// Fills are two-step: read the generation before querying Postgres, then
// hand that generation back to SetIfGeneration. The cache only accepts the
// fill if no mutation bumped the counter in between, which prevents a slow
// stale read from overwriting a newer profile.
type Cache interface {

	// Get returns the cached profile, or apperr.NotFound on a miss.
	Get(context context.Context, userID string) (*Profile, error)

	// Generation returns the current fill-guard counter for the user.
	Generation(context context.Context, userID string) (string, error)

	// SetIfGeneration stores the profile only if the generation counter
	// still matches the one observed before the backing fetch.
	SetIfGeneration(context context.Context, userID string, profile *Profile, generation string) error

	// Invalidate bumps the generation counter and drops the cached row.
	Invalidate(context context.Context, userID string) error
}

// SessionRevoker is the narrow slice of session storage the admin console
// needs when an account is removed.
type SessionRevoker interface {
	RevokeAll(context context.Context, userID string) error
}

// AccountRemover soft-deletes the identity row backing a profile.
type AccountRemover interface {
	SoftDelete(context context.Context, id string) error
}
