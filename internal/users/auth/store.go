// Copyright (c) 2026 Newsdesk. All rights reserved.
// Author: duc.phamminh.dev@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/phamduc/newsdesk/internal/platform/sec"
)

// # User Data Access

// UserRepository defines the data access contract for identity records.
type UserRepository interface {

	// FindByID returns the identity with the given ID, or apperr.NotFound.
	FindByID(context context.Context, id string) (*User, error)

	// FindByEmail returns the identity with the given email, or apperr.NotFound.
	FindByEmail(context context.Context, email string) (*User, error)

	// Create persists a brand-new identity record.
	Create(context context.Context, user *User) error

	// UpdatePassword replaces only the user's password hash.
	UpdatePassword(context context.Context, userID, newHash string) error

	// SoftDelete marks the identity as deleted without removing the row.
	SoftDelete(context context.Context, id string) error

	// MarkVerified flags the identity's email address as confirmed.
	MarkVerified(context context.Context, userID string) error
}

// # Session Data Access

// SessionRepository defines the data access contract for refresh-token sessions.
type SessionRepository interface {

	// Create persists a new tracking session for an authenticated login.
	Create(context context.Context, session *Session) error

	// FindByTokenHash returns the active, unexpired session matching the hash.
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	// Revoke marks a specific session as permanently invalidated.
	Revoke(context context.Context, sessionID string) error

	// RevokeAll revokes every active session belonging to the userID.
	RevokeAll(context context.Context, userID string) error

	// RevokeOthers revokes all of the user's sessions except the current one.
	RevokeOthers(context context.Context, userID, currentSessionID string) error

	// DeleteExpired physically removes sessions whose ExpiresAt is in the past.
	DeleteExpired(context context.Context) error
}

// # Volatile Data Access

// TokenRepository defines the contract for storing volatile one-shot tokens
// (password reset, email verification) keyed to a user for a limited duration.
type TokenRepository interface {

	// Set stores a token associated with a userID for a limited duration.
	Set(context context.Context, token string, userID string, ttl time.Duration) error

	// Get retrieves the userID associated with a token, or apperr.NotFound.
	Get(context context.Context, token string) (string, error)

	// Delete removes a token after successful use.
	Delete(context context.Context, token string) error
}

// # Profile Directory

// ProfileDirectory is the narrow view of the profile package that auth needs.
//
// # Least Privilege
//
// An identity may legitimately exist without a profile row (creation in
// flight or failed). Callers must treat a lookup failure as "no elevated
// capability", never as an authentication error.
type ProfileDirectory interface {

	// CreateInitial creates the profile row for a freshly registered
	// identity, carrying the display name supplied at sign-up.
	CreateInitial(context context.Context, userID, fullName string) error

	// RoleOf returns the role recorded for the identity.
	RoleOf(context context.Context, userID string) (sec.Role, error)

	// Invalidate drops any cached profile state for the identity.
	// Used as storage hygiene around login/logout transitions.
	Invalidate(context context.Context, userID string) error
}
