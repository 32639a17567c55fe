// Copyright (c) 2026 Newsdesk. All rights reserved.
// Author: duc.phamminh.dev@gmail.com

// Package middleware provides the HTTP middleware chain for the Newsdesk API server.
//
// # Route Guards
//
// The guards below are the server-side counterpart of client-side route
// protection: an unauthenticated request is answered with 401 (the reading
// front end redirects to its login entry point, remembering the original
// path), while an authenticated request lacking the required capability is
// answered with 403. Guards never panic and never leak role internals.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/phamduc/newsdesk/internal/platform/apperr"
	"github.com/phamduc/newsdesk/internal/platform/ctxkey"
	"github.com/phamduc/newsdesk/internal/platform/respond"
	"github.com/phamduc/newsdesk/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the `sec` token
// service implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, parse and verify the JWT via [TokenVerifier].
//  4. Inject [*sec.AuthClaims] into the request context for downstream use.
//
// This middleware is the single writer of request identity: handlers and
// guards only ever read the claims it materialized, so the explicit call
// paths (login, refresh) and the per-request verification can never
// disagree about who the current user is.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			tokenStr := parts[1]
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := context.WithValue(request.Context(), ctxkey.KeyUser, claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := GetUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// Capability is a pure predicate over a role, used by [RequireCapability].
//
// The three [sec.Role] predicate methods are the only implementations; no
// guard or handler may compare role strings directly.
type Capability func(sec.Role) bool

// RequireCapability blocks requests whose authenticated role fails the predicate.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically
// implies [RequireAuth] so you don't need to mount both.
//
// # Flow
//  1. Check if [*sec.AuthClaims] exists in context (implies AuthN).
//  2. Normalize the role claim. An unknown or absent role degrades to
//     least privilege rather than erroring.
//  3. If the capability check fails, abort with HTTP 403 Forbidden.
func RequireCapability(capability Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := GetUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			role := sec.Role(claims.Role).Normalize()
			if !capability(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequireAdmin guards admin-only routes (user console, destructive operations).
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireCapability(sec.Role.IsAdmin)
}

// RequireAuthorOrAbove guards the editorial console routes.
//
// Author-or-above already subsumes admin, so this single check is the
// complete elevated-access rule.
func RequireAuthorOrAbove() func(http.Handler) http.Handler {
	return RequireCapability(sec.Role.IsAuthorOrAbove)
}

// RequirePremiumOrAbove guards paid reader features such as bookmarks.
func RequirePremiumOrAbove() func(http.Handler) http.Handler {
	return RequireCapability(sec.Role.IsPremiumOrAbove)
}

// GetUser retrieves the [*sec.AuthClaims] from the [context.Context].
//
// # Returns
//   - A pointer to [*sec.AuthClaims] if the user is authenticated.
//   - nil if the user is anonymous.
func GetUser(ctx context.Context) *sec.AuthClaims {
	claims, ok := ctx.Value(ctxkey.KeyUser).(*sec.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}
