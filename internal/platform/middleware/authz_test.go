// Copyright (c) 2026 Newsdesk. All rights reserved.
// Author: duc.phamminh.dev@gmail.com

package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phamduc/newsdesk/internal/platform/middleware"
	"github.com/phamduc/newsdesk/internal/platform/sec"
)

// fakeVerifier maps raw token strings to canned claims.
type fakeVerifier struct {
	tokens map[string]*sec.AuthClaims
}

func (v *fakeVerifier) VerifyToken(tokenStr string) (*sec.AuthClaims, error) {
	if claims, ok := v.tokens[tokenStr]; ok {
		return claims, nil
	}
	return nil, errors.New("token verification failed")
}

// serve runs a request through Authenticate plus an optional guard and
// returns the recorded status code.
func serve(t *testing.T, verifier middleware.TokenVerifier, guard func(http.Handler) http.Handler, authorization string) int {
	t.Helper()

	final := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	var handler http.Handler = final
	if guard != nil {
		handler = guard(handler)
	}
	handler = middleware.Authenticate(verifier)(handler)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		request.Header.Set("Authorization", authorization)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder.Code
}

func newVerifier() *fakeVerifier {
	return &fakeVerifier{tokens: map[string]*sec.AuthClaims{
		"admin-token":   {UserID: "u-admin", Role: string(sec.RoleAdmin)},
		"author-token":  {UserID: "u-author", Role: string(sec.RoleAuthor)},
		"premium-token": {UserID: "u-premium", Role: string(sec.RolePremium)},
		"free-token":    {UserID: "u-free", Role: string(sec.RoleFree)},
		"weird-token":   {UserID: "u-weird", Role: "moderator"},
	}}
}

/*
TestAuthenticate_AnonymousPassesThrough verifies that requests without an
Authorization header proceed as anonymous rather than being rejected.
*/
func TestAuthenticate_AnonymousPassesThrough(t *testing.T) {
	code := serve(t, newVerifier(), nil, "")
	assert.Equal(t, http.StatusOK, code)
}

/*
TestAuthenticate_RejectsBadTokens checks malformed headers and failed
verification both answer 401.
*/
func TestAuthenticate_RejectsBadTokens(t *testing.T) {
	verifier := newVerifier()

	assert.Equal(t, http.StatusUnauthorized, serve(t, verifier, nil, "NotBearer abc"))
	assert.Equal(t, http.StatusUnauthorized, serve(t, verifier, nil, "Bearer forged-token"))
}

/*
TestRequireAuth_BlocksAnonymous verifies the authentication guard.
*/
func TestRequireAuth_BlocksAnonymous(t *testing.T) {
	verifier := newVerifier()

	assert.Equal(t, http.StatusUnauthorized, serve(t, verifier, middleware.RequireAuth, ""))
	assert.Equal(t, http.StatusOK, serve(t, verifier, middleware.RequireAuth, "Bearer free-token"))
}

/*
TestGuards_CapabilityMatrix pins the guard behavior for every role against
every route guard. Anonymous is always 401; an authenticated request that
lacks the capability is 403.
*/
func TestGuards_CapabilityMatrix(t *testing.T) {
	verifier := newVerifier()

	guards := map[string]func(http.Handler) http.Handler{
		"admin":   middleware.RequireAdmin(),
		"author":  middleware.RequireAuthorOrAbove(),
		"premium": middleware.RequirePremiumOrAbove(),
	}

	tests := []struct {
		name  string
		guard string
		token string
		want  int
	}{
		{"admin_guard_anonymous", "admin", "", http.StatusUnauthorized},
		{"admin_guard_free", "admin", "free-token", http.StatusForbidden},
		{"admin_guard_author", "admin", "author-token", http.StatusForbidden},
		{"admin_guard_admin", "admin", "admin-token", http.StatusOK},

		{"author_guard_free", "author", "free-token", http.StatusForbidden},
		{"author_guard_premium", "author", "premium-token", http.StatusForbidden},
		{"author_guard_author", "author", "author-token", http.StatusOK},
		{"author_guard_admin", "author", "admin-token", http.StatusOK},

		{"premium_guard_free", "premium", "free-token", http.StatusForbidden},
		{"premium_guard_author", "premium", "author-token", http.StatusForbidden},
		{"premium_guard_premium", "premium", "premium-token", http.StatusOK},
		{"premium_guard_admin", "premium", "admin-token", http.StatusOK},

		// An unknown role claim degrades to least privilege
		{"premium_guard_unknown_role", "premium", "weird-token", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authorization := ""
			if tt.token != "" {
				authorization = "Bearer " + tt.token
			}
			assert.Equal(t, tt.want, serve(t, verifier, guards[tt.guard], authorization))
		})
	}
}
