// Copyright (c) 2026 Newsdesk. All rights reserved.
// Author: duc.phamminh.dev@gmail.com

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phamduc/newsdesk/internal/platform/apperr"
	"github.com/phamduc/newsdesk/internal/platform/sec"
	"github.com/phamduc/newsdesk/internal/users/auth"
)

// # In-Memory Fakes

type fakeUserRepo struct {
	byID    map[string]*auth.User
	byEmail map[string]*auth.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*auth.User),
		byEmail: make(map[string]*auth.User),
	}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := r.byID[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User not found")
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	if user, ok := r.byEmail[email]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User not found with this email")
}

func (r *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID, newHash string) error {
	if user, ok := r.byID[userID]; ok {
		user.PasswordHash = newHash
	}
	return nil
}

func (r *fakeUserRepo) SoftDelete(_ context.Context, id string) error {
	if user, ok := r.byID[id]; ok {
		delete(r.byEmail, user.Email)
		delete(r.byID, id)
	}
	return nil
}

func (r *fakeUserRepo) MarkVerified(_ context.Context, userID string) error {
	if user, ok := r.byID[userID]; ok {
		user.IsVerified = true
	}
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*auth.Session // keyed by session ID
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*auth.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *auth.Session) error {
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeSessionRepo) FindByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	for _, session := range r.sessions {
		if session.TokenHash == tokenHash && !session.IsRevoked && session.ExpiresAt.After(time.Now()) {
			return session, nil
		}
	}
	return nil, apperr.NotFound("Session not found or expired")
}

func (r *fakeSessionRepo) Revoke(_ context.Context, sessionID string) error {
	if session, ok := r.sessions[sessionID]; ok {
		session.IsRevoked = true
	}
	return nil
}

func (r *fakeSessionRepo) RevokeAll(_ context.Context, userID string) error {
	for _, session := range r.sessions {
		if session.UserID == userID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (r *fakeSessionRepo) RevokeOthers(_ context.Context, userID, currentSessionID string) error {
	for _, session := range r.sessions {
		if session.UserID == userID && session.ID != currentSessionID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context) error { return nil }

func (r *fakeSessionRepo) activeCount(userID string) int {
	count := 0
	for _, session := range r.sessions {
		if session.UserID == userID && !session.IsRevoked {
			count++
		}
	}
	return count
}

type fakeTokenRepo struct {
	tokens map[string]string // token -> userID
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]string)}
}

func (r *fakeTokenRepo) Set(_ context.Context, token, userID string, _ time.Duration) error {
	r.tokens[token] = userID
	return nil
}

func (r *fakeTokenRepo) Get(_ context.Context, token string) (string, error) {
	if userID, ok := r.tokens[token]; ok {
		return userID, nil
	}
	return "", apperr.NotFound("Token is invalid or expired")
}

func (r *fakeTokenRepo) Delete(_ context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

// fakeProfiles implements auth.ProfileDirectory. A userID missing from the
// roles map simulates an absent profile row.
type fakeProfiles struct {
	roles       map[string]sec.Role
	created     []string
	invalidated []string
	createErr   error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{roles: make(map[string]sec.Role)}
}

func (p *fakeProfiles) CreateInitial(_ context.Context, userID, _ string) error {
	if p.createErr != nil {
		return p.createErr
	}
	p.created = append(p.created, userID)
	p.roles[userID] = sec.RoleFree
	return nil
}

func (p *fakeProfiles) RoleOf(_ context.Context, userID string) (sec.Role, error) {
	if role, ok := p.roles[userID]; ok {
		return role, nil
	}
	return "", apperr.NotFound("Profile not found")
}

func (p *fakeProfiles) Invalidate(_ context.Context, userID string) error {
	p.invalidated = append(p.invalidated, userID)
	return nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _ string, role sec.Role, _ time.Duration) (string, error) {
	return "jwt." + userID + "." + string(role), nil
}

// # Harness

type harness struct {
	service  *auth.Service
	users    *fakeUserRepo
	sessions *fakeSessionRepo
	resets   *fakeTokenRepo
	verifies *fakeTokenRepo
	profiles *fakeProfiles
}

func newHarness() *harness {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	resets := newFakeTokenRepo()
	verifies := newFakeTokenRepo()
	profiles := newFakeProfiles()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := auth.NewService(users, sessions, resets, verifies, profiles, fakeTokenProvider{}, logger)

	return &harness{
		service:  service,
		users:    users,
		sessions: sessions,
		resets:   resets,
		verifies: verifies,
		profiles: profiles,
	}
}

func (h *harness) register(t *testing.T, email, password string) *auth.User {
	t.Helper()
	user, err := h.service.Register(context.Background(), auth.RegisterInput{
		Email:    email,
		Password: password,
		FullName: "Test Reader",
	})
	require.NoError(t, err)
	return user
}

// # Tests

/*
TestService_Register verifies account creation plus the initial profile row.
*/
func TestService_Register(t *testing.T) {
	h := newHarness()

	user := h.register(t, "reader@example.com", "correct horse battery")

	assert.NotEmpty(t, user.ID)
	assert.False(t, user.IsVerified)
	assert.NotEqual(t, "correct horse battery", user.PasswordHash)

	// The profile extension row is created alongside the identity
	assert.Contains(t, h.profiles.created, user.ID)

	// A verification token has been parked for the mail pipeline
	assert.Len(t, h.verifies.tokens, 1)
}

/*
TestService_Register_DuplicateEmail verifies the Conflict guard.
*/
func TestService_Register_DuplicateEmail(t *testing.T) {
	h := newHarness()
	h.register(t, "reader@example.com", "correct horse battery")

	_, err := h.service.Register(context.Background(), auth.RegisterInput{
		Email:    "reader@example.com",
		Password: "another password",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 409, ae.HTTPStatus)
}

/*
TestService_Register_ProfileCreateFailure verifies that a failing profile
write never blocks registration. The identity is valid on its own and
simply carries least privilege until the profile exists.
*/
func TestService_Register_ProfileCreateFailure(t *testing.T) {
	h := newHarness()
	h.profiles.createErr = apperr.Internal(nil)

	user := h.register(t, "reader@example.com", "correct horse battery")

	assert.NotEmpty(t, user.ID)
	assert.Empty(t, h.profiles.created)
}

/*
TestService_Login verifies the happy path: credentials in, token pair out,
session row persisted, role snapshot baked into the access token.
*/
func TestService_Login(t *testing.T) {
	h := newHarness()
	user := h.register(t, "reader@example.com", "correct horse battery")
	h.profiles.roles[user.ID] = sec.RolePremium

	session, err := h.service.Login(context.Background(), auth.LoginInput{
		Email:    "reader@example.com",
		Password: "correct horse battery",
	})

	require.NoError(t, err)
	assert.Equal(t, sec.RolePremium, session.Role)
	assert.Equal(t, "jwt."+user.ID+".premium_user", session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, 1, h.sessions.activeCount(user.ID))
}

/*
TestService_Login_WrongPassword verifies the generic Unauthorized response.
*/
func TestService_Login_WrongPassword(t *testing.T) {
	h := newHarness()
	h.register(t, "reader@example.com", "correct horse battery")

	_, err := h.service.Login(context.Background(), auth.LoginInput{
		Email:    "reader@example.com",
		Password: "wrong password",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 401, ae.HTTPStatus)
}

/*
TestService_Login_NoProfile verifies the least-privilege degradation: an
identity whose profile row is missing signs in with the free role rather
than failing authentication.
*/
func TestService_Login_NoProfile(t *testing.T) {
	h := newHarness()
	user := h.register(t, "reader@example.com", "correct horse battery")
	delete(h.profiles.roles, user.ID)

	session, err := h.service.Login(context.Background(), auth.LoginInput{
		Email:    "reader@example.com",
		Password: "correct horse battery",
	})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleFree, session.Role)
}

/*
TestService_Login_RevokesStaleSession verifies the storage hygiene rule: a
refresh token the client still carries from an earlier session is revoked
before the new session is established.
*/
func TestService_Login_RevokesStaleSession(t *testing.T) {
	h := newHarness()
	user := h.register(t, "reader@example.com", "correct horse battery")

	first, err := h.service.Login(context.Background(), auth.LoginInput{
		Email:    "reader@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	require.Equal(t, 1, h.sessions.activeCount(user.ID))

	// Second login presents the first refresh token as stale state
	_, err = h.service.Login(context.Background(), auth.LoginInput{
		Email:             "reader@example.com",
		Password:          "correct horse battery",
		StaleRefreshToken: first.RefreshToken,
	})
	require.NoError(t, err)

	// The stale session was revoked, only the fresh one is live
	assert.Equal(t, 1, h.sessions.activeCount(user.ID))
}

/*
TestService_Logout verifies revocation plus cached-profile invalidation,
and that a second logout with the same token is a silent no-op.
*/
func TestService_Logout(t *testing.T) {
	h := newHarness()
	user := h.register(t, "reader@example.com", "correct horse battery")

	session, err := h.service.Login(context.Background(), auth.LoginInput{
		Email:    "reader@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	require.NoError(t, h.service.Logout(context.Background(), session.RefreshToken))
	assert.Equal(t, 0, h.sessions.activeCount(user.ID))
	assert.Contains(t, h.profiles.invalidated, user.ID)

	// Idempotent: the session is already gone
	assert.NoError(t, h.service.Logout(context.Background(), session.RefreshToken))
}

/*
TestService_RefreshSession verifies rotation semantics: the old token dies,
a new pair is issued, and the role claim is re-derived from the profile.
*/
func TestService_RefreshSession(t *testing.T) {
	h := newHarness()
	user := h.register(t, "reader@example.com", "correct horse battery")

	session, err := h.service.Login(context.Background(), auth.LoginInput{
		Email:    "reader@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleFree, session.Role)

	// Role changed between login and refresh (e.g., premium upgrade)
	h.profiles.roles[user.ID] = sec.RolePremium

	rotated, err := h.service.RefreshSession(context.Background(), session.RefreshToken, "", "")
	require.NoError(t, err)

	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)
	assert.Equal(t, sec.RolePremium, rotated.Role)
	assert.Equal(t, 1, h.sessions.activeCount(user.ID))

	// Replay of the consumed token must fail
	_, err = h.service.RefreshSession(context.Background(), session.RefreshToken, "", "")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 401, ae.HTTPStatus)
}

/*
TestService_ResetPassword verifies the recovery flow nukes every session.
*/
func TestService_ResetPassword(t *testing.T) {
	h := newHarness()
	user := h.register(t, "reader@example.com", "correct horse battery")

	// Two devices logged in
	_, err := h.service.Login(context.Background(), auth.LoginInput{Email: "reader@example.com", Password: "correct horse battery"})
	require.NoError(t, err)
	_, err = h.service.Login(context.Background(), auth.LoginInput{Email: "reader@example.com", Password: "correct horse battery"})
	require.NoError(t, err)
	require.Equal(t, 2, h.sessions.activeCount(user.ID))

	token, err := h.service.RequestPasswordReset(context.Background(), "reader@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, h.service.ResetPassword(context.Background(), token, "brand new password"))

	// All sessions revoked, old password rejected, new one accepted
	assert.Equal(t, 0, h.sessions.activeCount(user.ID))

	_, err = h.service.Login(context.Background(), auth.LoginInput{Email: "reader@example.com", Password: "correct horse battery"})
	assert.Error(t, err)

	_, err = h.service.Login(context.Background(), auth.LoginInput{Email: "reader@example.com", Password: "brand new password"})
	assert.NoError(t, err)

	// The token is single-use
	err = h.service.ResetPassword(context.Background(), token, "yet another password")
	assert.Error(t, err)
}

/*
TestService_RequestPasswordReset_UnknownEmail verifies the anti-enumeration
stance: no error and no token for an unregistered address.
*/
func TestService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	h := newHarness()

	token, err := h.service.RequestPasswordReset(context.Background(), "nobody@example.com")

	assert.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, h.resets.tokens)
}

/*
TestService_ChangePassword verifies that other devices are logged out while
the current session survives.
*/
func TestService_ChangePassword(t *testing.T) {
	h := newHarness()
	user := h.register(t, "reader@example.com", "correct horse battery")

	current, err := h.service.Login(context.Background(), auth.LoginInput{Email: "reader@example.com", Password: "correct horse battery"})
	require.NoError(t, err)
	_, err = h.service.Login(context.Background(), auth.LoginInput{Email: "reader@example.com", Password: "correct horse battery"})
	require.NoError(t, err)
	require.Equal(t, 2, h.sessions.activeCount(user.ID))

	err = h.service.ChangePassword(context.Background(), user.ID, "correct horse battery", "brand new password", current.RefreshToken)
	require.NoError(t, err)

	// Only the current session remains active
	assert.Equal(t, 1, h.sessions.activeCount(user.ID))

	// Wrong current password is rejected outright
	err = h.service.ChangePassword(context.Background(), user.ID, "correct horse battery", "whatever", current.RefreshToken)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 401, ae.HTTPStatus)
}

/*
TestService_VerifyEmail verifies token consumption and account activation.
*/
func TestService_VerifyEmail(t *testing.T) {
	h := newHarness()
	user := h.register(t, "reader@example.com", "correct horse battery")
	require.False(t, user.IsVerified)

	// Grab the parked verification token
	var token string
	for parked := range h.verifies.tokens {
		token = parked
	}
	require.NotEmpty(t, token)

	require.NoError(t, h.service.VerifyEmail(context.Background(), token))
	assert.True(t, h.users.byID[user.ID].IsVerified)

	// Single use
	assert.Error(t, h.service.VerifyEmail(context.Background(), token))
}
