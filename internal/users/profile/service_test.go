// Copyright (c) 2026 Newsdesk. All rights reserved.
// Author: duc.phamminh.dev@gmail.com

package profile_test

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phamduc/newsdesk/internal/platform/apperr"
	"github.com/phamduc/newsdesk/internal/platform/sec"
	"github.com/phamduc/newsdesk/internal/users/profile"
	"github.com/phamduc/newsdesk/pkg/pagination"
)

// Compile-time checks that the production backends satisfy the domain
// contracts, full signatures included.
var (
	_ profile.Repository = (*profile.PostgresRepository)(nil)
	_ profile.Cache      = (*profile.RedisCache)(nil)
)

/*
TestCacheTuning_GenerationOutlivesProfile pins the relationship between the
two cache lifetimes: the fill-guard counter must stay alive well past any
cached profile entry, so a fill guarded by a live entry can never see its
counter expire mid-flight.
*/
func TestCacheTuning_GenerationOutlivesProfile(t *testing.T) {
	assert.Greater(t, profile.GenerationTTL, 10*profile.CacheTTL)
}

// # In-Memory Fakes

type fakeRepo struct {
	rows map[string]*profile.Profile

	// onFind runs just before FindByUserID returns, letting tests race a
	// mutation against an in-flight cache fill.
	onFind func()
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[string]*profile.Profile)}
}

func (r *fakeRepo) FindByUserID(_ context.Context, userID string) (*profile.Profile, error) {
	row, ok := r.rows[userID]
	if !ok {
		return nil, apperr.NotFound("Profile")
	}
	snapshot := *row
	if r.onFind != nil {
		r.onFind()
	}
	return &snapshot, nil
}

func (r *fakeRepo) Create(_ context.Context, p *profile.Profile) error {
	r.rows[p.UserID] = p
	return nil
}

func (r *fakeRepo) Update(_ context.Context, userID string, patch profile.Patch) error {
	row, ok := r.rows[userID]
	if !ok {
		return apperr.NotFound("Profile")
	}
	if patch.FullName != nil {
		row.FullName = *patch.FullName
	}
	if patch.AvatarURL != nil {
		row.AvatarURL = *patch.AvatarURL
	}
	return nil
}

func (r *fakeRepo) UpdateRole(_ context.Context, userID string, role sec.Role) error {
	row, ok := r.rows[userID]
	if !ok {
		return apperr.NotFound("Profile")
	}
	row.Role = role
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, userID string) error {
	delete(r.rows, userID)
	return nil
}

func (r *fakeRepo) List(_ context.Context, _ pagination.Params, _ string) ([]profile.AdminListing, int, error) {
	listings := make([]profile.AdminListing, 0, len(r.rows))
	for _, row := range r.rows {
		listings = append(listings, profile.AdminListing{Profile: *row})
	}
	return listings, len(listings), nil
}

// fakeCache mirrors the Redis generation-guard semantics in memory.
type fakeCache struct {
	store       map[string]*profile.Profile
	generations map[string]int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		store:       make(map[string]*profile.Profile),
		generations: make(map[string]int),
	}
}

func (c *fakeCache) Get(_ context.Context, userID string) (*profile.Profile, error) {
	if cached, ok := c.store[userID]; ok {
		return cached, nil
	}
	return nil, apperr.NotFound("Profile not cached")
}

func (c *fakeCache) Generation(_ context.Context, userID string) (string, error) {
	return strconv.Itoa(c.generations[userID]), nil
}

func (c *fakeCache) SetIfGeneration(_ context.Context, userID string, p *profile.Profile, generation string) error {
	if strconv.Itoa(c.generations[userID]) == generation {
		c.store[userID] = p
	}
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, userID string) error {
	c.generations[userID]++
	delete(c.store, userID)
	return nil
}

type fakeRevoker struct{ revoked []string }

func (r *fakeRevoker) RevokeAll(_ context.Context, userID string) error {
	r.revoked = append(r.revoked, userID)
	return nil
}

type fakeRemover struct{ removed []string }

func (r *fakeRemover) SoftDelete(_ context.Context, id string) error {
	r.removed = append(r.removed, id)
	return nil
}

// # Harness

type harness struct {
	service  *profile.Service
	repo     *fakeRepo
	cache    *fakeCache
	sessions *fakeRevoker
	accounts *fakeRemover
}

func newHarness() *harness {
	repo := newFakeRepo()
	cache := newFakeCache()
	sessions := &fakeRevoker{}
	accounts := &fakeRemover{}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := profile.NewService(repo, cache, sessions, accounts, logger)

	return &harness{service: service, repo: repo, cache: cache, sessions: sessions, accounts: accounts}
}

func (h *harness) seed(userID string, role sec.Role) {
	h.repo.rows[userID] = &profile.Profile{UserID: userID, FullName: "Seeded Reader", Role: role}
}

// # Tests

/*
TestService_GetProfile_FillsCache verifies the read-through path: miss,
backing fetch, guarded fill, then a hit.
*/
func TestService_GetProfile_FillsCache(t *testing.T) {
	h := newHarness()
	h.seed("user-1", sec.RolePremium)

	stored, err := h.service.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, sec.RolePremium, stored.Role)

	// The row is now cached
	cached, ok := h.cache.store["user-1"]
	require.True(t, ok)
	assert.Equal(t, sec.RolePremium, cached.Role)
}

/*
TestService_GetProfile_AbsentRow verifies the least-privilege placeholder:
no profile row yields a free-role profile, not an error, and the
placeholder is never cached.
*/
func TestService_GetProfile_AbsentRow(t *testing.T) {
	h := newHarness()

	stored, err := h.service.GetProfile(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleFree, stored.Role)
	assert.Equal(t, "ghost", stored.UserID)

	_, ok := h.cache.store["ghost"]
	assert.False(t, ok)
}

/*
TestService_GetProfile_StaleFillDiscarded verifies the generation guard: a
mutation that lands while a fill is in flight bumps the counter, and the
in-flight fill of the pre-mutation row is dropped instead of clobbering
the newer state.
*/
func TestService_GetProfile_StaleFillDiscarded(t *testing.T) {
	h := newHarness()
	h.seed("user-1", sec.RoleFree)

	// Race: between the generation sample and the guarded fill, an upgrade
	// mutates the row and invalidates the cache.
	h.repo.onFind = func() {
		h.repo.rows["user-1"].Role = sec.RolePremium
		_ = h.cache.Invalidate(context.Background(), "user-1")
		h.repo.onFind = nil
	}

	// This read fetched the free-role snapshot; its fill must be discarded.
	stale, err := h.service.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleFree, stale.Role)

	_, ok := h.cache.store["user-1"]
	assert.False(t, ok, "stale fill must not populate the cache")

	// The next read sees the upgraded role.
	fresh, err := h.service.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, sec.RolePremium, fresh.Role)
}

/*
TestService_UpdateProfile verifies read-your-writes and cache invalidation.
*/
func TestService_UpdateProfile(t *testing.T) {
	h := newHarness()
	h.seed("user-1", sec.RoleFree)

	// Warm the cache
	_, err := h.service.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	require.Contains(t, h.cache.store, "user-1")

	name := "Updated Reader"
	updated, err := h.service.UpdateProfile(context.Background(), "user-1", profile.Patch{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Updated Reader", updated.FullName)

	// The pre-update cache entry is gone
	assert.NotContains(t, h.cache.store, "user-1")
}

/*
TestService_UpdateProfile_NoRow verifies a 404 for identities without a
profile row; PATCH cannot conjure a profile out of nothing.
*/
func TestService_UpdateProfile_NoRow(t *testing.T) {
	h := newHarness()

	name := "Anyone"
	_, err := h.service.UpdateProfile(context.Background(), "ghost", profile.Patch{FullName: &name})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 404, ae.HTTPStatus)
}

/*
TestService_UpgradeAccount covers the closed upgrade rules per role.
*/
func TestService_UpgradeAccount(t *testing.T) {
	tests := []struct {
		name       string
		role       sec.Role
		wantRole   sec.Role
		wantStatus int
	}{
		{"free_upgrades", sec.RoleFree, sec.RolePremium, 0},
		{"premium_conflicts", sec.RolePremium, "", 409},
		{"admin_conflicts", sec.RoleAdmin, "", 409},
		{"author_conflicts", sec.RoleAuthor, "", 409},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.seed("user-1", tt.role)

			upgraded, err := h.service.UpgradeAccount(context.Background(), "user-1")

			if tt.wantStatus != 0 {
				require.Error(t, err)
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, tt.wantStatus, ae.HTTPStatus)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, upgraded.Role)
		})
	}
}

/*
TestService_ChangeRole verifies the console role assignment rules.
*/
func TestService_ChangeRole(t *testing.T) {
	h := newHarness()
	h.seed("admin-1", sec.RoleAdmin)
	h.seed("user-1", sec.RoleFree)

	// Unknown role value is rejected
	err := h.service.ChangeRole(context.Background(), "admin-1", "user-1", "superuser")
	require.Error(t, err)
	assert.Equal(t, 422, apperr.As(err).HTTPStatus)

	// Self-change is refused to avoid admin lockout
	err = h.service.ChangeRole(context.Background(), "admin-1", "admin-1", sec.RoleFree)
	require.Error(t, err)
	assert.Equal(t, 403, apperr.As(err).HTTPStatus)

	// Valid assignment lands and drops cached state
	_, err = h.service.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	require.Contains(t, h.cache.store, "user-1")

	require.NoError(t, h.service.ChangeRole(context.Background(), "admin-1", "user-1", sec.RoleAuthor))
	assert.Equal(t, sec.RoleAuthor, h.repo.rows["user-1"].Role)
	assert.NotContains(t, h.cache.store, "user-1")
}

/*
TestService_RemoveAccount verifies the console deletion cascade.
*/
func TestService_RemoveAccount(t *testing.T) {
	h := newHarness()
	h.seed("admin-1", sec.RoleAdmin)
	h.seed("user-1", sec.RolePremium)

	// Self-deletion is refused
	err := h.service.RemoveAccount(context.Background(), "admin-1", "admin-1")
	require.Error(t, err)
	assert.Equal(t, 403, apperr.As(err).HTTPStatus)

	require.NoError(t, h.service.RemoveAccount(context.Background(), "admin-1", "user-1"))

	assert.Contains(t, h.accounts.removed, "user-1")
	assert.Contains(t, h.sessions.revoked, "user-1")
	assert.NotContains(t, h.repo.rows, "user-1")
}
