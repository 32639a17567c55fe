// Copyright (c) 2026 Newsdesk. All rights reserved.
// Author: duc.phamminh.dev@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phamduc/newsdesk/internal/platform/sec"
)

/*
TestRole_CapabilityLattice pins the full capability table. Admin subsumes
both branches; author and premium are siblings, neither implies the other.
*/
func TestRole_CapabilityLattice(t *testing.T) {
	tests := []struct {
		role      sec.Role
		isAdmin   bool
		isAuthor  bool
		isPremium bool
	}{
		{sec.RoleAdmin, true, true, true},
		{sec.RoleAuthor, false, true, false},
		{sec.RolePremium, false, false, true},
		{sec.RoleFree, false, false, false},
		{sec.Role("moderator"), false, false, false},
		{sec.Role(""), false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.isAdmin, tt.role.IsAdmin())
			assert.Equal(t, tt.isAuthor, tt.role.IsAuthorOrAbove())
			assert.Equal(t, tt.isPremium, tt.role.IsPremiumOrAbove())
		})
	}
}

/*
TestRole_Normalize verifies that unknown role values degrade to the free
tier instead of erroring.
*/
func TestRole_Normalize(t *testing.T) {
	assert.Equal(t, sec.RoleAdmin, sec.RoleAdmin.Normalize())
	assert.Equal(t, sec.RoleAuthor, sec.RoleAuthor.Normalize())
	assert.Equal(t, sec.RolePremium, sec.RolePremium.Normalize())
	assert.Equal(t, sec.RoleFree, sec.RoleFree.Normalize())

	assert.Equal(t, sec.RoleFree, sec.Role("superuser").Normalize())
	assert.Equal(t, sec.RoleFree, sec.Role("").Normalize())
}

/*
TestRole_Valid checks the closed enumeration membership test.
*/
func TestRole_Valid(t *testing.T) {
	assert.True(t, sec.RoleAdmin.Valid())
	assert.True(t, sec.RoleFree.Valid())
	assert.False(t, sec.Role("ADMIN").Valid())
	assert.False(t, sec.Role("premium").Valid())
}
