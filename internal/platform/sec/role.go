// Copyright (c) 2026 Newsdesk. All rights reserved.
// Author: duc.phamminh.dev@gmail.com

package sec

// # User Roles

// Role represents the authorization level granted to an account profile.
type Role string

const (
	// Unrestricted system access, including the admin user console
	RoleAdmin Role = "admin"

	// Can create and manage articles through the admin console
	RoleAuthor Role = "author"

	// Paying reader with access to reader features (bookmarking)
	RolePremium Role = "premium_user"

	// Default role for standard registered users
	RoleFree Role = "free_user"
)

// # Capability Lattice
//
// Roles do not form a linear order. Admin subsumes both author and premium,
// but author does not imply premium and premium does not imply author.
// These three predicates are the only place role values may be inspected;
// the rest of the codebase must never compare role strings directly.

// IsAdmin reports whether the role grants unrestricted access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// IsAuthorOrAbove reports whether the role grants admin-console access.
func (r Role) IsAuthorOrAbove() bool {
	return r == RoleAuthor || r.IsAdmin()
}

// IsPremiumOrAbove reports whether the role grants paid reader features.
func (r Role) IsPremiumOrAbove() bool {
	return r == RolePremium || r.IsAdmin()
}

// Valid reports whether r is a member of the closed role enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAuthor, RolePremium, RoleFree:
		return true
	}
	return false
}

// Normalize returns r if it is a valid role, or [RoleFree] otherwise.
//
// An absent or corrupted profile must degrade to least privilege, never
// to an error that blocks the request.
func (r Role) Normalize() Role {
	if r.Valid() {
		return r
	}
	return RoleFree
}
