// Package auth resolves who is calling and with which role.
//
// Identity mirrors what the browser's identity provider exposes: whether the
// session is loaded, whether the user is signed in, and a role claim that
// defaults to "user". Only "admin" may delete submissions.
package auth

import "strings"

// Roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is the resolved caller.
type Identity struct {
	Loaded   bool   `json:"is_loaded"`
	SignedIn bool   `json:"is_signed_in"`
	UserID   string `json:"user_id,omitempty"`
	Role     string `json:"role"`
}

// Anonymous is a loaded, signed-out identity.
func Anonymous() Identity {
	return Identity{Loaded: true, Role: RoleUser}
}

// NewIdentity builds a signed-in identity, defaulting an empty role to
// RoleUser.
func NewIdentity(userID, role string) Identity {
	return Identity{
		Loaded:   true,
		SignedIn: true,
		UserID:   userID,
		Role:     NormalizeRole(role),
	}
}

// NormalizeRole lower-cases role and defaults it to RoleUser.
func NormalizeRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return RoleUser
	}
	return role
}

// IsAdmin reports whether the role is RoleAdmin.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// Allows reports whether the identity is signed in with one of roles.
func (i Identity) Allows(roles ...string) bool {
	if !i.SignedIn {
		return false
	}
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}
