// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the caller's identity and gates routes by role.
//
// Two modes:
//   - token mode (a *auth.Verifier is configured): a Bearer token in the
//     Authorization header is verified as an HS256 JWT; no header means an
//     anonymous, signed-out caller; a bad token is rejected with 401.
//   - header mode (no verifier, development only): X-User-ID and X-User-Role
//     are trusted as-is.
//
// The resolved identity is stored in the Gin context, and its user id is also
// stored under "userID" so the access log, rate limiter and idempotency
// lookup key by it.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/contact-dashboard/internal/auth"
)

const (
	// HeaderUserID carries the caller id in header mode.
	HeaderUserID = "X-User-ID"
	// HeaderUserRole carries the caller role in header mode.
	HeaderUserRole = "X-User-Role"

	ctxKeyIdentity = "identity"
	ctxKeyUserID   = "userID"
)

// Authenticate resolves the caller and stores the identity in the context.
// A nil verifier selects header mode.
func Authenticate(v *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := auth.Anonymous()

		if v != nil {
			if h := c.GetHeader("Authorization"); h != "" {
				token, found := strings.CutPrefix(h, "Bearer ")
				if !found {
					abortJSON(c, http.StatusUnauthorized, "unauthorized", "malformed Authorization header")
					return
				}
				verified, err := v.Verify(strings.TrimSpace(token))
				if err != nil {
					abortJSON(c, http.StatusUnauthorized, "unauthorized", "invalid token")
					return
				}
				id = verified
			}
		} else if uid := strings.TrimSpace(c.GetHeader(HeaderUserID)); uid != "" {
			id = auth.NewIdentity(uid, c.GetHeader(HeaderUserRole))
		}

		c.Set(ctxKeyIdentity, id)
		if id.SignedIn {
			c.Set(ctxKeyUserID, id.UserID)
		}
		c.Next()
	}
}

// IdentityFrom returns the identity resolved by Authenticate, or a
// not-yet-loaded identity when the middleware did not run.
func IdentityFrom(c *gin.Context) auth.Identity {
	if v, ok := c.Get(ctxKeyIdentity); ok {
		if id, ok := v.(auth.Identity); ok {
			return id
		}
	}
	return auth.Identity{Role: auth.RoleUser}
}

// RequireSignedIn rejects signed-out callers with 401.
func RequireSignedIn() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IdentityFrom(c).SignedIn {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "sign in required")
			return
		}
		c.Next()
	}
}

// RequireRoles rejects signed-out callers with 401 and callers whose role is
// not in roles with 403.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := IdentityFrom(c)
		switch {
		case !id.SignedIn:
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "sign in required")
		case !id.Allows(roles...):
			abortJSON(c, http.StatusForbidden, "forbidden", "insufficient role")
		default:
			c.Next()
		}
	}
}

// abortJSON writes the standard error envelope. Handlers have their own
// helper; middleware cannot import the handlers package.
func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       code,
		"message":    msg,
	})
}
