package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/campuseats/pkg/auth"
	"github.com/shashiranjanraj/campuseats/pkg/response"
	"github.com/shashiranjanraj/campuseats/pkg/session"
)

// Principal is the authenticated identity attached to a request. It is
// looked up fresh on every request so role or account changes take effect
// immediately, not at next login.
type Principal struct {
	ID    uint
	Name  string
	Email string
	Role  string
}

// LookupFunc resolves a user ID to a Principal. Returning false rejects
// the request (deleted or unknown account).
type LookupFunc func(id uint) (Principal, bool)

type principalKey struct{}

// Auth returns a middleware that authenticates requests via the session
// cookie, falling back to a Bearer JWT for cookieless clients. Requests
// without a valid identity get a 401 envelope.
func Auth(lookup LookupFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := identify(r)
			if !ok {
				response.Unauthorized(w)
				return
			}

			principal, ok := lookup(id)
			if !ok {
				response.Unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// identify extracts the user ID from the session or a Bearer token.
func identify(r *http.Request) (uint, bool) {
	if id, ok := session.FromCtx(r).GetUint("user_id"); ok && id > 0 {
		return id, true
	}

	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		token := strings.TrimPrefix(header, "Bearer ")
		if claims, err := auth.ValidateToken(token); err == nil {
			return claims.UserID, true
		}
	}

	return 0, false
}

// PrincipalFromCtx returns the authenticated identity, if any.
func PrincipalFromCtx(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// UserIDFromCtx returns the authenticated user's ID, or 0.
func UserIDFromCtx(ctx context.Context) uint {
	p, _ := PrincipalFromCtx(ctx)
	return p.ID
}

// RoleFromCtx returns the authenticated user's role, or "".
func RoleFromCtx(ctx context.Context) string {
	p, _ := PrincipalFromCtx(ctx)
	return p.Role
}
