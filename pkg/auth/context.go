package auth

import (
	"context"
	"errors"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const principalKey contextKey = "principal"

// Roles recognized by RequireRole.
const (
	RoleAdmin = "admin"
	RoleSales = "sales"
)

// Principal is the authenticated user attached to a request.
type Principal struct {
	UserID   int64
	Username string
	Role     string
}

// IsAdmin reports whether p holds the admin role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// ErrNotAuthenticated is returned when no Principal exists in the request context.
// Handlers should return 401 when this error occurs.
var ErrNotAuthenticated = errors.New("authentication required")

// ErrForbidden is returned when the Principal lacks the required role.
var ErrForbidden = errors.New("insufficient permissions")

// PrincipalFromCtx extracts the authenticated user from the request context.
func PrincipalFromCtx(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(principalKey).(Principal)
	if !ok || p.UserID == 0 {
		return Principal{}, ErrNotAuthenticated
	}
	return p, nil
}

// WithPrincipal returns a new context with p attached.
// Used by authentication middleware after validating the session.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
