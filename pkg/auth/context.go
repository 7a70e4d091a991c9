package auth

import (
	"context"
	"errors"
)

type contextKey string

const userContextKey contextKey = "userContext"

// UserContext is the authenticated caller attached to each request.
type UserContext struct {
	UserID   string
	Email    string
	TenantID string
	Roles    []string
}

// HasRole reports whether the caller carries the given role.
func (u *UserContext) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// SetUserInContext attaches the user context to a request context.
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext retrieves the authenticated caller.
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, errors.New("no user in context")
	}
	return user, nil
}
