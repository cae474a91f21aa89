package auth

import (
	"context"
	"errors"
)

var ErrUnauthenticated = errors.New("no authenticated user in context")

// UserContext contains authenticated user information resolved by the
// bearer-token gate. Only the internal id travels with the request; the
// full record is loaded by handlers that need it.
type UserContext struct {
	UserID string
}

// contextKey is the key for storing user info in context
type contextKey string

const userContextKey contextKey = "user"

// GetUserFromContext extracts the authenticated user from the context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// SetUserInContext stores the authenticated user in the context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
