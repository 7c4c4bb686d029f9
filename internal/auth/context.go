package auth

import (
	"context"

	"mediai/backend/internal/model"
)

type userKeyType struct{}

var userKey = userKeyType{}

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the user stored by the auth middleware.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// UserID returns the ID of the authenticated user, or "" when there is none.
func UserID(ctx context.Context) string {
	if user, ok := UserFromContext(ctx); ok {
		return user.ID
	}
	return ""
}
