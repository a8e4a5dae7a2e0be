// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// Roles known to the application.
const (
	RoleDirector   = "director"
	RoleTechnician = "technician"
)

// UserContext contains the authenticated technician or director.
type UserContext struct {
	UserID string
	Name   string
	Role   string
}

// IsDirector reports whether the user may see and manage everyone's data.
func (u *UserContext) IsDirector() bool {
	return u != nil && u.Role == RoleDirector
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}
