// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// UserKey is the context key for the acting user's ID.
type UserKey struct{}

// WithUserID returns a context carrying the ID of the user performing the request.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserKey{}, userID)
}

// UserIDFromContext returns the acting user's ID and whether one was set.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserKey{}).(int64)
	return id, ok
}
