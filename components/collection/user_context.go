package collection

import "context"

// UserContext identifies the acting user for ownership checks and telemetry.
// It travels on the context so stores and dispatchers stay free of
// module-level singletons.
type UserContext struct {
	UserID      string
	WorkspaceID string
	Roles       []string
}

type userContextKey struct{}

// ContextWithUser stores the user context on the provided context.
func ContextWithUser(ctx context.Context, user UserContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the user context, if present.
func UserFromContext(ctx context.Context) UserContext {
	if ctx == nil {
		return UserContext{}
	}
	if user, ok := ctx.Value(userContextKey{}).(UserContext); ok {
		return user
	}
	return UserContext{}
}
