package middleware

import "context"

type contextKey string

const (
	ctxUID     contextKey = "uid"
	ctxRole    contextKey = "actor_role"
	ctxLoginID contextKey = "login_id"
)

// UserIDFromContext returns the authenticated user's primary key.
func UserIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxUID)
}

func RoleFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxRole)
}

// LoginIDFromContext returns the derived login identifier (users.user_id).
func LoginIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxLoginID)
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUID, userID)
}

// WithRole injects the actor role into the context.
func WithRole(ctx context.Context, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// WithLoginID injects the derived login identifier into the context.
func WithLoginID(ctx context.Context, loginID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxLoginID, loginID)
}
