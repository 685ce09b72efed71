package logging

import "context"

type contextKey string

const scopeKeyKey contextKey = "scope_key"

// WithScopeKey adds a run scope key to the context.
func WithScopeKey(ctx context.Context, scope string) context.Context {
	return context.WithValue(ctx, scopeKeyKey, scope)
}

// GetScopeKey retrieves the run scope key from the context.
// Returns empty string if not present.
func GetScopeKey(ctx context.Context) string {
	if scope, ok := ctx.Value(scopeKeyKey).(string); ok {
		return scope
	}
	return ""
}
