package auth

import "context"

type contextKey string

// PrincipalKey is the context key under which the middleware stores the
// authenticated principal.
const PrincipalKey contextKey = "principal"

// --- Context Helper Functions ---

// GetPrincipalFromContext retrieves the Principal from the request context.
// Returns the principal and true if found, otherwise nil and false.
func GetPrincipalFromContext(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(PrincipalKey).(*Principal)
	return principal, ok
}

// WithPrincipal returns a child context carrying the given principal.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}
