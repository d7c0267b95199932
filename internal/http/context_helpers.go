package httpx

import (
	"context"

	domainauth "github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/auth"
)

// identityKey is an unexported context key type to avoid collisions across packages.
type identityKey struct{}

// scopeKey carries the device scope the identity was resolved for.
type scopeKey struct{}

// SetIdentityInContext returns a child context carrying the resolved identity
// and its device scope.
func SetIdentityInContext(ctx context.Context, scope string, identity domainauth.Identity) context.Context {
	ctx = context.WithValue(ctx, identityKey{}, identity)
	return context.WithValue(ctx, scopeKey{}, scope)
}

// IdentityFromContext returns the resolved identity for the request. Requests
// that never passed ResolveIdentity middleware read as guest.
func IdentityFromContext(ctx context.Context) domainauth.Identity {
	if identity, ok := ctx.Value(identityKey{}).(domainauth.Identity); ok {
		return identity
	}
	return domainauth.Guest()
}

// ScopeFromContext returns the device scope for the request, or "" when no
// scope was established.
func ScopeFromContext(ctx context.Context) string {
	if scope, ok := ctx.Value(scopeKey{}).(string); ok {
		return scope
	}
	return ""
}

// IsGuest reports whether the request context carries no authenticated identity.
func IsGuest(ctx context.Context) bool {
	return !IdentityFromContext(ctx).IsAuthenticated()
}
