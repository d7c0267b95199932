package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/auth"
)

// ErrSessionInvalid is the negative answer from an admin credential source:
// the token is unknown, expired, or revoked. Transport failures are returned
// as ordinary errors so callers can distinguish "no" from "could not ask".
var ErrSessionInvalid = errors.New("admin session invalid")

// AdminLoginInput carries admin login credentials. RememberMe extends the
// server-side session lifetime.
type AdminLoginInput struct {
	Email      string
	Password   string
	RememberMe bool
}

// AdminAuthenticator is the admin credential source. The production adapter
// speaks to the hosted admin-auth API; the local implementation backs the
// same contract with the admin_users table and Redis sessions.
type AdminAuthenticator interface {
	// Validate checks a session token. Returns the admin profile when the
	// session is affirmed, ErrSessionInvalid when rejected, and any other
	// error for transport failures.
	Validate(ctx context.Context, token string) (domainauth.AdminProfile, error)

	// Login exchanges credentials for an admin profile and a session token.
	Login(ctx context.Context, in AdminLoginInput) (domainauth.AdminProfile, string, error)

	// Logout terminates the server-side session for the token.
	Logout(ctx context.Context, token string) error
}

// ClientDirectory resolves applicant credentials against the backing store.
type ClientDirectory interface {
	// FindProfileByID fetches the minimal profile for a stored client id.
	FindProfileByID(ctx context.Context, id string) (domainauth.ClientProfile, error)

	// FindProfileByCredentials matches a trimmed, lowercased email and the
	// exact password against one application row.
	FindProfileByCredentials(ctx context.Context, email, password string) (domainauth.ClientProfile, error)
}

// CachedAdmin is the locally cached admin identity entry. It is a display
// fallback only: resolution must re-validate before trusting it.
type CachedAdmin struct {
	LoggedIn bool                    `json:"logged_in"`
	Token    string                  `json:"token"`
	Profile  domainauth.AdminProfile `json:"profile"`
}

// IdentityCache persists the per-device identity entries (the userId,
// isLoggedIn and adminData keys). Scope is the opaque device-session id.
type IdentityCache interface {
	ClientID(ctx context.Context, scope string) (string, error)
	SetClientID(ctx context.Context, scope, id string) error
	ClearClientID(ctx context.Context, scope string) error

	Admin(ctx context.Context, scope string) (CachedAdmin, error)
	SetAdmin(ctx context.Context, scope string, entry CachedAdmin) error
	ClearAdmin(ctx context.Context, scope string) error

	// ClearAll removes every identity entry for the scope. Logout depends on
	// this succeeding locally even when remote calls fail.
	ClearAll(ctx context.Context, scope string) error
}

// ErrCacheMiss is returned by IdentityCache when an entry is absent.
var ErrCacheMiss = errors.New("identity cache miss")

// AuthEvents is the identity-changed pub/sub channel. One interface covers
// both the cross-instance transport and same-process subscribers so business
// logic never sees the difference.
type AuthEvents interface {
	// PublishChanged announces that the identity for a scope changed.
	PublishChanged(ctx context.Context, scope string) error

	// Subscribe registers a callback invoked with the changed scope.
	// The returned function unsubscribes.
	Subscribe(fn func(scope string)) (unsubscribe func())
}

// ErrSessionNotFound is returned by SessionStore when no session exists for
// a token. Implementations return it directly so callers can separate a
// definitive miss from a transport failure.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists admin sessions for the local admin-auth service.
type SessionStore interface {
	Save(ctx context.Context, sess AdminSession) error
	Get(ctx context.Context, token string) (AdminSession, error)
	Delete(ctx context.Context, token string) error
}

// AdminSession is the server-side record for an authenticated staff member.
type AdminSession struct {
	Token     string                  `json:"token"`
	AdminID   string                  `json:"admin_id"`
	Profile   domainauth.AdminProfile `json:"profile"`
	ExpiresAt time.Time               `json:"expires_at"`
}
