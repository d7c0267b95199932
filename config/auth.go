package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode selects the admin credential source.
type AuthMode string

const (
	// AuthModeRemote delegates admin authentication to the hosted admin-auth API.
	AuthModeRemote AuthMode = "remote"
	// AuthModeLocal authenticates admins against the local admin_users table.
	AuthModeLocal AuthMode = "local"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "remote", "local":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: remote, local)", v)
	}
}

// AdminAPIConfig contains connection settings for the hosted admin-auth
// endpoint (used when Mode=remote).
type AdminAPIConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:9090"`
	Timeout time.Duration `env:"TIMEOUT"  envDefault:"5s"`
}

// AuthConfig groups identity-resolution and admin-session configuration.
type AuthConfig struct {
	// Mode determines which admin credential source to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"local"`

	// AdminAPI configuration (used when Mode=remote).
	AdminAPI AdminAPIConfig `envPrefix:"ADMIN_API_"`

	// SessionTTL is the lifetime of a local admin session.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"12h"`

	// RememberTTL is the session lifetime when remember-me is requested.
	RememberTTL time.Duration `env:"AUTH_REMEMBER_TTL" envDefault:"720h"`

	// ValidateTimeout bounds the admin token re-validation call during
	// identity resolution.
	ValidateTimeout time.Duration `env:"AUTH_VALIDATE_TIMEOUT" envDefault:"3s"`

	// ResolveMemoTTL is how long a resolved identity is reused before the
	// next full resolution. Zero uses the service default.
	ResolveMemoTTL time.Duration `env:"AUTH_RESOLVE_MEMO_TTL" envDefault:"30s"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = 12 * time.Hour
	}
	if a.RememberTTL < a.SessionTTL {
		a.RememberTTL = a.SessionTTL
	}
	if a.ValidateTimeout <= 0 {
		a.ValidateTimeout = 3 * time.Second
	}
}
