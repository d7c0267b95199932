package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/data"
	domainauth "github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/auth"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/ports"
)

const (
	defaultSessionTTL  = 12 * time.Hour
	defaultRememberTTL = 30 * 24 * time.Hour
)

// AdminDirectory is the account-store surface the local admin-auth service
// needs. AdminUserRepo satisfies it.
type AdminDirectory interface {
	VerifyCredentials(ctx context.Context, email, password string) (*model.AdminUser, error)
}

// LocalAdminAuthOptions groups dependencies for LocalAdminAuthService.
type LocalAdminAuthOptions struct {
	Accounts AdminDirectory
	Sessions ports.SessionStore
	Logger   *slog.Logger

	// SessionTTL is the lifetime of a normal session; RememberTTL applies
	// when the login asked to be remembered. Zero values use the defaults.
	SessionTTL  time.Duration
	RememberTTL time.Duration

	TimeProvider data.TimeProvider
}

// LocalAdminAuthService backs the admin credential contract with the
// admin_users table and the session store, for deployments that do not
// delegate to a hosted admin-auth API.
type LocalAdminAuthService struct {
	accounts     AdminDirectory
	sessions     ports.SessionStore
	logger       *slog.Logger
	sessionTTL   time.Duration
	rememberTTL  time.Duration
	timeProvider data.TimeProvider
}

// NewLocalAdminAuthService constructs a new LocalAdminAuthService.
func NewLocalAdminAuthService(opts LocalAdminAuthOptions) *LocalAdminAuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sessionTTL := opts.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	rememberTTL := opts.RememberTTL
	if rememberTTL <= 0 {
		rememberTTL = defaultRememberTTL
	}
	tp := opts.TimeProvider
	if tp == nil {
		tp = &data.RealTimeProvider{}
	}
	return &LocalAdminAuthService{
		accounts:     opts.Accounts,
		sessions:     opts.Sessions,
		logger:       logger.With("component", "admin_auth"),
		sessionTTL:   sessionTTL,
		rememberTTL:  rememberTTL,
		timeProvider: tp,
	}
}

// Validate checks a session token against the store.
func (s *LocalAdminAuthService) Validate(ctx context.Context, token string) (domainauth.AdminProfile, error) {
	if token == "" {
		return domainauth.AdminProfile{}, ports.ErrSessionInvalid
	}

	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return domainauth.AdminProfile{}, ports.ErrSessionInvalid
		}
		return domainauth.AdminProfile{}, fmt.Errorf("get session: %w", err)
	}

	// The store expires entries on its own; recheck in case of clock skew.
	if s.timeProvider.Now().After(sess.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, token); deleteErr != nil {
			s.logger.WarnContext(ctx, "expired session cleanup failed", "err", deleteErr)
		}
		return domainauth.AdminProfile{}, ports.ErrSessionInvalid
	}

	return sess.Profile, nil
}

// Login verifies credentials against the admin_users table and opens a
// session. Unknown email, wrong password and inactive accounts all surface
// as ErrSessionInvalid so callers cannot tell them apart.
func (s *LocalAdminAuthService) Login(ctx context.Context, in ports.AdminLoginInput) (domainauth.AdminProfile, string, error) {
	if in.Email == "" || in.Password == "" {
		return domainauth.AdminProfile{}, "", ports.ErrSessionInvalid
	}

	account, err := s.accounts.VerifyCredentials(ctx, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, data.ErrAdminUserNotFound) {
			return domainauth.AdminProfile{}, "", ports.ErrSessionInvalid
		}
		return domainauth.AdminProfile{}, "", fmt.Errorf("verify credentials: %w", err)
	}

	ttl := s.sessionTTL
	if in.RememberMe {
		ttl = s.rememberTTL
	}

	profile := account.Profile()
	sess := ports.AdminSession{
		Token:     generateSessionToken(),
		AdminID:   account.ID,
		Profile:   profile,
		ExpiresAt: s.timeProvider.Now().Add(ttl),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return domainauth.AdminProfile{}, "", fmt.Errorf("save session: %w", err)
	}

	s.logger.InfoContext(ctx, "admin session opened",
		"admin_id", account.ID,
		"remember_me", in.RememberMe)
	return profile, sess.Token, nil
}

// Logout terminates the session for the token.
func (s *LocalAdminAuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// generateSessionToken creates an unguessable session token.
func generateSessionToken() string {
	return uuid.New().String()
}

var _ ports.AdminAuthenticator = (*LocalAdminAuthService)(nil)
