package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/data"
	domainauth "github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/auth"
	apperrors "github.com/glide-ceylon/gidz-uni-path-sub000/internal/errors"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/ports"
)

const (
	defaultValidateTimeout = 3 * time.Second
	defaultMemoTTL         = 30 * time.Second
)

// ResolverOptions groups dependencies for ResolverService.
type ResolverOptions struct {
	Clients ports.ClientDirectory
	Admins  ports.AdminAuthenticator
	Cache   ports.IdentityCache
	Events  ports.AuthEvents
	Logger  *slog.Logger

	// ValidateTimeout bounds the admin token re-validation call during
	// resolution. Zero uses the default.
	ValidateTimeout time.Duration

	// MemoTTL bounds how long a resolved identity is reused before the next
	// full resolution. Zero uses the default; negative disables the memo.
	MemoTTL time.Duration

	TimeProvider data.TimeProvider
}

// ResolverService answers "who is this actor" for a device scope. Two
// credential sources feed it: the cached admin entry (validated against the
// admin credential source) and the cached client id (validated against the
// applications table). Admin always wins; every failure path degrades to
// guest rather than erroring out.
type ResolverService struct {
	clients ports.ClientDirectory
	admins  ports.AdminAuthenticator
	cache   ports.IdentityCache
	events  ports.AuthEvents
	logger  *slog.Logger

	validateTimeout time.Duration
	memoTTL         time.Duration
	timeProvider    data.TimeProvider

	group singleflight.Group

	mu          sync.Mutex
	memo        map[string]memoEntry
	unsubscribe func()
}

type memoEntry struct {
	identity  domainauth.Identity
	expiresAt time.Time
}

// NewResolverService constructs a ResolverService and subscribes it to the
// auth-changed channel so cached resolutions drop when identity changes
// anywhere. Call Close to unsubscribe.
func NewResolverService(opts ResolverOptions) *ResolverService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	validateTimeout := opts.ValidateTimeout
	if validateTimeout <= 0 {
		validateTimeout = defaultValidateTimeout
	}
	memoTTL := opts.MemoTTL
	if memoTTL == 0 {
		memoTTL = defaultMemoTTL
	}
	tp := opts.TimeProvider
	if tp == nil {
		tp = &data.RealTimeProvider{}
	}

	s := &ResolverService{
		clients:         opts.Clients,
		admins:          opts.Admins,
		cache:           opts.Cache,
		events:          opts.Events,
		logger:          logger.With("component", "auth_resolver"),
		validateTimeout: validateTimeout,
		memoTTL:         memoTTL,
		timeProvider:    tp,
		memo:            make(map[string]memoEntry),
	}
	if opts.Events != nil {
		s.unsubscribe = opts.Events.Subscribe(s.invalidate)
	}
	return s
}

// Close unsubscribes from the auth-changed channel.
func (s *ResolverService) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Resolve determines the identity for a device scope. It never returns an
// error: any failure to affirm a stronger identity degrades to guest.
// Concurrent resolutions for the same scope are coalesced.
func (s *ResolverService) Resolve(ctx context.Context, scope string) domainauth.Identity {
	if scope == "" {
		return domainauth.Guest()
	}

	if identity, ok := s.memoized(scope); ok {
		return identity
	}

	v, _, _ := s.group.Do(scope, func() (any, error) {
		identity := s.resolve(ctx, scope)
		s.memoize(scope, identity)
		return identity, nil
	})
	identity, ok := v.(domainauth.Identity)
	if !ok {
		return domainauth.Guest()
	}
	return identity
}

// resolve runs one full resolution pass: admin source first, then client,
// then guest.
func (s *ResolverService) resolve(ctx context.Context, scope string) domainauth.Identity {
	if identity, done := s.resolveAdmin(ctx, scope); done {
		return identity
	}
	if identity, done := s.resolveClient(ctx, scope); done {
		return identity
	}
	return domainauth.Guest()
}

// resolveAdmin checks the cached admin entry. It reports done=true only when
// an admin identity is affirmed; all other outcomes fall through to the
// client source.
func (s *ResolverService) resolveAdmin(ctx context.Context, scope string) (domainauth.Identity, bool) {
	entry, err := s.cache.Admin(ctx, scope)
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "admin cache read failed", "err", err)
		}
		return domainauth.Identity{}, false
	}
	if !entry.LoggedIn || entry.Token == "" {
		return domainauth.Identity{}, false
	}

	vctx, cancel := context.WithTimeout(ctx, s.validateTimeout)
	defer cancel()

	profile, err := s.admins.Validate(vctx, entry.Token)
	switch {
	case err == nil:
		// Keep the cached profile current with what the source returned.
		if setErr := s.cache.SetAdmin(ctx, scope, ports.CachedAdmin{
			LoggedIn: true,
			Token:    entry.Token,
			Profile:  profile,
		}); setErr != nil {
			s.logger.WarnContext(ctx, "admin cache refresh failed", "err", setErr)
		}
		return domainauth.AdminIdentity(profile), true

	case errors.Is(err, ports.ErrSessionInvalid):
		// Definitive rejection: drop the stale entry so the next pass skips it.
		if clearErr := s.cache.ClearAdmin(ctx, scope); clearErr != nil {
			s.logger.WarnContext(ctx, "stale admin entry clear failed", "err", clearErr)
		}
		return domainauth.Identity{}, false

	default:
		// Could not ask (timeout, transport). The cached copy is display
		// data, not a credential: without an affirmative answer this pass
		// carries no admin identity. The entry stays so a healthy pass can
		// re-affirm it without another login.
		s.logger.WarnContext(ctx, "admin validation unreachable", "err", err)
		return domainauth.Identity{}, false
	}
}

// resolveClient checks the cached client id. A stored id whose row no longer
// exists is cleared so subsequent resolutions skip the lookup (self-healing).
func (s *ResolverService) resolveClient(ctx context.Context, scope string) (domainauth.Identity, bool) {
	id, err := s.cache.ClientID(ctx, scope)
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "client cache read failed", "err", err)
		}
		return domainauth.Identity{}, false
	}

	profile, err := s.clients.FindProfileByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrApplicationNotFound) {
			if clearErr := s.cache.ClearClientID(ctx, scope); clearErr != nil {
				s.logger.WarnContext(ctx, "stale client id clear failed", "err", clearErr)
			}
		} else {
			// Transient failure: stay guest for this pass but keep the cache
			// intact so a healthy pass can succeed.
			s.logger.WarnContext(ctx, "client profile lookup failed", "err", err)
		}
		return domainauth.Identity{}, false
	}
	return domainauth.ClientIdentity(profile), true
}

// ClientLogin matches applicant credentials and, only on success, stores the
// client id for the scope. A failed login leaves the cache untouched.
func (s *ResolverService) ClientLogin(ctx context.Context, scope, email, password string) (domainauth.ClientProfile, error) {
	if scope == "" {
		return domainauth.ClientProfile{}, apperrors.Validation("device scope is required")
	}

	profile, err := s.clients.FindProfileByCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, data.ErrApplicationNotFound) {
			return domainauth.ClientProfile{}, apperrors.Unauthorized("Invalid email or password.")
		}
		return domainauth.ClientProfile{}, fmt.Errorf("client login: %w", err)
	}

	if err := s.cache.SetClientID(ctx, scope, profile.ID); err != nil {
		return domainauth.ClientProfile{}, fmt.Errorf("store client identity: %w", err)
	}
	s.announce(ctx, scope)
	return profile, nil
}

// AdminLogin delegates to the admin credential source and, on success, caches
// the admin entry for the scope.
func (s *ResolverService) AdminLogin(ctx context.Context, scope string, in ports.AdminLoginInput) (domainauth.AdminProfile, error) {
	if scope == "" {
		return domainauth.AdminProfile{}, apperrors.Validation("device scope is required")
	}

	profile, token, err := s.admins.Login(ctx, in)
	if err != nil {
		if errors.Is(err, ports.ErrSessionInvalid) {
			return domainauth.AdminProfile{}, apperrors.Unauthorized("Invalid email or password.")
		}
		return domainauth.AdminProfile{}, fmt.Errorf("admin login: %w", err)
	}

	if err := s.cache.SetAdmin(ctx, scope, ports.CachedAdmin{
		LoggedIn: true,
		Token:    token,
		Profile:  profile,
	}); err != nil {
		return domainauth.AdminProfile{}, fmt.Errorf("store admin identity: %w", err)
	}
	s.announce(ctx, scope)
	return profile, nil
}

// Logout ends every identity for the scope. The remote admin session is
// terminated best-effort; local state is always cleared, so logout succeeds
// even when the admin credential source is unreachable.
func (s *ResolverService) Logout(ctx context.Context, scope string) error {
	if scope == "" {
		return nil
	}

	// Best-effort remote termination using the cached token, if any.
	if entry, err := s.cache.Admin(ctx, scope); err == nil && entry.Token != "" {
		lctx, cancel := context.WithTimeout(ctx, s.validateTimeout)
		if logoutErr := s.admins.Logout(lctx, entry.Token); logoutErr != nil {
			s.logger.WarnContext(ctx, "remote admin logout failed", "err", logoutErr)
		}
		cancel()
	}

	if err := s.cache.ClearAll(ctx, scope); err != nil {
		return fmt.Errorf("clear identity entries: %w", err)
	}
	s.announce(ctx, scope)
	return nil
}

// announce publishes the auth-changed event and drops the local memo. Event
// delivery is best-effort.
func (s *ResolverService) announce(ctx context.Context, scope string) {
	s.invalidate(scope)
	if s.events == nil {
		return
	}
	if err := s.events.PublishChanged(ctx, scope); err != nil {
		s.logger.WarnContext(ctx, "auth change publish failed", "err", err)
	}
}

func (s *ResolverService) memoized(scope string) (domainauth.Identity, bool) {
	if s.memoTTL < 0 {
		return domainauth.Identity{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.memo[scope]
	if !ok || s.timeProvider.Now().After(entry.expiresAt) {
		delete(s.memo, scope)
		return domainauth.Identity{}, false
	}
	return entry.identity, true
}

func (s *ResolverService) memoize(scope string, identity domainauth.Identity) {
	if s.memoTTL < 0 {
		return
	}
	s.mu.Lock()
	s.memo[scope] = memoEntry{
		identity:  identity,
		expiresAt: s.timeProvider.Now().Add(s.memoTTL),
	}
	s.mu.Unlock()
}

// invalidate drops the memoized resolution for a scope. It is the subscriber
// callback for the auth-changed channel.
func (s *ResolverService) invalidate(scope string) {
	s.mu.Lock()
	delete(s.memo, scope)
	s.mu.Unlock()
}
