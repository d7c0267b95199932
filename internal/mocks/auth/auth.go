package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sync"

	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/data"
	domainauth "github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/auth"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AdminAuthenticator = (*MockAdminAuthenticator)(nil)
	_ ports.ClientDirectory    = (*StaticClientDirectory)(nil)
	_ ports.IdentityCache      = (*MemoryIdentityCache)(nil)
	_ ports.AuthEvents         = (*MemoryAuthEvents)(nil)
	_ ports.SessionStore       = (*MemorySessionStore)(nil)
)

// MockAdminAuthenticator simulates the admin credential source. Tokens in
// Sessions validate to their profile; everything else is rejected. The Func
// fields override any behavior per test.
type MockAdminAuthenticator struct {
	ValidateFunc func(ctx context.Context, token string) (domainauth.AdminProfile, error)
	LoginFunc    func(ctx context.Context, in ports.AdminLoginInput) (domainauth.AdminProfile, string, error)
	LogoutFunc   func(ctx context.Context, token string) error

	// Sessions maps an accepted token to the profile Validate returns.
	Sessions map[string]domainauth.AdminProfile

	// Accounts maps "email:password" to the profile and token Login returns.
	Accounts map[string]MockAdminAccount

	// Call counters for asserting interaction shape.
	ValidateCalls int
	LoginCalls    int
	LogoutCalls   int

	// LoggedOut records every token Logout was asked to terminate.
	LoggedOut []string
}

// MockAdminAccount pairs a login result for MockAdminAuthenticator.Accounts.
type MockAdminAccount struct {
	Profile domainauth.AdminProfile
	Token   string
}

// NewMockAdminAuthenticator creates an authenticator with empty state.
func NewMockAdminAuthenticator() *MockAdminAuthenticator {
	return &MockAdminAuthenticator{
		Sessions: make(map[string]domainauth.AdminProfile),
		Accounts: make(map[string]MockAdminAccount),
	}
}

func (m *MockAdminAuthenticator) Validate(ctx context.Context, token string) (domainauth.AdminProfile, error) {
	m.ValidateCalls++
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, token)
	}
	profile, ok := m.Sessions[token]
	if !ok {
		return domainauth.AdminProfile{}, ports.ErrSessionInvalid
	}
	return profile, nil
}

func (m *MockAdminAuthenticator) Login(ctx context.Context, in ports.AdminLoginInput) (domainauth.AdminProfile, string, error) {
	m.LoginCalls++
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, in)
	}
	account, ok := m.Accounts[in.Email+":"+in.Password]
	if !ok {
		return domainauth.AdminProfile{}, "", ports.ErrSessionInvalid
	}
	if m.Sessions != nil {
		m.Sessions[account.Token] = account.Profile
	}
	return account.Profile, account.Token, nil
}

func (m *MockAdminAuthenticator) Logout(ctx context.Context, token string) error {
	m.LogoutCalls++
	m.LoggedOut = append(m.LoggedOut, token)
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	delete(m.Sessions, token)
	return nil
}

// StaticClientDirectory serves applicant profiles from memory.
type StaticClientDirectory struct {
	FindByIDFunc          func(ctx context.Context, id string) (domainauth.ClientProfile, error)
	FindByCredentialsFunc func(ctx context.Context, email, password string) (domainauth.ClientProfile, error)

	// Profiles maps application id to profile.
	Profiles map[string]domainauth.ClientProfile

	// Passwords maps application id to the accepted password.
	Passwords map[string]string
}

// NewStaticClientDirectory creates an empty directory.
func NewStaticClientDirectory() *StaticClientDirectory {
	return &StaticClientDirectory{
		Profiles:  make(map[string]domainauth.ClientProfile),
		Passwords: make(map[string]string),
	}
}

// Add registers a profile with its password.
func (d *StaticClientDirectory) Add(p domainauth.ClientProfile, password string) {
	d.Profiles[p.ID] = p
	d.Passwords[p.ID] = password
}

func (d *StaticClientDirectory) FindProfileByID(ctx context.Context, id string) (domainauth.ClientProfile, error) {
	if d.FindByIDFunc != nil {
		return d.FindByIDFunc(ctx, id)
	}
	p, ok := d.Profiles[id]
	if !ok {
		return domainauth.ClientProfile{}, data.ErrApplicationNotFound
	}
	return p, nil
}

func (d *StaticClientDirectory) FindProfileByCredentials(ctx context.Context, email, password string) (domainauth.ClientProfile, error) {
	if d.FindByCredentialsFunc != nil {
		return d.FindByCredentialsFunc(ctx, email, password)
	}
	for id, p := range d.Profiles {
		if p.Email == email && d.Passwords[id] == password {
			return p, nil
		}
	}
	return domainauth.ClientProfile{}, data.ErrApplicationNotFound
}

// MemoryIdentityCache is an in-memory identity cache for unit tests. The Err
// fields inject failures on the matching operations.
type MemoryIdentityCache struct {
	ReadErr  error
	WriteErr error

	clientIDs map[string]string
	admins    map[string]ports.CachedAdmin
}

// NewMemoryIdentityCache creates an empty cache.
func NewMemoryIdentityCache() *MemoryIdentityCache {
	return &MemoryIdentityCache{
		clientIDs: make(map[string]string),
		admins:    make(map[string]ports.CachedAdmin),
	}
}

func (c *MemoryIdentityCache) ClientID(_ context.Context, scope string) (string, error) {
	if c.ReadErr != nil {
		return "", c.ReadErr
	}
	id, ok := c.clientIDs[scope]
	if !ok {
		return "", ports.ErrCacheMiss
	}
	return id, nil
}

func (c *MemoryIdentityCache) SetClientID(_ context.Context, scope, id string) error {
	if c.WriteErr != nil {
		return c.WriteErr
	}
	if id == "" {
		return errors.New("client id cannot be empty")
	}
	c.clientIDs[scope] = id
	return nil
}

func (c *MemoryIdentityCache) ClearClientID(_ context.Context, scope string) error {
	if c.WriteErr != nil {
		return c.WriteErr
	}
	delete(c.clientIDs, scope)
	return nil
}

func (c *MemoryIdentityCache) Admin(_ context.Context, scope string) (ports.CachedAdmin, error) {
	if c.ReadErr != nil {
		return ports.CachedAdmin{}, c.ReadErr
	}
	entry, ok := c.admins[scope]
	if !ok {
		return ports.CachedAdmin{}, ports.ErrCacheMiss
	}
	return entry, nil
}

func (c *MemoryIdentityCache) SetAdmin(_ context.Context, scope string, entry ports.CachedAdmin) error {
	if c.WriteErr != nil {
		return c.WriteErr
	}
	c.admins[scope] = entry
	return nil
}

func (c *MemoryIdentityCache) ClearAdmin(_ context.Context, scope string) error {
	if c.WriteErr != nil {
		return c.WriteErr
	}
	delete(c.admins, scope)
	return nil
}

func (c *MemoryIdentityCache) ClearAll(_ context.Context, scope string) error {
	if c.WriteErr != nil {
		return c.WriteErr
	}
	delete(c.clientIDs, scope)
	delete(c.admins, scope)
	return nil
}

// HasClientID reports whether a client id is stored for the scope.
func (c *MemoryIdentityCache) HasClientID(scope string) bool {
	_, ok := c.clientIDs[scope]
	return ok
}

// HasAdmin reports whether an admin entry is stored for the scope.
func (c *MemoryIdentityCache) HasAdmin(scope string) bool {
	_, ok := c.admins[scope]
	return ok
}

// MemoryAuthEvents is an in-process auth-changed channel. Published scopes
// are recorded and delivered synchronously to subscribers.
type MemoryAuthEvents struct {
	PublishErr error

	mu        sync.Mutex
	nextID    int
	callbacks map[int]func(scope string)
	Published []string
}

// NewMemoryAuthEvents creates an empty event channel.
func NewMemoryAuthEvents() *MemoryAuthEvents {
	return &MemoryAuthEvents{callbacks: make(map[int]func(scope string))}
}

func (e *MemoryAuthEvents) PublishChanged(_ context.Context, scope string) error {
	if e.PublishErr != nil {
		return e.PublishErr
	}
	e.mu.Lock()
	e.Published = append(e.Published, scope)
	fns := make([]func(string), 0, len(e.callbacks))
	for _, fn := range e.callbacks {
		fns = append(fns, fn)
	}
	e.mu.Unlock()
	for _, fn := range fns {
		fn(scope)
	}
	return nil
}

func (e *MemoryAuthEvents) Subscribe(fn func(scope string)) func() {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.callbacks[id] = fn
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		delete(e.callbacks, id)
		e.mu.Unlock()
	}
}

// MemorySessionStore is an in-memory admin session store for unit tests.
type MemorySessionStore struct {
	sessions map[string]ports.AdminSession
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]ports.AdminSession)}
}

func (m *MemorySessionStore) Save(_ context.Context, sess ports.AdminSession) error {
	if sess.Token == "" {
		return errors.New("session token cannot be empty")
	}
	m.sessions[sess.Token] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, token string) (ports.AdminSession, error) {
	if token == "" {
		return ports.AdminSession{}, ErrNotFound
	}
	sess, ok := m.sessions[token]
	if !ok {
		return ports.AdminSession{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, token string) error {
	if token == "" {
		return nil
	}
	delete(m.sessions, token)
	return nil
}

// ErrNotFound is returned by mocks when an entity is not present.
var ErrNotFound = ports.ErrSessionNotFound
