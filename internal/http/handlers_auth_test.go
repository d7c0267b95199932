package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/auth"
	mocksauth "github.com/glide-ceylon/gidz-uni-path-sub000/internal/mocks/auth"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/service"
)

// newAuthFixture wires AuthHandlers to a real resolver over in-memory doubles.
func newAuthFixture() (*AuthHandlers, *mocksauth.StaticClientDirectory, *mocksauth.MockAdminAuthenticator, *mocksauth.MemoryIdentityCache) {
	clients := mocksauth.NewStaticClientDirectory()
	admins := mocksauth.NewMockAdminAuthenticator()
	cache := mocksauth.NewMemoryIdentityCache()

	resolver := service.NewResolverService(service.ResolverOptions{
		Clients: clients,
		Admins:  admins,
		Cache:   cache,
		Events:  mocksauth.NewMemoryAuthEvents(),
		MemoTTL: -1,
	})
	return &AuthHandlers{Resolver: resolver}, clients, admins, cache
}

func scopedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx := SetIdentityInContext(req.Context(), "device-1", domainauth.Guest())
	return req.WithContext(ctx)
}

func TestAuthHandlers_Session_Guest(t *testing.T) {
	handlers, _, _, _ := newAuthFixture()

	req := scopedRequest(http.MethodGet, "/api/auth/session", "")
	w := httptest.NewRecorder()

	handlers.Session(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"guest"`)
	assert.Contains(t, w.Body.String(), `"/login"`)
}

func TestAuthHandlers_Nav_FollowsRole(t *testing.T) {
	handlers, _, _, _ := newAuthFixture()

	req := scopedRequest(http.MethodGet, "/api/nav", "")
	w := httptest.NewRecorder()

	handlers.Nav(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/login"`)
	assert.NotContains(t, w.Body.String(), `"/admin/admins"`)
}

func TestAuthHandlers_AdminValidate(t *testing.T) {
	handlers, _, _, _ := newAuthFixture()

	req := scopedRequest(http.MethodGet, "/api/auth/admin/validate", "")
	w := httptest.NewRecorder()
	handlers.AdminValidate(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	admin := domainauth.AdminIdentity(domainauth.AdminProfile{
		ID:    "adm-1",
		Email: "staff@agency.lk",
		Role:  domainauth.RoleAdmin,
	})
	req = httptest.NewRequest(http.MethodGet, "/api/auth/admin/validate", nil)
	req = req.WithContext(SetIdentityInContext(req.Context(), "device-1", admin))
	w = httptest.NewRecorder()
	handlers.AdminValidate(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), "staff@agency.lk")
}

func TestAuthHandlers_ClientLogin_Success(t *testing.T) {
	handlers, clients, _, cache := newAuthFixture()
	clients.Add(domainauth.ClientProfile{
		ID:        "app-1",
		Email:     "amara@example.com",
		FirstName: "Amara",
	}, "secret")

	req := scopedRequest(
		http.MethodPost,
		"/api/auth/client/login",
		`{"email":"amara@example.com","password":"secret"}`,
	)
	w := httptest.NewRecorder()

	handlers.ClientLogin(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"client"`)
	assert.Contains(t, w.Body.String(), `"/portal"`)
	assert.True(t, cache.HasClientID("device-1"))
}

func TestAuthHandlers_ClientLogin_BadPassword(t *testing.T) {
	handlers, clients, _, cache := newAuthFixture()
	clients.Add(domainauth.ClientProfile{ID: "app-1", Email: "amara@example.com"}, "secret")

	req := scopedRequest(
		http.MethodPost,
		"/api/auth/client/login",
		`{"email":"amara@example.com","password":"wrong"}`,
	)
	w := httptest.NewRecorder()

	handlers.ClientLogin(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, cache.HasClientID("device-1"))
}

func TestAuthHandlers_ClientLogin_MissingScope(t *testing.T) {
	handlers, _, _, _ := newAuthFixture()

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/auth/client/login",
		strings.NewReader(`{"email":"a@b.com","password":"x"}`),
	)
	w := httptest.NewRecorder()

	handlers.ClientLogin(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing_scope")
}

func TestAuthHandlers_ClientLogin_MalformedBody(t *testing.T) {
	handlers, _, _, _ := newAuthFixture()

	req := scopedRequest(http.MethodPost, "/api/auth/client/login", `{"email":`)
	w := httptest.NewRecorder()

	handlers.ClientLogin(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandlers_AdminLogin_Success(t *testing.T) {
	handlers, _, admins, cache := newAuthFixture()
	admins.Accounts["staff@agency.lk:hunter2"] = mocksauth.MockAdminAccount{
		Profile: domainauth.AdminProfile{ID: "adm-1", Email: "staff@agency.lk", Role: domainauth.RoleSuperAdmin},
		Token:   "tok-1",
	}

	req := scopedRequest(
		http.MethodPost,
		"/api/auth/admin/login",
		`{"email":"staff@agency.lk","password":"hunter2","remember_me":true}`,
	)
	w := httptest.NewRecorder()

	handlers.AdminLogin(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"admin"`)
	assert.Contains(t, w.Body.String(), `"/admin/admins"`)
	assert.True(t, cache.HasAdmin("device-1"))
}

func TestAuthHandlers_AdminLogin_Rejected(t *testing.T) {
	handlers, _, _, cache := newAuthFixture()

	req := scopedRequest(
		http.MethodPost,
		"/api/auth/admin/login",
		`{"email":"nobody@agency.lk","password":"x"}`,
	)
	w := httptest.NewRecorder()

	handlers.AdminLogin(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, cache.HasAdmin("device-1"))
}

func TestAuthHandlers_Logout_ClearsIdentity(t *testing.T) {
	handlers, clients, _, cache := newAuthFixture()
	clients.Add(domainauth.ClientProfile{ID: "app-1", Email: "amara@example.com"}, "secret")
	require.NoError(t, cache.SetClientID(t.Context(), "device-1", "app-1"))

	req := scopedRequest(http.MethodPost, "/api/auth/logout", "")
	w := httptest.NewRecorder()

	handlers.Logout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"guest"`)
	assert.False(t, cache.HasClientID("device-1"))
}

func TestAuthHandlers_Logout_NoScope(t *testing.T) {
	handlers, _, _, _ := newAuthFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	w := httptest.NewRecorder()

	handlers.Logout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"guest"`)
}
