package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/auth"
)

// stubResolver records the scope it was asked about and returns a fixed
// identity.
type stubResolver struct {
	identity domainauth.Identity
	scopes   []string
}

func (s *stubResolver) Resolve(_ context.Context, scope string) domainauth.Identity {
	s.scopes = append(s.scopes, scope)
	return s.identity
}

func scopeCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == ScopeCookieName {
			return c
		}
	}
	return nil
}

func TestResolveIdentity_MintsScopeCookie(t *testing.T) {
	resolver := &stubResolver{identity: domainauth.Guest()}
	var seen domainauth.Identity
	handler := ResolveIdentity(resolver, "", false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	cookie := scopeCookie(resp)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	_, err := uuid.Parse(cookie.Value)
	assert.NoError(t, err)

	require.Len(t, resolver.scopes, 1)
	assert.Equal(t, cookie.Value, resolver.scopes[0])
	assert.Equal(t, domainauth.ActorGuest, seen.Kind)
}

func TestResolveIdentity_ReusesExistingScope(t *testing.T) {
	resolver := &stubResolver{identity: domainauth.Guest()}
	handler := ResolveIdentity(resolver, "", false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	scope := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ScopeCookieName, Value: scope})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Nil(t, scopeCookie(resp), "no new cookie for a valid scope")
	require.Len(t, resolver.scopes, 1)
	assert.Equal(t, scope, resolver.scopes[0])
}

func TestResolveIdentity_RejectsTamperedScope(t *testing.T) {
	resolver := &stubResolver{identity: domainauth.Guest()}
	handler := ResolveIdentity(resolver, "", false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ScopeCookieName, Value: "../../redis-injection"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	cookie := scopeCookie(resp)
	require.NotNil(t, cookie, "tampered cookie is replaced")
	assert.NotEqual(t, "../../redis-injection", cookie.Value)
	require.Len(t, resolver.scopes, 1)
	assert.Equal(t, cookie.Value, resolver.scopes[0])
}

func TestRequireClient_GuestRejected(t *testing.T) {
	handler := RequireClient()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/applications/1", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication_required")
}

func TestRequireClient_AdmitsClientAndAdmin(t *testing.T) {
	handler := RequireClient()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, identity := range []domainauth.Identity{
		domainauth.ClientIdentity(domainauth.ClientProfile{ID: "app-1"}),
		domainauth.AdminIdentity(domainauth.AdminProfile{ID: "adm-1", Role: domainauth.RoleStaff}),
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/applications/1", nil)
		req = req.WithContext(SetIdentityInContext(req.Context(), "device-1", identity))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code, "kind %s", identity.Kind)
	}
}

func TestRequireStaff_ClientForbidden(t *testing.T) {
	handler := RequireStaff()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/applications", nil)
	identity := domainauth.ClientIdentity(domainauth.ClientProfile{ID: "app-1"})
	req = req.WithContext(SetIdentityInContext(req.Context(), "device-1", identity))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient_permissions")
}

func TestRequireManager_StaffForbidden(t *testing.T) {
	handler := RequireManager()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	staffReq := httptest.NewRequest(http.MethodGet, "/api/admins", nil)
	staff := domainauth.AdminIdentity(domainauth.AdminProfile{ID: "adm-1", Role: domainauth.RoleStaff})
	staffReq = staffReq.WithContext(SetIdentityInContext(staffReq.Context(), "device-1", staff))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, staffReq)

	assert.Equal(t, http.StatusForbidden, w.Code)

	managerReq := httptest.NewRequest(http.MethodGet, "/api/admins", nil)
	manager := domainauth.AdminIdentity(domainauth.AdminProfile{ID: "adm-2", Role: domainauth.RoleSuperAdmin})
	managerReq = managerReq.WithContext(SetIdentityInContext(managerReq.Context(), "device-1", manager))
	w = httptest.NewRecorder()

	handler.ServeHTTP(w, managerReq)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRecover_PanicBecomes500(t *testing.T) {
	handler := Recover(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
