package adminapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/auth"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/ports"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "   "})
	require.Error(t, err)
}

func TestValidate_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/validate", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"admin": map[string]any{
				"id":         "adm-1",
				"email":      "kasun@gidz.example",
				"first_name": "Kasun",
				"last_name":  "Perera",
				"role":       "Admin ",
				"department": "Visa",
			},
		})
	})

	profile, err := c.Validate(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "adm-1", profile.ID)
	// Role strings from the API are normalized on the way in.
	assert.Equal(t, domainauth.RoleAdmin, profile.Role)
	assert.Equal(t, "Visa", profile.Department)
}

func TestValidate_RejectedToken(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "401 status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
		},
		{
			name: "success false",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{"success": false})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			_, err := c.Validate(context.Background(), "bad-token")
			assert.ErrorIs(t, err, ports.ErrSessionInvalid)
		})
	}
}

func TestValidate_EmptyTokenShortCircuits(t *testing.T) {
	called := false
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) { called = true })

	_, err := c.Validate(context.Background(), "")
	assert.ErrorIs(t, err, ports.ErrSessionInvalid)
	assert.False(t, called, "empty token should not hit the API")
}

func TestValidate_ServerErrorIsNotInvalid(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Validate(context.Background(), "tok-123")
	require.Error(t, err)
	// A transport-level failure must stay distinguishable from a rejection.
	assert.False(t, errors.Is(err, ports.ErrSessionInvalid))
}

func TestLogin_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)

		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "kasun@gidz.example", in["email"])
		assert.Equal(t, "hunter2", in["password"])
		assert.Equal(t, true, in["remember_me"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"token":   "tok-456",
			"admin":   map[string]any{"id": "adm-1", "role": "super_admin"},
		})
	})

	profile, token, err := c.Login(context.Background(), ports.AdminLoginInput{
		Email:      "kasun@gidz.example",
		Password:   "hunter2",
		RememberMe: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "tok-456", token)
	assert.Equal(t, domainauth.RoleSuperAdmin, profile.Role)
}

func TestLogin_BadCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, _, err := c.Login(context.Background(), ports.AdminLoginInput{Email: "x@y.z", Password: "nope"})
	assert.ErrorIs(t, err, ports.ErrSessionInvalid)
}

func TestLogout(t *testing.T) {
	var gotMethod, gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Logout(context.Background(), "tok-789"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "Bearer tok-789", gotAuth)
}

func TestLogout_EmptyTokenIsNoop(t *testing.T) {
	called := false
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) { called = true })

	require.NoError(t, c.Logout(context.Background(), ""))
	assert.False(t, called)
}
