package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	domainauth "github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/auth"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/http/viewmodel"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/ports"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/service"
)

// AuthHandlers provides HTTP handlers for login, logout and the session probe.
type AuthHandlers struct {
	Resolver *service.ResolverService
	Logger   *slog.Logger
}

// sessionPayload is the response body for every auth endpoint: who the actor
// is plus the navigation their role unlocks.
type sessionPayload struct {
	Identity   domainauth.Identity  `json:"identity"`
	Navigation viewmodel.Navigation `json:"navigation"`
}

func newSessionPayload(identity domainauth.Identity) sessionPayload {
	return sessionPayload{
		Identity:   identity,
		Navigation: viewmodel.BuildNavigation(identity),
	}
}

// Session reports the resolved identity for the calling device.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	WriteJSON(w, http.StatusOK, newSessionPayload(identity))
}

// Nav returns just the navigation for the resolved identity. Clients poll
// this after an auth-changed broadcast to redraw their menus.
func (h *AuthHandlers) Nav(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	WriteJSON(w, http.StatusOK, viewmodel.BuildNavigation(identity))
}

// Resolve is the blocking identity probe: the resolution middleware has
// already finished by the time this runs, so the payload is the final tuple.
func (h *AuthHandlers) Resolve(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	WriteJSON(w, http.StatusOK, newSessionPayload(identity))
}

// AdminValidate confirms the calling device still holds a live admin session.
func (h *AuthHandlers) AdminValidate(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	if identity.Kind != domainauth.ActorAdmin || identity.Admin == nil {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("no admin session")})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"admin":   identity.Admin,
	})
}

type clientLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ClientLogin authenticates an applicant against the applications table.
func (h *AuthHandlers) ClientLogin(w http.ResponseWriter, r *http.Request) {
	scope := ScopeFromContext(r.Context())
	if scope == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "missing_scope", Err: errors.New("no device scope established")})
		return
	}

	var req clientLoginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	profile, err := h.Resolver.ClientLogin(r.Context(), scope, req.Email, req.Password)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, newSessionPayload(domainauth.ClientIdentity(profile)))
}

type adminLoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

// AdminLogin authenticates a staff member against the admin credential source.
func (h *AuthHandlers) AdminLogin(w http.ResponseWriter, r *http.Request) {
	scope := ScopeFromContext(r.Context())
	if scope == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "missing_scope", Err: errors.New("no device scope established")})
		return
	}

	var req adminLoginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	profile, err := h.Resolver.AdminLogin(r.Context(), scope, ports.AdminLoginInput{
		Email:      req.Email,
		Password:   req.Password,
		RememberMe: req.RememberMe,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, newSessionPayload(domainauth.AdminIdentity(profile)))
}

// Logout ends every identity for the calling device. It succeeds even when
// the admin credential source is unreachable.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	scope := ScopeFromContext(r.Context())
	if scope == "" {
		WriteJSON(w, http.StatusOK, newSessionPayload(domainauth.Guest()))
		return
	}

	if err := h.Resolver.Logout(r.Context(), scope); err != nil {
		if h.Logger != nil {
			h.Logger.Error("logout failed", "err", err)
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "logout_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, newSessionPayload(domainauth.Guest()))
}
