package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/auth"
)

// ScopeCookieName is the cookie carrying the opaque device-session id that
// keys the identity cache.
const ScopeCookieName = "gup_scope"

const scopeCookieMaxAge = 365 * 24 * 60 * 60

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityResolver is the resolution surface the middleware needs.
// service.ResolverService satisfies it.
type IdentityResolver interface {
	Resolve(ctx context.Context, scope string) domainauth.Identity
}

// ResolveIdentity returns a middleware that establishes the device scope
// cookie and resolves the actor identity for every request. Resolution never
// fails a request: at worst the request proceeds as guest.
func ResolveIdentity(resolver IdentityResolver, cookieDomain string, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := scopeFromRequest(r)
			if scope == "" {
				scope = uuid.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     ScopeCookieName,
					Value:    scope,
					Path:     "/",
					Domain:   cookieDomain,
					MaxAge:   scopeCookieMaxAge,
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			identity := resolver.Resolve(r.Context(), scope)
			ctx := SetIdentityInContext(r.Context(), scope, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func scopeFromRequest(r *http.Request) string {
	c, err := r.Cookie(ScopeCookieName)
	if err != nil || c.Value == "" {
		return ""
	}
	if _, parseErr := uuid.Parse(c.Value); parseErr != nil {
		// Reject tampered cookies; a fresh scope is minted instead.
		return ""
	}
	return c.Value
}

// RequireClient returns a middleware admitting client or admin identities.
// Admins pass because their access is a superset of a client's.
func RequireClient() func(http.Handler) http.Handler {
	return requireIdentity(func(i domainauth.Identity) bool {
		return i.IsAuthenticated()
	})
}

// RequireStaff returns a middleware admitting any admin identity.
func RequireStaff() func(http.Handler) http.Handler {
	return requireIdentity(func(i domainauth.Identity) bool {
		return i.Kind == domainauth.ActorAdmin
	})
}

// RequireManager returns a middleware admitting only admin identities whose
// role unlocks the management surfaces.
func RequireManager() func(http.Handler) http.Handler {
	return requireIdentity(func(i domainauth.Identity) bool {
		return i.CanManage()
	})
}

// requireApplicationAccess rejects clients reaching into another applicant's
// records. A mismatch answers not-found with the given code, so application
// ids cannot be probed through client-gated routes.
func requireApplicationAccess(w http.ResponseWriter, r *http.Request, applicationID, errCode string) bool {
	identity := IdentityFromContext(r.Context())
	if identity.OwnsApplication(applicationID) {
		return true
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusNotFound,
		ErrCode: errCode,
		Err:     errors.New("record not found"),
	})
	return false
}

func requireIdentity(allow func(domainauth.Identity) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			if !identity.IsAuthenticated() {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}
			if !allow(identity) {
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
