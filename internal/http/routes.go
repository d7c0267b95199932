package httpx

import (
	"log/slog"
	"net/http"

	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Resolver     *service.ResolverService
	Applications *service.ApplicationService
	Documents    *service.DocumentService
	Universities *service.UniversityService
	Payments     *service.PaymentService
	Options      *service.OptionService
	Messages     *service.MessageService
	AdminUsers   *service.AdminUserService

	CookieDomain  string
	SecureCookies bool
	Logger        *slog.Logger
}

// NewRouter creates and configures the HTTP router. Every route runs behind
// identity resolution; the per-resource guards decide who gets through.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{Resolver: services.Resolver, Logger: services.Logger}
	appHandlers := &ApplicationHandlers{Svc: services.Applications}
	docHandlers := &DocumentHandlers{Svc: services.Documents}
	uniHandlers := &UniversityHandlers{Svc: services.Universities}
	payHandlers := &PaymentHandlers{Svc: services.Payments}
	optHandlers := &OptionHandlers{Svc: services.Options}
	msgHandlers := &MessageHandlers{Svc: services.Messages}
	adminHandlers := &AdminUserHandlers{Svc: services.AdminUsers}

	registerAuthRoutes(mux, authHandlers)
	registerApplicationRoutes(mux, appHandlers, docHandlers, payHandlers)
	registerDocumentRoutes(mux, docHandlers)
	registerUniversityRoutes(mux, uniHandlers)
	registerPaymentRoutes(mux, payHandlers)
	registerOptionRoutes(mux, optHandlers)
	registerMessageRoutes(mux, msgHandlers)
	registerAdminUserRoutes(mux, adminHandlers)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var handler http.Handler = mux
	handler = ResolveIdentity(services.Resolver, services.CookieDomain, services.SecureCookies)(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /api/auth/session", h.Session)
	mux.HandleFunc("GET /api/auth/resolve", h.Resolve)
	mux.HandleFunc("GET /api/nav", h.Nav)
	mux.HandleFunc("POST /api/auth/client/login", h.ClientLogin)
	mux.HandleFunc("POST /api/auth/admin/login", h.AdminLogin)
	mux.HandleFunc("GET /api/auth/admin/validate", h.AdminValidate)
	mux.HandleFunc("DELETE /api/auth/admin/login", h.Logout)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
}

func registerApplicationRoutes(
	mux *http.ServeMux,
	h *ApplicationHandlers,
	docs *DocumentHandlers,
	pays *PaymentHandlers,
) {
	staff := RequireStaff()
	client := RequireClient()

	// The apply form and the id+email status check are public; everything
	// else needs an identity.
	mux.HandleFunc("POST /api/applications", h.Create)
	mux.HandleFunc("POST /api/applications/status-check", h.StatusCheck)
	mux.Handle("GET /api/applications", staff(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/applications/{id}", client(http.HandlerFunc(h.GetByID)))
	mux.Handle("GET /api/applications/{id}/status", client(http.HandlerFunc(h.Status)))
	mux.Handle("GET /api/applications/{id}/checklist", client(http.HandlerFunc(h.Checklist)))
	mux.Handle("PUT /api/applications/{id}/checklist/{optionID}", staff(http.HandlerFunc(h.SetChecklistItem)))
	mux.Handle("GET /api/applications/{id}/documents", client(http.HandlerFunc(docs.ListByApplication)))
	mux.Handle("GET /api/applications/{id}/payments", client(http.HandlerFunc(pays.ListByApplication)))
	mux.Handle("PUT /api/applications/{id}", staff(http.HandlerFunc(h.Update)))
	mux.Handle("POST /api/applications/{id}/advance", staff(http.HandlerFunc(h.Advance)))
	mux.Handle("DELETE /api/applications/{id}", staff(http.HandlerFunc(h.Delete)))
}

func registerDocumentRoutes(mux *http.ServeMux, h *DocumentHandlers) {
	staff := RequireStaff()
	client := RequireClient()

	mux.Handle("POST /api/documents", staff(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/documents/{id}", client(http.HandlerFunc(h.GetByID)))
	mux.Handle("POST /api/documents/{id}/upload", client(http.HandlerFunc(h.Upload)))
	mux.Handle("GET /api/documents/{id}/download", client(http.HandlerFunc(h.Download)))
	mux.Handle("POST /api/documents/{id}/review", staff(http.HandlerFunc(h.Review)))
	mux.Handle("DELETE /api/documents/{id}", staff(http.HandlerFunc(h.Delete)))
}

func registerUniversityRoutes(mux *http.ServeMux, h *UniversityHandlers) {
	staff := RequireStaff()

	// The published catalog is the public landing content.
	mux.HandleFunc("GET /api/universities", h.PublicList)
	mux.HandleFunc("GET /api/universities/{id}", h.GetByID)
	mux.Handle("GET /api/admin/universities", staff(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/universities", staff(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /api/universities/{id}", staff(http.HandlerFunc(h.Update)))
	mux.Handle("POST /api/universities/{id}/logo", staff(http.HandlerFunc(h.UploadLogo)))
	mux.Handle("DELETE /api/universities/{id}", staff(http.HandlerFunc(h.Delete)))
}

func registerPaymentRoutes(mux *http.ServeMux, h *PaymentHandlers) {
	staff := RequireStaff()

	mux.Handle("POST /api/payments", staff(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/payments/{id}", staff(http.HandlerFunc(h.GetByID)))
	mux.Handle("PUT /api/payments/{id}", staff(http.HandlerFunc(h.Update)))
	mux.Handle("POST /api/payments/{id}/paid", staff(http.HandlerFunc(h.MarkPaid)))
	mux.Handle("POST /api/payments/{id}/refund", staff(http.HandlerFunc(h.Refund)))
	mux.Handle("DELETE /api/payments/{id}", staff(http.HandlerFunc(h.Delete)))
}

func registerOptionRoutes(mux *http.ServeMux, h *OptionHandlers) {
	manager := RequireManager()

	// Applicants read the active catalog; only managers change it.
	mux.HandleFunc("GET /api/checklist-options", h.List)
	mux.Handle("POST /api/checklist-options", manager(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/checklist-options/{id}", manager(http.HandlerFunc(h.GetByID)))
	mux.Handle("PUT /api/checklist-options/{id}", manager(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/checklist-options/{id}", manager(http.HandlerFunc(h.Delete)))
}

func registerMessageRoutes(mux *http.ServeMux, h *MessageHandlers) {
	staff := RequireStaff()

	mux.HandleFunc("POST /api/messages", h.Create)
	mux.Handle("GET /api/messages", staff(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/messages/{id}", staff(http.HandlerFunc(h.GetByID)))
	mux.Handle("POST /api/messages/{id}/handled", staff(http.HandlerFunc(h.MarkHandled)))
	mux.Handle("DELETE /api/messages/{id}", staff(http.HandlerFunc(h.Delete)))
}

func registerAdminUserRoutes(mux *http.ServeMux, h *AdminUserHandlers) {
	registerCRUD(mux, crudRoutes{
		Base:       "/api/admins",
		Create:     h.Create,
		List:       h.List,
		GetByID:    h.GetByID,
		Update:     h.Update,
		Delete:     h.Delete,
		Middleware: RequireManager(),
	})
}

// crudRoutes bundles standard CRUD handlers for one resource base path.
type crudRoutes struct {
	Base       string
	Create     http.HandlerFunc
	List       http.HandlerFunc
	GetByID    http.HandlerFunc
	Update     http.HandlerFunc
	Delete     http.HandlerFunc
	Middleware func(http.Handler) http.Handler
}

func registerCRUD(mux *http.ServeMux, cfg crudRoutes) {
	if cfg.Base == "" {
		panic("registerCRUD: Base must not be empty")
	}
	if cfg.Create == nil ||
		cfg.List == nil ||
		cfg.GetByID == nil ||
		cfg.Update == nil ||
		cfg.Delete == nil {
		panic("registerCRUD: nil handler for base " + cfg.Base)
	}

	wrap := func(h http.HandlerFunc) http.Handler {
		if cfg.Middleware != nil {
			return cfg.Middleware(h)
		}
		return h
	}
	mux.Handle("POST "+cfg.Base, wrap(cfg.Create))
	mux.Handle("GET "+cfg.Base, wrap(cfg.List))
	mux.Handle("GET "+cfg.Base+"/{id}", wrap(cfg.GetByID))
	mux.Handle("PUT "+cfg.Base+"/{id}", wrap(cfg.Update))
	mux.Handle("DELETE "+cfg.Base+"/{id}", wrap(cfg.Delete))
}
