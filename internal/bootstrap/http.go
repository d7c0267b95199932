package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/glide-ceylon/gidz-uni-path-sub000/config"
	httpx "github.com/glide-ceylon/gidz-uni-path-sub000/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunHTTPServer starts the HTTP server and blocks until a shutdown signal
// arrives or the listener fails. Shutdown drains in-flight requests up to the
// configured timeout, then releases service resources.
func RunHTTPServer(ctx context.Context, cfg *HTTPServerConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler := httpx.NewRouter(httpx.RouterServices{
		Resolver:      cfg.Services.Resolver,
		Applications:  cfg.Services.Applications,
		Documents:     cfg.Services.Documents,
		Universities:  cfg.Services.Universities,
		Payments:      cfg.Services.Payments,
		Options:       cfg.Services.Options,
		Messages:      cfg.Services.Messages,
		AdminUsers:    cfg.Services.AdminUsers,
		CookieDomain:  appCfg.HTTP.CookieDomain,
		SecureCookies: appCfg.HTTP.SecureCookies && !appCfg.IsDev,
		Logger:        logger,
	})

	addr := appCfg.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(signalCtx)

	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(appCfg.HTTP.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("HTTP server stopped")
		return nil
	})

	err := g.Wait()

	if closeErr := cfg.Services.Close(); closeErr != nil {
		logger.Error("close services failed", "error", closeErr)
	}
	return err
}
