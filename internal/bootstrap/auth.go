package bootstrap

import (
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/glide-ceylon/gidz-uni-path-sub000/config"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/adapters/adminapi"
	redisadapter "github.com/glide-ceylon/gidz-uni-path-sub000/internal/adapters/redis"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/data"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/ports"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/service"
)

// AdminAuthDeps groups dependencies for building the admin credential source.
type AdminAuthDeps struct {
	Auth        config.AuthConfig
	RedisClient goredis.UniversalClient
	AdminUsers  *data.AdminUserRepo
	Logger      *slog.Logger
}

// BuildAdminAuthenticator selects the admin credential source by auth mode:
// the hosted admin-auth API, or the local admin_users table plus Redis-backed
// sessions.
//
//nolint:ireturn // the auth mode decides the concrete implementation at runtime.
func BuildAdminAuthenticator(deps AdminAuthDeps) (ports.AdminAuthenticator, error) {
	switch deps.Auth.Mode {
	case config.AuthModeRemote:
		client, err := adminapi.NewClient(adminapi.Config{
			BaseURL: deps.Auth.AdminAPI.BaseURL,
			Timeout: deps.Auth.AdminAPI.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("build admin api client: %w", err)
		}
		return client, nil

	case config.AuthModeLocal:
		return service.NewLocalAdminAuthService(service.LocalAdminAuthOptions{
			Accounts:    deps.AdminUsers,
			Sessions:    redisadapter.NewSessionStore(deps.RedisClient),
			Logger:      deps.Logger,
			SessionTTL:  deps.Auth.SessionTTL,
			RememberTTL: deps.Auth.RememberTTL,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported auth mode: %q", deps.Auth.Mode)
	}
}
