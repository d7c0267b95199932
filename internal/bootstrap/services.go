package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/glide-ceylon/gidz-uni-path-sub000/config"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/adapters/localfs"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/adapters/logmail"
	redisadapter "github.com/glide-ceylon/gidz-uni-path-sub000/internal/adapters/redis"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/data"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Resolver     *service.ResolverService
	Applications *service.ApplicationService
	Documents    *service.DocumentService
	Universities *service.UniversityService
	Payments     *service.PaymentService
	Options      *service.OptionService
	Messages     *service.MessageService
	AdminUsers   *service.AdminUserService

	// AuthEvents is owned here so shutdown can stop its receive loop.
	AuthEvents *redisadapter.AuthEvents
}

// Close releases service-held resources: the resolver subscription and the
// Redis receive loop.
func (c *ServiceContainer) Close() error {
	if c.Resolver != nil {
		c.Resolver.Close()
	}
	if c.AuthEvents != nil {
		return c.AuthEvents.Close()
	}
	return nil
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient goredis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Applications *data.ApplicationRepo
	Documents    *data.DocumentRepo
	Universities *data.UniversityRepo
	Payments     *data.PaymentRepo
	Options      *data.OptionRepo
	Messages     *data.MessageRepo
	AdminUsers   *data.AdminUserRepo
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB) *serviceRepositories {
	return &serviceRepositories{
		Applications: data.NewApplicationRepo(db),
		Documents:    data.NewDocumentRepo(db),
		Universities: data.NewUniversityRepo(db),
		Payments:     data.NewPaymentRepo(db),
		Options:      data.NewOptionRepo(db),
		Messages:     data.NewMessageRepo(db),
		AdminUsers:   data.NewAdminUserRepo(data.AdminUserRepoOptions{DB: db}),
	}
}

// NewServices wires repositories, adapters, and services into a container.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.AppConfig{}
	}

	repos := buildRepositories(deps.DB)

	files, err := localfs.NewStore(cfg.Storage.Root, cfg.Storage.PublicURL)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build file store: %w", err)
	}
	mailer := logmail.NewMailer(logger)

	adminAuth, err := BuildAdminAuthenticator(AdminAuthDeps{
		Auth:        cfg.Auth,
		RedisClient: deps.RedisClient,
		AdminUsers:  repos.AdminUsers,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	identityCache := redisadapter.NewIdentityCache(redisadapter.IdentityCacheOptions{
		Client: deps.RedisClient,
		TTL:    cfg.Auth.RememberTTL,
	})
	authEvents := redisadapter.NewAuthEvents(redisadapter.AuthEventsOptions{
		Client: deps.RedisClient,
		Logger: logger,
	})

	resolver := service.NewResolverService(service.ResolverOptions{
		Clients:         repos.Applications,
		Admins:          adminAuth,
		Cache:           identityCache,
		Events:          authEvents,
		Logger:          logger,
		ValidateTimeout: cfg.Auth.ValidateTimeout,
		MemoTTL:         cfg.Auth.ResolveMemoTTL,
	})

	return ServiceContainer{
		Resolver: resolver,
		Applications: service.NewApplicationService(service.ApplicationServiceOptions{
			Apps:      repos.Applications,
			Documents: repos.Documents,
			Payments:  repos.Payments,
			Mailer:    mailer,
			Logger:    logger,
		}),
		Documents: service.NewDocumentService(service.DocumentServiceOptions{
			Docs:   repos.Documents,
			Files:  files,
			Logger: logger,
		}),
		Universities: service.NewUniversityService(service.UniversityServiceOptions{
			Universities: repos.Universities,
			Files:        files,
			Logger:       logger,
		}),
		Payments: service.NewPaymentService(service.PaymentServiceOptions{
			Payments: repos.Payments,
			Logger:   logger,
		}),
		Options: service.NewOptionService(service.OptionServiceOptions{
			Options: repos.Options,
		}),
		Messages: service.NewMessageService(service.MessageServiceOptions{
			Messages:     repos.Messages,
			Mailer:       mailer,
			Logger:       logger,
			InboxAddress: cfg.Mail.InboxAddress,
		}),
		AdminUsers: service.NewAdminUserService(service.AdminUserServiceOptions{
			Accounts: repos.AdminUsers,
			Logger:   logger,
		}),
		AuthEvents: authEvents,
	}, nil
}
