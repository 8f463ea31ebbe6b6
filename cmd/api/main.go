package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/blog-service/internal/api/http"
	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/observability"
	"github.com/spec-kit/blog-service/internal/persistence"
	"github.com/spec-kit/blog-service/internal/repository"
	"github.com/spec-kit/blog-service/internal/service"
	"github.com/spec-kit/blog-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	userRepo, blogRepo := buildRepositories(pg)
	blogRepo = repository.NewCachedBlogRepository(blogRepo, redis.Handle(), cfg.Blog.CacheTTL(), logger)
	credentials := repository.NewCredentialStore(userRepo)

	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	tokens := auth.NewTokenManager([]byte(cfg.Auth.JWTSecret))
	authenticator, err := auth.NewAuthenticator(credentials, hasher, tokens, cfg.Auth.AccessTokenTTL(), logger)
	if err != nil {
		logger.Fatal("failed to build authenticator", zap.Error(err))
	}
	authorizer := auth.NewAuthorizer()

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notifications := worker.StartNotificationWorker(notificationService, dispatcher, 0, logger)

	metrics := observability.NewMetrics()
	userService := service.NewUserService(service.UserDependencies{
		UserRepo:   userRepo,
		Hasher:     hasher,
		Authorizer: authorizer,
		Dispatcher: notifications,
		Logger:     logger,
	})
	blogService := service.NewBlogService(service.BlogDependencies{
		BlogRepo:     blogRepo,
		Authors:      credentials,
		Authorizer:   authorizer,
		Dispatcher:   notifications,
		DefaultLimit: cfg.Blog.PageLimit,
		Logger:       logger,
	})
	authService := service.NewAuthService(authenticator, metrics, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Blogs:          handlers.NewBlogsHandler(blogService),
		AuthMiddleware: auth.NewAuthMiddleware(authenticator, authorizer),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}

	drainCtx, drainCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer drainCancel()
	if err := notifications.Stop(drainCtx); err != nil {
		logger.Warn("notification worker did not drain", zap.Error(err))
	}
}

// buildRepositories picks Postgres when a pool is available and falls back
// to process memory otherwise.
func buildRepositories(pg *persistence.Postgres) (repository.UserRepository, repository.BlogRepository) {
	if pg.Configured() {
		pool := pg.PoolHandle()
		return repository.NewUserRepository(pool), repository.NewBlogRepository(pool)
	}
	return repository.NewMemoryRepositories()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
