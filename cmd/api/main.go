package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/enquiry-console/internal/api/http"
	"github.com/spec-kit/enquiry-console/internal/api/http/handlers"
	"github.com/spec-kit/enquiry-console/internal/auth"
	"github.com/spec-kit/enquiry-console/internal/cache"
	"github.com/spec-kit/enquiry-console/internal/config"
	"github.com/spec-kit/enquiry-console/internal/events"
	"github.com/spec-kit/enquiry-console/internal/observability"
	"github.com/spec-kit/enquiry-console/internal/persistence"
	"github.com/spec-kit/enquiry-console/internal/repository"
	"github.com/spec-kit/enquiry-console/internal/service"
	"github.com/spec-kit/enquiry-console/internal/validation"
	"github.com/spec-kit/enquiry-console/internal/worker"
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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	leadRepo := repository.NewLeadRepository(pool)
	handlerRepo := repository.NewHandlerRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)

	var clientCache cache.Cache = cache.NewNoop()
	readiness := map[string]handlers.Pinger{"postgres": pg}
	if redis.Enabled() {
		clientCache = cache.NewRedis(redis.Client, "enquiry:")
		readiness["redis"] = redis
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService, logger)

	authService := service.NewAuthService(*cfg, handlerRepo)
	rosterService := service.NewRosterService(*cfg, handlerRepo)
	enquiryService := service.NewEnquiryService(service.EnquiryDependencies{
		LeadRepo:       leadRepo,
		HandlerRepo:    handlerRepo,
		AssignmentRepo: assignmentRepo,
		Tx:             repository.NewTxRunner(pool),
		Dispatcher:     dispatcher,
	})
	clientService := service.NewClientService(service.ClientDependencies{
		ClientRepo: clientRepo,
		Cache:      clientCache,
		TTL:        cfg.Redis.ClientCacheTTLDuration(),
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), handlerRepo)

	validator := validation.New()
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, readiness),
		Auth:           handlers.NewAuthHandler(authService, validator),
		Enquiries:      handlers.NewEnquiriesHandler(enquiryService, validator),
		Roster:         handlers.NewRosterHandler(rosterService, validator),
		Clients:        handlers.NewClientsHandler(clientService, validator),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
