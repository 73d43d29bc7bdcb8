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
	"github.com/spec-kit/enquiry-console/internal/config"
	"github.com/spec-kit/enquiry-console/internal/console"
	"github.com/spec-kit/enquiry-console/internal/leadstore"
	"github.com/spec-kit/enquiry-console/internal/observability"
	"github.com/spec-kit/enquiry-console/internal/reconcile"
	"github.com/spec-kit/enquiry-console/internal/remote"
	"github.com/spec-kit/enquiry-console/internal/validation"
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

	if cfg.Console.APIToken == "" {
		logger.Warn("CONSOLE_API_TOKEN is empty; backend calls will be rejected")
	}

	backend := remote.NewClient(cfg.Console.BackendURL, cfg.Console.APIToken, cfg.Console.UpstreamTimeout())
	store := leadstore.New()
	metrics := observability.NewMetrics()

	reconciler, err := reconcile.New(reconcile.Dependencies{
		Store:     store,
		Enquiries: backend.Enquiries(),
		Handlers:  backend.Handlers(),
		Logger:    logger,
		Metrics:   metrics,
	})
	if err != nil {
		logger.Fatal("failed to build reconciler", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Console.UpstreamTimeout())
	if _, err := reconciler.Load(ctx); err != nil {
		logger.Warn("initial load failed; polling will retry", zap.Error(err))
	}
	cancel()

	scheduler := reconcile.NewScheduler(reconciler, cfg.Console.PollInterval(), cfg.Console.UpstreamTimeout(), logger)
	scheduler.Start()
	defer scheduler.Stop()

	validator := validation.New()
	consoleService, err := console.NewService(console.Dependencies{
		Store:     store,
		Syncer:    reconciler,
		Enquiries: backend.Enquiries(),
		Clients:   backend.Clients(),
		Validator: validator,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("failed to build console", zap.Error(err))
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name + "-console"})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterConsoleRoutes(app, httptransport.ConsoleRouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name+"-console", cfg.App.Version, map[string]handlers.Pinger{
			"backend": backend,
		}),
		Console: handlers.NewConsoleHandler(consoleService, metrics),
	})

	go func() {
		if err := app.Listen(cfg.Console.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))

	_ = app.Shutdown()
}
