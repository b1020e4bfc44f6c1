package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/maintenance-desk/internal/api/http"
	"github.com/spec-kit/maintenance-desk/internal/api/http/handlers"
	"github.com/spec-kit/maintenance-desk/internal/auth"
	"github.com/spec-kit/maintenance-desk/internal/classifier"
	"github.com/spec-kit/maintenance-desk/internal/config"
	"github.com/spec-kit/maintenance-desk/internal/events"
	"github.com/spec-kit/maintenance-desk/internal/observability"
	"github.com/spec-kit/maintenance-desk/internal/persistence"
	"github.com/spec-kit/maintenance-desk/internal/repository"
	"github.com/spec-kit/maintenance-desk/internal/service"
	"github.com/spec-kit/maintenance-desk/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	personRepo := repository.NewPersonRepository(pool)

	passcodeStore := auth.NewRedisPasscodeStore(redis.Client)
	authService := service.NewAuthService(cfg.Auth, personRepo, passcodeStore, logger)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), personRepo)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	classifierClient := classifier.NewClient(cfg.Classifier)
	intakeService := service.NewIntakeService(classifierClient, ticketRepo, dispatcher, logger)
	ticketService := service.NewTicketService(ticketRepo, dispatcher)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Chat:           handlers.NewChatHandler(intakeService),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		People:         handlers.NewPeopleHandler(personRepo),
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
