package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/complaint-tracker/internal/api/http"
	"github.com/spec-kit/complaint-tracker/internal/api/http/handlers"
	"github.com/spec-kit/complaint-tracker/internal/auth"
	"github.com/spec-kit/complaint-tracker/internal/config"
	"github.com/spec-kit/complaint-tracker/internal/events"
	"github.com/spec-kit/complaint-tracker/internal/mail"
	"github.com/spec-kit/complaint-tracker/internal/observability"
	"github.com/spec-kit/complaint-tracker/internal/persistence"
	"github.com/spec-kit/complaint-tracker/internal/ratelimit"
	"github.com/spec-kit/complaint-tracker/internal/repository"
	"github.com/spec-kit/complaint-tracker/internal/service"
	"github.com/spec-kit/complaint-tracker/internal/worker"
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
	userRepo := repository.NewUserRepository(pool)
	complaintRepo := repository.NewComplaintRepository(pool)

	dispatcher := events.NewAsyncDispatcher(logger, 0)
	defer dispatcher.Close()

	mailer := mail.NewMailer(cfg.SMTP)
	notificationService := service.NewNotificationService(dispatcher, mailer, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(cfg.Auth, userRepo)
	complaintService := service.NewComplaintService(complaintRepo, dispatcher)
	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo)
	limiter := ratelimit.NewLimiter(redis.Client, logger, cfg.RateLimit)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:            handlers.NewAuthHandler(authService, cfg.App.IsProduction()),
		Complaints:      handlers.NewComplaintsHandler(complaintService),
		AdminComplaints: handlers.NewAdminComplaintsHandler(complaintService),
		AuthMiddleware:  authMiddleware,
		Limiter:         limiter,
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
