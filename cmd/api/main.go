package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/fieldreport-auth/internal/api/http"
	"github.com/spec-kit/fieldreport-auth/internal/api/http/handlers"
	"github.com/spec-kit/fieldreport-auth/internal/auth"
	"github.com/spec-kit/fieldreport-auth/internal/config"
	"github.com/spec-kit/fieldreport-auth/internal/events"
	"github.com/spec-kit/fieldreport-auth/internal/observability"
	"github.com/spec-kit/fieldreport-auth/internal/otp"
	"github.com/spec-kit/fieldreport-auth/internal/persistence"
	"github.com/spec-kit/fieldreport-auth/internal/repository"
	"github.com/spec-kit/fieldreport-auth/internal/service"
	"github.com/spec-kit/fieldreport-auth/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
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
		if err := persistence.RunMigrations(pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	refreshRepo := repository.NewRefreshTokenRepository(pool)
	moduleCounter := repository.NewCachedModuleCounter(
		repository.NewModuleRepository(pool),
		redis.Client,
		cfg.Cache.OnboardingCountTTL(),
		logger,
	)

	// Migrations may have changed the modules table behind a shared cache.
	if cached, ok := moduleCounter.(*repository.CachedModuleCounter); ok && cfg.Postgres.RunMigrations {
		if err := cached.Invalidate(ctx); err != nil {
			logger.Warn("failed to reset onboarding count cache", zap.Error(err))
		}
	}

	hasher, err := auth.NewSecretHasher(cfg.Auth.RefreshHasher, cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("invalid refresh hasher", zap.Error(err))
	}

	var gateway otp.Gateway
	if cfg.OTP.TwilioEnabled() {
		gateway = otp.NewTwilioGateway(cfg.OTP.TwilioAccountSID, cfg.OTP.TwilioAuthToken, cfg.OTP.TwilioServiceSID, cfg.OTP.Channel)
	} else {
		logger.Warn("twilio credentials missing; using development otp gateway")
		gateway = otp.NewDevGateway(cfg.OTP.DevCode, logger)
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	var publisher events.Publisher
	if cfg.Events.NATSURL != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.SubjectPrefix)
		if err != nil {
			logger.Warn("event forwarding disabled", zap.Error(err))
		} else {
			publisher = natsPublisher
			defer publisher.Close() //nolint:errcheck
		}
	}
	worker.StartEventForwarder(service.NewEventForwarder(dispatcher, publisher, logger))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:         userRepo,
		RefreshTokenRepo: refreshRepo,
		ModuleCounter:    moduleCounter,
		Gateway:          gateway,
		Hasher:           hasher,
		Dispatcher:       dispatcher,
		Metrics:          metrics,
		Logger:           logger,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics.Handler(),
	})

	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("env", cfg.App.Env),
			zap.Duration("access_token_ttl", authService.TokenManager().TTL()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
