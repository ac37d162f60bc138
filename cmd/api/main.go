package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/matmaster-backend/api/routes"
	"github.com/angelmondragon/matmaster-backend/internal/activity"
	"github.com/angelmondragon/matmaster-backend/internal/auth"
	"github.com/angelmondragon/matmaster-backend/internal/materials"
	"github.com/angelmondragon/matmaster-backend/internal/otp"
	"github.com/angelmondragon/matmaster-backend/internal/registration"
	"github.com/angelmondragon/matmaster-backend/internal/stock"
	"github.com/angelmondragon/matmaster-backend/internal/users"
	"github.com/angelmondragon/matmaster-backend/pkg/config"
	"github.com/angelmondragon/matmaster-backend/pkg/db"
	"github.com/angelmondragon/matmaster-backend/pkg/logger"
	"github.com/angelmondragon/matmaster-backend/pkg/mailer"
	"github.com/angelmondragon/matmaster-backend/pkg/metrics"
	"github.com/angelmondragon/matmaster-backend/pkg/migrate"
	"github.com/angelmondragon/matmaster-backend/pkg/redis"
	"github.com/angelmondragon/matmaster-backend/pkg/security"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := multierr.Combine(redisClient.Close(), dbClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing clients", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps, err := buildDependencies(cfg, logg, dbClient, redisClient, reg)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "api server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func buildDependencies(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, reg *prometheus.Registry) (routes.Dependencies, error) {
	conn := dbClient.DB()
	hasher := security.NewHasher(cfg.Password)
	userRepo := users.NewRepository(conn)
	materialRepo := materials.NewRepository(conn)

	sender, err := mailer.New(cfg.Mail, logg)
	if err != nil {
		return routes.Dependencies{}, err
	}

	activitySvc, err := activity.NewService(activity.ServiceParams{
		Repo:   activity.NewRepository(conn),
		Logger: logg,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	authSvc, err := auth.NewService(auth.ServiceParams{
		UserRepo:   userRepo,
		Passwords:  hasher,
		Activities: activitySvc,
		JWTConfig:  cfg.JWT,
		Logger:     logg,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	registrationSvc, err := registration.NewService(registration.ServiceParams{
		Repo:   registration.NewRepository(conn),
		Users:  userRepo,
		TX:     dbClient,
		Hasher: hasher,
		Mailer: sender,
		Logger: logg,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	otpSvc, err := otp.NewService(otp.ServiceParams{
		Repo:    otp.NewRepository(conn),
		Users:   userRepo,
		TX:      dbClient,
		Limiter: redisClient,
		Hasher:  hasher,
		Mailer:  sender,
		Metrics: metrics.NewOTPMetrics(reg),
		Config:  cfg.OTP,
		Logger:  logg,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	usersSvc, err := users.NewService(users.ServiceParams{
		Repo:       userRepo,
		Hasher:     hasher,
		Activities: activitySvc,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	materialsSvc, err := materials.NewService(materials.ServiceParams{
		Repo:   materialRepo,
		TX:     dbClient,
		Logger: logg,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	stockSvc, err := stock.NewService(stock.ServiceParams{
		Repo:      stock.NewRepository(conn),
		Materials: materialRepo,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	return routes.Dependencies{
		DB:           dbClient,
		Redis:        redisClient,
		RateLimits:   redisClient,
		Idempotency:  redisClient,
		Gatherer:     reg,
		HTTPMetrics:  metrics.NewHTTPMetrics(reg),
		Auth:         authSvc,
		Registration: registrationSvc,
		OTP:          otpSvc,
		Users:        usersSvc,
		Materials:    materialsSvc,
		Stock:        stockSvc,
	}, nil
}
