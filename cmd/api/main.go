package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shareit/internal/api"
	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/logging"
	"shareit/internal/metrics"
	"shareit/internal/repository"
	"shareit/internal/service"
	"shareit/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, base, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}
	logger := *logging.Component(base, "api-main")

	db, err := database.NewDB(cfg.Database.Path, logging.Component(base, "database"))
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	limits, memoryLimits := initRateLimitStore(redisClient, base)

	bus := events.NewEventBus()
	services := buildServices(db, bus, base)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, cfg, bus, &logger)
	startWorkers(ctx, cfg, memoryLimits, base)

	var grpcServer *api.GRPCServer
	if cfg.API.GRPC.Enabled {
		grpcServer, err = api.NewGRPCServer(cfg, services.Bookings, base)
		if err != nil {
			logger.Error().Err(err).Msg("create grpc server")
			return err
		}
	}

	var httpServer *api.HTTPServer
	if cfg.API.HTTP.Enabled {
		if cfg.App.Environment == "production" {
			gin.SetMode(gin.ReleaseMode)
		}
		httpServer = api.NewHTTPServer(cfg, services, db, limits, base)
	}

	return startServers(ctx, grpcServer, httpServer, &logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, baseLogger, closer, nil
}

func buildServices(db *database.DB, bus *events.EventBus, logger *zerolog.Logger) api.Services {
	clock := domain.SystemClock{}
	validator := service.NewValidator(db, db, db, db, clock)
	bookings := service.NewBookingService(db, db, validator, bus, clock, logging.Component(logger, "bookings"))

	return api.Services{
		Users:    service.NewUserService(db, logging.Component(logger, "users")),
		Items:    service.NewItemService(db, db, db, bookings, validator, logging.Component(logger, "items")),
		Requests: service.NewRequestService(db, db, validator, logging.Component(logger, "requests")),
		Bookings: bookings,
	}
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing with in-memory rate limits")
		_ = redisClient.Close()
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// initRateLimitStore prefers redis and falls back to process memory while it is down.
func initRateLimitStore(
	redisClient *redis.Client,
	logger *zerolog.Logger,
) (domain.RateLimitStore, *repository.MemoryRateLimitStore) {
	memory := repository.NewMemoryRateLimitStore()
	if redisClient == nil {
		return memory, memory
	}
	return repository.NewFailoverRateLimitStore(
		repository.NewRedisRateLimitStore(redisClient),
		memory,
		logging.Component(logger, "rate-limit"),
	), memory
}

// startWorkers launches housekeeping loops that live as long as ctx.
func startWorkers(ctx context.Context, cfg *config.Config, memory *repository.MemoryRateLimitStore, logger *zerolog.Logger) {
	workerLogger := logging.Component(logger, "worker")

	prune := worker.NewPeriodic("rate-limit-prune", time.Minute, worker.RetryPolicy{}, func(context.Context) error {
		memory.Prune()
		return nil
	}, workerLogger)
	go prune.Start(ctx)

	if cfg.Backup.IntervalHours > 0 {
		backups := database.NewBackupService(cfg.Database.Path, cfg.Backup, logging.Component(logger, "backup"))
		retry := worker.RetryPolicy{MaxRetries: 3, InitialDelay: 5 * time.Second, MaxDelay: time.Minute}
		interval := time.Duration(cfg.Backup.IntervalHours) * time.Hour
		go worker.NewPeriodic("backup", interval, retry, backups.Run, workerLogger).Start(ctx)
	}
}

func startMetrics(ctx context.Context, cfg *config.Config, bus *events.EventBus, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	metrics.SubscribeBookingEvents(bus)
	go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
}

func startServers(
	ctx context.Context,
	grpcServer *api.GRPCServer,
	httpServer *api.HTTPServer,
	logger *zerolog.Logger,
) error {
	serveErr := make(chan error, 2)
	if grpcServer != nil {
		go func() {
			if err := grpcServer.Serve(); err != nil {
				serveErr <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	if httpServer != nil {
		go func() {
			if err := httpServer.Start(); err != nil {
				serveErr <- fmt.Errorf("http server: %w", err)
			}
		}()
	}

	logger.Info().Bool("grpc", grpcServer != nil).Bool("http", httpServer != nil).Msg("API server started")

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case runErr = <-serveErr:
		logger.Error().Err(runErr).Msg("server stopped unexpectedly")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if grpcServer != nil {
		grpcServer.Shutdown(shutdownCtx)
	}
	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("http shutdown")
		}
	}

	logger.Info().Msg("API server stopped")
	return runErr
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
