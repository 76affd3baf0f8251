package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asleulv/vervekart/common/database"
	commonlogger "github.com/asleulv/vervekart/common/logger"
	"github.com/asleulv/vervekart/internal/config"
	httpapi "github.com/asleulv/vervekart/internal/http"
	"github.com/asleulv/vervekart/internal/repository"
	"github.com/asleulv/vervekart/internal/service"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := commonlogger.NewLogger(cfg.Log.Level, cfg.Log.Format, "vervekart-api")
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.Info("Starting vervekart-api",
		zap.String("addr", cfg.HTTP.Addr),
		zap.Bool("db_enabled", cfg.DBEnabled),
	)

	var (
		db          *sql.DB
		usersRepo   repository.UsersRepository
		statusRepo  repository.StatusRepository
		statsRepo   repository.StatsRepository
		redisClient *redis.Client
	)

	if cfg.DBEnabled {
		db, err = database.NewPostgresDB(&cfg.Database)
		if err != nil {
			logger.Warn("Database unavailable, falling back to in-memory store", zap.Error(err))
			db = nil
		}
	}

	if db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := repository.InitSchema(ctx, db); err != nil {
			cancel()
			logger.Fatal("Failed to initialize schema", zap.Error(err))
		}
		cancel()

		usersRepo = repository.NewPostgresUsersRepository(db)
		statusRepo = repository.NewPostgresStatusRepository(db)
		statsRepo = repository.NewPostgresStatsRepository(db)
		logger.Info("Connected to PostgreSQL",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Database),
		)
		defer database.Close(db)
	} else {
		usersRepo = repository.NewMemoryUsersRepo()
		statusMem := repository.NewMemoryStatusRepo()
		statusRepo = statusMem
		statsRepo = statusMem
		logger.Warn("Running on in-memory store, data will not survive a restart")
	}

	var events *service.EventPublisher
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warn("Redis unavailable, status events disabled", zap.Error(err))
			_ = redisClient.Close()
			redisClient = nil
		} else {
			events = service.NewEventPublisher(redisClient, cfg.Redis.Stream, logger)
			logger.Info("Status event stream enabled",
				zap.String("addr", cfg.Redis.Addr),
				zap.String("stream", cfg.Redis.Stream),
			)
			defer redisClient.Close()
		}
	}

	userService := service.NewUserService(usersRepo, logger)
	statusService := service.NewStatusService(statusRepo, events, logger)
	statsService := service.NewStatsService(statsRepo, logger)

	var registry *service.AddressRegistryClient
	if cfg.AddressRegistry.BaseURL != "" {
		registry = service.NewAddressRegistryClient(cfg.AddressRegistry.BaseURL, logger)
		logger.Info("Address registry proxy enabled", zap.String("base_url", cfg.AddressRegistry.BaseURL))
	}

	router := httpapi.NewRouter(logger)
	router.RegisterStatusRoutes(
		httpapi.NewUserHandler(userService, logger),
		httpapi.NewStatusHandler(statusService, logger),
		httpapi.NewStatsHandler(statsService, logger),
	)
	router.RegisterAddressRoutes(httpapi.NewAddressHandler(registry, logger))
	router.RegisterExportRoutes(httpapi.NewExportHandler(statusService, statsService, logger))
	router.RegisterHealthRoutes(httpapi.NewHealthHandler(db, logger))

	handler := httpapi.CORS(cfg.CORS.Origins)(router)
	server := service.NewServer("vervekart-api", cfg.HTTP.Addr, handler, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Fatal("HTTP server failed", zap.Error(err))
	case sig := <-sigCh:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
	}
	logger.Info("vervekart-api stopped")
}
