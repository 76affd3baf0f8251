package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	commonlogger "github.com/asleulv/vervekart/common/logger"
	"github.com/asleulv/vervekart/internal/config"
	httpapi "github.com/asleulv/vervekart/internal/http"
	"github.com/asleulv/vervekart/internal/live"
	"github.com/asleulv/vervekart/internal/service"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := commonlogger.NewLogger(cfg.Log.Level, cfg.Log.Format, "vervekart-live")
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.Info("Starting vervekart-live", zap.String("addr", cfg.Live.Addr))

	hub := live.NewHub(logger)
	defer hub.Close()

	router := httpapi.NewRouter(logger)
	router.RegisterLiveRoutes(live.NewHandler(hub, logger), hub)

	// The broadcast state is ephemeral and unauthenticated, so every origin
	// is allowed.
	handler := httpapi.CORS([]string{"*"})(router)
	server := service.NewServer("vervekart-live", cfg.Live.Addr, handler, logger)

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
	logger.Info("vervekart-live stopped")
}
