package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjordbyte/vipps-checkout-gateway/internal/account"
	"github.com/fjordbyte/vipps-checkout-gateway/internal/config"
	"github.com/fjordbyte/vipps-checkout-gateway/internal/interfaces/rest/handlers"
	"github.com/fjordbyte/vipps-checkout-gateway/internal/interfaces/rest/middleware"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting gateway service",
		"port", cfg.Server.Port,
		"accounts", len(cfg.ActiveAccounts()),
		"test_environment", cfg.TestEnvironment.Enabled,
	)

	refreshCtx, cancelRefresh := context.WithCancel(context.Background())
	defer cancelRefresh()

	accounts, err := account.Setup(refreshCtx, cfg, logger)
	if err != nil {
		logger.Error("account setup failed", "error", err)
		os.Exit(1)
	}

	h := handlers.New(accounts, cfg.Gateway.RobotsPath, logger)

	mux := http.NewServeMux()
	h.Register(mux)

	handler := http.Handler(mux)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.CORS()(handler)
	handler = middleware.Timeout(cfg.Server.WriteTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelRefresh()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
