package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/premiumclub/portal/internal/config"
	"github.com/premiumclub/portal/internal/logger"
	"github.com/premiumclub/portal/internal/router"
	"github.com/premiumclub/portal/internal/setup"
)

const (
	defaultConfigPath = "config/config.yaml"
	readTimeout       = 5 * time.Second
	writeTimeout      = 15 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	loadLocalEnv()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}
	cfg := config.MustLoad(configPath)
	cfg.ApplyEnvOverrides()
	logger.Initialize(cfg.LogLevel, cfg.LogJSON)

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		log.Fatalf("setup: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Silent restore: with no stored credential this returns immediately
	// without touching the network.
	go deps.Sessions.Restore(ctx)

	server := &http.Server{
		Addr:         ":" + cfg.ListenPort,
		Handler:      router.New(deps.Handler, cfg.AllowedOrigins),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	go func() {
		logger.Log.Info("portal listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("shutdown failed", "error", err)
	}
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("skipping .env: %v", err)
	}
}
