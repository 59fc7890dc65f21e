package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adamanr/org_registry/internal/api"
	"github.com/adamanr/org_registry/internal/cache"
	"github.com/adamanr/org_registry/internal/config"
	"github.com/adamanr/org_registry/internal/database"
	logging "github.com/adamanr/org_registry/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the TOML config file")
	flag.Parse()

	bootLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.GetConfig(*configPath, bootLogger)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if err := cfg.ValidateStorage(); err != nil {
		log.Fatal("Invalid config:", err)
	}

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = "server.log"
	}
	logger := logging.SetupLogger(os.Stdout, logFile, "org_registry", cfg.LogLevel())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	requests := api.NewRequestCounter()
	lookups := cache.NewLookupCounter()
	registry.MustRegister(requests, lookups, collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	store, err := database.Open(ctx, cfg, lookups, logger)
	if err != nil {
		logger.Error("Failed to open storage", slog.Any("error", err))
		return
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Error closing storage", slog.Any("error", err))
		}
	}()

	server := api.NewServer(store.Repos, logger)

	s := &http.Server{
		Handler:           api.NewRouter(server, logger, requests, registry),
		Addr:              cfg.Server.Host,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", slog.Any("error", err))
		}
	}()

	logger.Info("Server is starting", slog.String("address", cfg.Server.Host))
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server stopped", slog.Any("error", err))
		return
	}

	logger.Info("Server stopped")
}
