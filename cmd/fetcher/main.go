package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/adamanr/org_registry/internal/config"
	"github.com/adamanr/org_registry/internal/fetcher"
	logging "github.com/adamanr/org_registry/internal/utils"
)

// Every failure is logged and the process still exits with status 0.
func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the TOML config file")
	flag.Parse()

	bootLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.GetConfig(*configPath, bootLogger)
	if err != nil {
		bootLogger.Error("Failed to load config", slog.Any("error", err))
		return
	}

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = "fetcher.log"
	}
	logger := logging.SetupLogger(os.Stdout, logFile, "fetcher", cfg.LogLevel())

	f := fetcher.New(&http.Client{Timeout: cfg.Fetcher.Timeout}, logger)

	if err := f.Run(context.Background(), cfg.Fetcher.URL, cfg.Fetcher.Output); err != nil {
		logger.Error("Failed to save JSON file",
			slog.String("url", cfg.Fetcher.URL),
			slog.String("output", cfg.Fetcher.Output),
			slog.String("error", err.Error()),
		)
	}
}
