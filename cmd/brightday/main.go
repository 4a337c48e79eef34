// Command brightday serves the planner state over a local JSON API.
//
// Configuration comes from brightday.yaml (or -config / BRIGHTDAY_CONFIG),
// overridden by BRIGHTDAY_* environment variables. The file is created with
// defaults on first run.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/sakif/brightday/internal/config"
	"github.com/sakif/brightday/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	path := config.ResolvePath(*configPath)
	cfg, err := config.Load(path)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", path), slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)
	logger.Info("config loaded", slog.String("path", path))

	srv, err := server.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT or SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
