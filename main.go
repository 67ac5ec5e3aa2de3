// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/assembleia/vote-server/cliparse"
	"github.com/assembleia/vote-server/db"
	"github.com/assembleia/vote-server/directory"
	"github.com/assembleia/vote-server/metrics"
	"github.com/assembleia/vote-server/middleware"
	"github.com/assembleia/vote-server/router"
	"github.com/assembleia/vote-server/voting"
)

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Apply migrations before opening the pool
	if err := db.RunMigrations(cfg.DatabaseType, cfg.DatabaseURL); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "database_type", cfg.DatabaseType)

	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Member directory: remote service when configured, otherwise
	// every member is treated as active.
	var dir directory.Directory
	if cfg.DirectoryURL != "" {
		dir = directory.NewHTTPDirectory(cfg.DirectoryURL)
		slog.Info("Using member directory", "url", cfg.DirectoryURL)
	} else {
		dir = directory.NewOpenDirectory()
		slog.Warn("No member directory configured; all members are eligible")
	}

	collector := metrics.NewCollector()
	engine := voting.NewEngine(dbConn, dir, collector)

	// Create router
	mux := router.NewRouter(engine, cfg, collector)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		slog.Info("Shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
