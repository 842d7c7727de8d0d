// Package main provides a standalone REST API server for deck analysis.
// It is what frontends and E2E tests run against; deckcheck serve starts
// the same server from the CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/api"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/app"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/config"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/version"
)

var (
	port       = flag.Int("port", 0, "API server port (default from config, 8080)")
	dbPath     = flag.String("db-path", "", "Database path (default: ~/.ptcg-companion/data.db)")
	configPath = flag.String("config", "", "Config file (default: ~/.ptcg-companion/config.toml)")
	verbose    = flag.Bool("verbose", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	logger, err := cfg.NewLogger(*verbose)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger, app.Options{DatabasePath: *dbPath})
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("Error closing application", zap.Error(err))
		}
	}()

	server := api.NewServer(api.ConfigFrom(cfg, version.GetVersion()), a.Service, logger.Named("api"))
	if err := server.Start(); err != nil {
		logger.Error("Failed to start API server", zap.Error(err))
		return
	}

	fmt.Printf("PTCG deck API %s running at http://localhost:%d\n", version.GetVersion(), server.Port())
	fmt.Println("Press Ctrl+C to stop")

	<-ctx.Done()
	fmt.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
}
