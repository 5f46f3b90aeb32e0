package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/agenthands/supp/internal/config"
	"github.com/agenthands/supp/internal/core"
	"github.com/agenthands/supp/internal/driver"
	"github.com/agenthands/supp/internal/logger"
	"github.com/agenthands/supp/internal/search"
	"github.com/agenthands/supp/internal/server"
	"github.com/agenthands/supp/internal/snapshot"
)

func main() {
	envErr := godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = config.DefaultPath
	}
	cfg, err := config.Load(cfgPath)
	if err == nil {
		err = cfg.ApplyEnv()
	}

	log := logger.NewConsoleLogger(logger.ConsoleLoggerParams{Debug: cfg != nil && cfg.Log.Debug})
	if envErr != nil {
		log.Debug("No .env file found, using environment")
	}
	if err != nil {
		log.Fatal("Failed to load configuration", "path", cfgPath, "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snap, err := snapshot.Load(ctx, cfg.Data.Dir, cfg.Data.Archive, log)
	if err != nil {
		log.Fatal("Failed to load snapshot", "dir", cfg.Data.Dir, "err", err)
	}

	var provider search.Provider
	if cfg.Memgraph.URI != "" {
		d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, log)
		if err != nil {
			log.Fatal("Failed to connect to Memgraph", "uri", cfg.Memgraph.URI, "err", err)
		}
		defer d.Close(context.Background())
		provider = search.NewMemgraphProvider(d, cfg.Memgraph.SearchIndex(snap.Version), log)
	} else {
		log.Warn("MEMGRAPH_URI not set, search is disabled")
	}

	idx := core.NewIndex(snap, provider, log, core.Options{
		InteractionsPerPage: cfg.Server.InteractionsPerPage,
		SearchPageSize:      cfg.Server.SearchPageSize,
		SuggestPageSize:     cfg.Server.SuggestPageSize,
	})
	if err := idx.EnsureSearchIndex(ctx); err != nil {
		log.Fatal("Failed to build search index", "err", err)
	}

	if err := server.NewServer(idx, log).Run(ctx, ":"+cfg.Server.Port); err != nil {
		log.Fatal("Server failed", "err", err)
	}
	log.Info("Server stopped")
}
