package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/tune-labs/coverfix/internal/shared/config"
	"github.com/tune-labs/coverfix/internal/shared/logging"
	"github.com/tune-labs/coverfix/pkg/rewrite"
	"github.com/tune-labs/coverfix/pkg/tracks"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file")
		tracksPath = flag.String("tracks", "", "tracks file path or glob (overrides config)")
		baseURL    = flag.String("base-url", "", "base URL for rewritten cover art (overrides config)")
		workers    = flag.Int("workers", 0, "worker count: 1 sequential, >1 parallel, <0 all CPUs (overrides config)")
	)
	flag.Parse()

	cfg, err := config.LoadRewriter(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if *tracksPath != "" {
		cfg.TracksPath = *tracksPath
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *workers != 0 {
		cfg.Workers = *workers
	}

	logger := logging.NewSlogLogger(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	runID := uuid.New()

	logger.Info("Starting cover art rewrite",
		"run_id", runID.String(),
		"tracks", cfg.TracksPath,
		"base_url", cfg.BaseURL,
		"workers", cfg.Workers,
	)

	paths, err := tracks.FindCatalogs(cfg.TracksPath)
	if err != nil {
		logger.Fatal("Failed to find track catalogs", "error", err)
	}

	engine := rewrite.NewEngine(rewrite.Rule{BaseURL: cfg.BaseURL}, cfg.Workers, logger)
	for _, path := range paths {
		if err := processCatalog(path, cfg, engine, logger); err != nil {
			logger.Fatal("Rewrite failed", "path", path, "error", err)
		}
	}

	logger.Info("Rewrite completed", "run_id", runID.String(), "catalogs", len(paths))
}

func processCatalog(path string, cfg *config.RewriterConfig, engine *rewrite.Engine, logger logging.Logger) error {
	start := time.Now()

	if cfg.Write.Lock {
		release, err := tracks.AcquireLock(path)
		if err != nil {
			return err
		}
		defer release()
	}

	logger.Info("Reading track catalog", "path", path)
	catalog, err := tracks.LoadCatalog(path)
	if err != nil {
		return err
	}
	logger.Info("Updating tracks", "path", path, "tracks", len(catalog.Tracks))

	result, err := engine.Run(catalog.Tracks)
	if err != nil {
		return err
	}

	if cfg.Write.Atomic {
		err = catalog.StoreAtomic()
	} else {
		err = catalog.Store()
	}
	if err != nil {
		return err
	}

	logger.Info("Updated coverArt URLs",
		"path", path,
		"tracks", len(catalog.Tracks),
		"updated", result.Count,
		"elapsed", time.Since(start).String(),
	)
	return nil
}
