// Package main provides the photo fetch command: it finds and stores one
// product photo per SKU from web image search.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/shopfrontapp/shopfront/internal/config"
	"github.com/shopfrontapp/shopfront/internal/id"
	"github.com/shopfrontapp/shopfront/internal/inventory"
	"github.com/shopfrontapp/shopfront/internal/logger"
	"github.com/shopfrontapp/shopfront/internal/photos"
)

func main() {
	cfg, err := config.LoadPhotos(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Format: cfg.Logger.Format,
		Level:  logger.ParseLevel(cfg.Logger.Level),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("fetch interrupted; progress saved")
			return
		}
		log.Error("photo fetch failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.PhotosConfig, log *slog.Logger) error {
	runID := id.MustGenerate("fetch")
	log.Info("fetching product photos",
		"run_id", runID,
		"csv", cfg.CSVPath,
		"outdir", cfg.OutputDir,
	)

	ds, err := inventory.ReadFile(cfg.CSVPath)
	if err != nil {
		return err
	}

	storage, err := photos.NewStorage(cfg.OutputDir)
	if err != nil {
		return err
	}

	manifest, err := photos.LoadManifest(cfg.OutputDir)
	if err != nil {
		return err
	}

	journal, err := photos.OpenJournal(filepath.Join(cfg.OutputDir, ".journal"), log)
	if err != nil {
		// The journal only avoids repeat attempts; fetch without it.
		log.Warn("attempt journal unavailable", "error", err)
		journal = nil
	} else {
		defer func() {
			if closeErr := journal.Close(); closeErr != nil {
				log.Warn("failed to close journal", "error", closeErr)
			}
		}()
	}

	fetcher := photos.NewFetcher(
		photos.NewDuckDuckGo(log),
		storage,
		manifest,
		journal,
		photos.FetcherConfig{
			Limit:     cfg.Limit,
			Overwrite: cfg.Overwrite,
			Pause:     cfg.Sleep,
		},
		log,
	)

	result, runErr := fetcher.Run(ctx, ds)

	// Save whatever was fetched even when the run was cut short.
	if result != nil {
		if saveErr := manifest.Save(cfg.OutputDir); saveErr != nil {
			return saveErr
		}
		log.Info("fetch run finished",
			"run_id", runID,
			"attempted", result.Attempted,
			"saved", result.Saved,
			"skipped", result.Skipped,
		)
	}

	return runErr
}
