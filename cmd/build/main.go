// Package main provides the catalog build command: it reads an inventory
// CSV export and writes a static, searchable HTML catalog.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/shopfrontapp/shopfront/internal/catalog"
	"github.com/shopfrontapp/shopfront/internal/config"
	"github.com/shopfrontapp/shopfront/internal/id"
	"github.com/shopfrontapp/shopfront/internal/inventory"
	"github.com/shopfrontapp/shopfront/internal/logger"
	"github.com/shopfrontapp/shopfront/internal/photos"
	"github.com/shopfrontapp/shopfront/internal/search"
	"github.com/shopfrontapp/shopfront/internal/watcher"
)

func main() {
	cfg, err := config.LoadBuild(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Format: cfg.Logger.Format,
		Level:  logger.ParseLevel(cfg.Logger.Level),
	})

	if err := build(cfg, log); err != nil {
		log.Error("build failed", "error", err)
		os.Exit(1)
	}

	if !cfg.Watch {
		return
	}

	if err := watch(cfg, log); err != nil {
		log.Error("watch failed", "error", err)
		os.Exit(1)
	}
}

// build runs one full CSV-to-catalog pass.
func build(cfg *config.BuildConfig, log *slog.Logger) error {
	runID := id.MustGenerate("run")
	start := time.Now()
	log.Info("building catalog",
		"run_id", runID,
		"csv", cfg.CSVPath,
		"out", cfg.OutputDir,
	)

	ds, err := inventory.ReadFile(cfg.CSVPath)
	if err != nil {
		return err
	}
	log.Info("inventory loaded", "rows", len(ds.Rows))

	manifest, err := photos.LoadManifest(cfg.PhotosDir)
	if err != nil {
		log.Warn("photo manifest unreadable, building without photos", "error", err)
		manifest = photos.NewManifest()
	}

	builder := catalog.NewBuilder(ds.Columns, catalog.BuilderConfig{
		MinStock:        cfg.MinStock,
		NormalizeTitles: !cfg.RawTitles,
	}, photoMap(manifest, cfg.OutputDir, cfg.PhotosDir))

	records := make([]catalog.Record, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		records = append(records, builder.Build(row))
	}

	page := catalog.Assemble(records, catalog.AssembleOptions{
		PageTitle:      cfg.PageTitle,
		Category:       cfg.Category,
		MinStock:       cfg.MinStock,
		ShowOutOfStock: cfg.ShowOOS,
		MaxRecords:     cfg.MaxRecords,
	})

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	outPath := filepath.Join(cfg.OutputDir, "catalog.html")
	if err := catalog.WriteFile(outPath, page); err != nil {
		return err
	}

	if cfg.WriteIndex {
		if err := writeIndex(cfg.OutputDir, page.Records, log); err != nil {
			return err
		}
	}

	log.Info("catalog written",
		"run_id", runID,
		"path", outPath,
		"products", page.Total(),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// writeIndex rebuilds the search index next to the HTML output.
func writeIndex(dir string, records []catalog.Record, log *slog.Logger) error {
	ix, err := search.Open(search.Options{DataPath: dir, Logger: log})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := ix.Close(); closeErr != nil {
			log.Warn("failed to close search index", "error", closeErr)
		}
	}()

	// Full rebuild every run so removed products do not linger.
	if err := ix.Reset(); err != nil {
		return err
	}

	docs := make([]*search.Document, 0, len(records))
	for i := range records {
		docs = append(docs, search.FromRecord(&records[i]))
	}
	if err := ix.IndexRecords(docs); err != nil {
		return err
	}

	log.Info("search index written", "documents", len(docs))
	return nil
}

// watch rebuilds the catalog whenever the CSV changes, until interrupted.
func watch(cfg *config.BuildConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(cfg.CSVPath, 0, log)
	if err != nil {
		return err
	}

	go func() {
		if watchErr := w.Start(ctx); watchErr != nil {
			log.Error("watcher stopped", "error", watchErr)
			stop()
		}
	}()

	log.Info("watching for changes", "csv", cfg.CSVPath)

	for {
		select {
		case <-ctx.Done():
			log.Info("stopping watch")
			return nil
		case path := <-w.Changes():
			log.Info("inventory changed, rebuilding", "path", path)
			if err := build(cfg, log); err != nil {
				// Keep watching; a partial CSV write often fixes
				// itself on the next change event.
				log.Error("rebuild failed", "error", err)
			}
		}
	}
}

// photoMap flattens the manifest into the lookup the builder consumes,
// with photo paths resolved relative to the catalog output directory.
func photoMap(m *photos.Manifest, outputDir, photosDir string) map[string]catalog.Photo {
	entries := m.Resolve(outputDir, photosDir)
	out := make(map[string]catalog.Photo, len(entries))
	for sku, entry := range entries {
		out[sku] = catalog.Photo{Path: entry.Path, BlurHash: entry.BlurHash}
	}
	return out
}
