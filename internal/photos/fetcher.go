package photos

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopfrontapp/shopfront/internal/inventory"
	"github.com/shopfrontapp/shopfront/internal/normalize"
)

// FetcherConfig controls a fetch run.
type FetcherConfig struct {
	// Limit caps how many products are attempted per run (0 = unlimited).
	Limit int
	// Overwrite refetches photos that already exist on disk.
	Overwrite bool
	// Pause is the delay between products. One request is in flight at a
	// time; this spaces out whole products, not individual candidates.
	Pause time.Duration
	// MaxCandidates bounds the per-product retry loop.
	MaxCandidates int
}

// FetchResult summarizes a fetch run.
type FetchResult struct {
	Attempted int
	Saved     int
	Skipped   int
}

// Fetcher walks an inventory dataset and stores one photo per SKU.
type Fetcher struct {
	searcher   Searcher
	downloader *Downloader
	storage    *Storage
	manifest   *Manifest
	journal    *Journal // optional
	cfg        FetcherConfig
	logger     *slog.Logger
}

// NewFetcher creates a photo fetcher. journal may be nil to disable attempt
// bookkeeping.
func NewFetcher(searcher Searcher, storage *Storage, manifest *Manifest, journal *Journal, cfg FetcherConfig, logger *slog.Logger) *Fetcher {
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = 14
	}
	if cfg.Pause <= 0 {
		cfg.Pause = time.Second
	}
	return &Fetcher{
		searcher:   searcher,
		downloader: NewDownloader(),
		storage:    storage,
		manifest:   manifest,
		journal:    journal,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run fetches photos for every row in the dataset that has a SKU and no
// stored photo yet. Rows are processed sequentially with a fixed pause
// between them. The context cancels the run between products.
func (f *Fetcher) Run(ctx context.Context, ds *inventory.Dataset) (*FetchResult, error) {
	result := &FetchResult{}
	cols := ds.Columns

	for _, row := range ds.Rows {
		if f.cfg.Limit > 0 && result.Attempted >= f.cfg.Limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		sku := row.Get(cols.Column(inventory.FieldSKU))
		if sku == "" {
			continue
		}
		if !f.cfg.Overwrite && f.storage.Exists(sku) {
			result.Skipped++
			continue
		}
		if f.journal != nil && !f.cfg.Overwrite && f.journal.ShouldSkip(sku) {
			result.Skipped++
			continue
		}

		manufacturer := row.Get(cols.Column(inventory.FieldManufacturer))
		title := normalize.Title(row.Get(cols.Column(inventory.FieldTitle)), manufacturer)
		query := Query(title, manufacturer, sku)

		result.Attempted++
		if f.fetchOne(ctx, sku, query) {
			result.Saved++
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(f.cfg.Pause):
		}
	}

	return result, nil
}

// fetchOne tries successive candidates for one product until a download
// decodes and stores cleanly, or the candidate list is exhausted.
func (f *Fetcher) fetchOne(ctx context.Context, sku, query string) bool {
	candidates, err := f.searcher.Search(ctx, query, f.cfg.MaxCandidates)
	if err != nil {
		f.logger.Warn("image search failed", "sku", sku, "query", query, "error", err)
		f.record(AttemptRecord{SKU: sku, Outcome: OutcomeNoResults})
		return false
	}
	if len(candidates) == 0 {
		f.logger.Debug("no usable candidates", "sku", sku, "query", query)
		f.record(AttemptRecord{SKU: sku, Outcome: OutcomeNoResults})
		return false
	}

	for i, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return false
		}

		data, err := f.downloader.Download(ctx, candidate.URL)
		if err != nil {
			f.logger.Debug("candidate download failed",
				"sku", sku, "url", candidate.URL, "error", err)
			continue
		}

		encoded, img, err := Normalize(data)
		if err != nil {
			f.logger.Debug("candidate not decodable",
				"sku", sku, "url", candidate.URL, "error", err)
			continue
		}

		if err := f.storage.Save(sku, encoded); err != nil {
			f.logger.Warn("failed to store photo", "sku", sku, "error", err)
			continue
		}

		entry := Entry{
			Path:   safeFilename(sku) + ".jpg",
			Source: candidate.Source,
			Width:  img.Bounds().Dx(),
			Height: img.Bounds().Dy(),
		}
		if hash, err := ComputeBlurHash(img); err == nil {
			entry.BlurHash = hash
		} else {
			f.logger.Debug("blurhash failed", "sku", sku, "error", err)
		}
		f.manifest.Set(sku, entry)

		f.record(AttemptRecord{
			SKU:        sku,
			Outcome:    OutcomeSaved,
			URL:        candidate.URL,
			Candidates: i + 1,
		})
		f.logger.Info("saved photo",
			"sku", sku,
			"source", candidate.Source,
			"size", len(encoded),
			"tried", i+1,
		)
		return true
	}

	f.record(AttemptRecord{SKU: sku, Outcome: OutcomeExhausted, Candidates: len(candidates)})
	f.logger.Info("all candidates failed", "sku", sku, "candidates", len(candidates))
	return false
}

// record writes to the journal when one is configured.
func (f *Fetcher) record(rec AttemptRecord) {
	if f.journal == nil {
		return
	}
	if err := f.journal.Record(rec); err != nil {
		f.logger.Warn("journal write failed", "sku", rec.SKU, "error", err)
	}
}
