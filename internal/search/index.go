package search

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// Index wraps a Bleve index over product documents.
//
// All public methods are safe for concurrent use. The mutex guards against
// index swaps during rebuilds.
type Index struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the search index.
type Options struct {
	DataPath string       // Directory for index storage
	Logger   *slog.Logger // Uses a stderr logger if nil
}

// mappingVersion is bumped whenever the index mapping changes, which
// triggers a rebuild on next open.
const mappingVersion = "1"

// Open creates or opens a product index under opts.DataPath. A corrupted
// index or one built with an older mapping is removed and recreated empty;
// the caller reindexes from the catalog, which is always rebuildable.
func Open(opts Options) (*Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	indexPath := filepath.Join(opts.DataPath, "products.bleve")
	versionPath := filepath.Join(opts.DataPath, "products.version")

	var index bleve.Index
	var err error
	rebuild := false

	exists := false
	if _, statErr := os.Stat(indexPath); statErr == nil {
		exists = true
	}

	if exists {
		version, readErr := os.ReadFile(versionPath)
		if readErr != nil || string(version) != mappingVersion {
			logger.Info("product index mapping outdated, recreating",
				"path", indexPath,
				"version", mappingVersion,
			)
			rebuild = true
		}
	}

	if exists && !rebuild {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Warn("failed to open product index, recreating",
				"path", indexPath,
				"error", err,
			)
			rebuild = true
		}
	}

	if rebuild {
		if removeErr := os.RemoveAll(indexPath); removeErr != nil {
			return nil, fmt.Errorf("remove old index: %w", removeErr)
		}
		index = nil
	}

	if index == nil {
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if writeErr := os.WriteFile(versionPath, []byte(mappingVersion), 0644); writeErr != nil {
			logger.Warn("failed to write index version file", "error", writeErr)
		}
		logger.Info("created product index", "path", indexPath)
	} else {
		logger.Debug("opened product index", "path", indexPath)
	}

	return &Index{
		index:  index,
		path:   indexPath,
		logger: logger,
	}, nil
}

// Exists reports whether an index has been built under dataPath. Open
// creates an empty index when none exists, so callers that want to serve
// without one check first.
func Exists(dataPath string) bool {
	_, err := os.Stat(filepath.Join(dataPath, "products.bleve"))
	return err == nil
}

// Close closes the index and releases resources.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.index.Close()
}

// IndexRecord indexes a single document keyed by SKU.
func (ix *Index) IndexRecord(doc *Document) error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.index.Index(doc.SKU, doc.ToMap())
}

// IndexRecords indexes documents in batches, which is much faster than
// one-at-a-time indexing for a full catalog.
func (ix *Index) IndexRecords(docs []*Document) error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	const batchSize = 500

	for i := 0; i < len(docs); i += batchSize {
		end := min(i+batchSize, len(docs))

		batch := ix.index.NewBatch()
		for _, doc := range docs[i:end] {
			if err := batch.Index(doc.SKU, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.SKU, err)
			}
		}

		if err := ix.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	return nil
}

// DeleteRecord removes a document from the index.
func (ix *Index) DeleteRecord(sku string) error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.index.Delete(sku)
}

// Count returns the number of indexed documents.
func (ix *Index) Count() (uint64, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.index.DocCount()
}

// Reset drops the index contents and recreates it empty. Used before a
// full reindex so removed products do not linger.
func (ix *Index) Reset() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if err := ix.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	if err := os.RemoveAll(ix.path); err != nil {
		return fmt.Errorf("remove index: %w", err)
	}

	index, err := bleve.New(ix.path, buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	ix.index = index
	ix.logger.Info("reset product index", "path", ix.path)

	return nil
}
