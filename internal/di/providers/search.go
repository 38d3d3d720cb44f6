package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/shopfrontapp/shopfront/internal/config"
	"github.com/shopfrontapp/shopfront/internal/search"
)

// SearchIndexHandle wraps the search index with shutdown capability. Index
// is nil when no index was built alongside the catalog output.
type SearchIndexHandle struct {
	Index *search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	if h.Index == nil {
		return nil
	}
	return h.Index.Close()
}

// ProvideSearchIndex provides the Bleve product index. A missing index is
// not an error: the preview still serves static output, and the search
// endpoint reports unavailable.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.ServeConfig](i)
	log := do.MustInvoke[*slog.Logger](i)

	if !search.Exists(cfg.OutputDir) {
		log.Warn("no search index found; search API disabled",
			"dir", cfg.OutputDir,
		)
		return &SearchIndexHandle{}, nil
	}

	index, err := search.Open(search.Options{
		DataPath: cfg.OutputDir,
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.Count()
	log.Info("search index opened", "documents", docCount)

	return &SearchIndexHandle{Index: index}, nil
}
