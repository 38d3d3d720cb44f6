package photos

import (
	"encoding/json/v2"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"
)

// ManifestName is the manifest filename, written next to the photos.
const ManifestName = "photos.json"

// Entry describes one stored photo in the manifest.
type Entry struct {
	Path     string `json:"path"`               // file name within the photo directory
	BlurHash string `json:"blurhash,omitempty"` // placeholder hash
	Source   string `json:"source,omitempty"`   // host the photo came from
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// Manifest maps SKUs to their stored photos. The catalog builder consumes it
// to attach photo paths and BlurHash placeholders to records.
type Manifest struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{entries: make(map[string]Entry)}
}

// LoadManifest reads a manifest from the photo directory. A missing file
// yields an empty manifest, not an error.
func LoadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName)) //#nosec G304 -- Directory comes from user configuration
	if err != nil {
		if os.IsNotExist(err) {
			return NewManifest(), nil
		}
		return nil, fmt.Errorf("read photo manifest: %w", err)
	}

	entries := make(map[string]Entry)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse photo manifest: %w", err)
	}
	return &Manifest{entries: entries}, nil
}

// Set records a photo entry for a SKU, replacing any previous one.
func (m *Manifest) Set(sku string, e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[sku] = e
}

// Get returns the entry for a SKU.
func (m *Manifest) Get(sku string) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[sku]
	return e, ok
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// SKUs returns the manifest's SKUs in sorted order.
func (m *Manifest) SKUs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	skus := make([]string, 0, len(m.entries))
	for sku := range m.entries {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	return skus
}

// Resolve returns the entries with paths rewritten to be relative to the
// catalog output directory, so the rendered page can reference them no
// matter where the photo directory sits. When no relative path from
// outputDir exists, entries keep their bare file names.
func (m *Manifest) Resolve(outputDir, photoDir string) map[string]Entry {
	prefix := ""
	if rel, err := filepath.Rel(outputDir, photoDir); err == nil && rel != "." {
		prefix = filepath.ToSlash(rel)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]Entry, len(m.entries))
	for sku, e := range m.entries {
		if prefix != "" {
			e.Path = path.Join(prefix, e.Path)
		}
		out[sku] = e
	}
	return out
}

// Save writes the manifest into the photo directory.
func (m *Manifest) Save(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.Marshal(m.entries)
	if err != nil {
		return fmt.Errorf("encode photo manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), data, 0644); err != nil {
		return fmt.Errorf("write photo manifest: %w", err)
	}
	return nil
}
