package catalog

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopfrontapp/shopfront/internal/util"
)

//go:embed templates/catalog.html.tmpl
var templateFS embed.FS

// pageTemplate is parsed once at startup; a broken embedded template is a
// programming error.
//
//nolint:gochecknoglobals // Parsed template is immutable
var pageTemplate = template.Must(template.New("catalog.html.tmpl").Funcs(template.FuncMap{
	"slug":  util.Slugify,
	"lower": strings.ToLower,
}).ParseFS(templateFS, "templates/catalog.html.tmpl"))

// Render writes the catalog page HTML.
func Render(w io.Writer, c *Catalog) error {
	if err := pageTemplate.Execute(w, c); err != nil {
		return fmt.Errorf("render catalog: %w", err)
	}
	return nil
}

// WriteFile renders the catalog to the given path, creating parent
// directories as needed.
func WriteFile(path string, c *Catalog) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path) //#nosec G304 -- Output path comes from user configuration
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := Render(f, c); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("flush output file: %w", err)
	}
	return nil
}
