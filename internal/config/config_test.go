package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBuild_Defaults(t *testing.T) {
	cfg, err := LoadBuild([]string{"-csv", "inventory.csv", "-env-file", "/nonexistent"})
	require.NoError(t, err)

	assert.Equal(t, "inventory.csv", cfg.CSVPath)
	assert.True(t, filepath.IsAbs(cfg.OutputDir))
	assert.Equal(t, "dist", filepath.Base(cfg.OutputDir))
	assert.Equal(t, "Product Catalog", cfg.PageTitle)
	assert.Equal(t, 1, cfg.MinStock)
	assert.False(t, cfg.ShowOOS)
	assert.Equal(t, 0, cfg.MaxRecords)
	assert.False(t, cfg.RawTitles)
	assert.False(t, cfg.Watch)
	assert.False(t, cfg.WriteIndex)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "assets"), cfg.PhotosDir)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
}

func TestLoadBuild_Flags(t *testing.T) {
	cfg, err := LoadBuild([]string{
		"-csv", "inventory.csv",
		"-out", "/tmp/catalog",
		"-title", "Spring Inventory",
		"-min-stock", "3",
		"-show-oos", "true",
		"-category", "Ammunition",
		"-max", "500",
		"-no-clean-names", "true",
		"-index", "true",
		"-env-file", "/nonexistent",
	})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/catalog", cfg.OutputDir)
	assert.Equal(t, "Spring Inventory", cfg.PageTitle)
	assert.Equal(t, 3, cfg.MinStock)
	assert.True(t, cfg.ShowOOS)
	assert.Equal(t, "Ammunition", cfg.Category)
	assert.Equal(t, 500, cfg.MaxRecords)
	assert.True(t, cfg.RawTitles)
	assert.True(t, cfg.WriteIndex)
}

func TestLoadBuild_EnvFallback(t *testing.T) {
	t.Setenv("CATALOG_CSV", "from-env.csv")
	t.Setenv("CATALOG_MIN_STOCK", "5")

	cfg, err := LoadBuild([]string{"-env-file", "/nonexistent"})
	require.NoError(t, err)

	assert.Equal(t, "from-env.csv", cfg.CSVPath)
	assert.Equal(t, 5, cfg.MinStock)
}

func TestLoadBuild_FlagBeatsEnv(t *testing.T) {
	t.Setenv("CATALOG_CSV", "from-env.csv")

	cfg, err := LoadBuild([]string{"-csv", "from-flag.csv", "-env-file", "/nonexistent"})
	require.NoError(t, err)

	assert.Equal(t, "from-flag.csv", cfg.CSVPath)
}

func TestLoadBuild_MissingCSV(t *testing.T) {
	_, err := LoadBuild([]string{"-env-file", "/nonexistent"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv path is required")
}

func TestLoadBuild_InvalidLogLevel(t *testing.T) {
	_, err := LoadBuild([]string{"-csv", "x.csv", "-log-level", "verbose", "-env-file", "/nonexistent"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestLoadPhotos_Defaults(t *testing.T) {
	cfg, err := LoadPhotos([]string{"-csv", "inventory.csv", "-env-file", "/nonexistent"})
	require.NoError(t, err)

	assert.Equal(t, "assets", filepath.Base(cfg.OutputDir))
	assert.Equal(t, 0, cfg.Limit)
	assert.False(t, cfg.Overwrite)
	assert.Equal(t, 2*time.Second, cfg.Sleep)
}

func TestLoadPhotos_Flags(t *testing.T) {
	cfg, err := LoadPhotos([]string{
		"-csv", "inventory.csv",
		"-outdir", "/tmp/photos",
		"-limit", "25",
		"-overwrite", "true",
		"-sleep", "500ms",
		"-env-file", "/nonexistent",
	})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/photos", cfg.OutputDir)
	assert.Equal(t, 25, cfg.Limit)
	assert.True(t, cfg.Overwrite)
	assert.Equal(t, 500*time.Millisecond, cfg.Sleep)
}

func TestLoadPhotos_InvalidSleep(t *testing.T) {
	_, err := LoadPhotos([]string{"-csv", "x.csv", "-sleep", "soon", "-env-file", "/nonexistent"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sleep")
}

func TestLoadServe_Defaults(t *testing.T) {
	cfg, err := LoadServe([]string{"-env-file", "/nonexistent"})
	require.NoError(t, err)

	assert.Equal(t, "dist", filepath.Base(cfg.OutputDir))
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
}

func TestLoadServe_Timeouts(t *testing.T) {
	cfg, err := LoadServe([]string{"-read-timeout", "5s", "-port", "9090", "-env-file", "/nonexistent"})
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	assert.Equal(t, "9090", cfg.Port)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := `
# comment
CATALOG_TITLE="Quoted Title"
PHOTOS_LIMIT=10
`
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0644))

	// Keep the process env clean for the keys the file sets.
	t.Setenv("CATALOG_TITLE", "")
	t.Setenv("PHOTOS_LIMIT", "")

	cfg, err := LoadBuild([]string{"-csv", "x.csv", "-env-file", envPath})
	require.NoError(t, err)

	assert.Equal(t, "Quoted Title", cfg.PageTitle)
}

func TestGetBoolConfigValue(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"0", false},
		{"anything", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.expected, getBoolConfigValue(tt.value, "UNSET_KEY", true))
		})
	}

	// Empty everywhere falls back to the default.
	assert.True(t, getBoolConfigValue("", "UNSET_KEY", true))
}

func TestExpandPath(t *testing.T) {
	abs, err := expandPath("relative/dir", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(abs))

	same, err := expandPath("/already/abs", "")
	require.NoError(t, err)
	assert.Equal(t, "/already/abs", same)

	def, err := expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", def)
}
