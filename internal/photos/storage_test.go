package photos

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewStorage(filepath.Join(dir, "assets"))
	require.NoError(t, err)

	t.Run("save and exists", func(t *testing.T) {
		assert.False(t, storage.Exists("W-100"))

		require.NoError(t, storage.Save("W-100", []byte("jpegdata")))
		assert.True(t, storage.Exists("W-100"))

		data, err := os.ReadFile(storage.Path("W-100"))
		require.NoError(t, err)
		assert.Equal(t, []byte("jpegdata"), data)
	})

	t.Run("path sanitizes sku", func(t *testing.T) {
		p := storage.Path("A/B 1")
		assert.Equal(t, "A_B_1.jpg", filepath.Base(p))
	})

	t.Run("save overwrites", func(t *testing.T) {
		require.NoError(t, storage.Save("W-200", []byte("first")))
		require.NoError(t, storage.Save("W-200", []byte("second")))

		data, err := os.ReadFile(storage.Path("W-200"))
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), data)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, storage.Save("W-300", []byte("x")))
		require.NoError(t, storage.Delete("W-300"))
		assert.False(t, storage.Exists("W-300"))

		// Deleting a missing photo is not an error.
		assert.NoError(t, storage.Delete("W-300"))
	})
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()

	m := NewManifest()
	m.Set("W-100", Entry{Path: "W-100.jpg", BlurHash: "LEHV6nWB2yk8", Source: "midwayusa.com", Width: 1200, Height: 800})
	m.Set("W-200", Entry{Path: "W-200.jpg"})
	require.NoError(t, m.Save(dir))

	loaded, err := LoadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Len())
	assert.Equal(t, []string{"W-100", "W-200"}, loaded.SKUs())

	e, ok := loaded.Get("W-100")
	require.True(t, ok)
	assert.Equal(t, "W-100.jpg", e.Path)
	assert.Equal(t, "LEHV6nWB2yk8", e.BlurHash)
	assert.Equal(t, 1200, e.Width)

	_, ok = loaded.Get("W-999")
	assert.False(t, ok)
}

func TestManifestResolve(t *testing.T) {
	m := NewManifest()
	m.Set("W-100", Entry{Path: "W-100.jpg", BlurHash: "LEHV6nWB2yk8"})

	t.Run("photo dir under output dir", func(t *testing.T) {
		entries := m.Resolve(filepath.Join("dist"), filepath.Join("dist", "assets"))
		assert.Equal(t, "assets/W-100.jpg", entries["W-100"].Path)
		// Other fields carry through untouched.
		assert.Equal(t, "LEHV6nWB2yk8", entries["W-100"].BlurHash)
	})

	t.Run("custom photo dir outside output dir", func(t *testing.T) {
		entries := m.Resolve(filepath.Join("dist"), filepath.Join("photos"))
		assert.Equal(t, "../photos/W-100.jpg", entries["W-100"].Path)
	})

	t.Run("photo dir is output dir", func(t *testing.T) {
		entries := m.Resolve("dist", "dist")
		assert.Equal(t, "W-100.jpg", entries["W-100"].Path)
	})
}

func TestLoadManifestMissingFile(t *testing.T) {
	m, err := LoadManifest(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
}
