package catalog

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopfrontapp/shopfront/internal/inventory"
)

func defaultConfig() BuilderConfig {
	return BuilderConfig{MinStock: 1, NormalizeTitles: true}
}

func TestBuildStockAggregation(t *testing.T) {
	cols := inventory.Resolve([]string{"sku", "description", "onhand new", "onhand used"})
	b := NewBuilder(cols, defaultConfig(), nil)

	tests := []struct {
		name     string
		newQty   string
		usedQty  string
		expected int
	}{
		{"ints sum", "3", "2", 5},
		{"decimal truncated", "3", "2.7", 5},
		{"unparsable contributes zero", "3", "lots", 3},
		{"both missing", "", "", 0},
		// Negative on-hand is carried through, not clamped. Some vendors
		// use it for backorders.
		{"negative preserved", "-2", "1", -1},
		// NaN and infinity parse as floats but have no integer value;
		// they count as unparsable instead of poisoning the sum.
		{"nan contributes zero", "NaN", "2", 2},
		{"infinity contributes zero", "+Inf", "2", 2},
		{"negative infinity contributes zero", "-inf", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := b.Build(inventory.Row{
				"sku":         "A1",
				"description": "WIDGET",
				"onhand new":  tt.newQty,
				"onhand used": tt.usedQty,
			})
			if rec.StockQuantity != tt.expected {
				t.Errorf("StockQuantity = %d, want %d", rec.StockQuantity, tt.expected)
			}
		})
	}
}

func TestBuildTitlePlaceholders(t *testing.T) {
	t.Run("absent title with sku", func(t *testing.T) {
		cols := inventory.Resolve([]string{"sku"})
		rec := NewBuilder(cols, defaultConfig(), nil).Build(inventory.Row{"sku": "A1"})
		if rec.Title != "SKU A1" {
			t.Errorf("Title = %q, want %q", rec.Title, "SKU A1")
		}
	})

	t.Run("absent title and sku", func(t *testing.T) {
		cols := inventory.Resolve([]string{"qty"})
		rec := NewBuilder(cols, defaultConfig(), nil).Build(inventory.Row{"qty": "1"})
		if rec.Title != "Untitled" {
			t.Errorf("Title = %q, want %q", rec.Title, "Untitled")
		}
	})

	t.Run("blank title cell", func(t *testing.T) {
		cols := inventory.Resolve([]string{"sku", "title"})
		rec := NewBuilder(cols, defaultConfig(), nil).Build(inventory.Row{"sku": "A1", "title": "   "})
		if rec.Title != "Untitled" {
			t.Errorf("Title = %q, want %q", rec.Title, "Untitled")
		}
	})

	t.Run("normalization disabled keeps raw", func(t *testing.T) {
		cols := inventory.Resolve([]string{"title"})
		cfg := BuilderConfig{MinStock: 1, NormalizeTitles: false}
		rec := NewBuilder(cols, cfg, nil).Build(inventory.Row{"title": " FEDERAL 9MM FMJ "})
		if rec.Title != "FEDERAL 9MM FMJ" {
			t.Errorf("Title = %q, want trimmed raw title", rec.Title)
		}
	})
}

func TestBuildTitleNeverEmpty(t *testing.T) {
	schemas := [][]string{
		{"sku", "title"},
		{"title"},
		{"sku"},
		{"unrelated"},
	}
	rows := []inventory.Row{
		{},
		{"title": ""},
		{"title": "  "},
		{"sku": "Z9", "title": "50/10"},
	}

	for _, schema := range schemas {
		cols := inventory.Resolve(schema)
		b := NewBuilder(cols, defaultConfig(), nil)
		for i, row := range rows {
			if rec := b.Build(row); strings.TrimSpace(rec.Title) == "" {
				t.Errorf("schema %v row %d produced empty title", schema, i)
			}
		}
	}
}

func TestBuildPrice(t *testing.T) {
	cols := inventory.Resolve([]string{"title", "price"})
	b := NewBuilder(cols, defaultConfig(), nil)

	tests := []struct {
		raw      string
		expected string
	}{
		{"4.99", "$4.99"},
		{"1234.5", "$1,234.50"},
		{"1250000", "$1,250,000.00"},
		{"call for price", ""},
		{"NaN", ""},
		{"Inf", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			rec := b.Build(inventory.Row{"title": "Widget", "price": tt.raw})
			if rec.PriceDisplay != tt.expected {
				t.Errorf("PriceDisplay = %q, want %q", rec.PriceDisplay, tt.expected)
			}
		})
	}
}

func TestBuildFeatures(t *testing.T) {
	schema := []string{"title", "desc1", "desc2", "desc3", "desc4", "desc5", "desc6", "desc7", "desc8", "desc9", "desc10"}
	cols := inventory.Resolve(schema)
	b := NewBuilder(cols, defaultConfig(), nil)

	t.Run("dedup case-insensitive first seen wins", func(t *testing.T) {
		rec := b.Build(inventory.Row{
			"title": "Widget",
			"desc1": "Brass Cased",
			"desc2": "BRASS CASED",
			"desc3": "boxer primed",
		})
		if len(rec.Features) != 2 {
			t.Fatalf("Features = %v, want 2 entries", rec.Features)
		}
		if rec.Features[0] != "Brass Cased" || rec.Features[1] != "Boxer Primed" {
			t.Errorf("Features = %v", rec.Features)
		}
	})

	t.Run("capped at eight", func(t *testing.T) {
		row := inventory.Row{"title": "Widget"}
		for i := 1; i <= 10; i++ {
			row[fmt.Sprintf("desc%d", i)] = fmt.Sprintf("feature %d", i)
		}
		rec := b.Build(row)
		if len(rec.Features) != 8 {
			t.Errorf("len(Features) = %d, want 8", len(rec.Features))
		}
		// The keyword blob keeps all distinct features for search.
		if !strings.Contains(rec.Keywords, "Feature 10") {
			t.Errorf("Keywords missing overflow feature: %q", rec.Keywords)
		}
	})

	t.Run("never contains case-insensitive duplicates", func(t *testing.T) {
		rec := b.Build(inventory.Row{"title": "Widget", "desc1": "A B", "desc2": "a b", "desc3": "A  b"})
		seen := map[string]bool{}
		for _, f := range rec.Features {
			key := strings.ToLower(f)
			if seen[key] {
				t.Errorf("duplicate feature %q in %v", f, rec.Features)
			}
			seen[key] = true
		}
	})
}

func TestBuildKeywords(t *testing.T) {
	cols := inventory.Resolve([]string{"sku", "partno", "title", "brand", "category", "desc1"})
	b := NewBuilder(cols, defaultConfig(), nil)

	rec := b.Build(inventory.Row{
		"sku":      "A1",
		"partno":   "P-100",
		"title":    "WIDGET",
		"brand":    "ACME",
		"category": "Tools",
		"desc1":    "BRASS CASED",
	})

	want := "Brass Cased A1 P-100 ACME Tools"
	if rec.Keywords != want {
		t.Errorf("Keywords = %q, want %q", rec.Keywords, want)
	}
}

func TestBuildStockNote(t *testing.T) {
	cols := inventory.Resolve([]string{"title", "qty"})
	// Threshold of 5: a quantity of 1 is below the in-stock threshold but
	// still shows its raw count. The display/filter split is deliberate.
	b := NewBuilder(cols, BuilderConfig{MinStock: 5, NormalizeTitles: true}, nil)

	rec := b.Build(inventory.Row{"title": "Widget", "qty": "1"})
	if rec.InStock {
		t.Error("InStock = true, want false below threshold")
	}
	if rec.StockNote != "In stock: 1" {
		t.Errorf("StockNote = %q, want %q", rec.StockNote, "In stock: 1")
	}

	rec = b.Build(inventory.Row{"title": "Widget", "qty": "0"})
	if rec.StockNote != "Out of stock" {
		t.Errorf("StockNote = %q, want %q", rec.StockNote, "Out of stock")
	}
}

func TestBuildZeroThreshold(t *testing.T) {
	cols := inventory.Resolve([]string{"title", "qty"})
	// A threshold of zero is honored, not bumped to one: everything with
	// non-negative stock counts as in stock.
	b := NewBuilder(cols, BuilderConfig{MinStock: 0, NormalizeTitles: true}, nil)

	rec := b.Build(inventory.Row{"title": "Widget", "qty": "0"})
	if !rec.InStock {
		t.Error("InStock = false, want true with zero threshold")
	}

	rec = b.Build(inventory.Row{"title": "Widget", "qty": "-2"})
	if rec.InStock {
		t.Error("InStock = true, want false for negative stock")
	}
}

func TestBuildPhotoLookup(t *testing.T) {
	cols := inventory.Resolve([]string{"sku", "title"})
	photos := map[string]Photo{
		"A1": {Path: "assets/A1.jpg", BlurHash: "LKO2?U%2Tw=w]~RBVZRi};RPxuwH"},
	}
	b := NewBuilder(cols, defaultConfig(), photos)

	rec := b.Build(inventory.Row{"sku": "A1", "title": "Widget"})
	if rec.PhotoPath != "assets/A1.jpg" {
		t.Errorf("PhotoPath = %q", rec.PhotoPath)
	}
	if rec.BlurHash == "" {
		t.Error("BlurHash not carried from manifest")
	}

	rec = b.Build(inventory.Row{"sku": "B2", "title": "Widget"})
	if rec.PhotoPath != "" {
		t.Errorf("PhotoPath = %q for SKU without photo", rec.PhotoPath)
	}
}

func TestBuildDescriptionConvertsHTML(t *testing.T) {
	cols := inventory.Resolve([]string{"title", "longdesc"})
	b := NewBuilder(cols, defaultConfig(), nil)

	rec := b.Build(inventory.Row{"title": "Widget", "longdesc": "<p>Match <b>grade</b> brass</p>"})
	if rec.Description != "Match **grade** brass" {
		t.Errorf("Description = %q", rec.Description)
	}

	rec = b.Build(inventory.Row{"title": "Widget", "longdesc": "  plain text  "})
	if rec.Description != "plain text" {
		t.Errorf("Description = %q", rec.Description)
	}
}
