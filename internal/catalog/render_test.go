package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	cat := Assemble([]Record{
		{
			SKU:          "A1",
			Title:        "Federal 9mm FMJ 115gr",
			Manufacturer: "Federal",
			Category:     "Centerfire Ammo",
			PriceDisplay: "$24.99",
			StockQuantity: 12,
			InStock:      true,
			StockNote:    "In stock: 12",
			Features:     []string{"Brass Cased", "Boxer Primed"},
			Keywords:     "Brass Cased Boxer Primed A1 Federal Centerfire Ammo",
			PhotoPath:    "assets/A1.jpg",
			BlurHash:     "LKO2?U%2Tw=w]~RBVZRi};RPxuwH",
		},
		{
			SKU:       "B2",
			Title:     "Out Of Stock Widget <script>",
			Category:  "Centerfire Ammo",
			StockNote: "Out of stock",
		},
	}, AssembleOptions{PageTitle: "Product Catalog", ShowOutOfStock: true})

	var sb strings.Builder
	if err := Render(&sb, cat); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	html := sb.String()

	for _, want := range []string{
		"Product Catalog",
		"Federal 9mm FMJ 115gr",
		"$24.99",
		"In stock: 12",
		"Brass Cased",
		`data-category="centerfire-ammo"`,
		"assets/A1.jpg",
		"data-blurhash",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}

	// html/template must escape hostile titles.
	if strings.Contains(html, "<script>Out") || strings.Contains(html, "Widget <script>") {
		t.Error("title was not escaped")
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "index.html")

	cat := Assemble(nil, AssembleOptions{PageTitle: "Empty Catalog", ShowOutOfStock: true})
	if err := WriteFile(path, cat); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !strings.Contains(string(data), "Empty Catalog") {
		t.Error("output file missing page title")
	}
}
