package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/shopfrontapp/shopfront/internal/inventory"
	"github.com/shopfrontapp/shopfront/internal/normalize"
)

// maxFeatures caps how many feature entries a record keeps.
const maxFeatures = 8

// BuilderConfig controls record building.
type BuilderConfig struct {
	// MinStock is the quantity at which a record counts as in stock.
	// Zero is a valid threshold; it marks every non-negative quantity
	// in stock.
	MinStock int
	// NormalizeTitles enables the title cleanup pipeline. When disabled,
	// titles are only whitespace-trimmed.
	NormalizeTitles bool
}

// Builder turns resolved inventory rows into canonical records.
type Builder struct {
	cols   *inventory.Columns
	cfg    BuilderConfig
	photos map[string]Photo
}

// priceFmt formats currency with English thousands separators.
//
//nolint:gochecknoglobals // Printer is immutable and safe for concurrent use
var priceFmt = message.NewPrinter(language.English)

// NewBuilder creates a builder for one dataset's resolved columns.
// photos may be nil when no photo manifest is available.
func NewBuilder(cols *inventory.Columns, cfg BuilderConfig, photos map[string]Photo) *Builder {
	if cfg.MinStock < 0 {
		cfg.MinStock = 0
	}
	return &Builder{cols: cols, cfg: cfg, photos: photos}
}

// Build produces exactly one record for a row. It never fails; malformed
// numerics contribute zero, missing columns yield empty fields, and a
// missing title falls back to a deterministic placeholder.
func (b *Builder) Build(row inventory.Row) Record {
	sku := row.Get(b.cols.Column(inventory.FieldSKU))
	manufacturer := row.Get(b.cols.Column(inventory.FieldManufacturer))
	category := row.Get(b.cols.Column(inventory.FieldCategory))
	partNumber := row.Get(b.cols.Column(inventory.FieldPartNumber))

	qty := b.aggregateStock(row)

	features, keywords := b.buildFeatures(row, sku, partNumber, manufacturer, category)
	priceDisplay, price := b.parsePrice(row)

	rec := Record{
		SKU:           sku,
		Title:         b.buildTitle(row, sku, manufacturer),
		Manufacturer:  manufacturer,
		Category:      category,
		PartNumber:    partNumber,
		PriceDisplay:  priceDisplay,
		Price:         price,
		StockQuantity: qty,
		InStock:       qty >= b.cfg.MinStock,
		StockNote:     stockNote(qty),
		Features:      features,
		Keywords:      keywords,
	}

	if b.cols.Has(inventory.FieldDescription) {
		rec.Description = normalize.Description(row.Get(b.cols.Column(inventory.FieldDescription)))
	}

	if photo, ok := b.photos[sku]; ok {
		rec.PhotoPath = photo.Path
		rec.BlurHash = photo.BlurHash
	}

	return rec
}

// buildTitle derives the display title. A dataset without a title column
// falls back to "SKU <sku>", or "Untitled" when there is no SKU either.
func (b *Builder) buildTitle(row inventory.Row, sku, manufacturer string) string {
	if !b.cols.Has(inventory.FieldTitle) {
		if sku != "" {
			return "SKU " + sku
		}
		return "Untitled"
	}

	raw := row.Get(b.cols.Column(inventory.FieldTitle))
	if !b.cfg.NormalizeTitles {
		if raw == "" {
			return "Untitled"
		}
		return raw
	}
	return normalize.Title(raw, manufacturer)
}

// aggregateStock sums the on-hand columns. Values are float-parsed and
// truncated toward zero; anything unparsable contributes nothing. NaN and
// infinity parse but have no integer truncation, so they count as
// unparsable too. Negative source values are carried through as-is: some
// vendors use negative on-hand for backordered stock, so the sum is
// deliberately not clamped.
func (b *Builder) aggregateStock(row inventory.Row) int {
	total := 0
	for _, field := range []string{inventory.FieldOnHandNew, inventory.FieldOnHandUsed} {
		raw := row.Get(b.cols.Column(field))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		total += int(v)
	}
	return total
}

// parsePrice renders the price column as currency with thousands separators
// and two decimals, and returns the numeric value alongside. Absent or
// unparsable prices yield an empty display and a zero value.
func (b *Builder) parsePrice(row inventory.Row) (string, float64) {
	raw := row.Get(b.cols.Column(inventory.FieldPrice))
	if raw == "" {
		return "", 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return "", 0
	}
	return priceFmt.Sprintf("$%.2f", v), v
}

// buildFeatures collects feature column values in schema order, normalizes
// them, and deduplicates case-insensitively keeping the first occurrence.
// The returned record features are capped at maxFeatures; the keyword blob
// keeps the full deduplicated list plus the raw identifying fields.
func (b *Builder) buildFeatures(row inventory.Row, sku, partNumber, manufacturer, category string) (features []string, keywords string) {
	seen := make(map[string]bool)
	var all []string
	for _, col := range b.cols.Features {
		val := row.Get(col)
		if val == "" {
			continue
		}
		feat := normalize.Feature(val)
		key := strings.ToLower(feat)
		if feat == "" || seen[key] {
			continue
		}
		seen[key] = true
		all = append(all, feat)
	}

	kw := all
	for _, extra := range []string{sku, partNumber, manufacturer, category} {
		if extra != "" {
			kw = append(kw, extra)
		}
	}

	features = all
	if len(features) > maxFeatures {
		features = features[:maxFeatures]
	}
	return features, strings.Join(kw, " ")
}

// stockNote renders the human-readable stock status. It reads the raw
// quantity, not the in-stock threshold: a row with quantity 1 and a
// configured minimum of 5 still shows "In stock: 1" even though the
// assembler filters it out.
func stockNote(qty int) string {
	if qty > 0 {
		return fmt.Sprintf("In stock: %d", qty)
	}
	return "Out of stock"
}
