// Package catalog builds canonical product records from resolved inventory
// rows and assembles them into a renderable catalog.
//
// Record building never fails: every coercion degrades to a safe default, so
// one well-formed record comes out for every row that goes in, however
// malformed the row is.
package catalog

// Record is the canonical, display-ready form of one inventory row.
// Records are stateless values with no identity beyond the SKU; they are
// rebuilt from scratch on every run.
type Record struct {
	SKU          string
	Title        string // Never empty; falls back to a derived placeholder.
	Manufacturer string
	Category     string
	PartNumber   string
	PriceDisplay string  // Formatted currency, or "" if the price is unparsable.
	Price        float64 // Numeric price when parsable, for sorting and range queries.

	StockQuantity int
	InStock       bool
	StockNote     string

	// Features holds at most eight case-insensitively distinct entries in
	// first-seen column order.
	Features []string

	// Keywords is the space-joined search blob: features plus the raw sku,
	// part number, manufacturer, and category.
	Keywords string

	// Description is the HTML-stripped long description, when the dataset
	// carries one.
	Description string

	// Photo placeholder data from the photo manifest, when available.
	PhotoPath string
	BlurHash  string
}

// Photo is a stored product photo referenced from the photo manifest.
type Photo struct {
	Path     string
	BlurHash string
}
