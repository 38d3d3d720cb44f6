// Package search provides full-text product search using Bleve.
// Records are indexed by SKU with faceted filtering on category and
// manufacturer, fuzzy matching on titles, and numeric range queries on
// price and stock.
package search

import (
	"strings"

	"github.com/shopfrontapp/shopfront/internal/catalog"
)

// Document is the indexed form of one product record.
//
// Category and manufacturer are indexed twice: analyzed for full-text
// matching and as raw keywords for exact filtering and facet counts.
type Document struct {
	SKU          string   `json:"sku"`
	Title        string   `json:"title"`
	Manufacturer string   `json:"manufacturer"`
	Category     string   `json:"category"`
	PartNumber   string   `json:"part_number,omitempty"`
	Features     []string `json:"features,omitempty"`
	Keywords     string   `json:"keywords,omitempty"`
	Description  string   `json:"description,omitempty"`
	PriceDisplay string   `json:"price_display,omitempty"`
	Price        float64  `json:"price,omitempty"`
	Stock        int      `json:"stock"`
	InStock      bool     `json:"in_stock"`
	PhotoPath    string   `json:"photo_path,omitempty"`
	BlurHash     string   `json:"blurhash,omitempty"`
}

// FromRecord converts a catalog record into an indexable document.
func FromRecord(rec *catalog.Record) *Document {
	return &Document{
		SKU:          rec.SKU,
		Title:        rec.Title,
		Manufacturer: rec.Manufacturer,
		Category:     rec.Category,
		PartNumber:   rec.PartNumber,
		Features:     rec.Features,
		Keywords:     rec.Keywords,
		Description:  rec.Description,
		PriceDisplay: rec.PriceDisplay,
		Price:        rec.Price,
		Stock:        rec.StockQuantity,
		InStock:      rec.InStock,
		PhotoPath:    rec.PhotoPath,
		BlurHash:     rec.BlurHash,
	}
}

// ToMap converts the document to a map with lowercase field names so they
// match the index mapping. Bleve would otherwise index Go's capitalized
// struct field names.
func (d *Document) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"sku":      d.SKU,
		"title":    d.Title,
		"stock":    d.Stock,
		"in_stock": d.InStock,
	}

	if d.Manufacturer != "" {
		m["manufacturer"] = d.Manufacturer
		m["manufacturer_facet"] = d.Manufacturer
	}
	if d.Category != "" {
		m["category"] = d.Category
		m["category_facet"] = d.Category
	}
	if d.PartNumber != "" {
		m["part_number"] = d.PartNumber
	}
	if len(d.Features) > 0 {
		m["features"] = strings.Join(d.Features, " ")
	}
	if d.Keywords != "" {
		m["keywords"] = d.Keywords
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.PriceDisplay != "" {
		m["price_display"] = d.PriceDisplay
	}
	if d.Price > 0 {
		m["price"] = d.Price
	}
	if d.PhotoPath != "" {
		m["photo_path"] = d.PhotoPath
	}
	if d.BlurHash != "" {
		m["blurhash"] = d.BlurHash
	}

	return m
}
