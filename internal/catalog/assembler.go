package catalog

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// AssembleOptions control filtering and presentation of the assembled page.
type AssembleOptions struct {
	// PageTitle is the rendered page heading.
	PageTitle string
	// Category restricts the catalog to one category, matched
	// case-insensitively and exactly. Empty means all categories.
	Category string
	// MinStock is the quantity threshold for inclusion. Zero keeps every
	// record with non-negative stock.
	MinStock int
	// ShowOutOfStock includes records below the threshold.
	ShowOutOfStock bool
	// MaxRecords caps the number of records (0 = unlimited). The cap is
	// applied in input order, before sorting, matching build-time row
	// limiting for test runs.
	MaxRecords int
}

// Catalog is the assembled, render-ready page model.
type Catalog struct {
	PageTitle     string
	Records       []Record
	Categories    []string // distinct, sorted, for the category picklist
	Manufacturers []string // distinct, sorted, for the manufacturer picklist
	GeneratedAt   time.Time
	// FilteredNote explains the stock filter when out-of-stock records are
	// hidden; empty otherwise.
	FilteredNote string
}

// Total returns the number of records on the page.
func (c *Catalog) Total() int { return len(c.Records) }

// Assemble filters, caps, and sorts records and derives the picklists.
// Sorting is by (lowercased category, lowercased title) ascending.
func Assemble(records []Record, opts AssembleOptions) *Catalog {
	if opts.MinStock < 0 {
		opts.MinStock = 0
	}

	kept := make([]Record, 0, len(records))
	wantCategory := strings.ToLower(strings.TrimSpace(opts.Category))
	for _, rec := range records {
		if wantCategory != "" && strings.ToLower(strings.TrimSpace(rec.Category)) != wantCategory {
			continue
		}
		if !opts.ShowOutOfStock && rec.StockQuantity < opts.MinStock {
			continue
		}
		kept = append(kept, rec)
		if opts.MaxRecords > 0 && len(kept) >= opts.MaxRecords {
			break
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		ci, cj := strings.ToLower(kept[i].Category), strings.ToLower(kept[j].Category)
		if ci != cj {
			return ci < cj
		}
		return strings.ToLower(kept[i].Title) < strings.ToLower(kept[j].Title)
	})

	cat := &Catalog{
		PageTitle:     opts.PageTitle,
		Records:       kept,
		Categories:    distinct(kept, func(r Record) string { return r.Category }),
		Manufacturers: distinct(kept, func(r Record) string { return r.Manufacturer }),
		GeneratedAt:   time.Now(),
	}
	if !opts.ShowOutOfStock {
		cat.FilteredNote = fmt.Sprintf("showing items with stock ≥ %d", opts.MinStock)
	}
	return cat
}

// distinct collects the non-empty distinct values of one record field,
// sorted ascending.
func distinct(records []Record, field func(Record) string) []string {
	set := make(map[string]bool)
	for _, rec := range records {
		if v := field(rec); v != "" {
			set[v] = true
		}
	}
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
