// Package inventory reads tabular inventory exports and maps their
// heterogeneous schemas onto the canonical field set.
//
// Vendor exports disagree on column naming ("qty" vs "onhand", "partno" vs
// "mpn"), so resolution goes through a static alias table: for each canonical
// field the declared variants are tried in priority order against the dataset
// schema, and the first match wins. Resolution happens once per dataset; rows
// are then read against the resolved columns.
package inventory

import (
	"regexp"
	"strings"
)

// Canonical field names resolved by the alias table.
const (
	FieldSKU          = "sku"
	FieldPartNumber   = "part_number"
	FieldTitle        = "title"
	FieldManufacturer = "manufacturer"
	FieldCategory     = "category"
	FieldPrice        = "price"
	FieldOnHandNew    = "on_hand_new"
	FieldOnHandUsed   = "on_hand_used"
	FieldDescription  = "description"
)

// fieldAlias pairs a canonical field with its accepted raw column names.
// Slice order is priority order, both across fields and within variants.
type fieldAlias struct {
	field    string
	variants []string
}

// aliasTable is the static mapping from canonical field to raw column name
// variants. Comparison is case-insensitive and whitespace-trimmed.
//
//nolint:gochecknoglobals // Static lookup table for schema resolution
var aliasTable = []fieldAlias{
	{FieldSKU, []string{"sku", "upc", "barcode"}},
	{FieldPartNumber, []string{"partno", "part_no", "mpn"}},
	{FieldTitle, []string{"description", "title", "name"}},
	{FieldManufacturer, []string{"manufacturer", "brand", "mfg"}},
	{FieldCategory, []string{"category", "dept", "department"}},
	{FieldPrice, []string{"store_price", "price", "msrp"}},
	{FieldOnHandNew, []string{"onhand new", "onhand_new", "qty", "quantity", "stock", "onhand"}},
	{FieldOnHandUsed, []string{"onhand used", "onhand_used"}},
	{FieldDescription, []string{"longdesc", "long_desc", "notes"}},
}

// featureColumnRe matches feature column names: "desc" followed by digits and
// an optional trailing letter ("desc1", "Desc12a").
var featureColumnRe = regexp.MustCompile(`^desc[0-9]+[a-z]?$`)

// Row is a single inventory row keyed by raw column name.
// Missing and empty values are equivalent.
type Row map[string]string

// Get returns the trimmed value of a raw column, or "" if absent.
func (r Row) Get(column string) string {
	if column == "" {
		return ""
	}
	return strings.TrimSpace(r[column])
}

// Columns maps canonical fields to the raw column names of one dataset.
// A missing entry means the dataset has no column for that field.
type Columns struct {
	fields map[string]string
	// Feature columns in original schema order.
	Features []string
}

// Column returns the raw column name for a canonical field.
// The empty string means the field is not present in the schema.
func (c *Columns) Column(field string) string {
	return c.fields[field]
}

// Has reports whether the schema carries the canonical field.
func (c *Columns) Has(field string) bool {
	return c.fields[field] != ""
}

// Resolve maps a dataset schema (its column names, in declared order) onto
// the canonical field set. For each canonical field the alias variants are
// tried in declared order and the first one present in the schema wins.
// Fields with no matching column are simply absent, never an error.
//
// Feature columns are collected separately by pattern match, keeping schema
// order.
func Resolve(schema []string) *Columns {
	// Index the schema by normalized name. First occurrence wins so
	// duplicate headers stay deterministic.
	byName := make(map[string]string, len(schema))
	for _, col := range schema {
		key := strings.ToLower(strings.TrimSpace(col))
		if _, exists := byName[key]; !exists {
			byName[key] = col
		}
	}

	cols := &Columns{fields: make(map[string]string, len(aliasTable))}
	for _, alias := range aliasTable {
		for _, variant := range alias.variants {
			if raw, ok := byName[variant]; ok {
				cols.fields[alias.field] = raw
				break
			}
		}
	}

	for _, col := range schema {
		if featureColumnRe.MatchString(strings.ToLower(strings.TrimSpace(col))) {
			cols.Features = append(cols.Features, col)
		}
	}

	return cols
}
