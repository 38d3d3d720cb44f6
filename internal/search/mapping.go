package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve mapping for product documents.
//
// Priorities:
//  1. Full-text search on titles and features with English stemming
//  2. Exact keyword facets on category and manufacturer
//  3. SKU and part number lookups without stemming
//  4. Numeric range queries on price and stock
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields (full-text searchable) ---

	// Title is the primary search target.
	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = en.AnalyzerName
	titleField.Store = true
	titleField.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("title", titleField)

	featuresField := bleve.NewTextFieldMapping()
	featuresField.Analyzer = en.AnalyzerName
	featuresField.Store = true
	docMapping.AddFieldMappingsAt("features", featuresField)

	// Keywords carries the raw identifying tokens alongside the cleaned
	// title, so vendor part codes stay findable after title cleanup.
	keywordsField := bleve.NewTextFieldMapping()
	keywordsField.Analyzer = simple.Name
	keywordsField.Store = false
	docMapping.AddFieldMappingsAt("keywords", keywordsField)

	descField := bleve.NewTextFieldMapping()
	descField.Analyzer = en.AnalyzerName
	descField.Store = false // Too large to store
	docMapping.AddFieldMappingsAt("description", descField)

	// Manufacturer and category are also matched as text.
	manufacturerField := bleve.NewTextFieldMapping()
	manufacturerField.Analyzer = simple.Name
	manufacturerField.Store = true
	docMapping.AddFieldMappingsAt("manufacturer", manufacturerField)

	categoryField := bleve.NewTextFieldMapping()
	categoryField.Analyzer = simple.Name
	categoryField.Store = true
	docMapping.AddFieldMappingsAt("category", categoryField)

	// --- Keyword fields (exact match, facetable) ---

	skuField := bleve.NewTextFieldMapping()
	skuField.Analyzer = keyword.Name
	skuField.Store = true
	docMapping.AddFieldMappingsAt("sku", skuField)

	partNumberField := bleve.NewTextFieldMapping()
	partNumberField.Analyzer = keyword.Name
	partNumberField.Store = true
	docMapping.AddFieldMappingsAt("part_number", partNumberField)

	categoryFacetField := bleve.NewTextFieldMapping()
	categoryFacetField.Analyzer = keyword.Name
	categoryFacetField.Store = true
	docMapping.AddFieldMappingsAt("category_facet", categoryFacetField)

	manufacturerFacetField := bleve.NewTextFieldMapping()
	manufacturerFacetField.Analyzer = keyword.Name
	manufacturerFacetField.Store = true
	docMapping.AddFieldMappingsAt("manufacturer_facet", manufacturerFacetField)

	// --- Numeric and boolean fields ---

	priceField := bleve.NewNumericFieldMapping()
	priceField.Store = true
	docMapping.AddFieldMappingsAt("price", priceField)

	stockField := bleve.NewNumericFieldMapping()
	stockField.Store = true
	docMapping.AddFieldMappingsAt("stock", stockField)

	inStockField := bleve.NewBooleanFieldMapping()
	inStockField.Store = true
	docMapping.AddFieldMappingsAt("in_stock", inStockField)

	// --- Stored-only display fields ---

	priceDisplayField := bleve.NewTextFieldMapping()
	priceDisplayField.Analyzer = keyword.Name
	priceDisplayField.Store = true
	priceDisplayField.Index = false
	docMapping.AddFieldMappingsAt("price_display", priceDisplayField)

	photoPathField := bleve.NewTextFieldMapping()
	photoPathField.Analyzer = keyword.Name
	photoPathField.Store = true
	photoPathField.Index = false
	docMapping.AddFieldMappingsAt("photo_path", photoPathField)

	blurhashField := bleve.NewTextFieldMapping()
	blurhashField.Analyzer = keyword.Name
	blurhashField.Store = true
	blurhashField.Index = false
	docMapping.AddFieldMappingsAt("blurhash", blurhashField)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
