package search

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a product search.
type Params struct {
	Query string // User's search query; empty matches everything

	// Filters
	Categories    []string // Exact category values (OR across them)
	Manufacturers []string // Exact manufacturer values (OR across them)
	InStockOnly   bool
	MinPrice      float64
	MaxPrice      float64

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "relevance", "title", "price", "stock"
	SortOrder string // "asc", "desc"

	// Options
	IncludeFacets bool
	Highlight     bool
}

// DefaultParams returns sensible search defaults.
func DefaultParams() Params {
	return Params{
		Limit:         20,
		SortBy:        "relevance",
		SortOrder:     "desc",
		IncludeFacets: true,
		Highlight:     true,
	}
}

// Result holds one page of search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
	Facets Facets `json:"facets,omitzero"`
}

// Hit is a single matched product.
type Hit struct {
	SKU          string            `json:"sku"`
	Score        float64           `json:"score"`
	Title        string            `json:"title"`
	Manufacturer string            `json:"manufacturer,omitempty"`
	Category     string            `json:"category,omitempty"`
	PartNumber   string            `json:"part_number,omitempty"`
	Features     string            `json:"features,omitempty"`
	PriceDisplay string            `json:"price_display,omitempty"`
	Stock        int               `json:"stock"`
	InStock      bool              `json:"in_stock"`
	PhotoPath    string            `json:"photo_path,omitempty"`
	BlurHash     string            `json:"blurhash,omitempty"`
	Highlights   map[string]string `json:"highlights,omitempty"`
}

// Facets contains facet counts for the filter pickers.
type Facets struct {
	Categories    []FacetCount `json:"categories,omitempty"`
	Manufacturers []FacetCount `json:"manufacturers,omitempty"`
}

// FacetCount is one facet value and its document count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a product search.
func (ix *Index) Search(ctx context.Context, params Params) (*Result, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = 20
	}

	req := bleve.NewSearchRequestOptions(buildQuery(params), params.Limit, params.Offset, false)
	addSorting(req, params)

	if params.IncludeFacets {
		req.AddFacet("category_facet", bleve.NewFacetRequest("category_facet", 50))
		req.AddFacet("manufacturer_facet", bleve.NewFacetRequest("manufacturer_facet", 50))
	}

	if params.Highlight {
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField("title")
	}

	req.Fields = []string{
		"sku", "title", "manufacturer", "category", "part_number",
		"features", "price_display", "stock", "in_stock",
		"photo_path", "blurhash",
	}

	res, err := ix.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}

	for _, hit := range res.Hits {
		h := Hit{
			SKU:   hit.ID,
			Score: hit.Score,
		}
		if v, ok := hit.Fields["title"].(string); ok {
			h.Title = v
		}
		if v, ok := hit.Fields["manufacturer"].(string); ok {
			h.Manufacturer = v
		}
		if v, ok := hit.Fields["category"].(string); ok {
			h.Category = v
		}
		if v, ok := hit.Fields["part_number"].(string); ok {
			h.PartNumber = v
		}
		if v, ok := hit.Fields["features"].(string); ok {
			h.Features = v
		}
		if v, ok := hit.Fields["price_display"].(string); ok {
			h.PriceDisplay = v
		}
		if v, ok := hit.Fields["stock"].(float64); ok {
			h.Stock = int(v)
		}
		if v, ok := hit.Fields["in_stock"].(bool); ok {
			h.InStock = v
		}
		if v, ok := hit.Fields["photo_path"].(string); ok {
			h.PhotoPath = v
		}
		if v, ok := hit.Fields["blurhash"].(string); ok {
			h.BlurHash = v
		}

		if len(hit.Fragments) > 0 {
			h.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					h.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, h)
	}

	if params.IncludeFacets {
		result.Facets = extractFacets(res)
	}

	return result, nil
}

// buildQuery constructs the Bleve query from params.
//
// The text query fans out across title (boosted), features, keywords, and
// manufacturer, with a fuzzy title clause for typo tolerance and a prefix
// clause so partial SKUs still hit.
func buildQuery(params Params) query.Query {
	var queries []query.Query

	if params.Query != "" {
		var textQueries []query.Query

		titleMatch := bleve.NewMatchQuery(params.Query)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)
		textQueries = append(textQueries, titleMatch)

		featureMatch := bleve.NewMatchQuery(params.Query)
		featureMatch.SetField("features")
		featureMatch.SetBoost(1.5)
		textQueries = append(textQueries, featureMatch)

		keywordMatch := bleve.NewMatchQuery(params.Query)
		keywordMatch.SetField("keywords")
		textQueries = append(textQueries, keywordMatch)

		manufacturerMatch := bleve.NewMatchQuery(params.Query)
		manufacturerMatch.SetField("manufacturer")
		textQueries = append(textQueries, manufacturerMatch)

		fuzzy := bleve.NewFuzzyQuery(params.Query)
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("title")
		fuzzy.SetBoost(0.8)
		textQueries = append(textQueries, fuzzy)

		if len(params.Query) >= 2 {
			skuPrefix := bleve.NewPrefixQuery(strings.ToUpper(params.Query))
			skuPrefix.SetField("sku")
			skuPrefix.SetBoost(2.0)
			textQueries = append(textQueries, skuPrefix)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if len(params.Categories) > 0 {
		catQueries := make([]query.Query, len(params.Categories))
		for i, c := range params.Categories {
			tq := bleve.NewTermQuery(c)
			tq.SetField("category_facet")
			catQueries[i] = tq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(catQueries...))
	}

	if len(params.Manufacturers) > 0 {
		mfrQueries := make([]query.Query, len(params.Manufacturers))
		for i, m := range params.Manufacturers {
			tq := bleve.NewTermQuery(m)
			tq.SetField("manufacturer_facet")
			mfrQueries[i] = tq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(mfrQueries...))
	}

	if params.InStockOnly {
		inStock := bleve.NewBoolFieldQuery(true)
		inStock.SetField("in_stock")
		queries = append(queries, inStock)
	}

	if params.MinPrice > 0 || params.MaxPrice > 0 {
		minP := params.MinPrice
		maxP := params.MaxPrice
		if maxP == 0 {
			maxP = math.MaxFloat64
		}
		priceRange := bleve.NewNumericRangeQuery(&minP, &maxP)
		priceRange.SetField("price")
		queries = append(queries, priceRange)
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params Params) {
	desc := params.SortOrder == "desc"

	switch params.SortBy {
	case "title":
		if desc {
			req.SortBy([]string{"-title"})
		} else {
			req.SortBy([]string{"title"})
		}
	case "price":
		if desc {
			req.SortBy([]string{"-price"})
		} else {
			req.SortBy([]string{"price"})
		}
	case "stock":
		if desc {
			req.SortBy([]string{"-stock"})
		} else {
			req.SortBy([]string{"stock"})
		}
	default:
		req.SortBy([]string{"-_score"})
	}
}

// extractFacets converts Bleve facets to the API shape.
func extractFacets(res *bleve.SearchResult) Facets {
	facets := Facets{}

	if f, ok := res.Facets["category_facet"]; ok {
		for _, term := range f.Terms.Terms() {
			facets.Categories = append(facets.Categories, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	if f, ok := res.Facets["manufacturer_facet"]; ok {
		for _, term := range f.Terms.Terms() {
			facets.Manufacturers = append(facets.Manufacturers, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	return facets
}
