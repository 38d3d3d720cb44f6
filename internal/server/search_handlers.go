package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/shopfrontapp/shopfront/internal/errors"
	"github.com/shopfrontapp/shopfront/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchProducts",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search products",
		Description: "Full-text search over the product catalog with category and manufacturer filters",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching the catalog.
type SearchInput struct {
	Query         string  `query:"q" validate:"omitempty,max=200" doc:"Search query. Omit to list everything."`
	Categories    string  `query:"categories" validate:"omitempty,max=400" doc:"Comma-separated exact category values"`
	Manufacturers string  `query:"manufacturers" validate:"omitempty,max=400" doc:"Comma-separated exact manufacturer values"`
	InStock       bool    `query:"in_stock" doc:"Only return products that are in stock"`
	MinPrice      float64 `query:"min_price" validate:"omitempty,gte=0" doc:"Minimum price"`
	MaxPrice      float64 `query:"max_price" validate:"omitempty,gte=0" doc:"Maximum price"`
	Limit         int     `query:"limit" validate:"omitempty,gte=1,lte=100" doc:"Max results (default 20)"`
	Offset        int     `query:"offset" validate:"omitempty,gte=0" doc:"Pagination offset"`
	Sort          string  `query:"sort" validate:"omitempty,oneof=relevance title price stock" doc:"Sort field (default relevance)"`
	Order         string  `query:"order" validate:"omitempty,oneof=asc desc" doc:"Sort order (default desc)"`
	Facets        bool    `query:"facets" doc:"Include category and manufacturer facet counts"`
}

// ProductHit is a single search result.
type ProductHit struct {
	SKU          string            `json:"sku" doc:"Product SKU"`
	Score        float64           `json:"score" doc:"Search relevance score"`
	Title        string            `json:"title" doc:"Display title"`
	Manufacturer string            `json:"manufacturer,omitempty" doc:"Manufacturer"`
	Category     string            `json:"category,omitempty" doc:"Category"`
	PartNumber   string            `json:"part_number,omitempty" doc:"Manufacturer part number"`
	Features     string            `json:"features,omitempty" doc:"Feature summary"`
	PriceDisplay string            `json:"price,omitempty" doc:"Formatted price"`
	Stock        int               `json:"stock" doc:"On-hand quantity"`
	InStock      bool              `json:"in_stock" doc:"Whether the product counts as in stock"`
	PhotoPath    string            `json:"photo_path,omitempty" doc:"Relative photo path"`
	BlurHash     string            `json:"blurhash,omitempty" doc:"Photo placeholder hash"`
	Highlights   map[string]string `json:"highlights,omitempty" doc:"Highlighted matches"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value" doc:"Facet value"`
	Count int    `json:"count" doc:"Number of matches"`
}

// SearchFacets contains facet counts for filtering.
type SearchFacets struct {
	Categories    []FacetCount `json:"categories,omitempty" doc:"Category facets"`
	Manufacturers []FacetCount `json:"manufacturers,omitempty" doc:"Manufacturer facets"`
}

// SearchResponse contains one page of search results.
type SearchResponse struct {
	Query  string        `json:"query" doc:"Original search query"`
	Total  uint64        `json:"total" doc:"Total matches"`
	TookMs int64         `json:"took_ms" doc:"Search duration in milliseconds"`
	Hits   []ProductHit  `json:"hits" doc:"Search results"`
	Facets *SearchFacets `json:"facets,omitempty" doc:"Facet counts for filtering"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}
	if s.index == nil {
		return nil, domainerrors.Unavailable("search index not built; rerun build with -index")
	}

	params := search.Params{
		Query:         input.Query,
		Categories:    splitCSV(input.Categories),
		Manufacturers: splitCSV(input.Manufacturers),
		InStockOnly:   input.InStock,
		MinPrice:      input.MinPrice,
		MaxPrice:      input.MaxPrice,
		Limit:         input.Limit,
		Offset:        input.Offset,
		SortBy:        input.Sort,
		SortOrder:     input.Order,
		IncludeFacets: input.Facets,
		Highlight:     true,
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}

	s.logger.Debug("search request",
		"query", input.Query,
		"categories", input.Categories,
		"limit", params.Limit,
	)

	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "search failed")
	}

	resp := SearchResponse{
		Query:  result.Query,
		Total:  result.Total,
		TookMs: result.TookMs,
		Hits:   make([]ProductHit, 0, len(result.Hits)),
	}

	for _, hit := range result.Hits {
		resp.Hits = append(resp.Hits, ProductHit{
			SKU:          hit.SKU,
			Score:        hit.Score,
			Title:        hit.Title,
			Manufacturer: hit.Manufacturer,
			Category:     hit.Category,
			PartNumber:   hit.PartNumber,
			Features:     hit.Features,
			PriceDisplay: hit.PriceDisplay,
			Stock:        hit.Stock,
			InStock:      hit.InStock,
			PhotoPath:    hit.PhotoPath,
			BlurHash:     hit.BlurHash,
			Highlights:   hit.Highlights,
		})
	}

	if input.Facets {
		facets := &SearchFacets{}
		for _, f := range result.Facets.Categories {
			facets.Categories = append(facets.Categories, FacetCount(f))
		}
		for _, f := range result.Facets.Manufacturers {
			facets.Manufacturers = append(facets.Manufacturers, FacetCount(f))
		}
		resp.Facets = facets
	}

	return &SearchOutput{Body: resp}, nil
}

// splitCSV splits a comma-separated query value, dropping blanks.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
