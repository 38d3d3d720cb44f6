// Package photos fetches representative product photos from the web and
// normalizes them for the catalog page.
//
// The fetch loop is deliberately sequential: one request in flight, a fixed
// pause between products, and a bounded candidate list per product tried in
// order until one downloads and decodes cleanly. Image search providers
// throttle aggressively, so politeness here is correctness.
package photos

import (
	"context"
	"net/url"
	"path"
	"strings"
)

// Candidate is one image URL proposed by a search source.
type Candidate struct {
	URL    string
	Source string // host the candidate came from
}

// Searcher proposes candidate image URLs for a query.
type Searcher interface {
	Search(ctx context.Context, query string, max int) ([]Candidate, error)
}

// allowedDomains are retailer and CDN hosts whose product images are
// reliably representative. Candidates from these hosts are tried first.
//
//nolint:gochecknoglobals // Static preference list
var allowedDomains = []string{
	"midwayusa.com", "ammoseek.com", "palmettostatearmory.com", "sportsmans.com",
	"images-na.ssl-images-amazon.com", "m.media-amazon.com", "targetsportsusa.com",
	"brownells.com", "academysports.com", "basspro.com", "cabelas.com",
	"cheaperthandirt.com", "sgammo.com", "gunmagwarehouse.com",
	"sportsmansguide.com", "natchezss.com", "opticsplanet.com",
}

// validExtensions are the image file extensions worth downloading.
//
//nolint:gochecknoglobals // Static lookup table
var validExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

// Query builds the search query for a product: manufacturer, cleaned title,
// then SKU, skipping blanks.
func Query(title, manufacturer, sku string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{manufacturer, title, sku} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// usableImageURL reports whether a candidate URL points at a downloadable
// image format.
func usableImageURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return validExtensions[strings.ToLower(path.Ext(u.Path))]
}

// allowedHost reports whether the URL's host is on the preferred retailer
// list. Subdomains of an allowed domain count.
func allowedHost(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, d := range allowedDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// rankCandidates filters out non-image URLs and orders candidates from
// allowed retailer hosts before the rest, keeping relative order otherwise.
func rankCandidates(candidates []Candidate) []Candidate {
	var preferred, other []Candidate
	for _, c := range candidates {
		if !usableImageURL(c.URL) {
			continue
		}
		if allowedHost(c.URL) {
			preferred = append(preferred, c)
		} else {
			other = append(other, c)
		}
	}
	return append(preferred, other...)
}
