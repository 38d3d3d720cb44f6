package photos

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const (
	ddgTokenURL  = "https://duckduckgo.com/"
	ddgImagesURL = "https://duckduckgo.com/i.js"

	// ddgUserAgent mimics a desktop browser; the token endpoint refuses
	// obvious bots.
	ddgUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0 Safari/537.36"

	ddgTimeout = 30 * time.Second
)

// vqdPattern extracts the per-query token from the search page scripts.
var vqdPattern = regexp.MustCompile(`vqd=["']?([0-9-]+)["']?`)

// DuckDuckGo searches the DuckDuckGo image vertical.
//
// Image search needs two round trips: the HTML search page issues a per-query
// "vqd" token, and the i.js endpoint returns the actual results as JSON.
type DuckDuckGo struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewDuckDuckGo creates a DuckDuckGo image search client.
// Rate limited to one query per two seconds with a small burst; the token
// and result requests for one query count as a single search.
func NewDuckDuckGo(logger *slog.Logger) *DuckDuckGo {
	return &DuckDuckGo{
		httpClient: &http.Client{
			Timeout: ddgTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Every(2*time.Second), 2),
		logger:      logger,
	}
}

// ddgResponse is the raw i.js payload.
type ddgResponse struct {
	Results []ddgResult `json:"results"`
}

type ddgResult struct {
	Image     string `json:"image"`
	Thumbnail string `json:"thumbnail"`
	Title     string `json:"title"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Search implements Searcher. Results are ranked so preferred retailer hosts
// come first and non-image URLs are dropped.
func (d *DuckDuckGo) Search(ctx context.Context, query string, max int) ([]Candidate, error) {
	if err := d.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	vqd, err := d.token(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search token: %w", err)
	}

	params := url.Values{}
	params.Set("l", "us-en")
	params.Set("o", "json")
	params.Set("q", query)
	params.Set("vqd", vqd)
	params.Set("p", "-1") // safesearch off, product photos trip filters

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ddgImagesURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", ddgUserAgent)
	req.Header.Set("Referer", ddgTokenURL)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image search failed: status %d", resp.StatusCode)
	}

	var payload ddgResponse
	if err := json.UnmarshalRead(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}

	candidates := make([]Candidate, 0, len(payload.Results))
	for _, r := range payload.Results {
		u := r.Image
		if u == "" {
			u = r.Thumbnail
		}
		if u == "" {
			continue
		}
		candidates = append(candidates, Candidate{URL: u, Source: hostOf(u)})
	}

	ranked := rankCandidates(candidates)
	if max > 0 && len(ranked) > max {
		ranked = ranked[:max]
	}

	d.logger.Debug("image search results",
		"query", query,
		"raw", len(payload.Results),
		"usable", len(ranked),
	)

	return ranked, nil
}

// token fetches the per-query vqd token from the search page.
// The token is embedded in an inline script, so the page is parsed and each
// script body is scanned.
func (d *DuckDuckGo) token(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("iax", "images")
	params.Set("ia", "images")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ddgTokenURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", ddgUserAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token page failed: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("parse token page: %w", err)
	}

	var vqd string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m := vqdPattern.FindStringSubmatch(s.Text()); m != nil {
			vqd = m[1]
			return false
		}
		return true
	})

	if vqd == "" {
		return "", fmt.Errorf("no vqd token in search page")
	}
	return vqd, nil
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
