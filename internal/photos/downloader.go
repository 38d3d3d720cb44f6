package photos

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// maxPhotoSize limits download size to prevent memory exhaustion.
	maxPhotoSize = 10 * 1024 * 1024 // 10MB

	// downloadTimeout is the maximum time for a single photo download.
	downloadTimeout = 15 * time.Second
)

// Downloader fetches candidate image bytes.
type Downloader struct {
	httpClient *http.Client
}

// NewDownloader creates a photo downloader.
func NewDownloader() *Downloader {
	return &Downloader{
		httpClient: &http.Client{
			Timeout: downloadTimeout,
		},
	}
}

// Download fetches the raw bytes of a candidate URL, capped at maxPhotoSize.
func (d *Downloader) Download(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty photo URL")
	}

	downloadCtx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(downloadCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", ddgUserAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoSize))
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	return data, nil
}
