package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNotModified is returned by Fetch when the server answers 304 to a
// conditional request.
var ErrNotModified = errors.New("not modified")

// MAX_BODY_BYTES caps a downloaded source file.
const MAX_BODY_BYTES = 256 << 20

// HTTPClient struct to hold base URL and HTTP client configuration
type HTTPClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewHTTPClient creates a new instance of HTTPClient with the given timeout
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Document is a downloaded file together with its cache validators.
type Document struct {
	Body         []byte
	ContentType  string
	ETag         string
	LastModified string
}

// Fetch downloads endpoint (relative to BaseURL). A non-empty etag makes the
// request conditional; an unchanged resource yields ErrNotModified.
func (c *HTTPClient) Fetch(ctx context.Context, endpoint string, etag string) (*Document, error) {
	url := c.BaseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotModified {
		return nil, ErrNotModified
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, errors.New("unexpected status code: " + res.Status)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, MAX_BODY_BYTES+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", url, err)
	}
	if len(body) > MAX_BODY_BYTES {
		return nil, fmt.Errorf("body of %s exceeds %d bytes", url, MAX_BODY_BYTES)
	}

	return &Document{
		Body:         body,
		ContentType:  res.Header.Get("Content-Type"),
		ETag:         res.Header.Get("ETag"),
		LastModified: res.Header.Get("Last-Modified"),
	}, nil
}
