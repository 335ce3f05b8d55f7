// Package feed downloads and decodes GeoJSON earthquake feeds.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// DefaultUserAgent is sent with every feed request.
const DefaultUserAgent = "quakemap/1.0"

// Client fetches feeds over HTTP.
type Client struct {
	HTTP      *http.Client
	UserAgent string
}

// NewClient returns a client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		HTTP: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        4,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
			Timeout: timeout,
		},
		UserAgent: DefaultUserAgent,
	}
}

// Fetch downloads the feed once and decodes it. Failures are returned as is, there is no retry.
func (c *Client) Fetch(ctx context.Context, url string) (*geojson.FeatureCollection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	// Explicitly ignore close error as it's a read-only operation
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	fc, err := Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	log.Debug().
		Str("url", url).
		Int("features", len(fc.Features)).
		Dur("duration", time.Since(start)).
		Msg("Feed downloaded")

	return fc, nil
}

// Load reads a feed from a URL or, for anything not starting with http, a local file.
func (c *Client) Load(ctx context.Context, source string) (*geojson.FeatureCollection, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return c.Fetch(ctx, source)
	}
	return ReadFile(source)
}

// ReadFile decodes a feed stored on disk. "-" reads from stdin.
func ReadFile(path string) (*geojson.FeatureCollection, error) {
	if path == "-" {
		return Decode(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	fc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return fc, nil
}

// Decode parses a GeoJSON FeatureCollection.
func Decode(r io.Reader) (*geojson.FeatureCollection, error) {
	var fc geojson.FeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode feature collection: %w", err)
	}
	return &fc, nil
}
