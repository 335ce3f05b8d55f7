package server

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/woozymasta/quakemap/internal/config"
	"github.com/woozymasta/quakemap/internal/page"
	"github.com/woozymasta/quakemap/internal/preview"
	"github.com/woozymasta/quakemap/internal/quake"

	"github.com/rs/zerolog/log"
)

// EarthquakesPath is where the browser fetches the marker layer from.
const EarthquakesPath = "/api/earthquakes"

// ServerContext holds dependencies for request handlers.
// Page and layer bodies are computed once. Previews for other widths
// are rendered on first request and cached.
type ServerContext struct {
	Config      *config.Config
	Markers     []quake.Marker
	IndexHTML   []byte
	IndexETag   string
	GeoJSON     []byte
	GeoJSONETag string
	Legend      []byte
	Favicon     []byte
	FetchedAt   time.Time

	previews *previewCache
}

// NewServerContext renders the page and encodes the marker layer.
func NewServerContext(cfg *config.Config, markers []quake.Marker, renderer *page.Renderer) (*ServerContext, error) {
	log.Info().Int("markers", len(markers)).Msg("Initializing server context")

	index, err := renderer.Bytes(cfg.Map, page.Data{DataURL: EarthquakesPath, FaviconURL: "/favicon.ico"})
	if err != nil {
		return nil, fmt.Errorf("render index: %w", err)
	}

	layer, err := json.Marshal(quake.FeatureCollection(markers))
	if err != nil {
		return nil, fmt.Errorf("encode markers: %w", err)
	}

	legend, err := json.Marshal(quake.Legend())
	if err != nil {
		return nil, fmt.Errorf("encode legend: %w", err)
	}

	favicon, err := renderer.Favicon()
	if err != nil {
		return nil, fmt.Errorf("render favicon: %w", err)
	}

	previews := newPreviewCache(markers, cfg.Preview.Quality)
	thumb, err := previews.get(preview.ClampWidth(cfg.Preview.Width))
	if err != nil {
		return nil, fmt.Errorf("render preview: %w", err)
	}

	log.Debug().
		Int("index_bytes", len(index)).
		Int("geojson_bytes", len(layer)).
		Int("preview_bytes", len(thumb.body)).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:      cfg,
		Markers:     markers,
		IndexHTML:   index,
		IndexETag:   etag(index),
		GeoJSON:     layer,
		GeoJSONETag: etag(layer),
		Legend:      legend,
		Favicon:     favicon,
		FetchedAt:   time.Now().UTC(),
		previews:    previews,
	}, nil
}

func etag(data []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return fmt.Sprintf(`"%x-%x"`, len(data), h.Sum64())
}
