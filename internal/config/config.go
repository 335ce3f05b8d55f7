// Package config handles configuration loading and shared data structures.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// Defaults used when the configuration file leaves a value empty.
const (
	DefaultFeedURL        = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_month.geojson"
	DefaultTileURL        = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultAttribution    = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`
	DefaultZoom           = 1.5
	DefaultBaseLayer      = "Street Map"
	DefaultOverlay        = "Earthquakes"
	DefaultLegendPosition = "bottomright"
	DefaultLegendTitle    = "Depth Legend"
	DefaultTitle          = "Earthquakes"
	DefaultPreviewWidth   = 1024
	DefaultPreviewQuality = 85
)

// DefaultCenter is the initial map center as [lat, lon].
var DefaultCenter = []float64{2, 20}

// Config represents the root configuration file structure.
type Config struct {
	FeedURL  string  `yaml:"feed_url,omitempty"`
	TimeZone string  `yaml:"timezone,omitempty"`
	Map      View    `yaml:"map"`
	Preview  Preview `yaml:"preview"`
}

// View describes the initial state of the web map.
// It is passed as-is to the client script, hence the JSON tags.
type View struct {
	Title          string    `yaml:"title,omitempty"           json:"title"`
	Center         []float64 `yaml:"center,omitempty"          json:"center"` // [Lat, Lon]
	Zoom           *float64  `yaml:"zoom,omitempty"            json:"zoom"`
	TileURL        string    `yaml:"tile_url,omitempty"        json:"tileUrl"`
	Attribution    string    `yaml:"attribution,omitempty"     json:"attribution"`
	BaseLayer      string    `yaml:"base_layer,omitempty"      json:"baseLayer"`
	Overlay        string    `yaml:"overlay,omitempty"         json:"overlay"`
	LegendPosition string    `yaml:"legend_position,omitempty" json:"legendPosition"`
	LegendTitle    string    `yaml:"legend_title,omitempty"    json:"legendTitle"`
	Collapsed      bool      `yaml:"collapsed,omitempty"       json:"collapsed"`
}

// Preview configures the static WebP rendering of the marker layer.
type Preview struct {
	Width   int     `yaml:"width,omitempty"`
	Quality float32 `yaml:"quality,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.Normalize()
	return cfg
}

// Load reads and parses the YAML configuration file from the specified path.
// A missing file is not an error, defaults are used instead.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.Normalize()

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Normalize fills empty fields with defaults.
func (c *Config) Normalize() {
	if c.FeedURL == "" {
		c.FeedURL = DefaultFeedURL
	}
	if c.TimeZone == "" {
		c.TimeZone = "UTC"
	}

	m := &c.Map
	if len(m.Center) != 2 {
		m.Center = append([]float64(nil), DefaultCenter...)
	}
	// zoom 0 is a valid level, only an absent key takes the default
	if m.Zoom == nil {
		zoom := DefaultZoom
		m.Zoom = &zoom
	}
	if m.TileURL == "" {
		m.TileURL = DefaultTileURL
	}
	if m.Attribution == "" {
		m.Attribution = DefaultAttribution
	}
	if m.BaseLayer == "" {
		m.BaseLayer = DefaultBaseLayer
	}
	if m.Overlay == "" {
		m.Overlay = DefaultOverlay
	}
	if m.LegendPosition == "" {
		m.LegendPosition = DefaultLegendPosition
	}
	if m.LegendTitle == "" {
		m.LegendTitle = DefaultLegendTitle
	}
	if m.Title == "" {
		m.Title = DefaultTitle
	}

	if c.Preview.Width <= 0 {
		c.Preview.Width = DefaultPreviewWidth
	}
	if c.Preview.Quality <= 0 || c.Preview.Quality > 100 {
		c.Preview.Quality = DefaultPreviewQuality
	}
}

// Location resolves the configured time zone used for popup timestamps.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}
