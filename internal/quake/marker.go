package quake

import (
	"errors"
	"fmt"
	"time"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Marker styling shared by every earthquake.
const (
	RadiusScale = 3.0
	StrokeColor = "#000"
	StrokeWidth = 1.0
	Opacity     = 1.0
	FillOpacity = 0.8
)

var (
	ErrNoFeature       = errors.New("feature is nil")
	ErrNotPoint        = errors.New("geometry is not a point")
	ErrNoDepth         = errors.New("point has no depth coordinate")
	ErrMissingProperty = errors.New("missing property")
	ErrPropertyType    = errors.New("unexpected property type")
)

// Style holds the circle marker options understood by the map client.
type Style struct {
	Radius      float64 `json:"radius"      yaml:"radius"`
	FillColor   string  `json:"fillColor"   yaml:"fill_color"`
	Color       string  `json:"color"       yaml:"color"`
	Weight      float64 `json:"weight"      yaml:"weight"`
	Opacity     float64 `json:"opacity"     yaml:"opacity"`
	FillOpacity float64 `json:"fillOpacity" yaml:"fill_opacity"`
}

// Marker is the visual representation of one earthquake.
type Marker struct {
	Time time.Time `json:"time" yaml:"time"`
	// Magnitude is nil when the feed reports no magnitude.
	Magnitude *float64 `json:"mag"   yaml:"mag"`
	ID        string   `json:"id,omitempty" yaml:"id,omitempty"`
	Place     string   `json:"place" yaml:"place"`
	Popup     string   `json:"popup" yaml:"popup"`
	Style     Style    `json:"style" yaml:"style"`
	Lon       float64  `json:"lon"   yaml:"lon"`
	Lat       float64  `json:"lat"   yaml:"lat"`
	Depth     float64  `json:"depth" yaml:"depth"`
}

// NewStyle derives the circle style from magnitude and depth.
// The radius is not clamped, zero or negative magnitudes give zero or negative radii.
func NewStyle(mag, depth float64) Style {
	return Style{
		Radius:      mag * RadiusScale,
		FillColor:   DepthColor(depth),
		Color:       StrokeColor,
		Weight:      StrokeWidth,
		Opacity:     Opacity,
		FillOpacity: FillOpacity,
	}
}

// NewMarker converts a single feed feature into a marker.
// Timestamps in the popup are rendered in loc, UTC when loc is nil.
func NewMarker(f *geojson.Feature, loc *time.Location) (Marker, error) {
	if f == nil {
		return Marker{}, ErrNoFeature
	}
	if loc == nil {
		loc = time.UTC
	}

	point, ok := f.Geometry.(*geom.Point)
	if !ok || point == nil {
		return Marker{}, fmt.Errorf("%w: %T", ErrNotPoint, f.Geometry)
	}
	if point.Layout().ZIndex() == -1 {
		return Marker{}, ErrNoDepth
	}

	place, err := stringProperty(f.Properties, "place")
	if err != nil {
		return Marker{}, err
	}
	mag, err := numberProperty(f.Properties, "mag")
	if err != nil {
		return Marker{}, err
	}
	ms, err := numberProperty(f.Properties, "time")
	if err != nil {
		return Marker{}, err
	}
	if ms == nil {
		return Marker{}, fmt.Errorf("%w: %q is null", ErrPropertyType, "time")
	}

	m := Marker{
		ID:        f.ID,
		Place:     place,
		Magnitude: mag,
		Lon:       point.X(),
		Lat:       point.Y(),
		Depth:     point.Z(),
		Time:      time.UnixMilli(int64(*ms)).In(loc),
	}

	var radiusMag float64
	if mag != nil {
		radiusMag = *mag
	}
	m.Style = NewStyle(radiusMag, m.Depth)
	m.Popup = Popup(m)

	return m, nil
}

// Markers converts every feature of the collection, in order.
// The result has exactly one marker per feature; any malformed feature fails the whole conversion.
func Markers(fc *geojson.FeatureCollection, loc *time.Location) ([]Marker, error) {
	if fc == nil {
		return []Marker{}, nil
	}

	markers := make([]Marker, 0, len(fc.Features))
	for i, f := range fc.Features {
		m, err := NewMarker(f, loc)
		if err != nil {
			id := ""
			if f != nil {
				id = f.ID
			}
			return nil, fmt.Errorf("feature %d (%s): %w", i, id, err)
		}
		markers = append(markers, m)
	}

	return markers, nil
}

// stringProperty returns a string property. JSON null is read as an empty string.
func stringProperty(props map[string]interface{}, key string) (string, error) {
	v, ok := props[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMissingProperty, key)
	}
	if v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q is %T", ErrPropertyType, key, v)
	}
	return s, nil
}

// numberProperty returns a numeric property, nil for JSON null.
func numberProperty(props map[string]interface{}, key string) (*float64, error) {
	v, ok := props[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingProperty, key)
	}
	if v == nil {
		return nil, nil
	}

	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	default:
		return nil, fmt.Errorf("%w: %q is %T", ErrPropertyType, key, v)
	}
	return &n, nil
}
