package main

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/woozymasta/quakemap/internal/config"
	"github.com/woozymasta/quakemap/internal/quake"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testMarkers() []quake.Marker {
	mag := 5.2
	m := quake.Marker{
		ID:        "test1",
		Place:     "Test Region",
		Magnitude: &mag,
		Lon:       10,
		Lat:       20,
		Depth:     45,
		Time:      time.UnixMilli(1700000000000).UTC(),
		Style:     quake.NewStyle(mag, 45),
	}
	m.Popup = quake.Popup(m)
	return []quake.Marker{m, m}
}

func TestRenderJSON(t *testing.T) {
	out, err := render(config.Default(), testMarkers(), Options{Format: "json"})
	require.NoError(t, err)

	var fc struct {
		Features []json.RawMessage `json:"features"`
	}
	require.NoError(t, json.Unmarshal(out, &fc))
	assert.Len(t, fc.Features, 2)
}

func TestRenderYAML(t *testing.T) {
	out, err := render(config.Default(), testMarkers(), Options{Format: "yaml"})
	require.NoError(t, err)

	var markers []map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &markers))
	require.Len(t, markers, 2)
	assert.Equal(t, "Test Region", markers[0]["place"])
	assert.Equal(t, 5.2, markers[0]["mag"])
}

func TestRenderHTML(t *testing.T) {
	out, err := render(config.Default(), testMarkers(), Options{Format: "html"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "Test Region")
	assert.Contains(t, string(out), "leaflet")
}

func TestRenderWebP(t *testing.T) {
	out, err := render(config.Default(), testMarkers(), Options{Format: "webp", Width: 96})
	require.NoError(t, err)
	require.Greater(t, len(out), 12)
	assert.Equal(t, "RIFF", string(out[:4]))
	assert.Equal(t, "WEBP", string(out[8:12]))
}
