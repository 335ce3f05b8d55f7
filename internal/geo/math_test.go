package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLonLatToPixel(t *testing.T) {
	const size = 256.0

	tests := []struct {
		name     string
		lon, lat float64
		x, y     float64
	}{
		{"origin", 0, 0, 128, 128},
		{"north west corner", -180, MaxLat, 0, 0},
		{"south east corner", 180, -MaxLat, 256, 256},
		{"clamped north", 30, 89.9, 149.333333, 0},
		{"clamped south", -90, -90, 64, 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := LonLatToPixel(tt.lon, tt.lat, size)
			assert.InDelta(t, tt.x, x, 1e-3)
			assert.InDelta(t, tt.y, y, 1e-3)
		})
	}
}

func TestLonLatToPixelSymmetry(t *testing.T) {
	_, north := LonLatToPixel(0, 45, 1000)
	_, south := LonLatToPixel(0, -45, 1000)
	assert.InDelta(t, 1000.0, north+south, 1e-9)
	assert.Less(t, north, 500.0)
}

func TestWrapLon(t *testing.T) {
	assert.InDelta(t, 0.0, WrapLon(360), 1e-9)
	assert.InDelta(t, -170.0, WrapLon(190), 1e-9)
	assert.InDelta(t, 170.0, WrapLon(-190), 1e-9)
	assert.InDelta(t, -180.0, WrapLon(180), 1e-9)
	assert.InDelta(t, 12.5, WrapLon(12.5), 1e-9)
}
