// Package geo handles coordinate projections used for raster rendering.
package geo

import "math"

// MaxLat is the latitude limit of the square Web Mercator world.
const MaxLat = 85.05112878

// LonLatToPixel projects WGS84 Lon/Lat onto a square Web Mercator canvas of
// the given size in pixels, the same projection Leaflet uses for its tiles.
//
// Longitude [-180, 180] maps to x [0, size], latitude [MaxLat, -MaxLat] maps
// to y [0, size]. Latitudes beyond MaxLat are clamped.
func LonLatToPixel(lon, lat, size float64) (x, y float64) {
	if lat > MaxLat {
		lat = MaxLat
	} else if lat < -MaxLat {
		lat = -MaxLat
	}

	// lon: [-180..180] -> x: [0..size]
	x = (lon + 180.0) / 360.0 * size

	// Forward Mercator projection, mercatorY: [PI..-PI]
	latRad := lat * (math.Pi / 180.0)
	mercatorY := math.Log(math.Tan(math.Pi*0.25 + latRad*0.5))

	// mercatorY: [PI..-PI] -> y: [0..size]
	y = (math.Pi - mercatorY) / (2.0 * math.Pi) * size

	return x, y
}

// WrapLon normalizes a longitude into [-180, 180).
func WrapLon(lon float64) float64 {
	lon = math.Mod(lon+180.0, 360.0)
	if lon < 0 {
		lon += 360.0
	}
	return lon - 180.0
}
