// Package quake converts earthquake feed features into styled map markers.
package quake

// Depth bucket colors, shallow to deep.
const (
	ColorShallow = "#FD8D3C" // 20 km or shallower
	ColorLow     = "#FC4E2A" // (20, 50]
	ColorMedium  = "#E31A1C" // (50, 100]
	ColorHigh    = "#BD0026" // (100, 300]
	ColorDeep    = "#800026" // above 300
)

// DepthColor returns the fill color for an earthquake depth in kilometers.
// Each threshold is exclusive, so exactly 300 km still belongs to the
// (100, 300] bucket. Negative depths and NaN fall into the shallow bucket.
func DepthColor(depth float64) string {
	switch {
	case depth > 300:
		return ColorDeep
	case depth > 100:
		return ColorHigh
	case depth > 50:
		return ColorMedium
	case depth > 20:
		return ColorLow
	default:
		return ColorShallow
	}
}

// LegendEntry pairs a depth range with its color.
type LegendEntry struct {
	Label string  `json:"label" yaml:"label"`
	Color string  `json:"color" yaml:"color"`
	Min   float64 `json:"min"   yaml:"min"`
	// Max is nil for the open-ended deepest bucket.
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

var legendBounds = []float64{0, 20, 50, 100, 300}

// Legend returns the five static depth legend entries, shallow first.
func Legend() []LegendEntry {
	entries := make([]LegendEntry, 0, len(legendBounds))
	for i, lo := range legendBounds {
		e := LegendEntry{
			Min:   lo,
			Color: DepthColor(lo + 1),
		}
		if i+1 < len(legendBounds) {
			hi := legendBounds[i+1]
			e.Max = &hi
			e.Label = formatNumber(lo) + "–" + formatNumber(hi)
		} else {
			e.Label = formatNumber(lo) + "+"
		}
		entries = append(entries, e)
	}
	return entries
}
