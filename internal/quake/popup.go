package quake

import (
	"html"
	"strconv"
	"strings"
)

// TimeLayout renders popup timestamps the way browsers print dates.
// The parenthesized zone is the abbreviation (UTC, JST), not the long name.
const TimeLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

// Popup builds the popup HTML for a marker: place, magnitude, depth and time, in that order.
func Popup(m Marker) string {
	mag := "unknown"
	if m.Magnitude != nil {
		mag = formatNumber(*m.Magnitude)
	}

	var b strings.Builder
	b.WriteString("<h3>")
	b.WriteString(html.EscapeString(m.Place))
	b.WriteString("</h3><hr><p>Magnitude: ")
	b.WriteString(mag)
	b.WriteString("</p><p>Depth: ")
	b.WriteString(formatNumber(m.Depth))
	b.WriteString("</p><p>")
	b.WriteString(m.Time.Format(TimeLayout))
	b.WriteString("</p>")

	return b.String()
}

// formatNumber prints the shortest decimal representation, "45" rather than "45.000000".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
