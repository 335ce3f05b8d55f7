package quake

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// FeatureCollection encodes markers as GeoJSON points carrying their style and popup
// in the properties, ready for L.geoJSON on the client.
func FeatureCollection(markers []Marker) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{
		Features: make([]*geojson.Feature, 0, len(markers)),
	}

	for _, m := range markers {
		point := geom.NewPointFlat(geom.XYZ, []float64{m.Lon, m.Lat, m.Depth})

		props := map[string]interface{}{
			"place":       m.Place,
			"time":        m.Time.UnixMilli(),
			"radius":      m.Style.Radius,
			"fillColor":   m.Style.FillColor,
			"color":       m.Style.Color,
			"weight":      m.Style.Weight,
			"opacity":     m.Style.Opacity,
			"fillOpacity": m.Style.FillOpacity,
			"popup":       m.Popup,
		}
		if m.Magnitude != nil {
			props["mag"] = *m.Magnitude
		} else {
			props["mag"] = nil
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         m.ID,
			Geometry:   point,
			Properties: props,
		})
	}

	return fc
}
